package domain

import "time"

// Board groups saved recipes under a user-chosen name.
type Board struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	OwnerID   string    `json:"owner_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BoardWithPreviews is a board plus its newest recipes, used by the boards
// overview screen so it can render thumbnails without a second round trip.
type BoardWithPreviews struct {
	Board
	Previews []*Recipe `json:"previews"`
}
