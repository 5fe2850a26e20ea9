package domain

import "time"

// SharedLink is the payload the OS share sheet deposits for the app to pick
// up. It lives in a single-slot per-user mailbox and is consumed exactly once.
type SharedLink struct {
	URL      string    `json:"url"`
	SharedAt time.Time `json:"shared_at"`
}

// IsFresh reports whether the link was deposited within the freshness window.
func (s *SharedLink) IsFresh(window time.Duration, now time.Time) bool {
	if s == nil {
		return false
	}
	return now.Sub(s.SharedAt) < window
}
