package domain

import "time"

// Ingredient is a single recipe line item.
type Ingredient struct {
	Item     string `json:"item"`
	Quantity string `json:"quantity"`
	Notes    string `json:"notes,omitempty"`
}

// Macros holds per-serving nutrition estimates. Every field is optional -
// the model may omit any of them and downstream consumers must cope.
type Macros struct {
	Calories *float64 `json:"calories,omitempty"`
	Protein  *float64 `json:"protein,omitempty"`
	Fat      *float64 `json:"fat,omitempty"`
	Carbs    *float64 `json:"carbs,omitempty"`
	Fiber    *float64 `json:"fiber,omitempty"`
	Sugar    *float64 `json:"sugar,omitempty"`
}

// ParsedRecipe is the structured unit handed from the extraction pipeline to
// storage and UI. Invariant: Title is non-empty and Ingredients/Steps are
// non-nil (possibly empty) ordered slices.
type ParsedRecipe struct {
	Title       string       `json:"title"`
	Ingredients []Ingredient `json:"ingredients"`
	Steps       []string     `json:"steps"`
	Macros      Macros       `json:"macros"`
	PrepTime    string       `json:"prep_time,omitempty"`
	CookTime    string       `json:"cook_time,omitempty"`
	Servings    string       `json:"servings,omitempty"`
}

// Recipe is the persisted form of a ParsedRecipe, owned by a user.
type Recipe struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Ingredients []Ingredient `json:"ingredients"`
	Steps       []string     `json:"steps"`
	Macros      Macros       `json:"macros"`
	VideoURL    string       `json:"video_url,omitempty"`
	OwnerID     string       `json:"owner_id"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// CreateRecipeRequest carries the fields a caller supplies when persisting a
// recipe. OwnerID is attached by the delivery layer from the request identity.
type CreateRecipeRequest struct {
	Title       string       `json:"title"`
	Ingredients []Ingredient `json:"ingredients"`
	Steps       []string     `json:"steps"`
	Macros      Macros       `json:"macros"`
	VideoURL    string       `json:"video_url,omitempty"`
}
