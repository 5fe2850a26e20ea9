package extractor

import (
	"encoding/json"
	"strings"

	"github.com/tastify/tastify-backend-go/internal/domain"
	apperrors "github.com/tastify/tastify-backend-go/pkg/errors"
)

// ParseModelOutput turns a raw model response into a ParsedRecipe. The model
// is instructed to emit bare JSON but routinely wraps it in markdown fences
// or commentary anyway, so the parser strips fences and slices from the
// first '{' to the last '}' before decoding.
func ParseModelOutput(text string) (*domain.ParsedRecipe, error) {
	cleaned := strings.TrimSpace(text)
	cleaned = strings.ReplaceAll(cleaned, "```json", "")
	cleaned = strings.ReplaceAll(cleaned, "```", "")

	start := strings.Index(cleaned, "{")
	end := strings.LastIndex(cleaned, "}")
	if start == -1 || end == -1 || end < start {
		return nil, apperrors.NewMalformedResponseError("no JSON object in response", nil)
	}

	var recipe domain.ParsedRecipe
	if err := json.Unmarshal([]byte(cleaned[start:end+1]), &recipe); err != nil {
		return nil, apperrors.NewMalformedResponseError("invalid JSON", err)
	}

	// Presence checks only: a recipe with zero steps is unusual but valid,
	// a recipe with no steps field at all is not. Macro values pass through
	// unvalidated; consumers tolerate missing optional fields.
	if recipe.Title == "" {
		return nil, apperrors.NewMalformedResponseError("missing title", nil)
	}
	if recipe.Ingredients == nil {
		return nil, apperrors.NewMalformedResponseError("missing ingredients", nil)
	}
	if recipe.Steps == nil {
		return nil, apperrors.NewMalformedResponseError("missing steps", nil)
	}

	return &recipe, nil
}
