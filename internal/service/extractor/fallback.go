package extractor

import (
	"fmt"

	"github.com/tastify/tastify-backend-go/internal/constants"
	"github.com/tastify/tastify-backend-go/internal/domain"
	"github.com/tastify/tastify-backend-go/internal/util"
)

// SynthesizeFallback produces the deterministic placeholder recipe returned
// when scraping or parsing fails. The shape is always schema-valid so the
// orchestrator can guarantee the caller gets a recipe past classification.
func SynthesizeFallback(meta domain.VideoMetadata) *domain.ParsedRecipe {
	title := meta.Title
	if title == "" {
		title = fmt.Sprintf("Delicious %s Recipe", meta.Platform)
	}
	title = util.TruncateString(title, constants.ScraperConfig.FallbackTitleMax)

	return &domain.ParsedRecipe{
		Title: title,
		Ingredients: []domain.Ingredient{
			{Item: "Main ingredient", Quantity: "2 cups", Notes: "or as needed"},
			{Item: "Seasoning", Quantity: "1 tsp", Notes: "to taste"},
			{Item: "Cooking oil", Quantity: "2 tbsp"},
		},
		Steps: []string{
			"Prepare all ingredients according to the video instructions",
			"Follow the cooking method shown in the video",
			"Season to taste and serve as demonstrated",
		},
		Macros: domain.Macros{
			Calories: f64(300),
			Protein:  f64(10),
			Fat:      f64(15),
			Carbs:    f64(35),
			Fiber:    f64(3),
		},
		PrepTime: "10 minutes",
		CookTime: "15 minutes",
		Servings: "2-4",
	}
}

func f64(v float64) *float64 {
	return &v
}
