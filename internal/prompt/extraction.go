package prompt

import (
	"fmt"
	"strings"

	"github.com/tastify/tastify-backend-go/internal/domain"
)

// ExtractionPromptVars holds variables for the recipe extraction prompt.
type ExtractionPromptVars struct {
	VideoURL string
	Metadata domain.VideoMetadata
}

// BuildExtractionPrompt builds the single-shot recipe extraction request.
// The prompt carries the full weight of sparse-metadata recovery: it tells
// the model to infer from title/description keywords and, when those are
// thin, to reconstruct a plausible recipe from its knowledge of popular
// dishes on the platform rather than refuse.
func BuildExtractionPrompt(vars ExtractionPromptVars) string {
	platform := vars.Metadata.Platform.String()

	return strings.TrimSpace(fmt.Sprintf(`You are a professional recipe extraction AI with extensive knowledge of cooking techniques, ingredients, and popular social media recipes.

Video URL: %s
Platform: %s
Video Title: %s
Video Description: %s

CONTEXT: This is a %s video likely showing a cooking process. Based on the title/description and your knowledge of popular recipes on this platform, extract or intelligently infer a complete, practical recipe.

ANALYSIS INSTRUCTIONS:
1. Look for cooking keywords, ingredient mentions, technique hints in the title/description
2. Use your knowledge of popular %s recipes to fill gaps
3. Consider typical ingredient ratios and cooking methods for this type of dish
4. If minimal info is provided, create a reasonable recipe based on the dish name/type mentioned

RECIPE REQUIREMENTS:
- Create a recipe that someone could actually cook successfully
- Include realistic ingredient quantities and cooking times
- Break down steps logically as they would appear in the video
- Estimate nutrition based on typical ingredients for this dish type
- Make it authentic to what would be shared on %s

Return in this JSON format:
{
  "title": "Clear, descriptive recipe name",
  "ingredients": [
    {
      "item": "specific ingredient name",
      "quantity": "precise amount with unit",
      "notes": "preparation notes if needed"
    }
  ],
  "steps": [
    "Detailed step 1 with technique and timing",
    "Detailed step 2 with specific instructions"
  ],
  "macros": {
    "calories": realistic_estimate_per_serving,
    "protein": protein_grams,
    "fat": fat_grams,
    "carbs": carb_grams,
    "fiber": fiber_grams
  },
  "prep_time": "realistic prep time",
  "cook_time": "realistic cook time",
  "servings": "typical serving size"
}

ONLY return valid JSON, no additional text:`,
		vars.VideoURL,
		platform,
		vars.Metadata.Title,
		vars.Metadata.Description,
		platform,
		platform,
		platform,
	))
}
