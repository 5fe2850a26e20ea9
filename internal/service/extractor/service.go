package extractor

import (
	"context"

	"github.com/tastify/tastify-backend-go/internal/domain"
	"github.com/tastify/tastify-backend-go/internal/prompt"
	apperrors "github.com/tastify/tastify-backend-go/pkg/errors"
	"go.uber.org/zap"
)

// MetadataScraper fetches best-effort page metadata for a classified URL.
type MetadataScraper interface {
	Scrape(ctx context.Context, ref domain.VideoRef) domain.VideoMetadata
}

// TextGenerator is the generative-text capability the pipeline calls once
// per extraction.
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// Service runs the extraction pipeline: classify, scrape, prompt, generate,
// parse. The only failure it surfaces is an unsupported URL; everything
// downstream of classification degrades to a synthesized fallback recipe so
// the caller always gets something cookable. Stateless; safe for any number
// of concurrent extractions.
type Service struct {
	scraper   MetadataScraper
	generator TextGenerator
	logger    *zap.Logger
}

func NewService(scraper MetadataScraper, generator TextGenerator, logger *zap.Logger) *Service {
	return &Service{
		scraper:   scraper,
		generator: generator,
		logger:    logger,
	}
}

// ExtractRecipe is the pipeline entry point.
func (s *Service) ExtractRecipe(ctx context.Context, rawURL string) (*domain.ParsedRecipe, error) {
	if !domain.IsSupportedVideoURL(rawURL) {
		s.logger.Info("Rejected unsupported video URL", zap.String("url", rawURL))
		return nil, apperrors.NewInvalidURLError(rawURL)
	}

	ref := domain.ClassifyVideoURL(rawURL)

	meta := s.scraper.Scrape(ctx, ref)

	promptText := prompt.BuildExtractionPrompt(prompt.ExtractionPromptVars{
		VideoURL: rawURL,
		Metadata: meta,
	})

	text, err := s.generator.GenerateText(ctx, promptText)
	if err != nil {
		s.logger.Warn("Generative call failed, synthesizing fallback recipe",
			zap.String("url", rawURL),
			zap.Error(err))
		return SynthesizeFallback(meta), nil
	}

	recipe, err := ParseModelOutput(text)
	if err != nil {
		s.logger.Warn("Model response unparseable, synthesizing fallback recipe",
			zap.String("url", rawURL),
			zap.Error(err))
		return SynthesizeFallback(meta), nil
	}

	s.logger.Info("Recipe extracted",
		zap.String("url", rawURL),
		zap.String("platform", ref.Platform.String()),
		zap.String("title", recipe.Title),
		zap.Int("ingredients", len(recipe.Ingredients)),
		zap.Int("steps", len(recipe.Steps)),
	)

	return recipe, nil
}
