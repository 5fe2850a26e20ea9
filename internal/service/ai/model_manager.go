package ai

import (
	"context"
	"fmt"

	"github.com/tastify/tastify-backend-go/internal/constants"
	"github.com/tastify/tastify-backend-go/internal/util"
	apperrors "github.com/tastify/tastify-backend-go/pkg/errors"
	"go.uber.org/zap"
)

// ModelManager fronts the generative-text capability. Gemini is the primary
// provider; an OpenAI failover can be enabled by config but is off by
// default, keeping the pipeline at exactly one model attempt per extraction.
// A circuit breaker skips a known-down provider so callers reach their own
// fallback path without waiting out the transport timeout.
type ModelManager struct {
	primary        TextProvider
	fallback       TextProvider
	enableFallback bool
	circuitBreaker *util.CircuitBreaker
	logger         *zap.Logger
}

type ModelManagerConfig struct {
	GeminiAPIKey   string
	GeminiModel    string
	OpenAIAPIKey   string
	OpenAIModel    string
	EnableFallback bool
}

func NewModelManager(ctx context.Context, cfg ModelManagerConfig, logger *zap.Logger) (*ModelManager, error) {
	gemini, err := NewGeminiProvider(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, logger)
	if err != nil {
		return nil, err
	}

	openaiProvider := NewOpenAIProvider(cfg.OpenAIAPIKey, cfg.OpenAIModel, logger)

	mm := &ModelManager{
		primary: gemini,
		logger:  logger,
	}

	mm.enableFallback = cfg.EnableFallback && openaiProvider != nil
	if mm.enableFallback {
		mm.fallback = openaiProvider
		logger.Info("OpenAI failover enabled", zap.String("model", cfg.OpenAIModel))
	} else {
		logger.Info("OpenAI failover disabled")
	}

	mm.circuitBreaker = util.NewCircuitBreaker(
		constants.CircuitBreakerConfig.FailureThreshold,
		constants.CircuitBreakerConfig.ResetTimeout,
		logger,
	)

	return mm, nil
}

// GenerateText makes a single generation attempt against the primary
// provider (plus the failover provider when enabled). Transport failures
// come back as TransportError so the orchestrator can absorb them.
func (mm *ModelManager) GenerateText(ctx context.Context, prompt string) (string, error) {
	if !mm.circuitBreaker.CanExecute() {
		mm.logger.Warn("AI provider circuit open, skipping generation",
			zap.String("state", mm.circuitBreaker.GetState().String()))
		return "", apperrors.NewTransportError(mm.primary.Name(),
			fmt.Errorf("provider circuit open"))
	}

	text, primaryErr := mm.primary.Generate(ctx, prompt)
	if primaryErr == nil {
		mm.circuitBreaker.RecordSuccess()
		return text, nil
	}

	if mm.enableFallback && mm.fallback != nil {
		text, fallbackErr := mm.fallback.Generate(ctx, prompt)
		if fallbackErr == nil {
			mm.circuitBreaker.RecordSuccess()
			return text, nil
		}
		mm.circuitBreaker.RecordFailure()
		return "", apperrors.NewTransportError(mm.fallback.Name(),
			fmt.Errorf("failover failed: %w (primary %s: %v)", fallbackErr, mm.primary.Name(), primaryErr))
	}

	mm.circuitBreaker.RecordFailure()
	return "", apperrors.NewTransportError(mm.primary.Name(), primaryErr)
}
