package app

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/tastify/tastify-backend-go/internal/config"
	"github.com/tastify/tastify-backend-go/internal/server"
	"github.com/tastify/tastify-backend-go/internal/service/ai"
	"github.com/tastify/tastify-backend-go/internal/service/cache"
	"github.com/tastify/tastify-backend-go/internal/service/database"
	"github.com/tastify/tastify-backend-go/internal/service/extractor"
	"github.com/tastify/tastify-backend-go/internal/service/recipe"
	"github.com/tastify/tastify-backend-go/internal/service/scraper"
	"github.com/tastify/tastify-backend-go/internal/service/share"
	"go.uber.org/zap"
)

// Container bundles the assembled application: the wired router plus the
// resources that need closing on shutdown.
type Container struct {
	Config *config.Config
	Logger *zap.Logger
	Router *gin.Engine

	closers []func()
}

// Close releases infrastructure resources in reverse construction order.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
}

// Build assembles all infrastructure services and returns a container with
// a fully-wired HTTP router. Heavy-weight initialization (DB, Redis, AI
// clients) happens here so handlers stay focused on request logic.
func Build(ctx context.Context, cfg *config.Config, logger *zap.Logger) (container *Container, err error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger must not be nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	var closers []func()
	defer func() {
		if err != nil {
			for i := len(closers) - 1; i >= 0; i-- {
				closers[i]()
			}
		}
	}()

	cacheSvc, err := cache.NewService(cache.Config{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create cache service: %w", err)
	}
	closers = append(closers, func() {
		_ = cacheSvc.Close()
	})

	postgresSvc, err := database.NewPostgresService(ctx, database.PostgresConfig{
		Host:     cfg.Postgres.Host,
		Port:     cfg.Postgres.Port,
		User:     cfg.Postgres.User,
		Password: cfg.Postgres.Password,
		Database: cfg.Postgres.Database,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create postgres service: %w", err)
	}
	closers = append(closers, func() {
		_ = postgresSvc.Close()
	})

	// Extraction pipeline
	scraperSvc := scraper.NewService(scraper.Config{
		Timeout:      cfg.Scraper.RequestTimeout,
		MaxRedirects: cfg.Scraper.MaxRedirects,
	}, logger)

	modelManager, err := ai.NewModelManager(ctx, ai.ModelManagerConfig{
		GeminiAPIKey:   cfg.Gemini.APIKey,
		GeminiModel:    cfg.Gemini.Model,
		OpenAIAPIKey:   cfg.OpenAI.APIKey,
		OpenAIModel:    cfg.OpenAI.Model,
		EnableFallback: cfg.OpenAI.EnableFallback,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create model manager: %w", err)
	}

	extractorSvc := extractor.NewService(scraperSvc, modelManager, logger)

	// Storage and share handoff
	recipeRepo := recipe.NewRepository(postgresSvc, logger)
	boardRepo := recipe.NewBoardRepository(postgresSvc, recipeRepo, logger)
	mailbox := share.NewMailbox(cacheSvc, logger)

	pingers := map[string]server.Pinger{
		"postgres": postgresSvc,
		"redis":    cacheSvc,
	}

	handler := server.NewHandler(extractorSvc, recipeRepo, boardRepo, mailbox, pingers, logger)
	router := server.SetupRouter(cfg.Server.Environment, handler, logger)

	return &Container{
		Config:  cfg,
		Logger:  logger,
		Router:  router,
		closers: closers,
	}, nil
}
