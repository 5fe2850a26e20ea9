package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

type PostgresService struct {
	db     *sql.DB
	logger *zap.Logger
}

type PostgresConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
}

// Recipes and boards carry their structured payloads (ingredients, steps,
// macros) as JSONB rather than normalized rows; the app always reads and
// writes a recipe whole.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS recipes (
		id          UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		title       TEXT NOT NULL,
		ingredients JSONB NOT NULL DEFAULT '[]',
		steps       JSONB NOT NULL DEFAULT '[]',
		macros      JSONB NOT NULL DEFAULT '{}',
		video_url   TEXT NOT NULL DEFAULT '',
		owner_id    TEXT NOT NULL,
		created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_recipes_owner ON recipes (owner_id, created_at DESC)`,
	`CREATE TABLE IF NOT EXISTS boards (
		id         UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		owner_id   TEXT NOT NULL,
		name       TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_boards_owner ON boards (owner_id, created_at DESC)`,
	`CREATE TABLE IF NOT EXISTS board_recipes (
		board_id  UUID NOT NULL REFERENCES boards(id) ON DELETE CASCADE,
		recipe_id UUID NOT NULL REFERENCES recipes(id) ON DELETE CASCADE,
		added_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
		PRIMARY KEY (board_id, recipe_id)
	)`,
}

func NewPostgresService(ctx context.Context, cfg PostgresConfig, logger *zap.Logger) (*PostgresService, error) {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Database)

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}

	svc := &PostgresService{
		db:     db,
		logger: logger,
	}

	if err := svc.initSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("PostgreSQL connected",
		zap.String("host", cfg.Host),
		zap.Int("port", cfg.Port),
		zap.String("database", cfg.Database),
	)

	return svc, nil
}

func (ps *PostgresService) initSchema(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := ps.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}

func (ps *PostgresService) GetDB() *sql.DB {
	return ps.db
}

func (ps *PostgresService) Ping(ctx context.Context) error {
	return ps.db.PingContext(ctx)
}

func (ps *PostgresService) Close() error {
	if ps.db != nil {
		return ps.db.Close()
	}
	return nil
}
