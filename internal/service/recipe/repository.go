package recipe

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/tastify/tastify-backend-go/internal/domain"
	"github.com/tastify/tastify-backend-go/internal/service/database"
	apperrors "github.com/tastify/tastify-backend-go/pkg/errors"
	"go.uber.org/zap"
)

// Repository persists recipes. Unlike the extraction pipeline, storage
// failures are surfaced to the caller - silently dropping a save would
// defeat the point of extracting the recipe.
type Repository struct {
	db     *sql.DB
	logger *zap.Logger
}

func NewRepository(postgres *database.PostgresService, logger *zap.Logger) *Repository {
	return &Repository{
		db:     postgres.GetDB(),
		logger: logger,
	}
}

// Create inserts a recipe and returns the persisted row including the
// generated id and timestamps.
func (r *Repository) Create(ctx context.Context, ownerID string, req *domain.CreateRecipeRequest) (*domain.Recipe, error) {
	ingredientsJSON, err := json.Marshal(req.Ingredients)
	if err != nil {
		return nil, apperrors.NewStorageError("failed to encode ingredients", "create", "recipe", err)
	}
	stepsJSON, err := json.Marshal(req.Steps)
	if err != nil {
		return nil, apperrors.NewStorageError("failed to encode steps", "create", "recipe", err)
	}
	macrosJSON, err := json.Marshal(req.Macros)
	if err != nil {
		return nil, apperrors.NewStorageError("failed to encode macros", "create", "recipe", err)
	}

	query := `
		INSERT INTO recipes (title, ingredients, steps, macros, video_url, owner_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, title, ingredients, steps, macros, video_url, owner_id, created_at, updated_at
	`

	row := r.db.QueryRowContext(ctx, query,
		req.Title, ingredientsJSON, stepsJSON, macrosJSON, req.VideoURL, ownerID)

	recipe, err := scanRecipe(row)
	if err != nil {
		r.logger.Error("Recipe insert failed", zap.String("owner_id", ownerID), zap.Error(err))
		return nil, apperrors.NewStorageError("failed to create recipe", "create", "recipe", err)
	}

	r.logger.Info("Recipe created",
		zap.String("id", recipe.ID),
		zap.String("owner_id", ownerID),
		zap.String("title", recipe.Title))

	return recipe, nil
}

// Get retrieves a recipe by id. Returns nil when no row exists.
func (r *Repository) Get(ctx context.Context, id string) (*domain.Recipe, error) {
	query := `
		SELECT id, title, ingredients, steps, macros, video_url, owner_id, created_at, updated_at
		FROM recipes
		WHERE id = $1
	`

	recipe, err := scanRecipe(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.NewStorageError("failed to get recipe", "get", "recipe", err)
	}

	return recipe, nil
}

// ListByOwner returns the owner's recipes, newest first.
func (r *Repository) ListByOwner(ctx context.Context, ownerID string) ([]*domain.Recipe, error) {
	query := `
		SELECT id, title, ingredients, steps, macros, video_url, owner_id, created_at, updated_at
		FROM recipes
		WHERE owner_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, apperrors.NewStorageError("failed to list recipes", "list", "recipe", err)
	}
	defer rows.Close()

	recipes := make([]*domain.Recipe, 0)
	for rows.Next() {
		recipe, err := scanRecipe(rows)
		if err != nil {
			return nil, apperrors.NewStorageError("failed to scan recipe", "list", "recipe", err)
		}
		recipes = append(recipes, recipe)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewStorageError("failed to iterate recipes", "list", "recipe", err)
	}

	return recipes, nil
}

// Update applies the request fields to an existing recipe and returns the
// updated row. Returns nil when the recipe does not exist.
func (r *Repository) Update(ctx context.Context, id string, req *domain.CreateRecipeRequest) (*domain.Recipe, error) {
	ingredientsJSON, err := json.Marshal(req.Ingredients)
	if err != nil {
		return nil, apperrors.NewStorageError("failed to encode ingredients", "update", "recipe", err)
	}
	stepsJSON, err := json.Marshal(req.Steps)
	if err != nil {
		return nil, apperrors.NewStorageError("failed to encode steps", "update", "recipe", err)
	}
	macrosJSON, err := json.Marshal(req.Macros)
	if err != nil {
		return nil, apperrors.NewStorageError("failed to encode macros", "update", "recipe", err)
	}

	query := `
		UPDATE recipes
		SET title = $2, ingredients = $3, steps = $4, macros = $5, video_url = $6, updated_at = NOW()
		WHERE id = $1
		RETURNING id, title, ingredients, steps, macros, video_url, owner_id, created_at, updated_at
	`

	recipe, err := scanRecipe(r.db.QueryRowContext(ctx, query,
		id, req.Title, ingredientsJSON, stepsJSON, macrosJSON, req.VideoURL))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.NewStorageError("failed to update recipe", "update", "recipe", err)
	}

	return recipe, nil
}

// Delete removes a recipe. Reports whether a row was deleted.
func (r *Repository) Delete(ctx context.Context, id string) (bool, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM recipes WHERE id = $1`, id)
	if err != nil {
		return false, apperrors.NewStorageError("failed to delete recipe", "delete", "recipe", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, apperrors.NewStorageError("failed to read delete result", "delete", "recipe", err)
	}

	return affected > 0, nil
}

// rowScanner covers both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecipe(row rowScanner) (*domain.Recipe, error) {
	var (
		recipe          domain.Recipe
		ingredientsJSON []byte
		stepsJSON       []byte
		macrosJSON      []byte
		videoURL        sql.NullString
	)

	err := row.Scan(
		&recipe.ID, &recipe.Title, &ingredientsJSON, &stepsJSON, &macrosJSON,
		&videoURL, &recipe.OwnerID, &recipe.CreatedAt, &recipe.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(ingredientsJSON, &recipe.Ingredients); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(stepsJSON, &recipe.Steps); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(macrosJSON, &recipe.Macros); err != nil {
		return nil, err
	}

	if recipe.Ingredients == nil {
		recipe.Ingredients = []domain.Ingredient{}
	}
	if recipe.Steps == nil {
		recipe.Steps = []string{}
	}
	recipe.VideoURL = videoURL.String

	return &recipe, nil
}
