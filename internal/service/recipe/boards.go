package recipe

import (
	"context"
	"database/sql"
	"sync"

	"github.com/sourcegraph/conc/pool"
	"github.com/tastify/tastify-backend-go/internal/constants"
	"github.com/tastify/tastify-backend-go/internal/domain"
	"github.com/tastify/tastify-backend-go/internal/service/database"
	apperrors "github.com/tastify/tastify-backend-go/pkg/errors"
	"go.uber.org/zap"
)

// BoardRepository persists boards and their recipe memberships.
type BoardRepository struct {
	db      *sql.DB
	recipes *Repository
	logger  *zap.Logger
}

func NewBoardRepository(postgres *database.PostgresService, recipes *Repository, logger *zap.Logger) *BoardRepository {
	return &BoardRepository{
		db:      postgres.GetDB(),
		recipes: recipes,
		logger:  logger,
	}
}

func (b *BoardRepository) Create(ctx context.Context, ownerID, name string) (*domain.Board, error) {
	query := `
		INSERT INTO boards (name, owner_id)
		VALUES ($1, $2)
		RETURNING id, name, owner_id, created_at, updated_at
	`

	var board domain.Board
	err := b.db.QueryRowContext(ctx, query, name, ownerID).Scan(
		&board.ID, &board.Name, &board.OwnerID, &board.CreatedAt, &board.UpdatedAt)
	if err != nil {
		b.logger.Error("Board insert failed", zap.String("owner_id", ownerID), zap.Error(err))
		return nil, apperrors.NewStorageError("failed to create board", "create", "board", err)
	}

	return &board, nil
}

// ListByOwner returns the owner's boards, newest first.
func (b *BoardRepository) ListByOwner(ctx context.Context, ownerID string) ([]*domain.Board, error) {
	query := `
		SELECT id, name, owner_id, created_at, updated_at
		FROM boards
		WHERE owner_id = $1
		ORDER BY created_at DESC
	`

	rows, err := b.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, apperrors.NewStorageError("failed to list boards", "list", "board", err)
	}
	defer rows.Close()

	boards := make([]*domain.Board, 0)
	for rows.Next() {
		var board domain.Board
		if err := rows.Scan(&board.ID, &board.Name, &board.OwnerID, &board.CreatedAt, &board.UpdatedAt); err != nil {
			return nil, apperrors.NewStorageError("failed to scan board", "list", "board", err)
		}
		boards = append(boards, &board)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewStorageError("failed to iterate boards", "list", "board", err)
	}

	return boards, nil
}

// ListByOwnerWithPreviews hydrates each board with its newest recipes so the
// boards screen renders thumbnails in one round trip. Boards are hydrated
// concurrently with a bounded pool; one board's failure fails the call.
func (b *BoardRepository) ListByOwnerWithPreviews(ctx context.Context, ownerID string) ([]*domain.BoardWithPreviews, error) {
	boards, err := b.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	results := make([]*domain.BoardWithPreviews, len(boards))
	var firstErr error
	var errMu sync.Mutex

	p := pool.New().WithMaxGoroutines(constants.BoardConfig.PreviewConcurrency)
	for idx, board := range boards {
		idx, board := idx, board
		p.Go(func() {
			previews, hydrateErr := b.listRecipesLimited(ctx, board.ID, constants.BoardConfig.PreviewCount)
			if hydrateErr != nil {
				errMu.Lock()
				if firstErr == nil {
					firstErr = hydrateErr
				}
				errMu.Unlock()
				return
			}
			results[idx] = &domain.BoardWithPreviews{Board: *board, Previews: previews}
		})
	}
	p.Wait()

	if firstErr != nil {
		return nil, firstErr
	}

	return results, nil
}

// AddRecipe links a recipe into a board. Re-adding is a no-op.
func (b *BoardRepository) AddRecipe(ctx context.Context, boardID, recipeID string) error {
	query := `
		INSERT INTO board_recipes (board_id, recipe_id)
		VALUES ($1, $2)
		ON CONFLICT (board_id, recipe_id) DO NOTHING
	`

	if _, err := b.db.ExecContext(ctx, query, boardID, recipeID); err != nil {
		return apperrors.NewStorageError("failed to add recipe to board", "add_recipe", "board", err)
	}
	return nil
}

func (b *BoardRepository) RemoveRecipe(ctx context.Context, boardID, recipeID string) error {
	query := `DELETE FROM board_recipes WHERE board_id = $1 AND recipe_id = $2`

	if _, err := b.db.ExecContext(ctx, query, boardID, recipeID); err != nil {
		return apperrors.NewStorageError("failed to remove recipe from board", "remove_recipe", "board", err)
	}
	return nil
}

// ListRecipes returns the full recipes on a board, most recently added first.
func (b *BoardRepository) ListRecipes(ctx context.Context, boardID string) ([]*domain.Recipe, error) {
	return b.listRecipesLimited(ctx, boardID, 0)
}

func (b *BoardRepository) listRecipesLimited(ctx context.Context, boardID string, limit int) ([]*domain.Recipe, error) {
	query := `
		SELECT r.id, r.title, r.ingredients, r.steps, r.macros, r.video_url, r.owner_id, r.created_at, r.updated_at
		FROM board_recipes br
		JOIN recipes r ON r.id = br.recipe_id
		WHERE br.board_id = $1
		ORDER BY br.added_at DESC
	`
	args := []any{boardID}
	if limit > 0 {
		query += ` LIMIT $2`
		args = append(args, limit)
	}

	rows, err := b.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewStorageError("failed to list board recipes", "list_recipes", "board", err)
	}
	defer rows.Close()

	recipes := make([]*domain.Recipe, 0)
	for rows.Next() {
		recipe, err := scanRecipe(rows)
		if err != nil {
			return nil, apperrors.NewStorageError("failed to scan board recipe", "list_recipes", "board", err)
		}
		recipes = append(recipes, recipe)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewStorageError("failed to iterate board recipes", "list_recipes", "board", err)
	}

	return recipes, nil
}
