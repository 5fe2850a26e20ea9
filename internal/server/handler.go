package server

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tastify/tastify-backend-go/internal/domain"
	apperrors "github.com/tastify/tastify-backend-go/pkg/errors"
	"go.uber.org/zap"
)

// RecipeExtractor runs the extraction pipeline for one video URL.
type RecipeExtractor interface {
	ExtractRecipe(ctx context.Context, rawURL string) (*domain.ParsedRecipe, error)
}

// RecipeStore is the persistence contract the handlers consume.
type RecipeStore interface {
	Create(ctx context.Context, ownerID string, req *domain.CreateRecipeRequest) (*domain.Recipe, error)
	Get(ctx context.Context, id string) (*domain.Recipe, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*domain.Recipe, error)
	Update(ctx context.Context, id string, req *domain.CreateRecipeRequest) (*domain.Recipe, error)
	Delete(ctx context.Context, id string) (bool, error)
}

type BoardStore interface {
	Create(ctx context.Context, ownerID, name string) (*domain.Board, error)
	ListByOwnerWithPreviews(ctx context.Context, ownerID string) ([]*domain.BoardWithPreviews, error)
	AddRecipe(ctx context.Context, boardID, recipeID string) error
	RemoveRecipe(ctx context.Context, boardID, recipeID string) error
	ListRecipes(ctx context.Context, boardID string) ([]*domain.Recipe, error)
}

type ShareMailbox interface {
	Deposit(ctx context.Context, userID, rawURL string) error
	Take(ctx context.Context, userID string) (*domain.SharedLink, error)
}

// Pinger reports liveness of a backing service for the health endpoint.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler holds dependencies for HTTP handlers.
type Handler struct {
	extractor RecipeExtractor
	recipes   RecipeStore
	boards    BoardStore
	mailbox   ShareMailbox
	pingers   map[string]Pinger
	logger    *zap.Logger
}

func NewHandler(extractor RecipeExtractor, recipes RecipeStore, boards BoardStore, mailbox ShareMailbox, pingers map[string]Pinger, logger *zap.Logger) *Handler {
	return &Handler{
		extractor: extractor,
		recipes:   recipes,
		boards:    boards,
		mailbox:   mailbox,
		pingers:   pingers,
		logger:    logger,
	}
}

// HealthCheck pings the backing services; any failure degrades the report
// to a 503 with per-component status.
func (h *Handler) HealthCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	components := gin.H{}
	healthy := true
	for name, pinger := range h.pingers {
		if err := pinger.Ping(ctx); err != nil {
			h.logger.Warn("Health check failed", zap.String("component", name), zap.Error(err))
			components[name] = "down"
			healthy = false
			continue
		}
		components[name] = "up"
	}

	status := "healthy"
	code := http.StatusOK
	if !healthy {
		status = "degraded"
		code = http.StatusServiceUnavailable
	}

	c.JSON(code, gin.H{
		"status":     status,
		"service":    "tastify-backend",
		"components": components,
	})
}

type parseRecipeRequest struct {
	VideoURL string `json:"videoUrl"`
}

// ParseRecipe is the extraction endpoint. The only error a caller sees from
// extraction itself is an unsupported URL; everything downstream degrades
// to a fallback recipe with a 200.
func (h *Handler) ParseRecipe(c *gin.Context) {
	var req parseRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.VideoURL) == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Bad request",
			"message": "videoUrl is required",
		})
		return
	}

	recipe, err := h.extractor.ExtractRecipe(c.Request.Context(), req.VideoURL)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, recipe)
}

func (h *Handler) CreateRecipe(c *gin.Context) {
	ownerID, ok := h.requireOwner(c)
	if !ok {
		return
	}

	var req domain.CreateRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Bad request", "message": "invalid recipe payload"})
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Bad request", "message": "title is required"})
		return
	}

	recipe, err := h.recipes.Create(c.Request.Context(), ownerID, &req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, recipe)
}

func (h *Handler) ListRecipes(c *gin.Context) {
	ownerID, ok := h.requireOwner(c)
	if !ok {
		return
	}

	recipes, err := h.recipes.ListByOwner(c.Request.Context(), ownerID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, recipes)
}

func (h *Handler) GetRecipe(c *gin.Context) {
	recipe, err := h.recipes.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	if recipe == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found", "message": "recipe not found"})
		return
	}

	c.JSON(http.StatusOK, recipe)
}

func (h *Handler) UpdateRecipe(c *gin.Context) {
	if _, ok := h.requireOwner(c); !ok {
		return
	}

	var req domain.CreateRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Bad request", "message": "invalid recipe payload"})
		return
	}

	recipe, err := h.recipes.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if recipe == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found", "message": "recipe not found"})
		return
	}

	c.JSON(http.StatusOK, recipe)
}

func (h *Handler) DeleteRecipe(c *gin.Context) {
	if _, ok := h.requireOwner(c); !ok {
		return
	}

	deleted, err := h.recipes.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	if !deleted {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found", "message": "recipe not found"})
		return
	}

	c.Status(http.StatusNoContent)
}

type createBoardRequest struct {
	Name string `json:"name"`
}

func (h *Handler) CreateBoard(c *gin.Context) {
	ownerID, ok := h.requireOwner(c)
	if !ok {
		return
	}

	var req createBoardRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Name) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Bad request", "message": "name is required"})
		return
	}

	board, err := h.boards.Create(c.Request.Context(), ownerID, req.Name)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, board)
}

func (h *Handler) ListBoards(c *gin.Context) {
	ownerID, ok := h.requireOwner(c)
	if !ok {
		return
	}

	boards, err := h.boards.ListByOwnerWithPreviews(c.Request.Context(), ownerID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, boards)
}

func (h *Handler) AddRecipeToBoard(c *gin.Context) {
	if _, ok := h.requireOwner(c); !ok {
		return
	}

	if err := h.boards.AddRecipe(c.Request.Context(), c.Param("id"), c.Param("recipeID")); err != nil {
		h.respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) RemoveRecipeFromBoard(c *gin.Context) {
	if _, ok := h.requireOwner(c); !ok {
		return
	}

	if err := h.boards.RemoveRecipe(c.Request.Context(), c.Param("id"), c.Param("recipeID")); err != nil {
		h.respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) ListBoardRecipes(c *gin.Context) {
	recipes, err := h.boards.ListRecipes(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, recipes)
}

type shareRequest struct {
	VideoURL string `json:"videoUrl"`
}

// DepositShare stores a URL handed over by the OS share sheet.
func (h *Handler) DepositShare(c *gin.Context) {
	userID, ok := h.requireOwner(c)
	if !ok {
		return
	}

	var req shareRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.VideoURL) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Bad request", "message": "videoUrl is required"})
		return
	}

	if err := h.mailbox.Deposit(c.Request.Context(), userID, req.VideoURL); err != nil {
		h.respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// TakeShare consumes the caller's share slot: 200 with the link when one is
// fresh, 204 when the slot is empty or expired.
func (h *Handler) TakeShare(c *gin.Context) {
	userID, ok := h.requireOwner(c)
	if !ok {
		return
	}

	link, err := h.mailbox.Take(c.Request.Context(), userID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if link == nil {
		c.Status(http.StatusNoContent)
		return
	}

	c.JSON(http.StatusOK, link)
}

// requireOwner pulls the opaque user identity from the Authorization header.
// Authentication itself happens upstream; this layer only needs the id.
func (h *Handler) requireOwner(c *gin.Context) (string, bool) {
	auth := c.GetHeader("Authorization")
	ownerID := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
	if ownerID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized", "message": "bearer identity required"})
		return "", false
	}
	return ownerID, true
}

func (h *Handler) respondError(c *gin.Context, err error) {
	var invalidURL *apperrors.InvalidURLError
	if errors.As(err, &invalidURL) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid URL",
			"message": invalidURL.Message,
		})
		return
	}

	var validation *apperrors.ValidationError
	if errors.As(err, &validation) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Bad request",
			"message": validation.Message,
		})
		return
	}

	var storage *apperrors.StorageError
	if errors.As(err, &storage) {
		h.logger.Error("Storage operation failed",
			zap.String("operation", storage.Operation),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Storage error",
			"message": storage.Message,
		})
		return
	}

	h.logger.Error("Unhandled error in request", zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{
		"error":   "Internal server error",
		"message": "Failed to process request",
		"details": err.Error(),
	})
}
