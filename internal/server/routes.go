package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SetupRouter wires middleware and routes. Method-not-allowed handling is on
// so non-POST requests to the extraction endpoint get a 405 instead of 404.
func SetupRouter(environment string, handler *Handler, logger *zap.Logger) *gin.Engine {
	if environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestLogger(logger))
	router.Use(CORSMiddleware())

	router.HandleMethodNotAllowed = true
	router.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{
			"error":   "Method not allowed",
			"message": "method not supported for this endpoint",
		})
	})

	router.GET("/health", handler.HealthCheck)

	api := router.Group("/api")
	{
		api.POST("/parseRecipe", handler.ParseRecipe)

		api.POST("/recipes", handler.CreateRecipe)
		api.GET("/recipes", handler.ListRecipes)
		api.GET("/recipes/:id", handler.GetRecipe)
		api.PATCH("/recipes/:id", handler.UpdateRecipe)
		api.DELETE("/recipes/:id", handler.DeleteRecipe)

		api.POST("/boards", handler.CreateBoard)
		api.GET("/boards", handler.ListBoards)
		api.GET("/boards/:id/recipes", handler.ListBoardRecipes)
		api.POST("/boards/:id/recipes/:recipeID", handler.AddRecipeToBoard)
		api.DELETE("/boards/:id/recipes/:recipeID", handler.RemoveRecipeFromBoard)

		api.POST("/share", handler.DepositShare)
		api.GET("/share", handler.TakeShare)
	}

	return router
}
