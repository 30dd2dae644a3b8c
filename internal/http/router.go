package http

import (
	"github.com/gin-gonic/gin"
)

// NewRouter creates and configures the HTTP router with all endpoints.
// Uses RouterConfig to receive all dependencies, improving testability
// and reducing parameter count.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	// Create controllers with appropriate interfaces
	health := NewHealthController(cfg.Database, cfg.Version)
	booksController := NewBooksController(cfg.BookStore)
	favouritesController := NewFavouritesController(cfg.Favourites, cfg.ReviewStates)
	importController := NewImportController(cfg.ImportService, cfg.Runs, cfg.TaskClient, cfg.SpoolDir)
	reviewController := NewReviewController(cfg.ReviewManager, cfg.SessionLedger, cfg.Settings)
	exportController := NewExportController(cfg.Exporter)
	settingsController := NewSettingsController(cfg.Settings)
	statsController := NewStatsController(cfg.Stats)

	// Health endpoints
	router.GET("/health", health.Status)
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	// Import endpoints
	router.POST("/api/import/readwise", importController.ImportReadwise)
	router.POST("/api/import/book", importController.ImportBook)
	router.GET("/api/import/runs", importController.ListRuns)
	router.GET("/api/import/runs/:id", importController.GetRun)

	// Books API endpoints
	router.GET("/api/books", booksController.ListBooks)
	router.GET("/api/books/:id", booksController.GetBook)
	router.PATCH("/api/books/:id", booksController.UpdateBook)
	router.DELETE("/api/books/:id", booksController.DeleteBook)
	router.GET("/api/books/:id/highlights", booksController.ListBookHighlights)

	// Highlight endpoints
	router.GET("/api/highlights/favourites", favouritesController.ListFavourites)
	router.POST("/api/highlights/:id/restore", favouritesController.RestoreHighlight)

	// Review session endpoints
	router.POST("/api/review/sessions", reviewController.StartSession)
	router.GET("/api/review/sessions", reviewController.ListSessions)
	router.GET("/api/review/sessions/:uuid", reviewController.GetSession)
	router.POST("/api/review/sessions/:uuid/actions", reviewController.ApplyAction)

	// Export endpoint
	router.GET("/api/export/csv", exportController.ExportCSV)

	// Settings endpoints
	router.GET("/api/settings/review", settingsController.GetReviewSettings)
	router.PUT("/api/settings/review", settingsController.UpdateReviewSettings)

	// Stats endpoint
	router.GET("/api/stats", statsController.GetStats)

	return router
}
