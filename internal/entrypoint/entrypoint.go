package entrypoint

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/wardeiling/FreeWise/internal/config"
	"github.com/wardeiling/FreeWise/internal/database"
	"github.com/wardeiling/FreeWise/internal/database/books"
	"github.com/wardeiling/FreeWise/internal/database/imports"
	"github.com/wardeiling/FreeWise/internal/database/reviews"
	"github.com/wardeiling/FreeWise/internal/database/settings"
	"github.com/wardeiling/FreeWise/internal/exporters"
	http_controllers "github.com/wardeiling/FreeWise/internal/http"
	"github.com/wardeiling/FreeWise/internal/review"
	"github.com/wardeiling/FreeWise/internal/scheduler"
	"github.com/wardeiling/FreeWise/internal/services"
	"github.com/wardeiling/FreeWise/internal/settingsstore"
	"github.com/wardeiling/FreeWise/internal/tasks"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	go func() {
		fmt.Printf("Starting server at %s:%d\n", cfg.HTTP.Host, cfg.HTTP.Port)
		// service connections
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// Graceful shutdown
	// Wait for interrupt signal to gracefully shutdown the server with
	// a timeout of 1 second.
	quit := make(chan os.Signal, 1)
	// kill (no param) default send syscanll.SIGTERM
	// kill -2 is syscall.SIGINT
	// kill -9 is syscall. SIGKILL but can"t be catch, so don't need add it
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutdown Server, waiting %v before killing\n", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Call shutdown callback first (e.g., to stop task queue)
	if onShutdown != nil {
		onShutdown(ctx)
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server Shutdown:", err)
	}

	log.Println("Server exiting")
}

func Run(cfg *config.Config, version string) {
	log.Printf("Starting FreeWise v%s", version)

	// Initialize database
	db, err := database.NewDatabase(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()

	// Repositories
	bookRepo := books.NewRepository(db.DB)
	reviewRepo := reviews.NewRepository(db.DB)
	importRepo := imports.NewRepository(db.DB)
	settingsRepo := settings.NewRepository(db.DB)

	settingsStore := settingsstore.New(settingsRepo, cfg.Review.BatchSize)
	importService := services.NewImportService(bookRepo)
	reviewManager := review.NewManager(reviewRepo, reviewRepo)
	csvExporter := exporters.NewCSVExporter(bookRepo)

	// Make sure the spool directory for async imports exists
	if err := os.MkdirAll(cfg.Tasks.SpoolDir, 0o755); err != nil {
		log.Fatalf("Failed to create spool directory %s: %v", cfg.Tasks.SpoolDir, err)
	}

	// Initialize task queue if enabled
	var taskClient *tasks.Client
	var taskCtxCancel context.CancelFunc
	if cfg.Tasks.Enabled {
		taskCfg := tasks.Config{
			Workers:         cfg.Tasks.Workers,
			ReleaseAfter:    cfg.Tasks.ReleaseAfter,
			CleanupInterval: cfg.Tasks.CleanupInterval,
		}

		taskClient, err = tasks.NewClient(cfg.Database.Path, taskCfg)
		if err != nil {
			log.Fatalf("Failed to initialize task queue: %v", err)
		}
		defer func() {
			if err := taskClient.Close(); err != nil {
				log.Printf("Error closing task client: %v", err)
			}
		}()

		// Register task queues
		taskClient.Register(
			tasks.NewImportCSVQueue(importService, importRepo),
			tasks.NewCleanupImportRunsQueue(importRepo),
		)

		// Start task workers in background
		var taskCtx context.Context
		taskCtx, taskCtxCancel = context.WithCancel(context.Background())
		go taskClient.Start(taskCtx)
	}

	// Periodic maintenance: abandon idle review sessions, prune old import runs
	var maintenance *scheduler.MaintenanceScheduler
	if cfg.Maintenance.Enabled {
		maintenance = scheduler.NewMaintenanceScheduler(reviewManager, reviewRepo, taskClient, scheduler.Config{
			Schedule:           cfg.Maintenance.Schedule,
			SessionIdleTimeout: cfg.Review.SessionIdleTimeout,
			ImportRunRetention: cfg.Maintenance.ImportRunRetention,
		})
		if err := maintenance.Start(context.Background()); err != nil {
			log.Fatalf("Failed to start maintenance scheduler: %v", err)
		}
	}

	// Build router configuration with all dependencies
	routerCfg := http_controllers.RouterConfig{
		Database:      db,
		BookStore:     bookRepo,
		Favourites:    bookRepo,
		ReviewStates:  reviewRepo,
		ReviewManager: reviewManager,
		SessionLedger: reviewRepo,
		ImportService: importService,
		Runs:          importRepo,
		Settings:      settingsStore,
		Stats:         db,
		Exporter:      csvExporter,
		TaskClient:    taskClient,
		SpoolDir:      cfg.Tasks.SpoolDir,
		Version:       version,
	}

	router := http_controllers.NewRouter(routerCfg)

	// Shutdown callback for graceful cleanup
	onShutdown := func(ctx context.Context) {
		if maintenance != nil {
			maintenance.Stop()
		}
		if taskClient != nil && taskCtxCancel != nil {
			taskClient.Stop(ctx)
			taskCtxCancel()
		}
	}

	Serve(router, cfg, onShutdown)
}
