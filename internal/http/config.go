package http

import (
	"github.com/wardeiling/FreeWise/internal/database"
	"github.com/wardeiling/FreeWise/internal/exporters"
	"github.com/wardeiling/FreeWise/internal/review"
	"github.com/wardeiling/FreeWise/internal/services"
	"github.com/wardeiling/FreeWise/internal/tasks"
)

// RouterConfig contains all dependencies and configuration needed to create
// the HTTP router.
type RouterConfig struct {
	// Core dependencies
	Database      *database.Database
	BookStore     BookStore
	Favourites    FavouritesStore
	ReviewStates  ReviewStateStore
	ReviewManager *review.Manager
	SessionLedger SessionLedgerReader
	ImportService *services.ImportService
	Runs          RunStore
	Settings      SettingsStore
	Stats         StatsStore
	Exporter      *exporters.CSVExporter

	// Task queue client (optional; nil disables async imports)
	TaskClient *tasks.Client
	// SpoolDir receives uploads queued for asynchronous processing.
	SpoolDir string

	// Application info
	Version string
}
