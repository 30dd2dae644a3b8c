package config

import (
	"time"

	"github.com/spf13/viper"
)

type (
	Config struct {
		HTTP
		Global
		Database
		Review
		Maintenance
		Tasks
	}

	HTTP struct {
		Port int32
		Host string
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
	Database struct {
		Path string
	}
	Review struct {
		// BatchSize is the default daily batch size; the review_batch_size
		// setting overrides it at runtime.
		BatchSize int
		// SessionIdleTimeout is how long a session may sit untouched before
		// maintenance abandons it.
		SessionIdleTimeout time.Duration
	}
	Maintenance struct {
		Enabled  bool
		Schedule string // Cron format: "*/15 * * * *" = every 15 minutes
		// ImportRunRetention is how long finished import runs are kept.
		ImportRunRetention time.Duration
	}
	Tasks struct {
		Enabled         bool
		Workers         int
		ReleaseAfter    time.Duration
		CleanupInterval time.Duration
		// SpoolDir is where uploaded import files wait for their worker.
		SpoolDir string
	}
)

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 8188)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("shutdown_timeout_in_seconds", 2)
	v.SetDefault("database_path", DefaultDatabasePath)

	// Review defaults
	v.SetDefault("review_batch_size", DefaultReviewBatchSize)
	v.SetDefault("review_session_idle_timeout", "2h")

	// Maintenance defaults
	v.SetDefault("maintenance_enabled", true)
	v.SetDefault("maintenance_schedule", "*/15 * * * *") // Every 15 minutes
	v.SetDefault("import_run_retention", "168h")         // 7 days

	// Task queue defaults
	v.SetDefault("tasks_enabled", true)
	v.SetDefault("task_workers", 2)
	v.SetDefault("task_release_after", "15m")
	v.SetDefault("task_cleanup_interval", "1h")
	v.SetDefault("task_spool_dir", DefaultSpoolDir)

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
		Database: Database{
			Path: v.GetString("DATABASE_PATH"),
		},
		Review: Review{
			BatchSize:          v.GetInt("REVIEW_BATCH_SIZE"),
			SessionIdleTimeout: v.GetDuration("REVIEW_SESSION_IDLE_TIMEOUT"),
		},
		Maintenance: Maintenance{
			Enabled:            v.GetBool("MAINTENANCE_ENABLED"),
			Schedule:           v.GetString("MAINTENANCE_SCHEDULE"),
			ImportRunRetention: v.GetDuration("IMPORT_RUN_RETENTION"),
		},
		Tasks: Tasks{
			Enabled:         v.GetBool("TASKS_ENABLED"),
			Workers:         v.GetInt("TASK_WORKERS"),
			ReleaseAfter:    v.GetDuration("TASK_RELEASE_AFTER"),
			CleanupInterval: v.GetDuration("TASK_CLEANUP_INTERVAL"),
			SpoolDir:        v.GetString("TASK_SPOOL_DIR"),
		},
	}
}
