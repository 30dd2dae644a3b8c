package tasks

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mikestefanello/backlite"
)

// ImportRunCleaner deletes finished import runs older than a cutoff.
type ImportRunCleaner interface {
	DeleteFinishedBefore(cutoff time.Time) (int64, error)
}

// CleanupImportRunsTask prunes finished import run records past their
// retention window.
type CleanupImportRunsTask struct {
	Retention time.Duration `json:"retention"`
}

// Config returns the queue configuration for cleanup tasks.
func (t CleanupImportRunsTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "cleanup_import_runs",
		MaxAttempts: 1,
		Backoff:     time.Minute,
		Timeout:     time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// CleanupImportRunsProcessor creates a processor function for CleanupImportRunsTask.
func CleanupImportRunsProcessor(cleaner ImportRunCleaner) backlite.QueueProcessor[CleanupImportRunsTask] {
	return func(ctx context.Context, task CleanupImportRunsTask) error {
		if cleaner == nil {
			return fmt.Errorf("import run cleaner not configured")
		}

		retention := task.Retention
		if retention <= 0 {
			retention = 7 * 24 * time.Hour
		}

		deleted, err := cleaner.DeleteFinishedBefore(time.Now().Add(-retention))
		if err != nil {
			return fmt.Errorf("cleanup import runs: %w", err)
		}

		log.Printf("[TASK] Cleaned up %d finished import runs", deleted)
		return nil
	}
}

// NewCleanupImportRunsQueue creates a backlite queue for import run cleanup.
func NewCleanupImportRunsQueue(cleaner ImportRunCleaner) backlite.Queue {
	return backlite.NewQueue(CleanupImportRunsProcessor(cleaner))
}
