package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/mikestefanello/backlite"

	"github.com/wardeiling/FreeWise/internal/entities"
	"github.com/wardeiling/FreeWise/internal/importers"
	"github.com/wardeiling/FreeWise/internal/services"
)

// RunStore persists import run progress for the task processor.
// Implemented by internal/database/imports.Repository.
type RunStore interface {
	GetRun(id uint) (*entities.ImportRun, error)
	SaveRun(run *entities.ImportRun) error
	UpdateProgress(id uint, rowsSeen int) error
}

// ImportCSVTask processes one spooled upload asynchronously. The payload
// stays serializable: the uploaded bytes live in the spool file, the task
// only carries the pointer to them.
type ImportCSVTask struct {
	RunID    uint   `json:"run_id"`
	Source   string `json:"source"`
	FilePath string `json:"file_path"`
}

// Config returns the queue configuration for import tasks.
func (t ImportCSVTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "import_csv",
		MaxAttempts: 1, // a partially committed import must not re-run
		Backoff:     time.Minute,
		Timeout:     10 * time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// progressFlushEvery controls how often the run row is updated while rows
// stream through.
const progressFlushEvery = 25

// ImportCSVProcessor creates a processor function for ImportCSVTask.
func ImportCSVProcessor(service *services.ImportService, runs RunStore) backlite.QueueProcessor[ImportCSVTask] {
	return func(ctx context.Context, task ImportCSVTask) error {
		run, err := runs.GetRun(task.RunID)
		if err != nil {
			return fmt.Errorf("import run %d not found: %w", task.RunID, err)
		}

		report, runErr := processSpooledImport(ctx, service, runs, run, task)

		now := time.Now()
		run.CompletedAt = &now
		if runErr != nil {
			run.Status = entities.ImportStatusFailed
			run.Errors = runErr.Error()
		} else {
			run.Status = entities.ImportStatusCompleted
			run.RowsSeen = report.RowsSeen
			run.Created = report.Created
			run.Updated = report.Updated
			run.Duplicates = report.Duplicates
			run.Skipped = report.Skipped
			if len(report.Failures) > 0 {
				if encoded, encErr := json.Marshal(report.Failures); encErr == nil {
					run.Errors = string(encoded)
				}
			}
		}
		if saveErr := runs.SaveRun(run); saveErr != nil {
			log.Printf("[TASK ERROR] Failed to save import run %d: %v", run.ID, saveErr)
		}

		// The spool file is consumed either way.
		if rmErr := os.Remove(task.FilePath); rmErr != nil && !os.IsNotExist(rmErr) {
			log.Printf("[TASK] Failed to remove spool file %s: %v", task.FilePath, rmErr)
		}

		if runErr != nil {
			return runErr
		}
		log.Printf("[TASK] Import run %d finished: %d created, %d updated, %d duplicates, %d skipped",
			run.ID, report.Created, report.Updated, report.Duplicates, report.Skipped)
		return nil
	}
}

func processSpooledImport(ctx context.Context, service *services.ImportService, runs RunStore, run *entities.ImportRun, task ImportCSVTask) (services.ImportReport, error) {
	var report services.ImportReport

	total, err := countSpoolRows(task.FilePath)
	if err != nil {
		return report, err
	}

	file, err := os.Open(task.FilePath)
	if err != nil {
		return report, fmt.Errorf("failed to open spool file: %w", err)
	}
	defer file.Close()

	source, err := importers.NewSource(task.Source, file)
	if err != nil {
		return report, err
	}

	run.Status = entities.ImportStatusRunning
	run.RowsTotal = total
	if err := runs.SaveRun(run); err != nil {
		return report, fmt.Errorf("failed to mark run running: %w", err)
	}

	return service.Run(ctx, source, services.ImportOptions{
		TotalRows: total,
		Progress: func(done, _ int) {
			if done%progressFlushEvery == 0 {
				if err := runs.UpdateProgress(run.ID, done); err != nil {
					log.Printf("[TASK] Failed to update import progress: %v", err)
				}
			}
		},
	})
}

func countSpoolRows(path string) (int, error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open spool file: %w", err)
	}
	defer file.Close()
	return importers.CountRows(file), nil
}

// NewImportCSVQueue creates a backlite queue for asynchronous imports.
func NewImportCSVQueue(service *services.ImportService, runs RunStore) backlite.Queue {
	return backlite.NewQueue(ImportCSVProcessor(service, runs))
}
