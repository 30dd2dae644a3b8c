// Package imports provides database operations for import run records, the
// backing rows behind asynchronous imports and their progress indicators.
//
// # Usage
//
//	repo := imports.NewRepository(db)
//	run, err := repo.GetRun(42)
package imports

import (
	"time"

	"gorm.io/gorm"

	"github.com/wardeiling/FreeWise/internal/entities"
)

// Repository handles import run database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new imports repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CreateRun stores a new import run record.
func (r *Repository) CreateRun(run *entities.ImportRun) error {
	return r.db.Create(run).Error
}

// GetRun retrieves an import run by ID.
func (r *Repository) GetRun(id uint) (*entities.ImportRun, error) {
	var run entities.ImportRun
	err := r.db.First(&run, id).Error
	if err != nil {
		return nil, err
	}
	return &run, nil
}

// SaveRun persists the full run record, used when a run finishes.
func (r *Repository) SaveRun(run *entities.ImportRun) error {
	return r.db.Save(run).Error
}

// UpdateProgress bumps the rows-seen counter of a running import so pollers
// can render a progress indicator without loading the whole record.
func (r *Repository) UpdateProgress(id uint, rowsSeen int) error {
	return r.db.Model(&entities.ImportRun{}).
		Where("id = ?", id).
		Update("rows_seen", rowsSeen).Error
}

// ListRuns returns recent import runs, newest first.
func (r *Repository) ListRuns(limit int) ([]entities.ImportRun, error) {
	var runs []entities.ImportRun
	query := r.db.Order("started_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	err := query.Find(&runs).Error
	return runs, err
}

// DeleteFinishedBefore removes completed and failed runs older than the
// cutoff. Returns the number of rows removed.
func (r *Repository) DeleteFinishedBefore(cutoff time.Time) (int64, error) {
	result := r.db.
		Where("status IN ? AND started_at < ?",
			[]entities.ImportStatus{entities.ImportStatusCompleted, entities.ImportStatusFailed}, cutoff).
		Delete(&entities.ImportRun{})
	return result.RowsAffected, result.Error
}
