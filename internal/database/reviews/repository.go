// Package reviews provides database operations for review states and the
// persisted review-session ledger.
//
// This package implements the Store and Ledger interfaces defined in
// internal/review.
//
// # Interface Implementation
//
//	var _ review.Store = (*Repository)(nil)
//	var _ review.Ledger = (*Repository)(nil)
//
// # Usage
//
//	repo := reviews.NewRepository(db)
//	pool, err := repo.EligibleHighlights(nil)
package reviews

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/wardeiling/FreeWise/internal/entities"
	"github.com/wardeiling/FreeWise/internal/review"
)

// Repository handles review state and session ledger database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new reviews repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// EligibleHighlights returns all active highlights outside excludeIDs with
// their book and review state loaded, the inputs the scheduler weighs.
func (r *Repository) EligibleHighlights(excludeIDs []uint) ([]entities.Highlight, error) {
	query := r.db.Preload("Book").Preload("ReviewState").
		Joins("JOIN review_states ON review_states.highlight_id = highlights.id").
		Where("review_states.status = ?", entities.ReviewStatusActive)
	if len(excludeIDs) > 0 {
		query = query.Where("highlights.id NOT IN ?", excludeIDs)
	}

	var highlights []entities.Highlight
	err := query.Order("highlights.id ASC").Find(&highlights).Error
	return highlights, err
}

// GetState retrieves the review state of a highlight.
func (r *Repository) GetState(highlightID uint) (*entities.ReviewState, error) {
	var state entities.ReviewState
	err := r.db.Where("highlight_id = ?", highlightID).First(&state).Error
	if err != nil {
		return nil, err
	}
	return &state, nil
}

// TransitionStatus flips a highlight's status with compare-and-update
// semantics: the UPDATE only applies while the status still equals `from`.
// A miss is classified by re-reading the row: a different current status is
// an invalid transition (the state is left untouched), anything else is a
// concurrent-write conflict.
func (r *Repository) TransitionStatus(highlightID uint, from, to entities.ReviewStatus) error {
	if !entities.ValidReviewStatus(to) {
		return fmt.Errorf("unknown review status %q", to)
	}

	result := r.db.Model(&entities.ReviewState{}).
		Where("highlight_id = ? AND status = ?", highlightID, from).
		Update("status", to)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		return nil
	}

	state, err := r.GetState(highlightID)
	if err != nil {
		return err
	}
	if state.Status != from {
		return fmt.Errorf("%w: highlight %d is %s, not %s",
			review.ErrInvalidTransition, highlightID, state.Status, from)
	}
	return review.ErrStateConflict
}

// MarkReviewed records a completed review on an active highlight: the
// last-reviewed timestamp is set and the review counter bumped in a single
// guarded UPDATE. The status stays active so the highlight returns to
// rotation once its staleness grows again.
func (r *Repository) MarkReviewed(highlightID uint, at time.Time) error {
	result := r.db.Model(&entities.ReviewState{}).
		Where("highlight_id = ? AND status = ?", highlightID, entities.ReviewStatusActive).
		Updates(map[string]any{
			"last_reviewed_at": at,
			"review_count":     gorm.Expr("review_count + 1"),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		return nil
	}

	state, err := r.GetState(highlightID)
	if err != nil {
		return err
	}
	if state.Status != entities.ReviewStatusActive {
		return fmt.Errorf("%w: highlight %d is %s, not %s",
			review.ErrInvalidTransition, highlightID, state.Status, entities.ReviewStatusActive)
	}
	return review.ErrStateConflict
}

// Restore returns a discarded or favorited highlight to active. Restoring
// an already-active highlight is an invalid transition.
func (r *Repository) Restore(highlightID uint) error {
	state, err := r.GetState(highlightID)
	if err != nil {
		return err
	}
	if state.Status == entities.ReviewStatusActive {
		return fmt.Errorf("%w: highlight %d is already active",
			review.ErrInvalidTransition, highlightID)
	}
	return r.TransitionStatus(highlightID, state.Status, entities.ReviewStatusActive)
}

// Compile-time interface checks
var _ review.Store = (*Repository)(nil)
var _ review.Ledger = (*Repository)(nil)
