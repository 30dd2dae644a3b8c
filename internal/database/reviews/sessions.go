package reviews

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/wardeiling/FreeWise/internal/entities"
	"github.com/wardeiling/FreeWise/internal/review"
)

// CreateSession stores the ledger row for a newly started review session.
func (r *Repository) CreateSession(session *entities.ReviewSession) error {
	return r.db.Create(session).Error
}

// GetSessionByUUID retrieves a session ledger row.
func (r *Repository) GetSessionByUUID(uuid string) (*entities.ReviewSession, error) {
	var session entities.ReviewSession
	err := r.db.Where("uuid = ?", uuid).First(&session).Error
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// RecordAction increments the ledger counter matching one disposed batch item.
func (r *Repository) RecordAction(uuid string, action review.Action) error {
	var column string
	switch action {
	case review.ActionDone:
		column = "reviewed"
	case review.ActionDiscard:
		column = "discarded"
	case review.ActionFavorite:
		column = "favorited"
	default:
		return fmt.Errorf("unknown review action %q", action)
	}

	return r.db.Model(&entities.ReviewSession{}).
		Where("uuid = ?", uuid).
		Update(column, gorm.Expr(column+" + 1")).Error
}

// CloseSession marks a session completed or abandoned and stamps the time.
func (r *Repository) CloseSession(uuid string, status entities.SessionStatus, at time.Time) error {
	return r.db.Model(&entities.ReviewSession{}).
		Where("uuid = ? AND status = ?", uuid, entities.SessionStatusInProgress).
		Updates(map[string]any{
			"status":       status,
			"completed_at": at,
		}).Error
}

// AbandonStaleSessions closes every in-progress ledger row without activity
// since the cutoff. Covers sessions whose in-memory state was lost on
// restart. Returns the number of rows closed.
func (r *Repository) AbandonStaleSessions(cutoff time.Time, at time.Time) (int64, error) {
	result := r.db.Model(&entities.ReviewSession{}).
		Where("status = ? AND updated_at < ?", entities.SessionStatusInProgress, cutoff).
		Updates(map[string]any{
			"status":       entities.SessionStatusAbandoned,
			"completed_at": at,
		})
	return result.RowsAffected, result.Error
}

// ListSessions returns recent session ledger rows, newest first.
func (r *Repository) ListSessions(limit int) ([]entities.ReviewSession, error) {
	var sessions []entities.ReviewSession
	query := r.db.Order("started_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	err := query.Find(&sessions).Error
	return sessions, err
}
