package entities

import (
	"time"
)

type ReviewStatus string

const (
	ReviewStatusActive    ReviewStatus = "active"
	ReviewStatusFavorited ReviewStatus = "favorited"
	ReviewStatusDiscarded ReviewStatus = "discarded"
)

// ValidReviewStatus reports whether s is one of the three known states.
func ValidReviewStatus(s ReviewStatus) bool {
	switch s {
	case ReviewStatusActive, ReviewStatusFavorited, ReviewStatusDiscarded:
		return true
	}
	return false
}

// ReviewState tracks review progress for exactly one highlight. Created
// alongside the highlight with defaults and never deleted independently.
// Favorited and discarded are mutually exclusive and reachable only from
// active; restoring returns either of them to active.
type ReviewState struct {
	ID          uint         `gorm:"primaryKey" json:"id"`
	HighlightID uint         `gorm:"uniqueIndex" json:"highlight_id"`
	Status      ReviewStatus `gorm:"index;size:20;default:'active'" json:"status"`

	// LastReviewedAt is nil until the highlight is first marked done.
	LastReviewedAt *time.Time `json:"last_reviewed_at,omitempty"`
	ReviewCount    int        `gorm:"default:0" json:"review_count"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (ReviewState) TableName() string {
	return "review_states"
}

// NewReviewState returns the default state a freshly imported highlight gets.
func NewReviewState(highlightID uint) ReviewState {
	return ReviewState{
		HighlightID: highlightID,
		Status:      ReviewStatusActive,
	}
}

type SessionStatus string

const (
	SessionStatusInProgress SessionStatus = "in_progress"
	SessionStatusCompleted  SessionStatus = "completed"
	SessionStatusAbandoned  SessionStatus = "abandoned"
)

// ReviewSession is the persisted ledger of one review sitting: when it ran,
// how many items it targeted and how each was disposed of. The live batch and
// cursor are held in memory by the review manager; only counters live here.
type ReviewSession struct {
	ID          uint          `gorm:"primaryKey" json:"id"`
	UUID        string        `gorm:"uniqueIndex;size:36" json:"uuid"`
	SessionDate string        `gorm:"index;size:10" json:"session_date"` // YYYY-MM-DD
	Status      SessionStatus `gorm:"size:20;default:'in_progress'" json:"status"`
	TargetCount int           `json:"target_count"`
	Reviewed    int           `json:"reviewed"`
	Discarded   int           `json:"discarded"`
	Favorited   int           `json:"favorited"`
	StartedAt   time.Time     `json:"started_at"`
	CompletedAt *time.Time    `json:"completed_at,omitempty"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

func (ReviewSession) TableName() string {
	return "review_sessions"
}
