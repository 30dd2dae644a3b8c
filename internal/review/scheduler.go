// Package review implements the daily review engine: batch selection
// weighted by book frequency and staleness, the per-session state machine
// applying user decisions, and the in-memory registry of live sessions.
package review

import (
	"sort"
	"time"

	"github.com/wardeiling/FreeWise/internal/entities"
)

// DefaultBatchSize is the number of highlights in a daily batch unless
// overridden by configuration or the review_batch_size setting.
const DefaultBatchSize = 5

// Store is the persistence capability set the review engine consumes.
// Implemented by internal/database/reviews.Repository.
type Store interface {
	// EligibleHighlights returns active highlights outside excludeIDs with
	// Book and ReviewState loaded.
	EligibleHighlights(excludeIDs []uint) ([]entities.Highlight, error)

	// TransitionStatus flips a highlight's review status from one state to
	// another with compare-and-update semantics. Returns
	// ErrInvalidTransition when the current status is not `from`.
	TransitionStatus(highlightID uint, from, to entities.ReviewStatus) error

	// MarkReviewed records a completed review on an active highlight:
	// last-reviewed is set, the review counter bumped, status untouched.
	MarkReviewed(highlightID uint, at time.Time) error
}

// Scheduler selects and replenishes review batches. It reads
// priority-relevant fields only and never mutates book or highlight content.
type Scheduler struct {
	store Store
	now   func() time.Time
}

// NewScheduler creates a scheduler over the given store.
func NewScheduler(store Store) *Scheduler {
	return &Scheduler{store: store, now: time.Now}
}

// PriorityWeight computes the selection weight of an eligible highlight:
// the owning book's frequency weight times staleness. Staleness grows
// linearly with time since last review (or creation when never reviewed):
// 1 + age/24h. The curve only has to be monotonic and deterministic; linear
// keeps never-reviewed and long-idle highlights ahead of recently reviewed
// ones without any tuning knobs.
func PriorityWeight(h entities.Highlight, now time.Time) float64 {
	base := h.Book.FrequencyWeight
	if base <= 0 {
		base = 1.0
	}

	since := h.CreatedAt
	if h.ReviewState.LastReviewedAt != nil {
		since = *h.ReviewState.LastReviewedAt
	}

	age := now.Sub(since)
	if age < 0 {
		age = 0
	}
	staleness := 1 + age.Hours()/24

	return base * staleness
}

// BuildBatch draws up to size highlights from the eligible pool, highest
// priority first, without replacement. A pool smaller than size yields the
// whole pool; an empty pool yields an empty batch, which is a legitimate
// state, not an error.
func (s *Scheduler) BuildBatch(size int) ([]entities.Highlight, error) {
	if size <= 0 {
		size = DefaultBatchSize
	}

	pool, err := s.store.EligibleHighlights(nil)
	if err != nil {
		return nil, err
	}

	s.sortByPriority(pool)
	if len(pool) > size {
		pool = pool[:size]
	}
	return pool, nil
}

// Replenish draws the single highest-priority eligible highlight outside
// excludeIDs. Returns nil when the remaining pool is empty.
func (s *Scheduler) Replenish(excludeIDs []uint) (*entities.Highlight, error) {
	pool, err := s.store.EligibleHighlights(excludeIDs)
	if err != nil {
		return nil, err
	}
	if len(pool) == 0 {
		return nil, nil
	}

	s.sortByPriority(pool)
	return &pool[0], nil
}

// sortByPriority orders highlights by descending priority weight, ties
// broken by ascending highlight ID so runs are reproducible.
func (s *Scheduler) sortByPriority(pool []entities.Highlight) {
	now := s.now()
	weights := make(map[uint]float64, len(pool))
	for _, h := range pool {
		weights[h.ID] = PriorityWeight(h, now)
	}

	sort.Slice(pool, func(i, j int) bool {
		wi, wj := weights[pool[i].ID], weights[pool[j].ID]
		if wi != wj {
			return wi > wj
		}
		return pool[i].ID < pool[j].ID
	})
}
