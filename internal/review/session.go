package review

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/wardeiling/FreeWise/internal/entities"
)

// State is the lifecycle position of a review session.
type State string

const (
	// StatePending means the batch is assembled but nothing was shown yet.
	StatePending State = "pending"
	// StatePresenting means the current highlight is in front of the user.
	StatePresenting State = "presenting"
	// StateResolved means every batch item was disposed of and the eligible
	// pool has nothing left to draw.
	StateResolved State = "resolved"
)

// Action is a user decision on the currently presented highlight.
type Action string

const (
	// ActionDone marks the highlight reviewed; it stays active and returns
	// to rotation later.
	ActionDone Action = "done"
	// ActionDiscard removes the highlight from rotation until restored.
	ActionDiscard Action = "discard"
	// ActionFavorite pins the highlight as a favourite and removes it from
	// rotation.
	ActionFavorite Action = "favorite"
)

// ParseAction validates a wire-level action string.
func ParseAction(s string) (Action, error) {
	switch Action(s) {
	case ActionDone, ActionDiscard, ActionFavorite:
		return Action(s), nil
	}
	return "", fmt.Errorf("unknown review action %q", s)
}

// Ledger persists the per-session counters row. Implemented by
// internal/database/reviews.Repository.
type Ledger interface {
	CreateSession(session *entities.ReviewSession) error
	RecordAction(uuid string, action Action) error
	CloseSession(uuid string, status entities.SessionStatus, at time.Time) error
}

// Session is one user's live review sitting: the current batch, the cursor,
// and the set of highlights already placed so replenishment never re-draws
// them. Sessions are owned by a Manager and addressed by UUID; all state
// beyond the store lives here, never shared between sessions.
type Session struct {
	UUID      string
	StartedAt time.Time

	mu           sync.Mutex
	state        State
	queue        []entities.Highlight
	placed       map[uint]struct{} // every highlight ever part of this session
	lastActivity time.Time

	scheduler *Scheduler
	store     Store
	ledger    Ledger
	now       func() time.Time
}

// Snapshot is a read-only view of a session for API responses.
type Snapshot struct {
	UUID      string               `json:"uuid"`
	State     State                `json:"state"`
	Current   *entities.Highlight  `json:"current,omitempty"`
	Queue     []entities.Highlight `json:"queue"`
	Remaining int                  `json:"remaining"`
	StartedAt time.Time            `json:"started_at"`
}

// start assembles the first batch and moves the session to presenting, or
// straight to resolved when the eligible pool is empty. An empty library is
// reported through the resolved state, not an error.
func (s *Session) start(batchSize int) error {
	batch, err := s.scheduler.BuildBatch(batchSize)
	if err != nil {
		return fmt.Errorf("failed to build batch: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.queue = batch
	for _, h := range batch {
		s.placed[h.ID] = struct{}{}
	}

	if len(batch) == 0 {
		s.state = StateResolved
		s.closeLedger(entities.SessionStatusCompleted)
		return nil
	}
	s.state = StatePresenting
	return nil
}

// Snapshot returns the session's current state for presentation.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		UUID:      s.UUID,
		State:     s.state,
		Queue:     append([]entities.Highlight(nil), s.queue...),
		Remaining: len(s.queue),
		StartedAt: s.StartedAt,
	}
	if s.state == StatePresenting && len(s.queue) > 0 {
		current := s.queue[0]
		snap.Current = &current
	}
	return snap
}

// Apply disposes of the currently presented highlight with the given action.
//
// The store write is the atomic part of an action: the review state is
// updated with compare-and-update semantics before the session mutates
// anything. A replenishment failure after a committed disposal is logged and
// the batch simply shrinks; the disposal stands.
func (s *Session) Apply(action Action) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastActivity = s.now()

	if s.state != StatePresenting || len(s.queue) == 0 {
		return ErrSessionResolved
	}
	current := s.queue[0]

	var err error
	switch action {
	case ActionDone:
		err = s.store.MarkReviewed(current.ID, s.now())
	case ActionDiscard:
		err = s.store.TransitionStatus(current.ID, entities.ReviewStatusActive, entities.ReviewStatusDiscarded)
	case ActionFavorite:
		err = s.store.TransitionStatus(current.ID, entities.ReviewStatusActive, entities.ReviewStatusFavorited)
	default:
		return fmt.Errorf("unknown review action %q", action)
	}
	if err != nil {
		return err
	}

	// Disposal committed; everything past this point only shrinks or
	// refills the in-memory queue.
	s.queue = s.queue[1:]

	if recErr := s.ledger.RecordAction(s.UUID, action); recErr != nil {
		log.Printf("Failed to record session action: %v", recErr)
	}

	replacement, repErr := s.scheduler.Replenish(s.placedIDs())
	if repErr != nil {
		log.Printf("Replenishment failed, batch shrinks: %v", repErr)
	} else if replacement != nil {
		s.queue = append(s.queue, *replacement)
		s.placed[replacement.ID] = struct{}{}
	}

	if len(s.queue) == 0 {
		s.state = StateResolved
		s.closeLedger(entities.SessionStatusCompleted)
	}
	return nil
}

// placedIDs lists every highlight this session has shown or queued, so the
// scheduler never draws one of them again within the session.
func (s *Session) placedIDs() []uint {
	ids := make([]uint, 0, len(s.placed))
	for id := range s.placed {
		ids = append(ids, id)
	}
	return ids
}

func (s *Session) closeLedger(status entities.SessionStatus) {
	if err := s.ledger.CloseSession(s.UUID, status, s.now()); err != nil {
		log.Printf("Failed to close session ledger %s: %v", s.UUID, err)
	}
}

// idleSince reports the last time the session saw activity.
func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActivity
}

// resolved reports whether the session has fully run its course.
func (s *Session) resolved() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state == StateResolved
}
