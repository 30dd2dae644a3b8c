package review

import (
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/wardeiling/FreeWise/internal/entities"
)

// Manager is the registry of live review sessions, keyed by UUID. Each HTTP
// request addresses a session through it; the registry lock only guards the
// map, per-session state is guarded by the session itself.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	scheduler *Scheduler
	store     Store
	ledger    Ledger
	now       func() time.Time
}

// NewManager creates a session manager over the given store and ledger.
func NewManager(store Store, ledger Ledger) *Manager {
	return &Manager{
		sessions:  make(map[string]*Session),
		scheduler: NewScheduler(store),
		store:     store,
		ledger:    ledger,
		now:       time.Now,
	}
}

// Start opens a new review session with a freshly assembled batch of up to
// batchSize highlights and registers it. The persisted ledger row is created
// before the batch is drawn so an aborted start still leaves a trace.
func (m *Manager) Start(batchSize int) (*Session, error) {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	started := m.now()
	session := &Session{
		UUID:         uuid.NewString(),
		StartedAt:    started,
		state:        StatePending,
		placed:       make(map[uint]struct{}),
		lastActivity: started,
		scheduler:    m.scheduler,
		store:        m.store,
		ledger:       m.ledger,
		now:          m.now,
	}

	row := &entities.ReviewSession{
		UUID:        session.UUID,
		SessionDate: started.Format("2006-01-02"),
		Status:      entities.SessionStatusInProgress,
		TargetCount: batchSize,
		StartedAt:   started,
	}
	if err := m.ledger.CreateSession(row); err != nil {
		return nil, err
	}

	if err := session.start(batchSize); err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.sessions[session.UUID] = session
	m.mu.Unlock()

	return session, nil
}

// Get returns the live session with the given UUID.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	session, ok := m.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

// PruneIdle drops resolved sessions and abandons sessions without activity
// since the cutoff, closing their ledger rows. Returns how many sessions
// were removed from the registry.
func (m *Manager) PruneIdle(cutoff time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	pruned := 0
	for id, session := range m.sessions {
		switch {
		case session.resolved():
			delete(m.sessions, id)
			pruned++
		case session.idleSince().Before(cutoff):
			session.closeLedger(entities.SessionStatusAbandoned)
			delete(m.sessions, id)
			pruned++
			log.Printf("Abandoned idle review session %s", id)
		}
	}
	return pruned
}

// Len reports the number of live sessions.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
