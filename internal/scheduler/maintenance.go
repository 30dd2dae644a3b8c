// Package scheduler runs periodic maintenance outside the request path:
// abandoning idle review sessions and pruning finished import runs.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/wardeiling/FreeWise/internal/review"
	"github.com/wardeiling/FreeWise/internal/tasks"
)

// SessionAbandoner closes stale persisted session ledgers.
// Implemented by internal/database/reviews.Repository.
type SessionAbandoner interface {
	AbandonStaleSessions(cutoff time.Time, at time.Time) (int64, error)
}

// Config tunes the maintenance schedule.
type Config struct {
	Schedule           string
	SessionIdleTimeout time.Duration
	ImportRunRetention time.Duration
}

// MaintenanceScheduler periodically abandons idle review sessions (both the
// in-memory registry and persisted ledger rows) and enqueues import-run
// cleanup on the task queue.
type MaintenanceScheduler struct {
	manager    *review.Manager
	sessions   SessionAbandoner
	taskClient *tasks.Client // optional; cleanup is skipped without it
	cfg        Config

	cron       *cron.Cron
	mu         sync.Mutex
	isRunning  bool
	cancelFunc context.CancelFunc
}

// NewMaintenanceScheduler creates a scheduler instance.
func NewMaintenanceScheduler(manager *review.Manager, sessions SessionAbandoner, taskClient *tasks.Client, cfg Config) *MaintenanceScheduler {
	return &MaintenanceScheduler{
		manager:    manager,
		sessions:   sessions,
		taskClient: taskClient,
		cfg:        cfg,
		cron:       cron.New(cron.WithParser(cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow))),
	}
}

// Start schedules the maintenance job.
func (s *MaintenanceScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	if _, err := s.cron.AddFunc(s.cfg.Schedule, s.runMaintenance); err != nil {
		return fmt.Errorf("failed to schedule maintenance job '%s': %w", s.cfg.Schedule, err)
	}

	var cancelCtx context.Context
	cancelCtx, s.cancelFunc = context.WithCancel(ctx)

	s.cron.Start()
	s.isRunning = true
	log.Printf("Maintenance scheduler: started with schedule '%s'", s.cfg.Schedule)

	go func() {
		<-cancelCtx.Done()
		s.Stop()
	}()

	return nil
}

// Stop halts the scheduler, waiting for a running job to finish.
func (s *MaintenanceScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}
	if s.cancelFunc != nil {
		s.cancelFunc()
		s.cancelFunc = nil
	}

	stopCtx := s.cron.Stop()
	<-stopCtx.Done()
	s.isRunning = false
	log.Printf("Maintenance scheduler: stopped")
}

func (s *MaintenanceScheduler) runMaintenance() {
	now := time.Now()
	cutoff := now.Add(-s.cfg.SessionIdleTimeout)

	pruned := s.manager.PruneIdle(cutoff)
	if pruned > 0 {
		log.Printf("Maintenance: pruned %d idle review sessions", pruned)
	}

	abandoned, err := s.sessions.AbandonStaleSessions(cutoff, now)
	if err != nil {
		log.Printf("Maintenance: failed to abandon stale sessions: %v", err)
	} else if abandoned > 0 {
		log.Printf("Maintenance: abandoned %d stale session ledgers", abandoned)
	}

	if s.taskClient != nil {
		task := tasks.CleanupImportRunsTask{Retention: s.cfg.ImportRunRetention}
		if _, err := s.taskClient.Add(task).Save(); err != nil {
			log.Printf("Maintenance: failed to enqueue import run cleanup: %v", err)
		}
	}
}
