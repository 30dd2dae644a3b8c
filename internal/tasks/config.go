package tasks

import "time"

// Config tunes the shared task queue. Per-queue retry and timeout policy
// lives on each task's Config() method, not here.
type Config struct {
	// Workers is the number of concurrent task workers.
	Workers int

	// ReleaseAfter is how long a claimed task may run before it is
	// released back to the queue as stuck.
	ReleaseAfter time.Duration

	// CleanupInterval is how often completed tasks past their retention
	// are removed.
	CleanupInterval time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Workers:         2,
		ReleaseAfter:    15 * time.Minute,
		CleanupInterval: time.Hour,
	}
}
