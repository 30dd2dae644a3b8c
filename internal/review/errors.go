package review

import "errors"

var (
	// ErrInvalidTransition is returned when a requested review-state change
	// is not allowed from the highlight's current status, e.g. discarding a
	// favorited highlight without restoring it to active first. The state is
	// left unchanged.
	ErrInvalidTransition = errors.New("invalid review state transition")

	// ErrStateConflict is returned when a compare-and-update write found the
	// review state changed underneath it. Last writer wins elsewhere; the
	// losing caller just observes this sentinel.
	ErrStateConflict = errors.New("review state changed concurrently")

	// ErrSessionNotFound is returned when no live session carries the given
	// identifier.
	ErrSessionNotFound = errors.New("review session not found")

	// ErrSessionResolved is returned for actions on a session whose batch is
	// already fully disposed of.
	ErrSessionResolved = errors.New("review session already resolved")
)
