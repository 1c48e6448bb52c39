package errs

import "errors"

// Sentinel errors shared across the reconciler layers
var (
	// Job errors
	ErrJobNotFound          = errors.New("job not found")
	ErrJobAlreadyRegistered = errors.New("job already registered")
	ErrInvalidSchedule      = errors.New("invalid job schedule")

	// Lock errors
	ErrLockBackendUnconfigured = errors.New("lock backend not configured")
	ErrLockBackendUnavailable  = errors.New("lock backend unavailable")

	// Booking errors
	ErrBookingNotFound     = errors.New("booking not found")
	ErrBookingStatusMoved  = errors.New("booking status changed since read")
	ErrInvalidPolicy       = errors.New("invalid reconciliation policy")
	ErrStorageOperation    = errors.New("storage operation failed")
	ErrNotificationFailure = errors.New("notification delivery failed")
)
