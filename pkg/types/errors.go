package types

import (
	"errors"
	"fmt"
)

// Error kinds. Every error returned by the lifecycle coordinator matches
// exactly one of these through errors.Is.
var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrNotFound          = errors.New("not found")
	ErrConflict          = errors.New("conflict")
	ErrIllegalTransition = errors.New("illegal transition")
	ErrStore             = errors.New("store error")
	ErrStoreTimeout      = errors.New("store timeout")
)

var (
	ErrInvalidRole   = fmt.Errorf("%w: invalid role", ErrInvalidInput)
	ErrInvalidStatus = fmt.Errorf("%w: invalid status", ErrInvalidInput)

	ErrUserNotFound     = fmt.Errorf("user %w", ErrNotFound)
	ErrDonationNotFound = fmt.Errorf("donation %w", ErrNotFound)
	ErrRequestNotFound  = fmt.Errorf("request %w", ErrNotFound)
	ErrNGONotFound      = fmt.Errorf("ngo %w", ErrNotFound)

	ErrDonationUnavailable = fmt.Errorf("%w: donation is no longer available", ErrConflict)
)

var errorKinds = []error{
	ErrInvalidInput,
	ErrNotFound,
	ErrConflict,
	ErrIllegalTransition,
	ErrStoreTimeout,
	ErrStore,
}

// KindOf returns the taxonomy kind err belongs to, or ErrStore for errors
// outside the taxonomy.
func KindOf(err error) error {
	if err == nil {
		return nil
	}
	for _, kind := range errorKinds {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return ErrStore
}

// IsRetryable reports whether the caller may retry the operation unchanged.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrStoreTimeout) || errors.Is(err, ErrConflict)
}
