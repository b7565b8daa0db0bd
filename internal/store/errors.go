package store

import (
	"errors"
	"fmt"
)

// Common store errors used across all store implementations.
var (
	// ErrNotFound is returned when a requested entity does not exist.
	ErrNotFound = errors.New("entity not found")

	// ErrSubscriptionNotFound indicates the user has no subscription record.
	ErrSubscriptionNotFound = fmt.Errorf("%w: subscription", ErrNotFound)
)
