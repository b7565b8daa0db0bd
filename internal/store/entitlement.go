// Package store defines the persistence interfaces the application core
// depends on, keeping storage details out of the services.
package store

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Subscription statuses the entitlement gate understands. Other statuses
// (past_due, incomplete, ...) are treated as not granting access.
const (
	SubscriptionStatusActive   = "active"
	SubscriptionStatusCanceled = "canceled"
)

// Subscription is the stored billing state for one user.
type Subscription struct {
	UserID    uuid.UUID
	Status    string
	PeriodEnd time.Time
}

// EntitlementStore persists subscription state and the free-tier usage
// counter. The pipeline reads it once at authorization time and writes once
// (an increment) after a successful quota-limited generation; values are
// never cached across requests.
type EntitlementStore interface {
	// GetSubscription returns the user's subscription record.
	// Returns ErrSubscriptionNotFound when the user has never subscribed.
	GetSubscription(ctx context.Context, userID uuid.UUID) (*Subscription, error)

	// GetFreeUsed returns how many free-tier generations the user has
	// consumed. A user with no usage record has used 0.
	GetFreeUsed(ctx context.Context, userID uuid.UUID) (int, error)

	// IncrementFreeUsed adds exactly 1 to the user's free-tier counter,
	// creating the record if absent.
	IncrementFreeUsed(ctx context.Context, userID uuid.UUID) error
}
