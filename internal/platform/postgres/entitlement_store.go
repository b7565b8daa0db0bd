// Package postgres provides PostgreSQL-backed implementations of the store
// interfaces, using database/sql over the pgx stdlib driver.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/dimitry-co/ai-study-buddy/internal/store"
)

// EntitlementStore implements store.EntitlementStore on PostgreSQL.
type EntitlementStore struct {
	db *sql.DB
}

// NewEntitlementStore creates a Postgres-backed entitlement store. The
// database connection is initialized and owned by the caller.
func NewEntitlementStore(db *sql.DB) *EntitlementStore {
	return &EntitlementStore{db: db}
}

var _ store.EntitlementStore = (*EntitlementStore)(nil)

// GetSubscription implements store.EntitlementStore.GetSubscription.
func (s *EntitlementStore) GetSubscription(ctx context.Context, userID uuid.UUID) (*store.Subscription, error) {
	sub := &store.Subscription{UserID: userID}

	err := s.db.QueryRowContext(ctx,
		`SELECT status, current_period_end
		   FROM subscriptions
		  WHERE user_id = $1`,
		userID,
	).Scan(&sub.Status, &sub.PeriodEnd)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrSubscriptionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query subscription: %w", err)
	}

	return sub, nil
}

// GetFreeUsed implements store.EntitlementStore.GetFreeUsed. A missing usage
// record reads as zero.
func (s *EntitlementStore) GetFreeUsed(ctx context.Context, userID uuid.UUID) (int, error) {
	var used int

	err := s.db.QueryRowContext(ctx,
		`SELECT free_generations_used
		   FROM generation_usage
		  WHERE user_id = $1`,
		userID,
	).Scan(&used)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to query free-tier usage: %w", err)
	}

	return used, nil
}

// IncrementFreeUsed implements store.EntitlementStore.IncrementFreeUsed.
// The upsert makes the increment itself atomic; the check-then-debit window
// around the generation stays best-effort by design.
func (s *EntitlementStore) IncrementFreeUsed(ctx context.Context, userID uuid.UUID) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO generation_usage (user_id, free_generations_used)
		 VALUES ($1, 1)
		 ON CONFLICT (user_id)
		 DO UPDATE SET free_generations_used = generation_usage.free_generations_used + 1,
		               updated_at = now()`,
		userID,
	)
	if err != nil {
		return fmt.Errorf("failed to increment free-tier usage: %w", err)
	}
	return nil
}
