// Package entitlement decides whether a caller may run a generation and
// meters free-tier usage. Administrators and active subscribers generate
// without limit; everyone else is counted against a free-generation quota.
package entitlement

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dimitry-co/ai-study-buddy/internal/config"
	"github.com/dimitry-co/ai-study-buddy/internal/domain"
	"github.com/dimitry-co/ai-study-buddy/internal/platform/logger"
	"github.com/dimitry-co/ai-study-buddy/internal/store"
)

// ErrQuotaExceeded is returned when a quota-limited caller has exhausted the
// free tier. The API layer surfaces it with a subscription-required flag.
var ErrQuotaExceeded = errors.New("free generation quota exhausted")

// QuotaExceededError carries the quota numbers behind a rejection.
type QuotaExceededError struct {
	Used  int
	Limit int
}

func (e *QuotaExceededError) Error() string {
	return fmt.Sprintf("%v: used %d of %d", ErrQuotaExceeded, e.Used, e.Limit)
}

func (e *QuotaExceededError) Unwrap() error { return ErrQuotaExceeded }

// Gate is the entitlement check and usage ledger for the generation pipeline.
type Gate struct {
	cfg    config.EntitlementConfig
	store  store.EntitlementStore
	admins map[string]bool

	// now is injectable for testing subscription expiry.
	now func() time.Time
}

// NewGate creates an entitlement Gate.
func NewGate(cfg config.EntitlementConfig, entStore store.EntitlementStore) *Gate {
	admins := make(map[string]bool, len(cfg.AdminEmails))
	for _, email := range cfg.AdminEmails {
		admins[strings.ToLower(strings.TrimSpace(email))] = true
	}

	return &Gate{
		cfg:    cfg,
		store:  entStore,
		admins: admins,
		now:    time.Now,
	}
}

// Authorize reads the caller's entitlement state fresh from the store and
// decides whether this generation may run. It performs no writes; the debit
// happens in RecordUsage only after the generation fully succeeds.
func (g *Gate) Authorize(ctx context.Context, identity domain.Identity) (domain.EntitlementState, error) {
	log := logger.FromContext(ctx)
	state := domain.EntitlementState{}

	if g.admins[strings.ToLower(identity.Email)] {
		state.IsAdmin = true
		return state, nil
	}

	sub, err := g.store.GetSubscription(ctx, identity.ID)
	if err != nil && !errors.Is(err, store.ErrSubscriptionNotFound) {
		return state, fmt.Errorf("failed to read subscription: %w", err)
	}
	if sub != nil && g.activeForAccess(sub) {
		state.IsSubscribed = true
		return state, nil
	}

	used, err := g.store.GetFreeUsed(ctx, identity.ID)
	if err != nil {
		return state, fmt.Errorf("failed to read free-tier usage: %w", err)
	}
	state.FreeGenerationsUsed = used

	if used >= g.cfg.FreeTierLimit {
		log.Info("free tier exhausted",
			"user_id", identity.ID,
			"used", used,
			"limit", g.cfg.FreeTierLimit)
		return state, &QuotaExceededError{Used: used, Limit: g.cfg.FreeTierLimit}
	}

	return state, nil
}

// activeForAccess reports whether the subscription grants access right now.
// A canceled subscription keeps access through the period already paid for.
func (g *Gate) activeForAccess(sub *store.Subscription) bool {
	switch sub.Status {
	case store.SubscriptionStatusActive:
		return true
	case store.SubscriptionStatusCanceled:
		return sub.PeriodEnd.After(g.now())
	default:
		return false
	}
}

// RecordUsage debits the free tier by exactly 1 for quota-limited callers.
// Called only after a fully successful generation; failed generations never
// consume quota.
func (g *Gate) RecordUsage(ctx context.Context, identity domain.Identity, state domain.EntitlementState) error {
	if !state.QuotaLimited() {
		return nil
	}

	if err := g.store.IncrementFreeUsed(ctx, identity.ID); err != nil {
		return fmt.Errorf("failed to record generation usage: %w", err)
	}

	logger.FromContext(ctx).Info("free generation recorded",
		"user_id", identity.ID,
		"used", state.FreeGenerationsUsed+1,
		"limit", g.cfg.FreeTierLimit)

	return nil
}
