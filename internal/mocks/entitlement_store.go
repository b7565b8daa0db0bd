// Package mocks provides hand-rolled test doubles with call tracking for the
// application's interfaces.
package mocks

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/dimitry-co/ai-study-buddy/internal/store"
)

// EntitlementStore implements store.EntitlementStore in memory.
type EntitlementStore struct {
	mu sync.Mutex

	// Subscriptions and FreeUsed seed the store's state per user.
	Subscriptions map[uuid.UUID]*store.Subscription
	FreeUsed      map[uuid.UUID]int

	// Error overrides per method; when set the method fails with it.
	GetSubscriptionErr   error
	GetFreeUsedErr       error
	IncrementFreeUsedErr error

	// IncrementCalls counts IncrementFreeUsed invocations.
	IncrementCalls int
}

// NewEntitlementStore creates an empty in-memory entitlement store.
func NewEntitlementStore() *EntitlementStore {
	return &EntitlementStore{
		Subscriptions: make(map[uuid.UUID]*store.Subscription),
		FreeUsed:      make(map[uuid.UUID]int),
	}
}

var _ store.EntitlementStore = (*EntitlementStore)(nil)

func (m *EntitlementStore) GetSubscription(ctx context.Context, userID uuid.UUID) (*store.Subscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.GetSubscriptionErr != nil {
		return nil, m.GetSubscriptionErr
	}
	sub, ok := m.Subscriptions[userID]
	if !ok {
		return nil, store.ErrSubscriptionNotFound
	}
	return sub, nil
}

func (m *EntitlementStore) GetFreeUsed(ctx context.Context, userID uuid.UUID) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.GetFreeUsedErr != nil {
		return 0, m.GetFreeUsedErr
	}
	return m.FreeUsed[userID], nil
}

func (m *EntitlementStore) IncrementFreeUsed(ctx context.Context, userID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.IncrementCalls++
	if m.IncrementFreeUsedErr != nil {
		return m.IncrementFreeUsedErr
	}
	m.FreeUsed[userID]++
	return nil
}

// Used returns the current counter for a user.
func (m *EntitlementStore) Used(userID uuid.UUID) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.FreeUsed[userID]
}
