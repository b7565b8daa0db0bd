package domain

import "github.com/google/uuid"

// Identity is the authenticated caller as supplied by the session layer.
type Identity struct {
	ID    uuid.UUID
	Email string
}

// EntitlementState is the caller's access level, read fresh from the
// entitlement store at the start of every request. The only mutation the
// pipeline ever performs against it is a post-success increment of the
// free-generation counter for quota-limited callers.
type EntitlementState struct {
	IsAdmin             bool
	IsSubscribed        bool
	FreeGenerationsUsed int
}

// QuotaLimited reports whether the caller is metered against the free tier.
func (s EntitlementState) QuotaLimited() bool {
	return !s.IsAdmin && !s.IsSubscribed
}
