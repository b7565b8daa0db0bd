// Package domain defines the core business entities and errors: study items,
// generation requests, caller identity, and entitlement state.
package domain
