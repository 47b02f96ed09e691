package tenant

import "errors"

// Sentinel kinds for tenant guard rejections. The API layer surfaces both
// as a generic not-found condition: cross-tenant existence must never be
// distinguishable from nonexistence.
var (
	ErrTenantMismatch   = errors.New("tenant mismatch")
	ErrUnresolvedTenant = errors.New("tenant not resolved")
)
