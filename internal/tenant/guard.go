// Package tenant enforces the multi-tenant isolation boundary at scoring
// time. No scoring, caching, or explainability computation may happen for a
// pair whose tenant identifiers differ, nor for an anchor whose tenant
// cannot be resolved.
package tenant

import (
	"fmt"

	"github.com/talentdb/matchd/internal/domain/model"
	"github.com/talentdb/matchd/pkg/metrics"
)

// Guard is the pre-scoring isolation check. It is stateless; the zero
// value is ready to use.
type Guard struct{}

// Check rejects pairs that cross a tenant boundary. It runs before every
// scoring component and before any cache lookup.
func (Guard) Check(anchor, counterpart model.Entity) error {
	if anchor.TenantID == "" {
		return fmt.Errorf("%w: anchor %s", ErrUnresolvedTenant, anchor.ID)
	}
	if anchor.TenantID != counterpart.TenantID {
		metrics.RecordTenantRejection()
		return fmt.Errorf("%w: %s vs %s", ErrTenantMismatch, anchor.ID, counterpart.ID)
	}
	return nil
}

// FilterPool drops pool members that do not share the anchor's tenant.
// The pool normally arrives tenant-filtered from the store; this is the
// hard boundary in case an upstream filter was bypassed.
func (g Guard) FilterPool(anchor model.Entity, pool []model.Entity) []model.Entity {
	out := pool[:0]
	for _, e := range pool {
		if e.TenantID == anchor.TenantID && anchor.TenantID != "" {
			out = append(out, e)
			continue
		}
		metrics.RecordTenantRejection()
	}
	return out
}
