// Package repository defines the entity store interface and errors.
//
// The scoring core only needs "read a document by id" and "query documents
// matching a filter"; the in-memory implementation below stands in for the
// ingestion collaborator's persistence.
package repository

import (
	"context"

	"github.com/talentdb/matchd/internal/domain/model"
)

// Filter narrows a pool query. Zero values mean "no constraint" except
// Kind, which is always required.
type Filter struct {
	Kind  model.EntityKind
	City  string // canonical city; exact match when set
	Limit int    // caps the scan; the store default applies when 0
}

// Store provides tenant-scoped access to entities.
type Store interface {
	// GetEntity returns the entity with the given id within tenantID.
	// Returns ErrNotFound for unknown ids and, deliberately, for ids that
	// exist under a different tenant.
	GetEntity(ctx context.Context, tenantID, id string) (model.Entity, error)

	// QueryPool returns entities of the tenant matching the filter.
	QueryPool(ctx context.Context, tenantID string, f Filter) ([]model.Entity, error)

	// Upsert inserts or replaces an entity keyed by (tenant, id).
	Upsert(ctx context.Context, e model.Entity) error

	// Count returns the number of entities of one kind across all tenants.
	Count(ctx context.Context, kind model.EntityKind) int
}
