package repository

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/talentdb/matchd/internal/domain/model"
	"github.com/talentdb/matchd/pkg/metrics"
)

const defaultScanLimit = 1000

// MemStore is an in-memory, tenant-partitioned Store implementation.
// Entities are held in per-tenant maps under a single RWMutex; pool scans
// return stable id-ordered slices so identical queries yield identical
// input order for scoring.
type MemStore struct {
	mu        sync.RWMutex
	tenants   map[string]map[string]model.Entity // tenantID -> entityID -> entity
	scanLimit int
}

// NewMemStore creates an empty in-memory store.
func NewMemStore(opts ...Option) *MemStore {
	s := &MemStore{
		tenants:   make(map[string]map[string]model.Entity),
		scanLimit: defaultScanLimit,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetEntity implements Store. Cross-tenant ids report ErrNotFound, never a
// distinct authorization error.
func (s *MemStore) GetEntity(_ context.Context, tenantID, id string) (model.Entity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entities, ok := s.tenants[tenantID]
	if !ok {
		return model.Entity{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	e, ok := entities[id]
	if !ok {
		return model.Entity{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return e, nil
}

// QueryPool implements Store.
func (s *MemStore) QueryPool(_ context.Context, tenantID string, f Filter) ([]model.Entity, error) {
	limit := f.Limit
	if limit <= 0 || limit > s.scanLimit {
		limit = s.scanLimit
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	entities := s.tenants[tenantID]
	ids := make([]string, 0, len(entities))
	for id, e := range entities {
		if e.Kind != f.Kind {
			continue
		}
		if f.City != "" && !strings.EqualFold(e.City, f.City) {
			continue
		}
		ids = append(ids, id)
	}
	sort.Strings(ids)
	if len(ids) > limit {
		ids = ids[:limit]
	}

	out := make([]model.Entity, len(ids))
	for i, id := range ids {
		out[i] = entities[id]
	}
	return out, nil
}

// Upsert implements Store.
func (s *MemStore) Upsert(ctx context.Context, e model.Entity) error {
	switch {
	case e.ID == "":
		return fmt.Errorf("%w: missing id", ErrInvalidEntity)
	case e.TenantID == "":
		return fmt.Errorf("%w: missing tenant id", ErrInvalidEntity)
	case e.Kind != model.KindCandidate && e.Kind != model.KindJob:
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidEntity, e.Kind)
	}

	s.mu.Lock()
	entities, ok := s.tenants[e.TenantID]
	if !ok {
		entities = make(map[string]model.Entity)
		s.tenants[e.TenantID] = entities
	}
	entities[e.ID] = e
	s.mu.Unlock()

	metrics.UpdateStoreEntities(string(e.Kind), s.Count(ctx, e.Kind))
	return nil
}

// Count implements Store.
func (s *MemStore) Count(_ context.Context, kind model.EntityKind) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for _, entities := range s.tenants {
		for _, e := range entities {
			if e.Kind == kind {
				n++
			}
		}
	}
	return n
}
