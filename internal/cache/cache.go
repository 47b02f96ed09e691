// Package cache provides the bounded LRU match query cache.
//
// Keys embed the tenant id and the weight configuration version, so a
// weight update implicitly invalidates all prior entries (they simply stop
// being addressable) and cross-tenant cache poisoning is impossible by
// construction even if the tenant guard were bypassed upstream.
package cache

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/talentdb/matchd/internal/domain/model"
	"github.com/talentdb/matchd/pkg/metrics"
)

const defaultCapacity = 1024

// Key identifies one cached ranking. All query parameters that influence
// the result set must appear here.
type Key struct {
	TenantID   string
	Kind       model.EntityKind // anchor kind
	AnchorID   string
	TopK       int
	CityFilter bool
	Version    uint64 // weight configuration version
}

// String canonicalizes the key for the underlying LRU.
func (k Key) String() string {
	return fmt.Sprintf("%s|%s|%s|%d|%t|v%d", k.TenantID, k.Kind, k.AnchorID, k.TopK, k.CityFilter, k.Version)
}

// MatchCache is a concurrency-safe bounded LRU of ranked match lists.
type MatchCache struct {
	entries *lru.Cache[string, []model.MatchResult]
}

// Option applies a configuration option to the MatchCache.
type Option func(*config)

type config struct {
	capacity int
}

// WithCapacity bounds the number of cached rankings.
func WithCapacity(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.capacity = n
		}
	}
}

// New creates a match cache with the configured capacity.
func New(opts ...Option) (*MatchCache, error) {
	cfg := config{capacity: defaultCapacity}
	for _, opt := range opts {
		opt(&cfg)
	}
	entries, err := lru.NewWithEvict[string, []model.MatchResult](cfg.capacity,
		func(string, []model.MatchResult) {
			metrics.RecordCacheEviction()
		})
	if err != nil {
		return nil, fmt.Errorf("create match cache: %w", err)
	}
	return &MatchCache{entries: entries}, nil
}

// Get returns the cached ranking for key, if present.
func (c *MatchCache) Get(key Key) ([]model.MatchResult, bool) {
	results, ok := c.entries.Get(key.String())
	if ok {
		metrics.RecordCacheHit()
		return results, true
	}
	metrics.RecordCacheMiss()
	return nil, false
}

// Put stores a ranking. The cached slice is shared with callers; treat the
// MatchResult values as read-only after insertion.
func (c *MatchCache) Put(key Key, results []model.MatchResult) {
	c.entries.Add(key.String(), results)
	metrics.UpdateCacheSize(c.entries.Len())
}

// Purge drops every entry.
func (c *MatchCache) Purge() {
	c.entries.Purge()
	metrics.UpdateCacheSize(0)
}

// Len returns the current entry count.
func (c *MatchCache) Len() int {
	return c.entries.Len()
}
