package cache

import (
	"context"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/Joaovenera/wms-sub000/internal/validation"
	"github.com/Joaovenera/wms-sub000/pkg/metrics"
)

type memoryEntry struct {
	result   *validation.Result
	checksum uint64
	storedAt time.Time
	scope    string
	deps     []string
}

// MemoryStore is a process-local LRU store. Under multiple server
// instances entries are not shared, so hit rate degrades per instance;
// deployments needing a shared cache use the Redis store instead.
type MemoryStore struct {
	mu        sync.Mutex
	entries   *lru.Cache[string, *memoryEntry]
	ttl       time.Duration
	capacity  int
	hits      int64
	misses    int64
	evictions int64
	now       func() time.Time
	metrics   *metrics.Metrics
}

// MemoryOption configures a MemoryStore
type MemoryOption func(*MemoryStore)

// WithTTL overrides the default entry TTL
func WithTTL(ttl time.Duration) MemoryOption {
	return func(s *MemoryStore) { s.ttl = ttl }
}

// WithCapacity overrides the default entry capacity
func WithCapacity(capacity int) MemoryOption {
	return func(s *MemoryStore) { s.capacity = capacity }
}

// WithClock overrides the time source, for tests
func WithClock(now func() time.Time) MemoryOption {
	return func(s *MemoryStore) { s.now = now }
}

// WithMetrics wires cache counters into the metrics registry
func WithMetrics(m *metrics.Metrics) MemoryOption {
	return func(s *MemoryStore) { s.metrics = m }
}

// NewMemoryStore creates an in-memory result cache
func NewMemoryStore(opts ...MemoryOption) *MemoryStore {
	store := &MemoryStore{
		ttl:      DefaultTTL,
		capacity: DefaultCapacity,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(store)
	}

	store.entries, _ = lru.NewWithEvict[string, *memoryEntry](store.capacity, func(string, *memoryEntry) {
		store.evictions++
		if store.metrics != nil {
			store.metrics.RecordCacheEviction("memory")
		}
	})

	return store
}

// Get returns a usable entry: fresh by TTL and matching the checksum.
// Eviction is by recency only; staleness is checked at read time.
func (s *MemoryStore) Get(_ context.Context, key string, checksum uint64) (*validation.Result, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries.Get(key)
	if !ok {
		return s.miss()
	}
	if s.now().Sub(entry.storedAt) >= s.ttl {
		s.entries.Remove(key)
		return s.miss()
	}
	if entry.checksum != checksum {
		return s.miss()
	}

	s.hits++
	if s.metrics != nil {
		s.metrics.RecordCacheLookup("memory", true)
	}
	return entry.result, true
}

func (s *MemoryStore) miss() (*validation.Result, bool) {
	s.misses++
	if s.metrics != nil {
		s.metrics.RecordCacheLookup("memory", false)
	}
	return nil, false
}

// Set stores a result under key
func (s *MemoryStore) Set(_ context.Context, key string, checksum uint64, result *validation.Result) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries.Add(key, &memoryEntry{
		result:   result,
		checksum: checksum,
		storedAt: s.now(),
		scope:    scopeOf(key),
		deps:     dependenciesOf(key),
	})
	if s.metrics != nil {
		s.metrics.SetCacheEntries("memory", s.entries.Len())
	}
}

// Stats returns current counters
func (s *MemoryStore) Stats(_ context.Context) Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats := Stats{
		Entries:   s.entries.Len(),
		Capacity:  s.capacity,
		Hits:      s.hits,
		Misses:    s.misses,
		Evictions: s.evictions,
	}
	if total := stats.Hits + stats.Misses; total > 0 {
		stats.HitRate = float64(stats.Hits) / float64(total)
	}
	return stats
}

// Clear drops all entries in the given scope
func (s *MemoryStore) Clear(_ context.Context, scope string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if scope == "" || scope == ScopeAll {
		removed := s.entries.Len()
		s.entries.Purge()
		return removed
	}

	removed := 0
	for _, key := range s.entries.Keys() {
		if entry, ok := s.entries.Peek(key); ok && entry.scope == scope {
			s.entries.Remove(key)
			removed++
		}
	}
	return removed
}

// InvalidateDependency drops entries referencing the dependency.
// With cascade, entries sharing any dependency with a dropped entry
// are dropped in the same sweep.
func (s *MemoryStore) InvalidateDependency(_ context.Context, dependency string, cascade bool) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	targets := map[string]struct{}{dependency: {}}
	if cascade {
		for _, key := range s.entries.Keys() {
			entry, ok := s.entries.Peek(key)
			if !ok || !dependsOn(entry.deps, dependency) {
				continue
			}
			for _, dep := range entry.deps {
				targets[dep] = struct{}{}
			}
		}
	}

	removed := 0
	for _, key := range s.entries.Keys() {
		entry, ok := s.entries.Peek(key)
		if !ok {
			continue
		}
		for _, dep := range entry.deps {
			if _, hit := targets[dep]; hit {
				s.entries.Remove(key)
				removed++
				break
			}
		}
	}
	return removed
}

func dependsOn(deps []string, dependency string) bool {
	for _, dep := range deps {
		if dep == dependency {
			return true
		}
	}
	return false
}
