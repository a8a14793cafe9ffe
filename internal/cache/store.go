package cache

import (
	"context"
	"strings"
	"time"

	"github.com/Joaovenera/wms-sub000/internal/validation"
)

const (
	// DefaultTTL bounds how long a cached result stays usable
	DefaultTTL = 12 * time.Minute

	// DefaultCapacity bounds the number of retained entries
	DefaultCapacity = 1000
)

// Entry scopes used by the admin clear endpoint
const (
	ScopeComposition = "composition"
	ScopeIntelligent = "intelligent"
	ScopeAll         = "all"
)

// Stats summarizes a store's state for the admin endpoint
type Stats struct {
	Entries   int     `json:"entries"`
	Capacity  int     `json:"capacity"`
	Hits      int64   `json:"hits"`
	Misses    int64   `json:"misses"`
	Evictions int64   `json:"evictions"`
	HitRate   float64 `json:"hitRate"`
}

// Store is a checksum and TTL gated cache of validation results.
// Implementations must treat an entry as usable only when it is
// younger than the TTL and its stored checksum matches the caller's.
type Store interface {
	validation.ResultCache

	// Stats returns current counters
	Stats(ctx context.Context) Stats

	// Clear drops all entries in the given scope and returns how many
	// were removed
	Clear(ctx context.Context, scope string) int

	// InvalidateDependency drops entries referencing the given
	// dependency (a product or pallet id). With cascade, entries
	// sharing any dependency with a dropped entry are dropped too.
	InvalidateDependency(ctx context.Context, dependency string, cascade bool) int
}

// scopeOf classifies a cache key by the mode prefix the orchestrator
// puts in front of the canonical signature. Quick results feed the
// live typing aid; business and full results back persistence.
func scopeOf(key string) string {
	if strings.HasPrefix(key, string(validation.ModeQuick)+"|") {
		return ScopeIntelligent
	}
	return ScopeComposition
}

// dependenciesOf extracts the product and pallet ids referenced by a
// canonical cache key.
func dependenciesOf(key string) []string {
	parts := strings.Split(key, "|")
	deps := make([]string, 0, len(parts))
	for i, part := range parts {
		if i == 0 {
			// mode prefix
			continue
		}
		if palletID, ok := strings.CutPrefix(part, "pallet="); ok {
			if palletID != "auto" {
				deps = append(deps, palletID)
			}
			continue
		}
		if strings.HasPrefix(part, "constraints=") {
			continue
		}
		if productID, _, ok := strings.Cut(part, ":"); ok && productID != "" {
			deps = append(deps, productID)
		}
	}
	return deps
}
