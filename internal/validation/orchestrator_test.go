package validation

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Joaovenera/wms-sub000/internal/domain"
)

type stubProductRepo struct {
	products map[string]*domain.Product
}

func (s *stubProductRepo) GetByID(_ context.Context, id string) (*domain.Product, error) {
	if p, ok := s.products[id]; ok {
		return p, nil
	}
	return nil, domain.ErrProductNotFound
}

func (s *stubProductRepo) GetByIDs(_ context.Context, ids []string) (map[string]*domain.Product, error) {
	out := make(map[string]*domain.Product, len(ids))
	for _, id := range ids {
		if p, ok := s.products[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

type stubPalletRepo struct {
	pallets   map[string]*domain.Pallet
	available *domain.Pallet
}

func (s *stubPalletRepo) Create(context.Context, *domain.Pallet) error { return nil }

func (s *stubPalletRepo) GetByID(_ context.Context, id string) (*domain.Pallet, error) {
	if p, ok := s.pallets[id]; ok {
		return p, nil
	}
	return nil, domain.ErrPalletNotFound
}

func (s *stubPalletRepo) GetByCode(context.Context, string) (*domain.Pallet, error) {
	return nil, domain.ErrPalletNotFound
}

func (s *stubPalletRepo) UpdateStatus(context.Context, string, domain.PalletStatus, domain.PalletStatus) error {
	return nil
}

func (s *stubPalletRepo) FindAvailable(context.Context) (*domain.Pallet, error) {
	return s.available, nil
}

func (s *stubPalletRepo) List(context.Context, domain.PalletStatus, domain.Pagination) ([]*domain.Pallet, int64, error) {
	return nil, 0, nil
}

type recordingCache struct {
	entries map[string]*Result
	sums    map[string]uint64
	gets    int
	hits    int
}

func newRecordingCache() *recordingCache {
	return &recordingCache{entries: make(map[string]*Result), sums: make(map[string]uint64)}
}

func (c *recordingCache) Get(_ context.Context, key string, checksum uint64) (*Result, bool) {
	c.gets++
	if r, ok := c.entries[key]; ok && c.sums[key] == checksum {
		c.hits++
		return r, true
	}
	return nil, false
}

func (c *recordingCache) Set(_ context.Context, key string, checksum uint64, result *Result) {
	c.entries[key] = result
	c.sums[key] = checksum
}

func testOrchestrator(cache ResultCache) (*Orchestrator, *stubPalletRepo) {
	pallet := domain.NewPallet("PLT-EU-001", "euro", 120, 100, 1000, 200)
	pallets := &stubPalletRepo{
		pallets:   map[string]*domain.Pallet{pallet.ID.Hex(): pallet},
		available: pallet,
	}
	products := &stubProductRepo{products: map[string]*domain.Product{
		"p1": catalogProduct("p1", 2, 10, 100, 10),
		"p2": catalogProduct("p2", 60, 50, 50, 80),
	}}
	return NewOrchestrator(products, pallets, cache, nil), pallets
}

// TestOrchestratorModes tests stage selection per mode
func TestOrchestratorModes(t *testing.T) {
	orch, _ := testOrchestrator(nil)
	ctx := context.Background()
	request := &Request{Products: []ProductLine{{ProductID: "p1", Quantity: 10}}}

	t.Run("Quick runs constraints only", func(t *testing.T) {
		result, err := orch.Validate(ctx, request, ModeQuick)
		require.NoError(t, err)

		assert.NotNil(t, result.Constraints)
		assert.Nil(t, result.BusinessRules)
		assert.Nil(t, result.Compatibility)
		assert.Equal(t, ModeQuick, result.Metrics.Mode)
	})

	t.Run("Business adds rule results", func(t *testing.T) {
		result, err := orch.Validate(ctx, request, ModeBusiness)
		require.NoError(t, err)

		assert.NotNil(t, result.Constraints)
		assert.NotEmpty(t, result.BusinessRules)
		assert.Nil(t, result.Compatibility)
	})

	t.Run("Full adds compatibility", func(t *testing.T) {
		result, err := orch.Validate(ctx, request, ModeFull)
		require.NoError(t, err)

		assert.NotNil(t, result.Constraints)
		assert.NotEmpty(t, result.BusinessRules)
		require.NotNil(t, result.Compatibility)
		assert.True(t, result.Compatibility.IsCompatible)
	})
}

// TestOrchestratorValidity tests the isValid contract
func TestOrchestratorValidity(t *testing.T) {
	orch, _ := testOrchestrator(nil)
	ctx := context.Background()

	t.Run("Light load is valid with low risk", func(t *testing.T) {
		request := &Request{Products: []ProductLine{{ProductID: "p1", Quantity: 10}}}

		result, err := orch.Validate(ctx, request, ModeFull)
		require.NoError(t, err)

		assert.True(t, result.IsValid)
		assert.Empty(t, result.Violations)
		assert.Equal(t, "low", result.Constraints.RiskLevel)
		assert.InDelta(t, 0.02, result.Constraints.Weight.Utilization, 0.0001)
	})

	t.Run("Overweight load is invalid", func(t *testing.T) {
		request := &Request{Products: []ProductLine{{ProductID: "p2", Quantity: 20}}}

		result, err := orch.Validate(ctx, request, ModeFull)
		require.NoError(t, err)

		assert.False(t, result.IsValid)
		assert.NotEmpty(t, result.Violations)
		assert.Equal(t, result.IsValid, len(result.Violations) == 0)
	})

	t.Run("Unknown product is a domain error", func(t *testing.T) {
		request := &Request{Products: []ProductLine{{ProductID: "ghost", Quantity: 1}}}

		_, err := orch.Validate(ctx, request, ModeFull)
		assert.ErrorIs(t, err, domain.ErrProductNotFound)
	})

	t.Run("No available pallet is a domain error", func(t *testing.T) {
		noPallet, pallets := testOrchestrator(nil)
		pallets.available = nil

		request := &Request{Products: []ProductLine{{ProductID: "p1", Quantity: 1}}}
		_, err := noPallet.Validate(ctx, request, ModeFull)
		assert.ErrorIs(t, err, domain.ErrNoAvailablePallet)
	})
}

// TestOrchestratorCaching tests cache consultation
func TestOrchestratorCaching(t *testing.T) {
	cache := newRecordingCache()
	orch, _ := testOrchestrator(cache)
	ctx := context.Background()

	request := &Request{Products: []ProductLine{
		{ProductID: "p1", Quantity: 10},
		{ProductID: "p2", Quantity: 1},
	}}

	first, err := orch.Validate(ctx, request, ModeFull)
	require.NoError(t, err)
	assert.False(t, first.Metrics.Cached)

	second, err := orch.Validate(ctx, request, ModeFull)
	require.NoError(t, err)
	assert.True(t, second.Metrics.Cached)
	assert.Equal(t, first.IsValid, second.IsValid)
	assert.Equal(t, 1, cache.hits)

	// reordering the products must still hit the same entry
	reordered := &Request{Products: []ProductLine{
		{ProductID: "p2", Quantity: 1},
		{ProductID: "p1", Quantity: 10},
	}}
	third, err := orch.Validate(ctx, reordered, ModeFull)
	require.NoError(t, err)
	assert.True(t, third.Metrics.Cached)
	assert.Equal(t, 2, cache.hits)

	// mutating constraints must force a miss
	mutated := &Request{
		Products:    request.Products,
		Constraints: Constraints{MaxWeight: 500},
	}
	fourth, err := orch.Validate(ctx, mutated, ModeFull)
	require.NoError(t, err)
	assert.False(t, fourth.Metrics.Cached)
}
