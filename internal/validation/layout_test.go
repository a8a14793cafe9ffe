package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Joaovenera/wms-sub000/internal/domain"
)

// TestStrategyFor tests strategy selection
func TestStrategyFor(t *testing.T) {
	assert.Equal(t, "standard", StrategyFor("standard").Name())
	assert.Equal(t, "enhanced", StrategyFor("enhanced").Name())
	assert.Equal(t, "standard", StrategyFor("").Name())
	assert.Equal(t, "standard", StrategyFor("bogus").Name())
}

// TestShelfPacking tests the naive shelf placement
func TestShelfPacking(t *testing.T) {
	pallet := domain.NewPallet("PLT-EU-001", "euro", 120, 100, 1000, 200)
	products := map[string]*domain.Product{
		"p1": catalogProduct("p1", 2, 60, 40, 30),
		"p2": catalogProduct("p2", 3, 60, 40, 30),
		"p3": catalogProduct("p3", 1, 40, 40, 20),
	}

	t.Run("Placements stay within the pallet footprint", func(t *testing.T) {
		request := &Request{Products: []ProductLine{
			{ProductID: "p1", Quantity: 1},
			{ProductID: "p2", Quantity: 1},
			{ProductID: "p3", Quantity: 1},
		}}

		layout := StandardStrategy{}.ComputeLayout(request, products, pallet)
		require.Len(t, layout.Placements, 3)
		assert.Empty(t, layout.Unplaceable)

		for _, p := range layout.Placements {
			assert.LessOrEqual(t, p.X+p.Width, pallet.Width)
			assert.LessOrEqual(t, p.Y+p.Length, pallet.Length)
		}
		assert.GreaterOrEqual(t, layout.UsedHeight, 30.0)
	})

	t.Run("Oversized product is reported unplaceable", func(t *testing.T) {
		oversized := map[string]*domain.Product{
			"huge": catalogProduct("huge", 10, 200, 50, 50),
		}
		request := &Request{Products: []ProductLine{{ProductID: "huge", Quantity: 1}}}

		layout := StandardStrategy{}.ComputeLayout(request, oversized, pallet)
		assert.Empty(t, layout.Placements)
		assert.Equal(t, []string{"huge"}, layout.Unplaceable)
	})

	t.Run("Enhanced strategy orders by footprint", func(t *testing.T) {
		request := &Request{Products: []ProductLine{
			{ProductID: "p3", Quantity: 1},
			{ProductID: "p1", Quantity: 1},
		}}

		layout := EnhancedStrategy{}.ComputeLayout(request, products, pallet)
		require.Len(t, layout.Placements, 2)
		// larger footprint placed first, at the origin
		assert.Equal(t, "p1", layout.Placements[0].ProductID)
		assert.Equal(t, 0.0, layout.Placements[0].X)
	})
}
