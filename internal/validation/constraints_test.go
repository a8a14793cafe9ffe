package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Joaovenera/wms-sub000/internal/domain"
)

func testPallet(maxWeight, maxHeight float64) *domain.Pallet {
	return domain.NewPallet("PLT-TEST-01", "euro", 120, 100, maxWeight, maxHeight)
}

// TestCheckConstraintsWeight tests the weight dimension
func TestCheckConstraintsWeight(t *testing.T) {
	t.Run("Exceeding the limit yields a blocking violation", func(t *testing.T) {
		totals := Totals{TotalWeight: 1200, TotalVolume: 0.5, MaxHeight: 100}
		out := CheckConstraints(totals, testPallet(1000, 200), Constraints{})

		assert.False(t, out.Report.Weight.IsValid)
		assert.InDelta(t, 1.2, out.Report.Weight.Utilization, 0.0001)

		require.NotEmpty(t, out.Violations)
		var found bool
		for _, v := range out.Violations {
			if v.Code == CodeWeightExceeded {
				found = true
				assert.Equal(t, SeverityError, v.Severity)
				assert.Contains(t, v.Message, "1200.0kg")
			}
		}
		assert.True(t, found)
		assert.Equal(t, "high", out.Report.RiskLevel)
	})

	t.Run("Low utilization is valid with low risk", func(t *testing.T) {
		totals := Totals{TotalWeight: 20, TotalVolume: 0.1, MaxHeight: 10}
		out := CheckConstraints(totals, testPallet(1000, 200), Constraints{})

		assert.True(t, out.Report.Weight.IsValid)
		assert.InDelta(t, 0.02, out.Report.Weight.Utilization, 0.0001)
		assert.Empty(t, out.Violations)
		assert.Equal(t, "low", out.Report.RiskLevel)
	})

	t.Run("Near limit yields a warning and medium risk", func(t *testing.T) {
		totals := Totals{TotalWeight: 950, TotalVolume: 0.5, MaxHeight: 100}
		out := CheckConstraints(totals, testPallet(1000, 200), Constraints{})

		assert.True(t, out.Report.Weight.IsValid)
		assert.Empty(t, out.Violations)
		require.NotEmpty(t, out.Warnings)
		assert.Equal(t, CodeWeightNearLimit, out.Warnings[0].Code)
		assert.Equal(t, "medium", out.Report.RiskLevel)
	})

	t.Run("Override takes precedence over pallet limit", func(t *testing.T) {
		totals := Totals{TotalWeight: 700, TotalVolume: 0.5, MaxHeight: 100}
		out := CheckConstraints(totals, testPallet(1000, 200), Constraints{MaxWeight: 600})

		assert.False(t, out.Report.Weight.IsValid)
		assert.Equal(t, 600.0, out.Report.Weight.Limit)
	})
}

// TestCheckConstraintsHeight tests the height dimension and its default
func TestCheckConstraintsHeight(t *testing.T) {
	t.Run("Pallet without height limit falls back to the default", func(t *testing.T) {
		totals := Totals{TotalWeight: 100, TotalVolume: 0.5, MaxHeight: 220}
		out := CheckConstraints(totals, testPallet(1000, 0), Constraints{})

		assert.Equal(t, DefaultHeightLimit, out.Report.Height.Limit)
		assert.False(t, out.Report.Height.IsValid)
	})

	t.Run("Utilization is monotonic in height", func(t *testing.T) {
		pallet := testPallet(1000, 200)
		low := CheckConstraints(Totals{TotalWeight: 100, TotalVolume: 0.1, MaxHeight: 50}, pallet, Constraints{})
		high := CheckConstraints(Totals{TotalWeight: 100, TotalVolume: 0.1, MaxHeight: 150}, pallet, Constraints{})

		assert.Less(t, low.Report.Height.Utilization, high.Report.Height.Utilization)
	})
}

// TestStabilityScore tests the stability formula
func TestStabilityScore(t *testing.T) {
	pallet := testPallet(1000, 200) // area 1.2 m2

	t.Run("Short light load is fully stable", func(t *testing.T) {
		check := checkStability(Totals{TotalWeight: 120, MaxHeight: 100}, pallet)

		// heightFactor=1, weightDensity=100 < ideal, weightFactor=1
		assert.InDelta(t, 1.0, check.Current, 0.0001)
		assert.True(t, check.IsValid)
	})

	t.Run("Tall stack is penalized by the height factor", func(t *testing.T) {
		check := checkStability(Totals{TotalWeight: 120, MaxHeight: 300}, pallet)

		// heightFactor = 150/300 = 0.5, weightFactor = 1
		assert.InDelta(t, 0.5, check.Current, 0.0001)
		assert.False(t, check.IsValid)
	})

	t.Run("Dense load is penalized by the weight factor", func(t *testing.T) {
		// density 1200/1.2 = 1000 kg/m2, factor 600/1000 = 0.6
		check := checkStability(Totals{TotalWeight: 1200, MaxHeight: 100}, pallet)

		assert.InDelta(t, 0.7+0.3*0.6, check.Current, 0.0001)
		assert.True(t, check.IsValid)
	})

	t.Run("Low stability yields a safety suggestion", func(t *testing.T) {
		out := CheckConstraints(Totals{TotalWeight: 120, TotalVolume: 0.5, MaxHeight: 300}, pallet, Constraints{MaxHeight: 300})

		var found bool
		for _, s := range out.Suggestions {
			if s.Type == "safety" {
				found = true
			}
		}
		assert.True(t, found)
	})
}

// TestEfficiencySuggestion tests the optimization suggestion
func TestEfficiencySuggestion(t *testing.T) {
	totals := Totals{TotalWeight: 50, TotalVolume: 0.05, MaxHeight: 20}
	out := CheckConstraints(totals, testPallet(1000, 200), Constraints{})

	assert.Less(t, out.Report.Efficiency, EfficiencyThreshold)

	var found bool
	for _, s := range out.Suggestions {
		if s.Type == "optimization" {
			found = true
		}
	}
	assert.True(t, found)
}
