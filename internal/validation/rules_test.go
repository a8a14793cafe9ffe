package validation

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func findRule(results []BusinessRuleResult, name string) *BusinessRuleResult {
	for i := range results {
		if results[i].RuleName == name {
			return &results[i]
		}
	}
	return nil
}

// TestBusinessRules tests the registered rule list
func TestBusinessRules(t *testing.T) {
	rules := DefaultBusinessRules()

	t.Run("Clean request passes every rule", func(t *testing.T) {
		request := &Request{Products: []ProductLine{
			{ProductID: "p1", Quantity: 5},
			{ProductID: "p2", Quantity: 10},
		}}

		results, violations, warnings := EvaluateBusinessRules(request, rules)
		assert.Len(t, results, len(rules))
		assert.Empty(t, violations)
		assert.Empty(t, warnings)
		for _, r := range results {
			assert.True(t, r.IsValid, r.RuleName)
		}
	})

	t.Run("Duplicate product id is always a blocking error", func(t *testing.T) {
		request := &Request{Products: []ProductLine{
			{ProductID: "p1", Quantity: 5},
			{ProductID: "p2", Quantity: 1},
			{ProductID: "p1", Quantity: 2},
		}}

		results, violations, _ := EvaluateBusinessRules(request, rules)
		rule := findRule(results, RuleNoDuplicates)
		require.NotNil(t, rule)
		assert.False(t, rule.IsValid)
		assert.Equal(t, SeverityError, rule.Severity)

		require.Len(t, violations, 1)
		assert.Equal(t, "BUSINESS_RULE_NO_DUPLICATE_PRODUCTS", violations[0].Code)
	})

	t.Run("More than fifty products is an error", func(t *testing.T) {
		products := make([]ProductLine, 0, MaxProductCount+1)
		for i := 0; i <= MaxProductCount; i++ {
			products = append(products, ProductLine{ProductID: fmt.Sprintf("p%d", i), Quantity: 1})
		}
		request := &Request{Products: products}

		_, violations, _ := EvaluateBusinessRules(request, rules)
		require.NotEmpty(t, violations)
		assert.Equal(t, "BUSINESS_RULE_PRODUCT_COUNT", violations[0].Code)
	})

	t.Run("Quantity below the minimum is an error", func(t *testing.T) {
		request := &Request{Products: []ProductLine{{ProductID: "p1", Quantity: 0.05}}}

		results, violations, _ := EvaluateBusinessRules(request, rules)
		rule := findRule(results, RuleMinQuantity)
		require.NotNil(t, rule)
		assert.False(t, rule.IsValid)
		assert.NotEmpty(t, violations)
	})

	t.Run("Total quantity beyond the advisory limit is only a warning", func(t *testing.T) {
		request := &Request{Products: []ProductLine{
			{ProductID: "p1", Quantity: 600},
			{ProductID: "p2", Quantity: 500},
		}}

		results, violations, warnings := EvaluateBusinessRules(request, rules)
		rule := findRule(results, RuleTotalQuantity)
		require.NotNil(t, rule)
		assert.False(t, rule.IsValid)
		assert.Equal(t, SeverityWarning, rule.Severity)

		assert.Empty(t, violations)
		require.Len(t, warnings, 1)
		assert.Equal(t, SeverityWarning, warnings[0].Severity)
	})

	t.Run("Constraint overrides above the hard caps are errors", func(t *testing.T) {
		tests := []struct {
			name        string
			constraints Constraints
		}{
			{"Weight override too high", Constraints{MaxWeight: 2500}},
			{"Height override too high", Constraints{MaxHeight: 350}},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				request := &Request{
					Products:    []ProductLine{{ProductID: "p1", Quantity: 1}},
					Constraints: tt.constraints,
				}

				results, violations, _ := EvaluateBusinessRules(request, rules)
				rule := findRule(results, RuleConstraintBounds)
				require.NotNil(t, rule)
				assert.False(t, rule.IsValid)
				assert.NotEmpty(t, violations)
			})
		}
	})
}
