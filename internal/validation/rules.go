package validation

import (
	"fmt"
	"strings"
)

// Business rule limits
const (
	MaxProductCount    = 50
	MinProductQuantity = 0.1
	MaxTotalQuantity   = 1000.0
	MaxWeightOverride  = 2000.0
	MaxHeightOverride  = 300.0
)

// Rule names reported in business rule results
const (
	RuleProductCount     = "product_count"
	RuleMinQuantity      = "min_quantity"
	RuleNoDuplicates     = "no_duplicate_products"
	RuleTotalQuantity    = "total_quantity"
	RuleConstraintBounds = "constraint_bounds"
)

// BusinessRule evaluates one policy against the raw request,
// independent of physical totals.
type BusinessRule interface {
	Name() string
	Evaluate(request *Request) BusinessRuleResult
}

// DefaultBusinessRules returns the registered rule list in evaluation order
func DefaultBusinessRules() []BusinessRule {
	return []BusinessRule{
		productCountRule{},
		minQuantityRule{},
		noDuplicatesRule{},
		totalQuantityRule{},
		constraintBoundsRule{},
	}
}

// EvaluateBusinessRules runs every registered rule and splits failures
// into blocking violations and advisory warnings.
func EvaluateBusinessRules(request *Request, rules []BusinessRule) ([]BusinessRuleResult, []Violation, []Violation) {
	results := make([]BusinessRuleResult, 0, len(rules))
	var violations, warnings []Violation

	for _, rule := range rules {
		result := rule.Evaluate(request)
		results = append(results, result)
		if result.IsValid {
			continue
		}

		v := Violation{
			Code:     "BUSINESS_RULE_" + strings.ToUpper(result.RuleName),
			Severity: result.Severity,
			Message:  result.Message,
		}
		if result.Severity == SeverityError {
			violations = append(violations, v)
		} else {
			warnings = append(warnings, v)
		}
	}

	return results, violations, warnings
}

type productCountRule struct{}

func (productCountRule) Name() string { return RuleProductCount }

func (productCountRule) Evaluate(request *Request) BusinessRuleResult {
	result := BusinessRuleResult{RuleName: RuleProductCount, IsValid: true, Severity: SeverityError}
	if len(request.Products) > MaxProductCount {
		result.IsValid = false
		result.Message = fmt.Sprintf("composition has %d products, the maximum is %d", len(request.Products), MaxProductCount)
	}
	return result
}

type minQuantityRule struct{}

func (minQuantityRule) Name() string { return RuleMinQuantity }

func (minQuantityRule) Evaluate(request *Request) BusinessRuleResult {
	result := BusinessRuleResult{RuleName: RuleMinQuantity, IsValid: true, Severity: SeverityError}
	for _, p := range request.Products {
		if p.Quantity < MinProductQuantity {
			result.IsValid = false
			result.Message = fmt.Sprintf("product %s quantity %.3f is below the minimum %.1f", p.ProductID, p.Quantity, MinProductQuantity)
			return result
		}
	}
	return result
}

type noDuplicatesRule struct{}

func (noDuplicatesRule) Name() string { return RuleNoDuplicates }

func (noDuplicatesRule) Evaluate(request *Request) BusinessRuleResult {
	result := BusinessRuleResult{RuleName: RuleNoDuplicates, IsValid: true, Severity: SeverityError}
	seen := make(map[string]struct{}, len(request.Products))
	for _, p := range request.Products {
		if _, dup := seen[p.ProductID]; dup {
			result.IsValid = false
			result.Message = fmt.Sprintf("product %s appears more than once in the request", p.ProductID)
			return result
		}
		seen[p.ProductID] = struct{}{}
	}
	return result
}

type totalQuantityRule struct{}

func (totalQuantityRule) Name() string { return RuleTotalQuantity }

func (totalQuantityRule) Evaluate(request *Request) BusinessRuleResult {
	result := BusinessRuleResult{RuleName: RuleTotalQuantity, IsValid: true, Severity: SeverityWarning}
	if total := request.TotalQuantity(); total > MaxTotalQuantity {
		result.IsValid = false
		result.Message = fmt.Sprintf("total requested quantity %.1f exceeds the advisory maximum %.0f", total, MaxTotalQuantity)
	}
	return result
}

type constraintBoundsRule struct{}

func (constraintBoundsRule) Name() string { return RuleConstraintBounds }

func (constraintBoundsRule) Evaluate(request *Request) BusinessRuleResult {
	result := BusinessRuleResult{RuleName: RuleConstraintBounds, IsValid: true, Severity: SeverityError}
	if request.Constraints.MaxWeight > MaxWeightOverride {
		result.IsValid = false
		result.Message = fmt.Sprintf("maxWeight override %.1f exceeds the hard cap %.0fkg", request.Constraints.MaxWeight, MaxWeightOverride)
		return result
	}
	if request.Constraints.MaxHeight > MaxHeightOverride {
		result.IsValid = false
		result.Message = fmt.Sprintf("maxHeight override %.1f exceeds the hard cap %.0fcm", request.Constraints.MaxHeight, MaxHeightOverride)
	}
	return result
}
