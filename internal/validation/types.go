package validation

// Mode selects which pipeline stages run for a request
type Mode string

const (
	// ModeQuick runs constraint checks only, for live typing feedback
	ModeQuick Mode = "quick"
	// ModeBusiness adds business rule checks
	ModeBusiness Mode = "business"
	// ModeFull adds compatibility checks and is required before persistence
	ModeFull Mode = "full"
)

// IsValid checks if the mode is valid
func (m Mode) IsValid() bool {
	switch m {
	case ModeQuick, ModeBusiness, ModeFull:
		return true
	default:
		return false
	}
}

// Severity of a violation
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// ProductLine is one requested product in a composition request
type ProductLine struct {
	ProductID       string  `json:"productId" binding:"required"`
	Quantity        float64 `json:"quantity" binding:"required,gt=0"`
	PackagingTypeID string  `json:"packagingTypeId,omitempty" binding:"omitempty,packaging_type"`
}

// Constraints are optional per-request limit overrides. Zero means
// no override; the pallet-derived default applies.
type Constraints struct {
	MaxWeight float64 `json:"maxWeight,omitempty" binding:"omitempty,gt=0"`
	MaxHeight float64 `json:"maxHeight,omitempty" binding:"omitempty,gt=0"`
	MaxVolume float64 `json:"maxVolume,omitempty" binding:"omitempty,gt=0"`
}

// FieldCount returns how many override fields are set
func (c Constraints) FieldCount() int {
	count := 0
	if c.MaxWeight > 0 {
		count++
	}
	if c.MaxHeight > 0 {
		count++
	}
	if c.MaxVolume > 0 {
		count++
	}
	return count
}

// Request is a proposed arrangement of products onto a pallet
type Request struct {
	Products    []ProductLine `json:"products" binding:"required,min=1,dive"`
	PalletID    string        `json:"palletId,omitempty"`
	Constraints Constraints   `json:"constraints,omitempty"`
}

// TotalQuantity sums the requested quantities
func (r *Request) TotalQuantity() float64 {
	var total float64
	for _, p := range r.Products {
		total += p.Quantity
	}
	return total
}

// DistinctPackagingTypes counts the distinct packaging types referenced.
// Lines without an explicit type share the default type.
func (r *Request) DistinctPackagingTypes() int {
	seen := make(map[string]struct{}, len(r.Products))
	for _, p := range r.Products {
		pt := p.PackagingTypeID
		if pt == "" {
			pt = "default"
		}
		seen[pt] = struct{}{}
	}
	return len(seen)
}

// Totals are the derived physical aggregates of a request. Weight is
// kilograms, volume cubic metres, height centimetres. Never persisted;
// recomputed per validation.
type Totals struct {
	TotalWeight float64 `json:"totalWeight"`
	TotalVolume float64 `json:"totalVolume"`
	MaxHeight   float64 `json:"maxHeight"`
}

// ConstraintCheck is the outcome of one dimension's limit comparison
type ConstraintCheck struct {
	IsValid        bool    `json:"isValid"`
	Current        float64 `json:"current"`
	Limit          float64 `json:"limit"`
	Utilization    float64 `json:"utilization"`
	SafetyMargin   float64 `json:"safetyMargin"`
	Recommendation string  `json:"recommendation,omitempty"`
}

// ConstraintReport groups the per-dimension checks with the derived
// stability and efficiency figures.
type ConstraintReport struct {
	Weight     ConstraintCheck `json:"weight"`
	Volume     ConstraintCheck `json:"volume"`
	Height     ConstraintCheck `json:"height"`
	Stability  ConstraintCheck `json:"stability"`
	Efficiency float64         `json:"efficiency"`
	RiskLevel  string          `json:"riskLevel"`
}

// Violation is a blocking or advisory finding
type Violation struct {
	Code     string   `json:"code"`
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
}

// Suggestion offers a remediation or improvement path
type Suggestion struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// BusinessRuleResult is the typed outcome of one registered rule
type BusinessRuleResult struct {
	RuleName string   `json:"ruleName"`
	IsValid  bool     `json:"isValid"`
	Message  string   `json:"message,omitempty"`
	Severity Severity `json:"severity"`
}

// ProductCompatibility flags per-product issues
type ProductCompatibility struct {
	ProductID          string `json:"productId"`
	QuantityValid      bool   `json:"quantityValid"`
	PackagingTypeValid bool   `json:"packagingTypeValid"`
	PackagingTypeID    string `json:"packagingTypeId,omitempty"`
}

// PalletCompatibility flags product-to-pallet fit, derived from the
// same totals as the constraint checks.
type PalletCompatibility struct {
	PalletID     string `json:"palletId"`
	WeightOK     bool   `json:"weightOk"`
	DimensionsOK bool   `json:"dimensionsOk"`
	CapacityOK   bool   `json:"capacityOk"`
}

// CompatibilityReport is the full compatibility stage output
type CompatibilityReport struct {
	IsCompatible bool                   `json:"isCompatible"`
	Products     []ProductCompatibility `json:"products"`
	Pallet       *PalletCompatibility   `json:"pallet,omitempty"`
}

// Metrics carries observability figures about the validation run
type Metrics struct {
	ProcessingTimeMs float64 `json:"processingTimeMs"`
	Mode             Mode    `json:"mode"`
	Cached           bool    `json:"cached"`
	ProductCount     int     `json:"productCount"`
}

// Result is the unified validation outcome. IsValid holds iff
// Violations is empty; warnings never block.
type Result struct {
	IsValid       bool                 `json:"isValid"`
	Violations    []Violation          `json:"violations"`
	Warnings      []Violation          `json:"warnings"`
	Suggestions   []Suggestion         `json:"suggestions"`
	Metrics       Metrics              `json:"metrics"`
	Totals        Totals               `json:"totals"`
	Constraints   *ConstraintReport    `json:"constraints,omitempty"`
	BusinessRules []BusinessRuleResult `json:"businessRules,omitempty"`
	Compatibility *CompatibilityReport `json:"compatibility,omitempty"`
	RealTimeScore float64              `json:"realTimeScore"`
}
