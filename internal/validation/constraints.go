package validation

import (
	"fmt"

	"github.com/Joaovenera/wms-sub000/internal/domain"
)

const (
	// DefaultHeightLimit is the fallback stack height limit in cm,
	// independent of pallet type
	DefaultHeightLimit = 200.0

	// DefaultVolumeLimit is the fallback volume limit in cubic metres
	// when neither an override nor pallet geometry yields one
	DefaultVolumeLimit = 2.0

	// IdealDensity is the reference load density in kg per square metre
	// used by the stability score
	IdealDensity = 600.0

	// StabilityReferenceHeight is the height in cm at which the height
	// factor starts to penalize
	StabilityReferenceHeight = 150.0

	// StabilityThreshold is the minimum acceptable stability score
	StabilityThreshold = 0.7

	// WarningUtilization is the utilization above which a near-limit
	// warning is raised
	WarningUtilization = 0.9

	// EfficiencyThreshold is the efficiency below which an optimization
	// suggestion is raised
	EfficiencyThreshold = 0.6
)

// Violation codes emitted by the constraint stage
const (
	CodeWeightExceeded  = "WEIGHT_EXCEEDED"
	CodeVolumeExceeded  = "VOLUME_EXCEEDED"
	CodeHeightExceeded  = "HEIGHT_EXCEEDED"
	CodeWeightNearLimit = "WEIGHT_NEAR_LIMIT"
	CodeVolumeNearLimit = "VOLUME_NEAR_LIMIT"
	CodeHeightNearLimit = "HEIGHT_NEAR_LIMIT"
)

// ConstraintOutcome bundles the constraint report with the violations,
// warnings and suggestions it produced.
type ConstraintOutcome struct {
	Report      ConstraintReport
	Violations  []Violation
	Warnings    []Violation
	Suggestions []Suggestion
}

// CheckConstraints compares totals against the effective limits.
// Each limit is the request override when set, otherwise the
// pallet-derived default.
func CheckConstraints(totals Totals, pallet *domain.Pallet, overrides Constraints) ConstraintOutcome {
	var out ConstraintOutcome

	weightLimit := overrides.MaxWeight
	if weightLimit == 0 {
		weightLimit = pallet.MaxWeight
	}
	heightLimit := overrides.MaxHeight
	if heightLimit == 0 {
		heightLimit = pallet.MaxHeight
	}
	if heightLimit == 0 {
		heightLimit = DefaultHeightLimit
	}
	volumeLimit := overrides.MaxVolume
	if volumeLimit == 0 {
		// pallet footprint times the effective height limit (cm to m)
		volumeLimit = pallet.Area() * heightLimit / 100
	}
	if volumeLimit == 0 {
		volumeLimit = DefaultVolumeLimit
	}

	out.Report.Weight = checkDimension(totals.TotalWeight, weightLimit)
	out.Report.Volume = checkDimension(totals.TotalVolume, volumeLimit)
	out.Report.Height = checkDimension(totals.MaxHeight, heightLimit)

	out.collect(&out.Report.Weight,
		CodeWeightExceeded, CodeWeightNearLimit,
		fmt.Sprintf("total weight %.1fkg exceeds the %.1fkg limit; remove items or choose a stronger pallet", totals.TotalWeight, weightLimit),
		fmt.Sprintf("total weight %.1fkg is within %.0f%% of the %.1fkg limit", totals.TotalWeight, WarningUtilization*100, weightLimit))
	out.collect(&out.Report.Volume,
		CodeVolumeExceeded, CodeVolumeNearLimit,
		fmt.Sprintf("total volume %.3fm3 exceeds the %.3fm3 limit; split the load across pallets", totals.TotalVolume, volumeLimit),
		fmt.Sprintf("total volume %.3fm3 is within %.0f%% of the %.3fm3 limit", totals.TotalVolume, WarningUtilization*100, volumeLimit))
	out.collect(&out.Report.Height,
		CodeHeightExceeded, CodeHeightNearLimit,
		fmt.Sprintf("stack height %.1fcm exceeds the %.1fcm limit; lay tall items flat or reduce stacking", totals.MaxHeight, heightLimit),
		fmt.Sprintf("stack height %.1fcm is within %.0f%% of the %.1fcm limit", totals.MaxHeight, WarningUtilization*100, heightLimit))

	out.Report.Stability = checkStability(totals, pallet)
	if !out.Report.Stability.IsValid {
		out.Suggestions = append(out.Suggestions, Suggestion{
			Type:    "safety",
			Message: "stability score is low; place heavier products at the base and reduce stack height",
		})
	}

	out.Report.Efficiency = minFloat(
		out.Report.Weight.Utilization,
		out.Report.Volume.Utilization,
		out.Report.Height.Utilization,
	)
	if out.Report.Efficiency < EfficiencyThreshold {
		out.Suggestions = append(out.Suggestions, Suggestion{
			Type:    "optimization",
			Message: "pallet utilization is low; consider consolidating with another composition",
		})
	}

	switch {
	case len(out.Violations) > 0:
		out.Report.RiskLevel = "high"
	case len(out.Warnings) > 0:
		out.Report.RiskLevel = "medium"
	default:
		out.Report.RiskLevel = "low"
	}

	return out
}

// checkDimension compares a single current value against its limit
func checkDimension(current, limit float64) ConstraintCheck {
	check := ConstraintCheck{
		Current:      current,
		Limit:        limit,
		SafetyMargin: limit - current,
		IsValid:      current <= limit,
	}
	if limit > 0 {
		check.Utilization = current / limit
	}
	return check
}

// checkStability scores how safe the load distribution is.
// score = heightFactor * (0.7 + 0.3*weightFactor), clamped to [0,1].
// Taller stacks and denser-than-ideal loads are penalized.
func checkStability(totals Totals, pallet *domain.Pallet) ConstraintCheck {
	heightFactor := 1.0
	if totals.MaxHeight > 0 {
		heightFactor = minFloat(1, StabilityReferenceHeight/totals.MaxHeight)
	}

	weightFactor := 1.0
	area := pallet.Area()
	if area > 0 && totals.TotalWeight > 0 {
		weightDensity := totals.TotalWeight / area
		weightFactor = minFloat(1, IdealDensity/weightDensity)
	}

	score := heightFactor * (0.7 + 0.3*weightFactor)
	if score < 0 {
		score = 0
	}
	if score > 1 {
		score = 1
	}

	return ConstraintCheck{
		IsValid:      score >= StabilityThreshold,
		Current:      score,
		Limit:        StabilityThreshold,
		Utilization:  score,
		SafetyMargin: score - StabilityThreshold,
	}
}

// collect turns a dimension check into a violation or near-limit warning
func (o *ConstraintOutcome) collect(check *ConstraintCheck, errorCode, warningCode, errorMsg, warningMsg string) {
	if !check.IsValid {
		check.Recommendation = errorMsg
		o.Violations = append(o.Violations, Violation{
			Code:     errorCode,
			Severity: SeverityError,
			Message:  errorMsg,
		})
		return
	}
	if check.Utilization > WarningUtilization {
		check.Recommendation = warningMsg
		o.Warnings = append(o.Warnings, Violation{
			Code:     warningCode,
			Severity: SeverityWarning,
			Message:  warningMsg,
		})
	}
}

func minFloat(values ...float64) float64 {
	min := values[0]
	for _, v := range values[1:] {
		if v < min {
			min = v
		}
	}
	return min
}
