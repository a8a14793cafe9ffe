package validation

import (
	"fmt"

	"github.com/Joaovenera/wms-sub000/internal/domain"
)

// Compatibility violation codes
const (
	CodeInvalidPackagingType = "INVALID_PACKAGING_TYPE"
	CodeInvalidQuantity      = "INVALID_QUANTITY"
	CodePalletIncompatible   = "PALLET_INCOMPATIBLE"
)

// CheckCompatibility runs per-product and product-to-pallet checks.
// Pallet figures reuse the constraint report so the two stages can
// never diverge. The pallet must already be resolved; resolution
// failures are domain errors raised before this stage.
func CheckCompatibility(request *Request, products map[string]*domain.Product, pallet *domain.Pallet, report *ConstraintReport) (CompatibilityReport, []Violation) {
	result := CompatibilityReport{
		IsCompatible: true,
		Products:     make([]ProductCompatibility, 0, len(request.Products)),
	}
	var violations []Violation

	for _, line := range request.Products {
		pc := ProductCompatibility{
			ProductID:          line.ProductID,
			QuantityValid:      line.Quantity > 0,
			PackagingTypeValid: true,
			PackagingTypeID:    line.PackagingTypeID,
		}

		if product, ok := products[line.ProductID]; ok && product != nil {
			pc.PackagingTypeValid = product.HasPackagingType(line.PackagingTypeID)
		}

		if !pc.QuantityValid {
			result.IsCompatible = false
			violations = append(violations, Violation{
				Code:     CodeInvalidQuantity,
				Severity: SeverityError,
				Message:  fmt.Sprintf("product %s has a non-positive quantity", line.ProductID),
			})
		}
		if !pc.PackagingTypeValid {
			result.IsCompatible = false
			violations = append(violations, Violation{
				Code:     CodeInvalidPackagingType,
				Severity: SeverityError,
				Message:  fmt.Sprintf("product %s does not support packaging type %s", line.ProductID, line.PackagingTypeID),
			})
		}

		result.Products = append(result.Products, pc)
	}

	// the pallet booleans mirror the constraint checks; the blocking
	// violations for them are already emitted by that stage
	fit := &PalletCompatibility{
		PalletID:     pallet.ID.Hex(),
		WeightOK:     report.Weight.IsValid,
		DimensionsOK: report.Height.IsValid,
		CapacityOK:   report.Volume.IsValid,
	}
	result.Pallet = fit
	if !fit.WeightOK || !fit.DimensionsOK || !fit.CapacityOK {
		result.IsCompatible = false
	}

	return result, violations
}
