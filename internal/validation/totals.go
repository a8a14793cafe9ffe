package validation

import (
	"fmt"

	"github.com/Joaovenera/wms-sub000/internal/domain"
)

// CalculateTotals aggregates the physical figures of a request against
// resolved catalog records. Product dimensions are centimetres, so unit
// volume divides by 1,000,000 to yield cubic metres; weight is kilograms.
// Max height is the tallest single product, not a stacked sum.
// An unresolved product id is a fatal input error, never a silent zero.
func CalculateTotals(request *Request, products map[string]*domain.Product) (Totals, error) {
	var totals Totals

	for _, line := range request.Products {
		product, ok := products[line.ProductID]
		if !ok || product == nil {
			return Totals{}, fmt.Errorf("product %s: %w", line.ProductID, domain.ErrProductNotFound)
		}

		totals.TotalWeight += product.Weight * line.Quantity
		totals.TotalVolume += product.UnitVolume() * line.Quantity
		if product.Height > totals.MaxHeight {
			totals.MaxHeight = product.Height
		}
	}

	return totals, nil
}
