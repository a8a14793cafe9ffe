package validation

import (
	"sort"

	"github.com/Joaovenera/wms-sub000/internal/domain"
)

// Placement is one product's computed slot on the pallet, in cm from
// the pallet's origin corner.
type Placement struct {
	ProductID string  `json:"productId"`
	Quantity  float64 `json:"quantity"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Z         float64 `json:"z"`
	Width     float64 `json:"width"`
	Length    float64 `json:"length"`
	Height    float64 `json:"height"`
}

// Layout is the geometric arrangement returned by a strategy
type Layout struct {
	Algorithm   string      `json:"algorithm"`
	Placements  []Placement `json:"placements"`
	UsedHeight  float64     `json:"usedHeight"`
	LayerCount  int         `json:"layerCount"`
	Unplaceable []string    `json:"unplaceable,omitempty"`
}

// LayoutStrategy computes a physical arrangement of products on a
// pallet. Strategies are injectable; the validator does not depend on
// any particular packing algorithm.
type LayoutStrategy interface {
	Name() string
	ComputeLayout(request *Request, products map[string]*domain.Product, pallet *domain.Pallet) Layout
}

// StrategyFor returns the strategy registered under name, falling back
// to the standard one.
func StrategyFor(name string) LayoutStrategy {
	if name == "enhanced" {
		return EnhancedStrategy{}
	}
	return StandardStrategy{}
}

// StandardStrategy places products in request order using a simple
// shelf scan: left to right, row by row, new layer when a row does
// not fit.
type StandardStrategy struct{}

func (StandardStrategy) Name() string { return "standard" }

func (s StandardStrategy) ComputeLayout(request *Request, products map[string]*domain.Product, pallet *domain.Pallet) Layout {
	return shelfPack("standard", request.Products, products, pallet)
}

// EnhancedStrategy sorts products by footprint before packing, which
// tends to waste less shelf space than request order.
type EnhancedStrategy struct{}

func (EnhancedStrategy) Name() string { return "enhanced" }

func (s EnhancedStrategy) ComputeLayout(request *Request, products map[string]*domain.Product, pallet *domain.Pallet) Layout {
	lines := make([]ProductLine, len(request.Products))
	copy(lines, request.Products)
	sort.SliceStable(lines, func(i, j int) bool {
		a, b := products[lines[i].ProductID], products[lines[j].ProductID]
		if a == nil || b == nil {
			return a != nil
		}
		return a.Width*a.Length > b.Width*b.Length
	})
	return shelfPack("enhanced", lines, products, pallet)
}

// shelfPack is a naive shelf packer: one placement per product line,
// each occupying its unit footprint. It is a visual aid, not a bin
// packing solver.
func shelfPack(algorithm string, lines []ProductLine, products map[string]*domain.Product, pallet *domain.Pallet) Layout {
	layout := Layout{Algorithm: algorithm, Placements: make([]Placement, 0, len(lines))}

	var x, y, z, rowDepth, layerHeight float64
	layers := 1

	for _, line := range lines {
		product := products[line.ProductID]
		if product == nil {
			layout.Unplaceable = append(layout.Unplaceable, line.ProductID)
			continue
		}

		w, l, h := product.Width, product.Length, product.Height
		if w > pallet.Width || l > pallet.Length {
			layout.Unplaceable = append(layout.Unplaceable, line.ProductID)
			continue
		}

		if x+w > pallet.Width {
			// next row
			x = 0
			y += rowDepth
			rowDepth = 0
		}
		if y+l > pallet.Length {
			// next layer
			x, y, rowDepth = 0, 0, 0
			z += layerHeight
			layerHeight = 0
			layers++
		}

		layout.Placements = append(layout.Placements, Placement{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			X:         x,
			Y:         y,
			Z:         z,
			Width:     w,
			Length:    l,
			Height:    h,
		})

		x += w
		if l > rowDepth {
			rowDepth = l
		}
		if h > layerHeight {
			layerHeight = h
		}
		if z+h > layout.UsedHeight {
			layout.UsedHeight = z + h
		}
	}

	layout.LayerCount = layers
	return layout
}
