package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Product is the catalog record the validation pipeline resolves
// quantities against. Dimensions are centimetres, weight kilograms.
type Product struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	SKU            string             `bson:"sku" json:"sku"`
	Name           string             `bson:"name" json:"name"`
	Weight         float64            `bson:"weight" json:"weight"`
	Width          float64            `bson:"width" json:"width"`
	Length         float64            `bson:"length" json:"length"`
	Height         float64            `bson:"height" json:"height"`
	PackagingTypes []string           `bson:"packagingTypes,omitempty" json:"packagingTypes,omitempty"`
	CreatedAt      time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// UnitVolume returns the volume of one unit in cubic metres
func (p *Product) UnitVolume() float64 {
	return p.Width * p.Length * p.Height / 1_000_000
}

// HasPackagingType reports whether the product supports the packaging type.
// An empty packaging type always resolves to the product's default.
func (p *Product) HasPackagingType(packagingTypeID string) bool {
	if packagingTypeID == "" {
		return true
	}
	for _, pt := range p.PackagingTypes {
		if pt == packagingTypeID {
			return true
		}
	}
	return false
}
