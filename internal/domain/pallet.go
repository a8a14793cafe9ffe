package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PalletStatus represents the availability of a physical pallet
type PalletStatus string

const (
	PalletStatusAvailable   PalletStatus = "disponivel"
	PalletStatusInUse       PalletStatus = "em_uso"
	PalletStatusMaintenance PalletStatus = "manutencao"
	PalletStatusDiscarded   PalletStatus = "descartado"
)

// IsValid checks if the status is valid
func (s PalletStatus) IsValid() bool {
	switch s {
	case PalletStatusAvailable, PalletStatusInUse, PalletStatusMaintenance, PalletStatusDiscarded:
		return true
	default:
		return false
	}
}

// Pallet represents a physical transport/storage base unit.
// A pallet is either free or bound to exactly one active UCP; only the
// lifecycle manager transitions it between the two.
type Pallet struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Code      string             `bson:"code" json:"code"`
	Type      string             `bson:"type" json:"type"`
	Width     float64            `bson:"width" json:"width"`   // cm
	Length    float64            `bson:"length" json:"length"` // cm
	MaxWeight float64            `bson:"maxWeight" json:"maxWeight"` // kg
	MaxHeight float64            `bson:"maxHeight,omitempty" json:"maxHeight,omitempty"` // cm, 0 = default
	Status    PalletStatus       `bson:"status" json:"status"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// NewPallet creates an available pallet
func NewPallet(code, palletType string, width, length, maxWeight, maxHeight float64) *Pallet {
	now := time.Now().UTC()
	return &Pallet{
		ID:        primitive.NewObjectID(),
		Code:      code,
		Type:      palletType,
		Width:     width,
		Length:    length,
		MaxWeight: maxWeight,
		MaxHeight: maxHeight,
		Status:    PalletStatusAvailable,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Area returns the pallet surface area in square metres
func (p *Pallet) Area() float64 {
	return (p.Width / 100) * (p.Length / 100)
}

// IsAvailable reports whether the pallet can be bound to a new UCP
func (p *Pallet) IsAvailable() bool {
	return p.Status == PalletStatusAvailable
}

// MarkInUse binds the pallet to an active UCP
func (p *Pallet) MarkInUse() error {
	if p.Status != PalletStatusAvailable {
		return ErrPalletUnavailable
	}
	p.Status = PalletStatusInUse
	p.UpdatedAt = time.Now().UTC()
	return nil
}

// Release frees the pallet after its UCP is dismantled
func (p *Pallet) Release() {
	p.Status = PalletStatusAvailable
	p.UpdatedAt = time.Now().UTC()
}
