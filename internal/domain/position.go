package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PositionStatus represents the occupancy of a storage position
type PositionStatus string

const (
	PositionStatusAvailable   PositionStatus = "disponivel"
	PositionStatusOccupied    PositionStatus = "ocupada"
	PositionStatusReserved    PositionStatus = "reservada"
	PositionStatusMaintenance PositionStatus = "manutencao"
	PositionStatusBlocked     PositionStatus = "bloqueada"
)

// IsValid checks if the status is valid
func (s PositionStatus) IsValid() bool {
	switch s {
	case PositionStatusAvailable, PositionStatusOccupied, PositionStatusReserved,
		PositionStatusMaintenance, PositionStatusBlocked:
		return true
	default:
		return false
	}
}

// Position represents an addressable storage slot.
// At most one active UCP occupies a position at a time.
type Position struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Code      string             `bson:"code" json:"code"`
	Street    string             `bson:"street" json:"street"`
	Side      string             `bson:"side" json:"side"`
	Level     int                `bson:"level" json:"level"`
	Status    PositionStatus     `bson:"status" json:"status"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// NewPosition creates an available position
func NewPosition(code, street, side string, level int) *Position {
	now := time.Now().UTC()
	return &Position{
		ID:        primitive.NewObjectID(),
		Code:      code,
		Street:    street,
		Side:      side,
		Level:     level,
		Status:    PositionStatusAvailable,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// IsAvailable reports whether a UCP can be placed in this position
func (p *Position) IsAvailable() bool {
	return p.Status == PositionStatusAvailable
}

// Occupy marks the position as holding a UCP
func (p *Position) Occupy() error {
	if p.Status != PositionStatusAvailable {
		return ErrPositionUnavailable
	}
	p.Status = PositionStatusOccupied
	p.UpdatedAt = time.Now().UTC()
	return nil
}

// Free releases the position after its UCP moves out or is dismantled
func (p *Position) Free() {
	p.Status = PositionStatusAvailable
	p.UpdatedAt = time.Now().UTC()
}
