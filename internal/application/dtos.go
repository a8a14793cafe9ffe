package application

import (
	"time"

	"github.com/Joaovenera/wms-sub000/internal/validation"
)

// UCPItemDTO is the API representation of a UCP item
type UCPItemDTO struct {
	ID              string     `json:"id"`
	ProductID       string     `json:"productId"`
	PackagingTypeID string     `json:"packagingTypeId,omitempty"`
	Quantity        float64    `json:"quantity"`
	IsActive        bool       `json:"isActive"`
	AddedBy         string     `json:"addedBy"`
	AddedAt         time.Time  `json:"addedAt"`
	RemovedBy       string     `json:"removedBy,omitempty"`
	RemovedAt       *time.Time `json:"removedAt,omitempty"`
	RemovalReason   string     `json:"removalReason,omitempty"`
}

// UCPDTO is the API representation of a UCP
type UCPDTO struct {
	ID         string       `json:"id"`
	Code       string       `json:"code"`
	Status     string       `json:"status"`
	PalletID   string       `json:"palletId,omitempty"`
	PositionID string       `json:"positionId,omitempty"`
	Items      []UCPItemDTO `json:"items"`
	CreatedBy  string       `json:"createdBy"`
	CreatedAt  time.Time    `json:"createdAt"`
	UpdatedAt  time.Time    `json:"updatedAt"`
}

// HistoryEntryDTO is the API representation of an audit entry
type HistoryEntryDTO struct {
	ID             string    `json:"id"`
	UCPID          string    `json:"ucpId"`
	Action         string    `json:"action"`
	Description    string    `json:"description"`
	OldValue       string    `json:"oldValue,omitempty"`
	NewValue       string    `json:"newValue,omitempty"`
	ItemID         string    `json:"itemId,omitempty"`
	FromPositionID string    `json:"fromPositionId,omitempty"`
	ToPositionID   string    `json:"toPositionId,omitempty"`
	PerformedBy    string    `json:"performedBy"`
	Timestamp      time.Time `json:"timestamp"`
}

// CompositionDTO is the API representation of a composition
type CompositionDTO struct {
	ID          string                 `json:"id"`
	Name        string                 `json:"name"`
	Products    []CompositionLineDTO   `json:"products"`
	PalletID    string                 `json:"palletId,omitempty"`
	Constraints validation.Constraints `json:"constraints,omitempty"`
	Status      string                 `json:"status"`
	Result      interface{}            `json:"result,omitempty"`
	CreatedBy   string                 `json:"createdBy"`
	CreatedAt   time.Time              `json:"createdAt"`
	UpdatedAt   time.Time              `json:"updatedAt"`
	ExecutedAt  *time.Time             `json:"executedAt,omitempty"`
}

// CompositionLineDTO is one product line of a composition
type CompositionLineDTO struct {
	ProductID       string  `json:"productId"`
	Quantity        float64 `json:"quantity"`
	PackagingTypeID string  `json:"packagingTypeId,omitempty"`
}

// PalletDTO is the API representation of a pallet
type PalletDTO struct {
	ID        string  `json:"id"`
	Code      string  `json:"code"`
	Type      string  `json:"type"`
	Width     float64 `json:"width"`
	Length    float64 `json:"length"`
	MaxWeight float64 `json:"maxWeight"`
	MaxHeight float64 `json:"maxHeight,omitempty"`
	Status    string  `json:"status"`
}

// PositionDTO is the API representation of a storage position
type PositionDTO struct {
	ID     string `json:"id"`
	Code   string `json:"code"`
	Street string `json:"street"`
	Side   string `json:"side"`
	Level  int    `json:"level"`
	Status string `json:"status"`
}

// CalculationData bundles the layout with its validation result
type CalculationData struct {
	Layout     validation.Layout  `json:"layout"`
	Validation *validation.Result `json:"validation"`
}

// CalculationMetadata carries timing and provenance for a calculate call
type CalculationMetadata struct {
	ResponseTime float64   `json:"responseTime"`
	Algorithm    string    `json:"algorithm"`
	Cached       bool      `json:"cached"`
	Timestamp    time.Time `json:"timestamp"`
}

// CalculationDTO is the calculate response envelope
type CalculationDTO struct {
	Success  bool                `json:"success"`
	Data     CalculationData     `json:"data"`
	Metadata CalculationMetadata `json:"metadata"`
}

// PageDTO wraps a paginated listing
type PageDTO[T any] struct {
	Items []T   `json:"items"`
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
}
