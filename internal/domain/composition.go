package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CompositionStatus represents the workflow state of a saved composition
type CompositionStatus string

const (
	CompositionStatusDraft     CompositionStatus = "draft"
	CompositionStatusValidated CompositionStatus = "validated"
	CompositionStatusApproved  CompositionStatus = "approved"
	CompositionStatusExecuted  CompositionStatus = "executed"
)

// IsValid checks if the status is valid
func (s CompositionStatus) IsValid() bool {
	switch s {
	case CompositionStatusDraft, CompositionStatusValidated,
		CompositionStatusApproved, CompositionStatusExecuted:
		return true
	default:
		return false
	}
}

// CanTransitionTo checks if the status can transition to another status.
// Executed is terminal; no further structural changes are permitted.
func (s CompositionStatus) CanTransitionTo(target CompositionStatus) bool {
	validTransitions := map[CompositionStatus][]CompositionStatus{
		CompositionStatusDraft:     {CompositionStatusValidated},
		CompositionStatusValidated: {CompositionStatusApproved, CompositionStatusDraft},
		CompositionStatusApproved:  {CompositionStatusExecuted, CompositionStatusDraft},
		CompositionStatusExecuted:  {},
	}

	for _, allowed := range validTransitions[s] {
		if target == allowed {
			return true
		}
	}
	return false
}

// CompositionProduct is one requested product line in a composition
type CompositionProduct struct {
	ProductID       string  `bson:"productId" json:"productId"`
	Quantity        float64 `bson:"quantity" json:"quantity"`
	PackagingTypeID string  `bson:"packagingTypeId,omitempty" json:"packagingTypeId,omitempty"`
}

// CompositionConstraints are optional per-request limit overrides
type CompositionConstraints struct {
	MaxWeight float64 `bson:"maxWeight,omitempty" json:"maxWeight,omitempty"`
	MaxHeight float64 `bson:"maxHeight,omitempty" json:"maxHeight,omitempty"`
	MaxVolume float64 `bson:"maxVolume,omitempty" json:"maxVolume,omitempty"`
}

// IsZero reports whether no override is set
func (c CompositionConstraints) IsZero() bool {
	return c.MaxWeight == 0 && c.MaxHeight == 0 && c.MaxVolume == 0
}

// Composition is a saved arrangement of products intended for a pallet,
// subject to validation before being assembled into a UCP.
type Composition struct {
	ID           primitive.ObjectID     `bson:"_id,omitempty" json:"id"`
	Name         string                 `bson:"name" json:"name"`
	Products     []CompositionProduct   `bson:"products" json:"products"`
	PalletID     string                 `bson:"palletId,omitempty" json:"palletId,omitempty"`
	Constraints  CompositionConstraints `bson:"constraints,omitempty" json:"constraints,omitempty"`
	Status       CompositionStatus      `bson:"status" json:"status"`
	Result       interface{}            `bson:"result,omitempty" json:"result,omitempty"`
	CreatedBy    string                 `bson:"createdBy" json:"createdBy"`
	CreatedAt    time.Time              `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time              `bson:"updatedAt" json:"updatedAt"`
	ExecutedAt   *time.Time             `bson:"executedAt,omitempty" json:"executedAt,omitempty"`
	DomainEvents []DomainEvent          `bson:"-" json:"-"`
}

// NewComposition creates a draft composition with its computed result snapshot
func NewComposition(name string, products []CompositionProduct, palletID string, constraints CompositionConstraints, result interface{}, createdBy string) *Composition {
	now := time.Now().UTC()
	comp := &Composition{
		ID:           primitive.NewObjectID(),
		Name:         name,
		Products:     products,
		PalletID:     palletID,
		Constraints:  constraints,
		Status:       CompositionStatusDraft,
		Result:       result,
		CreatedBy:    createdBy,
		CreatedAt:    now,
		UpdatedAt:    now,
		DomainEvents: make([]DomainEvent, 0),
	}

	comp.addDomainEvent(&CompositionSavedEvent{
		CompositionID: comp.ID.Hex(),
		Name:          name,
		ProductCount:  len(products),
		SavedAt:       now,
	})

	return comp
}

// TransitionTo moves the composition along its workflow
func (c *Composition) TransitionTo(target CompositionStatus) error {
	if !target.IsValid() {
		return ErrInvalidStatusTransition
	}
	if !c.Status.CanTransitionTo(target) {
		return ErrInvalidStatusTransition
	}

	now := time.Now().UTC()
	oldStatus := c.Status
	c.Status = target
	c.UpdatedAt = now
	if target == CompositionStatusExecuted {
		c.ExecutedAt = &now
	}

	c.addDomainEvent(&CompositionStatusChangedEvent{
		CompositionID: c.ID.Hex(),
		OldStatus:     string(oldStatus),
		NewStatus:     string(target),
		ChangedAt:     now,
	})

	return nil
}

// IsApproved reports whether the composition may be assembled
func (c *Composition) IsApproved() bool {
	return c.Status == CompositionStatusApproved
}

// IsExecuted reports whether the composition has been materialized
func (c *Composition) IsExecuted() bool {
	return c.Status == CompositionStatusExecuted
}

// addDomainEvent adds a domain event
func (c *Composition) addDomainEvent(event DomainEvent) {
	c.DomainEvents = append(c.DomainEvents, event)
}

// GetDomainEvents returns all domain events
func (c *Composition) GetDomainEvents() []DomainEvent {
	return c.DomainEvents
}

// ClearDomainEvents clears all domain events
func (c *Composition) ClearDomainEvents() {
	c.DomainEvents = make([]DomainEvent, 0)
}
