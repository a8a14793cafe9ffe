package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UCPStatus represents the lifecycle state of a UCP
type UCPStatus string

const (
	UCPStatusActive   UCPStatus = "active"
	UCPStatusEmpty    UCPStatus = "empty"
	UCPStatusArchived UCPStatus = "archived"
)

// IsValid checks if the status is valid
func (s UCPStatus) IsValid() bool {
	switch s {
	case UCPStatusActive, UCPStatusEmpty, UCPStatusArchived:
		return true
	default:
		return false
	}
}

// CanTransitionTo checks if the status can transition to another status
func (s UCPStatus) CanTransitionTo(target UCPStatus) bool {
	validTransitions := map[UCPStatus][]UCPStatus{
		UCPStatusActive:   {UCPStatusEmpty, UCPStatusArchived},
		UCPStatusEmpty:    {UCPStatusActive, UCPStatusArchived},
		UCPStatusArchived: {},
	}

	for _, allowed := range validTransitions[s] {
		if target == allowed {
			return true
		}
	}
	return false
}

// DefaultDismantleReason is applied when no removal reason is provided on dismantle
const DefaultDismantleReason = "UCP desmontada"

// UCPItem is a product line held inside a UCP. Removal is logical:
// rows are never deleted, preserving history.
type UCPItem struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ProductID       string             `bson:"productId" json:"productId"`
	PackagingTypeID string             `bson:"packagingTypeId,omitempty" json:"packagingTypeId,omitempty"`
	Quantity        float64            `bson:"quantity" json:"quantity"`
	IsActive        bool               `bson:"isActive" json:"isActive"`
	AddedBy         string             `bson:"addedBy" json:"addedBy"`
	AddedAt         time.Time          `bson:"addedAt" json:"addedAt"`
	RemovedBy       string             `bson:"removedBy,omitempty" json:"removedBy,omitempty"`
	RemovedAt       *time.Time         `bson:"removedAt,omitempty" json:"removedAt,omitempty"`
	RemovalReason   string             `bson:"removalReason,omitempty" json:"removalReason,omitempty"`
}

// UCP is a Unit Composed Pallet: a logical container of items bound to a
// physical pallet and, optionally, a storage position.
type UCP struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Code         string             `bson:"code" json:"code"`
	Status       UCPStatus          `bson:"status" json:"status"`
	PalletID     string             `bson:"palletId,omitempty" json:"palletId,omitempty"`
	PositionID   string             `bson:"positionId,omitempty" json:"positionId,omitempty"`
	Items        []UCPItem          `bson:"items" json:"items"`
	CreatedBy    string             `bson:"createdBy" json:"createdBy"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
	DomainEvents []DomainEvent      `bson:"-" json:"-"`
}

// NewUCP creates an active UCP bound to a pallet
func NewUCP(code, palletID, createdBy string) *UCP {
	now := time.Now().UTC()
	ucp := &UCP{
		ID:           primitive.NewObjectID(),
		Code:         code,
		Status:       UCPStatusActive,
		PalletID:     palletID,
		Items:        make([]UCPItem, 0),
		CreatedBy:    createdBy,
		CreatedAt:    now,
		UpdatedAt:    now,
		DomainEvents: make([]DomainEvent, 0),
	}

	ucp.addDomainEvent(&UCPCreatedEvent{
		UCPCode:   code,
		PalletID:  palletID,
		CreatedBy: createdBy,
		CreatedAt: now,
	})

	return ucp
}

// ActiveItems returns the items not yet logically removed
func (u *UCP) ActiveItems() []UCPItem {
	active := make([]UCPItem, 0, len(u.Items))
	for _, item := range u.Items {
		if item.IsActive {
			active = append(active, item)
		}
	}
	return active
}

// FindItem returns a pointer to the item with the given id
func (u *UCP) FindItem(itemID string) *UCPItem {
	for i := range u.Items {
		if u.Items[i].ID.Hex() == itemID {
			return &u.Items[i]
		}
	}
	return nil
}

// FindActiveItemByProduct returns the active item for a product/packaging pair
func (u *UCP) FindActiveItemByProduct(productID, packagingTypeID string) *UCPItem {
	for i := range u.Items {
		item := &u.Items[i]
		if item.IsActive && item.ProductID == productID && item.PackagingTypeID == packagingTypeID {
			return item
		}
	}
	return nil
}

// AddItem adds quantity of a product to the UCP. An existing active line for
// the same product/packaging pair is incremented instead of duplicated.
// Returns the affected item.
func (u *UCP) AddItem(productID, packagingTypeID string, quantity float64, addedBy string) (*UCPItem, error) {
	if u.Status == UCPStatusArchived {
		return nil, ErrUCPArchived
	}
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	now := time.Now().UTC()

	if existing := u.FindActiveItemByProduct(productID, packagingTypeID); existing != nil {
		existing.Quantity += quantity
		u.UpdatedAt = now
		u.addDomainEvent(&UCPItemAddedEvent{
			UCPCode:   u.Code,
			ItemID:    existing.ID.Hex(),
			ProductID: productID,
			Quantity:  quantity,
			AddedBy:   addedBy,
			AddedAt:   now,
		})
		return existing, nil
	}

	item := UCPItem{
		ID:              primitive.NewObjectID(),
		ProductID:       productID,
		PackagingTypeID: packagingTypeID,
		Quantity:        quantity,
		IsActive:        true,
		AddedBy:         addedBy,
		AddedAt:         now,
	}
	u.Items = append(u.Items, item)

	if u.Status == UCPStatusEmpty {
		u.Status = UCPStatusActive
	}
	u.UpdatedAt = now

	u.addDomainEvent(&UCPItemAddedEvent{
		UCPCode:   u.Code,
		ItemID:    item.ID.Hex(),
		ProductID: productID,
		Quantity:  quantity,
		AddedBy:   addedBy,
		AddedAt:   now,
	})

	return &u.Items[len(u.Items)-1], nil
}

// RemoveItem logically removes an item with a reason. When the last active
// item is removed the UCP transitions to empty; the second return value
// reports that transition so the caller can audit it separately.
func (u *UCP) RemoveItem(itemID, reason, removedBy string) (*UCPItem, bool, error) {
	if u.Status == UCPStatusArchived {
		return nil, false, ErrUCPArchived
	}

	item := u.FindItem(itemID)
	if item == nil {
		return nil, false, ErrUCPItemNotFound
	}
	if !item.IsActive {
		return nil, false, ErrUCPItemInactive
	}

	now := time.Now().UTC()
	item.IsActive = false
	item.RemovedBy = removedBy
	item.RemovedAt = &now
	item.RemovalReason = reason
	u.UpdatedAt = now

	u.addDomainEvent(&UCPItemRemovedEvent{
		UCPCode:   u.Code,
		ItemID:    item.ID.Hex(),
		ProductID: item.ProductID,
		Quantity:  item.Quantity,
		Reason:    reason,
		RemovedBy: removedBy,
		RemovedAt: now,
	})

	becameEmpty := false
	if len(u.ActiveItems()) == 0 && u.Status == UCPStatusActive {
		u.Status = UCPStatusEmpty
		becameEmpty = true
		u.addDomainEvent(&UCPStatusChangedEvent{
			UCPCode:   u.Code,
			OldStatus: string(UCPStatusActive),
			NewStatus: string(UCPStatusEmpty),
			ChangedAt: now,
		})
	}

	return item, becameEmpty, nil
}

// ReduceItemQuantity removes part of an item's quantity. The line is
// deactivated when fully consumed. The boolean return reports an
// automatic transition to empty, as in RemoveItem.
func (u *UCP) ReduceItemQuantity(itemID string, quantity float64, reason, removedBy string) (*UCPItem, bool, error) {
	if u.Status == UCPStatusArchived {
		return nil, false, ErrUCPArchived
	}
	if quantity <= 0 {
		return nil, false, ErrInvalidQuantity
	}

	item := u.FindItem(itemID)
	if item == nil {
		return nil, false, ErrUCPItemNotFound
	}
	if !item.IsActive {
		return nil, false, ErrUCPItemInactive
	}
	if quantity > item.Quantity {
		return nil, false, ErrInsufficientQuantity
	}

	if quantity == item.Quantity {
		return u.RemoveItem(itemID, reason, removedBy)
	}

	now := time.Now().UTC()
	item.Quantity -= quantity
	u.UpdatedAt = now

	u.addDomainEvent(&UCPItemRemovedEvent{
		UCPCode:   u.Code,
		ItemID:    item.ID.Hex(),
		ProductID: item.ProductID,
		Quantity:  quantity,
		Reason:    reason,
		RemovedBy: removedBy,
		RemovedAt: now,
	})

	return item, false, nil
}

// MoveTo places the UCP in a new position and returns the previous
// position id so the caller can free it in the same transaction.
func (u *UCP) MoveTo(positionID string) (string, error) {
	if u.Status == UCPStatusArchived {
		return "", ErrUCPArchived
	}

	oldPositionID := u.PositionID
	now := time.Now().UTC()
	u.PositionID = positionID
	u.UpdatedAt = now

	u.addDomainEvent(&UCPMovedEvent{
		UCPCode:        u.Code,
		FromPositionID: oldPositionID,
		ToPositionID:   positionID,
		MovedAt:        now,
	})

	return oldPositionID, nil
}

// Dismantle archives the UCP: all active items are logically removed and
// the pallet/position bindings are cleared. Terminal; re-dismantling an
// archived UCP is an error, never a double-free.
func (u *UCP) Dismantle(reason, performedBy string) error {
	if u.Status == UCPStatusArchived {
		return ErrUCPArchived
	}

	if reason == "" {
		reason = DefaultDismantleReason
	}

	now := time.Now().UTC()
	for i := range u.Items {
		item := &u.Items[i]
		if !item.IsActive {
			continue
		}
		item.IsActive = false
		item.RemovedBy = performedBy
		item.RemovedAt = &now
		item.RemovalReason = reason
	}

	oldStatus := u.Status
	u.Status = UCPStatusArchived
	u.PalletID = ""
	u.PositionID = ""
	u.UpdatedAt = now

	u.addDomainEvent(&UCPDismantledEvent{
		UCPCode:      u.Code,
		OldStatus:    string(oldStatus),
		Reason:       reason,
		DismantledBy: performedBy,
		DismantledAt: now,
	})

	return nil
}

// TotalActiveQuantity sums the quantities of all active items
func (u *UCP) TotalActiveQuantity() float64 {
	var total float64
	for _, item := range u.ActiveItems() {
		total += item.Quantity
	}
	return total
}

// addDomainEvent adds a domain event
func (u *UCP) addDomainEvent(event DomainEvent) {
	u.DomainEvents = append(u.DomainEvents, event)
}

// GetDomainEvents returns all domain events
func (u *UCP) GetDomainEvents() []DomainEvent {
	return u.DomainEvents
}

// ClearDomainEvents clears all domain events
func (u *UCP) ClearDomainEvents() {
	u.DomainEvents = make([]DomainEvent, 0)
}
