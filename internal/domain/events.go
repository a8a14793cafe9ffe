package domain

import "time"

// DomainEvent represents a domain event interface
type DomainEvent interface {
	EventType() string
	OccurredAt() time.Time
}

// UCPCreatedEvent is emitted when a UCP is created
type UCPCreatedEvent struct {
	UCPCode   string    `json:"ucpCode"`
	PalletID  string    `json:"palletId"`
	CreatedBy string    `json:"createdBy"`
	CreatedAt time.Time `json:"createdAt"`
}

func (e *UCPCreatedEvent) EventType() string     { return "ucp.created" }
func (e *UCPCreatedEvent) OccurredAt() time.Time { return e.CreatedAt }

// UCPItemAddedEvent is emitted when items are added to a UCP
type UCPItemAddedEvent struct {
	UCPCode   string    `json:"ucpCode"`
	ItemID    string    `json:"itemId"`
	ProductID string    `json:"productId"`
	Quantity  float64   `json:"quantity"`
	AddedBy   string    `json:"addedBy"`
	AddedAt   time.Time `json:"addedAt"`
}

func (e *UCPItemAddedEvent) EventType() string     { return "ucp.item.added" }
func (e *UCPItemAddedEvent) OccurredAt() time.Time { return e.AddedAt }

// UCPItemRemovedEvent is emitted when item quantity is removed from a UCP
type UCPItemRemovedEvent struct {
	UCPCode   string    `json:"ucpCode"`
	ItemID    string    `json:"itemId"`
	ProductID string    `json:"productId"`
	Quantity  float64   `json:"quantity"`
	Reason    string    `json:"reason"`
	RemovedBy string    `json:"removedBy"`
	RemovedAt time.Time `json:"removedAt"`
}

func (e *UCPItemRemovedEvent) EventType() string     { return "ucp.item.removed" }
func (e *UCPItemRemovedEvent) OccurredAt() time.Time { return e.RemovedAt }

// UCPStatusChangedEvent is emitted on automatic status transitions
type UCPStatusChangedEvent struct {
	UCPCode   string    `json:"ucpCode"`
	OldStatus string    `json:"oldStatus"`
	NewStatus string    `json:"newStatus"`
	ChangedAt time.Time `json:"changedAt"`
}

func (e *UCPStatusChangedEvent) EventType() string     { return "ucp.status.changed" }
func (e *UCPStatusChangedEvent) OccurredAt() time.Time { return e.ChangedAt }

// UCPMovedEvent is emitted when a UCP changes position
type UCPMovedEvent struct {
	UCPCode        string    `json:"ucpCode"`
	FromPositionID string    `json:"fromPositionId,omitempty"`
	ToPositionID   string    `json:"toPositionId"`
	MovedAt        time.Time `json:"movedAt"`
}

func (e *UCPMovedEvent) EventType() string     { return "ucp.moved" }
func (e *UCPMovedEvent) OccurredAt() time.Time { return e.MovedAt }

// UCPDismantledEvent is emitted when a UCP is dismantled
type UCPDismantledEvent struct {
	UCPCode      string    `json:"ucpCode"`
	OldStatus    string    `json:"oldStatus"`
	Reason       string    `json:"reason"`
	DismantledBy string    `json:"dismantledBy"`
	DismantledAt time.Time `json:"dismantledAt"`
}

func (e *UCPDismantledEvent) EventType() string     { return "ucp.dismantled" }
func (e *UCPDismantledEvent) OccurredAt() time.Time { return e.DismantledAt }

// CompositionSavedEvent is emitted when a composition draft is persisted
type CompositionSavedEvent struct {
	CompositionID string    `json:"compositionId"`
	Name          string    `json:"name"`
	ProductCount  int       `json:"productCount"`
	SavedAt       time.Time `json:"savedAt"`
}

func (e *CompositionSavedEvent) EventType() string     { return "composition.saved" }
func (e *CompositionSavedEvent) OccurredAt() time.Time { return e.SavedAt }

// CompositionStatusChangedEvent is emitted on composition workflow transitions
type CompositionStatusChangedEvent struct {
	CompositionID string    `json:"compositionId"`
	OldStatus     string    `json:"oldStatus"`
	NewStatus     string    `json:"newStatus"`
	ChangedAt     time.Time `json:"changedAt"`
}

func (e *CompositionStatusChangedEvent) EventType() string     { return "composition.status.changed" }
func (e *CompositionStatusChangedEvent) OccurredAt() time.Time { return e.ChangedAt }

// CompositionAssembledEvent is emitted when a composition is materialized into a UCP
type CompositionAssembledEvent struct {
	CompositionID string    `json:"compositionId"`
	TargetUCPID   string    `json:"targetUcpId"`
	ProductCount  int       `json:"productCount"`
	AssembledAt   time.Time `json:"assembledAt"`
}

func (e *CompositionAssembledEvent) EventType() string     { return "composition.assembled" }
func (e *CompositionAssembledEvent) OccurredAt() time.Time { return e.AssembledAt }

// CompositionDisassembledEvent is emitted when a composition is unwound
type CompositionDisassembledEvent struct {
	CompositionID  string    `json:"compositionId"`
	ItemCount      int       `json:"itemCount"`
	DisassembledAt time.Time `json:"disassembledAt"`
}

func (e *CompositionDisassembledEvent) EventType() string     { return "composition.disassembled" }
func (e *CompositionDisassembledEvent) OccurredAt() time.Time { return e.DisassembledAt }
