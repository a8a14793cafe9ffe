package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// HistoryAction enumerates the audited UCP lifecycle actions
type HistoryAction string

const (
	HistoryActionCreated            HistoryAction = "created"
	HistoryActionItemAdded          HistoryAction = "item_added"
	HistoryActionItemRemoved        HistoryAction = "item_removed"
	HistoryActionItemTransferredOut HistoryAction = "item_transferred_out"
	HistoryActionItemTransferredIn  HistoryAction = "item_transferred_in"
	HistoryActionStatusChanged      HistoryAction = "status_changed"
	HistoryActionMoved              HistoryAction = "moved"
	HistoryActionDismantled         HistoryAction = "dismantled"
)

// IsValid checks if the action is valid
func (a HistoryAction) IsValid() bool {
	switch a {
	case HistoryActionCreated, HistoryActionItemAdded, HistoryActionItemRemoved,
		HistoryActionItemTransferredOut, HistoryActionItemTransferredIn,
		HistoryActionStatusChanged, HistoryActionMoved, HistoryActionDismantled:
		return true
	default:
		return false
	}
}

// HistoryEntry is one append-only audit record for a UCP.
// Entries are never mutated or deleted after insertion.
type HistoryEntry struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UCPID          string             `bson:"ucpId" json:"ucpId"`
	Action         HistoryAction      `bson:"action" json:"action"`
	Description    string             `bson:"description" json:"description"`
	OldValue       string             `bson:"oldValue,omitempty" json:"oldValue,omitempty"`
	NewValue       string             `bson:"newValue,omitempty" json:"newValue,omitempty"`
	ItemID         string             `bson:"itemId,omitempty" json:"itemId,omitempty"`
	FromPositionID string             `bson:"fromPositionId,omitempty" json:"fromPositionId,omitempty"`
	ToPositionID   string             `bson:"toPositionId,omitempty" json:"toPositionId,omitempty"`
	PerformedBy    string             `bson:"performedBy" json:"performedBy"`
	Timestamp      time.Time          `bson:"timestamp" json:"timestamp"`
}

// NewHistoryEntry creates an audit entry stamped with the current time
func NewHistoryEntry(ucpID string, action HistoryAction, description, performedBy string) *HistoryEntry {
	return &HistoryEntry{
		ID:          primitive.NewObjectID(),
		UCPID:       ucpID,
		Action:      action,
		Description: description,
		PerformedBy: performedBy,
		Timestamp:   time.Now().UTC(),
	}
}

// WithValues records the before/after values of a transition
func (h *HistoryEntry) WithValues(oldValue, newValue string) *HistoryEntry {
	h.OldValue = oldValue
	h.NewValue = newValue
	return h
}

// WithItem links the entry to a UCP item
func (h *HistoryEntry) WithItem(itemID string) *HistoryEntry {
	h.ItemID = itemID
	return h
}

// WithPositions records a move's source and target positions
func (h *HistoryEntry) WithPositions(fromPositionID, toPositionID string) *HistoryEntry {
	h.FromPositionID = fromPositionID
	h.ToPositionID = toPositionID
	return h
}
