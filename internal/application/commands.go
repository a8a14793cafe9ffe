package application

import "github.com/Joaovenera/wms-sub000/internal/validation"

// CreateUCPCommand creates a new UCP bound to a pallet. An empty
// PalletID auto-selects a free pallet.
type CreateUCPCommand struct {
	PalletID  string
	CreatedBy string
}

// ReactivatePalletCommand issues a fresh UCP code against an existing
// pallet, independent of any prior UCP on it.
type ReactivatePalletCommand struct {
	PalletID  string
	CreatedBy string
}

// AddItemCommand adds product quantity to a UCP
type AddItemCommand struct {
	UCPID           string
	ProductID       string
	PackagingTypeID string
	Quantity        float64
	AddedBy         string
}

// RemoveItemCommand removes an item, fully or partially. Quantity
// zero removes the whole line.
type RemoveItemCommand struct {
	UCPID     string
	ItemID    string
	Quantity  float64
	Reason    string
	RemovedBy string
}

// MoveUCPCommand relocates a UCP to another position
type MoveUCPCommand struct {
	UCPID       string
	PositionID  string
	Reason      string
	PerformedBy string
}

// DismantleUCPCommand archives a UCP and frees its pallet and position
type DismantleUCPCommand struct {
	UCPID       string
	Reason      string
	PerformedBy string
}

// TransferItemCommand moves quantity of an item into another UCP
type TransferItemCommand struct {
	SourceItemID string
	TargetUCPID  string
	Quantity     float64
	Reason       string
	PerformedBy  string
}

// SaveCompositionCommand persists a draft composition with its result
type SaveCompositionCommand struct {
	Name      string
	Request   validation.Request
	CreatedBy string
}

// UpdateCompositionStatusCommand moves a composition along its workflow
type UpdateCompositionStatusCommand struct {
	CompositionID string
	Status        string
	PerformedBy   string
}

// AssembleCommand materializes an approved composition into a UCP
type AssembleCommand struct {
	CompositionID string
	TargetUCPID   string
	PerformedBy   string
}

// DisassembleTarget names one UCP/product pair to unwind
type DisassembleTarget struct {
	ProductID string
	Quantity  float64
	UCPID     string
}

// DisassembleCommand unwinds composition quantities from UCPs
type DisassembleCommand struct {
	CompositionID string
	Targets       []DisassembleTarget
	PerformedBy   string
}
