package domain

import (
	"context"
)

// Pagination holds query pagination parameters
type Pagination struct {
	Page  int
	Limit int
}

// UCPRepository defines the persistence contract for UCP aggregates
type UCPRepository interface {
	// Create inserts a new UCP
	Create(ctx context.Context, ucp *UCP) error

	// GetByID retrieves a UCP by its id
	GetByID(ctx context.Context, id string) (*UCP, error)

	// GetByCode retrieves a UCP by its code
	GetByCode(ctx context.Context, code string) (*UCP, error)

	// Update replaces a UCP document guarded by the status it was read at.
	// Returns ErrInvalidStatusTransition when the guard no longer matches.
	Update(ctx context.Context, ucp *UCP, expectedStatus UCPStatus) error

	// List retrieves UCPs filtered by status with pagination
	List(ctx context.Context, status UCPStatus, pagination Pagination) ([]*UCP, int64, error)

	// GetByPositionID retrieves the UCP currently bound to a position
	GetByPositionID(ctx context.Context, positionID string) (*UCP, error)

	// GetByItemID retrieves the UCP holding the given item
	GetByItemID(ctx context.Context, itemID string) (*UCP, error)
}

// PalletRepository defines the persistence contract for pallets
type PalletRepository interface {
	// Create inserts a new pallet
	Create(ctx context.Context, pallet *Pallet) error

	// GetByID retrieves a pallet by its id
	GetByID(ctx context.Context, id string) (*Pallet, error)

	// GetByCode retrieves a pallet by its code
	GetByCode(ctx context.Context, code string) (*Pallet, error)

	// UpdateStatus transitions a pallet's status guarded by the expected
	// current status. Returns ErrPalletUnavailable when the guard fails.
	UpdateStatus(ctx context.Context, id string, expected, target PalletStatus) error

	// FindAvailable retrieves the first pallet in disponivel status
	FindAvailable(ctx context.Context) (*Pallet, error)

	// List retrieves pallets filtered by status with pagination
	List(ctx context.Context, status PalletStatus, pagination Pagination) ([]*Pallet, int64, error)
}

// PositionRepository defines the persistence contract for storage positions
type PositionRepository interface {
	// Create inserts a new position
	Create(ctx context.Context, position *Position) error

	// GetByID retrieves a position by its id
	GetByID(ctx context.Context, id string) (*Position, error)

	// GetByCode retrieves a position by its code
	GetByCode(ctx context.Context, code string) (*Position, error)

	// UpdateStatus transitions a position's status guarded by the expected
	// current status. Returns ErrPositionUnavailable when the guard fails.
	UpdateStatus(ctx context.Context, id string, expected, target PositionStatus) error

	// List retrieves positions filtered by status with pagination
	List(ctx context.Context, status PositionStatus, pagination Pagination) ([]*Position, int64, error)
}

// HistoryRepository defines the append-only audit trail contract.
// Entries are inserted once and never updated or deleted.
type HistoryRepository interface {
	// Append inserts a single audit entry
	Append(ctx context.Context, entry *HistoryEntry) error

	// AppendAll inserts multiple audit entries in order
	AppendAll(ctx context.Context, entries []*HistoryEntry) error

	// ListByUCP retrieves the audit trail of a UCP, newest first
	ListByUCP(ctx context.Context, ucpID string, pagination Pagination) ([]*HistoryEntry, int64, error)
}

// CompositionRepository defines the persistence contract for compositions
type CompositionRepository interface {
	// Create inserts a new composition
	Create(ctx context.Context, composition *Composition) error

	// GetByID retrieves a composition by its id
	GetByID(ctx context.Context, id string) (*Composition, error)

	// Update replaces a composition document guarded by the status it was
	// read at. Returns ErrInvalidStatusTransition when the guard fails.
	Update(ctx context.Context, composition *Composition, expectedStatus CompositionStatus) error

	// List retrieves compositions filtered by status with pagination
	List(ctx context.Context, status CompositionStatus, pagination Pagination) ([]*Composition, int64, error)

	// Delete removes a composition document
	Delete(ctx context.Context, id string) error
}

// ProductRepository resolves catalog records for validation
type ProductRepository interface {
	// GetByID retrieves a product by its id
	GetByID(ctx context.Context, id string) (*Product, error)

	// GetByIDs retrieves products by id, keyed by id. Missing ids are
	// simply absent from the result map.
	GetByIDs(ctx context.Context, ids []string) (map[string]*Product, error)
}

// UCPCodeGenerator produces sequential UCP codes in the form
// UCP-YYYYMMDD-NNNN, unique per calendar day.
type UCPCodeGenerator interface {
	// NextCode returns the next code for the current date
	NextCode(ctx context.Context) (string, error)
}

// TxRunner executes a function inside a single atomic transaction.
// All repository calls made with the callback's context share the
// transaction and commit or abort together.
type TxRunner interface {
	// WithTransaction runs fn transactionally
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// EventPublisher publishes domain events to external consumers
type EventPublisher interface {
	// PublishUCPEvent publishes a UCP lifecycle event
	PublishUCPEvent(ctx context.Context, event DomainEvent, subject string) error

	// PublishCompositionEvent publishes a composition workflow event
	PublishCompositionEvent(ctx context.Context, event DomainEvent, subject string) error
}
