package domain

import "errors"

// Domain errors
var (
	ErrUCPNotFound             = errors.New("UCP not found")
	ErrUCPArchived             = errors.New("UCP is archived")
	ErrUCPItemNotFound         = errors.New("UCP item not found")
	ErrUCPItemInactive         = errors.New("UCP item is inactive")
	ErrPalletNotFound          = errors.New("pallet not found")
	ErrPalletUnavailable       = errors.New("pallet is not available")
	ErrNoAvailablePallet       = errors.New("no available pallet for auto-selection")
	ErrPositionNotFound        = errors.New("position not found")
	ErrPositionUnavailable     = errors.New("position is not available")
	ErrCompositionNotFound     = errors.New("composition not found")
	ErrCompositionNotApproved  = errors.New("composition is not approved")
	ErrCompositionExecuted     = errors.New("composition already executed")
	ErrInvalidStatusTransition = errors.New("invalid status transition")
	ErrInvalidQuantity         = errors.New("invalid quantity")
	ErrInsufficientQuantity    = errors.New("requested quantity exceeds quantity on hand")
	ErrProductNotFound         = errors.New("product not found")
)
