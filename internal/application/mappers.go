package application

import (
	"github.com/Joaovenera/wms-sub000/internal/domain"
	"github.com/Joaovenera/wms-sub000/internal/validation"
)

// ToUCPDTO converts a domain UCP to its DTO
func ToUCPDTO(ucp *domain.UCP) *UCPDTO {
	items := make([]UCPItemDTO, 0, len(ucp.Items))
	for _, item := range ucp.Items {
		items = append(items, UCPItemDTO{
			ID:              item.ID.Hex(),
			ProductID:       item.ProductID,
			PackagingTypeID: item.PackagingTypeID,
			Quantity:        item.Quantity,
			IsActive:        item.IsActive,
			AddedBy:         item.AddedBy,
			AddedAt:         item.AddedAt,
			RemovedBy:       item.RemovedBy,
			RemovedAt:       item.RemovedAt,
			RemovalReason:   item.RemovalReason,
		})
	}

	return &UCPDTO{
		ID:         ucp.ID.Hex(),
		Code:       ucp.Code,
		Status:     string(ucp.Status),
		PalletID:   ucp.PalletID,
		PositionID: ucp.PositionID,
		Items:      items,
		CreatedBy:  ucp.CreatedBy,
		CreatedAt:  ucp.CreatedAt,
		UpdatedAt:  ucp.UpdatedAt,
	}
}

// ToHistoryEntryDTO converts an audit entry to its DTO
func ToHistoryEntryDTO(entry *domain.HistoryEntry) *HistoryEntryDTO {
	return &HistoryEntryDTO{
		ID:             entry.ID.Hex(),
		UCPID:          entry.UCPID,
		Action:         string(entry.Action),
		Description:    entry.Description,
		OldValue:       entry.OldValue,
		NewValue:       entry.NewValue,
		ItemID:         entry.ItemID,
		FromPositionID: entry.FromPositionID,
		ToPositionID:   entry.ToPositionID,
		PerformedBy:    entry.PerformedBy,
		Timestamp:      entry.Timestamp,
	}
}

// ToCompositionDTO converts a composition to its DTO
func ToCompositionDTO(comp *domain.Composition) *CompositionDTO {
	products := make([]CompositionLineDTO, 0, len(comp.Products))
	for _, p := range comp.Products {
		products = append(products, CompositionLineDTO{
			ProductID:       p.ProductID,
			Quantity:        p.Quantity,
			PackagingTypeID: p.PackagingTypeID,
		})
	}

	return &CompositionDTO{
		ID:          comp.ID.Hex(),
		Name:        comp.Name,
		Products:    products,
		PalletID:    comp.PalletID,
		Constraints: toValidationConstraints(comp.Constraints),
		Status:      string(comp.Status),
		Result:      comp.Result,
		CreatedBy:   comp.CreatedBy,
		CreatedAt:   comp.CreatedAt,
		UpdatedAt:   comp.UpdatedAt,
		ExecutedAt:  comp.ExecutedAt,
	}
}

func toValidationConstraints(c domain.CompositionConstraints) validation.Constraints {
	return validation.Constraints{
		MaxWeight: c.MaxWeight,
		MaxHeight: c.MaxHeight,
		MaxVolume: c.MaxVolume,
	}
}

func toDomainConstraints(c validation.Constraints) domain.CompositionConstraints {
	return domain.CompositionConstraints{
		MaxWeight: c.MaxWeight,
		MaxHeight: c.MaxHeight,
		MaxVolume: c.MaxVolume,
	}
}

func toDomainProducts(lines []validation.ProductLine) []domain.CompositionProduct {
	products := make([]domain.CompositionProduct, 0, len(lines))
	for _, line := range lines {
		products = append(products, domain.CompositionProduct{
			ProductID:       line.ProductID,
			Quantity:        line.Quantity,
			PackagingTypeID: line.PackagingTypeID,
		})
	}
	return products
}

func toValidationRequest(comp *domain.Composition) *validation.Request {
	lines := make([]validation.ProductLine, 0, len(comp.Products))
	for _, p := range comp.Products {
		lines = append(lines, validation.ProductLine{
			ProductID:       p.ProductID,
			Quantity:        p.Quantity,
			PackagingTypeID: p.PackagingTypeID,
		})
	}
	return &validation.Request{
		Products:    lines,
		PalletID:    comp.PalletID,
		Constraints: toValidationConstraints(comp.Constraints),
	}
}

// ToPalletDTO converts a pallet to its DTO
func ToPalletDTO(pallet *domain.Pallet) *PalletDTO {
	return &PalletDTO{
		ID:        pallet.ID.Hex(),
		Code:      pallet.Code,
		Type:      pallet.Type,
		Width:     pallet.Width,
		Length:    pallet.Length,
		MaxWeight: pallet.MaxWeight,
		MaxHeight: pallet.MaxHeight,
		Status:    string(pallet.Status),
	}
}

// ToPositionDTO converts a position to its DTO
func ToPositionDTO(position *domain.Position) *PositionDTO {
	return &PositionDTO{
		ID:     position.ID.Hex(),
		Code:   position.Code,
		Street: position.Street,
		Side:   position.Side,
		Level:  position.Level,
		Status: string(position.Status),
	}
}
