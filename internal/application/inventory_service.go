package application

import (
	"context"

	"github.com/Joaovenera/wms-sub000/internal/domain"
	"github.com/Joaovenera/wms-sub000/pkg/logging"
)

// InventoryService manages the pallet and position registries the UCP
// lifecycle draws from.
type InventoryService struct {
	pallets   domain.PalletRepository
	positions domain.PositionRepository
	logger    *logging.Logger
}

func NewInventoryService(pallets domain.PalletRepository, positions domain.PositionRepository, logger *logging.Logger) *InventoryService {
	return &InventoryService{pallets: pallets, positions: positions, logger: logger}
}

// CreatePalletCommand registers a pallet
type CreatePalletCommand struct {
	Code      string
	Type      string
	Width     float64
	Length    float64
	MaxWeight float64
	MaxHeight float64
}

func (s *InventoryService) CreatePallet(ctx context.Context, cmd CreatePalletCommand) (*PalletDTO, error) {
	pallet := domain.NewPallet(cmd.Code, cmd.Type, cmd.Width, cmd.Length, cmd.MaxWeight, cmd.MaxHeight)
	if err := s.pallets.Create(ctx, pallet); err != nil {
		return nil, err
	}

	s.logger.WithFields(map[string]interface{}{
		"palletCode": pallet.Code,
		"palletType": pallet.Type,
	}).Info("Pallet registered")

	return ToPalletDTO(pallet), nil
}

func (s *InventoryService) GetPallet(ctx context.Context, id string) (*PalletDTO, error) {
	pallet, err := s.pallets.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToPalletDTO(pallet), nil
}

func (s *InventoryService) ListPallets(ctx context.Context, status string, page, limit int) (*PageDTO[*PalletDTO], error) {
	pallets, total, err := s.pallets.List(ctx, domain.PalletStatus(status), domain.Pagination{Page: page, Limit: limit})
	if err != nil {
		return nil, err
	}

	items := make([]*PalletDTO, 0, len(pallets))
	for _, pallet := range pallets {
		items = append(items, ToPalletDTO(pallet))
	}
	return &PageDTO[*PalletDTO]{Items: items, Total: total, Page: page, Limit: limit}, nil
}

// CreatePositionCommand registers a storage position
type CreatePositionCommand struct {
	Code   string
	Street string
	Side   string
	Level  int
}

func (s *InventoryService) CreatePosition(ctx context.Context, cmd CreatePositionCommand) (*PositionDTO, error) {
	position := domain.NewPosition(cmd.Code, cmd.Street, cmd.Side, cmd.Level)
	if err := s.positions.Create(ctx, position); err != nil {
		return nil, err
	}
	return ToPositionDTO(position), nil
}

func (s *InventoryService) GetPosition(ctx context.Context, id string) (*PositionDTO, error) {
	position, err := s.positions.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToPositionDTO(position), nil
}

func (s *InventoryService) ListPositions(ctx context.Context, status string, page, limit int) (*PageDTO[*PositionDTO], error) {
	positions, total, err := s.positions.List(ctx, domain.PositionStatus(status), domain.Pagination{Page: page, Limit: limit})
	if err != nil {
		return nil, err
	}

	items := make([]*PositionDTO, 0, len(positions))
	for _, position := range positions {
		items = append(items, ToPositionDTO(position))
	}
	return &PageDTO[*PositionDTO]{Items: items, Total: total, Page: page, Limit: limit}, nil
}
