package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/Joaovenera/wms-sub000/internal/domain"
	"github.com/Joaovenera/wms-sub000/pkg/logging"
	"github.com/Joaovenera/wms-sub000/pkg/metrics"
)

// UCPService drives the UCP lifecycle state machine. Every transition
// runs inside one transaction together with its audit entries; domain
// events are published only after the transaction commits.
type UCPService struct {
	ucps      domain.UCPRepository
	pallets   domain.PalletRepository
	positions domain.PositionRepository
	history   domain.HistoryRepository
	products  domain.ProductRepository
	codes     domain.UCPCodeGenerator
	tx        domain.TxRunner
	publisher domain.EventPublisher
	logger    *logging.Logger
	metrics   *metrics.Metrics
}

// NewUCPService creates the lifecycle service
func NewUCPService(
	ucps domain.UCPRepository,
	pallets domain.PalletRepository,
	positions domain.PositionRepository,
	history domain.HistoryRepository,
	products domain.ProductRepository,
	codes domain.UCPCodeGenerator,
	tx domain.TxRunner,
	publisher domain.EventPublisher,
	logger *logging.Logger,
	m *metrics.Metrics,
) *UCPService {
	return &UCPService{
		ucps:      ucps,
		pallets:   pallets,
		positions: positions,
		history:   history,
		products:  products,
		codes:     codes,
		tx:        tx,
		publisher: publisher,
		logger:    logger,
		metrics:   m,
	}
}

// CreateUCP creates an active UCP bound to a pallet. The pallet moves
// to em_uso in the same transaction; a pallet that is not disponivel
// fails the whole operation.
func (s *UCPService) CreateUCP(ctx context.Context, cmd CreateUCPCommand) (*UCPDTO, error) {
	var ucp *domain.UCP

	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		pallet, err := s.resolvePallet(ctx, cmd.PalletID)
		if err != nil {
			return err
		}

		if err := s.pallets.UpdateStatus(ctx, pallet.ID.Hex(), domain.PalletStatusAvailable, domain.PalletStatusInUse); err != nil {
			return err
		}

		code, err := s.codes.NextCode(ctx)
		if err != nil {
			return fmt.Errorf("generate ucp code: %w", err)
		}

		ucp = domain.NewUCP(code, pallet.ID.Hex(), cmd.CreatedBy)
		if err := s.ucps.Create(ctx, ucp); err != nil {
			return err
		}

		entry := domain.NewHistoryEntry(ucp.ID.Hex(), domain.HistoryActionCreated,
			fmt.Sprintf("UCP %s criada no pallet %s", ucp.Code, pallet.Code), cmd.CreatedBy)
		return s.history.Append(ctx, entry)
	})
	if err != nil {
		return nil, err
	}

	s.publishUCPEvents(ctx, ucp)
	if s.metrics != nil {
		s.metrics.RecordUCPLifecycle("created")
	}
	s.logger.LogBusinessEvent(ctx, logging.BusinessEvent{
		EventType:  "ucp.created",
		EntityType: "ucp",
		EntityID:   ucp.Code,
		Action:     "created",
		RelatedIDs: map[string]string{"palletId": ucp.PalletID},
	})

	return ToUCPDTO(ucp), nil
}

// ReactivatePallet issues a new UCP code against an existing pallet,
// independent of any archived UCP that used it before.
func (s *UCPService) ReactivatePallet(ctx context.Context, cmd ReactivatePalletCommand) (*UCPDTO, error) {
	return s.CreateUCP(ctx, CreateUCPCommand{PalletID: cmd.PalletID, CreatedBy: cmd.CreatedBy})
}

// AddItem adds product quantity to a UCP
func (s *UCPService) AddItem(ctx context.Context, cmd AddItemCommand) (*UCPDTO, error) {
	var ucp *domain.UCP

	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		var err error
		ucp, err = s.ucps.GetByID(ctx, cmd.UCPID)
		if err != nil {
			return err
		}

		if _, err := s.products.GetByID(ctx, cmd.ProductID); err != nil {
			return err
		}

		readStatus := ucp.Status
		item, err := ucp.AddItem(cmd.ProductID, cmd.PackagingTypeID, cmd.Quantity, cmd.AddedBy)
		if err != nil {
			return err
		}

		if err := s.ucps.Update(ctx, ucp, readStatus); err != nil {
			return err
		}

		entry := domain.NewHistoryEntry(ucp.ID.Hex(), domain.HistoryActionItemAdded,
			fmt.Sprintf("Item %s adicionado (%.2f)", cmd.ProductID, cmd.Quantity), cmd.AddedBy).
			WithItem(item.ID.Hex())
		return s.history.Append(ctx, entry)
	})
	if err != nil {
		return nil, err
	}

	s.publishUCPEvents(ctx, ucp)
	if s.metrics != nil {
		s.metrics.RecordItemMovement("added", int(cmd.Quantity))
	}

	return ToUCPDTO(ucp), nil
}

// RemoveItem removes an item fully or partially. When the last active
// item goes, the UCP becomes empty and a second status_changed audit
// entry is written in the same transaction.
func (s *UCPService) RemoveItem(ctx context.Context, cmd RemoveItemCommand) (*UCPDTO, error) {
	var ucp *domain.UCP

	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		var err error
		ucp, err = s.ucps.GetByID(ctx, cmd.UCPID)
		if err != nil {
			return err
		}

		readStatus := ucp.Status
		var item *domain.UCPItem
		var becameEmpty bool
		if cmd.Quantity > 0 {
			item, becameEmpty, err = ucp.ReduceItemQuantity(cmd.ItemID, cmd.Quantity, cmd.Reason, cmd.RemovedBy)
		} else {
			item, becameEmpty, err = ucp.RemoveItem(cmd.ItemID, cmd.Reason, cmd.RemovedBy)
		}
		if err != nil {
			return err
		}

		if err := s.ucps.Update(ctx, ucp, readStatus); err != nil {
			return err
		}

		entries := []*domain.HistoryEntry{
			domain.NewHistoryEntry(ucp.ID.Hex(), domain.HistoryActionItemRemoved,
				fmt.Sprintf("Item %s removido: %s", item.ProductID, cmd.Reason), cmd.RemovedBy).
				WithItem(item.ID.Hex()),
		}
		if becameEmpty {
			entries = append(entries,
				domain.NewHistoryEntry(ucp.ID.Hex(), domain.HistoryActionStatusChanged,
					"UCP vazia apos remocao do ultimo item", cmd.RemovedBy).
					WithValues(string(domain.UCPStatusActive), string(domain.UCPStatusEmpty)))
		}
		return s.history.AppendAll(ctx, entries)
	})
	if err != nil {
		return nil, err
	}

	s.publishUCPEvents(ctx, ucp)
	if s.metrics != nil {
		s.metrics.RecordItemMovement("removed", int(cmd.Quantity))
	}

	return ToUCPDTO(ucp), nil
}

// Move relocates a UCP. The old position is freed and the new one
// occupied inside the same transaction, so the UCP never holds two
// ocupada positions at once.
func (s *UCPService) Move(ctx context.Context, cmd MoveUCPCommand) (*UCPDTO, error) {
	var ucp *domain.UCP

	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		var err error
		ucp, err = s.ucps.GetByID(ctx, cmd.UCPID)
		if err != nil {
			return err
		}

		if _, err := s.positions.GetByID(ctx, cmd.PositionID); err != nil {
			return err
		}

		// claim the target first so a concurrent move against the same
		// slot fails on the status guard
		if err := s.positions.UpdateStatus(ctx, cmd.PositionID, domain.PositionStatusAvailable, domain.PositionStatusOccupied); err != nil {
			return err
		}

		readStatus := ucp.Status
		oldPositionID, err := ucp.MoveTo(cmd.PositionID)
		if err != nil {
			return err
		}

		if oldPositionID != "" {
			if err := s.positions.UpdateStatus(ctx, oldPositionID, domain.PositionStatusOccupied, domain.PositionStatusAvailable); err != nil {
				return err
			}
		}

		if err := s.ucps.Update(ctx, ucp, readStatus); err != nil {
			return err
		}

		description := fmt.Sprintf("UCP %s movida", ucp.Code)
		if cmd.Reason != "" {
			description = fmt.Sprintf("UCP %s movida: %s", ucp.Code, cmd.Reason)
		}
		entry := domain.NewHistoryEntry(ucp.ID.Hex(), domain.HistoryActionMoved, description, cmd.PerformedBy).
			WithPositions(oldPositionID, cmd.PositionID)
		return s.history.Append(ctx, entry)
	})
	if err != nil {
		return nil, err
	}

	s.publishUCPEvents(ctx, ucp)
	if s.metrics != nil {
		s.metrics.RecordUCPLifecycle("moved")
	}

	return ToUCPDTO(ucp), nil
}

// Dismantle archives a UCP: items are deactivated and the pallet and
// position are freed in the same transaction. Re-dismantling an
// archived UCP is an error, never a double free.
func (s *UCPService) Dismantle(ctx context.Context, cmd DismantleUCPCommand) (*UCPDTO, error) {
	var ucp *domain.UCP

	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		var err error
		ucp, err = s.ucps.GetByID(ctx, cmd.UCPID)
		if err != nil {
			return err
		}

		readStatus := ucp.Status
		palletID, positionID := ucp.PalletID, ucp.PositionID

		if err := ucp.Dismantle(cmd.Reason, cmd.PerformedBy); err != nil {
			return err
		}

		if err := s.ucps.Update(ctx, ucp, readStatus); err != nil {
			return err
		}

		if palletID != "" {
			if err := s.pallets.UpdateStatus(ctx, palletID, domain.PalletStatusInUse, domain.PalletStatusAvailable); err != nil {
				return err
			}
		}
		if positionID != "" {
			if err := s.positions.UpdateStatus(ctx, positionID, domain.PositionStatusOccupied, domain.PositionStatusAvailable); err != nil {
				return err
			}
		}

		reason := cmd.Reason
		if reason == "" {
			reason = domain.DefaultDismantleReason
		}
		entry := domain.NewHistoryEntry(ucp.ID.Hex(), domain.HistoryActionDismantled,
			fmt.Sprintf("UCP %s desmontada: %s", ucp.Code, reason), cmd.PerformedBy).
			WithValues(string(readStatus), string(domain.UCPStatusArchived))
		return s.history.Append(ctx, entry)
	})
	if err != nil {
		return nil, err
	}

	s.publishUCPEvents(ctx, ucp)
	if s.metrics != nil {
		s.metrics.RecordUCPLifecycle("dismantled")
	}
	s.logger.LogBusinessEvent(ctx, logging.BusinessEvent{
		EventType:  "ucp.dismantled",
		EntityType: "ucp",
		EntityID:   ucp.Code,
		Action:     "dismantled",
	})

	return ToUCPDTO(ucp), nil
}

// TransferItem moves quantity of an item from its UCP into another.
// Both sides change in one transaction, with paired transfer audit
// entries.
func (s *UCPService) TransferItem(ctx context.Context, cmd TransferItemCommand) (*UCPDTO, error) {
	var source, target *domain.UCP

	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		var err error
		source, err = s.ucps.GetByItemID(ctx, cmd.SourceItemID)
		if err != nil {
			return err
		}
		target, err = s.ucps.GetByID(ctx, cmd.TargetUCPID)
		if err != nil {
			return err
		}
		if source.ID == target.ID {
			return domain.ErrInvalidQuantity
		}

		item := source.FindItem(cmd.SourceItemID)
		if item == nil {
			return domain.ErrUCPItemNotFound
		}

		quantity := cmd.Quantity
		if quantity <= 0 {
			quantity = item.Quantity
		}

		reason := cmd.Reason
		if reason == "" {
			reason = fmt.Sprintf("Transferido para %s", target.Code)
		}

		sourceStatus := source.Status
		if _, _, err := source.ReduceItemQuantity(cmd.SourceItemID, quantity, reason, cmd.PerformedBy); err != nil {
			return err
		}

		targetStatus := target.Status
		newItem, err := target.AddItem(item.ProductID, item.PackagingTypeID, quantity, cmd.PerformedBy)
		if err != nil {
			return err
		}

		if err := s.ucps.Update(ctx, source, sourceStatus); err != nil {
			return err
		}
		if err := s.ucps.Update(ctx, target, targetStatus); err != nil {
			return err
		}

		entries := []*domain.HistoryEntry{
			domain.NewHistoryEntry(source.ID.Hex(), domain.HistoryActionItemTransferredOut,
				fmt.Sprintf("Item %s transferido para UCP %s (%.2f)", item.ProductID, target.Code, quantity), cmd.PerformedBy).
				WithItem(item.ID.Hex()),
			domain.NewHistoryEntry(target.ID.Hex(), domain.HistoryActionItemTransferredIn,
				fmt.Sprintf("Item %s recebido da UCP %s (%.2f)", item.ProductID, source.Code, quantity), cmd.PerformedBy).
				WithItem(newItem.ID.Hex()),
		}
		return s.history.AppendAll(ctx, entries)
	})
	if err != nil {
		return nil, err
	}

	s.publishUCPEvents(ctx, source)
	s.publishUCPEvents(ctx, target)
	if s.metrics != nil {
		s.metrics.RecordItemMovement("transferred", int(cmd.Quantity))
	}

	return ToUCPDTO(target), nil
}

// GetUCP retrieves a UCP by id
func (s *UCPService) GetUCP(ctx context.Context, id string) (*UCPDTO, error) {
	ucp, err := s.ucps.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToUCPDTO(ucp), nil
}

// ListUCPs retrieves UCPs filtered by status
func (s *UCPService) ListUCPs(ctx context.Context, status string, page, limit int) (*PageDTO[*UCPDTO], error) {
	pagination := domain.Pagination{Page: page, Limit: limit}
	ucps, total, err := s.ucps.List(ctx, domain.UCPStatus(status), pagination)
	if err != nil {
		return nil, err
	}

	items := make([]*UCPDTO, 0, len(ucps))
	for _, ucp := range ucps {
		items = append(items, ToUCPDTO(ucp))
	}
	return &PageDTO[*UCPDTO]{Items: items, Total: total, Page: page, Limit: limit}, nil
}

// GetHistory retrieves a UCP's audit trail, newest first
func (s *UCPService) GetHistory(ctx context.Context, ucpID string, page, limit int) (*PageDTO[*HistoryEntryDTO], error) {
	if _, err := s.ucps.GetByID(ctx, ucpID); err != nil {
		return nil, err
	}

	pagination := domain.Pagination{Page: page, Limit: limit}
	entries, total, err := s.history.ListByUCP(ctx, ucpID, pagination)
	if err != nil {
		return nil, err
	}

	items := make([]*HistoryEntryDTO, 0, len(entries))
	for _, entry := range entries {
		items = append(items, ToHistoryEntryDTO(entry))
	}
	return &PageDTO[*HistoryEntryDTO]{Items: items, Total: total, Page: page, Limit: limit}, nil
}

// resolvePallet loads the pallet by id, or picks a free one
func (s *UCPService) resolvePallet(ctx context.Context, palletID string) (*domain.Pallet, error) {
	if palletID != "" {
		return s.pallets.GetByID(ctx, palletID)
	}
	pallet, err := s.pallets.FindAvailable(ctx)
	if err != nil {
		return nil, err
	}
	if pallet == nil {
		return nil, domain.ErrNoAvailablePallet
	}
	return pallet, nil
}

// publishUCPEvents flushes the aggregate's pending events after commit
func (s *UCPService) publishUCPEvents(ctx context.Context, ucp *domain.UCP) {
	if s.publisher == nil || ucp == nil {
		return
	}
	for _, event := range ucp.GetDomainEvents() {
		if err := s.publisher.PublishUCPEvent(ctx, event, ucp.Code); err != nil &&
			!errors.Is(err, context.Canceled) {
			s.logger.WithError(err).Warn("Failed to publish UCP event", "eventType", event.EventType())
		}
	}
	ucp.ClearDomainEvents()
}
