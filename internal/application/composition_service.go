package application

import (
	"context"
	"fmt"
	"time"

	"github.com/Joaovenera/wms-sub000/internal/domain"
	"github.com/Joaovenera/wms-sub000/internal/validation"
	"github.com/Joaovenera/wms-sub000/pkg/errors"
	"github.com/Joaovenera/wms-sub000/pkg/logging"
	"github.com/Joaovenera/wms-sub000/pkg/metrics"
)

// CompositionService exposes the validation pipeline and drives the
// assembler and disassembler over the lifecycle service.
type CompositionService struct {
	orchestrator *validation.Orchestrator
	compositions domain.CompositionRepository
	ucps         domain.UCPRepository
	pallets      domain.PalletRepository
	products     domain.ProductRepository
	history      domain.HistoryRepository
	tx           domain.TxRunner
	publisher    domain.EventPublisher
	logger       *logging.Logger
	metrics      *metrics.Metrics
}

// NewCompositionService creates the composition service
func NewCompositionService(
	orchestrator *validation.Orchestrator,
	compositions domain.CompositionRepository,
	ucps domain.UCPRepository,
	pallets domain.PalletRepository,
	products domain.ProductRepository,
	history domain.HistoryRepository,
	tx domain.TxRunner,
	publisher domain.EventPublisher,
	logger *logging.Logger,
	m *metrics.Metrics,
) *CompositionService {
	return &CompositionService{
		orchestrator: orchestrator,
		compositions: compositions,
		ucps:         ucps,
		pallets:      pallets,
		products:     products,
		history:      history,
		tx:           tx,
		publisher:    publisher,
		logger:       logger,
		metrics:      m,
	}
}

// Validate runs the validation pipeline in the requested mode without
// persisting anything.
func (s *CompositionService) Validate(ctx context.Context, request *validation.Request, mode validation.Mode) (*validation.Result, error) {
	if !mode.IsValid() {
		mode = validation.ModeFull
	}

	start := time.Now()
	result, err := s.orchestrator.Validate(ctx, request, mode)
	if err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.RecordValidation(string(mode), result.IsValid, time.Since(start))
	}
	return result, nil
}

// Calculate validates in full mode and computes a layout with the
// requested strategy.
func (s *CompositionService) Calculate(ctx context.Context, request *validation.Request, algorithm string) (*CalculationDTO, error) {
	result, err := s.Validate(ctx, request, validation.ModeFull)
	if err != nil {
		return nil, err
	}

	pallet, err := s.resolvePallet(ctx, request.PalletID)
	if err != nil {
		return nil, err
	}

	productIDs := make([]string, 0, len(request.Products))
	for _, p := range request.Products {
		productIDs = append(productIDs, p.ProductID)
	}
	products, err := s.products.GetByIDs(ctx, productIDs)
	if err != nil {
		return nil, err
	}

	strategy := validation.StrategyFor(algorithm)
	layout := strategy.ComputeLayout(request, products, pallet)

	return &CalculationDTO{
		Success: true,
		Data:    CalculationData{Layout: layout, Validation: result},
		Metadata: CalculationMetadata{
			ResponseTime: result.Metrics.ProcessingTimeMs,
			Algorithm:    layout.Algorithm,
			Cached:       result.Metrics.Cached,
			Timestamp:    time.Now().UTC(),
		},
	}, nil
}

// Save validates in full mode and persists a draft composition with
// its computed result snapshot.
func (s *CompositionService) Save(ctx context.Context, cmd SaveCompositionCommand) (*CompositionDTO, error) {
	result, err := s.Validate(ctx, &cmd.Request, validation.ModeFull)
	if err != nil {
		return nil, err
	}

	comp := domain.NewComposition(
		cmd.Name,
		toDomainProducts(cmd.Request.Products),
		cmd.Request.PalletID,
		toDomainConstraints(cmd.Request.Constraints),
		result,
		cmd.CreatedBy,
	)

	if err := s.compositions.Create(ctx, comp); err != nil {
		return nil, err
	}

	s.publishCompositionEvents(ctx, comp)
	if s.metrics != nil {
		s.metrics.RecordComposition("saved")
	}

	return ToCompositionDTO(comp), nil
}

// GetComposition retrieves a composition by id
func (s *CompositionService) GetComposition(ctx context.Context, id string) (*CompositionDTO, error) {
	comp, err := s.compositions.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToCompositionDTO(comp), nil
}

// ListCompositions retrieves compositions filtered by status
func (s *CompositionService) ListCompositions(ctx context.Context, status string, page, limit int) (*PageDTO[*CompositionDTO], error) {
	pagination := domain.Pagination{Page: page, Limit: limit}
	comps, total, err := s.compositions.List(ctx, domain.CompositionStatus(status), pagination)
	if err != nil {
		return nil, err
	}

	items := make([]*CompositionDTO, 0, len(comps))
	for _, comp := range comps {
		items = append(items, ToCompositionDTO(comp))
	}
	return &PageDTO[*CompositionDTO]{Items: items, Total: total, Page: page, Limit: limit}, nil
}

// DeleteComposition removes a draft composition. Anything further along
// the workflow has to be reverted to draft first.
func (s *CompositionService) DeleteComposition(ctx context.Context, id string) error {
	comp, err := s.compositions.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if comp.Status != domain.CompositionStatusDraft {
		return errors.ErrConflict(fmt.Sprintf("composition %s is %s, only drafts can be deleted", id, comp.Status))
	}

	if err := s.compositions.Delete(ctx, comp.ID.Hex()); err != nil {
		return err
	}

	if s.metrics != nil {
		s.metrics.RecordComposition("deleted")
	}
	return nil
}

// UpdateStatus moves a composition along draft, validated, approved,
// executed. Executed is terminal.
func (s *CompositionService) UpdateStatus(ctx context.Context, cmd UpdateCompositionStatusCommand) (*CompositionDTO, error) {
	comp, err := s.compositions.GetByID(ctx, cmd.CompositionID)
	if err != nil {
		return nil, err
	}

	readStatus := comp.Status
	if err := comp.TransitionTo(domain.CompositionStatus(cmd.Status)); err != nil {
		return nil, err
	}

	if err := s.compositions.Update(ctx, comp, readStatus); err != nil {
		return nil, err
	}

	s.publishCompositionEvents(ctx, comp)
	return ToCompositionDTO(comp), nil
}

// Assemble materializes an approved composition into the target UCP.
// It re-validates in full mode first, then adds every product inside
// one transaction and marks the composition executed.
func (s *CompositionService) Assemble(ctx context.Context, cmd AssembleCommand) (*CompositionDTO, error) {
	comp, err := s.compositions.GetByID(ctx, cmd.CompositionID)
	if err != nil {
		return nil, err
	}
	if !comp.IsApproved() {
		return nil, errors.ErrBusinessRule(fmt.Sprintf("composition %s is %s, only approved compositions can be assembled", cmd.CompositionID, comp.Status))
	}

	result, err := s.orchestrator.Validate(ctx, toValidationRequest(comp), validation.ModeFull)
	if err != nil {
		return nil, err
	}
	if !result.IsValid {
		appErr := errors.ErrBusinessRule("composition no longer passes validation")
		for _, v := range result.Violations {
			appErr = appErr.WithSuggestions(v.Message)
		}
		return nil, appErr
	}

	var target *domain.UCP
	err = s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		var err error
		target, err = s.ucps.GetByID(ctx, cmd.TargetUCPID)
		if err != nil {
			return err
		}

		targetStatus := target.Status
		entries := make([]*domain.HistoryEntry, 0, len(comp.Products))
		for _, product := range comp.Products {
			item, err := target.AddItem(product.ProductID, product.PackagingTypeID, product.Quantity, cmd.PerformedBy)
			if err != nil {
				return err
			}
			entries = append(entries,
				domain.NewHistoryEntry(target.ID.Hex(), domain.HistoryActionItemAdded,
					fmt.Sprintf("Item %s montado da composicao %s (%.2f)", product.ProductID, comp.Name, product.Quantity), cmd.PerformedBy).
					WithItem(item.ID.Hex()))
		}

		if err := s.ucps.Update(ctx, target, targetStatus); err != nil {
			return err
		}
		if err := s.history.AppendAll(ctx, entries); err != nil {
			return err
		}

		readStatus := comp.Status
		if err := comp.TransitionTo(domain.CompositionStatusExecuted); err != nil {
			return err
		}
		return s.compositions.Update(ctx, comp, readStatus)
	})
	if err != nil {
		return nil, err
	}

	comp.DomainEvents = append(comp.DomainEvents, &domain.CompositionAssembledEvent{
		CompositionID: comp.ID.Hex(),
		TargetUCPID:   cmd.TargetUCPID,
		ProductCount:  len(comp.Products),
		AssembledAt:   time.Now().UTC(),
	})
	s.publishCompositionEvents(ctx, comp)
	s.publishUCPEvents(ctx, target)
	if s.metrics != nil {
		s.metrics.RecordComposition("assembled")
	}

	return ToCompositionDTO(comp), nil
}

// Disassemble unwinds composition quantities from the named UCPs.
// Rejected when the composition is already executed or any requested
// quantity exceeds what the UCP holds.
func (s *CompositionService) Disassemble(ctx context.Context, cmd DisassembleCommand) error {
	comp, err := s.compositions.GetByID(ctx, cmd.CompositionID)
	if err != nil {
		return err
	}
	if comp.IsExecuted() {
		return domain.ErrCompositionExecuted
	}

	touched := make([]*domain.UCP, 0, len(cmd.Targets))
	err = s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		for _, targetSpec := range cmd.Targets {
			ucp, err := s.ucps.GetByID(ctx, targetSpec.UCPID)
			if err != nil {
				return err
			}

			var item *domain.UCPItem
			for i := range ucp.Items {
				candidate := &ucp.Items[i]
				if candidate.IsActive && candidate.ProductID == targetSpec.ProductID {
					item = candidate
					break
				}
			}
			if item == nil {
				return domain.ErrUCPItemNotFound
			}
			if targetSpec.Quantity > item.Quantity {
				return domain.ErrInsufficientQuantity
			}

			readStatus := ucp.Status
			reason := fmt.Sprintf("Desmontagem da composicao %s", comp.Name)
			removed, becameEmpty, err := ucp.ReduceItemQuantity(item.ID.Hex(), targetSpec.Quantity, reason, cmd.PerformedBy)
			if err != nil {
				return err
			}

			if err := s.ucps.Update(ctx, ucp, readStatus); err != nil {
				return err
			}

			entries := []*domain.HistoryEntry{
				domain.NewHistoryEntry(ucp.ID.Hex(), domain.HistoryActionItemRemoved,
					fmt.Sprintf("Item %s desmontado (%.2f)", targetSpec.ProductID, targetSpec.Quantity), cmd.PerformedBy).
					WithItem(removed.ID.Hex()),
			}
			if becameEmpty {
				entries = append(entries,
					domain.NewHistoryEntry(ucp.ID.Hex(), domain.HistoryActionStatusChanged,
						"UCP vazia apos desmontagem", cmd.PerformedBy).
						WithValues(string(domain.UCPStatusActive), string(domain.UCPStatusEmpty)))
			}
			if err := s.history.AppendAll(ctx, entries); err != nil {
				return err
			}

			touched = append(touched, ucp)
		}
		return nil
	})
	if err != nil {
		return err
	}

	for _, ucp := range touched {
		s.publishUCPEvents(ctx, ucp)
	}
	if s.publisher != nil {
		event := &domain.CompositionDisassembledEvent{
			CompositionID:  comp.ID.Hex(),
			ItemCount:      len(cmd.Targets),
			DisassembledAt: time.Now().UTC(),
		}
		if err := s.publisher.PublishCompositionEvent(ctx, event, comp.ID.Hex()); err != nil {
			s.logger.WithError(err).Warn("Failed to publish composition event", "eventType", event.EventType())
		}
	}
	if s.metrics != nil {
		s.metrics.RecordComposition("disassembled")
	}

	return nil
}

func (s *CompositionService) resolvePallet(ctx context.Context, palletID string) (*domain.Pallet, error) {
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

func (s *CompositionService) publishCompositionEvents(ctx context.Context, comp *domain.Composition) {
	if s.publisher == nil || comp == nil {
		return
	}
	for _, event := range comp.GetDomainEvents() {
		if err := s.publisher.PublishCompositionEvent(ctx, event, comp.ID.Hex()); err != nil {
			s.logger.WithError(err).Warn("Failed to publish composition event", "eventType", event.EventType())
		}
	}
	comp.ClearDomainEvents()
}

func (s *CompositionService) publishUCPEvents(ctx context.Context, ucp *domain.UCP) {
	if s.publisher == nil || ucp == nil {
		return
	}
	for _, event := range ucp.GetDomainEvents() {
		if err := s.publisher.PublishUCPEvent(ctx, event, ucp.Code); err != nil {
			s.logger.WithError(err).Warn("Failed to publish UCP event", "eventType", event.EventType())
		}
	}
	ucp.ClearDomainEvents()
}
