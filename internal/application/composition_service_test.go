package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Joaovenera/wms-sub000/internal/domain"
	"github.com/Joaovenera/wms-sub000/internal/validation"
	"github.com/Joaovenera/wms-sub000/pkg/errors"
)

type compositionFixture struct {
	service      *CompositionService
	ucpService   *UCPService
	compositions *mockCompositionRepo
	ucps         *mockUCPRepo
	pallets      *mockPalletRepo
	history      *mockHistoryRepo
	publisher    *recordingPublisher
	pallet       *domain.Pallet
}

func newCompositionFixture() *compositionFixture {
	pallet := domain.NewPallet("PLT-EU-001", "euro", 120, 100, 1000, 200)
	// identical spare so auto-selection keeps validating after the
	// first pallet is bound to a UCP
	spare := domain.NewPallet("PLT-EU-002", "euro", 120, 100, 1000, 200)
	f := &compositionFixture{
		compositions: newMockCompositionRepo(),
		ucps:         newMockUCPRepo(),
		pallets:      newMockPalletRepo(pallet, spare),
		history:      &mockHistoryRepo{},
		publisher:    &recordingPublisher{},
		pallet:       pallet,
	}
	products := &mockProductRepo{products: map[string]*domain.Product{
		"prod-1": {SKU: "prod-1", Weight: 2, Width: 10, Length: 100, Height: 10},
		"prod-2": {SKU: "prod-2", Weight: 60, Width: 50, Length: 50, Height: 80},
	}}
	logger := testLogger()
	orchestrator := validation.NewOrchestrator(products, f.pallets, nil, logger)
	f.service = NewCompositionService(
		orchestrator, f.compositions, f.ucps, f.pallets, products, f.history,
		passthroughTx{}, f.publisher, logger, nil,
	)
	f.ucpService = NewUCPService(
		f.ucps, f.pallets, newMockPositionRepo(), f.history, products,
		&mockCodeGenerator{}, passthroughTx{}, f.publisher, logger, nil,
	)
	return f
}

func validRequest() validation.Request {
	return validation.Request{Products: []validation.ProductLine{
		{ProductID: "prod-1", Quantity: 10},
	}}
}

// TestCompositionValidate tests the pipeline entry point
func TestCompositionValidate(t *testing.T) {
	ctx := context.Background()
	f := newCompositionFixture()

	t.Run("Valid request", func(t *testing.T) {
		request := validRequest()
		result, err := f.service.Validate(ctx, &request, validation.ModeFull)
		require.NoError(t, err)
		assert.True(t, result.IsValid)
	})

	t.Run("Invalid mode falls back to full", func(t *testing.T) {
		request := validRequest()
		result, err := f.service.Validate(ctx, &request, validation.Mode("bogus"))
		require.NoError(t, err)
		assert.Equal(t, validation.ModeFull, result.Metrics.Mode)
	})
}

// TestCompositionCalculate tests layout computation
func TestCompositionCalculate(t *testing.T) {
	ctx := context.Background()
	f := newCompositionFixture()

	request := validRequest()
	dto, err := f.service.Calculate(ctx, &request, "enhanced")
	require.NoError(t, err)

	assert.True(t, dto.Success)
	assert.Equal(t, "enhanced", dto.Data.Layout.Algorithm)
	assert.NotEmpty(t, dto.Data.Layout.Placements)
	require.NotNil(t, dto.Data.Validation)
	assert.True(t, dto.Data.Validation.IsValid)

	assert.Equal(t, "enhanced", dto.Metadata.Algorithm)
	assert.False(t, dto.Metadata.Cached)
	assert.False(t, dto.Metadata.Timestamp.IsZero())
}

// TestCompositionSaveAndStatus tests persistence and the workflow
func TestCompositionSaveAndStatus(t *testing.T) {
	ctx := context.Background()
	f := newCompositionFixture()

	saved, err := f.service.Save(ctx, SaveCompositionCommand{
		Name: "carga mista", Request: validRequest(), CreatedBy: "planner-1",
	})
	require.NoError(t, err)
	assert.Equal(t, "draft", saved.Status)
	assert.NotNil(t, saved.Result)

	t.Run("Workflow transitions in order", func(t *testing.T) {
		for _, status := range []string{"validated", "approved", "executed"} {
			dto, err := f.service.UpdateStatus(ctx, UpdateCompositionStatusCommand{
				CompositionID: saved.ID, Status: status, PerformedBy: "planner-1",
			})
			require.NoError(t, err)
			assert.Equal(t, status, dto.Status)
		}
	})

	t.Run("Executed is terminal", func(t *testing.T) {
		_, err := f.service.UpdateStatus(ctx, UpdateCompositionStatusCommand{
			CompositionID: saved.ID, Status: "draft", PerformedBy: "planner-1",
		})
		assert.ErrorIs(t, err, domain.ErrInvalidStatusTransition)
	})
}

// TestDeleteComposition tests removal of saved compositions
func TestDeleteComposition(t *testing.T) {
	ctx := context.Background()

	t.Run("Draft can be deleted", func(t *testing.T) {
		f := newCompositionFixture()
		saved, err := f.service.Save(ctx, SaveCompositionCommand{
			Name: "rascunho", Request: validRequest(), CreatedBy: "planner-1",
		})
		require.NoError(t, err)

		require.NoError(t, f.service.DeleteComposition(ctx, saved.ID))

		_, err = f.service.GetComposition(ctx, saved.ID)
		assert.ErrorIs(t, err, domain.ErrCompositionNotFound)
	})

	t.Run("Non-draft is a conflict", func(t *testing.T) {
		f := newCompositionFixture()
		saved, err := f.service.Save(ctx, SaveCompositionCommand{
			Name: "carga", Request: validRequest(), CreatedBy: "planner-1",
		})
		require.NoError(t, err)
		_, err = f.service.UpdateStatus(ctx, UpdateCompositionStatusCommand{
			CompositionID: saved.ID, Status: "validated", PerformedBy: "planner-1",
		})
		require.NoError(t, err)

		err = f.service.DeleteComposition(ctx, saved.ID)
		require.Error(t, err)
		appErr, ok := err.(*errors.AppError)
		require.True(t, ok)
		assert.Equal(t, errors.CodeConflict, appErr.Code)
	})

	t.Run("Missing composition is not found", func(t *testing.T) {
		f := newCompositionFixture()
		err := f.service.DeleteComposition(ctx, "64a000000000000000000000")
		assert.ErrorIs(t, err, domain.ErrCompositionNotFound)
	})
}

// TestAssemble tests composition materialization
func TestAssemble(t *testing.T) {
	ctx := context.Background()

	prepare := func(t *testing.T, approve bool) (*compositionFixture, string, string) {
		f := newCompositionFixture()

		saved, err := f.service.Save(ctx, SaveCompositionCommand{
			Name: "carga", Request: validRequest(), CreatedBy: "planner-1",
		})
		require.NoError(t, err)

		if approve {
			for _, status := range []string{"validated", "approved"} {
				_, err := f.service.UpdateStatus(ctx, UpdateCompositionStatusCommand{
					CompositionID: saved.ID, Status: status, PerformedBy: "planner-1",
				})
				require.NoError(t, err)
			}
		}

		ucp, err := f.ucpService.CreateUCP(ctx, CreateUCPCommand{PalletID: f.pallet.ID.Hex(), CreatedBy: "op-1"})
		require.NoError(t, err)
		return f, saved.ID, ucp.ID
	}

	t.Run("Approved composition assembles into the target UCP", func(t *testing.T) {
		f, compID, ucpID := prepare(t, true)

		dto, err := f.service.Assemble(ctx, AssembleCommand{
			CompositionID: compID, TargetUCPID: ucpID, PerformedBy: "op-1",
		})
		require.NoError(t, err)
		assert.Equal(t, "executed", dto.Status)

		target, err := f.ucps.GetByID(ctx, ucpID)
		require.NoError(t, err)
		require.Len(t, target.ActiveItems(), 1)
		assert.Equal(t, 10.0, target.ActiveItems()[0].Quantity)

		assert.NotEmpty(t, f.history.byAction(domain.HistoryActionItemAdded))
	})

	t.Run("Unapproved composition is a business rule violation", func(t *testing.T) {
		f, compID, ucpID := prepare(t, false)

		_, err := f.service.Assemble(ctx, AssembleCommand{
			CompositionID: compID, TargetUCPID: ucpID, PerformedBy: "op-1",
		})
		require.Error(t, err)
		appErr, ok := err.(*errors.AppError)
		require.True(t, ok)
		assert.Equal(t, errors.CodeBusinessRuleViolation, appErr.Code)
	})

	t.Run("Missing composition is not found", func(t *testing.T) {
		f, _, ucpID := prepare(t, true)

		_, err := f.service.Assemble(ctx, AssembleCommand{
			CompositionID: "64a000000000000000000000", TargetUCPID: ucpID, PerformedBy: "op-1",
		})
		assert.ErrorIs(t, err, domain.ErrCompositionNotFound)
	})
}

// TestDisassemble tests unwinding quantities from UCPs
func TestDisassemble(t *testing.T) {
	ctx := context.Background()

	prepare := func(t *testing.T) (*compositionFixture, string, string) {
		f := newCompositionFixture()

		saved, err := f.service.Save(ctx, SaveCompositionCommand{
			Name: "carga", Request: validRequest(), CreatedBy: "planner-1",
		})
		require.NoError(t, err)

		ucp, err := f.ucpService.CreateUCP(ctx, CreateUCPCommand{PalletID: f.pallet.ID.Hex(), CreatedBy: "op-1"})
		require.NoError(t, err)
		_, err = f.ucpService.AddItem(ctx, AddItemCommand{
			UCPID: ucp.ID, ProductID: "prod-1", Quantity: 10, AddedBy: "op-1",
		})
		require.NoError(t, err)
		return f, saved.ID, ucp.ID
	}

	t.Run("Disassemble reduces the UCP quantities", func(t *testing.T) {
		f, compID, ucpID := prepare(t)

		err := f.service.Disassemble(ctx, DisassembleCommand{
			CompositionID: compID,
			Targets:       []DisassembleTarget{{ProductID: "prod-1", Quantity: 4, UCPID: ucpID}},
			PerformedBy:   "op-1",
		})
		require.NoError(t, err)

		ucp, err := f.ucps.GetByID(ctx, ucpID)
		require.NoError(t, err)
		assert.Equal(t, 6.0, ucp.ActiveItems()[0].Quantity)
	})

	t.Run("Over-quantity is rejected", func(t *testing.T) {
		f, compID, ucpID := prepare(t)

		err := f.service.Disassemble(ctx, DisassembleCommand{
			CompositionID: compID,
			Targets:       []DisassembleTarget{{ProductID: "prod-1", Quantity: 99, UCPID: ucpID}},
			PerformedBy:   "op-1",
		})
		assert.ErrorIs(t, err, domain.ErrInsufficientQuantity)
	})

	t.Run("Executed composition cannot be disassembled", func(t *testing.T) {
		f, compID, ucpID := prepare(t)
		for _, status := range []string{"validated", "approved", "executed"} {
			_, err := f.service.UpdateStatus(ctx, UpdateCompositionStatusCommand{
				CompositionID: compID, Status: status, PerformedBy: "planner-1",
			})
			require.NoError(t, err)
		}

		err := f.service.Disassemble(ctx, DisassembleCommand{
			CompositionID: compID,
			Targets:       []DisassembleTarget{{ProductID: "prod-1", Quantity: 1, UCPID: ucpID}},
			PerformedBy:   "op-1",
		})
		assert.ErrorIs(t, err, domain.ErrCompositionExecuted)
	})
}
