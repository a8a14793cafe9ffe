package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Joaovenera/wms-sub000/internal/domain"
)

type ucpServiceFixture struct {
	service   *UCPService
	ucps      *mockUCPRepo
	pallets   *mockPalletRepo
	positions *mockPositionRepo
	history   *mockHistoryRepo
	publisher *recordingPublisher
}

func newUCPServiceFixture(pallets []*domain.Pallet, positions []*domain.Position) *ucpServiceFixture {
	f := &ucpServiceFixture{
		ucps:      newMockUCPRepo(),
		pallets:   newMockPalletRepo(pallets...),
		positions: newMockPositionRepo(positions...),
		history:   &mockHistoryRepo{},
		publisher: &recordingPublisher{},
	}
	products := &mockProductRepo{products: map[string]*domain.Product{
		"prod-1": {SKU: "prod-1", Weight: 2, Width: 10, Length: 10, Height: 10},
		"prod-2": {SKU: "prod-2", Weight: 5, Width: 20, Length: 20, Height: 20},
	}}
	f.service = NewUCPService(
		f.ucps, f.pallets, f.positions, f.history, products,
		&mockCodeGenerator{}, passthroughTx{}, f.publisher, testLogger(), nil,
	)
	return f
}

// TestCreateUCP tests creation with pallet binding
func TestCreateUCP(t *testing.T) {
	ctx := context.Background()

	t.Run("Create binds the pallet and writes a history entry", func(t *testing.T) {
		pallet := domain.NewPallet("PLT-EU-001", "euro", 120, 100, 1000, 200)
		f := newUCPServiceFixture([]*domain.Pallet{pallet}, nil)

		dto, err := f.service.CreateUCP(ctx, CreateUCPCommand{PalletID: pallet.ID.Hex(), CreatedBy: "op-1"})
		require.NoError(t, err)

		assert.Equal(t, "UCP-20260831-0001", dto.Code)
		assert.Equal(t, "active", dto.Status)
		assert.Equal(t, domain.PalletStatusInUse, pallet.Status)

		require.Len(t, f.history.entries, 1)
		assert.Equal(t, domain.HistoryActionCreated, f.history.entries[0].Action)

		require.Len(t, f.publisher.ucpEvents, 1)
		assert.Equal(t, "ucp.created", f.publisher.ucpEvents[0].EventType())
	})

	t.Run("Pallet already in use fails the whole operation", func(t *testing.T) {
		pallet := domain.NewPallet("PLT-EU-001", "euro", 120, 100, 1000, 200)
		require.NoError(t, pallet.MarkInUse())
		f := newUCPServiceFixture([]*domain.Pallet{pallet}, nil)

		_, err := f.service.CreateUCP(ctx, CreateUCPCommand{PalletID: pallet.ID.Hex(), CreatedBy: "op-1"})
		assert.ErrorIs(t, err, domain.ErrPalletUnavailable)
		assert.Empty(t, f.history.entries)
	})

	t.Run("Empty pallet id auto-selects a free pallet", func(t *testing.T) {
		pallet := domain.NewPallet("PLT-EU-002", "euro", 120, 100, 1000, 200)
		f := newUCPServiceFixture([]*domain.Pallet{pallet}, nil)

		dto, err := f.service.CreateUCP(ctx, CreateUCPCommand{CreatedBy: "op-1"})
		require.NoError(t, err)
		assert.Equal(t, pallet.ID.Hex(), dto.PalletID)
	})

	t.Run("Reactivate issues a fresh code against a freed pallet", func(t *testing.T) {
		pallet := domain.NewPallet("PLT-EU-003", "euro", 120, 100, 1000, 200)
		f := newUCPServiceFixture([]*domain.Pallet{pallet}, nil)

		first, err := f.service.CreateUCP(ctx, CreateUCPCommand{PalletID: pallet.ID.Hex(), CreatedBy: "op-1"})
		require.NoError(t, err)
		_, err = f.service.Dismantle(ctx, DismantleUCPCommand{UCPID: first.ID, PerformedBy: "op-1"})
		require.NoError(t, err)

		second, err := f.service.ReactivatePallet(ctx, ReactivatePalletCommand{PalletID: pallet.ID.Hex(), CreatedBy: "op-1"})
		require.NoError(t, err)
		assert.NotEqual(t, first.Code, second.Code)
		assert.Equal(t, domain.PalletStatusInUse, pallet.Status)
	})
}

// TestAddRemoveItem tests item bookkeeping with audit entries
func TestAddRemoveItem(t *testing.T) {
	ctx := context.Background()
	pallet := domain.NewPallet("PLT-EU-001", "euro", 120, 100, 1000, 200)
	f := newUCPServiceFixture([]*domain.Pallet{pallet}, nil)

	created, err := f.service.CreateUCP(ctx, CreateUCPCommand{PalletID: pallet.ID.Hex(), CreatedBy: "op-1"})
	require.NoError(t, err)

	t.Run("Add item writes an item_added entry", func(t *testing.T) {
		dto, err := f.service.AddItem(ctx, AddItemCommand{
			UCPID: created.ID, ProductID: "prod-1", Quantity: 5, AddedBy: "op-1",
		})
		require.NoError(t, err)
		require.Len(t, dto.Items, 1)

		added := f.history.byAction(domain.HistoryActionItemAdded)
		require.Len(t, added, 1)
		assert.Equal(t, dto.Items[0].ID, added[0].ItemID)
	})

	t.Run("Unknown product fails the addition", func(t *testing.T) {
		_, err := f.service.AddItem(ctx, AddItemCommand{
			UCPID: created.ID, ProductID: "ghost", Quantity: 1, AddedBy: "op-1",
		})
		assert.ErrorIs(t, err, domain.ErrProductNotFound)
	})

	t.Run("Removing the last item empties the UCP with a second audit row", func(t *testing.T) {
		ucp, err := f.ucps.GetByID(ctx, created.ID)
		require.NoError(t, err)
		itemID := ucp.ActiveItems()[0].ID.Hex()

		dto, err := f.service.RemoveItem(ctx, RemoveItemCommand{
			UCPID: created.ID, ItemID: itemID, Reason: "expedido", RemovedBy: "op-1",
		})
		require.NoError(t, err)
		assert.Equal(t, "empty", dto.Status)

		removed := f.history.byAction(domain.HistoryActionItemRemoved)
		require.Len(t, removed, 1)
		assert.Equal(t, itemID, removed[0].ItemID)

		statusChanged := f.history.byAction(domain.HistoryActionStatusChanged)
		require.Len(t, statusChanged, 1)
		assert.Equal(t, string(domain.UCPStatusEmpty), statusChanged[0].NewValue)
	})
}

// TestMoveUCP tests position occupancy invariants
func TestMoveUCP(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) (*ucpServiceFixture, string, *domain.Position, *domain.Position) {
		pallet := domain.NewPallet("PLT-EU-001", "euro", 120, 100, 1000, 200)
		posA := domain.NewPosition("PP-01-01-1", "01", "E", 1)
		posB := domain.NewPosition("PP-01-02-1", "01", "E", 2)
		f := newUCPServiceFixture([]*domain.Pallet{pallet}, []*domain.Position{posA, posB})

		created, err := f.service.CreateUCP(ctx, CreateUCPCommand{PalletID: pallet.ID.Hex(), CreatedBy: "op-1"})
		require.NoError(t, err)
		return f, created.ID, posA, posB
	}

	t.Run("First move occupies the target", func(t *testing.T) {
		f, ucpID, posA, _ := setup(t)

		dto, err := f.service.Move(ctx, MoveUCPCommand{UCPID: ucpID, PositionID: posA.ID.Hex(), PerformedBy: "op-1"})
		require.NoError(t, err)
		assert.Equal(t, posA.ID.Hex(), dto.PositionID)
		assert.Equal(t, domain.PositionStatusOccupied, posA.Status)

		moved := f.history.byAction(domain.HistoryActionMoved)
		require.Len(t, moved, 1)
		assert.Empty(t, moved[0].FromPositionID)
		assert.Equal(t, posA.ID.Hex(), moved[0].ToPositionID)
	})

	t.Run("Second move frees the old position atomically", func(t *testing.T) {
		f, ucpID, posA, posB := setup(t)

		_, err := f.service.Move(ctx, MoveUCPCommand{UCPID: ucpID, PositionID: posA.ID.Hex(), PerformedBy: "op-1"})
		require.NoError(t, err)
		_, err = f.service.Move(ctx, MoveUCPCommand{UCPID: ucpID, PositionID: posB.ID.Hex(), PerformedBy: "op-1"})
		require.NoError(t, err)

		// never two positions ocupada for the same UCP
		assert.Equal(t, domain.PositionStatusAvailable, posA.Status)
		assert.Equal(t, domain.PositionStatusOccupied, posB.Status)

		moved := f.history.byAction(domain.HistoryActionMoved)
		require.Len(t, moved, 2)
		assert.Equal(t, posA.ID.Hex(), moved[1].FromPositionID)
		assert.Equal(t, posB.ID.Hex(), moved[1].ToPositionID)
	})

	t.Run("Occupied target is a conflict", func(t *testing.T) {
		f, ucpID, posA, _ := setup(t)
		require.NoError(t, posA.Occupy())

		_, err := f.service.Move(ctx, MoveUCPCommand{UCPID: ucpID, PositionID: posA.ID.Hex(), PerformedBy: "op-1"})
		assert.ErrorIs(t, err, domain.ErrPositionUnavailable)
	})
}

// TestDismantleUCP tests the terminal transition and resource freeing
func TestDismantleUCP(t *testing.T) {
	ctx := context.Background()
	pallet := domain.NewPallet("PLT-EU-001", "euro", 120, 100, 1000, 200)
	position := domain.NewPosition("PP-01-01-1", "01", "E", 1)
	f := newUCPServiceFixture([]*domain.Pallet{pallet}, []*domain.Position{position})

	created, err := f.service.CreateUCP(ctx, CreateUCPCommand{PalletID: pallet.ID.Hex(), CreatedBy: "op-1"})
	require.NoError(t, err)
	_, err = f.service.AddItem(ctx, AddItemCommand{UCPID: created.ID, ProductID: "prod-1", Quantity: 3, AddedBy: "op-1"})
	require.NoError(t, err)
	_, err = f.service.Move(ctx, MoveUCPCommand{UCPID: created.ID, PositionID: position.ID.Hex(), PerformedBy: "op-1"})
	require.NoError(t, err)

	t.Run("Dismantle frees pallet and position", func(t *testing.T) {
		dto, err := f.service.Dismantle(ctx, DismantleUCPCommand{UCPID: created.ID, PerformedBy: "op-1"})
		require.NoError(t, err)

		assert.Equal(t, "archived", dto.Status)
		assert.Equal(t, domain.PalletStatusAvailable, pallet.Status)
		assert.Equal(t, domain.PositionStatusAvailable, position.Status)

		dismantled := f.history.byAction(domain.HistoryActionDismantled)
		require.Len(t, dismantled, 1)
	})

	t.Run("Re-dismantling is an error and never double-frees", func(t *testing.T) {
		// simulate the pallet being claimed again in the meantime
		require.NoError(t, pallet.MarkInUse())

		_, err := f.service.Dismantle(ctx, DismantleUCPCommand{UCPID: created.ID, PerformedBy: "op-1"})
		assert.ErrorIs(t, err, domain.ErrUCPArchived)
		assert.Equal(t, domain.PalletStatusInUse, pallet.Status)
	})
}

// TestTransferItem tests cross-UCP transfers
func TestTransferItem(t *testing.T) {
	ctx := context.Background()
	palletA := domain.NewPallet("PLT-EU-001", "euro", 120, 100, 1000, 200)
	palletB := domain.NewPallet("PLT-EU-002", "euro", 120, 100, 1000, 200)
	f := newUCPServiceFixture([]*domain.Pallet{palletA, palletB}, nil)

	source, err := f.service.CreateUCP(ctx, CreateUCPCommand{PalletID: palletA.ID.Hex(), CreatedBy: "op-1"})
	require.NoError(t, err)
	target, err := f.service.CreateUCP(ctx, CreateUCPCommand{PalletID: palletB.ID.Hex(), CreatedBy: "op-1"})
	require.NoError(t, err)

	added, err := f.service.AddItem(ctx, AddItemCommand{UCPID: source.ID, ProductID: "prod-1", Quantity: 10, AddedBy: "op-1"})
	require.NoError(t, err)
	itemID := added.Items[0].ID

	t.Run("Partial transfer splits the quantity", func(t *testing.T) {
		dto, err := f.service.TransferItem(ctx, TransferItemCommand{
			SourceItemID: itemID, TargetUCPID: target.ID, Quantity: 4, PerformedBy: "op-1",
		})
		require.NoError(t, err)

		require.Len(t, dto.Items, 1)
		assert.Equal(t, 4.0, dto.Items[0].Quantity)

		sourceUCP, err := f.ucps.GetByID(ctx, source.ID)
		require.NoError(t, err)
		assert.Equal(t, 6.0, sourceUCP.ActiveItems()[0].Quantity)

		assert.Len(t, f.history.byAction(domain.HistoryActionItemTransferredOut), 1)
		assert.Len(t, f.history.byAction(domain.HistoryActionItemTransferredIn), 1)
	})

	t.Run("Over-quantity transfer fails", func(t *testing.T) {
		_, err := f.service.TransferItem(ctx, TransferItemCommand{
			SourceItemID: itemID, TargetUCPID: target.ID, Quantity: 100, PerformedBy: "op-1",
		})
		assert.ErrorIs(t, err, domain.ErrInsufficientQuantity)
	})
}
