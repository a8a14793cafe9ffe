package application

import (
	"context"
	"fmt"

	"github.com/Joaovenera/wms-sub000/internal/domain"
	"github.com/Joaovenera/wms-sub000/pkg/logging"
)

func testLogger() *logging.Logger {
	cfg := logging.DefaultConfig("test")
	cfg.Level = logging.LevelError
	return logging.New(cfg)
}

// mockUCPRepo keeps UCPs in memory and honors the status guard
type mockUCPRepo struct {
	ucps      map[string]*domain.UCP
	createErr error
	updateErr error
}

func newMockUCPRepo() *mockUCPRepo {
	return &mockUCPRepo{ucps: make(map[string]*domain.UCP)}
}

func (m *mockUCPRepo) Create(_ context.Context, ucp *domain.UCP) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.ucps[ucp.ID.Hex()] = ucp
	return nil
}

func (m *mockUCPRepo) GetByID(_ context.Context, id string) (*domain.UCP, error) {
	if ucp, ok := m.ucps[id]; ok {
		return ucp, nil
	}
	return nil, domain.ErrUCPNotFound
}

func (m *mockUCPRepo) GetByCode(_ context.Context, code string) (*domain.UCP, error) {
	for _, ucp := range m.ucps {
		if ucp.Code == code {
			return ucp, nil
		}
	}
	return nil, domain.ErrUCPNotFound
}

func (m *mockUCPRepo) Update(_ context.Context, ucp *domain.UCP, _ domain.UCPStatus) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	m.ucps[ucp.ID.Hex()] = ucp
	return nil
}

func (m *mockUCPRepo) List(_ context.Context, status domain.UCPStatus, _ domain.Pagination) ([]*domain.UCP, int64, error) {
	var out []*domain.UCP
	for _, ucp := range m.ucps {
		if status == "" || ucp.Status == status {
			out = append(out, ucp)
		}
	}
	return out, int64(len(out)), nil
}

func (m *mockUCPRepo) GetByPositionID(_ context.Context, positionID string) (*domain.UCP, error) {
	for _, ucp := range m.ucps {
		if ucp.PositionID == positionID && ucp.Status != domain.UCPStatusArchived {
			return ucp, nil
		}
	}
	return nil, domain.ErrUCPNotFound
}

func (m *mockUCPRepo) GetByItemID(_ context.Context, itemID string) (*domain.UCP, error) {
	for _, ucp := range m.ucps {
		if ucp.FindItem(itemID) != nil {
			return ucp, nil
		}
	}
	return nil, domain.ErrUCPItemNotFound
}

// mockPalletRepo enforces the expected-status guard like the real one
type mockPalletRepo struct {
	pallets map[string]*domain.Pallet
}

func newMockPalletRepo(pallets ...*domain.Pallet) *mockPalletRepo {
	m := &mockPalletRepo{pallets: make(map[string]*domain.Pallet)}
	for _, p := range pallets {
		m.pallets[p.ID.Hex()] = p
	}
	return m
}

func (m *mockPalletRepo) Create(_ context.Context, pallet *domain.Pallet) error {
	m.pallets[pallet.ID.Hex()] = pallet
	return nil
}

func (m *mockPalletRepo) GetByID(_ context.Context, id string) (*domain.Pallet, error) {
	if p, ok := m.pallets[id]; ok {
		return p, nil
	}
	return nil, domain.ErrPalletNotFound
}

func (m *mockPalletRepo) GetByCode(_ context.Context, code string) (*domain.Pallet, error) {
	for _, p := range m.pallets {
		if p.Code == code {
			return p, nil
		}
	}
	return nil, domain.ErrPalletNotFound
}

func (m *mockPalletRepo) UpdateStatus(_ context.Context, id string, expected, target domain.PalletStatus) error {
	p, ok := m.pallets[id]
	if !ok {
		return domain.ErrPalletNotFound
	}
	if p.Status != expected {
		return domain.ErrPalletUnavailable
	}
	p.Status = target
	return nil
}

func (m *mockPalletRepo) FindAvailable(_ context.Context) (*domain.Pallet, error) {
	for _, p := range m.pallets {
		if p.IsAvailable() {
			return p, nil
		}
	}
	return nil, nil
}

func (m *mockPalletRepo) List(_ context.Context, status domain.PalletStatus, _ domain.Pagination) ([]*domain.Pallet, int64, error) {
	var out []*domain.Pallet
	for _, p := range m.pallets {
		if status == "" || p.Status == status {
			out = append(out, p)
		}
	}
	return out, int64(len(out)), nil
}

// mockPositionRepo enforces the expected-status guard
type mockPositionRepo struct {
	positions map[string]*domain.Position
}

func newMockPositionRepo(positions ...*domain.Position) *mockPositionRepo {
	m := &mockPositionRepo{positions: make(map[string]*domain.Position)}
	for _, p := range positions {
		m.positions[p.ID.Hex()] = p
	}
	return m
}

func (m *mockPositionRepo) Create(_ context.Context, position *domain.Position) error {
	m.positions[position.ID.Hex()] = position
	return nil
}

func (m *mockPositionRepo) GetByID(_ context.Context, id string) (*domain.Position, error) {
	if p, ok := m.positions[id]; ok {
		return p, nil
	}
	return nil, domain.ErrPositionNotFound
}

func (m *mockPositionRepo) GetByCode(_ context.Context, code string) (*domain.Position, error) {
	for _, p := range m.positions {
		if p.Code == code {
			return p, nil
		}
	}
	return nil, domain.ErrPositionNotFound
}

func (m *mockPositionRepo) UpdateStatus(_ context.Context, id string, expected, target domain.PositionStatus) error {
	p, ok := m.positions[id]
	if !ok {
		return domain.ErrPositionNotFound
	}
	if p.Status != expected {
		return domain.ErrPositionUnavailable
	}
	p.Status = target
	return nil
}

func (m *mockPositionRepo) List(_ context.Context, status domain.PositionStatus, _ domain.Pagination) ([]*domain.Position, int64, error) {
	var out []*domain.Position
	for _, p := range m.positions {
		if status == "" || p.Status == status {
			out = append(out, p)
		}
	}
	return out, int64(len(out)), nil
}

// mockHistoryRepo records appended entries in order
type mockHistoryRepo struct {
	entries []*domain.HistoryEntry
}

func (m *mockHistoryRepo) Append(_ context.Context, entry *domain.HistoryEntry) error {
	m.entries = append(m.entries, entry)
	return nil
}

func (m *mockHistoryRepo) AppendAll(_ context.Context, entries []*domain.HistoryEntry) error {
	m.entries = append(m.entries, entries...)
	return nil
}

func (m *mockHistoryRepo) ListByUCP(_ context.Context, ucpID string, _ domain.Pagination) ([]*domain.HistoryEntry, int64, error) {
	var out []*domain.HistoryEntry
	for _, e := range m.entries {
		if e.UCPID == ucpID {
			out = append(out, e)
		}
	}
	return out, int64(len(out)), nil
}

func (m *mockHistoryRepo) byAction(action domain.HistoryAction) []*domain.HistoryEntry {
	var out []*domain.HistoryEntry
	for _, e := range m.entries {
		if e.Action == action {
			out = append(out, e)
		}
	}
	return out
}

// mockCompositionRepo keeps compositions in memory
type mockCompositionRepo struct {
	comps map[string]*domain.Composition
}

func newMockCompositionRepo() *mockCompositionRepo {
	return &mockCompositionRepo{comps: make(map[string]*domain.Composition)}
}

func (m *mockCompositionRepo) Create(_ context.Context, comp *domain.Composition) error {
	m.comps[comp.ID.Hex()] = comp
	return nil
}

func (m *mockCompositionRepo) GetByID(_ context.Context, id string) (*domain.Composition, error) {
	if c, ok := m.comps[id]; ok {
		return c, nil
	}
	return nil, domain.ErrCompositionNotFound
}

func (m *mockCompositionRepo) Update(_ context.Context, comp *domain.Composition, _ domain.CompositionStatus) error {
	m.comps[comp.ID.Hex()] = comp
	return nil
}

func (m *mockCompositionRepo) List(_ context.Context, status domain.CompositionStatus, _ domain.Pagination) ([]*domain.Composition, int64, error) {
	var out []*domain.Composition
	for _, c := range m.comps {
		if status == "" || c.Status == status {
			out = append(out, c)
		}
	}
	return out, int64(len(out)), nil
}

func (m *mockCompositionRepo) Delete(_ context.Context, id string) error {
	delete(m.comps, id)
	return nil
}

// mockProductRepo resolves catalog records
type mockProductRepo struct {
	products map[string]*domain.Product
}

func (m *mockProductRepo) GetByID(_ context.Context, id string) (*domain.Product, error) {
	if p, ok := m.products[id]; ok {
		return p, nil
	}
	return nil, domain.ErrProductNotFound
}

func (m *mockProductRepo) GetByIDs(_ context.Context, ids []string) (map[string]*domain.Product, error) {
	out := make(map[string]*domain.Product, len(ids))
	for _, id := range ids {
		if p, ok := m.products[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

// mockCodeGenerator issues sequential test codes
type mockCodeGenerator struct {
	next int
}

func (m *mockCodeGenerator) NextCode(_ context.Context) (string, error) {
	m.next++
	return fmt.Sprintf("UCP-20260831-%04d", m.next), nil
}

// passthroughTx runs the callback without a real transaction
type passthroughTx struct{}

func (passthroughTx) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// recordingPublisher captures published events
type recordingPublisher struct {
	ucpEvents         []domain.DomainEvent
	compositionEvents []domain.DomainEvent
}

func (p *recordingPublisher) PublishUCPEvent(_ context.Context, event domain.DomainEvent, _ string) error {
	p.ucpEvents = append(p.ucpEvents, event)
	return nil
}

func (p *recordingPublisher) PublishCompositionEvent(_ context.Context, event domain.DomainEvent, _ string) error {
	p.compositionEvents = append(p.compositionEvents, event)
	return nil
}
