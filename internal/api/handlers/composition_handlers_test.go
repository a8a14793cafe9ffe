package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Joaovenera/wms-sub000/internal/application"
	"github.com/Joaovenera/wms-sub000/internal/domain"
	"github.com/Joaovenera/wms-sub000/internal/validation"
	"github.com/Joaovenera/wms-sub000/pkg/logging"
	"github.com/Joaovenera/wms-sub000/pkg/middleware"
)

// stubProductRepo resolves catalog records from a fixed map
type stubProductRepo struct {
	products map[string]*domain.Product
}

func (s *stubProductRepo) GetByID(_ context.Context, id string) (*domain.Product, error) {
	if p, ok := s.products[id]; ok {
		return p, nil
	}
	return nil, domain.ErrProductNotFound
}

func (s *stubProductRepo) GetByIDs(_ context.Context, ids []string) (map[string]*domain.Product, error) {
	out := make(map[string]*domain.Product, len(ids))
	for _, id := range ids {
		if p, ok := s.products[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

// stubPalletRepo serves pallets from a fixed map
type stubPalletRepo struct {
	pallets map[string]*domain.Pallet
}

func (s *stubPalletRepo) Create(_ context.Context, pallet *domain.Pallet) error {
	s.pallets[pallet.ID.Hex()] = pallet
	return nil
}

func (s *stubPalletRepo) GetByID(_ context.Context, id string) (*domain.Pallet, error) {
	if p, ok := s.pallets[id]; ok {
		return p, nil
	}
	return nil, domain.ErrPalletNotFound
}

func (s *stubPalletRepo) GetByCode(_ context.Context, code string) (*domain.Pallet, error) {
	for _, p := range s.pallets {
		if p.Code == code {
			return p, nil
		}
	}
	return nil, domain.ErrPalletNotFound
}

func (s *stubPalletRepo) UpdateStatus(_ context.Context, id string, expected, target domain.PalletStatus) error {
	p, ok := s.pallets[id]
	if !ok || p.Status != expected {
		return domain.ErrPalletUnavailable
	}
	p.Status = target
	return nil
}

func (s *stubPalletRepo) FindAvailable(_ context.Context) (*domain.Pallet, error) {
	for _, p := range s.pallets {
		if p.Status == domain.PalletStatusAvailable {
			return p, nil
		}
	}
	return nil, nil
}

func (s *stubPalletRepo) List(_ context.Context, status domain.PalletStatus, _ domain.Pagination) ([]*domain.Pallet, int64, error) {
	var out []*domain.Pallet
	for _, p := range s.pallets {
		if status == "" || p.Status == status {
			out = append(out, p)
		}
	}
	return out, int64(len(out)), nil
}

// stubCompositionRepo keeps compositions in memory
type stubCompositionRepo struct {
	comps map[string]*domain.Composition
}

func (s *stubCompositionRepo) Create(_ context.Context, comp *domain.Composition) error {
	s.comps[comp.ID.Hex()] = comp
	return nil
}

func (s *stubCompositionRepo) GetByID(_ context.Context, id string) (*domain.Composition, error) {
	if c, ok := s.comps[id]; ok {
		return c, nil
	}
	return nil, domain.ErrCompositionNotFound
}

func (s *stubCompositionRepo) Update(_ context.Context, comp *domain.Composition, _ domain.CompositionStatus) error {
	s.comps[comp.ID.Hex()] = comp
	return nil
}

func (s *stubCompositionRepo) List(_ context.Context, status domain.CompositionStatus, _ domain.Pagination) ([]*domain.Composition, int64, error) {
	var out []*domain.Composition
	for _, c := range s.comps {
		if status == "" || c.Status == status {
			out = append(out, c)
		}
	}
	return out, int64(len(out)), nil
}

func (s *stubCompositionRepo) Delete(_ context.Context, id string) error {
	if _, ok := s.comps[id]; !ok {
		return domain.ErrCompositionNotFound
	}
	delete(s.comps, id)
	return nil
}

type compositionRouterFixture struct {
	router       *gin.Engine
	compositions *stubCompositionRepo
	pallet       *domain.Pallet
}

func newCompositionRouter() *compositionRouterFixture {
	gin.SetMode(gin.TestMode)
	middleware.InitValidator()

	cfg := logging.DefaultConfig("handlers-test")
	cfg.Level = logging.LevelError
	logger := logging.New(cfg)

	pallet := domain.NewPallet("PLT-EU-001", "euro", 120, 100, 1000, 200)
	pallets := &stubPalletRepo{pallets: map[string]*domain.Pallet{pallet.ID.Hex(): pallet}}
	products := &stubProductRepo{products: map[string]*domain.Product{
		"prod-light": {SKU: "prod-light", Weight: 2, Width: 10, Length: 10, Height: 10},
		"prod-heavy": {SKU: "prod-heavy", Weight: 120, Width: 10, Length: 10, Height: 10},
	}}
	compositions := &stubCompositionRepo{comps: make(map[string]*domain.Composition)}

	orchestrator := validation.NewOrchestrator(products, pallets, nil, logger)
	service := application.NewCompositionService(
		orchestrator, compositions, nil, pallets, products, nil, nil, nil, logger, nil,
	)

	router := gin.New()
	v1 := router.Group("/api/v1")
	NewCompositionHandlers(service, nil, logger, nil).RegisterRoutes(v1)

	return &compositionRouterFixture{router: router, compositions: compositions, pallet: pallet}
}

func (f *compositionRouterFixture) perform(method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func (f *compositionRouterFixture) seedDraft() *domain.Composition {
	comp := domain.NewComposition(
		"carga teste",
		[]domain.CompositionProduct{{ProductID: "prod-light", Quantity: 5}},
		f.pallet.ID.Hex(),
		domain.CompositionConstraints{},
		nil,
		"planner-1",
	)
	f.compositions.comps[comp.ID.Hex()] = comp
	return comp
}

// TestValidateEndpoint tests the HTTP contract of /composition/validate
func TestValidateEndpoint(t *testing.T) {
	f := newCompositionRouter()

	t.Run("Blocking violation responds 400 with the report", func(t *testing.T) {
		// 10 x 120kg on a 1000kg pallet
		rec := f.perform(http.MethodPost, "/api/v1/composition/validate", gin.H{
			"products": []gin.H{{"productId": "prod-heavy", "quantity": 10}},
			"palletId": f.pallet.ID.Hex(),
		})
		require.Equal(t, http.StatusBadRequest, rec.Code)

		var result validation.Result
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
		assert.False(t, result.IsValid)

		codes := make([]string, 0, len(result.Violations))
		for _, v := range result.Violations {
			codes = append(codes, v.Code)
		}
		assert.Contains(t, codes, validation.CodeWeightExceeded)
	})

	t.Run("Valid request responds 200", func(t *testing.T) {
		rec := f.perform(http.MethodPost, "/api/v1/composition/validate", gin.H{
			"products": []gin.H{{"productId": "prod-light", "quantity": 10}},
			"palletId": f.pallet.ID.Hex(),
		})
		require.Equal(t, http.StatusOK, rec.Code)

		var result validation.Result
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
		assert.True(t, result.IsValid)
	})
}

// TestRealTimeEndpoint tests the live feedback route
func TestRealTimeEndpoint(t *testing.T) {
	f := newCompositionRouter()

	t.Run("Defaults to quick mode", func(t *testing.T) {
		rec := f.perform(http.MethodPost, "/api/v1/composition/real-time", gin.H{
			"products": []gin.H{{"productId": "prod-light", "quantity": 10}},
			"palletId": f.pallet.ID.Hex(),
		})
		require.Equal(t, http.StatusOK, rec.Code)

		var result validation.Result
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
		assert.Equal(t, validation.ModeQuick, result.Metrics.Mode)
	})

	t.Run("Honors the requested mode", func(t *testing.T) {
		rec := f.perform(http.MethodPost, "/api/v1/composition/real-time", gin.H{
			"products": []gin.H{{"productId": "prod-light", "quantity": 10}},
			"palletId": f.pallet.ID.Hex(),
			"mode":     "full",
		})
		require.Equal(t, http.StatusOK, rec.Code)

		var result validation.Result
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
		assert.Equal(t, validation.ModeFull, result.Metrics.Mode)
	})
}

// TestCalculateEndpoint tests the calculate response envelope
func TestCalculateEndpoint(t *testing.T) {
	f := newCompositionRouter()

	rec := f.perform(http.MethodPost, "/api/v1/composition/calculate", gin.H{
		"products":  []gin.H{{"productId": "prod-light", "quantity": 10}},
		"palletId":  f.pallet.ID.Hex(),
		"algorithm": "enhanced",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var dto application.CalculationDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &dto))
	assert.True(t, dto.Success)
	assert.Equal(t, "enhanced", dto.Data.Layout.Algorithm)
	assert.NotEmpty(t, dto.Data.Layout.Placements)
	assert.Equal(t, "enhanced", dto.Metadata.Algorithm)
	assert.False(t, dto.Metadata.Timestamp.IsZero())
}

// TestStatusTransitionRoutes tests both method shapes of the status route
func TestStatusTransitionRoutes(t *testing.T) {
	f := newCompositionRouter()

	t.Run("PATCH transitions the workflow", func(t *testing.T) {
		comp := f.seedDraft()
		rec := f.perform(http.MethodPatch, "/api/v1/composition/"+comp.ID.Hex()+"/status", gin.H{
			"status": "validated",
		})
		require.Equal(t, http.StatusOK, rec.Code)

		var dto application.CompositionDTO
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &dto))
		assert.Equal(t, "validated", dto.Status)
	})

	t.Run("PUT is accepted as an alias", func(t *testing.T) {
		comp := f.seedDraft()
		rec := f.perform(http.MethodPut, "/api/v1/composition/"+comp.ID.Hex()+"/status", gin.H{
			"status": "validated",
		})
		require.Equal(t, http.StatusOK, rec.Code)
	})
}

// TestAssembleRoutes tests composition resolution from path and body
func TestAssembleRoutes(t *testing.T) {
	f := newCompositionRouter()

	t.Run("Body compositionId reaches the workflow", func(t *testing.T) {
		comp := f.seedDraft()
		rec := f.perform(http.MethodPost, "/api/v1/composition/assemble", gin.H{
			"compositionId": comp.ID.Hex(),
			"targetUcpId":   "64a000000000000000000001",
		})
		// draft, not approved, so the workflow rejects it
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "BUSINESS_RULE_VIOLATION")
	})

	t.Run("Missing compositionId is a validation error", func(t *testing.T) {
		rec := f.perform(http.MethodPost, "/api/v1/composition/assemble", gin.H{
			"targetUcpId": "64a000000000000000000001",
		})
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "compositionId is required")
	})
}

// TestDeleteCompositionEndpoint tests draft deletion over HTTP
func TestDeleteCompositionEndpoint(t *testing.T) {
	f := newCompositionRouter()

	t.Run("Draft deletes with 204", func(t *testing.T) {
		comp := f.seedDraft()
		rec := f.perform(http.MethodDelete, "/api/v1/composition/"+comp.ID.Hex(), nil)
		require.Equal(t, http.StatusNoContent, rec.Code)

		_, ok := f.compositions.comps[comp.ID.Hex()]
		assert.False(t, ok)
	})

	t.Run("Non-draft is a conflict", func(t *testing.T) {
		comp := f.seedDraft()
		require.NoError(t, comp.TransitionTo(domain.CompositionStatusValidated))

		rec := f.perform(http.MethodDelete, "/api/v1/composition/"+comp.ID.Hex(), nil)
		assert.Equal(t, http.StatusConflict, rec.Code)
	})
}
