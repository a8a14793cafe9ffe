package mongodb

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/Joaovenera/wms-sub000/internal/domain"
	pkgmongo "github.com/Joaovenera/wms-sub000/pkg/mongodb"
)

type RepositoryIntegrationTestSuite struct {
	suite.Suite
	mongoContainer *mongodb.MongoDBContainer
	client         *pkgmongo.Client
	db             *mongo.Database
	ucps           *UCPRepository
	pallets        *PalletRepository
	positions      *PositionRepository
	history        *HistoryRepository
	compositions   *CompositionRepository
	products       *ProductRepository
	codes          *CodeGenerator
	ctx            context.Context
}

func (s *RepositoryIntegrationTestSuite) SetupSuite() {
	s.ctx = context.Background()

	// single-node replica set so transactional updates work
	container, err := mongodb.Run(s.ctx, "mongo:6",
		mongodb.WithReplicaSet("rs"),
	)
	s.Require().NoError(err)
	s.mongoContainer = container

	connStr, err := container.ConnectionString(s.ctx)
	s.Require().NoError(err)

	client, err := pkgmongo.NewClient(s.ctx, &pkgmongo.Config{
		URI:            connStr,
		Database:       "composition_test",
		ConnectTimeout: 10 * time.Second,
		MaxPoolSize:    10,
		Direct:         true,
	})
	s.Require().NoError(err)
	s.client = client
	s.db = client.Database()

	instrumented := pkgmongo.NewInstrumentedClient(client, nil, nil)
	s.ucps = NewUCPRepository(instrumented)
	s.pallets = NewPalletRepository(instrumented)
	s.positions = NewPositionRepository(instrumented)
	s.history = NewHistoryRepository(instrumented)
	s.compositions = NewCompositionRepository(instrumented)
	s.products = NewProductRepository(instrumented)
	s.codes = NewCodeGenerator(instrumented)
}

func (s *RepositoryIntegrationTestSuite) TearDownSuite() {
	if s.client != nil {
		s.client.Close(s.ctx)
	}
	if s.mongoContainer != nil {
		s.Require().NoError(s.mongoContainer.Terminate(s.ctx))
	}
}

func (s *RepositoryIntegrationTestSuite) TearDownTest() {
	for _, name := range []string{"ucps", "pallets", "positions", "ucp_history", "compositions", "products", "counters"} {
		s.db.Collection(name).Drop(s.ctx)
	}
}

func TestRepositoryIntegrationTestSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}
	suite.Run(t, new(RepositoryIntegrationTestSuite))
}

func (s *RepositoryIntegrationTestSuite) TestUCPRepository_CreateAndLoad() {
	ucp := domain.NewUCP("UCP-20260831-0001", "pallet-1", "op-1")
	_, err := ucp.AddItem("prod-1", "", 5, "op-1")
	s.Require().NoError(err)

	s.Require().NoError(s.ucps.Create(s.ctx, ucp))

	byID, err := s.ucps.GetByID(s.ctx, ucp.ID.Hex())
	s.Require().NoError(err)
	s.Equal("UCP-20260831-0001", byID.Code)
	s.Require().Len(byID.Items, 1)

	byCode, err := s.ucps.GetByCode(s.ctx, "UCP-20260831-0001")
	s.Require().NoError(err)
	s.Equal(ucp.ID, byCode.ID)

	byItem, err := s.ucps.GetByItemID(s.ctx, byID.Items[0].ID.Hex())
	s.Require().NoError(err)
	s.Equal(ucp.ID, byItem.ID)
}

func (s *RepositoryIntegrationTestSuite) TestUCPRepository_NotFound() {
	_, err := s.ucps.GetByID(s.ctx, "64a000000000000000000000")
	s.ErrorIs(err, domain.ErrUCPNotFound)

	_, err = s.ucps.GetByID(s.ctx, "not-an-object-id")
	s.ErrorIs(err, domain.ErrUCPNotFound)
}

func (s *RepositoryIntegrationTestSuite) TestUCPRepository_UpdateGuard() {
	ucp := domain.NewUCP("UCP-20260831-0002", "pallet-1", "op-1")
	s.Require().NoError(s.ucps.Create(s.ctx, ucp))

	// matching guard succeeds
	_, err := ucp.AddItem("prod-1", "", 3, "op-1")
	s.Require().NoError(err)
	s.Require().NoError(s.ucps.Update(s.ctx, ucp, domain.UCPStatusActive))

	// stale guard is rejected without touching the document
	err = s.ucps.Update(s.ctx, ucp, domain.UCPStatusEmpty)
	s.ErrorIs(err, domain.ErrInvalidStatusTransition)

	current, err := s.ucps.GetByID(s.ctx, ucp.ID.Hex())
	s.Require().NoError(err)
	s.Equal(domain.UCPStatusActive, current.Status)
}

func (s *RepositoryIntegrationTestSuite) TestUCPRepository_GetByPositionIgnoresArchived() {
	archived := domain.NewUCP("UCP-20260831-0003", "pallet-1", "op-1")
	archived.PositionID = "pos-1"
	s.Require().NoError(archived.Dismantle("", "op-1"))
	archived.PositionID = "pos-1"
	s.Require().NoError(s.ucps.Create(s.ctx, archived))

	active := domain.NewUCP("UCP-20260831-0004", "pallet-2", "op-1")
	active.PositionID = "pos-1"
	s.Require().NoError(s.ucps.Create(s.ctx, active))

	found, err := s.ucps.GetByPositionID(s.ctx, "pos-1")
	s.Require().NoError(err)
	s.Equal(active.ID, found.ID)
}

func (s *RepositoryIntegrationTestSuite) TestPalletRepository_StatusGuard() {
	pallet := domain.NewPallet("PLT-001", "euro", 120, 100, 1000, 200)
	s.Require().NoError(s.pallets.Create(s.ctx, pallet))

	err := s.pallets.UpdateStatus(s.ctx, pallet.ID.Hex(), domain.PalletStatusAvailable, domain.PalletStatusInUse)
	s.Require().NoError(err)

	// second claim loses on the guard
	err = s.pallets.UpdateStatus(s.ctx, pallet.ID.Hex(), domain.PalletStatusAvailable, domain.PalletStatusInUse)
	s.ErrorIs(err, domain.ErrPalletUnavailable)
}

func (s *RepositoryIntegrationTestSuite) TestPalletRepository_FindAvailable() {
	none, err := s.pallets.FindAvailable(s.ctx)
	s.Require().NoError(err)
	s.Nil(none)

	busy := domain.NewPallet("PLT-010", "euro", 120, 100, 1000, 200)
	busy.Status = domain.PalletStatusInUse
	s.Require().NoError(s.pallets.Create(s.ctx, busy))

	free := domain.NewPallet("PLT-011", "euro", 120, 100, 1000, 200)
	s.Require().NoError(s.pallets.Create(s.ctx, free))

	found, err := s.pallets.FindAvailable(s.ctx)
	s.Require().NoError(err)
	s.Require().NotNil(found)
	s.Equal("PLT-011", found.Code)
}

func (s *RepositoryIntegrationTestSuite) TestPositionRepository_StatusGuard() {
	position := domain.NewPosition("A-01-E-1", "A-01", "E", 1)
	s.Require().NoError(s.positions.Create(s.ctx, position))

	err := s.positions.UpdateStatus(s.ctx, position.ID.Hex(), domain.PositionStatusAvailable, domain.PositionStatusOccupied)
	s.Require().NoError(err)

	err = s.positions.UpdateStatus(s.ctx, position.ID.Hex(), domain.PositionStatusAvailable, domain.PositionStatusOccupied)
	s.ErrorIs(err, domain.ErrPositionUnavailable)
}

func (s *RepositoryIntegrationTestSuite) TestHistoryRepository_AppendOnlyTrail() {
	entries := []*domain.HistoryEntry{
		domain.NewHistoryEntry("ucp-1", domain.HistoryActionCreated, "UCP criada", "op-1"),
		domain.NewHistoryEntry("ucp-1", domain.HistoryActionItemAdded, "Item adicionado", "op-1"),
		domain.NewHistoryEntry("ucp-2", domain.HistoryActionCreated, "UCP criada", "op-2"),
	}
	s.Require().NoError(s.history.AppendAll(s.ctx, entries))

	trail, total, err := s.history.ListByUCP(s.ctx, "ucp-1", domain.Pagination{Page: 1, Limit: 10})
	s.Require().NoError(err)
	s.Equal(int64(2), total)
	s.Len(trail, 2)

	// newest first
	s.False(trail[0].Timestamp.Before(trail[1].Timestamp))

	s.NoError(s.history.AppendAll(s.ctx, nil))
}

func (s *RepositoryIntegrationTestSuite) TestCompositionRepository_Lifecycle() {
	comp := domain.NewComposition("carga mista",
		[]domain.CompositionProduct{{ProductID: "prod-1", Quantity: 10}},
		"", domain.CompositionConstraints{MaxWeight: 500}, nil, "planner-1")
	s.Require().NoError(s.compositions.Create(s.ctx, comp))

	loaded, err := s.compositions.GetByID(s.ctx, comp.ID.Hex())
	s.Require().NoError(err)
	s.Equal(domain.CompositionStatusDraft, loaded.Status)
	s.Equal(500.0, loaded.Constraints.MaxWeight)

	s.Require().NoError(loaded.TransitionTo(domain.CompositionStatusValidated))
	s.Require().NoError(s.compositions.Update(s.ctx, loaded, domain.CompositionStatusDraft))

	// stale guard
	err = s.compositions.Update(s.ctx, loaded, domain.CompositionStatusDraft)
	s.ErrorIs(err, domain.ErrInvalidStatusTransition)

	listed, total, err := s.compositions.List(s.ctx, domain.CompositionStatusValidated, domain.Pagination{Page: 1, Limit: 10})
	s.Require().NoError(err)
	s.Equal(int64(1), total)
	s.Len(listed, 1)

	s.Require().NoError(s.compositions.Delete(s.ctx, comp.ID.Hex()))
	_, err = s.compositions.GetByID(s.ctx, comp.ID.Hex())
	s.ErrorIs(err, domain.ErrCompositionNotFound)

	s.ErrorIs(s.compositions.Delete(s.ctx, comp.ID.Hex()), domain.ErrCompositionNotFound)
}

func (s *RepositoryIntegrationTestSuite) TestProductRepository_ResolveByIDOrSKU() {
	product := &domain.Product{SKU: "SKU-100", Name: "Caixa 10", Weight: 2, Width: 10, Length: 10, Height: 10}
	_, err := s.db.Collection("products").InsertOne(s.ctx, product)
	s.Require().NoError(err)

	bySKU, err := s.products.GetByID(s.ctx, "SKU-100")
	s.Require().NoError(err)
	s.Equal("Caixa 10", bySKU.Name)

	byID, err := s.products.GetByID(s.ctx, bySKU.ID.Hex())
	s.Require().NoError(err)
	s.Equal("SKU-100", byID.SKU)

	resolved, err := s.products.GetByIDs(s.ctx, []string{"SKU-100", bySKU.ID.Hex(), "SKU-MISSING"})
	s.Require().NoError(err)
	s.Len(resolved, 2)
	s.Contains(resolved, "SKU-100")
	s.Contains(resolved, bySKU.ID.Hex())
	s.NotContains(resolved, "SKU-MISSING")

	_, err = s.products.GetByID(s.ctx, "SKU-MISSING")
	s.ErrorIs(err, domain.ErrProductNotFound)
}

func (s *RepositoryIntegrationTestSuite) TestCodeGenerator_SequencePerDay() {
	first, err := s.codes.NextCode(s.ctx)
	s.Require().NoError(err)
	second, err := s.codes.NextCode(s.ctx)
	s.Require().NoError(err)

	s.Regexp(`^UCP-\d{8}-0001$`, first)
	s.Regexp(`^UCP-\d{8}-0002$`, second)
}

func (s *RepositoryIntegrationTestSuite) TestCodeGenerator_Concurrent() {
	const n = 10
	codes := make(chan string, n)
	errs := make(chan error, n)

	// seed the counter document so concurrent upserts do not race on creation
	_, err := s.codes.NextCode(s.ctx)
	s.Require().NoError(err)

	for i := 0; i < n; i++ {
		go func() {
			code, err := s.codes.NextCode(context.Background())
			if err != nil {
				errs <- err
				return
			}
			codes <- code
		}()
	}

	seen := make(map[string]bool, n)
	for i := 0; i < n; i++ {
		select {
		case err := <-errs:
			s.FailNow(fmt.Sprintf("code generation failed: %v", err))
		case code := <-codes:
			s.False(seen[code], "duplicate code %s", code)
			seen[code] = true
		}
	}
	s.Len(seen, n)
}
