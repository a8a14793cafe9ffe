package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Joaovenera/wms-sub000/internal/domain"
	pkgmongo "github.com/Joaovenera/wms-sub000/pkg/mongodb"
)

// PositionRepository persists storage positions in the positions collection
type PositionRepository struct {
	collection *pkgmongo.InstrumentedCollection
}

func NewPositionRepository(client *pkgmongo.InstrumentedClient) *PositionRepository {
	repo := &PositionRepository{collection: client.Collection("positions")}
	repo.ensureIndexes(context.Background())
	return repo
}

func (r *PositionRepository) ensureIndexes(ctx context.Context) {
	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "code", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "street", Value: 1}, {Key: "side", Value: 1}, {Key: "level", Value: 1}}},
	}
	r.collection.CreateIndexes(ctx, indexes)
}

func (r *PositionRepository) Create(ctx context.Context, position *domain.Position) error {
	if _, err := r.collection.InsertOne(ctx, position); err != nil {
		return fmt.Errorf("failed to insert position: %w", err)
	}
	return nil
}

func (r *PositionRepository) GetByID(ctx context.Context, id string) (*domain.Position, error) {
	oid, err := pkgmongo.ParseID(id)
	if err != nil {
		return nil, domain.ErrPositionNotFound
	}

	var position domain.Position
	err = r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&position)
	if err == mongo.ErrNoDocuments {
		return nil, domain.ErrPositionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load position %s: %w", id, err)
	}
	return &position, nil
}

func (r *PositionRepository) GetByCode(ctx context.Context, code string) (*domain.Position, error) {
	var position domain.Position
	err := r.collection.FindOne(ctx, bson.M{"code": code}).Decode(&position)
	if err == mongo.ErrNoDocuments {
		return nil, domain.ErrPositionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load position %s: %w", code, err)
	}
	return &position, nil
}

// UpdateStatus transitions the position atomically, guarded by the
// expected current status. A slot claimed concurrently no longer matches
// the filter and the call reports ErrPositionUnavailable.
func (r *PositionRepository) UpdateStatus(ctx context.Context, id string, expected, target domain.PositionStatus) error {
	oid, err := pkgmongo.ParseID(id)
	if err != nil {
		return domain.ErrPositionNotFound
	}

	filter := bson.M{"_id": oid, "status": expected}
	update := pkgmongo.BuildUpdateWithTimestamp(bson.M{"status": target})

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to update position %s status: %w", id, err)
	}
	if result.MatchedCount == 0 {
		return domain.ErrPositionUnavailable
	}
	return nil
}

func (r *PositionRepository) List(ctx context.Context, status domain.PositionStatus, pagination domain.Pagination) ([]*domain.Position, int64, error) {
	filter := bson.M{}
	if status != "" {
		filter["status"] = status
	}

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count positions: %w", err)
	}

	opts := options.Find().
		SetSort(pkgmongo.SortAscending("code")).
		SetSkip(int64((pagination.Page - 1) * pagination.Limit)).
		SetLimit(int64(pagination.Limit))

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list positions: %w", err)
	}
	defer cursor.Close(ctx)

	var positions []*domain.Position
	if err := cursor.All(ctx, &positions); err != nil {
		return nil, 0, err
	}
	return positions, total, nil
}
