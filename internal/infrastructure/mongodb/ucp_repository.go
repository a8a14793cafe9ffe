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

// UCPRepository persists UCP aggregates in the ucps collection
type UCPRepository struct {
	collection *pkgmongo.InstrumentedCollection
}

func NewUCPRepository(client *pkgmongo.InstrumentedClient) *UCPRepository {
	repo := &UCPRepository{collection: client.Collection("ucps")}
	repo.ensureIndexes(context.Background())
	return repo
}

func (r *UCPRepository) ensureIndexes(ctx context.Context) {
	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "code", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "palletId", Value: 1}, {Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "positionId", Value: 1}, {Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "items._id", Value: 1}}},
	}
	r.collection.CreateIndexes(ctx, indexes)
}

func (r *UCPRepository) Create(ctx context.Context, ucp *domain.UCP) error {
	if _, err := r.collection.InsertOne(ctx, ucp); err != nil {
		return fmt.Errorf("failed to insert UCP: %w", err)
	}
	return nil
}

func (r *UCPRepository) GetByID(ctx context.Context, id string) (*domain.UCP, error) {
	oid, err := pkgmongo.ParseID(id)
	if err != nil {
		return nil, domain.ErrUCPNotFound
	}

	var ucp domain.UCP
	err = r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&ucp)
	if err == mongo.ErrNoDocuments {
		return nil, domain.ErrUCPNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load UCP %s: %w", id, err)
	}
	return &ucp, nil
}

func (r *UCPRepository) GetByCode(ctx context.Context, code string) (*domain.UCP, error) {
	var ucp domain.UCP
	err := r.collection.FindOne(ctx, bson.M{"code": code}).Decode(&ucp)
	if err == mongo.ErrNoDocuments {
		return nil, domain.ErrUCPNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load UCP %s: %w", code, err)
	}
	return &ucp, nil
}

// Update replaces the document guarded by the status it was read at.
// The guard in the filter makes concurrent writers lose instead of
// silently overwriting each other.
func (r *UCPRepository) Update(ctx context.Context, ucp *domain.UCP, expectedStatus domain.UCPStatus) error {
	ucp.UpdatedAt = pkgmongo.Now()

	filter := bson.M{"_id": ucp.ID, "status": expectedStatus}
	result, err := r.collection.ReplaceOne(ctx, filter, ucp)
	if err != nil {
		return fmt.Errorf("failed to update UCP %s: %w", ucp.ID.Hex(), err)
	}
	if result.MatchedCount == 0 {
		return domain.ErrInvalidStatusTransition
	}
	return nil
}

func (r *UCPRepository) List(ctx context.Context, status domain.UCPStatus, pagination domain.Pagination) ([]*domain.UCP, int64, error) {
	filter := bson.M{}
	if status != "" {
		filter["status"] = status
	}

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count UCPs: %w", err)
	}

	opts := options.Find().
		SetSort(pkgmongo.SortDescending("createdAt")).
		SetSkip(int64((pagination.Page - 1) * pagination.Limit)).
		SetLimit(int64(pagination.Limit))

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list UCPs: %w", err)
	}
	defer cursor.Close(ctx)

	var ucps []*domain.UCP
	if err := cursor.All(ctx, &ucps); err != nil {
		return nil, 0, err
	}
	return ucps, total, nil
}

func (r *UCPRepository) GetByPositionID(ctx context.Context, positionID string) (*domain.UCP, error) {
	filter := bson.M{
		"positionId": positionID,
		"status":     bson.M{"$ne": domain.UCPStatusArchived},
	}

	var ucp domain.UCP
	err := r.collection.FindOne(ctx, filter).Decode(&ucp)
	if err == mongo.ErrNoDocuments {
		return nil, domain.ErrUCPNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load UCP at position %s: %w", positionID, err)
	}
	return &ucp, nil
}

func (r *UCPRepository) GetByItemID(ctx context.Context, itemID string) (*domain.UCP, error) {
	oid, err := pkgmongo.ParseID(itemID)
	if err != nil {
		return nil, domain.ErrUCPItemNotFound
	}

	var ucp domain.UCP
	err = r.collection.FindOne(ctx, bson.M{"items._id": oid}).Decode(&ucp)
	if err == mongo.ErrNoDocuments {
		return nil, domain.ErrUCPItemNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load UCP holding item %s: %w", itemID, err)
	}
	return &ucp, nil
}
