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

// CompositionRepository persists compositions in the compositions collection
type CompositionRepository struct {
	collection *pkgmongo.InstrumentedCollection
}

func NewCompositionRepository(client *pkgmongo.InstrumentedClient) *CompositionRepository {
	repo := &CompositionRepository{collection: client.Collection("compositions")}
	repo.ensureIndexes(context.Background())
	return repo
}

func (r *CompositionRepository) ensureIndexes(ctx context.Context) {
	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "createdBy", Value: 1}}},
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
	}
	r.collection.CreateIndexes(ctx, indexes)
}

func (r *CompositionRepository) Create(ctx context.Context, composition *domain.Composition) error {
	if _, err := r.collection.InsertOne(ctx, composition); err != nil {
		return fmt.Errorf("failed to insert composition: %w", err)
	}
	return nil
}

func (r *CompositionRepository) GetByID(ctx context.Context, id string) (*domain.Composition, error) {
	oid, err := pkgmongo.ParseID(id)
	if err != nil {
		return nil, domain.ErrCompositionNotFound
	}

	var composition domain.Composition
	err = r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&composition)
	if err == mongo.ErrNoDocuments {
		return nil, domain.ErrCompositionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load composition %s: %w", id, err)
	}
	return &composition, nil
}

// Update replaces the document guarded by the status it was read at, so
// concurrent workflow transitions cannot leapfrog each other.
func (r *CompositionRepository) Update(ctx context.Context, composition *domain.Composition, expectedStatus domain.CompositionStatus) error {
	composition.UpdatedAt = pkgmongo.Now()

	filter := bson.M{"_id": composition.ID, "status": expectedStatus}
	result, err := r.collection.ReplaceOne(ctx, filter, composition)
	if err != nil {
		return fmt.Errorf("failed to update composition %s: %w", composition.ID.Hex(), err)
	}
	if result.MatchedCount == 0 {
		return domain.ErrInvalidStatusTransition
	}
	return nil
}

func (r *CompositionRepository) List(ctx context.Context, status domain.CompositionStatus, pagination domain.Pagination) ([]*domain.Composition, int64, error) {
	filter := bson.M{}
	if status != "" {
		filter["status"] = status
	}

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count compositions: %w", err)
	}

	opts := options.Find().
		SetSort(pkgmongo.SortDescending("createdAt")).
		SetSkip(int64((pagination.Page - 1) * pagination.Limit)).
		SetLimit(int64(pagination.Limit))

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list compositions: %w", err)
	}
	defer cursor.Close(ctx)

	var compositions []*domain.Composition
	if err := cursor.All(ctx, &compositions); err != nil {
		return nil, 0, err
	}
	return compositions, total, nil
}

func (r *CompositionRepository) Delete(ctx context.Context, id string) error {
	oid, err := pkgmongo.ParseID(id)
	if err != nil {
		return domain.ErrCompositionNotFound
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("failed to delete composition %s: %w", id, err)
	}
	if result.DeletedCount == 0 {
		return domain.ErrCompositionNotFound
	}
	return nil
}
