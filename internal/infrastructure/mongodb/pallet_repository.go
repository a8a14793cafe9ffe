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

// PalletRepository persists pallets in the pallets collection
type PalletRepository struct {
	collection *pkgmongo.InstrumentedCollection
}

func NewPalletRepository(client *pkgmongo.InstrumentedClient) *PalletRepository {
	repo := &PalletRepository{collection: client.Collection("pallets")}
	repo.ensureIndexes(context.Background())
	return repo
}

func (r *PalletRepository) ensureIndexes(ctx context.Context) {
	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "code", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "status", Value: 1}}},
	}
	r.collection.CreateIndexes(ctx, indexes)
}

func (r *PalletRepository) Create(ctx context.Context, pallet *domain.Pallet) error {
	if _, err := r.collection.InsertOne(ctx, pallet); err != nil {
		return fmt.Errorf("failed to insert pallet: %w", err)
	}
	return nil
}

func (r *PalletRepository) GetByID(ctx context.Context, id string) (*domain.Pallet, error) {
	oid, err := pkgmongo.ParseID(id)
	if err != nil {
		return nil, domain.ErrPalletNotFound
	}

	var pallet domain.Pallet
	err = r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&pallet)
	if err == mongo.ErrNoDocuments {
		return nil, domain.ErrPalletNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load pallet %s: %w", id, err)
	}
	return &pallet, nil
}

func (r *PalletRepository) GetByCode(ctx context.Context, code string) (*domain.Pallet, error) {
	var pallet domain.Pallet
	err := r.collection.FindOne(ctx, bson.M{"code": code}).Decode(&pallet)
	if err == mongo.ErrNoDocuments {
		return nil, domain.ErrPalletNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load pallet %s: %w", code, err)
	}
	return &pallet, nil
}

// UpdateStatus transitions the pallet atomically. The expected status in
// the filter is the compare-and-set guard: a pallet claimed by another
// writer no longer matches and the call reports ErrPalletUnavailable.
func (r *PalletRepository) UpdateStatus(ctx context.Context, id string, expected, target domain.PalletStatus) error {
	oid, err := pkgmongo.ParseID(id)
	if err != nil {
		return domain.ErrPalletNotFound
	}

	filter := bson.M{"_id": oid, "status": expected}
	update := pkgmongo.BuildUpdateWithTimestamp(bson.M{"status": target})

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to update pallet %s status: %w", id, err)
	}
	if result.MatchedCount == 0 {
		return domain.ErrPalletUnavailable
	}
	return nil
}

func (r *PalletRepository) FindAvailable(ctx context.Context) (*domain.Pallet, error) {
	filter := bson.M{"status": domain.PalletStatusAvailable}
	opts := options.FindOne().SetSort(pkgmongo.SortAscending("code"))

	var pallet domain.Pallet
	err := r.collection.FindOne(ctx, filter, opts).Decode(&pallet)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find available pallet: %w", err)
	}
	return &pallet, nil
}

func (r *PalletRepository) List(ctx context.Context, status domain.PalletStatus, pagination domain.Pagination) ([]*domain.Pallet, int64, error) {
	filter := bson.M{}
	if status != "" {
		filter["status"] = status
	}

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count pallets: %w", err)
	}

	opts := options.Find().
		SetSort(pkgmongo.SortAscending("code")).
		SetSkip(int64((pagination.Page - 1) * pagination.Limit)).
		SetLimit(int64(pagination.Limit))

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list pallets: %w", err)
	}
	defer cursor.Close(ctx)

	var pallets []*domain.Pallet
	if err := cursor.All(ctx, &pallets); err != nil {
		return nil, 0, err
	}
	return pallets, total, nil
}
