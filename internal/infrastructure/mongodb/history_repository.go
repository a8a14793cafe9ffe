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

// HistoryRepository stores the append-only UCP audit trail. Entries are
// inserted once and never updated or deleted.
type HistoryRepository struct {
	collection *pkgmongo.InstrumentedCollection
}

func NewHistoryRepository(client *pkgmongo.InstrumentedClient) *HistoryRepository {
	repo := &HistoryRepository{collection: client.Collection("ucp_history")}
	repo.ensureIndexes(context.Background())
	return repo
}

func (r *HistoryRepository) ensureIndexes(ctx context.Context) {
	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "ucpId", Value: 1}, {Key: "timestamp", Value: -1}}},
		{Keys: bson.D{{Key: "action", Value: 1}}},
	}
	r.collection.CreateIndexes(ctx, indexes)
}

func (r *HistoryRepository) Append(ctx context.Context, entry *domain.HistoryEntry) error {
	if _, err := r.collection.InsertOne(ctx, entry); err != nil {
		return fmt.Errorf("failed to append history entry: %w", err)
	}
	return nil
}

func (r *HistoryRepository) AppendAll(ctx context.Context, entries []*domain.HistoryEntry) error {
	if len(entries) == 0 {
		return nil
	}

	docs := make([]interface{}, 0, len(entries))
	for _, entry := range entries {
		docs = append(docs, entry)
	}

	// ordered insert keeps the audit sequence intact
	opts := options.InsertMany().SetOrdered(true)
	if _, err := r.collection.InsertMany(ctx, docs, opts); err != nil {
		return fmt.Errorf("failed to append history entries: %w", err)
	}
	return nil
}

func (r *HistoryRepository) ListByUCP(ctx context.Context, ucpID string, pagination domain.Pagination) ([]*domain.HistoryEntry, int64, error) {
	filter := bson.M{"ucpId": ucpID}

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count history entries: %w", err)
	}

	opts := options.Find().
		SetSort(pkgmongo.SortDescending("timestamp")).
		SetSkip(int64((pagination.Page - 1) * pagination.Limit)).
		SetLimit(int64(pagination.Limit))

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list history entries: %w", err)
	}
	defer cursor.Close(ctx)

	var entries []*domain.HistoryEntry
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}
