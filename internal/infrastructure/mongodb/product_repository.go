package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Joaovenera/wms-sub000/internal/domain"
	pkgmongo "github.com/Joaovenera/wms-sub000/pkg/mongodb"
)

// ProductRepository resolves catalog records from the products collection.
// Products are referenced by object id or by SKU interchangeably since
// callers carry whichever identifier the client sent.
type ProductRepository struct {
	collection *pkgmongo.InstrumentedCollection
}

func NewProductRepository(client *pkgmongo.InstrumentedClient) *ProductRepository {
	repo := &ProductRepository{collection: client.Collection("products")}
	repo.ensureIndexes(context.Background())
	return repo
}

func (r *ProductRepository) ensureIndexes(ctx context.Context) {
	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "sku", Value: 1}}, Options: options.Index().SetUnique(true)},
	}
	r.collection.CreateIndexes(ctx, indexes)
}

func (r *ProductRepository) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	var product domain.Product
	err := r.collection.FindOne(ctx, identifierFilter(id)).Decode(&product)
	if err == mongo.ErrNoDocuments {
		return nil, domain.ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load product %s: %w", id, err)
	}
	return &product, nil
}

func (r *ProductRepository) GetByIDs(ctx context.Context, ids []string) (map[string]*domain.Product, error) {
	if len(ids) == 0 {
		return map[string]*domain.Product{}, nil
	}

	oids := make([]primitive.ObjectID, 0, len(ids))
	skus := make([]string, 0, len(ids))
	for _, id := range ids {
		if oid, err := pkgmongo.ParseID(id); err == nil {
			oids = append(oids, oid)
		} else {
			skus = append(skus, id)
		}
	}

	filter := bson.M{"$or": []bson.M{
		{"_id": bson.M{"$in": oids}},
		{"sku": bson.M{"$in": skus}},
	}}

	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to load products: %w", err)
	}
	defer cursor.Close(ctx)

	var products []*domain.Product
	if err := cursor.All(ctx, &products); err != nil {
		return nil, err
	}

	// key the result by whichever identifier the caller asked with
	byID := make(map[string]*domain.Product, len(products))
	for _, product := range products {
		byID[product.ID.Hex()] = product
		byID[product.SKU] = product
	}

	out := make(map[string]*domain.Product, len(ids))
	for _, id := range ids {
		if product, ok := byID[id]; ok {
			out[id] = product
		}
	}
	return out, nil
}

func identifierFilter(id string) bson.M {
	if oid, err := pkgmongo.ParseID(id); err == nil {
		return bson.M{"_id": oid}
	}
	return bson.M{"sku": id}
}
