package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	pkgmongo "github.com/Joaovenera/wms-sub000/pkg/mongodb"
)

// CodeGenerator issues sequential UCP codes in the form
// UCP-YYYYMMDD-NNNN. The sequence restarts every calendar day, backed
// by an atomic counter document per date.
type CodeGenerator struct {
	collection *pkgmongo.InstrumentedCollection
	now        func() time.Time
}

func NewCodeGenerator(client *pkgmongo.InstrumentedClient) *CodeGenerator {
	return &CodeGenerator{
		collection: client.Collection("counters"),
		now:        func() time.Time { return time.Now().UTC() },
	}
}

func (g *CodeGenerator) NextCode(ctx context.Context) (string, error) {
	date := g.now().Format("20060102")

	filter := bson.M{"_id": "ucp-" + date}
	update := bson.M{"$inc": bson.M{"seq": 1}}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var counter struct {
		Seq int64 `bson:"seq"`
	}
	if err := g.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&counter); err != nil {
		return "", fmt.Errorf("failed to advance UCP counter: %w", err)
	}

	return fmt.Sprintf("UCP-%s-%04d", date, counter.Seq), nil
}
