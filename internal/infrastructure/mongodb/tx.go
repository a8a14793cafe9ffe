package mongodb

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"

	pkgmongo "github.com/Joaovenera/wms-sub000/pkg/mongodb"
)

// TxRunner runs callbacks inside a MongoDB transaction. Repositories
// called with the transactional context share the session, so the
// UCP document, its history entries and the pallet or position claims
// commit or abort as one unit.
type TxRunner struct {
	client *pkgmongo.InstrumentedClient
}

func NewTxRunner(client *pkgmongo.InstrumentedClient) *TxRunner {
	return &TxRunner{client: client}
}

func (t *TxRunner) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return t.client.WithTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		return fn(sessCtx)
	})
}
