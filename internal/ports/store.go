package ports

import (
	"context"

	"github.com/seu-repo/voicebook/pkg/docmap"
)

// Unsubscribe stops a subscription. Calling it more than once is a no-op.
type Unsubscribe func()

// DocumentStore is a schemaless collection store with live queries.
// Get returns nil, nil when the document does not exist.
type DocumentStore interface {
	Get(ctx context.Context, collection, id string) (*docmap.Document, error)
	Set(ctx context.Context, collection, id string, data map[string]any) error
	Add(ctx context.Context, collection string, data map[string]any) (string, error)
	// Update merges fields into an existing document. Values may be
	// docmap.Increment, docmap.ArrayUnion or docmap.Delete.
	Update(ctx context.Context, collection, id string, fields map[string]any) error
	Delete(ctx context.Context, collection, id string) error
	Query(ctx context.Context, collection string, filters []docmap.Filter, order *docmap.Order, limit int) ([]docmap.Document, error)
	// Subscribe delivers the current result set immediately and again after
	// every change to the collection, until ctx ends or Unsubscribe is called.
	Subscribe(ctx context.Context, collection string, filters []docmap.Filter, order *docmap.Order, fn func([]docmap.Document)) (Unsubscribe, error)
	RunTransaction(ctx context.Context, fn func(ctx context.Context, tx Txn) error) error
}

// Txn reads and writes inside RunTransaction. Writes become visible when
// the transaction function returns nil.
type Txn interface {
	Get(collection, id string) (*docmap.Document, error)
	Set(collection, id string, data map[string]any) error
	Update(collection, id string, fields map[string]any) error
}
