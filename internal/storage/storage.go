// Package storage persists the application's collections as whole JSON
// documents. There are no partial updates: every mutation loads a full
// collection, transforms it in memory, and writes the full collection back.
package storage

import "context"

// Collection names. Each one maps to a single stored document holding the
// entire entity list.
const (
	CollectionProducts  = "products"
	CollectionClients   = "clients"
	CollectionSales     = "sales"
	CollectionSuppliers = "suppliers"
	CollectionOrders    = "orders"
	CollectionNotes     = "notes"
)

// Store reads and writes whole collections. Load leaves v untouched when the
// collection has never been saved, so callers start from an empty slice.
// Initialized/MarkInitialized guard the one-time sample-data bootstrap.
type Store interface {
	Load(ctx context.Context, collection string, v any) error
	Save(ctx context.Context, collection string, v any) error
	Initialized(ctx context.Context) (bool, error)
	MarkInitialized(ctx context.Context) error
}
