package shopping

import (
	"context"

	"shopping-list/internal/live"
)

// DAO is the access contract over an item store. Implementations decide the
// storage engine; callers only see these operations.
type DAO interface {
	// ListAll returns a live view of the table. The subscription receives the
	// current snapshot at once and a fresh one after every completed mutation.
	ListAll() *live.Subscription[[]Item]
	// Insert appends a row with a newly assigned ID and returns the stored item.
	Insert(ctx context.Context, item Item) (Item, error)
	// Delete removes the row with item.ID. A missing row is not an error.
	Delete(ctx context.Context, item Item) error
	// DeleteAll empties the table.
	DeleteAll(ctx context.Context) error
	// Update overwrites amount and product of the row with item.ID.
	// A missing row is not an error.
	Update(ctx context.Context, item Item) error
}
