package shopping

import (
	"context"

	"github.com/rs/zerolog"

	"shopping-list/internal/live"
)

// Repository is the only path through which the shopping list is changed.
// It forwards every call to its DAO exactly once.
type Repository struct {
	dao    DAO
	logger zerolog.Logger
}

// NewRepository creates a repository that owns dao for its lifetime.
func NewRepository(dao DAO, logger zerolog.Logger) *Repository {
	return &Repository{
		dao:    dao,
		logger: logger.With().Str("component", "shopping_repository").Logger(),
	}
}

// ListAll returns the live shopping list.
func (r *Repository) ListAll() *live.Subscription[[]Item] {
	return r.dao.ListAll()
}

// Insert adds item to the list.
func (r *Repository) Insert(ctx context.Context, item Item) (Item, error) {
	r.logger.Debug().Int("amount", item.Amount).Str("product", item.Product).Msg("insert")
	return r.dao.Insert(ctx, item)
}

// Delete removes item from the list.
func (r *Repository) Delete(ctx context.Context, item Item) error {
	r.logger.Debug().Int64("id", item.ID).Msg("delete")
	return r.dao.Delete(ctx, item)
}

// DeleteAll empties the list.
func (r *Repository) DeleteAll(ctx context.Context) error {
	r.logger.Debug().Msg("delete all")
	return r.dao.DeleteAll(ctx)
}

// Update overwrites a stored item.
func (r *Repository) Update(ctx context.Context, item Item) error {
	r.logger.Debug().Int64("id", item.ID).Msg("update")
	return r.dao.Update(ctx, item)
}
