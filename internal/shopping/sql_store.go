package shopping

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"shopping-list/internal/live"
	shoppingdb "shopping-list/internal/shopping/db"
)

var _ DAO = (*SQLStore)(nil)

// SQLStore keeps items in the shopping_list_items table.
type SQLStore struct {
	queries *shoppingdb.Queries
	logger  zerolog.Logger

	// mu orders writes and the snapshot re-read that follows each of them,
	// so published snapshots follow the order in which mutations completed.
	mu   sync.Mutex
	feed *live.Feed[[]Item]
}

// NewSQLStore loads the current table contents and returns a store ready to
// publish snapshots. The schema must already exist (see database.NewDB).
func NewSQLStore(ctx context.Context, db *sql.DB, logger zerolog.Logger) (*SQLStore, error) {
	return newSQLStore(ctx, db, logger)
}

func newSQLStore(ctx context.Context, db shoppingdb.DBTX, logger zerolog.Logger) (*SQLStore, error) {
	s := &SQLStore{
		queries: shoppingdb.New(db),
		logger:  logger.With().Str("component", "sql_store").Logger(),
	}

	items, err := s.queryAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load shopping list: %w", err)
	}
	s.feed = live.NewFeed(items)
	return s, nil
}

// ListAll implements DAO.
func (s *SQLStore) ListAll() *live.Subscription[[]Item] {
	return s.feed.Subscribe()
}

// Insert implements DAO. The caller's ID is ignored. If the row is written
// but the snapshot cannot be re-read, the stored item is returned together
// with the error.
func (s *SQLStore) Insert(ctx context.Context, item Item) (Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, err := s.queries.InsertItem(ctx, shoppingdb.InsertItemParams{
		Amount:  int64(item.Amount),
		Product: item.Product,
	})
	if err != nil {
		return Item{}, fmt.Errorf("failed to insert shopping list item: %w", err)
	}
	item.ID = id

	return item, s.refresh(ctx)
}

// Delete implements DAO.
func (s *SQLStore) Delete(ctx context.Context, item Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, err := s.queries.DeleteItem(ctx, item.ID)
	if err != nil {
		return fmt.Errorf("failed to delete shopping list item: %w", err)
	}
	s.logNoMatch("delete", n)
	return s.refresh(ctx)
}

// DeleteAll implements DAO.
func (s *SQLStore) DeleteAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.queries.DeleteAllItems(ctx); err != nil {
		return fmt.Errorf("failed to delete all shopping list items: %w", err)
	}
	return s.refresh(ctx)
}

// Update implements DAO.
func (s *SQLStore) Update(ctx context.Context, item Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, err := s.queries.UpdateItem(ctx, shoppingdb.UpdateItemParams{
		Amount:  int64(item.Amount),
		Product: item.Product,
		ID:      item.ID,
	})
	if err != nil {
		return fmt.Errorf("failed to update shopping list item: %w", err)
	}
	s.logNoMatch("update", n)
	return s.refresh(ctx)
}

// Close ends all ListAll subscriptions. The database itself is owned by the caller.
func (s *SQLStore) Close() {
	s.feed.Close()
}

func (s *SQLStore) logNoMatch(op string, rows int64) {
	if rows == 0 {
		s.logger.Debug().Str("op", op).Msg("no matching rows")
	}
}

// refresh re-reads the table and publishes it. Caller holds s.mu.
// The write before it is already committed, so a failure here leaves
// subscribers one snapshot behind until the next successful refresh.
func (s *SQLStore) refresh(ctx context.Context) error {
	items, err := s.queryAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to refresh shopping list snapshot: %w", err)
	}
	s.feed.Publish(items)
	return nil
}

func (s *SQLStore) queryAll(ctx context.Context) ([]Item, error) {
	rows, err := s.queries.ListItems(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]Item, 0, len(rows))
	for _, r := range rows {
		items = append(items, Item{ID: r.ID, Amount: int(r.Amount), Product: r.Product})
	}
	return items, nil
}
