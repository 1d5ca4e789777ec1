package shopping

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopping-list/internal/database"
	"shopping-list/internal/live"
	shoppingdb "shopping-list/internal/shopping/db"
)

// nextSnapshot waits for the next value on sub.
func nextSnapshot(t *testing.T, sub *live.Subscription[[]Item]) []Item {
	t.Helper()
	select {
	case items, ok := <-sub.Updates():
		require.True(t, ok, "subscription closed")
		return items
	case <-time.After(2 * time.Second):
		t.Fatal("Timed out waiting for snapshot")
		return nil
	}
}

func openSQLStore(t *testing.T) *SQLStore {
	t.Helper()
	db, err := database.NewDB(filepath.Join(t.TempDir(), "shopping.db"), zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	store, err := NewSQLStore(context.Background(), db.SQL, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(store.Close)
	return store
}

func engines() map[string]func(t *testing.T) DAO {
	return map[string]func(t *testing.T) DAO{
		"SQLite": func(t *testing.T) DAO { return openSQLStore(t) },
		"Memory": func(t *testing.T) DAO {
			s := NewMemoryStore()
			t.Cleanup(s.Close)
			return s
		},
	}
}

func TestStoreContract(t *testing.T) {
	ctx := context.Background()

	for name, newDAO := range engines() {
		t.Run(name, func(t *testing.T) {
			t.Run("EmptyTableYieldsEmptySnapshot", func(t *testing.T) {
				sub := newDAO(t).ListAll()
				defer sub.Close()

				items := nextSnapshot(t, sub)
				assert.NotNil(t, items)
				assert.Empty(t, items)
			})

			t.Run("Scenario", func(t *testing.T) {
				dao := newDAO(t)
				sub := dao.ListAll()
				defer sub.Close()
				nextSnapshot(t, sub)

				apples, err := dao.Insert(ctx, Item{Amount: 2, Product: "apples"})
				require.NoError(t, err)
				items := nextSnapshot(t, sub)
				require.Len(t, items, 1)
				assert.Equal(t, apples, items[0])

				_, err = dao.Insert(ctx, Item{Amount: 1, Product: "bread"})
				require.NoError(t, err)
				items = nextSnapshot(t, sub)
				require.Len(t, items, 2)
				assert.Equal(t, "apples", items[0].Product)
				assert.Equal(t, "bread", items[1].Product)

				require.NoError(t, dao.Delete(ctx, items[0]))
				items = nextSnapshot(t, sub)
				require.Len(t, items, 1)
				assert.Equal(t, 1, items[0].Amount)
				assert.Equal(t, "bread", items[0].Product)

				require.NoError(t, dao.DeleteAll(ctx))
				assert.Empty(t, nextSnapshot(t, sub))
			})

			t.Run("InsertIsNotIdempotent", func(t *testing.T) {
				dao := newDAO(t)
				a, err := dao.Insert(ctx, Item{Amount: 1, Product: "milk"})
				require.NoError(t, err)
				b, err := dao.Insert(ctx, Item{Amount: 1, Product: "milk"})
				require.NoError(t, err)

				assert.NotEqual(t, a.ID, b.ID)
			})

			t.Run("InsertIgnoresCallerID", func(t *testing.T) {
				dao := newDAO(t)
				item, err := dao.Insert(ctx, Item{ID: 999, Amount: 3, Product: "eggs"})
				require.NoError(t, err)
				assert.NotEqual(t, int64(999), item.ID)
			})

			t.Run("DeleteMissingIsNoop", func(t *testing.T) {
				dao := newDAO(t)
				_, err := dao.Insert(ctx, Item{Amount: 1, Product: "milk"})
				require.NoError(t, err)

				sub := dao.ListAll()
				defer sub.Close()
				before := nextSnapshot(t, sub)

				require.NoError(t, dao.Delete(ctx, Item{ID: 12345, Amount: 1, Product: "milk"}))
				assert.Equal(t, before, nextSnapshot(t, sub))
			})

			t.Run("Update", func(t *testing.T) {
				dao := newDAO(t)
				item, err := dao.Insert(ctx, Item{Amount: 1, Product: "milk"})
				require.NoError(t, err)

				item.Amount = 4
				item.Product = "oat milk"
				require.NoError(t, dao.Update(ctx, item))
				require.NoError(t, dao.Update(ctx, Item{ID: 12345, Amount: 9, Product: "ghost"}))

				sub := dao.ListAll()
				defer sub.Close()
				assert.Equal(t, []Item{item}, nextSnapshot(t, sub))
			})

			t.Run("RoundTrip", func(t *testing.T) {
				dao := newDAO(t)
				want := []Item{
					{Amount: 1, Product: "bread"},
					{Amount: 12, Product: "eggs"},
					{Amount: 2, Product: "bread"},
					{Amount: 3, Product: "tomatoes"},
				}
				for _, item := range want {
					_, err := dao.Insert(ctx, item)
					require.NoError(t, err)
				}

				sub := dao.ListAll()
				defer sub.Close()
				got := nextSnapshot(t, sub)
				require.Len(t, got, len(want))

				seen := map[int64]bool{}
				for i := range got {
					assert.NotZero(t, got[i].ID)
					assert.False(t, seen[got[i].ID], "duplicate id %d", got[i].ID)
					seen[got[i].ID] = true
					assert.Equal(t, want[i].Amount, got[i].Amount)
					assert.Equal(t, want[i].Product, got[i].Product)
				}
			})
		})
	}
}

func TestSQLStoreReloadsPersistedItems(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "shopping.db")

	db, err := database.NewDB(dbPath, zerolog.Nop())
	require.NoError(t, err)
	store, err := NewSQLStore(ctx, db.SQL, zerolog.Nop())
	require.NoError(t, err)
	_, err = store.Insert(ctx, Item{Amount: 2, Product: "apples"})
	require.NoError(t, err)
	store.Close()
	require.NoError(t, db.Close())

	db, err = database.NewDB(dbPath, zerolog.Nop())
	require.NoError(t, err)
	defer db.Close()
	store, err = NewSQLStore(ctx, db.SQL, zerolog.Nop())
	require.NoError(t, err)
	defer store.Close()

	sub := store.ListAll()
	defer sub.Close()
	items := nextSnapshot(t, sub)
	require.Len(t, items, 1)
	assert.Equal(t, "2X apples", items[0].String())
}

var errReadFailed = errors.New("read failed")

// failingReads passes writes through and fails list queries while fail is set.
type failingReads struct {
	shoppingdb.DBTX
	fail atomic.Bool
}

func (f *failingReads) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	if f.fail.Load() {
		return nil, errReadFailed
	}
	return f.DBTX.QueryContext(ctx, query, args...)
}

func TestSQLStoreReportsFailedRefresh(t *testing.T) {
	ctx := context.Background()
	db, err := database.NewDB(filepath.Join(t.TempDir(), "shopping.db"), zerolog.Nop())
	require.NoError(t, err)
	defer db.Close()

	reads := &failingReads{DBTX: db.SQL}
	store, err := newSQLStore(ctx, reads, zerolog.Nop())
	require.NoError(t, err)
	defer store.Close()

	sub := store.ListAll()
	defer sub.Close()
	nextSnapshot(t, sub)

	reads.fail.Store(true)
	item, err := store.Insert(ctx, Item{Amount: 2, Product: "apples"})
	require.ErrorIs(t, err, errReadFailed)
	assert.NotZero(t, item.ID, "row is written before the re-read")

	err = store.Delete(ctx, Item{ID: 12345})
	require.ErrorIs(t, err, errReadFailed)

	// The next successful mutation publishes everything committed so far.
	reads.fail.Store(false)
	_, err = store.Insert(ctx, Item{Amount: 1, Product: "bread"})
	require.NoError(t, err)
	items := nextSnapshot(t, sub)
	require.Len(t, items, 2)
	assert.Equal(t, "2X apples", items[0].String())
	assert.Equal(t, "1X bread", items[1].String())
}
