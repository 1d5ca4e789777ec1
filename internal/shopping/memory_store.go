package shopping

import (
	"context"
	"sync"

	"shopping-list/internal/live"
)

var _ DAO = (*MemoryStore)(nil)

// MemoryStore is an in-process item store. Nothing survives a restart.
type MemoryStore struct {
	mu     sync.Mutex
	items  []Item
	nextID int64
	feed   *live.Feed[[]Item]
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		nextID: 1,
		feed:   live.NewFeed([]Item{}),
	}
}

// ListAll implements DAO.
func (s *MemoryStore) ListAll() *live.Subscription[[]Item] {
	return s.feed.Subscribe()
}

// Insert implements DAO.
func (s *MemoryStore) Insert(_ context.Context, item Item) (Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item.ID = s.nextID
	s.nextID++
	s.items = append(s.items, item)
	s.publish()
	return item, nil
}

// Delete implements DAO.
func (s *MemoryStore) Delete(_ context.Context, item Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].ID == item.ID {
			s.items = append(s.items[:i], s.items[i+1:]...)
			break
		}
	}
	s.publish()
	return nil
}

// DeleteAll implements DAO.
func (s *MemoryStore) DeleteAll(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = nil
	s.publish()
	return nil
}

// Update implements DAO.
func (s *MemoryStore) Update(_ context.Context, item Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].ID == item.ID {
			s.items[i].Amount = item.Amount
			s.items[i].Product = item.Product
			break
		}
	}
	s.publish()
	return nil
}

// Close ends all ListAll subscriptions.
func (s *MemoryStore) Close() {
	s.feed.Close()
}

// publish hands out a copy so later edits of s.items never reach subscribers.
func (s *MemoryStore) publish() {
	snapshot := make([]Item, len(s.items))
	copy(snapshot, s.items)
	s.feed.Publish(snapshot)
}
