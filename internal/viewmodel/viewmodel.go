// Package viewmodel bridges the shopping list to whatever renders it.
// Intents are dispatched in the background and never report back; the
// rendered list follows the store's own snapshots.
package viewmodel

import (
	"context"

	"shopping-list/internal/live"
	"shopping-list/internal/shopping"
)

// Dispatcher schedules background work without blocking the caller.
type Dispatcher interface {
	Submit(name string, task func(ctx context.Context) error) string
}

// ViewModel holds the presentation state of the shopping list screen.
type ViewModel struct {
	repo       *shopping.Repository
	dispatcher Dispatcher
}

// New creates a ViewModel over repo. Mutations run on dispatcher.
func New(repo *shopping.Repository, dispatcher Dispatcher) *ViewModel {
	return &ViewModel{repo: repo, dispatcher: dispatcher}
}

// Items returns the live shopping list exactly as the store publishes it.
func (vm *ViewModel) Items() *live.Subscription[[]shopping.Item] {
	return vm.repo.ListAll()
}

// Add schedules the insertion of a new item.
func (vm *ViewModel) Add(amount int, product string) {
	item := shopping.Item{Amount: amount, Product: product}
	vm.dispatcher.Submit("insert", func(ctx context.Context) error {
		_, err := vm.repo.Insert(ctx, item)
		return err
	})
}

// Delete schedules the removal of item.
func (vm *ViewModel) Delete(item shopping.Item) {
	vm.dispatcher.Submit("delete", func(ctx context.Context) error {
		return vm.repo.Delete(ctx, item)
	})
}

// DeleteAll schedules emptying the list.
func (vm *ViewModel) DeleteAll() {
	vm.dispatcher.Submit("delete_all", func(ctx context.Context) error {
		return vm.repo.DeleteAll(ctx)
	})
}

// Update schedules overwriting item. No screen flow uses it yet.
func (vm *ViewModel) Update(item shopping.Item) {
	vm.dispatcher.Submit("update", func(ctx context.Context) error {
		return vm.repo.Update(ctx, item)
	})
}
