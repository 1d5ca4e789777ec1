package telegram

import (
	"sync"

	"shopping-list/internal/viewmodel"
)

// dialogs keeps one add-item dialog per chat.
type dialogs struct {
	vm *viewmodel.ViewModel

	mu     sync.Mutex
	byChat map[int64]*viewmodel.AddDialog
}

func newDialogs(vm *viewmodel.ViewModel) *dialogs {
	return &dialogs{vm: vm, byChat: make(map[int64]*viewmodel.AddDialog)}
}

// get returns the chat's dialog, creating a closed one on first use.
func (d *dialogs) get(chatID int64) *viewmodel.AddDialog {
	d.mu.Lock()
	defer d.mu.Unlock()

	dialog, ok := d.byChat[chatID]
	if !ok {
		dialog = d.vm.NewAddDialog()
		d.byChat[chatID] = dialog
	}
	return dialog
}
