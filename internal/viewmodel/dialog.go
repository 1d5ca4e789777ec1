package viewmodel

import (
	"errors"
	"strconv"
	"strings"
	"sync"

	"shopping-list/internal/shopping"
)

// ErrInvalidInput is returned when a product is empty or an amount is not a
// positive whole number.
var ErrInvalidInput = errors.New("invalid shopping list input")

// ValidateInput checks the raw dialog fields and builds the item to add.
// The product is trimmed; the amount must consist of ASCII digits only.
func ValidateInput(product, amount string) (shopping.Item, error) {
	product = strings.TrimSpace(product)
	if product == "" || amount == "" {
		return shopping.Item{}, ErrInvalidInput
	}
	for _, r := range amount {
		if r < '0' || r > '9' {
			return shopping.Item{}, ErrInvalidInput
		}
	}
	n, err := strconv.Atoi(amount)
	if err != nil || n <= 0 {
		return shopping.Item{}, ErrInvalidInput
	}
	return shopping.Item{Amount: n, Product: product}, nil
}

// DialogState is the visibility of the add-item dialog.
type DialogState int

const (
	DialogClosed DialogState = iota
	DialogOpen
)

func (s DialogState) String() string {
	if s == DialogOpen {
		return "open"
	}
	return "closed"
}

// AddDialog captures a product and an amount before they are added to the
// list. A failed submit leaves it open.
type AddDialog struct {
	vm *ViewModel

	mu      sync.Mutex
	state   DialogState
	product string
	amount  string
}

// NewAddDialog returns a closed dialog that adds through vm.
func (vm *ViewModel) NewAddDialog() *AddDialog {
	return &AddDialog{vm: vm}
}

// State reports whether the dialog is open.
func (d *AddDialog) State() DialogState {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// Fields returns the last entered product and amount.
func (d *AddDialog) Fields() (product, amount string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.product, d.amount
}

// Open shows the dialog.
func (d *AddDialog) Open() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.state = DialogOpen
}

// Dismiss closes the dialog without adding anything and forgets its fields.
func (d *AddDialog) Dismiss() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.reset()
}

// Submit validates the fields. On success the item is handed to the view
// model and the dialog closes with empty fields; on ErrInvalidInput the
// dialog stays open. Submitting a closed dialog is ignored.
func (d *AddDialog) Submit(product, amount string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.state != DialogOpen {
		return nil
	}
	d.product, d.amount = product, amount

	item, err := ValidateInput(product, amount)
	if err != nil {
		return err
	}
	d.vm.Add(item.Amount, item.Product)
	d.reset()
	return nil
}

func (d *AddDialog) reset() {
	d.state = DialogClosed
	d.product = ""
	d.amount = ""
}
