package shopping

import "fmt"

// Item is one shopping-list entry.
type Item struct {
	ID      int64  `json:"id"`
	Amount  int    `json:"amount"`
	Product string `json:"product"`
}

// String renders the item the way the list shows it, e.g. "2X apples".
func (i Item) String() string {
	return fmt.Sprintf("%dX %s", i.Amount, i.Product)
}
