package model

import (
	"strings"
	"time"
)

// CartItem is one line of the active shopping cart. All fields are kept as
// free-form strings because they come straight from model tool calls
// ("2", "$500", a product link) and are echoed back verbatim.
type CartItem struct {
	Name     string `json:"nombre"`
	Quantity string `json:"cantidad"`
	Price    string `json:"precio"`
	Link     string `json:"link"`
}

// ArchivedCart is a completed purchase cycle, newest-first when loaded.
type ArchivedCart struct {
	Items     []CartItem `json:"items"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// Summary is one AI-generated preference summary from a past purchase cycle.
type Summary struct {
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// Cart item identity is name-string based and duplicates are allowed.
// Both RemoveItem and ChangeQuantity affect ALL items whose name matches,
// so the two operations never diverge on duplicate names.

// AddItem appends an item to a copy of the cart and returns the new cart.
func AddItem(cart []CartItem, item CartItem) []CartItem {
	out := CloneCart(cart)
	return append(out, item)
}

// RemoveItem drops every item whose name matches (case-insensitive) and
// returns the new cart plus the number of items removed. Removing an absent
// name is a silent no-op: the input cart is returned value-identical.
func RemoveItem(cart []CartItem, name string) ([]CartItem, int) {
	out := make([]CartItem, 0, len(cart))
	removed := 0
	for _, it := range cart {
		if strings.EqualFold(it.Name, name) {
			removed++
			continue
		}
		out = append(out, it)
	}
	return out, removed
}

// ChangeQuantity overwrites the quantity on every item whose name matches
// (case-insensitive) and returns the new cart plus the number of items
// updated. A no-match call returns the cart unchanged with count zero.
func ChangeQuantity(cart []CartItem, name, quantity string) ([]CartItem, int) {
	out := CloneCart(cart)
	updated := 0
	for i := range out {
		if strings.EqualFold(out[i].Name, name) {
			out[i].Quantity = quantity
			updated++
		}
	}
	return out, updated
}

// CloneCart returns a value copy so node contracts can guarantee the caller's
// cart is never mutated in place.
func CloneCart(cart []CartItem) []CartItem {
	out := make([]CartItem, len(cart))
	copy(out, cart)
	return out
}
