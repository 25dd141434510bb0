package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleCart() []CartItem {
	return []CartItem{
		{Name: "Tomate redondo x kg", Quantity: "2", Price: "1200", Link: "https://tienda.example/p/tomate"},
		{Name: "Leche descremada 1L", Quantity: "1", Price: "950", Link: "https://tienda.example/p/leche"},
	}
}

func TestAddItemAppendsWithoutMutatingInput(t *testing.T) {
	cart := sampleCart()
	item := CartItem{Name: "Arroz largo fino 1kg", Quantity: "1", Price: "1100", Link: "https://tienda.example/p/arroz"}

	out := AddItem(cart, item)

	require.Len(t, out, 3)
	assert.Equal(t, item, out[2])
	assert.Len(t, cart, 2, "input cart must not grow")
}

func TestAddItemAllowsDuplicateNames(t *testing.T) {
	cart := sampleCart()
	dup := cart[0]

	out := AddItem(cart, dup)

	require.Len(t, out, 3)
	assert.Equal(t, out[0].Name, out[2].Name)
}

func TestRemoveItemDropsAllMatchesCaseInsensitive(t *testing.T) {
	cart := append(sampleCart(), CartItem{Name: "TOMATE REDONDO X KG", Quantity: "1", Price: "1200"})

	out, removed := RemoveItem(cart, "tomate redondo x kg")

	assert.Equal(t, 2, removed)
	require.Len(t, out, 1)
	assert.Equal(t, "Leche descremada 1L", out[0].Name)
}

func TestRemoveItemNoMatchReturnsIdenticalCart(t *testing.T) {
	cart := sampleCart()

	out, removed := RemoveItem(cart, "yerba mate")

	assert.Equal(t, 0, removed)
	assert.Equal(t, cart, out)
}

func TestChangeQuantityUpdatesAllMatches(t *testing.T) {
	cart := append(sampleCart(), CartItem{Name: "Tomate redondo x kg", Quantity: "5", Price: "1200"})

	out, updated := ChangeQuantity(cart, "Tomate redondo x kg", "3")

	assert.Equal(t, 2, updated)
	assert.Equal(t, "3", out[0].Quantity)
	assert.Equal(t, "3", out[2].Quantity)
	assert.Equal(t, "1", out[1].Quantity, "non-matching item untouched")
	assert.Equal(t, "2", cart[0].Quantity, "input cart must not change")
}

func TestChangeQuantityNoMatchIsNoOp(t *testing.T) {
	cart := sampleCart()

	out, updated := ChangeQuantity(cart, "yerba mate", "3")

	assert.Equal(t, 0, updated)
	assert.Equal(t, cart, out)
}

func TestCloneCartIsValueCopy(t *testing.T) {
	cart := sampleCart()

	out := CloneCart(cart)
	out[0].Quantity = "99"

	assert.Equal(t, "2", cart[0].Quantity)
}
