package tools

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/frizbee-ai/server/internal/agent/model"
)

type fakeRetriever struct {
	products []model.Product
	err      error
}

func (f *fakeRetriever) Lookup(ctx context.Context, query string) ([]model.Product, error) {
	return f.products, f.err
}

func call(name, args string) schema.ToolCall {
	return schema.ToolCall{ID: "call_1", Function: schema.FunctionCall{Name: name, Arguments: args}}
}

func TestExecuteShoppingLookupSerializesProducts(t *testing.T) {
	ex := NewExecutor(&fakeRetriever{products: []model.Product{
		{Name: "Tomate", Price: "1200", Discount: "10%", Link: "l", Image: "i"},
	}})

	res := ex.ExecuteShopping(context.Background(), call(ToolProductLookup, `{"query":"tomate"}`))

	assert.Equal(t, "call_1", res.CallID)
	assert.Nil(t, res.Effect, "lookup is read-only")

	var products []model.Product
	require.NoError(t, json.Unmarshal([]byte(res.Content), &products))
	require.Len(t, products, 1)
	assert.Equal(t, "Tomate", products[0].Name)
}

func TestExecuteShoppingLookupFailureIsErrorString(t *testing.T) {
	ex := NewExecutor(&fakeRetriever{err: errors.New("backend down")})

	res := ex.ExecuteShopping(context.Background(), call(ToolProductLookup, `{"query":"tomate"}`))

	assert.Contains(t, res.Content, "lookup_failed")
	assert.Nil(t, res.Effect)
}

func TestExecuteShoppingAddProductEffect(t *testing.T) {
	ex := NewExecutor(&fakeRetriever{})

	res := ex.ExecuteShopping(context.Background(), call(ToolAddProduct,
		`{"name":"Tomate","quantity":"2","price":"1200","link":"l"}`))

	assert.Equal(t, "Added Tomate", res.Content)
	require.NotNil(t, res.Effect)

	cart := res.Effect(nil)
	require.Len(t, cart, 1)
	assert.Equal(t, model.CartItem{Name: "Tomate", Quantity: "2", Price: "1200", Link: "l"}, cart[0])
}

func TestExecuteShoppingRemoveProductEffect(t *testing.T) {
	ex := NewExecutor(&fakeRetriever{})
	cart := []model.CartItem{{Name: "Tomate", Quantity: "2"}, {Name: "Pan", Quantity: "1"}}

	res := ex.ExecuteShopping(context.Background(), call(ToolRemoveProduct, `{"name":"tomate"}`))

	require.NotNil(t, res.Effect)
	out := res.Effect(cart)
	require.Len(t, out, 1)
	assert.Equal(t, "Pan", out[0].Name)
}

func TestExecuteShoppingChangeQuantityEffect(t *testing.T) {
	ex := NewExecutor(&fakeRetriever{})
	cart := []model.CartItem{{Name: "Tomate", Quantity: "2"}}

	res := ex.ExecuteShopping(context.Background(), call(ToolChangeQuantity, `{"name":"Tomate","quantity":"5"}`))

	require.NotNil(t, res.Effect)
	out := res.Effect(cart)
	assert.Equal(t, "5", out[0].Quantity)
}

func TestExecuteShoppingBadArguments(t *testing.T) {
	ex := NewExecutor(&fakeRetriever{})

	res := ex.ExecuteShopping(context.Background(), call(ToolAddProduct, `not json`))
	assert.Contains(t, res.Content, "bad_arguments")
	assert.Nil(t, res.Effect)

	res = ex.ExecuteShopping(context.Background(), call(ToolAddProduct, `{"name":""}`))
	assert.Contains(t, res.Content, "bad_arguments")
}

func TestExecuteShoppingUnknownToolAcknowledged(t *testing.T) {
	ex := NewExecutor(&fakeRetriever{})

	res := ex.ExecuteShopping(context.Background(), call("fly_to_the_moon", `{}`))

	assert.Contains(t, res.Content, "unknown_tool")
	assert.Nil(t, res.Effect)
}

func TestExecuteMemoryFormatsPair(t *testing.T) {
	ex := NewExecutor(&fakeRetriever{})

	res := ex.ExecuteMemory(context.Background(), call(ToolSaveMemory,
		`{"user_id":"u1","content":"es celíaca","context":"restricción alimentaria"}`))

	assert.Equal(t, "es celíaca|restricción alimentaria", res.Content)
}

func TestExecuteMemoryBadInput(t *testing.T) {
	ex := NewExecutor(&fakeRetriever{})

	res := ex.ExecuteMemory(context.Background(), call(ToolSaveMemory, `{"content":""}`))
	assert.Contains(t, res.Content, "ERROR|")

	res = ex.ExecuteMemory(context.Background(), call("add_product", `{}`))
	assert.Contains(t, res.Content, "ERROR|")
}

func TestParseKindExhaustive(t *testing.T) {
	cases := map[string]Kind{
		ToolProductLookup:  KindProductLookup,
		ToolAddProduct:     KindAddProduct,
		ToolRemoveProduct:  KindRemoveProduct,
		ToolChangeQuantity: KindChangeQuantity,
		ToolSaveMemory:     KindSaveMemory,
		"anything else":    KindUnknown,
	}
	for name, want := range cases {
		assert.Equal(t, want, ParseKind(name), name)
	}

	assert.True(t, KindProductLookup.IsShopping())
	assert.True(t, KindAddProduct.IsShopping())
	assert.True(t, KindRemoveProduct.IsShopping())
	assert.True(t, KindChangeQuantity.IsShopping())
	assert.False(t, KindSaveMemory.IsShopping())
	assert.False(t, KindUnknown.IsShopping())
}
