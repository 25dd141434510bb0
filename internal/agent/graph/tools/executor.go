package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/schema"

	"github.com/frizbee-ai/server/internal/agent/model"
	logx "github.com/frizbee-ai/server/pkg/logger"
)

// CartEffect is the deferred cart mutation produced by one tool call. The
// dispatcher applies effects one at a time on its coordinating goroutine,
// in result-completion order, so concurrent calls never race on the cart.
type CartEffect func(cart []model.CartItem) []model.CartItem

// CallResult is the outcome of executing one tool call: the tool message
// content correlated by call-id, plus the cart effect (nil for read-only
// tools and for failed calls).
type CallResult struct {
	CallID  string
	Content string
	Effect  CartEffect
}

// Executor executes shopping and memory tool calls. Faults at the tool
// boundary are converted to error-tagged result strings so the model can
// react conversationally; they never abort the turn.
type Executor struct {
	retriever ProductRetriever
}

// NewExecutor builds an executor over the given retrieval backend.
func NewExecutor(retriever ProductRetriever) *Executor {
	return &Executor{retriever: retriever}
}

type productLookupInput struct {
	Query string `json:"query"`
}

type addProductInput struct {
	Name     string `json:"name"`
	Quantity string `json:"quantity"`
	Price    string `json:"price"`
	Link     string `json:"link"`
}

type removeProductInput struct {
	Name string `json:"name"`
}

type changeQuantityInput struct {
	Name     string `json:"name"`
	Quantity string `json:"quantity"`
}

// ExecuteShopping runs one shopping tool call and returns its result. The
// switch over Kind is exhaustive for the shopping set; unknown names yield
// an acknowledged no-op result.
func (e *Executor) ExecuteShopping(ctx context.Context, call schema.ToolCall) CallResult {
	res := CallResult{CallID: call.ID}

	switch kind := ParseKind(call.Function.Name); kind {
	case KindProductLookup:
		var in productLookupInput
		if err := json.Unmarshal([]byte(call.Function.Arguments), &in); err != nil {
			res.Content = errResult("bad_arguments", err)
			return res
		}
		res.Content = e.lookup(ctx, strings.TrimSpace(in.Query))

	case KindAddProduct:
		var in addProductInput
		if err := json.Unmarshal([]byte(call.Function.Arguments), &in); err != nil {
			res.Content = errResult("bad_arguments", err)
			return res
		}
		if strings.TrimSpace(in.Name) == "" {
			res.Content = errResult("bad_arguments", fmt.Errorf("name is required"))
			return res
		}
		item := model.CartItem{Name: in.Name, Quantity: in.Quantity, Price: in.Price, Link: in.Link}
		res.Content = fmt.Sprintf("Added %s", in.Name)
		res.Effect = func(cart []model.CartItem) []model.CartItem {
			return model.AddItem(cart, item)
		}

	case KindRemoveProduct:
		var in removeProductInput
		if err := json.Unmarshal([]byte(call.Function.Arguments), &in); err != nil {
			res.Content = errResult("bad_arguments", err)
			return res
		}
		// Silent no-match: confirmation either way, per the cart contract.
		res.Content = fmt.Sprintf("Removed %s", in.Name)
		res.Effect = func(cart []model.CartItem) []model.CartItem {
			out, removed := model.RemoveItem(cart, in.Name)
			if removed == 0 {
				logx.Debug().Str("name", in.Name).Msg("remove_product: no matching item")
			}
			return out
		}

	case KindChangeQuantity:
		var in changeQuantityInput
		if err := json.Unmarshal([]byte(call.Function.Arguments), &in); err != nil {
			res.Content = errResult("bad_arguments", err)
			return res
		}
		res.Content = fmt.Sprintf("Set quantity of %s to %s", in.Name, in.Quantity)
		res.Effect = func(cart []model.CartItem) []model.CartItem {
			out, updated := model.ChangeQuantity(cart, in.Name, in.Quantity)
			if updated == 0 {
				logx.Debug().Str("name", in.Name).Msg("change_quantity: no matching item")
			}
			return out
		}

	case KindSaveMemory, KindUnknown:
		// Not part of the shopping set; acknowledge so the model can proceed.
		res.Content = fmt.Sprintf("{\"error\":\"unknown_tool\",\"name\":%q,\"note\":\"ignored\"}", call.Function.Name)

	default:
		res.Content = fmt.Sprintf("{\"error\":\"unknown_tool\",\"name\":%q,\"note\":\"ignored\"}", call.Function.Name)
	}

	return res
}

// lookup queries the retrieval backend and serializes the matches. A backend
// failure becomes an error string the model is prompted to handle ("Producto
// no encontrado"); products are never fabricated.
func (e *Executor) lookup(ctx context.Context, query string) string {
	if query == "" {
		return errResult("bad_arguments", fmt.Errorf("query is required"))
	}
	products, err := e.retriever.Lookup(ctx, query)
	if err != nil {
		logx.Error().Err(err).Str("query", query).Msg("Product lookup failed")
		return errResult("lookup_failed", err)
	}
	if len(products) > DefaultTopK {
		products = products[:DefaultTopK]
	}
	b, err := json.Marshal(products)
	if err != nil {
		return errResult("serialize_failed", err)
	}
	return string(b)
}

type saveMemoryInput struct {
	UserID  string `json:"user_id"`
	Content string `json:"content"`
	Context string `json:"context"`
}

// ExecuteMemory runs one save_to_memory call. The result is the
// "content|context" pair the save_memory node folds into the preferences
// block, or an ERROR|-prefixed string the node acknowledges but skips.
func (e *Executor) ExecuteMemory(ctx context.Context, call schema.ToolCall) CallResult {
	res := CallResult{CallID: call.ID}

	if ParseKind(call.Function.Name) != KindSaveMemory {
		res.Content = fmt.Sprintf("ERROR|unknown tool %s", call.Function.Name)
		return res
	}

	var in saveMemoryInput
	if err := json.Unmarshal([]byte(call.Function.Arguments), &in); err != nil {
		res.Content = fmt.Sprintf("ERROR|%v", err)
		return res
	}
	if strings.TrimSpace(in.Content) == "" {
		res.Content = "ERROR|empty content"
		return res
	}

	res.Content = fmt.Sprintf("%s|%s", in.Content, in.Context)
	return res
}

func errResult(code string, err error) string {
	return fmt.Sprintf("{\"error\":%q,\"detail\":%q}", code, err.Error())
}
