package parsers

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/frizbee-ai/server/internal/agent/model"
)

// checkoutCart is the structured-output contract of the checkout model:
// {"carrito":[{"nombre":...,"precio":...,"link":...}]}
type checkoutCart struct {
	Carrito []checkoutItem `json:"carrito"`
}

type checkoutItem struct {
	Nombre string          `json:"nombre"`
	Precio json.RawMessage `json:"precio"`
	Link   string          `json:"link"`
}

// ParseCheckoutCart parses the model-rendered final cart JSON. Markdown
// fences are tolerated; prices may arrive as JSON numbers or strings.
// Items without a name are dropped. An empty carrito is valid (empty-cart
// checkout still completes with an empty archived cart).
func ParseCheckoutCart(content string) ([]model.CartItem, error) {
	raw := stripFences(content)
	if raw == "" {
		return nil, fmt.Errorf("empty checkout cart payload")
	}

	var cart checkoutCart
	if err := json.Unmarshal([]byte(raw), &cart); err != nil {
		return nil, fmt.Errorf("decode checkout cart: %w", err)
	}

	items := make([]model.CartItem, 0, len(cart.Carrito))
	for _, it := range cart.Carrito {
		name := strings.TrimSpace(it.Nombre)
		if name == "" {
			continue
		}
		items = append(items, model.CartItem{
			Name:  name,
			Price: rawToString(it.Precio),
			Link:  it.Link,
		})
	}
	return items, nil
}

// stripFences removes a surrounding ```json ... ``` block when present.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func rawToString(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var asString string
	if err := json.Unmarshal(raw, &asString); err == nil {
		return asString
	}
	return strings.TrimSpace(string(raw))
}
