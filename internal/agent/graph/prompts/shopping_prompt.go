package prompts

import (
	"context"
	_ "embed"
	"fmt"
	"strings"

	"github.com/frizbee-ai/server/internal/agent/model"
)

//go:embed template/shopping_prompt.txt
var shoppingSystemPrompt string

// RenderShoppingSystem renders the cart-building system prompt with the
// user's stored preferences, their most recent completed cart and prior
// conversation summaries substituted in.
func RenderShoppingSystem(ctx context.Context, userID, preferences string, oldCarts []model.ArchivedCart, summaries []model.Summary) (string, error) {
	// Safely render known tokens only to avoid interfering with JSON braces in template
	content := strings.NewReplacer(
		"{user_preferences}", orNone(preferences),
		"{user_id}", userID,
		"{old_cart}", FormatOldCarts(oldCarts),
		"{summaries}", FormatSummaries(summaries),
	).Replace(shoppingSystemPrompt)
	return renderSystem(ctx, content)
}

func orNone(s string) string {
	if strings.TrimSpace(s) == "" {
		return "ninguna"
	}
	return s
}

// FormatCart renders cart items as bullet lines for prompt injection.
func FormatCart(items []model.CartItem) string {
	if len(items) == 0 {
		return "(vacío)"
	}
	var b strings.Builder
	for _, it := range items {
		fmt.Fprintf(&b, "- %s (cantidad: %s) precio: %s link: %s\n", it.Name, it.Quantity, it.Price, it.Link)
	}
	return strings.TrimRight(b.String(), "\n")
}

// FormatOldCarts renders the newest completed cart, or a placeholder when
// the user has never checked out.
func FormatOldCarts(carts []model.ArchivedCart) string {
	if len(carts) == 0 {
		return "ninguno"
	}
	return FormatCart(carts[0].Items)
}

// FormatSummaries joins stored conversation summaries, oldest first.
func FormatSummaries(summaries []model.Summary) string {
	if len(summaries) == 0 {
		return "ninguno"
	}
	parts := make([]string, 0, len(summaries))
	for _, s := range summaries {
		if strings.TrimSpace(s.Content) == "" {
			continue
		}
		parts = append(parts, s.Content)
	}
	if len(parts) == 0 {
		return "ninguno"
	}
	return strings.Join(parts, "\n")
}
