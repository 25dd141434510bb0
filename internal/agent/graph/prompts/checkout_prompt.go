package prompts

import (
	"context"
	_ "embed"
	"strings"

	"github.com/frizbee-ai/server/internal/agent/model"
)

//go:embed template/checkout_key_prompt.txt
var checkoutKeyPrompt string

//go:embed template/summary_prompt.txt
var summaryPrompt string

//go:embed template/cart_json_prompt.txt
var cartJSONPrompt string

//go:embed template/farewell_prompt.txt
var farewellPrompt string

// RenderCheckoutKeySystem renders the prompt that presents the cart and the
// freshly generated confirmation code to the user.
func RenderCheckoutKeySystem(ctx context.Context, cart []model.CartItem, code string) (string, error) {
	content := strings.NewReplacer(
		"{cart}", FormatCart(cart),
		"{code}", code,
	).Replace(checkoutKeyPrompt)
	return renderSystem(ctx, content)
}

// RenderSummarySystem renders the prompt that distills a finished
// conversation into preference bullet points.
func RenderSummarySystem(ctx context.Context, conversation string) (string, error) {
	content := strings.NewReplacer(
		"{conversation}", conversation,
	).Replace(summaryPrompt)
	return renderSystem(ctx, content)
}

// RenderCartJSONSystem renders the prompt asking the model to emit the cart
// as purchase-robot JSON.
func RenderCartJSONSystem(ctx context.Context) (string, error) {
	return renderSystem(ctx, cartJSONPrompt)
}

// RenderFarewellSystem renders the post-purchase farewell prompt.
func RenderFarewellSystem(ctx context.Context) (string, error) {
	return renderSystem(ctx, farewellPrompt)
}
