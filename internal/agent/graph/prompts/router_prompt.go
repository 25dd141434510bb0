package prompts

import (
	"context"
	_ "embed"
)

//go:embed template/router_first.txt
var routerFirstPrompt string

//go:embed template/router_returning.txt
var routerReturningPrompt string

// RenderRouterSystem renders the turn-routing system prompt. First-time users
// get the three-way prompt (shopping/long/end); returning users, who already
// have stored preferences, get the two-way one (shopping/end).
func RenderRouterSystem(ctx context.Context, returning bool) (string, error) {
	if returning {
		return renderSystem(ctx, routerReturningPrompt)
	}
	return renderSystem(ctx, routerFirstPrompt)
}
