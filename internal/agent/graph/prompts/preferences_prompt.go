package prompts

import (
	"context"
	_ "embed"
	"strings"
)

//go:embed template/preferences_prompt.txt
var preferencesSystemPrompt string

// RenderPreferencesSystem renders the onboarding system prompt that drives
// preference collection for first-time users.
func RenderPreferencesSystem(ctx context.Context, userID string) (string, error) {
	content := strings.NewReplacer(
		"{user_id}", userID,
	).Replace(preferencesSystemPrompt)
	return renderSystem(ctx, content)
}
