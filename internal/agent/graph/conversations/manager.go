package conversations

import (
	"strings"

	"github.com/cloudwego/eino/schema"

	"github.com/frizbee-ai/server/internal/agent/model"
)

// ContextBuilder slices the turn's message history into the windows each
// model sees. Window sizes come from config so environments can tune them
// without a rebuild.
type ContextBuilder struct {
	routerMaxTurns   int
	shoppingMaxTurns int
}

func NewContextBuilder(config model.ConversationConfig) *ContextBuilder {
	return &ContextBuilder{
		routerMaxTurns:   config.Router.MaxTurns,
		shoppingMaxTurns: config.Shopping.MaxTurns,
	}
}

// RouterWindow returns the recent user/assistant exchange the routing model
// classifies. Tool traffic and system prompts are stripped: the router only
// needs the conversational surface.
func (cb *ContextBuilder) RouterWindow(messages []*schema.Message) []*schema.Message {
	surface := make([]*schema.Message, 0, len(messages))
	for _, msg := range messages {
		if msg == nil || msg.Content == "" {
			continue
		}
		switch msg.Role {
		case schema.User, schema.Assistant:
			surface = append(surface, &schema.Message{Role: msg.Role, Content: msg.Content})
		}
	}
	return trimTail(surface, cb.routerMaxTurns)
}

// ShoppingWindow prepends the system prompt to the recent slice of the full
// history (tool calls and results included, so the model sees its own cart
// mutations).
func (cb *ContextBuilder) ShoppingWindow(systemPrompt string, messages []*schema.Message) []*schema.Message {
	recent := trimTail(messages, cb.shoppingMaxTurns)
	out := make([]*schema.Message, 0, len(recent)+1)
	out = append(out, schema.SystemMessage(systemPrompt))
	out = append(out, recent...)
	return out
}

// PreferencesContext prepends the system prompt to the full history.
// Onboarding conversations are short and the collection model needs
// everything the user has said so far.
func (cb *ContextBuilder) PreferencesContext(systemPrompt string, messages []*schema.Message) []*schema.Message {
	out := make([]*schema.Message, 0, len(messages)+1)
	out = append(out, schema.SystemMessage(systemPrompt))
	out = append(out, messages...)
	return out
}

// Transcript flattens user/assistant content into the plain-text form the
// summary prompt consumes.
func Transcript(messages []*schema.Message) string {
	var b strings.Builder
	for _, msg := range messages {
		if msg == nil || msg.Content == "" {
			continue
		}
		switch msg.Role {
		case schema.User:
			b.WriteString("Usuario: " + msg.Content + "\n")
		case schema.Assistant:
			b.WriteString("Asistente: " + msg.Content + "\n")
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func trimTail(messages []*schema.Message, maxTurns int) []*schema.Message {
	if maxTurns <= 0 || len(messages) <= maxTurns {
		result := make([]*schema.Message, len(messages))
		copy(result, messages)
		return result
	}
	source := messages[len(messages)-maxTurns:]
	result := make([]*schema.Message, len(source))
	copy(result, source)
	return result
}
