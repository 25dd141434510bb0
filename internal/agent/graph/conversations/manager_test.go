package conversations

import (
	"fmt"
	"testing"

	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/frizbee-ai/server/internal/agent/model"
)

func testBuilder() *ContextBuilder {
	var cfg model.ConversationConfig
	cfg.Router.MaxTurns = 4
	cfg.Shopping.MaxTurns = 20
	return NewContextBuilder(cfg)
}

func conversation(n int) []*schema.Message {
	msgs := make([]*schema.Message, 0, n)
	for i := 0; i < n; i++ {
		if i%2 == 0 {
			msgs = append(msgs, schema.UserMessage(fmt.Sprintf("user %d", i)))
		} else {
			msgs = append(msgs, schema.AssistantMessage(fmt.Sprintf("assistant %d", i), nil))
		}
	}
	return msgs
}

func TestRouterWindowKeepsLastFourSurfaceMessages(t *testing.T) {
	cb := testBuilder()

	window := cb.RouterWindow(conversation(10))

	require.Len(t, window, 4)
	assert.Equal(t, "user 6", window[0].Content)
	assert.Equal(t, "assistant 9", window[3].Content)
}

func TestRouterWindowStripsToolTraffic(t *testing.T) {
	cb := testBuilder()
	msgs := []*schema.Message{
		schema.UserMessage("hola"),
		schema.AssistantMessage("", []schema.ToolCall{{ID: "1"}}),
		schema.ToolMessage("result", "1"),
		schema.AssistantMessage("listo", nil),
	}

	window := cb.RouterWindow(msgs)

	require.Len(t, window, 2)
	assert.Equal(t, schema.User, window[0].Role)
	assert.Equal(t, "listo", window[1].Content)
}

func TestShoppingWindowPrependsSystemAndTrims(t *testing.T) {
	cb := testBuilder()

	window := cb.ShoppingWindow("system prompt", conversation(30))

	require.Len(t, window, 21)
	assert.Equal(t, schema.System, window[0].Role)
	assert.Equal(t, "system prompt", window[0].Content)
	assert.Equal(t, "user 10", window[1].Content)
}

func TestPreferencesContextKeepsFullHistory(t *testing.T) {
	cb := testBuilder()

	window := cb.PreferencesContext("system prompt", conversation(30))

	require.Len(t, window, 31)
	assert.Equal(t, schema.System, window[0].Role)
	assert.Equal(t, "user 0", window[1].Content)
}

func TestTranscriptFlattensSurface(t *testing.T) {
	msgs := []*schema.Message{
		schema.UserMessage("quiero tomates"),
		schema.ToolMessage("ignored", "1"),
		schema.AssistantMessage("agregado", nil),
	}

	got := Transcript(msgs)

	assert.Equal(t, "Usuario: quiero tomates\nAsistente: agregado", got)
}

func TestTrimTailHandlesShortInput(t *testing.T) {
	cb := testBuilder()

	window := cb.RouterWindow(conversation(2))
	assert.Len(t, window, 2)

	assert.Empty(t, cb.RouterWindow(nil))
}
