package parsers

import (
	"testing"

	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
)

func decisionCall(args string) *schema.Message {
	return schema.AssistantMessage("", []schema.ToolCall{
		{ID: "1", Function: schema.FunctionCall{Name: "determine_next_node", Arguments: args}},
	})
}

func TestParseDecisionFromToolCall(t *testing.T) {
	assert.Equal(t, "shopping", ParseDecision(decisionCall(`{"decision":"shopping"}`)))
	assert.Equal(t, "long", ParseDecision(decisionCall(`{"decision":"long"}`)))
	assert.Equal(t, "end", ParseDecision(decisionCall(`{"decision":"end"}`)))
}

func TestParseDecisionNormalizesCasingAndPadding(t *testing.T) {
	assert.Equal(t, "shopping", ParseDecision(decisionCall(`{"decision":" Shopping "}`)))
	assert.Equal(t, "end", ParseDecision(decisionCall(`{"decision":"end."}`)))
}

func TestParseDecisionContentFallback(t *testing.T) {
	assert.Equal(t, "shopping", ParseDecision(schema.AssistantMessage("shopping\n", nil)))
	assert.Equal(t, "end", ParseDecision(schema.AssistantMessage("End. El usuario quiere terminar.", nil)))
}

func TestParseDecisionPunctuatedFirstWord(t *testing.T) {
	// Punctuation glued to the first word must not defeat the enum match.
	assert.Equal(t, "shopping", ParseDecision(schema.AssistantMessage("Shopping, claro", nil)))
	assert.Equal(t, "end", ParseDecision(schema.AssistantMessage("\"end\".", nil)))
	assert.Equal(t, "long", ParseDecision(schema.AssistantMessage("long.", nil)))
}

func TestParseDecisionOutOfEnumIsEmpty(t *testing.T) {
	assert.Equal(t, "", ParseDecision(decisionCall(`{"decision":"checkout"}`)))
	assert.Equal(t, "", ParseDecision(decisionCall(`not json`)))
	assert.Equal(t, "", ParseDecision(schema.AssistantMessage("no lo se", nil)))
	assert.Equal(t, "", ParseDecision(nil))
}

func TestParseDecisionIgnoresOtherToolCalls(t *testing.T) {
	msg := schema.AssistantMessage("", []schema.ToolCall{
		{ID: "1", Function: schema.FunctionCall{Name: "add_product", Arguments: `{"decision":"end"}`}},
	})
	assert.Equal(t, "", ParseDecision(msg))
}
