package routing

import (
	"context"
	"errors"
	"testing"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubModel struct {
	reply *schema.Message
	err   error
	got   []*schema.Message
}

func (s *stubModel) Generate(ctx context.Context, in []*schema.Message, opts ...einomodel.Option) (*schema.Message, error) {
	s.got = in
	return s.reply, s.err
}

func (s *stubModel) Stream(ctx context.Context, in []*schema.Message, opts ...einomodel.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, errors.New("not implemented")
}

func TestClassifyParsesForcedToolCall(t *testing.T) {
	stub := &stubModel{reply: schema.AssistantMessage("", []schema.ToolCall{
		{ID: "1", Function: schema.FunctionCall{Name: "determine_next_node", Arguments: `{"decision":"end"}`}},
	})}
	c := NewClassifier(stub)

	decided := c.Classify(context.Background(), true, []*schema.Message{schema.UserMessage("listo, eso es todo")})

	assert.Equal(t, DecisionEnd, decided)
	require.NotEmpty(t, stub.got)
	assert.Equal(t, schema.System, stub.got[0].Role, "system prompt leads the window")
}

func TestClassifyModelFailureDegradesToNone(t *testing.T) {
	c := NewClassifier(&stubModel{err: errors.New("quota")})

	decided := c.Classify(context.Background(), false, nil)

	assert.Equal(t, DecisionNone, decided)
}

func TestClassifyOutOfEnumIsNone(t *testing.T) {
	c := NewClassifier(&stubModel{reply: schema.AssistantMessage("checkout", nil)})

	decided := c.Classify(context.Background(), false, nil)

	assert.Equal(t, DecisionNone, decided)
}
