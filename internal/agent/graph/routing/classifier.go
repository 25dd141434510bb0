package routing

import (
	"context"
	"fmt"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"github.com/frizbee-ai/server/internal/agent/graph/parsers"
	"github.com/frizbee-ai/server/internal/agent/graph/prompts"
	logx "github.com/frizbee-ai/server/pkg/logger"
)

// decisionToolName is the function the router model is forced to call so
// its answer arrives as structured arguments instead of free text.
const decisionToolName = "determine_next_node"

// Classifier asks a small model which flow the turn belongs to. The model is
// held behind BaseChatModel so tests can substitute a canned implementation.
type Classifier struct {
	model einomodel.BaseChatModel
}

func NewClassifier(m einomodel.BaseChatModel) *Classifier {
	return &Classifier{model: m}
}

// Classify runs the routing model over the recent-message window and returns
// its decision. First-time users (returning=false) may also be routed to the
// preference-collection flow; returning users only ever get shopping or end.
// Classification failures degrade to DecisionNone so the caller can fall
// back to the previous route instead of failing the turn.
func (c *Classifier) Classify(ctx context.Context, returning bool, window []*schema.Message) Decision {
	system, err := prompts.RenderRouterSystem(ctx, returning)
	if err != nil {
		logx.Error().Err(err).Msg("router: render system prompt failed")
		return DecisionNone
	}

	msgs := make([]*schema.Message, 0, len(window)+1)
	msgs = append(msgs, schema.SystemMessage(system))
	msgs = append(msgs, window...)

	reply, err := c.model.Generate(ctx, msgs,
		einomodel.WithTools([]*schema.ToolInfo{decisionToolInfo(returning)}),
		einomodel.WithToolChoice(schema.ToolChoiceForced),
	)
	if err != nil {
		logx.Error().Err(err).Msg("router: classification call failed")
		return DecisionNone
	}

	return Decision(parsers.ParseDecision(reply))
}

// decisionToolInfo builds the forced-call schema. The enum narrows to two
// values for returning users, matching the two-way router prompt.
func decisionToolInfo(returning bool) *schema.ToolInfo {
	enum := []string{string(DecisionShopping), string(DecisionLong), string(DecisionEnd)}
	if returning {
		enum = []string{string(DecisionShopping), string(DecisionEnd)}
	}
	return &schema.ToolInfo{
		Name: decisionToolName,
		Desc: "Determina el siguiente nodo de la conversación.",
		ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
			"decision": {
				Type:     schema.String,
				Desc:     fmt.Sprintf("Flujo al que pertenece el turno. Uno de: %v.", enum),
				Enum:     enum,
				Required: true,
			},
		}),
	}
}
