package nodes

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	"github.com/frizbee-ai/server/internal/agent/graph/conversations"
	"github.com/frizbee-ai/server/internal/agent/graph/prompts"
	"github.com/frizbee-ai/server/internal/agent/graph/routing"
	"github.com/frizbee-ai/server/internal/agent/model"
	logx "github.com/frizbee-ai/server/pkg/logger"
)

// NewIntakePreHandler seeds the turn state from the input snapshot and
// appends the new user message. The caller has already persisted the user
// message, so BaseMessages includes it and the collector only reports
// messages produced by this turn's nodes.
func NewIntakePreHandler() func(context.Context, model.TurnInput, *model.TurnState) (model.TurnInput, error) {
	return func(ctx context.Context, in model.TurnInput, s *model.TurnState) (model.TurnInput, error) {
		s.SessionID = in.SessionID
		s.UserID = in.UserID

		s.Messages = make([]*schema.Message, 0, len(in.History)+1)
		s.Messages = append(s.Messages, in.History...)
		s.Messages = append(s.Messages, schema.UserMessage(in.Query))
		s.BaseMessages = len(s.Messages)

		s.Cart = model.CloneCart(in.Cart)
		s.Preferences = in.Preferences
		s.Summaries = in.Summaries
		s.OldCarts = in.OldCarts
		s.CheckoutKey = in.CheckoutKey
		s.LastRoute = in.LastRoute

		s.ToolCallIDSeq = 0
		s.ToolRounds = 0
		s.TotalCostUSD = 0
		return in, nil
	}
}

// NewIntakeNode routes the turn. The confirmation-code echo is checked
// before spending a model call; otherwise the classifier decides over the
// recent window and the pure transition function maps its word (or the
// fallback) to a route, recorded on state for the branch condition and for
// persistence.
func NewIntakeNode(classifier *routing.Classifier, cb *conversations.ContextBuilder) *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, in model.TurnInput) ([]*schema.Message, error) {
		var (
			window      []*schema.Message
			checkoutKey string
			returning   bool
			last        routing.Route
		)
		err := compose.ProcessState(ctx, func(_ context.Context, s *model.TurnState) error {
			window = cb.RouterWindow(s.Messages)
			checkoutKey = s.CheckoutKey
			returning = len(s.OldCarts) > 0
			last = routing.ParseRoute(s.LastRoute)
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to access state: %w", err)
		}

		decided := routing.DecisionNone
		if !routing.KeyEchoed(in.Query, checkoutKey) {
			decided = classifier.Classify(ctx, returning, window)
		}
		route := routing.InitialRoute(in.Query, checkoutKey, decided, last)

		logx.Debug().
			Str("session_id", in.SessionID).
			Str("decision", string(decided)).
			Str("route", route.String()).
			Bool("returning", returning).
			Msg("Turn routed")

		err = compose.ProcessState(ctx, func(_ context.Context, s *model.TurnState) error {
			s.LastRoute = route.String()
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to access state: %w", err)
		}
		return window, nil
	})
}

// NewInitialRouteCondition maps the route recorded by intake to a node name.
func NewInitialRouteCondition() func(context.Context, []*schema.Message) (string, error) {
	return func(ctx context.Context, _ []*schema.Message) (string, error) {
		var route routing.Route
		err := compose.ProcessState(ctx, func(_ context.Context, s *model.TurnState) error {
			route = routing.ParseRoute(s.LastRoute)
			return nil
		})
		if err != nil {
			return "", fmt.Errorf("failed to access state: %w", err)
		}

		switch route {
		case routing.RoutePreferences:
			return NodePreferences, nil
		case routing.RouteCheckoutCode:
			return NodeCreateKey, nil
		case routing.RouteCheckoutSummary:
			return NodeCreateSummary, nil
		default:
			return NodeShopping, nil
		}
	}
}

// NewShoppingPreHandler rebuilds the shopping model's input from state: the
// system prompt with the user's stored context plus the recent message
// window. The edge input is ignored; state is the source of truth.
func NewShoppingPreHandler(cb *conversations.ContextBuilder, maxRounds int) func(context.Context, []*schema.Message, *model.TurnState) ([]*schema.Message, error) {
	return func(ctx context.Context, _ []*schema.Message, s *model.TurnState) ([]*schema.Message, error) {
		system, err := prompts.RenderShoppingSystem(ctx, s.UserID, s.Preferences, s.OldCarts, s.Summaries)
		if err != nil {
			return nil, fmt.Errorf("render shopping system prompt: %w", err)
		}

		window := cb.ShoppingWindow(system, s.Messages)
		if toolLimitReached(s, maxRounds) {
			window = append(window, wrapUpNotice(maxRounds))
		}

		logx.Debug().Msg("AI thinking...")
		return window, nil
	}
}

// NewPreferencesPreHandler rebuilds the preference model's input: onboarding
// prompt plus the full history.
func NewPreferencesPreHandler(cb *conversations.ContextBuilder, maxRounds int) func(context.Context, []*schema.Message, *model.TurnState) ([]*schema.Message, error) {
	return func(ctx context.Context, _ []*schema.Message, s *model.TurnState) ([]*schema.Message, error) {
		system, err := prompts.RenderPreferencesSystem(ctx, s.UserID)
		if err != nil {
			return nil, fmt.Errorf("render preferences system prompt: %w", err)
		}

		window := cb.PreferencesContext(system, s.Messages)
		if toolLimitReached(s, maxRounds) {
			window = append(window, wrapUpNotice(maxRounds))
		}
		return window, nil
	}
}

// NewChatModelPostHandler logs usage cost, normalizes tool-call ids and
// appends the model reply to the turn's message log.
func NewChatModelPostHandler(node, modelName string) func(context.Context, *schema.Message, *model.TurnState) (*schema.Message, error) {
	return func(ctx context.Context, out *schema.Message, s *model.TurnState) (*schema.Message, error) {
		logUsageCost(out, s, node, modelName)
		normalizeToolCallIDs(out, s)

		if out != nil {
			s.Messages = append(s.Messages, out)
			if len(out.ToolCalls) > 0 {
				logx.Debug().Int("tool_count", len(out.ToolCalls)).Str("node", node).Msg("Calling tools")
			} else {
				logx.Debug().Str("node", node).Msg("AI response ready")
			}
		}
		return out, nil
	}
}

// NewShoppingToolCondition routes the shopping reply: dispatch its tool
// calls, or end the turn when there are none, the first call is outside the
// shopping set, or the round limit is spent.
func NewShoppingToolCondition(maxRounds int) func(context.Context, *schema.Message) (string, error) {
	return func(ctx context.Context, input *schema.Message) (string, error) {
		var limitReached bool
		err := compose.ProcessState(ctx, func(_ context.Context, s *model.TurnState) error {
			limitReached = toolLimitReached(s, maxRounds)
			return nil
		})
		if err != nil {
			return "", fmt.Errorf("failed to access state: %w", err)
		}

		if limitReached {
			logx.Debug().Msg("Tool round limit reached - routing to collect")
			return NodeCollect, nil
		}
		if routing.HasShoppingToolCalls(input) {
			return NodeShoppingTools, nil
		}
		return NodeCollect, nil
	}
}

// NewPreferenceToolCondition routes the preference reply to the memory
// dispatcher when it carries save_to_memory calls.
func NewPreferenceToolCondition(maxRounds int) func(context.Context, *schema.Message) (string, error) {
	return func(ctx context.Context, input *schema.Message) (string, error) {
		var limitReached bool
		err := compose.ProcessState(ctx, func(_ context.Context, s *model.TurnState) error {
			limitReached = toolLimitReached(s, maxRounds)
			return nil
		})
		if err != nil {
			return "", fmt.Errorf("failed to access state: %w", err)
		}

		if limitReached {
			logx.Debug().Msg("Tool round limit reached - routing to collect")
			return NodeCollect, nil
		}
		if routing.HasPreferenceToolCalls(input) {
			return NodeSaveMemory, nil
		}
		return NodeCollect, nil
	}
}

// NewCollectNode assembles the turn result from final state. The reply is
// the last assistant message with content produced this turn.
func NewCollectNode() *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, _ *schema.Message) (*model.TurnResult, error) {
		var result *model.TurnResult
		err := compose.ProcessState(ctx, func(_ context.Context, s *model.TurnState) error {
			newMessages := make([]*schema.Message, 0)
			if s.BaseMessages <= len(s.Messages) {
				newMessages = append(newMessages, s.Messages[s.BaseMessages:]...)
			}

			reply := ""
			for i := len(newMessages) - 1; i >= 0; i-- {
				msg := newMessages[i]
				if msg != nil && msg.Role == schema.Assistant && strings.TrimSpace(msg.Content) != "" {
					reply = msg.Content
					break
				}
			}

			result = &model.TurnResult{
				Reply:       reply,
				NewMessages: newMessages,
				Cart:        model.CloneCart(s.Cart),
				Preferences: s.Preferences,
				CheckoutKey: s.CheckoutKey,
				LastRoute:   s.LastRoute,
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to access state: %w", err)
		}
		return result, nil
	})
}

func wrapUpNotice(maxRounds int) *schema.Message {
	return &schema.Message{
		Role: schema.System,
		Content: fmt.Sprintf(
			"SYSTEM NOTICE: You have reached the maximum tool round limit (%d). "+
				"Please synthesize a helpful response using the information you've already gathered. "+
				"Acknowledge any limitations in your response if you couldn't complete all necessary tool calls.",
			normalizeMaxRounds(maxRounds),
		),
	}
}
