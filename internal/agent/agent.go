package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/schema"
	"github.com/google/uuid"

	"github.com/frizbee-ai/server/internal/agent/graph"
	"github.com/frizbee-ai/server/internal/agent/model"
	logx "github.com/frizbee-ai/server/pkg/logger"
)

// Assistant is the public entry point: it loads the stored snapshot for a
// turn, runs the conversation graph, and persists the turn's deltas.
type Assistant struct {
	store  model.Store
	runner graph.Runner
}

func NewAssistant(store model.Store, runner graph.Runner) *Assistant {
	return &Assistant{store: store, runner: runner}
}

// ProcessTurn handles one inbound user message end to end. Redelivered
// messages (same MessageID) are suppressed before any state changes; a
// storage failure anywhere is a hard turn failure with no partial patching.
func (a *Assistant) ProcessTurn(ctx context.Context, in model.TurnInput) (*model.TurnResult, error) {
	if in.SessionID == "" || in.UserID == "" {
		return nil, fmt.Errorf("session id and user id are required")
	}
	if in.MessageID == "" {
		in.MessageID = uuid.NewString()
	}

	seen, err := a.store.SeenMessage(ctx, in.SessionID, in.MessageID)
	if err != nil {
		return nil, fmt.Errorf("duplicate check: %w", err)
	}
	if seen {
		logx.Warn().
			Str("session_id", in.SessionID).
			Str("message_id", in.MessageID).
			Msg("Duplicate message delivery suppressed")
		return &model.TurnResult{}, nil
	}

	if err := a.loadSnapshot(ctx, &in); err != nil {
		return nil, err
	}

	if err := a.store.AddMessage(ctx, in.SessionID, model.MessageRecord{
		ID:      in.MessageID,
		Role:    schema.User,
		Content: in.Query,
		Status:  model.StatusInProcess,
	}); err != nil {
		return nil, fmt.Errorf("persist user message: %w", err)
	}

	result, err := a.runner.Invoke(ctx, in)
	if err != nil {
		return nil, err
	}

	if err := a.persistDeltas(ctx, in, result); err != nil {
		return nil, err
	}
	return result, nil
}

// loadSnapshot fills the input with everything the graph reads from storage.
func (a *Assistant) loadSnapshot(ctx context.Context, in *model.TurnInput) error {
	var err error
	if in.History, err = a.store.LoadActiveMessages(ctx, in.SessionID); err != nil {
		return fmt.Errorf("load messages: %w", err)
	}
	if in.Cart, err = a.store.LoadCart(ctx, in.UserID); err != nil {
		return fmt.Errorf("load cart: %w", err)
	}
	if in.Preferences, err = a.store.LoadPreferences(ctx, in.UserID); err != nil {
		return fmt.Errorf("load preferences: %w", err)
	}
	if in.Summaries, err = a.store.LoadSummaries(ctx, in.UserID); err != nil {
		return fmt.Errorf("load summaries: %w", err)
	}
	if in.OldCarts, err = a.store.LoadOldCarts(ctx, in.UserID); err != nil {
		return fmt.Errorf("load old carts: %w", err)
	}
	if in.CheckoutKey, err = a.store.LoadKey(ctx, in.UserID); err != nil {
		return fmt.Errorf("load checkout key: %w", err)
	}
	if in.LastRoute, err = a.store.LoadLastRoute(ctx, in.UserID); err != nil {
		return fmt.Errorf("load last route: %w", err)
	}
	return nil
}

// persistDeltas writes what the turn changed: assistant replies, the cart,
// the preference block and the route hint. Checkout key writes happen inside
// the checkout nodes, where the code is issued or cleared.
func (a *Assistant) persistDeltas(ctx context.Context, in model.TurnInput, result *model.TurnResult) error {
	if result == nil {
		return nil
	}

	for _, msg := range result.NewMessages {
		if msg == nil || msg.Role != schema.Assistant || strings.TrimSpace(msg.Content) == "" {
			continue
		}
		if err := a.store.AddMessage(ctx, in.SessionID, model.MessageRecord{
			ID:      uuid.NewString(),
			Role:    schema.Assistant,
			Content: msg.Content,
			Status:  model.StatusInProcess,
		}); err != nil {
			return fmt.Errorf("persist assistant message: %w", err)
		}
	}

	if err := a.store.SaveCart(ctx, in.UserID, result.Cart); err != nil {
		return fmt.Errorf("persist cart: %w", err)
	}
	if err := a.store.SavePreferences(ctx, in.UserID, result.Preferences); err != nil {
		return fmt.Errorf("persist preferences: %w", err)
	}
	if err := a.store.SaveLastRoute(ctx, in.UserID, result.LastRoute); err != nil {
		return fmt.Errorf("persist last route: %w", err)
	}
	return nil
}
