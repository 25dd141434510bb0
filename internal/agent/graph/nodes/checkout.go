package nodes

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	"github.com/frizbee-ai/server/internal/agent/graph/conversations"
	"github.com/frizbee-ai/server/internal/agent/graph/parsers"
	"github.com/frizbee-ai/server/internal/agent/graph/prompts"
	"github.com/frizbee-ai/server/internal/agent/model"
	logx "github.com/frizbee-ai/server/pkg/logger"
)

// PurchaseRunner hands the purchased product links to the external purchase
// robot. Fire-and-forget; the turn never waits on it.
type PurchaseRunner interface {
	RunAsync(urls []string)
}

// NewCreateKeyNode issues a one-time 3-digit confirmation code, persists it,
// and has the checkout model present the cart together with the echo
// instruction. The code is persisted unconditionally; the empty-cart refusal
// is the prompt's job.
func NewCreateKeyNode(checkout einomodel.BaseChatModel, modelName string, keys model.KeyStore, cb *conversations.ContextBuilder) *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, _ []*schema.Message) (*schema.Message, error) {
		var (
			userID string
			cart   []model.CartItem
			window []*schema.Message
		)
		err := compose.ProcessState(ctx, func(_ context.Context, s *model.TurnState) error {
			userID = s.UserID
			cart = model.CloneCart(s.Cart)
			window = s.Messages
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to access state: %w", err)
		}

		code := newCheckoutCode()
		if err := keys.UpdateKey(ctx, userID, code); err != nil {
			return nil, fmt.Errorf("persist checkout key: %w", err)
		}

		system, err := prompts.RenderCheckoutKeySystem(ctx, cart, code)
		if err != nil {
			return nil, fmt.Errorf("render checkout key prompt: %w", err)
		}

		reply, err := checkout.Generate(ctx, cb.ShoppingWindow(system, window))
		if err != nil {
			return nil, fmt.Errorf("checkout key model: %w", err)
		}

		err = compose.ProcessState(ctx, func(_ context.Context, s *model.TurnState) error {
			s.CheckoutKey = code
			logUsageCost(reply, s, NodeCreateKey, modelName)
			s.Messages = append(s.Messages, reply)
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to access state: %w", err)
		}

		logx.Debug().Str("user_id", userID).Msg("Checkout code issued")
		return reply, nil
	})
}

// NewCreateSummaryNode closes the purchase cycle's context: the active cart
// is archived, the conversation is distilled into preference bullets, and
// the in-process messages are relabeled completed. The summary model call is
// best-effort; a failed or empty summary is skipped, not a turn failure.
func NewCreateSummaryNode(checkout einomodel.BaseChatModel, modelName string, store model.Store) *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, _ []*schema.Message) (*schema.Message, error) {
		var (
			sessionID  string
			userID     string
			transcript string
		)
		err := compose.ProcessState(ctx, func(_ context.Context, s *model.TurnState) error {
			sessionID = s.SessionID
			userID = s.UserID
			transcript = conversations.Transcript(s.Messages)
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to access state: %w", err)
		}

		if err := store.CompleteCart(ctx, userID); err != nil {
			return nil, fmt.Errorf("archive cart: %w", err)
		}

		system, err := prompts.RenderSummarySystem(ctx, transcript)
		if err != nil {
			return nil, fmt.Errorf("render summary prompt: %w", err)
		}

		summary, genErr := checkout.Generate(ctx, []*schema.Message{schema.SystemMessage(system)})
		if genErr != nil {
			logx.Error().Err(genErr).Str("user_id", userID).Msg("Summary model failed - skipping summary")
		} else if strings.TrimSpace(summary.Content) != "" {
			if err := store.AppendSummary(ctx, userID, summary.Content); err != nil {
				return nil, fmt.Errorf("persist summary: %w", err)
			}
		}

		if err := store.CompleteMessages(ctx, sessionID); err != nil {
			return nil, fmt.Errorf("complete messages: %w", err)
		}

		if summary != nil {
			err = compose.ProcessState(ctx, func(_ context.Context, s *model.TurnState) error {
				logUsageCost(summary, s, NodeCreateSummary, modelName)
				return nil
			})
			if err != nil {
				return nil, fmt.Errorf("failed to access state: %w", err)
			}
		}

		// Placeholder only; the farewell from complete_purchase is the reply.
		return schema.AssistantMessage("", nil), nil
	})
}

// NewCompletePurchaseNode finishes checkout: the checkout model emits the
// final cart as JSON, which is validated, archived and handed to the
// purchase robot; the farewell is generated; the confirmation code is
// cleared and a fresh cart cycle begins.
func NewCompletePurchaseNode(checkout einomodel.BaseChatModel, modelName string, store model.Store, robot PurchaseRunner, cb *conversations.ContextBuilder) *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, _ *schema.Message) (*schema.Message, error) {
		var (
			userID   string
			window   []*schema.Message
			liveCart []model.CartItem
		)
		err := compose.ProcessState(ctx, func(_ context.Context, s *model.TurnState) error {
			userID = s.UserID
			window = s.Messages
			liveCart = model.CloneCart(s.Cart)
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to access state: %w", err)
		}

		items := liveCart
		cartSystem, err := prompts.RenderCartJSONSystem(ctx)
		if err != nil {
			return nil, fmt.Errorf("render cart json prompt: %w", err)
		}
		cartReply, genErr := checkout.Generate(ctx, cb.ShoppingWindow(cartSystem, window))
		if genErr != nil {
			logx.Error().Err(genErr).Str("user_id", userID).Msg("Cart JSON model failed - using live cart")
		} else if parsed, perr := parsers.ParseCheckoutCart(cartReply.Content); perr != nil {
			logx.Error().Err(perr).Str("user_id", userID).Msg("Cart JSON unparseable - using live cart")
		} else {
			items = parsed
		}

		if err := store.SaveCompletedCart(ctx, userID, items); err != nil {
			return nil, fmt.Errorf("persist completed cart: %w", err)
		}

		if robot != nil {
			robot.RunAsync(productLinks(items))
		}

		farewellSystem, err := prompts.RenderFarewellSystem(ctx)
		if err != nil {
			return nil, fmt.Errorf("render farewell prompt: %w", err)
		}
		farewell, genErr := checkout.Generate(ctx, []*schema.Message{schema.SystemMessage(farewellSystem)})
		if genErr != nil {
			logx.Error().Err(genErr).Str("user_id", userID).Msg("Farewell model failed - using canned farewell")
			farewell = schema.AssistantMessage("¡Gracias por tu compra! Tu pedido está en camino. ¡Hasta la próxima!", nil)
		}

		if err := store.UpdateKey(ctx, userID, ""); err != nil {
			return nil, fmt.Errorf("clear checkout key: %w", err)
		}

		err = compose.ProcessState(ctx, func(_ context.Context, s *model.TurnState) error {
			s.CheckoutKey = ""
			s.Cart = nil
			if cartReply != nil {
				logUsageCost(cartReply, s, NodeCompletePurchase, modelName)
			}
			logUsageCost(farewell, s, NodeCompletePurchase, modelName)
			s.Messages = append(s.Messages, farewell)
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to access state: %w", err)
		}

		logx.Info().Str("user_id", userID).Int("items", len(items)).Msg("Purchase completed")
		return farewell, nil
	})
}

// newCheckoutCode returns a random 3-digit confirmation code (100-999).
func newCheckoutCode() string {
	return strconv.Itoa(rand.IntN(900) + 100)
}

func productLinks(items []model.CartItem) []string {
	urls := make([]string, 0, len(items))
	for _, it := range items {
		if strings.TrimSpace(it.Link) != "" {
			urls = append(urls, it.Link)
		}
	}
	return urls
}
