package nodes

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
	"github.com/sourcegraph/conc"

	"github.com/frizbee-ai/server/internal/agent/graph/tools"
	"github.com/frizbee-ai/server/internal/agent/model"
	logx "github.com/frizbee-ai/server/pkg/logger"
)

// fanOut executes every tool call concurrently and returns results in
// completion order. Each call produces exactly one result, so the output
// length always equals the input length regardless of individual failures.
func fanOut(ctx context.Context, calls []schema.ToolCall, exec func(context.Context, schema.ToolCall) tools.CallResult) []tools.CallResult {
	ch := make(chan tools.CallResult, len(calls))
	wg := conc.NewWaitGroup()
	for _, call := range calls {
		call := call
		wg.Go(func() {
			ch <- exec(ctx, call)
		})
	}
	go func() {
		wg.Wait()
		close(ch)
	}()

	results := make([]tools.CallResult, 0, len(calls))
	for res := range ch {
		results = append(results, res)
	}
	return results
}

// NewShoppingToolsNode dispatches the shopping reply's tool calls. Calls run
// concurrently; each yields one tool message correlated by call-id. Cart
// effects are applied one at a time on this goroutine, in completion order,
// so concurrent calls never race on the cart. Output loops back to the
// shopping model.
func NewShoppingToolsNode(executor *tools.Executor) *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, msg *schema.Message) ([]*schema.Message, error) {
		if msg == nil || len(msg.ToolCalls) == 0 {
			return nil, fmt.Errorf("shopping dispatcher invoked without tool calls")
		}

		results := fanOut(ctx, msg.ToolCalls, executor.ExecuteShopping)

		toolMsgs := make([]*schema.Message, 0, len(results))
		err := compose.ProcessState(ctx, func(_ context.Context, s *model.TurnState) error {
			s.ToolRounds++
			for _, res := range results {
				if res.Effect != nil {
					s.Cart = res.Effect(s.Cart)
				}
				toolMsg := schema.ToolMessage(res.Content, res.CallID)
				toolMsgs = append(toolMsgs, toolMsg)
				s.Messages = append(s.Messages, toolMsg)
			}
			logx.Debug().
				Int("tool_count", len(results)).
				Int("cart_size", len(s.Cart)).
				Int("tool_rounds", s.ToolRounds).
				Msg("Shopping tools dispatched")
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to access state: %w", err)
		}
		return toolMsgs, nil
	})
}

// NewSaveMemoryNode dispatches save_to_memory calls. Each ok result
// ("content|context") appends one bullet line to the preferences block;
// malformed results are acknowledged with a tool message but skipped from
// accumulation. Output loops back to the preference model.
func NewSaveMemoryNode(executor *tools.Executor) *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, msg *schema.Message) ([]*schema.Message, error) {
		if msg == nil || len(msg.ToolCalls) == 0 {
			return nil, fmt.Errorf("memory dispatcher invoked without tool calls")
		}

		results := fanOut(ctx, msg.ToolCalls, executor.ExecuteMemory)

		toolMsgs := make([]*schema.Message, 0, len(results))
		err := compose.ProcessState(ctx, func(_ context.Context, s *model.TurnState) error {
			s.ToolRounds++
			for _, res := range results {
				content := "Preferencia guardada."
				if line, ok := preferenceLine(res.Content); ok {
					s.Preferences = appendPreference(s.Preferences, line)
				} else {
					logx.Warn().Str("result", res.Content).Msg("save_to_memory: malformed result skipped")
					content = "No se pudo guardar la preferencia."
				}
				toolMsg := schema.ToolMessage(content, res.CallID)
				toolMsgs = append(toolMsgs, toolMsg)
				s.Messages = append(s.Messages, toolMsg)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to access state: %w", err)
		}
		return toolMsgs, nil
	})
}

// preferenceLine converts an executor result "content|context" into the
// stored bullet form "- content (context)". Error-tagged or separator-less
// results are rejected.
func preferenceLine(result string) (string, bool) {
	if strings.HasPrefix(result, "ERROR|") {
		return "", false
	}
	content, context, ok := strings.Cut(result, "|")
	if !ok || strings.TrimSpace(content) == "" {
		return "", false
	}
	if strings.TrimSpace(context) == "" {
		return "- " + content, true
	}
	return fmt.Sprintf("- %s (%s)", content, context), true
}

func appendPreference(block, line string) string {
	if strings.TrimSpace(block) == "" {
		return line
	}
	return block + "\n" + line
}
