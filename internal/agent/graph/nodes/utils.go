package nodes

import (
	"fmt"
	"strings"

	"github.com/cloudwego/eino/schema"

	"github.com/frizbee-ai/server/internal/agent/model"
	logx "github.com/frizbee-ai/server/pkg/logger"
)

const DefaultMaxToolRounds = 10

// ===== Small helpers to keep handlers simple/readable =====

// normalizeMaxRounds returns a sane default when the provided value is invalid.
func normalizeMaxRounds(n int) int {
	if n <= 0 {
		return DefaultMaxToolRounds
	}
	return n
}

// toolLimitReached reports whether the dispatcher has used up its rounds for
// this turn.
func toolLimitReached(state *model.TurnState, max int) bool {
	return state.ToolRounds >= normalizeMaxRounds(max)
}

// logUsageCost computes and logs the per-call LLM usage cost, attaching the
// breakdown to the message Extra and accumulating the turn total on state.
func logUsageCost(out *schema.Message, state *model.TurnState, node, modelName string) {
	if !model.CostEnabled() || out == nil || out.ResponseMeta == nil || out.ResponseMeta.Usage == nil {
		return
	}
	pricing := model.ResolvePricing(modelName)
	inC, outC, totalC := model.ComputeCost(out.ResponseMeta.Usage, pricing)
	if out.Extra == nil {
		out.Extra = map[string]any{}
	}
	out.Extra["usage_cost"] = map[string]any{
		"currency":          "USD",
		"model":             modelName,
		"prompt_tokens":     out.ResponseMeta.Usage.PromptTokens,
		"completion_tokens": out.ResponseMeta.Usage.CompletionTokens,
		"total_tokens":      out.ResponseMeta.Usage.TotalTokens,
		"input_cost":        inC,
		"output_cost":       outC,
		"total_cost":        totalC,
	}

	state.TotalCostUSD += totalC
	out.Extra["usage_cost_total_usd"] = state.TotalCostUSD

	logx.Debug().
		Str("session_id", state.SessionID).
		Str("node", node).
		Str("model", modelName).
		Int("prompt_tokens", out.ResponseMeta.Usage.PromptTokens).
		Int("completion_tokens", out.ResponseMeta.Usage.CompletionTokens).
		Int("total_tokens", out.ResponseMeta.Usage.TotalTokens).
		Float64("input_cost_usd", inC).
		Float64("output_cost_usd", outC).
		Float64("total_cost_usd", totalC).
		Msg("LLM usage")
}

// normalizeToolCallIDs synthesizes ids for tool calls the provider returned
// without one (Gemini OpenAI-compat omits them), so tool results can always
// be correlated by call-id.
func normalizeToolCallIDs(out *schema.Message, state *model.TurnState) {
	if out == nil || len(out.ToolCalls) == 0 {
		return
	}
	for i := range out.ToolCalls {
		if strings.TrimSpace(out.ToolCalls[i].ID) == "" {
			state.ToolCallIDSeq++
			out.ToolCalls[i].ID = fmt.Sprintf("call_%d", state.ToolCallIDSeq)
		}
	}
}
