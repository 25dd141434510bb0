package model

import (
	"github.com/cloudwego/eino/schema"
)

// TurnState stores per-turn state for the Eino graph.
// Concurrency model:
//   - This struct is registered as Graph Local State via compose.WithGenLocalState.
//   - All reads/writes happen only inside Eino state handlers:
//     WithStatePreHandler, WithStatePostHandler, or compose.ProcessState.
//   - Eino serializes access to state within these handlers, so no additional
//     mutex/atomic is required as long as you never touch it outside handlers.
//   - The state is built fresh per incoming user message and does not outlive
//     the turn; the Assistant persists the deltas afterwards.
type TurnState struct {
	SessionID string
	UserID    string

	// Messages only grows during a turn; node handlers append, never truncate.
	Messages []*schema.Message

	// Cart is replaced wholesale by cart-mutating nodes; every other node
	// leaves it untouched.
	Cart []CartItem

	// Preferences is the accumulated free-text preference block; the
	// save_memory node appends lines, nothing rewrites it mid-turn.
	Preferences string

	Summaries []Summary      // read-only context
	OldCarts  []ArchivedCart // read-only context, newest first

	// CheckoutKey non-empty means a checkout code has been issued and is
	// awaiting echo-back; cleared when the purchase completes.
	CheckoutKey string

	// LastRoute is the routing decision of the previous turn, used as the
	// fallback when classification returns an out-of-enum value.
	LastRoute string

	// BaseMessages marks how many messages were loaded from storage so the
	// collector can slice out this turn's new messages.
	BaseMessages int

	ToolCallIDSeq int // local sequence to synthesize tool_call_id when provider omits
	ToolRounds    int // dispatcher passes this turn, bounded by ConversationConfig

	// TotalCostUSD accumulates LLM usage cost across the turn's model calls.
	TotalCostUSD float64
}

// TurnInput is the public input for processing one user turn. The Assistant
// fills the snapshot fields from storage before invoking the graph.
type TurnInput struct {
	SessionID string `json:"session_id"`
	UserID    string `json:"user_id"`
	MessageID string `json:"message_id"`
	Query     string `json:"query"`

	// Snapshot loaded from storage by the caller.
	History     []*schema.Message
	Cart        []CartItem
	Preferences string
	Summaries   []Summary
	OldCarts    []ArchivedCart
	CheckoutKey string
	LastRoute   string
}

// TurnResult carries the turn's deltas back to the caller for persistence
// and rendering. An all-zero result means the turn was a duplicate no-op.
type TurnResult struct {
	Reply       string
	NewMessages []*schema.Message
	Cart        []CartItem
	Preferences string
	CheckoutKey string
	LastRoute   string
}
