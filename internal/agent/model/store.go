package model

import (
	"context"
	"time"

	"github.com/cloudwego/eino/schema"
)

// Lifecycle statuses separating the active purchase cycle from history.
const (
	StatusInProcess = "en_proceso"
	StatusCompleted = "completado"
)

// MessageRecord is one persisted chat message row.
type MessageRecord struct {
	ID        string          `json:"id"`
	Role      schema.RoleType `json:"role"`
	Content   string          `json:"content"`
	Status    string          `json:"status"`
	CreatedAt time.Time       `json:"created_at"`
}

// MessageStore persists chat messages per session, tagged with a lifecycle
// status so completed purchase cycles drop out of the active context.
type MessageStore interface {
	// AddMessage appends one message row for the session.
	AddMessage(ctx context.Context, sessionID string, rec MessageRecord) error

	// LoadActiveMessages returns the in-process messages in causal order.
	LoadActiveMessages(ctx context.Context, sessionID string) ([]*schema.Message, error)

	// CompleteMessages relabels all in-process messages as completed.
	CompleteMessages(ctx context.Context, sessionID string) error

	// SeenMessage records an inbound message id and reports whether it had
	// already been recorded. Used for duplicate-delivery suppression on
	// at-least-once transports.
	SeenMessage(ctx context.Context, sessionID, messageID string) (bool, error)
}

// CartStore persists the per-user cart cycles.
type CartStore interface {
	LoadCart(ctx context.Context, userID string) ([]CartItem, error)
	SaveCart(ctx context.Context, userID string, items []CartItem) error

	// CompleteCart archives the active cart and opens a fresh empty one.
	CompleteCart(ctx context.Context, userID string) error

	// SaveCompletedCart archives a finished cart directly (checkout output).
	SaveCompletedCart(ctx context.Context, userID string, items []CartItem) error

	// LoadOldCarts returns completed non-empty carts, newest first.
	LoadOldCarts(ctx context.Context, userID string) ([]ArchivedCart, error)
}

// MemoryStore persists the free-text preferences row and the append-only
// summaries log.
type MemoryStore interface {
	LoadPreferences(ctx context.Context, userID string) (string, error)
	SavePreferences(ctx context.Context, userID, preferences string) error
	AppendSummary(ctx context.Context, userID, content string) error
	LoadSummaries(ctx context.Context, userID string) ([]Summary, error)
}

// KeyStore persists the single one-time checkout code per user (upserted;
// empty string means no code outstanding).
type KeyStore interface {
	LoadKey(ctx context.Context, userID string) (string, error)
	UpdateKey(ctx context.Context, userID, key string) error
}

// RouteStore persists the last routing decision, the fallback when the
// classifier returns an out-of-enum value.
type RouteStore interface {
	LoadLastRoute(ctx context.Context, userID string) (string, error)
	SaveLastRoute(ctx context.Context, userID, route string) error
}

// Store aggregates every persistence concern the turn pipeline needs.
// Writes are independent per field; there is no cross-field transaction.
type Store interface {
	MessageStore
	CartStore
	MemoryStore
	KeyStore
	RouteStore
}
