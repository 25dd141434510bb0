package routing

import (
	"strings"

	"github.com/cloudwego/eino/schema"

	"github.com/frizbee-ai/server/internal/agent/graph/tools"
)

// Decision is the raw word the router model is allowed to answer with.
type Decision string

const (
	DecisionShopping Decision = "shopping"
	DecisionLong     Decision = "long"
	DecisionEnd      Decision = "end"
	DecisionNone     Decision = ""
)

// Route identifies the graph node a turn is handed to after intake.
type Route int

const (
	RouteShopping Route = iota
	RoutePreferences
	RouteCheckoutCode
	RouteCheckoutSummary
)

func (r Route) String() string {
	switch r {
	case RoutePreferences:
		return "preferences"
	case RouteCheckoutCode:
		return "create_key"
	case RouteCheckoutSummary:
		return "create_summary"
	default:
		return "shopping"
	}
}

// ParseRoute maps a persisted route name back to a Route. Unknown or empty
// names map to RouteShopping, the safe default.
func ParseRoute(s string) Route {
	switch s {
	case RoutePreferences.String():
		return RoutePreferences
	case RouteCheckoutCode.String():
		return RouteCheckoutCode
	case RouteCheckoutSummary.String():
		return RouteCheckoutSummary
	default:
		return RouteShopping
	}
}

// InitialRoute decides where a turn goes. The confirmation-code check runs
// before anything else: when a code is pending and the user's message echoes
// it, the turn goes straight to checkout regardless of what the classifier
// would say. Otherwise the classifier's decision applies, and when the
// classifier produced nothing usable the previous turn's route is reused so
// a mid-conversation hiccup does not bounce the user to a different flow.
func InitialRoute(lastUserText, checkoutKey string, decided Decision, last Route) Route {
	if KeyEchoed(lastUserText, checkoutKey) {
		return RouteCheckoutSummary
	}
	switch decided {
	case DecisionShopping:
		return RouteShopping
	case DecisionLong:
		return RoutePreferences
	case DecisionEnd:
		return RouteCheckoutCode
	}
	switch last {
	case RouteShopping, RoutePreferences:
		return last
	}
	return RouteShopping
}

// KeyEchoed reports whether the user's message is exactly the pending
// confirmation code (surrounding whitespace ignored). An empty code never
// matches, and a code buried in a longer sentence does not count as an echo.
func KeyEchoed(text, key string) bool {
	if strings.TrimSpace(key) == "" {
		return false
	}
	return strings.TrimSpace(text) == key
}

// HasShoppingToolCalls reports whether the model reply should go to the
// shopping dispatcher. No tool calls means the reply is conversational and
// the turn ends; a first call outside the shopping set also ends the turn
// as a no-op rather than an error.
func HasShoppingToolCalls(msg *schema.Message) bool {
	if msg == nil || len(msg.ToolCalls) == 0 {
		return false
	}
	return tools.ParseKind(msg.ToolCalls[0].Function.Name).IsShopping()
}

// HasPreferenceToolCalls reports whether the reply carries save_to_memory
// calls for the preferences dispatcher.
func HasPreferenceToolCalls(msg *schema.Message) bool {
	if msg == nil {
		return false
	}
	for _, tc := range msg.ToolCalls {
		if tools.ParseKind(tc.Function.Name) == tools.KindSaveMemory {
			return true
		}
	}
	return false
}
