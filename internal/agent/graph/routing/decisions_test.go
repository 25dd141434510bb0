package routing

import (
	"testing"

	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
)

func TestInitialRouteKeyEchoWinsOverDecision(t *testing.T) {
	// A pending code echoed back goes straight to checkout, whatever the
	// classifier would have said.
	route := InitialRoute("457", "457", DecisionShopping, RouteShopping)
	assert.Equal(t, RouteCheckoutSummary, route)
}

func TestInitialRouteEmptyKeyNeverMatches(t *testing.T) {
	route := InitialRoute("", "", DecisionShopping, RouteShopping)
	assert.Equal(t, RouteShopping, route)
}

func TestInitialRouteDecisions(t *testing.T) {
	assert.Equal(t, RouteShopping, InitialRoute("hola", "", DecisionShopping, RoutePreferences))
	assert.Equal(t, RoutePreferences, InitialRoute("hola", "", DecisionLong, RouteShopping))
	assert.Equal(t, RouteCheckoutCode, InitialRoute("listo", "", DecisionEnd, RouteShopping))
}

func TestInitialRouteFallbackToLastRoute(t *testing.T) {
	assert.Equal(t, RoutePreferences, InitialRoute("hola", "", DecisionNone, RoutePreferences))
	assert.Equal(t, RouteShopping, InitialRoute("hola", "", DecisionNone, RouteShopping))
}

func TestInitialRouteFallbackDefaultsToShopping(t *testing.T) {
	// Checkout routes are not sticky: an unusable decision after a checkout
	// turn restarts at shopping.
	assert.Equal(t, RouteShopping, InitialRoute("hola", "", DecisionNone, RouteCheckoutCode))
	assert.Equal(t, RouteShopping, InitialRoute("hola", "", DecisionNone, RouteCheckoutSummary))
}

func TestKeyEchoedExactMatch(t *testing.T) {
	assert.True(t, KeyEchoed("457", "457"))
	assert.True(t, KeyEchoed("  457 ", "457"), "surrounding whitespace tolerated")
	assert.False(t, KeyEchoed("el codigo es 457, gracias", "457"), "code inside a sentence is not an echo")
	assert.False(t, KeyEchoed("458", "457"))
	assert.False(t, KeyEchoed("457", ""))
	assert.False(t, KeyEchoed("457", "  "))
}

func TestParseRouteRoundTrip(t *testing.T) {
	for _, route := range []Route{RouteShopping, RoutePreferences, RouteCheckoutCode, RouteCheckoutSummary} {
		assert.Equal(t, route, ParseRoute(route.String()))
	}
	assert.Equal(t, RouteShopping, ParseRoute(""))
	assert.Equal(t, RouteShopping, ParseRoute("nonsense"))
}

func TestHasShoppingToolCalls(t *testing.T) {
	assert.False(t, HasShoppingToolCalls(nil))
	assert.False(t, HasShoppingToolCalls(schema.AssistantMessage("hola", nil)))

	shopping := schema.AssistantMessage("", []schema.ToolCall{
		{ID: "1", Function: schema.FunctionCall{Name: "add_product", Arguments: "{}"}},
	})
	assert.True(t, HasShoppingToolCalls(shopping))

	// An unknown first tool ends the turn as a no-op.
	unknown := schema.AssistantMessage("", []schema.ToolCall{
		{ID: "1", Function: schema.FunctionCall{Name: "fly_to_the_moon", Arguments: "{}"}},
	})
	assert.False(t, HasShoppingToolCalls(unknown))
}

func TestHasPreferenceToolCalls(t *testing.T) {
	assert.False(t, HasPreferenceToolCalls(nil))
	assert.False(t, HasPreferenceToolCalls(schema.AssistantMessage("hola", nil)))

	memory := schema.AssistantMessage("", []schema.ToolCall{
		{ID: "1", Function: schema.FunctionCall{Name: "save_to_memory", Arguments: "{}"}},
	})
	assert.True(t, HasPreferenceToolCalls(memory))

	other := schema.AssistantMessage("", []schema.ToolCall{
		{ID: "1", Function: schema.FunctionCall{Name: "add_product", Arguments: "{}"}},
	})
	assert.False(t, HasPreferenceToolCalls(other))
}
