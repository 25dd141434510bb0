package model

// ================ Config ================
type ConversationConfig struct {
	TTL    string `envconfig:"CONVERSATION_TTL" default:"0"`
	Router struct {
		MaxTurns int `envconfig:"CONVERSATION_ROUTER_MAX_TURNS" default:"4"`
	}
	Shopping struct {
		MaxTurns int `envconfig:"CONVERSATION_SHOPPING_MAX_TURNS" default:"20"`
	}
	Tools struct {
		MaxRounds int `envconfig:"CONVERSATION_TOOL_MAX_ROUNDS" default:"10"`
	}
}

// RouterModelConfig drives the constrained routing decision call.
type RouterModelConfig struct {
	Model       string  `envconfig:"ROUTER_MODEL" default:"gemini-2.5-flash-lite"`
	MaxTokens   int     `envconfig:"ROUTER_MAX_TOKENS" default:"256"`
	Temperature float32 `envconfig:"ROUTER_TEMPERATURE" default:"0"`
}

// ShoppingModelConfig drives the tool-capable shopping assistant turns.
type ShoppingModelConfig struct {
	Model       string  `envconfig:"SHOPPING_MODEL" default:"gemini-2.5-flash"`
	MaxTokens   int     `envconfig:"SHOPPING_MAX_TOKENS" default:"2000"`
	Temperature float32 `envconfig:"SHOPPING_TEMPERATURE" default:"0.4"`
}

// PreferencesModelConfig drives the preference-collection turns.
type PreferencesModelConfig struct {
	Model       string  `envconfig:"PREFERENCES_MODEL" default:"gemini-2.5-flash"`
	MaxTokens   int     `envconfig:"PREFERENCES_MAX_TOKENS" default:"2000"`
	Temperature float32 `envconfig:"PREFERENCES_TEMPERATURE" default:"0.7"`
}

// CheckoutModelConfig drives the checkout code, summary, cart-JSON and
// farewell calls.
type CheckoutModelConfig struct {
	Model       string  `envconfig:"CHECKOUT_MODEL" default:"gemini-2.5-flash"`
	MaxTokens   int     `envconfig:"CHECKOUT_MAX_TOKENS" default:"2000"`
	Temperature float32 `envconfig:"CHECKOUT_TEMPERATURE" default:"0.2"`
}
