package nodes

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino-ext/components/model/gemini"
	"google.golang.org/genai"

	"github.com/frizbee-ai/server/internal/agent/graph/tools"
	"github.com/frizbee-ai/server/internal/agent/model"
	logx "github.com/frizbee-ai/server/pkg/logger"
)

// ChatModelConfig holds the configuration for chat model creation
type ChatModelConfig struct {
	APIKey            string
	BaseURL           string
	RouterConfig      *model.RouterModelConfig
	ShoppingConfig    *model.ShoppingModelConfig
	PreferencesConfig *model.PreferencesModelConfig
	CheckoutConfig    *model.CheckoutModelConfig
}

// ChatModels holds the four logical chat models: the routing classifier, the
// tool-capable shopping assistant, the preference collector and the checkout
// model (code presentation, summary, cart JSON, farewell).
type ChatModels struct {
	Router      *gemini.ChatModel
	Shopping    *gemini.ChatModel
	Preferences *gemini.ChatModel
	Checkout    *gemini.ChatModel

	RouterModelName      string
	ShoppingModelName    string
	PreferencesModelName string
	CheckoutModelName    string
}

// NewChatModels creates all chat models over one shared Gemini client.
func NewChatModels(ctx context.Context, config ChatModelConfig) (*ChatModels, error) {
	clientCfg := &genai.ClientConfig{
		APIKey:  config.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if config.BaseURL != "" {
		clientCfg.HTTPOptions.BaseURL = config.BaseURL
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		logx.Error().Err(err).Msg("Error creating Gemini client")
		return nil, fmt.Errorf("error creating Gemini client: %w", err)
	}

	router, err := newChatModel(ctx, client, config.RouterConfig.Model, config.RouterConfig.Temperature, config.RouterConfig.MaxTokens, false)
	if err != nil {
		return nil, fmt.Errorf("error creating router model: %w", err)
	}

	shopping, err := newChatModel(ctx, client, config.ShoppingConfig.Model, config.ShoppingConfig.Temperature, config.ShoppingConfig.MaxTokens, true)
	if err != nil {
		return nil, fmt.Errorf("error creating shopping model: %w", err)
	}

	preferences, err := newChatModel(ctx, client, config.PreferencesConfig.Model, config.PreferencesConfig.Temperature, config.PreferencesConfig.MaxTokens, true)
	if err != nil {
		return nil, fmt.Errorf("error creating preferences model: %w", err)
	}

	checkout, err := newChatModel(ctx, client, config.CheckoutConfig.Model, config.CheckoutConfig.Temperature, config.CheckoutConfig.MaxTokens, false)
	if err != nil {
		return nil, fmt.Errorf("error creating checkout model: %w", err)
	}

	return &ChatModels{
		Router:               router,
		Shopping:             shopping,
		Preferences:          preferences,
		Checkout:             checkout,
		RouterModelName:      config.RouterConfig.Model,
		ShoppingModelName:    config.ShoppingConfig.Model,
		PreferencesModelName: config.PreferencesConfig.Model,
		CheckoutModelName:    config.CheckoutConfig.Model,
	}, nil
}

func newChatModel(ctx context.Context, client *genai.Client, modelName string, temperature float32, maxTokens int, thinking bool) (*gemini.ChatModel, error) {
	cfg := &gemini.Config{
		Client:      client,
		Model:       modelName,
		Temperature: &temperature,
		MaxTokens:   &maxTokens,
	}
	if thinking {
		cfg.ThinkingConfig = &genai.ThinkingConfig{
			IncludeThoughts: true,
			ThinkingBudget:  genai.Ptr(int32(2000)),
		}
	}
	return gemini.NewChatModel(ctx, cfg)
}

// BindShoppingTools binds the catalog and cart tools to the shopping model.
func (cm *ChatModels) BindShoppingTools() error {
	if err := cm.Shopping.BindTools(tools.ShoppingToolInfos()); err != nil {
		logx.Error().Err(err).Msg("Failed to bind shopping tools")
		return fmt.Errorf("failed to bind shopping tools: %w", err)
	}
	logx.Debug().Msg("Successfully bound tools to shopping model")
	return nil
}

// BindPreferenceTools binds save_to_memory to the preference model.
func (cm *ChatModels) BindPreferenceTools() error {
	if err := cm.Preferences.BindTools(tools.PreferenceToolInfos()); err != nil {
		logx.Error().Err(err).Msg("Failed to bind preference tools")
		return fmt.Errorf("failed to bind preference tools: %w", err)
	}
	logx.Debug().Msg("Successfully bound tools to preferences model")
	return nil
}
