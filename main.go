package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/frizbee-ai/server/internal/agent"
	"github.com/frizbee-ai/server/internal/agent/graph"
	"github.com/frizbee-ai/server/internal/agent/graph/nodes"
	"github.com/frizbee-ai/server/internal/agent/graph/tools"
	"github.com/frizbee-ai/server/internal/agent/model"
	"github.com/frizbee-ai/server/internal/agent/purchase"
	"github.com/frizbee-ai/server/internal/agent/repo"
	"github.com/frizbee-ai/server/internal/core"
	logx "github.com/frizbee-ai/server/pkg/logger"
	pkgredis "github.com/frizbee-ai/server/pkg/redis"
)

// AppConfig defines all configurable parameters for the assistant example,
// sourced from environment variables (loaded from .env for local runs).
type AppConfig struct {
	// Infrastructure
	Environment string `envconfig:"ENVIRONMENT" default:"development"`
	Redis       pkgredis.Config

	// LLM provider
	APIKey  string `envconfig:"GEMINI_API_KEY" required:"true"`
	BaseURL string `envconfig:"GEMINI_BASE_URL"`

	// Agent configs
	Router       model.RouterModelConfig
	Shopping     model.ShoppingModelConfig
	Preferences  model.PreferencesModelConfig
	Checkout     model.CheckoutModelConfig
	Conversation model.ConversationConfig

	// Purchase robot (optional)
	Robot purchase.Config
}

func main() {
	fmt.Println("Testing grocery shopping assistant...")
	ctx := context.Background()
	// Load .env file
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Warning: Could not load .env file: %v", err)
	}

	// Load structured config from env
	var envCfg AppConfig
	if err := envconfig.Process("", &envCfg); err != nil {
		log.Fatalf("Failed to process environment config: %v", err)
	}

	logx.Init(logx.LoggerOpts{Environment: core.ParseEnvironment(envCfg.Environment)})

	rdb, err := envCfg.Redis.New()
	if err != nil {
		log.Fatalf("Failed to initialise Redis client: %v", err)
	}
	defer rdb.Close()

	fmt.Println("Connected to Redis successfully")

	ttl, err := time.ParseDuration(envCfg.Conversation.TTL)
	if err != nil {
		log.Fatalf("Invalid CONVERSATION_TTL '%s': %v", envCfg.Conversation.TTL, err)
	}

	store := repo.NewRedisStore(rdb, ttl)

	var robot nodes.PurchaseRunner
	if envCfg.Robot.Enabled() {
		robot = purchase.NewClient(envCfg.Robot)
	}

	// ====================================================
	// Build graph config entirely from env
	cfg := graph.Config{
		APIKey:           envCfg.APIKey,
		BaseURL:          envCfg.BaseURL,
		RouterModel:      envCfg.Router,
		ShoppingModel:    envCfg.Shopping,
		PreferencesModel: envCfg.Preferences,
		CheckoutModel:    envCfg.Checkout,
		Conversation:     envCfg.Conversation,
		Store:            store,
		Retriever:        tools.NewCatalogRetriever(demoCatalog()),
		Robot:            robot,
	}

	runner, err := graph.BuildShoppingGraph(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to build graph: %v", err)
	}

	assistant := agent.NewAssistant(store, runner)

	testQueries := []struct {
		description string
		query       string
	}{
		{
			description: "First contact",
			query:       "Hola! Quiero hacer las compras de la semana",
		},
		{
			description: "Preferences",
			query:       "Somos 4 en casa, mi hija es celíaca y los domingos hacemos asado",
		},
		{
			description: "Concrete products",
			query:       "Agregá 2 kilos de tomate y un paquete de fideos sin gluten",
		},
		{
			description: "Wrap up",
			query:       "Listo, eso es todo. Quiero finalizar la compra",
		},
	}

	sessionID := "test-session-123451"
	userID := "test-user-1"

	for i, test := range testQueries {
		fmt.Printf("\nTest %d: %s\n", i+1, test.description)
		fmt.Printf("Query: \"%s\"\n", test.query)
		fmt.Println("Processing...")

		result, err := assistant.ProcessTurn(ctx, model.TurnInput{
			SessionID: sessionID,
			UserID:    userID,
			Query:     test.query,
		})
		if err != nil {
			log.Fatalf("Failed to process turn %d: %v", i+1, err)
		}

		fmt.Printf("Response %d: %s\n", i+1, result.Reply)
		fmt.Printf("Cart: %d items, pending code: %q\n", len(result.Cart), result.CheckoutKey)
		fmt.Println("─────────────────────────────────────────────")

		// add slight delay between tests for readability
		time.Sleep(500 * time.Millisecond)
	}

	fmt.Println("All assistant turns completed successfully!")
}

// demoCatalog is a small in-memory stand-in for the real product index.
func demoCatalog() []model.Product {
	return []model.Product{
		{Name: "Tomate redondo x kg", Price: "1200", Discount: "10%", Link: "https://tienda.example/p/tomate-redondo", Image: "https://tienda.example/i/tomate-redondo.jpg"},
		{Name: "Fideos de arroz sin gluten 500g", Price: "2100", Discount: "0%", Link: "https://tienda.example/p/fideos-sin-gluten", Image: "https://tienda.example/i/fideos-sin-gluten.jpg"},
		{Name: "Pan lactal integral", Price: "1800", Discount: "15%", Link: "https://tienda.example/p/pan-lactal", Image: "https://tienda.example/i/pan-lactal.jpg"},
		{Name: "Leche descremada 1L", Price: "950", Discount: "0%", Link: "https://tienda.example/p/leche-descremada", Image: "https://tienda.example/i/leche-descremada.jpg"},
		{Name: "Asado de tira x kg", Price: "8900", Discount: "20%", Link: "https://tienda.example/p/asado-de-tira", Image: "https://tienda.example/i/asado-de-tira.jpg"},
		{Name: "Queso cremoso x kg", Price: "6500", Discount: "5%", Link: "https://tienda.example/p/queso-cremoso", Image: "https://tienda.example/i/queso-cremoso.jpg"},
		{Name: "Manzana roja x kg", Price: "1400", Discount: "0%", Link: "https://tienda.example/p/manzana-roja", Image: "https://tienda.example/i/manzana-roja.jpg"},
		{Name: "Arroz largo fino 1kg", Price: "1100", Discount: "10%", Link: "https://tienda.example/p/arroz-largo", Image: "https://tienda.example/i/arroz-largo.jpg"},
		{Name: "Galletitas de agua sin sal", Price: "800", Discount: "0%", Link: "https://tienda.example/p/galletitas-agua", Image: "https://tienda.example/i/galletitas-agua.jpg"},
		{Name: "Agua mineral sin gas 2L", Price: "700", Discount: "0%", Link: "https://tienda.example/p/agua-mineral", Image: "https://tienda.example/i/agua-mineral.jpg"},
		{Name: "Carbón para asado 4kg", Price: "3200", Discount: "0%", Link: "https://tienda.example/p/carbon", Image: "https://tienda.example/i/carbon.jpg"},
		{Name: "Yerba mate suave 1kg", Price: "4500", Discount: "10%", Link: "https://tienda.example/p/yerba-mate", Image: "https://tienda.example/i/yerba-mate.jpg"},
	}
}
