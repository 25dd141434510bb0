package graph

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/compose"

	"github.com/frizbee-ai/server/internal/agent/graph/conversations"
	"github.com/frizbee-ai/server/internal/agent/graph/nodes"
	"github.com/frizbee-ai/server/internal/agent/graph/observers"
	"github.com/frizbee-ai/server/internal/agent/graph/routing"
	"github.com/frizbee-ai/server/internal/agent/graph/tools"
	"github.com/frizbee-ai/server/internal/agent/model"
	logx "github.com/frizbee-ai/server/pkg/logger"
)

// Runner is a thin wrapper to execute the compiled graph with the public TurnInput.
type Runner interface {
	Invoke(ctx context.Context, in model.TurnInput) (*model.TurnResult, error)
}

// Config holds everything needed to compose the full shopping graph end-to-end.
// This is a convenience layer over GraphConfig that also constructs ChatModels,
// the context builder and the tool executor.
type Config struct {
	APIKey  string
	BaseURL string

	RouterModel      model.RouterModelConfig
	ShoppingModel    model.ShoppingModelConfig
	PreferencesModel model.PreferencesModelConfig
	CheckoutModel    model.CheckoutModelConfig
	Conversation     model.ConversationConfig

	Store     model.Store
	Retriever tools.ProductRetriever
	Robot     nodes.PurchaseRunner
}

// GraphConfig holds all configuration needed to build the graph
type GraphConfig struct {
	ChatModels     *nodes.ChatModels
	Classifier     *routing.Classifier
	ContextBuilder *conversations.ContextBuilder
	Executor       *tools.Executor
	Store          model.Store
	Robot          nodes.PurchaseRunner
	ToolMaxRounds  int
}

// GraphBuilder handles the construction of the shopping conversation graph
type GraphBuilder struct {
	config *GraphConfig
	graph  *compose.Graph[model.TurnInput, *model.TurnResult]
}

type graphRunner struct {
	runnable compose.Runnable[model.TurnInput, *model.TurnResult]
}

func (r *graphRunner) Invoke(ctx context.Context, in model.TurnInput) (*model.TurnResult, error) {
	return r.runnable.Invoke(ctx, in, compose.WithCallbacks(observers.NewAllCallbacks()))
}

// BuildShoppingGraph composes chat models, classifier, context builder and
// executor, builds the graph, and returns a Runner.
func BuildShoppingGraph(ctx context.Context, cfg Config) (Runner, error) {
	if cfg.Store == nil {
		return nil, fmt.Errorf("store is nil")
	}
	if cfg.Retriever == nil {
		return nil, fmt.Errorf("product retriever is nil")
	}

	cms, err := nodes.NewChatModels(ctx, nodes.ChatModelConfig{
		APIKey:            cfg.APIKey,
		BaseURL:           cfg.BaseURL,
		RouterConfig:      &cfg.RouterModel,
		ShoppingConfig:    &cfg.ShoppingModel,
		PreferencesConfig: &cfg.PreferencesModel,
		CheckoutConfig:    &cfg.CheckoutModel,
	})
	if err != nil {
		return nil, err
	}

	if err := cms.BindShoppingTools(); err != nil {
		return nil, err
	}
	if err := cms.BindPreferenceTools(); err != nil {
		return nil, err
	}

	runnable, err := BuildGraph(ctx, &GraphConfig{
		ChatModels:     cms,
		Classifier:     routing.NewClassifier(cms.Router),
		ContextBuilder: conversations.NewContextBuilder(cfg.Conversation),
		Executor:       tools.NewExecutor(cfg.Retriever),
		Store:          cfg.Store,
		Robot:          cfg.Robot,
		ToolMaxRounds:  cfg.Conversation.Tools.MaxRounds,
	})
	if err != nil {
		return nil, err
	}

	logx.Debug().Msg("Shopping graph built successfully")
	return &graphRunner{runnable: runnable}, nil
}

// BuildGraph constructs and returns the compiled conversation graph
func BuildGraph(ctx context.Context, config *GraphConfig) (compose.Runnable[model.TurnInput, *model.TurnResult], error) {
	// Basic config validation
	if config == nil {
		return nil, fmt.Errorf("graph config is nil")
	}
	if config.ChatModels == nil || config.ChatModels.Shopping == nil || config.ChatModels.Preferences == nil || config.ChatModels.Checkout == nil {
		return nil, fmt.Errorf("chat models are not properly initialized")
	}
	if config.Classifier == nil || config.ContextBuilder == nil || config.Executor == nil {
		return nil, fmt.Errorf("graph collaborators are not properly initialized")
	}
	if config.Store == nil {
		return nil, fmt.Errorf("store is nil")
	}

	builder := &GraphBuilder{
		config: config,
		graph: compose.NewGraph[model.TurnInput, *model.TurnResult](
			compose.WithGenLocalState(func(ctx context.Context) *model.TurnState {
				return &model.TurnState{}
			}),
		),
	}

	builder.addNodes()
	builder.addEdges()

	if err := builder.addBranches(); err != nil {
		return nil, err
	}

	return builder.compile(ctx)
}

// addNodes adds all processing nodes to the graph
func (b *GraphBuilder) addNodes() {
	cms := b.config.ChatModels
	cb := b.config.ContextBuilder

	b.graph.AddLambdaNode(nodes.NodeIntake,
		nodes.NewIntakeNode(b.config.Classifier, cb),
		compose.WithStatePreHandler(nodes.NewIntakePreHandler()),
	)

	b.graph.AddChatModelNode(nodes.NodeShopping,
		cms.Shopping,
		compose.WithStatePreHandler(nodes.NewShoppingPreHandler(cb, b.config.ToolMaxRounds)),
		compose.WithStatePostHandler(nodes.NewChatModelPostHandler(nodes.NodeShopping, cms.ShoppingModelName)),
	)

	b.graph.AddLambdaNode(nodes.NodeShoppingTools,
		nodes.NewShoppingToolsNode(b.config.Executor),
	)

	b.graph.AddChatModelNode(nodes.NodePreferences,
		cms.Preferences,
		compose.WithStatePreHandler(nodes.NewPreferencesPreHandler(cb, b.config.ToolMaxRounds)),
		compose.WithStatePostHandler(nodes.NewChatModelPostHandler(nodes.NodePreferences, cms.PreferencesModelName)),
	)

	b.graph.AddLambdaNode(nodes.NodeSaveMemory,
		nodes.NewSaveMemoryNode(b.config.Executor),
	)

	b.graph.AddLambdaNode(nodes.NodeCreateKey,
		nodes.NewCreateKeyNode(cms.Checkout, cms.CheckoutModelName, b.config.Store, cb),
	)

	b.graph.AddLambdaNode(nodes.NodeCreateSummary,
		nodes.NewCreateSummaryNode(cms.Checkout, cms.CheckoutModelName, b.config.Store),
	)

	b.graph.AddLambdaNode(nodes.NodeCompletePurchase,
		nodes.NewCompletePurchaseNode(cms.Checkout, cms.CheckoutModelName, b.config.Store, b.config.Robot, cb),
	)

	b.graph.AddLambdaNode(nodes.NodeCollect,
		nodes.NewCollectNode(),
	)
}

// addEdges creates the main flow connections between nodes
func (b *GraphBuilder) addEdges() {
	edges := [][2]string{
		{compose.START, nodes.NodeIntake},
		{nodes.NodeShoppingTools, nodes.NodeShopping},
		{nodes.NodeSaveMemory, nodes.NodePreferences},
		{nodes.NodeCreateKey, nodes.NodeCollect},
		{nodes.NodeCreateSummary, nodes.NodeCompletePurchase},
		{nodes.NodeCompletePurchase, nodes.NodeCollect},
		{nodes.NodeCollect, compose.END},
	}

	for _, edge := range edges {
		b.graph.AddEdge(edge[0], edge[1])
	}
}

// addBranches creates conditional routing branches
func (b *GraphBuilder) addBranches() error {
	initialBranch := compose.NewGraphBranch(
		nodes.NewInitialRouteCondition(),
		map[string]bool{
			nodes.NodeShopping:      true,
			nodes.NodePreferences:   true,
			nodes.NodeCreateKey:     true,
			nodes.NodeCreateSummary: true,
		},
	)
	if err := b.graph.AddBranch(nodes.NodeIntake, initialBranch); err != nil {
		logx.Error().Err(err).Msg("Error adding initial route branch")
		return fmt.Errorf("error adding initial route branch: %w", err)
	}

	shoppingBranch := compose.NewGraphBranch(
		nodes.NewShoppingToolCondition(b.config.ToolMaxRounds),
		map[string]bool{
			nodes.NodeShoppingTools: true,
			nodes.NodeCollect:       true,
		},
	)
	if err := b.graph.AddBranch(nodes.NodeShopping, shoppingBranch); err != nil {
		logx.Error().Err(err).Msg("Error adding shopping tool branch")
		return fmt.Errorf("error adding shopping tool branch: %w", err)
	}

	preferenceBranch := compose.NewGraphBranch(
		nodes.NewPreferenceToolCondition(b.config.ToolMaxRounds),
		map[string]bool{
			nodes.NodeSaveMemory: true,
			nodes.NodeCollect:    true,
		},
	)
	if err := b.graph.AddBranch(nodes.NodePreferences, preferenceBranch); err != nil {
		logx.Error().Err(err).Msg("Error adding preference tool branch")
		return fmt.Errorf("error adding preference tool branch: %w", err)
	}

	return nil
}

// compile finalizes and compiles the graph
func (b *GraphBuilder) compile(ctx context.Context) (compose.Runnable[model.TurnInput, *model.TurnResult], error) {
	// Limit total run steps to avoid infinite tool loops
	maxSteps := 10 + b.config.ToolMaxRounds*2
	if maxSteps < 20 {
		maxSteps = 20
	}

	runnable, err := b.graph.Compile(ctx, compose.WithMaxRunSteps(maxSteps))
	if err != nil {
		logx.Error().Err(err).Msg("Error compiling graph")
		return nil, fmt.Errorf("error compiling graph: %w", err)
	}

	logx.Debug().Msg("Graph compiled successfully")
	return runnable, nil
}
