package agent

import (
	"context"
	"testing"

	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/frizbee-ai/server/internal/agent/model"
)

// fakeStore is an in-memory model.Store for turn-pipeline tests.
type fakeStore struct {
	seen        map[string]bool
	messages    []model.MessageRecord
	cart        []model.CartItem
	oldCarts    []model.ArchivedCart
	preferences string
	summaries   []model.Summary
	key         string
	lastRoute   string
}

func newFakeStore() *fakeStore {
	return &fakeStore{seen: map[string]bool{}}
}

func (f *fakeStore) AddMessage(ctx context.Context, sessionID string, rec model.MessageRecord) error {
	f.messages = append(f.messages, rec)
	return nil
}

func (f *fakeStore) LoadActiveMessages(ctx context.Context, sessionID string) ([]*schema.Message, error) {
	out := make([]*schema.Message, 0, len(f.messages))
	for _, rec := range f.messages {
		if rec.Status == model.StatusInProcess {
			out = append(out, &schema.Message{Role: rec.Role, Content: rec.Content})
		}
	}
	return out, nil
}

func (f *fakeStore) CompleteMessages(ctx context.Context, sessionID string) error {
	for i := range f.messages {
		f.messages[i].Status = model.StatusCompleted
	}
	return nil
}

func (f *fakeStore) SeenMessage(ctx context.Context, sessionID, messageID string) (bool, error) {
	if f.seen[messageID] {
		return true, nil
	}
	f.seen[messageID] = true
	return false, nil
}

func (f *fakeStore) LoadCart(ctx context.Context, userID string) ([]model.CartItem, error) {
	return f.cart, nil
}

func (f *fakeStore) SaveCart(ctx context.Context, userID string, items []model.CartItem) error {
	f.cart = items
	return nil
}

func (f *fakeStore) CompleteCart(ctx context.Context, userID string) error {
	if len(f.cart) > 0 {
		f.oldCarts = append(f.oldCarts, model.ArchivedCart{Items: f.cart})
	}
	f.cart = nil
	return nil
}

func (f *fakeStore) SaveCompletedCart(ctx context.Context, userID string, items []model.CartItem) error {
	f.oldCarts = append(f.oldCarts, model.ArchivedCart{Items: items})
	return nil
}

func (f *fakeStore) LoadOldCarts(ctx context.Context, userID string) ([]model.ArchivedCart, error) {
	return f.oldCarts, nil
}

func (f *fakeStore) LoadPreferences(ctx context.Context, userID string) (string, error) {
	return f.preferences, nil
}

func (f *fakeStore) SavePreferences(ctx context.Context, userID, preferences string) error {
	f.preferences = preferences
	return nil
}

func (f *fakeStore) AppendSummary(ctx context.Context, userID, content string) error {
	f.summaries = append(f.summaries, model.Summary{Content: content})
	return nil
}

func (f *fakeStore) LoadSummaries(ctx context.Context, userID string) ([]model.Summary, error) {
	return f.summaries, nil
}

func (f *fakeStore) LoadKey(ctx context.Context, userID string) (string, error) {
	return f.key, nil
}

func (f *fakeStore) UpdateKey(ctx context.Context, userID, key string) error {
	f.key = key
	return nil
}

func (f *fakeStore) LoadLastRoute(ctx context.Context, userID string) (string, error) {
	return f.lastRoute, nil
}

func (f *fakeStore) SaveLastRoute(ctx context.Context, userID, route string) error {
	f.lastRoute = route
	return nil
}

// fakeRunner records the input it was invoked with and plays back a result.
type fakeRunner struct {
	invocations int
	lastInput   model.TurnInput
	result      *model.TurnResult
}

func (f *fakeRunner) Invoke(ctx context.Context, in model.TurnInput) (*model.TurnResult, error) {
	f.invocations++
	f.lastInput = in
	return f.result, nil
}

func turnInput(messageID string) model.TurnInput {
	return model.TurnInput{
		SessionID: "s1",
		UserID:    "u1",
		MessageID: messageID,
		Query:     "quiero tomates",
	}
}

func TestProcessTurnPersistsDeltas(t *testing.T) {
	store := newFakeStore()
	runner := &fakeRunner{result: &model.TurnResult{
		Reply: "Agregué tomates al carrito",
		NewMessages: []*schema.Message{
			schema.AssistantMessage("Agregué tomates al carrito", nil),
		},
		Cart:        []model.CartItem{{Name: "Tomate", Quantity: "2", Price: "1200"}},
		Preferences: "- le gustan los tomates",
		LastRoute:   "shopping",
	}}
	assistant := NewAssistant(store, runner)

	result, err := assistant.ProcessTurn(context.Background(), turnInput("m1"))
	require.NoError(t, err)
	assert.Equal(t, "Agregué tomates al carrito", result.Reply)

	// user message plus assistant reply persisted
	require.Len(t, store.messages, 2)
	assert.Equal(t, schema.User, store.messages[0].Role)
	assert.Equal(t, "m1", store.messages[0].ID)
	assert.Equal(t, schema.Assistant, store.messages[1].Role)

	assert.Len(t, store.cart, 1)
	assert.Equal(t, "- le gustan los tomates", store.preferences)
	assert.Equal(t, "shopping", store.lastRoute)
}

func TestProcessTurnSuppressesDuplicateDelivery(t *testing.T) {
	store := newFakeStore()
	runner := &fakeRunner{result: &model.TurnResult{Reply: "hola"}}
	assistant := NewAssistant(store, runner)

	_, err := assistant.ProcessTurn(context.Background(), turnInput("m1"))
	require.NoError(t, err)
	require.Equal(t, 1, runner.invocations)

	result, err := assistant.ProcessTurn(context.Background(), turnInput("m1"))
	require.NoError(t, err)

	assert.Equal(t, 1, runner.invocations, "duplicate never reaches the graph")
	assert.Equal(t, &model.TurnResult{}, result, "duplicate yields a no-op result")
	assert.Len(t, store.messages, 1, "duplicate user message not re-persisted")
}

func TestProcessTurnLoadsSnapshotIntoInput(t *testing.T) {
	store := newFakeStore()
	store.cart = []model.CartItem{{Name: "Pan", Quantity: "1"}}
	store.preferences = "- sin gluten"
	store.key = "457"
	store.lastRoute = "preferences"

	runner := &fakeRunner{result: &model.TurnResult{}}
	assistant := NewAssistant(store, runner)

	_, err := assistant.ProcessTurn(context.Background(), turnInput("m1"))
	require.NoError(t, err)

	assert.Equal(t, "- sin gluten", runner.lastInput.Preferences)
	assert.Equal(t, "457", runner.lastInput.CheckoutKey)
	assert.Equal(t, "preferences", runner.lastInput.LastRoute)
	require.Len(t, runner.lastInput.Cart, 1)
	assert.Equal(t, "Pan", runner.lastInput.Cart[0].Name)
}

func TestProcessTurnGeneratesMessageID(t *testing.T) {
	store := newFakeStore()
	runner := &fakeRunner{result: &model.TurnResult{}}
	assistant := NewAssistant(store, runner)

	in := turnInput("")
	_, err := assistant.ProcessTurn(context.Background(), in)
	require.NoError(t, err)

	require.Len(t, store.messages, 1)
	assert.NotEmpty(t, store.messages[0].ID)
}

func TestProcessTurnRequiresIdentity(t *testing.T) {
	assistant := NewAssistant(newFakeStore(), &fakeRunner{})

	_, err := assistant.ProcessTurn(context.Background(), model.TurnInput{Query: "hola"})
	assert.Error(t, err)
}

func TestProcessTurnSkipsToolAndEmptyMessages(t *testing.T) {
	store := newFakeStore()
	runner := &fakeRunner{result: &model.TurnResult{
		NewMessages: []*schema.Message{
			schema.ToolMessage("tool result", "call_1"),
			schema.AssistantMessage("", nil),
			schema.AssistantMessage("respuesta", nil),
		},
	}}
	assistant := NewAssistant(store, runner)

	_, err := assistant.ProcessTurn(context.Background(), turnInput("m1"))
	require.NoError(t, err)

	// user message + the single content-bearing assistant message
	require.Len(t, store.messages, 2)
	assert.Equal(t, "respuesta", store.messages[1].Content)
}
