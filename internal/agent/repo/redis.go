package repo

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/cloudwego/eino/schema"
	"github.com/redis/go-redis/v9"

	"github.com/frizbee-ai/server/internal/agent/model"
	errx "github.com/frizbee-ai/server/internal/core/error"
	logx "github.com/frizbee-ai/server/pkg/logger"
)

// RedisStore implements model.Store over Redis. Key layout:
//
//	chat:{session}:active     list of MessageRecord JSON, in-process cycle
//	chat:{session}:history    list of MessageRecord JSON, completed cycles
//	chat:{session}:seen       set of inbound message ids (idempotency)
//	cart:{user}:active        JSON []CartItem, current cart
//	cart:{user}:completed     list of ArchivedCart JSON, oldest first
//	memory:{user}:preferences free-text preference block
//	memory:{user}:summaries   list of Summary JSON, oldest first
//	checkout:{user}:key       pending confirmation code ("" = none)
//	route:{user}:last         last routing decision
//
// Writes are independent per key; there is no cross-key transaction.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore builds the store. ttl > 0 bounds the session-scoped chat
// keys; user-scoped keys (cart, memory, key, route) never expire.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func activeMessagesKey(sessionID string) string { return fmt.Sprintf("chat:%s:active", sessionID) }
func historyMessagesKey(sessionID string) string {
	return fmt.Sprintf("chat:%s:history", sessionID)
}
func seenKey(sessionID string) string        { return fmt.Sprintf("chat:%s:seen", sessionID) }
func activeCartKey(userID string) string     { return fmt.Sprintf("cart:%s:active", userID) }
func completedCartsKey(userID string) string { return fmt.Sprintf("cart:%s:completed", userID) }
func preferencesKey(userID string) string    { return fmt.Sprintf("memory:%s:preferences", userID) }
func summariesKey(userID string) string      { return fmt.Sprintf("memory:%s:summaries", userID) }
func checkoutKeyKey(userID string) string    { return fmt.Sprintf("checkout:%s:key", userID) }
func lastRouteKey(userID string) string      { return fmt.Sprintf("route:%s:last", userID) }

// touch refreshes the TTL on a session-scoped key when expiry is configured.
func (s *RedisStore) touch(ctx context.Context, key string) {
	if s.ttl <= 0 {
		return
	}
	if err := s.client.Expire(ctx, key, s.ttl).Err(); err != nil {
		logx.Warn().Err(err).Str("key", key).Msg("Failed to refresh TTL")
	}
}

// ===== MessageStore =====

func (s *RedisStore) AddMessage(ctx context.Context, sessionID string, rec model.MessageRecord) error {
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	if rec.Status == "" {
		rec.Status = model.StatusInProcess
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal message record: %w", err)
	}

	key := activeMessagesKey(sessionID)
	if err := s.client.RPush(ctx, key, data).Err(); err != nil {
		return errx.WrapRedis(err)
	}
	s.touch(ctx, key)
	return nil
}

func (s *RedisStore) LoadActiveMessages(ctx context.Context, sessionID string) ([]*schema.Message, error) {
	rows, err := s.client.LRange(ctx, activeMessagesKey(sessionID), 0, -1).Result()
	if err != nil {
		return nil, errx.WrapRedis(err)
	}

	messages := make([]*schema.Message, 0, len(rows))
	for _, row := range rows {
		var rec model.MessageRecord
		if err := json.Unmarshal([]byte(row), &rec); err != nil {
			logx.Warn().Err(err).Str("session_id", sessionID).Msg("Skipping unreadable message row")
			continue
		}
		messages = append(messages, &schema.Message{Role: rec.Role, Content: rec.Content})
	}
	return messages, nil
}

func (s *RedisStore) CompleteMessages(ctx context.Context, sessionID string) error {
	activeKey := activeMessagesKey(sessionID)
	rows, err := s.client.LRange(ctx, activeKey, 0, -1).Result()
	if err != nil {
		return errx.WrapRedis(err)
	}
	if len(rows) == 0 {
		return nil
	}

	historyKey := historyMessagesKey(sessionID)
	relabeled := make([]interface{}, 0, len(rows))
	for _, row := range rows {
		var rec model.MessageRecord
		if err := json.Unmarshal([]byte(row), &rec); err != nil {
			relabeled = append(relabeled, row)
			continue
		}
		rec.Status = model.StatusCompleted
		data, err := json.Marshal(rec)
		if err != nil {
			relabeled = append(relabeled, row)
			continue
		}
		relabeled = append(relabeled, string(data))
	}

	if err := s.client.RPush(ctx, historyKey, relabeled...).Err(); err != nil {
		return errx.WrapRedis(err)
	}
	if err := s.client.Del(ctx, activeKey).Err(); err != nil {
		return errx.WrapRedis(err)
	}
	s.touch(ctx, historyKey)
	return nil
}

func (s *RedisStore) SeenMessage(ctx context.Context, sessionID, messageID string) (bool, error) {
	if messageID == "" {
		return false, nil
	}
	key := seenKey(sessionID)
	added, err := s.client.SAdd(ctx, key, messageID).Result()
	if err != nil {
		return false, errx.WrapRedis(err)
	}
	s.touch(ctx, key)
	return added == 0, nil
}

// ===== CartStore =====

func (s *RedisStore) LoadCart(ctx context.Context, userID string) ([]model.CartItem, error) {
	raw, err := s.client.Get(ctx, activeCartKey(userID)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, errx.WrapRedis(err)
	}

	var items []model.CartItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, fmt.Errorf("unmarshal cart: %w", err)
	}
	return items, nil
}

func (s *RedisStore) SaveCart(ctx context.Context, userID string, items []model.CartItem) error {
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("marshal cart: %w", err)
	}
	if err := s.client.Set(ctx, activeCartKey(userID), data, 0).Err(); err != nil {
		return errx.WrapRedis(err)
	}
	return nil
}

func (s *RedisStore) CompleteCart(ctx context.Context, userID string) error {
	items, err := s.LoadCart(ctx, userID)
	if err != nil {
		return err
	}

	if len(items) > 0 {
		if err := s.SaveCompletedCart(ctx, userID, items); err != nil {
			return err
		}
	}
	if err := s.client.Del(ctx, activeCartKey(userID)).Err(); err != nil {
		return errx.WrapRedis(err)
	}
	return nil
}

func (s *RedisStore) SaveCompletedCart(ctx context.Context, userID string, items []model.CartItem) error {
	archived := model.ArchivedCart{Items: items, UpdatedAt: time.Now().UTC()}
	data, err := json.Marshal(archived)
	if err != nil {
		return fmt.Errorf("marshal archived cart: %w", err)
	}
	if err := s.client.RPush(ctx, completedCartsKey(userID), data).Err(); err != nil {
		return errx.WrapRedis(err)
	}
	return nil
}

func (s *RedisStore) LoadOldCarts(ctx context.Context, userID string) ([]model.ArchivedCart, error) {
	rows, err := s.client.LRange(ctx, completedCartsKey(userID), 0, -1).Result()
	if err != nil {
		return nil, errx.WrapRedis(err)
	}

	carts := make([]model.ArchivedCart, 0, len(rows))
	// stored oldest first; return newest first, empty carts skipped
	for i := len(rows) - 1; i >= 0; i-- {
		var cart model.ArchivedCart
		if err := json.Unmarshal([]byte(rows[i]), &cart); err != nil {
			logx.Warn().Err(err).Str("user_id", userID).Msg("Skipping unreadable archived cart")
			continue
		}
		if len(cart.Items) == 0 {
			continue
		}
		carts = append(carts, cart)
	}
	return carts, nil
}

// ===== MemoryStore =====

func (s *RedisStore) LoadPreferences(ctx context.Context, userID string) (string, error) {
	raw, err := s.client.Get(ctx, preferencesKey(userID)).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", errx.WrapRedis(err)
	}
	return raw, nil
}

func (s *RedisStore) SavePreferences(ctx context.Context, userID, preferences string) error {
	if err := s.client.Set(ctx, preferencesKey(userID), preferences, 0).Err(); err != nil {
		return errx.WrapRedis(err)
	}
	return nil
}

func (s *RedisStore) AppendSummary(ctx context.Context, userID, content string) error {
	summary := model.Summary{Content: content, CreatedAt: time.Now().UTC()}
	data, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("marshal summary: %w", err)
	}
	if err := s.client.RPush(ctx, summariesKey(userID), data).Err(); err != nil {
		return errx.WrapRedis(err)
	}
	return nil
}

func (s *RedisStore) LoadSummaries(ctx context.Context, userID string) ([]model.Summary, error) {
	rows, err := s.client.LRange(ctx, summariesKey(userID), 0, -1).Result()
	if err != nil {
		return nil, errx.WrapRedis(err)
	}

	summaries := make([]model.Summary, 0, len(rows))
	for _, row := range rows {
		var summary model.Summary
		if err := json.Unmarshal([]byte(row), &summary); err != nil {
			logx.Warn().Err(err).Str("user_id", userID).Msg("Skipping unreadable summary")
			continue
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

// ===== KeyStore =====

func (s *RedisStore) LoadKey(ctx context.Context, userID string) (string, error) {
	raw, err := s.client.Get(ctx, checkoutKeyKey(userID)).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", errx.WrapRedis(err)
	}
	return raw, nil
}

func (s *RedisStore) UpdateKey(ctx context.Context, userID, key string) error {
	if err := s.client.Set(ctx, checkoutKeyKey(userID), key, 0).Err(); err != nil {
		return errx.WrapRedis(err)
	}
	return nil
}

// ===== RouteStore =====

func (s *RedisStore) LoadLastRoute(ctx context.Context, userID string) (string, error) {
	raw, err := s.client.Get(ctx, lastRouteKey(userID)).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", errx.WrapRedis(err)
	}
	return raw, nil
}

func (s *RedisStore) SaveLastRoute(ctx context.Context, userID, route string) error {
	if err := s.client.Set(ctx, lastRouteKey(userID), route, 0).Err(); err != nil {
		return errx.WrapRedis(err)
	}
	return nil
}

var _ model.Store = (*RedisStore)(nil)
