package mockapi

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/example/storefront/pkg/config"
	"github.com/go-redis/redis/v8"
)

// tokenTTL matches the reference backend's access-token lifetime.
const tokenTTL = 60 * time.Minute

// TokenStore maps issued opaque tokens to user ids. The client never
// inspects tokens; only the fixture resolves them.
type TokenStore interface {
	Save(ctx context.Context, token string, userID int64) error
	Lookup(ctx context.Context, token string) (int64, bool, error)
	Close() error
}

type memoryToken struct {
	userID  int64
	expires time.Time
}

// MemoryTokens is the default in-process token store.
type MemoryTokens struct {
	mu     sync.Mutex
	tokens map[string]memoryToken
	now    func() time.Time
}

func NewMemoryTokens() *MemoryTokens {
	return &MemoryTokens{
		tokens: make(map[string]memoryToken),
		now:    time.Now,
	}
}

func (m *MemoryTokens) Save(_ context.Context, token string, userID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tokens[token] = memoryToken{userID: userID, expires: m.now().Add(tokenTTL)}
	return nil
}

func (m *MemoryTokens) Lookup(_ context.Context, token string) (int64, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry, ok := m.tokens[token]
	if !ok || m.now().After(entry.expires) {
		delete(m.tokens, token)
		return 0, false, nil
	}
	return entry.userID, true, nil
}

func (m *MemoryTokens) Close() error {
	return nil
}

type sessionRecord struct {
	UserID int64 `json:"user_id"`
}

// RedisTokens keeps issued sessions in redis so multiple fixture instances
// can share them. Records are JSON under "session:<token>" with the token
// TTL applied by redis itself.
type RedisTokens struct {
	client *redis.Client
}

func NewRedisTokens(cfg *config.RedisConfig) *RedisTokens {
	return &RedisTokens{
		client: redis.NewClient(&redis.Options{
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       cfg.DB,
			PoolSize: cfg.PoolSize,
		}),
	}
}

func (r *RedisTokens) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisTokens) Save(ctx context.Context, token string, userID int64) error {
	data, err := json.Marshal(sessionRecord{UserID: userID})
	if err != nil {
		return err
	}
	return r.client.Set(ctx, sessionKey(token), data, tokenTTL).Err()
}

func (r *RedisTokens) Lookup(ctx context.Context, token string) (int64, bool, error) {
	data, err := r.client.Get(ctx, sessionKey(token)).Result()
	if err == redis.Nil {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	var record sessionRecord
	if err := json.Unmarshal([]byte(data), &record); err != nil {
		return 0, false, err
	}
	return record.UserID, true, nil
}

func (r *RedisTokens) Close() error {
	return r.client.Close()
}

func sessionKey(token string) string {
	return "session:" + token
}
