package cart

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Store hydrates and persists carts keyed by client session. Any
// implementation works behind this interface; the cart itself never
// assumes server-side authority over its contents.
type Store interface {
	Load(ctx context.Context, sessionID string) (*Cart, error)
	Save(ctx context.Context, sessionID string, cart *Cart) error
	Delete(ctx context.Context, sessionID string) error
}

// RedisStore persists carts in Redis with the session TTL.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore constructs a RedisStore.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func cartKey(sessionID string) string {
	return "cazuela:cart:" + sessionID
}

func (s *RedisStore) Load(ctx context.Context, sessionID string) (*Cart, error) {
	payload, err := s.client.Get(ctx, cartKey(sessionID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return &Cart{}, nil
		}
		return nil, err
	}
	var c Cart
	if err := json.Unmarshal(payload, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *RedisStore) Save(ctx context.Context, sessionID string, cart *Cart) error {
	data, err := json.Marshal(cart)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, cartKey(sessionID), data, s.ttl).Err()
}

func (s *RedisStore) Delete(ctx context.Context, sessionID string) error {
	err := s.client.Del(ctx, cartKey(sessionID)).Err()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	return err
}

// MemoryStore keeps carts in process memory. Used in tests and as a
// fallback when Redis is unavailable.
type MemoryStore struct {
	mu    sync.Mutex
	carts map[string][]byte
}

// NewMemoryStore constructs a MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{carts: make(map[string][]byte)}
}

func (s *MemoryStore) Load(ctx context.Context, sessionID string) (*Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	payload, ok := s.carts[sessionID]
	if !ok {
		return &Cart{}, nil
	}
	var c Cart
	if err := json.Unmarshal(payload, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *MemoryStore) Save(ctx context.Context, sessionID string, cart *Cart) error {
	data, err := json.Marshal(cart)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.carts[sessionID] = data
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, sessionID)
	return nil
}

var (
	_ Store = (*RedisStore)(nil)
	_ Store = (*MemoryStore)(nil)
)
