package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// TokenStore holds upstream access tokens until they expire.
type TokenStore interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key, token string, ttl time.Duration) error
	Close() error
}

type RedisTokenStore struct {
	client *redis.Client
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

func DefaultRedisConfig() RedisConfig {
	return RedisConfig{
		Host:     "localhost",
		Port:     "6379",
		Password: "",
		DB:       0,
	}
}

func NewRedisTokenStore(cfg RedisConfig) (*RedisTokenStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Host + ":" + cfg.Port,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, err
	}

	return &RedisTokenStore{client: client}, nil
}

func (s *RedisTokenStore) Get(ctx context.Context, key string) (string, bool) {
	token, err := s.client.Get(ctx, key).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			slog.Warn("token store read failed", "error", err)
		}
		return "", false
	}
	return token, true
}

func (s *RedisTokenStore) Set(ctx context.Context, key, token string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return s.client.Set(ctx, key, token, ttl).Err()
}

func (s *RedisTokenStore) Close() error {
	return s.client.Close()
}

type memoryEntry struct {
	token  string
	expiry time.Time
}

// MemoryTokenStore is the in-process fallback used when Redis is disabled.
type MemoryTokenStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	now     func() time.Time
}

func NewMemoryTokenStore() *MemoryTokenStore {
	return &MemoryTokenStore{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

func (s *MemoryTokenStore) Get(ctx context.Context, key string) (string, bool) {
	s.mu.RLock()
	entry, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok {
		return "", false
	}
	if !s.now().Before(entry.expiry) {
		s.mu.Lock()
		delete(s.entries, key)
		s.mu.Unlock()
		return "", false
	}
	return entry.token, true
}

func (s *MemoryTokenStore) Set(ctx context.Context, key, token string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	s.mu.Lock()
	s.entries[key] = memoryEntry{token: token, expiry: s.now().Add(ttl)}
	s.mu.Unlock()
	return nil
}

func (s *MemoryTokenStore) Close() error {
	return nil
}

// TokenKey derives the store key for a set of client credentials without
// putting the secret itself into the key.
func TokenKey(env, clientID, clientSecret string) string {
	hash := sha256.Sum256([]byte(env + "\x00" + clientID + "\x00" + clientSecret))
	return "token:" + env + ":" + hex.EncodeToString(hash[:])
}
