package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Store is a prefixed key-value abstraction with TTL over Redis. It is
// injected wherever short-lived state is needed instead of a module-level
// cache.
type Store struct {
	client *redis.Client
	prefix string
}

func NewStore(client *redis.Client, prefix string) *Store {
	return &Store{client: client, prefix: prefix}
}

func (s *Store) key(k string) string { return fmt.Sprintf("%s:%s", s.prefix, k) }

func (s *Store) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return s.client.Set(ctx, s.key(key), value, ttl).Err()
}

// Get returns ("", nil) on a missing key.
func (s *Store) Get(ctx context.Context, key string) (string, error) {
	v, err := s.client.Get(ctx, s.key(key)).Result()
	if err == redis.Nil {
		return "", nil
	}
	return v, err
}

func (s *Store) Delete(ctx context.Context, key string) error {
	return s.client.Del(ctx, s.key(key)).Err()
}

const presenceTTL = 24 * time.Hour

// PresenceStore records online/offline status with a last-seen stamp.
type PresenceStore struct {
	store *Store
}

func NewPresenceStore(store *Store) *PresenceStore {
	return &PresenceStore{store: store}
}

func (p *PresenceStore) set(ctx context.Context, userID, status string) error {
	b, _ := json.Marshal(map[string]any{"status": status, "last_seen": time.Now().Unix()})
	return p.store.Set(ctx, "presence:"+userID, string(b), presenceTTL)
}

func (p *PresenceStore) Online(ctx context.Context, userID string) error {
	return p.set(ctx, userID, "online")
}

func (p *PresenceStore) Offline(ctx context.Context, userID string) error {
	return p.set(ctx, userID, "offline")
}
