package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/matzehuels/fsnav/pkg/cache"
)

// keyPrefix namespaces session entries within a shared cache.
const keyPrefix = "session:"

// CacheStore keeps sessions in a cache backend. The cache's TTL handles
// expiry, so Cleanup does nothing.
type CacheStore struct {
	cache cache.Cache
}

// NewCacheStore stores sessions in c.
func NewCacheStore(c cache.Cache) *CacheStore {
	return &CacheStore{cache: c}
}

func (s *CacheStore) Get(ctx context.Context, id string) (*Session, error) {
	data, ok, err := s.cache.Get(ctx, keyPrefix+id)
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	if !ok {
		return nil, nil
	}
	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("parse session: %w", err)
	}
	if sess.IsExpired() {
		return nil, nil
	}
	return &sess, nil
}

func (s *CacheStore) Set(ctx context.Context, sess *Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	ttl := time.Until(sess.ExpiresAt)
	if ttl <= 0 {
		return s.Delete(ctx, sess.ID)
	}
	return s.cache.Set(ctx, keyPrefix+sess.ID, data, ttl)
}

func (s *CacheStore) Delete(ctx context.Context, id string) error {
	return s.cache.Delete(ctx, keyPrefix+id)
}

func (s *CacheStore) Cleanup(context.Context) error { return nil }

var _ Store = (*CacheStore)(nil)
