// Package cache implements the local draft cache: drafts created or edited
// while disconnected live here until they are promoted into the real tables.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/tavvy/atlas-backend/internal/domain"
)

// PrefixOfflineDrafts namespaces the per-user draft blobs
const PrefixOfflineDrafts = "offline_drafts:"

// TTLOfflineDrafts keeps abandoned offline drafts around long enough to be
// resumed across sessions without leaking storage forever
const TTLOfflineDrafts = 90 * 24 * time.Hour

// ErrCacheUnavailable is returned when no backing store is configured
var ErrCacheUnavailable = errors.New("draft cache not available")

// KV is the minimal key/value surface the cache needs. Satisfied by redis in
// production and by an in-memory map in tests.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// DraftCache stores each user's offline drafts as one JSON array blob.
// Every write reads the full array, applies the single draft's change, and
// writes the full array back; partial-key update semantics are never assumed.
type DraftCache struct {
	kv KV
}

// NewDraftCache creates a DraftCache over a KV store
func NewDraftCache(kv KV) *DraftCache {
	return &DraftCache{kv: kv}
}

func (c *DraftCache) key(userID string) string {
	return PrefixOfflineDrafts + userID
}

func (c *DraftCache) load(ctx context.Context, userID string) ([]domain.ContentDraft, error) {
	if c.kv == nil {
		return nil, ErrCacheUnavailable
	}
	raw, err := c.kv.Get(ctx, c.key(userID))
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, nil
	}
	var drafts []domain.ContentDraft
	if err := json.Unmarshal(raw, &drafts); err != nil {
		return nil, fmt.Errorf("corrupt draft blob for user %s: %w", userID, err)
	}
	return drafts, nil
}

func (c *DraftCache) store(ctx context.Context, userID string, drafts []domain.ContentDraft) error {
	if drafts == nil {
		drafts = []domain.ContentDraft{}
	}
	raw, err := json.Marshal(drafts)
	if err != nil {
		return err
	}
	return c.kv.Set(ctx, c.key(userID), raw, TTLOfflineDrafts)
}

// SaveDraft upserts a draft into the user's blob, matched by id
func (c *DraftCache) SaveDraft(ctx context.Context, draft *domain.ContentDraft) error {
	if c.kv == nil {
		return ErrCacheUnavailable
	}
	drafts, err := c.load(ctx, draft.UserID)
	if err != nil {
		return err
	}
	replaced := false
	for i := range drafts {
		if drafts[i].ID == draft.ID {
			drafts[i] = *draft
			replaced = true
			break
		}
	}
	if !replaced {
		drafts = append(drafts, *draft)
	}
	return c.store(ctx, draft.UserID, drafts)
}

// RemoveDraft deletes a draft from the user's blob. Removing an id that is
// not present is not an error.
func (c *DraftCache) RemoveDraft(ctx context.Context, userID, draftID string) error {
	if c.kv == nil {
		return ErrCacheUnavailable
	}
	drafts, err := c.load(ctx, userID)
	if err != nil {
		return err
	}
	if len(drafts) == 0 {
		return nil
	}
	kept := drafts[:0]
	for _, d := range drafts {
		if d.ID != draftID {
			kept = append(kept, d)
		}
	}
	return c.store(ctx, userID, kept)
}

// ListDrafts returns all of the user's cached drafts
func (c *DraftCache) ListDrafts(ctx context.Context, userID string) ([]domain.ContentDraft, error) {
	return c.load(ctx, userID)
}

// GetDraft returns one cached draft by id, or nil when absent
func (c *DraftCache) GetDraft(ctx context.Context, userID, draftID string) (*domain.ContentDraft, error) {
	drafts, err := c.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	for i := range drafts {
		if drafts[i].ID == draftID {
			return &drafts[i], nil
		}
	}
	return nil, nil
}

// redisKV adapts a redis client to the KV interface
type redisKV struct {
	client *redis.Client
}

// NewRedisKV wraps a redis client for use as the cache's backing store
func NewRedisKV(client *redis.Client) KV {
	return &redisKV{client: client}
}

func (r *redisKV) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := r.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	return data, err
}

func (r *redisKV) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return r.client.Set(ctx, key, value, ttl).Err()
}
