package cache

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/tavvy/atlas-backend/internal/domain"
)

// memKV is an in-memory KV with the same absent-key behavior as the redis
// adapter: a missing key reads as (nil, nil)
type memKV struct {
	mu   sync.Mutex
	data map[string][]byte
	ttls map[string]time.Duration
}

func newMemKV() *memKV {
	return &memKV{data: make(map[string][]byte), ttls: make(map[string]time.Duration)}
}

func (m *memKV) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data[key], nil
}

func (m *memKV) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	m.ttls[key] = ttl
	return nil
}

func testDraft(userID, id string) *domain.ContentDraft {
	now := time.Now().UTC().Truncate(time.Second)
	return &domain.ContentDraft{
		ID:         id,
		UserID:     userID,
		Status:     domain.StatusDraftLocation,
		SyncStatus: domain.SyncPending,
		IsOffline:  true,
		Data:       domain.JSONMap{"name": "Corner Cafe"},
		Photos:     domain.StringList{},
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

func TestSaveDraft_InsertAndUpsert(t *testing.T) {
	kv := newMemKV()
	c := NewDraftCache(kv)
	ctx := context.Background()

	d1 := testDraft("user-1", "offline_a")
	d2 := testDraft("user-1", "offline_b")
	assert.NoError(t, c.SaveDraft(ctx, d1))
	assert.NoError(t, c.SaveDraft(ctx, d2))

	drafts, err := c.ListDrafts(ctx, "user-1")
	assert.NoError(t, err)
	assert.Len(t, drafts, 2)

	// saving the same id again replaces in place, never appends
	d1.Data["name"] = "Corner Cafe & Bakery"
	d1.Status = domain.StatusDraftDetails
	assert.NoError(t, c.SaveDraft(ctx, d1))

	drafts, err = c.ListDrafts(ctx, "user-1")
	assert.NoError(t, err)
	assert.Len(t, drafts, 2)
	assert.Equal(t, "offline_a", drafts[0].ID)
	assert.Equal(t, domain.StatusDraftDetails, drafts[0].Status)
	assert.Equal(t, "Corner Cafe & Bakery", drafts[0].Data["name"])
}

func TestSaveDraft_PerUserIsolation(t *testing.T) {
	kv := newMemKV()
	c := NewDraftCache(kv)
	ctx := context.Background()

	assert.NoError(t, c.SaveDraft(ctx, testDraft("user-1", "offline_a")))
	assert.NoError(t, c.SaveDraft(ctx, testDraft("user-2", "offline_b")))

	drafts, err := c.ListDrafts(ctx, "user-1")
	assert.NoError(t, err)
	assert.Len(t, drafts, 1)
	assert.Equal(t, "offline_a", drafts[0].ID)
}

func TestRemoveDraft(t *testing.T) {
	kv := newMemKV()
	c := NewDraftCache(kv)
	ctx := context.Background()

	assert.NoError(t, c.SaveDraft(ctx, testDraft("user-1", "offline_a")))
	assert.NoError(t, c.SaveDraft(ctx, testDraft("user-1", "offline_b")))

	assert.NoError(t, c.RemoveDraft(ctx, "user-1", "offline_a"))

	drafts, err := c.ListDrafts(ctx, "user-1")
	assert.NoError(t, err)
	assert.Len(t, drafts, 1)
	assert.Equal(t, "offline_b", drafts[0].ID)

	// removing an absent id, or from an empty blob, is not an error
	assert.NoError(t, c.RemoveDraft(ctx, "user-1", "offline_missing"))
	assert.NoError(t, c.RemoveDraft(ctx, "user-9", "offline_a"))
}

func TestGetDraft(t *testing.T) {
	kv := newMemKV()
	c := NewDraftCache(kv)
	ctx := context.Background()

	assert.NoError(t, c.SaveDraft(ctx, testDraft("user-1", "offline_a")))

	got, err := c.GetDraft(ctx, "user-1", "offline_a")
	assert.NoError(t, err)
	assert.NotNil(t, got)
	assert.Equal(t, "Corner Cafe", got.Data["name"])

	got, err = c.GetDraft(ctx, "user-1", "offline_missing")
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestListDrafts_EmptyUser(t *testing.T) {
	c := NewDraftCache(newMemKV())

	drafts, err := c.ListDrafts(context.Background(), "user-1")
	assert.NoError(t, err)
	assert.Empty(t, drafts)
}

func TestDraftCache_NoBackingStore(t *testing.T) {
	c := NewDraftCache(nil)
	ctx := context.Background()

	assert.ErrorIs(t, c.SaveDraft(ctx, testDraft("user-1", "offline_a")), ErrCacheUnavailable)
	assert.ErrorIs(t, c.RemoveDraft(ctx, "user-1", "offline_a"), ErrCacheUnavailable)
	_, err := c.ListDrafts(ctx, "user-1")
	assert.ErrorIs(t, err, ErrCacheUnavailable)
}

func TestDraftCache_BlobShape(t *testing.T) {
	kv := newMemKV()
	c := NewDraftCache(kv)
	ctx := context.Background()

	assert.NoError(t, c.SaveDraft(ctx, testDraft("user-1", "offline_a")))

	raw := kv.data[PrefixOfflineDrafts+"user-1"]
	assert.NotEmpty(t, raw)

	// one key per user, holding the entire draft list as a JSON array
	var blob []map[string]interface{}
	assert.NoError(t, json.Unmarshal(raw, &blob))
	assert.Len(t, blob, 1)
	assert.Equal(t, "offline_a", blob[0]["id"])

	assert.Equal(t, TTLOfflineDrafts, kv.ttls[PrefixOfflineDrafts+"user-1"])
}

func TestDraftCache_CorruptBlob(t *testing.T) {
	kv := newMemKV()
	c := NewDraftCache(kv)
	ctx := context.Background()

	kv.data[PrefixOfflineDrafts+"user-1"] = []byte("{not json")

	_, err := c.ListDrafts(ctx, "user-1")
	assert.Error(t, err)
}
