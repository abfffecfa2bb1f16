package scraper

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/sitechat/internal/models"
)

// memStore is an in-memory CacheStorage for tests. Errors can be injected
// per operation.
type memStore struct {
	data      map[string]string
	getErr    error
	setErr    error
	deleteErr error
}

func newMemStore() *memStore {
	return &memStore{data: make(map[string]string)}
}

func (m *memStore) Get(ctx context.Context, key string) (string, bool, error) {
	if m.getErr != nil {
		return "", false, m.getErr
	}
	value, ok := m.data[key]
	return value, ok, nil
}

func (m *memStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.data[key] = value
	return nil
}

func (m *memStore) Delete(ctx context.Context, key string) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	delete(m.data, key)
	return nil
}

func newTestCache(store *memStore, maxEntryBytes int64) *Cache {
	return NewCache(store, time.Hour, maxEntryBytes, arbor.NewLogger())
}

func TestCache_PutThenGet(t *testing.T) {
	store := newMemStore()
	cache := newTestCache(store, 1_000_000)
	ctx := context.Background()

	content := &models.ScrapedContent{
		URL:     "https://example.com",
		Title:   "Example",
		Content: "body text",
	}

	before := time.Now().UnixMilli()
	cache.Put(ctx, "https://example.com", content)

	got, hit := cache.Get(ctx, "https://example.com")
	require.True(t, hit)
	assert.Equal(t, "Example", got.Title)
	assert.Equal(t, "body text", got.Content)

	// CreatedAt is restamped at cache-write time
	assert.GreaterOrEqual(t, got.CreatedAt, before)
}

func TestCache_MissOnAbsentKey(t *testing.T) {
	cache := newTestCache(newMemStore(), 1_000_000)

	got, hit := cache.Get(context.Background(), "https://never-cached.com")
	assert.False(t, hit)
	assert.Nil(t, got)
}

func TestCache_KeyTruncation(t *testing.T) {
	store := newMemStore()
	cache := newTestCache(store, 1_000_000)
	ctx := context.Background()

	longURL := "https://example.com/" + strings.Repeat("a", 300)
	content := &models.ScrapedContent{URL: longURL, Content: "x"}
	cache.Put(ctx, longURL, content)

	// Stored key is the prefix plus the first 255 characters of the URL
	wantKey := cacheKeyPrefix + longURL[:maxKeyLength]
	_, ok := store.data[wantKey]
	assert.True(t, ok)

	// URLs sharing the first 255 characters map to the same entry
	otherURL := longURL + "bbb"
	got, hit := cache.Get(ctx, otherURL)
	require.True(t, hit)
	assert.Equal(t, longURL, got.URL)
}

func TestCache_KeyTruncationCountsRunes(t *testing.T) {
	store := newMemStore()
	cache := newTestCache(store, 1_000_000)
	ctx := context.Background()

	// Multi-byte path segments: truncation must not split a rune
	longURL := "https://example.com/" + strings.Repeat("日", 300)
	cache.Put(ctx, longURL, &models.ScrapedContent{URL: longURL, Content: "x"})

	require.Len(t, store.data, 1)
	for key := range store.data {
		assert.True(t, utf8.ValidString(key))
		assert.Equal(t, maxKeyLength, utf8.RuneCountInString(strings.TrimPrefix(key, cacheKeyPrefix)))
	}

	_, hit := cache.Get(ctx, longURL)
	assert.True(t, hit)
}

func TestCache_OversizedRecordSkipped(t *testing.T) {
	store := newMemStore()
	cache := newTestCache(store, 100)
	ctx := context.Background()

	content := &models.ScrapedContent{
		URL:     "https://example.com",
		Content: strings.Repeat("a", 200),
	}
	cache.Put(ctx, "https://example.com", content)

	assert.Empty(t, store.data)

	_, hit := cache.Get(ctx, "https://example.com")
	assert.False(t, hit)
}

func TestCache_InvalidRecordSkipped(t *testing.T) {
	store := newMemStore()
	cache := newTestCache(store, 1_000_000)

	// No URL: fails validation, never written
	cache.Put(context.Background(), "https://example.com", &models.ScrapedContent{Content: "x"})
	assert.Empty(t, store.data)
}

func TestCache_CorruptEntryEvicted(t *testing.T) {
	store := newMemStore()
	cache := newTestCache(store, 1_000_000)
	ctx := context.Background()

	key := cacheKey("https://example.com")
	store.data[key] = "{corrupt"

	got, hit := cache.Get(ctx, "https://example.com")
	assert.False(t, hit)
	assert.Nil(t, got)

	// The bad entry is gone so the next write starts clean
	_, present := store.data[key]
	assert.False(t, present)
}

func TestCache_PartialEntryEvicted(t *testing.T) {
	store := newMemStore()
	cache := newTestCache(store, 1_000_000)
	ctx := context.Background()

	// Well-formed JSON missing required fields reads as a miss and is
	// removed, never served as a hit
	key := cacheKey("https://example.com")
	store.data[key] = `{"url":"https://example.com","content":"partial"}`

	got, hit := cache.Get(ctx, "https://example.com")
	assert.False(t, hit)
	assert.Nil(t, got)

	_, present := store.data[key]
	assert.False(t, present)
}

func TestCache_WrongShapeEntryEvicted(t *testing.T) {
	store := newMemStore()
	cache := newTestCache(store, 1_000_000)
	ctx := context.Background()

	// Valid JSON, wrong field type
	key := cacheKey("https://example.com")
	data, err := json.Marshal(map[string]interface{}{
		"url":       "https://example.com",
		"createdAt": "not-a-number",
	})
	require.NoError(t, err)
	store.data[key] = string(data)

	_, hit := cache.Get(ctx, "https://example.com")
	assert.False(t, hit)

	_, present := store.data[key]
	assert.False(t, present)
}

func TestCache_StorageErrorsAreMisses(t *testing.T) {
	store := newMemStore()
	store.getErr = errors.New("disk exploded")
	store.deleteErr = errors.New("still broken")
	cache := newTestCache(store, 1_000_000)

	got, hit := cache.Get(context.Background(), "https://example.com")
	assert.False(t, hit)
	assert.Nil(t, got)
}

func TestCache_WriteErrorSwallowed(t *testing.T) {
	store := newMemStore()
	store.setErr = errors.New("no space left")
	cache := newTestCache(store, 1_000_000)

	// Must not panic or surface the error
	cache.Put(context.Background(), "https://example.com", &models.ScrapedContent{
		URL:     "https://example.com",
		Content: "x",
	})
}
