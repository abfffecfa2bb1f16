package scraper

import (
	"context"
	"encoding/json"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/sitechat/internal/interfaces"
	"github.com/ternarybob/sitechat/internal/models"
)

const (
	// cacheKeyPrefix namespaces scrape records in the shared store
	cacheKeyPrefix = "scrape:"
	// maxKeyLength bounds the URL portion of a cache key
	maxKeyLength = 255
)

// Cache stores scraped content keyed by URL with a TTL. Every operation
// is fault-tolerant: read failures degrade to a miss, write failures are
// logged and swallowed, so caching can never fail a scrape.
type Cache struct {
	store         interfaces.CacheStorage
	logger        arbor.ILogger
	ttl           time.Duration
	maxEntryBytes int64
}

// NewCache creates a content cache over the given store
func NewCache(store interfaces.CacheStorage, ttl time.Duration, maxEntryBytes int64, logger arbor.ILogger) *Cache {
	return &Cache{
		store:         store,
		logger:        logger,
		ttl:           ttl,
		maxEntryBytes: maxEntryBytes,
	}
}

// cacheKey builds the store key for a URL, truncated to maxKeyLength
// characters so keys stay bounded without splitting a multi-byte rune
func cacheKey(url string) string {
	if runes := []rune(url); len(runes) > maxKeyLength {
		url = string(runes[:maxKeyLength])
	}
	return cacheKeyPrefix + url
}

// Get returns the cached record for url, or (nil, false) on a miss.
// Corrupt or invalid entries are evicted and treated as absent.
func (c *Cache) Get(ctx context.Context, url string) (*models.ScrapedContent, bool) {
	key := cacheKey(url)

	value, ok, err := c.store.Get(ctx, key)
	if err != nil {
		c.logger.Warn().Err(err).Str("url", url).Msg("Cache read failed, treating as miss")
		c.evict(ctx, key)
		return nil, false
	}
	if !ok {
		return nil, false
	}

	content, err := models.DecodeScrapedContent([]byte(value))
	if err != nil {
		c.logger.Warn().Err(err).Str("url", url).Msg("Evicting invalid cache entry")
		c.evict(ctx, key)
		return nil, false
	}

	c.logger.Debug().
		Str("url", url).
		Int64("age_ms", time.Now().UnixMilli()-content.CreatedAt).
		Msg("Cache hit")

	return content, true
}

// Put stores a record under its URL. CreatedAt is restamped to now so the
// cached age reflects cache-write time. Oversized or invalid records are
// skipped; failures are logged, never propagated.
func (c *Cache) Put(ctx context.Context, url string, content *models.ScrapedContent) {
	content.StampCreatedAt()

	if err := content.Validate(); err != nil {
		c.logger.Warn().Err(err).Str("url", url).Msg("Skipping cache write of invalid record")
		return
	}

	data, err := json.Marshal(content)
	if err != nil {
		c.logger.Warn().Err(err).Str("url", url).Msg("Failed to serialize record for caching")
		return
	}

	if int64(len(data)) > c.maxEntryBytes {
		c.logger.Warn().
			Str("url", url).
			Int("size", len(data)).
			Int64("limit", c.maxEntryBytes).
			Msg("Skipping cache write of oversized record")
		return
	}

	if err := c.store.Set(ctx, cacheKey(url), string(data), c.ttl); err != nil {
		c.logger.Warn().Err(err).Str("url", url).Msg("Cache write failed")
		return
	}

	c.logger.Debug().Str("url", url).Int("size", len(data)).Msg("Cached scraped content")
}

// evict removes a key on a best-effort basis
func (c *Cache) evict(ctx context.Context, key string) {
	if err := c.store.Delete(ctx, key); err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("Failed to evict cache entry")
	}
}
