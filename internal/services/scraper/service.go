// Package scraper provides URL detection, HTML content extraction, and a
// TTL cache of extracted content keyed by URL.
package scraper

import (
	"context"
	"net/http"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/sitechat/internal/common"
	"github.com/ternarybob/sitechat/internal/interfaces"
	"github.com/ternarybob/sitechat/internal/models"
)

// Service composes the content cache and HTML extractor into the scrape
// pipeline: cache lookup, then extraction on a miss. Concurrent scrapes
// of the same URL are not deduplicated; the last cache write wins.
type Service struct {
	cache     *Cache
	extractor *Extractor
	logger    arbor.ILogger
}

// NewService creates the scrape service over a shared cache store
func NewService(config common.ScraperConfig, store interfaces.CacheStorage, client *http.Client, logger arbor.ILogger) *Service {
	cache := NewCache(store, config.CacheTTL, config.MaxCacheEntry, logger)
	return &Service{
		cache:     cache,
		extractor: NewExtractor(config, client, cache, logger),
		logger:    logger,
	}
}

// Scrape returns the content record for url, serving from cache when a
// fresh record exists. The returned record is never nil: extraction
// failures surface as a degraded record with Error set. The bool reports
// whether the record came from cache.
func (s *Service) Scrape(ctx context.Context, url string) (*models.ScrapedContent, bool) {
	if content, ok := s.cache.Get(ctx, url); ok {
		return content, true
	}
	return s.extractor.Extract(ctx, url), false
}

// Ensure Service implements ScrapeService
var _ interfaces.ScrapeService = (*Service)(nil)
