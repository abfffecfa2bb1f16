package interfaces

import (
	"context"

	"github.com/ternarybob/sitechat/internal/models"
)

// ChatRequest is an inbound chat message with optional conversation history
type ChatRequest struct {
	Message string    `json:"message"`
	History []Message `json:"history,omitempty"`
}

// PageContext describes the scraped page that was embedded into the prompt
type PageContext struct {
	URL      string `json:"url"`
	Title    string `json:"title"`
	CacheHit bool   `json:"cache_hit"`
	Error    string `json:"error,omitempty"`
}

// ChatResponse is the assistant reply plus scrape metadata
type ChatResponse struct {
	Message string       `json:"message"`
	Page    *PageContext `json:"page,omitempty"`
	Model   string       `json:"model,omitempty"`
}

// ChatService answers chat requests, scraping any URL found in the message
type ChatService interface {
	Chat(ctx context.Context, req *ChatRequest) (*ChatResponse, error)
	HealthCheck(ctx context.Context) error
}

// ScrapeService returns extracted page content for a URL, serving from
// cache when a fresh record exists. The returned record is never nil:
// failures surface as a degraded record with Error set. The bool reports
// whether the record came from cache.
type ScrapeService interface {
	Scrape(ctx context.Context, url string) (*models.ScrapedContent, bool)
}
