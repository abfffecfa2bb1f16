package scraper

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
)

func TestService_Scrape(t *testing.T) {
	t.Run("miss then hit", func(t *testing.T) {
		var fetches atomic.Int64
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fetches.Add(1)
			w.Header().Set("Content-Type", "text/html")
			w.Write([]byte(`<html><head><title>Once</title></head><body><p>Body</p></body></html>`))
		}))
		t.Cleanup(srv.Close)

		service := NewService(testScraperConfig(), newMemStore(), &http.Client{}, arbor.NewLogger())
		ctx := context.Background()

		first, hit := service.Scrape(ctx, srv.URL)
		require.True(t, first.Succeeded())
		assert.False(t, hit)

		second, hit := service.Scrape(ctx, srv.URL)
		require.True(t, second.Succeeded())
		assert.True(t, hit)
		assert.Equal(t, "Once", second.Title)

		assert.Equal(t, int64(1), fetches.Load())
	})

	t.Run("failed scrape is retried on next call", func(t *testing.T) {
		var fetches atomic.Int64
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fetches.Add(1)
			http.Error(w, "down", http.StatusServiceUnavailable)
		}))
		t.Cleanup(srv.Close)

		service := NewService(testScraperConfig(), newMemStore(), &http.Client{}, arbor.NewLogger())
		ctx := context.Background()

		first, hit := service.Scrape(ctx, srv.URL)
		assert.False(t, first.Succeeded())
		assert.False(t, hit)

		// Nothing was cached, so the next call fetches again
		second, hit := service.Scrape(ctx, srv.URL)
		assert.False(t, second.Succeeded())
		assert.False(t, hit)
		assert.Equal(t, int64(2), fetches.Load())
	})

	t.Run("never returns nil", func(t *testing.T) {
		service := NewService(testScraperConfig(), newMemStore(), &http.Client{}, arbor.NewLogger())

		content, _ := service.Scrape(context.Background(), "http://127.0.0.1:1")
		require.NotNil(t, content)
		assert.NotEmpty(t, content.Error)
	})
}
