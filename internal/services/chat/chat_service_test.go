package chat

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/sitechat/internal/interfaces"
	"github.com/ternarybob/sitechat/internal/models"
)

// fakeLLM records the messages it receives and replies with a fixed answer
type fakeLLM struct {
	received  []interfaces.Message
	reply     string
	err       error
	healthErr error
}

func (f *fakeLLM) Chat(ctx context.Context, messages []interfaces.Message) (string, error) {
	f.received = messages
	return f.reply, f.err
}

func (f *fakeLLM) HealthCheck(ctx context.Context) error { return f.healthErr }
func (f *fakeLLM) GetMode() interfaces.LLMMode           { return interfaces.LLMModeCloud }
func (f *fakeLLM) GetModel() string                      { return "test-model" }
func (f *fakeLLM) Close() error                          { return nil }

// fakeScraper returns a canned record for every URL
type fakeScraper struct {
	content  *models.ScrapedContent
	cacheHit bool
	calls    int
	lastURL  string
}

func (f *fakeScraper) Scrape(ctx context.Context, url string) (*models.ScrapedContent, bool) {
	f.calls++
	f.lastURL = url
	if f.content != nil {
		return f.content, f.cacheHit
	}
	return models.NewDegradedContent(url), false
}

func TestChatService_Chat(t *testing.T) {
	t.Run("plain message without URL", func(t *testing.T) {
		llm := &fakeLLM{reply: "hi there"}
		scraperSvc := &fakeScraper{}
		service := NewChatService(llm, scraperSvc, arbor.NewLogger())

		resp, err := service.Chat(context.Background(), &interfaces.ChatRequest{Message: "hello"})
		require.NoError(t, err)

		assert.Equal(t, "hi there", resp.Message)
		assert.Equal(t, "test-model", resp.Model)
		assert.Nil(t, resp.Page)
		assert.Zero(t, scraperSvc.calls)

		// System prompt then the user message
		require.Len(t, llm.received, 2)
		assert.Equal(t, "system", llm.received[0].Role)
		assert.Equal(t, "user", llm.received[1].Role)
		assert.Equal(t, "hello", llm.received[1].Content)
	})

	t.Run("message with URL embeds page content", func(t *testing.T) {
		llm := &fakeLLM{reply: "summary"}
		scraperSvc := &fakeScraper{
			content: &models.ScrapedContent{
				URL:             "https://example.com/article",
				Title:           "Article Title",
				MetaDescription: "About things",
				Content:         "the article body",
			},
			cacheHit: true,
		}
		service := NewChatService(llm, scraperSvc, arbor.NewLogger())

		resp, err := service.Chat(context.Background(), &interfaces.ChatRequest{
			Message: "summarize https://example.com/article please",
		})
		require.NoError(t, err)

		assert.Equal(t, 1, scraperSvc.calls)
		assert.Equal(t, "https://example.com/article", scraperSvc.lastURL)

		require.NotNil(t, resp.Page)
		assert.Equal(t, "https://example.com/article", resp.Page.URL)
		assert.Equal(t, "Article Title", resp.Page.Title)
		assert.True(t, resp.Page.CacheHit)
		assert.Empty(t, resp.Page.Error)

		// Page content lands in the system prompt, not the user message
		require.GreaterOrEqual(t, len(llm.received), 2)
		assert.Contains(t, llm.received[0].Content, "the article body")
		assert.Contains(t, llm.received[0].Content, "Article Title")
		assert.NotContains(t, llm.received[len(llm.received)-1].Content, "the article body")

		// The URL is stripped from the user message before the LLM call
		userMessage := llm.received[len(llm.received)-1].Content
		assert.NotContains(t, userMessage, "https://example.com/article")
		assert.Equal(t, "summarize please", userMessage)
	})

	t.Run("URL-only message forwarded unchanged", func(t *testing.T) {
		llm := &fakeLLM{reply: "summary"}
		scraperSvc := &fakeScraper{
			content: &models.ScrapedContent{URL: "https://example.com", Content: "body"},
		}
		service := NewChatService(llm, scraperSvc, arbor.NewLogger())

		_, err := service.Chat(context.Background(), &interfaces.ChatRequest{
			Message: "https://example.com",
		})
		require.NoError(t, err)

		// Stripping would leave an empty user turn, so the message stays
		userMessage := llm.received[len(llm.received)-1].Content
		assert.Equal(t, "https://example.com", userMessage)
	})

	t.Run("scrape failure degrades context but chat succeeds", func(t *testing.T) {
		llm := &fakeLLM{reply: "best effort answer"}
		scraperSvc := &fakeScraper{} // always degraded
		service := NewChatService(llm, scraperSvc, arbor.NewLogger())

		resp, err := service.Chat(context.Background(), &interfaces.ChatRequest{
			Message: "what is on https://broken.example.com?",
		})
		require.NoError(t, err)

		assert.Equal(t, "best effort answer", resp.Message)
		require.NotNil(t, resp.Page)
		assert.Equal(t, models.ScrapeErrorMessage, resp.Page.Error)
		assert.False(t, resp.Page.CacheHit)

		// No page content in the prompt
		assert.NotContains(t, llm.received[0].Content, "Page content")
	})

	t.Run("history is forwarded in order", func(t *testing.T) {
		llm := &fakeLLM{reply: "ok"}
		service := NewChatService(llm, &fakeScraper{}, arbor.NewLogger())

		history := []interfaces.Message{
			{Role: "user", Content: "earlier question"},
			{Role: "assistant", Content: "earlier answer"},
		}
		_, err := service.Chat(context.Background(), &interfaces.ChatRequest{
			Message: "follow up",
			History: history,
		})
		require.NoError(t, err)

		require.Len(t, llm.received, 4)
		assert.Equal(t, "system", llm.received[0].Role)
		assert.Equal(t, "earlier question", llm.received[1].Content)
		assert.Equal(t, "earlier answer", llm.received[2].Content)
		assert.Equal(t, "follow up", llm.received[3].Content)
	})

	t.Run("empty message rejected", func(t *testing.T) {
		service := NewChatService(&fakeLLM{}, &fakeScraper{}, arbor.NewLogger())

		_, err := service.Chat(context.Background(), &interfaces.ChatRequest{Message: "   "})
		assert.Error(t, err)
	})

	t.Run("LLM failure surfaces as error", func(t *testing.T) {
		llm := &fakeLLM{err: errors.New("provider down")}
		service := NewChatService(llm, &fakeScraper{}, arbor.NewLogger())

		_, err := service.Chat(context.Background(), &interfaces.ChatRequest{Message: "hello"})
		assert.Error(t, err)
	})
}

func TestChatService_HealthCheck(t *testing.T) {
	t.Run("healthy", func(t *testing.T) {
		service := NewChatService(&fakeLLM{}, &fakeScraper{}, arbor.NewLogger())
		assert.NoError(t, service.HealthCheck(context.Background()))
	})

	t.Run("unhealthy", func(t *testing.T) {
		service := NewChatService(&fakeLLM{healthErr: errors.New("no key")}, &fakeScraper{}, arbor.NewLogger())
		assert.Error(t, service.HealthCheck(context.Background()))
	})
}
