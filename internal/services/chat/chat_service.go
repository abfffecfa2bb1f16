// Package chat answers user messages, enriching the prompt with scraped
// page content whenever the message contains a URL.
package chat

import (
	"context"
	"fmt"
	"strings"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/sitechat/internal/common"
	"github.com/ternarybob/sitechat/internal/interfaces"
	"github.com/ternarybob/sitechat/internal/models"
	"github.com/ternarybob/sitechat/internal/services/scraper"
)

// ChatService implements page-aware chat functionality
type ChatService struct {
	llmService    interfaces.LLMService
	scrapeService interfaces.ScrapeService
	logger        arbor.ILogger
}

// NewChatService creates a new chat service
func NewChatService(
	llmService interfaces.LLMService,
	scrapeService interfaces.ScrapeService,
	logger arbor.ILogger,
) *ChatService {
	return &ChatService{
		llmService:    llmService,
		scrapeService: scrapeService,
		logger:        logger,
	}
}

// Chat implements the ChatService interface. When the message contains a
// URL the page is scraped (or served from cache) and its content is
// embedded into the system prompt. Scrape failures degrade the context
// but never fail the chat itself.
func (s *ChatService) Chat(ctx context.Context, req *interfaces.ChatRequest) (*interfaces.ChatResponse, error) {
	if req == nil || strings.TrimSpace(req.Message) == "" {
		return nil, fmt.Errorf("chat message cannot be empty")
	}

	s.logger.Debug().
		Int("message_length", len(req.Message)).
		Int("history_length", len(req.History)).
		Msg("Processing chat request")

	var page *interfaces.PageContext
	var contextText string
	userMessage := req.Message

	if targetURL := scraper.FirstURL(req.Message); targetURL != "" {
		// The page context carries the URL, so the message sent to the
		// LLM has it removed
		userMessage = stripURL(req.Message, targetURL)
		content, cacheHit := s.scrapeService.Scrape(ctx, targetURL)
		page = &interfaces.PageContext{
			URL:      content.URL,
			Title:    content.Title,
			CacheHit: cacheHit,
			Error:    content.Error,
		}

		if content.Succeeded() {
			contextText = s.buildContextText(content)
			s.logger.Info().
				Str("url", targetURL).
				Bool("cache_hit", cacheHit).
				Int("content_length", len(content.Content)).
				Msg("Page content added to chat context")
		} else {
			s.logger.Warn().
				Str("url", targetURL).
				Str("error", content.Error).
				Msg("Page could not be scraped, answering without page context")
		}
	}

	messages := s.buildMessages(userMessage, req.History, contextText)

	response, err := s.llmService.Chat(ctx, messages)
	if err != nil {
		return nil, fmt.Errorf("failed to generate chat response: %w", err)
	}

	return &interfaces.ChatResponse{
		Message: response,
		Page:    page,
		Model:   s.llmService.GetModel(),
	}, nil
}

// HealthCheck verifies the underlying LLM service is reachable
func (s *ChatService) HealthCheck(ctx context.Context) error {
	return s.llmService.HealthCheck(ctx)
}

// buildContextText formats scraped page content for prompt injection
func (s *ChatService) buildContextText(content *models.ScrapedContent) string {
	var sb strings.Builder
	sb.WriteString("The user's message references a web page. Use the page content below to answer.\n\n")
	sb.WriteString(fmt.Sprintf("URL: %s\n", content.URL))
	if content.Title != "" {
		sb.WriteString(fmt.Sprintf("Title: %s\n", content.Title))
	}
	if content.MetaDescription != "" {
		sb.WriteString(fmt.Sprintf("Description: %s\n", content.MetaDescription))
	}
	sb.WriteString(fmt.Sprintf("\nPage content:\n%s", content.Content))
	return sb.String()
}

// stripURL removes the first occurrence of url from message and tidies
// the whitespace left behind. A message that is only a URL is forwarded
// unchanged so the user turn never goes empty.
func stripURL(message, url string) string {
	stripped := strings.TrimSpace(strings.Replace(message, url, "", 1))
	stripped = strings.Join(strings.Fields(stripped), " ")
	if stripped == "" {
		return message
	}
	return stripped
}

// buildMessages constructs the message list for LLM completion
func (s *ChatService) buildMessages(userMessage string, history []interfaces.Message, contextText string) []interfaces.Message {
	messages := []interfaces.Message{}

	systemPrompt := common.SystemPrompt
	if contextText != "" {
		systemPrompt = fmt.Sprintf("%s\n\n%s", systemPrompt, contextText)
	}

	messages = append(messages, interfaces.Message{
		Role:    "system",
		Content: systemPrompt,
	})

	if history != nil {
		messages = append(messages, history...)
	}

	messages = append(messages, interfaces.Message{
		Role:    "user",
		Content: userMessage,
	})

	return messages
}

var _ interfaces.ChatService = (*ChatService)(nil)
