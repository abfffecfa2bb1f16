// Package llm provides chat completion services backed by cloud
// providers. The factory selects the provider from configuration;
// callers work against the interfaces.LLMService contract.
package llm

import (
	"fmt"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/sitechat/internal/common"
	"github.com/ternarybob/sitechat/internal/interfaces"
)

// NewLLMService creates the appropriate LLM service implementation based
// on the configured default provider.
func NewLLMService(cfg *common.Config, kvStorage interfaces.KeyValueStorage, logger arbor.ILogger) (interfaces.LLMService, error) {
	provider := cfg.LLM.DefaultProvider
	if provider == "" {
		provider = common.LLMProviderClaude
	}

	logger.Info().Str("provider", string(provider)).Msg("Initializing LLM service")

	switch provider {
	case common.LLMProviderClaude:
		return NewClaudeService(&cfg.Claude, kvStorage, logger)

	case common.LLMProviderGemini:
		return NewGeminiService(&cfg.Gemini, kvStorage, logger)

	default:
		return nil, fmt.Errorf("unsupported LLM provider '%s': must be 'claude' or 'gemini'", provider)
	}
}
