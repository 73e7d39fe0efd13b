package llm

import (
	"fmt"
	"strings"

	"github.com/javiermolinar/dayring/internal/config"
)

const (
	ProviderOllama   = "ollama"
	ProviderLMStudio = "lmstudio"
	ProviderOpenAI   = "openai"
)

// NewClient creates an LLM client based on provider configuration.
func NewClient(provider, model, baseURL string) (Client, error) {
	switch strings.ToLower(strings.TrimSpace(provider)) {
	case "", ProviderOllama:
		return NewOllamaClient(model, baseURL)
	case ProviderLMStudio, "lm-studio", "llmstudio":
		return NewLMStudioClient(model, baseURL)
	case ProviderOpenAI:
		return NewOpenAIClient(model, baseURL)
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", provider)
	}
}

// FromConfig creates the client configured in cfg.
func FromConfig(cfg config.LLMConfig) (Client, error) {
	return NewClient(cfg.Provider, cfg.Model, cfg.BaseURL)
}
