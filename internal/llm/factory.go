package llm

import (
	"fmt"
	"strings"

	"smart-send/internal/interfaces"
	"smart-send/internal/llm/claude"
	"smart-send/internal/llm/llmobs"
	"smart-send/internal/llm/noop"
	"smart-send/internal/llm/openai"
)

// Provider names accepted in config
const (
	ProviderGroq   = "GROQ"
	ProviderOpenAI = "OPENAI"
	ProviderClaude = "CLAUDE"
)

// ProviderParams is everything a provider needs. Credentials are resolved by the caller.
type ProviderParams struct {
	Provider    string
	Model       string
	APIKey      string
	BaseURL     string
	MaxTokens   int
	Temperature float32
}

// NewProvider builds the configured provider wrapped with observability.
// Unknown provider names yield a provider that always reports OracleUnavailable.
func NewProvider(p ProviderParams) interfaces.Provider {
	name := strings.ToUpper(strings.TrimSpace(p.Provider))

	var provider interfaces.Provider
	switch name {
	case ProviderGroq:
		baseURL := p.BaseURL
		if baseURL == "" {
			baseURL = openai.GroqBaseURL
		}
		provider = openai.New(openai.Params{
			APIKey:      p.APIKey,
			BaseURL:     baseURL,
			Model:       p.Model,
			MaxTokens:   p.MaxTokens,
			Temperature: p.Temperature,
		})
	case ProviderOpenAI:
		provider = openai.New(openai.Params{
			APIKey:      p.APIKey,
			BaseURL:     p.BaseURL,
			Model:       p.Model,
			MaxTokens:   p.MaxTokens,
			Temperature: p.Temperature,
		})
	case ProviderClaude:
		provider = claude.New(claude.Params{
			APIKey:      p.APIKey,
			BaseURL:     p.BaseURL,
			Model:       p.Model,
			MaxTokens:   p.MaxTokens,
			Temperature: p.Temperature,
		})
	default:
		provider = noop.New(fmt.Sprintf("unknown llm provider %q", p.Provider))
	}

	return llmobs.Wrap(provider, name, p.Model)
}
