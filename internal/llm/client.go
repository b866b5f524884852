package llm

import (
	"fmt"
	"net/http"
)

// Config selects and configures one provider. Type is one of "anthropics"
// (alias "anthropic"), "openai" or "gemini".
type Config struct {
	Type        string
	BaseURL     string
	Token       string
	Model       string
	Version     string
	MaxTokens   int
	Temperature float64
	HTTPClient  *http.Client
}

// NewClient builds the client for cfg.Type. A blank token yields an error
// wrapping ErrMissingToken.
func NewClient(cfg Config) (Client, error) {
	switch cfg.Type {
	case "anthropics", "anthropic":
		client, err := NewAnthropicClient(AnthropicConfig{
			BaseURL:     cfg.BaseURL,
			Token:       cfg.Token,
			Model:       cfg.Model,
			Version:     cfg.Version,
			MaxTokens:   cfg.MaxTokens,
			Temperature: cfg.Temperature,
			HTTPClient:  cfg.HTTPClient,
		})
		if err != nil {
			return nil, err
		}
		return client, nil
	case "openai":
		client, err := NewOpenAIClient(OpenAIConfig{
			BaseURL:     cfg.BaseURL,
			Token:       cfg.Token,
			Model:       cfg.Model,
			MaxTokens:   cfg.MaxTokens,
			Temperature: cfg.Temperature,
			HTTPClient:  cfg.HTTPClient,
		})
		if err != nil {
			return nil, err
		}
		return client, nil
	case "gemini":
		client, err := NewGeminiClient(GeminiConfig{
			BaseURL:     cfg.BaseURL,
			Token:       cfg.Token,
			Model:       cfg.Model,
			MaxTokens:   cfg.MaxTokens,
			Temperature: cfg.Temperature,
			HTTPClient:  cfg.HTTPClient,
		})
		if err != nil {
			return nil, err
		}
		return client, nil
	default:
		return nil, fmt.Errorf("unsupported llm.type: %s", cfg.Type)
	}
}
