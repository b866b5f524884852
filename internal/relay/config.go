package relay

import (
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/witch-agent/vibe-coder/internal/config"
	"github.com/witch-agent/vibe-coder/internal/llm"
)

// NewFromConfig builds a Handler from cfg. A missing token is not an error
// here: the handler is still returned and reports the misconfiguration per
// request. httpClient may be nil.
func NewFromConfig(cfg config.Config, httpClient *http.Client, log logrus.FieldLogger) (*Handler, error) {
	client, err := llm.NewClient(llm.Config{
		Type:        cfg.LLM.Type,
		BaseURL:     cfg.LLM.URL,
		Token:       cfg.LLM.Token,
		Model:       cfg.LLM.Model,
		Version:     cfg.LLM.Version,
		MaxTokens:   cfg.LLM.MaxTokens,
		Temperature: cfg.LLM.Temperature,
		HTTPClient:  httpClient,
	})
	if err != nil {
		if !errors.Is(err, llm.ErrMissingToken) {
			return nil, err
		}
		if log != nil {
			log.WithField("provider", cfg.LLM.Type).Warn("llm token is not configured; requests will be rejected")
		}
		client = nil
	}
	return New(Options{
		Client:            client,
		Model:             cfg.LLM.Model,
		System:            cfg.LLM.System,
		DefaultStyle:      cfg.DefaultStyle(),
		AllowOrigin:       cfg.Relay.AllowOrigin,
		PassthroughStatus: cfg.Relay.PassthroughStatus,
		Logger:            log,
	}), nil
}
