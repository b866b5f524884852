package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const maxErrorBody = 64 * 1024

var ErrMissingToken = errors.New("token is required")

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ChatRequest struct {
	Model    string    `json:"model"`
	Messages []Message `json:"messages"`
}

type ChatResponse struct {
	Content      string
	Model        string
	FinishReason string
}

type Client interface {
	Chat(ctx context.Context, req ChatRequest) (ChatResponse, error)
}

// StatusError is returned when the upstream answers with a non-2xx status.
// Body holds the upstream response body as received.
type StatusError struct {
	Provider   string
	StatusCode int
	Body       []byte
}

func (e *StatusError) Error() string {
	body := strings.TrimSpace(string(e.Body))
	if body == "" {
		return fmt.Sprintf("%s request failed with status %d", e.Provider, e.StatusCode)
	}
	return fmt.Sprintf("%s request failed: %s (status %d)", e.Provider, body, e.StatusCode)
}

// Details returns the body as json.RawMessage when it is valid JSON and as a
// plain string otherwise.
func (e *StatusError) Details() any {
	trimmed := strings.TrimSpace(string(e.Body))
	if trimmed == "" {
		return nil
	}
	if json.Valid([]byte(trimmed)) {
		return json.RawMessage(trimmed)
	}
	return string(e.Body)
}

func readStatusError(provider string, body io.Reader, status int) error {
	data, _ := io.ReadAll(io.LimitReader(body, maxErrorBody))
	return &StatusError{
		Provider:   provider,
		StatusCode: status,
		Body:       data,
	}
}

func isSuccess(status int) bool {
	return status >= http.StatusOK && status < http.StatusMultipleChoices
}

func resolveModel(override, fallback string) string {
	if strings.TrimSpace(override) == "" {
		return fallback
	}
	return override
}

// splitSystem pulls a leading system message out of messages.
func splitSystem(messages []Message) ([]Message, string) {
	if len(messages) == 0 {
		return messages, ""
	}
	first := messages[0]
	if first.Role != "system" {
		return messages, ""
	}
	return messages[1:], first.Content
}
