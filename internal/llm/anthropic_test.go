package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestAnthropicChat(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/anthropic/v1/messages" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		if r.Header.Get("x-api-key") != "token" {
			t.Fatalf("missing api key header")
		}
		if r.Header.Get("anthropic-version") != defaultAnthropicVersion {
			t.Fatalf("unexpected version header: %s", r.Header.Get("anthropic-version"))
		}
		var req anthropicChatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.Model != "claude-test" {
			t.Fatalf("unexpected model: %s", req.Model)
		}
		if req.System != "be brief" {
			t.Fatalf("unexpected system: %s", req.System)
		}
		if req.MaxTokens != 4096 {
			t.Fatalf("unexpected max tokens: %d", req.MaxTokens)
		}
		if len(req.Messages) != 1 || req.Messages[0].Role != "user" {
			t.Fatalf("unexpected messages: %+v", req.Messages)
		}
		if blocks := req.Messages[0].Content; len(blocks) != 1 || blocks[0].Type != "text" || blocks[0].Text != "hi" {
			t.Fatalf("unexpected content blocks: %+v", blocks)
		}
		resp := anthropicChatResponse{
			Model: "claude-test",
			Content: []anthropicContent{
				{Type: "text", Text: "hel"},
				{Type: "thinking"},
				{Type: "text", Text: "lo"},
			},
			StopReason: "end_turn",
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client, err := NewAnthropicClient(AnthropicConfig{
		BaseURL:   server.URL + "/anthropic",
		Token:     "token",
		Model:     "claude-test",
		MaxTokens: 4096,
	})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	resp, err := client.Chat(context.Background(), ChatRequest{
		Messages: []Message{
			{Role: "system", Content: "be brief"},
			{Role: "user", Content: "hi"},
		},
	})
	if err != nil {
		t.Fatalf("chat: %v", err)
	}
	if resp.Content != "hello" {
		t.Fatalf("unexpected content: %s", resp.Content)
	}
	if resp.FinishReason != "end_turn" {
		t.Fatalf("unexpected finish reason: %s", resp.FinishReason)
	}
}

func TestAnthropicChatStatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":"rate limited"}`))
	}))
	defer server.Close()

	client, err := NewAnthropicClient(AnthropicConfig{
		BaseURL: server.URL,
		Token:   "token",
		Model:   "claude-test",
	})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	_, err = client.Chat(context.Background(), ChatRequest{
		Messages: []Message{{Role: "user", Content: "hi"}},
	})
	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected StatusError, got %v", err)
	}
	if statusErr.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("unexpected status: %d", statusErr.StatusCode)
	}
	details, ok := statusErr.Details().(json.RawMessage)
	if !ok {
		t.Fatalf("expected raw json details, got %T", statusErr.Details())
	}
	if string(details) != `{"error":"rate limited"}` {
		t.Fatalf("unexpected details: %s", details)
	}
}

func TestAnthropicRequiresToken(t *testing.T) {
	_, err := NewAnthropicClient(AnthropicConfig{
		BaseURL: "https://example.com",
		Model:   "claude-test",
	})
	if !errors.Is(err, ErrMissingToken) {
		t.Fatalf("expected ErrMissingToken, got %v", err)
	}
}

func TestBuildAnthropicEndpoint(t *testing.T) {
	cases := map[string]string{
		"https://api.minimax.io/anthropic":     "https://api.minimax.io/anthropic/v1/messages",
		"https://api.anthropic.com/v1/":        "https://api.anthropic.com/v1/messages",
		"https://proxy.local/v1/messages":      "https://proxy.local/v1/messages",
		"https://api.minimax.io/anthropic/v1/": "https://api.minimax.io/anthropic/v1/messages",
	}
	for base, want := range cases {
		if got := buildAnthropicEndpoint(base); got != want {
			t.Fatalf("%s: got %s, want %s", base, got, want)
		}
	}
}
