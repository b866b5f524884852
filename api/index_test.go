package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestHandlerWithoutCredential(t *testing.T) {
	t.Setenv("MINIMAX_API_KEY", "")
	t.Setenv("VIBE_CODER_LLM_TOKEN", "")
	t.Setenv("VIBE_CODER_LOG_LEVEL", "error")

	rec := httptest.NewRecorder()
	Handler(rec, httptest.NewRequest(http.MethodOptions, "/api/index", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected preflight status: %d", rec.Code)
	}
	if rec.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Fatalf("missing cors header: %v", rec.Header())
	}

	rec = httptest.NewRecorder()
	Handler(rec, httptest.NewRequest(http.MethodPost, "/api/index", strings.NewReader(`{"topic":"recipe app"}`)))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("unexpected status: %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Server configuration error") {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}
