package cli

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"

	"github.com/witch-agent/vibe-coder/internal/prompt"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)
	wd, wdErr := os.Getwd()
	if wdErr != nil {
		t.Fatalf("getwd: %v", wdErr)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })

	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestRenderCommand(t *testing.T) {
	out, err := execute(t, "render", "--topic", "recipe app", "--style", "minimal")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if strings.TrimSpace(out) != prompt.StyleMinimal.Render("recipe app") {
		t.Fatalf("unexpected output: %q", out)
	}
}

func TestRenderUsesConfiguredDefault(t *testing.T) {
	t.Setenv("VIBE_CODER_RELAY_DEFAULT_STYLE", "brutalist")
	out, err := execute(t, "render", "chess", "club", "--style", "baroque")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if strings.TrimSpace(out) != prompt.StyleBrutalist.Render("chess club") {
		t.Fatalf("unexpected output: %q", out)
	}
}

func TestRenderRequiresTopic(t *testing.T) {
	if _, err := execute(t, "render"); err == nil {
		t.Fatalf("expected error")
	}
}

func TestStylesCommand(t *testing.T) {
	out, err := execute(t, "styles")
	if err != nil {
		t.Fatalf("styles: %v", err)
	}
	if !strings.Contains(out, "hacker (default)") {
		t.Fatalf("default not marked: %q", out)
	}
	for _, style := range prompt.Styles() {
		if !strings.Contains(out, style.String()) {
			t.Fatalf("missing style %s in %q", style, out)
		}
	}
}

func TestGenerateCommand(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer secret" {
			t.Fatalf("unexpected authorization: %s", r.Header.Get("Authorization"))
		}
		var req struct {
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode: %v", err)
		}
		last := req.Messages[len(req.Messages)-1]
		if last.Content != prompt.StyleNeon.Render("recipe app") {
			t.Fatalf("unexpected prompt: %q", last.Content)
		}
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"neon spec"}}]}`))
	}))
	defer upstream.Close()

	t.Setenv("VIBE_CODER_LLM_TYPE", "openai")
	t.Setenv("VIBE_CODER_LLM_URL", upstream.URL)
	t.Setenv("VIBE_CODER_LLM_TOKEN", "secret")
	t.Setenv("VIBE_CODER_LOG_LEVEL", "error")

	out, err := execute(t, "generate", "--topic", "recipe app", "--style", "neon")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if strings.TrimSpace(out) != "neon spec" {
		t.Fatalf("unexpected output: %q", out)
	}
}

func TestGenerateUpstreamError(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":"rate limited"}`))
	}))
	defer upstream.Close()

	t.Setenv("VIBE_CODER_LLM_TYPE", "openai")
	t.Setenv("VIBE_CODER_LLM_URL", upstream.URL)
	t.Setenv("VIBE_CODER_LLM_TOKEN", "secret")
	t.Setenv("VIBE_CODER_LOG_LEVEL", "error")

	_, err := execute(t, "generate", "recipe", "app")
	if err == nil {
		t.Fatalf("expected error")
	}
	if !strings.Contains(err.Error(), "status 429") || !strings.Contains(err.Error(), "rate limited") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestGenerateMissingToken(t *testing.T) {
	t.Setenv("VIBE_CODER_LLM_TOKEN", "")
	t.Setenv("MINIMAX_API_KEY", "")
	t.Setenv("VIBE_CODER_LOG_LEVEL", "error")
	_, err := execute(t, "generate", "--topic", "recipe app")
	if err == nil || !strings.Contains(err.Error(), "Server configuration error") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestResolveTopicConflict(t *testing.T) {
	if _, err := resolveTopic("a", []string{"b"}); err == nil {
		t.Fatalf("expected error")
	}
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte("VIBE_CODER_TEST_VALUE=from-file\n"), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}
	t.Setenv("VIBE_CODER_TEST_VALUE", "")
	os.Unsetenv("VIBE_CODER_TEST_VALUE")
	if err := loadEnvFile(path); err != nil {
		t.Fatalf("load: %v", err)
	}
	if got := os.Getenv("VIBE_CODER_TEST_VALUE"); got != "from-file" {
		t.Fatalf("unexpected value: %q", got)
	}
	if err := loadEnvFile(filepath.Join(dir, "missing.env")); err != nil {
		t.Fatalf("missing file should be ignored: %v", err)
	}
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if strings.TrimSpace(out) == "" {
		t.Fatalf("expected version output")
	}
}
