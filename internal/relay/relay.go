// Package relay turns a {topic, style} request into one upstream LLM call
// and relays the text back with CORS headers.
package relay

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/witch-agent/vibe-coder/internal/llm"
	"github.com/witch-agent/vibe-coder/internal/logging"
	"github.com/witch-agent/vibe-coder/internal/prompt"
)

const (
	DefaultAllowOrigin = "*"
	EmptyResult        = "No response generated"
)

// Options configures a Handler. A nil Client means the upstream credential
// is missing; every submission then fails with a configuration error.
type Options struct {
	Client            llm.Client
	Model             string
	System            string
	DefaultStyle      prompt.Style
	AllowOrigin       string
	PassthroughStatus bool
	Logger            logrus.FieldLogger
}

type Handler struct {
	client            llm.Client
	model             string
	system            string
	defaultStyle      prompt.Style
	allowOrigin       string
	passthroughStatus bool
	log               logrus.FieldLogger
}

func New(opts Options) *Handler {
	allowOrigin := strings.TrimSpace(opts.AllowOrigin)
	if allowOrigin == "" {
		allowOrigin = DefaultAllowOrigin
	}
	log := opts.Logger
	if log == nil {
		log = logging.GetLogger()
	}
	return &Handler{
		client:            opts.Client,
		model:             opts.Model,
		system:            opts.System,
		defaultStyle:      opts.DefaultStyle,
		allowOrigin:       allowOrigin,
		passthroughStatus: opts.PassthroughStatus,
		log:               log,
	}
}

type resultBody struct {
	Result string `json:"result"`
}

type errorBody struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if err := h.Handle(r.Context(), NewHTTPAdapter(w, r)); err != nil {
		h.log.WithError(err).Warn("write response")
	}
}

// Handle reads one request from a, processes it and writes exactly one
// response. The returned error only reports a failure to write.
func (h *Handler) Handle(ctx context.Context, a Adapter) error {
	start := time.Now()
	req, err := a.ReadRequest()
	if err != nil {
		return h.writeError(a, internalError(err))
	}

	switch req.Method {
	case http.MethodOptions:
		return a.WriteResponse(http.StatusOK, h.corsHeader(), nil)
	case http.MethodPost:
	default:
		return h.writeError(a, &Error{
			Kind:    KindValidation,
			Status:  http.StatusMethodNotAllowed,
			Message: "Method not allowed",
		})
	}

	result, style, err := h.process(ctx, req.Body)
	entry := h.log.WithFields(logrus.Fields{
		"style":    style.String(),
		"duration": time.Since(start).Round(time.Millisecond).String(),
	})
	if err != nil {
		relayErr := asRelayError(err)
		entry = entry.WithField("kind", relayErr.Kind.String()).WithField("status", relayErr.Status)
		if relayErr.Kind == KindValidation {
			entry.Info("request rejected")
		} else {
			entry.WithError(err).Warn("request failed")
		}
		return h.writeError(a, relayErr)
	}
	entry.WithField("status", http.StatusOK).Info("request relayed")
	return h.writeJSON(a, http.StatusOK, resultBody{Result: result})
}

func (h *Handler) process(ctx context.Context, body []byte) (result string, style prompt.Style, err error) {
	style = h.defaultStyle
	defer func() {
		if r := recover(); r != nil {
			err = internalError(fmt.Errorf("panic: %v", r))
		}
	}()

	if h.client == nil {
		return "", style, configurationError()
	}
	var payload any
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", style, internalError(fmt.Errorf("decode request: %w", err))
	}
	// Valid JSON that is not an object has no topic.
	fields, _ := payload.(map[string]any)
	topic, _ := fields["topic"].(string)
	styleName, _ := fields["style"].(string)
	if topic == "" {
		return "", style, validationError("Topic is required")
	}
	style = prompt.Resolve(styleName, h.defaultStyle)
	if styleName != "" && !strings.EqualFold(strings.TrimSpace(styleName), style.String()) {
		h.log.WithField("requested", styleName).Debug("unknown style, using default")
	}
	result, err = h.generate(ctx, topic, style)
	return result, style, err
}

// Generate renders topic with the named style (falling back to the default
// style) and performs one upstream call. Errors are *Error values.
func (h *Handler) Generate(ctx context.Context, topic, style string) (string, error) {
	if h.client == nil {
		return "", configurationError()
	}
	if topic == "" {
		return "", validationError("Topic is required")
	}
	return h.generate(ctx, topic, prompt.Resolve(style, h.defaultStyle))
}

func (h *Handler) generate(ctx context.Context, topic string, style prompt.Style) (string, error) {
	messages := make([]llm.Message, 0, 2)
	system := style.System()
	if system == "" {
		system = h.system
	}
	if strings.TrimSpace(system) != "" {
		messages = append(messages, llm.Message{Role: "system", Content: system})
	}
	messages = append(messages, llm.Message{Role: "user", Content: style.Render(topic)})

	resp, err := h.client.Chat(ctx, llm.ChatRequest{
		Model:    h.model,
		Messages: messages,
	})
	if err != nil {
		var statusErr *llm.StatusError
		if errors.As(err, &statusErr) {
			status := http.StatusBadGateway
			if h.passthroughStatus {
				status = statusErr.StatusCode
			}
			return "", &Error{
				Kind:    KindUpstream,
				Status:  status,
				Message: "AI service error",
				Details: statusErr.Details(),
				Err:     err,
			}
		}
		return "", internalError(err)
	}
	if resp.Content == "" {
		return EmptyResult, nil
	}
	return resp.Content, nil
}

func asRelayError(err error) *Error {
	var relayErr *Error
	if errors.As(err, &relayErr) {
		return relayErr
	}
	return internalError(err)
}

func (h *Handler) corsHeader() http.Header {
	header := http.Header{}
	header.Set("Access-Control-Allow-Origin", h.allowOrigin)
	header.Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	header.Set("Access-Control-Allow-Headers", "Content-Type")
	return header
}

func (h *Handler) writeError(a Adapter, relayErr *Error) error {
	return h.writeJSON(a, relayErr.Status, errorBody{
		Error:   relayErr.Message,
		Details: relayErr.Details,
	})
}

func (h *Handler) writeJSON(a Adapter, status int, v any) error {
	body, err := json.Marshal(v)
	if err != nil {
		status = http.StatusInternalServerError
		body, _ = json.Marshal(errorBody{Error: err.Error()})
	}
	header := h.corsHeader()
	header.Set("Content-Type", "application/json")
	return a.WriteResponse(status, header, body)
}
