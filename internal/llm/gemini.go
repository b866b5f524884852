package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"path"
	"strings"
)

type GeminiConfig struct {
	BaseURL     string
	Token       string
	Model       string
	MaxTokens   int
	Temperature float64
	HTTPClient  *http.Client
}

type GeminiClient struct {
	baseURL     string
	token       string
	model       string
	maxTokens   int
	temperature float64
	httpClient  *http.Client
}

func NewGeminiClient(cfg GeminiConfig) (*GeminiClient, error) {
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		return nil, errors.New("gemini base url is required")
	}
	token := strings.TrimSpace(cfg.Token)
	if token == "" {
		return nil, fmt.Errorf("gemini %w", ErrMissingToken)
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		return nil, errors.New("gemini model is required")
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{}
	}
	return &GeminiClient{
		baseURL:     baseURL,
		token:       token,
		model:       model,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
		httpClient:  client,
	}, nil
}

func (c *GeminiClient) Chat(ctx context.Context, req ChatRequest) (ChatResponse, error) {
	contents, system := buildGeminiContents(req.Messages)
	payload := geminiGenerateContentRequest{
		Contents:          contents,
		SystemInstruction: system,
	}
	if c.maxTokens > 0 || c.temperature != 0 {
		payload.GenerationConfig = &geminiGenerationConfig{
			MaxOutputTokens: c.maxTokens,
			Temperature:     c.temperature,
		}
	}
	var resp geminiGenerateContentResponse
	if err := c.do(ctx, payload, resolveModel(req.Model, c.model), &resp); err != nil {
		return ChatResponse{}, err
	}
	if len(resp.Candidates) == 0 {
		return ChatResponse{Model: resp.ModelVersion}, nil
	}
	return ChatResponse{
		Content:      flattenGeminiContent(resp.Candidates[0].Content),
		Model:        resp.ModelVersion,
		FinishReason: resp.Candidates[0].FinishReason,
	}, nil
}

func (c *GeminiClient) do(ctx context.Context, payload geminiGenerateContentRequest, model string, out *geminiGenerateContentResponse) error {
	requestBody, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}
	endpoint, err := buildGeminiEndpoint(c.baseURL, model, c.token)
	if err != nil {
		return err
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(requestBody))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		// url.Error embeds the endpoint, which carries the key.
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			err = urlErr.Err
		}
		return fmt.Errorf("gemini request: %w", err)
	}
	defer httpResp.Body.Close()

	if !isSuccess(httpResp.StatusCode) {
		return readStatusError("gemini", httpResp.Body, httpResp.StatusCode)
	}
	if err := json.NewDecoder(httpResp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	if out.Error != nil {
		return fmt.Errorf("gemini error: %s", out.Error.Message)
	}
	return nil
}

func buildGeminiEndpoint(baseURL, model, token string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil {
		return "", fmt.Errorf("invalid base url: %w", err)
	}
	apiPath := strings.TrimSuffix(u.Path, "/")
	if !strings.HasSuffix(apiPath, "/v1") && !strings.HasSuffix(apiPath, "/v1beta") {
		apiPath = path.Join(apiPath, "/v1beta")
	}
	u.Path = path.Join(apiPath, "models", model+":generateContent")
	query := u.Query()
	query.Set("key", token)
	u.RawQuery = query.Encode()
	return u.String(), nil
}

func buildGeminiContents(messages []Message) ([]geminiContent, *geminiSystemInstruction) {
	rest, systemText := splitSystem(messages)
	var system *geminiSystemInstruction
	if systemText != "" {
		system = &geminiSystemInstruction{
			Parts: []geminiPart{{Text: systemText}},
		}
	}
	contents := make([]geminiContent, 0, len(rest))
	for _, message := range rest {
		role := message.Role
		if role == "assistant" {
			role = "model"
		}
		contents = append(contents, geminiContent{
			Role:  role,
			Parts: []geminiPart{{Text: message.Content}},
		})
	}
	return contents, system
}

func flattenGeminiContent(content geminiContent) string {
	var builder strings.Builder
	for _, part := range content.Parts {
		builder.WriteString(part.Text)
	}
	return builder.String()
}

type geminiGenerateContentRequest struct {
	Contents          []geminiContent          `json:"contents"`
	SystemInstruction *geminiSystemInstruction `json:"systemInstruction,omitempty"`
	GenerationConfig  *geminiGenerationConfig  `json:"generationConfig,omitempty"`
}

type geminiGenerationConfig struct {
	MaxOutputTokens int     `json:"maxOutputTokens,omitempty"`
	Temperature     float64 `json:"temperature,omitempty"`
}

type geminiGenerateContentResponse struct {
	Candidates   []geminiCandidate `json:"candidates"`
	ModelVersion string            `json:"modelVersion,omitempty"`
	Error        *geminiError      `json:"error,omitempty"`
}

type geminiCandidate struct {
	Content      geminiContent `json:"content"`
	FinishReason string        `json:"finishReason,omitempty"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text,omitempty"`
}

type geminiSystemInstruction struct {
	Parts []geminiPart `json:"parts"`
}

type geminiError struct {
	Message string `json:"message"`
	Status  string `json:"status,omitempty"`
}
