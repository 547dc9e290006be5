package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/JaimeStill/conclave/internal/config"
)

const apiVersion = "2023-06-01"

// Client completes a prompt against a single model and returns the response
// text.
type Client interface {
	Complete(ctx context.Context, model, system, prompt string) (string, error)
}

// ErrNoText indicates the model responded successfully but returned no
// textual content. The agent treats it as terminal rather than retrying.
var ErrNoText = errors.New("no text in response")

// ServiceError is a non-2xx response from the model service. Message carries
// the structured error message when the body parses, otherwise the raw body.
type ServiceError struct {
	Status  int
	Message string
}

func (e *ServiceError) Error() string {
	return e.Message
}

// Retryable reports whether the agent may recover by switching models.
// Rate limiting and unknown-model responses qualify.
func (e *ServiceError) Retryable() bool {
	return e.Status == http.StatusTooManyRequests || e.Status == http.StatusNotFound
}

type messageRequest struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	System    string    `json:"system,omitempty"`
	Messages  []message `json:"messages"`
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messageResponse struct {
	Content []contentBlock `json:"content"`
}

type contentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type errorResponse struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// HTTPClient talks to an Anthropic-compatible messages endpoint.
type HTTPClient struct {
	http      *http.Client
	baseURL   string
	apiKey    string
	maxTokens int
	logger    *slog.Logger
}

// NewHTTPClient creates a Client for the configured endpoint. The underlying
// http.Client timeout bounds each request; the agent treats timeouts like any
// other transport failure.
func NewHTTPClient(cfg config.ReviewConfig, logger *slog.Logger) *HTTPClient {
	return &HTTPClient{
		http: &http.Client{
			Timeout: cfg.RequestTimeoutDuration(),
		},
		baseURL:   cfg.BaseURL,
		apiKey:    cfg.APIKey,
		maxTokens: cfg.MaxTokens,
		logger:    logger.With("system", "client"),
	}
}

// Complete sends prompt to the given model and returns the first textual
// segment of the response. Non-2xx responses return a *ServiceError;
// transport failures return the underlying error.
func (c *HTTPClient) Complete(ctx context.Context, model, system, prompt string) (string, error) {
	body, err := json.Marshal(messageRequest{
		Model:     model,
		MaxTokens: c.maxTokens,
		System:    system,
		Messages: []message{
			{Role: "user", Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", apiVersion)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	c.logger.Debug("model request complete",
		"model", model,
		"status", resp.StatusCode,
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", serviceError(resp.StatusCode, data)
	}

	var parsed messageResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}

	for _, block := range parsed.Content {
		if block.Type == "text" && block.Text != "" {
			return block.Text, nil
		}
	}

	return "", ErrNoText
}

func serviceError(status int, body []byte) *ServiceError {
	var parsed errorResponse
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.Error.Message != "" {
		return &ServiceError{Status: status, Message: parsed.Error.Message}
	}

	return &ServiceError{Status: status, Message: string(body)}
}
