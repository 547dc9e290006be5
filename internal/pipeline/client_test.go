package pipeline_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/JaimeStill/conclave/internal/config"
	"github.com/JaimeStill/conclave/internal/pipeline"
)

func testClient(baseURL string) *pipeline.HTTPClient {
	cfg := config.ReviewConfig{
		BaseURL:        baseURL,
		APIKey:         "test-key",
		MaxTokens:      512,
		RequestTimeout: "5s",
	}
	return pipeline.NewHTTPClient(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestHTTPClientComplete(t *testing.T) {
	var captured struct {
		Model     string `json:"model"`
		MaxTokens int    `json:"max_tokens"`
		System    string `json:"system"`
		Messages  []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if got := r.Header.Get("x-api-key"); got != "test-key" {
			t.Errorf("x-api-key = %q, want test-key", got)
		}
		if got := r.Header.Get("anthropic-version"); got != "2023-06-01" {
			t.Errorf("anthropic-version = %q", got)
		}
		if got := r.Header.Get("Content-Type"); got != "application/json" {
			t.Errorf("content-type = %q", got)
		}

		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Errorf("decode request: %v", err)
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"content":[{"type":"text","text":"The paper is sound."}]}`))
	}))
	defer server.Close()

	client := testClient(server.URL)

	got, err := client.Complete(context.Background(), "model-a", "You are a reviewer.", "paper text")
	if err != nil {
		t.Fatalf("complete failed: %v", err)
	}

	if got != "The paper is sound." {
		t.Errorf("text = %q, want review text", got)
	}
	if captured.Model != "model-a" {
		t.Errorf("request model = %q, want model-a", captured.Model)
	}
	if captured.MaxTokens != 512 {
		t.Errorf("request max_tokens = %d, want 512", captured.MaxTokens)
	}
	if captured.System != "You are a reviewer." {
		t.Errorf("request system = %q", captured.System)
	}
	if len(captured.Messages) != 1 || captured.Messages[0].Role != "user" || captured.Messages[0].Content != "paper text" {
		t.Errorf("request messages = %v", captured.Messages)
	}
}

func TestHTTPClientSkipsNonTextBlocks(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"content":[{"type":"thinking","text":""},{"type":"text","text":"verdict"}]}`))
	}))
	defer server.Close()

	got, err := testClient(server.URL).Complete(context.Background(), "model-a", "", "prompt")
	if err != nil {
		t.Fatalf("complete failed: %v", err)
	}
	if got != "verdict" {
		t.Errorf("text = %q, want verdict", got)
	}
}

func TestHTTPClientNoText(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"empty content", `{"content":[]}`},
		{"no text blocks", `{"content":[{"type":"tool_use","text":""}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			_, err := testClient(server.URL).Complete(context.Background(), "model-a", "", "prompt")
			if !errors.Is(err, pipeline.ErrNoText) {
				t.Errorf("error = %v, want ErrNoText", err)
			}
		})
	}
}

func TestHTTPClientServiceError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"type":"error","error":{"type":"rate_limit_error","message":"Rate limited"}}`))
	}))
	defer server.Close()

	_, err := testClient(server.URL).Complete(context.Background(), "model-a", "", "prompt")

	var svcErr *pipeline.ServiceError
	if !errors.As(err, &svcErr) {
		t.Fatalf("error = %v, want ServiceError", err)
	}
	if svcErr.Status != http.StatusTooManyRequests {
		t.Errorf("status = %d, want 429", svcErr.Status)
	}
	if svcErr.Message != "Rate limited" {
		t.Errorf("message = %q, want structured message", svcErr.Message)
	}
	if !svcErr.Retryable() {
		t.Error("429 should be retryable")
	}
}

func TestHTTPClientServiceErrorUnstructured(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("internal failure"))
	}))
	defer server.Close()

	_, err := testClient(server.URL).Complete(context.Background(), "model-a", "", "prompt")

	var svcErr *pipeline.ServiceError
	if !errors.As(err, &svcErr) {
		t.Fatalf("error = %v, want ServiceError", err)
	}
	if svcErr.Message != "internal failure" {
		t.Errorf("message = %q, want raw body", svcErr.Message)
	}
	if svcErr.Retryable() {
		t.Error("500 should not be retryable")
	}
}

func TestServiceErrorRetryable(t *testing.T) {
	tests := []struct {
		status int
		want   bool
	}{
		{http.StatusTooManyRequests, true},
		{http.StatusNotFound, true},
		{http.StatusInternalServerError, false},
		{http.StatusBadRequest, false},
		{http.StatusUnauthorized, false},
	}

	for _, tt := range tests {
		err := &pipeline.ServiceError{Status: tt.status}
		if got := err.Retryable(); got != tt.want {
			t.Errorf("Retryable(%d) = %v, want %v", tt.status, got, tt.want)
		}
	}
}
