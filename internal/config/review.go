package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	EnvReviewBaseURL        = "CONCLAVE_REVIEW_BASE_URL"
	EnvReviewAPIKey         = "CONCLAVE_REVIEW_API_KEY"
	EnvReviewModels         = "CONCLAVE_REVIEW_MODELS"
	EnvReviewReviewers      = "CONCLAVE_REVIEW_REVIEWERS"
	EnvReviewMaxTokens      = "CONCLAVE_REVIEW_MAX_TOKENS"
	EnvReviewRequestTimeout = "CONCLAVE_REVIEW_REQUEST_TIMEOUT"
	EnvReviewMaxRetries     = "CONCLAVE_REVIEW_MAX_RETRIES"
	EnvReviewBackoff        = "CONCLAVE_REVIEW_BACKOFF"
	EnvReviewMinTextLength  = "CONCLAVE_REVIEW_MIN_TEXT_LENGTH"
	EnvReviewParallel       = "CONCLAVE_REVIEW_PARALLEL"
)

// ReviewConfig holds the AI review pipeline settings: the model service
// endpoint and credentials, the model fallback chain, the reviewer panel, and
// the retry policy.
type ReviewConfig struct {
	BaseURL        string   `toml:"base_url"`
	APIKey         string   `toml:"api_key"`
	Models         []string `toml:"models"`
	Reviewers      []string `toml:"reviewers"`
	MaxTokens      int      `toml:"max_tokens"`
	RequestTimeout string   `toml:"request_timeout"`
	MaxRetries     int      `toml:"max_retries"`
	Backoff        string   `toml:"backoff"`
	MinTextLength  int      `toml:"min_text_length"`
	Parallel       bool     `toml:"parallel"`
	Rubric         string   `toml:"rubric"`
}

// RequestTimeoutDuration returns RequestTimeout as a time.Duration.
func (c *ReviewConfig) RequestTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.RequestTimeout)
	return d
}

// BackoffDuration returns Backoff as a time.Duration.
func (c *ReviewConfig) BackoffDuration() time.Duration {
	d, _ := time.ParseDuration(c.Backoff)
	return d
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *ReviewConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites fields from overlay. Parallel always applies; other fields
// only apply when non-zero.
func (c *ReviewConfig) Merge(overlay *ReviewConfig) {
	c.Parallel = overlay.Parallel

	if overlay.BaseURL != "" {
		c.BaseURL = overlay.BaseURL
	}
	if overlay.APIKey != "" {
		c.APIKey = overlay.APIKey
	}
	if overlay.Models != nil {
		c.Models = overlay.Models
	}
	if overlay.Reviewers != nil {
		c.Reviewers = overlay.Reviewers
	}
	if overlay.MaxTokens != 0 {
		c.MaxTokens = overlay.MaxTokens
	}
	if overlay.RequestTimeout != "" {
		c.RequestTimeout = overlay.RequestTimeout
	}
	if overlay.MaxRetries != 0 {
		c.MaxRetries = overlay.MaxRetries
	}
	if overlay.Backoff != "" {
		c.Backoff = overlay.Backoff
	}
	if overlay.MinTextLength != 0 {
		c.MinTextLength = overlay.MinTextLength
	}
	if overlay.Rubric != "" {
		c.Rubric = overlay.Rubric
	}
}

func (c *ReviewConfig) loadDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = "https://api.anthropic.com/v1/messages"
	}
	if len(c.Models) == 0 {
		c.Models = []string{
			"claude-3-5-sonnet-20240620",
			"claude-3-opus-20240229",
			"claude-3-sonnet-20240229",
			"claude-3-haiku-20240307",
		}
	}
	if len(c.Reviewers) == 0 {
		c.Reviewers = []string{"Reviewer 1", "Reviewer 2", "Reviewer 3"}
	}
	if c.MaxTokens == 0 {
		c.MaxTokens = 4000
	}
	if c.RequestTimeout == "" {
		c.RequestTimeout = "120s"
	}
	if c.MaxRetries == 0 {
		c.MaxRetries = 3
	}
	if c.Backoff == "" {
		c.Backoff = "2s"
	}
	if c.MinTextLength == 0 {
		c.MinTextLength = 100
	}
}

func (c *ReviewConfig) loadEnv() {
	if v := os.Getenv(EnvReviewBaseURL); v != "" {
		c.BaseURL = v
	}
	if v := os.Getenv(EnvReviewAPIKey); v != "" {
		c.APIKey = v
	}
	if v := os.Getenv(EnvReviewModels); v != "" {
		c.Models = splitList(v)
	}
	if v := os.Getenv(EnvReviewReviewers); v != "" {
		c.Reviewers = splitList(v)
	}
	if v := os.Getenv(EnvReviewMaxTokens); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.MaxTokens = n
		}
	}
	if v := os.Getenv(EnvReviewRequestTimeout); v != "" {
		c.RequestTimeout = v
	}
	if v := os.Getenv(EnvReviewMaxRetries); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.MaxRetries = n
		}
	}
	if v := os.Getenv(EnvReviewBackoff); v != "" {
		c.Backoff = v
	}
	if v := os.Getenv(EnvReviewMinTextLength); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.MinTextLength = n
		}
	}
	if v := os.Getenv(EnvReviewParallel); v != "" {
		if parallel, err := strconv.ParseBool(v); err == nil {
			c.Parallel = parallel
		}
	}
}

func (c *ReviewConfig) validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("api_key required")
	}
	if len(c.Models) == 0 {
		return fmt.Errorf("at least one model required")
	}
	if len(c.Reviewers) == 0 {
		return fmt.Errorf("at least one reviewer required")
	}
	if c.MaxTokens < 1 {
		return fmt.Errorf("max_tokens must be positive")
	}
	if c.MaxRetries < 1 {
		return fmt.Errorf("max_retries must be positive")
	}
	if _, err := time.ParseDuration(c.RequestTimeout); err != nil {
		return fmt.Errorf("invalid request_timeout: %w", err)
	}
	if _, err := time.ParseDuration(c.Backoff); err != nil {
		return fmt.Errorf("invalid backoff: %w", err)
	}
	return nil
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	list := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			list = append(list, trimmed)
		}
	}
	return list
}
