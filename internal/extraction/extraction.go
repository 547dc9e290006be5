// Package extraction turns stored submission documents into reviewable text.
package extraction

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"

	"github.com/JaimeStill/conclave/internal/config"
	"github.com/JaimeStill/conclave/pkg/storage"
)

type parser interface {
	parse(data []byte) (string, error)
}

// Source extracts text from submissions held in blob storage. Extracted text
// shorter than the configured minimum is rejected as insufficient for review.
type Source struct {
	storage   storage.System
	parser    parser
	minLength int
	logger    *slog.Logger
}

// New creates a Source backed by the given storage system.
func New(store storage.System, cfg config.ReviewConfig, logger *slog.Logger) *Source {
	return &Source{
		storage:   store,
		parser:    pdfParser{},
		minLength: cfg.MinTextLength,
		logger:    logger.With("system", "extraction"),
	}
}

// Extract downloads the blob at storageKey and returns its textual content.
func (s *Source) Extract(ctx context.Context, storageKey string) (string, error) {
	result, err := s.storage.Download(ctx, storageKey)
	if err != nil {
		return "", fmt.Errorf("download document %s: %w", storageKey, err)
	}
	defer result.Body.Close()

	data, err := io.ReadAll(result.Body)
	if err != nil {
		return "", fmt.Errorf("read document %s: %w", storageKey, err)
	}

	text, err := s.parser.parse(data)
	if err != nil {
		return "", fmt.Errorf("parse document %s: %w", storageKey, err)
	}

	text = strings.TrimSpace(text)

	if length := utf8.RuneCountInString(text); length < s.minLength {
		return "", fmt.Errorf("%w: %d characters", ErrInsufficientContent, length)
	}

	s.logger.Debug("text extracted",
		"key", storageKey,
		"length", len(text),
	)

	return text, nil
}

type pdfParser struct{}

func (pdfParser) parse(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}

	content, err := reader.GetPlainText()
	if err != nil {
		return "", err
	}

	text, err := io.ReadAll(content)
	if err != nil {
		return "", err
	}

	return string(text), nil
}
