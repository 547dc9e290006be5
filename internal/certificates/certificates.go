// Package certificates produces acceptance certificates for submissions that
// cleared the full reviewer panel.
package certificates

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/JaimeStill/conclave/pkg/storage"
)

const titleLimit = 80

// Issuer renders acceptance certificates and writes them to blob storage.
type Issuer struct {
	storage storage.System
	logger  *slog.Logger
}

// New creates an Issuer backed by the given storage system.
func New(store storage.System, logger *slog.Logger) *Issuer {
	return &Issuer{
		storage: store,
		logger:  logger.With("system", "certificates"),
	}
}

// Issue renders a certificate for the submission and uploads it, returning
// the storage key it was written to.
func (i *Issuer) Issue(ctx context.Context, submissionID uuid.UUID, title string) (string, error) {
	declaration, err := json.Marshal(buildForm(submissionID, title, time.Now()))
	if err != nil {
		return "", fmt.Errorf("encode certificate declaration: %w", err)
	}

	var document bytes.Buffer
	if err := api.Create(nil, bytes.NewReader(declaration), &document, nil); err != nil {
		return "", fmt.Errorf("render certificate: %w", err)
	}

	key := storageKey(submissionID)

	if err := i.storage.Upload(ctx, key, &document, "application/pdf"); err != nil {
		return "", fmt.Errorf("upload certificate: %w", err)
	}

	i.logger.Info("certificate issued",
		"submission", submissionID,
		"key", key,
	)

	return key, nil
}

// Revoke removes the certificate for a submission. Revoking a submission that
// never had a certificate is not an error.
func (i *Issuer) Revoke(ctx context.Context, submissionID uuid.UUID) error {
	key := storageKey(submissionID)

	if err := i.storage.Delete(ctx, key); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("delete certificate: %w", err)
	}

	i.logger.Info("certificate revoked",
		"submission", submissionID,
		"key", key,
	)

	return nil
}

func storageKey(submissionID uuid.UUID) string {
	return fmt.Sprintf("certificates/%s.pdf", submissionID)
}

type form struct {
	Paper string          `json:"paper"`
	Pages map[string]page `json:"pages"`
}

type page struct {
	Content content `json:"content"`
}

type content struct {
	Text []textBox `json:"text"`
}

type textBox struct {
	Value  string `json:"value"`
	Anchor string `json:"anchor"`
	Dy     int    `json:"dy"`
	Font   font   `json:"font"`
}

type font struct {
	Name string `json:"name"`
	Size int    `json:"size"`
}

func buildForm(submissionID uuid.UUID, title string, issued time.Time) form {
	lines := []struct {
		value string
		dy    int
		size  int
	}{
		{"Certificate of Acceptance", 220, 24},
		{truncateTitle(title), 120, 14},
		{"has successfully passed Conclave's AI-powered peer review process", 60, 12},
		{fmt.Sprintf("Date: %s", issued.Format("January 2, 2006")), -20, 12},
		{fmt.Sprintf("Certificate ID: %s", submissionID), -60, 10},
	}

	boxes := make([]textBox, len(lines))
	for i, line := range lines {
		boxes[i] = textBox{
			Value:  line.value,
			Anchor: "center",
			Dy:     line.dy,
			Font:   font{Name: "Helvetica", Size: line.size},
		}
	}

	return form{
		Paper: "A4",
		Pages: map[string]page{
			"1": {Content: content{Text: boxes}},
		},
	}
}

func truncateTitle(title string) string {
	if utf8.RuneCountInString(title) <= titleLimit {
		return title
	}

	runes := []rune(title)
	return string(runes[:titleLimit]) + "..."
}
