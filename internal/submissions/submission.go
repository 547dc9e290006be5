// Package submissions implements the paper submission domain for Conclave.
// It provides types, data access, and business logic for paper upload,
// review progress reporting, and delivery of stored documents and acceptance
// certificates.
package submissions

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"
)

// Submission represents an uploaded paper with its metadata, blob storage
// reference, and review completion state. Error is set when the review
// pipeline could not be started for the submission.
type Submission struct {
	ID                 uuid.UUID `json:"id"`
	Title              string    `json:"title"`
	Filename           string    `json:"filename"`
	ContentType        string    `json:"content_type"`
	SizeBytes          int64     `json:"size_bytes"`
	PageCount          *int      `json:"page_count"`
	StorageKey         string    `json:"storage_key"`
	ProcessingComplete bool      `json:"processing_complete"`
	AllAccepted        bool      `json:"all_accepted"`
	CertificateKey     *string   `json:"certificate_key"`
	Error              *string   `json:"error,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// CreateCommand carries the data needed to upload and register a new
// submission. Data holds the raw file bytes. An empty Title falls back to the
// filename stem. PageCount is optional; nil values are stored as NULL.
type CreateCommand struct {
	Data        []byte
	Title       string
	Filename    string
	ContentType string
	PageCount   *int
}

// Review progress states reported by the status endpoint.
const (
	StatusProcessing = "processing"
	StatusComplete   = "complete"
	StatusNotFound   = "not_found"
	StatusError      = "error"
)

// Status reports review progress for a submission. Results is populated once
// processing completes.
type Status struct {
	Status      string         `json:"status"`
	AllAccepted bool           `json:"all_accepted"`
	Certificate *string        `json:"certificate,omitempty"`
	Error       *string        `json:"error,omitempty"`
	Results     []ReviewResult `json:"results,omitempty"`
}

// ReviewResult is one reviewer slot's outcome as reported by the status
// endpoint.
type ReviewResult struct {
	Reviewer   string `json:"reviewer"`
	Decision   string `json:"decision"`
	Summary    string `json:"summary"`
	Transcript string `json:"transcript"`
	Model      string `json:"model"`
}

// Summary aggregates review decisions for a submission.
type Summary struct {
	SubmissionID uuid.UUID      `json:"submission_id"`
	Decisions    map[string]int `json:"decisions"`
	AllAccepted  bool           `json:"all_accepted"`
}

// Download carries a stored blob stream and the metadata needed to serve it.
type Download struct {
	Body          io.ReadCloser
	ContentType   string
	ContentLength int64
	Filename      string
}

// Processor dispatches the review pipeline for a submission. It is satisfied
// by the reviews system and wired in by composition code.
type Processor interface {
	Process(ctx context.Context, submissionID uuid.UUID) error
}
