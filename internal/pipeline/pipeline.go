// Package pipeline implements the AI peer review pipeline: a reviewing agent
// that walks a model fallback chain with retry and backoff, a classifier that
// maps raw review text to a decision, and an orchestrator that runs the
// reviewer panel against a submission and records the outcome.
//
// The package depends only on its collaborator interfaces. Text extraction,
// certificate issuance, and persistence are provided by the composition layer.
package pipeline

import (
	"context"

	"github.com/google/uuid"
)

// Decision is the classified outcome of a single review.
type Decision string

const (
	DecisionAccepted Decision = "ACCEPTED"
	DecisionRevision Decision = "REVISION"
	DecisionRejected Decision = "REJECTED"
	DecisionError    Decision = "ERROR"
)

// Subject identifies the submission under review.
type Subject struct {
	ID         uuid.UUID
	Title      string
	StorageKey string
}

// Record is the persisted result of one reviewer slot.
type Record struct {
	SubmissionID uuid.UUID
	Reviewer     string
	Decision     Decision
	Summary      string
	Transcript   string
	Model        string
}

// TextSource extracts reviewable text for a stored submission.
type TextSource interface {
	Extract(ctx context.Context, storageKey string) (string, error)
}

// CertificateIssuer manages acceptance certificates for submissions. Issue
// returns the storage key the certificate was written to. Revoke removes a
// previously issued certificate; a retried review can downgrade a submission
// that had already earned one.
type CertificateIssuer interface {
	Issue(ctx context.Context, submissionID uuid.UUID, title string) (string, error)
	Revoke(ctx context.Context, submissionID uuid.UUID) error
}

// Store persists review records and submission completion state.
type Store interface {
	InsertReview(ctx context.Context, record Record) error
	CompleteSubmission(ctx context.Context, id uuid.UUID, allAccepted bool, certificateKey *string) error
}
