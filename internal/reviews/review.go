// Package reviews implements the review domain for Conclave. It dispatches
// the AI review pipeline against submissions, persists the resulting records,
// and exposes review queries and per-reviewer retry.
package reviews

import (
	"time"

	"github.com/google/uuid"
)

// Review is one reviewer slot's persisted outcome for a submission.
// PaperTitle is joined from the owning submission.
type Review struct {
	ID           uuid.UUID `json:"id"`
	SubmissionID uuid.UUID `json:"submission_id"`
	Reviewer     string    `json:"reviewer"`
	Decision     string    `json:"decision"`
	Summary      string    `json:"summary"`
	Transcript   string    `json:"transcript"`
	ModelName    string    `json:"model_name"`
	CreatedAt    time.Time `json:"created_at"`
	PaperTitle   string    `json:"paper_title"`
}
