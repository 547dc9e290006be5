package reviews

import (
	"net/url"

	"github.com/google/uuid"

	"github.com/JaimeStill/conclave/pkg/query"
	"github.com/JaimeStill/conclave/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "reviews", "r").
	Project("id", "ID").
	Project("submission_id", "SubmissionID").
	Project("reviewer", "Reviewer").
	Project("decision", "Decision").
	Project("summary", "Summary").
	Project("transcript", "Transcript").
	Project("model_name", "ModelName").
	Project("created_at", "CreatedAt").
	Join("public", "submissions", "s", "INNER JOIN", "r.submission_id = s.id").
	Project("title", "PaperTitle")

var defaultSort = query.SortField{
	Field:      "CreatedAt",
	Descending: true,
}

// Filters contains optional filtering criteria for review queries.
// Nil fields are ignored; all filters use exact matching.
type Filters struct {
	SubmissionID *uuid.UUID `json:"submission_id,omitempty"`
	Reviewer     *string    `json:"reviewer,omitempty"`
	Decision     *string    `json:"decision,omitempty"`
	ModelName    *string    `json:"model_name,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("SubmissionID", f.SubmissionID).
		WhereEquals("Reviewer", f.Reviewer).
		WhereEquals("Decision", f.Decision).
		WhereEquals("ModelName", f.ModelName)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if sid := values.Get("submission_id"); sid != "" {
		if id, err := uuid.Parse(sid); err == nil {
			f.SubmissionID = &id
		}
	}

	if rev := values.Get("reviewer"); rev != "" {
		f.Reviewer = &rev
	}

	if d := values.Get("decision"); d != "" {
		f.Decision = &d
	}

	if m := values.Get("model_name"); m != "" {
		f.ModelName = &m
	}

	return f
}

func scanReview(s repository.Scanner) (Review, error) {
	var r Review
	err := s.Scan(
		&r.ID,
		&r.SubmissionID,
		&r.Reviewer,
		&r.Decision,
		&r.Summary,
		&r.Transcript,
		&r.ModelName,
		&r.CreatedAt,
		&r.PaperTitle,
	)
	return r, err
}
