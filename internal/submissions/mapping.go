package submissions

import (
	"net/url"
	"strconv"

	"github.com/JaimeStill/conclave/pkg/query"
	"github.com/JaimeStill/conclave/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "submissions", "s").
	Project("id", "ID").
	Project("title", "Title").
	Project("filename", "Filename").
	Project("content_type", "ContentType").
	Project("size_bytes", "SizeBytes").
	Project("page_count", "PageCount").
	Project("storage_key", "StorageKey").
	Project("processing_complete", "ProcessingComplete").
	Project("all_accepted", "AllAccepted").
	Project("certificate_key", "CertificateKey").
	Project("error", "Error").
	Project("created_at", "CreatedAt").
	Project("updated_at", "UpdatedAt")

var defaultSort = query.SortField{
	Field:      "CreatedAt",
	Descending: true,
}

// Filters contains optional filtering criteria for submission queries.
// Nil fields are ignored. ContentType, ProcessingComplete, and AllAccepted
// use exact matching. Title and Filename use case-insensitive contains
// matching.
type Filters struct {
	Title              *string `json:"title,omitempty"`
	Filename           *string `json:"filename,omitempty"`
	ContentType        *string `json:"content_type,omitempty"`
	ProcessingComplete *bool   `json:"processing_complete,omitempty"`
	AllAccepted        *bool   `json:"all_accepted,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereContains("Title", f.Title).
		WhereContains("Filename", f.Filename).
		WhereEquals("ContentType", f.ContentType).
		WhereEquals("ProcessingComplete", f.ProcessingComplete).
		WhereEquals("AllAccepted", f.AllAccepted)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if t := values.Get("title"); t != "" {
		f.Title = &t
	}

	if fn := values.Get("filename"); fn != "" {
		f.Filename = &fn
	}

	if ct := values.Get("content_type"); ct != "" {
		f.ContentType = &ct
	}

	if pc := values.Get("processing_complete"); pc != "" {
		if v, err := strconv.ParseBool(pc); err == nil {
			f.ProcessingComplete = &v
		}
	}

	if aa := values.Get("all_accepted"); aa != "" {
		if v, err := strconv.ParseBool(aa); err == nil {
			f.AllAccepted = &v
		}
	}

	return f
}

func scanSubmission(s repository.Scanner) (Submission, error) {
	var sub Submission
	err := s.Scan(
		&sub.ID,
		&sub.Title,
		&sub.Filename,
		&sub.ContentType,
		&sub.SizeBytes,
		&sub.PageCount,
		&sub.StorageKey,
		&sub.ProcessingComplete,
		&sub.AllAccepted,
		&sub.CertificateKey,
		&sub.Error,
		&sub.CreatedAt,
		&sub.UpdatedAt,
	)
	return sub, err
}
