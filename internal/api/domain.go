package api

import (
	"github.com/JaimeStill/conclave/internal/certificates"
	"github.com/JaimeStill/conclave/internal/extraction"
	"github.com/JaimeStill/conclave/internal/pipeline"
	"github.com/JaimeStill/conclave/internal/reviews"
	"github.com/JaimeStill/conclave/internal/submissions"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Submissions submissions.System
	Reviews     reviews.System
}

// NewDomain creates all domain systems from the API runtime. The review
// system receives the pipeline collaborators: the model client, the text
// source, and the certificate issuer.
func NewDomain(runtime *Runtime) *Domain {
	client := pipeline.NewHTTPClient(runtime.Review, runtime.Logger)
	source := extraction.New(runtime.Storage, runtime.Review, runtime.Logger)
	issuer := certificates.New(runtime.Storage, runtime.Logger)

	submissionsSystem := submissions.New(
		runtime.Database.Connection(),
		runtime.Storage,
		runtime.Logger,
		runtime.Pagination,
	)

	reviewsSystem := reviews.New(
		runtime.Database.Connection(),
		runtime.Review,
		client,
		source,
		issuer,
		runtime.Logger,
		runtime.Pagination,
	)

	return &Domain{
		Submissions: submissionsSystem,
		Reviews:     reviewsSystem,
	}
}
