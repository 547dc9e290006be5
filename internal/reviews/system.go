package reviews

import (
	"context"

	"github.com/google/uuid"

	"github.com/JaimeStill/conclave/pkg/pagination"
)

// System defines the public contract for review domain operations. Process
// satisfies the submissions Processor contract.
type System interface {
	Handler() *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Review], error)

	Find(ctx context.Context, id uuid.UUID) (*Review, error)
	ListBySubmission(ctx context.Context, submissionID uuid.UUID) ([]Review, error)
	Process(ctx context.Context, submissionID uuid.UUID) error
	Retry(ctx context.Context, submissionID uuid.UUID, reviewer string) (*Review, error)
}
