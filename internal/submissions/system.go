package submissions

import (
	"context"

	"github.com/google/uuid"

	"github.com/JaimeStill/conclave/pkg/pagination"
)

// System defines the public contract for submission domain operations.
type System interface {
	Handler(processor Processor, maxUploadSize int64) *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Submission], error)

	Find(ctx context.Context, id uuid.UUID) (*Submission, error)
	Create(ctx context.Context, cmd CreateCommand) (*Submission, error)
	Status(ctx context.Context, id uuid.UUID) (*Status, error)
	Summary(ctx context.Context, id uuid.UUID) (*Summary, error)
	Document(ctx context.Context, id uuid.UUID) (*Download, error)
	Certificate(ctx context.Context, id uuid.UUID) (*Download, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
