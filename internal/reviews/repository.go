package reviews

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/google/uuid"

	"github.com/JaimeStill/conclave/internal/config"
	"github.com/JaimeStill/conclave/internal/pipeline"
	"github.com/JaimeStill/conclave/pkg/pagination"
	"github.com/JaimeStill/conclave/pkg/query"
	"github.com/JaimeStill/conclave/pkg/repository"
)

type repo struct {
	db         *sql.DB
	cfg        config.ReviewConfig
	runtime    *pipeline.Runtime
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates a review repository implementing the System interface. The
// repository doubles as the pipeline's persistence store.
func New(
	db *sql.DB,
	cfg config.ReviewConfig,
	client pipeline.Client,
	source pipeline.TextSource,
	issuer pipeline.CertificateIssuer,
	logger *slog.Logger,
	pagination pagination.Config,
) System {
	r := &repo{
		db:         db,
		cfg:        cfg,
		logger:     logger.With("system", "reviews"),
		pagination: pagination,
	}

	r.runtime = &pipeline.Runtime{
		Client: client,
		Source: source,
		Issuer: issuer,
		Store:  r,
		Config: cfg,
		Logger: logger.With("workflow", "review"),
	}

	return r
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination)
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Review], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "Summary", "Transcript", "PaperTitle")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count reviews: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	revs, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanReview)
	if err != nil {
		return nil, fmt.Errorf("query reviews: %w", err)
	}

	result := pagination.NewPageResult(revs, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Review, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	rev, err := repository.QueryOne(ctx, r.db, q, args, scanReview)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &rev, nil
}

func (r *repo) ListBySubmission(ctx context.Context, submissionID uuid.UUID) ([]Review, error) {
	q, args := query.
		NewBuilder(projection, query.SortField{Field: "Reviewer"}).
		WhereEquals("SubmissionID", submissionID).
		Build()

	revs, err := repository.QueryMany(ctx, r.db, q, args, scanReview)
	if err != nil {
		return nil, fmt.Errorf("query submission reviews: %w", err)
	}
	return revs, nil
}

// Process runs the full reviewer panel against a submission. Failure to
// resolve the submission is recorded on the submission row so the status
// endpoint can surface it.
func (r *repo) Process(ctx context.Context, submissionID uuid.UUID) error {
	sub, err := r.subject(ctx, submissionID)
	if err != nil {
		if !errors.Is(err, ErrSubmissionNotFound) {
			r.markFailed(ctx, submissionID, err)
		}
		return err
	}

	outcome := pipeline.Run(ctx, r.runtime, sub.Subject)

	r.logger.Info("submission processed",
		"submission", submissionID,
		"all_accepted", outcome.AllAccepted,
	)

	return nil
}

type retryResult struct {
	reviewID    uuid.UUID
	allAccepted bool
}

// Retry re-runs a single reviewer slot for a completed submission, replacing
// the previous record. The acceptance verdict and certificate are recomputed
// from the updated panel.
func (r *repo) Retry(ctx context.Context, submissionID uuid.UUID, reviewer string) (*Review, error) {
	if !slices.Contains(r.cfg.Reviewers, reviewer) {
		return nil, ErrUnknownReviewer
	}

	sub, err := r.subject(ctx, submissionID)
	if err != nil {
		return nil, err
	}

	if !sub.processingComplete {
		return nil, ErrStillProcessing
	}

	record := pipeline.RunSlot(ctx, r.runtime, sub.Subject, reviewer)

	upsert := `
		INSERT INTO reviews(id, submission_id, reviewer, decision, summary, transcript, model_name)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (submission_id, reviewer) DO UPDATE
		SET decision = EXCLUDED.decision,
			summary = EXCLUDED.summary,
			transcript = EXCLUDED.transcript,
			model_name = EXCLUDED.model_name,
			created_at = NOW()
		RETURNING id`

	upsertArgs := []any{
		uuid.New(),
		record.SubmissionID,
		record.Reviewer,
		string(record.Decision),
		record.Summary,
		record.Transcript,
		record.Model,
	}

	result, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (retryResult, error) {
		reviewID, err := repository.QueryValue[uuid.UUID](ctx, tx, upsert, upsertArgs)
		if err != nil {
			return retryResult{}, err
		}

		allAccepted, err := repository.QueryValue[bool](ctx, tx,
			`SELECT COUNT(*) > 0 AND COUNT(*) FILTER (WHERE decision <> $2) = 0
			FROM reviews WHERE submission_id = $1`,
			[]any{submissionID, string(pipeline.DecisionAccepted)},
		)
		if err != nil {
			return retryResult{}, err
		}

		return retryResult{reviewID: reviewID, allAccepted: allAccepted}, nil
	})
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	certificateKey := sub.certificateKey

	if result.allAccepted && certificateKey == nil {
		key, err := r.runtime.Issuer.Issue(ctx, submissionID, sub.Title)
		if err != nil {
			r.logger.Error("certificate issuance failed",
				"submission", submissionID,
				"error", err,
			)
		} else {
			certificateKey = &key
		}
	}

	if !result.allAccepted && certificateKey != nil {
		if err := r.runtime.Issuer.Revoke(ctx, submissionID); err != nil {
			r.logger.Warn("certificate revocation failed",
				"submission", submissionID,
				"error", err,
			)
		}
		certificateKey = nil
	}

	if err := r.CompleteSubmission(ctx, submissionID, result.allAccepted, certificateKey); err != nil {
		return nil, fmt.Errorf("update submission verdict: %w", err)
	}

	r.logger.Info("review retried",
		"submission", submissionID,
		"reviewer", reviewer,
		"decision", record.Decision,
		"all_accepted", result.allAccepted,
	)

	return r.Find(ctx, result.reviewID)
}

// InsertReview records one reviewer slot's outcome.
func (r *repo) InsertReview(ctx context.Context, record pipeline.Record) error {
	q := `
		INSERT INTO reviews(id, submission_id, reviewer, decision, summary, transcript, model_name)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.db.ExecContext(ctx, q,
		uuid.New(),
		record.SubmissionID,
		record.Reviewer,
		string(record.Decision),
		record.Summary,
		record.Transcript,
		record.Model,
	)
	return repository.MapError(err, ErrNotFound, ErrDuplicate)
}

// CompleteSubmission finalizes a submission's review state.
func (r *repo) CompleteSubmission(ctx context.Context, id uuid.UUID, allAccepted bool, certificateKey *string) error {
	return repository.ExecExpectOne(ctx, r.db,
		`UPDATE submissions
		SET processing_complete = true, all_accepted = $2, certificate_key = $3, updated_at = NOW()
		WHERE id = $1`,
		id, allAccepted, certificateKey,
	)
}

type subjectRow struct {
	pipeline.Subject
	processingComplete bool
	certificateKey     *string
}

func (r *repo) subject(ctx context.Context, id uuid.UUID) (subjectRow, error) {
	q := `
		SELECT id, title, storage_key, processing_complete, certificate_key
		FROM submissions
		WHERE id = $1`

	row, err := repository.QueryOne(ctx, r.db, q, []any{id}, scanSubject)
	if err != nil {
		return subjectRow{}, repository.MapError(err, ErrSubmissionNotFound, ErrSubmissionNotFound)
	}
	return row, nil
}

func (r *repo) markFailed(ctx context.Context, id uuid.UUID, cause error) {
	err := repository.ExecExpectOne(ctx, r.db,
		"UPDATE submissions SET error = $2, updated_at = NOW() WHERE id = $1",
		id, cause.Error(),
	)
	if err != nil {
		r.logger.Error("failed to record submission failure",
			"submission", id,
			"error", err,
		)
	}
}

func scanSubject(s repository.Scanner) (subjectRow, error) {
	var row subjectRow
	err := s.Scan(
		&row.ID,
		&row.Title,
		&row.StorageKey,
		&row.processingComplete,
		&row.certificateKey,
	)
	return row, err
}
