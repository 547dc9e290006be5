package submissions

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/JaimeStill/conclave/pkg/pagination"
	"github.com/JaimeStill/conclave/pkg/query"
	"github.com/JaimeStill/conclave/pkg/repository"
	"github.com/JaimeStill/conclave/pkg/storage"
)

type repo struct {
	db         *sql.DB
	storage    storage.System
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates a submission repository implementing the System interface.
func New(
	db *sql.DB,
	store storage.System,
	logger *slog.Logger,
	pagination pagination.Config,
) System {
	return &repo{
		db:         db,
		storage:    store,
		logger:     logger.With("system", "submissions"),
		pagination: pagination,
	}
}

func (r *repo) Handler(processor Processor, maxUploadSize int64) *Handler {
	return NewHandler(r, processor, r.logger, r.pagination, maxUploadSize)
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Submission], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "Title", "Filename")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count submissions: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	subs, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanSubmission)
	if err != nil {
		return nil, fmt.Errorf("query submissions: %w", err)
	}

	result := pagination.NewPageResult(subs, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Submission, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	sub, err := repository.QueryOne(ctx, r.db, q, args, scanSubmission)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &sub, nil
}

func (r *repo) Create(ctx context.Context, cmd CreateCommand) (*Submission, error) {
	id := uuid.New()
	key := buildStorageKey(id, sanitizeFilename(cmd.Filename))

	title := strings.TrimSpace(cmd.Title)
	if title == "" {
		title = titleFromFilename(cmd.Filename)
	}

	if err := r.storage.Upload(ctx, key, bytes.NewReader(cmd.Data), cmd.ContentType); err != nil {
		return nil, fmt.Errorf("upload submission blob: %w", err)
	}

	q := `
		INSERT INTO submissions(id, title, filename, content_type, size_bytes, page_count, storage_key)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, title, filename, content_type, size_bytes, page_count, storage_key, processing_complete, all_accepted, certificate_key, error, created_at, updated_at`

	insertArgs := []any{
		id,
		title,
		cmd.Filename,
		cmd.ContentType,
		int64(len(cmd.Data)),
		cmd.PageCount,
		key,
	}

	sub, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Submission, error) {
		return repository.QueryOne(ctx, tx, q, insertArgs, scanSubmission)
	})

	if err != nil {
		if delErr := r.storage.Delete(ctx, key); delErr != nil {
			r.logger.Warn("compensating blob delete failed", "key", key, "error", delErr)
		}
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("submission created", "id", sub.ID, "title", sub.Title)
	return &sub, nil
}

func (r *repo) Status(ctx context.Context, id uuid.UUID) (*Status, error) {
	sub, err := r.Find(ctx, id)
	if err != nil {
		return nil, err
	}

	if sub.Error != nil {
		return &Status{Status: StatusError, Error: sub.Error}, nil
	}

	if !sub.ProcessingComplete {
		return &Status{Status: StatusProcessing}, nil
	}

	q := `
		SELECT reviewer, decision, summary, transcript, model_name
		FROM reviews
		WHERE submission_id = $1
		ORDER BY reviewer`

	results, err := repository.QueryMany(ctx, r.db, q, []any{id}, scanReviewResult)
	if err != nil {
		return nil, fmt.Errorf("query review results: %w", err)
	}

	return &Status{
		Status:      StatusComplete,
		AllAccepted: sub.AllAccepted,
		Certificate: sub.CertificateKey,
		Results:     results,
	}, nil
}

func (r *repo) Summary(ctx context.Context, id uuid.UUID) (*Summary, error) {
	sub, err := r.Find(ctx, id)
	if err != nil {
		return nil, err
	}

	q := `
		SELECT decision, COUNT(*)
		FROM reviews
		WHERE submission_id = $1
		GROUP BY decision`

	rows, err := r.db.QueryContext(ctx, q, id)
	if err != nil {
		return nil, fmt.Errorf("query decision counts: %w", err)
	}
	defer rows.Close()

	decisions := make(map[string]int)
	for rows.Next() {
		var decision string
		var count int
		if err := rows.Scan(&decision, &count); err != nil {
			return nil, fmt.Errorf("scan decision count: %w", err)
		}
		decisions[decision] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate decision counts: %w", err)
	}

	return &Summary{
		SubmissionID: sub.ID,
		Decisions:    decisions,
		AllAccepted:  sub.AllAccepted,
	}, nil
}

func (r *repo) Document(ctx context.Context, id uuid.UUID) (*Download, error) {
	sub, err := r.Find(ctx, id)
	if err != nil {
		return nil, err
	}

	result, err := r.storage.Download(ctx, sub.StorageKey)
	if err != nil {
		return nil, fmt.Errorf("download submission blob: %w", err)
	}

	return &Download{
		Body:          result.Body,
		ContentType:   result.ContentType,
		ContentLength: result.ContentLength,
		Filename:      sub.Filename,
	}, nil
}

func (r *repo) Certificate(ctx context.Context, id uuid.UUID) (*Download, error) {
	sub, err := r.Find(ctx, id)
	if err != nil {
		return nil, err
	}

	if sub.CertificateKey == nil {
		return nil, ErrNoCertificate
	}

	result, err := r.storage.Download(ctx, *sub.CertificateKey)
	if err != nil {
		return nil, fmt.Errorf("download certificate blob: %w", err)
	}

	return &Download{
		Body:          result.Body,
		ContentType:   result.ContentType,
		ContentLength: result.ContentLength,
		Filename:      fmt.Sprintf("certificate-%s.pdf", sub.ID),
	}, nil
}

func (r *repo) Delete(ctx context.Context, id uuid.UUID) error {
	sub, err := r.Find(ctx, id)
	if err != nil {
		return err
	}

	_, err = repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		if err := repository.ExecExpectOne(
			ctx, tx,
			"DELETE FROM submissions WHERE id = $1",
			id,
		); err != nil {
			return struct{}{}, err
		}
		return struct{}{}, nil
	})

	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	if delErr := r.storage.Delete(ctx, sub.StorageKey); delErr != nil {
		r.logger.Warn(
			"blob delete failed after DB delete",
			"key", sub.StorageKey,
			"error", delErr,
		)
	}

	if sub.CertificateKey != nil {
		if delErr := r.storage.Delete(ctx, *sub.CertificateKey); delErr != nil {
			r.logger.Warn(
				"certificate delete failed after DB delete",
				"key", *sub.CertificateKey,
				"error", delErr,
			)
		}
	}

	r.logger.Info("submission deleted", "id", id)
	return nil
}

func scanReviewResult(s repository.Scanner) (ReviewResult, error) {
	var result ReviewResult
	err := s.Scan(
		&result.Reviewer,
		&result.Decision,
		&result.Summary,
		&result.Transcript,
		&result.Model,
	)
	return result, err
}

func buildStorageKey(id uuid.UUID, filename string) string {
	return fmt.Sprintf("submissions/%s/%s", id, filename)
}

func sanitizeFilename(name string) string {
	name = filepath.Base(name)
	if name == "." || name == "" {
		name = "paper"
	}
	return url.PathEscape(name)
}

func titleFromFilename(filename string) string {
	base := filepath.Base(filename)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	if stem == "" || stem == "." {
		return "Untitled Submission"
	}
	return stem
}
