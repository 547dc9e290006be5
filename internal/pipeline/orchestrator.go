package pipeline

import (
	"context"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Outcome summarizes a completed review run.
type Outcome struct {
	AllAccepted    bool
	CertificateKey *string
	Records        []Record
}

// Run executes the full reviewer panel against a submission. Each slot
// extracts text, reviews it through a fresh agent, and records the result; a
// failed slot is recorded as an error decision without disturbing the others.
// A certificate is issued only when every slot accepted. Persistence failures
// are logged and never abort the run.
func Run(ctx context.Context, rt *Runtime, sub Subject) *Outcome {
	reviewers := rt.Config.Reviewers
	records := make([]Record, len(reviewers))

	if rt.Config.Parallel {
		g, gctx := errgroup.WithContext(ctx)
		for i, reviewer := range reviewers {
			g.Go(func() error {
				records[i] = runAndRecord(gctx, rt, sub, reviewer)
				return nil
			})
		}
		g.Wait()
	} else {
		for i, reviewer := range reviewers {
			records[i] = runAndRecord(ctx, rt, sub, reviewer)
		}
	}

	allAccepted := len(records) > 0
	for _, record := range records {
		if record.Decision != DecisionAccepted {
			allAccepted = false
			break
		}
	}

	var certificateKey *string
	if allAccepted {
		key, err := rt.Issuer.Issue(ctx, sub.ID, sub.Title)
		if err != nil {
			rt.Logger.Error("certificate issuance failed",
				"submission", sub.ID,
				"error", err,
			)
		} else {
			certificateKey = &key
		}
	}

	if err := rt.Store.CompleteSubmission(ctx, sub.ID, allAccepted, certificateKey); err != nil {
		rt.Logger.Error("failed to mark submission complete",
			"submission", sub.ID,
			"error", err,
		)
	}

	rt.Logger.Info("review run complete",
		"submission", sub.ID,
		"all_accepted", allAccepted,
	)

	return &Outcome{
		AllAccepted:    allAccepted,
		CertificateKey: certificateKey,
		Records:        records,
	}
}

func runAndRecord(ctx context.Context, rt *Runtime, sub Subject, reviewer string) Record {
	record := RunSlot(ctx, rt, sub, reviewer)

	if err := rt.Store.InsertReview(ctx, record); err != nil {
		rt.Logger.Error("failed to record review",
			"submission", sub.ID,
			"reviewer", reviewer,
			"error", err,
		)
	}

	return record
}

// RunSlot executes a single reviewer slot: fresh extraction, a fresh agent at
// the start of the model chain, and classification. Failures produce an error
// record carrying the failure message.
func RunSlot(ctx context.Context, rt *Runtime, sub Subject, reviewer string) Record {
	logger := rt.Logger.With("reviewer", reviewer)

	text, err := rt.Source.Extract(ctx, sub.StorageKey)
	if err != nil {
		logger.Error("text extraction failed",
			"submission", sub.ID,
			"error", err,
		)
		return errorRecord(sub.ID, reviewer, err)
	}

	agent := NewAgent(rt.Client, rt.Config, logger)

	evaluation, err := agent.Review(ctx, text)
	if err != nil {
		logger.Error("review failed",
			"submission", sub.ID,
			"error", err,
		)
		return errorRecord(sub.ID, reviewer, err)
	}

	classification := Classify(evaluation.Text)

	logger.Info("review classified",
		"submission", sub.ID,
		"model", evaluation.Model,
		"decision", classification.Decision,
	)

	return Record{
		SubmissionID: sub.ID,
		Reviewer:     reviewer,
		Decision:     classification.Decision,
		Summary:      classification.Summary,
		Transcript:   classification.Transcript,
		Model:        evaluation.Model,
	}
}

func errorRecord(submissionID uuid.UUID, reviewer string, err error) Record {
	return Record{
		SubmissionID: submissionID,
		Reviewer:     reviewer,
		Decision:     DecisionError,
		Summary:      err.Error(),
		Transcript:   err.Error(),
	}
}
