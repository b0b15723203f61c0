package pipeline

import (
	"context"
	"time"

	"github.com/google/uuid"

	"astrasub/internal/jobstore"
	"astrasub/internal/logging"
)

// BatchRequest describes a batch-of-videos run.
type BatchRequest struct {
	Sources []string
	// InterItemDelay is honored between videos, never before the first.
	InterItemDelay time.Duration
}

// VideoOutcome is the per-video result of a batch run.
type VideoOutcome struct {
	Source   string
	Err      error
	CueCount int
}

// BatchReport aggregates a batch run.
type BatchReport struct {
	JobID     string
	Outcomes  []VideoOutcome
	Succeeded int
	Failed    int
}

// RunBatch processes sources strictly sequentially, continuing past
// individual failures. Outcomes are persisted through store when non-nil.
// The returned error is non-nil only when the batch itself could not run
// (context canceled or job persistence unavailable), never for a single
// video's failure.
func (p *Pipeline) RunBatch(ctx context.Context, store *jobstore.Store, req BatchRequest) (*BatchReport, error) {
	report := &BatchReport{JobID: uuid.NewString()}
	logger := p.logger.With(logging.String(logging.FieldJobID, report.JobID))

	if store != nil {
		if _, err := store.CreateJob(ctx, report.JobID); err != nil {
			return nil, err
		}
		if err := store.SetStatus(ctx, report.JobID, jobstore.StatusRunning); err != nil {
			return nil, err
		}
	}

	for i, source := range req.Sources {
		if i > 0 && req.InterItemDelay > 0 {
			select {
			case <-ctx.Done():
				return report, ctx.Err()
			case <-time.After(req.InterItemDelay):
			}
		}
		if err := ctx.Err(); err != nil {
			return report, err
		}

		outcome := VideoOutcome{Source: source}
		result, err := p.Run(ctx, Request{Source: source})
		if err != nil {
			outcome.Err = err
			report.Failed++
			logger.Warn("batch item failed",
				logging.String(logging.FieldVideo, source),
				logging.Error(err),
			)
		} else {
			outcome.CueCount = result.CueCount()
			report.Succeeded++
		}
		report.Outcomes = append(report.Outcomes, outcome)

		if store != nil {
			stored := jobstore.Outcome{
				JobID:    report.JobID,
				Source:   source,
				Success:  outcome.Err == nil,
				CueCount: outcome.CueCount,
			}
			if outcome.Err != nil {
				stored.Error = outcome.Err.Error()
			}
			if err := store.AddOutcome(ctx, stored); err != nil {
				logger.Error("persist batch outcome failed", logging.Error(err))
			}
		}
	}

	if store != nil {
		if err := store.CompleteJob(ctx, report.JobID); err != nil {
			logger.Error("finalize batch job failed", logging.Error(err))
		}
	}
	logger.Info("batch completed",
		logging.String(logging.FieldEventType, "batch_complete"),
		logging.Int("succeeded", report.Succeeded),
		logging.Int("failed", report.Failed),
	)
	return report, nil
}
