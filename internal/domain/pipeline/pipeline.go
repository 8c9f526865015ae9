// Package pipeline orchestrates findings ingestion: validation,
// deduplication, arbitration, and the transactional outcome/counter writes.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/audithive/arbiter/internal/domain/arbiter"
	"github.com/audithive/arbiter/internal/domain/dedup"
	"github.com/audithive/arbiter/internal/domain/finding"
	"github.com/audithive/arbiter/internal/metrics"
	"github.com/audithive/arbiter/internal/repository"
)

// ErrUnknownProject indicates the batch references a project id with no
// active task in the registry. Whether that rejects the batch is a policy
// decision made at construction, never implicitly.
var ErrUnknownProject = errors.New("no active task for project")

// TaskDirectory answers whether a project id has an active bounty task.
type TaskDirectory interface {
	HasActiveTask(projectID string) bool
}

// Result reports batch-local counts. Only findings with a definitive
// outcome appear in the three outcome counts; deferred findings are tracked
// separately and excluded from statistics.
type Result struct {
	Unique     int `json:"unique"`
	Duplicated int `json:"duplicated"`
	Disputed   int `json:"disputed"`
	Deferred   int `json:"-"`
}

// Service runs submission batches through the pipeline.
type Service struct {
	repo      repository.FindingRepository
	engine    *dedup.Engine
	arbiter   *arbiter.Arbiter
	directory TaskDirectory // nil disables the registration gate
	locks     *projectLocks
	logger    *slog.Logger
}

// NewService creates the pipeline service. Passing a nil directory accepts
// batches for any project id.
func NewService(repo repository.FindingRepository, engine *dedup.Engine, arb *arbiter.Arbiter, directory TaskDirectory, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repo:      repo,
		engine:    engine,
		arbiter:   arb,
		directory: directory,
		locks:     newProjectLocks(),
		logger:    logger,
	}
}

// ProcessBatch validates a raw batch and classifies every finding in
// submission order, holding the project's critical section throughout.
func (s *Service) ProcessBatch(ctx context.Context, raw finding.RawBatch) (*Result, error) {
	batch, err := finding.ValidateBatch(raw)
	if err != nil {
		return nil, err
	}

	if s.directory != nil && !s.directory.HasActiveTask(batch.ProjectID) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownProject, batch.ProjectID)
	}

	started := time.Now()
	unlock := s.locks.Acquire(batch.ProjectID)
	defer unlock()

	s.logger.Info("processing batch",
		"batch_id", batch.ID,
		"project_id", batch.ProjectID,
		"agent", batch.ReportedByAgent,
		"findings", len(batch.Findings))

	recs := make([]*finding.Record, 0, len(batch.Findings))
	now := time.Now().UTC()
	for _, f := range batch.Findings {
		recs = append(recs, &finding.Record{
			ProjectID: batch.ProjectID,
			AgentID:   batch.ReportedByAgent,
			Finding:   f,
			CreatedAt: now,
		})
	}

	inserted, err := s.repo.InsertPending(ctx, recs)
	if err != nil {
		return nil, fmt.Errorf("storing batch %s: %w", batch.ID, err)
	}

	history, err := s.history(ctx, batch.ProjectID)
	if err != nil {
		return nil, err
	}

	result, err := s.classify(ctx, inserted, history)
	if err != nil {
		return nil, err
	}

	metrics.BatchesProcessed.Inc()
	metrics.BatchLatency.Observe(time.Since(started).Seconds())
	s.logger.Info("batch processed",
		"batch_id", batch.ID,
		"unique", result.Unique,
		"duplicated", result.Duplicated,
		"disputed", result.Disputed,
		"deferred", result.Deferred)
	return result, nil
}

// RetryDeferred re-runs classification for a project's unresolved findings:
// deferred ones and pending rows left behind by a batch that aborted on a
// storage error. Findings whose oracle verdict is still unavailable stay
// deferred.
func (s *Service) RetryDeferred(ctx context.Context, projectID string) (*Result, error) {
	unlock := s.locks.Acquire(projectID)
	defer unlock()

	deferred, err := s.repo.ListUnresolved(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing unresolved findings for %s: %w", projectID, err)
	}
	if len(deferred) == 0 {
		return &Result{}, nil
	}

	history, err := s.history(ctx, projectID)
	if err != nil {
		return nil, err
	}

	recs := make([]*finding.Record, len(deferred))
	for i := range deferred {
		recs[i] = &deferred[i]
	}
	return s.classify(ctx, recs, history)
}

// SweepDeferred retries every project that has unresolved findings. Intended
// for a periodic background loop.
func (s *Service) SweepDeferred(ctx context.Context) {
	projects, err := s.repo.ProjectsWithUnresolved(ctx)
	if err != nil {
		s.logger.Error("listing projects with unresolved findings", "error", err)
		return
	}
	for _, projectID := range projects {
		result, err := s.RetryDeferred(ctx, projectID)
		if err != nil {
			s.logger.Error("retrying deferred findings", "project_id", projectID, "error", err)
			continue
		}
		if resolved := result.Unique + result.Duplicated + result.Disputed; resolved > 0 {
			s.logger.Info("resolved deferred findings",
				"project_id", projectID, "resolved", resolved, "still_deferred", result.Deferred)
		}
	}
}

// classify fixes an outcome for each record in order. Each finalized record
// joins the comparison history immediately, so a later finding in the same
// batch can duplicate an earlier one.
func (s *Service) classify(ctx context.Context, recs []*finding.Record, history []finding.Finding) (*Result, error) {
	result := &Result{}

	for _, rec := range recs {
		decision := s.engine.Classify(rec.Finding, history)
		res := s.arbiter.Resolve(ctx, rec.Finding, decision)

		if !res.Deferred && res.Outcome == finding.OutcomeUnique {
			res = s.arbiter.EvaluateQuality(ctx, rec.Finding)
		}

		if res.Deferred {
			if err := s.repo.Defer(ctx, rec.Seq, res.Detail); err != nil {
				return nil, fmt.Errorf("deferring finding %s: %w", rec.FindingID, err)
			}
			metrics.FindingsDeferred.Inc()
			result.Deferred++
			continue
		}

		if err := s.repo.Finalize(ctx, rec, res.Outcome, res.Detail); err != nil {
			return nil, fmt.Errorf("finalizing finding %s: %w", rec.FindingID, err)
		}
		metrics.FindingsClassified.WithLabelValues(string(res.Outcome)).Inc()

		switch res.Outcome {
		case finding.OutcomeUnique:
			result.Unique++
		case finding.OutcomeDuplicated:
			result.Duplicated++
		case finding.OutcomeDisputed:
			result.Disputed++
		}

		history = append(history, rec.Finding)
	}

	return result, nil
}

func (s *Service) history(ctx context.Context, projectID string) ([]finding.Finding, error) {
	prior, err := s.repo.ListFinalized(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("loading history for %s: %w", projectID, err)
	}
	history := make([]finding.Finding, 0, len(prior))
	for _, rec := range prior {
		history = append(history, rec.Finding)
	}
	return history, nil
}
