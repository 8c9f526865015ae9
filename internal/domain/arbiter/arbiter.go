// Package arbiter resolves ambiguous similarity groupings by delegating to
// the external reasoning oracle and maps verdicts onto outcomes.
package arbiter

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/audithive/arbiter/internal/domain/dedup"
	"github.com/audithive/arbiter/internal/domain/finding"
	"github.com/audithive/arbiter/internal/oracle"
)

// DefaultQualityThreshold is the minimum oracle validity score for a unique
// finding to stand; lower scores reclassify it as disputed.
const DefaultQualityThreshold = 60

// Resolution is the arbiter's answer for one finding. A deferred resolution
// carries no outcome: the finding must stay out of every statistic until a
// later retry resolves it.
type Resolution struct {
	Outcome  finding.Outcome
	Detail   string
	Deferred bool
}

// Arbiter turns dedup decisions into outcomes.
type Arbiter struct {
	oracle           oracle.Oracle
	qualityThreshold int
	maxParallel      int
	logger           *slog.Logger
}

// New creates an arbiter. A non-positive quality threshold falls back to the
// default.
func New(o oracle.Oracle, qualityThreshold int, logger *slog.Logger) *Arbiter {
	if qualityThreshold <= 0 {
		qualityThreshold = DefaultQualityThreshold
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Arbiter{
		oracle:           o,
		qualityThreshold: qualityThreshold,
		maxParallel:      4,
		logger:           logger,
	}
}

// Resolve assigns an outcome to f given the dedup engine's decision.
// Ambiguous candidate pairs are judged by the oracle concurrently; the
// verdicts are then folded in candidate order so the result is deterministic
// for a given set of verdicts.
func (a *Arbiter) Resolve(ctx context.Context, f finding.Finding, decision dedup.Decision) Resolution {
	switch decision.Regime {
	case dedup.RegimeNovel:
		return Resolution{Outcome: finding.OutcomeUnique}
	case dedup.RegimeDuplicate:
		return Resolution{
			Outcome: finding.OutcomeDuplicated,
			Detail:  fmt.Sprintf("Duplicate of %s", decision.MatchedID),
		}
	}

	verdicts := make([]oracle.Verdict, len(decision.Candidates))
	errs := make([]error, len(decision.Candidates))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.maxParallel)
	for i, cand := range decision.Candidates {
		g.Go(func() error {
			verdicts[i], errs[i] = a.oracle.Judge(gctx, f, cand.Prior)
			return nil
		})
	}
	_ = g.Wait()

	// A same-issue verdict settles the matter even if other pairs failed.
	for i, v := range verdicts {
		if errs[i] == nil && v == oracle.VerdictSameIssue {
			return Resolution{
				Outcome: finding.OutcomeDuplicated,
				Detail:  fmt.Sprintf("Duplicate of %s", decision.Candidates[i].Prior.FindingID),
			}
		}
	}

	// Without a duplicate verdict, any failed pair leaves the question open.
	// Defaulting to unique here would let an unchecked finding count as
	// validated, so the finding is deferred instead.
	for i, err := range errs {
		if err != nil {
			a.logger.Warn("oracle judgment failed, deferring finding",
				"finding_id", f.FindingID,
				"against", decision.Candidates[i].Prior.FindingID,
				"error", err)
			return Resolution{Deferred: true, Detail: "awaiting oracle verdict"}
		}
	}

	for i, v := range verdicts {
		if v == oracle.VerdictContested {
			return Resolution{
				Outcome: finding.OutcomeDisputed,
				Detail:  fmt.Sprintf("Contested against %s", decision.Candidates[i].Prior.FindingID),
			}
		}
	}

	return Resolution{Outcome: finding.OutcomeUnique}
}

// EvaluateQuality scores a tentatively unique finding and reclassifies it as
// disputed when the validity score falls below the threshold. An oracle
// failure here accepts the finding: a quality-gate outage must not hold up
// otherwise-unique findings.
func (a *Arbiter) EvaluateQuality(ctx context.Context, f finding.Finding) Resolution {
	score, err := a.oracle.Score(ctx, f)
	if err != nil {
		a.logger.Warn("quality evaluation unavailable, accepting finding",
			"finding_id", f.FindingID, "error", err)
		return Resolution{Outcome: finding.OutcomeUnique}
	}

	if score < a.qualityThreshold {
		return Resolution{
			Outcome: finding.OutcomeDisputed,
			Detail:  fmt.Sprintf("Validity score: %d", score),
		}
	}
	return Resolution{Outcome: finding.OutcomeUnique}
}
