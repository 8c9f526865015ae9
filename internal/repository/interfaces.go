package repository

import (
	"context"

	"github.com/audithive/arbiter/internal/domain/finding"
	"github.com/audithive/arbiter/internal/domain/stats"
)

// FindingRepository manages finding persistence and the paired statistics
// counters.
type FindingRepository interface {
	// InsertPending stores new findings with no outcome and returns only the
	// ones actually inserted. A finding id already recorded for the same
	// (project, agent) is skipped: classifications are immutable and
	// re-submission never reclassifies.
	InsertPending(ctx context.Context, recs []*finding.Record) ([]*finding.Record, error)

	// ListFinalized returns a project's findings with a fixed outcome,
	// ordered by acceptance.
	ListFinalized(ctx context.Context, projectID string) ([]finding.Record, error)

	// ListUnresolved returns a project's findings with no outcome yet, both
	// deferred ones and pending rows stranded by an aborted batch, ordered by
	// acceptance.
	ListUnresolved(ctx context.Context, projectID string) ([]finding.Record, error)

	// ProjectsWithUnresolved lists project ids that have unresolved findings.
	ProjectsWithUnresolved(ctx context.Context) ([]string, error)

	// Finalize assigns the outcome and increments the matching agent counter
	// in one transaction. Fails with ErrAlreadyFinal if the outcome is
	// already fixed.
	Finalize(ctx context.Context, rec *finding.Record, outcome finding.Outcome, detail string) error

	// Defer parks a finding without an outcome for out-of-band retry.
	Defer(ctx context.Context, seq int64, detail string) error
}

// StatsRepository reads the per-(project, agent) counters.
type StatsRepository interface {
	All(ctx context.Context) ([]stats.AgentStat, error)
	Leaderboard(ctx context.Context, projectID string) ([]stats.AgentStat, error)
}
