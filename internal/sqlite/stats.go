package sqlite

import (
	"context"
	"fmt"

	"github.com/audithive/arbiter/internal/domain/stats"
)

// StatsRepository implements repository.StatsRepository for SQLite
type StatsRepository struct {
	db *DB
}

// NewStatsRepository creates a new StatsRepository
func NewStatsRepository(db *DB) *StatsRepository {
	return &StatsRepository{db: db}
}

// All returns every (project, agent) counter row.
func (r *StatsRepository) All(ctx context.Context) ([]stats.AgentStat, error) {
	query := `
		SELECT project_id, agent_id, unique_count, duplicated_count, disputed_count, first_contribution_at
		FROM agent_stats
		ORDER BY project_id ASC, agent_id ASC
	`
	return r.list(ctx, query)
}

// Leaderboard returns a project's counters ordered by unique findings
// descending, ties broken by earliest first contribution, then agent id for
// a stable total order.
func (r *StatsRepository) Leaderboard(ctx context.Context, projectID string) ([]stats.AgentStat, error) {
	query := `
		SELECT project_id, agent_id, unique_count, duplicated_count, disputed_count, first_contribution_at
		FROM agent_stats
		WHERE project_id = ?
		ORDER BY unique_count DESC, first_contribution_at ASC, agent_id ASC
	`
	return r.list(ctx, query, projectID)
}

func (r *StatsRepository) list(ctx context.Context, query string, args ...any) ([]stats.AgentStat, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list agent stats: %w", err)
	}
	defer rows.Close()

	var out []stats.AgentStat
	for rows.Next() {
		var s stats.AgentStat
		err := rows.Scan(
			&s.ProjectID,
			&s.AgentID,
			&s.UniqueCount,
			&s.DuplicatedCount,
			&s.DisputedCount,
			&s.FirstContributionAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan agent stat: %w", err)
		}
		out = append(out, s)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating agent stat rows: %w", err)
	}

	return out, nil
}
