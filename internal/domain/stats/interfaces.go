package stats

import "context"

// Repository reads the durable per-agent counters.
type Repository interface {
	All(ctx context.Context) ([]AgentStat, error)
	Leaderboard(ctx context.Context, projectID string) ([]AgentStat, error)
}
