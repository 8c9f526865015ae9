// Package stats exposes the leaderboard projection over per-agent counters.
package stats

import (
	"context"
	"fmt"
	"log/slog"
)

// Service answers statistics queries.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService creates a statistics service.
func NewService(repo Repository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, logger: logger}
}

// All returns every (project, agent) counter row.
func (s *Service) All(ctx context.Context) ([]AgentStat, error) {
	rows, err := s.repo.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing statistics: %w", err)
	}
	return rows, nil
}

// Leaderboard returns a project's agents ordered by unique findings,
// descending, ties broken by earliest first contribution.
func (s *Service) Leaderboard(ctx context.Context, projectID string) ([]AgentStat, error) {
	rows, err := s.repo.Leaderboard(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing leaderboard for %s: %w", projectID, err)
	}
	return rows, nil
}
