// Package mocks provides testify mocks for the repository interfaces.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/audithive/arbiter/internal/domain/finding"
	"github.com/audithive/arbiter/internal/domain/stats"
)

// FindingRepository is a mock for repository.FindingRepository.
type FindingRepository struct {
	mock.Mock
}

func (m *FindingRepository) InsertPending(ctx context.Context, recs []*finding.Record) ([]*finding.Record, error) {
	args := m.Called(ctx, recs)
	if out, ok := args.Get(0).([]*finding.Record); ok {
		return out, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *FindingRepository) ListFinalized(ctx context.Context, projectID string) ([]finding.Record, error) {
	args := m.Called(ctx, projectID)
	if out, ok := args.Get(0).([]finding.Record); ok {
		return out, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *FindingRepository) ListUnresolved(ctx context.Context, projectID string) ([]finding.Record, error) {
	args := m.Called(ctx, projectID)
	if out, ok := args.Get(0).([]finding.Record); ok {
		return out, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *FindingRepository) ProjectsWithUnresolved(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if out, ok := args.Get(0).([]string); ok {
		return out, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *FindingRepository) Finalize(ctx context.Context, rec *finding.Record, outcome finding.Outcome, detail string) error {
	args := m.Called(ctx, rec, outcome, detail)
	return args.Error(0)
}

func (m *FindingRepository) Defer(ctx context.Context, seq int64, detail string) error {
	args := m.Called(ctx, seq, detail)
	return args.Error(0)
}

// StatsRepository is a mock for repository.StatsRepository.
type StatsRepository struct {
	mock.Mock
}

func (m *StatsRepository) All(ctx context.Context) ([]stats.AgentStat, error) {
	args := m.Called(ctx)
	if out, ok := args.Get(0).([]stats.AgentStat); ok {
		return out, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *StatsRepository) Leaderboard(ctx context.Context, projectID string) ([]stats.AgentStat, error) {
	args := m.Called(ctx, projectID)
	if out, ok := args.Get(0).([]stats.AgentStat); ok {
		return out, args.Error(1)
	}
	return nil, args.Error(1)
}
