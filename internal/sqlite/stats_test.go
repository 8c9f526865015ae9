package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/audithive/arbiter/internal/domain/finding"
)

func finalizeNew(t *testing.T, repo *FindingRepository, project, agent, id string, outcome finding.Outcome, at time.Time) {
	t.Helper()
	rec := newRecord(project, agent, id)
	rec.CreatedAt = at
	inserted, err := repo.InsertPending(context.Background(), []*finding.Record{rec})
	require.NoError(t, err)
	require.Len(t, inserted, 1)
	require.NoError(t, repo.Finalize(context.Background(), inserted[0], outcome, ""))
}

func TestLeaderboardOrdering(t *testing.T) {
	db := NewTestDB(t)
	repo := NewFindingRepository(db)
	statsRepo := NewStatsRepository(db)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	// a1: two unique findings, first contribution latest.
	finalizeNew(t, repo, "p1", "a1", "F-1", finding.OutcomeUnique, base.Add(3*time.Hour))
	finalizeNew(t, repo, "p1", "a1", "F-2", finding.OutcomeUnique, base.Add(3*time.Hour))
	// a2: one unique, earlier first contribution.
	finalizeNew(t, repo, "p1", "a2", "F-1", finding.OutcomeUnique, base.Add(time.Hour))
	// a3: one unique, earliest first contribution, so it wins the tie with a2.
	finalizeNew(t, repo, "p1", "a3", "F-1", finding.OutcomeUnique, base)
	// Other project must not leak in.
	finalizeNew(t, repo, "p2", "a9", "F-1", finding.OutcomeUnique, base)

	board, err := statsRepo.Leaderboard(ctx, "p1")
	require.NoError(t, err)
	require.Len(t, board, 3)
	require.Equal(t, "a1", board[0].AgentID)
	require.Equal(t, 2, board[0].UniqueCount)
	require.Equal(t, "a3", board[1].AgentID)
	require.Equal(t, "a2", board[2].AgentID)
}

func TestAllCoversEveryProject(t *testing.T) {
	db := NewTestDB(t)
	repo := NewFindingRepository(db)
	statsRepo := NewStatsRepository(db)
	ctx := context.Background()

	now := time.Now().UTC()
	finalizeNew(t, repo, "p1", "a1", "F-1", finding.OutcomeUnique, now)
	finalizeNew(t, repo, "p1", "a1", "F-2", finding.OutcomeDuplicated, now)
	finalizeNew(t, repo, "p2", "a2", "F-1", finding.OutcomeDisputed, now)

	rows, err := statsRepo.All(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.Equal(t, "p1", rows[0].ProjectID)
	require.Equal(t, 1, rows[0].UniqueCount)
	require.Equal(t, 1, rows[0].DuplicatedCount)
	require.Equal(t, "p2", rows[1].ProjectID)
	require.Equal(t, 1, rows[1].DisputedCount)
}
