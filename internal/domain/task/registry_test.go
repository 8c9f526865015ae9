package task_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/audithive/arbiter/internal/domain/task"
	"github.com/audithive/arbiter/internal/ledger"
)

func newFunded(t *testing.T, account string, amount int64) (*ledger.Ledger, *task.Registry) {
	t.Helper()
	l := ledger.New()
	require.NoError(t, l.Mint(account, amount))
	return l, task.NewRegistry(l, nil)
}

func TestSubmitTask(t *testing.T) {
	l, r := newFunded(t, "alice", 100)

	created, err := r.SubmitTask("alice", 10, "AD1", "https://example.com/repo", "Audit AD1", 10)
	require.NoError(t, err)
	require.True(t, created.Active)
	require.Equal(t, "alice", created.Submitter)
	require.Equal(t, int64(90), l.Balance("alice"))
	require.Equal(t, int64(10), l.Balance(task.EscrowAccount))

	got, err := r.GetTask("AD1")
	require.NoError(t, err)
	require.True(t, got.Active)
	require.Equal(t, int64(10), got.Bounty)

	events := r.Events()
	require.Len(t, events, 1)
	require.Equal(t, task.EventTaskSubmitted, events[0].Type)
	require.Equal(t, "AD1", events[0].ProjectID)
}

func TestSubmitTaskInvalidInput(t *testing.T) {
	_, r := newFunded(t, "alice", 100)

	_, err := r.SubmitTask("alice", 10, "", "repo", "title", 10)
	require.ErrorIs(t, err, task.ErrInvalidInput)

	_, err = r.SubmitTask("alice", 10, "AD1", "repo", "", 10)
	require.ErrorIs(t, err, task.ErrInvalidInput)

	_, err = r.SubmitTask("alice", 0, "AD1", "repo", "title", 0)
	require.ErrorIs(t, err, task.ErrInvalidInput)
}

func TestSubmitTaskValueMismatchLeavesNoRecord(t *testing.T) {
	l, r := newFunded(t, "alice", 100)

	_, err := r.SubmitTask("alice", 9, "AD1", "repo", "title", 10)
	require.ErrorIs(t, err, task.ErrValueMismatch)
	require.Equal(t, int64(100), l.Balance("alice"))

	_, err = r.GetTask("AD1")
	require.ErrorIs(t, err, task.ErrNotFound)
	require.Empty(t, r.Events())
}

func TestSubmitTaskDuplicateProjectID(t *testing.T) {
	_, r := newFunded(t, "alice", 100)

	_, err := r.SubmitTask("alice", 10, "AD1", "repo", "title", 10)
	require.NoError(t, err)

	_, err = r.SubmitTask("alice", 10, "AD1", "repo", "title", 10)
	require.ErrorIs(t, err, task.ErrDuplicateProject)
}

func TestSubmitTaskInsufficientFundsRollsBack(t *testing.T) {
	l, r := newFunded(t, "alice", 5)

	_, err := r.SubmitTask("alice", 10, "AD1", "repo", "title", 10)
	require.ErrorIs(t, err, task.ErrLedgerRejected)
	require.Equal(t, int64(5), l.Balance("alice"))
	_, err = r.GetTask("AD1")
	require.ErrorIs(t, err, task.ErrNotFound)
}

func TestCancelTaskRefundsInFull(t *testing.T) {
	l, r := newFunded(t, "alice", 100)

	_, err := r.SubmitTask("alice", 10, "AD1", "repo", "title", 10)
	require.NoError(t, err)

	require.NoError(t, r.CancelTask("alice", "AD1"))
	require.Equal(t, int64(100), l.Balance("alice"))
	require.Equal(t, int64(0), l.Balance(task.EscrowAccount))

	got, err := r.GetTask("AD1")
	require.NoError(t, err)
	require.False(t, got.Active)
	// Descriptive fields survive cancellation untouched.
	require.Equal(t, "title", got.Title)
	require.Equal(t, "repo", got.RepoURL)
	require.Equal(t, int64(10), got.Bounty)
	require.Equal(t, "alice", got.Submitter)
}

func TestCancelTaskUnauthorized(t *testing.T) {
	l, r := newFunded(t, "alice", 100)

	_, err := r.SubmitTask("alice", 10, "AD1", "repo", "title", 10)
	require.NoError(t, err)

	err = r.CancelTask("mallory", "AD1")
	require.ErrorIs(t, err, task.ErrUnauthorized)
	require.Equal(t, int64(10), l.Balance(task.EscrowAccount))
}

func TestCancelTaskNotFound(t *testing.T) {
	_, r := newFunded(t, "alice", 100)
	require.ErrorIs(t, r.CancelTask("alice", "nope"), task.ErrNotFound)
}

func TestCancelTaskAlreadyInactive(t *testing.T) {
	l, r := newFunded(t, "alice", 100)

	_, err := r.SubmitTask("alice", 10, "AD1", "repo", "title", 10)
	require.NoError(t, err)
	require.NoError(t, r.CancelTask("alice", "AD1"))

	balance := l.Balance("alice")
	err = r.CancelTask("alice", "AD1")
	require.ErrorIs(t, err, task.ErrNotActive)
	require.Equal(t, balance, l.Balance("alice"))
}

func TestAllTasksKeepsSubmissionOrder(t *testing.T) {
	_, r := newFunded(t, "alice", 100)

	for _, id := range []string{"AD1", "AD2", "AD3"} {
		_, err := r.SubmitTask("alice", 10, id, "repo", "Audit "+id, 10)
		require.NoError(t, err)
	}
	require.NoError(t, r.CancelTask("alice", "AD2"))

	all := r.AllTasks()
	require.Len(t, all, 3)
	require.Equal(t, "AD1", all[0].ProjectID)
	require.Equal(t, "AD2", all[1].ProjectID)
	require.Equal(t, "AD3", all[2].ProjectID)
	require.True(t, all[0].Active)
	require.False(t, all[1].Active)
	require.True(t, all[2].Active)
}

func TestHasActiveTask(t *testing.T) {
	_, r := newFunded(t, "alice", 100)
	require.False(t, r.HasActiveTask("AD1"))

	_, err := r.SubmitTask("alice", 10, "AD1", "repo", "title", 10)
	require.NoError(t, err)
	require.True(t, r.HasActiveTask("AD1"))

	require.NoError(t, r.CancelTask("alice", "AD1"))
	require.False(t, r.HasActiveTask("AD1"))
}
