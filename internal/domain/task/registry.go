// Package task implements the bounty task registry: the ledger-level source
// of truth for audit task lifecycles.
package task

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/audithive/arbiter/internal/ledger"
	"github.com/audithive/arbiter/internal/metrics"
)

// EscrowAccount holds bounties for active tasks.
const EscrowAccount = "task_escrow"

// Registry holds every task ever submitted, in submission order. The ids
// slice and the index map never diverge; ids are never removed, so a
// cancelled task keeps its slot and its id can never be reused.
type Registry struct {
	mu     sync.RWMutex
	ledger *ledger.Ledger
	ids    []string
	tasks  map[string]*Task
	events []Event
	logger *slog.Logger
}

// NewRegistry creates a registry escrowing funds on the given ledger.
func NewRegistry(l *ledger.Ledger, logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		ledger: l,
		tasks:  make(map[string]*Task),
		logger: logger,
	}
}

// SubmitTask creates an active task, escrowing value from the caller. The
// attached value must exactly equal the declared bounty. Every check happens
// before the transfer, and the task record is created only after the
// transfer succeeds, so a failure leaves no observable state.
func (r *Registry) SubmitTask(caller string, value int64, projectID, repoURL, title string, bounty int64) (*Task, error) {
	if strings.TrimSpace(projectID) == "" || strings.TrimSpace(title) == "" || bounty <= 0 {
		return nil, ErrInvalidInput
	}
	if value != bounty {
		return nil, fmt.Errorf("%w: sent %d, declared %d", ErrValueMismatch, value, bounty)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tasks[projectID]; exists {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateProject, projectID)
	}

	if err := r.ledger.Transfer(caller, EscrowAccount, bounty); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLedgerRejected, err)
	}

	now := time.Now()
	t := &Task{
		ProjectID:   projectID,
		RepoURL:     repoURL,
		Title:       title,
		Bounty:      bounty,
		Submitter:   caller,
		Active:      true,
		SubmittedAt: now,
	}
	r.ids = append(r.ids, projectID)
	r.tasks[projectID] = t
	r.emit(Event{
		Type:      EventTaskSubmitted,
		ProjectID: projectID,
		RepoURL:   repoURL,
		Title:     title,
		Bounty:    bounty,
		Submitter: caller,
		At:        now,
	})

	metrics.TasksSubmitted.Inc()
	metrics.EscrowedValue.Set(float64(r.ledger.Balance(EscrowAccount)))

	snapshot := *t
	return &snapshot, nil
}

// CancelTask refunds the full bounty to the submitter and marks the task
// inactive. Only the original submitter may cancel. If the refund transfer
// fails the task stays active and funded; no partial cancellation is
// observable.
func (r *Registry) CancelTask(caller, projectID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, exists := r.tasks[projectID]
	if !exists {
		return fmt.Errorf("%w: %s", ErrNotFound, projectID)
	}
	if !t.Active {
		return fmt.Errorf("%w: %s", ErrNotActive, projectID)
	}
	if t.Submitter != caller {
		return fmt.Errorf("%w: %s", ErrUnauthorized, caller)
	}

	if err := r.ledger.Transfer(EscrowAccount, t.Submitter, t.Bounty); err != nil {
		return fmt.Errorf("%w: %v", ErrLedgerRejected, err)
	}

	t.Active = false
	r.emit(Event{Type: EventTaskCancelled, ProjectID: projectID, At: time.Now()})

	metrics.TasksCancelled.Inc()
	metrics.EscrowedValue.Set(float64(r.ledger.Balance(EscrowAccount)))
	return nil
}

// GetTask returns a snapshot of the task for a project id.
func (r *Registry) GetTask(projectID string) (Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, exists := r.tasks[projectID]
	if !exists {
		return Task{}, fmt.Errorf("%w: %s", ErrNotFound, projectID)
	}
	return *t, nil
}

// AllTasks returns snapshots of every task ever submitted, including
// inactive ones, ordered by submission time.
func (r *Registry) AllTasks() []Task {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Task, 0, len(r.ids))
	for _, id := range r.ids {
		out = append(out, *r.tasks[id])
	}
	return out
}

// HasActiveTask reports whether an active task exists for the project id.
// The ingestion pipeline uses this as its registration gate.
func (r *Registry) HasActiveTask(projectID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, exists := r.tasks[projectID]
	return exists && t.Active
}

// Events returns a copy of the notification journal in emission order.
func (r *Registry) Events() []Event {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

func (r *Registry) emit(ev Event) {
	r.events = append(r.events, ev)
	r.logger.Info(string(ev.Type),
		"project_id", ev.ProjectID, "bounty", ev.Bounty, "submitter", ev.Submitter)
}
