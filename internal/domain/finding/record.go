package finding

import "time"

// Status is the persistence state of a finding. Pending and deferred findings
// have no outcome yet; the remaining statuses are permanent outcomes.
type Status string

const (
	StatusPending    Status = "pending"
	StatusDeferred   Status = "deferred"
	StatusUnique     Status = Status(OutcomeUnique)
	StatusDuplicated Status = Status(OutcomeDuplicated)
	StatusDisputed   Status = Status(OutcomeDisputed)
)

// Status converts an outcome to its persistence state.
func (o Outcome) Status() Status { return Status(o) }

// Final reports whether the status is an immutable outcome.
func (s Status) Final() bool {
	return s == StatusUnique || s == StatusDuplicated || s == StatusDisputed
}

// Record is a finding as stored, with its submission identity and
// classification state. Seq orders findings by acceptance within a project.
type Record struct {
	Seq       int64
	ProjectID string
	AgentID   string
	Finding
	Status    Status
	Detail    string
	CreatedAt time.Time
}
