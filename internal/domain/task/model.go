package task

import "time"

// Task is a bounty-funded audit task. The bounty is escrowed on submission
// and refunded in full to the submitter on cancellation.
type Task struct {
	ProjectID   string    `json:"project_id"`
	RepoURL     string    `json:"project_repo"`
	Title       string    `json:"title"`
	Bounty      int64     `json:"bounty"`
	Submitter   string    `json:"submitter"`
	Active      bool      `json:"is_active"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// EventType identifies a registry lifecycle notification.
type EventType string

const (
	EventTaskSubmitted EventType = "TaskSubmitted"
	EventTaskCancelled EventType = "TaskCancelled"
)

// Event is an externally observable registry notification, recorded only
// after its transition fully commits.
type Event struct {
	Type      EventType `json:"type"`
	ProjectID string    `json:"project_id"`
	RepoURL   string    `json:"project_repo,omitempty"`
	Title     string    `json:"title,omitempty"`
	Bounty    int64     `json:"bounty,omitempty"`
	Submitter string    `json:"submitter,omitempty"`
	At        time.Time `json:"at"`
}
