package stats

import "time"

// AgentStat is the per-(project, agent) outcome tally. Counts mirror the
// finding set exactly: each is incremented once, when a finding's outcome is
// fixed, in the same transaction that records the outcome.
type AgentStat struct {
	ProjectID           string    `json:"project_id"`
	AgentID             string    `json:"agent_id"`
	UniqueCount         int       `json:"unique_count"`
	DuplicatedCount     int       `json:"duplicated_count"`
	DisputedCount       int       `json:"disputed_count"`
	FirstContributionAt time.Time `json:"first_contribution_at"`
}
