package finding

import "strings"

// Severity is an ordered categorical rating for a finding.
type Severity string

const (
	SeverityLow      Severity = "LOW"
	SeverityMedium   Severity = "MEDIUM"
	SeverityHigh     Severity = "HIGH"
	SeverityCritical Severity = "CRITICAL"
)

// Rank orders known severities; unknown values rank below LOW.
func (s Severity) Rank() int {
	switch Severity(strings.ToUpper(string(s))) {
	case SeverityLow:
		return 1
	case SeverityMedium:
		return 2
	case SeverityHigh:
		return 3
	case SeverityCritical:
		return 4
	default:
		return 0
	}
}

// Equivalent reports whether two severities normalize to the same value.
func (s Severity) Equivalent(other Severity) bool {
	return strings.EqualFold(string(s), string(other))
}

// Outcome is the permanent classification assigned to a finding.
type Outcome string

const (
	OutcomeUnique     Outcome = "unique"
	OutcomeDuplicated Outcome = "duplicated"
	OutcomeDisputed   Outcome = "disputed"
)

// Finding is a single reported issue within a submission batch.
type Finding struct {
	FindingID      string   `json:"finding_id"`
	Description    string   `json:"description"`
	Severity       Severity `json:"severity"`
	Recommendation string   `json:"recommendation"`
	CodeReference  string   `json:"code_reference"`
}

// SubmissionBatch groups findings reported by one agent against one project.
type SubmissionBatch struct {
	ID              string    `json:"id"`
	ProjectID       string    `json:"project_id"`
	ReportedByAgent string    `json:"reported_by_agent"`
	Findings        []Finding `json:"findings"`
}
