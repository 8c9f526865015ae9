package finding

import (
	"strings"

	"github.com/google/uuid"
)

// RawBatch is the wire form of a submission before validation.
type RawBatch struct {
	ProjectID       string       `json:"project_id"`
	ReportedByAgent string       `json:"reported_by_agent"`
	Findings        []RawFinding `json:"findings"`
}

// RawFinding is the wire form of a single finding before validation.
type RawFinding struct {
	FindingID      string `json:"finding_id"`
	Description    string `json:"description"`
	Severity       string `json:"severity"`
	Recommendation string `json:"recommendation"`
	CodeReference  string `json:"code_reference"`
}

// ValidateBatch checks a raw batch structurally and produces a SubmissionBatch.
// It fails fast on the first violated field and does not consult the task
// registry; an off-registry project id is a pipeline policy decision.
func ValidateBatch(raw RawBatch) (*SubmissionBatch, error) {
	if strings.TrimSpace(raw.ProjectID) == "" {
		return nil, &ValidationError{Field: "project_id"}
	}
	if strings.TrimSpace(raw.ReportedByAgent) == "" {
		return nil, &ValidationError{Field: "reported_by_agent"}
	}
	if len(raw.Findings) == 0 {
		return nil, &ValidationError{Field: "findings"}
	}

	findings := make([]Finding, 0, len(raw.Findings))
	for i, rf := range raw.Findings {
		ordinal := i + 1
		if field, ok := firstMissingField(rf); ok {
			return nil, &ValidationError{Field: field, Ordinal: ordinal, FindingID: rf.FindingID}
		}
		findings = append(findings, Finding{
			FindingID:      rf.FindingID,
			Description:    rf.Description,
			Severity:       Severity(rf.Severity),
			Recommendation: rf.Recommendation,
			CodeReference:  rf.CodeReference,
		})
	}

	return &SubmissionBatch{
		ID:              uuid.NewString(),
		ProjectID:       raw.ProjectID,
		ReportedByAgent: raw.ReportedByAgent,
		Findings:        findings,
	}, nil
}

func firstMissingField(rf RawFinding) (string, bool) {
	fields := []struct {
		name  string
		value string
	}{
		{"finding_id", rf.FindingID},
		{"description", rf.Description},
		{"severity", rf.Severity},
		{"recommendation", rf.Recommendation},
		{"code_reference", rf.CodeReference},
	}
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			return f.name, true
		}
	}
	return "", false
}
