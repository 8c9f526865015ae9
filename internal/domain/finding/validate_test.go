package finding_test

import (
	"testing"

	"github.com/audithive/arbiter/internal/domain/finding"
	"github.com/stretchr/testify/require"
)

func validRaw() finding.RawBatch {
	return finding.RawBatch{
		ProjectID:       "proj1",
		ReportedByAgent: "agent1",
		Findings: []finding.RawFinding{
			{
				FindingID:      "F-1",
				Description:    "Reentrancy in withdraw",
				Severity:       "HIGH",
				Recommendation: "Use checks-effects-interactions",
				CodeReference:  "contracts/Vault.sol:42",
			},
		},
	}
}

func TestValidateBatch(t *testing.T) {
	batch, err := finding.ValidateBatch(validRaw())
	require.NoError(t, err)
	require.NotEmpty(t, batch.ID)
	require.Equal(t, "proj1", batch.ProjectID)
	require.Equal(t, "agent1", batch.ReportedByAgent)
	require.Len(t, batch.Findings, 1)
	require.Equal(t, finding.SeverityHigh, batch.Findings[0].Severity)
}

func TestValidateBatchMissingProjectID(t *testing.T) {
	raw := validRaw()
	raw.ProjectID = "  "
	_, err := finding.ValidateBatch(raw)
	var verr *finding.ValidationError
	require.ErrorAs(t, err, &verr)
	require.Equal(t, "project_id", verr.Field)
	require.Equal(t, 0, verr.Ordinal)
}

func TestValidateBatchMissingAgent(t *testing.T) {
	raw := validRaw()
	raw.ReportedByAgent = ""
	_, err := finding.ValidateBatch(raw)
	var verr *finding.ValidationError
	require.ErrorAs(t, err, &verr)
	require.Equal(t, "reported_by_agent", verr.Field)
}

func TestValidateBatchEmptyFindings(t *testing.T) {
	raw := validRaw()
	raw.Findings = nil
	_, err := finding.ValidateBatch(raw)
	var verr *finding.ValidationError
	require.ErrorAs(t, err, &verr)
	require.Equal(t, "findings", verr.Field)
}

func TestValidateBatchNamesOrdinalAndField(t *testing.T) {
	raw := validRaw()
	raw.Findings = append(raw.Findings, finding.RawFinding{
		FindingID:     "F-2",
		Description:   "Integer overflow",
		Severity:      "LOW",
		CodeReference: "contracts/Math.sol:10",
		// recommendation missing
	})
	_, err := finding.ValidateBatch(raw)
	var verr *finding.ValidationError
	require.ErrorAs(t, err, &verr)
	require.Equal(t, 2, verr.Ordinal)
	require.Equal(t, "recommendation", verr.Field)
	require.Equal(t, "F-2", verr.FindingID)
	require.Contains(t, verr.Error(), "#2")
}

func TestValidateBatchFailsFastOnFirstViolation(t *testing.T) {
	raw := validRaw()
	raw.Findings[0].Description = ""
	raw.Findings[0].Severity = ""
	_, err := finding.ValidateBatch(raw)
	var verr *finding.ValidationError
	require.ErrorAs(t, err, &verr)
	require.Equal(t, "description", verr.Field)
	require.Equal(t, 1, verr.Ordinal)
}

func TestSeverityRankOrdering(t *testing.T) {
	require.Less(t, finding.SeverityLow.Rank(), finding.SeverityMedium.Rank())
	require.Less(t, finding.SeverityMedium.Rank(), finding.SeverityHigh.Rank())
	require.Less(t, finding.SeverityHigh.Rank(), finding.SeverityCritical.Rank())
	require.Equal(t, 0, finding.Severity("bogus").Rank())
	require.True(t, finding.Severity("high").Equivalent(finding.SeverityHigh))
}
