package oracle

import (
	"context"

	"github.com/audithive/arbiter/internal/domain/finding"
)

// Scripted is an Oracle with canned behavior, for tests and offline use.
// Nil functions default to different-issue verdicts and a perfect score.
type Scripted struct {
	JudgeFn func(a, b finding.Finding) (Verdict, error)
	ScoreFn func(f finding.Finding) (int, error)
}

func (s *Scripted) Judge(_ context.Context, a, b finding.Finding) (Verdict, error) {
	if s.JudgeFn == nil {
		return VerdictDifferentIssue, nil
	}
	return s.JudgeFn(a, b)
}

func (s *Scripted) Score(_ context.Context, f finding.Finding) (int, error) {
	if s.ScoreFn == nil {
		return 100, nil
	}
	return s.ScoreFn(f)
}
