// Package oracle defines the external reasoning oracle consumed by the
// evaluation arbiter, and an HTTP client for chat-completion style backends.
package oracle

import (
	"context"
	"errors"

	"github.com/audithive/arbiter/internal/domain/finding"
)

// Verdict is the oracle's judgment on whether two findings describe the
// same underlying issue.
type Verdict string

const (
	VerdictSameIssue      Verdict = "same-issue"
	VerdictDifferentIssue Verdict = "different-issue"
	VerdictContested      Verdict = "contested"
)

// ErrUnavailable indicates the oracle could not produce a verdict. Callers
// must treat the finding as deferred, never as validated.
var ErrUnavailable = errors.New("oracle unavailable")

// Oracle is the reasoning service contract. Judge compares two findings;
// Score rates a single finding's quality from 0 to 100. Both are idempotent,
// side-effect-free queries.
type Oracle interface {
	Judge(ctx context.Context, a, b finding.Finding) (Verdict, error)
	Score(ctx context.Context, f finding.Finding) (int, error)
}
