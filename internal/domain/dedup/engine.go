// Package dedup decides whether an incoming finding repeats an issue
// already on record for the same project.
package dedup

import (
	"log/slog"
	"sort"

	"github.com/audithive/arbiter/internal/domain/finding"
)

// Default similarity thresholds. At or above High with matching severity the
// finding is a clear duplicate; below Low against every candidate it is
// clearly novel; anything between lands in the gray band.
const (
	DefaultLowThreshold  = 40.0
	DefaultHighThreshold = 85.0
)

// Regime is the dedup engine's verdict class for one finding.
type Regime int

const (
	// RegimeNovel means no candidate resembles the finding.
	RegimeNovel Regime = iota
	// RegimeDuplicate means exactly one prior finding clearly matches.
	RegimeDuplicate
	// RegimeAmbiguous means clustering was inconclusive; the evaluation
	// arbiter must resolve the candidates.
	RegimeAmbiguous
)

// Candidate is a prior finding that resembles the one under classification.
type Candidate struct {
	Prior finding.Finding
	Score float64
}

// Decision is the engine's output for one finding.
type Decision struct {
	Regime     Regime
	MatchedID  string      // finding_id of the matched prior, duplicate regime only
	Candidates []Candidate // gray-band candidates, ambiguous regime only
}

// Engine compares findings against a project's accepted history.
type Engine struct {
	low    float64
	high   float64
	logger *slog.Logger
}

// NewEngine creates a dedup engine. Non-positive thresholds fall back to the
// defaults.
func NewEngine(low, high float64, logger *slog.Logger) *Engine {
	if low <= 0 {
		low = DefaultLowThreshold
	}
	if high <= 0 {
		high = DefaultHighThreshold
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{low: low, high: high, logger: logger}
}

// Classify compares f against every candidate in history, in order. History
// must contain the project's previously accepted findings followed by the
// already-fixed findings of the current batch, so intra-batch duplicates
// resolve in submission order.
func (e *Engine) Classify(f finding.Finding, history []finding.Finding) Decision {
	var candidates []Candidate

	for _, prior := range history {
		score := Similarity(f, prior)

		if score >= e.high {
			if f.Severity.Equivalent(prior.Severity) {
				// First clear match wins; the original classification of the
				// matched-against finding stands untouched.
				return Decision{Regime: RegimeDuplicate, MatchedID: prior.FindingID}
			}
			// Same issue text but contradictory severity is a conflicting
			// signal, not a clear duplicate.
			candidates = append(candidates, Candidate{Prior: prior, Score: score})
			continue
		}

		if score >= e.low || sameCodeReference(f, prior) {
			candidates = append(candidates, Candidate{Prior: prior, Score: score})
		}
	}

	if len(candidates) == 0 {
		return Decision{Regime: RegimeNovel}
	}

	// Strongest signal first; stable so equal scores keep history order.
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})

	e.logger.Debug("ambiguous similarity grouping",
		"finding_id", f.FindingID, "candidates", len(candidates))
	return Decision{Regime: RegimeAmbiguous, Candidates: candidates}
}
