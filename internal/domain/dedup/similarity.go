package dedup

import (
	"strings"

	"github.com/audithive/arbiter/internal/domain/finding"
)

// Similarity scores two findings from 0 to 100 using only their textual
// content. It is deterministic: identical inputs always produce the same
// score. Descriptions carry 70% of the weight, code references 30%.
func Similarity(a, b finding.Finding) float64 {
	descA := strings.ToLower(strings.TrimSpace(a.Description))
	descB := strings.ToLower(strings.TrimSpace(b.Description))
	codeA := strings.ToLower(strings.TrimSpace(a.CodeReference))
	codeB := strings.ToLower(strings.TrimSpace(b.CodeReference))

	if descA == descB && codeA == codeB {
		return 100
	}

	var descScore float64
	switch {
	case descA == descB:
		descScore = 100
	case strings.Contains(descA, descB) || strings.Contains(descB, descA):
		descScore = 80
	default:
		descScore = diceCoefficient(descA, descB) * 100
	}

	var codeScore float64
	if codeA == codeB {
		codeScore = 100
	}

	return 0.7*descScore + 0.3*codeScore
}

// diceCoefficient measures word-set overlap between two strings.
func diceCoefficient(a, b string) float64 {
	wordsA := wordSet(a)
	wordsB := wordSet(b)
	if len(wordsA) == 0 || len(wordsB) == 0 {
		return 0
	}

	common := 0
	for w := range wordsA {
		if _, ok := wordsB[w]; ok {
			common++
		}
	}
	if common == 0 {
		return 0
	}
	return 2 * float64(common) / float64(len(wordsA)+len(wordsB))
}

func wordSet(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, w := range strings.Fields(s) {
		set[w] = struct{}{}
	}
	return set
}

// sameCodeReference reports whether two findings point at the same location.
func sameCodeReference(a, b finding.Finding) bool {
	return strings.EqualFold(strings.TrimSpace(a.CodeReference), strings.TrimSpace(b.CodeReference))
}
