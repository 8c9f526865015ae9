package finding

import "fmt"

// ValidationError reports the first malformed field in a raw batch.
// Ordinal is the 1-based position of the offending finding; zero means the
// violation is at the batch level.
type ValidationError struct {
	Field     string
	Ordinal   int
	FindingID string
}

func (e *ValidationError) Error() string {
	if e.Ordinal == 0 {
		return fmt.Sprintf("invalid batch: %s is required", e.Field)
	}
	if e.FindingID != "" {
		return fmt.Sprintf("invalid finding #%d (%s): %s is required", e.Ordinal, e.FindingID, e.Field)
	}
	return fmt.Sprintf("invalid finding #%d: %s is required", e.Ordinal, e.Field)
}
