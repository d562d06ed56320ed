package bridge

import (
	"fmt"

	"github.com/goliatone/go-postwizard/pkg/schema"
)

// ReadyThreshold is the weighted completion percentage at which an extracted
// snapshot is considered ready for transfer.
const ReadyThreshold = 70.0

// ValidationResult combines the structural and completeness checks run
// against an extracted snapshot. Errors block a transfer; warnings do not.
type ValidationResult struct {
	Valid             bool
	Errors            []string
	Warnings          []string
	CompletionPercent float64
	Ready             bool
}

// ValidateSnapshot checks a snapshot's structure (step range, timestamp) and
// scores its field completeness against the registry weights. Required
// fields dominate the score; optional, array and boolean fields contribute a
// fixed small share. A score at or above ReadyThreshold marks the snapshot
// ready; a lower score is a warning, not an error.
func ValidateSnapshot(registry *schema.Registry, snapshot Snapshot) ValidationResult {
	result := ValidationResult{Valid: true}
	if registry == nil {
		registry = schema.NewRegistry()
	}

	if snapshot.CurrentStep < 1 || snapshot.CurrentStep > 5 {
		result.Errors = append(result.Errors,
			fmt.Sprintf("current step %d outside valid range 1..5", snapshot.CurrentStep))
	}
	if snapshot.Timestamp.IsZero() {
		result.Errors = append(result.Errors, "snapshot timestamp is not set")
	}

	result.CompletionPercent = registry.CompletionPercent(snapshot.FormValues)
	if result.CompletionPercent >= ReadyThreshold {
		result.Ready = true
	} else {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("completion %.1f%% below the %.0f%% transfer threshold", result.CompletionPercent, ReadyThreshold))
	}

	if len(result.Errors) > 0 {
		result.Valid = false
		result.Ready = false
	}
	return result
}
