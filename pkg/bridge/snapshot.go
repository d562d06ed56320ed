package bridge

import (
	"time"

	"github.com/goliatone/go-postwizard/pkg/schema"
)

// Snapshot is an immutable point-in-time copy of bridge-relevant state.
// Each extraction produces a fresh snapshot; an existing one is never
// mutated, only superseded.
type Snapshot struct {
	FormValues             schema.FormValues
	CurrentStep            int
	ProgressWidth          float64
	ShowPreview            bool
	EditorCompletedContent string
	IsEditorCompleted      bool
	Timestamp              time.Time
	Metadata               map[string]string
}

// sameIdentity implements the deliberately coarse change check: two
// snapshots are considered identical when their timestamp and step match.
// This is an identity comparison, not a deep diff.
func (s Snapshot) sameIdentity(other Snapshot) bool {
	return s.Timestamp.Equal(other.Timestamp) && s.CurrentStep == other.CurrentStep
}

// clone returns a copy with its own metadata map so listeners cannot reach
// into the bridge's cached snapshot.
func (s Snapshot) clone() Snapshot {
	out := s
	if s.Metadata != nil {
		out.Metadata = make(map[string]string, len(s.Metadata))
		for key, value := range s.Metadata {
			out.Metadata[key] = value
		}
	}
	return out
}
