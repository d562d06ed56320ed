// Package bridge synchronizes block editor state with the multi-step form
// store. It owns the connection lifecycle to the external store, produces
// immutable snapshots of its state, validates them, and fans change events
// out to subscribers.
package bridge

import "context"

// ExternalStore is the single capability every store must provide: a
// synchronous snapshot of its raw state. The returned map is the one
// unknown-shape boundary in the system; everything past it is typed.
//
// The state map must carry a "formValues" key for the bridge to consider the
// store connectable. Step, progress, preview and editor keys are optional
// and coerced with safe fallbacks.
type ExternalStore interface {
	State(ctx context.Context) (map[string]any, error)
}

// Raw state keys the bridge understands.
const (
	KeyFormValues             = "formValues"
	KeyCurrentStep            = "currentStep"
	KeyProgressWidth          = "progressWidth"
	KeyShowPreview            = "showPreview"
	KeyEditorCompletedContent = "editorCompletedContent"
	KeyIsEditorCompleted      = "isEditorCompleted"
)

// ValuesSetter is the bulk form-value update capability.
type ValuesSetter interface {
	SetFormValues(ctx context.Context, values map[string]any) error
}

// ContentUpdater is the typed editor-content update capability. It is the
// canonical path for transformation results.
type ContentUpdater interface {
	UpdateEditorContent(ctx context.Context, content string) error
}

// CompletedSetter is the typed editor-completion update capability. It is
// the canonical path for transformation results.
type CompletedSetter interface {
	SetEditorCompleted(ctx context.Context, completed bool) error
}

// FieldUpdater updates a single named form field.
type FieldUpdater interface {
	UpdateFormValue(ctx context.Context, field string, value any) error
}

// Settler lets a store expose an explicit write-completion signal. Stores
// that apply writes asynchronously implement this so the bridge re-extracts
// only after the write has landed, instead of sleeping an arbitrary delay.
type Settler interface {
	Settle(ctx context.Context) error
}

// NopStore is a null-object store: it reports an empty but well-formed state
// and accepts every write without effect. Useful as a placeholder where a
// concrete store is not wired yet.
type NopStore struct{}

// State returns a minimal connectable state.
func (NopStore) State(context.Context) (map[string]any, error) {
	return map[string]any{KeyFormValues: map[string]any{}}, nil
}

// SetFormValues discards the values.
func (NopStore) SetFormValues(context.Context, map[string]any) error { return nil }

var (
	_ ExternalStore = NopStore{}
	_ ValuesSetter  = NopStore{}
)
