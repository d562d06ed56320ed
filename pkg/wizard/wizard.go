// Package wizard orchestrates the blog post authoring flow: it owns the
// canonical form values, walks the five steps, drives the editor document
// and its markdown transfer, and persists drafts between sessions.
package wizard

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/goliatone/go-postwizard/pkg/bridge"
	"github.com/goliatone/go-postwizard/pkg/draft"
	"github.com/goliatone/go-postwizard/pkg/editor"
	"github.com/goliatone/go-postwizard/pkg/formcache"
	"github.com/goliatone/go-postwizard/pkg/markdown"
	"github.com/goliatone/go-postwizard/pkg/schema"
	"github.com/goliatone/go-postwizard/pkg/steps"
)

const defaultSubmitDelay = time.Second

// Notification is a user-facing toast raised by wizard operations. Color is
// one of the Color constants below.
type Notification struct {
	Title       string
	Description string
	Color       string
}

// Toast colors the notification surface understands.
const (
	ColorSuccess = "success"
	ColorDanger  = "danger"
	ColorWarning = "warning"
)

// Notifier receives wizard notifications.
type Notifier interface {
	Notify(notification Notification)
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(Notification)

// Notify calls the wrapped function.
func (f NotifierFunc) Notify(notification Notification) { f(notification) }

type nopNotifier struct{}

func (nopNotifier) Notify(Notification) {}

// Progress describes where the user is in the flow.
type Progress struct {
	Step      int
	StepCount int
	// Width is the progress bar percentage derived from the step position.
	Width float64
	// CompletionPercent is the weighted form completion score.
	CompletionPercent float64
}

// TransferResult reports an editor-to-form transfer.
type TransferResult struct {
	Content       string
	PushedToStore bool
	Warnings      []string
}

// SubmitResult reports a submission attempt.
type SubmitResult struct {
	Success         bool
	IncompleteSteps []int
	Error           string
}

// Option customises wizard construction.
type Option func(*Wizard)

// WithRegistry overrides the field registry.
func WithRegistry(registry *schema.Registry) Option {
	return func(w *Wizard) {
		if registry != nil {
			w.registry = registry
		}
	}
}

// WithEngine overrides the step validation engine.
func WithEngine(engine *steps.Engine) Option {
	return func(w *Wizard) {
		if engine != nil {
			w.engine = engine
		}
	}
}

// WithBridge attaches an editor/form bridge. Without one, transfers stay
// local to the wizard's own values.
func WithBridge(b *bridge.Bridge) Option {
	return func(w *Wizard) {
		w.bridge = b
	}
}

// WithDraftStore attaches draft persistence.
func WithDraftStore(store draft.Store) Option {
	return func(w *Wizard) {
		w.drafts = store
	}
}

// WithCache overrides the form value cache.
func WithCache(cache *formcache.Cache) Option {
	return func(w *Wizard) {
		if cache != nil {
			w.cache = cache
		}
	}
}

// WithNotifier attaches a notification sink.
func WithNotifier(notifier Notifier) Option {
	return func(w *Wizard) {
		if notifier != nil {
			w.notifier = notifier
		}
	}
}

// WithLogger overrides the diagnostic logger.
func WithLogger(logger *slog.Logger) Option {
	return func(w *Wizard) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// WithSubmitDelay overrides the simulated submission latency. Zero disables
// the wait.
func WithSubmitDelay(delay time.Duration) Option {
	return func(w *Wizard) {
		if delay >= 0 {
			w.submitDelay = delay
		}
	}
}

// Wizard is the authoring flow orchestrator. It is safe for concurrent use;
// the editor document it owns must be driven from one goroutine at a time.
type Wizard struct {
	registry    *schema.Registry
	engine      *steps.Engine
	bridge      *bridge.Bridge
	drafts      draft.Store
	cache       *formcache.Cache
	document    *editor.Document
	notifier    Notifier
	logger      *slog.Logger
	submitDelay time.Duration

	mu     sync.Mutex
	values schema.FormValues
	step   int
}

// New builds a wizard positioned on step one with defaulted values.
func New(opts ...Option) (*Wizard, error) {
	w := &Wizard{
		registry:    schema.NewRegistry(),
		notifier:    nopNotifier{},
		logger:      slog.Default(),
		submitDelay: defaultSubmitDelay,
		document:    editor.NewDocument(),
		step:        1,
	}
	for _, opt := range opts {
		opt(w)
	}

	if w.engine == nil {
		engine, err := steps.NewEngine(w.registry, nil)
		if err != nil {
			return nil, fmt.Errorf("wizard: build step engine: %w", err)
		}
		w.engine = engine
	}
	if w.cache == nil {
		w.cache = formcache.New(w.registry)
	}
	w.values = w.registry.Defaults()
	return w, nil
}

// CurrentStep returns the active step number.
func (w *Wizard) CurrentStep() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.step
}

// Values returns a copy of the current form values.
func (w *Wizard) Values() schema.FormValues {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.values
}

// Document returns the wizard's editor document.
func (w *Wizard) Document() *editor.Document {
	return w.document
}

// SetField assigns one field, resolving legacy spellings through the
// registry. Unknown names error; memoized step results are dropped so the
// next evaluation sees the new value.
func (w *Wizard) SetField(name string, value any) error {
	canonical, ok := w.registry.Resolve(name)
	if !ok {
		return fmt.Errorf("wizard: unknown field %q", name)
	}

	w.mu.Lock()
	w.values.Set(canonical, value)
	w.mu.Unlock()

	w.engine.ClearCache()
	return nil
}

// SetValues replaces the whole value object, normalizing raw input.
func (w *Wizard) SetValues(raw map[string]any) {
	normalized := schema.Normalize(raw)

	w.mu.Lock()
	w.values = normalized
	w.mu.Unlock()

	w.engine.ClearCache()
}

// Progress reports the step position and the weighted completion score.
func (w *Wizard) Progress() Progress {
	w.mu.Lock()
	step := w.step
	values := w.values
	w.mu.Unlock()

	return Progress{
		Step:              step,
		StepCount:         steps.StepCount,
		Width:             float64(step) / float64(steps.StepCount) * 100,
		CompletionPercent: w.registry.CompletionPercent(values),
	}
}

// StepResult evaluates the named step against the current values.
func (w *Wizard) StepResult(step int) (steps.Result, error) {
	return w.engine.Evaluate(step, w.Values())
}

// Next advances to the following step after the current one validates. It
// returns the new step number.
func (w *Wizard) Next(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return w.CurrentStep(), err
	}

	current := w.CurrentStep()
	if current >= steps.StepCount {
		return current, fmt.Errorf("wizard: already on the final step")
	}

	result, err := w.engine.Evaluate(current, w.Values())
	if err != nil {
		return current, err
	}
	if !result.Complete {
		w.notifier.Notify(Notification{
			Title:       "Incomplete step",
			Description: fmt.Sprintf("step %d still has required fields", current),
			Color:       ColorDanger,
		})
		return current, fmt.Errorf("wizard: step %d is incomplete", current)
	}

	w.mu.Lock()
	w.step = current + 1
	next := w.step
	w.mu.Unlock()
	return next, nil
}

// Previous moves one step back, stopping at the first step, and returns the
// new step number.
func (w *Wizard) Previous() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.step > 1 {
		w.step--
	}
	return w.step
}

// TransferFromEditor renders the editor document as markdown and applies it
// as the post content, marking the editor step complete. With a connected
// bridge the result is also pushed to the external store; transfer warnings
// (unassigned paragraphs and the like) are reported, errors abort.
func (w *Wizard) TransferFromEditor(ctx context.Context, opts markdown.GenerateOptions) (TransferResult, error) {
	status := w.document.Status()
	if !status.IsReadyForTransfer {
		return TransferResult{Warnings: status.ValidationWarnings},
			fmt.Errorf("wizard: document is not ready for transfer: %v", status.ValidationErrors)
	}

	content := markdown.Generate(w.document.Containers(), w.document.Paragraphs(), opts)
	if content == "" {
		return TransferResult{}, fmt.Errorf("wizard: document produced no content")
	}

	w.mu.Lock()
	w.values.Content = content
	w.values.IsEditorCompleted = true
	w.mu.Unlock()
	w.engine.ClearCache()

	result := TransferResult{Content: content, Warnings: status.ValidationWarnings}

	if w.bridge != nil {
		pushed, err := w.bridge.ApplyTransformation(ctx, bridge.TransformationResult{
			Content:   content,
			Completed: true,
		})
		if err != nil {
			return result, fmt.Errorf("wizard: push transformation: %w", err)
		}
		result.PushedToStore = pushed
	}

	w.notifier.Notify(Notification{
		Title:       "Editor content transferred",
		Description: fmt.Sprintf("%d characters moved into the post body", len(content)),
		Color:       ColorSuccess,
	})
	return result, nil
}

// SyncFromStore pulls the external store's snapshot into the wizard,
// replacing its values and step position.
func (w *Wizard) SyncFromStore(ctx context.Context) error {
	if w.bridge == nil {
		return fmt.Errorf("wizard: no bridge configured")
	}

	snapshot, err := w.bridge.Extract(ctx)
	if err != nil {
		return fmt.Errorf("wizard: extract snapshot: %w", err)
	}

	w.mu.Lock()
	w.values = snapshot.FormValues
	if snapshot.CurrentStep >= 1 && snapshot.CurrentStep <= steps.StepCount {
		w.step = snapshot.CurrentStep
	}
	w.mu.Unlock()

	w.engine.ClearCache()
	return nil
}

// SaveDraft persists the current values. Skipped oversized fields are
// surfaced as a warning notification.
func (w *Wizard) SaveDraft(ctx context.Context) (draft.SaveResult, error) {
	if w.drafts == nil {
		return draft.SaveResult{}, fmt.Errorf("wizard: no draft store configured")
	}

	result, err := w.drafts.Save(ctx, w.Values())
	if err != nil {
		return result, fmt.Errorf("wizard: save draft: %w", err)
	}
	if len(result.SkippedFields) > 0 {
		w.notifier.Notify(Notification{
			Title:       "Draft saved without media",
			Description: fmt.Sprintf("dropped oversized fields: %v", result.SkippedFields),
			Color:       ColorWarning,
		})
	}
	return result, nil
}

// LoadDraft restores persisted values into the wizard. It reports whether a
// usable draft was found; corrupt drafts are logged and skipped.
func (w *Wizard) LoadDraft(ctx context.Context) (bool, error) {
	if w.drafts == nil {
		return false, fmt.Errorf("wizard: no draft store configured")
	}

	result, err := w.drafts.Load(ctx)
	if err != nil {
		return false, fmt.Errorf("wizard: load draft: %w", err)
	}
	if !result.Found {
		return false, nil
	}
	if !result.Success {
		w.logger.Warn("wizard draft unusable", slog.String("error", result.Error))
		return false, nil
	}

	w.mu.Lock()
	w.values = result.Values
	w.mu.Unlock()

	w.engine.ClearCache()
	return true, nil
}

// ClearDraft removes any persisted draft.
func (w *Wizard) ClearDraft(ctx context.Context) error {
	if w.drafts == nil {
		return nil
	}
	return w.drafts.Clear(ctx)
}

// Submit validates every step, waits out the configured submission latency,
// and clears the draft on success. Incomplete steps fail the submission
// without an error.
func (w *Wizard) Submit(ctx context.Context) (SubmitResult, error) {
	values := w.Values()

	var incomplete []int
	for step := 1; step <= steps.StepCount; step++ {
		result, err := w.engine.Evaluate(step, values)
		if err != nil {
			return SubmitResult{Error: err.Error()}, err
		}
		if !result.Complete {
			incomplete = append(incomplete, step)
		}
	}
	if len(incomplete) > 0 {
		w.notifier.Notify(Notification{
			Title:       "Submission blocked",
			Description: fmt.Sprintf("incomplete steps: %v", incomplete),
			Color:       ColorDanger,
		})
		return SubmitResult{IncompleteSteps: incomplete}, nil
	}

	if w.submitDelay > 0 {
		timer := time.NewTimer(w.submitDelay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return SubmitResult{Error: ctx.Err().Error()}, ctx.Err()
		case <-timer.C:
		}
	}

	if err := w.ClearDraft(ctx); err != nil {
		w.logger.Warn("wizard draft clear after submit failed", slog.String("error", err.Error()))
	}

	analytics := w.cache.Analytics(values)
	w.logger.Info("wizard submission accepted",
		slog.Float64("completion", analytics.CompletionPercent))

	w.notifier.Notify(Notification{
		Title:       "Post submitted",
		Description: "your post is on its way",
		Color:       ColorSuccess,
	})
	return SubmitResult{Success: true}, nil
}
