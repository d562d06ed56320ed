package bridge

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/goliatone/go-postwizard/pkg/schema"
)

// ConnectionState enumerates the bridge lifecycle.
type ConnectionState string

const (
	StateDisconnected ConnectionState = "disconnected"
	StateConnecting   ConnectionState = "connecting"
	StateConnected    ConnectionState = "connected"
	StateTransferring ConnectionState = "transferring"
	StateError        ConnectionState = "error"
)

// ConnectionMetrics reports the bridge's view of the external store. Health
// check failures update these without tearing the connection down.
type ConnectionMetrics struct {
	StoreConnectionSuccess   bool
	FormValuesAccessible     bool
	UpdateFunctionsAvailable bool
	LastConnectionCheck      time.Time
	HealthCheckFailures      int
}

// TransformationResult carries the output of an editor content
// transformation back toward the form store.
type TransformationResult struct {
	Content   string
	Completed bool
}

const (
	defaultRetryAttempts       = 3
	defaultRetryDelay          = 200 * time.Millisecond
	defaultHealthCheckInterval = 30 * time.Second
)

// Option customises bridge construction.
type Option func(*Bridge)

// WithRegistry overrides the field registry used to normalize extracted form
// values.
func WithRegistry(registry *schema.Registry) Option {
	return func(b *Bridge) {
		if registry != nil {
			b.registry = registry
		}
	}
}

// WithLogger overrides the diagnostic logger.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Bridge) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// WithClock overrides the timestamp source. Useful for deterministic tests.
func WithClock(now func() time.Time) Option {
	return func(b *Bridge) {
		if now != nil {
			b.now = now
		}
	}
}

// WithRetry bounds the connect retry loop. Attempts below one disable
// retrying; the delay grows linearly per attempt.
func WithRetry(attempts int, delay time.Duration) Option {
	return func(b *Bridge) {
		if attempts >= 1 {
			b.retryAttempts = attempts
		}
		if delay > 0 {
			b.retryDelay = delay
		}
	}
}

// WithHealthCheckInterval overrides the periodic health check cadence.
func WithHealthCheckInterval(interval time.Duration) Option {
	return func(b *Bridge) {
		if interval > 0 {
			b.healthInterval = interval
		}
	}
}

// Bridge synchronizes an external form store with typed snapshots. All
// methods are safe for concurrent use.
type Bridge struct {
	store    ExternalStore
	registry *schema.Registry
	logger   *slog.Logger
	now      func() time.Time

	retryAttempts  int
	retryDelay     time.Duration
	healthInterval time.Duration

	mu             sync.Mutex
	state          ConnectionState
	metrics        ConnectionMetrics
	lastSnapshot   *Snapshot
	listeners      []subscription
	nextListenerID int
	healthRunning  bool
}

// NewBridge wires a bridge to an external store. The store may be nil; every
// operation then fails safely until a connectable store is observed.
func NewBridge(store ExternalStore, opts ...Option) *Bridge {
	b := &Bridge{
		store:          store,
		registry:       schema.NewRegistry(),
		logger:         slog.Default(),
		now:            time.Now,
		retryAttempts:  defaultRetryAttempts,
		retryDelay:     defaultRetryDelay,
		healthInterval: defaultHealthCheckInterval,
		state:          StateDisconnected,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// State returns the current lifecycle state.
func (b *Bridge) State() ConnectionState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// Metrics returns a copy of the connection metrics.
func (b *Bridge) Metrics() ConnectionMetrics {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.metrics
}

// LastSnapshot returns the most recent extraction, if any.
func (b *Bridge) LastSnapshot() (Snapshot, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.lastSnapshot == nil {
		return Snapshot{}, false
	}
	return b.lastSnapshot.clone(), true
}

// Connect probes the external store and moves the bridge to connected. The
// store must return a non-nil state map exposing formValues and implement at
// least one updater capability. Failed probes are retried with a linearly
// growing delay up to the configured attempt budget. Connect reports success
// rather than returning an error; probe failures are logged.
func (b *Bridge) Connect(ctx context.Context) bool {
	b.setState(StateConnecting)

	for attempt := 1; attempt <= b.retryAttempts; attempt++ {
		if err := b.probe(ctx); err == nil {
			b.setState(StateConnected)
			b.emit(Event{Type: EventConnection, Detail: "connected", Timestamp: b.now()})
			return true
		} else {
			b.logger.Warn("bridge connect probe failed",
				slog.Int("attempt", attempt),
				slog.String("error", err.Error()))
		}

		if attempt == b.retryAttempts {
			break
		}
		if !sleepContext(ctx, b.retryDelay*time.Duration(attempt)) {
			break
		}
	}

	b.setState(StateDisconnected)
	return false
}

// Disconnect returns the bridge to the disconnected state.
func (b *Bridge) Disconnect() {
	b.setState(StateDisconnected)
	b.emit(Event{Type: EventConnection, Detail: "disconnected", Timestamp: b.now()})
}

// Extract reads the store, normalizes its values against the registry and
// returns a fresh immutable snapshot. A STATE_CHANGE event fires when the
// snapshot's identity (timestamp, step) differs from the previous one.
func (b *Bridge) Extract(ctx context.Context) (Snapshot, error) {
	if !b.enterTransfer() {
		return Snapshot{}, fmt.Errorf("bridge: extract requires a connected bridge (state %s)", b.State())
	}

	snapshot, err := b.readSnapshot(ctx)
	if err != nil {
		b.failTransfer(err)
		return Snapshot{}, err
	}

	b.mu.Lock()
	changed := b.lastSnapshot == nil || !b.lastSnapshot.sameIdentity(snapshot)
	cached := snapshot.clone()
	b.lastSnapshot = &cached
	b.state = StateConnected
	b.mu.Unlock()

	if changed {
		emitted := snapshot.clone()
		b.emit(Event{Type: EventStateChange, Snapshot: &emitted, Timestamp: snapshot.Timestamp})
	}
	return snapshot, nil
}

// Update pushes a snapshot's form values into the store through its bulk
// setter. It reports false, without error, when the store lacks that
// capability.
func (b *Bridge) Update(ctx context.Context, snapshot Snapshot) (bool, error) {
	setter, ok := b.store.(ValuesSetter)
	if !ok {
		return false, nil
	}
	if !b.enterTransfer() {
		return false, fmt.Errorf("bridge: update requires a connected bridge (state %s)", b.State())
	}
	if err := setter.SetFormValues(ctx, snapshot.FormValues.Map()); err != nil {
		b.failTransfer(err)
		return false, fmt.Errorf("bridge: set form values: %w", err)
	}
	b.setState(StateConnected)
	return true, nil
}

// ApplyTransformation writes a transformation result into the store. The
// canonical path is the typed content and completion setters; the per-field
// updater and the bulk values setter are fallbacks used only when the store
// implements neither typed setter. The operation succeeds when at least one
// path applied. After the write (and the store's explicit settle signal,
// when offered) the bridge re-extracts and emits FORM_UPDATE.
func (b *Bridge) ApplyTransformation(ctx context.Context, result TransformationResult) (bool, error) {
	if b.store == nil {
		return false, errors.New("bridge: external store is not configured")
	}
	if _, err := b.store.State(ctx); err != nil {
		return false, fmt.Errorf("bridge: external store is not readable: %w", err)
	}

	applied := false

	contentUpdater, hasContent := b.store.(ContentUpdater)
	completedSetter, hasCompleted := b.store.(CompletedSetter)

	if hasContent {
		if err := contentUpdater.UpdateEditorContent(ctx, result.Content); err != nil {
			b.logger.Warn("bridge content update failed", slog.String("error", err.Error()))
		} else {
			applied = true
		}
	}
	if hasCompleted {
		if err := completedSetter.SetEditorCompleted(ctx, result.Completed); err != nil {
			b.logger.Warn("bridge completion update failed", slog.String("error", err.Error()))
		} else {
			applied = true
		}
	}

	if !hasContent && !hasCompleted {
		if updater, ok := b.store.(FieldUpdater); ok {
			err := updater.UpdateFormValue(ctx, schema.FieldContent, result.Content)
			if err == nil {
				err = updater.UpdateFormValue(ctx, schema.FieldIsEditorCompleted, result.Completed)
			}
			if err != nil {
				b.logger.Warn("bridge field update failed", slog.String("error", err.Error()))
			} else {
				applied = true
			}
		} else if setter, ok := b.store.(ValuesSetter); ok {
			values := map[string]any{
				schema.FieldContent:           result.Content,
				schema.FieldIsEditorCompleted: result.Completed,
			}
			if err := setter.SetFormValues(ctx, values); err != nil {
				b.logger.Warn("bridge bulk update failed", slog.String("error", err.Error()))
			} else {
				applied = true
			}
		}
	}

	if !applied {
		return false, nil
	}

	if settler, ok := b.store.(Settler); ok {
		if err := settler.Settle(ctx); err != nil {
			return true, fmt.Errorf("bridge: store settle: %w", err)
		}
	}

	snapshot, err := b.Extract(ctx)
	if err != nil {
		return true, err
	}
	emitted := snapshot.clone()
	b.emit(Event{Type: EventFormUpdate, Snapshot: &emitted, Timestamp: snapshot.Timestamp})
	return true, nil
}

// StartHealthCheck launches the periodic store probe. The loop stops when
// ctx is cancelled; a failing probe is recorded in the metrics and logged
// but does not disconnect the bridge. Starting twice is a no-op.
func (b *Bridge) StartHealthCheck(ctx context.Context) {
	b.mu.Lock()
	if b.healthRunning {
		b.mu.Unlock()
		return
	}
	b.healthRunning = true
	interval := b.healthInterval
	b.mu.Unlock()

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		defer func() {
			b.mu.Lock()
			b.healthRunning = false
			b.mu.Unlock()
		}()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				b.healthCheck(ctx)
			}
		}
	}()
}

func (b *Bridge) healthCheck(ctx context.Context) {
	err := b.probe(ctx)

	b.mu.Lock()
	b.metrics.LastConnectionCheck = b.now()
	if err != nil {
		b.metrics.HealthCheckFailures++
		b.metrics.FormValuesAccessible = false
	}
	failures := b.metrics.HealthCheckFailures
	b.mu.Unlock()

	if err != nil {
		b.logger.Warn("bridge health check failed",
			slog.Int("failures", failures),
			slog.String("error", err.Error()))
	}
}

// probe verifies the store is reachable, exposes formValues, and offers at
// least one updater capability, recording the outcome in the metrics.
func (b *Bridge) probe(ctx context.Context) error {
	b.mu.Lock()
	b.metrics.LastConnectionCheck = b.now()
	b.mu.Unlock()

	if b.store == nil {
		b.recordProbe(false, false, false)
		return errors.New("bridge: external store is not configured")
	}

	state, err := b.store.State(ctx)
	if err != nil {
		b.recordProbe(false, false, false)
		return fmt.Errorf("bridge: read store state: %w", err)
	}
	if state == nil {
		b.recordProbe(false, false, false)
		return errors.New("bridge: store state is nil")
	}

	_, hasValues := state[KeyFormValues]
	updaters := b.hasUpdater()
	b.recordProbe(true, hasValues, updaters)

	if !hasValues {
		return errors.New("bridge: store state has no formValues")
	}
	if !updaters {
		return errors.New("bridge: store offers no update capability")
	}
	return nil
}

func (b *Bridge) hasUpdater() bool {
	if _, ok := b.store.(ValuesSetter); ok {
		return true
	}
	if _, ok := b.store.(ContentUpdater); ok {
		return true
	}
	if _, ok := b.store.(CompletedSetter); ok {
		return true
	}
	if _, ok := b.store.(FieldUpdater); ok {
		return true
	}
	return false
}

func (b *Bridge) recordProbe(success, valuesAccessible, updaters bool) {
	b.mu.Lock()
	b.metrics.StoreConnectionSuccess = success
	b.metrics.FormValuesAccessible = valuesAccessible
	b.metrics.UpdateFunctionsAvailable = updaters
	b.mu.Unlock()
}

func (b *Bridge) readSnapshot(ctx context.Context) (Snapshot, error) {
	state, err := b.store.State(ctx)
	if err != nil {
		return Snapshot{}, fmt.Errorf("bridge: read store state: %w", err)
	}
	if state == nil {
		return Snapshot{}, errors.New("bridge: store state is nil")
	}

	snapshot := Snapshot{
		CurrentStep:            coerceStep(state[KeyCurrentStep]),
		ProgressWidth:          coerceNumber(state[KeyProgressWidth], 0),
		ShowPreview:            coerceFlag(state[KeyShowPreview]),
		EditorCompletedContent: coerceText(state[KeyEditorCompletedContent]),
		IsEditorCompleted:      coerceFlag(state[KeyIsEditorCompleted]),
		Timestamp:              b.now(),
		Metadata:               map[string]string{"source": "external-store"},
	}

	if raw, ok := state[KeyFormValues].(map[string]any); ok {
		snapshot.FormValues = schema.Normalize(raw)
	} else {
		snapshot.FormValues = b.registry.Defaults()
	}

	return snapshot, nil
}

// enterTransfer moves connected → transferring; any other starting state is
// rejected.
func (b *Bridge) enterTransfer() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.state != StateConnected && b.state != StateTransferring {
		return false
	}
	b.state = StateTransferring
	return true
}

// failTransfer records the error state, emits ERROR, and cleans up back to
// disconnected.
func (b *Bridge) failTransfer(err error) {
	b.setState(StateError)
	b.emit(Event{Type: EventError, Detail: err.Error(), Timestamp: b.now()})
	b.setState(StateDisconnected)
}

func (b *Bridge) setState(state ConnectionState) {
	b.mu.Lock()
	b.state = state
	b.mu.Unlock()
}

func coerceStep(value any) int {
	f, ok := toFloat(value)
	if !ok {
		return 1
	}
	step := int(f)
	if step < 1 {
		return 1
	}
	return step
}

func coerceNumber(value any, fallback float64) float64 {
	f, ok := toFloat(value)
	if !ok {
		return fallback
	}
	return f
}

func coerceFlag(value any) bool {
	flag, ok := value.(bool)
	return ok && flag
}

func coerceText(value any) string {
	str, ok := value.(string)
	if !ok {
		return ""
	}
	return str
}

func toFloat(value any) (float64, bool) {
	switch typed := value.(type) {
	case int:
		return float64(typed), true
	case int64:
		return float64(typed), true
	case float32:
		return float64(typed), true
	case float64:
		return typed, true
	default:
		return 0, false
	}
}

// sleepContext waits for the duration unless the context ends first. It
// reports whether the full wait elapsed.
func sleepContext(ctx context.Context, duration time.Duration) bool {
	timer := time.NewTimer(duration)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
