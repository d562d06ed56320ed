// Package steps decides when a wizard step is complete. Each step declares
// the field names it requires; names may be legacy spellings resolved
// through the schema registry's alias table. Results are memoized briefly to
// absorb rapid re-render bursts, keyed by a fingerprint of every field so a
// cache hit always equals a fresh computation.
package steps

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/goliatone/go-postwizard/pkg/schema"
)

// StepCount is the number of wizard steps.
const StepCount = 5

// Definition declares one step's required fields.
type Definition struct {
	Number int      `yaml:"number"`
	Name   string   `yaml:"name"`
	Fields []string `yaml:"fields"`
}

// FieldCheck is the per-field breakdown of a step evaluation.
type FieldCheck struct {
	Name       string
	ResolvedTo string
	Resolved   bool
	Complete   bool
}

// Result is a full step evaluation.
type Result struct {
	Step            int
	Complete        bool
	EditorCollapsed bool
	Fields          []FieldCheck
}

// editor-completion spellings that collapse a step to the flag itself.
var editorFlagNames = map[string]struct{}{
	"editor":            {},
	"editorcompleted":   {},
	"iseditorcompleted": {},
}

const defaultCacheTTL = 5 * time.Second

// Option customises engine construction.
type Option func(*Engine)

// WithTTL overrides the result cache lifetime. Zero or negative disables
// caching.
func WithTTL(ttl time.Duration) Option {
	return func(e *Engine) {
		e.ttl = ttl
	}
}

// WithClock overrides the cache expiry clock. Useful for deterministic
// tests.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

type cachedResult struct {
	result    Result
	valuesKey string
	at        time.Time
}

// Engine evaluates step completion against a registry and a step table. The
// cache is owned by the engine; construct one per consumer needing
// isolation.
type Engine struct {
	registry    *schema.Registry
	definitions map[int]Definition
	ttl         time.Duration
	now         func() time.Time

	mu    sync.Mutex
	cache map[int]cachedResult
}

// NewEngine builds an engine. A nil registry falls back to the default; nil
// definitions fall back to the built-in five-step table.
func NewEngine(registry *schema.Registry, definitions []Definition, opts ...Option) (*Engine, error) {
	if registry == nil {
		registry = schema.NewRegistry()
	}
	if definitions == nil {
		definitions = DefaultDefinitions()
	}

	byNumber := make(map[int]Definition, len(definitions))
	for _, definition := range definitions {
		if definition.Number < 1 || definition.Number > StepCount {
			return nil, fmt.Errorf("steps: step number %d outside 1..%d", definition.Number, StepCount)
		}
		if _, exists := byNumber[definition.Number]; exists {
			return nil, fmt.Errorf("steps: duplicate step %d", definition.Number)
		}
		byNumber[definition.Number] = definition
	}

	engine := &Engine{
		registry:    registry,
		definitions: byNumber,
		ttl:         defaultCacheTTL,
		now:         time.Now,
		cache:       make(map[int]cachedResult),
	}
	for _, opt := range opts {
		opt(engine)
	}
	return engine, nil
}

// IsComplete reports whether the step's required fields are all filled in.
func (e *Engine) IsComplete(step int, values schema.FormValues) bool {
	result, err := e.Evaluate(step, values)
	return err == nil && result.Complete
}

// Evaluate produces the detailed breakdown for a step. When the step's field
// list references the editor-completion flag, by canonical name or known
// alias, the step's validity collapses to exactly that flag and every other
// listed field is ignored.
func (e *Engine) Evaluate(step int, values schema.FormValues) (Result, error) {
	definition, ok := e.definitions[step]
	if !ok {
		return Result{}, fmt.Errorf("steps: unknown step %d", step)
	}

	valuesKey := fingerprint(values)
	if cached, ok := e.cachedFor(step, valuesKey); ok {
		return cached, nil
	}

	result := e.evaluate(definition, values)

	if e.ttl > 0 {
		e.mu.Lock()
		e.cache[step] = cachedResult{result: result, valuesKey: valuesKey, at: e.now()}
		e.mu.Unlock()
	}
	return result, nil
}

// ClearCache drops every memoized result.
func (e *Engine) ClearCache() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cache = make(map[int]cachedResult)
}

func (e *Engine) cachedFor(step int, valuesKey string) (Result, bool) {
	if e.ttl <= 0 {
		return Result{}, false
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	cached, ok := e.cache[step]
	if !ok || cached.valuesKey != valuesKey {
		return Result{}, false
	}
	if e.now().Sub(cached.at) > e.ttl {
		delete(e.cache, step)
		return Result{}, false
	}
	return cached.result, true
}

func (e *Engine) evaluate(definition Definition, values schema.FormValues) Result {
	result := Result{Step: definition.Number}

	for _, name := range definition.Fields {
		if isEditorFlagName(name) {
			result.EditorCollapsed = true
			result.Complete = values.IsEditorCompleted
			result.Fields = []FieldCheck{{
				Name:       name,
				ResolvedTo: schema.FieldIsEditorCompleted,
				Resolved:   true,
				Complete:   values.IsEditorCompleted,
			}}
			return result
		}
	}

	result.Complete = len(definition.Fields) > 0
	for _, name := range definition.Fields {
		check := FieldCheck{Name: name}
		if canonical, ok := e.registry.Resolve(name); ok {
			check.Resolved = true
			check.ResolvedTo = canonical
			check.Complete = e.registry.FieldComplete(canonical, values)
		}
		if !check.Resolved || !check.Complete {
			result.Complete = false
		}
		result.Fields = append(result.Fields, check)
	}
	return result
}

// fingerprint hashes every field of the snapshot with length-prefixed
// segments. Two value objects that differ anywhere, including fields outside
// a step's own list, can never share a cache entry.
func fingerprint(values schema.FormValues) string {
	hasher := sha256.New()

	writeSegment := func(segment string) {
		var length [4]byte
		binary.BigEndian.PutUint32(length[:], uint32(len(segment)))
		hasher.Write(length[:])
		hasher.Write([]byte(segment))
	}
	writeFlag := func(flag bool) {
		if flag {
			hasher.Write([]byte{1})
		} else {
			hasher.Write([]byte{0})
		}
	}
	writeSlice := func(items []string) {
		var count [4]byte
		binary.BigEndian.PutUint32(count[:], uint32(len(items)))
		hasher.Write(count[:])
		for _, item := range items {
			writeSegment(item)
		}
	}

	writeSegment(values.Nickname)
	writeSegment(values.Email)
	writeSegment(values.Bio)
	writeSegment(values.Title)
	writeSegment(values.Description)
	writeSegment(values.Category)
	writeSegment(values.Content)
	writeSlice(values.Tags)
	writeSlice(values.Media)
	writeSlice(values.SliderImages)
	if values.MainImage != nil {
		writeFlag(true)
		writeSegment(*values.MainImage)
	} else {
		writeFlag(false)
	}
	writeFlag(values.AllowComments)
	writeFlag(values.IsEditorCompleted)
	writeFlag(values.AgreeToTerms)

	return hex.EncodeToString(hasher.Sum(nil))
}

func isEditorFlagName(name string) bool {
	normalized := strings.ToLower(strings.TrimSpace(name))
	normalized = strings.ReplaceAll(normalized, "_", "")
	normalized = strings.ReplaceAll(normalized, "-", "")
	_, ok := editorFlagNames[normalized]
	return ok
}

// DefaultDefinitions is the built-in blog wizard step table. Step 2 and 3
// intentionally carry legacy field spellings to exercise alias resolution.
func DefaultDefinitions() []Definition {
	return []Definition{
		{Number: 1, Name: "profile", Fields: []string{"nickname", "email"}},
		{Number: 2, Name: "metadata", Fields: []string{"postTitle", "description", "category"}},
		{Number: 3, Name: "gallery", Fields: []string{"main_image"}},
		{Number: 4, Name: "editor", Fields: []string{"content", "editorCompleted"}},
		{Number: 5, Name: "review", Fields: []string{"agreeToTerms"}},
	}
}
