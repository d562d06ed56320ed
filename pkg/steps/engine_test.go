package steps_test

import (
	"sync"
	"testing"
	"time"

	"github.com/goliatone/go-postwizard/pkg/schema"
	"github.com/goliatone/go-postwizard/pkg/steps"
)

func newEngine(t *testing.T, opts ...steps.Option) *steps.Engine {
	t.Helper()
	engine, err := steps.NewEngine(schema.NewRegistry(), nil, opts...)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return engine
}

func completedValues() schema.FormValues {
	values := schema.Defaults()
	values.Nickname = "writer"
	values.Email = "a@b.com"
	values.Title = "Hello"
	values.Description = "A post"
	values.Category = "tech"
	values.Content = "body"
	values.IsEditorCompleted = true
	values.AgreeToTerms = true
	cover := "cover.png"
	values.MainImage = &cover
	return values
}

func TestStepCompletion(t *testing.T) {
	engine := newEngine(t)
	values := completedValues()

	for step := 1; step <= steps.StepCount; step++ {
		if !engine.IsComplete(step, values) {
			t.Fatalf("expected step %d complete for filled values", step)
		}
	}

	empty := schema.Defaults()
	for step := 1; step <= steps.StepCount; step++ {
		if engine.IsComplete(step, empty) {
			t.Fatalf("expected step %d incomplete for defaults", step)
		}
	}
}

func TestStepFourCollapsesToEditorFlag(t *testing.T) {
	engine := newEngine(t)

	// Everything filled except the editor flag: the step must still fail.
	values := completedValues()
	values.IsEditorCompleted = false
	if engine.IsComplete(4, values) {
		t.Fatalf("expected step 4 incomplete while editor flag is false")
	}

	// Nothing filled except the editor flag: the step must pass.
	flagged := schema.Defaults()
	flagged.IsEditorCompleted = true
	result, err := engine.Evaluate(4, flagged)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Complete || !result.EditorCollapsed {
		t.Fatalf("expected collapsed complete step, got %+v", result)
	}
	if len(result.Fields) != 1 || result.Fields[0].ResolvedTo != schema.FieldIsEditorCompleted {
		t.Fatalf("expected single collapsed field check, got %+v", result.Fields)
	}
}

func TestAliasResolutionInStepFields(t *testing.T) {
	engine := newEngine(t)
	values := schema.Defaults()
	values.Title = "Hello"
	values.Description = "A post"
	values.Category = "tech"

	// Step 2 lists "postTitle", a legacy alias of "title".
	result, err := engine.Evaluate(2, values)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Complete {
		t.Fatalf("expected step 2 complete via alias resolution, got %+v", result)
	}
	if result.Fields[0].ResolvedTo != schema.FieldTitle {
		t.Fatalf("expected postTitle to resolve to title, got %q", result.Fields[0].ResolvedTo)
	}
}

func TestUnresolvableFieldFailsStep(t *testing.T) {
	engine, err := steps.NewEngine(schema.NewRegistry(), []steps.Definition{
		{Number: 1, Name: "broken", Fields: []string{"nickname", "noSuchField"}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	values := completedValues()
	result, evalErr := engine.Evaluate(1, values)
	if evalErr != nil {
		t.Fatalf("unexpected error: %v", evalErr)
	}
	if result.Complete {
		t.Fatalf("expected unresolvable field to fail the step")
	}
	if result.Fields[1].Resolved {
		t.Fatalf("expected noSuchField to be unresolved")
	}
}

func TestCacheDoesNotMaskValueChanges(t *testing.T) {
	engine := newEngine(t)
	values := schema.Defaults()

	if engine.IsComplete(1, values) {
		t.Fatalf("expected step 1 incomplete for defaults")
	}

	// Mutating the values within the TTL must be observed immediately.
	values.Nickname = "writer"
	values.Email = "a@b.com"
	if !engine.IsComplete(1, values) {
		t.Fatalf("expected step 1 complete after filling fields")
	}
}

func TestCacheObservesEveryField(t *testing.T) {
	engine := newEngine(t)

	// Terms agreement is the only field step 5 checks; flipping it right
	// after a cached evaluation must be visible immediately.
	values := schema.Defaults()
	if engine.IsComplete(5, values) {
		t.Fatalf("expected step 5 incomplete for defaults")
	}
	values.AgreeToTerms = true
	if !engine.IsComplete(5, values) {
		t.Fatalf("expected step 5 complete after agreeing to terms")
	}

	values = schema.Defaults()
	if engine.IsComplete(3, values) {
		t.Fatalf("expected step 3 incomplete for defaults")
	}
	cover := "cover.png"
	values.MainImage = &cover
	if !engine.IsComplete(3, values) {
		t.Fatalf("expected step 3 complete after setting the main image")
	}

	values = schema.Defaults()
	values.Title = "Hello"
	values.Description = "A post"
	if engine.IsComplete(2, values) {
		t.Fatalf("expected step 2 incomplete without a category")
	}
	values.Category = "tech"
	if !engine.IsComplete(2, values) {
		t.Fatalf("expected step 2 complete after setting the category")
	}
}

func TestCacheExpiry(t *testing.T) {
	var mu sync.Mutex
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		return at
	}
	advance := func(d time.Duration) {
		mu.Lock()
		defer mu.Unlock()
		at = at.Add(d)
	}

	engine := newEngine(t, steps.WithClock(clock))
	values := completedValues()

	first, err := engine.Evaluate(1, values)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	advance(10 * time.Second)
	second, err := engine.Evaluate(1, values)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.Complete != second.Complete {
		t.Fatalf("expected identical results before and after expiry")
	}
}

func TestEvaluateUnknownStep(t *testing.T) {
	engine := newEngine(t)
	if _, err := engine.Evaluate(9, schema.Defaults()); err == nil {
		t.Fatalf("expected unknown step to error")
	}
}

func TestNewEngineValidation(t *testing.T) {
	if _, err := steps.NewEngine(nil, []steps.Definition{{Number: 0, Name: "bad"}}); err == nil {
		t.Fatalf("expected out-of-range step to fail")
	}
	if _, err := steps.NewEngine(nil, []steps.Definition{
		{Number: 1, Name: "a"},
		{Number: 1, Name: "b"},
	}); err == nil {
		t.Fatalf("expected duplicate step to fail")
	}
}

func TestLoadDefinitions(t *testing.T) {
	raw := []byte(`steps:
  - number: 1
    name: profile
    fields: [nickname, email]
  - number: 2
    name: metadata
    fields: [postTitle]
`)
	definitions, err := steps.LoadDefinitions(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(definitions) != 2 {
		t.Fatalf("expected 2 definitions, got %d", len(definitions))
	}
	if definitions[0].Name != "profile" || len(definitions[0].Fields) != 2 {
		t.Fatalf("unexpected first definition: %+v", definitions[0])
	}

	if _, err := steps.LoadDefinitions(nil); err == nil {
		t.Fatalf("expected empty document to fail")
	}
	if _, err := steps.LoadDefinitions([]byte("steps: []")); err == nil {
		t.Fatalf("expected no steps to fail")
	}
	if _, err := steps.LoadDefinitions([]byte("steps:\n  - number: 7\n    fields: [a]")); err == nil {
		t.Fatalf("expected out-of-range number to fail")
	}
	if _, err := steps.LoadDefinitions([]byte("steps:\n  - number: 1\n    fields: []")); err == nil {
		t.Fatalf("expected fieldless step to fail")
	}
}
