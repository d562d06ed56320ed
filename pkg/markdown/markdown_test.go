package markdown_test

import (
	"strings"
	"testing"

	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-postwizard/pkg/editor"
	"github.com/goliatone/go-postwizard/pkg/markdown"
)

func TestGenerateSingleSection(t *testing.T) {
	got := markdown.Generate(
		[]editor.Container{{ID: "c1", Name: "Intro", Order: 0}},
		[]editor.Paragraph{{ID: "p1", Content: "Hello", ContainerID: "c1", Order: 0}},
		markdown.GenerateOptions{},
	)
	if got != "## Intro\n\nHello" {
		t.Fatalf("expected %q, got %q", "## Intro\n\nHello", got)
	}
}

func TestGenerateSortsAndSkipsEmpty(t *testing.T) {
	containers := []editor.Container{
		{ID: "c2", Name: "Second", Order: 1},
		{ID: "c1", Name: "First", Order: 0},
		{ID: "c3", Name: "Empty", Order: 2},
	}
	paragraphs := []editor.Paragraph{
		{ID: "p2", Content: "beta", ContainerID: "c2", Order: 1},
		{ID: "p1", Content: "alpha", ContainerID: "c1", Order: 0},
		{ID: "p3", Content: "  ", ContainerID: "c3", Order: 2},
	}

	got := markdown.Generate(containers, paragraphs, markdown.GenerateOptions{})
	want := "## First\n\nalpha\n\n## Second\n\nbeta"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}

	withEmpty := markdown.Generate(containers, paragraphs, markdown.GenerateOptions{IncludeEmpty: true})
	if !strings.Contains(withEmpty, "## Empty") {
		t.Fatalf("expected empty container heading with IncludeEmpty, got %q", withEmpty)
	}
}

func TestGenerateUnassignedGoUnderSyntheticHeading(t *testing.T) {
	got := markdown.Generate(
		[]editor.Container{{ID: "c1", Name: "Intro", Order: 0}},
		[]editor.Paragraph{
			{ID: "p1", Content: "body", ContainerID: "c1", Order: 0},
			{ID: "p2", Content: "floating", Order: 1},
		},
		markdown.GenerateOptions{},
	)
	want := "## Intro\n\nbody\n\n## " + markdown.UnassignedHeading + "\n\nfloating"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestGenerateHeaderLevelClamp(t *testing.T) {
	containers := []editor.Container{{ID: "c1", Name: "Deep", Order: 0}}
	paragraphs := []editor.Paragraph{{ID: "p1", Content: "x", ContainerID: "c1", Order: 0}}

	got := markdown.Generate(containers, paragraphs, markdown.GenerateOptions{HeaderLevel: 9})
	if !strings.HasPrefix(got, "###### Deep") {
		t.Fatalf("expected clamp to 6, got %q", got)
	}
	got = markdown.Generate(containers, paragraphs, markdown.GenerateOptions{HeaderLevel: -3})
	if !strings.HasPrefix(got, "# Deep") {
		t.Fatalf("expected clamp to 1, got %q", got)
	}
}

func TestGenerateInvalidInput(t *testing.T) {
	if got := markdown.Generate(
		[]editor.Container{{ID: "", Name: "Intro", Order: 0}},
		nil,
		markdown.GenerateOptions{},
	); got != "" {
		t.Fatalf("expected empty output for blank container id, got %q", got)
	}
	if got := markdown.Generate(
		[]editor.Container{{ID: "c1", Name: "Intro", Order: 0}},
		[]editor.Paragraph{{ID: "p1", Content: "x", Order: -1}},
		markdown.GenerateOptions{},
	); got != "" {
		t.Fatalf("expected empty output for negative order, got %q", got)
	}
}

func TestGenerateSanitizesContent(t *testing.T) {
	got := markdown.Generate(
		[]editor.Container{{ID: "c1", Name: "Intro", Order: 0}},
		[]editor.Paragraph{{ID: "p1", Content: `Hello <script>alert(1)</script>world`, ContainerID: "c1", Order: 0}},
		markdown.GenerateOptions{Sanitizer: bluemonday.StrictPolicy()},
	)
	if strings.Contains(got, "<script>") {
		t.Fatalf("expected script tags stripped, got %q", got)
	}
	if !strings.Contains(got, "Hello") {
		t.Fatalf("expected text content preserved, got %q", got)
	}
}

func TestParseBasics(t *testing.T) {
	result := markdown.Parse("## Intro\n\nHello\n\nWorld\n\n### Details\n\nMore")

	if len(result.Containers) != 2 {
		t.Fatalf("expected 2 containers, got %d", len(result.Containers))
	}
	if result.Containers[0].Name != "Intro" || result.Containers[0].ID != "container_1" {
		t.Fatalf("unexpected first container %+v", result.Containers[0])
	}
	if len(result.Paragraphs) != 3 {
		t.Fatalf("expected 3 paragraphs, got %d", len(result.Paragraphs))
	}
	if result.Paragraphs[0].ContainerID != "container_1" {
		t.Fatalf("expected first paragraph under container_1, got %q", result.Paragraphs[0].ContainerID)
	}
	if result.Paragraphs[2].ContainerID != "container_2" {
		t.Fatalf("expected last paragraph under container_2, got %q", result.Paragraphs[2].ContainerID)
	}
	if len(result.Errors) != 0 || len(result.Warnings) != 0 {
		t.Fatalf("expected clean parse, got errors=%v warnings=%v", result.Errors, result.Warnings)
	}
}

func TestParseMalformedHeader(t *testing.T) {
	result := markdown.Parse("##\n#notitle\n## Valid\n\ntext")
	if len(result.Errors) != 2 {
		t.Fatalf("expected 2 malformed header errors, got %v", result.Errors)
	}
	if len(result.Containers) != 1 || result.Containers[0].Name != "Valid" {
		t.Fatalf("expected only the valid container, got %+v", result.Containers)
	}
}

func TestParseLeadingParagraphWarning(t *testing.T) {
	result := markdown.Parse("floating text\n\n## Intro\n\nbody")
	if len(result.Warnings) != 1 {
		t.Fatalf("expected leading paragraph warning, got %v", result.Warnings)
	}
	if result.Paragraphs[0].ContainerID != "" {
		t.Fatalf("expected leading paragraph unassigned, got %q", result.Paragraphs[0].ContainerID)
	}
}

func TestRoundTrip(t *testing.T) {
	containers := []editor.Container{
		{ID: "a", Name: "Intro", Order: 0},
		{ID: "b", Name: "Middle", Order: 1},
		{ID: "c", Name: "End", Order: 2},
	}
	paragraphs := []editor.Paragraph{
		{ID: "p1", Content: "first intro line", ContainerID: "a", Order: 0},
		{ID: "p2", Content: "second intro line", ContainerID: "a", Order: 1},
		{ID: "p3", Content: "middle body", ContainerID: "b", Order: 2},
		{ID: "p4", Content: "closing words", ContainerID: "c", Order: 3},
	}

	generated := markdown.Generate(containers, paragraphs, markdown.GenerateOptions{})
	parsed := markdown.Parse(generated)

	if len(parsed.Containers) != len(containers) {
		t.Fatalf("expected %d containers, got %d", len(containers), len(parsed.Containers))
	}
	for i, container := range parsed.Containers {
		if container.Name != containers[i].Name {
			t.Fatalf("container %d: expected name %q, got %q", i, containers[i].Name, container.Name)
		}
	}

	if len(parsed.Paragraphs) != len(paragraphs) {
		t.Fatalf("expected %d paragraphs, got %d", len(paragraphs), len(parsed.Paragraphs))
	}
	for i, paragraph := range parsed.Paragraphs {
		if paragraph.Content != paragraphs[i].Content {
			t.Fatalf("paragraph %d: expected content %q, got %q", i, paragraphs[i].Content, paragraph.Content)
		}
	}

	// Assignment structure survives: paragraphs sharing a source container
	// must share a parsed container.
	grouping := make(map[string]string)
	for i, paragraph := range parsed.Paragraphs {
		source := paragraphs[i].ContainerID
		if mapped, seen := grouping[source]; seen {
			if mapped != paragraph.ContainerID {
				t.Fatalf("paragraph %d: expected container %q, got %q", i, mapped, paragraph.ContainerID)
			}
			continue
		}
		grouping[source] = paragraph.ContainerID
	}
}

func TestGenerateCollapsesNewlines(t *testing.T) {
	got := markdown.Generate(
		[]editor.Container{{ID: "c1", Name: "Intro", Order: 0}},
		[]editor.Paragraph{{ID: "p1", Content: "a\n\n\n\nb", ContainerID: "c1", Order: 0}},
		markdown.GenerateOptions{},
	)
	if strings.Contains(got, "\n\n\n") {
		t.Fatalf("expected no triple newlines, got %q", got)
	}
}
