package editor_test

import (
	"testing"
	"time"

	"github.com/goliatone/go-postwizard/pkg/editor"
)

func fixedClock() func() time.Time {
	at := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	return func() time.Time { return at }
}

func TestAddAndAssign(t *testing.T) {
	doc := editor.NewDocument(editor.WithClock(fixedClock()))

	intro, err := doc.AddContainer("Intro")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if intro.ID == "" || intro.Order != 0 {
		t.Fatalf("expected container with id and order 0, got %+v", intro)
	}

	para, err := doc.AddParagraph("Hello", intro.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if para.ContainerID != intro.ID {
		t.Fatalf("expected paragraph assigned to %q, got %q", intro.ID, para.ContainerID)
	}

	if _, err := doc.AddParagraph("orphan", "missing"); err == nil {
		t.Fatalf("expected unknown container to fail")
	}
	if _, err := doc.AddContainer("   "); err == nil {
		t.Fatalf("expected blank container name to fail")
	}
}

func TestDeleteContainerUnassignsParagraphs(t *testing.T) {
	doc := editor.NewDocument()
	intro, _ := doc.AddContainer("Intro")
	para, _ := doc.AddParagraph("Hello", intro.ID)

	if err := doc.DeleteContainer(intro.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	paragraphs := doc.Paragraphs()
	if len(paragraphs) != 1 || paragraphs[0].ID != para.ID {
		t.Fatalf("expected paragraph to survive, got %+v", paragraphs)
	}
	if paragraphs[0].ContainerID != "" {
		t.Fatalf("expected paragraph to be unassigned after container delete")
	}
	if orphans := doc.Orphans(); len(orphans) != 0 {
		t.Fatalf("expected no orphans after unassign, got %d", len(orphans))
	}
}

func TestOrphanDetection(t *testing.T) {
	doc := editor.NewDocument()
	doc.Load(
		[]editor.Container{{ID: "c1", Name: "Intro", Order: 0}},
		[]editor.Paragraph{
			{ID: "p1", Content: "ok", ContainerID: "c1", Order: 0},
			{ID: "p2", Content: "lost", ContainerID: "ghost", Order: 1},
		},
	)

	orphans := doc.Orphans()
	if len(orphans) != 1 || orphans[0].ID != "p2" {
		t.Fatalf("expected p2 to be orphaned, got %+v", orphans)
	}

	status := doc.Status()
	if len(status.ValidationErrors) != 1 {
		t.Fatalf("expected one validation error, got %v", status.ValidationErrors)
	}
	if status.IsReadyForTransfer {
		t.Fatalf("expected orphaned document to not be transfer ready")
	}
	if status.AssignedParagraphCount != 1 {
		t.Fatalf("expected one assigned paragraph, got %d", status.AssignedParagraphCount)
	}
}

func TestStatusCountsAndWarnings(t *testing.T) {
	doc := editor.NewDocument()
	intro, _ := doc.AddContainer("Intro")
	doc.AddParagraph("Hello world", intro.ID)
	doc.AddParagraph("floating", "")

	status := doc.Status()
	if status.ContainerCount != 1 || status.ParagraphCount != 2 {
		t.Fatalf("unexpected counts: %+v", status)
	}
	if status.UnassignedParagraphCount != 1 {
		t.Fatalf("expected one unassigned paragraph, got %d", status.UnassignedParagraphCount)
	}
	if len(status.ValidationWarnings) == 0 {
		t.Fatalf("expected unassigned warning")
	}
	if !status.IsReadyForTransfer {
		t.Fatalf("expected warnings-only document to be transfer ready")
	}
	if status.TotalContentLength != len("Hello world")+len("floating") {
		t.Fatalf("unexpected content length %d", status.TotalContentLength)
	}
}

func TestOrderingAndMoves(t *testing.T) {
	doc := editor.NewDocument()
	a, _ := doc.AddContainer("A")
	b, _ := doc.AddContainer("B")

	if err := doc.MoveContainer(a.ID, 5); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	containers := doc.Containers()
	if containers[0].ID != b.ID {
		t.Fatalf("expected B first after reorder, got %+v", containers)
	}

	if err := doc.MoveContainer(a.ID, -1); err == nil {
		t.Fatalf("expected negative order to fail")
	}
	if err := doc.MoveParagraph("missing", 0); err == nil {
		t.Fatalf("expected missing paragraph to fail")
	}
}

func TestReset(t *testing.T) {
	doc := editor.NewDocument()
	doc.AddContainer("Intro")
	doc.AddParagraph("text", "")
	doc.Reset()

	if len(doc.Containers()) != 0 || len(doc.Paragraphs()) != 0 {
		t.Fatalf("expected empty document after reset")
	}
}
