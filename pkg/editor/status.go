package editor

import (
	"fmt"
	"strings"
)

// ValidationStatus is a derived, on-demand summary of document health. It is
// recomputed on every call and never persisted.
type ValidationStatus struct {
	ContainerCount           int
	ParagraphCount           int
	AssignedParagraphCount   int
	UnassignedParagraphCount int
	TotalContentLength       int
	ValidationErrors         []string
	ValidationWarnings       []string
	IsReadyForTransfer       bool
}

// Status inspects the document and reports counts, inconsistencies and
// transfer readiness. Orphaned paragraphs (assigned to a container that no
// longer exists) are errors; unassigned paragraphs are only warnings.
func (d *Document) Status() ValidationStatus {
	status := ValidationStatus{
		ContainerCount: len(d.containers),
		ParagraphCount: len(d.paragraphs),
	}

	containerIDs := make(map[string]struct{}, len(d.containers))
	for _, container := range d.containers {
		if strings.TrimSpace(container.Name) == "" {
			status.ValidationErrors = append(status.ValidationErrors,
				fmt.Sprintf("container %s has an empty name", container.ID))
		}
		containerIDs[container.ID] = struct{}{}
	}

	for _, paragraph := range d.paragraphs {
		status.TotalContentLength += len(strings.TrimSpace(paragraph.Content))
		if paragraph.ContainerID == "" {
			status.UnassignedParagraphCount++
			continue
		}
		if _, ok := containerIDs[paragraph.ContainerID]; !ok {
			status.ValidationErrors = append(status.ValidationErrors,
				fmt.Sprintf("paragraph %s references missing container %s", paragraph.ID, paragraph.ContainerID))
			continue
		}
		status.AssignedParagraphCount++
	}

	if status.UnassignedParagraphCount > 0 {
		status.ValidationWarnings = append(status.ValidationWarnings,
			fmt.Sprintf("%d paragraph(s) are not assigned to a container", status.UnassignedParagraphCount))
	}
	if status.ParagraphCount == 0 {
		status.ValidationWarnings = append(status.ValidationWarnings, "document has no paragraphs")
	}

	status.IsReadyForTransfer = len(status.ValidationErrors) == 0 && status.TotalContentLength > 0
	return status
}

// Orphans returns the paragraphs whose container reference no longer
// resolves.
func (d *Document) Orphans() []Paragraph {
	containerIDs := make(map[string]struct{}, len(d.containers))
	for _, container := range d.containers {
		containerIDs[container.ID] = struct{}{}
	}

	var out []Paragraph
	for _, paragraph := range d.paragraphs {
		if paragraph.ContainerID == "" {
			continue
		}
		if _, ok := containerIDs[paragraph.ContainerID]; !ok {
			out = append(out, paragraph)
		}
	}
	return out
}
