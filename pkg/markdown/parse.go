package markdown

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/goliatone/go-postwizard/pkg/editor"
)

// ParseResult carries the reconstructed blocks plus any recoverable issues
// encountered along the way. Errors do not abort the parse.
type ParseResult struct {
	Containers []editor.Container
	Paragraphs []editor.Paragraph
	Errors     []string
	Warnings   []string
}

var headerPattern = regexp.MustCompile(`^#+\s+(.+)$`)

// Parse reconstructs containers and paragraphs from markdown text. ATX
// header lines open a new container; every other non-blank line becomes a
// paragraph attached to the most recent container, or left unassigned when
// no header has been seen yet. Ids are generated as container_<n> and
// paragraph_<n>; order counters increase monotonically per block kind.
func Parse(text string) ParseResult {
	var result ParseResult

	now := time.Now()
	currentContainer := ""
	containerCount := 0
	paragraphCount := 0
	sawLeadingParagraph := false

	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}

		if strings.HasPrefix(trimmed, "#") {
			match := headerPattern.FindStringSubmatch(trimmed)
			if match == nil {
				result.Errors = append(result.Errors, fmt.Sprintf("malformed header line: %q", trimmed))
				continue
			}
			containerCount++
			container := editor.Container{
				ID:        fmt.Sprintf("container_%d", containerCount),
				Name:      strings.TrimSpace(match[1]),
				Order:     containerCount - 1,
				CreatedAt: now,
				UpdatedAt: now,
			}
			result.Containers = append(result.Containers, container)
			currentContainer = container.ID
			continue
		}

		if currentContainer == "" {
			sawLeadingParagraph = true
		}
		paragraphCount++
		result.Paragraphs = append(result.Paragraphs, editor.Paragraph{
			ID:          fmt.Sprintf("paragraph_%d", paragraphCount),
			Content:     trimmed,
			ContainerID: currentContainer,
			Order:       paragraphCount - 1,
			CreatedAt:   now,
			UpdatedAt:   now,
		})
	}

	if sawLeadingParagraph && containerCount > 0 {
		result.Warnings = append(result.Warnings, "paragraph content appears before the first header")
	}

	return result
}
