// Package markdown converts between the editor's container/paragraph blocks
// and an ATX-style markdown document, and back. The two directions are
// round-trip stable: parsing generated output reproduces the same container
// names and paragraph content, order and assignment (ids are regenerated).
package markdown

import (
	"regexp"
	"sort"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-postwizard/pkg/editor"
)

// UnassignedHeading labels the synthetic trailing section that collects
// paragraphs without a container.
const UnassignedHeading = "기타"

const (
	defaultHeaderLevel = 2
	defaultSeparator   = "\n\n"
)

// GenerateOptions tunes markdown generation. The zero value applies the
// defaults: level-2 headings, blank-line separators, sorted containers,
// empty containers skipped, no sanitizing.
type GenerateOptions struct {
	// HeaderLevel is clamped to 1..6; zero means the default level 2.
	HeaderLevel int
	// Separator joins paragraphs inside a section; empty means "\n\n".
	Separator string
	// IncludeEmpty keeps headings for containers without paragraphs.
	IncludeEmpty bool
	// NoSort emits containers in input order instead of by Order.
	NoSort bool
	// Sanitizer, when set, strips markup from paragraph content before
	// emission. bluemonday.StrictPolicy() removes all HTML.
	Sanitizer *bluemonday.Policy
}

// Generate renders the blocks as markdown. Invalid input (a container with
// a blank id or name, a paragraph with a blank id, or a negative order)
// yields an empty string rather than a partial document.
func Generate(containers []editor.Container, paragraphs []editor.Paragraph, opts GenerateOptions) string {
	if !validBlocks(containers, paragraphs) {
		return ""
	}

	level := opts.HeaderLevel
	if level == 0 {
		level = defaultHeaderLevel
	}
	if level < 1 {
		level = 1
	}
	if level > 6 {
		level = 6
	}
	marker := strings.Repeat("#", level)

	separator := opts.Separator
	if separator == "" {
		separator = defaultSeparator
	}

	ordered := append([]editor.Container(nil), containers...)
	if !opts.NoSort {
		sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Order < ordered[j].Order })
	}

	var sections []string
	for _, container := range ordered {
		body := paragraphBodies(paragraphs, container.ID, separator, opts.Sanitizer)
		if body == "" && !opts.IncludeEmpty {
			continue
		}
		section := marker + " " + strings.TrimSpace(container.Name)
		if body != "" {
			section += "\n\n" + body
		}
		sections = append(sections, section)
	}

	if body := paragraphBodies(paragraphs, "", separator, opts.Sanitizer); body != "" {
		sections = append(sections, marker+" "+UnassignedHeading+"\n\n"+body)
	}

	result := strings.Join(sections, "\n\n")
	result = collapseNewlines(result)
	return strings.TrimSpace(result)
}

func paragraphBodies(paragraphs []editor.Paragraph, containerID, separator string, policy *bluemonday.Policy) string {
	assigned := make([]editor.Paragraph, 0, len(paragraphs))
	for _, paragraph := range paragraphs {
		if paragraph.ContainerID == containerID {
			assigned = append(assigned, paragraph)
		}
	}
	sort.SliceStable(assigned, func(i, j int) bool { return assigned[i].Order < assigned[j].Order })

	bodies := make([]string, 0, len(assigned))
	for _, paragraph := range assigned {
		content := paragraph.Content
		if policy != nil {
			content = policy.Sanitize(content)
		}
		content = strings.TrimSpace(content)
		if content == "" {
			continue
		}
		bodies = append(bodies, content)
	}
	return strings.Join(bodies, separator)
}

func validBlocks(containers []editor.Container, paragraphs []editor.Paragraph) bool {
	for _, container := range containers {
		if strings.TrimSpace(container.ID) == "" || strings.TrimSpace(container.Name) == "" || container.Order < 0 {
			return false
		}
	}
	for _, paragraph := range paragraphs {
		if strings.TrimSpace(paragraph.ID) == "" || paragraph.Order < 0 {
			return false
		}
	}
	return true
}

var excessNewlines = regexp.MustCompile(`\n{3,}`)

func collapseNewlines(text string) string {
	return excessNewlines.ReplaceAllString(text, "\n\n")
}
