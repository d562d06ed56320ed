// Package editor models the block editor's document: named containers
// (section headings) and paragraphs that may be assigned to them. The
// document owns ordering and referential consistency; it never mutates a
// block in place beyond the fields the operations describe.
package editor

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Container is a named section paragraphs can be grouped under.
type Container struct {
	ID        string
	Name      string
	Order     int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Paragraph is a unit of editable text, optionally assigned to a container.
// An empty ContainerID means unassigned.
type Paragraph struct {
	ID          string
	Content     string
	ContainerID string
	Order       int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Document holds the editor's containers and paragraphs. It is not safe for
// concurrent mutation; the wizard drives it from a single goroutine.
type Document struct {
	containers []Container
	paragraphs []Paragraph
	now        func() time.Time
}

// Option customises document construction.
type Option func(*Document)

// WithClock overrides the timestamp source. Useful for deterministic tests.
func WithClock(now func() time.Time) Option {
	return func(d *Document) {
		if now != nil {
			d.now = now
		}
	}
}

// NewDocument returns an empty document.
func NewDocument(opts ...Option) *Document {
	doc := &Document{now: time.Now}
	for _, opt := range opts {
		opt(doc)
	}
	return doc
}

// AddContainer appends a container with a generated id and the next order
// index. Blank names are rejected.
func (d *Document) AddContainer(name string) (Container, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return Container{}, fmt.Errorf("editor: container name is required")
	}
	now := d.now()
	container := Container{
		ID:        uuid.NewString(),
		Name:      trimmed,
		Order:     len(d.containers),
		CreatedAt: now,
		UpdatedAt: now,
	}
	d.containers = append(d.containers, container)
	return container, nil
}

// AddParagraph appends a paragraph, optionally assigned to a container. The
// container must exist when containerID is non-empty.
func (d *Document) AddParagraph(content, containerID string) (Paragraph, error) {
	if strings.TrimSpace(content) == "" {
		return Paragraph{}, fmt.Errorf("editor: paragraph content is required")
	}
	if containerID != "" && !d.hasContainer(containerID) {
		return Paragraph{}, fmt.Errorf("editor: container %q does not exist", containerID)
	}
	now := d.now()
	paragraph := Paragraph{
		ID:          uuid.NewString(),
		Content:     content,
		ContainerID: containerID,
		Order:       len(d.paragraphs),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	d.paragraphs = append(d.paragraphs, paragraph)
	return paragraph, nil
}

// RenameContainer updates a container's name.
func (d *Document) RenameContainer(id, name string) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return fmt.Errorf("editor: container name is required")
	}
	for i := range d.containers {
		if d.containers[i].ID == id {
			d.containers[i].Name = trimmed
			d.containers[i].UpdatedAt = d.now()
			return nil
		}
	}
	return fmt.Errorf("editor: container %q does not exist", id)
}

// UpdateParagraph replaces a paragraph's content.
func (d *Document) UpdateParagraph(id, content string) error {
	if strings.TrimSpace(content) == "" {
		return fmt.Errorf("editor: paragraph content is required")
	}
	for i := range d.paragraphs {
		if d.paragraphs[i].ID == id {
			d.paragraphs[i].Content = content
			d.paragraphs[i].UpdatedAt = d.now()
			return nil
		}
	}
	return fmt.Errorf("editor: paragraph %q does not exist", id)
}

// AssignParagraph moves a paragraph into a container, or unassigns it when
// containerID is empty.
func (d *Document) AssignParagraph(id, containerID string) error {
	if containerID != "" && !d.hasContainer(containerID) {
		return fmt.Errorf("editor: container %q does not exist", containerID)
	}
	for i := range d.paragraphs {
		if d.paragraphs[i].ID == id {
			d.paragraphs[i].ContainerID = containerID
			d.paragraphs[i].UpdatedAt = d.now()
			return nil
		}
	}
	return fmt.Errorf("editor: paragraph %q does not exist", id)
}

// MoveContainer assigns a new order index to a container.
func (d *Document) MoveContainer(id string, order int) error {
	if order < 0 {
		return fmt.Errorf("editor: order must be non-negative")
	}
	for i := range d.containers {
		if d.containers[i].ID == id {
			d.containers[i].Order = order
			d.containers[i].UpdatedAt = d.now()
			return nil
		}
	}
	return fmt.Errorf("editor: container %q does not exist", id)
}

// MoveParagraph assigns a new order index to a paragraph.
func (d *Document) MoveParagraph(id string, order int) error {
	if order < 0 {
		return fmt.Errorf("editor: order must be non-negative")
	}
	for i := range d.paragraphs {
		if d.paragraphs[i].ID == id {
			d.paragraphs[i].Order = order
			d.paragraphs[i].UpdatedAt = d.now()
			return nil
		}
	}
	return fmt.Errorf("editor: paragraph %q does not exist", id)
}

// DeleteContainer removes a container and unassigns its paragraphs.
func (d *Document) DeleteContainer(id string) error {
	for i := range d.containers {
		if d.containers[i].ID != id {
			continue
		}
		d.containers = append(d.containers[:i], d.containers[i+1:]...)
		now := d.now()
		for j := range d.paragraphs {
			if d.paragraphs[j].ContainerID == id {
				d.paragraphs[j].ContainerID = ""
				d.paragraphs[j].UpdatedAt = now
			}
		}
		return nil
	}
	return fmt.Errorf("editor: container %q does not exist", id)
}

// DeleteParagraph removes a paragraph.
func (d *Document) DeleteParagraph(id string) error {
	for i := range d.paragraphs {
		if d.paragraphs[i].ID == id {
			d.paragraphs = append(d.paragraphs[:i], d.paragraphs[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("editor: paragraph %q does not exist", id)
}

// Reset discards every block.
func (d *Document) Reset() {
	d.containers = nil
	d.paragraphs = nil
}

// Load replaces the document contents wholesale, e.g. from a markdown parse.
func (d *Document) Load(containers []Container, paragraphs []Paragraph) {
	d.containers = append([]Container(nil), containers...)
	d.paragraphs = append([]Paragraph(nil), paragraphs...)
}

// Containers returns the containers sorted by order.
func (d *Document) Containers() []Container {
	out := append([]Container(nil), d.containers...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out
}

// Paragraphs returns the paragraphs sorted by order.
func (d *Document) Paragraphs() []Paragraph {
	out := append([]Paragraph(nil), d.paragraphs...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out
}

func (d *Document) hasContainer(id string) bool {
	for _, container := range d.containers {
		if container.ID == id {
			return true
		}
	}
	return false
}
