package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/goliatone/go-postwizard/pkg/editor"
	"github.com/goliatone/go-postwizard/pkg/guard"
	"github.com/goliatone/go-postwizard/pkg/markdown"
	"github.com/goliatone/go-postwizard/pkg/schema"
	"github.com/goliatone/go-postwizard/pkg/steps"
	"github.com/goliatone/go-postwizard/pkg/wizard"
)

// Categories are the post categories offered on the metadata step.
var Categories = []string{"tech", "life", "review", "news"}

// Flow walks a wizard through its five steps over a prompt driver.
type Flow struct {
	wizard *wizard.Wizard
	driver PromptDriver
}

// NewFlow wires a flow. Both the wizard and the driver are required.
func NewFlow(w *wizard.Wizard, driver PromptDriver) (*Flow, error) {
	if w == nil {
		return nil, fmt.Errorf("tui: wizard is required")
	}
	if driver == nil {
		return nil, fmt.Errorf("tui: prompt driver is required")
	}
	return &Flow{wizard: w, driver: driver}, nil
}

// Run offers a draft restore, prompts through every step, and submits. It
// returns the submission result; an aborted prompt surfaces as ErrAborted.
func (f *Flow) Run(ctx context.Context) (wizard.SubmitResult, error) {
	if err := f.offerDraft(ctx); err != nil {
		return wizard.SubmitResult{}, err
	}

	for {
		step := f.wizard.CurrentStep()
		if err := f.runStep(ctx, step); err != nil {
			return wizard.SubmitResult{}, err
		}
		f.saveDraft(ctx)

		if step == steps.StepCount {
			break
		}
		if _, err := f.wizard.Next(ctx); err != nil {
			return wizard.SubmitResult{}, err
		}

		progress := f.wizard.Progress()
		f.driver.Info(ctx, fmt.Sprintf("step %d of %d (%.0f%% complete)",
			progress.Step, progress.StepCount, progress.CompletionPercent))
	}

	return f.wizard.Submit(ctx)
}

func (f *Flow) offerDraft(ctx context.Context) error {
	found, err := f.wizard.LoadDraft(ctx)
	if err != nil || !found {
		// No store or no usable draft; start clean.
		return nil
	}

	keep, err := f.driver.Confirm(ctx, ConfirmConfig{
		Message: "A saved draft was found. Continue where you left off?",
		Default: true,
	})
	if err != nil {
		return err
	}
	if !keep {
		f.wizard.SetValues(nil)
		return f.wizard.ClearDraft(ctx)
	}
	return nil
}

// saveDraft is best-effort between steps; a wizard without a store is fine.
func (f *Flow) saveDraft(ctx context.Context) {
	f.wizard.SaveDraft(ctx)
}

func (f *Flow) runStep(ctx context.Context, step int) error {
	switch step {
	case 1:
		return f.profileStep(ctx)
	case 2:
		return f.metadataStep(ctx)
	case 3:
		return f.galleryStep(ctx)
	case 4:
		return f.editorStep(ctx)
	case 5:
		return f.reviewStep(ctx)
	default:
		return fmt.Errorf("tui: unknown step %d", step)
	}
}

func (f *Flow) profileStep(ctx context.Context) error {
	nickname, err := f.driver.Input(ctx, InputConfig{
		Message:   "Nickname",
		Default:   f.wizard.Values().Nickname,
		Validator: requireText("nickname"),
	})
	if err != nil {
		return err
	}
	if err := f.wizard.SetField(schema.FieldNickname, nickname); err != nil {
		return err
	}

	email, err := f.driver.Input(ctx, InputConfig{
		Message: "Email",
		Default: f.wizard.Values().Email,
		Validator: func(value string) error {
			if !guard.IsValidEmail(value) {
				return fmt.Errorf("not a valid email address")
			}
			return nil
		},
	})
	if err != nil {
		return err
	}
	return f.wizard.SetField(schema.FieldEmail, email)
}

func (f *Flow) metadataStep(ctx context.Context) error {
	title, err := f.driver.Input(ctx, InputConfig{
		Message:   "Post title",
		Default:   f.wizard.Values().Title,
		Validator: requireText("title"),
	})
	if err != nil {
		return err
	}
	if err := f.wizard.SetField(schema.FieldTitle, title); err != nil {
		return err
	}

	description, err := f.driver.Input(ctx, InputConfig{
		Message:   "Short description",
		Default:   f.wizard.Values().Description,
		Validator: requireText("description"),
	})
	if err != nil {
		return err
	}
	if err := f.wizard.SetField(schema.FieldDescription, description); err != nil {
		return err
	}

	index, err := f.driver.Select(ctx, SelectConfig{
		Message: "Category",
		Options: Categories,
	})
	if err != nil {
		return err
	}
	if index >= 0 && index < len(Categories) {
		if err := f.wizard.SetField(schema.FieldCategory, Categories[index]); err != nil {
			return err
		}
	}

	tags, err := f.driver.Input(ctx, InputConfig{
		Message: "Tags (comma separated, optional)",
		Default: strings.Join(f.wizard.Values().Tags, ", "),
	})
	if err != nil {
		return err
	}
	return f.wizard.SetField(schema.FieldTags, splitTags(tags))
}

func (f *Flow) galleryStep(ctx context.Context) error {
	image, err := f.driver.Input(ctx, InputConfig{
		Message:   "Main image path or URL",
		Validator: requireText("main image"),
	})
	if err != nil {
		return err
	}
	return f.wizard.SetField(schema.FieldMainImage, image)
}

var editorActions = []string{"Add section", "Add paragraph", "Finish editing"}

// editorStep builds the post body through the editor document and loops
// until the document transfers cleanly into the form.
func (f *Flow) editorStep(ctx context.Context) error {
	doc := f.wizard.Document()
	for {
		action, err := f.driver.Select(ctx, SelectConfig{
			Message: "Editor",
			Options: editorActions,
		})
		if err != nil {
			return err
		}

		switch action {
		case 0:
			name, err := f.driver.Input(ctx, InputConfig{
				Message:   "Section heading",
				Validator: requireText("section heading"),
			})
			if err != nil {
				return err
			}
			if _, err := doc.AddContainer(name); err != nil {
				f.driver.Info(ctx, err.Error())
			}
		case 1:
			content, err := f.driver.TextArea(ctx, TextAreaConfig{
				Message: "Paragraph text",
			})
			if err != nil {
				return err
			}
			containerID, err := f.pickSection(ctx, doc.Containers())
			if err != nil {
				return err
			}
			if _, err := doc.AddParagraph(content, containerID); err != nil {
				f.driver.Info(ctx, err.Error())
			}
		case 2:
			if _, err := f.wizard.TransferFromEditor(ctx, markdown.GenerateOptions{}); err != nil {
				f.driver.Info(ctx, fmt.Sprintf("Editor not ready: %v", err))
				continue
			}
			return nil
		default:
			return fmt.Errorf("tui: unknown editor action %d", action)
		}
	}
}

// pickSection asks which section a paragraph belongs to. Without sections
// the paragraph stays unassigned.
func (f *Flow) pickSection(ctx context.Context, containers []editor.Container) (string, error) {
	if len(containers) == 0 {
		return "", nil
	}

	options := make([]string, 0, len(containers)+1)
	for _, container := range containers {
		options = append(options, container.Name)
	}
	options = append(options, "(no section)")

	index, err := f.driver.Select(ctx, SelectConfig{
		Message: "Add to section",
		Options: options,
	})
	if err != nil {
		return "", err
	}
	if index >= 0 && index < len(containers) {
		return containers[index].ID, nil
	}
	return "", nil
}

func (f *Flow) reviewStep(ctx context.Context) error {
	comments, err := f.driver.Confirm(ctx, ConfirmConfig{
		Message: "Allow comments on this post?",
		Default: true,
	})
	if err != nil {
		return err
	}
	if err := f.wizard.SetField(schema.FieldAllowComments, comments); err != nil {
		return err
	}

	agree, err := f.driver.Confirm(ctx, ConfirmConfig{
		Message: "Do you agree to the posting terms?",
	})
	if err != nil {
		return err
	}
	return f.wizard.SetField(schema.FieldAgreeToTerms, agree)
}

func requireText(label string) func(string) error {
	return func(value string) error {
		if !guard.IsNonEmptyString(value) {
			return fmt.Errorf("%s is required", label)
		}
		return nil
	}
}

func splitTags(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
