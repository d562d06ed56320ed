package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	_ "modernc.org/sqlite"

	"github.com/goliatone/go-postwizard/pkg/draft"
	"github.com/goliatone/go-postwizard/pkg/schema"
	"github.com/goliatone/go-postwizard/pkg/steps"
	"github.com/goliatone/go-postwizard/pkg/tui"
	"github.com/goliatone/go-postwizard/pkg/wizard"
)

func main() {
	draftDir := flag.String("draft-dir", "", "directory for file-backed drafts (disabled if empty)")
	sqlitePath := flag.String("sqlite", "", "sqlite database for drafts (overrides -draft-dir)")
	stepsPath := flag.String("steps", "", "YAML step table (built-in five steps if empty)")
	submitDelay := flag.Duration("submit-delay", time.Second, "simulated submission latency")
	flag.Parse()

	ctx := context.Background()
	registry := schema.NewRegistry()

	store, cleanup, err := buildDraftStore(ctx, registry, *sqlitePath, *draftDir)
	if err != nil {
		log.Fatalf("Failed to open draft store: %v", err)
	}
	if cleanup != nil {
		defer cleanup()
	}

	engine, err := buildEngine(registry, *stepsPath)
	if err != nil {
		log.Fatalf("Failed to build step engine: %v", err)
	}

	opts := []wizard.Option{
		wizard.WithRegistry(registry),
		wizard.WithEngine(engine),
		wizard.WithSubmitDelay(*submitDelay),
		wizard.WithNotifier(wizard.NotifierFunc(printNotification)),
	}
	if store != nil {
		opts = append(opts, wizard.WithDraftStore(store))
	}

	w, err := wizard.New(opts...)
	if err != nil {
		log.Fatalf("Failed to build wizard: %v", err)
	}

	flow, err := tui.NewFlow(w, tui.NewSurveyDriver())
	if err != nil {
		log.Fatalf("Failed to build flow: %v", err)
	}

	result, err := flow.Run(ctx)
	if errors.Is(err, tui.ErrAborted) {
		fmt.Println("Aborted; your draft is saved.")
		os.Exit(1)
	}
	if err != nil {
		log.Fatalf("Wizard failed: %v", err)
	}
	if !result.Success {
		log.Fatalf("Submission blocked; incomplete steps: %v", result.IncompleteSteps)
	}
}

func buildDraftStore(ctx context.Context, registry *schema.Registry, sqlitePath, draftDir string) (draft.Store, func(), error) {
	if sqlitePath != "" {
		db, err := sql.Open("sqlite", sqlitePath)
		if err != nil {
			return nil, nil, err
		}
		store, err := draft.NewSQLiteStore(db, registry)
		if err != nil {
			db.Close()
			return nil, nil, err
		}
		if err := store.Init(ctx); err != nil {
			db.Close()
			return nil, nil, err
		}
		return store, func() { db.Close() }, nil
	}
	if draftDir != "" {
		store, err := draft.NewFileStore(draftDir, registry)
		return store, nil, err
	}
	return nil, nil, nil
}

func buildEngine(registry *schema.Registry, stepsPath string) (*steps.Engine, error) {
	var definitions []steps.Definition
	if stepsPath != "" {
		raw, err := os.ReadFile(stepsPath)
		if err != nil {
			return nil, err
		}
		definitions, err = steps.LoadDefinitions(raw)
		if err != nil {
			return nil, err
		}
	}
	return steps.NewEngine(registry, definitions)
}

func printNotification(n wizard.Notification) {
	fmt.Printf("[%s] %s: %s\n", n.Color, n.Title, n.Description)
}
