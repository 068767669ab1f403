package main

import (
	"context"
	_ "embed"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/comalice/formx"
	"github.com/comalice/formx/builder"
	"github.com/comalice/formx/internal/core"
	"github.com/comalice/formx/internal/extensibility"
	"github.com/comalice/formx/internal/logger"
	"github.com/comalice/formx/internal/primitives"
	"github.com/comalice/formx/internal/production"
	"github.com/comalice/formx/schedule"
)

//go:embed signup.yaml
var defaultSchema []byte

//go:embed edits.yaml
var defaultEdits []byte

type scriptedEdit struct {
	Path  string        `yaml:"path"`
	Value any           `yaml:"value"`
	After time.Duration `yaml:"after"`
}

func main() {
	schemaPath := flag.String("schema", "", "form schema (YAML); defaults to a signup form")
	editsPath := flag.String("edits", "", "scripted edits (YAML list of path/value/after)")
	storeDir := flag.String("store", os.TempDir(), "directory for JSON snapshots")
	level := flag.String("log-level", "INFO", "DEBUG, INFO, WARN or ERROR")
	flag.Parse()

	log := logger.New(*level, logger.FormatConsole).Sugar()
	defer func() { _ = log.Sync() }()

	if err := run(log, *schemaPath, *editsPath, *storeDir); err != nil {
		log.Errorw("Demo failed", "error", err)
		os.Exit(1)
	}
}

func run(log *zap.SugaredLogger, schemaPath, editsPath, storeDir string) error {
	schema, err := loadSchema(schemaPath)
	if err != nil {
		return err
	}
	edits, err := loadEdits(editsPath)
	if err != nil {
		return err
	}

	persister, err := production.NewJSONPersister(storeDir)
	if err != nil {
		return err
	}
	changes := make(chan core.Change, 100)
	publisher := production.NewChannelPublisher(changes, log)
	registry := prometheus.NewRegistry()
	visualizer := &production.DefaultVisualizer{}

	submitter := extensibility.NewLoggingSubmitter(core.SubmitFunc(func(_ context.Context, value any) error {
		fmt.Printf("Submitted: %v\n", value)
		return nil
	}), log)

	tree, err := builder.Build(schema,
		formx.WithLogger(log),
		formx.WithPersister(extensibility.NewLoggingPersister(persister, log)),
		formx.WithPublisher(publisher),
		formx.WithObserver(production.NewMetrics(registry)),
		formx.WithSubmitter(submitter),
	)
	if err != nil {
		return err
	}
	form := tree.Form
	form.Subscribe(func(s formx.FormState) {
		log.Debugw("Form state", "status", s.Status, "dirty", s.Dirty, "valid", s.Valid)
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	replay := extensibility.NewReplaySource(schedule.RealClock(), edits)
	defer replay.Stop()
	err = extensibility.Pump(ctx, replay, tree.Apply, func(e extensibility.Edit, err error) {
		log.Warnw("Edit rejected", "path", e.Path.String(), "error", err)
	})
	if err != nil {
		return err
	}

	// Let the debounce windows close.
	if err := waitIdle(ctx, form); err != nil {
		return err
	}
	if err := form.Submit(); err != nil {
		return err
	}
	if err := form.Settle(ctx); err != nil {
		return err
	}

	state, err := visualizer.ExportJSON(form.State())
	if err != nil {
		return err
	}
	fmt.Printf("Final state:\n%s\n", state)
	fmt.Println("DOT:\n" + visualizer.ExportDOT(form.State().Status))

	if err := form.Close(); err != nil {
		return err
	}
	n := 0
	for range changes {
		n++
	}
	fmt.Printf("Published %d changes, dropped %d\n", n, publisher.Dropped())

	families, err := registry.Gather()
	if err != nil {
		return err
	}
	fmt.Printf("Collected %d metric families\n", len(families))
	return nil
}

func waitIdle(ctx context.Context, form *formx.Form) error {
	ticker := time.NewTicker(10 * time.Millisecond)
	defer ticker.Stop()
	for form.State().Status != formx.StatusIdle {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
	return nil
}

func loadSchema(path string) (builder.Schema, error) {
	if path == "" {
		return builder.ParseSchema(defaultSchema)
	}
	return builder.LoadSchema(path)
}

func loadEdits(path string) ([]extensibility.TimedEdit, error) {
	data := defaultEdits
	if path != "" {
		var err error
		if data, err = os.ReadFile(path); err != nil {
			return nil, fmt.Errorf("read edits: %w", err)
		}
	}
	var script []scriptedEdit
	if err := yaml.Unmarshal(data, &script); err != nil {
		return nil, fmt.Errorf("parse edits: %w", err)
	}
	out := make([]extensibility.TimedEdit, len(script))
	for i, e := range script {
		out[i] = extensibility.TimedEdit{
			Edit:  extensibility.Edit{Path: primitives.ParsePath(e.Path), Value: e.Value},
			After: e.After,
		}
	}
	return out, nil
}
