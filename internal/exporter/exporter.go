package exporter

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync/atomic"

	"github.com/specialistvlad/flowexport/internal/ctxlog"
	"github.com/specialistvlad/flowexport/internal/exporterr"
	"github.com/specialistvlad/flowexport/internal/flow"
	"github.com/specialistvlad/flowexport/internal/provider"
	"github.com/specialistvlad/flowexport/internal/provider/platforms"
	"github.com/specialistvlad/flowexport/internal/resolver"
	"github.com/specialistvlad/flowexport/internal/templates"
	"github.com/specialistvlad/flowexport/internal/tokenizer"
	"golang.org/x/sync/errgroup"
)

const (
	// DefaultOutputDir is used when no output directory is configured.
	DefaultOutputDir = "output"

	intentsDir  = "intents"
	entitiesDir = "entities"
)

// Exporter compiles projects into export directories.
type Exporter struct {
	outputDir string
	workers   int
	platform  string
	registry  *provider.Registry
	templates *templates.Set
	newID     tokenizer.IDFunc
	observer  Observer
}

// Option configures an Exporter.
type Option func(*Exporter)

// WithOutputDir sets the directory the export is written to.
func WithOutputDir(dir string) Option {
	return func(e *Exporter) { e.outputDir = dir }
}

// WithWorkers bounds the number of message entries compiled at once. Values
// below one select runtime.NumCPU().
func WithWorkers(n int) Option {
	return func(e *Exporter) { e.workers = n }
}

// WithPlatform overrides the platform named by the project.
func WithPlatform(name string) Option {
	return func(e *Exporter) { e.platform = name }
}

// WithRegistry sets the provider registry.
func WithRegistry(r *provider.Registry) Option {
	return func(e *Exporter) { e.registry = r }
}

// WithTemplates sets the template set artifacts are merged over.
func WithTemplates(s *templates.Set) Option {
	return func(e *Exporter) { e.templates = s }
}

// WithIDFunc sets the artifact identifier generator.
func WithIDFunc(f tokenizer.IDFunc) Option {
	return func(e *Exporter) { e.newID = f }
}

// WithObserver registers an observer for pairing state transitions.
func WithObserver(o Observer) Option {
	return func(e *Exporter) { e.observer = o }
}

// New creates an Exporter.
func New(opts ...Option) *Exporter {
	e := &Exporter{
		outputDir: DefaultOutputDir,
		registry:  provider.NewRegistry(platforms.All...),
		templates: templates.Default(),
		newID:     tokenizer.NewID,
		observer:  nopObserver{},
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.workers < 1 {
		e.workers = runtime.NumCPU()
	}
	return e
}

// OutputDir returns the directory the export is written to.
func (e *Exporter) OutputDir() string {
	return e.outputDir
}

// Report summarizes a completed run.
type Report struct {
	OutputDir     string
	Platform      string
	Welcome       string
	Intents       int
	UsersaysFiles int
	Entities      int
	Templates     []string
}

// run holds the per-run state shared by the workers. Everything in it is
// read-only once the bounded phase starts, except the counters.
type run struct {
	*Exporter
	graph      *flow.Graph
	intents    *flow.IntentTable
	privileged *flow.IntentMap
	welcome    string
	provider   *provider.Provider
	platforms  map[string]bool
	intentTpl  map[string]json.RawMessage

	written  atomic.Int64
	usersays atomic.Int64
}

// Run compiles project into the output directory, replacing the artifacts of a
// previous export. The first failing pairing cancels the run and its error is
// returned.
func (e *Exporter) Run(ctx context.Context, project *flow.Project) (*Report, error) {
	logger := ctxlog.FromContext(ctx)

	r, err := e.prepare(project)
	if err != nil {
		return nil, err
	}
	logger.Info("Compiling project.",
		"platform", r.provider.Name(),
		"messages", r.graph.Len(),
		"privileged", r.privileged.Len(),
		"pairings", r.privileged.Pairs(),
		"workers", e.workers,
	)
	if r.welcome != "" {
		logger.Debug("Welcome node detected.", "messageID", r.welcome)
	}

	if err := e.prepareOutput(); err != nil {
		return nil, err
	}

	if err := r.compileMessages(ctx); err != nil {
		logger.Error("Export failed.", "error", err)
		return nil, err
	}

	entities, err := r.writeEntities(ctx, project.Entities)
	if err != nil {
		return nil, err
	}

	copied, err := e.templates.CopyStatic(ctx, e.outputDir)
	if err != nil {
		return nil, err
	}

	report := &Report{
		OutputDir:     e.outputDir,
		Platform:      r.provider.Name(),
		Welcome:       r.welcome,
		Intents:       int(r.written.Load()),
		UsersaysFiles: int(r.usersays.Load()),
		Entities:      entities,
		Templates:     copied,
	}
	logger.Info("Export written.",
		"outputDir", report.OutputDir,
		"intents", report.Intents,
		"usersays", report.UsersaysFiles,
		"entities", report.Entities,
		"templates", len(report.Templates),
	)
	return report, nil
}

func (e *Exporter) prepare(project *flow.Project) (*run, error) {
	if project == nil {
		return nil, exporterr.Errorf(exporterr.GraphIntegrity, "export", "no project")
	}
	graph, err := flow.NewGraph(&project.Board)
	if err != nil {
		return nil, fmt.Errorf("build message graph: %w", err)
	}
	intents := flow.NewIntentTable(project.Intents)
	if err := intents.CheckEdges(graph); err != nil {
		return nil, fmt.Errorf("check intent tags: %w", err)
	}

	tpl, err := e.templates.Intent()
	if err != nil {
		return nil, err
	}
	defaults, err := parseDefaults("intent", tpl)
	if err != nil {
		return nil, exporterr.New(exporterr.Config, "load intent template", err)
	}

	platform := project.Platform
	if e.platform != "" {
		platform = e.platform
	}
	privileged := flow.NewIntentMap(graph.Messages())
	welcome, _ := graph.WelcomeNode(privileged)

	return &run{
		Exporter:   e,
		graph:      graph,
		intents:    intents,
		privileged: privileged,
		welcome:    welcome,
		provider:   e.registry.Provider(platform),
		platforms:  provider.DefaultResponsePlatforms(platform),
		intentTpl:  defaults,
	}, nil
}

// prepareOutput clears what a previous export left in the output directory and
// creates the artifact directories. Files the exporter does not write are kept.
func (e *Exporter) prepareOutput() error {
	static, err := e.templates.Static()
	if err != nil {
		return err
	}
	for _, name := range append([]string{intentsDir, entitiesDir}, static...) {
		path := filepath.Join(e.outputDir, name)
		if err := os.RemoveAll(path); err != nil {
			return exporterr.New(exporterr.IO, "remove "+path, err)
		}
	}
	for _, dir := range []string{intentsDir, entitiesDir} {
		path := filepath.Join(e.outputDir, dir)
		if err := os.MkdirAll(path, 0o755); err != nil {
			return exporterr.New(exporterr.IO, "create "+path, err)
		}
	}
	return nil
}

// compileMessages runs one entry per privileged message on the worker pool.
func (r *run) compileMessages(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)

	for _, id := range r.privileged.Messages() {
		if gctx.Err() != nil {
			break
		}
		for _, intentID := range r.privileged.Intents(id) {
			r.observer.Transition(Pairing{MessageID: id, IntentID: intentID}, Pending)
		}
		id := id // per-iteration copy; go.mod targets Go 1.21
		g.Go(func() error {
			return r.compileMessage(gctx, id)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	// Admission may have stopped on a parent cancellation with no failed entry.
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("export cancelled: %w", err)
	}
	return nil
}

// compileMessage writes the artifacts of every intent leading to message id.
func (r *run) compileMessage(ctx context.Context, id string) error {
	ctx = ctxlog.With(ctx, "messageID", id)
	logger := ctxlog.FromContext(ctx)
	if err := ctx.Err(); err != nil {
		return err
	}

	m, err := r.graph.Message(id)
	if err != nil {
		return err
	}
	chain, err := r.graph.IntermediateNodesOf(m)
	if err != nil {
		return fmt.Errorf("collect intermediate nodes of %q: %w", id, err)
	}
	contexts, err := resolver.Resolve(r.intents, chain, m)
	if err != nil {
		return err
	}
	logger.Debug("Resolved message chain.", "intermediate", len(chain), "contexts", len(contexts))

	for _, intentID := range r.privileged.Intents(id) {
		// Pairings not started before cancellation stay pending.
		if err := ctx.Err(); err != nil {
			return err
		}
		p := Pairing{MessageID: id, IntentID: intentID}
		r.observer.Transition(p, Rendering)
		if err := r.compilePairing(ctx, m, chain, contexts, intentID); err != nil {
			r.observer.Transition(p, Failed)
			logger.Error("Pairing failed.", "intentID", intentID, "error", err)
			return err
		}
		r.observer.Transition(p, Written)
	}
	return nil
}

func (r *run) compilePairing(ctx context.Context, m *flow.Message, chain []*flow.Message, contexts []resolver.Context, intentID string) error {
	intent, err := r.intents.Intent(intentID)
	if err != nil {
		return err
	}

	messages := make([]provider.Response, 0, len(chain)+1)
	for _, node := range append([]*flow.Message{m}, chain...) {
		rendered, err := r.provider.RenderMessage(node)
		if err != nil {
			return fmt.Errorf("render message %q: %w", node.ID, err)
		}
		messages = append(messages, rendered)
	}

	artifact := IntentArtifact{
		ID:         r.newID(),
		Name:       ArtifactName(intent.Name, m.Payload.NodeName),
		LastUpdate: intent.UpdatedAt.EpochMillis(),
		Responses: []IntentResponse{{
			AffectedContexts:         contexts,
			Parameters:               []any{},
			Messages:                 messages,
			DefaultResponsePlatforms: r.platforms,
			Speech:                   []string{},
		}},
		Defaults: r.intentTpl,
	}
	if m.ID == r.welcome {
		artifact.Events = []Event{{Name: WelcomeEvent}}
		artifact.Contexts = []string{}
	} else {
		artifact.Events = []Event{}
		artifact.Contexts = []string{intent.Name}
	}

	dir := filepath.Join(r.outputDir, intentsDir)
	if err := writeJSON(filepath.Join(dir, artifact.Name+".json"), artifact); err != nil {
		return err
	}
	r.written.Add(1)

	if len(intent.Utterances) == 0 {
		return nil
	}
	utterances := tokenizer.Utterances(intent, r.newID)
	if err := writeJSON(filepath.Join(dir, artifact.Name+usersaysSuffix+".json"), utterances); err != nil {
		return err
	}
	r.usersays.Add(1)
	ctxlog.FromContext(ctx).Debug("Intent written.", "intent", artifact.Name, "utterances", len(utterances))
	return nil
}

// writeEntities writes a definition and an entries file per entity. The
// writes are independent and run without a bound.
func (r *run) writeEntities(ctx context.Context, entities []*flow.Entity) (int, error) {
	tpl, err := r.templates.Entity()
	if err != nil {
		return 0, err
	}
	defaults, err := parseDefaults("entity", tpl)
	if err != nil {
		return 0, exporterr.New(exporterr.Config, "load entity template", err)
	}

	dir := filepath.Join(r.outputDir, entitiesDir)
	var g errgroup.Group
	var count atomic.Int64
	for _, ent := range entities {
		if ent == nil {
			continue
		}
		ent := ent // per-iteration copy; go.mod targets Go 1.21
		g.Go(func() error {
			name := SafeName(ent.Name)
			artifact := EntityArtifact{ID: r.newID(), Name: ent.Name, Defaults: defaults}
			if err := writeJSON(filepath.Join(dir, name+".json"), artifact); err != nil {
				return err
			}
			data := []byte(ent.Data)
			if len(data) == 0 {
				data = []byte("[]")
			}
			path := filepath.Join(dir, name+"_entries_"+provider.Lang+".json")
			if err := writeFile(path, data); err != nil {
				return err
			}
			count.Add(1)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}
	ctxlog.FromContext(ctx).Debug("Entities written.", "count", count.Load())
	return int(count.Load()), nil
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return exporterr.New(exporterr.Render, "encode "+filepath.Base(path), err)
	}
	return writeFile(path, data)
}

func writeFile(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return exporterr.New(exporterr.IO, "write "+path, err)
	}
	return nil
}
