// Package generator orchestrates the manifest pipeline: discovery,
// strictly sequential per-file extraction, aggregation, optional
// optimization passes and the final write.
package generator

import (
	"context"
	"encoding/json"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/lkoehl/jsmanifest/internal/config"
	"github.com/lkoehl/jsmanifest/internal/discovery"
	"github.com/lkoehl/jsmanifest/internal/errs"
	"github.com/lkoehl/jsmanifest/internal/extractor"
	"github.com/lkoehl/jsmanifest/internal/manifest"
	"github.com/lkoehl/jsmanifest/internal/optimize"
	"github.com/lkoehl/jsmanifest/internal/output"
	"github.com/lkoehl/jsmanifest/internal/trace"
)

// ProgressReporter receives pipeline progress events. Implementations
// must tolerate being called from the generator's goroutine only; the
// pipeline itself is single-threaded.
type ProgressReporter interface {
	OnDiscoveryComplete(fileCount int)
	OnFileProcessingStart(totalFiles int)
	OnFileProcessed(path string)
	OnComplete(summary *Summary)
}

// NopProgress is a ProgressReporter that does nothing.
type NopProgress struct{}

func (NopProgress) OnDiscoveryComplete(int)   {}
func (NopProgress) OnFileProcessingStart(int) {}
func (NopProgress) OnFileProcessed(string)    {}
func (NopProgress) OnComplete(*Summary)       {}

// Summary describes one completed generation run.
type Summary struct {
	OutputPath        string
	TotalFiles        int
	TotalSymbols      int
	TotalDependencies int
	Duration          time.Duration
}

// Generator runs the manifest pipeline for one root directory. It may
// be reused across runs (watch mode regenerates with the same
// Generator).
type Generator struct {
	cfg       *config.Config
	rootDir   string
	extractor *extractor.Extractor
	builder   *manifest.Builder
	progress  ProgressReporter
	tracer    trace.Tracer
	runID     string
}

// New creates a Generator. progress and tracer may be nil.
func New(cfg *config.Config, rootDir string, progress ProgressReporter, tracer trace.Tracer) *Generator {
	if progress == nil {
		progress = NopProgress{}
	}
	if tracer == nil {
		tracer = trace.Nop()
	}
	return &Generator{
		cfg:       cfg,
		rootDir:   rootDir,
		extractor: extractor.New(tracer),
		builder:   manifest.NewBuilder(tracer),
		progress:  progress,
		tracer:    tracer,
		runID:     uuid.NewString(),
	}
}

// Run executes one full pipeline pass and returns a run summary.
// Files are processed strictly sequentially in discovery order, so
// the manifest's file order is deterministic without a sort step. Any
// file-system or parse failure aborts the run.
func (g *Generator) Run(ctx context.Context) (*Summary, error) {
	start := time.Now()
	g.tracer.Tracef("run %s: scanning %s", g.runID, g.rootDir)

	disc, err := discovery.New(g.rootDir, g.cfg.Paths.Include, g.cfg.Paths.Ignore)
	if err != nil {
		return nil, err
	}
	files, err := disc.Files()
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, errs.Input("no source files found under %s", g.rootDir)
	}
	g.progress.OnDiscoveryComplete(len(files))

	g.progress.OnFileProcessingStart(len(files))
	results := make([]manifest.FileResult, 0, len(files))
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		source, err := os.ReadFile(path)
		if err != nil {
			return nil, errs.FileSystem(path, err)
		}

		md, err := g.extractor.Extract(source, path)
		if err != nil {
			return nil, err
		}

		results = append(results, manifest.FileResult{Path: path, Metadata: md})
		g.progress.OnFileProcessed(path)
	}

	pm, err := g.builder.Build(results, g.rootDir)
	if err != nil {
		return nil, err
	}

	data, err := g.serialize(pm)
	if err != nil {
		return nil, err
	}

	outPath, err := output.Write(data, g.cfg.Output.File, g.cfg.Output.Compress)
	if err != nil {
		return nil, err
	}

	summary := &Summary{
		OutputPath:        outPath,
		TotalFiles:        pm.Stats.TotalFiles,
		TotalSymbols:      pm.Stats.TotalSymbols,
		TotalDependencies: pm.Stats.TotalDependencies,
		Duration:          time.Since(start),
	}
	g.progress.OnComplete(summary)
	g.tracer.Tracef("run %s: wrote %s in %s", g.runID, outPath, summary.Duration)
	return summary, nil
}

// serialize applies the configured optimization passes and marshals
// the result: LLM simplification unless full format is requested,
// then string interning when enabled.
func (g *Generator) serialize(pm *manifest.ProjectManifest) ([]byte, error) {
	var payload any = pm
	if !g.cfg.Output.FullFormat {
		payload = optimize.Simplify(pm)
	}

	if g.cfg.Output.Intern {
		interned, err := optimize.Intern(payload)
		if err != nil {
			return nil, err
		}
		payload = interned
	}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return nil, errs.Internal(err)
	}
	return data, nil
}
