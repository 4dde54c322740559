package manifest

import (
	"path/filepath"
	"time"

	"github.com/lkoehl/jsmanifest/internal/errs"
	"github.com/lkoehl/jsmanifest/internal/trace"
)

// Version is the manifest schema version stamped into every build.
const Version = "1.0"

// Builder aggregates per-file extraction results into a
// ProjectManifest.
type Builder struct {
	tracer trace.Tracer
}

// NewBuilder creates a Builder. tracer may be nil.
func NewBuilder(tracer trace.Tracer) *Builder {
	if tracer == nil {
		tracer = trace.Nop()
	}
	return &Builder{tracer: tracer}
}

// Build assembles the project manifest from file results, relativizing
// paths against rootPath and computing roll-up statistics. The input
// order is preserved; an empty input is an input error.
func (b *Builder) Build(results []FileResult, rootPath string) (*ProjectManifest, error) {
	if len(results) == 0 {
		return nil, errs.Input("no extraction results to build a manifest from")
	}

	pm := &ProjectManifest{
		Version:   Version,
		Generated: time.Now().UTC().Format(time.RFC3339),
		RootPath:  rootPath,
		Files:     make([]FileManifest, 0, len(results)),
	}

	for _, res := range results {
		fm := FileManifest{
			Path:     relativize(res.Path, rootPath),
			Filename: filepath.Base(res.Path),
			// Upstream may hand over partially-populated metadata;
			// empty slices keep the serialized shape stable.
			Symbols:      []Symbol{},
			Dependencies: []Dependency{},
		}
		if md := res.Metadata; md != nil {
			if md.Symbols != nil {
				fm.Symbols = md.Symbols
			}
			if md.Dependencies != nil {
				fm.Dependencies = md.Dependencies
			}
			fm.HasDefaultExport = md.HasDefaultExport
		}

		pm.Stats.TotalSymbols += len(fm.Symbols)
		pm.Stats.TotalDependencies += len(fm.Dependencies)
		for i := range fm.Symbols {
			b.countSymbol(&pm.Stats.TypeStats, fm.Symbols[i].Type)
		}

		pm.Files = append(pm.Files, fm)
	}

	pm.Stats.TotalFiles = len(pm.Files)
	b.tracer.Tracef("built manifest: %d files, %d symbols, %d dependencies",
		pm.Stats.TotalFiles, pm.Stats.TotalSymbols, pm.Stats.TotalDependencies)
	return pm, nil
}

// countSymbol keeps TypeStats in lockstep with the Symbol variant set.
// Unknown kinds are left uncounted, so the per-kind sum may be lower
// than TotalSymbols but never higher.
func (b *Builder) countSymbol(ts *TypeStats, t SymbolType) {
	switch t {
	case SymbolFunction:
		ts.Functions++
	case SymbolClass:
		ts.Classes++
	case SymbolConstant:
		ts.Constants++
	case SymbolExport:
		ts.Exports++
	default:
		b.tracer.Tracef("uncounted symbol kind %q", t)
	}
}

// relativize computes path relative to rootPath with forward slashes.
// Absolute paths never appear past the builder boundary; a path that
// cannot be relativized is returned slash-normalized as-is.
func relativize(path, rootPath string) string {
	rel, err := filepath.Rel(rootPath, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}
