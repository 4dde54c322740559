package generator

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lkoehl/jsmanifest/internal/config"
	"github.com/lkoehl/jsmanifest/internal/errs"
)

// Test Plan for the Generator pipeline:
// - A full run discovers, extracts, aggregates and writes a manifest
// - Default output is the simplified format; full format keeps stats
// - String interning adds the stringTable when enabled
// - Compression appends .gz to the output path
// - Zero matching files is an input error and writes nothing
// - One malformed file aborts the whole run
// - A cancelled context stops the run
// - Progress events fire in pipeline order

func writeSource(t *testing.T, root, rel, content string) {
	t.Helper()
	full := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Output.File = filepath.Join(t.TempDir(), "project.manifest.json")
	return cfg
}

func TestRun_GeneratesManifest(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeSource(t, root, "src/math.ts", "export function add(a: number, b: number): number { return a + b; }\n")
	writeSource(t, root, "src/dog.ts", "import { Animal } from './animal';\nclass Dog extends Animal {}\nexport default Dog;\n")

	cfg := testConfig(t)
	gen := New(cfg, root, nil, nil)

	summary, err := gen.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, cfg.Output.File, summary.OutputPath)
	assert.Equal(t, 2, summary.TotalFiles)
	assert.Equal(t, 2, summary.TotalSymbols)
	assert.Equal(t, 1, summary.TotalDependencies)
	assert.Greater(t, summary.Duration.Nanoseconds(), int64(0))

	data, err := os.ReadFile(summary.OutputPath)
	require.NoError(t, err)

	var decoded struct {
		Version  string `json:"version"`
		RootPath string `json:"rootPath"`
		Files    []struct {
			Path             string `json:"path"`
			HasDefaultExport bool   `json:"hasDefaultExport"`
			Symbols          []struct {
				Name string `json:"name"`
				Type string `json:"type"`
			} `json:"symbols"`
		} `json:"files"`
	}
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, "1.0", decoded.Version)
	assert.Equal(t, root, decoded.RootPath)
	require.Len(t, decoded.Files, 2)

	// Discovery order is deterministic, so dog.ts precedes math.ts.
	assert.Equal(t, "src/dog.ts", decoded.Files[0].Path)
	assert.True(t, decoded.Files[0].HasDefaultExport)
	assert.Equal(t, "src/math.ts", decoded.Files[1].Path)
	require.Len(t, decoded.Files[1].Symbols, 1)
	assert.Equal(t, "add", decoded.Files[1].Symbols[0].Name)
	assert.Equal(t, "function", decoded.Files[1].Symbols[0].Type)
}

func TestRun_DefaultFormatDropsStats(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeSource(t, root, "a.ts", "export const x = 1;\n")

	cfg := testConfig(t)
	gen := New(cfg, root, nil, nil)

	summary, err := gen.Run(context.Background())
	require.NoError(t, err)

	data, err := os.ReadFile(summary.OutputPath)
	require.NoError(t, err)
	assert.NotContains(t, string(data), `"stats"`)
	assert.NotContains(t, string(data), `"generated"`)
	assert.NotContains(t, string(data), `"loc"`)
}

func TestRun_FullFormat(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeSource(t, root, "a.ts", "export const x = 1;\n")

	cfg := testConfig(t)
	cfg.Output.FullFormat = true
	gen := New(cfg, root, nil, nil)

	summary, err := gen.Run(context.Background())
	require.NoError(t, err)

	data, err := os.ReadFile(summary.OutputPath)
	require.NoError(t, err)

	text := string(data)
	assert.Contains(t, text, `"stats"`)
	assert.Contains(t, text, `"generated"`)
	assert.Contains(t, text, `"filename"`)
	assert.Contains(t, text, `"loc"`)
}

func TestRun_Interned(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeSource(t, root, "a.ts", "export const x = 1;\n")

	cfg := testConfig(t)
	cfg.Output.Intern = true
	gen := New(cfg, root, nil, nil)

	summary, err := gen.Run(context.Background())
	require.NoError(t, err)

	data, err := os.ReadFile(summary.OutputPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"stringTable"`)
	assert.Contains(t, string(data), `"$ref"`)
}

func TestRun_Compress(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeSource(t, root, "a.ts", "export const x = 1;\n")

	cfg := testConfig(t)
	cfg.Output.Compress = true
	gen := New(cfg, root, nil, nil)

	summary, err := gen.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, cfg.Output.File+".gz", summary.OutputPath)
	assert.FileExists(t, summary.OutputPath)
}

func TestRun_NoFiles(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	gen := New(cfg, t.TempDir(), nil, nil)

	_, err := gen.Run(context.Background())
	require.Error(t, err)
	assert.True(t, errs.IsKind(err, errs.KindInput))
	assert.NoFileExists(t, cfg.Output.File)
}

func TestRun_ParseErrorAborts(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeSource(t, root, "good.ts", "export const x = 1;\n")
	writeSource(t, root, "z_bad.ts", "function ((( {\n")

	cfg := testConfig(t)
	gen := New(cfg, root, nil, nil)

	_, err := gen.Run(context.Background())
	require.Error(t, err)
	assert.True(t, errs.IsKind(err, errs.KindParse))
	assert.Contains(t, err.Error(), "z_bad.ts")
	assert.NoFileExists(t, cfg.Output.File)
}

func TestRun_CancelledContext(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeSource(t, root, "a.ts", "export const x = 1;\n")

	cfg := testConfig(t)
	gen := New(cfg, root, nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := gen.Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

type recordingProgress struct {
	discovered int
	started    int
	processed  []string
	completed  *Summary
}

func (r *recordingProgress) OnDiscoveryComplete(n int)    { r.discovered = n }
func (r *recordingProgress) OnFileProcessingStart(n int)  { r.started = n }
func (r *recordingProgress) OnFileProcessed(path string)  { r.processed = append(r.processed, path) }
func (r *recordingProgress) OnComplete(summary *Summary)  { r.completed = summary }

func TestRun_ProgressEvents(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeSource(t, root, "a.ts", "export const x = 1;\n")
	writeSource(t, root, "b.ts", "export const y = 2;\n")

	cfg := testConfig(t)
	progress := &recordingProgress{}
	gen := New(cfg, root, progress, nil)

	summary, err := gen.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, progress.discovered)
	assert.Equal(t, 2, progress.started)
	require.Len(t, progress.processed, 2)
	assert.Equal(t, filepath.Join(root, "a.ts"), progress.processed[0])
	assert.Equal(t, filepath.Join(root, "b.ts"), progress.processed[1])
	assert.Equal(t, summary, progress.completed)
}
