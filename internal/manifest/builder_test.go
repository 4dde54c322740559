package manifest

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for the Manifest Builder:
// - Reject an empty result sequence as an input error
// - Preserve input order in the output file list
// - Relativize file paths against the root
// - Tolerate nil metadata and nil slices
// - Keep totals equal to the sum of per-file counts
// - Count type stats per symbol kind, leaving unknown kinds uncounted

func TestBuild_EmptyInputRejected(t *testing.T) {
	t.Parallel()

	_, err := NewBuilder(nil).Build(nil, "/project")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "input")
}

func TestBuild_AggregatesInInputOrder(t *testing.T) {
	t.Parallel()

	root := filepath.Join("/", "project")
	results := []FileResult{
		{
			Path: filepath.Join(root, "src", "b.ts"),
			Metadata: &FileMetadata{
				Symbols: []Symbol{
					{Name: "run", Type: SymbolFunction},
					{Name: "Config", Type: SymbolClass},
				},
				Dependencies: []Dependency{
					{Type: DependencyImport, Source: "fs"},
				},
				HasDefaultExport: true,
			},
		},
		{
			Path: filepath.Join(root, "a.ts"),
			Metadata: &FileMetadata{
				Symbols: []Symbol{
					{Name: "LIMIT", Type: SymbolConstant},
					{Name: "helper", Type: SymbolExport},
				},
				Dependencies: []Dependency{
					{Type: DependencyRequire, Source: "path"},
					{Type: DependencyRequire, Source: "os"},
				},
			},
		},
	}

	pm, err := NewBuilder(nil).Build(results, root)
	require.NoError(t, err)

	assert.Equal(t, Version, pm.Version)
	assert.Equal(t, root, pm.RootPath)

	generated, err := time.Parse(time.RFC3339, pm.Generated)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().UTC(), generated, time.Minute)

	// Input order preserved, no sorting.
	require.Len(t, pm.Files, 2)
	assert.Equal(t, "src/b.ts", pm.Files[0].Path)
	assert.Equal(t, "b.ts", pm.Files[0].Filename)
	assert.True(t, pm.Files[0].HasDefaultExport)
	assert.Equal(t, "a.ts", pm.Files[1].Path)

	// No absolute path appears past the builder boundary.
	for _, f := range pm.Files {
		assert.False(t, filepath.IsAbs(f.Path))
		assert.False(t, strings.HasPrefix(f.Path, "/"))
	}

	assert.Equal(t, 2, pm.Stats.TotalFiles)
	assert.Equal(t, 4, pm.Stats.TotalSymbols)
	assert.Equal(t, 3, pm.Stats.TotalDependencies)
	assert.Equal(t, TypeStats{Functions: 1, Classes: 1, Constants: 1, Exports: 1}, pm.Stats.TypeStats)
}

func TestBuild_TotalsMatchPerFileSums(t *testing.T) {
	t.Parallel()

	results := []FileResult{
		{Path: "a.ts", Metadata: &FileMetadata{Symbols: make([]Symbol, 3), Dependencies: make([]Dependency, 2)}},
		{Path: "b.ts", Metadata: &FileMetadata{Symbols: make([]Symbol, 5)}},
		{Path: "c.ts", Metadata: &FileMetadata{Dependencies: make([]Dependency, 4)}},
	}

	pm, err := NewBuilder(nil).Build(results, ".")
	require.NoError(t, err)

	symbols, deps := 0, 0
	for _, f := range pm.Files {
		symbols += len(f.Symbols)
		deps += len(f.Dependencies)
	}
	assert.Equal(t, symbols, pm.Stats.TotalSymbols)
	assert.Equal(t, deps, pm.Stats.TotalDependencies)
}

func TestBuild_ToleratesPartialMetadata(t *testing.T) {
	t.Parallel()

	results := []FileResult{
		{Path: "empty.ts", Metadata: nil},
		{Path: "partial.ts", Metadata: &FileMetadata{}},
	}

	pm, err := NewBuilder(nil).Build(results, ".")
	require.NoError(t, err)

	for _, f := range pm.Files {
		assert.NotNil(t, f.Symbols)
		assert.NotNil(t, f.Dependencies)
		assert.Empty(t, f.Symbols)
		assert.Empty(t, f.Dependencies)
		assert.False(t, f.HasDefaultExport)
	}
	assert.Equal(t, 0, pm.Stats.TotalSymbols)
}

func TestBuild_UnknownSymbolKindUncounted(t *testing.T) {
	t.Parallel()

	results := []FileResult{
		{Path: "a.ts", Metadata: &FileMetadata{Symbols: []Symbol{
			{Name: "f", Type: SymbolFunction},
			{Name: "weird", Type: SymbolType("interface")},
		}}},
	}

	pm, err := NewBuilder(nil).Build(results, ".")
	require.NoError(t, err)

	// The unknown kind contributes to the total but not to any
	// per-kind counter, so the per-kind sum stays <= the total.
	assert.Equal(t, 2, pm.Stats.TotalSymbols)
	counted := pm.Stats.TypeStats.Functions + pm.Stats.TypeStats.Classes +
		pm.Stats.TypeStats.Constants + pm.Stats.TypeStats.Exports
	assert.Equal(t, 1, counted)
}
