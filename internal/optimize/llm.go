// Package optimize holds the two manifest post-processing transforms:
// a lossy LLM-oriented projection and a lossless string-interning
// pass. Both produce new values; neither mutates its input.
package optimize

import (
	"github.com/lkoehl/jsmanifest/internal/manifest"
)

// LLMManifest is the reduced manifest shape for token-constrained
// consumers. Statistics, generation metadata, filenames and source
// locations are dropped.
type LLMManifest struct {
	Version  string    `json:"version"`
	RootPath string    `json:"rootPath"`
	Files    []LLMFile `json:"files"`
}

// LLMFile is the reduced per-file shape.
type LLMFile struct {
	Path             string                `json:"path"`
	Symbols          []LLMSymbol           `json:"symbols"`
	Dependencies     []manifest.Dependency `json:"dependencies"`
	HasDefaultExport bool                  `json:"hasDefaultExport"`
}

// LLMSymbol keeps only name, type and the fields relevant to the
// symbol's variant.
type LLMSymbol struct {
	Name string              `json:"name"`
	Type manifest.SymbolType `json:"type"`

	Params     []manifest.Parameter `json:"params,omitempty"`
	ReturnType string               `json:"returnType,omitempty"`

	Extends string            `json:"extends,omitempty"`
	Fields  []manifest.Field  `json:"fields,omitempty"`
	Methods []manifest.Method `json:"methods,omitempty"`

	LocalName string `json:"localName,omitempty"`
}

// Simplify projects a full project manifest to its LLM-optimized
// shape. The projection is pure and one-way: location, statistics and
// provenance fields cannot be recovered from the output.
func Simplify(pm *manifest.ProjectManifest) *LLMManifest {
	out := &LLMManifest{
		Version:  pm.Version,
		RootPath: pm.RootPath,
		Files:    make([]LLMFile, 0, len(pm.Files)),
	}

	for _, file := range pm.Files {
		lf := LLMFile{
			Path:             file.Path,
			Symbols:          make([]LLMSymbol, 0, len(file.Symbols)),
			Dependencies:     file.Dependencies,
			HasDefaultExport: file.HasDefaultExport,
		}
		if lf.Dependencies == nil {
			lf.Dependencies = []manifest.Dependency{}
		}
		for i := range file.Symbols {
			lf.Symbols = append(lf.Symbols, simplifySymbol(&file.Symbols[i]))
		}
		out.Files = append(out.Files, lf)
	}

	return out
}

// simplifySymbol keeps the fields belonging to the symbol's variant
// and nothing else. Fields already absent stay absent, so applying
// the projection to an already-simplified symbol is a no-op.
func simplifySymbol(sym *manifest.Symbol) LLMSymbol {
	out := LLMSymbol{Name: sym.Name, Type: sym.Type}

	switch sym.Type {
	case manifest.SymbolFunction:
		out.Params = sym.Params
		if out.Params == nil {
			out.Params = []manifest.Parameter{}
		}
		out.ReturnType = sym.ReturnType
	case manifest.SymbolClass:
		out.Extends = sym.Extends
		out.Fields = sym.Fields
		out.Methods = sym.Methods
	case manifest.SymbolExport:
		out.LocalName = sym.LocalName
	case manifest.SymbolConstant:
		// Nothing beyond name and type.
	}

	return out
}
