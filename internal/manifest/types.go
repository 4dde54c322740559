// Package manifest defines the symbol/dependency data model and the
// builder that aggregates per-file extraction results into a project
// manifest.
package manifest

// SymbolType discriminates Symbol variants.
type SymbolType string

const (
	SymbolFunction SymbolType = "function"
	SymbolClass    SymbolType = "class"
	SymbolConstant SymbolType = "constant"
	SymbolExport   SymbolType = "export"
)

// DependencyType discriminates Dependency variants.
type DependencyType string

const (
	DependencyImport  DependencyType = "import"
	DependencyRequire DependencyType = "require"
)

// Specifier kinds for import dependencies.
const (
	SpecifierDefault   = "default"
	SpecifierNamespace = "namespace"
	SpecifierNamed     = "named"
)

// Location is a line/column span in the source file. Rows and columns
// are 1-based.
type Location struct {
	StartLine   int `json:"startLine"`
	StartColumn int `json:"startColumn"`
	EndLine     int `json:"endLine"`
	EndColumn   int `json:"endColumn"`
}

// PatternEntry is one property of an object-pattern parameter or one
// element of an array-pattern parameter.
type PatternEntry struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// Parameter is one function or method parameter. The shape is encoded
// positionally: destructuring parameters use the sentinel names
// "objectPattern"/"arrayPattern" and carry their entries, rest
// parameters carry a "..." name prefix, and parameters the extractor
// cannot classify degrade to the sentinel name "unknown".
type Parameter struct {
	Name       string         `json:"name"`
	Type       string         `json:"type"`
	HasDefault bool           `json:"hasDefault,omitempty"`
	Properties []PatternEntry `json:"properties,omitempty"`
	Elements   []PatternEntry `json:"elements,omitempty"`
}

// Field is one non-method class member.
type Field struct {
	Name   string `json:"name"`
	Static bool   `json:"static"`
	Type   string `json:"type"`
}

// Method kinds.
const (
	MethodKindConstructor = "constructor"
	MethodKindMethod      = "method"
	MethodKindGetter      = "get"
	MethodKindSetter      = "set"
)

// Method is one class method, accessor or constructor.
type Method struct {
	Name       string      `json:"name"`
	Kind       string      `json:"kind"`
	Static     bool        `json:"static"`
	Params     []Parameter `json:"params"`
	ReturnType string      `json:"returnType"`
}

// Symbol is one recognized, named declaration. Variant-specific fields
// are populated according to Type and omitted otherwise. Name is not
// guaranteed unique within a file; slice order is declaration order.
type Symbol struct {
	Name string     `json:"name"`
	Type SymbolType `json:"type"`
	Loc  *Location  `json:"loc,omitempty"`

	// function
	Params     []Parameter `json:"params,omitempty"`
	ReturnType string      `json:"returnType,omitempty"`

	// class
	Extends string   `json:"extends,omitempty"`
	Fields  []Field  `json:"fields,omitempty"`
	Methods []Method `json:"methods,omitempty"`

	// export: the binding name at the declaration site, as opposed to
	// Name which is the externally visible export name.
	LocalName string `json:"localName,omitempty"`
}

// Specifier is one imported binding of an import dependency.
type Specifier struct {
	Kind     string `json:"kind"`
	Local    string `json:"local"`
	Imported string `json:"imported,omitempty"`
}

// Dependency is one cross-module reference: a static import or a
// dynamic require call. Require dependencies carry only the source.
type Dependency struct {
	Type       DependencyType `json:"type"`
	Source     string         `json:"source"`
	Specifiers []Specifier    `json:"specifiers,omitempty"`
}

// FileMetadata is the raw extraction result for one file, before
// aggregation. Nil slices are tolerated by the builder.
type FileMetadata struct {
	Symbols          []Symbol
	Dependencies     []Dependency
	HasDefaultExport bool
}

// FileResult pairs a source path with its extraction metadata.
type FileResult struct {
	Path     string
	Metadata *FileMetadata
}

// FileManifest is the aggregated description of one source file.
// Path is always relative to the project root.
type FileManifest struct {
	Path             string       `json:"path"`
	Filename         string       `json:"filename"`
	Symbols          []Symbol     `json:"symbols"`
	Dependencies     []Dependency `json:"dependencies"`
	HasDefaultExport bool         `json:"hasDefaultExport"`
}

// TypeStats counts symbols per kind. Kinds outside the four known
// variants are deliberately not counted.
type TypeStats struct {
	Functions int `json:"function"`
	Classes   int `json:"class"`
	Constants int `json:"constant"`
	Exports   int `json:"export"`
}

// Stats holds roll-up statistics for the whole manifest.
type Stats struct {
	TotalFiles        int       `json:"totalFiles"`
	TotalSymbols      int       `json:"totalSymbols"`
	TotalDependencies int       `json:"totalDependencies"`
	TypeStats         TypeStats `json:"typeStats"`
}

// ProjectManifest is the serializable description of a scanned
// project. File order matches extraction input order.
type ProjectManifest struct {
	Version   string         `json:"version"`
	Generated string         `json:"generated"`
	RootPath  string         `json:"rootPath"`
	Files     []FileManifest `json:"files"`
	Stats     Stats          `json:"stats"`
}
