// Package extractor walks JavaScript/TypeScript syntax trees and
// classifies top-level declarations into a uniform symbol model. It
// performs exactly one depth-first traversal per file and accumulates
// results into an explicit metadata record; no state is shared across
// files.
package extractor

import (
	"path/filepath"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
	typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"

	"github.com/lkoehl/jsmanifest/internal/errs"
	"github.com/lkoehl/jsmanifest/internal/manifest"
	"github.com/lkoehl/jsmanifest/internal/trace"
)

// computedMemberName is the placeholder for class members whose
// computed key cannot be statically resolved. Multiple computed
// members in one class share this name; the collision is documented
// behavior, not a defect to fix here.
const computedMemberName = "computed"

// Extractor extracts symbols and dependencies from one file at a time.
// It is safe to reuse across files; each extraction owns its own
// accumulator.
type Extractor struct {
	tsLang  *sitter.Language
	tsxLang *sitter.Language
	tracer  trace.Tracer
}

// New creates an Extractor. tracer may be nil.
func New(tracer trace.Tracer) *Extractor {
	if tracer == nil {
		tracer = trace.Nop()
	}
	return &Extractor{
		tsLang:  sitter.NewLanguage(typescript.LanguageTypescript()),
		tsxLang: sitter.NewLanguage(typescript.LanguageTSX()),
		tracer:  tracer,
	}
}

// languageFor picks the grammar by file extension: JSX-capable files
// need the TSX grammar, everything else parses with plain TypeScript
// (a superset of JavaScript).
func (e *Extractor) languageFor(filePath string) *sitter.Language {
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".tsx", ".jsx":
		return e.tsxLang
	default:
		return e.tsLang
	}
}

// Extract parses source and walks the tree once, returning the file's
// symbols, dependencies and default-export flag. Extraction is
// all-or-nothing: a malformed file yields a parse error and no
// partial results.
func (e *Extractor) Extract(source []byte, filePath string) (*manifest.FileMetadata, error) {
	parser := sitter.NewParser()
	defer parser.Close()

	parser.SetLanguage(e.languageFor(filePath))

	tree := parser.Parse(source, nil)
	if tree == nil {
		return nil, errs.Parse(filePath, nil, "parser produced no syntax tree")
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		var pos *errs.Position
		if errNode := firstErrorNode(root); errNode != nil {
			p := errNode.StartPosition()
			pos = &errs.Position{Line: int(p.Row) + 1, Column: int(p.Column) + 1}
		}
		return nil, errs.Parse(filePath, pos, "malformed source")
	}

	md := &manifest.FileMetadata{
		Symbols:      []manifest.Symbol{},
		Dependencies: []manifest.Dependency{},
	}

	walkTree(root, func(n *sitter.Node) bool {
		return e.visit(n, source, md)
	})

	e.tracer.Tracef("extracted %s: %d symbols, %d dependencies",
		filePath, len(md.Symbols), len(md.Dependencies))
	return md, nil
}

// visit dispatches on a closed set of node kinds. Unrecognized kinds
// fall through the default arm and contribute nothing themselves,
// though the walk still descends into them. Returning false prunes
// the subtree.
func (e *Extractor) visit(n *sitter.Node, source []byte, md *manifest.FileMetadata) bool {
	switch n.Kind() {
	case "function_declaration", "generator_function_declaration":
		if isTopLevel(n) {
			e.addFunctionDeclaration(n, source, md)
		}
	case "lexical_declaration", "variable_declaration":
		if isTopLevel(n) {
			e.addVariableBindings(n, source, md)
		}
	case "class_declaration":
		if isTopLevel(n) {
			e.addClass(n, source, md)
		}
	case "export_statement":
		return e.handleExport(n, source, md)
	case "import_statement":
		e.addImport(n, source, md)
	case "call_expression":
		e.maybeAddRequire(n, source, md)
	default:
		// Not a declaration kind this extractor models.
	}
	return true
}

// isTopLevel reports whether a declaration sits directly in the
// module body, possibly wrapped in an export statement.
func isTopLevel(n *sitter.Node) bool {
	parent := n.Parent()
	if parent == nil {
		return true
	}
	switch parent.Kind() {
	case "program":
		return true
	case "export_statement":
		return isTopLevel(parent)
	default:
		return false
	}
}

// addFunctionDeclaration records a named function declaration.
// Anonymous declarations cannot be referenced externally and are
// skipped.
func (e *Extractor) addFunctionDeclaration(n *sitter.Node, source []byte, md *manifest.FileMetadata) {
	nameNode := n.ChildByFieldName("name")
	if nameNode == nil {
		return
	}

	md.Symbols = append(md.Symbols, manifest.Symbol{
		Name:       nodeText(nameNode, source),
		Type:       manifest.SymbolFunction,
		Loc:        nodeLocation(n),
		Params:     e.functionParams(n, source),
		ReturnType: resolveAnnotation(n.ChildByFieldName("return_type"), source),
	})
}

// addVariableBindings classifies each declarator of a const/let/var
// statement. Function-valued bindings become function symbols named
// after the binding; require() bindings contribute only their
// dependency (recorded by the call handler); everything else with a
// simple identifier target becomes a constant. Destructured targets
// are silently not recorded.
func (e *Extractor) addVariableBindings(n *sitter.Node, source []byte, md *manifest.FileMetadata) {
	for _, decl := range findChildrenByType(n, "variable_declarator") {
		nameNode := decl.ChildByFieldName("name")
		if nameNode == nil || nameNode.Kind() != "identifier" {
			continue
		}

		value := decl.ChildByFieldName("value")
		switch {
		case isFunctionValue(value):
			md.Symbols = append(md.Symbols, manifest.Symbol{
				Name:       nodeText(nameNode, source),
				Type:       manifest.SymbolFunction,
				Loc:        nodeLocation(decl),
				Params:     e.functionParams(value, source),
				ReturnType: resolveAnnotation(value.ChildByFieldName("return_type"), source),
			})
		case isRequireCall(value, source):
			// The call_expression handler records the dependency.
		default:
			md.Symbols = append(md.Symbols, manifest.Symbol{
				Name: nodeText(nameNode, source),
				Type: manifest.SymbolConstant,
				Loc:  nodeLocation(decl),
			})
		}
	}
}

func isFunctionValue(n *sitter.Node) bool {
	if n == nil {
		return false
	}
	switch n.Kind() {
	case "arrow_function", "function_expression", "generator_function":
		return true
	default:
		return false
	}
}

// functionParams classifies the parameter list of a function-like
// node. Arrow functions with a single unparenthesized parameter carry
// it under the "parameter" field instead of a formal_parameters list.
func (e *Extractor) functionParams(n *sitter.Node, source []byte) []manifest.Parameter {
	params := []manifest.Parameter{}
	if n == nil {
		return params
	}
	if list := n.ChildByFieldName("parameters"); list != nil {
		for _, p := range namedChildren(list) {
			params = append(params, classifyParam(p, source))
		}
		return params
	}
	if single := n.ChildByFieldName("parameter"); single != nil {
		params = append(params, classifyParam(single, source))
	}
	return params
}

// addClass records a named class declaration with its superclass,
// fields and methods in body order.
func (e *Extractor) addClass(n *sitter.Node, source []byte, md *manifest.FileMetadata) {
	nameNode := n.ChildByFieldName("name")
	if nameNode == nil {
		return
	}

	sym := manifest.Symbol{
		Name:    nodeText(nameNode, source),
		Type:    manifest.SymbolClass,
		Loc:     nodeLocation(n),
		Fields:  []manifest.Field{},
		Methods: []manifest.Method{},
	}

	if heritage := findChildByType(n, "class_heritage"); heritage != nil {
		if ext := findChildByType(heritage, "extends_clause"); ext != nil {
			value := ext.ChildByFieldName("value")
			if value == nil {
				value = ext.NamedChild(0)
			}
			sym.Extends = nodeText(value, source)
		}
	}

	for _, member := range namedChildren(n.ChildByFieldName("body")) {
		switch member.Kind() {
		case "method_definition":
			sym.Methods = append(sym.Methods, e.classMethod(member, source))
		case "public_field_definition", "field_definition":
			sym.Fields = append(sym.Fields, manifest.Field{
				Name:   memberName(member.ChildByFieldName("name"), source),
				Static: hasChildOfType(member, "static"),
				Type:   resolveAnnotation(member.ChildByFieldName("type"), source),
			})
		}
	}

	md.Symbols = append(md.Symbols, sym)
}

func (e *Extractor) classMethod(n *sitter.Node, source []byte) manifest.Method {
	name := memberName(n.ChildByFieldName("name"), source)

	kind := manifest.MethodKindMethod
	switch {
	case hasChildOfType(n, "get"):
		kind = manifest.MethodKindGetter
	case hasChildOfType(n, "set"):
		kind = manifest.MethodKindSetter
	case name == "constructor":
		kind = manifest.MethodKindConstructor
	}

	return manifest.Method{
		Name:       name,
		Kind:       kind,
		Static:     hasChildOfType(n, "static"),
		Params:     e.functionParams(n, source),
		ReturnType: resolveAnnotation(n.ChildByFieldName("return_type"), source),
	}
}

// memberName resolves a class member key. Computed keys degrade to a
// shared placeholder name.
func memberName(n *sitter.Node, source []byte) string {
	switch {
	case n == nil:
		return computedMemberName
	case n.Kind() == "computed_property_name":
		return computedMemberName
	case n.Kind() == "string":
		return stringLiteralValue(n, source)
	default:
		return nodeText(n, source)
	}
}

// handleExport processes export statements. Default exports only set
// the file flag; the exported expression is not traversed for
// symbols. Exports wrapping a fresh declaration are handled by the
// declaration's own visit arm, avoiding double counting. Re-export
// specifier lists emit one export symbol per specifier.
func (e *Extractor) handleExport(n *sitter.Node, source []byte, md *manifest.FileMetadata) bool {
	if hasChildOfType(n, "default") {
		md.HasDefaultExport = true
		return false
	}

	if clause := findChildByType(n, "export_clause"); clause != nil {
		for _, spec := range findChildrenByType(clause, "export_specifier") {
			local := nodeText(spec.ChildByFieldName("name"), source)
			exported := local
			if alias := spec.ChildByFieldName("alias"); alias != nil {
				exported = nodeText(alias, source)
			}
			md.Symbols = append(md.Symbols, manifest.Symbol{
				Name:      exported,
				Type:      manifest.SymbolExport,
				Loc:       nodeLocation(spec),
				LocalName: local,
			})
		}
	}

	return true
}

// addImport records one import dependency per import statement, with
// one specifier per imported binding.
func (e *Extractor) addImport(n *sitter.Node, source []byte, md *manifest.FileMetadata) {
	dep := manifest.Dependency{
		Type:       manifest.DependencyImport,
		Source:     stringLiteralValue(n.ChildByFieldName("source"), source),
		Specifiers: []manifest.Specifier{},
	}

	if clause := findChildByType(n, "import_clause"); clause != nil {
		for _, child := range namedChildren(clause) {
			switch child.Kind() {
			case "identifier":
				dep.Specifiers = append(dep.Specifiers, manifest.Specifier{
					Kind:  manifest.SpecifierDefault,
					Local: nodeText(child, source),
				})
			case "namespace_import":
				dep.Specifiers = append(dep.Specifiers, manifest.Specifier{
					Kind:  manifest.SpecifierNamespace,
					Local: nodeText(child.NamedChild(0), source),
				})
			case "named_imports":
				for _, spec := range findChildrenByType(child, "import_specifier") {
					imported := nodeText(spec.ChildByFieldName("name"), source)
					local := imported
					if alias := spec.ChildByFieldName("alias"); alias != nil {
						local = nodeText(alias, source)
					}
					dep.Specifiers = append(dep.Specifiers, manifest.Specifier{
						Kind:     manifest.SpecifierNamed,
						Local:    local,
						Imported: imported,
					})
				}
			}
		}
	}

	md.Dependencies = append(md.Dependencies, dep)
}

// maybeAddRequire records a dynamic require dependency for call
// expressions invoking the bare identifier "require" with exactly one
// string-literal argument, wherever they appear in the file.
func (e *Extractor) maybeAddRequire(n *sitter.Node, source []byte, md *manifest.FileMetadata) {
	if !isRequireCall(n, source) {
		return
	}
	args := namedChildren(n.ChildByFieldName("arguments"))
	md.Dependencies = append(md.Dependencies, manifest.Dependency{
		Type:   manifest.DependencyRequire,
		Source: stringLiteralValue(args[0], source),
	})
}

func isRequireCall(n *sitter.Node, source []byte) bool {
	if n == nil || n.Kind() != "call_expression" {
		return false
	}
	fn := n.ChildByFieldName("function")
	if fn == nil || fn.Kind() != "identifier" || nodeText(fn, source) != "require" {
		return false
	}
	args := namedChildren(n.ChildByFieldName("arguments"))
	return len(args) == 1 && args[0].Kind() == "string"
}
