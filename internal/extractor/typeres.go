package extractor

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// anyType is the sentinel for absent or unrecognized type annotations.
const anyType = "any"

// resolveAnnotation resolves a type_annotation wrapper node to its
// canonical string form. A nil annotation resolves to "any".
func resolveAnnotation(annotation *sitter.Node, source []byte) string {
	if annotation == nil {
		return anyType
	}
	return resolveType(annotation.NamedChild(0), source)
}

// resolveType converts a type node into a canonical string
// representation. Resolution is total: malformed, unknown or nil
// nodes resolve to "any", never an error.
func resolveType(node *sitter.Node, source []byte) string {
	if node == nil {
		return anyType
	}

	switch node.Kind() {
	case "predefined_type", "type_identifier":
		return nodeText(node, source)

	case "literal_type":
		// Only the null/undefined keyword types are recognized;
		// value-literal types degrade like any other unknown shape.
		text := nodeText(node, source)
		if text == "null" || text == "undefined" {
			return text
		}
		return anyType

	case "array_type":
		return resolveType(node.NamedChild(0), source) + "[]"

	case "generic_type":
		name := nodeText(node.ChildByFieldName("name"), source)
		args := namedChildren(node.ChildByFieldName("type_arguments"))
		if name == "" {
			return anyType
		}
		if len(args) == 0 {
			return name
		}
		resolved := make([]string, 0, len(args))
		for _, arg := range args {
			resolved = append(resolved, resolveType(arg, source))
		}
		return name + "<" + strings.Join(resolved, ", ") + ">"

	case "union_type":
		return resolveComposite(node, source, " | ")

	case "intersection_type":
		return resolveComposite(node, source, " & ")

	default:
		return anyType
	}
}

// resolveComposite joins the resolved members of a union or
// intersection type. Nested composites of the same kind flatten
// naturally because each side resolves to its own joined form.
func resolveComposite(node *sitter.Node, source []byte, sep string) string {
	members := namedChildren(node)
	parts := make([]string, 0, len(members))
	for _, member := range members {
		parts = append(parts, resolveType(member, source))
	}
	return strings.Join(parts, sep)
}
