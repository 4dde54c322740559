package extractor

import (
	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/lkoehl/jsmanifest/internal/manifest"
)

// Sentinel parameter names for destructuring patterns and the lossy
// fallback. Extraction never aborts on an unfamiliar parameter shape;
// it degrades to "unknown" instead.
const (
	objectPatternName = "objectPattern"
	arrayPatternName  = "arrayPattern"
	unknownParamName  = "unknown"
	restPlaceholder   = "...rest"
)

// classifyParam converts one parameter node into a uniform Parameter
// record. TypeScript wraps every formal parameter in a
// required_parameter or optional_parameter node carrying the type
// annotation and default value; bare patterns (an arrow function's
// single unparenthesized parameter) are classified directly.
func classifyParam(node *sitter.Node, source []byte) manifest.Parameter {
	if node == nil {
		return manifest.Parameter{Name: unknownParamName, Type: anyType}
	}

	switch node.Kind() {
	case "required_parameter", "optional_parameter":
		typ := resolveAnnotation(node.ChildByFieldName("type"), source)
		hasDefault := node.ChildByFieldName("value") != nil
		pattern := node.ChildByFieldName("pattern")
		return classifyPattern(pattern, source, typ, hasDefault)
	default:
		return classifyPattern(node, source, anyType, false)
	}
}

// classifyPattern dispatches on the five recognized parameter shapes
// in order: identifier, defaulted, object pattern, array pattern,
// rest. The first structural match wins; everything else degrades to
// the "unknown" fallback.
func classifyPattern(pattern *sitter.Node, source []byte, typ string, hasDefault bool) manifest.Parameter {
	if pattern == nil {
		return manifest.Parameter{Name: unknownParamName, Type: typ}
	}

	switch pattern.Kind() {
	case "identifier":
		return manifest.Parameter{
			Name:       nodeText(pattern, source),
			Type:       typ,
			HasDefault: hasDefault,
		}

	case "assignment_pattern":
		// JavaScript-style default: classify the target with the
		// default flag forced on.
		return classifyPattern(pattern.ChildByFieldName("left"), source, typ, true)

	case "object_pattern":
		return manifest.Parameter{
			Name:       objectPatternName,
			Type:       typ,
			HasDefault: hasDefault,
			Properties: objectPatternEntries(pattern, source),
		}

	case "array_pattern":
		return manifest.Parameter{
			Name:       arrayPatternName,
			Type:       typ,
			HasDefault: hasDefault,
			Elements:   arrayPatternEntries(pattern, source),
		}

	case "rest_pattern":
		return manifest.Parameter{
			Name:       "..." + nodeText(pattern.NamedChild(0), source),
			Type:       typ,
			HasDefault: hasDefault,
		}

	default:
		return manifest.Parameter{Name: unknownParamName, Type: anyType}
	}
}

// objectPatternEntries lists the properties of an object-destructuring
// parameter in declaration order. Rest properties degrade to a single
// placeholder entry.
func objectPatternEntries(pattern *sitter.Node, source []byte) []manifest.PatternEntry {
	entries := []manifest.PatternEntry{}
	for _, prop := range namedChildren(pattern) {
		switch prop.Kind() {
		case "shorthand_property_identifier_pattern":
			entries = append(entries, manifest.PatternEntry{Name: nodeText(prop, source), Type: anyType})
		case "pair_pattern":
			entries = append(entries, manifest.PatternEntry{Name: nodeText(prop.ChildByFieldName("key"), source), Type: anyType})
		case "object_assignment_pattern":
			entries = append(entries, manifest.PatternEntry{Name: nodeText(prop.ChildByFieldName("left"), source), Type: anyType})
		case "rest_pattern":
			entries = append(entries, manifest.PatternEntry{Name: restPlaceholder, Type: anyType})
		}
	}
	return entries
}

// arrayPatternEntries lists the elements of an array-destructuring
// parameter. Holes have no node and are dropped, not null-padded.
func arrayPatternEntries(pattern *sitter.Node, source []byte) []manifest.PatternEntry {
	entries := []manifest.PatternEntry{}
	for _, elem := range namedChildren(pattern) {
		switch elem.Kind() {
		case "identifier":
			entries = append(entries, manifest.PatternEntry{Name: nodeText(elem, source), Type: anyType})
		case "assignment_pattern":
			entries = append(entries, manifest.PatternEntry{Name: nodeText(elem.ChildByFieldName("left"), source), Type: anyType})
		case "rest_pattern":
			entries = append(entries, manifest.PatternEntry{Name: "..." + nodeText(elem.NamedChild(0), source), Type: anyType})
		default:
			entries = append(entries, manifest.PatternEntry{Name: unknownParamName, Type: anyType})
		}
	}
	return entries
}
