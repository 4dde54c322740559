package extractor

import (
	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/lkoehl/jsmanifest/internal/manifest"
)

// nodeText extracts the text content of a tree-sitter node.
func nodeText(node *sitter.Node, source []byte) string {
	if node == nil {
		return ""
	}
	return string(source[node.StartByte():node.EndByte()])
}

// walkTree recursively walks a tree-sitter tree and calls the visitor
// for each node. Returning false from the visitor skips the subtree.
func walkTree(node *sitter.Node, visitor func(*sitter.Node) bool) {
	if node == nil {
		return
	}

	if !visitor(node) {
		return
	}

	for i := 0; i < int(node.ChildCount()); i++ {
		walkTree(node.Child(uint(i)), visitor)
	}
}

// findChildByType finds the first child node with the given type,
// including unnamed (keyword and punctuation) children.
func findChildByType(node *sitter.Node, nodeType string) *sitter.Node {
	if node == nil {
		return nil
	}

	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(uint(i))
		if child.Kind() == nodeType {
			return child
		}
	}
	return nil
}

// findChildrenByType finds all named child nodes with the given type.
func findChildrenByType(node *sitter.Node, nodeType string) []*sitter.Node {
	var results []*sitter.Node
	if node == nil {
		return results
	}

	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(uint(i))
		if child.Kind() == nodeType {
			results = append(results, child)
		}
	}
	return results
}

// hasChildOfType reports whether node has a direct child of the given
// type. Used for keyword modifiers such as "static" and "default".
func hasChildOfType(node *sitter.Node, nodeType string) bool {
	return findChildByType(node, nodeType) != nil
}

// namedChildren returns all named children of node in order.
func namedChildren(node *sitter.Node) []*sitter.Node {
	if node == nil {
		return nil
	}
	children := make([]*sitter.Node, 0, node.NamedChildCount())
	for i := 0; i < int(node.NamedChildCount()); i++ {
		children = append(children, node.NamedChild(uint(i)))
	}
	return children
}

// stringLiteralValue returns the unquoted content of a string node.
func stringLiteralValue(node *sitter.Node, source []byte) string {
	if node == nil {
		return ""
	}
	if frag := findChildByType(node, "string_fragment"); frag != nil {
		return nodeText(frag, source)
	}
	// Empty string literal: only the quote tokens remain.
	text := nodeText(node, source)
	if len(text) >= 2 {
		return text[1 : len(text)-1]
	}
	return text
}

// nodeLocation converts a node span to a 1-based line/column location.
func nodeLocation(node *sitter.Node) *manifest.Location {
	if node == nil {
		return nil
	}
	start := node.StartPosition()
	end := node.EndPosition()
	return &manifest.Location{
		StartLine:   int(start.Row) + 1,
		StartColumn: int(start.Column) + 1,
		EndLine:     int(end.Row) + 1,
		EndColumn:   int(end.Column) + 1,
	}
}

// firstErrorNode finds the first ERROR or missing node in the tree,
// for best-effort parse error positions.
func firstErrorNode(root *sitter.Node) *sitter.Node {
	var found *sitter.Node
	walkTree(root, func(n *sitter.Node) bool {
		if found != nil {
			return false
		}
		if n.IsError() || n.IsMissing() {
			found = n
			return false
		}
		// Only descend into subtrees that actually contain an error.
		return n.HasError()
	})
	return found
}
