package dom

import (
	"strings"

	"github.com/npillmayer/pagebox/dom/styledtree"
	"github.com/npillmayer/pagebox/tree"
)

// NodeIsText is a predicate to match text-nodes of a styled tree.
// It is intended to be used with tree.FindAll.
func NodeIsText(n *tree.Node[*styledtree.StyNode]) bool {
	return n != nil && n.Payload.IsText()
}

// NodeIsElement returns a predicate to match elements with a given tag name.
func NodeIsElement(tag string) tree.Predicate[*styledtree.StyNode] {
	return func(n *tree.Node[*styledtree.StyNode]) bool {
		return n != nil && n.Payload.Tag() == tag
	}
}

// NodeHasAttr returns a predicate to match elements carrying an attribute.
func NodeHasAttr(key string) tree.Predicate[*styledtree.StyNode] {
	return func(n *tree.Node[*styledtree.StyNode]) bool {
		if n == nil {
			return false
		}
		_, ok := n.Payload.Attr(key)
		return ok
	}
}

// TextContent returns the concatenated text of a styled node and all its
// descendents.
func TextContent(n *tree.Node[*styledtree.StyNode]) string {
	var b strings.Builder
	for _, t := range tree.FindAll(n, NodeIsText) {
		b.WriteString(t.Payload.HTMLNode().Data)
	}
	return b.String()
}

// FindByID returns the first node with a given id attribute, or nil.
func FindByID(root *tree.Node[*styledtree.StyNode], id string) *tree.Node[*styledtree.StyNode] {
	for _, n := range tree.FindAll(root, NodeHasAttr("id")) {
		if v, _ := n.Payload.Attr("id"); v == id {
			return n
		}
	}
	return nil
}
