package styledtree

import (
	"github.com/npillmayer/pagebox/dom/style"
	"github.com/npillmayer/pagebox/tree"
	"golang.org/x/net/html"
)

// StyNode is a style node, the building block of the styled tree.
type StyNode struct {
	tree.Node[*StyNode] // we build on top of general purpose tree
	htmlNode            *html.Node
	styles              *style.CalculatedStyle
}

// NewNodeForHTMLNode creates a new styled node linked to an HTML node.
func NewNodeForHTMLNode(html *html.Node) *tree.Node[*StyNode] {
	sn := &StyNode{}
	sn.Payload = sn // Payload will always reference the node itself
	sn.htmlNode = html
	return &sn.Node
}

// Node gets the styled node from a generic tree node.
func Node(n *tree.Node[*StyNode]) *StyNode {
	if n == nil {
		return nil
	}
	return n.Payload
}

// HTMLNode gets the HTML DOM node corresponding to this styled node.
func (sn *StyNode) HTMLNode() *html.Node {
	return sn.htmlNode
}

// Styles returns the calculated style of a styled node.
// Text nodes share the style of their parent element.
func (sn *StyNode) Styles() *style.CalculatedStyle {
	return sn.styles
}

// SetStyles sets the styling properties of a styled node.
func (sn *StyNode) SetStyles(styles *style.CalculatedStyle) {
	sn.styles = styles
}

// IsText is true for styled nodes of HTML text nodes.
func (sn *StyNode) IsText() bool {
	return sn.htmlNode != nil && sn.htmlNode.Type == html.TextNode
}

// IsElement is true for styled nodes of HTML elements.
func (sn *StyNode) IsElement() bool {
	return sn.htmlNode != nil && sn.htmlNode.Type == html.ElementNode
}

// Tag returns the element name, or an empty string for non-element nodes.
func (sn *StyNode) Tag() string {
	if !sn.IsElement() {
		return ""
	}
	return sn.htmlNode.Data
}

// Attr returns the value of an HTML attribute of the node.
func (sn *StyNode) Attr(key string) (string, bool) {
	if sn.htmlNode == nil {
		return "", false
	}
	for _, a := range sn.htmlNode.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// String is a short description of a styled node, used for debugging.
func (sn *StyNode) String() string {
	switch {
	case sn == nil || sn.htmlNode == nil:
		return "<nil>"
	case sn.IsElement():
		return "<" + sn.htmlNode.Data + ">"
	case sn.IsText():
		return "#text"
	case sn.htmlNode.Type == html.DocumentNode:
		return "#document"
	}
	return "#node"
}
