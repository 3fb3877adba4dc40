package cssom

import (
	"errors"

	"github.com/npillmayer/pagebox/dom/style"
	"github.com/npillmayer/pagebox/dom/styledtree"
	"github.com/npillmayer/pagebox/tree"
	"golang.org/x/net/html"
)

// ErrNoDocument is returned for styling requests without a document or
// element root.
var ErrNoDocument = errors.New("no document to style")

// Style creates a styled tree from an HTML parse tree. dom has to be a
// document or element node. Comment, doctype and raw nodes are not part of
// the styled tree; elements with `display: none` are kept, as they are
// handled by the box tree builder.
//
// The first call to Style freezes the CSSOM.
func (c *CSSOM) Style(dom *html.Node) (*tree.Node[*styledtree.StyNode], error) {
	if dom == nil || (dom.Type != html.DocumentNode && dom.Type != html.ElementNode) {
		tracer().Errorf("cannot style a nil or non-element root")
		return nil, ErrNoDocument
	}
	c.Freeze()
	root := styledtree.NewNodeForHTMLNode(dom)
	var parentStyle *style.CalculatedStyle
	if dom.Type == html.ElementNode {
		parentStyle = c.ancestorStyles(dom.Parent)
	}
	styledtree.Node(root).SetStyles(c.Resolve(dom, parentStyle))
	type pending struct {
		h *html.Node
		s *tree.Node[*styledtree.StyNode]
	}
	stack := []pending{{dom, root}}
	count := 1
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		parentStyles := styledtree.Node(top.s).Styles()
		var children []pending
		for ch := top.h.FirstChild; ch != nil; ch = ch.NextSibling {
			var sn *tree.Node[*styledtree.StyNode]
			switch ch.Type {
			case html.ElementNode:
				sn = styledtree.NewNodeForHTMLNode(ch)
				styledtree.Node(sn).SetStyles(c.Resolve(ch, parentStyles))
			case html.TextNode:
				sn = styledtree.NewNodeForHTMLNode(ch)
				styledtree.Node(sn).SetStyles(parentStyles)
			default:
				continue
			}
			top.s.AddChild(sn)
			count++
			if ch.Type == html.ElementNode && ch.FirstChild != nil {
				children = append(children, pending{ch, sn})
			}
		}
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, children[i])
		}
	}
	tracer().Debugf("styled tree has %d nodes", count)
	return root, nil
}

// ancestorStyles resolves the styles of the ancestors of an element, for
// styling a document fragment.
func (c *CSSOM) ancestorStyles(n *html.Node) *style.CalculatedStyle {
	var chain []*html.Node
	for ; n != nil; n = n.Parent {
		if n.Type == html.ElementNode {
			chain = append(chain, n)
		}
	}
	var cs *style.CalculatedStyle
	for i := len(chain) - 1; i >= 0; i-- {
		cs = c.Resolve(chain[i], cs)
	}
	return cs
}
