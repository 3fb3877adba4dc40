package boxtree

import (
	"errors"

	"github.com/npillmayer/pagebox/dom/style"
	"github.com/npillmayer/pagebox/tree"
	tp "github.com/xlab/treeprint"
	"golang.org/x/net/html"
)

// Tree is an arena of boxes. The root box has ID 0.
//
// A tree is mutated by the builder and by layout, one pass at a time; it is
// not safe for concurrent modification.
type Tree struct {
	boxes []*Box
}

// Root returns the root box, or nil for an empty tree.
func (t *Tree) Root() *Box {
	if t == nil || len(t.boxes) == 0 {
		return nil
	}
	return t.boxes[0]
}

// Box returns the box for an ID, or nil if id is not part of the tree.
func (t *Tree) Box(id ID) *Box {
	if t == nil || id < 0 || int(id) >= len(t.boxes) {
		return nil
	}
	return t.boxes[id]
}

// Len returns the number of boxes in the tree. Every box in 0…Len()-1 is
// reachable from the root, and IDs are assigned in document order.
func (t *Tree) Len() int {
	if t == nil {
		return 0
	}
	return len(t.boxes)
}

// compact drops boxes detached from the tree and renumbers the remaining
// ones in document order.
func (t *Tree) compact() {
	if t.Root() == nil {
		return
	}
	remap := make(map[ID]ID, len(t.boxes))
	boxes := make([]*Box, 0, len(t.boxes))
	_ = t.Walk(t.Root(), func(b *Box, _ int) error {
		remap[b.ID] = ID(len(boxes))
		boxes = append(boxes, b)
		return nil
	})
	for _, b := range boxes {
		b.ID = remap[b.ID]
		if b.Parent != NoBox {
			b.Parent = remap[b.Parent]
		}
		for i, c := range b.Children {
			b.Children[i] = remap[c]
		}
	}
	t.boxes = boxes
}

// Children returns the child boxes of a box.
func (t *Tree) Children(b *Box) []*Box {
	children := make([]*Box, 0, len(b.Children))
	for _, id := range b.Children {
		children = append(children, t.boxes[id])
	}
	return children
}

// ParentOf returns the parent box of b, or nil for the root.
func (t *Tree) ParentOf(b *Box) *Box {
	return t.Box(b.Parent)
}

func (t *Tree) newBox(kind Kind, parent ID, node *html.Node, cs *style.CalculatedStyle) *Box {
	b := &Box{
		ID:      ID(len(t.boxes)),
		Parent:  parent,
		Kind:    kind,
		Node:    node,
		Style:   cs,
		ColSpan: 1,
		RowSpan: 1,
	}
	t.boxes = append(t.boxes, b)
	return b
}

// Visitor is called for boxes of a walk. It may return tree.SkipChildren to
// prune the walk.
type Visitor func(b *Box, depth int) error

// Walk visits the boxes of the tree in document order, starting at root.
func (t *Tree) Walk(root *Box, visit Visitor) error {
	if root == nil {
		return tree.ErrEmptyTree
	}
	type entry struct {
		id    ID
		depth int
	}
	stack := []entry{{root.ID, 0}}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		b := t.boxes[top.id]
		if err := visit(b, top.depth); err != nil {
			if errors.Is(err, tree.SkipChildren) {
				continue
			}
			return err
		}
		for i := len(b.Children) - 1; i >= 0; i-- {
			stack = append(stack, entry{b.Children[i], top.depth + 1})
		}
	}
	return nil
}

// String returns a tree dump of the box tree, for debugging.
func (t *Tree) String() string {
	if t.Root() == nil {
		return "<empty box tree>"
	}
	return t.Dump(t.Root(), false)
}

// Dump renders the subtree of a box as a tree dump. With geometry set, the
// border box of every box is included.
func (t *Tree) Dump(root *Box, geometry bool) string {
	label := func(b *Box) string {
		if geometry {
			return b.String() + " " + b.BorderBox().String()
		}
		return b.String()
	}
	printer := tp.New()
	branches := map[ID]tp.Tree{root.ID: printer.AddBranch(label(root))}
	_ = t.Walk(root, func(b *Box, depth int) error {
		if b == root {
			return nil
		}
		p := branches[b.Parent]
		if len(b.Children) == 0 {
			p.AddNode(label(b))
			return nil
		}
		branches[b.ID] = p.AddBranch(label(b))
		return nil
	})
	return printer.String()
}
