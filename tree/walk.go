package tree

import "errors"

// ErrEmptyTree is returned if a walk is started on a nil node.
var ErrEmptyTree = errors.New("cannot walk empty tree")

// SkipChildren may be returned by a Visitor to prune the walk below the
// current node. It is not reported as an error.
var SkipChildren = errors.New("skip children")

// Visitor is called for every node of a walk. Returning SkipChildren prunes
// the subtree of node; any other non-nil error stops the walk.
type Visitor[T comparable] func(node *Node[T], depth int) error

// Walk traverses a (sub-)tree in document order (pre-order, depth first).
//
// Walk uses an explicit stack instead of recursion, so very deep documents
// do not exhaust the goroutine stack.
func Walk[T comparable](root *Node[T], visit Visitor[T]) error {
	if root == nil {
		return ErrEmptyTree
	}
	type entry struct {
		node  *Node[T]
		depth int
	}
	stack := []entry{{root, 0}}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if err := visit(top.node, top.depth); err != nil {
			if err == SkipChildren {
				continue
			}
			return err
		}
		children := top.node.Children()
		for i := len(children) - 1; i >= 0; i-- { // push in reverse to pop in order
			if children[i] != nil {
				stack = append(stack, entry{children[i], top.depth + 1})
			}
		}
	}
	return nil
}

// Predicate is a function type to match against nodes of a tree.
type Predicate[T comparable] func(test *Node[T]) bool

// FindAll collects all nodes of a (sub-)tree matching a predicate, in document order.
func FindAll[T comparable](root *Node[T], pred Predicate[T]) []*Node[T] {
	var result []*Node[T]
	_ = Walk(root, func(n *Node[T], _ int) error {
		if pred(n) {
			result = append(result, n)
		}
		return nil
	})
	return result
}
