// ABOUTME: Tree is a persistent, summary-augmented treap of Transform leaves
// ABOUTME: Push/PushTree/Slice/Suffix are O(log n) expected via treap merge and split by item count

package tree

import "math/rand/v2"

type node struct {
	transform   Transform
	left, right *node
	priority    uint64
	size        int
	summary     TransformSummary
}

func size(n *node) int {
	if n == nil {
		return 0
	}
	return n.size
}

func summaryOf(n *node) TransformSummary {
	if n == nil {
		return TransformSummary{}
	}
	return n.summary
}

func nextPriority() uint64 {
	return rand.Uint64()
}

func makeNode(left *node, t Transform, right *node, priority uint64) *node {
	return &node{
		transform: t,
		left:      left,
		right:     right,
		priority:  priority,
		size:      size(left) + 1 + size(right),
		summary:   summaryOf(left).Add(t.Summary).Add(summaryOf(right)),
	}
}

func merge(l, r *node) *node {
	if l == nil {
		return r
	}
	if r == nil {
		return l
	}
	if l.priority > r.priority {
		return makeNode(l.left, l.transform, merge(l.right, r), l.priority)
	}
	return makeNode(merge(l, r.left), r.transform, r.right, r.priority)
}

// split divides n into the first k items and the remainder.
func split(n *node, k int) (*node, *node) {
	if n == nil {
		return nil, nil
	}
	ls := size(n.left)
	if k <= ls {
		l, r := split(n.left, k)
		return l, makeNode(r, n.transform, n.right, n.priority)
	}
	l, r := split(n.right, k-ls-1)
	return makeNode(n.left, n.transform, l, n.priority), r
}

func itemAt(n *node, idx int) Transform {
	for n != nil {
		ls := size(n.left)
		switch {
		case idx < ls:
			n = n.left
		case idx == ls:
			return n.transform
		default:
			idx -= ls + 1
			n = n.right
		}
	}
	return Transform{}
}

func lastItem(n *node) (Transform, bool) {
	if n == nil {
		return Transform{}, false
	}
	for n.right != nil {
		n = n.right
	}
	return n.transform, true
}

func firstItem(n *node) (Transform, bool) {
	if n == nil {
		return Transform{}, false
	}
	for n.left != nil {
		n = n.left
	}
	return n.transform, true
}

// Tree is an immutable sequence of Transform items with a cached aggregate
// TransformSummary at every internal node, enabling O(log n) seeks by any
// Dimension.
type Tree struct {
	root *node
}

// Empty returns the zero-length tree.
func Empty() Tree {
	return Tree{}
}

// NewLeaf returns a single-item tree.
func NewLeaf(t Transform) Tree {
	return Tree{root: makeNode(nil, t, nil, nextPriority())}
}

// FromItems builds a tree from a slice of items in order.
func FromItems(items []Transform) Tree {
	t := Empty()
	for _, it := range items {
		t = t.Push(it)
	}
	return t
}

// Len returns the number of items (not the text extent) in the tree.
func (t Tree) Len() int {
	return size(t.root)
}

// IsEmpty reports whether the tree has no items.
func (t Tree) IsEmpty() bool {
	return t.root == nil
}

// Summary returns the aggregate TransformSummary of the whole tree.
func (t Tree) Summary() TransformSummary {
	return summaryOf(t.root)
}

// Push appends an item to the end of the tree.
func (t Tree) Push(item Transform) Tree {
	return Tree{root: merge(t.root, makeNode(nil, item, nil, nextPriority()))}
}

// PushOrExtend appends item, coalescing it into the last leaf when both are
// isomorphic runs so that adjacent pass-through text never fragments the
// tree into more leaves than distinct wrap markers require.
func (t Tree) PushOrExtend(item Transform) Tree {
	if last, ok := lastItem(t.root); ok && last.Kind.CanCoalesce(item.Kind) {
		merged := Transform{
			Kind:    KindIsomorphic,
			Summary: last.Summary.Add(item.Summary),
		}
		prefix, _ := split(t.root, size(t.root)-1)
		return Tree{root: merge(prefix, makeNode(nil, merged, nil, nextPriority()))}
	}
	return t.Push(item)
}

// PushTree concatenates other onto the end of t. When t ends and other
// begins with an isomorphic run, the two runs are coalesced into one leaf,
// as PushOrExtend would.
func (t Tree) PushTree(other Tree) Tree {
	if first, ok := other.First(); ok {
		if last, ok := t.Last(); ok && last.Kind.CanCoalesce(first.Kind) {
			return t.PushOrExtend(first).PushTree(other.SuffixItems(1))
		}
	}
	return Tree{root: merge(t.root, other.root)}
}

// SliceItems returns the prefix of the first k items.
func (t Tree) SliceItems(k int) Tree {
	l, _ := split(t.root, k)
	return Tree{root: l}
}

// SuffixItems returns the suffix starting at item index k.
func (t Tree) SuffixItems(k int) Tree {
	_, r := split(t.root, k)
	return Tree{root: r}
}

// RangeItems returns the items [from, to) by item index.
func (t Tree) RangeItems(from, to int) Tree {
	if from >= to {
		return Empty()
	}
	return t.SuffixItems(from).SliceItems(to - from)
}

// First returns the first item in the tree, if any.
func (t Tree) First() (Transform, bool) {
	return firstItem(t.root)
}

// Last returns the last item in the tree, if any.
func (t Tree) Last() (Transform, bool) {
	return lastItem(t.root)
}

// Items materializes the tree's items in order. Intended for tests and
// small tree debugging, not hot paths.
func (t Tree) Items() []Transform {
	items := make([]Transform, 0, t.Len())
	var walk func(*node)
	walk = func(n *node) {
		if n == nil {
			return
		}
		walk(n.left)
		items = append(items, n.transform)
		walk(n.right)
	}
	walk(t.root)
	return items
}
