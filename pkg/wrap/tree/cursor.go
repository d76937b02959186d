// ABOUTME: Cursor seeks a Tree by any Dimension projected from TransformSummary
// ABOUTME: The same tree supports independent cursors over TabPoint, WrapPoint, or a paired dimension

package tree

// Dimension is a value that can be accumulated over a run of transforms
// (AddSummary) and ordered against a target of the same type (Cmp). TabPoint
// and WrapPoint implement this directly; pairs like (WrapPoint, TabPoint)
// implement it by accumulating both fields but comparing only the field the
// cursor seeks by, which is what lets a single cursor answer "what's the
// corresponding position in the other coordinate space" after a seek.
type Dimension[D any] interface {
	AddSummary(TransformSummary) D
	Cmp(D) int
}

// Cursor walks a Tree, tracking the accumulated Dimension value at the start
// of the current item.
type Cursor[D Dimension[D]] struct {
	tree *Tree
	idx  int
	pos  D
}

// NewCursor returns a cursor positioned at the start of the tree.
func NewCursor[D Dimension[D]](t Tree, zero D) *Cursor[D] {
	return &Cursor[D]{tree: &t, idx: 0, pos: zero}
}

// Item returns the transform at the cursor's current position, or false if
// the cursor is at the end of the tree.
func (c *Cursor[D]) Item() (Transform, bool) {
	if c.idx >= c.tree.Len() {
		var zero Transform
		return zero, false
	}
	return itemAt(c.tree.root, c.idx), true
}

// Index returns the 0-based item index the cursor currently addresses. Equal
// to the tree's length when the cursor is at the end.
func (c *Cursor[D]) Index() int {
	return c.idx
}

// Start returns the Dimension value at the start of the current item (or at
// the end of the tree, if the cursor has run off the end).
func (c *Cursor[D]) Start() D {
	return c.pos
}

// End returns the Dimension value at the end of the current item.
func (c *Cursor[D]) End() D {
	item, ok := c.Item()
	if !ok {
		return c.pos
	}
	return c.pos.AddSummary(item.Summary)
}

// Next advances the cursor to the following item.
func (c *Cursor[D]) Next() {
	item, ok := c.Item()
	if !ok {
		return
	}
	c.pos = c.pos.AddSummary(item.Summary)
	c.idx++
}

// Seek moves the cursor to the item containing target, honoring bias at
// item boundaries. It always searches from the root, so unlike the
// incremental Rust cursor this does not exploit a cursor's current
// position.
func (c *Cursor[D]) Seek(target D, bias Bias) {
	var zero D
	idx, pos := seekNode(c.tree.root, 0, zero, target, bias)
	c.idx = idx
	c.pos = pos
}

// SeekForward is a no-op when bias is BiasRight and the cursor is already at
// or past target; in every other case it searches from the root like Seek.
func (c *Cursor[D]) SeekForward(target D, bias Bias) {
	if c.pos.Cmp(target) >= 0 && bias == BiasRight {
		return
	}
	c.Seek(target, bias)
}

func seekNode[D Dimension[D]](n *node, baseIdx int, pos D, target D, bias Bias) (int, D) {
	if n == nil {
		return baseIdx, pos
	}

	leftPos := pos
	leftCount := size(n.left)
	if n.left != nil {
		leftPos = pos.AddSummary(n.left.summary)
	}

	cmp := leftPos.Cmp(target)
	goLeft := cmp > 0 || (cmp == 0 && bias == BiasLeft)
	if goLeft {
		return seekNode(n.left, baseIdx, pos, target, bias)
	}

	thisEnd := leftPos.AddSummary(n.transform.Summary)
	cmp2 := thisEnd.Cmp(target)
	stopHere := cmp2 > 0 || (cmp2 == 0 && bias == BiasLeft)
	if stopHere {
		return baseIdx + leftCount, leftPos
	}

	return seekNode(n.right, baseIdx+leftCount+1, thisEnd, target, bias)
}

// SliceTo returns the subtree of items strictly before the cursor's current
// index, i.e. everything Seek has already passed over.
func (c *Cursor[D]) SliceTo() Tree {
	return c.tree.SliceItems(c.idx)
}

// Suffix returns the subtree from the cursor's current index onward.
func (c *Cursor[D]) Suffix() Tree {
	return c.tree.SuffixItems(c.idx)
}
