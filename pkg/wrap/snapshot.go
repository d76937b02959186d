// ABOUTME: Snapshot is the immutable read surface over a wrap tree plus the tab snapshot it was built from
// ABOUTME: All conversions and iteration are O(log n) seeks plus O(k) in the length of what is produced

package wrap

import (
	"iter"
	"unicode/utf8"

	"github.com/mauromedda/softwrap-go/pkg/wrap/tree"
)

// Snapshot is a structurally-shared, immutable view of the wrap index. It
// owns (by shared reference) the tab snapshot it was built against, so
// iteration remains valid after the Controller has moved on to a later one.
type Snapshot struct {
	tab          TabView
	tree         tree.Tree
	Interpolated bool
}

// New builds the initial Snapshot for a tab view: one isomorphic transform
// covering the whole document, or an empty tree if the document is empty.
func New(tab TabView) Snapshot {
	summary := tab.TextSummary()
	t := tree.Empty()
	if !summary.Lines.IsZero() || summary.FirstLineChars > 0 || summary.LastLineChars > 0 {
		t = tree.NewLeaf(tree.Transform{
			Kind:    tree.KindIsomorphic,
			Summary: tree.TransformSummary{Input: summary, Output: summary},
		})
	}
	return Snapshot{tab: tab, tree: t}
}

// TabSnapshot returns the upstream tab view this snapshot was built from.
func (s Snapshot) TabSnapshot() TabView {
	return s.tab
}

// TextSummary returns the total output (wrap-view) summary.
func (s Snapshot) TextSummary() tree.TextSummary {
	return s.tree.Summary().Output
}

// MaxPoint returns the bottom-right corner of the wrap view.
func (s Snapshot) MaxPoint() WrapPoint {
	return WrapPoint{s.TextSummary().Lines}
}

// LongestRow returns the wrap row with the greatest character count.
func (s Snapshot) LongestRow() uint32 {
	return s.TextSummary().LongestRow
}

// LineLen returns the column width of the given wrap row, excluding any
// terminating newline.
func (s Snapshot) LineLen(row uint32) uint32 {
	var width uint32
	for chunk := range s.Chunks(row, row+1) {
		for _, r := range chunk.Text {
			if r == '\n' {
				return width
			}
			width += uint32(utf8.RuneLen(r))
		}
	}
	return width
}

// SoftWrapIndent reports the hanging indent of row+1 if row was produced by
// a soft break, i.e. row+1 begins with a wrap marker.
func (s Snapshot) SoftWrapIndent(row uint32) (uint32, bool) {
	item, ok := s.leadingTransform(row + 1)
	if !ok || item.Kind != tree.KindWrap {
		return 0, false
	}
	return item.Indent, true
}

// leadingTransform returns the transform that produces the first column of
// the given wrap row, found by seeking with a left bias so a zero-width
// marker ending exactly at the row boundary is not skipped.
func (s Snapshot) leadingTransform(row uint32) (tree.Transform, bool) {
	c := tree.NewCursor[wrapTabDim](s.tree, wrapTabDim{})
	c.Seek(wrapTabDim{Wrap: WrapPoint{Point{Row: row, Column: 0}}}, tree.BiasLeft)
	return c.Item()
}

// ToTabPoint converts a wrap-view point to the corresponding tab-view point.
func (s Snapshot) ToTabPoint(p WrapPoint) TabPoint {
	c := tree.NewCursor[wrapTabDim](s.tree, wrapTabDim{})
	c.Seek(wrapTabDim{Wrap: p}, tree.BiasRight)
	start := c.Start()
	item, ok := c.Item()
	if ok && item.Kind == tree.KindIsomorphic {
		delta := p.Point.Sub(start.Wrap.Point)
		return TabPoint{start.Tab.Point.Add(delta)}
	}
	return start.Tab
}

// FromTabPoint converts a tab-view point to the corresponding wrap-view
// point.
func (s Snapshot) FromTabPoint(p TabPoint) WrapPoint {
	c := tree.NewCursor[tabWrapDim](s.tree, tabWrapDim{})
	c.Seek(tabWrapDim{Tab: p}, tree.BiasRight)
	start := c.Start()
	item, ok := c.Item()
	if ok && item.Kind == tree.KindIsomorphic {
		delta := p.Point.Sub(start.Tab.Point)
		return WrapPoint{start.Wrap.Point.Add(delta)}
	}
	return start.Wrap
}

// ToPoint composes ToTabPoint with the tab view's own conversion.
func (s Snapshot) ToPoint(p WrapPoint, bias Bias) Point {
	return s.tab.ToPoint(s.ToTabPoint(p), bias)
}

// FromPoint composes the tab view's own conversion with FromTabPoint.
func (s Snapshot) FromPoint(p Point, bias Bias) WrapPoint {
	return s.FromTabPoint(s.tab.FromPoint(p, bias))
}

// ClipPoint snaps a possibly-invalid wrap point to a valid one. With
// BiasLeft, a point inside a wrap marker's hanging indent is snapped to the
// marker's start and moved one column earlier, landing on the preceding
// logical row before round-tripping through the tab view's own clipping.
func (s Snapshot) ClipPoint(p WrapPoint, bias Bias) WrapPoint {
	c := tree.NewCursor[wrapTabDim](s.tree, wrapTabDim{})
	c.Seek(wrapTabDim{Wrap: p}, bias)
	if item, ok := c.Item(); ok && bias == tree.BiasLeft && item.Kind == tree.KindWrap {
		start := c.Start().Wrap
		col := start.Column
		if col > 0 {
			col--
		}
		p = WrapPoint{Point{Row: start.Row, Column: col}}
	}
	tp := s.ToTabPoint(p)
	clipped := s.tab.ClipPoint(tp, bias)
	return s.FromTabPoint(clipped)
}

// BufferRows yields, for every wrap row from startRow to MaxPoint().Row, the
// underlying buffer line number and whether that row was produced by a soft
// break.
func (s Snapshot) BufferRows(startRow uint32) iter.Seq2[uint32, bool] {
	return func(yield func(uint32, bool) bool) {
		maxRow := s.MaxPoint().Row
		if startRow > maxRow {
			return
		}

		startTabRow := s.ToTabPoint(WrapPoint{Point{Row: startRow, Column: 0}}).Row
		next, stop := iter.Pull(s.tab.BufferRows(startTabRow))
		defer stop()

		currentBufRow, ok := next()
		if !ok {
			return
		}
		lastTabRow := startTabRow

		for row := startRow; row <= maxRow; row++ {
			item, _ := s.leadingTransform(row)
			softWrapped := item.Kind == tree.KindWrap

			if row > startRow {
				tabRow := s.ToTabPoint(WrapPoint{Point{Row: row, Column: 0}}).Row
				if tabRow != lastTabRow {
					if v, ok2 := next(); ok2 {
						currentBufRow = v
					}
					lastTabRow = tabRow
				}
			}

			if !yield(currentBufRow, softWrapped) {
				return
			}
		}
	}
}

// consumeToPoint walks s, advancing (row, column) one rune at a time (a
// newline advances the row and resets the column; any other rune advances
// the column by its UTF-8 byte length) until reaching to or exhausting s.
func consumeToPoint(s string, from, to Point) (consumed, rest string, reached Point) {
	pos := from
	i := 0
	for i < len(s) {
		if pos.Cmp(to) >= 0 {
			break
		}
		r, size := utf8.DecodeRuneInString(s[i:])
		if r == '\n' {
			pos = Point{Row: pos.Row + 1, Column: 0}
		} else {
			pos = Point{Row: pos.Row, Column: pos.Column + uint32(size)}
		}
		i += size
	}
	return s[:i], s[i:], pos
}

// Chunks produces the text of wrap rows [startRow, endRow) as Chunks,
// forwarding upstream style metadata unchanged and splitting wrap-marker
// display text at the row boundary per the contract in spec.md §4.2.1.
func (s Snapshot) Chunks(startRow, endRow uint32) iter.Seq[Chunk] {
	return func(yield func(Chunk) bool) {
		outputStart := WrapPoint{Point{Row: startRow, Column: 0}}
		c := tree.NewCursor[wrapTabDim](s.tree, wrapTabDim{})
		c.Seek(wrapTabDim{Wrap: outputStart}, tree.BiasRight)

		start := c.Start()
		inputStart := start.Tab
		if item, ok := c.Item(); ok && item.Kind == tree.KindIsomorphic {
			delta := outputStart.Point.Sub(start.Wrap.Point)
			inputStart = TabPoint{inputStart.Point.Add(delta)}
		}

		inputEnd := s.ToTabPoint(WrapPoint{Point{Row: endRow, Column: 0}})
		if tabMax := s.tab.MaxPoint(); inputEnd.Point.Cmp(tabMax.Point) > 0 {
			inputEnd = tabMax
		}

		next, stop := iter.Pull(s.tab.Chunks(inputStart, inputEnd))
		defer stop()

		outputPos := outputStart
		var pendingStyle any
		var pendingRemaining string
		havePending := false

		for {
			if outputPos.Row >= endRow {
				return
			}
			item, ok := c.Item()
			if !ok {
				return
			}

			if item.Kind == tree.KindWrap {
				text := item.DisplayText()
				rowSpan := item.Summary.Output.Lines
				markerStart := c.Start().Wrap

				switch {
				case markerStart.Point.Cmp(outputPos.Point) < 0:
					text = text[1:]
					rowSpan = Point{Row: 0, Column: rowSpan.Column}
				case outputPos.Row+1 >= endRow:
					text = text[:1]
					rowSpan = Point{Row: 1, Column: 0}
				}

				if text != "" {
					if !yield(Chunk{Text: text, Style: nil}) {
						return
					}
				}
				outputPos = WrapPoint{outputPos.Point.Add(rowSpan)}
				c.Next()
				continue
			}

			transformEnd := c.End().Wrap.Point
			if !havePending {
				ch, ok2 := next()
				if !ok2 {
					c.Next()
					continue
				}
				pendingStyle = ch.Style
				pendingRemaining = ch.Text
				havePending = true
			}

			consumed, rest, newPos := consumeToPoint(pendingRemaining, outputPos.Point, transformEnd)
			if consumed != "" {
				if !yield(Chunk{Text: consumed, Style: pendingStyle}) {
					return
				}
			}
			outputPos = WrapPoint{newPos}
			pendingRemaining = rest
			if pendingRemaining == "" {
				havePending = false
			}
			if outputPos.Point.Cmp(transformEnd) >= 0 {
				c.Next()
			}
		}
	}
}

// TextChunks yields just the text of every chunk from row to the end of the
// document, discarding style metadata. A convenience used by this package's
// own property tests to reconstruct the full rendered text cheaply.
func (s Snapshot) TextChunks(row uint32) iter.Seq[string] {
	return func(yield func(string) bool) {
		maxRow := s.MaxPoint().Row
		for chunk := range s.Chunks(row, maxRow+1) {
			if !yield(chunk.Text) {
				return
			}
		}
	}
}
