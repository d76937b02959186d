// ABOUTME: Interpolate (fast, approximate) and Update (expensive, authoritative) rebuild the wrap tree
// ABOUTME: computeEdits/consolidateWrapEdits translate the old/new trees' divergence into a row-range Patch

package wrap

import (
	"context"
	"strings"

	"github.com/mauromedda/softwrap-go/pkg/wrap/tree"
)

// spliceRange returns the tree fragment covering oldTab positions [from, to),
// reusing whole items (including wrap markers) from old wherever a boundary
// lands cleanly, and synthesizing a fresh isomorphic transform from oldTab
// for any fractional leading or trailing piece. Only isomorphic transforms
// can ever be split this way — a wrap marker has zero TabPoint width, so a
// TabPoint-dimension seek can never land strictly inside one.
func spliceRange(old tree.Tree, oldTab TabView, from, to TabPoint) tree.Tree {
	if from.Cmp(to) >= 0 {
		return tree.Empty()
	}

	fromC := tree.NewCursor[TabPoint](old, TabPoint{})
	fromC.Seek(from, tree.BiasRight)
	toC := tree.NewCursor[TabPoint](old, TabPoint{})
	toC.Seek(to, tree.BiasRight)

	isomorphic := func(summary tree.TextSummary) tree.Transform {
		return tree.Transform{Kind: tree.KindIsomorphic, Summary: tree.TransformSummary{Input: summary, Output: summary}}
	}

	if fromC.Index() == toC.Index() {
		return tree.NewLeaf(isomorphic(oldTab.TextSummaryForRange(from, to)))
	}

	result := tree.Empty()
	fromStart := fromC.Start()
	if fromStart.Cmp(from) < 0 {
		headEnd := fromC.End()
		result = result.PushOrExtend(isomorphic(oldTab.TextSummaryForRange(from, headEnd)))
		result = result.PushTree(old.RangeItems(fromC.Index()+1, toC.Index()))
	} else {
		result = result.PushTree(old.RangeItems(fromC.Index(), toC.Index()))
	}

	toStart := toC.Start()
	if toStart.Cmp(to) < 0 {
		result = result.PushOrExtend(isomorphic(oldTab.TextSummaryForRange(toStart, to)))
	}

	return result
}

// Interpolate refreshes the input side of the tree for a batch of tab edits
// without remeasuring: each edited range becomes a single isomorphic
// transform built from newTab, and any wrap markers intersecting an edit
// are discarded. The result over-represents row counts wherever wrapping
// would have applied, so the returned Snapshot is marked Interpolated.
func (s Snapshot) Interpolate(newTab TabView, edits []TabEdit) (Snapshot, Patch) {
	newTree := tree.Empty()
	pos := TabPoint{}

	for _, e := range edits {
		newTree = newTree.PushTree(spliceRange(s.tree, s.tab, pos, e.OldLines.Start))

		summary := newTab.TextSummaryForRange(e.NewLines.Start, e.NewLines.End)
		if !isEmptyTextSummary(summary) {
			newTree = newTree.PushOrExtend(tree.Transform{
				Kind:    tree.KindIsomorphic,
				Summary: tree.TransformSummary{Input: summary, Output: summary},
			})
		}

		pos = e.OldLines.End
	}

	newTree = newTree.PushTree(spliceRange(s.tree, s.tab, pos, s.tab.MaxPoint()))

	patch := computeEdits(s.tree, newTree, edits)
	return Snapshot{tab: newTab, tree: newTree, Interpolated: true}, patch
}

func isEmptyTextSummary(s tree.TextSummary) bool {
	return s.Lines.IsZero() && s.FirstLineChars == 0 && s.LastLineChars == 0
}

type rowEdit struct {
	oldRows Range[uint32]
	newRows Range[uint32]
}

// coalesceRowEdits widens each tab edit to a half-open row range and merges
// consecutive row-edits whose old ranges touch or overlap, so Update always
// scans monotonically increasing, disjoint row bands.
func coalesceRowEdits(edits []TabEdit) []rowEdit {
	var out []rowEdit
	for _, e := range edits {
		re := rowEdit{
			oldRows: Range[uint32]{Start: e.OldLines.Start.Row, End: e.OldLines.End.Row + 1},
			newRows: Range[uint32]{Start: e.NewLines.Start.Row, End: e.NewLines.End.Row + 1},
		}
		if n := len(out); n > 0 && re.oldRows.Start <= out[n-1].oldRows.End {
			last := &out[n-1]
			if re.oldRows.End > last.oldRows.End {
				last.oldRows.End = re.oldRows.End
			}
			if re.newRows.End > last.newRows.End {
				last.newRows.End = re.newRows.End
			}
			continue
		}
		out = append(out, re)
	}
	return out
}

// readLogicalLine returns the text of tab row row, stripped of its
// terminating newline if any.
func readLogicalLine(tab TabView, row uint32) string {
	maxTab := tab.MaxPoint()
	end := TabPoint{Point{Row: row + 1, Column: 0}}
	if end.Point.Cmp(maxTab.Point) > 0 {
		end = maxTab
	}
	var sb strings.Builder
	for chunk := range tab.Chunks(TabPoint{Point{Row: row, Column: 0}}, end) {
		sb.WriteString(chunk.Text)
	}
	return strings.TrimSuffix(sb.String(), "\n")
}

// Update rewraps the row bands touched by edits by consulting measurer one
// logical line at a time, suspending cooperatively after each line so a
// large rewrap never starves the scheduler it runs on. A canceled context
// aborts the rewrap at its next suspension point and returns ctx.Err();
// the caller discards the partial result.
func (s Snapshot) Update(ctx context.Context, newTab TabView, edits []TabEdit, wrapWidth float64, measurer LineMeasurer) (Snapshot, Patch, error) {
	rowEdits := coalesceRowEdits(edits)
	newTree := tree.Empty()
	oldRow := uint32(0)

	isomorphic := func(s string) tree.Transform {
		sum := tree.TextSummaryFromString(s)
		return tree.Transform{Kind: tree.KindIsomorphic, Summary: tree.TransformSummary{Input: sum, Output: sum}}
	}

	for _, re := range rowEdits {
		oldFrom := TabPoint{Point{Row: oldRow, Column: 0}}
		oldTo := TabPoint{Point{Row: re.oldRows.Start, Column: 0}}
		newTree = newTree.PushTree(spliceRange(s.tree, s.tab, oldFrom, oldTo))

		maxNewRow := newTab.MaxPoint().Row
		for row := re.newRows.Start; row < re.newRows.End; row++ {
			line := readLogicalLine(newTab, row)
			boundaries := measurer.WrapLine(line, wrapWidth)

			prevIx := 0
			for _, b := range boundaries {
				if piece := line[prevIx:b.Ix]; piece != "" {
					newTree = newTree.PushOrExtend(isomorphic(piece))
				}
				newTree = newTree.PushOrExtend(tree.WrapMarker(b.NextIndent))
				prevIx = b.Ix
			}
			if trailing := line[prevIx:]; trailing != "" || len(boundaries) == 0 {
				newTree = newTree.PushOrExtend(isomorphic(trailing))
			}

			if row < maxNewRow {
				newTree = newTree.PushOrExtend(isomorphic("\n"))
			}

			select {
			case <-ctx.Done():
				return Snapshot{}, nil, ctx.Err()
			default:
			}
		}

		oldRow = re.oldRows.End
	}

	newTree = newTree.PushTree(spliceRange(s.tree, s.tab, TabPoint{Point{Row: oldRow, Column: 0}}, s.tab.MaxPoint()))

	patch := computeEdits(s.tree, newTree, edits)
	return Snapshot{tab: newTab, tree: newTree, Interpolated: false}, patch, nil
}

// outputRowFor seeks t by TabPoint and returns the wrap row target maps to.
func outputRowFor(t tree.Tree, target TabPoint) uint32 {
	c := tree.NewCursor[tabWrapDim](t, tabWrapDim{})
	c.Seek(tabWrapDim{Tab: target}, tree.BiasRight)
	start := c.Start()
	delta := target.Point.Sub(start.Tab.Point)
	return start.Wrap.Point.Add(delta).Row
}

// computeEdits widens each tab edit to whole lines and locates the
// corresponding wrap-row range in the old and new trees, per spec.md §4.5.
func computeEdits(oldTree, newTree tree.Tree, edits []TabEdit) Patch {
	raw := make(Patch, 0, len(edits))
	for _, e := range edits {
		oldStart := outputRowFor(oldTree, TabPoint{Point{Row: e.OldLines.Start.Row, Column: 0}})
		oldEnd := outputRowFor(oldTree, TabPoint{Point{Row: e.OldLines.End.Row + 1, Column: 0}})
		newStart := outputRowFor(newTree, TabPoint{Point{Row: e.NewLines.Start.Row, Column: 0}})
		newEnd := outputRowFor(newTree, TabPoint{Point{Row: e.NewLines.End.Row + 1, Column: 0}})
		raw = append(raw, Edit{
			Old: Range[uint32]{Start: oldStart, End: oldEnd},
			New: Range[uint32]{Start: newStart, End: newEnd},
		})
	}
	return consolidateWrapEdits(raw)
}

// consolidateWrapEdits merges each entry with its predecessor whenever
// prev.Old.End >= next.Old.Start, matching spec.md §4.5's final step.
func consolidateWrapEdits(edits Patch) Patch {
	if len(edits) == 0 {
		return nil
	}
	out := make(Patch, 0, len(edits))
	cur := edits[0]
	for _, e := range edits[1:] {
		if cur.Old.End >= e.Old.Start {
			if e.Old.End > cur.Old.End {
				cur.Old.End = e.Old.End
			}
			if e.New.End > cur.New.End {
				cur.New.End = e.New.End
			}
			continue
		}
		out = append(out, cur)
		cur = e
	}
	out = append(out, cur)
	return out
}
