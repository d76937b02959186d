// ABOUTME: Patch is a sorted, disjoint list of wrap-row edits forming a group under composition
// ABOUTME: Compose(p, q) chains an old->mid patch with a mid->new patch; Invert swaps the two spaces

package wrap

import "sort"

// Edit is one row-range substitution: rows [Old.Start, Old.End) in the
// source space become rows [New.Start, New.End) in the target space.
type Edit struct {
	Old Range[uint32]
	New Range[uint32]
}

// Patch is a sorted, disjoint sequence of Edits.
type Patch []Edit

// Invert swaps the source and target spaces of every edit, so a patch that
// described old->new now describes new->old.
func (p Patch) Invert() Patch {
	out := make(Patch, len(p))
	for i, e := range p {
		out[i] = Edit{Old: e.New, New: e.Old}
	}
	return out
}

// forwardStart translates a boundary x in p's Old space to p's New space,
// using a left bias: a point that falls inside an edit maps to that edit's
// New.Start.
func forwardStart(p Patch, x uint32) uint32 {
	delta := int64(0)
	for _, e := range p {
		if x < e.Old.Start {
			break
		}
		zeroWidth := e.Old.Start == e.Old.End
		if x < e.Old.End || (zeroWidth && x == e.Old.Start) {
			return e.New.Start
		}
		delta += int64(e.New.End-e.New.Start) - int64(e.Old.End-e.Old.Start)
	}
	return uint32(int64(x) + delta)
}

// forwardEnd is forwardStart with a right bias: a point inside an edit maps
// to that edit's New.End. A point sitting exactly on a zero-width (pure
// insertion) edit counts as "inside" it, so it is pushed past the
// insertion rather than landing before it.
func forwardEnd(p Patch, x uint32) uint32 {
	delta := int64(0)
	for _, e := range p {
		zeroWidth := e.Old.Start == e.Old.End
		if !zeroWidth && x <= e.Old.Start {
			break
		}
		if zeroWidth && x < e.Old.Start {
			break
		}
		if x <= e.Old.End {
			return e.New.End
		}
		delta += int64(e.New.End-e.New.Start) - int64(e.Old.End-e.Old.Start)
	}
	return uint32(int64(x) + delta)
}

// backwardStart is forwardStart with Old/New swapped: it translates a point
// in p's New space back to p's Old space.
func backwardStart(p Patch, y uint32) uint32 {
	return forwardStart(p.Invert(), y)
}

func backwardEnd(p Patch, y uint32) uint32 {
	return forwardEnd(p.Invert(), y)
}

func overlapsAnyNew(p Patch, r Range[uint32]) bool {
	for _, e := range p {
		if r.Start < e.New.End && e.New.Start < r.End {
			return true
		}
		if r.Start == r.End && r.Start >= e.New.Start && r.Start <= e.New.End {
			return true
		}
	}
	return false
}

// Compose chains p (old->mid) with q (mid->new) into a single old->new
// patch. Edits from p are carried forward through q; edits from q that fall
// in a region p left untouched are carried backward into p's old space.
func Compose(p, q Patch) Patch {
	var out Patch

	for _, e := range p {
		out = append(out, Edit{
			Old: e.Old,
			New: Range[uint32]{Start: forwardStart(q, e.New.Start), End: forwardEnd(q, e.New.End)},
		})
	}

	for _, e := range q {
		if overlapsAnyNew(p, e.Old) {
			continue
		}
		out = append(out, Edit{
			Old: Range[uint32]{Start: backwardStart(p, e.Old.Start), End: backwardEnd(p, e.Old.End)},
			New: e.New,
		})
	}

	return consolidate(out)
}

// consolidate sorts edits by their Old start, merges any that touch or
// overlap, and drops edits that turned out to be true no-ops (Old == New).
func consolidate(edits Patch) Patch {
	filtered := edits[:0:0]
	for _, e := range edits {
		if e.Old.Start == e.New.Start && e.Old.End == e.New.End {
			continue
		}
		filtered = append(filtered, e)
	}
	if len(filtered) == 0 {
		return nil
	}

	sort.Slice(filtered, func(i, j int) bool {
		if filtered[i].Old.Start != filtered[j].Old.Start {
			return filtered[i].Old.Start < filtered[j].Old.Start
		}
		return filtered[i].New.Start < filtered[j].New.Start
	})

	out := make(Patch, 0, len(filtered))
	cur := filtered[0]
	for _, e := range filtered[1:] {
		if e.Old.Start <= cur.Old.End {
			if e.Old.End > cur.Old.End {
				cur.Old.End = e.Old.End
			}
			if e.New.End > cur.New.End {
				cur.New.End = e.New.End
			}
		} else {
			out = append(out, cur)
			cur = e
		}
	}
	out = append(out, cur)
	return out
}
