// ABOUTME: CheckInvariants re-derives the structural invariants listed on it and fails tb if any is violated
// ABOUTME: A test-only self-check, mirroring the original's #[cfg(test)] full invariant walk; never called from production code paths

package wrap

import (
	"testing"

	"github.com/mauromedda/softwrap-go/pkg/wrap/tree"
)

// CheckInvariants walks s's tree and tab view, verifying:
//  1. no two adjacent transforms share a Kind (isomorphic runs are maximally
//     coalesced, wrap markers never touch)
//  2. the sum of the tree's input summaries equals the tab snapshot's own
//     text summary
//  3. max_point (wrap coordinates) equals the sum of the tree's output
//     summaries' Lines
//  4. buffer_rows(0) yields exactly max_point().Row+1 entries, each with
//     soft_wrapped true iff that row's leading transform is a wrap marker
//
// Callers pass a *testing.T/B; CheckInvariants reports failures via tb and
// continues checking rather than panicking, so a single run surfaces every
// violation at once.
func (s Snapshot) CheckInvariants(tb testing.TB) {
	tb.Helper()

	items := s.tree.Items()
	var inputSum, outputSum tree.TextSummary
	havePrev := false
	var prevKind tree.Kind
	for _, item := range items {
		if havePrev && item.Kind == prevKind {
			tb.Errorf("CheckInvariants: adjacent transforms share kind %v", item.Kind)
		}
		inputSum = inputSum.Add(item.Summary.Input)
		outputSum = outputSum.Add(item.Summary.Output)
		prevKind = item.Kind
		havePrev = true
	}

	if wantInput := s.tab.TextSummary(); inputSum != wantInput {
		tb.Errorf("CheckInvariants: sum of input summaries = %+v, want tab snapshot's summary %+v", inputSum, wantInput)
	}

	maxPoint := s.MaxPoint()
	if outputSum.Lines != maxPoint.Point {
		tb.Errorf("CheckInvariants: max_point = %+v, sum of output summaries' lines = %+v", maxPoint.Point, outputSum.Lines)
	}

	wantRows := maxPoint.Row + 1
	n := uint32(0)
	for row, softWrapped := range s.BufferRows(0) {
		_ = row
		item, _ := s.leadingTransform(n)
		wantSoftWrapped := item.Kind == tree.KindWrap
		if softWrapped != wantSoftWrapped {
			tb.Errorf("CheckInvariants: buffer_rows(0) row %d soft_wrapped = %v, want %v", n, softWrapped, wantSoftWrapped)
		}
		n++
	}
	if n != wantRows {
		tb.Errorf("CheckInvariants: buffer_rows(0) yielded %d entries, want max_point().Row+1 = %d", n, wantRows)
	}
}
