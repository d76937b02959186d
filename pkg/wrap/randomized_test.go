package wrap_test

import (
	"math/rand/v2"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/mauromedda/softwrap-go/pkg/wrap"
	"github.com/mauromedda/softwrap-go/pkg/wrap/measure"
	"github.com/mauromedda/softwrap-go/pkg/wrap/tabview"
)

// rowsOf materializes every wrap row of s as a separate string, split at the
// row's own line content (without the newline the wrap view injects).
func rowsOf(t *testing.T, s wrap.Snapshot) []string {
	t.Helper()
	maxRow := s.MaxPoint().Row
	rows := make([]string, 0, maxRow+1)
	for row := uint32(0); row <= maxRow; row++ {
		var sb strings.Builder
		for chunk := range s.Chunks(row, row+1) {
			sb.WriteString(chunk.Text)
		}
		rows = append(rows, strings.TrimSuffix(sb.String(), "\n"))
	}
	return rows
}

// applyPatch replays patch against oldRows, pulling replacement rows from
// newRows, and returns what should equal newRows exactly if the patch
// correctly describes the transformation from one row set to the other.
func applyPatch(oldRows []string, patch wrap.Patch, newRows []string) []string {
	out := make([]string, 0, len(newRows))
	prevOld := uint32(0)
	for _, e := range patch {
		out = append(out, oldRows[prevOld:e.Old.Start]...)
		out = append(out, newRows[e.New.Start:e.New.End]...)
		prevOld = e.Old.End
	}
	out = append(out, oldRows[prevOld:]...)
	return out
}

// TestRandomizedWrapReplay ports the original's random-wrap replay check
// (spec.md §8 invariant 6): a sequence of random edits and wrap-width
// changes is applied to a Controller, and every emitted Patch, replayed
// against the previous row set, must reproduce the next snapshot's rows
// exactly.
func TestRandomizedWrapReplay(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewPCG(1, 2))
	words := []string{"the", "quick", "brown", "fox", "jumps", "over", "lazy", "dog", "x", "yz"}

	buf, err := tabview.New("the quick brown fox\njumps over the lazy dog\nonce more")
	if err != nil {
		t.Fatalf("tabview.New: %v", err)
	}

	c := wrap.NewController(buf, measure.ColumnMeasurer{})
	width := 8.0
	c.SetWrapWidth(&width)

	snap, _ := c.Sync(buf, nil)
	waitQuiescent(t, c, buf)
	snap, _ = c.Sync(buf, nil)
	rows := rowsOf(t, snap)

	for i := 0; i < 30; i++ {
		if i%7 == 0 {
			width = 4 + float64(rng.IntN(10))
			w := width
			c.SetWrapWidth(&w)
		}

		row := rng.IntN(len(buf.Lines()))
		line := buf.Lines()[row]
		col := 0
		if len(line) > 0 {
			col = rng.IntN(len(line) + 1)
		}
		start := wrap.TabPoint{Point: wrap.Point{Row: uint32(row), Column: uint32(col)}}
		end := start
		word := words[rng.IntN(len(words))]

		newBuf, edits, err := buf.Edit(start, end, " "+word)
		if err != nil {
			t.Fatalf("Edit: %v", err)
		}

		newSnap, patch := c.Sync(newBuf, edits)
		patch = wrap.Compose(patch, waitQuiescent(t, c, newBuf))
		newSnap, lastPatch := c.Sync(newBuf, nil)
		patch = wrap.Compose(patch, lastPatch)

		got := applyPatch(rows, patch, rowsOf(t, newSnap))
		want := rowsOf(t, newSnap)
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("iteration %d: replaying patch %+v gave %q, want %q", i, patch, got, want)
		}
		newSnap.CheckInvariants(t)

		buf = newBuf
		rows = want
	}
}

// waitQuiescent blocks until the controller's snapshot for tab is no longer
// Interpolated, or gives up after a short deadline, and returns the
// composition of every patch its Sync calls received.
func waitQuiescent(t *testing.T, c *wrap.Controller, tab wrap.TabView) wrap.Patch {
	t.Helper()
	var patch wrap.Patch
	deadline := time.Now().Add(200 * time.Millisecond)
	for time.Now().Before(deadline) {
		snap, p := c.Sync(tab, nil)
		patch = wrap.Compose(patch, p)
		if !snap.Interpolated {
			return patch
		}
		time.Sleep(time.Millisecond)
	}
	return patch
}
