// ABOUTME: Tests for the treap-backed Tree and its Dimension-parameterized Cursor
// ABOUTME: Covers coalescing, slice/suffix/push-tree composition, and seek bias semantics

package tree

import (
	"strings"
	"testing"
)

func TestPushOrExtendCoalescesIsomorphicRuns(t *testing.T) {
	t.Parallel()

	tr := Empty()
	tr = tr.PushOrExtend(Isomorphic("abc"))
	tr = tr.PushOrExtend(Isomorphic("def"))

	if tr.Len() != 1 {
		t.Fatalf("expected coalesced single leaf, got %d items", tr.Len())
	}
	item, _ := tr.First()
	if item.Summary.Input.Lines.Column != 6 {
		t.Fatalf("expected 6 columns of input, got %d", item.Summary.Input.Lines.Column)
	}
}

func TestPushOrExtendDoesNotCoalesceAcrossWrapMarker(t *testing.T) {
	t.Parallel()

	tr := Empty()
	tr = tr.PushOrExtend(Isomorphic("abc"))
	tr = tr.PushOrExtend(WrapMarker(2))
	tr = tr.PushOrExtend(Isomorphic("def"))

	if tr.Len() != 3 {
		t.Fatalf("expected 3 distinct leaves around a wrap marker, got %d", tr.Len())
	}
}

func TestSliceAndSuffixPartitionTheTree(t *testing.T) {
	t.Parallel()

	tr := FromItems([]Transform{
		Isomorphic("aa"),
		WrapMarker(0),
		Isomorphic("bb"),
		WrapMarker(0),
		Isomorphic("cc"),
	})

	prefix := tr.SliceItems(2)
	suffix := tr.SuffixItems(2)

	if prefix.Len() != 2 {
		t.Fatalf("prefix length = %d, want 2", prefix.Len())
	}
	if suffix.Len() != 3 {
		t.Fatalf("suffix length = %d, want 3", suffix.Len())
	}
	if prefix.PushTree(suffix).Len() != tr.Len() {
		t.Fatalf("prefix+suffix did not reconstruct original length")
	}
}

func TestPushTreeConcatenatesInOrder(t *testing.T) {
	t.Parallel()

	a := FromItems([]Transform{Isomorphic("ab"), WrapMarker(0)})
	b := FromItems([]Transform{Isomorphic("cd")})

	combined := a.PushTree(b)
	var sb strings.Builder
	for _, item := range combined.Items() {
		if item.Kind == KindIsomorphic {
			sb.WriteString("I")
		} else {
			sb.WriteString("W")
		}
	}
	if sb.String() != "IWI" {
		t.Fatalf("combined item sequence = %q, want IWI", sb.String())
	}
}

func TestCursorSeekByTabPointSkipsWrapMarkers(t *testing.T) {
	t.Parallel()

	tr := FromItems([]Transform{
		Isomorphic("hello "), // input cols 0..6
		WrapMarker(2),        // zero input width
		Isomorphic("world"),  // input cols 6..11
	})

	c := NewCursor[tabDim](tr, tabDim{})
	c.Seek(tabDim{Point{Row: 0, Column: 7}}, BiasRight)

	item, ok := c.Item()
	if !ok || item.Kind != KindIsomorphic {
		t.Fatalf("expected isomorphic item at tab column 7, got %+v ok=%v", item, ok)
	}
	start := c.Start()
	if start.Point.Column != 6 {
		t.Fatalf("cursor start column = %d, want 6", start.Point.Column)
	}
}

func TestCursorBiasAtWrapMarkerBoundary(t *testing.T) {
	t.Parallel()

	tr := FromItems([]Transform{
		Isomorphic("abc"),
		WrapMarker(1),
		Isomorphic("def"),
	})

	// Both transforms around the marker start/end at tab column 3 (the
	// marker has zero input width). BiasLeft must land on the isomorphic
	// run ending there; BiasRight must skip the zero-width marker and land
	// on the isomorphic run starting there.
	left := NewCursor[tabDim](tr, tabDim{})
	left.Seek(tabDim{Point{Row: 0, Column: 3}}, BiasLeft)
	if item, _ := left.Item(); item.Kind != KindIsomorphic {
		t.Fatalf("BiasLeft landed on %v, want isomorphic", item.Kind)
	}

	right := NewCursor[tabDim](tr, tabDim{})
	right.Seek(tabDim{Point{Row: 0, Column: 3}}, BiasRight)
	if item, _ := right.Item(); item.Kind != KindIsomorphic || right.Index() != 2 {
		t.Fatalf("BiasRight landed on %v at index %d, want the isomorphic run at index 2", item.Kind, right.Index())
	}
}

// tabDim is a minimal Dimension used only to exercise Cursor in this
// package's own tests, without depending on the wrap package's TabPoint.
type tabDim struct {
	Point Point
}

func (d tabDim) AddSummary(s TransformSummary) tabDim {
	return tabDim{Point: d.Point.Add(s.Input.Lines)}
}

func (d tabDim) Cmp(o tabDim) int {
	return d.Point.Cmp(o.Point)
}
