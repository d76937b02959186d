package tabview

import (
	"testing"

	"github.com/mauromedda/softwrap-go/pkg/wrap"
)

func TestBufferTextRoundTrip(t *testing.T) {
	t.Parallel()

	text := "line one\nline two\nline three"
	b, err := New(text)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if got := b.Text(); got != text {
		t.Errorf("Text() = %q, want %q", got, text)
	}
}

func TestBufferMaxPoint(t *testing.T) {
	t.Parallel()

	b, err := New("ab\ncde")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	want := wrap.TabPoint{Point: wrap.Point{Row: 1, Column: 3}}
	if got := b.MaxPoint(); got != want {
		t.Errorf("MaxPoint() = %+v, want %+v", got, want)
	}
}

func TestBufferEdit(t *testing.T) {
	t.Parallel()

	b, err := New("hello world")
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	start := wrap.TabPoint{Point: wrap.Point{Row: 0, Column: 6}}
	end := wrap.TabPoint{Point: wrap.Point{Row: 0, Column: 11}}
	next, edits, err := b.Edit(start, end, "there")
	if err != nil {
		t.Fatalf("Edit: %v", err)
	}
	if got := next.Text(); got != "hello there" {
		t.Errorf("Text() = %q, want %q", got, "hello there")
	}
	if next.Version() != b.Version()+1 {
		t.Errorf("Version() = %d, want %d", next.Version(), b.Version()+1)
	}
	if len(edits) != 1 {
		t.Fatalf("len(edits) = %d, want 1", len(edits))
	}
	if edits[0].OldLines.Start != start || edits[0].OldLines.End != end {
		t.Errorf("edits[0].OldLines = %+v, want [%+v, %+v)", edits[0].OldLines, start, end)
	}
}

func TestBufferEditAcrossLines(t *testing.T) {
	t.Parallel()

	b, err := New("abc\ndef\nghi")
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	start := wrap.TabPoint{Point: wrap.Point{Row: 0, Column: 1}}
	end := wrap.TabPoint{Point: wrap.Point{Row: 2, Column: 1}}
	next, _, err := b.Edit(start, end, "XY\nZ")
	if err != nil {
		t.Fatalf("Edit: %v", err)
	}
	want := "aXY\nZhi"
	if got := next.Text(); got != want {
		t.Errorf("Text() = %q, want %q", got, want)
	}
}

func TestBufferClipPointSnapsToRuneBoundary(t *testing.T) {
	t.Parallel()

	b, err := New("aéb") // 'a', 'é' (2 bytes), 'b'
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	p := wrap.TabPoint{Point: wrap.Point{Row: 0, Column: 2}} // inside the 2-byte rune
	clipped := b.ClipPoint(p, wrap.BiasLeft)
	if clipped.Column != 1 {
		t.Errorf("ClipPoint(col=2, left) = %d, want 1", clipped.Column)
	}
	clippedRight := b.ClipPoint(p, wrap.BiasRight)
	if clippedRight.Column != 3 {
		t.Errorf("ClipPoint(col=2, right) = %d, want 3", clippedRight.Column)
	}
}
