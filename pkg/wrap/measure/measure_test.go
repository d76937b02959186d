package measure

import (
	"testing"

	"github.com/mauromedda/softwrap-go/pkg/wrap/tree"
)

func TestColumnMeasurerWrapLine(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		line      string
		wrapWidth float64
		wantIx    []int
	}{
		{name: "empty", line: "", wrapWidth: 10, wantIx: nil},
		{name: "fits", line: "hello", wrapWidth: 10, wantIx: nil},
		{name: "exact fit", line: "hello", wrapWidth: 5, wantIx: nil},
		{name: "one break", line: "abcdef", wrapWidth: 3, wantIx: []int{3}},
		{name: "zero width", line: "x", wrapWidth: 0, wantIx: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := ColumnMeasurer{}.WrapLine(tt.line, tt.wrapWidth)
			if len(got) != len(tt.wantIx) {
				t.Fatalf("WrapLine(%q, %v) = %v, want len %d", tt.line, tt.wrapWidth, got, len(tt.wantIx))
			}
			for i, b := range got {
				if b.Ix != tt.wantIx[i] {
					t.Errorf("boundary %d: Ix = %d, want %d", i, b.Ix, tt.wantIx[i])
				}
			}
		})
	}
}

func TestColumnMeasurerIndentClamped(t *testing.T) {
	t.Parallel()

	line := ""
	for i := 0; i < int(tree.MaxIndent)+10; i++ {
		line += " "
	}
	line += "word more words to force a wrap boundary here"

	boundaries := ColumnMeasurer{}.WrapLine(line, 5)
	if len(boundaries) == 0 {
		t.Fatal("expected at least one wrap boundary")
	}
	for _, b := range boundaries {
		if b.NextIndent > tree.MaxIndent {
			t.Errorf("NextIndent = %d, want <= %d", b.NextIndent, tree.MaxIndent)
		}
	}
}

func TestColumnMeasurerNeverSplitsGraphemeCluster(t *testing.T) {
	t.Parallel()

	// A flag emoji is two runes forming one grapheme cluster; a correct
	// measurer treats it as one unit, never breaking inside it. The flag
	// occupies bytes [2, 10) of the line.
	line := "ab" + "\U0001F1FA\U0001F1F8" + "cd"
	boundaries := ColumnMeasurer{}.WrapLine(line, 2)
	for _, b := range boundaries {
		if b.Ix > 2 && b.Ix < 10 {
			t.Errorf("boundary at %d splits the flag cluster", b.Ix)
		}
	}
}
