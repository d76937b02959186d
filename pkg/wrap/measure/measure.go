// ABOUTME: ColumnMeasurer is a concrete wrap.LineMeasurer built from the teacher's grapheme-width code
// ABOUTME: Wrap boundaries land on grapheme-cluster edges; width is approximated as a column count, not pixels

package measure

import (
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
	xtextwidth "golang.org/x/text/width"

	"github.com/mauromedda/softwrap-go/pkg/wrap"
	"github.com/mauromedda/softwrap-go/pkg/wrap/tree"
)

// ColumnMeasurer wraps a logical line at grapheme-cluster boundaries once
// the running column sum would exceed the configured width, treating
// wrapWidth as a column budget rather than a true pixel width.
type ColumnMeasurer struct{}

// WrapLine implements wrap.LineMeasurer.
func (ColumnMeasurer) WrapLine(line string, wrapWidth float64) []wrap.Boundary {
	if wrapWidth <= 0 || line == "" {
		return nil
	}

	indent := leadingIndent(line)
	budget := int(wrapWidth)
	if budget < 1 {
		budget = 1
	}

	var boundaries []wrap.Boundary
	col := 0
	i := 0
	state := -1
	for i < len(line) {
		cluster, rest, _, newState := uniseg.FirstGraphemeClusterInString(line[i:], state)
		state = newState
		w := clusterWidth(cluster)

		if col > 0 && col+w > budget {
			boundaries = append(boundaries, wrap.Boundary{Ix: i, NextIndent: indent})
			col = 0
		}
		col += w
		i += len(line[i:]) - len(rest)
	}

	return boundaries
}

// clusterWidth returns the column width of a single grapheme cluster, using
// go-runewidth for the common case and returning 2 instead when go-runewidth
// reports width 1 but golang.org/x/text/width classifies the rune as East
// Asian Wide or Fullwidth. Only the cluster's first rune is measured.
func clusterWidth(cluster string) int {
	r, _ := utf8.DecodeRuneInString(cluster)
	if r == utf8.RuneError {
		return 0
	}
	w := runewidth.RuneWidth(r)
	if w == 1 {
		switch xtextwidth.LookupRune(r).Kind() {
		case xtextwidth.EastAsianWide, xtextwidth.EastAsianFullwidth:
			return 2
		}
	}
	return w
}

// leadingIndent returns the column width of line's leading whitespace,
// clamped to tree.MaxIndent.
func leadingIndent(line string) uint32 {
	var indent uint32
	for _, r := range line {
		if r != ' ' && r != '\t' {
			break
		}
		indent += uint32(runewidth.RuneWidth(r))
		if indent >= tree.MaxIndent {
			return tree.MaxIndent
		}
	}
	return indent
}
