// ABOUTME: TextSummary and TransformSummary are the additive monoids the tree aggregates per node
// ABOUTME: Every Transform carries a TransformSummary; internal nodes cache the sum of their subtree

package tree

import "unicode/utf8"

// TextSummary aggregates the shape of a run of text: its extent in Point
// coordinates plus enough detail about the first and last lines to let two
// summaries be added without re-scanning the text itself.
type TextSummary struct {
	Lines          Point
	FirstLineChars uint32
	LastLineChars  uint32
	LongestRow     uint32
	LongestRowChars uint32
}

// Add concatenates two summaries as if the text they describe were
// appended to one another.
func (a TextSummary) Add(b TextSummary) TextSummary {
	if b.Lines.IsZero() && b.LastLineChars == 0 && b.FirstLineChars == 0 {
		if a.Lines.IsZero() {
			return TextSummary{
				Lines:           a.Lines,
				FirstLineChars:  a.FirstLineChars,
				LastLineChars:   a.LastLineChars + b.FirstLineChars,
				LongestRow:      a.LongestRow,
				LongestRowChars: maxU32(a.LongestRowChars, a.LastLineChars+b.FirstLineChars),
			}
		}
	}

	sum := TextSummary{
		Lines: a.Lines.Add(b.Lines),
	}

	if a.Lines.Row == 0 {
		sum.FirstLineChars = a.FirstLineChars + b.FirstLineChars
	} else {
		sum.FirstLineChars = a.FirstLineChars
	}

	joinedLine := a.LastLineChars + b.FirstLineChars
	if b.Lines.Row == 0 {
		sum.LastLineChars = joinedLine
	} else {
		sum.LastLineChars = b.LastLineChars
	}

	sum.LongestRow = a.LongestRow
	sum.LongestRowChars = a.LongestRowChars
	if joinedLine > sum.LongestRowChars {
		sum.LongestRow = a.Lines.Row
		sum.LongestRowChars = joinedLine
	}
	if b.Lines.Row > 0 && b.LongestRowChars > sum.LongestRowChars {
		sum.LongestRow = a.Lines.Row + b.LongestRow
		sum.LongestRowChars = b.LongestRowChars
	}

	return sum
}

func maxU32(a, b uint32) uint32 {
	if a > b {
		return a
	}
	return b
}

// TextSummaryFromString builds the summary for a literal run of text, one
// rune counted as one char. Callers that need display-column widths
// (tabs, wide runes) compute FirstLineChars/LastLineChars themselves.
func TextSummaryFromString(s string) TextSummary {
	var sum TextSummary
	lineStart := 0
	col := uint32(0)
	row := uint32(0)
	longestRow := uint32(0)
	longestChars := uint32(0)
	lineChars := uint32(0)
	first := true
	var firstLineChars uint32

	for _, r := range s {
		if r == '\n' {
			if lineChars > longestChars {
				longestChars = lineChars
				longestRow = row
			}
			if first {
				firstLineChars = lineChars
				first = false
			}
			row++
			col = 0
			lineChars = 0
			continue
		}
		col += uint32(utf8.RuneLen(r))
		lineChars++
	}
	if lineChars > longestChars {
		longestChars = lineChars
		longestRow = row
	}
	if first {
		firstLineChars = lineChars
	}
	_ = lineStart

	sum.Lines = Point{Row: row, Column: col}
	sum.FirstLineChars = firstLineChars
	sum.LastLineChars = lineChars
	sum.LongestRow = longestRow
	sum.LongestRowChars = longestChars
	return sum
}

// TransformSummary pairs the summary of a transform's input (tab-view) span
// with the summary of its output (wrap-view) span. Isomorphic transforms
// have identical Input and Output; wrap markers have a zero Input.
type TransformSummary struct {
	Input  TextSummary
	Output TextSummary
}

func (s TransformSummary) Add(o TransformSummary) TransformSummary {
	return TransformSummary{
		Input:  s.Input.Add(o.Input),
		Output: s.Output.Add(o.Output),
	}
}
