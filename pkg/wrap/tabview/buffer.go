// ABOUTME: Buffer is an immutable, versioned in-memory TabView, generalized from the teacher's Editor line model
// ABOUTME: Edit returns a new Buffer plus the TabEdits describing the change, standing in for a host editor's buffer

package tabview

import (
	"fmt"
	"iter"
	"strings"
	"unicode/utf8"

	"github.com/mauromedda/softwrap-go/pkg/wrap"
	"github.com/mauromedda/softwrap-go/pkg/wrap/tree"
)

// Buffer is a line-oriented text snapshot: each element of lines is one
// logical row with no trailing newline. Rows map 1:1 to tab rows (hard-tab
// expansion is out of scope per spec.md's non-goals), so Buffer's own
// ToPoint/FromPoint are the identity and BufferRows yields its argument
// verbatim.
type Buffer struct {
	lines   []string
	version uint64
}

// New builds a Buffer from text at version 0, splitting on "\n" the same
// way the teacher's Editor.SetText does.
func New(text string) (*Buffer, error) {
	if !utf8.ValidString(text) {
		return nil, fmt.Errorf("tabview: invalid UTF-8 in buffer text")
	}
	return &Buffer{lines: strings.Split(text, "\n")}, nil
}

// Text reassembles the buffer's full content.
func (b *Buffer) Text() string {
	return strings.Join(b.lines, "\n")
}

// Lines returns the buffer's rows, one logical line per element with no
// trailing newline.
func (b *Buffer) Lines() []string {
	return b.lines
}

// Version returns the monotonically increasing edit counter.
func (b *Buffer) Version() uint64 {
	return b.version
}

func (b *Buffer) MaxPoint() wrap.TabPoint {
	last := len(b.lines) - 1
	return wrap.TabPoint{Point: wrap.Point{Row: uint32(last), Column: uint32(len(b.lines[last]))}}
}

func (b *Buffer) TextSummary() tree.TextSummary {
	return b.TextSummaryForRange(wrap.TabPoint{}, b.MaxPoint())
}

func (b *Buffer) TextSummaryForRange(start, end wrap.TabPoint) tree.TextSummary {
	return tree.TextSummaryFromString(b.sliceText(start, end))
}

func (b *Buffer) ClipPoint(p wrap.TabPoint, bias wrap.Bias) wrap.TabPoint {
	if int(p.Row) >= len(b.lines) {
		return b.MaxPoint()
	}
	line := b.lines[p.Row]
	if int(p.Column) > len(line) {
		p.Column = uint32(len(line))
	}
	if p.Column == 0 || int(p.Column) >= len(line) {
		return p
	}
	// Snap to the nearest rune boundary so a caller can never clip into the
	// middle of a multi-byte rune.
	for !utf8.RuneStart(line[p.Column]) {
		if bias == tree.BiasLeft {
			p.Column--
		} else {
			p.Column++
		}
	}
	return p
}

func (b *Buffer) ToPoint(p wrap.TabPoint, _ wrap.Bias) wrap.Point {
	return p.Point
}

func (b *Buffer) FromPoint(p wrap.Point, _ wrap.Bias) wrap.TabPoint {
	return wrap.TabPoint{Point: p}
}

func (b *Buffer) BufferRows(row uint32) iter.Seq[uint32] {
	return func(yield func(uint32) bool) {
		for r := row; int(r) < len(b.lines); r++ {
			if !yield(r) {
				return
			}
		}
	}
}

// sliceText returns the raw text between start and end, inclusive of the
// newlines that separate the rows spanned.
func (b *Buffer) sliceText(start, end wrap.TabPoint) string {
	if start.Row == end.Row {
		return b.lines[start.Row][start.Column:end.Column]
	}
	var sb strings.Builder
	sb.WriteString(b.lines[start.Row][start.Column:])
	for r := start.Row + 1; r < end.Row; r++ {
		sb.WriteByte('\n')
		sb.WriteString(b.lines[r])
	}
	sb.WriteByte('\n')
	sb.WriteString(b.lines[end.Row][:end.Column])
	return sb.String()
}

func (b *Buffer) Chunks(start, end wrap.TabPoint) iter.Seq[wrap.Chunk] {
	return func(yield func(wrap.Chunk) bool) {
		text := b.sliceText(start, end)
		if text == "" {
			return
		}
		yield(wrap.Chunk{Text: text, Style: nil})
	}
}

// Edit replaces the text in [oldStart, oldEnd) with newText and
// returns the resulting Buffer (at version+1) alongside the single TabEdit
// describing the change, in the shape Controller.Sync expects.
func (b *Buffer) Edit(oldStart, oldEnd wrap.TabPoint, newText string) (*Buffer, []wrap.TabEdit, error) {
	if !utf8.ValidString(newText) {
		return nil, nil, fmt.Errorf("tabview: invalid UTF-8 in replacement text")
	}

	prefix := b.lines[oldStart.Row][:oldStart.Column]
	suffix := b.lines[oldEnd.Row][oldEnd.Column:]
	replacement := strings.Split(prefix+newText+suffix, "\n")

	lines := make([]string, 0, len(b.lines)-int(oldEnd.Row-oldStart.Row)-1+len(replacement))
	lines = append(lines, b.lines[:oldStart.Row]...)
	lines = append(lines, replacement...)
	lines = append(lines, b.lines[oldEnd.Row+1:]...)

	newBuf := &Buffer{lines: lines, version: b.version + 1}
	newEnd := wrap.TabPoint{Point: wrap.Point{
		Row:    oldStart.Row + uint32(len(replacement)-1),
		Column: uint32(len(replacement[len(replacement)-1]) - len(suffix)),
	}}

	edits := []wrap.TabEdit{{
		OldLines: wrap.Range[wrap.TabPoint]{Start: oldStart, End: oldEnd},
		NewLines: wrap.Range[wrap.TabPoint]{Start: oldStart, End: newEnd},
	}}
	return newBuf, edits, nil
}
