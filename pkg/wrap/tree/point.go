// ABOUTME: Point is a zero-based (row, column) location shared by every coordinate space
// ABOUTME: Column is measured in the unit of whichever space the Point lives in (bytes, columns, or chars)

package tree

import "fmt"

// Point is a row/column pair. TextSummary, TabPoint and WrapPoint all embed
// or convert to it; the unit of Column depends on which space the point
// belongs to.
type Point struct {
	Row    uint32
	Column uint32
}

func (p Point) String() string {
	return fmt.Sprintf("(%d, %d)", p.Row, p.Column)
}

// Add returns p advanced by other, the way appending two runs of text would:
// if other spans more than one line, p's row advances by other's row count
// and the column resets to other's last line length; otherwise the column
// accumulates onto the same row.
func (p Point) Add(other Point) Point {
	if other.Row == 0 {
		return Point{Row: p.Row, Column: p.Column + other.Column}
	}
	return Point{Row: p.Row + other.Row, Column: other.Column}
}

// Cmp orders points lexicographically by (Row, Column).
func (p Point) Cmp(o Point) int {
	if p.Row != o.Row {
		if p.Row < o.Row {
			return -1
		}
		return 1
	}
	if p.Column != o.Column {
		if p.Column < o.Column {
			return -1
		}
		return 1
	}
	return 0
}

func (p Point) IsZero() bool {
	return p.Row == 0 && p.Column == 0
}

// Sub returns p minus o. When o is on a later row than p, or on the same row
// with a greater column, the subtraction is clamped to the zero Point rather
// than wrapping or panicking: the two tree cursors this supports only ever
// diverge across a row when o is a cursor start that already passed p, which
// signals a zero-width remainder, not a negative one.
func (p Point) Sub(o Point) Point {
	if p.Row < o.Row {
		return Point{}
	}
	if p.Row == o.Row {
		if p.Column < o.Column {
			return Point{}
		}
		return Point{Row: 0, Column: p.Column - o.Column}
	}
	return Point{Row: p.Row - o.Row, Column: p.Column}
}
