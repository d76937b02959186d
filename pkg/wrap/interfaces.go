// ABOUTME: TabView and LineMeasurer are the two external collaborators this layer consumes
// ABOUTME: A host embeds this package by implementing both against its own buffer and text-shaping stack

package wrap

import (
	"iter"

	"github.com/mauromedda/softwrap-go/pkg/wrap/tree"
)

// TabView is the upstream projection this layer wraps: hard tabs already
// expanded to spaces, no soft wrapping applied. Implementations must be
// immutable snapshots — Version distinguishes one snapshot from the next.
type TabView interface {
	TextSummary() tree.TextSummary
	TextSummaryForRange(start, end TabPoint) tree.TextSummary
	MaxPoint() TabPoint
	// Chunks yields the Chunks spanning [start, end) in document order.
	Chunks(start, end TabPoint) iter.Seq[Chunk]
	// BufferRows yields the underlying buffer line number of every tab row
	// from row to MaxPoint().Row, inclusive.
	BufferRows(row uint32) iter.Seq[uint32]
	ToPoint(p TabPoint, bias Bias) Point
	FromPoint(p Point, bias Bias) TabPoint
	ClipPoint(p TabPoint, bias Bias) TabPoint
	Version() uint64
}

// Boundary is one soft-wrap break point within a logical line: Ix is the
// byte offset to break at, NextIndent is the hanging indent (in columns,
// already clamped to tree.MaxIndent) of the continuation.
type Boundary struct {
	Ix         int
	NextIndent uint32
}

// LineMeasurer decides where a logical line should soft-wrap given a
// column budget. It never sees more than one logical line at a time.
type LineMeasurer interface {
	WrapLine(line string, wrapWidth float64) []Boundary
}
