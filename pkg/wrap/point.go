// ABOUTME: TabPoint and WrapPoint are the two coordinate spaces the wrap layer maps between
// ABOUTME: Each implements tree.Dimension so the same cursor machinery can seek by either one

package wrap

import "github.com/mauromedda/softwrap-go/pkg/wrap/tree"

// Point is a (row, column) location; Column's unit depends on which
// coordinate space it is used in.
type Point = tree.Point

// Bias disambiguates a seek landing exactly on an item boundary.
type Bias = tree.Bias

const (
	BiasLeft  = tree.BiasLeft
	BiasRight = tree.BiasRight
)

// TabPoint is a location in the upstream tab view: hard tabs already
// expanded to spaces, no soft wrapping applied.
type TabPoint struct {
	Point
}

func (p TabPoint) AddSummary(s tree.TransformSummary) TabPoint {
	return TabPoint{p.Point.Add(s.Input.Lines)}
}

func (p TabPoint) Cmp(o TabPoint) int {
	return p.Point.Cmp(o.Point)
}

// WrapPoint is a location in this layer's own soft-wrapped display view.
type WrapPoint struct {
	Point
}

func (p WrapPoint) AddSummary(s tree.TransformSummary) WrapPoint {
	return WrapPoint{p.Point.Add(s.Output.Lines)}
}

func (p WrapPoint) Cmp(o WrapPoint) int {
	return p.Point.Cmp(o.Point)
}

// wrapTabDim accumulates both coordinate spaces together while seeking by
// WrapPoint, letting a single cursor answer "what tab position corresponds
// to this wrap position" without a second seek.
type wrapTabDim struct {
	Wrap WrapPoint
	Tab  TabPoint
}

func (d wrapTabDim) AddSummary(s tree.TransformSummary) wrapTabDim {
	return wrapTabDim{Wrap: d.Wrap.AddSummary(s), Tab: d.Tab.AddSummary(s)}
}

func (d wrapTabDim) Cmp(o wrapTabDim) int {
	return d.Wrap.Cmp(o.Wrap)
}

// tabWrapDim is the dual of wrapTabDim, seeking by TabPoint.
type tabWrapDim struct {
	Tab  TabPoint
	Wrap WrapPoint
}

func (d tabWrapDim) AddSummary(s tree.TransformSummary) tabWrapDim {
	return tabWrapDim{Tab: d.Tab.AddSummary(s), Wrap: d.Wrap.AddSummary(s)}
}

func (d tabWrapDim) Cmp(o tabWrapDim) int {
	return d.Tab.Cmp(o.Tab)
}

// Range is a half-open [Start, End) span over any ordered coordinate type.
type Range[T any] struct {
	Start T
	End   T
}

// Chunk is an opaque run of text carrying upstream style metadata, forwarded
// unchanged from the tab view.
type Chunk struct {
	Text  string
	Style any
}

// TabEdit describes one upstream edit in tab-view coordinates.
type TabEdit struct {
	OldLines Range[TabPoint]
	NewLines Range[TabPoint]
}
