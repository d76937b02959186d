// ABOUTME: Bias controls which side of a zero-width item a seek lands on
// ABOUTME: Mirrors the order-statistic tree's seek contract used throughout pkg/wrap

package tree

// Bias disambiguates a seek that lands exactly on the boundary between two
// items. BiasLeft stops at the first item ending at the target, never
// crossing into a following zero-width item (a wrap marker). BiasRight
// instead passes over every item ending at the target, zero-width items
// included, and stops at the first item that extends beyond it.
type Bias int

const (
	BiasLeft Bias = iota
	BiasRight
)
