package types

import "fmt"

// Range is the inclusive edge-index range assigned to one instance.
//
// A Range with End < Start is empty and means "no items assigned"; callers
// must treat it as a valid degenerate result, not an error. For a fixed
// (totalEdges, totalInstances) the ranges of all instances are pairwise
// disjoint, their union is exactly [0, totalEdges), and their sizes differ
// by at most one.
type Range struct {
	// Start is the first edge index owned by the instance.
	Start int `json:"start"`

	// End is the last edge index owned by the instance, inclusive.
	End int `json:"end"`
}

// Size returns the number of indices in the range, 0 when empty.
func (r Range) Size() int {
	if r.End < r.Start {
		return 0
	}

	return r.End - r.Start + 1
}

// IsEmpty reports whether the range contains no indices.
func (r Range) IsEmpty() bool {
	return r.End < r.Start
}

// Contains reports whether index i falls inside the range.
func (r Range) Contains(i int) bool {
	return i >= r.Start && i <= r.End
}

// String returns the range in "[start, end]" form, or "[empty]" when empty.
func (r Range) String() string {
	if r.IsEmpty() {
		return "[empty]"
	}

	return fmt.Sprintf("[%d, %d]", r.Start, r.End)
}
