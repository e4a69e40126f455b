// Package partition computes the contiguous edge-index range owned by one
// instance of a horizontally scaled fleet.
//
// The calculation is a pure function of (totalEdges, instanceID,
// totalInstances): no state, no I/O. For a fixed input space the ranges of
// all instances are pairwise disjoint, cover [0, totalEdges) exactly, and
// differ in size by at most one. Instances with an ID below
// totalEdges % totalInstances receive one extra index.
//
// Degenerate inputs are valid: when totalEdges < totalInstances some
// instances receive an empty range (End < Start), which callers must treat
// as "no items assigned", not as an error.
package partition
