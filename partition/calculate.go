package partition

import (
	"fmt"

	"github.com/Ago95Dev/SA-ADR/types"
)

// Calculate returns the inclusive edge-index range assigned to instanceID.
//
// The algorithm divides totalEdges evenly across totalInstances: with
// base = totalEdges / totalInstances and remainder = totalEdges %
// totalInstances, instances 0..remainder-1 receive base+1 indices and the
// rest receive base. Ranges are assigned in increasing instanceID order with
// no gaps, so an instance's start equals the cumulative count of indices
// assigned to the instances before it.
//
// Parameters:
//   - totalEdges: Size of the edge-index space, must be >= 0
//   - instanceID: This instance's ID, must be in [0, totalInstances)
//   - totalInstances: Number of cooperating instances, must be > 0
//
// Returns:
//   - types.Range: Inclusive range; empty (End < Start) when the instance
//     receives no indices
//   - error: types.ErrInvalidInstanceCount, types.ErrInvalidInstanceID or
//     types.ErrInvalidEdgeCount on invalid parameters
//
// Example:
//
//	rng, err := partition.Calculate(3459, 1, 4)
//	// rng == types.Range{Start: 865, End: 1729}
func Calculate(totalEdges, instanceID, totalInstances int) (types.Range, error) {
	if totalInstances <= 0 {
		return types.Range{}, fmt.Errorf("%w: got %d", types.ErrInvalidInstanceCount, totalInstances)
	}
	if instanceID < 0 || instanceID >= totalInstances {
		return types.Range{}, fmt.Errorf("%w: got %d with %d instances", types.ErrInvalidInstanceID, instanceID, totalInstances)
	}
	if totalEdges < 0 {
		return types.Range{}, fmt.Errorf("%w: got %d", types.ErrInvalidEdgeCount, totalEdges)
	}

	base := totalEdges / totalInstances
	remainder := totalEdges % totalInstances

	var start, end int
	if instanceID < remainder {
		// The first `remainder` instances take base+1 indices each.
		start = instanceID * (base + 1)
		end = start + base
	} else {
		start = instanceID*base + remainder
		end = start + base - 1
	}

	return types.Range{Start: start, End: end}, nil
}
