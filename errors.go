package citysim

import "github.com/Ago95Dev/SA-ADR/types"

// Sentinel errors returned by the Simulator, re-exported from the types
// subpackage so callers can use errors.Is against the root package.
var (
	// ErrInvalidConfig is returned when the configuration is invalid.
	ErrInvalidConfig = types.ErrInvalidConfig

	// ErrInvalidInstanceCount is returned when the total instance count is
	// not positive.
	ErrInvalidInstanceCount = types.ErrInvalidInstanceCount

	// ErrInvalidInstanceID is returned when the instance ID falls outside
	// [0, TotalInstances).
	ErrInvalidInstanceID = types.ErrInvalidInstanceID

	// ErrInvalidEdgeCount is returned when the total edge count is negative.
	ErrInvalidEdgeCount = types.ErrInvalidEdgeCount

	// ErrNoDistricts is returned when no districts are configured.
	ErrNoDistricts = types.ErrNoDistricts

	// ErrBusClientRequired is returned when the simulator is constructed
	// without a message bus client.
	ErrBusClientRequired = types.ErrBusClientRequired

	// ErrAlreadyStarted is returned when Start is called on a running simulator.
	ErrAlreadyStarted = types.ErrAlreadyStarted

	// ErrNotStarted is returned when Stop is called before Start.
	ErrNotStarted = types.ErrNotStarted

	// ErrInstanceConflict is returned when another live process already
	// claimed this instance ID in the presence bucket.
	ErrInstanceConflict = types.ErrInstanceConflict
)

// IsConfigError reports whether err is a fatal startup configuration error.
// Daemons use this to decide between aborting and degraded startup.
func IsConfigError(err error) bool {
	return types.IsConfigError(err)
}
