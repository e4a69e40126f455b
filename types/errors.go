package types

import "errors"

// Sentinel errors for the citysim library.
//
// These errors provide type-safe error checking using errors.Is() and
// errors.As(). Components use these sentinels for known error conditions and
// wrap external errors with context using fmt.Errorf("%s: %w", msg, err).

// Configuration errors - fatal at startup, reported before exit.
var (
	// ErrInvalidConfig is returned when the configuration is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrInvalidInstanceCount is returned when the total instance count is
	// not positive.
	ErrInvalidInstanceCount = errors.New("total instances must be positive")

	// ErrInvalidInstanceID is returned when the instance ID falls outside
	// [0, totalInstances).
	ErrInvalidInstanceID = errors.New("instance ID out of range")

	// ErrInvalidEdgeCount is returned when the total edge count is negative.
	ErrInvalidEdgeCount = errors.New("total edges must not be negative")

	// ErrNoDistricts is returned when no districts are configured. The fleet
	// cannot place gateways without at least one district.
	ErrNoDistricts = errors.New("no districts configured")
)

// Simulator errors - public API errors returned by the Simulator.
var (
	// ErrBusClientRequired is returned when the simulator is constructed
	// without a message bus client.
	ErrBusClientRequired = errors.New("message bus client is required")

	// ErrAlreadyStarted is returned when Start is called on a running simulator.
	ErrAlreadyStarted = errors.New("simulator already started")

	// ErrNotStarted is returned when operations require a started simulator.
	ErrNotStarted = errors.New("simulator not started")

	// ErrInstanceConflict is returned when another live process already
	// claimed this instance ID in the presence bucket.
	ErrInstanceConflict = errors.New("instance ID already claimed by a live instance")
)

// IsConfigError reports whether err is one of the fatal startup
// configuration errors.
//
// The daemon uses this to decide between aborting initialization and
// continuing in degraded form: configuration errors always abort.
func IsConfigError(err error) bool {
	if err == nil {
		return false
	}

	for _, sentinel := range []error{
		ErrInvalidConfig,
		ErrInvalidInstanceCount,
		ErrInvalidInstanceID,
		ErrInvalidEdgeCount,
		ErrNoDistricts,
		ErrInstanceConflict,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}

	return false
}
