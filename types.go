package citysim

import "github.com/Ago95Dev/SA-ADR/types"

// Re-export types from the types subpackage.
//
// This file provides a stable public API for the library's core types and
// interfaces. It uses type aliases to re-export definitions from the `types`
// subpackage, which contains the actual implementations.
//
// This pattern solves the "import cycle" problem by allowing internal
// packages to depend on `types` without depending on the root `citysim`
// package, while still providing a convenient `citysim.State`,
// `citysim.Logger`, etc. for users.
type (
	State          = types.State
	SensorType     = types.SensorType
	SensorConfig   = types.SensorConfig
	SensorReading  = types.SensorReading
	Location       = types.Location
	District       = types.District
	Gateway        = types.Gateway
	GatewayPayload = types.GatewayPayload
	Range          = types.Range
)

// Re-export interfaces from the types subpackage for convenience.
type (
	BusPublisher     = types.BusPublisher
	ReadingProducer  = types.ReadingProducer
	MetricsCollector = types.MetricsCollector
	Logger           = types.Logger
	Hooks            = types.Hooks
)

// Re-export State constants from the types subpackage.
const (
	StateCreated  = types.StateCreated
	StateRunning  = types.StateRunning
	StateStopping = types.StateStopping
	StateStopped  = types.StateStopped
)

// Re-export sensor type constants from the types subpackage.
const (
	SensorSpeed   = types.SensorSpeed
	SensorWeather = types.SensorWeather
	SensorCamera  = types.SensorCamera
)
