package types

import (
	"fmt"
	"time"
)

// SensorType identifies one class of sensor attached to a gateway.
type SensorType string

const (
	// SensorSpeed measures traffic speed on the gateway's edge.
	SensorSpeed SensorType = "speed"

	// SensorWeather measures local weather conditions.
	SensorWeather SensorType = "weather"

	// SensorCamera counts vehicles via camera analytics.
	SensorCamera SensorType = "camera"
)

// SensorTypes returns all sensor types in canonical aggregation order.
//
// Payload assembly iterates types in this order so the readings list of a
// payload is stable for a fixed fleet configuration.
func SensorTypes() []SensorType {
	return []SensorType{SensorSpeed, SensorWeather, SensorCamera}
}

// SensorConfig describes one sensor instance attached to a gateway.
//
// The positional offsets are relative to the gateway location and are fixed
// at fleet construction time.
type SensorConfig struct {
	// ID uniquely identifies the sensor, e.g. "speed-E-00042-a".
	ID string `json:"sensor_id"`

	// Label is a human-readable description, e.g. "Speed sensor 1".
	Label string `json:"label"`

	// OffsetLat is the latitude offset from the gateway location in degrees.
	OffsetLat float64 `json:"offset_lat"`

	// OffsetLon is the longitude offset from the gateway location in degrees.
	OffsetLon float64 `json:"offset_lon"`
}

// Location is a geographic coordinate pair.
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// District is a named region owning a contiguous sub-range of edge indices
// and a geographic center. Districts partition the edge index space by
// configuration; they are supplied, never computed.
type District struct {
	// ID uniquely identifies the district.
	ID string `json:"district_id" yaml:"district_id"`

	// Name is the display name of the district.
	Name string `json:"name" yaml:"name"`

	// EdgeRange is the contiguous sub-range of edge indices the district owns.
	EdgeRange Range `json:"edge_range" yaml:"edge_range"`

	// Center is the geographic center gateways in the district scatter around.
	Center Location `json:"center" yaml:"center"`
}

// Gateway is the aggregation unit at one edge location. It collects readings
// from its configured sensors and publishes one combined payload per
// iteration. All fields are fixed at fleet construction time.
type Gateway struct {
	// ID uniquely identifies the gateway, e.g. "GW-E-00042".
	ID string

	// EdgeID is the edge the gateway sits on, e.g. "E-00042". Sensors carry
	// this identity in their readings; the gateway payload itself does not.
	EdgeID string

	// EdgeIndex is the numeric index behind EdgeID.
	EdgeIndex int

	// DistrictID is the owning district.
	DistrictID string

	// Name is the display name, e.g. "Gateway at E-00042".
	Name string

	// Location is the fixed gateway position: the district center plus a
	// small random offset drawn once at construction.
	Location Location

	// Sensors maps each sensor type to its configured descriptors.
	Sensors map[SensorType][]SensorConfig

	// SamplingInterval is the fixed delay between iterations, drawn once at
	// construction from the configured bounds and never resampled.
	SamplingInterval time.Duration
}

// SensorCount returns the number of configured sensors of the given type.
func (g *Gateway) SensorCount(t SensorType) int {
	return len(g.Sensors[t])
}

// TotalSensors returns the number of configured sensors across all types.
func (g *Gateway) TotalSensors() int {
	n := 0
	for _, cfgs := range g.Sensors {
		n += len(cfgs)
	}

	return n
}

// EdgeID formats the canonical edge identifier for an edge index,
// e.g. EdgeID(42) == "E-00042".
func EdgeID(index int) string {
	return fmt.Sprintf("E-%05d", index)
}

// GatewayID formats the canonical gateway identifier for an edge,
// e.g. GatewayID("E-00042") == "GW-E-00042".
func GatewayID(edgeID string) string {
	return "GW-" + edgeID
}
