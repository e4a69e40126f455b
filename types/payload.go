package types

import "time"

// Static gateway firmware metadata reported in every payload.
const (
	// GatewayVersion is the gateway software version.
	GatewayVersion = "1.0.0"

	// GatewayFirmware is the gateway firmware identifier.
	GatewayFirmware = "EdgeOS 2.1.3"
)

// SensorReading is one data record produced by a reading producer for a
// specific sensor instance. Readings carry the edge identity; the enclosing
// gateway payload does not.
type SensorReading struct {
	// SensorID identifies the sensor instance, e.g. "speed-E-00042-a".
	SensorID string `json:"sensor_id"`

	// SensorType is the sensor class the reading came from.
	SensorType SensorType `json:"sensor_type"`

	// GatewayID is the gateway that collected the reading.
	GatewayID string `json:"gateway_id"`

	// EdgeID is the graph edge the sensor is physically located on.
	EdgeID string `json:"edge_id"`

	// Timestamp is the UTC time the reading was taken.
	Timestamp time.Time `json:"timestamp"`

	// Latitude and Longitude are the sensor position: the gateway location
	// plus the descriptor's fixed offsets.
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`

	// Measurements holds the per-type measured values, e.g.
	// {"avg_speed_kmh": 42.7, "vehicle_count": 12}.
	Measurements map[string]float64 `json:"measurements"`
}

// GatewayMetadata is the static descriptive block of a payload.
type GatewayMetadata struct {
	// Name is the gateway display name.
	Name string `json:"name"`

	// Version is the gateway software version.
	Version string `json:"version"`

	// Firmware is the gateway firmware identifier.
	Firmware string `json:"firmware"`

	// SensorCounts maps sensor type to the number of configured sensors.
	SensorCounts map[string]int `json:"sensor_counts"`
}

// GatewayPayload is the aggregated message one gateway publishes per
// iteration. It is the only structure that travels over the bus and must
// round-trip losslessly through JSON.
type GatewayPayload struct {
	// GatewayID identifies the publishing gateway and doubles as the bus
	// partition key so per-gateway ordering is preserved.
	GatewayID string `json:"gateway_id"`

	// DistrictID is the gateway's owning district.
	DistrictID string `json:"district_id"`

	// Location is the fixed gateway position.
	Location Location `json:"location"`

	// LastUpdated is the UTC assembly time of the payload.
	LastUpdated time.Time `json:"last_updated"`

	// Metadata is the static gateway descriptor block.
	Metadata GatewayMetadata `json:"metadata"`

	// Sensors is the ordered list of readings aggregated from every sensor
	// type configured on the gateway.
	Sensors []SensorReading `json:"sensors"`
}
