package types

// ReadingProducer produces sensor readings for one gateway iteration.
//
// Implementations generate or fetch one reading per descriptor. The sensors
// package provides the default simulated producer; tests substitute fixed or
// failing producers.
type ReadingProducer interface {
	// Readings returns one reading per descriptor, in descriptor order.
	//
	// The gateway and edge identity are passed through so readings carry the
	// edge they were taken on; reading content itself is
	// implementation-defined.
	//
	// Parameters:
	//   - sensorType: The sensor class to read
	//   - sensors: Descriptors of the configured sensors of that class
	//   - gateway: The collecting gateway (identity and location)
	//
	// Returns:
	//   - []SensorReading: Ordered readings, one per descriptor
	//   - error: Producer failure; the iteration is skipped and logged
	Readings(sensorType SensorType, sensors []SensorConfig, gateway *Gateway) ([]SensorReading, error)
}
