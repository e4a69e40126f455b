package sensors

import (
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"github.com/Ago95Dev/SA-ADR/types"
)

// Simulated measurement bounds per sensor type.
const (
	speedMinKMH = 10.0
	speedMaxKMH = 90.0
	maxVehicles = 40

	temperatureMinC = -5.0
	temperatureMaxC = 35.0
	humidityMinPct  = 20.0
	humidityMaxPct  = 95.0
	pressureMinHPa  = 980.0
	pressureMaxHPa  = 1040.0
)

// Producer generates simulated readings for gateway iterations.
//
// Stateless and safe for concurrent use; every draw comes from the shared
// math/rand/v2 generator.
type Producer struct{}

// Compile-time assertion that Producer implements ReadingProducer.
var _ types.ReadingProducer = (*Producer)(nil)

// NewProducer creates the default simulated reading producer.
//
// Returns:
//   - *Producer: A new producer instance
func NewProducer() *Producer {
	return &Producer{}
}

// Readings returns one simulated reading per descriptor, in descriptor order.
//
// Parameters:
//   - sensorType: The sensor class to read
//   - sensorConfigs: Descriptors of the configured sensors of that class
//   - gateway: The collecting gateway; readings take its identity and location
//
// Returns:
//   - []types.SensorReading: Ordered readings, one per descriptor; nil when
//     no descriptors are configured
//   - error: types.ErrInvalidConfig for an unknown sensor type
func (p *Producer) Readings(sensorType types.SensorType, sensorConfigs []types.SensorConfig, gateway *types.Gateway) ([]types.SensorReading, error) {
	if len(sensorConfigs) == 0 {
		return nil, nil
	}

	measure, err := measurementsFor(sensorType)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	readings := make([]types.SensorReading, 0, len(sensorConfigs))
	for _, cfg := range sensorConfigs {
		readings = append(readings, types.SensorReading{
			SensorID:     cfg.ID,
			SensorType:   sensorType,
			GatewayID:    gateway.ID,
			EdgeID:       gateway.EdgeID,
			Timestamp:    now,
			Latitude:     gateway.Location.Latitude + cfg.OffsetLat,
			Longitude:    gateway.Location.Longitude + cfg.OffsetLon,
			Measurements: measure(),
		})
	}

	return readings, nil
}

func measurementsFor(sensorType types.SensorType) (func() map[string]float64, error) {
	switch sensorType {
	case types.SensorSpeed:
		return speedMeasurements, nil
	case types.SensorWeather:
		return weatherMeasurements, nil
	case types.SensorCamera:
		return cameraMeasurements, nil
	default:
		return nil, fmt.Errorf("%w: unknown sensor type %q", types.ErrInvalidConfig, sensorType)
	}
}

func speedMeasurements() map[string]float64 {
	return map[string]float64{
		"avg_speed_kmh": round1(uniform(speedMinKMH, speedMaxKMH)),
		"vehicle_count": float64(rand.IntN(maxVehicles + 1)),
	}
}

func weatherMeasurements() map[string]float64 {
	return map[string]float64{
		"temperature_c": round1(uniform(temperatureMinC, temperatureMaxC)),
		"humidity_pct":  round1(uniform(humidityMinPct, humidityMaxPct)),
		"pressure_hpa":  round1(uniform(pressureMinHPa, pressureMaxHPa)),
	}
}

func cameraMeasurements() map[string]float64 {
	count := rand.IntN(maxVehicles + 1)

	// Congestion tracks the vehicle count with a little noise, clamped to
	// [0, 1].
	congestion := float64(count)/maxVehicles + uniform(-0.1, 0.1)
	congestion = math.Max(0, math.Min(1, congestion))

	return map[string]float64{
		"vehicle_count":    float64(count),
		"congestion_index": round2(congestion),
	}
}

func uniform(min, max float64) float64 {
	return min + rand.Float64()*(max-min)
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
