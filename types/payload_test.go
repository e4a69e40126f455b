package types

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// The payload is the only structure that travels over the bus; downstream
// consumers depend on these exact field names.
func TestGatewayPayloadWireFormat(t *testing.T) {
	t.Parallel()

	ts := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	p := GatewayPayload{
		GatewayID:   "GW-E-00042",
		DistrictID:  "D-01",
		Location:    Location{Latitude: 42.351, Longitude: 13.398},
		LastUpdated: ts,
		Metadata: GatewayMetadata{
			Name:         "Gateway at E-00042",
			Version:      GatewayVersion,
			Firmware:     GatewayFirmware,
			SensorCounts: map[string]int{"speed": 2, "weather": 1, "camera": 2},
		},
		Sensors: []SensorReading{
			{
				SensorID:     "speed-E-00042-a",
				SensorType:   SensorSpeed,
				GatewayID:    "GW-E-00042",
				EdgeID:       "E-00042",
				Timestamp:    ts,
				Latitude:     42.3511,
				Longitude:    13.3981,
				Measurements: map[string]float64{"avg_speed_kmh": 47.2, "vehicle_count": 9},
			},
		},
	}

	data, err := json.Marshal(p)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	for _, field := range []string{"gateway_id", "district_id", "location", "last_updated", "metadata", "sensors"} {
		require.Contains(t, raw, field)
	}

	meta, ok := raw["metadata"].(map[string]any)
	require.True(t, ok)
	require.Equal(t, "EdgeOS 2.1.3", meta["firmware"])
	require.Equal(t, "1.0.0", meta["version"])

	var back GatewayPayload
	require.NoError(t, json.Unmarshal(data, &back))
	require.Equal(t, p, back)
}
