package registry

import (
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"github.com/zeebo/xxh3"

	"github.com/Ago95Dev/SA-ADR/types"
)

// Per-gateway randomness bounds, fixed at fleet construction.
const (
	// gatewayOffsetDegrees is the maximum location offset from the district
	// center, in degrees of latitude/longitude.
	gatewayOffsetDegrees = 0.02

	// sensorOffsetDegrees is the maximum sensor position offset from the
	// gateway location, in degrees.
	sensorOffsetDegrees = 0.0002

	// maxSensorsPerType is bounded by the descriptor suffix letters a-z.
	maxSensorsPerType = 26
)

// Config carries everything Build needs to produce one instance's fleet.
type Config struct {
	// Range is the instance's inclusive edge-index range. An empty range
	// produces an empty fleet.
	Range types.Range

	// Districts are the configured districts in lookup order. Must not be
	// empty.
	Districts []types.District

	// SensorsPerGateway maps each sensor type to the number of descriptors
	// generated per gateway. Types absent from the map get zero sensors.
	// Counts must be in [0, 26].
	SensorsPerGateway map[types.SensorType]int

	// SamplingIntervalMin and SamplingIntervalMax bound the per-gateway
	// sampling interval, drawn once per gateway.
	SamplingIntervalMin time.Duration
	SamplingIntervalMax time.Duration

	// Seed makes the fleet layout reproducible: each gateway's PRNG is
	// seeded from (Seed, edge ID).
	Seed uint64
}

// Build produces one Gateway per edge index in the configured range.
//
// Parameters:
//   - cfg: Fleet configuration; see Config field docs
//
// Returns:
//   - []*types.Gateway: One gateway per index, in increasing index order
//   - error: types.ErrNoDistricts when no districts are configured, or a
//     validation error for out-of-bounds sensor counts or interval bounds
func Build(cfg Config) ([]*types.Gateway, error) {
	if len(cfg.Districts) == 0 {
		return nil, types.ErrNoDistricts
	}

	for sensorType, count := range cfg.SensorsPerGateway {
		if count < 0 || count > maxSensorsPerType {
			return nil, fmt.Errorf("%w: %s sensor count %d outside [0, %d]",
				types.ErrInvalidConfig, sensorType, count, maxSensorsPerType)
		}
	}

	if cfg.SamplingIntervalMin <= 0 || cfg.SamplingIntervalMax < cfg.SamplingIntervalMin {
		return nil, fmt.Errorf("%w: sampling interval bounds [%v, %v] invalid",
			types.ErrInvalidConfig, cfg.SamplingIntervalMin, cfg.SamplingIntervalMax)
	}

	if cfg.Range.IsEmpty() {
		return nil, nil
	}

	gateways := make([]*types.Gateway, 0, cfg.Range.Size())
	for index := cfg.Range.Start; index <= cfg.Range.End; index++ {
		gateways = append(gateways, buildGateway(&cfg, index))
	}

	return gateways, nil
}

// buildGateway constructs the gateway at one edge index. All random draws
// come from a PRNG seeded from (cfg.Seed, edge ID) so the result is fixed
// for a given configuration.
func buildGateway(cfg *Config, index int) *types.Gateway {
	edgeID := types.EdgeID(index)
	district := findDistrict(cfg.Districts, index)

	rng := rand.New(rand.NewPCG(cfg.Seed, xxh3.HashStringSeed(edgeID, cfg.Seed)))

	location := types.Location{
		Latitude:  district.Center.Latitude + uniform(rng, gatewayOffsetDegrees),
		Longitude: district.Center.Longitude + uniform(rng, gatewayOffsetDegrees),
	}

	sensors := make(map[types.SensorType][]types.SensorConfig, len(cfg.SensorsPerGateway))
	for _, sensorType := range types.SensorTypes() {
		count := cfg.SensorsPerGateway[sensorType]
		if count == 0 {
			continue
		}
		sensors[sensorType] = buildSensors(rng, sensorType, edgeID, count)
	}

	interval := cfg.SamplingIntervalMin
	if spread := cfg.SamplingIntervalMax - cfg.SamplingIntervalMin; spread > 0 {
		interval += time.Duration(rng.Int64N(int64(spread) + 1))
	}

	return &types.Gateway{
		ID:               types.GatewayID(edgeID),
		EdgeID:           edgeID,
		EdgeIndex:        index,
		DistrictID:       district.ID,
		Name:             "Gateway at " + edgeID,
		Location:         location,
		Sensors:          sensors,
		SamplingInterval: interval,
	}
}

// buildSensors generates the descriptors for one sensor type. IDs use
// letter suffixes: speed-E-00000-a, speed-E-00000-b, ...
func buildSensors(rng *rand.Rand, sensorType types.SensorType, edgeID string, count int) []types.SensorConfig {
	configs := make([]types.SensorConfig, 0, count)
	for i := range count {
		configs = append(configs, types.SensorConfig{
			ID:        fmt.Sprintf("%s-%s-%c", sensorType, edgeID, 'a'+rune(i)),
			Label:     fmt.Sprintf("%s sensor %d", title(sensorType), i+1),
			OffsetLat: round6(uniform(rng, sensorOffsetDegrees)),
			OffsetLon: round6(uniform(rng, sensorOffsetDegrees)),
		})
	}

	return configs
}

// findDistrict locates the district owning an edge index. First range
// containing the index wins; no match falls back to the first configured
// district.
func findDistrict(districts []types.District, index int) *types.District {
	for i := range districts {
		if districts[i].EdgeRange.Contains(index) {
			return &districts[i]
		}
	}

	return &districts[0]
}

// uniform draws from [-bound, bound).
func uniform(rng *rand.Rand, bound float64) float64 {
	return (rng.Float64()*2 - 1) * bound
}

func round6(v float64) float64 {
	return math.Round(v*1e6) / 1e6
}

func title(t types.SensorType) string {
	s := string(t)
	if s == "" {
		return s
	}

	return string(s[0]-'a'+'A') + s[1:]
}
