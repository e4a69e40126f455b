package types

import "context"

// BusPublisher is the publish contract every gateway worker shares.
//
// Implementations must be safe for concurrent use by many workers; the
// simulator adds no locking of its own around the client. All failure modes
// (connection loss, timeout, broker rejection) surface uniformly as an
// error; workers do not distinguish failure subtypes when deciding to
// buffer.
//
// The concrete implementation lives in the bus package (NATS JetStream);
// tests substitute in-process fakes.
type BusPublisher interface {
	// Publish sends data under the given topic and partition key and blocks
	// until the bus acknowledges, the context expires, or the publish fails.
	//
	// The key is the gateway ID so all messages of one gateway stay ordered
	// where the bus preserves per-key order.
	//
	// Parameters:
	//   - ctx: Context bounding the publish attempt
	//   - topic: Logical topic, e.g. "city-gateway-data"
	//   - key: Partition key, the gateway ID
	//   - data: Marshaled payload bytes
	//
	// Returns:
	//   - error: nil once the bus acknowledged, otherwise the publish failure
	Publish(ctx context.Context, topic, key string, data []byte) error

	// Close releases the client. Publish calls after Close fail.
	Close() error
}
