// Package types provides core type definitions and interfaces for the citysim library.
//
// This package contains shared types that are used across multiple packages in
// the citysim library. Keeping them in a separate package avoids import cycles
// between the root citysim package and its internal implementations.
//
// Key types:
//   - State: Worker and simulator lifecycle state
//   - Range: Inclusive edge-index range assigned to one instance
//   - Gateway: One edge gateway with its sensors and sampling interval
//   - GatewayPayload: The aggregated payload published each iteration
//   - Logger: Structured logging interface
//   - MetricsCollector: Metrics recording interface
//   - BusPublisher: Message bus publish contract
//   - ReadingProducer: Sensor reading source contract
package types
