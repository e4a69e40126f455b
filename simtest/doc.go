// Package simtest provides test utilities for the citysim library.
//
// This package offers helpers for setting up test environments, particularly
// embedded NATS servers for integration testing. It follows Go's convention
// of providing testing utilities in a dedicated package (similar to
// net/http/httptest).
//
// Key utilities:
//   - StartEmbeddedNATS: Single NATS server with JetStream
//   - NewJetStream: Convenience wrapper for a JetStream context
//   - NewTestLogger: Logger writing to testing.T
//
// Example usage:
//
//	import (
//	    "testing"
//	    "github.com/Ago95Dev/SA-ADR/simtest"
//	)
//
//	func TestMyComponent(t *testing.T) {
//	    _, nc := simtest.StartEmbeddedNATS(t)
//	    // Use nc for your tests
//	}
package simtest
