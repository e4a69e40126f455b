// Package natsutil provides NATS helpers shared by the bus client, the
// presence publisher and the daemon: publish error classification and an
// embedded server for local runs.
package natsutil

import (
	"context"
	"errors"
	"strings"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

// IsConnectivityError checks if an error is caused by connectivity issues.
//
// This includes NATS timeouts, connection refused, disconnections, etc.
// Workers treat every publish failure the same way (buffer and retry later);
// the classification exists only for log and metric labels.
//
// Parameters:
//   - err: Error to check
//
// Returns:
//   - bool: true if error indicates connectivity issue
func IsConnectivityError(err error) bool {
	if err == nil {
		return false
	}

	return errors.Is(err, nats.ErrTimeout) ||
		errors.Is(err, nats.ErrNoServers) ||
		errors.Is(err, nats.ErrDisconnected) ||
		errors.Is(err, nats.ErrConnectionClosed) ||
		errors.Is(err, jetstream.ErrNoStreamResponse) ||
		strings.Contains(err.Error(), "connection refused") ||
		strings.Contains(err.Error(), "i/o timeout")
}

// ClassifyPublishError maps a publish failure to a short label for logs and
// metrics.
//
// Returns one of "timeout", "connectivity" or "rejected". A nil error
// returns "".
func ClassifyPublishError(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(err, nats.ErrTimeout):
		return "timeout"
	case IsConnectivityError(err):
		return "connectivity"
	default:
		return "rejected"
	}
}
