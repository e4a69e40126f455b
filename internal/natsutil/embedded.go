package natsutil

import (
	"errors"
	"fmt"
	"time"

	"github.com/nats-io/nats-server/v2/server"
)

// StartEmbeddedServer starts an in-process NATS server with JetStream.
//
// The daemon uses this in embedded mode so a single binary can run without
// an external broker; tests use the simtest package instead, which ties the
// server lifetime to the test.
//
// Parameters:
//   - storeDir: JetStream storage directory; empty means in-memory only
//
// Returns:
//   - *server.Server: Running NATS server; callers own Shutdown
//   - error: Error if the server fails to start within 10 seconds
func StartEmbeddedServer(storeDir string) (*server.Server, error) {
	opts := &server.Options{
		Host:      "127.0.0.1",
		Port:      -1, // Random available port
		JetStream: true,
		StoreDir:  storeDir,
		NoLog:     true,
		NoSigs:    true,
	}

	ns, err := server.NewServer(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to create embedded NATS server: %w", err)
	}

	go ns.Start()

	if !ns.ReadyForConnections(10 * time.Second) {
		ns.Shutdown()
		return nil, errors.New("embedded NATS server not ready within timeout")
	}

	return ns, nil
}
