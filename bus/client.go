package bus

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/Ago95Dev/SA-ADR/types"
)

// Default stream configuration.
const (
	// DefaultStreamName is the JetStream stream payloads land in.
	DefaultStreamName = "CITYSIM"

	// DefaultTopic is the logical topic gateway payloads publish under,
	// preserved from the original deployment.
	DefaultTopic = "city-gateway-data"
)

// Client publishes gateway payloads to NATS JetStream.
//
// Safe for concurrent use by many gateway workers; the JetStream context
// synchronizes internally and the client adds no locking of its own.
type Client struct {
	nc *nats.Conn
	js jetstream.JetStream

	closeOnce sync.Once
	closeErr  error
}

// Compile-time assertion that Client implements BusPublisher.
var _ types.BusPublisher = (*Client)(nil)

// Option configures a Client.
type Option func(*clientOptions)

type clientOptions struct {
	streamName string
	topics     []string
	storage    jetstream.StorageType
	replicas   int
}

// WithStreamName overrides the stream name (default "CITYSIM").
func WithStreamName(name string) Option {
	return func(o *clientOptions) {
		o.streamName = name
	}
}

// WithTopics sets the logical topics the stream captures. Each topic
// becomes a "<topic>.>" stream subject. Default: the gateway data topic.
func WithTopics(topics ...string) Option {
	return func(o *clientOptions) {
		o.topics = topics
	}
}

// WithMemoryStorage switches the stream to memory storage. Useful for
// embedded local runs and tests.
func WithMemoryStorage() Option {
	return func(o *clientOptions) {
		o.storage = jetstream.MemoryStorage
	}
}

// WithReplicas sets the stream replica count for clustered brokers.
func WithReplicas(n int) Option {
	return func(o *clientOptions) {
		o.replicas = n
	}
}

// New creates a bus client and idempotently provisions its stream.
//
// Parameters:
//   - ctx: Context bounding stream provisioning
//   - nc: Connected NATS connection; the client takes ownership and drains
//     it on Close
//   - opts: Optional stream configuration
//
// Returns:
//   - *Client: Ready-to-publish client
//   - error: Stream provisioning or JetStream setup failure
//
// Example:
//
//	nc, _ := nats.Connect(nats.DefaultURL)
//	client, err := bus.New(ctx, nc)
func New(ctx context.Context, nc *nats.Conn, opts ...Option) (*Client, error) {
	if nc == nil {
		return nil, errors.New("bus: NATS connection is required")
	}

	options := &clientOptions{
		streamName: DefaultStreamName,
		topics:     []string{DefaultTopic},
		storage:    jetstream.FileStorage,
		replicas:   1,
	}
	for _, opt := range opts {
		opt(options)
	}

	js, err := jetstream.New(nc)
	if err != nil {
		return nil, fmt.Errorf("bus: failed to create jetstream context: %w", err)
	}

	subjects := make([]string, 0, len(options.topics))
	for _, topic := range options.topics {
		subjects = append(subjects, topic+".>")
	}

	_, err = js.CreateStream(ctx, jetstream.StreamConfig{
		Name:     options.streamName,
		Subjects: subjects,
		Storage:  options.storage,
		Replicas: options.replicas,
	})
	if err != nil && !errors.Is(err, jetstream.ErrStreamNameAlreadyInUse) {
		return nil, fmt.Errorf("bus: failed to provision stream %s: %w", options.streamName, err)
	}

	return &Client{nc: nc, js: js}, nil
}

// Publish sends data under <topic>.<key> and blocks until the broker
// acknowledges, the context expires, or the publish fails.
//
// The key is the gateway ID; all messages of one gateway share a subject
// and stay ordered on the stream.
func (c *Client) Publish(ctx context.Context, topic, key string, data []byte) error {
	if _, err := c.js.Publish(ctx, topic+"."+key, data); err != nil {
		return fmt.Errorf("bus: publish to %s.%s failed: %w", topic, key, err)
	}

	return nil
}

// Close drains the underlying connection, flushing pending publishes.
// Idempotent; repeated calls return the first result.
func (c *Client) Close() error {
	c.closeOnce.Do(func() {
		c.closeErr = c.nc.Drain()
	})

	return c.closeErr
}
