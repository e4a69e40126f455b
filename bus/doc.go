// Package bus provides the NATS JetStream message bus client gateway
// workers publish through.
//
// Each payload is published under the subject <topic>.<key>, where the key
// is the gateway ID, so per-gateway ordering rides on JetStream's
// per-subject ordering. All failure modes (timeout, no stream responders,
// broker rejection) surface uniformly as an error; callers decide to buffer
// without branching on subtypes.
package bus
