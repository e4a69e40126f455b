package types

// MetricsCollector defines methods for recording operational metrics.
//
// Implementations must be non-blocking and safe for concurrent use; every
// method is called from worker goroutines. Failed metric writes must never
// propagate into the iteration loop.
//
// The interface composes smaller, domain-focused interfaces so callers can
// depend on the slice they actually record.
type MetricsCollector interface {
	WorkerMetrics
	BusMetrics
	FleetMetrics
}

// WorkerMetrics defines metrics recorded by individual gateway workers.
type WorkerMetrics interface {
	// RecordIteration records one completed worker iteration, including
	// iterations that skipped publish or failed.
	RecordIteration()

	// RecordPublishSkipped records an iteration that produced no readings
	// and therefore made no publish call.
	RecordPublishSkipped()

	// RecordBufferedMessage records a payload pushed into a worker buffer
	// after a publish failure.
	RecordBufferedMessage()

	// RecordBufferEviction records an oldest-entry eviction from a full
	// worker buffer. Every eviction is data loss.
	RecordBufferEviction()

	// RecordDrainAttempt records one buffer drain pass.
	//
	// Parameters:
	//   - recovered: Number of buffered messages successfully re-published
	//   - failed: true if the drain halted at a publish failure
	RecordDrainAttempt(recovered int, failed bool)

	// RecordWorkerFault records an unexpected error or panic inside one
	// iteration that was caught and skipped.
	RecordWorkerFault()

	// RecordStateTransition records a worker lifecycle state transition.
	RecordStateTransition(from, to State)
}

// BusMetrics defines metrics for message bus publish operations.
type BusMetrics interface {
	// RecordPublish records one publish attempt and its duration in seconds.
	RecordPublish(success bool, seconds float64)
}

// FleetMetrics defines instance-level fleet metrics.
type FleetMetrics interface {
	// RecordFleetSize sets the number of gateways built for this instance.
	RecordFleetSize(count int)

	// RecordActiveWorkers sets the current number of running workers.
	RecordActiveWorkers(count int)

	// RecordPresenceRefresh records an instance presence heartbeat attempt.
	RecordPresenceRefresh(success bool)
}
