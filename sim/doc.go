// Package sim provides the core discrete-event simulation engine for
// multi-stage production lines.
//
// # Reading Guide
//
// Start with these three files to understand the simulation kernel:
//   - part.go: Part lifecycle (pending arrival → waiting → in service → completed)
//   - event.go: Event types that drive the timeline (PartArrival, ServiceDone, RetrySweep)
//   - factory.go: The event loop, the allocation sweep, and the step transaction
//
// # Architecture
//
// The Factory owns every piece of mutable state: process states with their
// buffers and in-service records, the shared worker pool, per-type staging
// queues for blocked arrivals, and the pending-event timeline. One call to
// Step processes all events stamped with the next pending tick, then runs
// the allocation sweep (admit staged arrivals, route finished parts, start
// service) to a fixpoint. Nothing outside the Factory mutates simulation
// state, so a Step is the transaction boundary.
//
// Supporting sub-packages:
//   - sim/variate/: distribution sampling behind the Source capability
//   - sim/config/: declarative YAML line configuration, validated up front
//   - sim/trace/: event trace recording for replay and determinism checks
//   - sim/results/: run-summary persistence
//
// # Determinism
//
// Every run is a pure function of its configuration and seed. Randomness is
// partitioned per subsystem (one stream per part type's arrivals, one per
// process's durations), events tie-break on scheduling order, and all scans
// walk registration order. Two runs with equal inputs produce identical
// event traces.
package sim
