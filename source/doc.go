// Package source provides types.SnapshotSource implementations.
//
// Static serves a fixed in-memory snapshot, useful for tests and for hosts
// that assemble the cluster picture themselves. NATSKV reads the picture from
// NATS JetStream KeyValue buckets: instance registrations, heartbeat-based
// liveness, and state model definitions.
package source
