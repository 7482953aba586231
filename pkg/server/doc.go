// Package server wires the proxy listener, worker pool, admin listener and
// telemetry listener around a shared Runtime.
//
// The accept loop only wraps connections into jobs and pushes them onto the
// queue; a fixed pool of workers pops jobs and runs the relay. Connections
// beyond the pool size wait in the queue.
package server
