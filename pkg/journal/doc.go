// Package journal persists one row per finished proxy session in SQLite.
//
// The journal is optional. Statistics served by the admin listener are
// always in-memory and are never rebuilt from it.
//
// # Drivers
//
// Two database/sql drivers are linked in:
//
//   - "sqlite": modernc.org/sqlite, pure Go, the default
//   - "sqlite3": github.com/mattn/go-sqlite3, requires cgo
//
// # Writes
//
// Writer implements proxy.Recorder. Record never blocks a worker: entries go
// through a bounded channel to a single background goroutine, and entries
// that do not fit are dropped and counted.
//
// # Retention
//
// Scheduler runs Store.Prune on a cron schedule, deleting rows whose session
// ended before now minus the retention period.
package journal
