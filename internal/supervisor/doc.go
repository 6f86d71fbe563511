// Package supervisor orchestrates daemon lifecycle: idempotent start with a
// detached spawn, graceful stop with a bounded poll window, and read-only
// status.
//
// Discovery layers the persisted registry (fast path) over an OS process-table
// scan (recovery path) so a missing or stale registry entry, or a daemon
// started outside this supervisor's control, never causes split-brain between
// recorded and actual state.
package supervisor
