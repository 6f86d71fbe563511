// Package statestore persists named configuration entries shared between CLI
// invocations and the daemon.
//
// Entries are plain string values in a single SQLite table, loaded at entry
// and persisted on mutation: nothing in-memory survives across commands. The
// process registry stores the daemon pid here under well-known names.
package statestore
