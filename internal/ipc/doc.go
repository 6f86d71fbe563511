// Package ipc connects the CLI to the running daemon over a Unix domain
// socket using JSON-RPC.
//
// The server is owned by the daemon process; clients are short-lived, one per
// CLI invocation. Job requests, quotes, and status all travel through this
// boundary.
package ipc
