// Command hawker is the CLI for the autonomous selling agent.
//
// It manages the daemon lifecycle (start, stop, status, logs) and invokes
// offerings against the running daemon (offerings, quote, invoke). The hidden
// serve subcommand is the daemon entrypoint and is not meant to be run by
// hand.
package main
