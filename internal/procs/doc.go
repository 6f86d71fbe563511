// Package procs wraps the operating-system process table and signaling
// primitives behind small interfaces so supervisor logic stays testable.
//
// The entrypoint match predicate is a pure function over command lines; the
// default Lister and Signaler implementations delegate to gopsutil and kill(2).
package procs
