// Package offering defines the contract every sellable job implements and the
// dispatcher that sequences it.
//
// A Handler validates a request, quotes a price, and executes the work. All
// failure is communicated as data: validation rejections carry a reason,
// execution failures carry an error plus a human-readable deliverable, and the
// dispatcher converts panics into failed outcomes so the daemon never crashes
// on a misbehaving handler.
package offering
