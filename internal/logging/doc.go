// Package logging assembles the structured slog loggers used across hawker.
//
// It centralizes level parsing and handler selection (console for humans,
// JSON for machine collection) and provides a no-op logger for tests and
// wiring code that cannot fail. Prefer these constructors over hand-rolled
// slog setup so every component emits log lines with the same shape.
package logging
