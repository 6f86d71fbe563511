// Package config loads and validates hawker's TOML configuration.
//
// It owns default values, path expansion for ~-relative entries, and the
// directory bootstrap used by both the CLI and the daemon. Load tolerates a
// missing config file: embedded defaults apply and callers decide whether a
// written config is required.
package config
