// Package config loads retrace settings.
//
// Settings are resolved from three layers, later layers overriding earlier
// ones:
//
//  1. Built-in defaults
//  2. A configuration file (.yaml, .yml or .toml)
//  3. RETRACE_* environment variables
//
// Example file (YAML):
//
//	history:
//	  debounce: 750ms
//	  undo_floor: 1
//	  max_depth: 500
//	logging:
//	  level: debug
//	metrics:
//	  addr: ":2112"
//
// The same keys work in TOML under [history], [logging] and [metrics].
//
// Watch reloads the file when it changes on disk.
package config
