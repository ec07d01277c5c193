package config

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "RETRACE_"

// envMapping maps environment variables to setting paths.
var envMapping = map[string]string{
	EnvPrefix + "DEBOUNCE":     "history.debounce",
	EnvPrefix + "UNDO_FLOOR":   "history.undo_floor",
	EnvPrefix + "MAX_DEPTH":    "history.max_depth",
	EnvPrefix + "LOG_LEVEL":    "logging.level",
	EnvPrefix + "METRICS_ADDR": "metrics.addr",
}

// envLayer builds a configuration layer from mapped environment variables.
// Values stay strings; decoding converts them to the setting's type.
// Empty values are ignored.
func envLayer(lookup func(string) (string, bool)) map[string]any {
	layer := make(map[string]any)
	for env, path := range envMapping {
		if val, ok := lookup(env); ok && val != "" {
			SetByPath(layer, path, val)
		}
	}
	return layer
}
