// Package config defines the configuration model for plugging modules and
// loads it from feeders such as YAML, TOML or JSON files and environment
// variables.
package config

// Feeder populates a configuration structure from one source.
type Feeder interface {
	Feed(target any) error
}

// Source is a named feeder registered with a Loader.
type Source struct {
	// Name identifies the source in errors and logs, e.g. "modules.yaml" or "env".
	Name   string
	Feeder Feeder
}

// DebugLogger receives loader diagnostics.
type DebugLogger interface {
	Debug(msg string, args ...any)
}
