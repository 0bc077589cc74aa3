package graph

import "log/slog"

// Config controls a backward Engine.
type Config struct {
	// ReleaseValues drops a node's value right after its own step, provided
	// every operation that reads it has been released too. Values shared with
	// terminals not yet traversed survive, and leaves are never released.
	// A released terminal cannot be traversed again.
	ReleaseValues bool `yaml:"release_values"`

	// Metrics receives traversal counters. Nil disables metrics.
	Metrics *Metrics `yaml:"-"`

	// Logger receives one debug record per traversal and structural failures.
	// Nil selects slog.Default() scoped to component=autodiff.
	Logger *slog.Logger `yaml:"-"`
}

// DefaultConfig releases values after use and records no metrics.
func DefaultConfig() Config {
	return Config{
		ReleaseValues: true,
	}
}
