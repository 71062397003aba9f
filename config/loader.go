package config

import (
	"context"
	"fmt"
)

// Loader loads a Config from an ordered list of sources. Later sources
// override earlier ones.
type Loader struct {
	sources []Source
	logger  DebugLogger
}

// NewLoader creates a loader with no sources.
func NewLoader() *Loader {
	return &Loader{
		sources: make([]Source, 0),
	}
}

// AddSource appends a feeder to the loader.
func (l *Loader) AddSource(name string, feeder Feeder) *Loader {
	l.sources = append(l.sources, Source{Name: name, Feeder: feeder})
	return l
}

// SetLogger sets a logger for per-source diagnostics.
func (l *Loader) SetLogger(logger DebugLogger) *Loader {
	l.logger = logger
	return l
}

// Sources returns the registered source names in load order.
func (l *Loader) Sources() []string {
	names := make([]string, 0, len(l.sources))
	for _, s := range l.sources {
		names = append(names, s.Name)
	}
	return names
}

// Load feeds every source into its own Config and merges them in order.
func (l *Loader) Load(ctx context.Context) (*Config, error) {
	cfg := &Config{}
	for _, s := range l.sources {
		if err := ctx.Err(); err != nil {
			return nil, err //nolint:wrapcheck // context errors are returned as is
		}
		if s.Feeder == nil {
			return nil, fmt.Errorf("%w: %s", ErrFeederNil, s.Name)
		}

		part := &Config{}
		if err := s.Feeder.Feed(part); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrSourceFailed, s.Name, err)
		}
		if l.logger != nil {
			l.logger.Debug("Config source loaded", "source", s.Name, "modules", len(part.Modules), "properties", len(part.Properties))
		}
		cfg.Merge(part)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Load is a convenience wrapper that loads feeders in order.
func Load(feeders ...Feeder) (*Config, error) {
	l := NewLoader()
	for i, f := range feeders {
		l.AddSource(fmt.Sprintf("feeder[%d]", i), f)
	}
	return l.Load(context.Background())
}
