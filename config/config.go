package config

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Static errors for the config package
var (
	ErrModuleNameMissing = errors.New("config: module name is missing")
	ErrFeederNil         = errors.New("config: feeder is nil")
	ErrSourceFailed      = errors.New("config: source failed")
)

// ModuleConfig declares one module and its properties.
type ModuleConfig struct {
	Name       string         `yaml:"name" toml:"name" json:"name"`
	Properties map[string]any `yaml:"properties,omitempty" toml:"properties,omitempty" json:"properties,omitempty"`
}

// Config is the declarative part of a plugging setup. Services are still
// registered in code; the file only names modules and carries their
// properties.
type Config struct {
	Modules    []ModuleConfig `yaml:"modules" toml:"modules" json:"modules"`
	Properties map[string]any `yaml:"properties,omitempty" toml:"properties,omitempty" json:"properties,omitempty"`
}

// Module returns the module declared under name (case-insensitive).
func (c *Config) Module(name string) (*ModuleConfig, bool) {
	for i := range c.Modules {
		if strings.EqualFold(c.Modules[i].Name, name) {
			return &c.Modules[i], true
		}
	}
	return nil, false
}

// Merge overlays other on c. Modules are matched by name; properties of
// other win over those already present.
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}
	for _, om := range other.Modules {
		m, ok := c.Module(om.Name)
		if !ok {
			c.Modules = append(c.Modules, ModuleConfig{Name: om.Name})
			m = &c.Modules[len(c.Modules)-1]
		}
		m.Properties = mergeProperties(m.Properties, om.Properties)
	}
	c.Properties = mergeProperties(c.Properties, other.Properties)
}

// Validate checks that every module has a name.
func (c *Config) Validate() error {
	for i, m := range c.Modules {
		if strings.TrimSpace(m.Name) == "" {
			return fmt.Errorf("%w at index %d", ErrModuleNameMissing, i)
		}
	}
	return nil
}

// ModuleNames returns the declared module names in sorted order.
func (c *Config) ModuleNames() []string {
	names := make([]string, 0, len(c.Modules))
	for _, m := range c.Modules {
		names = append(names, m.Name)
	}
	sort.Strings(names)
	return names
}

func mergeProperties(dst, src map[string]any) map[string]any {
	if len(src) == 0 {
		return dst
	}
	if dst == nil {
		dst = make(map[string]any, len(src))
	}
	for k, v := range src {
		for existing := range dst {
			if existing != k && strings.EqualFold(existing, k) {
				delete(dst, existing)
			}
		}
		dst[k] = v
	}
	return dst
}
