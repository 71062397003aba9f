package feeders

import (
	"os"
	"sort"
	"strings"

	"github.com/GoCodeAlone/plugging/config"
)

// DefaultEnvPrefix is the prefix used by NewEnvFeeder.
const DefaultEnvPrefix = "PLUGGING_"

// moduleSeparator splits the module name from the property key.
const moduleSeparator = "__"

// EnvFeeder reads module properties from environment variables.
//
//	PLUGGING_RIPPLE__TIMEOUT=5s   module "ripple", property "timeout"
//	PLUGGING_REGION=eu            global property "region"
//
// Names and keys are lower-cased; values stay strings and are converted on
// access with plugging.PropertyAs.
type EnvFeeder struct {
	Prefix string

	// lookup lists the environment; tests may replace it.
	lookup func() []string
}

// NewEnvFeeder creates a feeder using DefaultEnvPrefix.
func NewEnvFeeder() EnvFeeder {
	return NewPrefixedEnvFeeder(DefaultEnvPrefix)
}

// NewPrefixedEnvFeeder creates a feeder reading variables that start with prefix.
func NewPrefixedEnvFeeder(prefix string) EnvFeeder {
	return EnvFeeder{Prefix: prefix, lookup: os.Environ}
}

// Feed populates a *config.Config.
func (f EnvFeeder) Feed(target any) error {
	cfg, ok := target.(*config.Config)
	if !ok || cfg == nil {
		return ErrEnvInvalidStructure
	}
	if f.Prefix == "" {
		return ErrEnvPrefixEmpty
	}
	lookup := f.lookup
	if lookup == nil {
		lookup = os.Environ
	}

	prefix := strings.ToUpper(f.Prefix)
	env := lookup()
	sort.Strings(env)

	for _, kv := range env {
		name, value, found := strings.Cut(kv, "=")
		if !found || !strings.HasPrefix(strings.ToUpper(name), prefix) {
			continue
		}
		rest := strings.ToLower(name[len(prefix):])
		if rest == "" {
			continue
		}

		module, key, scoped := strings.Cut(rest, moduleSeparator)
		if !scoped {
			cfg.Merge(&config.Config{Properties: map[string]any{rest: value}})
			continue
		}
		if module == "" || key == "" {
			continue
		}
		cfg.Merge(&config.Config{Modules: []config.ModuleConfig{{
			Name:       module,
			Properties: map[string]any{key: value},
		}}})
	}
	return nil
}
