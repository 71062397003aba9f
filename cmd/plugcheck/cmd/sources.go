package cmd

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/GoCodeAlone/plugging"
	"github.com/GoCodeAlone/plugging/config"
	"github.com/GoCodeAlone/plugging/container"
	"github.com/GoCodeAlone/plugging/feeders"
	"github.com/spf13/cobra"
)

// ErrUnsupportedFormat is returned for config files with an unknown extension.
var ErrUnsupportedFormat = errors.New("unsupported config file format")

// sourceFlags are the flags shared by commands that load configuration.
type sourceFlags struct {
	files     []string
	envPrefix string
	noEnv     bool
}

func (f *sourceFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringSliceVarP(&f.files, "config", "c", nil, "Config file (.yaml, .yml, .toml, .json or .env); repeatable, later files win")
	cmd.Flags().StringVar(&f.envPrefix, "env-prefix", feeders.DefaultEnvPrefix, "Prefix of environment variables to read")
	cmd.Flags().BoolVar(&f.noEnv, "no-env", false, "Do not read environment variables")
}

// feederFor picks a feeder by file extension.
func feederFor(path string) (config.Feeder, error) {
	base := strings.ToLower(filepath.Base(path))
	switch ext := filepath.Ext(base); {
	case ext == ".yaml" || ext == ".yml":
		return feeders.NewYamlFeeder(path), nil
	case ext == ".toml":
		return feeders.NewTomlFeeder(path), nil
	case ext == ".json":
		return feeders.NewJSONFeeder(path), nil
	case ext == ".env":
		return feeders.NewDotEnvFeeder(path), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

// loader builds a config loader reading the files in order and the
// environment last.
func (f *sourceFlags) loader(logger config.DebugLogger) (*config.Loader, error) {
	l := config.NewLoader().SetLogger(logger)
	for _, path := range f.files {
		feeder, err := feederFor(path)
		if err != nil {
			return nil, err
		}
		l.AddSource(path, feeder)
	}
	if !f.noEnv {
		l.AddSource("env", feeders.NewPrefixedEnvFeeder(f.envPrefix))
	}
	return l, nil
}

// buildOptions applies cfg to a fresh builder and returns the configured
// options.
func buildOptions(cfg *config.Config, logger plugging.Logger) (*plugging.Options, error) {
	b, err := plugging.NewBuilder(container.NewCollection(), plugging.WithLogger(logger))
	if err != nil {
		return nil, err //nolint:wrapcheck // only fails on nil collection
	}
	if err := b.Configure(cfg); err != nil {
		return nil, err //nolint:wrapcheck // already carries context
	}
	return b.Options(), nil
}
