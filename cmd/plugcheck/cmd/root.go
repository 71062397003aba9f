// Package cmd implements the plugcheck command line tool, which validates
// plugging configuration files and serves module introspection over HTTP.
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Version information
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// PrintVersion returns version information
func PrintVersion() string {
	return fmt.Sprintf("plugcheck v%s (commit: %s, built on: %s)", Version, Commit, Date)
}

// NewRootCommand creates the root command for the plugcheck application
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plugcheck",
		Short: "plugcheck - Tools for plugging module configuration",
		Long: `plugcheck validates the declarative part of a plugging setup: the module
names and properties read from YAML, TOML, JSON and .env files and from
PLUGGING_ environment variables.`,
		Version: PrintVersion(),
		Run: func(cmd *cobra.Command, args []string) {
			_ = cmd.Help()
		},
	}

	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")

	cmd.AddCommand(NewValidateCommand())
	cmd.AddCommand(NewServeCommand())

	return cmd
}

// newLogger builds the zap logger used by every subcommand. Logs go to
// stderr so command output stays machine readable.
func newLogger(cmd *cobra.Command) (*zap.Logger, error) {
	verbose, _ := cmd.Flags().GetBool("verbose")

	cfg := zap.NewDevelopmentConfig()
	cfg.DisableStacktrace = true
	cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return logger, nil
}
