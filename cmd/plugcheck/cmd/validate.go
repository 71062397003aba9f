package cmd

import (
	"context"
	"fmt"
	"io"
	"sort"

	"github.com/GoCodeAlone/plugging"
	"github.com/GoCodeAlone/plugging/config"
	"github.com/spf13/cobra"
)

// NewValidateCommand creates the validate command
func NewValidateCommand() *cobra.Command {
	var (
		sources sourceFlags
		watch   bool
	)

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate plugging configuration",
		Long: `Load the configured sources, apply them to a plugging builder and print the
resulting modules with their properties.

Examples:
  plugcheck validate -c plugging.yaml
  plugcheck validate -c base.toml -c local.env --watch`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger, err := newLogger(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()
			log := plugging.NewZapLogger(logger)

			if err := runValidate(cmd.Context(), cmd.OutOrStdout(), &sources, log); err != nil {
				if !watch {
					return err
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "invalid: %s\n", err)
			}
			if !watch {
				return nil
			}
			return watchAndValidate(cmd, &sources, log)
		},
	}

	sources.register(cmd)
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Re-validate whenever a config file changes")
	_ = cmd.MarkFlagRequired("config")

	return cmd
}

func runValidate(ctx context.Context, out io.Writer, sources *sourceFlags, logger plugging.Logger) error {
	l, err := sources.loader(logger)
	if err != nil {
		return err
	}
	cfg, err := l.Load(ctx)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	opts, err := buildOptions(cfg, logger)
	if err != nil {
		return err
	}
	printOptions(out, opts)
	return nil
}

func printOptions(out io.Writer, opts *plugging.Options) {
	names := opts.ModuleNames()
	fmt.Fprintf(out, "%d module(s)\n", len(names))
	for _, name := range names {
		m, _ := opts.Module(name)
		fmt.Fprintf(out, "module %s\n", m.Name())
		printProperties(out, "  ", m.Properties())
	}
	if opts.Properties().Len() > 0 {
		fmt.Fprintln(out, "properties")
		printProperties(out, "  ", opts.Properties())
	}
}

func printProperties(out io.Writer, indent string, p *plugging.Properties) {
	values := p.Map()
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(out, "%s%s = %v\n", indent, k, values[k])
	}
}

func watchAndValidate(cmd *cobra.Command, sources *sourceFlags, logger plugging.Logger) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	changes := make(chan []string, 1)
	w := config.NewWatcher(sources.files, func(changed []string) {
		select {
		case changes <- changed:
		default:
		}
	}, config.WithWatchLogger(logger))
	if err := w.Start(); err != nil {
		return fmt.Errorf("watch config: %w", err)
	}
	defer func() { _ = w.Stop() }()

	logger.Info("Watching config files", "files", sources.files)
	for {
		select {
		case <-ctx.Done():
			return nil
		case changed := <-changes:
			fmt.Fprintf(cmd.OutOrStdout(), "changed: %v\n", changed)
			if err := runValidate(ctx, cmd.OutOrStdout(), sources, logger); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "invalid: %s\n", err)
			}
		}
	}
}
