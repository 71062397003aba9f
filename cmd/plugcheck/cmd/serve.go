package cmd

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/GoCodeAlone/plugging"
	"github.com/GoCodeAlone/plugging/introspect"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 5 * time.Second

// NewServeCommand creates the serve command
func NewServeCommand() *cobra.Command {
	var (
		sources sourceFlags
		addr    string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve module introspection over HTTP",
		Long: `Load the configured sources and serve the resulting modules:

  GET /modules
  GET /modules/{name}
  GET /modules/{name}/supports?service=<type>&operation=<op>`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger, err := newLogger(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()
			log := plugging.NewZapLogger(logger)

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			l, err := sources.loader(log)
			if err != nil {
				return err
			}
			cfg, err := l.Load(ctx)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			opts, err := buildOptions(cfg, log)
			if err != nil {
				return err
			}
			h, err := introspect.NewHandler(opts, log)
			if err != nil {
				return err //nolint:wrapcheck // only fails on nil options
			}

			ln, err := net.Listen("tcp", addr)
			if err != nil {
				return fmt.Errorf("listen on %s: %w", addr, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "serving %d module(s) on http://%s\n", opts.Len(), ln.Addr())
			return serve(ctx, ln, h, log)
		},
	}

	sources.register(cmd)
	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:8080", "Address to listen on")
	_ = cmd.MarkFlagRequired("config")

	return cmd
}

// serve runs an HTTP server on ln until ctx is done.
func serve(ctx context.Context, ln net.Listener, h http.Handler, logger plugging.Logger) error {
	srv := &http.Server{
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	logger.Info("Shutting down introspection server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
