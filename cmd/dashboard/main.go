// Command dashboard serves the session, login, and navigation endpoints of
// the admin dashboard.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cattlecloud.net/go/scope"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "dashboard",
		Short:        "serve the admin dashboard session and navigation endpoints",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := loadConfig(cmd.Flags())
			if err != nil {
				return err
			}
			return run(cmd.Context(), c)
		},
	}
	registerFlags(cmd.Flags())
	return cmd
}

func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func run(ctx context.Context, c *config) error {
	logger, err := newLogger(c.Debug)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	tree, err := c.menu()
	if err != nil {
		return err
	}

	if len(c.Accounts) == 0 {
		logger.Warn("no accounts configured; nobody can log in")
	}

	server := &http.Server{
		Addr:              c.Addr,
		Handler:           newRouter(c, tree, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errs := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", c.Addr))
		errs <- server.ListenAndServe()
	}()

	select {
	case err := <-errs:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")

	shutdown, cancel := scope.TTL(10 * time.Second)
	defer cancel()
	return server.Shutdown(shutdown)
}
