package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"catalogsync/catalog"
	"catalogsync/server"
)

var listenAddr string

var serveCmd = &cobra.Command{
	Use:           "serve",
	Short:         "Serve the catalog over HTTP",
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runServe,
}

func init() {
	serveCmd.Flags().StringVar(&listenAddr, "listen", "", "listen address (default from manifest, :8080)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), err)
		return err
	}
	if listenAddr != "" {
		cfg.Listen = listenAddr
	}

	cat := catalog.New(cfg)
	if err := cat.Load(); err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), err)
		return err
	}

	srv, err := server.New(cat, versionInfo)
	if err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), err)
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.WatchAndReload(ctx, func(err error) {
			fmt.Fprintf(cmd.ErrOrStderr(), "catalog reload failed: %v\n", err)
		}); err != nil && !errors.Is(err, context.Canceled) {
			fmt.Fprintf(cmd.ErrOrStderr(), "catalog watcher stopped: %v\n", err)
		}
	}()

	httpServer := &http.Server{
		Addr:    cfg.Listen,
		Handler: srv.Handler(),
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.ListenAndServe()
	}()

	fmt.Fprintf(cmd.OutOrStdout(), "catalogsync listening on %s\n", cfg.Listen)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}
