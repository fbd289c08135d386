// Package cmd wires the catalogsync command tree.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"catalogsync/catalog"
	"catalogsync/ci"
	"catalogsync/server"
	"catalogsync/sync"
)

var (
	configPath string
	watchMode  bool

	versionInfo = server.VersionInfo{Version: "dev", Commit: "unknown", BuildDate: "unknown"}
)

var errUsage = errors.New("missing pricing file argument")

var rootCmd = &cobra.Command{
	Use:           "catalogsync <pricing-file> [general-file]",
	Short:         "Sync model IDs from pricing files into general catalog files",
	Args:          cobra.ArbitraryArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runSync,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a YAML manifest")
	rootCmd.Flags().BoolVar(&watchMode, "watch", false, "keep running and re-sync when the pricing file changes")
}

// SetVersionInfo records build metadata injected through ldflags.
func SetVersionInfo(version, commit, buildDate string) {
	versionInfo = server.VersionInfo{Version: version, Commit: commit, BuildDate: buildDate}
}

// Execute runs the command tree. All user-facing output has already been
// written as CI annotations by the time a command errors, so fatal errors
// only set the exit code.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadConfig() (catalog.Config, error) {
	if configPath == "" {
		return catalog.DefaultConfig(), nil
	}
	return catalog.LoadConfig(configPath)
}

func runSync(cmd *cobra.Command, args []string) error {
	if len(args) < 1 || len(args) > 2 {
		fmt.Fprintln(cmd.ErrOrStderr(), "Usage: catalogsync <pricing-file> [general-file]")
		return errUsage
	}
	pricingPath := args[0]
	generalPath := ""
	if len(args) == 2 {
		generalPath = args[1]
	}

	log := ci.Default()
	cfg, err := loadConfig()
	if err != nil {
		log.Errorf("", "%v", err)
		return err
	}

	syncer := sync.NewSyncer(cfg, log)
	if err := syncer.Run(pricingPath, generalPath); err != nil {
		return err
	}

	if !watchMode {
		return nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Printf("Watching %s for changes", pricingPath)
	err = sync.Watch(ctx, []string{pricingPath}, func() {
		if err := syncer.Run(pricingPath, generalPath); err != nil {
			log.Warningf("Sync failed, will retry on next change: %v", err)
		}
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
