package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"catalogsync/catalog"
)

var mergeOut string

var mergeCmd = &cobra.Command{
	Use:           "merge <provider>",
	Short:         "Print a provider's general file with pricing merged into each model entry",
	Args:          cobra.ExactArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runMerge,
}

func init() {
	mergeCmd.Flags().StringVar(&mergeOut, "out", "", "write to a file instead of stdout")
	rootCmd.AddCommand(mergeCmd)
}

func runMerge(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), err)
		return err
	}

	cat := catalog.New(cfg)
	if err := cat.Load(); err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), err)
		return err
	}

	merged, err := cat.Merged(args[0])
	if err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), err)
		return err
	}

	if mergeOut == "" {
		_, err = cmd.OutOrStdout().Write(merged)
		return err
	}
	return os.WriteFile(mergeOut, merged, 0644)
}
