package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"gatewrench.dev/pkg/gatewrench/internal/domain"
)

// disableCmd represents the disable command.
var disableCmd = newDisableCmd()

func newDisableCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "disable <gate>",
		Short: "Undo a gate patch",
		Long: `Restore the most recent backup that predates the gate's patch. When no
usable backup exists a best-effort inverse transform is applied, which may
leave the forced-on code in place; only a backup restore is guaranteed to
revert the artifact byte for byte.`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return workflow.Disable(context.Background(), domain.DisableArgs{
				Bundle:   bundlePath(),
				Gate:     args[0],
				NoBackup: viper.GetBool(noBackupConfigKey),
			})
		},
	}
}

func init() {
	rootCmd.AddCommand(disableCmd)
}
