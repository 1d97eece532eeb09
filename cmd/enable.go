package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"gatewrench.dev/pkg/gatewrench/internal/domain"
)

var enableAllFlag bool
var enableDryRunFlag bool

// enableCmd represents the enable command.
var enableCmd = newEnableCmd()

func newEnableCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "enable [gate]",
		Short: "Force a gate on by patching the artifact",
		Long: `Rewrite the gate's code fragment so the feature is unconditionally on.
Plain bundles are patched without a length constraint; binary targets are
patched in place, padding the replacement to the exact original byte length.

With --all every patchable gate is enabled in one pass, sharing a single
backup; gates whose signature is absent from this artifact version are
skipped. With --dry-run the proposed change is shown as a diff and nothing
is written.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			if len(args) == 0 && !enableAllFlag {
				return fmt.Errorf("name a gate or pass --%s", allFlagName)
			}

			gate := ""
			if len(args) == 1 {
				gate = args[0]
			}

			return workflow.Enable(context.Background(), domain.EnableArgs{
				Bundle:   bundlePath(),
				Gate:     gate,
				All:      enableAllFlag,
				DryRun:   enableDryRunFlag,
				NoBackup: viper.GetBool(noBackupConfigKey),
			})
		},
	}

	cmd.Flags().BoolVar(&enableAllFlag, allFlagName, false, "enable every patchable gate")
	cmd.Flags().BoolVar(&enableDryRunFlag, dryRunFlagName, false, "show the proposed change as a diff without writing")

	return cmd
}

func init() {
	rootCmd.AddCommand(enableCmd)
}
