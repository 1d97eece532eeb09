package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"gatewrench.dev/pkg/gatewrench/internal/controller"
	"gatewrench.dev/pkg/gatewrench/internal/domain"
)

var scanFormatFlag string

// scanCmd represents the scan command.
var scanCmd = newScanCmd()

func newScanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan",
		Short: "List every flag identifier found in the artifact",
		Long: `Scan the whole artifact for identifiers following the flag naming
convention, independent of the registry. Useful for surfacing flags that are
not catalogued yet. Output is deduplicated and sorted.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			return workflow.Scan(context.Background(), domain.ScanArgs{
				Bundle: bundlePath(),
				Format: controller.ScanFormat(viper.GetString(scanFormatConfigKey)),
			})
		},
	}

	cmd.Flags().StringVarP(&scanFormatFlag, formatFlagName, "f", viper.GetString(scanFormatConfigKey), "output format: text or yaml")
	bindFlagToConfig(cmd.Flags().Lookup(formatFlagName), scanFormatConfigKey)

	return cmd
}

func init() {
	rootCmd.AddCommand(scanCmd)
}
