package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"gatewrench.dev/pkg/gatewrench/internal/domain"
)

// statusCmd represents the status command.
var statusCmd = newStatusCmd()

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status [gate]",
		Short: "Report gate detection state for the target artifact",
		Long: `Run every registered signature against the resolved artifact and report,
per gate, whether it was detected and whether it is already patched. A gate
stays detected after patching because the embedded marker is checked
alongside the signature.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			gate := ""
			if len(args) == 1 {
				gate = args[0]
			}

			return workflow.Status(context.Background(), domain.StatusArgs{
				Bundle: bundlePath(),
				Gate:   gate,
			})
		},
	}
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
