// Package cmd provides the root command and CLI setup for gatewrench.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"gatewrench.dev/pkg/gatewrench/internal/adapter"
	"gatewrench.dev/pkg/gatewrench/internal/controller"
	"gatewrench.dev/pkg/gatewrench/internal/domain"
	"gatewrench.dev/pkg/gatewrench/internal/domain/gates"
	m "gatewrench.dev/pkg/gatewrench/internal/model"
)

var fsAdapter adapter.BundleFSAdapter
var backupManager *adapter.BackupManager
var installLocator adapter.InstallLocator
var gateRegistry *gates.Registry
var resolver *domain.Resolver
var detector *domain.Detector
var textPatcher *domain.TextPatcher
var bytePatcher *domain.BytePatcher
var ui controller.UI
var workflow domain.Workflow

// bundleFlag is a root-level flag naming the target artifact explicitly.
var bundleFlag string

// noBackupFlag skips the pre-mutation snapshot when set.
var noBackupFlag bool

// verboseFlag raises the log level to debug.
var verboseFlag bool

func init() {
	configureRootFlags(rootCmd)

	// Initialize shared dependencies.
	fsAdapter = adapter.NewLocalBundleFSAdapter()
	backupManager = adapter.NewBackupManager(fsAdapter)
	installLocator = adapter.NewLocalInstallLocator(fsAdapter, candidatePaths())
	gateRegistry = gates.NewRegistry()
	resolver = domain.NewResolver(fsAdapter, installLocator)
	detector = domain.NewDetector(gateRegistry)
	textPatcher = domain.NewTextPatcher(fsAdapter, backupManager, gateRegistry)
	bytePatcher = domain.NewBytePatcher(fsAdapter, backupManager, gateRegistry)
	ui = controller.NewSimpleUI(rootCmd, controller.IsTTY(os.Stdout))
	workflow = domain.NewWorkflow(resolver, detector, textPatcher, bytePatcher, gateRegistry, ui)
}

const rootLongDescription = `Gatewrench detects and rewrites feature-gate checks embedded in a deployed,
minified script artifact - a plain bundle file or a compiled binary with an
embedded script - without breaking the artifact.

Gate signatures anchor on stable string literals, so they survive the
identifier renaming of successive minifier runs. Plain bundles are patched
freely; binary targets are patched in place with every replacement padded to
the exact byte length of the original fragment.

Every mutation is preceded by a backup (<path>.backup.<millis>) unless
--no-backup is given. The tool assumes it is the only writer of the target
path; no file locking is performed.`

// rootCmd represents the base command when called without any subcommands.
var rootCmd = baseRootCmd()

func baseRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "gatewrench",
		Short: "Feature-gate detection and patching for minified bundles",
		Long:  rootLongDescription,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			configureLogger(verboseFlag)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
}

func configureRootFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVarP(
		&bundleFlag, bundleFlagName, "b",
		viper.GetString(bundlePathConfigKey),
		"path to the target artifact (default: probe known install locations)",
	)
	bindFlagToConfig(cmd.PersistentFlags().Lookup(bundleFlagName), bundlePathConfigKey)

	cmd.PersistentFlags().BoolVar(
		&noBackupFlag, noBackupFlagName,
		viper.GetBool(noBackupConfigKey),
		"skip the pre-mutation backup (patches become irreversible)",
	)
	bindFlagToConfig(cmd.PersistentFlags().Lookup(noBackupFlagName), noBackupConfigKey)

	cmd.PersistentFlags().BoolVarP(&verboseFlag, verboseFlagName, "v", false, "log at debug level")
}

// bindFlagToConfig wires a Cobra flag to a Viper key so config/env values
// feed the flag.
func bindFlagToConfig(flag *pflag.Flag, key string) {
	if flag == nil {
		cobra.CheckErr(fmt.Errorf("flag for config key %q not found", key))
		return
	}

	cobra.CheckErr(viper.BindPFlag(key, flag))
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func candidatePaths() []m.Path {
	values := viper.GetStringSlice(candidatesConfigKey)

	paths := make([]m.Path, 0, len(values))
	for _, value := range values {
		paths = append(paths, m.Path(value))
	}

	return paths
}

func bundlePath() m.Path {
	return m.Path(viper.GetString(bundlePathConfigKey))
}
