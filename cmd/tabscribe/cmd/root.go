package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/Elandig/tabscribe/cmd/tabscribe/cmd/export"
	"github.com/Elandig/tabscribe/cmd/tabscribe/cmd/importfile"
	"github.com/Elandig/tabscribe/cmd/tabscribe/cmd/migrate"
	"github.com/Elandig/tabscribe/cmd/tabscribe/cmd/recording"
	"github.com/Elandig/tabscribe/cmd/tabscribe/cmd/serve"
	"github.com/Elandig/tabscribe/cmd/tabscribe/cmd/settings"
	"github.com/Elandig/tabscribe/cmd/tabscribe/cmd/shared"
	"github.com/Elandig/tabscribe/cmd/tabscribe/cmd/transcribe"
	"github.com/Elandig/tabscribe/cmd/tabscribe/cmd/version"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "tabscribe",
	Short: "Keep a library of tab and screen recordings and transcribe them",
	Long: `Keep a library of tab and screen recordings and transcribe them.
- Import captured media into the library
- Submit recordings to a speech-to-text provider and follow the job until it finishes
- Serve a local HTTP API for the browser UI`,
	SilenceUsage:     true,
	TraverseChildren: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if shared.Verbose {
			os.Setenv("TABSCRIBE_LOG_LEVEL", "debug")
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(serve.Cmd)
	rootCmd.AddCommand(importfile.Cmd)
	rootCmd.AddCommand(recording.ListCmd)
	rootCmd.AddCommand(recording.ShowCmd)
	rootCmd.AddCommand(recording.DeleteCmd)
	rootCmd.AddCommand(transcribe.Cmd)
	rootCmd.AddCommand(transcribe.RetryCmd)
	rootCmd.AddCommand(transcribe.StatusCmd)
	rootCmd.AddCommand(transcribe.ResumeCmd)
	rootCmd.AddCommand(transcribe.ClearCmd)
	rootCmd.AddCommand(export.Cmd)
	rootCmd.AddCommand(settings.Cmd)
	rootCmd.AddCommand(migrate.Cmd)
	rootCmd.AddCommand(version.Cmd)

	rootCmd.PersistentFlags().StringVar(&shared.ConfigPath, "config", "", "settings file (default is $TABSCRIBE_HOME/settings.yaml or ~/.tabscribe/settings.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&shared.Verbose, "verbose", "V", false, "verbose output")
}
