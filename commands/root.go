// Package commands wires the curation pipeline into the mediacurator CLI.
// Every subcommand loads the shared config, so one YAML file drives the
// whole workflow.
package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"mediacurator/config"
	"mediacurator/logging"
)

var (
	cfgFile  string
	logLevel string
	logFile  string
	cfg      *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "mediacurator",
	Short: "Curate a photo and video archive for cloud upload",
	Long: `mediacurator scans a local media archive, flags near-duplicate images,
selects photos and videos with trustworthy capture dates, and stages the
approved ones for upload. Evaluators write '@'-separated CSV reports for
review; processors act only on reviewed reports and default to a dry run.`,
	SilenceUsage: true,
}

// Execute runs the CLI. The context cancels in-flight scans and conversions.
func Execute(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initRun)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ~/.mediacurator.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "also write logs to this file")

	rootCmd.AddCommand(evaluateCmd)
	rootCmd.AddCommand(processCmd)
	rootCmd.AddCommand(replaceCmd)
	rootCmd.AddCommand(initCmd)
}

func initRun() {
	loaded, err := config.Load(cfgFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	cfg = loaded

	level := cfg.LogLevel
	if logLevel != "" {
		level = logLevel
	}
	file := cfg.LogFile
	if logFile != "" {
		file = logFile
	}
	if err := logging.Setup(level, file); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
