// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the techlife CLI. Run without
// arguments it loads the three source tables, classifies each technology
// keyword, and writes the lifecycle report.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/pdiddy/techlife/internal/pipeline"
)

// version is set at build time via ldflags.
var version = "dev"

// logger is built in PersistentPreRunE and synced on exit.
var logger = zap.NewNop()

// errRunFailed signals a failed run whose message was already printed.
var errRunFailed = errors.New("run failed")

// rootCmd runs the pipeline when invoked without a subcommand.
var rootCmd = &cobra.Command{
	Use:   "techlife",
	Short: "Classify R&D technology keywords into lifecycle stages",
	Long: `techlife reads the Innopolis Foundation keyword, promising-technology, and
R&D expenditure CSV exports, classifies each technology keyword into a
lifecycle stage (mature, growth, early) by how often it occurs, groups the
keywords into portfolio risk buckets, and writes the result as a report.

With no configuration it reads the published file names from the current
directory and writes data.json.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		verbose, _ := cmd.Flags().GetBool("verbose")
		config := zap.NewProductionConfig()
		config.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
		if verbose {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		l, err := config.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		logger = l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
	RunE: runPipeline,
}

func runPipeline(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if _, err := pipeline.New(cfg, logger, out).Run(cmd.Context()); err != nil {
		fmt.Fprintln(out, pipeline.UserMessage(err))
		logger.Error("run failed", zap.Error(err))
		if cfg.StrictExit {
			return errRunFailed
		}
	}
	return nil
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./techlife.yaml or ~/.config/techlife/techlife.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "enable debug logging")

	rootCmd.Flags().String("output", "", "report path (default data.json)")
	rootCmd.Flags().String("format", "", "report format: json, yaml, or xlsx")
	rootCmd.Flags().String("encoding", "", "input text encoding (default cp949)")
	rootCmd.Flags().String("stage-labels", "", "stage spelling in the report: en or ko")
	rootCmd.Flags().String("metrics-file", "", "write Prometheus textfile metrics to this path")
	rootCmd.Flags().Bool("strict-exit", false, "exit with status 1 when the run fails")
	rootCmd.PersistentFlags().String("archive-db", "", "SQLite run history database (empty disables archiving)")

	bindFlags(rootCmd, map[string]string{
		"output.path":         "output",
		"output.format":       "format",
		"inputs.encoding":     "encoding",
		"output.stage_labels": "stage-labels",
		"metrics.textfile":    "metrics-file",
		"strict_exit":         "strict-exit",
	})
	_ = viper.BindPFlag("archive.db_path", rootCmd.PersistentFlags().Lookup("archive-db"))
}

func bindFlags(cmd *cobra.Command, keys map[string]string) {
	for key, flag := range keys {
		_ = viper.BindPFlag(key, cmd.Flags().Lookup(flag))
	}
}

func initConfig() {
	setDefaults()

	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("techlife")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "techlife"))
		}
	}

	viper.SetEnvPrefix("TECHLIFE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		if !errors.Is(err, errRunFailed) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}
