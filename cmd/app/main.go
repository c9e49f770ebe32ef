package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"SignalBench/pkg/config"
	applogger "SignalBench/pkg/logger"
)

var (
	cfgPath string
	cfg     *config.Config
	log     *applogger.Logger
)

var rootCmd = &cobra.Command{
	Use:   "signalbench",
	Short: "Leaderboard-driven backtester for binary-options signal channels",
	Long: `SignalBench replays historical trading signals tick by tick, rebuilds the
channel leaderboard at every refresh from past data only, and reports the
resulting trade ledger. It also scans (weekday, hour, channel) buckets over a
train window and replays a frozen whitelist over an embargoed test window.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.LoadWithEnv(cfgPath)
		if err != nil {
			return err
		}
		applySourceFlags(cmd)
		log, err = applogger.New(&applogger.Config{
			Level:  cfg.Logging.Level,
			Format: cfg.Logging.Format,
			Output: cfg.Logging.Output,
		})
		return err
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "configuration file path")
	rootCmd.PersistentFlags().StringVar(&sourceType, "source", "", "signal source type (csv, clickhouse)")
	rootCmd.PersistentFlags().StringVar(&sourcePath, "csv", "", "csv file path (implies --source csv)")
	rootCmd.PersistentFlags().StringVar(&sourceDelim, "delimiter", "", "csv field delimiter")

	rootCmd.AddCommand(simulateCmd, scanCmd, ingestCmd, versionCmd)
}

var (
	sourceType  string
	sourcePath  string
	sourceDelim string
)

func applySourceFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	if f.Changed("source") {
		cfg.Source.Type = sourceType
	}
	if f.Changed("csv") {
		cfg.Source.Type = "csv"
		cfg.Source.Path = sourcePath
	}
	if f.Changed("delimiter") {
		cfg.Source.Delimiter = sourceDelim
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
