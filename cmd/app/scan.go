package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"SignalBench/internal/di"
	applogger "SignalBench/pkg/logger"
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan (weekday, hour, channel) buckets and replay the frozen whitelist",
	Long: `Aggregates per-bucket outcome statistics over the train window, freezes a
whitelist through the adaptive threshold grid, then replays the embargoed test
window trading only whitelisted buckets. The full scan report is printed as
JSON on stdout.`,
	RunE: runScan,
}

var (
	scanTrainStart string
	scanTrainEnd   string
	scanTestStart  string
	scanTestEnd    string
	scanEmbargo    int
	scanStake      float64
	scanPayout     float64
	scanMinTrades  int
	scanMinWilson  float64
	scanMinStab    float64
	scanMinQuality float64
	scanMinEV      float64
	scanMargin     float64
	scanKeep       int
)

func init() {
	f := scanCmd.Flags()
	f.StringVar(&scanTrainStart, "train-start", "", "train window start (inclusive)")
	f.StringVar(&scanTrainEnd, "train-end", "", "train window end (exclusive)")
	f.StringVar(&scanTestStart, "test-start", "", "test window start (defaults to train end plus embargo)")
	f.StringVar(&scanTestEnd, "test-end", "", "test window end (exclusive)")
	f.IntVar(&scanEmbargo, "embargo-days", 0, "gap in days between train end and test start")
	f.Float64Var(&scanStake, "stake", 0, "stake per trade for bucket statistics and the test replay")
	f.Float64Var(&scanPayout, "payout", 0, "payout ratio on a winning trade")
	f.IntVar(&scanMinTrades, "min-trades", 0, "minimum decided trades per bucket")
	f.Float64Var(&scanMinWilson, "min-wilson-lb", 0, "minimum Wilson lower bound on winrate")
	f.Float64Var(&scanMinStab, "min-stability", 0, "minimum distinct active days per bucket")
	f.Float64Var(&scanMinQuality, "min-signal-quality", 0, "minimum signal quality score")
	f.Float64Var(&scanMinEV, "min-ev", 0, "minimum expected value per bucket")
	f.Float64Var(&scanMargin, "breakeven-margin", 0, "winrate margin over breakeven in percentage points")
	f.IntVar(&scanKeep, "keep", 0, "whitelist size cap")
}

func applyScanFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	s := &cfg.Scan
	if f.Changed("train-start") {
		s.TrainStart = scanTrainStart
	}
	if f.Changed("train-end") {
		s.TrainEnd = scanTrainEnd
	}
	if f.Changed("test-start") {
		s.TestStart = scanTestStart
	}
	if f.Changed("test-end") {
		s.TestEnd = scanTestEnd
	}
	if f.Changed("embargo-days") {
		s.EmbargoDays = scanEmbargo
	}
	if f.Changed("stake") {
		s.Stake = scanStake
	}
	if f.Changed("payout") {
		s.Payout = scanPayout
	}
	if f.Changed("min-trades") {
		s.Filters.MinTrades = scanMinTrades
	}
	if f.Changed("min-wilson-lb") {
		s.Filters.MinWilsonLB = scanMinWilson
	}
	if f.Changed("min-stability") {
		s.Filters.MinStability = scanMinStab
	}
	if f.Changed("min-signal-quality") {
		s.Filters.MinSignalQuality = scanMinQuality
	}
	if f.Changed("min-ev") {
		s.Filters.MinEV = scanMinEV
	}
	if f.Changed("breakeven-margin") {
		s.Filters.BreakevenMargin = scanMargin
	}
	if f.Changed("keep") {
		s.Filters.Keep = scanKeep
	}
}

func runScan(cmd *cobra.Command, args []string) error {
	applyScanFlags(cmd)
	if err := cfg.Validate(); err != nil {
		return err
	}

	app, cleanup, err := di.InitializeApp(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	report, err := app.Scan.Run(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	log.Info("scan finished",
		applogger.Int("buckets", len(report.Buckets)),
		applogger.String("whitelist_mode", report.Whitelist.Mode),
		applogger.Int("whitelisted", len(report.Whitelist.Buckets)),
	)

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}
