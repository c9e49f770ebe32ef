package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"SignalBench/internal/di"
	applogger "SignalBench/pkg/logger"
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Replay signals through the walk-forward simulator",
	Long: `Walks the configured window tick by tick, rebuilds the leaderboard from
signals that entered strictly before each tick, trades the active channels and
prints the run report as JSON on stdout.`,
	RunE: runSimulate,
}

var (
	simHorizon   string
	simLookback  int
	simCadence   int
	simFormula   string
	simSelector  string
	simTopK      int
	simMinScore  float64
	simMaxSelect int
	simStake     float64
	simPayout    float64
	simCash      float64
	simDailyCap  int
	simMaxLosses int
	simFrom      string
	simTo        string
)

func init() {
	f := simulateCmd.Flags()
	f.StringVar(&simHorizon, "horizon", "", "outcome horizon (10min, 30min, 60min)")
	f.IntVar(&simLookback, "lookback-hours", 0, "leaderboard lookback window in hours")
	f.IntVar(&simCadence, "refresh-cadence", 0, "leaderboard refresh cadence in minutes")
	f.StringVar(&simFormula, "score-formula", "", "momentum formula (linear, exponential, rate_of_growth, acceleration)")
	f.StringVar(&simSelector, "selector", "", "channel selector (momentum, performance)")
	f.IntVar(&simTopK, "top-k", 0, "leaderboard size")
	f.Float64Var(&simMinScore, "min-score", 0, "minimum normalized score to trade a channel")
	f.IntVar(&simMaxSelect, "max-select", 0, "maximum concurrently active channels")
	f.Float64Var(&simStake, "stake", 0, "stake per trade")
	f.Float64Var(&simPayout, "payout", 0, "payout ratio on a winning trade")
	f.Float64Var(&simCash, "starting-cash", 0, "starting cash balance")
	f.IntVar(&simDailyCap, "daily-cap", 0, "maximum trades per calendar day (0 disables)")
	f.IntVar(&simMaxLosses, "max-consecutive-losses", 0, "loss streak that ends the run (0 disables)")
	f.StringVar(&simFrom, "from", "", "simulation start time (inclusive)")
	f.StringVar(&simTo, "to", "", "simulation end time (exclusive)")
}

func applySimulateFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	s := &cfg.Simulate
	if f.Changed("horizon") {
		s.Horizon = simHorizon
	}
	if f.Changed("lookback-hours") {
		s.LookbackHours = simLookback
	}
	if f.Changed("refresh-cadence") {
		s.RefreshCadenceMinutes = simCadence
	}
	if f.Changed("score-formula") {
		s.ScoreFormula = simFormula
	}
	if f.Changed("selector") {
		s.Selector = simSelector
	}
	if f.Changed("top-k") {
		s.TopK = simTopK
	}
	if f.Changed("min-score") {
		s.MinScore = simMinScore
	}
	if f.Changed("max-select") {
		s.MaxSelect = simMaxSelect
	}
	if f.Changed("stake") {
		s.Stake = simStake
	}
	if f.Changed("payout") {
		s.Payout = simPayout
	}
	if f.Changed("starting-cash") {
		s.StartingCash = simCash
	}
	if f.Changed("daily-cap") {
		s.DailyCap = simDailyCap
	}
	if f.Changed("max-consecutive-losses") {
		s.MaxConsecutiveLosses = simMaxLosses
	}
	if f.Changed("from") {
		s.From = simFrom
	}
	if f.Changed("to") {
		s.To = simTo
	}
}

func runSimulate(cmd *cobra.Command, args []string) error {
	applySimulateFlags(cmd)
	if err := cfg.Validate(); err != nil {
		return err
	}

	app, cleanup, err := di.InitializeApp(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	report, err := app.Simulation.Run(cmd.Context(), &cfg.Simulate)
	if err != nil {
		return err
	}

	log.Info("simulation finished",
		applogger.Int("trades", report.Aggregates.TradeCount),
		applogger.Float64("final_cash", report.Aggregates.FinalCash),
	)

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}
