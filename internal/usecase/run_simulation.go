package usecase

import (
	"context"
	"fmt"
	"time"

	"SignalBench/internal/domain/models"
	domrepo "SignalBench/internal/domain/repository"
	"SignalBench/internal/services/leaderboard"
	"SignalBench/internal/services/momentum"
	"SignalBench/internal/services/sim"
	"SignalBench/pkg/config"
	applogger "SignalBench/pkg/logger"
	"SignalBench/pkg/util"
)

// SimulationRunner wires the signal store into the walk-forward simulator.
type SimulationRunner struct {
	store domrepo.SignalStore
	l     *applogger.Logger
}

func NewSimulationRunner(store domrepo.SignalStore, l *applogger.Logger) *SimulationRunner {
	if l == nil {
		l = applogger.Nop()
	}
	return &SimulationRunner{store: store, l: l}
}

// Run executes one simulation per the configuration and returns the pure
// run report. I/O happens once, up front; the replay itself never touches
// the store again.
func (r *SimulationRunner) Run(ctx context.Context, cfg *config.SimulateConfig) (*models.RunReport, error) {
	simCfg, err := buildSimConfig(cfg)
	if err != nil {
		return nil, err
	}

	selector, err := buildSelector(cfg)
	if err != nil {
		return nil, err
	}

	// The first ticks need lookback history preceding the run start.
	fetchFrom := simCfg.From.Add(-time.Duration(simCfg.LookbackHours) * time.Hour)
	signals, err := r.store.Query(ctx, fetchFrom, simCfg.To, simCfg.Horizon)
	if err != nil {
		return nil, fmt.Errorf("fetch signals: %w", err)
	}
	if len(signals) == 0 {
		r.l.Warn("zero signals in window",
			applogger.Time("from", fetchFrom),
			applogger.Time("to", simCfg.To),
		)
	}

	report, err := sim.New(simCfg, selector, r.l).Run(ctx, signals)
	if err != nil {
		return nil, err
	}
	if d, ok := r.store.(interface{ Dropped() int }); ok {
		report.DroppedRows = d.Dropped()
	}
	return report, nil
}

func buildSimConfig(cfg *config.SimulateConfig) (sim.Config, error) {
	horizon, err := models.ParseHorizon(cfg.Horizon)
	if err != nil {
		return sim.Config{}, err
	}
	from, ok := util.ParseTime(cfg.From)
	if !ok {
		return sim.Config{}, fmt.Errorf("simulate.from is required (got %q)", cfg.From)
	}
	to, ok := util.ParseTime(cfg.To)
	if !ok {
		return sim.Config{}, fmt.Errorf("simulate.to is required (got %q)", cfg.To)
	}
	return sim.Config{
		Horizon:              horizon,
		LookbackHours:        cfg.LookbackHours,
		RefreshCadence:       time.Duration(cfg.RefreshCadenceMinutes) * time.Minute,
		Stake:                cfg.Stake,
		Payout:               cfg.Payout,
		StartingCash:         cfg.StartingCash,
		DailyCap:             cfg.DailyCap,
		MaxConsecutiveLosses: cfg.MaxConsecutiveLosses,
		From:                 from,
		To:                   to,
	}, nil
}

func buildSelector(cfg *config.SimulateConfig) (leaderboard.Selector, error) {
	lbCfg := leaderboard.Config{
		TopK:      cfg.TopK,
		MinScore:  cfg.MinScore,
		MaxSelect: cfg.MaxSelect,
	}
	switch cfg.Selector {
	case "momentum":
		formula, err := momentum.ParseFormula(cfg.ScoreFormula)
		if err != nil {
			return nil, err
		}
		horizon, err := models.ParseHorizon(cfg.Horizon)
		if err != nil {
			return nil, err
		}
		return leaderboard.NewMomentumSelector(lbCfg, formula, horizon), nil
	case "performance":
		if cfg.Horizon != string(models.Horizon10) {
			return nil, fmt.Errorf("performance selector requires horizon=10min, got %q", cfg.Horizon)
		}
		return leaderboard.NewPerformanceSelector(lbCfg, cfg.Stake, cfg.Payout), nil
	}
	return nil, fmt.Errorf("unknown selector %q", cfg.Selector)
}
