package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"SignalBench/internal/domain/models"
	"SignalBench/internal/repository"
	"SignalBench/pkg/config"
)

func fixtureStore(t *testing.T, signals []models.Signal) *repository.MemorySignalStore {
	t.Helper()
	store, err := repository.NewMemorySignalStore(signals)
	require.NoError(t, err)
	return store
}

func hourlySignals(strategy string, start time.Time, outcomes ...models.Outcome) []models.Signal {
	var out []models.Signal
	for i, o := range outcomes {
		out = append(out, models.Signal{
			ID:        uint64(i + 1),
			EntryTime: start.Add(time.Duration(i) * time.Hour),
			Strategy:  strategy,
			Action:    models.ActionBuy,
			Result10:  o,
			Result30:  models.OutcomeNone,
			Result60:  models.OutcomeNone,
		})
	}
	return out
}

func simulateConfig() config.SimulateConfig {
	cfg, _ := config.Default()
	s := cfg.Simulate
	s.ScoreFormula = "linear"
	s.LookbackHours = 6
	s.TopK = 1
	s.MinScore = 0
	s.Stake = 100
	s.DailyCap = 0
	s.MaxConsecutiveLosses = 0
	s.From = "2025-01-01T00:00:00Z"
	s.To = "2025-01-01T06:00:00Z"
	return s
}

func TestSimulationRunnerEndToEnd(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	w, l := models.OutcomeWin, models.OutcomeLose
	store := fixtureStore(t, hourlySignals("A", start, w, w, w, l, w, w))

	runner := NewSimulationRunner(store, nil)
	report, err := runner.Run(context.Background(), &config.SimulateConfig{})
	require.Error(t, err) // from/to missing

	cfg := simulateConfig()
	report, err = runner.Run(context.Background(), &cfg)
	require.NoError(t, err)
	require.Len(t, report.Trades, 5)
	require.InDelta(t, 1220.0, report.Aggregates.FinalCash, 1e-9)
	require.False(t, report.ZeroSignals)
}

func TestSimulationRunnerRejectsBadSelector(t *testing.T) {
	store := fixtureStore(t, nil)
	runner := NewSimulationRunner(store, nil)

	cfg := simulateConfig()
	cfg.Selector = "performance"
	cfg.Horizon = "30min"
	_, err := runner.Run(context.Background(), &cfg)
	require.Error(t, err)

	cfg = simulateConfig()
	cfg.ScoreFormula = "bogus"
	_, err = runner.Run(context.Background(), &cfg)
	require.Error(t, err)
}

func TestSimulationRunnerFlagsEmptyWindow(t *testing.T) {
	store := fixtureStore(t, nil)
	runner := NewSimulationRunner(store, nil)

	cfg := simulateConfig()
	report, err := runner.Run(context.Background(), &cfg)
	require.NoError(t, err)
	require.True(t, report.ZeroSignals)
	require.Empty(t, report.Trades)
}
