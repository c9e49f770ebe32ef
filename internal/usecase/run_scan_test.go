package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"SignalBench/internal/domain/models"
	"SignalBench/internal/services/bucket"
	"SignalBench/pkg/config"
)

func TestScanRunnerFreezesAndReplays(t *testing.T) {
	var signals []models.Signal
	id := uint64(0)
	add := func(entry time.Time, strategy string, o models.Outcome) {
		id++
		signals = append(signals, models.Signal{
			ID:        id,
			EntryTime: entry,
			Strategy:  strategy,
			Action:    models.ActionBuy,
			Result10:  o,
			Result30:  models.OutcomeNone,
			Result60:  models.OutcomeNone,
		})
	}

	// Twelve winning Mondays at 09:00 inside the train window make one
	// dense (Monday, 9, channel) bucket.
	monday := time.Date(2025, 1, 6, 9, 0, 0, 0, time.UTC)
	for week := 0; week < 12; week++ {
		add(monday.AddDate(0, 0, 7*week), "UT-BOT2-10", models.OutcomeWin)
	}
	// A noisy channel that must not survive selection.
	for day := 0; day < 5; day++ {
		add(monday.AddDate(0, 0, day).Add(2*time.Hour), "noisy", models.OutcomeLose)
	}
	// An early test-window signal seeds the channel universe; its slot
	// (Wednesday 10:00) is not whitelisted, so it never trades.
	add(time.Date(2025, 4, 2, 10, 0, 0, 0, time.UTC), "UT-BOT2-10", models.OutcomeWin)
	// One signal in the whitelisted slot, one outside it.
	testMonday := time.Date(2025, 4, 7, 9, 5, 0, 0, time.UTC)
	add(testMonday, "UT-BOT2-10", models.OutcomeWin)
	add(testMonday.Add(3*time.Hour), "UT-BOT2-10", models.OutcomeWin)

	store := fixtureStore(t, signals)
	runner := NewScanRunner(store, nil)

	cfg, err := config.Default()
	require.NoError(t, err)
	cfg.Scan.TrainStart = "2025-01-01"
	cfg.Scan.TrainEnd = "2025-04-01"
	cfg.Scan.TestEnd = "2025-04-09"
	cfg.Simulate.MinScore = 0

	report, err := runner.Run(context.Background(), cfg)
	require.NoError(t, err)

	require.Equal(t, time.Date(2025, 4, 2, 0, 0, 0, 0, time.UTC), report.TestStart)
	require.Equal(t, "balanced", report.Whitelist.Mode)
	require.Len(t, report.Whitelist.Buckets, 1)

	kept := report.Whitelist.Buckets[0]
	require.Equal(t, "UT-BOT2-10 | Buy", kept.Channel)
	require.Equal(t, 1, kept.DayOfWeek)
	require.Equal(t, 9, kept.Hour)
	require.Equal(t, 12, kept.Trades)
	require.GreaterOrEqual(t, kept.WilsonLB, bucket.DefaultFilters().MinWilsonLB)

	// Only the whitelisted slot trades in the test replay.
	require.NotNil(t, report.TestRun)
	require.Len(t, report.TestRun.Trades, 1)
	require.Equal(t, testMonday, report.TestRun.Trades[0].Time)
	require.InDelta(t, cfg.Simulate.Stake*cfg.Simulate.Payout, report.TestRun.Trades[0].PnlChange, 1e-9)
}

func TestScanRunnerRequiresTrainWindow(t *testing.T) {
	store := fixtureStore(t, nil)
	runner := NewScanRunner(store, nil)

	cfg, err := config.Default()
	require.NoError(t, err)
	_, err = runner.Run(context.Background(), cfg)
	require.Error(t, err)
}
