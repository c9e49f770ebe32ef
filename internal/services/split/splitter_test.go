package split

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"SignalBench/internal/domain/models"
	"SignalBench/internal/services/bucket"
)

func date(day int) time.Time {
	return time.Date(2025, 1, day, 0, 0, 0, 0, time.UTC)
}

func TestResolveDefaultsTestStartToEmbargoEdge(t *testing.T) {
	w, err := Resolve(date(1), date(11), time.Time{}, date(23), 1)
	require.NoError(t, err)
	require.Equal(t, date(12), w.TestStart)
	require.Equal(t, 24*time.Hour, w.Embargo)
}

func TestResolveRejectsEmbargoViolation(t *testing.T) {
	_, err := Resolve(date(1), date(11), date(11), date(23), 1)
	require.Error(t, err)

	// Exactly at the embargo edge is allowed, later too.
	_, err = Resolve(date(1), date(11), date(12), date(23), 1)
	require.NoError(t, err)
	_, err = Resolve(date(1), date(11), date(13), date(23), 1)
	require.NoError(t, err)
}

func TestResolveRejectsEmptyWindows(t *testing.T) {
	_, err := Resolve(date(11), date(1), time.Time{}, date(23), 1)
	require.Error(t, err)

	_, err = Resolve(date(1), date(11), date(23), date(23), 1)
	require.Error(t, err)
}

func trainRow(channel, strategy string, trades, wins int, stability float64) models.BucketRow {
	pHat := float64(wins) / float64(trades)
	wilson := bucket.WilsonLowerBound(wins, trades, 1.96)
	return models.BucketRow{
		Timeframe:     10,
		DayOfWeek:     1,
		Hour:          9,
		Channel:       channel,
		Strategy:      strategy,
		Action:        models.ActionBuy,
		Trades:        trades,
		Wins:          wins,
		Winrate:       pHat,
		Stability:     stability,
		SignalQuality: 10 * (0.7*wilson + 0.3*pHat),
		PHat:          pHat,
		WilsonLB:      wilson,
		EVPerTrade:    100 * (pHat*0.8 - (1 - pHat)),
	}
}

func TestFreezeWhitelistStopsAtFirstPassingRung(t *testing.T) {
	rows := []models.BucketRow{trainRow("a | Buy", "a", 30, 29, 9)}
	w := FreezeWhitelist(rows, bucket.Params{Stake: 100, Payout: 0.8}, bucket.DefaultFilters(), nil)
	require.Equal(t, "strict", w.Mode)
	require.False(t, w.Fallback)
	require.Len(t, w.Buckets, 1)
	require.Equal(t, models.BucketKey{Timeframe: 10, DayOfWeek: 1, Hour: 9, Channel: "a | Buy"}, w.Keys()[0])
}

func TestFreezeWhitelistDescendsTheGrid(t *testing.T) {
	// Only 8 trades: fails the strict (15) and balanced (10) rungs but
	// passes lenient. Wilson stays high thanks to the perfect record.
	rows := []models.BucketRow{trainRow("a | Buy", "a", 8, 8, 6)}
	// Loosen the base thresholds the grid does not override.
	base := bucket.DefaultFilters()
	base.MinWilsonLB = 0.6
	base.MinEV = 30

	w := FreezeWhitelist(rows, bucket.Params{Stake: 100, Payout: 0.8}, base, nil)
	require.Equal(t, "lenient", w.Mode)
	require.Len(t, w.Buckets, 1)
}

func TestFreezeWhitelistFallsBack(t *testing.T) {
	rows := []models.BucketRow{
		trainRow("weak | Buy", "weak", 10, 7, 9),
		trainRow("fb | Buy", bucket.FallbackStrategy, 40, 35, 8),
	}
	w := FreezeWhitelist(rows, bucket.Params{Stake: 100, Payout: 0.8}, bucket.DefaultFilters(), nil)
	require.Equal(t, "fallback", w.Mode)
	require.True(t, w.Fallback)
	require.Len(t, w.Buckets, 1)
	require.Equal(t, bucket.FallbackStrategy, w.Buckets[0].Strategy)
}

// Rows aggregated strictly from the train window are the whitelist's only
// input; signals between train end and test start cannot move it.
func TestFreezeWhitelistIgnoresEmbargoGapSignals(t *testing.T) {
	var train []models.Signal
	id := uint64(0)
	// Ten winning Mondays-at-9 style observations inside [D1, D11).
	for day := 1; day <= 10; day++ {
		id++
		train = append(train, models.Signal{
			ID:        id,
			EntryTime: time.Date(2025, 1, day, 9, 0, 0, 0, time.UTC),
			Strategy:  "S",
			Action:    models.ActionBuy,
			Result10:  models.OutcomeWin,
			Result30:  models.OutcomeNone,
			Result60:  models.OutcomeNone,
		})
	}
	gap := append(append([]models.Signal{}, train...), models.Signal{
		ID:        99,
		EntryTime: time.Date(2025, 1, 12, 9, 0, 0, 0, time.UTC),
		Strategy:  "S",
		Action:    models.ActionBuy,
		Result10:  models.OutcomeLose,
		Result30:  models.OutcomeNone,
		Result60:  models.OutcomeNone,
	})

	w, err := Resolve(date(1), date(11), time.Time{}, date(23), 1)
	require.NoError(t, err)

	inWindow := func(signals []models.Signal) []models.Signal {
		var out []models.Signal
		for _, s := range signals {
			if !s.EntryTime.Before(w.TrainStart) && s.EntryTime.Before(w.TrainEnd) {
				out = append(out, s)
			}
		}
		return out
	}

	params := bucket.Params{Stake: 100, Payout: 0.8}
	withGap := FreezeWhitelist(bucket.Aggregate(inWindow(gap), models.Horizon10, params), params, bucket.DefaultFilters(), nil)
	without := FreezeWhitelist(bucket.Aggregate(inWindow(train), models.Horizon10, params), params, bucket.DefaultFilters(), nil)
	require.Equal(t, without, withGap)
}
