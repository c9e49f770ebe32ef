package momentum

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"SignalBench/internal/domain/models"
	"SignalBench/internal/services/curve"
)

func TestParseFormula(t *testing.T) {
	for _, name := range []string{"linear", "exponential", "rate_of_growth", "acceleration"} {
		f, err := ParseFormula(name)
		require.NoError(t, err)
		require.Equal(t, Formula(name), f)
	}
	_, err := ParseFormula("parabolic")
	require.Error(t, err)
}

func TestRawLinear(t *testing.T) {
	// Hourly deltas most-recent-first: 10, -20, 30, 0, 5.
	p := [6]float64{25, 15, 35, 5, 5, 0}
	// 5*10 + 4*0 + 3*30 + 2*0 + 1*5
	require.Equal(t, 145.0, Raw(Linear, p))
}

func TestRawExponential(t *testing.T) {
	p := [6]float64{50, 40, 30, 20, 10, 0}
	// All deltas are 10: 8+4+2+1+0.5 times 10.
	require.Equal(t, 155.0, Raw(Exponential, p))
}

func TestRawRateOfGrowth(t *testing.T) {
	// Denominator is max(|previous|, 1), so a zero base does not blow up.
	p := [6]float64{10, 0, 0, 0, 0, 0}
	require.Equal(t, 5000.0, Raw(RateOfGrowth, p))

	p = [6]float64{200, 100, 0, 0, 0, 0}
	// r[0] = 100*100/100 = 100, r[1] = 100*100/1.
	require.Equal(t, 5*100.0+4*10000.0, Raw(RateOfGrowth, p))
}

func TestRawAcceleration(t *testing.T) {
	// Steady growth has zero acceleration.
	steady := [6]float64{300, 250, 200, 150, 100, 50}
	require.Equal(t, 250.0, Raw(Acceleration, steady))

	// Accelerating growth earns the second term.
	accel := [6]float64{550, 350, 200, 100, 50, 0}
	require.Equal(t, 1150.0, Raw(Acceleration, accel))
}

func TestRawIgnoresNegativeMomentum(t *testing.T) {
	p := [6]float64{0, 100, 200, 300, 400, 500}
	for _, f := range []Formula{Linear, Exponential, RateOfGrowth, Acceleration} {
		require.Equal(t, 0.0, Raw(f, p), string(f))
	}
}

func TestKPIDegenerateWindows(t *testing.T) {
	require.Equal(t, 1.0, KPI(nil))
	// Identical raws have zero stdev; the denominator pins to 1.
	require.Equal(t, 1.0, KPI([]float64{100, 100, 100}))
}

func TestKPIMeanPlusPopulationStdev(t *testing.T) {
	// mean = 700, population stdev = 450.
	require.Equal(t, 1150.0, KPI([]float64{250, 1150}))
}

func TestNormalizeClamps(t *testing.T) {
	require.Equal(t, 0.0, Normalize(100, 0))
	require.Equal(t, 0.0, Normalize(-5, 100))
	require.Equal(t, MaxNormalized, Normalize(2000, 100))
	require.InDelta(t, 15.0, Normalize(50, 100), 1e-9)
}

func TestScoreAllIncludesIdleChannels(t *testing.T) {
	base := time.Date(2025, 1, 1, 0, 30, 0, 0, time.UTC)
	signals := []models.Signal{
		{ID: 1, EntryTime: base, Strategy: "A", Action: models.ActionBuy, Result10: models.OutcomeWin, Result30: models.OutcomeNone, Result60: models.OutcomeNone},
	}
	c := curve.Build(signals, models.Horizon10)

	tick := time.Date(2025, 1, 1, 1, 0, 0, 0, time.UTC)
	records := ScoreAll(Acceleration, c, []string{"A | Buy", "B | Sell"}, tick)
	require.Len(t, records, 2)

	byChannel := map[string]models.ScoreRecord{}
	for _, r := range records {
		byChannel[r.Channel] = r
	}
	require.Greater(t, byChannel["A | Buy"].RawScore, 0.0)
	require.Equal(t, 0.0, byChannel["B | Sell"].RawScore)
	require.Equal(t, 0.0, byChannel["B | Sell"].Normalized)
}
