// Package bucket aggregates signals per (timeframe, dow, hour, channel)
// bucket and selects tradable buckets by Wilson lower bound, expected value
// and quality proxies.
package bucket

import (
	"math"
	"sort"

	"SignalBench/internal/domain/models"
	"SignalBench/pkg/util"
)

// wilsonZ is the z-score for the 95% Wilson interval.
const wilsonZ = 1.96

// FallbackStrategy is the permissive-rule strategy used when no bucket
// passes the configured filters.
const FallbackStrategy = "UT-BOT2-10"

// Params configures aggregation economics.
type Params struct {
	Stake  float64 // default 100
	Payout float64 // default 0.8
}

// Filters are the selection thresholds.
type Filters struct {
	MinTrades        int
	MinWilsonLB      float64
	MinStability     float64
	MinSignalQuality float64
	MinEV            float64
	BreakevenMargin  float64 // percentage points over breakeven winrate
	Keep             int
}

// DefaultFilters returns the thresholds observed as defaults in the source.
func DefaultFilters() Filters {
	return Filters{
		MinTrades:        10,
		MinWilsonLB:      0.74,
		MinStability:     8,
		MinSignalQuality: 7.5,
		MinEV:            35,
		BreakevenMargin:  3,
		Keep:             20,
	}
}

// WilsonLowerBound computes the lower bound of the Wilson score interval
// for wins/trades at z=1.96. Defined as 0 when trades is 0.
func WilsonLowerBound(wins, trades int, z float64) float64 {
	if trades == 0 {
		return 0
	}
	n := float64(trades)
	p := float64(wins) / n
	z2 := z * z
	denom := 1 + z2/n
	center := p + z2/(2*n)
	margin := z * math.Sqrt((p*(1-p)+z2/(4*n))/n)
	lb := (center - margin) / denom
	if lb < 0 {
		return 0
	}
	return lb
}

// BreakevenWinrate is 1/(1+payout): the winrate at which flat-stake EV is
// zero. With payout 0.8 this is 55.56%.
func BreakevenWinrate(payout float64) float64 {
	return 1 / (1 + payout)
}

type bucketAgg struct {
	timeframe int
	dow       int
	hour      int
	strategy  string
	action    models.Action
	trades    int
	wins      int
	days      map[string]struct{}
}

// Aggregate builds one BucketRow per (dow, hour, channel) with at least one
// decided trade at the given horizon; the bucket timeframe is the horizon
// length in minutes. A bucket with zero trades is absent.
func Aggregate(signals []models.Signal, h models.Horizon, p Params) []models.BucketRow {
	aggs := make(map[models.BucketKey]*bucketAgg)

	for i := range signals {
		sig := &signals[i]
		if !sig.Action.Valid() {
			continue
		}
		res := sig.Result(h)
		if !res.Decided() {
			continue
		}
		key := models.BucketKey{
			Timeframe: h.Minutes(),
			DayOfWeek: int(sig.EntryTime.Weekday()),
			Hour:      sig.EntryTime.Hour(),
			Channel:   sig.Channel(),
		}
		a, ok := aggs[key]
		if !ok {
			a = &bucketAgg{
				timeframe: key.Timeframe,
				dow:       key.DayOfWeek,
				hour:      key.Hour,
				strategy:  sig.Strategy,
				action:    sig.Action,
				days:      make(map[string]struct{}),
			}
			aggs[key] = a
		}
		a.trades++
		if res == models.OutcomeWin {
			a.wins++
		}
		a.days[util.DayKey(sig.EntryTime)] = struct{}{}
	}

	rows := make([]models.BucketRow, 0, len(aggs))
	for key, a := range aggs {
		losses := a.trades - a.wins
		pHat := float64(a.wins) / float64(a.trades)
		wilson := WilsonLowerBound(a.wins, a.trades, wilsonZ)
		rows = append(rows, models.BucketRow{
			Timeframe:     a.timeframe,
			DayOfWeek:     a.dow,
			Hour:          a.hour,
			Channel:       key.Channel,
			Strategy:      a.strategy,
			Action:        a.action,
			Trades:        a.trades,
			Wins:          a.wins,
			Winrate:       pHat,
			Stability:     float64(len(a.days)),
			SignalQuality: signalQuality(wilson, pHat),
			PHat:          pHat,
			WilsonLB:      wilson,
			EVPerTrade:    p.Stake * (pHat*p.Payout - (1 - pHat)),
			PnlFlat:       p.Stake * (float64(a.wins)*p.Payout - float64(losses)),
		})
	}

	// Deterministic base order for downstream selection.
	sort.Slice(rows, func(i, j int) bool {
		a, b := &rows[i], &rows[j]
		if a.Timeframe != b.Timeframe {
			return a.Timeframe < b.Timeframe
		}
		if a.DayOfWeek != b.DayOfWeek {
			return a.DayOfWeek < b.DayOfWeek
		}
		if a.Hour != b.Hour {
			return a.Hour < b.Hour
		}
		return a.Channel < b.Channel
	})
	return rows
}

// signalQuality is a 0-10 quality proxy blending the Wilson lower bound
// with the raw winrate, weighted toward the conservative estimate.
func signalQuality(wilsonLB, winrate float64) float64 {
	return 10 * (0.7*wilsonLB + 0.3*winrate)
}

// Select applies the filter thresholds, retains only the 10-minute
// timeframe, sorts by (wilson_lb, trades, signal_quality) descending and
// keeps at most f.Keep buckets.
func Select(rows []models.BucketRow, f Filters, payout float64) []models.BucketRow {
	breakeven := BreakevenWinrate(payout)
	out := make([]models.BucketRow, 0, f.Keep)
	for _, r := range rows {
		if r.Trades < f.MinTrades ||
			r.WilsonLB < f.MinWilsonLB ||
			r.Stability < f.MinStability ||
			r.Winrate <= breakeven+f.BreakevenMargin/100 ||
			r.SignalQuality < f.MinSignalQuality ||
			r.EVPerTrade < f.MinEV ||
			r.Timeframe != 10 {
			continue
		}
		out = append(out, r)
	}
	sortRanked(out)
	if len(out) > f.Keep {
		out = out[:f.Keep]
	}
	return out
}

// Fallback is the permissive rule applied when Select yields nothing:
// FallbackStrategy channels only, trades >= 10, wilson >= 0.70,
// stability >= 7.5, ev >= 30, keep top 4.
func Fallback(rows []models.BucketRow) []models.BucketRow {
	out := make([]models.BucketRow, 0, 4)
	for _, r := range rows {
		if r.Strategy != FallbackStrategy ||
			r.Trades < 10 ||
			r.WilsonLB < 0.70 ||
			r.Stability < 7.5 ||
			r.EVPerTrade < 30 ||
			r.Timeframe != 10 {
			continue
		}
		out = append(out, r)
	}
	sortRanked(out)
	if len(out) > 4 {
		out = out[:4]
	}
	return out
}

func sortRanked(rows []models.BucketRow) {
	sort.Slice(rows, func(i, j int) bool {
		a, b := &rows[i], &rows[j]
		if a.WilsonLB != b.WilsonLB {
			return a.WilsonLB > b.WilsonLB
		}
		if a.Trades != b.Trades {
			return a.Trades > b.Trades
		}
		if a.SignalQuality != b.SignalQuality {
			return a.SignalQuality > b.SignalQuality
		}
		return a.Channel < b.Channel
	})
}
