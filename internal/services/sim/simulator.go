// Package sim replays signals against leaderboards refreshed on a fixed
// cadence, applying flat-stake P/L under a strict no-look-ahead discipline.
package sim

import (
	"context"
	"fmt"
	"sort"
	"time"

	"SignalBench/internal/domain/models"
	"SignalBench/internal/services/leaderboard"
	applogger "SignalBench/pkg/logger"
	"SignalBench/pkg/util"
)

// Config holds the simulator parameters.
type Config struct {
	Horizon              models.Horizon
	LookbackHours        int
	RefreshCadence       time.Duration
	Stake                float64
	Payout               float64
	StartingCash         float64
	DailyCap             int           // max trades per calendar day; 0 disables
	MaxConsecutiveLosses int           // game-over threshold; 0 disables
	From                 time.Time     // first refresh tick (inclusive)
	To                   time.Time     // end of trading (exclusive)
}

// Validate rejects contradictory or incomplete parameters before any
// computation.
func (c *Config) Validate() error {
	if c.Stake <= 0 {
		return fmt.Errorf("stake must be positive")
	}
	if c.Payout <= 0 {
		return fmt.Errorf("payout must be positive")
	}
	if c.RefreshCadence <= 0 {
		return fmt.Errorf("refresh cadence must be positive")
	}
	if c.LookbackHours <= 0 {
		return fmt.Errorf("lookback hours must be positive")
	}
	if !c.From.Before(c.To) {
		return fmt.Errorf("empty simulation range [%s, %s)", c.From, c.To)
	}
	return nil
}

// Simulator owns the cash/streak/daily-count state of one run. One instance
// serves one run; parameter sweeps use independent instances.
type Simulator struct {
	cfg       Config
	selector  leaderboard.Selector
	whitelist map[models.BucketKey]struct{} // optional admission filter
	l         *applogger.Logger
}

func New(cfg Config, selector leaderboard.Selector, l *applogger.Logger) *Simulator {
	if l == nil {
		l = applogger.Nop()
	}
	return &Simulator{cfg: cfg, selector: selector, l: l}
}

// SetWhitelist restricts trading to the frozen bucket set; used by the
// train/test evaluation path.
func (s *Simulator) SetWhitelist(buckets []models.BucketKey) {
	s.whitelist = make(map[models.BucketKey]struct{}, len(buckets))
	for _, b := range buckets {
		s.whitelist[b] = struct{}{}
	}
}

// Run replays signals over the configured range. The input must be ordered
// ascending by (entry_time, id) and should include lookback history before
// cfg.From; signals at or after cfg.From are the tradable stream.
// Cancellation is honored between ticks; no partial trade is recorded.
func (s *Simulator) Run(ctx context.Context, signals []models.Signal) (*models.RunReport, error) {
	if err := s.cfg.Validate(); err != nil {
		return nil, err
	}

	report := &models.RunReport{
		Aggregates: models.RunAggregates{
			FinalCash: s.cfg.StartingCash,
			PnlByDay:  make(map[string]float64),
		},
		ZeroSignals: len(signals) == 0,
	}

	cash := s.cfg.StartingCash
	cumulative := 0.0
	lossStreak := 0
	dailyCount := make(map[string]int)
	prevActive := make(map[string]struct{})

	for tick := s.cfg.From; tick.Before(s.cfg.To); tick = tick.Add(s.cfg.RefreshCadence) {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("run canceled: %w", err)
		}

		// Leaderboard from data strictly preceding the tick; the tick
		// itself is future to the selector.
		lookbackFrom := tick.Add(-time.Duration(s.cfg.LookbackHours) * time.Hour)
		lookback := sliceRange(signals, lookbackFrom, tick)
		universe := channelsBefore(signals, tick, s.cfg.Horizon)

		board := s.selector.Leaderboard(lookback, universe, tick)
		report.Leaderboards = append(report.Leaderboards, board)

		active := make(map[string]struct{})
		for _, ch := range board.ActiveSet() {
			active[ch] = struct{}{}
		}
		if !sameSet(active, prevActive) {
			report.Aggregates.StrategyChanges++
		}
		prevActive = active

		intervalEnd := tick.Add(s.cfg.RefreshCadence)
		if intervalEnd.After(s.cfg.To) {
			intervalEnd = s.cfg.To
		}

		for _, sig := range sliceRange(signals, tick, intervalEnd) {
			res := sig.Result(s.cfg.Horizon)
			if !res.Decided() || !sig.Action.Valid() {
				continue
			}
			if _, ok := active[sig.Channel()]; !ok {
				continue
			}
			if s.whitelist != nil && !s.admitted(&sig) {
				continue
			}

			day := util.DayKey(sig.EntryTime)
			if s.cfg.DailyCap > 0 && dailyCount[day] >= s.cfg.DailyCap {
				continue // daily cap ends the day only
			}
			if cash < s.cfg.Stake {
				continue // low cash pauses trading
			}

			var change float64
			if res == models.OutcomeWin {
				change = s.cfg.Stake * s.cfg.Payout
				lossStreak = 0
				report.Aggregates.WinCount++
			} else {
				change = -s.cfg.Stake
				lossStreak++
				report.Aggregates.LossCount++
			}
			cash += change
			cumulative += change
			dailyCount[day]++
			report.Aggregates.PnlByDay[day] += change

			report.Trades = append(report.Trades, models.TradeRecord{
				Time:          sig.EntryTime,
				SignalID:      sig.ID,
				Channel:       sig.Channel(),
				Result:        res,
				PnlChange:     change,
				CumulativePnl: cumulative,
				Cash:          cash,
			})

			if s.cfg.MaxConsecutiveLosses > 0 && lossStreak >= s.cfg.MaxConsecutiveLosses {
				at := sig.EntryTime
				report.Aggregates.GameOver = true
				report.Aggregates.GameOverAt = &at
				s.l.Warn("game over",
					applogger.Time("at", at),
					applogger.Int("loss_streak", lossStreak),
					applogger.Float64("cash", cash),
				)
				s.finish(report, cash, cumulative)
				return report, nil
			}
		}
	}

	s.finish(report, cash, cumulative)
	return report, nil
}

func (s *Simulator) finish(report *models.RunReport, cash, cumulative float64) {
	report.Aggregates.FinalCash = cash
	report.Aggregates.TotalPnl = cumulative
	report.Aggregates.TradeCount = len(report.Trades)
	s.l.Info("run complete",
		applogger.Int("trades", report.Aggregates.TradeCount),
		applogger.Float64("total_pnl", cumulative),
		applogger.Float64("final_cash", cash),
		applogger.Int("ticks", len(report.Leaderboards)),
		applogger.Bool("game_over", report.Aggregates.GameOver),
	)
}

func (s *Simulator) admitted(sig *models.Signal) bool {
	key := models.BucketKey{
		Timeframe: s.cfg.Horizon.Minutes(),
		DayOfWeek: int(sig.EntryTime.Weekday()),
		Hour:      sig.EntryTime.Hour(),
		Channel:   sig.Channel(),
	}
	_, ok := s.whitelist[key]
	return ok
}

// sliceRange returns the ordered sub-slice with entry_time in [from, to).
func sliceRange(signals []models.Signal, from, to time.Time) []models.Signal {
	lo := sort.Search(len(signals), func(i int) bool {
		return !signals[i].EntryTime.Before(from)
	})
	hi := sort.Search(len(signals), func(i int) bool {
		return !signals[i].EntryTime.Before(to)
	})
	return signals[lo:hi]
}

// channelsBefore lists every channel with a decided signal strictly before
// tick, sorted for determinism.
func channelsBefore(signals []models.Signal, tick time.Time, h models.Horizon) []string {
	set := make(map[string]struct{})
	for i := range signals {
		sig := &signals[i]
		if !sig.EntryTime.Before(tick) {
			break
		}
		if !sig.Action.Valid() || !sig.Result(h).Decided() {
			continue
		}
		set[sig.Channel()] = struct{}{}
	}
	out := make([]string, 0, len(set))
	for ch := range set {
		out = append(out, ch)
	}
	sort.Strings(out)
	return out
}

func sameSet(a, b map[string]struct{}) bool {
	if len(a) != len(b) {
		return false
	}
	for k := range a {
		if _, ok := b[k]; !ok {
			return false
		}
	}
	return true
}
