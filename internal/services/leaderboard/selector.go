// Package leaderboard ranks scored channels per tick and emits the active
// trading set.
package leaderboard

import (
	"sort"
	"time"

	"SignalBench/internal/domain/models"
	"SignalBench/internal/services/curve"
	"SignalBench/internal/services/momentum"
)

// Selector produces the leaderboard for a tick from signals strictly
// preceding it. lookback is the ordered signal slice inside the lookback
// window; universe is every channel observed before the tick, so idle
// channels still participate in normalization as zero-raw rows.
type Selector interface {
	Leaderboard(lookback []models.Signal, universe []string, tick time.Time) models.Leaderboard
}

// Config holds the ranking thresholds shared by both selector variants.
type Config struct {
	TopK      int
	MinScore  float64
	MaxSelect int
}

// MomentumSelector ranks by normalized momentum score.
type MomentumSelector struct {
	cfg     Config
	formula momentum.Formula
	horizon models.Horizon
}

func NewMomentumSelector(cfg Config, formula momentum.Formula, horizon models.Horizon) *MomentumSelector {
	return &MomentumSelector{cfg: cfg, formula: formula, horizon: horizon}
}

func (s *MomentumSelector) Leaderboard(lookback []models.Signal, universe []string, tick time.Time) models.Leaderboard {
	curves := curve.Build(lookback, s.horizon)
	records := momentum.ScoreAll(s.formula, curves, universe, tick)

	// Descending by normalized score, tie-break by channel string.
	sort.Slice(records, func(i, j int) bool {
		if records[i].Normalized != records[j].Normalized {
			return records[i].Normalized > records[j].Normalized
		}
		return records[i].Channel < records[j].Channel
	})

	board := models.Leaderboard{Tick: tick}
	selected := 0
	for i, rec := range records {
		if i >= s.cfg.TopK {
			break
		}
		row := models.LeaderboardRow{
			Rank:       i + 1,
			Channel:    rec.Channel,
			Normalized: rec.Normalized,
			PnlNow:     rec.PnlNow,
		}
		if rec.Normalized >= s.cfg.MinScore && selected < s.cfg.MaxSelect {
			row.Selected = true
			selected++
		}
		board.Rows = append(board.Rows, row)
	}
	return board
}

// PerformanceSelector is the SQL-style variant: it ranks channels by
// flat-stake PnL over the rolling lookback window and applies hard filters
// (winrate >= 60%, signals >= 3, max loss streak <= 3). It only operates on
// the 10min horizon.
type PerformanceSelector struct {
	cfg    Config
	stake  float64
	payout float64
}

func NewPerformanceSelector(cfg Config, stake, payout float64) *PerformanceSelector {
	return &PerformanceSelector{cfg: cfg, stake: stake, payout: payout}
}

type channelPerf struct {
	channel    string
	signals    int
	wins       int
	lossStreak int
	maxStreak  int
	pnl        float64
}

func (s *PerformanceSelector) Leaderboard(lookback []models.Signal, _ []string, tick time.Time) models.Leaderboard {
	perf := make(map[string]*channelPerf)
	for i := range lookback {
		sig := &lookback[i]
		res := sig.Result(models.Horizon10)
		if !res.Decided() || !sig.Action.Valid() {
			continue
		}
		ch := sig.Channel()
		p, ok := perf[ch]
		if !ok {
			p = &channelPerf{channel: ch}
			perf[ch] = p
		}
		p.signals++
		if res == models.OutcomeWin {
			p.wins++
			p.lossStreak = 0
			p.pnl += s.stake * s.payout
		} else {
			p.lossStreak++
			if p.lossStreak > p.maxStreak {
				p.maxStreak = p.lossStreak
			}
			p.pnl -= s.stake
		}
	}

	candidates := make([]*channelPerf, 0, len(perf))
	for _, p := range perf {
		winrate := float64(p.wins) / float64(p.signals)
		if winrate < 0.60 || p.signals < 3 || p.maxStreak > 3 {
			continue
		}
		candidates = append(candidates, p)
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].pnl != candidates[j].pnl {
			return candidates[i].pnl > candidates[j].pnl
		}
		return candidates[i].channel < candidates[j].channel
	})

	board := models.Leaderboard{Tick: tick}
	for i, p := range candidates {
		if i >= s.cfg.TopK {
			break
		}
		board.Rows = append(board.Rows, models.LeaderboardRow{
			Rank:     i + 1,
			Channel:  p.channel,
			PnlNow:   p.pnl,
			Selected: i < s.cfg.MaxSelect,
		})
	}
	return board
}
