package models

import "time"

// ScoreRecord is one channel's scoring snapshot at a refresh tick.
type ScoreRecord struct {
	Channel    string  `json:"channel"`
	PnlNow     float64 `json:"pnl_now"`
	RawScore   float64 `json:"raw_score"`
	Normalized float64 `json:"normalized_score"`
	TradeCount int     `json:"trade_count,omitempty"`
	WinCount   int     `json:"win_count,omitempty"`
}

// LeaderboardRow is one ranked channel at a tick.
type LeaderboardRow struct {
	Rank       int     `json:"rank"`
	Channel    string  `json:"channel"`
	Normalized float64 `json:"normalized_score"`
	PnlNow     float64 `json:"pnl_now"`
	Selected   bool    `json:"selected"`
}

// Leaderboard is the full ranking computed at one refresh tick.
type Leaderboard struct {
	Tick time.Time        `json:"tick"`
	Rows []LeaderboardRow `json:"rows"`
}

// ActiveSet returns the channels marked selected, in rank order.
func (l *Leaderboard) ActiveSet() []string {
	var out []string
	for _, r := range l.Rows {
		if r.Selected {
			out = append(out, r.Channel)
		}
	}
	return out
}

// TradeRecord is one simulated flat-stake trade.
type TradeRecord struct {
	Time          time.Time `json:"time"`
	SignalID      uint64    `json:"signal_id"`
	Channel       string    `json:"channel"`
	Result        Outcome   `json:"result"`
	PnlChange     float64   `json:"pnl_change"`
	CumulativePnl float64   `json:"cumulative_pnl"`
	Cash          float64   `json:"cash"`
}

// BucketRow is one (timeframe, dow, hour, channel) aggregate from the
// bucket scanner.
type BucketRow struct {
	Timeframe     int     `json:"timeframe"`
	DayOfWeek     int     `json:"day_of_week"`
	Hour          int     `json:"hour"`
	Channel       string  `json:"channel"`
	Strategy      string  `json:"strategy"`
	Action        Action  `json:"action"`
	Trades        int     `json:"trades"`
	Wins          int     `json:"wins"`
	Winrate       float64 `json:"winrate"`
	Stability     float64 `json:"stability"`
	SignalQuality float64 `json:"signal_quality"`
	PHat          float64 `json:"p_hat"`
	WilsonLB      float64 `json:"wilson_lower_bound"`
	EVPerTrade    float64 `json:"ev_per_trade"`
	PnlFlat       float64 `json:"pnl_flat"`
}

// Key identifies the bucket for whitelist admission checks.
func (b *BucketRow) Key() BucketKey {
	return BucketKey{Timeframe: b.Timeframe, DayOfWeek: b.DayOfWeek, Hour: b.Hour, Channel: b.Channel}
}

// BucketKey is the admission-filter key frozen by the train/test splitter.
type BucketKey struct {
	Timeframe int    `json:"timeframe"`
	DayOfWeek int    `json:"day_of_week"`
	Hour      int    `json:"hour"`
	Channel   string `json:"channel"`
}

// RunAggregates are the summary metrics of one simulation run.
type RunAggregates struct {
	TotalPnl        float64            `json:"total_pnl"`
	FinalCash       float64            `json:"final_cash"`
	TradeCount      int                `json:"trade_count"`
	WinCount        int                `json:"win_count"`
	LossCount       int                `json:"loss_count"`
	PnlByDay        map[string]float64 `json:"pnl_by_day"`
	StrategyChanges int                `json:"strategy_changes"`
	GameOver        bool               `json:"game_over"`
	GameOverAt      *time.Time         `json:"game_over_at,omitempty"`
}

// RunReport is the complete machine-readable output of one run.
// All values are pure; persistence is the caller's concern.
type RunReport struct {
	Trades       []TradeRecord `json:"trades"`
	Leaderboards []Leaderboard `json:"leaderboards"`
	Aggregates   RunAggregates `json:"aggregates"`
	DroppedRows  int           `json:"dropped_rows"`
	ZeroSignals  bool          `json:"zero_signals"`
}
