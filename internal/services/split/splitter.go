// Package split produces disjoint train/test windows with an embargo gap
// and freezes a bucket whitelist from train data only.
package split

import (
	"fmt"
	"time"

	"SignalBench/internal/domain/models"
	"SignalBench/internal/services/bucket"
	applogger "SignalBench/pkg/logger"
)

// Windows are the resolved train/test ranges. Test never begins before
// train_end plus the embargo.
type Windows struct {
	TrainStart time.Time
	TrainEnd   time.Time
	TestStart  time.Time
	TestEnd    time.Time
	Embargo    time.Duration
}

// Resolve validates the split. A zero testStart defaults to
// trainEnd + embargo.
func Resolve(trainStart, trainEnd, testStart, testEnd time.Time, embargoDays int) (Windows, error) {
	if !trainStart.Before(trainEnd) {
		return Windows{}, fmt.Errorf("empty train window [%s, %s)", trainStart, trainEnd)
	}
	embargo := time.Duration(embargoDays) * 24 * time.Hour
	earliest := trainEnd.Add(embargo)
	if testStart.IsZero() {
		testStart = earliest
	}
	if testStart.Before(earliest) {
		return Windows{}, fmt.Errorf("test_start %s violates embargo; must be >= %s", testStart, earliest)
	}
	if !testStart.Before(testEnd) {
		return Windows{}, fmt.Errorf("empty test window [%s, %s)", testStart, testEnd)
	}
	return Windows{
		TrainStart: trainStart,
		TrainEnd:   trainEnd,
		TestStart:  testStart,
		TestEnd:    testEnd,
		Embargo:    embargo,
	}, nil
}

// gridStep is one rung of the adaptive threshold descent.
type gridStep struct {
	mode         string
	minQuality   float64
	minStability float64
	minTrades    int
}

// adaptiveGrid descends from strict to permissive; the first rung with at
// least one surviving bucket is adopted.
var adaptiveGrid = []gridStep{
	{mode: "strict", minQuality: 8.5, minStability: 8, minTrades: 15},
	{mode: "balanced", minQuality: 7.5, minStability: 6, minTrades: 10},
	{mode: "lenient", minQuality: 6.5, minStability: 5, minTrades: 8},
	{mode: "permissive", minQuality: 5.5, minStability: 4, minTrades: 5},
}

// Whitelist is a frozen bucket selection plus the mode that produced it.
type Whitelist struct {
	Mode     string             `json:"mode"`
	Fallback bool               `json:"fallback"`
	Buckets  []models.BucketRow `json:"buckets"`
}

// Keys returns the admission-filter keys of the whitelist.
func (w *Whitelist) Keys() []models.BucketKey {
	out := make([]models.BucketKey, 0, len(w.Buckets))
	for i := range w.Buckets {
		out = append(out, w.Buckets[i].Key())
	}
	return out
}

// FreezeWhitelist freezes the bucket whitelist from train-only bucket rows.
// Thresholds descend the adaptive grid; if no rung survives, the permissive
// fallback rule applies. Test data is never consulted.
func FreezeWhitelist(rows []models.BucketRow, params bucket.Params, base bucket.Filters, l *applogger.Logger) Whitelist {
	if l == nil {
		l = applogger.Nop()
	}

	for _, step := range adaptiveGrid {
		f := base
		f.MinSignalQuality = step.minQuality
		f.MinStability = step.minStability
		f.MinTrades = step.minTrades
		selected := bucket.Select(rows, f, params.Payout)
		if len(selected) > 0 {
			l.Info("whitelist frozen",
				applogger.String("mode", step.mode),
				applogger.Int("buckets", len(selected)),
			)
			return Whitelist{Mode: step.mode, Buckets: selected}
		}
	}

	fb := bucket.Fallback(rows)
	l.Warn("no bucket passed adaptive grid; using fallback rule",
		applogger.Int("buckets", len(fb)),
	)
	return Whitelist{Mode: "fallback", Fallback: true, Buckets: fb}
}
