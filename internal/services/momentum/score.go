// Package momentum computes closed-form momentum scores over six-point
// hourly PnL windows and normalizes them cross-sectionally per tick.
package momentum

import (
	"fmt"
	"math"
	"time"

	"SignalBench/internal/domain/models"
	"SignalBench/internal/services/curve"
)

// Formula selects the raw score family.
type Formula string

const (
	Linear       Formula = "linear"
	Exponential  Formula = "exponential"
	RateOfGrowth Formula = "rate_of_growth"
	Acceleration Formula = "acceleration" // default
)

// ParseFormula parses a configured formula name.
func ParseFormula(s string) (Formula, error) {
	switch Formula(s) {
	case Linear, Exponential, RateOfGrowth, Acceleration:
		return Formula(s), nil
	}
	return "", fmt.Errorf("unknown score formula %q", s)
}

// MaxNormalized is the score clamp ceiling.
const MaxNormalized = 30.0

// Raw computes the raw score from the six-point window p, where p[0] is the
// most recent hour. Only positive momentum contributes.
func Raw(f Formula, p [6]float64) float64 {
	var m [5]float64
	for i := 0; i < 5; i++ {
		m[i] = p[i] - p[i+1]
	}

	switch f {
	case Linear:
		return 5*pos(m[0]) + 4*pos(m[1]) + 3*pos(m[2]) + 2*pos(m[3]) + 1*pos(m[4])
	case Exponential:
		return 8*pos(m[0]) + 4*pos(m[1]) + 2*pos(m[2]) + 1*pos(m[3]) + 0.5*pos(m[4])
	case RateOfGrowth:
		var r [5]float64
		for i := 0; i < 5; i++ {
			r[i] = 100 * m[i] / math.Max(math.Abs(p[i+1]), 1)
		}
		return 5*pos(r[0]) + 4*pos(r[1]) + 3*pos(r[2]) + 2*pos(r[3]) + 1*pos(r[4])
	case Acceleration:
		return 5*pos(m[0]) + 3*pos(m[0]-m[1])
	}
	return 0
}

func pos(x float64) float64 {
	if x > 0 {
		return x
	}
	return 0
}

// KPI is the cross-sectional normalization denominator: mean + population
// stdev of the raw scores, pinned to 1 when the stdev is zero.
func KPI(raws []float64) float64 {
	if len(raws) == 0 {
		return 1
	}
	var sum float64
	for _, r := range raws {
		sum += r
	}
	mean := sum / float64(len(raws))

	var ss float64
	for _, r := range raws {
		d := r - mean
		ss += d * d
	}
	stdev := math.Sqrt(ss / float64(len(raws)))
	if stdev == 0 {
		return 1
	}
	return mean + stdev
}

// Normalize maps a raw score onto [0, MaxNormalized] against the KPI.
func Normalize(raw, kpi float64) float64 {
	if kpi <= 0 {
		return 0
	}
	n := MaxNormalized * raw / kpi
	if n < 0 {
		return 0
	}
	if n > MaxNormalized {
		return MaxNormalized
	}
	return n
}

// ScoreAll scores every channel in the cross-section at tick. Channels with
// no signals in the lookback participate as zero-raw rows, which keeps the
// KPI denominator stable in sparse windows.
func ScoreAll(f Formula, c *curve.Curves, channels []string, tick time.Time) []models.ScoreRecord {
	records := make([]models.ScoreRecord, 0, len(channels))
	raws := make([]float64, 0, len(channels))
	for _, ch := range channels {
		p := c.LastSix(ch, tick)
		raw := Raw(f, p)
		records = append(records, models.ScoreRecord{
			Channel:  ch,
			PnlNow:   p[0],
			RawScore: raw,
		})
		raws = append(raws, raw)
	}

	kpi := KPI(raws)
	for i := range records {
		records[i].Normalized = Normalize(records[i].RawScore, kpi)
	}
	return records
}
