// Package curve builds per-channel hourly cumulative PnL curves in score
// space (unit win/loss of +50/-50), with forward-fill across idle hours.
package curve

import (
	"sort"
	"time"

	"SignalBench/internal/domain/models"
	"SignalBench/pkg/util"
)

// ScoreUnit is the unit-scaled win/loss used for scoring. It never leaks
// into monetary reports.
const ScoreUnit = 50.0

// Curves holds dense per-channel hour -> cumulative PnL mappings over the
// union of observed hours.
type Curves struct {
	values map[string]map[time.Time]float64
	hours  []time.Time // sorted union of observed hours
}

// Build derives channels and hour buckets from signals, cumulatively sums
// the unit-scaled outcomes per channel, and forward-fills across the union
// of observed hours. The input must be ordered ascending by
// (entry_time, id); the last signal of an hour is that hour's endpoint.
func Build(signals []models.Signal, h models.Horizon) *Curves {
	endpoints := make(map[string]map[time.Time]float64)
	running := make(map[string]float64)
	hourSet := make(map[time.Time]struct{})

	for i := range signals {
		sig := &signals[i]
		res := sig.Result(h)
		if !res.Decided() || !sig.Action.Valid() {
			continue
		}
		ch := sig.Channel()
		if res == models.OutcomeWin {
			running[ch] += ScoreUnit
		} else {
			running[ch] -= ScoreUnit
		}
		bucket := util.HourFloor(sig.EntryTime)
		hourSet[bucket] = struct{}{}
		if endpoints[ch] == nil {
			endpoints[ch] = make(map[time.Time]float64)
		}
		endpoints[ch][bucket] = running[ch] // last signal of the hour wins
	}

	hours := make([]time.Time, 0, len(hourSet))
	for hb := range hourSet {
		hours = append(hours, hb)
	}
	sort.Slice(hours, func(i, j int) bool { return hours[i].Before(hours[j]) })

	values := make(map[string]map[time.Time]float64, len(endpoints))
	for ch, pts := range endpoints {
		dense := make(map[time.Time]float64, len(hours))
		last := 0.0
		for _, hb := range hours {
			if v, ok := pts[hb]; ok {
				last = v
			}
			dense[hb] = last
		}
		values[ch] = dense
	}

	return &Curves{values: values, hours: hours}
}

// ValueAt returns the forward-filled cumulative PnL of the channel at the
// given hour bucket: the value at the greatest observed hour <= bucket, or
// 0 if the channel has no observation at or before it.
func (c *Curves) ValueAt(channel string, bucket time.Time) float64 {
	pts, ok := c.values[channel]
	if !ok {
		return 0
	}
	if v, ok := pts[bucket]; ok {
		return v
	}
	// Bucket outside the observed union: fall back to the last hour <= it.
	i := sort.Search(len(c.hours), func(i int) bool { return c.hours[i].After(bucket) })
	if i == 0 {
		return 0
	}
	return pts[c.hours[i-1]]
}

// LastSix returns the six hourly values [P1..P6] ending at the last closed
// hour before tick. P1 is the most recent; missing values are zero.
func (c *Curves) LastSix(channel string, tick time.Time) [6]float64 {
	var out [6]float64
	base := util.LastClosedHour(tick)
	for i := 0; i < 6; i++ {
		out[i] = c.ValueAt(channel, base.Add(-time.Duration(i)*time.Hour))
	}
	return out
}

// Channels returns the channel keys present in the curves, sorted.
func (c *Curves) Channels() []string {
	out := make([]string, 0, len(c.values))
	for ch := range c.values {
		out = append(out, ch)
	}
	sort.Strings(out)
	return out
}

// Hours returns the sorted union of observed hour buckets.
func (c *Curves) Hours() []time.Time {
	return c.hours
}
