package repository

import (
	"context"
	"fmt"
	"sort"
	"time"

	"SignalBench/internal/domain/models"
)

// MemorySignalStore serves queries from an in-memory slice. It backs the
// CSV ingest path and the test fixtures, and the engine replays against it
// after a single upfront fetch.
type MemorySignalStore struct {
	signals []models.Signal // ascending (entry_time, id)
}

// NewMemorySignalStore sorts the slice by (entry_time, id) and verifies the
// ingest invariants: decided outcomes are WIN/LOSE/NULL only and ids are
// unique. Violations are fatal, not silently filtered.
func NewMemorySignalStore(signals []models.Signal) (*MemorySignalStore, error) {
	s := make([]models.Signal, len(signals))
	copy(s, signals)
	sort.Slice(s, func(i, j int) bool {
		if !s[i].EntryTime.Equal(s[j].EntryTime) {
			return s[i].EntryTime.Before(s[j].EntryTime)
		}
		return s[i].ID < s[j].ID
	})

	seen := make(map[uint64]struct{}, len(s))
	for i := range s {
		sig := &s[i]
		if _, dup := seen[sig.ID]; dup {
			return nil, fmt.Errorf("duplicate signal id %d", sig.ID)
		}
		seen[sig.ID] = struct{}{}
		for _, o := range []models.Outcome{sig.Result10, sig.Result30, sig.Result60} {
			if o != models.OutcomeWin && o != models.OutcomeLose && o != models.OutcomeNone {
				return nil, fmt.Errorf("signal %d: invalid outcome %q", sig.ID, o)
			}
		}
	}

	return &MemorySignalStore{signals: s}, nil
}

func (m *MemorySignalStore) Query(_ context.Context, from, to time.Time, h models.Horizon) ([]models.Signal, error) {
	return FilterSignals(m.slice(from, to), h), nil
}

func (m *MemorySignalStore) Strategies(_ context.Context, from, to time.Time) ([]string, error) {
	set := make(map[string]struct{})
	for _, sig := range m.slice(from, to) {
		set[sig.Strategy] = struct{}{}
	}
	out := make([]string, 0, len(set))
	for s := range set {
		out = append(out, s)
	}
	sort.Strings(out)
	return out, nil
}

func (m *MemorySignalStore) Close() error { return nil }

// All returns the full ordered slice. Callers must not mutate it.
func (m *MemorySignalStore) All() []models.Signal {
	return m.signals
}

// slice returns the ordered sub-slice with entry_time in [from, to).
func (m *MemorySignalStore) slice(from, to time.Time) []models.Signal {
	lo := sort.Search(len(m.signals), func(i int) bool {
		return !m.signals[i].EntryTime.Before(from)
	})
	hi := sort.Search(len(m.signals), func(i int) bool {
		return !m.signals[i].EntryTime.Before(to)
	})
	return m.signals[lo:hi]
}

// FilterSignals keeps signals with a tradable action and a decided outcome
// at the horizon, preserving order. The input must already be ordered by
// (entry_time, id).
func FilterSignals(signals []models.Signal, h models.Horizon) []models.Signal {
	out := make([]models.Signal, 0, len(signals))
	for _, sig := range signals {
		if !sig.Action.Valid() {
			continue
		}
		if !sig.Result(h).Decided() {
			continue
		}
		out = append(out, sig)
	}
	return out
}
