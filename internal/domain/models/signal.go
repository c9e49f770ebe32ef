package models

import (
	"fmt"
	"time"
)

// Action is the traded direction of a signal. Anything other than Buy or
// Sell is carried through ingest but never participates in the engine.
type Action string

const (
	ActionBuy  Action = "Buy"
	ActionSell Action = "Sell"
)

// Valid reports whether the action participates in the core engine.
func (a Action) Valid() bool {
	return a == ActionBuy || a == ActionSell
}

// Outcome is the resolved result of a signal at one horizon.
type Outcome string

const (
	OutcomeWin  Outcome = "WIN"
	OutcomeLose Outcome = "LOSE"
	OutcomeNone Outcome = "NULL"
)

// Decided reports whether the outcome is WIN or LOSE.
func (o Outcome) Decided() bool {
	return o == OutcomeWin || o == OutcomeLose
}

// Horizon selects which outcome column resolves a signal.
type Horizon string

const (
	Horizon10 Horizon = "10min"
	Horizon30 Horizon = "30min"
	Horizon60 Horizon = "60min"
)

// Minutes returns the horizon length in minutes.
func (h Horizon) Minutes() int {
	switch h {
	case Horizon10:
		return 10
	case Horizon30:
		return 30
	case Horizon60:
		return 60
	}
	return 0
}

// ParseHorizon parses "10min" | "30min" | "60min".
func ParseHorizon(s string) (Horizon, error) {
	switch Horizon(s) {
	case Horizon10, Horizon30, Horizon60:
		return Horizon(s), nil
	}
	return "", fmt.Errorf("unknown horizon %q", s)
}

// Signal is one emitted trading suggestion. Immutable after ingest.
type Signal struct {
	ID         uint64
	EntryTime  time.Time
	Strategy   string
	Action     Action
	EntryPrice float64
	Result10   Outcome
	Result30   Outcome
	Result60   Outcome
}

// Result returns the outcome at the given horizon.
func (s *Signal) Result(h Horizon) Outcome {
	switch h {
	case Horizon10:
		return s.Result10
	case Horizon30:
		return s.Result30
	case Horizon60:
		return s.Result60
	}
	return OutcomeNone
}

// Channel renders the composite (strategy, action) trading key.
func (s *Signal) Channel() string {
	return ChannelKey(s.Strategy, s.Action)
}

// ChannelKey builds the canonical "<strategy> | <action>" key.
func ChannelKey(strategy string, action Action) string {
	return strategy + " | " + string(action)
}
