package models

import "time"

// PositionState of the spread at one bar.
type PositionState int

const (
	Flat        PositionState = 0
	LongSpread  PositionState = 1
	ShortSpread PositionState = -1
)

func (s PositionState) String() string {
	switch s {
	case LongSpread:
		return "long_spread"
	case ShortSpread:
		return "short_spread"
	default:
		return "flat"
	}
}

// PricePoint is one aligned close pair, ascending by Time.
type PricePoint struct {
	Time   time.Time
	Close1 float64
	Close2 float64
}

// SeriesBar is the full per-bar record for one run. Rolling statistics and
// thresholds are NaN inside the warmup window.
type SeriesBar struct {
	Time           time.Time
	Close1         float64
	Close2         float64
	HedgeRatio     float64
	Spread         float64
	ZScore         float64
	RollingMean    float64
	RollingStd     float64
	EntryThreshold float64
	ExitThreshold  float64
	State          PositionState
}

// PairSeries is recomputed in full each run and never persisted.
type PairSeries struct {
	Bars        []SeriesBar
	Transitions []Transition
}

// Transition records a state change at bar Index (state at Index-1 was From).
type Transition struct {
	Index int
	From  PositionState
	To    PositionState
}

// Last two states decide the current run's action.
func (s *PairSeries) LastTwoStates() (prev, last PositionState, ok bool) {
	n := len(s.Bars)
	if n < 2 {
		return Flat, Flat, false
	}
	return s.Bars[n-2].State, s.Bars[n-1].State, true
}
