package analytics

import (
	"math"

	"pairs_engine/internal/models"
)

// ScanStates walks the bars in timestamp order carrying one position state,
// deciding the state at bar t from bar t−1's z-score and thresholds. The
// resulting state is forward-carried until the next transition. Returns the
// per-bar states and the transition list.
//
// Guard order matches evaluation priority: long entry, long exit, short
// entry, short exit. No transition can fire while thresholds are undefined.
func ScanStates(zscore, entry, exit []float64) ([]models.PositionState, []models.Transition) {
	n := len(zscore)
	states := make([]models.PositionState, n)
	var transitions []models.Transition

	state := models.Flat
	for t := 1; t < n; t++ {
		z, en, ex := zscore[t-1], entry[t-1], exit[t-1]
		next := state

		switch {
		case math.IsNaN(z) || math.IsNaN(en) || math.IsNaN(ex):
			// insufficient history at t−1
		case state == models.Flat && z <= -en:
			next = models.LongSpread
		case state == models.LongSpread && z >= ex:
			next = models.Flat
		case state == models.Flat && z >= en:
			next = models.ShortSpread
		case state == models.ShortSpread && z <= -ex:
			next = models.Flat
		}

		if next != state {
			transitions = append(transitions, models.Transition{Index: t, From: state, To: next})
			state = next
		}
		states[t] = state
	}
	return states, transitions
}
