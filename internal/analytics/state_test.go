package analytics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pairs_engine/internal/models"
)

func flatSeries(n int, z, entry, exit float64) ([]float64, []float64, []float64) {
	zs := make([]float64, n)
	en := make([]float64, n)
	ex := make([]float64, n)
	for i := range zs {
		zs[i], en[i], ex[i] = z, entry, exit
	}
	return zs, en, ex
}

func TestScanStates_LongEntryAndCarry(t *testing.T) {
	// z-score crosses -entry at bar k; state flips to long at k+1 and is
	// carried forward until the exit condition fires.
	const k = 5
	zs, en, ex := flatSeries(12, 0, 1.0, 0.5)
	zs[k] = -1.5

	states, transitions := ScanStates(zs, en, ex)

	require.Len(t, transitions, 1)
	assert.Equal(t, models.Transition{Index: k + 1, From: models.Flat, To: models.LongSpread}, transitions[0])

	assert.Equal(t, models.Flat, states[k])
	assert.Equal(t, models.LongSpread, states[k+1])

	// z returns to 0 which never reaches exit 0.5, so long is carried to the end
	assert.Equal(t, models.LongSpread, states[k+2])
	assert.Equal(t, models.LongSpread, states[len(states)-1])
}

func TestScanStates_LongExit(t *testing.T) {
	zs := []float64{0, -2, 0, 0.6, 0, 0}
	en := []float64{1, 1, 1, 1, 1, 1}
	ex := []float64{0.5, 0.5, 0.5, 0.5, 0.5, 0.5}

	states, transitions := ScanStates(zs, en, ex)

	// bar 2 enters long off bar 1, bar 4 exits off bar 3 (0.6 >= 0.5)
	require.Len(t, transitions, 2)
	assert.Equal(t, models.LongSpread, states[2])
	assert.Equal(t, models.LongSpread, states[3])
	assert.Equal(t, models.Flat, states[4])
	assert.Equal(t, models.Flat, states[5])
}

func TestScanStates_ShortRoundTrip(t *testing.T) {
	zs := []float64{0, 2, 0, -0.6, 0}
	en := []float64{1, 1, 1, 1, 1}
	ex := []float64{0.5, 0.5, 0.5, 0.5, 0.5}

	states, _ := ScanStates(zs, en, ex)

	assert.Equal(t, models.ShortSpread, states[2])
	assert.Equal(t, models.Flat, states[4])
}

func TestScanStates_NoTransitionInsideWarmup(t *testing.T) {
	zs := []float64{-5, -5, -5, -5}
	nan := math.NaN()
	en := []float64{nan, nan, 1, 1}
	ex := []float64{nan, nan, 0.5, 0.5}

	states, transitions := ScanStates(zs, en, ex)

	// thresholds undefined at bars 0-1 -> no fire off those bars
	assert.Equal(t, models.Flat, states[1])
	assert.Equal(t, models.Flat, states[2])
	// bar 3 decides off bar 2, which has defined thresholds
	assert.Equal(t, models.LongSpread, states[3])
	require.Len(t, transitions, 1)
}

func TestScanStates_RescanReproducesAppliedTransitions(t *testing.T) {
	// Forward-carried states are a fixed point of the scan: rescanning a
	// series whose transitions were already applied yields the very same
	// transition list, and replaying that list rebuilds the same states.
	zs := []float64{0, -2, -2, 0, 0.9, 0, 2, 2, 0, -0.9, 0}
	en := make([]float64, len(zs))
	ex := make([]float64, len(zs))
	for i := range en {
		en[i], ex[i] = 1.0, 0.5
	}

	states1, tr1 := ScanStates(zs, en, ex)
	require.NotEmpty(t, tr1)

	states2, tr2 := ScanStates(zs, en, ex)
	assert.Equal(t, tr1, tr2)
	assert.Equal(t, states1, states2)

	// replay the transition list over a flat tape
	replayed := make([]models.PositionState, len(zs))
	state := models.Flat
	next := 0
	for i := 1; i < len(replayed); i++ {
		if next < len(tr1) && tr1[next].Index == i {
			require.Equal(t, state, tr1[next].From)
			state = tr1[next].To
			next++
		}
		replayed[i] = state
	}
	require.Equal(t, len(tr1), next)
	assert.Equal(t, states1, replayed)
}
