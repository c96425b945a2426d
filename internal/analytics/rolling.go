package analytics

import "math"

// Default rolling window and threshold multipliers.
const (
	DefaultWindow    = 20
	DefaultEntryMult = 0.5
	DefaultExitMult  = 0.25
)

// RollingStats computes the trailing mean and sample std of the spread with a
// one-bar lag: the window for bar t is spread[t−window .. t−1], so the bar's
// own still-forming value never enters its decision statistics. Bars without
// enough history get NaN.
func RollingStats(spread []float64, window int) (means, stds []float64) {
	n := len(spread)
	means = make([]float64, n)
	stds = make([]float64, n)
	for t := 0; t < n; t++ {
		if t < window {
			means[t] = math.NaN()
			stds[t] = math.NaN()
			continue
		}
		means[t], stds[t] = meanStd(spread[t-window : t])
	}
	return means, stds
}

// Thresholds derives per-bar entry and exit levels. The exit level is based on
// the rolling mean, not the rolling std; the asymmetry is intentional and
// changing it shifts exit timing.
func Thresholds(means, stds []float64, entryMult, exitMult float64) (entry, exit []float64) {
	entry = make([]float64, len(stds))
	exit = make([]float64, len(means))
	for i := range stds {
		entry[i] = entryMult * stds[i]
		exit[i] = exitMult * means[i]
	}
	return entry, exit
}
