package analytics

import (
	"math"

	"pairs_engine/internal/models"
)

// Spread computes spread[t] = close1[t] − β·close2[t] over the full window.
func Spread(close1, close2 []float64, beta float64) []float64 {
	spread := make([]float64, len(close1))
	for i := range close1 {
		spread[i] = close1[i] - beta*close2[i]
	}
	return spread
}

// ZScores standardizes the spread against its full-window mean and sample
// standard deviation. This is a different statistic from the rolling
// thresholds and both are carried per bar.
func ZScores(spread []float64) ([]float64, error) {
	mean, std := meanStd(spread)
	if std == 0 || math.IsNaN(std) {
		return nil, models.Estimationf("flat spread, std=%v", std)
	}

	z := make([]float64, len(spread))
	for i, s := range spread {
		z[i] = (s - mean) / std
	}
	return z, nil
}

// meanStd returns the mean and sample (n−1) standard deviation.
func meanStd(xs []float64) (mean, std float64) {
	n := len(xs)
	if n == 0 {
		return math.NaN(), math.NaN()
	}
	for _, x := range xs {
		mean += x
	}
	mean /= float64(n)

	if n < 2 {
		return mean, math.NaN()
	}
	var ss float64
	for _, x := range xs {
		d := x - mean
		ss += d * d
	}
	return mean, math.Sqrt(ss / float64(n-1))
}
