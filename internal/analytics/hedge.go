package analytics

import (
	"math"

	"pairs_engine/internal/models"
)

// EstimateHedgeRatio fits close1 ≈ β·close2 by least squares through the
// origin. A zero-variance regressor makes the fit singular.
func EstimateHedgeRatio(close1, close2 []float64) (float64, error) {
	if len(close1) != len(close2) {
		return 0, models.Estimationf("series length mismatch: %d vs %d", len(close1), len(close2))
	}
	if len(close1) < 2 {
		return 0, models.Estimationf("need at least 2 bars, got %d", len(close1))
	}

	var sxy, sxx float64
	for i := range close2 {
		sxy += close2[i] * close1[i]
		sxx += close2[i] * close2[i]
	}
	if sxx == 0 || math.IsNaN(sxx) || math.IsInf(sxx, 0) {
		return 0, models.Estimationf("singular regression, sum(x^2)=%v", sxx)
	}

	beta := sxy / sxx
	if math.IsNaN(beta) || math.IsInf(beta, 0) {
		return 0, models.Estimationf("beta not finite: %v", beta)
	}
	return beta, nil
}
