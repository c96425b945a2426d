package analytics

import "pairs_engine/internal/models"

// Params for one evaluation. Zero values fall back to the defaults.
type Params struct {
	Window    int
	EntryMult float64
	ExitMult  float64
}

func (p Params) withDefaults() Params {
	if p.Window <= 0 {
		p.Window = DefaultWindow
	}
	if p.EntryMult <= 0 {
		p.EntryMult = DefaultEntryMult
	}
	if p.ExitMult <= 0 {
		p.ExitMult = DefaultExitMult
	}
	return p
}

// Evaluate builds the full per-bar series for one pair: hedge ratio, spread,
// z-score, rolling thresholds and the forward-carried position state.
func Evaluate(points []models.PricePoint, p Params) (*models.PairSeries, error) {
	p = p.withDefaults()

	close1 := make([]float64, len(points))
	close2 := make([]float64, len(points))
	for i, pt := range points {
		close1[i] = pt.Close1
		close2[i] = pt.Close2
	}

	beta, err := EstimateHedgeRatio(close1, close2)
	if err != nil {
		return nil, err
	}

	spread := Spread(close1, close2, beta)
	zscore, err := ZScores(spread)
	if err != nil {
		return nil, err
	}

	means, stds := RollingStats(spread, p.Window)
	entry, exit := Thresholds(means, stds, p.EntryMult, p.ExitMult)
	states, transitions := ScanStates(zscore, entry, exit)

	bars := make([]models.SeriesBar, len(points))
	for i, pt := range points {
		bars[i] = models.SeriesBar{
			Time:           pt.Time,
			Close1:         pt.Close1,
			Close2:         pt.Close2,
			HedgeRatio:     beta,
			Spread:         spread[i],
			ZScore:         zscore[i],
			RollingMean:    means[i],
			RollingStd:     stds[i],
			EntryThreshold: entry[i],
			ExitThreshold:  exit[i],
			State:          states[i],
		}
	}
	return &models.PairSeries{Bars: bars, Transitions: transitions}, nil
}
