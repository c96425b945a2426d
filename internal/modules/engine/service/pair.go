package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"pairs_engine/internal/analytics"
	"pairs_engine/internal/models"
	"pairs_engine/internal/sizing"
	"pairs_engine/pkg/logger"
)

// processPair takes one pair through the full decision chain. Returns whether
// orders were placed.
func (e *Engine) processPair(
	ctx context.Context,
	pair models.Pair,
	positionSize decimal.Decimal,
	start, end time.Time,
) (bool, error) {
	points, err := e.prices.AlignedCloses(ctx, e.tm.Conn(), pair.Symbol1, pair.Symbol2, start, end)
	if err != nil {
		return false, err
	}

	series, err := analytics.Evaluate(points, analytics.Params{
		Window:    e.cfg.RollingWindow,
		EntryMult: e.cfg.EntryMult,
		ExitMult:  e.cfg.ExitMult,
	})
	if err != nil {
		return false, err
	}

	prev, last, ok := series.LastTwoStates()
	if !ok {
		return false, models.DataUnavailablef("%s: fewer than 2 bars", pair.Name())
	}
	logger.Info("%s beta=%.6f state %s -> %s",
		pair.Name(), series.Bars[0].HedgeRatio, prev, last)

	px1, err := e.exch.TickerPrice(ctx, pair.Symbol1)
	if err != nil {
		return false, err
	}
	px2, err := e.exch.TickerPrice(ctx, pair.Symbol2)
	if err != nil {
		return false, err
	}

	c1, err := e.assets.Constraint(ctx, e.tm.Conn(), pair.Symbol1)
	if err != nil {
		return false, err
	}
	c2, err := e.assets.Constraint(ctx, e.tm.Conn(), pair.Symbol2)
	if err != nil {
		return false, err
	}

	// Size both legs up front; a constraint violation disqualifies the pair
	// for this run before any order is considered.
	sized, err := sizing.SizeLegs(positionSize, [2]sizing.Leg{
		{Symbol: pair.Symbol1, Price: px1, Constraint: c1},
		{Symbol: pair.Symbol2, Price: px2, Constraint: c2},
	})
	if err != nil {
		return false, err
	}
	logger.Info("%s sized: %s qty=%s notional=%s | %s qty=%s notional=%s",
		pair.Name(),
		sized[0].Symbol, sized[0].Quantity, sized[0].Notional,
		sized[1].Symbol, sized[1].Quantity, sized[1].Notional)

	held, err := e.reconciler.Position(ctx, pair)
	if err != nil {
		return false, models.Persistencef("reconcile %s: %v", pair.Name(), err)
	}

	// Close first: a transition out of the spread, sized from the ledger,
	// never from the in-memory series.
	if held.Open && last == models.Flat {
		switch {
		case prev == models.LongSpread:
			logger.Info("%s: close long spread, qty %s / %s", pair.Name(), held.Qty1, held.Qty2)
			legs := [2]models.OrderIntent{
				{Symbol: pair.Symbol1, Side: models.SideSell, Quantity: held.Qty1, PositionSide: models.PositionLong},
				{Symbol: pair.Symbol2, Side: models.SideBuy, Quantity: held.Qty2, PositionSide: models.PositionShort},
			}
			return true, e.executePair(ctx, pair, models.SpreadClosed, legs)

		case prev == models.ShortSpread:
			logger.Info("%s: close short spread, qty %s / %s", pair.Name(), held.Qty1, held.Qty2)
			legs := [2]models.OrderIntent{
				{Symbol: pair.Symbol1, Side: models.SideBuy, Quantity: held.Qty1, PositionSide: models.PositionShort},
				{Symbol: pair.Symbol2, Side: models.SideSell, Quantity: held.Qty2, PositionSide: models.PositionLong},
			}
			return true, e.executePair(ctx, pair, models.SpreadClosed, legs)
		}
	}

	// Open on a transition into the spread at the last bar.
	switch {
	case last == models.LongSpread && prev == models.Flat:
		logger.Info("%s: open long spread", pair.Name())
		legs := [2]models.OrderIntent{
			{Symbol: pair.Symbol1, Side: models.SideBuy, Quantity: sized[0].Quantity, PositionSide: models.PositionLong},
			{Symbol: pair.Symbol2, Side: models.SideSell, Quantity: sized[1].Quantity, PositionSide: models.PositionShort},
		}
		return true, e.executePair(ctx, pair, models.SpreadLong, legs)

	case last == models.ShortSpread && prev == models.Flat:
		logger.Info("%s: open short spread", pair.Name())
		legs := [2]models.OrderIntent{
			{Symbol: pair.Symbol1, Side: models.SideSell, Quantity: sized[0].Quantity, PositionSide: models.PositionShort},
			{Symbol: pair.Symbol2, Side: models.SideBuy, Quantity: sized[1].Quantity, PositionSide: models.PositionLong},
		}
		return true, e.executePair(ctx, pair, models.SpreadShort, legs)
	}

	return false, nil
}
