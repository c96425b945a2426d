package service

import (
	"context"

	"github.com/jackc/pgx/v5"

	"pairs_engine/internal/models"
	"pairs_engine/pkg/logger"
)

// executePair submits both legs and persists both records in one transaction.
// On an open, leg 1 failing or coming back with the rejected sentinel stops
// the pair before leg 2 is submitted. A close still submits leg 2 after a
// rejected leg 1: refusing to unwind the other side would leave the book
// one-sided on purpose. Leg 2 failing after leg 1 filled leaves the book
// one-sided: that is alerted loudly and NOT auto-reversed.
func (e *Engine) executePair(ctx context.Context, pair models.Pair, label models.SpreadLabel, legs [2]models.OrderIntent) error {
	closing := label == models.SpreadClosed

	res1, err := e.exch.NewOrder(ctx, legs[0].Symbol, legs[0].Side, legs[0].Quantity, legs[0].PositionSide)
	if err == nil && res1.Rejected() {
		err = models.Executionf("rejected with order id 0")
	}
	if err != nil {
		if !closing {
			return models.Executionf("%s leg 1 (%s %s): %v, leg 2 not submitted",
				pair.Name(), legs[0].Side, legs[0].Symbol, err)
		}
		// Unwind the other side anyway, then surface the partial close.
		logger.Error("%s close leg 1 (%s %s) failed, still submitting leg 2: %v",
			pair.Name(), legs[0].Side, legs[0].Symbol, err)
		res2, err2 := e.exch.NewOrder(ctx, legs[1].Symbol, legs[1].Side, legs[1].Quantity, legs[1].PositionSide)
		if err2 == nil && res2.Rejected() {
			err2 = models.Executionf("rejected with order id 0")
		}
		if err2 != nil {
			logger.Error("%s close leg 2 (%s %s) also failed: %v", pair.Name(), legs[1].Side, legs[1].Symbol, err2)
		}
		e.notifier.Sendf("PARTIAL CLOSE: %s leg 1 %s failed (%v), leg 2 %s %s, manual check required",
			pair.Name(), legs[0].Symbol, err, legs[1].Symbol, closeLegOutcome(err2))
		return models.Executionf("%s close leg 1 (%s %s): %v", pair.Name(), legs[0].Side, legs[0].Symbol, err)
	}
	logger.Info("%s leg 1 placed: order %d %s %s qty=%s status=%s",
		pair.Name(), res1.OrderID, legs[0].Side, legs[0].Symbol, legs[0].Quantity, res1.Status)

	res2, err := e.exch.NewOrder(ctx, legs[1].Symbol, legs[1].Side, legs[1].Quantity, legs[1].PositionSide)
	if err == nil && res2.Rejected() {
		err = models.Executionf("order id 0")
	}
	if err != nil {
		// Unhedged single leg. Known gap: no compensating order is placed.
		logger.Error("%s leg 2 (%s %s) failed after leg 1 filled: %v",
			pair.Name(), legs[1].Side, legs[1].Symbol, err)
		e.notifier.Sendf("UNHEDGED LEG: %s %s order %d (%s qty %s) filled, leg 2 %s failed: %v, manual flatten required",
			pair.Name(), label, res1.OrderID, legs[0].Symbol, legs[0].Quantity, legs[1].Symbol, err)
		return models.Executionf("%s leg 2 (%s %s): %v", pair.Name(), legs[1].Side, legs[1].Symbol, err)
	}
	logger.Info("%s leg 2 placed: order %d %s %s qty=%s status=%s",
		pair.Name(), res2.OrderID, legs[1].Side, legs[1].Symbol, legs[1].Quantity, res2.Status)

	return e.persistPair(ctx, pair, label, res1, res2)
}

func closeLegOutcome(err error) string {
	if err != nil {
		return "also failed"
	}
	return "filled"
}

// persistPair writes both legs in one transaction so the ledger never holds a
// half-recorded pair. A duplicate order_id is a skip, not a failure.
func (e *Engine) persistPair(ctx context.Context, pair models.Pair, label models.SpreadLabel, res1, res2 *models.OrderResult) error {
	rec1, err := models.NewOrderRecord(res1, pair.Name(), 1, label)
	if err != nil {
		return err
	}
	rec2, err := models.NewOrderRecord(res2, pair.Name(), 2, label)
	if err != nil {
		return err
	}

	err = e.tm.RunMaster(ctx, func(ctxTx context.Context, tx pgx.Tx) error {
		for _, rec := range []*models.OrderRecord{rec1, rec2} {
			inserted, err := e.orders.Insert(ctxTx, tx, rec)
			if err != nil {
				return err
			}
			if !inserted {
				logger.Info("order %d already recorded, skipping", rec.OrderID)
			}
		}
		return nil
	})
	if err != nil {
		// Live position with no durable record, the loudest failure mode
		// this engine has.
		e.notifier.Sendf("UNRECORDED FILL: %s %s orders %d/%d filled but ledger write failed: %v",
			pair.Name(), label, res1.OrderID, res2.OrderID, err)
		return models.Persistencef("%s: %v", pair.Name(), err)
	}

	logger.Info("%s %s recorded: orders %d/%d", pair.Name(), label, res1.OrderID, res2.OrderID)
	return nil
}
