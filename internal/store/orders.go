package store

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"pairs_engine/internal/models"
	"pairs_engine/pkg/db"
)

// Orders is the ledger of executed legs. Rows are write-once, keyed by
// order_id; they are the only durable memory of position state across runs.
type Orders struct{}

func NewOrders() *Orders { return &Orders{} }

const insertOrderSQL = `
	INSERT INTO orders (
		order_id, symbol, pair, pair_order, status, spread,
		client_order_id, price, avg_price, orig_qty, executed_qty,
		cum_qty, cum_quote, time_in_force, type, reduce_only,
		close_position, side, position_side, stop_price, working_type,
		price_protect, orig_type, price_match, self_trade_prevention_mode,
		good_till_date, update_time
	) VALUES (
		$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
		$15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27
	)
	ON CONFLICT (order_id) DO NOTHING`

// Insert appends one leg. A duplicate order_id is not an error: the row is
// already recorded and inserted comes back false.
func (o *Orders) Insert(ctx context.Context, tx pgx.Tx, rec *models.OrderRecord) (inserted bool, err error) {
	defer func() {
		if err != nil {
			err = errors.Wrap(err, "Orders.Insert")
		}
	}()

	tag, err := tx.Exec(ctx, insertOrderSQL,
		rec.OrderID, rec.Symbol, rec.Pair, rec.PairOrder, rec.Status, string(rec.Spread),
		rec.ClientOrderID, rec.Price.String(), rec.AvgPrice.String(), rec.OrigQty.String(),
		rec.ExecutedQty.String(), rec.CumQty.String(), rec.CumQuote.String(),
		rec.TimeInForce, rec.Type, rec.ReduceOnly, rec.ClosePosition, rec.Side,
		rec.PositionSide, rec.StopPrice.String(), rec.WorkingType, rec.PriceProtect,
		rec.OrigType, rec.PriceMatch, rec.SelfTradePreventionMode, rec.GoodTillDate,
		rec.UpdateTime,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// LatestForPair returns the most recent order pair for this pair name, newest
// first, or nothing when the pair has never traded.
func (o *Orders) LatestForPair(ctx context.Context, q db.Transaction, pairName string) (recs []models.OrderRecord, err error) {
	defer func() {
		if err != nil {
			err = errors.Wrap(err, "Orders.LatestForPair")
		}
	}()

	rows, err := q.Query(ctx, `
		SELECT symbol, pair, pair_order, status, spread, orig_qty::text, update_time
		FROM orders
		WHERE pair = $1
		ORDER BY update_time DESC, pair_order ASC
		LIMIT 2`,
		pairName,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			rec     models.OrderRecord
			spread  string
			origQty string
		)
		if err = rows.Scan(&rec.Symbol, &rec.Pair, &rec.PairOrder, &rec.Status, &spread, &origQty, &rec.UpdateTime); err != nil {
			return nil, err
		}
		rec.Spread = models.SpreadLabel(spread)
		if rec.OrigQty, err = decimal.NewFromString(origQty); err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}
