package store

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"pairs_engine/internal/models"
	"pairs_engine/pkg/db"
)

// Assets serves the exchange-constraint reference data.
type Assets struct{}

func NewAssets() *Assets { return &Assets{} }

func (a *Assets) Constraint(ctx context.Context, q db.Transaction, symbol string) (c models.AssetConstraint, err error) {
	defer func() {
		if err != nil {
			err = errors.Wrap(err, "Assets.Constraint")
		}
	}()

	var lot, notional string
	err = q.QueryRow(ctx,
		`SELECT min_lot_size::text, min_notional::text FROM asset WHERE symbol = $1`,
		symbol,
	).Scan(&lot, &notional)
	if errors.Is(err, pgx.ErrNoRows) {
		return c, models.DataUnavailablef("no asset row for %s", symbol)
	}
	if err != nil {
		return c, err
	}

	c.Symbol = symbol
	if c.MinLotSize, err = decimal.NewFromString(lot); err != nil {
		return c, err
	}
	if c.MinNotional, err = decimal.NewFromString(notional); err != nil {
		return c, err
	}
	return c, nil
}

// UpsertConstraint refreshes an instrument's minimums from exchange filters.
func (a *Assets) UpsertConstraint(ctx context.Context, q db.Transaction, c models.AssetConstraint) (err error) {
	defer func() {
		if err != nil {
			err = errors.Wrap(err, "Assets.UpsertConstraint")
		}
	}()

	_, err = q.Exec(ctx, `
		INSERT INTO asset (symbol, min_lot_size, trading, min_notional)
		VALUES ($1, $2, 1, $3)
		ON CONFLICT (symbol) DO UPDATE
		SET min_lot_size = EXCLUDED.min_lot_size,
			min_notional = EXCLUDED.min_notional`,
		c.Symbol, c.MinLotSize.String(), c.MinNotional.String(),
	)
	return err
}
