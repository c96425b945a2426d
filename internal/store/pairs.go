package store

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"pairs_engine/internal/models"
	"pairs_engine/pkg/db"
)

// Pairs reads the active pair universe produced by the discovery job.
type Pairs struct{}

func NewPairs() *Pairs { return &Pairs{} }

const activePairsSQL = `
	SELECT
		asset1.symbol AS symbol_1,
		asset2.symbol AS symbol_2,
		tp.trainset_end
	FROM trading_pairs AS tp
	JOIN asset AS asset1 ON tp.symbol_1_id = asset1.id
	JOIN asset AS asset2 ON tp.symbol_2_id = asset2.id
	WHERE tp.trainset_end = $1`

func (p *Pairs) Active(ctx context.Context, q db.Transaction, trainsetEnd time.Time) (pairs []models.Pair, err error) {
	defer func() {
		if err != nil {
			err = errors.Wrap(err, "Pairs.Active")
		}
	}()

	rows, err := q.Query(ctx, activePairsSQL, trainsetEnd)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var pair models.Pair
		if err = rows.Scan(&pair.Symbol1, &pair.Symbol2, &pair.TrainsetEnd); err != nil {
			return nil, err
		}
		pairs = append(pairs, pair)
	}
	return pairs, rows.Err()
}
