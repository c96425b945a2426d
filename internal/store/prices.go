package store

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"pairs_engine/internal/models"
	"pairs_engine/pkg/db"
)

// Prices serves aligned historical close series from the asset_price table.
type Prices struct{}

func NewPrices() *Prices { return &Prices{} }

// Closes of both instruments inner-joined on open_time, so only bars present
// for both sides survive.
const alignedClosesSQL = `
	SELECT
		ap_1.open_time AS date,
		ap_1.close     AS close_1,
		ap_2.close     AS close_2
	FROM asset_price AS ap_1
	INNER JOIN asset AS a_1 ON ap_1.asset_id = a_1.id
	INNER JOIN asset_price AS ap_2
		ON ap_1.open_time = ap_2.open_time
		AND ap_1.asset_id <> ap_2.asset_id
	INNER JOIN asset AS a_2 ON ap_2.asset_id = a_2.id
	WHERE a_1.symbol = $1
		AND a_2.symbol = $2
		AND ap_1.open_time BETWEEN $3 AND $4
	ORDER BY ap_1.open_time`

func (p *Prices) AlignedCloses(
	ctx context.Context,
	q db.Transaction,
	symbol1, symbol2 string,
	start, end time.Time,
) (points []models.PricePoint, err error) {
	defer func() {
		if err != nil {
			err = errors.Wrap(err, "Prices.AlignedCloses")
		}
	}()

	rows, err := q.Query(ctx, alignedClosesSQL, symbol1, symbol2, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var pt models.PricePoint
		if err = rows.Scan(&pt.Time, &pt.Close1, &pt.Close2); err != nil {
			return nil, err
		}
		points = append(points, pt)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	if len(points) == 0 {
		return nil, models.DataUnavailablef("no aligned bars for %s-%s in [%s, %s]",
			symbol1, symbol2, start.Format("2006-01-02"), end.Format("2006-01-02"))
	}
	return points, nil
}
