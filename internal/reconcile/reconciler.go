package reconcile

import (
	"context"

	"github.com/shopspring/decimal"

	"pairs_engine/internal/models"
)

// Ledger is the slice of the order store the reconciler needs.
type Ledger interface {
	LatestForPair(ctx context.Context, pairName string) ([]models.OrderRecord, error)
}

// Held is the position inferred from the ledger. Qty1/Qty2 follow the pair's
// symbol order.
type Held struct {
	Open  bool
	Label models.SpreadLabel
	Qty1  decimal.Decimal
	Qty2  decimal.Decimal
}

type Reconciler struct {
	ledger Ledger
}

func New(ledger Ledger) *Reconciler { return &Reconciler{ledger: ledger} }

// Position derives the currently held quantities for a pair from the last
// persisted order pair, independent of any in-memory series. The process may
// have restarted since the position was opened; the ledger is the truth a
// close is sized from. No open ledger record means flat, whatever the series
// says.
func (r *Reconciler) Position(ctx context.Context, pair models.Pair) (Held, error) {
	recs, err := r.ledger.LatestForPair(ctx, pair.Name())
	if err != nil {
		return Held{}, err
	}
	if len(recs) == 0 {
		return Held{}, nil
	}

	latest := recs[0]
	if latest.Status != models.StatusNew {
		return Held{}, nil
	}
	if latest.Spread != models.SpreadLong && latest.Spread != models.SpreadShort {
		return Held{}, nil
	}

	held := Held{Open: true, Label: latest.Spread}
	for _, rec := range recs {
		switch rec.Symbol {
		case pair.Symbol1:
			held.Qty1 = rec.OrigQty
		case pair.Symbol2:
			held.Qty2 = rec.OrigQty
		}
	}
	return held, nil
}
