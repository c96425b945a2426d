package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type Side string

const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

type PositionSide string

const (
	PositionLong  PositionSide = "LONG"
	PositionShort PositionSide = "SHORT"
)

// SpreadLabel tags both legs of a ledger pair.
type SpreadLabel string

const (
	SpreadLong   SpreadLabel = "long"
	SpreadShort  SpreadLabel = "short"
	SpreadClosed SpreadLabel = "closed"
)

const StatusNew = "NEW"

// OrderIntent is a sized, not-yet-submitted leg. Consumed exactly once.
type OrderIntent struct {
	Symbol       string
	Side         Side
	Quantity     decimal.Decimal
	PositionSide PositionSide
}

// OrderResult is the raw exchange response for one placed order.
// OrderID 0 means the submission was not accepted.
type OrderResult struct {
	OrderID                 int64  `json:"orderId"`
	Symbol                  string `json:"symbol"`
	Status                  string `json:"status"`
	ClientOrderID           string `json:"clientOrderId"`
	Price                   string `json:"price"`
	AvgPrice                string `json:"avgPrice"`
	OrigQty                 string `json:"origQty"`
	ExecutedQty             string `json:"executedQty"`
	CumQty                  string `json:"cumQty"`
	CumQuote                string `json:"cumQuote"`
	TimeInForce             string `json:"timeInForce"`
	Type                    string `json:"type"`
	ReduceOnly              bool   `json:"reduceOnly"`
	ClosePosition           bool   `json:"closePosition"`
	Side                    string `json:"side"`
	PositionSide            string `json:"positionSide"`
	StopPrice               string `json:"stopPrice"`
	WorkingType             string `json:"workingType"`
	PriceProtect            bool   `json:"priceProtect"`
	OrigType                string `json:"origType"`
	PriceMatch              string `json:"priceMatch"`
	SelfTradePreventionMode string `json:"selfTradePreventionMode"`
	GoodTillDate            int64  `json:"goodTillDate"`
	UpdateTime              int64  `json:"updateTime"`
}

// Rejected reports the not-accepted sentinel.
func (r *OrderResult) Rejected() bool { return r.OrderID == 0 }

// OrderRecord is one write-once ledger row, keyed by OrderID.
type OrderRecord struct {
	OrderID                 int64
	Symbol                  string
	Pair                    string
	PairOrder               int // 1 or 2
	Status                  string
	Spread                  SpreadLabel
	ClientOrderID           string
	Price                   decimal.Decimal
	AvgPrice                decimal.Decimal
	OrigQty                 decimal.Decimal
	ExecutedQty             decimal.Decimal
	CumQty                  decimal.Decimal
	CumQuote                decimal.Decimal
	TimeInForce             string
	Type                    string
	ReduceOnly              bool
	ClosePosition           bool
	Side                    string
	PositionSide            string
	StopPrice               decimal.Decimal
	WorkingType             string
	PriceProtect            bool
	OrigType                string
	PriceMatch              string
	SelfTradePreventionMode string
	GoodTillDate            int64
	UpdateTime              time.Time
}

// NewOrderRecord converts an exchange response into a ledger row. One
// constructor for all four branches (open/close x long/short).
func NewOrderRecord(res *OrderResult, pair string, pairOrder int, label SpreadLabel) (*OrderRecord, error) {
	if res == nil || res.Rejected() {
		return nil, Executionf("cannot record rejected order for %s leg %d", pair, pairOrder)
	}
	if res.Symbol == "" || res.Status == "" {
		return nil, Executionf("order %d for %s: response missing symbol/status", res.OrderID, pair)
	}

	dec := func(field, s string) (decimal.Decimal, error) {
		if s == "" {
			return decimal.Zero, nil
		}
		d, err := decimal.NewFromString(s)
		if err != nil {
			return decimal.Zero, Executionf("order %d: bad %s %q", res.OrderID, field, s)
		}
		return d, nil
	}

	rec := &OrderRecord{
		OrderID:                 res.OrderID,
		Symbol:                  res.Symbol,
		Pair:                    pair,
		PairOrder:               pairOrder,
		Status:                  res.Status,
		Spread:                  label,
		ClientOrderID:           res.ClientOrderID,
		TimeInForce:             res.TimeInForce,
		Type:                    res.Type,
		ReduceOnly:              res.ReduceOnly,
		ClosePosition:           res.ClosePosition,
		Side:                    res.Side,
		PositionSide:            res.PositionSide,
		WorkingType:             res.WorkingType,
		PriceProtect:            res.PriceProtect,
		OrigType:                res.OrigType,
		PriceMatch:              res.PriceMatch,
		SelfTradePreventionMode: res.SelfTradePreventionMode,
		GoodTillDate:            res.GoodTillDate,
		UpdateTime:              time.UnixMilli(res.UpdateTime).UTC(),
	}

	var err error
	for _, f := range []struct {
		name string
		src  string
		dst  *decimal.Decimal
	}{
		{"price", res.Price, &rec.Price},
		{"avgPrice", res.AvgPrice, &rec.AvgPrice},
		{"origQty", res.OrigQty, &rec.OrigQty},
		{"executedQty", res.ExecutedQty, &rec.ExecutedQty},
		{"cumQty", res.CumQty, &rec.CumQty},
		{"cumQuote", res.CumQuote, &rec.CumQuote},
		{"stopPrice", res.StopPrice, &rec.StopPrice},
	} {
		if *f.dst, err = dec(f.name, f.src); err != nil {
			return nil, err
		}
	}

	return rec, nil
}

// AssetConstraint holds exchange minimums per instrument. Read-only reference data.
type AssetConstraint struct {
	Symbol      string
	MinLotSize  decimal.Decimal
	MinNotional decimal.Decimal
}

func (a AssetConstraint) String() string {
	return fmt.Sprintf("%s lot=%s notional=%s", a.Symbol, a.MinLotSize, a.MinNotional)
}
