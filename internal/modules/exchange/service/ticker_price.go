package service

import (
	"context"
	"net/http"
	"net/url"

	"github.com/shopspring/decimal"

	"pairs_engine/internal/models"
)

// TickerPrice returns the instrument's latest trade price.
func (c *Client) TickerPrice(ctx context.Context, symbol string) (decimal.Decimal, error) {
	params := url.Values{}
	params.Set("symbol", symbol)

	var payload struct {
		Symbol string `json:"symbol"`
		Price  string `json:"price"`
	}
	if err := c.do(ctx, http.MethodGet, "/fapi/v1/ticker/price", params, false, &payload); err != nil {
		return decimal.Zero, err
	}

	px, err := decimal.NewFromString(payload.Price)
	if err != nil {
		return decimal.Zero, models.Executionf("ticker %s: bad price %q", symbol, payload.Price)
	}
	if px.Sign() <= 0 {
		return decimal.Zero, models.Executionf("ticker %s: price %s <= 0", symbol, px)
	}
	return px, nil
}
