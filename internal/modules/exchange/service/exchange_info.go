package service

import (
	"context"
	"net/http"

	"github.com/shopspring/decimal"
)

// ExchangeFilters returns the lot-size and min-notional constraints for every
// symbol currently trading. Symbols missing either filter are skipped.
func (c *Client) ExchangeFilters(ctx context.Context) (map[string]Filters, error) {
	var payload struct {
		Symbols []struct {
			Symbol  string `json:"symbol"`
			Status  string `json:"status"`
			Filters []struct {
				FilterType string `json:"filterType"`
				MinQty     string `json:"minQty"`
				Notional   string `json:"notional"`
			} `json:"filters"`
		} `json:"symbols"`
	}
	if err := c.do(ctx, http.MethodGet, "/fapi/v1/exchangeInfo", nil, false, &payload); err != nil {
		return nil, err
	}

	out := make(map[string]Filters, len(payload.Symbols))
	for _, s := range payload.Symbols {
		if s.Status != "TRADING" {
			continue
		}
		var f Filters
		var haveLot, haveNotional bool
		for _, flt := range s.Filters {
			switch flt.FilterType {
			case "LOT_SIZE":
				if d, err := decimal.NewFromString(flt.MinQty); err == nil {
					f.MinLotSize = d
					haveLot = true
				}
			case "MIN_NOTIONAL":
				if d, err := decimal.NewFromString(flt.Notional); err == nil {
					f.MinNotional = d
					haveNotional = true
				}
			}
		}
		if haveLot && haveNotional {
			out[s.Symbol] = f
		}
	}
	return out, nil
}

// Filters carries the exchange minimums for one symbol.
type Filters struct {
	MinLotSize  decimal.Decimal
	MinNotional decimal.Decimal
}
