package service

import (
	"context"
	"net/http"
	"net/url"

	"github.com/shopspring/decimal"

	"pairs_engine/internal/models"
)

// NewOrder submits one market order leg. The caller must check
// OrderResult.Rejected before treating the leg as filled.
func (c *Client) NewOrder(
	ctx context.Context,
	symbol string,
	side models.Side,
	quantity decimal.Decimal,
	positionSide models.PositionSide,
) (*models.OrderResult, error) {
	params := url.Values{}
	params.Set("symbol", symbol)
	params.Set("side", string(side))
	params.Set("type", "MARKET")
	params.Set("quantity", quantity.String())
	params.Set("positionSide", string(positionSide))

	var res models.OrderResult
	if err := c.do(ctx, http.MethodPost, "/fapi/v1/order", params, true, &res); err != nil {
		return nil, err
	}
	return &res, nil
}
