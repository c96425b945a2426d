package service

import (
	"context"
	"net/http"

	"github.com/shopspring/decimal"

	"pairs_engine/internal/models"
)

// Balances returns the wallet balance per asset, nonzero entries only.
func (c *Client) Balances(ctx context.Context) (map[string]decimal.Decimal, error) {
	var payload struct {
		Assets []struct {
			Asset         string `json:"asset"`
			WalletBalance string `json:"walletBalance"`
		} `json:"assets"`
	}
	if err := c.do(ctx, http.MethodGet, "/fapi/v2/account", nil, true, &payload); err != nil {
		return nil, err
	}

	balances := make(map[string]decimal.Decimal, len(payload.Assets))
	for _, a := range payload.Assets {
		bal, err := decimal.NewFromString(a.WalletBalance)
		if err != nil {
			return nil, models.Executionf("account: bad balance %q for %s", a.WalletBalance, a.Asset)
		}
		if bal.Sign() > 0 {
			balances[a.Asset] = bal
		}
	}
	return balances, nil
}

// USDTBalance is the budget currency the sizer works in.
func (c *Client) USDTBalance(ctx context.Context) (decimal.Decimal, error) {
	balances, err := c.Balances(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	return balances["USDT"], nil
}
