package exchange

import (
	"pairs_engine/internal/modules/config"
	"pairs_engine/internal/modules/exchange/service"

	"go.uber.org/fx"
)

func Module() fx.Option {
	return fx.Module("exchange",
		fx.Provide(
			func(cfg *config.Config) *service.Client {
				return service.New(cfg.Binance.BaseURL, cfg.Binance.APIKey, cfg.Binance.APISecret)
			},
		),
	)
}
