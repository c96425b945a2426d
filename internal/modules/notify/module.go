package notify

import (
	"pairs_engine/internal/modules/config"
	"pairs_engine/internal/modules/notify/service"
	"pairs_engine/pkg/logger"

	"go.uber.org/fx"
)

func Module() fx.Option {
	return fx.Module("notify",
		fx.Provide(
			func(cfg *config.Config) service.Notifier {
				if cfg.Telegram.Token == "" {
					return service.NewStdout()
				}
				tg, err := service.NewTelegram(cfg.Telegram.Token, cfg.Telegram.ChatID)
				if err != nil {
					logger.Error("telegram init failed, falling back to stdout: %v", err)
					return service.NewStdout()
				}
				return tg
			},
		),
	)
}
