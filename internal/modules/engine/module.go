package engine

import (
	"context"
	"time"

	"go.uber.org/fx"

	"pairs_engine/internal/modules/config"
	engineSvc "pairs_engine/internal/modules/engine/service"
	exchangeSvc "pairs_engine/internal/modules/exchange/service"
	notifySvc "pairs_engine/internal/modules/notify/service"
	"pairs_engine/pkg/db"
	"pairs_engine/pkg/logger"
	"pairs_engine/pkg/tracing"
)

// RunDate is the evaluation date the scheduler invoked us for.
type RunDate time.Time

func Module() fx.Option {
	return fx.Module("engine",
		fx.Provide(
			func(cfg *config.Config, tm *db.PgTxManager, exch *exchangeSvc.Client, n notifySvc.Notifier) *engineSvc.Engine {
				return engineSvc.NewEngine(cfg, tm, exch, n)
			},
		),
		fx.Invoke(func(
			lc fx.Lifecycle,
			shutdowner fx.Shutdowner,
			cfg *config.Config,
			e *engineSvc.Engine,
			runDate RunDate,
			ctx context.Context,
		) {
			lc.Append(fx.Hook{
				OnStart: func(_ context.Context) error {
					var closeTracer func()
					if cfg.Jaeger.Host != "" {
						tracer, closer, err := tracing.InitTracer(tracing.Config{
							Host: cfg.Jaeger.Host,
							Port: cfg.Jaeger.Port,
						})
						if err != nil {
							logger.Error("tracer init: %v", err)
						} else {
							_ = tracer
							closeTracer = closer
						}
					}

					go func() {
						err := e.RunOnce(ctx, time.Time(runDate))
						if closeTracer != nil {
							closeTracer()
						}
						if err != nil {
							logger.Error("run failed: %v", err)
							_ = shutdowner.Shutdown(fx.ExitCode(1))
							return
						}
						_ = shutdowner.Shutdown()
					}()
					return nil
				},
			})
		}),
	)
}
