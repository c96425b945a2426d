package main

import (
	"context"
	"flag"
	"log"
	"time"

	"go.uber.org/fx"

	"pairs_engine/internal/modules/config"
	"pairs_engine/internal/modules/engine"
	"pairs_engine/internal/modules/exchange"
	"pairs_engine/internal/modules/notify"
	"pairs_engine/internal/modules/postgres"
	"pairs_engine/pkg/logger"
	"pairs_engine/pkg/tracing"
)

const serviceName = "pairs-engine"

func main() {
	dateFlag := flag.String("date", "", "evaluation date YYYY-MM-DD (default: today)")
	flag.Parse()

	if err := logger.Init(); err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()
	logger.SetServiceName(serviceName)
	tracing.SetServiceName(serviceName)

	runDate := time.Now().UTC().Truncate(24 * time.Hour)
	if *dateFlag != "" {
		d, err := time.Parse("2006-01-02", *dateFlag)
		if err != nil {
			logger.Fatal("bad -date %q: %v", *dateFlag, err)
		}
		runDate = d
	}

	app := fx.New(
		fx.Provide(
			func() context.Context {
				return context.Background()
			},
			func() engine.RunDate {
				return engine.RunDate(runDate)
			},
		),
		config.Module(),
		postgres.Module(),
		exchange.Module(),
		notify.Module(),
		engine.Module(),
	)
	app.Run()
}
