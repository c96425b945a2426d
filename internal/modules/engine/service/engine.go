package service

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/opentracing/opentracing-go"
	"github.com/shopspring/decimal"

	"pairs_engine/internal/models"
	"pairs_engine/internal/modules/config"
	exchange "pairs_engine/internal/modules/exchange/service"
	notify "pairs_engine/internal/modules/notify/service"
	"pairs_engine/internal/reconcile"
	"pairs_engine/internal/store"
	"pairs_engine/pkg/db"
	"pairs_engine/pkg/logger"
)

// ExecutionClient is the slice of the exchange the engine needs.
type ExecutionClient interface {
	NewOrder(ctx context.Context, symbol string, side models.Side, quantity decimal.Decimal, positionSide models.PositionSide) (*models.OrderResult, error)
	TickerPrice(ctx context.Context, symbol string) (decimal.Decimal, error)
	USDTBalance(ctx context.Context) (decimal.Decimal, error)
	ExchangeFilters(ctx context.Context) (map[string]exchange.Filters, error)
}

// OrderLedger is the slice of the order store the execution path persists
// through. Insert must be idempotent on order id and report whether a row
// was actually written.
type OrderLedger interface {
	Insert(ctx context.Context, tx pgx.Tx, rec *models.OrderRecord) (inserted bool, err error)
	LatestForPair(ctx context.Context, q db.Transaction, pairName string) ([]models.OrderRecord, error)
}

// Engine runs the pairs strategy once per evaluation date: load series,
// decide, size, execute two legs, persist both.
type Engine struct {
	cfg      *config.Config
	tm       db.TxManager
	exch     ExecutionClient
	notifier notify.Notifier

	pairs  *store.Pairs
	prices *store.Prices
	assets *store.Assets
	orders OrderLedger

	reconciler *reconcile.Reconciler
}

func NewEngine(cfg *config.Config, tm db.TxManager, exch ExecutionClient, notifier notify.Notifier) *Engine {
	e := &Engine{
		cfg:      cfg,
		tm:       tm,
		exch:     exch,
		notifier: notifier,
		pairs:    store.NewPairs(),
		prices:   store.NewPrices(),
		assets:   store.NewAssets(),
		orders:   store.NewOrders(),
	}
	e.reconciler = reconcile.New(&ledgerAdapter{orders: e.orders, tm: tm})
	return e
}

// ledgerAdapter binds the orders store to a connection for the reconciler.
type ledgerAdapter struct {
	orders OrderLedger
	tm     db.TxManager
}

func (l *ledgerAdapter) LatestForPair(ctx context.Context, pairName string) ([]models.OrderRecord, error) {
	return l.orders.LatestForPair(ctx, l.tm.Conn(), pairName)
}

// runStats holds per-run outcome counts for the summary notification.
type runStats struct {
	processed int
	skipped   int
	traded    int
	failed    int
}

// RunOnce evaluates every active pair for one date. Per-pair failures are
// isolated; only top-level unavailability (balance, pair universe) fails the
// run back to the scheduler.
func (e *Engine) RunOnce(ctx context.Context, evalDate time.Time) error {
	span := opentracing.StartSpan("execution_run")
	defer span.Finish()
	ctx = opentracing.ContextWithSpan(ctx, span)

	trainsetEnd, err := e.cfg.TrainsetEndDate()
	if err != nil {
		return fmt.Errorf("bad trainset_end %q: %w", e.cfg.TrainsetEnd, err)
	}

	// History window: 20 days of warmup before the trainset start through
	// the last complete bar.
	backdataStart := trainsetEnd.AddDate(0, 0, -20)
	priceEnd := evalDate.AddDate(0, 0, -1)

	logger.Info("run for %s | history %s -> %s",
		evalDate.Format("2006-01-02"), backdataStart.Format("2006-01-02"), priceEnd.Format("2006-01-02"))

	balance, err := e.exch.USDTBalance(ctx)
	if err != nil {
		return models.Executionf("account balance: %v", err)
	}
	positionSize := balance.Mul(decimal.NewFromFloat(e.cfg.PositionSizePct))
	logger.Info("USDT balance %s | position size %s", balance, positionSize)

	if err := e.syncAssetFilters(ctx); err != nil {
		// stale constraints are survivable, missing ones fail per pair
		logger.Error("asset filter sync: %v", err)
	}

	pairs, err := e.pairs.Active(ctx, e.tm.Conn(), trainsetEnd)
	if err != nil {
		return err
	}
	if len(pairs) == 0 {
		logger.Info("no active pairs for trainset_end %s", trainsetEnd.Format("2006-01-02"))
		return nil
	}

	var stats runStats
	for _, pair := range pairs {
		stats.processed++

		pairSpan := opentracing.StartSpan("process_pair", opentracing.ChildOf(span.Context()))
		pairSpan.SetTag("pair", pair.Name())
		pairCtx := opentracing.ContextWithSpan(ctx, pairSpan)

		traded, err := e.processPair(pairCtx, pair, positionSize, backdataStart, priceEnd)
		pairSpan.Finish()

		switch {
		case err == nil && traded:
			stats.traded++
		case err == nil:
			// no transition at the last bar
		case models.SkippablePair(err):
			stats.skipped++
			logger.Error("skip %s: %v", pair.Name(), err)
		default:
			stats.failed++
			logger.Error("pair %s failed: %v", pair.Name(), err)
			e.notifier.Sendf("pair %s failed: %v", pair.Name(), err)
		}
	}

	logger.Info("run complete: %d processed, %d traded, %d skipped, %d failed",
		stats.processed, stats.traded, stats.skipped, stats.failed)
	e.notifier.Sendf("pairs run %s: %d processed, %d traded, %d skipped, %d failed",
		evalDate.Format("2006-01-02"), stats.processed, stats.traded, stats.skipped, stats.failed)
	return nil
}

// syncAssetFilters refreshes min_lot_size/min_notional from exchange info so
// sizing validates against current minimums.
func (e *Engine) syncAssetFilters(ctx context.Context) error {
	filters, err := e.exch.ExchangeFilters(ctx)
	if err != nil {
		return err
	}

	count := 0
	for symbol, f := range filters {
		c := models.AssetConstraint{Symbol: symbol, MinLotSize: f.MinLotSize, MinNotional: f.MinNotional}
		if err := e.assets.UpsertConstraint(ctx, e.tm.Conn(), c); err != nil {
			return err
		}
		count++
	}
	logger.Info("synced filters for %d symbols", count)
	return nil
}
