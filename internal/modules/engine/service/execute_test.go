package service

import (
	"context"
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pairs_engine/internal/models"
	exchange "pairs_engine/internal/modules/exchange/service"
	"pairs_engine/pkg/db"
	"pairs_engine/pkg/logger"
)

func TestMain(m *testing.M) {
	if err := logger.Init(); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

// fakeExchange scripts one result or error per submitted order, in call order.
type fakeExchange struct {
	results []*models.OrderResult
	errs    []error
	calls   []models.OrderIntent
}

func (f *fakeExchange) NewOrder(_ context.Context, symbol string, side models.Side, quantity decimal.Decimal, positionSide models.PositionSide) (*models.OrderResult, error) {
	i := len(f.calls)
	f.calls = append(f.calls, models.OrderIntent{Symbol: symbol, Side: side, Quantity: quantity, PositionSide: positionSide})
	if i < len(f.errs) && f.errs[i] != nil {
		return nil, f.errs[i]
	}
	return f.results[i], nil
}

func (f *fakeExchange) TickerPrice(context.Context, string) (decimal.Decimal, error) {
	return decimal.Zero, nil
}

func (f *fakeExchange) USDTBalance(context.Context) (decimal.Decimal, error) {
	return decimal.Zero, nil
}

func (f *fakeExchange) ExchangeFilters(context.Context) (map[string]exchange.Filters, error) {
	return nil, nil
}

type fakeNotifier struct {
	msgs []string
}

func (n *fakeNotifier) Send(msg string) { n.msgs = append(n.msgs, msg) }

func (n *fakeNotifier) Sendf(format string, args ...any) { n.Send(fmt.Sprintf(format, args...)) }

// fakeTxManager runs the callback without a database.
type fakeTxManager struct{}

func (f *fakeTxManager) RunMaster(ctx context.Context, fn func(ctxTx context.Context, tx pgx.Tx) error) error {
	return fn(ctx, nil)
}

func (f *fakeTxManager) Conn() db.Transaction { return nil }

// fakeLedger keeps rows by order id with the same idempotent Insert contract
// as the pg store: a duplicate id writes nothing and comes back false.
type fakeLedger struct {
	rows      map[int64]*models.OrderRecord
	insertErr error
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{rows: map[int64]*models.OrderRecord{}}
}

func (f *fakeLedger) Insert(_ context.Context, _ pgx.Tx, rec *models.OrderRecord) (bool, error) {
	if f.insertErr != nil {
		return false, f.insertErr
	}
	if _, ok := f.rows[rec.OrderID]; ok {
		return false, nil
	}
	f.rows[rec.OrderID] = rec
	return true, nil
}

func (f *fakeLedger) LatestForPair(context.Context, db.Transaction, string) ([]models.OrderRecord, error) {
	return nil, nil
}

func newTestEngine(exch *fakeExchange, ledger *fakeLedger) (*Engine, *fakeNotifier) {
	n := &fakeNotifier{}
	return &Engine{
		tm:       &fakeTxManager{},
		exch:     exch,
		notifier: n,
		orders:   ledger,
	}, n
}

func filled(id int64, symbol string) *models.OrderResult {
	return &models.OrderResult{OrderID: id, Symbol: symbol, Status: "NEW", OrigQty: "5"}
}

func testLegs() [2]models.OrderIntent {
	return [2]models.OrderIntent{
		{Symbol: "ETHUSDT", Side: models.SideBuy, Quantity: decimal.NewFromInt(5), PositionSide: models.PositionLong},
		{Symbol: "BTCUSDT", Side: models.SideSell, Quantity: decimal.RequireFromString("0.25"), PositionSide: models.PositionShort},
	}
}

var testPair = models.Pair{Symbol1: "ETHUSDT", Symbol2: "BTCUSDT"}

func TestExecutePair_OpenLeg1RejectedStopsLeg2(t *testing.T) {
	exch := &fakeExchange{results: []*models.OrderResult{
		{OrderID: 0, Symbol: "ETHUSDT", Status: "EXPIRED"},
	}}
	ledger := newFakeLedger()
	e, n := newTestEngine(exch, ledger)

	err := e.executePair(context.Background(), testPair, models.SpreadLong, testLegs())

	require.ErrorIs(t, err, models.ErrExecution)
	require.Len(t, exch.calls, 1, "leg 2 must not be submitted")
	assert.Equal(t, "ETHUSDT", exch.calls[0].Symbol)
	assert.Empty(t, ledger.rows)
	assert.Empty(t, n.msgs)
}

func TestExecutePair_OpenLeg1ErrorStopsLeg2(t *testing.T) {
	exch := &fakeExchange{errs: []error{fmt.Errorf("binance 400 (-2019): margin is insufficient")}}
	ledger := newFakeLedger()
	e, _ := newTestEngine(exch, ledger)

	err := e.executePair(context.Background(), testPair, models.SpreadShort, testLegs())

	require.ErrorIs(t, err, models.ErrExecution)
	require.Len(t, exch.calls, 1)
	assert.Empty(t, ledger.rows)
}

func TestExecutePair_OpenLeg2FailureAlertsWithoutReversal(t *testing.T) {
	exch := &fakeExchange{
		results: []*models.OrderResult{filled(101, "ETHUSDT"), nil},
		errs:    []error{nil, fmt.Errorf("binance 408: timeout")},
	}
	ledger := newFakeLedger()
	e, n := newTestEngine(exch, ledger)

	err := e.executePair(context.Background(), testPair, models.SpreadLong, testLegs())

	require.ErrorIs(t, err, models.ErrExecution)
	// exactly the two submissions: no compensating order for leg 1
	require.Len(t, exch.calls, 2)
	assert.Empty(t, ledger.rows)
	require.Len(t, n.msgs, 1)
	assert.Contains(t, n.msgs[0], "UNHEDGED LEG")
	assert.Contains(t, n.msgs[0], "order 101")
}

func TestExecutePair_CloseLeg1RejectedStillSubmitsLeg2(t *testing.T) {
	exch := &fakeExchange{results: []*models.OrderResult{
		{OrderID: 0, Symbol: "ETHUSDT", Status: "EXPIRED"},
		filled(202, "BTCUSDT"),
	}}
	ledger := newFakeLedger()
	e, n := newTestEngine(exch, ledger)

	err := e.executePair(context.Background(), testPair, models.SpreadClosed, testLegs())

	require.ErrorIs(t, err, models.ErrExecution)
	require.Len(t, exch.calls, 2, "close must still unwind the other side")
	assert.Equal(t, "BTCUSDT", exch.calls[1].Symbol)
	// a lone filled leg cannot form a ledger pair
	assert.Empty(t, ledger.rows)
	require.Len(t, n.msgs, 1)
	assert.Contains(t, n.msgs[0], "PARTIAL CLOSE")
}

func TestExecutePair_PersistsBothLegs(t *testing.T) {
	exch := &fakeExchange{results: []*models.OrderResult{
		filled(301, "ETHUSDT"), filled(302, "BTCUSDT"),
	}}
	ledger := newFakeLedger()
	e, n := newTestEngine(exch, ledger)

	err := e.executePair(context.Background(), testPair, models.SpreadLong, testLegs())

	require.NoError(t, err)
	require.Len(t, ledger.rows, 2)
	assert.Equal(t, 1, ledger.rows[301].PairOrder)
	assert.Equal(t, 2, ledger.rows[302].PairOrder)
	assert.Equal(t, models.SpreadLong, ledger.rows[301].Spread)
	assert.Empty(t, n.msgs)
}

func TestExecutePair_DuplicateLegIsSkipNotError(t *testing.T) {
	exch := &fakeExchange{results: []*models.OrderResult{
		filled(401, "ETHUSDT"), filled(402, "BTCUSDT"),
	}}
	ledger := newFakeLedger()
	// leg 1 already on file from an earlier run
	ledger.rows[401] = &models.OrderRecord{OrderID: 401, Symbol: "ETHUSDT"}
	e, n := newTestEngine(exch, ledger)

	err := e.executePair(context.Background(), testPair, models.SpreadLong, testLegs())

	require.NoError(t, err)
	// exactly one row per order id: the duplicate wrote nothing
	require.Len(t, ledger.rows, 2)
	assert.Equal(t, "ETHUSDT", ledger.rows[401].Symbol)
	assert.Equal(t, 2, ledger.rows[402].PairOrder)
	assert.Empty(t, n.msgs)
}

func TestExecutePair_LedgerFailureAlertsUnrecordedFill(t *testing.T) {
	exch := &fakeExchange{results: []*models.OrderResult{
		filled(501, "ETHUSDT"), filled(502, "BTCUSDT"),
	}}
	ledger := newFakeLedger()
	ledger.insertErr = fmt.Errorf("connection reset")
	e, n := newTestEngine(exch, ledger)

	err := e.executePair(context.Background(), testPair, models.SpreadShort, testLegs())

	require.ErrorIs(t, err, models.ErrPersistence)
	require.Len(t, n.msgs, 1)
	assert.Contains(t, n.msgs[0], "UNRECORDED FILL")
	assert.True(t, strings.Contains(n.msgs[0], "501") && strings.Contains(n.msgs[0], "502"))
}
