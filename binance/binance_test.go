package binance

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wall-one/exchange-connector/base"
	"github.com/wall-one/exchange-connector/common"
)

type mockClient struct {
	balances     []map[string]interface{}
	orders       map[string][]map[string]interface{} // symbol → 历史订单
	openOrders   []map[string]interface{}
	placed       map[string]interface{}
	exchangeInfo map[string]interface{}
	klines       [][]interface{}

	orderCalls []string // 记录 (symbol, fromOrderID)
	canceled   []string
	cancelErr  error
}

func (m *mockClient) Balances(ctx context.Context) ([]map[string]interface{}, error) {
	return m.balances, nil
}

func (m *mockClient) Orders(ctx context.Context, symbol string, limit int, fromOrderID string) ([]map[string]interface{}, error) {
	m.orderCalls = append(m.orderCalls, symbol+"@"+fromOrderID)
	return m.orders[symbol], nil
}

func (m *mockClient) OrderStatus(ctx context.Context, symbol, id string) (map[string]interface{}, error) {
	return nil, nil
}

func (m *mockClient) PlaceOrder(ctx context.Context, symbol, side, orderType string, qty, price float64) (map[string]interface{}, error) {
	return m.placed, nil
}

func (m *mockClient) Cancel(ctx context.Context, symbol, id string) error {
	m.canceled = append(m.canceled, id)
	return m.cancelErr
}

func (m *mockClient) OpenOrders(ctx context.Context, symbol string) ([]map[string]interface{}, error) {
	return m.openOrders, nil
}

func (m *mockClient) DepositHistory(ctx context.Context) ([]map[string]interface{}, error) {
	return nil, nil
}

func (m *mockClient) WithdrawHistory(ctx context.Context) ([]map[string]interface{}, error) {
	return nil, nil
}

func (m *mockClient) Depth(ctx context.Context, symbol string, limit int) (map[string]interface{}, error) {
	return nil, nil
}

func (m *mockClient) ExchangeInfo(ctx context.Context) (map[string]interface{}, error) {
	return m.exchangeInfo, nil
}

func (m *mockClient) Klines(ctx context.Context, symbol, interval string, limit int) ([][]interface{}, error) {
	return m.klines, nil
}

func newTestExchange(client Client) *Binance {
	b := New(WithClient(client))
	_ = b.WithConnection(base.NewConnection("binance", "key", "secret", ""))
	return b
}

func orderItem(id, status string) map[string]interface{} {
	return map[string]interface{}{
		"orderId":     id,
		"price":       "9000.0",
		"origQty":     "1.0",
		"executedQty": "1.0",
		"status":      status,
		"type":        "LIMIT",
		"side":        "BUY",
		"time":        1499827319559.0,
	}
}

func symbolEntry(symbol, baseAsset, quoteAsset string) map[string]interface{} {
	return map[string]interface{}{
		"symbol":             symbol,
		"baseAsset":          baseAsset,
		"quoteAsset":         quoteAsset,
		"baseAssetPrecision": 8.0,
		"quotePrecision":     8.0,
	}
}

func TestWalletIncludesLocked(t *testing.T) {
	b := newTestExchange(&mockClient{
		balances: []map[string]interface{}{
			{"asset": "BTC", "free": "1.0", "locked": "0.5"},
			{"asset": "DUST", "free": "0.00000005", "locked": "0"},
		},
	})

	wallet, err := b.Wallet(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"BTC": 1.5}, wallet)

	available, err := b.Available(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"BTC": 1.0}, available)
}

func TestOrdersBySymbolSkipsOpenStates(t *testing.T) {
	client := &mockClient{
		orders: map[string][]map[string]interface{}{
			"BTCUSDT": {
				orderItem("1", "FILLED"),
				orderItem("2", "NEW"),
				orderItem("3", "PARTIALLY_FILLED"),
				orderItem("4", "CANCELED"),
			},
		},
	}
	b := newTestExchange(client)

	orders, err := b.OrdersBySymbol(context.Background(), common.NewSymbol("BTC", "USDT"), 10, "")
	require.NoError(t, err)

	// 在途状态剔除；标准市场名由适配器注入
	require.Len(t, orders, 2)
	assert.Equal(t, "1", orders[0].ID)
	assert.Equal(t, "4", orders[1].ID)
	assert.Equal(t, "USDT_BTC", orders[0].Symbol)

	// sinceOrderID 缺省为 1（端点要求起始 id）
	assert.Equal(t, []string{"BTCUSDT@1"}, client.orderCalls)
}

func TestOrdersScansWalletPairs(t *testing.T) {
	client := &mockClient{
		balances: []map[string]interface{}{
			{"asset": "BTC", "free": "1.0", "locked": "0"},
			{"asset": "USDT", "free": "100.0", "locked": "0"},
		},
		exchangeInfo: map[string]interface{}{
			"symbols": []interface{}{
				symbolEntry("BTCUSDT", "BTC", "USDT"),
				symbolEntry("ETHBTC", "ETH", "BTC"),
			},
		},
		orders: map[string][]map[string]interface{}{
			"BTCUSDT": {orderItem("7", "FILLED")},
		},
	}
	b := newTestExchange(client)

	orders, err := b.Orders(context.Background(), 10, "")
	require.NoError(t, err)

	require.Len(t, orders, 1)
	assert.Equal(t, "7", orders[0].ID)
	assert.Equal(t, "USDT_BTC", orders[0].Symbol)
}

func TestCreateOrder(t *testing.T) {
	b := newTestExchange(&mockClient{placed: map[string]interface{}{"orderId": 12345.0}})
	symbol := common.NewSymbol("BTC", "USDT")

	id, err := b.CreateOrder(context.Background(), "limit", "buy", symbol, 9000, 1)
	require.NoError(t, err)
	assert.Equal(t, "12345", id)

	_, err = b.CreateOrder(context.Background(), "iceberg", "buy", symbol, 9000, 1)
	assert.ErrorIs(t, err, base.ErrUnsupportedOrderType)
}

func TestCancelOrderRequiresSymbol(t *testing.T) {
	client := &mockClient{}
	b := newTestExchange(client)

	// 裸订单 ID 无法撤
	assert.False(t, b.CancelOrder(context.Background(), base.CancelByID("1")))
	assert.Empty(t, client.canceled)
}

func TestCancelOrderBySymbol(t *testing.T) {
	client := &mockClient{
		openOrders: []map[string]interface{}{
			orderItem("10", "NEW"),
			orderItem("11", "NEW"),
		},
	}
	b := newTestExchange(client)

	ok := b.CancelOrder(context.Background(), base.CancelBySymbol(common.NewSymbol("BTC", "USDT")))
	assert.True(t, ok)
	assert.Equal(t, []string{"10", "11"}, client.canceled)
}

func TestCandles(t *testing.T) {
	b := newTestExchange(&mockClient{
		klines: [][]interface{}{
			{
				1499040000000.0, "0.01634790", "0.80000000", "0.01575800", "0.01577100",
				"148976.11427815", 1499644799999.0, "2434.19055334", 308.0,
				"1756.87402397", "28.46694368",
			},
		},
	})

	candles, err := b.Candles(context.Background(), common.NewSymbol("BTC", "USDT"), "1h", 1)
	require.NoError(t, err)

	require.Len(t, candles, 1)
	assert.Equal(t, int64(1499040000000), candles[0].OpenTime)
	assert.InDelta(t, 0.015771, candles[0].Close, 1e-9)
	assert.Equal(t, 308, candles[0].Trades)
}

func TestSplitMarketNameNotImplemented(t *testing.T) {
	_, err := New().SplitMarketName("BTCUSDT")
	assert.ErrorIs(t, err, base.ErrNotImplemented)
}
