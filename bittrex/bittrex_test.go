package bittrex

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wall-one/exchange-connector/base"
	"github.com/wall-one/exchange-connector/common"
)

// mockClient 按字段返回 canned 响应并记录撤单调用
type mockClient struct {
	balances   []map[string]interface{}
	history    []map[string]interface{}
	openOrders []map[string]interface{}
	placed     map[string]interface{}

	canceled  []string
	cancelErr error
}

func (m *mockClient) Balances(ctx context.Context) ([]map[string]interface{}, error) {
	return m.balances, nil
}

func (m *mockClient) OrderHistory(ctx context.Context) ([]map[string]interface{}, error) {
	return m.history, nil
}

func (m *mockClient) Order(ctx context.Context, id string) (map[string]interface{}, error) {
	return nil, nil
}

func (m *mockClient) BuyLimit(ctx context.Context, market string, qty, price float64) (map[string]interface{}, error) {
	return m.placed, nil
}

func (m *mockClient) SellLimit(ctx context.Context, market string, qty, price float64) (map[string]interface{}, error) {
	return m.placed, nil
}

func (m *mockClient) Cancel(ctx context.Context, id string) error {
	m.canceled = append(m.canceled, id)
	return m.cancelErr
}

func (m *mockClient) OpenOrders(ctx context.Context, market string) ([]map[string]interface{}, error) {
	return m.openOrders, nil
}

func (m *mockClient) DepositHistory(ctx context.Context) ([]map[string]interface{}, error) {
	return nil, nil
}

func (m *mockClient) WithdrawalHistory(ctx context.Context) ([]map[string]interface{}, error) {
	return nil, nil
}

func (m *mockClient) OrderBook(ctx context.Context, market string) (map[string]interface{}, error) {
	return nil, nil
}

func (m *mockClient) Markets(ctx context.Context) ([]map[string]interface{}, error) {
	return nil, nil
}

func newTestExchange(client Client) *Bittrex {
	b := New(WithClient(client))
	_ = b.WithConnection(base.NewConnection("bittrex", "key", "secret", ""))
	return b
}

func TestWalletDustFilter(t *testing.T) {
	b := newTestExchange(&mockClient{
		balances: []map[string]interface{}{
			{"Currency": "btc", "Balance": 2e-7, "Available": 2e-7},
			{"Currency": "DGB", "Balance": 1e-7, "Available": 1e-7},
			{"Currency": "ETH", "Balance": 0.5, "Available": 0.2},
		},
	})

	wallet, err := b.Wallet(context.Background())
	require.NoError(t, err)

	// 严格大于阈值才保留，币种统一大写
	assert.Equal(t, map[string]float64{"BTC": 2e-7, "ETH": 0.5}, wallet)

	available, err := b.Available(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0.2, available["ETH"])
}

func TestWalletNotAuthenticated(t *testing.T) {
	b := New()
	_, err := b.Wallet(context.Background())
	assert.ErrorIs(t, err, base.ErrNotAuthenticated)
	assert.False(t, b.Authenticated())
}

func historyItem(uuid, market string, qty, remaining float64) map[string]interface{} {
	return map[string]interface{}{
		"OrderUuid":         uuid,
		"Exchange":          market,
		"OrderType":         "LIMIT_BUY",
		"Price":             0.01,
		"Quantity":          qty,
		"QuantityRemaining": remaining,
		"TimeStamp":         "2019-04-01T10:00:00",
	}
}

func TestOrdersSinceFilterAndLimit(t *testing.T) {
	b := newTestExchange(&mockClient{
		history: []map[string]interface{}{
			historyItem("a1", "BTC-LTC", 1, 0),
			historyItem("b2", "BTC-LTC", 2, 0),
			historyItem("c3", "BTC-ETH", 3, 0),
			historyItem("d4", "BTC-LTC", 4, 0),
		},
	})

	orders, err := b.Orders(context.Background(), 2, "b2")
	require.NoError(t, err)

	// id <= since 的剔除，剩余按 limit 截断
	require.Len(t, orders, 2)
	assert.Equal(t, "c3", orders[0].ID)
	assert.Equal(t, "d4", orders[1].ID)
}

func TestOrdersBySymbolFilters(t *testing.T) {
	b := newTestExchange(&mockClient{
		history: []map[string]interface{}{
			historyItem("a1", "BTC-LTC", 1, 0),
			historyItem("b2", "BTC-ETH", 2, 0),
			historyItem("c3", "BTC-LTC", 3, 0),
		},
	})

	orders, err := b.OrdersBySymbol(context.Background(), common.NewSymbol("BTC", "LTC"), 10, "")
	require.NoError(t, err)

	require.Len(t, orders, 2)
	for _, order := range orders {
		assert.Equal(t, "LTC_BTC", order.Symbol)
	}
}

func TestCreateOrderValidation(t *testing.T) {
	b := newTestExchange(&mockClient{placed: map[string]interface{}{"uuid": "new-order"}})
	symbol := common.NewSymbol("BTC", "USDT")

	_, err := b.CreateOrder(context.Background(), "stop", "buy", symbol, 1, 1)
	assert.ErrorIs(t, err, base.ErrUnsupportedOrderType)

	// v1.1 接口没有市价单
	_, err = b.CreateOrder(context.Background(), "market", "buy", symbol, 0, 1)
	assert.ErrorIs(t, err, base.ErrUnsupportedOrderType)

	_, err = b.CreateOrder(context.Background(), "limit", "hold", symbol, 1, 1)
	assert.ErrorIs(t, err, base.ErrConfiguration)

	id, err := b.CreateOrder(context.Background(), "limit", "buy", symbol, 9000, 0.5)
	require.NoError(t, err)
	assert.Equal(t, "new-order", id)
}

func TestCancelOrderByID(t *testing.T) {
	client := &mockClient{}
	b := newTestExchange(client)

	ok := b.CancelOrder(context.Background(), base.CancelByID("uuid-1"))
	assert.True(t, ok)
	assert.Equal(t, []string{"uuid-1"}, client.canceled)
}

func TestCancelOrderBySymbol(t *testing.T) {
	client := &mockClient{
		openOrders: []map[string]interface{}{
			{
				"OrderUuid": "o1", "Exchange": "BTC-LTC", "OrderType": "LIMIT_SELL",
				"Price": 0.01, "Quantity": 1.0, "QuantityRemaining": 1.0,
				"Opened": "2019-04-01T10:00:00",
			},
			{
				"OrderUuid": "o2", "Exchange": "BTC-LTC", "OrderType": "LIMIT_BUY",
				"Price": 0.009, "Quantity": 2.0, "QuantityRemaining": 2.0,
				"Opened": "2019-04-01T11:00:00",
			},
		},
	}
	b := newTestExchange(client)

	ok := b.CancelOrder(context.Background(), base.CancelBySymbol(common.NewSymbol("BTC", "LTC")))
	assert.True(t, ok)
	assert.Equal(t, []string{"o1", "o2"}, client.canceled)
}

func TestCancelOrderCollapsesFailure(t *testing.T) {
	client := &mockClient{cancelErr: assert.AnError}
	b := newTestExchange(client)

	assert.False(t, b.CancelOrder(context.Background(), base.CancelByID("uuid-1")))
}

func TestCandlesNotImplemented(t *testing.T) {
	b := newTestExchange(&mockClient{})
	_, err := b.Candles(context.Background(), common.NewSymbol("BTC", "USDT"), "1h", 10)
	assert.ErrorIs(t, err, base.ErrNotImplemented)
}

func TestSplitMarketName(t *testing.T) {
	b := New()
	symbol, err := b.SplitMarketName("BTC-LTC")
	require.NoError(t, err)
	assert.Equal(t, "BTC", symbol.Base())
	assert.Equal(t, "LTC", symbol.Quote())

	_, err = b.SplitMarketName("BTCLTC")
	assert.Error(t, err)
}
