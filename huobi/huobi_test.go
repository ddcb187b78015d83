package huobi

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wall-one/exchange-connector/base"
	"github.com/wall-one/exchange-connector/common"
)

type ordersCall struct {
	symbol    string
	types     string
	startDate string
	endDate   string
	states    string
	from      string
	limit     int
}

type placeCall struct {
	accountID string
	qty       float64
	price     float64
	symbol    string
	orderType string
}

type mockClient struct {
	accounts   []map[string]interface{}
	balance    []map[string]interface{}
	history    []map[string]interface{}
	openOrders []map[string]interface{}
	transfers  map[string][][]map[string]interface{} // currency → 分页响应

	orderCalls    []ordersCall
	placeCalls    []placeCall
	transferFroms []string
	canceled      []string
}

func (m *mockClient) Accounts(ctx context.Context) ([]map[string]interface{}, error) {
	return m.accounts, nil
}

func (m *mockClient) Balance(ctx context.Context, accountID string) ([]map[string]interface{}, error) {
	return m.balance, nil
}

func (m *mockClient) Orders(ctx context.Context, symbol, orderTypes, startDate, endDate, states, fromOrderID string, limit int) ([]map[string]interface{}, error) {
	m.orderCalls = append(m.orderCalls, ordersCall{symbol, orderTypes, startDate, endDate, states, fromOrderID, limit})
	if states == openOrderStates {
		return m.openOrders, nil
	}
	return m.history, nil
}

func (m *mockClient) Order(ctx context.Context, id string) (map[string]interface{}, error) {
	return nil, nil
}

func (m *mockClient) PlaceOrder(ctx context.Context, accountID string, qty, price float64, symbol, orderType string) (string, error) {
	m.placeCalls = append(m.placeCalls, placeCall{accountID, qty, price, symbol, orderType})
	return "59378", nil
}

func (m *mockClient) Cancel(ctx context.Context, id string) error {
	m.canceled = append(m.canceled, id)
	return nil
}

func (m *mockClient) DepositWithdrawals(ctx context.Context, currency, transferType, from string) ([]map[string]interface{}, error) {
	m.transferFroms = append(m.transferFroms, from)
	pages := m.transfers[currency]
	if len(pages) == 0 {
		return nil, nil
	}
	page := pages[0]
	m.transfers[currency] = pages[1:]
	return page, nil
}

func (m *mockClient) MarketDepth(ctx context.Context, symbol, stepType string) (map[string]interface{}, error) {
	return nil, nil
}

func (m *mockClient) CommonSymbols(ctx context.Context) ([]map[string]interface{}, error) {
	return nil, nil
}

func spotAccounts() []map[string]interface{} {
	return []map[string]interface{}{
		{"id": 777.0, "type": "margin", "state": "working"},
		{"id": 123.0, "type": "spot", "state": "working"},
	}
}

func newTestExchange(client Client, opts ...Option) *Huobi {
	h := New(append([]Option{WithClient(client)}, opts...)...)
	_ = h.WithConnection(base.NewConnection("huobi", "key", "secret", "ru"))
	return h
}

func TestWalletSumsTradeAndFrozen(t *testing.T) {
	h := newTestExchange(&mockClient{
		accounts: spotAccounts(),
		balance: []map[string]interface{}{
			{"currency": "btc", "type": "trade", "balance": "1.0"},
			{"currency": "btc", "type": "frozen", "balance": "0.5"},
			{"currency": "usdt", "type": "trade", "balance": "0.00000005"},
		},
	})

	wallet, err := h.Wallet(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"BTC": 1.5}, wallet)

	available, err := h.Available(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"BTC": 1.0}, available)
}

func TestOrdersBySymbolQueryWindow(t *testing.T) {
	mock := clock.NewMock()
	mock.Set(time.Date(2019, 4, 1, 12, 0, 0, 0, time.UTC))

	client := &mockClient{
		history: []map[string]interface{}{
			{
				"id":                59378.0,
				"type":              "buy-limit",
				"price":             "7000.0",
				"amount":            "10.0",
				"field-amount":      "10.0",
				"field-cash-amount": "70000.0",
				"state":             "filled",
				"created-at":        1494901162595.0,
			},
		},
	}
	h := newTestExchange(client, WithClock(mock))

	orders, err := h.OrdersBySymbol(context.Background(), common.NewSymbol("BTC", "USDT"), 50, "59000")
	require.NoError(t, err)

	require.Len(t, orders, 1)
	assert.Equal(t, "59378", orders[0].ID)
	assert.Equal(t, "USDT_BTC", orders[0].Symbol)

	require.Len(t, client.orderCalls, 1)
	call := client.orderCalls[0]
	assert.Equal(t, "btcusdt", call.symbol)
	assert.Equal(t, terminalOrderTypes, call.types)
	assert.Equal(t, historyStart, call.startDate)
	// 查询窗口终点取注入时钟的当天
	assert.Equal(t, "2019-04-01", call.endDate)
	assert.Equal(t, terminalOrderStates, call.states)
	assert.Equal(t, "59000", call.from)
	assert.Equal(t, 50, call.limit)
}

func TestCreateOrderMarketDropsPrice(t *testing.T) {
	client := &mockClient{accounts: spotAccounts()}
	h := newTestExchange(client)

	id, err := h.CreateOrder(context.Background(), "market", "buy", common.NewSymbol("BTC", "USDT"), 7000, 2)
	require.NoError(t, err)
	assert.Equal(t, "59378", id)

	require.Len(t, client.placeCalls, 1)
	call := client.placeCalls[0]
	assert.Equal(t, "123", call.accountID)
	assert.Equal(t, "btcusdt", call.symbol)
	assert.Equal(t, "buy-market", call.orderType)
	// 市价单不带价格
	assert.Equal(t, 0.0, call.price)
	assert.Equal(t, 2.0, call.qty)
}

func TestCreateOrderRejectsUnknownType(t *testing.T) {
	h := newTestExchange(&mockClient{accounts: spotAccounts()})

	_, err := h.CreateOrder(context.Background(), "ioc", "buy", common.NewSymbol("BTC", "USDT"), 1, 1)
	assert.ErrorIs(t, err, base.ErrUnsupportedOrderType)

	_, err = h.CreateOrder(context.Background(), "limit", "hold", common.NewSymbol("BTC", "USDT"), 1, 1)
	assert.ErrorIs(t, err, base.ErrConfiguration)
}

func TestCancelOrderBySymbol(t *testing.T) {
	client := &mockClient{
		openOrders: []map[string]interface{}{
			{"id": "11", "type": "buy-limit", "price": "7000.0", "amount": "1.0", "state": "submitted", "created-at": 1494901162595.0},
			{"id": "12", "type": "sell-limit", "price": "7100.0", "amount": "1.0", "state": "submitted", "created-at": 1494901162595.0},
		},
	}
	h := newTestExchange(client)

	ok := h.CancelOrder(context.Background(), base.CancelBySymbol(common.NewSymbol("BTC", "USDT")))
	assert.True(t, ok)
	assert.Equal(t, []string{"11", "12"}, client.canceled)
}

func TestDepositsFollowCursor(t *testing.T) {
	page := make([]map[string]interface{}, 0, 100)
	for i := 1; i <= 100; i++ {
		page = append(page, depositItem(float64(i)))
	}

	client := &mockClient{
		accounts: spotAccounts(),
		balance: []map[string]interface{}{
			{"currency": "btc", "type": "trade", "balance": "1.0"},
		},
		transfers: map[string][][]map[string]interface{}{
			"btc": {page, {depositItem(101)}},
		},
	}
	h := newTestExchange(client)

	deposits, err := h.Deposits(context.Background())
	require.NoError(t, err)

	// 满页后携带末条 id 续拉，半页即停
	assert.Len(t, deposits, 101)
	assert.Equal(t, []string{"", "100"}, client.transferFroms)
}

func depositItem(id float64) map[string]interface{} {
	return map[string]interface{}{
		"id":         id,
		"currency":   "BTC",
		"amount":     0.1,
		"address":    fmt.Sprintf("addr-%.0f", id),
		"tx-hash":    fmt.Sprintf("tx-%.0f", id),
		"state":      "safe",
		"updated-at": 1510912472199.0,
	}
}

func TestSplitMarketNameNotImplemented(t *testing.T) {
	_, err := New().SplitMarketName("btcusdt")
	assert.ErrorIs(t, err, base.ErrNotImplemented)
}
