package huobi

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/benbjohnson/clock"
	"github.com/wall-one/exchange-connector/base"
	"github.com/wall-one/exchange-connector/common"
	"github.com/wall-one/exchange-connector/factory"
	"github.com/wall-one/exchange-connector/types"
)

const (
	historyStart = "2017-01-01" // 历史订单查询窗口起点

	terminalOrderTypes  = "buy-market,sell-market,buy-ioc,sell-ioc,buy-limit,sell-limit"
	terminalOrderStates = "partial-canceled,filled,canceled"
	openOrderStates     = "pre-submitted,submitted,partial-filled"
)

// Huobi base.Exchange 实现
// 历史订单窗口终点取当天日期，时钟可注入以便测试。
type Huobi struct {
	authenticator base.Authenticator
	dispatch      *factory.Dispatch
	client        Client
	clock         clock.Clock
	conn          *base.Connection
	clientOpts    []ClientOption
	fixedClient   bool
}

// Option 适配器配置选项
type Option func(*Huobi)

// WithClient 注入自定义原始客户端
func WithClient(client Client) Option {
	return func(h *Huobi) {
		h.client = client
		h.fixedClient = true
	}
}

// WithClientOptions 透传给默认 HTTP 客户端的选项
func WithClientOptions(opts ...ClientOption) Option {
	return func(h *Huobi) {
		h.clientOpts = opts
	}
}

// WithAuthenticator 替换令牌编码实现
func WithAuthenticator(authenticator base.Authenticator) Option {
	return func(h *Huobi) {
		h.authenticator = authenticator
	}
}

// WithClock 注入时钟
func WithClock(clk clock.Clock) Option {
	return func(h *Huobi) {
		h.clock = clk
	}
}

// New 创建 Huobi 适配器
func New(opts ...Option) *Huobi {
	h := &Huobi{
		authenticator: base.TokenAuthenticator{},
		dispatch:      factory.NewDispatch(base.LabelHuobi),
		clock:         clock.New(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// SplitMarketName 原生 btcusdt 无法独立切分
func (h *Huobi) SplitMarketName(symbol string) (*common.Symbol, error) {
	return nil, fmt.Errorf("%w: huobi market names cannot be split without the symbol table", base.ErrNotImplemented)
}

// Auth 编码连接为不透明令牌
func (h *Huobi) Auth(conn *base.Connection) (string, error) {
	return h.authenticator.Auth(conn)
}

// WithConnection 绑定连接凭证，customer id 为区域标签
func (h *Huobi) WithConnection(conn *base.Connection) error {
	h.conn = conn
	if !h.fixedClient {
		h.client = NewClient(conn.CustomerID, conn.APIKey, conn.SecretKey, h.clientOpts...)
	}
	return nil
}

// Authenticated 是否已绑定连接
func (h *Huobi) Authenticated() bool {
	return h.conn != nil && h.client != nil
}

func (h *Huobi) ensureClient() error {
	if h.client == nil {
		return fmt.Errorf("%w: use WithConnection first", base.ErrNotAuthenticated)
	}
	return nil
}

// spotAccountID 现货账户 ID（type=spot 且 state=working）
func (h *Huobi) spotAccountID(ctx context.Context) (string, error) {
	accounts, err := h.client.Accounts(ctx)
	if err != nil {
		return "", err
	}

	for _, account := range accounts {
		accType, _ := account["type"].(string)
		state, _ := account["state"].(string)
		if strings.ToLower(accType) != "spot" || strings.ToLower(state) != "working" {
			continue
		}
		if id, ok := account["id"]; ok {
			return cursorID(id), nil
		}
	}
	return "", fmt.Errorf("%w: no working spot account", base.ErrRemoteRequest)
}

// Wallet 总余额，同币种 trade 与 frozen 余额求和
func (h *Huobi) Wallet(ctx context.Context) (map[string]float64, error) {
	return h.balances(ctx, false)
}

// Available 可用余额（仅 trade 类目）
func (h *Huobi) Available(ctx context.Context) (map[string]float64, error) {
	return h.balances(ctx, true)
}

func (h *Huobi) balances(ctx context.Context, tradeOnly bool) (map[string]float64, error) {
	if err := h.ensureClient(); err != nil {
		return nil, err
	}

	accountID, err := h.spotAccountID(ctx)
	if err != nil {
		return nil, err
	}
	items, err := h.client.Balance(ctx, accountID)
	if err != nil {
		return nil, err
	}

	wallet := make(map[string]float64)
	for _, item := range items {
		if tradeOnly {
			if balanceType, _ := item["type"].(string); balanceType != "trade" {
				continue
			}
		}

		currency, err := stringField(item, "currency")
		if err != nil {
			return nil, err
		}
		amount, err := floatField(item, "balance")
		if err != nil {
			return nil, err
		}
		if amount <= base.DustThreshold {
			continue
		}

		asset := strings.ToUpper(currency)
		if tradeOnly {
			wallet[asset] = amount
		} else {
			wallet[asset] += amount
		}
	}
	return wallet, nil
}

// Orders 跨交易对历史订单
func (h *Huobi) Orders(ctx context.Context, limit int, sinceOrderID string) ([]*types.Order, error) {
	wallet, err := h.Wallet(ctx)
	if err != nil {
		return nil, err
	}
	lookup, err := h.pairLookup(ctx)
	if err != nil {
		return nil, err
	}
	return base.ScanPairs(ctx, wallet, lookup, h.OrdersBySymbol, limit, sinceOrderID)
}

func (h *Huobi) pairLookup(ctx context.Context) (base.PairLookup, error) {
	symbols, err := h.Symbols(ctx)
	if err != nil {
		return nil, err
	}

	ids := make(map[string]bool, len(symbols))
	for _, info := range symbols {
		ids[info.ID] = true
	}

	return func(asset1, asset2 string) (*common.Symbol, bool) {
		if !ids[strings.ToLower(asset1+asset2)] {
			return nil, false
		}
		return common.NewSymbol(asset1, asset2), true
	}, nil
}

// OrdersBySymbol 单交易对终态订单
func (h *Huobi) OrdersBySymbol(ctx context.Context, symbol *common.Symbol, limit int, sinceOrderID string) ([]*types.Order, error) {
	if err := h.ensureClient(); err != nil {
		return nil, err
	}

	raw, err := h.client.Orders(
		ctx,
		symbol.Format(common.HuobiFormat),
		terminalOrderTypes,
		historyStart,
		h.clock.Now().Format("2006-01-02"),
		terminalOrderStates,
		sinceOrderID,
		limit,
	)
	if err != nil {
		return nil, err
	}
	return h.normalizeOrders(raw, symbol)
}

func (h *Huobi) normalizeOrders(raw []map[string]interface{}, symbol *common.Symbol) ([]*types.Order, error) {
	standard := symbol.Format(common.StandardFormat)
	orders := make([]*types.Order, 0, len(raw))
	for _, item := range raw {
		item["symbol"] = standard

		order, err := h.dispatch.Order(item)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, nil
}

// OrderInfo 查询单个订单
func (h *Huobi) OrderInfo(ctx context.Context, symbol *common.Symbol, id string) (*types.Order, error) {
	if err := h.ensureClient(); err != nil {
		return nil, err
	}

	raw, err := h.client.Order(ctx, id)
	if err != nil {
		return nil, err
	}
	raw["symbol"] = symbol.Format(common.StandardFormat)

	return h.dispatch.Order(raw)
}

// CreateOrder 下单，方向和类型拼为 buy-limit 形态
func (h *Huobi) CreateOrder(ctx context.Context, orderType, side string, symbol *common.Symbol, price, qty float64) (string, error) {
	if err := h.ensureClient(); err != nil {
		return "", err
	}

	typ := types.OrderType(orderType)
	if !typ.Valid() {
		return "", fmt.Errorf("%w: %s", base.ErrUnsupportedOrderType, orderType)
	}
	if !types.OrderSide(side).Valid() {
		return "", fmt.Errorf("%w: unknown side %q", base.ErrConfiguration, side)
	}

	accountID, err := h.spotAccountID(ctx)
	if err != nil {
		return "", err
	}

	if types.OrderType(typ.Lower()) == types.OrderTypeMarket {
		price = 0
	}
	return h.client.PlaceOrder(
		ctx,
		accountID,
		qty,
		price,
		symbol.Format(common.HuobiFormat),
		strings.ToLower(side)+"-"+typ.Lower(),
	)
}

// StopLoss 止损单，Huobi 不支持
func (h *Huobi) StopLoss(ctx context.Context, side string, symbol *common.Symbol, price, qty, stopPrice float64) (string, error) {
	return "", fmt.Errorf("%w: stop loss is not supported on huobi", base.ErrUnsupportedOrderType)
}

// TakeProfit 止盈单，Huobi 不支持
func (h *Huobi) TakeProfit(ctx context.Context, side string, symbol *common.Symbol, price, qty, stopPrice float64) (string, error) {
	return "", fmt.Errorf("%w: take profit is not supported on huobi", base.ErrUnsupportedOrderType)
}

// CancelOrder 撤单，失败一律返回 false
func (h *Huobi) CancelOrder(ctx context.Context, target base.CancelTarget) bool {
	if h.client == nil {
		return false
	}

	if target.Symbol != nil {
		orders, err := h.OpenOrders(ctx, target.Symbol)
		if err != nil {
			return false
		}
		for _, order := range orders {
			if err := h.client.Cancel(ctx, order.ID); err != nil {
				return false
			}
		}
		return true
	}

	return h.client.Cancel(ctx, target.OrderID) == nil
}

// OpenOrders 交易对挂单
func (h *Huobi) OpenOrders(ctx context.Context, symbol *common.Symbol) ([]*types.OpenOrder, error) {
	if err := h.ensureClient(); err != nil {
		return nil, err
	}

	raw, err := h.client.Orders(ctx, symbol.Format(common.HuobiFormat), terminalOrderTypes, "", "", openOrderStates, "", 0)
	if err != nil {
		return nil, err
	}

	standard := symbol.Format(common.StandardFormat)
	orders := make([]*types.OpenOrder, 0, len(raw))
	for _, item := range raw {
		item["symbol"] = standard

		order, err := h.dispatch.OpenOrder(item)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, nil
}

// Deposits 充值历史，逐币种游标分页
func (h *Huobi) Deposits(ctx context.Context) ([]*types.Deposit, error) {
	raw, err := h.transferHistory(ctx, "deposit")
	if err != nil {
		return nil, err
	}

	deposits := make([]*types.Deposit, 0, len(raw))
	for _, item := range raw {
		deposit, err := h.dispatch.Deposit(item)
		if err != nil {
			return nil, err
		}
		deposits = append(deposits, deposit)
	}
	return deposits, nil
}

// Withdrawals 提现历史，逐币种游标分页
func (h *Huobi) Withdrawals(ctx context.Context) ([]*types.Withdrawal, error) {
	raw, err := h.transferHistory(ctx, "withdraw")
	if err != nil {
		return nil, err
	}

	withdrawals := make([]*types.Withdrawal, 0, len(raw))
	for _, item := range raw {
		withdrawal, err := h.dispatch.Withdrawal(item)
		if err != nil {
			return nil, err
		}
		withdrawals = append(withdrawals, withdrawal)
	}
	return withdrawals, nil
}

func (h *Huobi) transferHistory(ctx context.Context, transferType string) ([]map[string]interface{}, error) {
	if err := h.ensureClient(); err != nil {
		return nil, err
	}

	wallet, err := h.Wallet(ctx)
	if err != nil {
		return nil, err
	}

	var all []map[string]interface{}
	for _, asset := range sortedAssets(wallet) {
		currency := strings.ToLower(asset)
		items, err := base.FollowCursor(func(cursor string) ([]map[string]interface{}, error) {
			return h.client.DepositWithdrawals(ctx, currency, transferType, cursor)
		})
		if err != nil {
			return nil, err
		}
		all = append(all, items...)
	}
	return all, nil
}

// Market 市场深度
func (h *Huobi) Market(ctx context.Context, symbol *common.Symbol, depth int) (*types.OrderBook, error) {
	if err := h.ensureClient(); err != nil {
		return nil, err
	}

	tick, err := h.client.MarketDepth(ctx, symbol.Format(common.HuobiFormat), "step0")
	if err != nil {
		return nil, err
	}

	bids, err := h.bookSide(tick, "bids", depth)
	if err != nil {
		return nil, err
	}
	asks, err := h.bookSide(tick, "asks", depth)
	if err != nil {
		return nil, err
	}

	return &types.OrderBook{
		Symbol: symbol.Format(common.StandardFormat),
		Bids:   bids,
		Asks:   asks,
	}, nil
}

func (h *Huobi) bookSide(tick map[string]interface{}, side string, depth int) ([]*types.OrderBookEntry, error) {
	raw, ok := tick[side].([]interface{})
	if !ok {
		return nil, fmt.Errorf("%w: depth tick has no %q side", base.ErrMalformedResponse, side)
	}
	if depth > 0 && len(raw) > depth {
		raw = raw[:depth]
	}

	entries := make([]*types.OrderBookEntry, 0, len(raw))
	for _, item := range raw {
		entry, err := h.dispatch.OrderBookEntry(item)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// Symbols 已上市交易对
func (h *Huobi) Symbols(ctx context.Context) ([]*types.SymbolInfo, error) {
	if err := h.ensureClient(); err != nil {
		return nil, err
	}

	raw, err := h.client.CommonSymbols(ctx)
	if err != nil {
		return nil, err
	}

	symbols := make([]*types.SymbolInfo, 0, len(raw))
	for _, item := range raw {
		info, err := h.dispatch.SymbolInfo(item)
		if err != nil {
			return nil, err
		}
		symbols = append(symbols, info)
	}
	return symbols, nil
}

// Candles K线，Huobi 不支持
func (h *Huobi) Candles(ctx context.Context, symbol *common.Symbol, interval string, limit int) ([]*types.Candle, error) {
	return nil, fmt.Errorf("%w: candles are not available on huobi", base.ErrNotImplemented)
}

func stringField(m map[string]interface{}, key string) (string, error) {
	v, ok := m[key].(string)
	if !ok {
		return "", fmt.Errorf("%w: missing field %q", base.ErrMalformedResponse, key)
	}
	return v, nil
}

func floatField(m map[string]interface{}, key string) (float64, error) {
	switch v := m[key].(type) {
	case float64:
		return v, nil
	case string:
		var d types.ExDecimal
		if err := d.UnmarshalJSON([]byte(`"` + v + `"`)); err != nil {
			return 0, fmt.Errorf("%w: field %q: %v", base.ErrMalformedResponse, key, err)
		}
		return d.InexactFloat64(), nil
	case nil:
		return 0, nil
	default:
		return 0, fmt.Errorf("%w: field %q is not numeric", base.ErrMalformedResponse, key)
	}
}

func cursorID(id interface{}) string {
	switch v := id.(type) {
	case string:
		return v
	case float64:
		return fmt.Sprintf("%.0f", v)
	default:
		return fmt.Sprintf("%v", v)
	}
}

func sortedAssets(wallet map[string]float64) []string {
	assets := make([]string, 0, len(wallet))
	for asset := range wallet {
		assets = append(assets, asset)
	}
	sort.Strings(assets)
	return assets
}
