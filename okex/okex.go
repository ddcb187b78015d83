package okex

import (
	"context"
	"fmt"
	"strings"

	"github.com/wall-one/exchange-connector/base"
	"github.com/wall-one/exchange-connector/common"
	"github.com/wall-one/exchange-connector/factory"
	"github.com/wall-one/exchange-connector/types"
)

// OKEx base.Exchange 实现
type OKEx struct {
	authenticator base.Authenticator
	dispatch      *factory.Dispatch
	client        Client
	conn          *base.Connection
	clientOpts    []ClientOption
	fixedClient   bool
}

// Option 适配器配置选项
type Option func(*OKEx)

// WithClient 注入自定义原始客户端
func WithClient(client Client) Option {
	return func(o *OKEx) {
		o.client = client
		o.fixedClient = true
	}
}

// WithClientOptions 透传给默认 HTTP 客户端的选项
func WithClientOptions(opts ...ClientOption) Option {
	return func(o *OKEx) {
		o.clientOpts = opts
	}
}

// WithAuthenticator 替换令牌编码实现
func WithAuthenticator(authenticator base.Authenticator) Option {
	return func(o *OKEx) {
		o.authenticator = authenticator
	}
}

// New 创建 OKEx 适配器
func New(opts ...Option) *OKEx {
	o := &OKEx{
		authenticator: base.TokenAuthenticator{},
		dispatch:      factory.NewDispatch(base.LabelOkex),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// SplitMarketName 解析 OKEx 原生 instrument（BASE-QUOTE）
func (o *OKEx) SplitMarketName(symbol string) (*common.Symbol, error) {
	parts := strings.Split(symbol, "-")
	if len(parts) != 2 {
		return nil, fmt.Errorf("invalid okex instrument: %s", symbol)
	}
	return common.NewSymbol(parts[0], parts[1]), nil
}

// Auth 编码连接为不透明令牌
func (o *OKEx) Auth(conn *base.Connection) (string, error) {
	return o.authenticator.Auth(conn)
}

// WithConnection 绑定连接凭证，customer id 为 API passphrase
func (o *OKEx) WithConnection(conn *base.Connection) error {
	o.conn = conn
	if !o.fixedClient {
		o.client = NewClient(conn.APIKey, conn.SecretKey, conn.CustomerID, o.clientOpts...)
	}
	return nil
}

// Authenticated 是否已绑定连接
func (o *OKEx) Authenticated() bool {
	return o.conn != nil && o.client != nil
}

func (o *OKEx) ensureClient() error {
	if o.client == nil {
		return fmt.Errorf("%w: use WithConnection first", base.ErrNotAuthenticated)
	}
	return nil
}

// Wallet 总余额
func (o *OKEx) Wallet(ctx context.Context) (map[string]float64, error) {
	return o.balances(ctx, "balance")
}

// Available 可用余额
func (o *OKEx) Available(ctx context.Context) (map[string]float64, error) {
	return o.balances(ctx, "available")
}

func (o *OKEx) balances(ctx context.Context, field string) (map[string]float64, error) {
	if err := o.ensureClient(); err != nil {
		return nil, err
	}

	items, err := o.client.WalletInfo(ctx)
	if err != nil {
		return nil, err
	}

	wallet := make(map[string]float64)
	for _, item := range items {
		currency, err := stringField(item, "currency")
		if err != nil {
			return nil, err
		}
		amount, err := floatField(item, field)
		if err != nil {
			return nil, err
		}
		if amount > base.DustThreshold {
			wallet[strings.ToUpper(currency)] = amount
		}
	}
	return wallet, nil
}

// Orders 跨交易对历史订单
func (o *OKEx) Orders(ctx context.Context, limit int, sinceOrderID string) ([]*types.Order, error) {
	wallet, err := o.Wallet(ctx)
	if err != nil {
		return nil, err
	}
	lookup, err := o.pairLookup(ctx)
	if err != nil {
		return nil, err
	}
	return base.ScanPairs(ctx, wallet, lookup, o.OrdersBySymbol, limit, sinceOrderID)
}

func (o *OKEx) pairLookup(ctx context.Context) (base.PairLookup, error) {
	symbols, err := o.Symbols(ctx)
	if err != nil {
		return nil, err
	}

	ids := make(map[string]bool, len(symbols))
	for _, info := range symbols {
		ids[info.ID] = true
	}

	return func(asset1, asset2 string) (*common.Symbol, bool) {
		if !ids[asset1+"-"+asset2] {
			return nil, false
		}
		return common.NewSymbol(asset1, asset2), true
	}, nil
}

// OrdersBySymbol 单交易对终态订单
// 列表端点按 order_id 游标分页；sinceOrderID 命中后才开始收集。
func (o *OKEx) OrdersBySymbol(ctx context.Context, symbol *common.Symbol, limit int, sinceOrderID string) ([]*types.Order, error) {
	if err := o.ensureClient(); err != nil {
		return nil, err
	}

	instrument := symbol.Format(common.OkexFormat)
	raw, err := o.followOrderCursor(ctx, func(after string) ([]map[string]interface{}, error) {
		return o.client.Orders(ctx, instrument, after)
	})
	if err != nil {
		return nil, err
	}

	if sinceOrderID != "" {
		found := false
		filtered := raw[:0]
		for _, item := range raw {
			if id, _ := item["order_id"].(string); id == sinceOrderID {
				found = true
			}
			if found {
				filtered = append(filtered, item)
			}
		}
		raw = filtered
	}

	orders := make([]*types.Order, 0, len(raw))
	for _, item := range raw {
		order, err := o.dispatch.Order(item)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
		if limit > 0 && len(orders) >= limit {
			break
		}
	}
	return orders, nil
}

// followOrderCursor order_id 游标分页，页满 100 条则继续
func (o *OKEx) followOrderCursor(ctx context.Context, page func(after string) ([]map[string]interface{}, error)) ([]map[string]interface{}, error) {
	var all []map[string]interface{}
	after := ""

	for {
		items, err := page(after)
		if err != nil {
			return nil, err
		}
		all = append(all, items...)

		if len(items) < base.PageSize {
			return all, nil
		}

		last := items[len(items)-1]
		id, ok := last["order_id"].(string)
		if !ok {
			return nil, fmt.Errorf("%w: okex order has no order_id for cursor", base.ErrMalformedResponse)
		}
		after = id
	}
}

// OrderInfo 查询单个订单
func (o *OKEx) OrderInfo(ctx context.Context, symbol *common.Symbol, id string) (*types.Order, error) {
	if err := o.ensureClient(); err != nil {
		return nil, err
	}

	raw, err := o.client.OrderInfo(ctx, symbol.Format(common.OkexFormat), id)
	if err != nil {
		return nil, err
	}
	return o.dispatch.Order(raw)
}

// CreateOrder 下单，市价单不带价格
func (o *OKEx) CreateOrder(ctx context.Context, orderType, side string, symbol *common.Symbol, price, qty float64) (string, error) {
	if err := o.ensureClient(); err != nil {
		return "", err
	}

	typ := types.OrderType(orderType)
	if !typ.Valid() {
		return "", fmt.Errorf("%w: %s", base.ErrUnsupportedOrderType, orderType)
	}
	if !types.OrderSide(side).Valid() {
		return "", fmt.Errorf("%w: unknown side %q", base.ErrConfiguration, side)
	}

	placed, err := o.client.PlaceOrder(ctx, typ.Lower(), strings.ToLower(side), symbol.Format(common.OkexFormat), qty, price)
	if err != nil {
		return "", err
	}
	return stringField(placed, "order_id")
}

// StopLoss 止损单，OKEx 不支持
func (o *OKEx) StopLoss(ctx context.Context, side string, symbol *common.Symbol, price, qty, stopPrice float64) (string, error) {
	return "", fmt.Errorf("%w: stop loss is not supported on okex", base.ErrUnsupportedOrderType)
}

// TakeProfit 止盈单，OKEx 不支持
func (o *OKEx) TakeProfit(ctx context.Context, side string, symbol *common.Symbol, price, qty, stopPrice float64) (string, error) {
	return "", fmt.Errorf("%w: take profit is not supported on okex", base.ErrUnsupportedOrderType)
}

// CancelOrder 撤单，失败一律返回 false
// OKEx 撤单必须带 instrument，裸订单 ID 无法撤。
func (o *OKEx) CancelOrder(ctx context.Context, target base.CancelTarget) bool {
	if o.client == nil || target.Symbol == nil {
		return false
	}

	orders, err := o.OpenOrders(ctx, target.Symbol)
	if err != nil {
		return false
	}

	instrument := target.Symbol.Format(common.OkexFormat)
	for _, order := range orders {
		if err := o.client.Cancel(ctx, instrument, order.ID); err != nil {
			return false
		}
	}
	return true
}

// OpenOrders 交易对挂单
func (o *OKEx) OpenOrders(ctx context.Context, symbol *common.Symbol) ([]*types.OpenOrder, error) {
	if err := o.ensureClient(); err != nil {
		return nil, err
	}

	instrument := symbol.Format(common.OkexFormat)
	raw, err := o.followOrderCursor(ctx, func(after string) ([]map[string]interface{}, error) {
		return o.client.OpenOrders(ctx, instrument, after)
	})
	if err != nil {
		return nil, err
	}

	orders := make([]*types.OpenOrder, 0, len(raw))
	for _, item := range raw {
		order, err := o.dispatch.OpenOrder(item)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, nil
}

// Deposits 充值历史
func (o *OKEx) Deposits(ctx context.Context) ([]*types.Deposit, error) {
	if err := o.ensureClient(); err != nil {
		return nil, err
	}

	raw, err := o.client.Deposits(ctx)
	if err != nil {
		return nil, err
	}

	deposits := make([]*types.Deposit, 0, len(raw))
	for _, item := range raw {
		deposit, err := o.dispatch.Deposit(item)
		if err != nil {
			return nil, err
		}
		deposits = append(deposits, deposit)
	}
	return deposits, nil
}

// Withdrawals 提现历史
func (o *OKEx) Withdrawals(ctx context.Context) ([]*types.Withdrawal, error) {
	if err := o.ensureClient(); err != nil {
		return nil, err
	}

	raw, err := o.client.Withdrawals(ctx)
	if err != nil {
		return nil, err
	}

	withdrawals := make([]*types.Withdrawal, 0, len(raw))
	for _, item := range raw {
		withdrawal, err := o.dispatch.Withdrawal(item)
		if err != nil {
			return nil, err
		}
		withdrawals = append(withdrawals, withdrawal)
	}
	return withdrawals, nil
}

// Market 市场深度
func (o *OKEx) Market(ctx context.Context, symbol *common.Symbol, depth int) (*types.OrderBook, error) {
	if err := o.ensureClient(); err != nil {
		return nil, err
	}

	book, err := o.client.OrderBook(ctx, symbol.Format(common.OkexFormat), depth)
	if err != nil {
		return nil, err
	}

	bids, err := o.bookSide(book, "bids", depth)
	if err != nil {
		return nil, err
	}
	asks, err := o.bookSide(book, "asks", depth)
	if err != nil {
		return nil, err
	}

	return &types.OrderBook{
		Symbol: symbol.Format(common.StandardFormat),
		Bids:   bids,
		Asks:   asks,
	}, nil
}

func (o *OKEx) bookSide(book map[string]interface{}, side string, depth int) ([]*types.OrderBookEntry, error) {
	raw, ok := book[side].([]interface{})
	if !ok {
		return nil, fmt.Errorf("%w: order book has no %q side", base.ErrMalformedResponse, side)
	}
	if depth > 0 && len(raw) > depth {
		raw = raw[:depth]
	}

	entries := make([]*types.OrderBookEntry, 0, len(raw))
	for _, item := range raw {
		entry, err := o.dispatch.OrderBookEntry(item)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// Symbols 已上市交易对
func (o *OKEx) Symbols(ctx context.Context) ([]*types.SymbolInfo, error) {
	if err := o.ensureClient(); err != nil {
		return nil, err
	}

	raw, err := o.client.Instruments(ctx)
	if err != nil {
		return nil, err
	}

	symbols := make([]*types.SymbolInfo, 0, len(raw))
	for _, item := range raw {
		info, err := o.dispatch.SymbolInfo(item)
		if err != nil {
			return nil, err
		}
		symbols = append(symbols, info)
	}
	return symbols, nil
}

// Candles K线，OKEx 不支持
func (o *OKEx) Candles(ctx context.Context, symbol *common.Symbol, interval string, limit int) ([]*types.Candle, error) {
	return nil, fmt.Errorf("%w: candles are not available on okex", base.ErrNotImplemented)
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
