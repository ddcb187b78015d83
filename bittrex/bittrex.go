package bittrex

import (
	"context"
	"fmt"
	"strings"

	"github.com/wall-one/exchange-connector/base"
	"github.com/wall-one/exchange-connector/common"
	"github.com/wall-one/exchange-connector/factory"
	"github.com/wall-one/exchange-connector/types"
)

// Bittrex base.Exchange 实现
type Bittrex struct {
	authenticator base.Authenticator
	dispatch      *factory.Dispatch
	client        Client
	conn          *base.Connection
	clientOpts    []ClientOption
	fixedClient   bool
}

// Option 适配器配置选项
type Option func(*Bittrex)

// WithClient 注入自定义原始客户端（测试或替换传输层）
func WithClient(client Client) Option {
	return func(b *Bittrex) {
		b.client = client
		b.fixedClient = true
	}
}

// WithClientOptions 透传给默认 HTTP 客户端的选项
func WithClientOptions(opts ...ClientOption) Option {
	return func(b *Bittrex) {
		b.clientOpts = opts
	}
}

// WithAuthenticator 替换令牌编码实现
func WithAuthenticator(authenticator base.Authenticator) Option {
	return func(b *Bittrex) {
		b.authenticator = authenticator
	}
}

// New 创建 Bittrex 适配器
func New(opts ...Option) *Bittrex {
	b := &Bittrex{
		authenticator: base.TokenAuthenticator{},
		dispatch:      factory.NewDispatch(base.LabelBittrex),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// SplitMarketName 解析 Bittrex 原生市场名（BASE-QUOTE）
func (b *Bittrex) SplitMarketName(symbol string) (*common.Symbol, error) {
	parts := strings.Split(symbol, "-")
	if len(parts) != 2 {
		return nil, fmt.Errorf("invalid bittrex market name: %s", symbol)
	}
	return common.NewSymbol(parts[0], parts[1]), nil
}

// Auth 编码连接为不透明令牌
func (b *Bittrex) Auth(conn *base.Connection) (string, error) {
	return b.authenticator.Auth(conn)
}

// WithConnection 绑定连接凭证
func (b *Bittrex) WithConnection(conn *base.Connection) error {
	b.conn = conn
	if !b.fixedClient {
		b.client = NewClient(conn.APIKey, conn.SecretKey, b.clientOpts...)
	}
	return nil
}

// Authenticated 是否已绑定连接
func (b *Bittrex) Authenticated() bool {
	return b.conn != nil && b.client != nil
}

func (b *Bittrex) ensureClient() error {
	if b.client == nil {
		return fmt.Errorf("%w: use WithConnection first", base.ErrNotAuthenticated)
	}
	return nil
}

// Wallet 总余额
func (b *Bittrex) Wallet(ctx context.Context) (map[string]float64, error) {
	return b.balances(ctx, "Balance")
}

// Available 可用余额
func (b *Bittrex) Available(ctx context.Context) (map[string]float64, error) {
	return b.balances(ctx, "Available")
}

func (b *Bittrex) balances(ctx context.Context, field string) (map[string]float64, error) {
	if err := b.ensureClient(); err != nil {
		return nil, err
	}

	items, err := b.client.Balances(ctx)
	if err != nil {
		return nil, err
	}

	wallet := make(map[string]float64)
	for _, item := range items {
		currency, err := stringField(item, "Currency")
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

// Orders 历史订单
// Bittrex 有单一全市场历史端点，sinceOrderID 只能在客户端过滤。
func (b *Bittrex) Orders(ctx context.Context, limit int, sinceOrderID string) ([]*types.Order, error) {
	if err := b.ensureClient(); err != nil {
		return nil, err
	}

	raw, err := b.client.OrderHistory(ctx)
	if err != nil {
		return nil, err
	}

	orders := make([]*types.Order, 0, len(raw))
	for _, item := range raw {
		order, err := b.dispatch.Order(item)
		if err != nil {
			return nil, err
		}
		if sinceOrderID != "" && order.ID <= sinceOrderID {
			continue
		}
		orders = append(orders, order)
	}

	if limit > 0 && len(orders) > limit {
		orders = orders[:limit]
	}
	return orders, nil
}

// OrdersBySymbol 单交易对终态订单
func (b *Bittrex) OrdersBySymbol(ctx context.Context, symbol *common.Symbol, limit int, sinceOrderID string) ([]*types.Order, error) {
	all, err := b.Orders(ctx, 0, sinceOrderID)
	if err != nil {
		return nil, err
	}

	standard := symbol.Format(common.StandardFormat)
	orders := make([]*types.Order, 0, len(all))
	for _, order := range all {
		if order.Symbol != standard {
			continue
		}
		orders = append(orders, order)
		if limit > 0 && len(orders) >= limit {
			break
		}
	}
	return orders, nil
}

// OrderInfo 查询单个订单
func (b *Bittrex) OrderInfo(ctx context.Context, symbol *common.Symbol, id string) (*types.Order, error) {
	if err := b.ensureClient(); err != nil {
		return nil, err
	}

	raw, err := b.client.Order(ctx, id)
	if err != nil {
		return nil, err
	}
	return b.dispatch.Order(raw)
}

// CreateOrder 下单
// v1.1 接口只有限价单，市价单不受支持。
func (b *Bittrex) CreateOrder(ctx context.Context, orderType, side string, symbol *common.Symbol, price, qty float64) (string, error) {
	if err := b.ensureClient(); err != nil {
		return "", err
	}

	typ := types.OrderType(orderType)
	if !typ.Valid() {
		return "", fmt.Errorf("%w: %s", base.ErrUnsupportedOrderType, orderType)
	}
	if types.OrderType(typ.Lower()) == types.OrderTypeMarket {
		return "", fmt.Errorf("%w: market orders are not supported on bittrex", base.ErrUnsupportedOrderType)
	}
	if !types.OrderSide(side).Valid() {
		return "", fmt.Errorf("%w: unknown side %q", base.ErrConfiguration, side)
	}

	market := symbol.Format(common.BittrexFormat)
	var (
		placed map[string]interface{}
		err    error
	)
	if types.OrderSide(strings.ToLower(side)) == types.OrderSideBuy {
		placed, err = b.client.BuyLimit(ctx, market, qty, price)
	} else {
		placed, err = b.client.SellLimit(ctx, market, qty, price)
	}
	if err != nil {
		return "", err
	}
	return stringField(placed, "uuid")
}

// StopLoss 止损单，Bittrex 不支持
func (b *Bittrex) StopLoss(ctx context.Context, side string, symbol *common.Symbol, price, qty, stopPrice float64) (string, error) {
	return "", fmt.Errorf("%w: stop loss is not supported on bittrex", base.ErrUnsupportedOrderType)
}

// TakeProfit 止盈单，Bittrex 不支持
func (b *Bittrex) TakeProfit(ctx context.Context, side string, symbol *common.Symbol, price, qty, stopPrice float64) (string, error) {
	return "", fmt.Errorf("%w: take profit is not supported on bittrex", base.ErrUnsupportedOrderType)
}

// CancelOrder 撤单，失败一律返回 false
func (b *Bittrex) CancelOrder(ctx context.Context, target base.CancelTarget) bool {
	if b.client == nil {
		return false
	}

	if target.Symbol != nil {
		orders, err := b.OpenOrders(ctx, target.Symbol)
		if err != nil {
			return false
		}
		for _, order := range orders {
			if err := b.client.Cancel(ctx, order.ID); err != nil {
				return false
			}
		}
		return true
	}

	return b.client.Cancel(ctx, target.OrderID) == nil
}

// OpenOrders 交易对挂单
func (b *Bittrex) OpenOrders(ctx context.Context, symbol *common.Symbol) ([]*types.OpenOrder, error) {
	if err := b.ensureClient(); err != nil {
		return nil, err
	}

	raw, err := b.client.OpenOrders(ctx, symbol.Format(common.BittrexFormat))
	if err != nil {
		return nil, err
	}

	orders := make([]*types.OpenOrder, 0, len(raw))
	for _, item := range raw {
		order, err := b.dispatch.OpenOrder(item)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, nil
}

// Deposits 充值历史
func (b *Bittrex) Deposits(ctx context.Context) ([]*types.Deposit, error) {
	if err := b.ensureClient(); err != nil {
		return nil, err
	}

	raw, err := b.client.DepositHistory(ctx)
	if err != nil {
		return nil, err
	}

	deposits := make([]*types.Deposit, 0, len(raw))
	for _, item := range raw {
		deposit, err := b.dispatch.Deposit(item)
		if err != nil {
			return nil, err
		}
		deposits = append(deposits, deposit)
	}
	return deposits, nil
}

// Withdrawals 提现历史
func (b *Bittrex) Withdrawals(ctx context.Context) ([]*types.Withdrawal, error) {
	if err := b.ensureClient(); err != nil {
		return nil, err
	}

	raw, err := b.client.WithdrawalHistory(ctx)
	if err != nil {
		return nil, err
	}

	withdrawals := make([]*types.Withdrawal, 0, len(raw))
	for _, item := range raw {
		withdrawal, err := b.dispatch.Withdrawal(item)
		if err != nil {
			return nil, err
		}
		withdrawals = append(withdrawals, withdrawal)
	}
	return withdrawals, nil
}

// Market 市场深度
func (b *Bittrex) Market(ctx context.Context, symbol *common.Symbol, depth int) (*types.OrderBook, error) {
	if err := b.ensureClient(); err != nil {
		return nil, err
	}

	raw, err := b.client.OrderBook(ctx, symbol.Format(common.BittrexFormat))
	if err != nil {
		return nil, err
	}

	bids, err := b.bookSide(raw, "buy", depth)
	if err != nil {
		return nil, err
	}
	asks, err := b.bookSide(raw, "sell", depth)
	if err != nil {
		return nil, err
	}

	return &types.OrderBook{
		Symbol: symbol.Format(common.StandardFormat),
		Bids:   bids,
		Asks:   asks,
	}, nil
}

func (b *Bittrex) bookSide(book map[string]interface{}, side string, depth int) ([]*types.OrderBookEntry, error) {
	raw, ok := book[side].([]interface{})
	if !ok {
		return nil, fmt.Errorf("%w: order book has no %q side", base.ErrMalformedResponse, side)
	}
	if depth > 0 && len(raw) > depth {
		raw = raw[:depth]
	}

	entries := make([]*types.OrderBookEntry, 0, len(raw))
	for _, item := range raw {
		entry, err := b.dispatch.OrderBookEntry(item)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// Symbols 已上市交易对
func (b *Bittrex) Symbols(ctx context.Context) ([]*types.SymbolInfo, error) {
	if err := b.ensureClient(); err != nil {
		return nil, err
	}

	raw, err := b.client.Markets(ctx)
	if err != nil {
		return nil, err
	}

	symbols := make([]*types.SymbolInfo, 0, len(raw))
	for _, item := range raw {
		info, err := b.dispatch.SymbolInfo(item)
		if err != nil {
			return nil, err
		}
		symbols = append(symbols, info)
	}
	return symbols, nil
}

// Candles K线，Bittrex 不支持
func (b *Bittrex) Candles(ctx context.Context, symbol *common.Symbol, interval string, limit int) ([]*types.Candle, error) {
	return nil, fmt.Errorf("%w: candles are not available on bittrex", base.ErrNotImplemented)
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
	case nil:
		return 0, nil
	default:
		return 0, fmt.Errorf("%w: field %q is not numeric", base.ErrMalformedResponse, key)
	}
}
