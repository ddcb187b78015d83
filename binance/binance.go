package binance

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/wall-one/exchange-connector/base"
	"github.com/wall-one/exchange-connector/common"
	"github.com/wall-one/exchange-connector/factory"
	"github.com/wall-one/exchange-connector/types"
)

// kline 数组各下标对应的字段名，归一化器只认键名
var klineFields = []string{
	"openTime", "open", "high", "low", "close", "volume",
	"closeTime", "assetVolume", "trades", "takerBuyVolume", "assetBuyVolume",
}

// Binance base.Exchange 实现
type Binance struct {
	authenticator base.Authenticator
	dispatch      *factory.Dispatch
	client        Client
	conn          *base.Connection
	clientOpts    []ClientOption
	fixedClient   bool
}

// Option 适配器配置选项
type Option func(*Binance)

// WithClient 注入自定义原始客户端
func WithClient(client Client) Option {
	return func(b *Binance) {
		b.client = client
		b.fixedClient = true
	}
}

// WithClientOptions 透传给默认 HTTP 客户端的选项
func WithClientOptions(opts ...ClientOption) Option {
	return func(b *Binance) {
		b.clientOpts = opts
	}
}

// WithAuthenticator 替换令牌编码实现
func WithAuthenticator(authenticator base.Authenticator) Option {
	return func(b *Binance) {
		b.authenticator = authenticator
	}
}

// New 创建 Binance 适配器
func New(opts ...Option) *Binance {
	b := &Binance{
		authenticator: base.TokenAuthenticator{},
		dispatch:      factory.NewDispatch(base.LabelBinance),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// SplitMarketName 原生 BTCUSDT 无法独立切分
func (b *Binance) SplitMarketName(symbol string) (*common.Symbol, error) {
	return nil, fmt.Errorf("%w: binance market names cannot be split without the symbol table", base.ErrNotImplemented)
}

// Auth 编码连接为不透明令牌
func (b *Binance) Auth(conn *base.Connection) (string, error) {
	return b.authenticator.Auth(conn)
}

// WithConnection 绑定连接凭证
func (b *Binance) WithConnection(conn *base.Connection) error {
	b.conn = conn
	if !b.fixedClient {
		b.client = NewClient(conn.APIKey, conn.SecretKey, b.clientOpts...)
	}
	return nil
}

// Authenticated 是否已绑定连接
func (b *Binance) Authenticated() bool {
	return b.conn != nil && b.client != nil
}

func (b *Binance) ensureClient() error {
	if b.client == nil {
		return fmt.Errorf("%w: use WithConnection first", base.ErrNotAuthenticated)
	}
	return nil
}

// Wallet 总余额（可用 + 冻结）
func (b *Binance) Wallet(ctx context.Context) (map[string]float64, error) {
	return b.balances(ctx, true)
}

// Available 可用余额
func (b *Binance) Available(ctx context.Context) (map[string]float64, error) {
	return b.balances(ctx, false)
}

func (b *Binance) balances(ctx context.Context, includeLocked bool) (map[string]float64, error) {
	if err := b.ensureClient(); err != nil {
		return nil, err
	}

	items, err := b.client.Balances(ctx)
	if err != nil {
		return nil, err
	}

	wallet := make(map[string]float64)
	for _, item := range items {
		asset, err := stringField(item, "asset")
		if err != nil {
			return nil, err
		}
		total, err := floatField(item, "free")
		if err != nil {
			return nil, err
		}
		if includeLocked {
			locked, err := floatField(item, "locked")
			if err != nil {
				return nil, err
			}
			total += locked
		}
		if total > base.DustThreshold {
			wallet[strings.ToUpper(asset)] = total
		}
	}
	return wallet, nil
}

// Orders 跨交易对历史订单
// Binance 没有全市场历史端点，用持仓资产两两组合扫描。
func (b *Binance) Orders(ctx context.Context, limit int, sinceOrderID string) ([]*types.Order, error) {
	wallet, err := b.Wallet(ctx)
	if err != nil {
		return nil, err
	}
	lookup, err := b.pairLookup(ctx)
	if err != nil {
		return nil, err
	}
	return base.ScanPairs(ctx, wallet, lookup, b.OrdersBySymbol, limit, sinceOrderID)
}

func (b *Binance) pairLookup(ctx context.Context) (base.PairLookup, error) {
	symbols, err := b.Symbols(ctx)
	if err != nil {
		return nil, err
	}

	ids := make(map[string]bool, len(symbols))
	for _, info := range symbols {
		ids[info.ID] = true
	}

	return func(asset1, asset2 string) (*common.Symbol, bool) {
		if !ids[asset1+asset2] {
			return nil, false
		}
		return common.NewSymbol(asset1, asset2), true
	}, nil
}

// OrdersBySymbol 单交易对终态订单
// NEW 和 PARTIALLY_FILLED 属于在途订单，从历史列表剔除。
func (b *Binance) OrdersBySymbol(ctx context.Context, symbol *common.Symbol, limit int, sinceOrderID string) ([]*types.Order, error) {
	if err := b.ensureClient(); err != nil {
		return nil, err
	}

	if sinceOrderID == "" {
		sinceOrderID = "1"
	}

	raw, err := b.client.Orders(ctx, symbol.Format(common.BinanceFormat), limit, sinceOrderID)
	if err != nil {
		return nil, err
	}

	standard := symbol.Format(common.StandardFormat)
	orders := make([]*types.Order, 0, len(raw))
	for _, item := range raw {
		if status, _ := item["status"].(string); status == "NEW" || status == "PARTIALLY_FILLED" {
			continue
		}
		item["symbol"] = standard

		order, err := b.dispatch.Order(item)
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

// OrderInfo 查询单个订单
func (b *Binance) OrderInfo(ctx context.Context, symbol *common.Symbol, id string) (*types.Order, error) {
	if err := b.ensureClient(); err != nil {
		return nil, err
	}

	raw, err := b.client.OrderStatus(ctx, symbol.Format(common.BinanceFormat), id)
	if err != nil {
		return nil, err
	}
	raw["symbol"] = symbol.Format(common.StandardFormat)

	return b.dispatch.Order(raw)
}

// CreateOrder 下单
func (b *Binance) CreateOrder(ctx context.Context, orderType, side string, symbol *common.Symbol, price, qty float64) (string, error) {
	if err := b.ensureClient(); err != nil {
		return "", err
	}

	typ := types.OrderType(orderType)
	if !typ.Valid() {
		return "", fmt.Errorf("%w: %s", base.ErrUnsupportedOrderType, orderType)
	}
	if !types.OrderSide(side).Valid() {
		return "", fmt.Errorf("%w: unknown side %q", base.ErrConfiguration, side)
	}

	placed, err := b.client.PlaceOrder(ctx, symbol.Format(common.BinanceFormat), side, typ.Lower(), qty, price)
	if err != nil {
		return "", err
	}

	id, ok := placed["orderId"]
	if !ok {
		return "", fmt.Errorf("%w: placed order has no orderId", base.ErrMalformedResponse)
	}
	switch v := id.(type) {
	case string:
		return v, nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	default:
		return fmt.Sprintf("%v", v), nil
	}
}

// StopLoss 止损单，未开放
func (b *Binance) StopLoss(ctx context.Context, side string, symbol *common.Symbol, price, qty, stopPrice float64) (string, error) {
	return "", fmt.Errorf("%w: stop loss is not supported on binance", base.ErrUnsupportedOrderType)
}

// TakeProfit 止盈单，未开放
func (b *Binance) TakeProfit(ctx context.Context, side string, symbol *common.Symbol, price, qty, stopPrice float64) (string, error) {
	return "", fmt.Errorf("%w: take profit is not supported on binance", base.ErrUnsupportedOrderType)
}

// CancelOrder 撤单，失败一律返回 false
// Binance 撤单必须带交易对，裸订单 ID 无法撤。
func (b *Binance) CancelOrder(ctx context.Context, target base.CancelTarget) bool {
	if b.client == nil || target.Symbol == nil {
		return false
	}

	orders, err := b.OpenOrders(ctx, target.Symbol)
	if err != nil {
		return false
	}

	market := target.Symbol.Format(common.BinanceFormat)
	for _, order := range orders {
		if err := b.client.Cancel(ctx, market, order.ID); err != nil {
			return false
		}
	}
	return true
}

// OpenOrders 交易对挂单
func (b *Binance) OpenOrders(ctx context.Context, symbol *common.Symbol) ([]*types.OpenOrder, error) {
	if err := b.ensureClient(); err != nil {
		return nil, err
	}

	raw, err := b.client.OpenOrders(ctx, symbol.Format(common.BinanceFormat))
	if err != nil {
		return nil, err
	}

	standard := symbol.Format(common.StandardFormat)
	orders := make([]*types.OpenOrder, 0, len(raw))
	for _, item := range raw {
		item["symbol"] = standard

		order, err := b.dispatch.OpenOrder(item)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, nil
}

// Deposits 充值历史
func (b *Binance) Deposits(ctx context.Context) ([]*types.Deposit, error) {
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
func (b *Binance) Withdrawals(ctx context.Context) ([]*types.Withdrawal, error) {
	if err := b.ensureClient(); err != nil {
		return nil, err
	}

	raw, err := b.client.WithdrawHistory(ctx)
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
func (b *Binance) Market(ctx context.Context, symbol *common.Symbol, depth int) (*types.OrderBook, error) {
	if err := b.ensureClient(); err != nil {
		return nil, err
	}

	raw, err := b.client.Depth(ctx, symbol.Format(common.BinanceFormat), depth)
	if err != nil {
		return nil, err
	}

	bids, err := b.bookSide(raw, "bids", depth)
	if err != nil {
		return nil, err
	}
	asks, err := b.bookSide(raw, "asks", depth)
	if err != nil {
		return nil, err
	}

	return &types.OrderBook{
		Symbol: symbol.Format(common.StandardFormat),
		Bids:   bids,
		Asks:   asks,
	}, nil
}

func (b *Binance) bookSide(book map[string]interface{}, side string, depth int) ([]*types.OrderBookEntry, error) {
	raw, ok := book[side].([]interface{})
	if !ok {
		return nil, fmt.Errorf("%w: depth has no %q side", base.ErrMalformedResponse, side)
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
func (b *Binance) Symbols(ctx context.Context) ([]*types.SymbolInfo, error) {
	if err := b.ensureClient(); err != nil {
		return nil, err
	}

	info, err := b.client.ExchangeInfo(ctx)
	if err != nil {
		return nil, err
	}
	raw, ok := info["symbols"].([]interface{})
	if !ok {
		return nil, fmt.Errorf("%w: exchangeInfo has no symbols", base.ErrMalformedResponse)
	}

	symbols := make([]*types.SymbolInfo, 0, len(raw))
	for _, item := range raw {
		symbolInfo, err := b.dispatch.SymbolInfo(item)
		if err != nil {
			return nil, err
		}
		symbols = append(symbols, symbolInfo)
	}
	return symbols, nil
}

// Candles K线
//
// Deprecated: 仅为兼容旧调用方保留
func (b *Binance) Candles(ctx context.Context, symbol *common.Symbol, interval string, limit int) ([]*types.Candle, error) {
	if err := b.ensureClient(); err != nil {
		return nil, err
	}

	klines, err := b.client.Klines(ctx, symbol.Format(common.BinanceFormat), common.NormalizeTimeframe(interval), limit)
	if err != nil {
		return nil, err
	}

	candles := make([]*types.Candle, 0, len(klines))
	for _, kline := range klines {
		labeled := make(map[string]interface{}, len(klineFields))
		for i, field := range klineFields {
			if i < len(kline) {
				labeled[field] = kline[i]
			}
		}

		candle, err := b.dispatch.Candle(labeled)
		if err != nil {
			return nil, err
		}
		candles = append(candles, candle)
	}
	return candles, nil
}

func stringField(m map[string]interface{}, key string) (string, error) {
	v, ok := m[key].(string)
	if !ok {
		return "", fmt.Errorf("%w: missing field %q", base.ErrMalformedResponse, key)
	}
	return v, nil
}

// floatField Binance 的余额数值以字符串下发
func floatField(m map[string]interface{}, key string) (float64, error) {
	switch v := m[key].(type) {
	case float64:
		return v, nil
	case string:
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: field %q: %v", base.ErrMalformedResponse, key, err)
		}
		return f, nil
	case nil:
		return 0, nil
	default:
		return 0, fmt.Errorf("%w: field %q is not numeric", base.ErrMalformedResponse, key)
	}
}
