// Package rest 通用 REST 交易所适配
//
// 对接远端 connector 服务：它已经完成了各交易所的归一化，
// 本适配器只负责令牌认证、{result, message, error} 信封拆解，
// 以及把标准映射还原为领域记录。
package rest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/wall-one/exchange-connector/base"
	"github.com/wall-one/exchange-connector/common"
	"github.com/wall-one/exchange-connector/types"
)

// Rest base.Exchange 实现
type Rest struct {
	http    *common.HTTPClient
	baseURL string
	token   string
}

// Option 适配器配置选项
type Option func(*Rest)

// WithProxy 设置代理
func WithProxy(proxy string) Option {
	return func(r *Rest) {
		_ = r.http.SetProxy(proxy)
	}
}

// WithDebug 打印请求与响应
func WithDebug(debug bool) Option {
	return func(r *Rest) {
		r.http.SetDebug(debug)
	}
}

// New 创建通用 REST 适配器
func New(exchangeURL string, opts ...Option) *Rest {
	r := &Rest{
		http:    common.NewHTTPClient(exchangeURL),
		baseURL: exchangeURL,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// SplitMarketName 解析标准市场名
func (r *Rest) SplitMarketName(symbol string) (*common.Symbol, error) {
	return common.SplitMarketName(symbol)
}

// Auth 远端认证，返回会话令牌
func (r *Rest) Auth(conn *base.Connection) (string, error) {
	result, err := r.request(context.Background(), http.MethodPost, "auth", nil, conn.ToMapping())
	if err != nil {
		return "", err
	}
	token, ok := result.(string)
	if !ok {
		return "", fmt.Errorf("%w: auth result is not a token", base.ErrMalformedResponse)
	}
	return token, nil
}

// WithConnection 认证并保存会话令牌
func (r *Rest) WithConnection(conn *base.Connection) error {
	token, err := r.Auth(conn)
	if err != nil {
		return err
	}
	r.token = token
	r.http.SetHeader("id", token)
	return nil
}

// Authenticated 是否已持有会话令牌
func (r *Rest) Authenticated() bool {
	return r.token != ""
}

// Wallet 总余额
func (r *Rest) Wallet(ctx context.Context) (map[string]float64, error) {
	result, err := r.get(ctx, "account/wallet", nil)
	if err != nil {
		return nil, err
	}
	return decodeBalances(result)
}

// Available 可用余额
func (r *Rest) Available(ctx context.Context) (map[string]float64, error) {
	result, err := r.get(ctx, "account/available", nil)
	if err != nil {
		return nil, err
	}
	return decodeBalances(result)
}

// Orders 历史订单
func (r *Rest) Orders(ctx context.Context, limit int, sinceOrderID string) ([]*types.Order, error) {
	params := map[string]interface{}{"limit": limit}
	if sinceOrderID != "" {
		params["orderId"] = sinceOrderID
	}

	result, err := r.get(ctx, "account/history_orders/all", params)
	if err != nil {
		return nil, err
	}
	return decodeOrders(result)
}

// OrdersBySymbol 单交易对终态订单
func (r *Rest) OrdersBySymbol(ctx context.Context, symbol *common.Symbol, limit int, sinceOrderID string) ([]*types.Order, error) {
	params := map[string]interface{}{"limit": limit}
	if sinceOrderID != "" {
		params["orderId"] = sinceOrderID
	}

	result, err := r.get(ctx, "account/"+symbol.Format(common.StandardFormat)+"/history_orders", params)
	if err != nil {
		return nil, err
	}
	return decodeOrders(result)
}

// OrderInfo 查询单个订单
func (r *Rest) OrderInfo(ctx context.Context, symbol *common.Symbol, id string) (*types.Order, error) {
	result, err := r.get(ctx, "account/"+symbol.Format(common.StandardFormat)+"/orderinfo", map[string]interface{}{
		"orderId": id,
	})
	if err != nil {
		return nil, err
	}
	obj, err := asMapping(result)
	if err != nil {
		return nil, err
	}
	return decodeOrder(obj)
}

// CreateOrder 下单
func (r *Rest) CreateOrder(ctx context.Context, orderType, side string, symbol *common.Symbol, price, qty float64) (string, error) {
	typ := types.OrderType(orderType)
	if !typ.Valid() {
		return "", fmt.Errorf("%w: %s", base.ErrUnsupportedOrderType, orderType)
	}
	if !types.OrderSide(side).Valid() {
		return "", fmt.Errorf("%w: unknown side %q", base.ErrConfiguration, side)
	}

	result, err := r.request(ctx, http.MethodPost,
		"account/"+symbol.Format(common.StandardFormat)+"/"+types.OrderSide(side).Lower(),
		nil,
		map[string]interface{}{
			"type":  typ.Lower(),
			"price": price,
			"qty":   qty,
		},
	)
	if err != nil {
		return "", err
	}

	id, ok := result.(string)
	if !ok {
		return "", fmt.Errorf("%w: create order result is not an id", base.ErrMalformedResponse)
	}
	return id, nil
}

// StopLoss 止损单，远端未开放
func (r *Rest) StopLoss(ctx context.Context, side string, symbol *common.Symbol, price, qty, stopPrice float64) (string, error) {
	return "", fmt.Errorf("%w: stop loss is not available through the rest connector", base.ErrUnsupportedOrderType)
}

// TakeProfit 止盈单，远端未开放
func (r *Rest) TakeProfit(ctx context.Context, side string, symbol *common.Symbol, price, qty, stopPrice float64) (string, error) {
	return "", fmt.Errorf("%w: take profit is not available through the rest connector", base.ErrUnsupportedOrderType)
}

// CancelOrder 撤单，失败一律返回 false
func (r *Rest) CancelOrder(ctx context.Context, target base.CancelTarget) bool {
	subject := target.OrderID
	if target.Symbol != nil {
		subject = target.Symbol.Format(common.StandardFormat)
	}

	result, err := r.request(ctx, http.MethodPost, "account/"+subject+"/cancel", nil, nil)
	if err != nil {
		return false
	}

	ok, isBool := result.(bool)
	return isBool && ok
}

// OpenOrders 交易对挂单
func (r *Rest) OpenOrders(ctx context.Context, symbol *common.Symbol) ([]*types.OpenOrder, error) {
	result, err := r.get(ctx, "account/"+symbol.Format(common.StandardFormat)+"/open_orders", nil)
	if err != nil {
		return nil, err
	}

	list, err := asMappingList(result)
	if err != nil {
		return nil, err
	}

	orders := make([]*types.OpenOrder, 0, len(list))
	for _, item := range list {
		order, err := decodeOrder(item)
		if err != nil {
			return nil, err
		}
		orders = append(orders, &types.OpenOrder{Order: *order})
	}
	return orders, nil
}

// Deposits 充值历史
func (r *Rest) Deposits(ctx context.Context) ([]*types.Deposit, error) {
	result, err := r.get(ctx, "account/deposits", nil)
	if err != nil {
		return nil, err
	}

	list, err := asMappingList(result)
	if err != nil {
		return nil, err
	}

	deposits := make([]*types.Deposit, 0, len(list))
	for _, item := range list {
		deposit, err := decodeDeposit(item)
		if err != nil {
			return nil, err
		}
		deposits = append(deposits, deposit)
	}
	return deposits, nil
}

// Withdrawals 提现历史
func (r *Rest) Withdrawals(ctx context.Context) ([]*types.Withdrawal, error) {
	result, err := r.get(ctx, "account/withdrawals", nil)
	if err != nil {
		return nil, err
	}

	list, err := asMappingList(result)
	if err != nil {
		return nil, err
	}

	withdrawals := make([]*types.Withdrawal, 0, len(list))
	for _, item := range list {
		withdrawal, err := decodeWithdrawal(item)
		if err != nil {
			return nil, err
		}
		withdrawals = append(withdrawals, withdrawal)
	}
	return withdrawals, nil
}

// Market 市场深度
func (r *Rest) Market(ctx context.Context, symbol *common.Symbol, depth int) (*types.OrderBook, error) {
	result, err := r.get(ctx, "public/"+symbol.Format(common.StandardFormat)+"/order_book", map[string]interface{}{
		"depth": depth,
	})
	if err != nil {
		return nil, err
	}

	obj, err := asMapping(result)
	if err != nil {
		return nil, err
	}
	return decodeOrderBook(obj)
}

// Symbols 已上市交易对
func (r *Rest) Symbols(ctx context.Context) ([]*types.SymbolInfo, error) {
	result, err := r.get(ctx, "public/symbols", nil)
	if err != nil {
		return nil, err
	}

	list, err := asMappingList(result)
	if err != nil {
		return nil, err
	}

	symbols := make([]*types.SymbolInfo, 0, len(list))
	for _, item := range list {
		info, err := decodeSymbolInfo(item)
		if err != nil {
			return nil, err
		}
		symbols = append(symbols, info)
	}
	return symbols, nil
}

// Candles K线
//
// Deprecated: 仅为兼容旧调用方保留
func (r *Rest) Candles(ctx context.Context, symbol *common.Symbol, interval string, limit int) ([]*types.Candle, error) {
	result, err := r.get(ctx, "public/klines", map[string]interface{}{
		"symbol":   symbol.Format(common.StandardFormat),
		"interval": interval,
		"limit":    limit,
	})
	if err != nil {
		return nil, err
	}

	list, err := asMappingList(result)
	if err != nil {
		return nil, err
	}

	candles := make([]*types.Candle, 0, len(list))
	for _, item := range list {
		candle, err := decodeCandle(item)
		if err != nil {
			return nil, err
		}
		candles = append(candles, candle)
	}
	return candles, nil
}

func (r *Rest) get(ctx context.Context, endpoint string, params map[string]interface{}) (interface{}, error) {
	return r.request(ctx, http.MethodGet, endpoint, params, nil)
}

// request 发送请求并拆解 {result, message, error} 信封
// result 为空且 message 为 WAIT 时表示远端仍在准备数据。
func (r *Rest) request(ctx context.Context, method, endpoint string, params map[string]interface{}, form map[string]interface{}) (interface{}, error) {
	if endpoint != "auth" && !r.Authenticated() {
		return nil, fmt.Errorf("%w: use WithConnection first", base.ErrNotAuthenticated)
	}

	var (
		body []byte
		err  error
	)
	if method == http.MethodPost {
		body, err = r.http.PostForm(ctx, "/"+endpoint, form)
	} else {
		body, err = r.http.Get(ctx, "/"+endpoint, params)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", base.ErrRemoteRequest, err)
	}

	var envelope struct {
		Result  interface{} `json:"result"`
		Message string      `json:"message"`
		Error   string      `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("%w: decode connector response: %v", base.ErrMalformedResponse, err)
	}

	if envelope.Error != "" {
		message := envelope.Error
		if envelope.Message != "" {
			message += ":" + envelope.Message
		}
		return nil, fmt.Errorf("%w: %s", base.ErrRemoteRequest, message)
	}
	if envelope.Result == nil && envelope.Message == "WAIT" {
		return nil, base.ErrWaitResponse
	}
	return envelope.Result, nil
}
