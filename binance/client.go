// Package binance Binance 交易所适配
package binance

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/wall-one/exchange-connector/base"
	"github.com/wall-one/exchange-connector/common"
)

const defaultBaseURL = "https://api.binance.com"

// Client Binance 原始客户端
type Client interface {
	Balances(ctx context.Context) ([]map[string]interface{}, error)
	Orders(ctx context.Context, symbol string, limit int, fromOrderID string) ([]map[string]interface{}, error)
	OrderStatus(ctx context.Context, symbol, id string) (map[string]interface{}, error)
	PlaceOrder(ctx context.Context, symbol, side, orderType string, qty, price float64) (map[string]interface{}, error)
	Cancel(ctx context.Context, symbol, id string) error
	OpenOrders(ctx context.Context, symbol string) ([]map[string]interface{}, error)
	DepositHistory(ctx context.Context) ([]map[string]interface{}, error)
	WithdrawHistory(ctx context.Context) ([]map[string]interface{}, error)
	Depth(ctx context.Context, symbol string, limit int) (map[string]interface{}, error)
	ExchangeInfo(ctx context.Context) (map[string]interface{}, error)
	Klines(ctx context.Context, symbol, interval string, limit int) ([][]interface{}, error)
}

// httpClient 默认实现
// 签名端点在查询串末尾追加 timestamp 和 HMAC-SHA256 签名，
// API Key 通过 X-MBX-APIKEY 头传递。
type httpClient struct {
	http      *common.HTTPClient
	baseURL   string
	apiKey    string
	secretKey string

	proxy string
	debug bool
}

// ClientOption 客户端配置选项
type ClientOption func(*httpClient)

// WithBaseURL 覆盖接口地址
func WithBaseURL(baseURL string) ClientOption {
	return func(c *httpClient) {
		c.baseURL = baseURL
	}
}

// WithProxy 设置代理
func WithProxy(proxy string) ClientOption {
	return func(c *httpClient) {
		c.proxy = proxy
	}
}

// WithDebug 打印请求与响应
func WithDebug(debug bool) ClientOption {
	return func(c *httpClient) {
		c.debug = debug
	}
}

// NewClient 创建默认 HTTP 客户端
func NewClient(apiKey, secretKey string, opts ...ClientOption) Client {
	c := &httpClient{
		baseURL:   defaultBaseURL,
		apiKey:    apiKey,
		secretKey: secretKey,
	}
	for _, opt := range opts {
		opt(c)
	}

	c.http = common.NewHTTPClient(c.baseURL)
	if c.proxy != "" {
		_ = c.http.SetProxy(c.proxy)
	}
	c.http.SetDebug(c.debug)
	if apiKey != "" {
		c.http.SetHeader("X-MBX-APIKEY", apiKey)
	}
	return c
}

func (c *httpClient) Balances(ctx context.Context) ([]map[string]interface{}, error) {
	account, err := c.signedObject(ctx, "/api/v3/account", nil)
	if err != nil {
		return nil, err
	}
	raw, ok := account["balances"].([]interface{})
	if !ok {
		return nil, fmt.Errorf("%w: binance account has no balances", base.ErrMalformedResponse)
	}
	return toObjectList(raw)
}

func (c *httpClient) Orders(ctx context.Context, symbol string, limit int, fromOrderID string) ([]map[string]interface{}, error) {
	return c.signedList(ctx, "/api/v3/allOrders", map[string]interface{}{
		"symbol":  symbol,
		"limit":   limit,
		"orderId": fromOrderID,
	})
}

func (c *httpClient) OrderStatus(ctx context.Context, symbol, id string) (map[string]interface{}, error) {
	return c.signedObject(ctx, "/api/v3/order", map[string]interface{}{
		"symbol":  symbol,
		"orderId": id,
	})
}

func (c *httpClient) PlaceOrder(ctx context.Context, symbol, side, orderType string, qty, price float64) (map[string]interface{}, error) {
	params := map[string]interface{}{
		"symbol":   symbol,
		"side":     strings.ToUpper(side),
		"type":     strings.ToUpper(orderType),
		"quantity": qty,
	}
	if strings.EqualFold(orderType, "limit") {
		params["price"] = price
		params["timeInForce"] = "GTC"
	}

	body, err := c.signedRequest(ctx, "POST", "/api/v3/order", params)
	if err != nil {
		return nil, err
	}
	return decodeObject(body)
}

func (c *httpClient) Cancel(ctx context.Context, symbol, id string) error {
	_, err := c.signedRequest(ctx, "DELETE", "/api/v3/order", map[string]interface{}{
		"symbol":  symbol,
		"orderId": id,
	})
	return err
}

func (c *httpClient) OpenOrders(ctx context.Context, symbol string) ([]map[string]interface{}, error) {
	return c.signedList(ctx, "/api/v3/openOrders", map[string]interface{}{"symbol": symbol})
}

func (c *httpClient) DepositHistory(ctx context.Context) ([]map[string]interface{}, error) {
	return c.signedList(ctx, "/sapi/v1/capital/deposit/hisrec", nil)
}

func (c *httpClient) WithdrawHistory(ctx context.Context) ([]map[string]interface{}, error) {
	return c.signedList(ctx, "/sapi/v1/capital/withdraw/history", nil)
}

func (c *httpClient) Depth(ctx context.Context, symbol string, limit int) (map[string]interface{}, error) {
	body, err := c.public(ctx, "/api/v3/depth", map[string]interface{}{
		"symbol": symbol,
		"limit":  limit,
	})
	if err != nil {
		return nil, err
	}
	return decodeObject(body)
}

func (c *httpClient) ExchangeInfo(ctx context.Context) (map[string]interface{}, error) {
	body, err := c.public(ctx, "/api/v3/exchangeInfo", nil)
	if err != nil {
		return nil, err
	}
	return decodeObject(body)
}

func (c *httpClient) Klines(ctx context.Context, symbol, interval string, limit int) ([][]interface{}, error) {
	body, err := c.public(ctx, "/api/v3/klines", map[string]interface{}{
		"symbol":   symbol,
		"interval": interval,
		"limit":    limit,
	})
	if err != nil {
		return nil, err
	}

	var klines [][]interface{}
	if err := json.Unmarshal(body, &klines); err != nil {
		return nil, fmt.Errorf("%w: decode binance klines: %v", base.ErrMalformedResponse, err)
	}
	return klines, nil
}

func (c *httpClient) public(ctx context.Context, path string, params map[string]interface{}) ([]byte, error) {
	body, err := c.http.Get(ctx, path, params)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", base.ErrRemoteRequest, err)
	}
	return body, nil
}

func (c *httpClient) signedObject(ctx context.Context, path string, params map[string]interface{}) (map[string]interface{}, error) {
	body, err := c.signedRequest(ctx, "GET", path, params)
	if err != nil {
		return nil, err
	}
	return decodeObject(body)
}

func (c *httpClient) signedList(ctx context.Context, path string, params map[string]interface{}) ([]map[string]interface{}, error) {
	body, err := c.signedRequest(ctx, "GET", path, params)
	if err != nil {
		return nil, err
	}

	var raw []interface{}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("%w: decode binance response: %v", base.ErrMalformedResponse, err)
	}
	return toObjectList(raw)
}

func (c *httpClient) signedRequest(ctx context.Context, method, path string, params map[string]interface{}) ([]byte, error) {
	signed := make(map[string]interface{}, len(params)+2)
	for k, v := range params {
		if v == "" || v == nil {
			continue
		}
		signed[k] = v
	}
	signed["timestamp"] = common.GetTimestamp()
	signed["signature"] = common.SignHMAC256(common.BuildQueryString(signed), c.secretKey)

	body, err := c.http.Request(ctx, method, path, signed, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", base.ErrRemoteRequest, err)
	}

	// 业务错误以 200 返回 {code, msg}
	var failure struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(body, &failure); err == nil && failure.Msg != "" {
		return nil, fmt.Errorf("%w: binance: %s", base.ErrRemoteRequest, failure.Msg)
	}
	return body, nil
}

func decodeObject(body []byte) (map[string]interface{}, error) {
	var obj map[string]interface{}
	if err := json.Unmarshal(body, &obj); err != nil {
		return nil, fmt.Errorf("%w: decode binance response: %v", base.ErrMalformedResponse, err)
	}
	return obj, nil
}

func toObjectList(raw []interface{}) ([]map[string]interface{}, error) {
	items := make([]map[string]interface{}, 0, len(raw))
	for _, entry := range raw {
		obj, ok := entry.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("%w: binance list entry is not an object", base.ErrMalformedResponse)
		}
		items = append(items, obj)
	}
	return items, nil
}
