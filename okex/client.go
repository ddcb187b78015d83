// Package okex OKEx 交易所适配
package okex

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/wall-one/exchange-connector/base"
	"github.com/wall-one/exchange-connector/common"
)

const defaultBaseURL = "https://www.okex.com"

// Client OKEx 原始客户端
type Client interface {
	WalletInfo(ctx context.Context) ([]map[string]interface{}, error)
	Orders(ctx context.Context, instrument, after string) ([]map[string]interface{}, error)
	OpenOrders(ctx context.Context, instrument, after string) ([]map[string]interface{}, error)
	OrderInfo(ctx context.Context, instrument, id string) (map[string]interface{}, error)
	PlaceOrder(ctx context.Context, orderType, side, instrument string, qty, price float64) (map[string]interface{}, error)
	Cancel(ctx context.Context, instrument, id string) error
	Deposits(ctx context.Context) ([]map[string]interface{}, error)
	Withdrawals(ctx context.Context) ([]map[string]interface{}, error)
	OrderBook(ctx context.Context, instrument string, depth int) (map[string]interface{}, error)
	Instruments(ctx context.Context) ([]map[string]interface{}, error)
}

// httpClient v3 接口默认实现
// 签名串为 timestamp+method+path+body 的 HMAC-SHA256 base64，
// 随 OK-ACCESS-* 头发送，passphrase 取连接的 customer id。
type httpClient struct {
	http       *common.HTTPClient
	baseURL    string
	apiKey     string
	secretKey  string
	passphrase string

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
func NewClient(apiKey, secretKey, passphrase string, opts ...ClientOption) Client {
	c := &httpClient{
		baseURL:    defaultBaseURL,
		apiKey:     apiKey,
		secretKey:  secretKey,
		passphrase: passphrase,
	}
	for _, opt := range opts {
		opt(c)
	}

	c.http = common.NewHTTPClient(c.baseURL)
	if c.proxy != "" {
		_ = c.http.SetProxy(c.proxy)
	}
	c.http.SetDebug(c.debug)
	return c
}

func (c *httpClient) WalletInfo(ctx context.Context) ([]map[string]interface{}, error) {
	return c.getList(ctx, "/api/account/v3/wallet", nil)
}

func (c *httpClient) Orders(ctx context.Context, instrument, after string) ([]map[string]interface{}, error) {
	params := map[string]interface{}{
		"instrument_id": instrument,
		"state":         "7", // complete
		"limit":         100,
	}
	if after != "" {
		params["after"] = after
	}
	return c.getList(ctx, "/api/spot/v3/orders", params)
}

func (c *httpClient) OpenOrders(ctx context.Context, instrument, after string) ([]map[string]interface{}, error) {
	params := map[string]interface{}{
		"instrument_id": instrument,
		"limit":         100,
	}
	if after != "" {
		params["after"] = after
	}
	return c.getList(ctx, "/api/spot/v3/orders_pending", params)
}

func (c *httpClient) OrderInfo(ctx context.Context, instrument, id string) (map[string]interface{}, error) {
	body, err := c.request(ctx, "GET", "/api/spot/v3/orders/"+id, map[string]interface{}{
		"instrument_id": instrument,
	}, nil)
	if err != nil {
		return nil, err
	}
	return decodeObject(body)
}

func (c *httpClient) PlaceOrder(ctx context.Context, orderType, side, instrument string, qty, price float64) (map[string]interface{}, error) {
	order := map[string]interface{}{
		"type":          orderType,
		"side":          side,
		"instrument_id": instrument,
		"size":          strconv.FormatFloat(qty, 'f', -1, 64),
	}
	if orderType == "limit" {
		order["price"] = strconv.FormatFloat(price, 'f', -1, 64)
	}

	body, err := c.request(ctx, "POST", "/api/spot/v3/orders", nil, order)
	if err != nil {
		return nil, err
	}
	return decodeObject(body)
}

func (c *httpClient) Cancel(ctx context.Context, instrument, id string) error {
	_, err := c.request(ctx, "POST", "/api/spot/v3/cancel_orders/"+id, nil, map[string]interface{}{
		"instrument_id": instrument,
	})
	return err
}

func (c *httpClient) Deposits(ctx context.Context) ([]map[string]interface{}, error) {
	return c.getList(ctx, "/api/account/v3/deposit/history", nil)
}

func (c *httpClient) Withdrawals(ctx context.Context) ([]map[string]interface{}, error) {
	return c.getList(ctx, "/api/account/v3/withdrawal/history", nil)
}

func (c *httpClient) OrderBook(ctx context.Context, instrument string, depth int) (map[string]interface{}, error) {
	body, err := c.request(ctx, "GET", "/api/spot/v3/instruments/"+instrument+"/book", map[string]interface{}{
		"size": depth,
	}, nil)
	if err != nil {
		return nil, err
	}
	return decodeObject(body)
}

func (c *httpClient) Instruments(ctx context.Context) ([]map[string]interface{}, error) {
	return c.getList(ctx, "/api/spot/v3/instruments", nil)
}

func (c *httpClient) getList(ctx context.Context, path string, params map[string]interface{}) ([]map[string]interface{}, error) {
	body, err := c.request(ctx, "GET", path, params, nil)
	if err != nil {
		return nil, err
	}

	var raw []interface{}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("%w: decode okex response: %v", base.ErrMalformedResponse, err)
	}

	items := make([]map[string]interface{}, 0, len(raw))
	for _, entry := range raw {
		obj, ok := entry.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("%w: okex list entry is not an object", base.ErrMalformedResponse)
		}
		items = append(items, obj)
	}
	return items, nil
}

func (c *httpClient) request(ctx context.Context, method, path string, params map[string]interface{}, body interface{}) ([]byte, error) {
	requestPath := path
	if len(params) > 0 {
		requestPath += "?" + common.BuildQueryString(params)
	}

	var payload string
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request body: %w", err)
		}
		payload = string(data)
	}

	timestamp := common.GetISO8601Timestamp()
	c.http.SetHeader("OK-ACCESS-KEY", c.apiKey)
	c.http.SetHeader("OK-ACCESS-SIGN", common.SignHMAC256Base64(timestamp+method+requestPath+payload, c.secretKey))
	c.http.SetHeader("OK-ACCESS-TIMESTAMP", timestamp)
	c.http.SetHeader("OK-ACCESS-PASSPHRASE", c.passphrase)

	respBody, err := c.http.Request(ctx, method, path, params, body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", base.ErrRemoteRequest, err)
	}

	// 业务错误形如 {code, message}
	var failure struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(respBody, &failure); err == nil && failure.Message != "" {
		return nil, fmt.Errorf("%w: okex: %s", base.ErrRemoteRequest, failure.Message)
	}
	return respBody, nil
}

func decodeObject(body []byte) (map[string]interface{}, error) {
	var obj map[string]interface{}
	if err := json.Unmarshal(body, &obj); err != nil {
		return nil, fmt.Errorf("%w: decode okex response: %v", base.ErrMalformedResponse, err)
	}
	return obj, nil
}
