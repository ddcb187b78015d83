// Package bittrex Bittrex 交易所适配
package bittrex

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/wall-one/exchange-connector/base"
	"github.com/wall-one/exchange-connector/common"
)

const defaultBaseURL = "https://api.bittrex.com/api/v1.1"

// Client Bittrex 原始客户端
// 返回交易所原生的 JSON 解码结果，归一化交给适配器。
type Client interface {
	Balances(ctx context.Context) ([]map[string]interface{}, error)
	OrderHistory(ctx context.Context) ([]map[string]interface{}, error)
	Order(ctx context.Context, id string) (map[string]interface{}, error)
	BuyLimit(ctx context.Context, market string, qty, price float64) (map[string]interface{}, error)
	SellLimit(ctx context.Context, market string, qty, price float64) (map[string]interface{}, error)
	Cancel(ctx context.Context, id string) error
	OpenOrders(ctx context.Context, market string) ([]map[string]interface{}, error)
	DepositHistory(ctx context.Context) ([]map[string]interface{}, error)
	WithdrawalHistory(ctx context.Context) ([]map[string]interface{}, error)
	OrderBook(ctx context.Context, market string) (map[string]interface{}, error)
	Markets(ctx context.Context) ([]map[string]interface{}, error)
}

// httpClient 基于 v1.1 接口的默认实现
// 鉴权请求带 apikey/nonce 参数，apisign 头为完整 URL 的 HMAC-SHA512。
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
	return c
}

func (c *httpClient) Balances(ctx context.Context) ([]map[string]interface{}, error) {
	return c.getList(ctx, "/account/getbalances", nil)
}

func (c *httpClient) OrderHistory(ctx context.Context) ([]map[string]interface{}, error) {
	return c.getList(ctx, "/account/getorderhistory", nil)
}

func (c *httpClient) Order(ctx context.Context, id string) (map[string]interface{}, error) {
	return c.getObject(ctx, "/account/getorder", map[string]interface{}{"uuid": id})
}

func (c *httpClient) BuyLimit(ctx context.Context, market string, qty, price float64) (map[string]interface{}, error) {
	return c.getObject(ctx, "/market/buylimit", map[string]interface{}{
		"market":   market,
		"quantity": qty,
		"rate":     price,
	})
}

func (c *httpClient) SellLimit(ctx context.Context, market string, qty, price float64) (map[string]interface{}, error) {
	return c.getObject(ctx, "/market/selllimit", map[string]interface{}{
		"market":   market,
		"quantity": qty,
		"rate":     price,
	})
}

func (c *httpClient) Cancel(ctx context.Context, id string) error {
	_, err := c.request(ctx, "/market/cancel", map[string]interface{}{"uuid": id})
	return err
}

func (c *httpClient) OpenOrders(ctx context.Context, market string) ([]map[string]interface{}, error) {
	return c.getList(ctx, "/market/getopenorders", map[string]interface{}{"market": market})
}

func (c *httpClient) DepositHistory(ctx context.Context) ([]map[string]interface{}, error) {
	return c.getList(ctx, "/account/getdeposithistory", nil)
}

func (c *httpClient) WithdrawalHistory(ctx context.Context) ([]map[string]interface{}, error) {
	return c.getList(ctx, "/account/getwithdrawalhistory", nil)
}

func (c *httpClient) OrderBook(ctx context.Context, market string) (map[string]interface{}, error) {
	return c.getObject(ctx, "/public/getorderbook", map[string]interface{}{
		"market": market,
		"type":   "both",
	})
}

func (c *httpClient) Markets(ctx context.Context) ([]map[string]interface{}, error) {
	return c.getList(ctx, "/public/getmarkets", nil)
}

func (c *httpClient) getObject(ctx context.Context, path string, params map[string]interface{}) (map[string]interface{}, error) {
	result, err := c.request(ctx, path, params)
	if err != nil {
		return nil, err
	}
	obj, ok := result.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("%w: bittrex result is not an object", base.ErrMalformedResponse)
	}
	return obj, nil
}

func (c *httpClient) getList(ctx context.Context, path string, params map[string]interface{}) ([]map[string]interface{}, error) {
	result, err := c.request(ctx, path, params)
	if err != nil {
		return nil, err
	}
	return toObjectList(result)
}

// request 签名请求并解开 {success, message, result} 信封
func (c *httpClient) request(ctx context.Context, path string, params map[string]interface{}) (interface{}, error) {
	signed := make(map[string]interface{}, len(params)+2)
	for k, v := range params {
		signed[k] = v
	}
	signed["apikey"] = c.apiKey
	signed["nonce"] = strconv.FormatInt(common.GetTimestamp(), 10)

	fullURL := c.baseURL + path + "?" + common.BuildQueryString(signed)
	c.http.SetHeader("apisign", common.SignHMAC512(fullURL, c.secretKey))

	body, err := c.http.Get(ctx, path, signed)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", base.ErrRemoteRequest, err)
	}

	var envelope struct {
		Success bool        `json:"success"`
		Message string      `json:"message"`
		Result  interface{} `json:"result"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("%w: decode bittrex response: %v", base.ErrMalformedResponse, err)
	}
	if !envelope.Success {
		message := envelope.Message
		if message == "" {
			message = "NO_RESPONSE"
		}
		return nil, fmt.Errorf("%w: bittrex: %s", base.ErrRemoteRequest, message)
	}
	return envelope.Result, nil
}

func toObjectList(result interface{}) ([]map[string]interface{}, error) {
	raw, ok := result.([]interface{})
	if !ok {
		return nil, fmt.Errorf("%w: bittrex result is not a list", base.ErrMalformedResponse)
	}
	items := make([]map[string]interface{}, 0, len(raw))
	for _, entry := range raw {
		obj, ok := entry.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("%w: bittrex list entry is not an object", base.ErrMalformedResponse)
		}
		items = append(items, obj)
	}
	return items, nil
}
