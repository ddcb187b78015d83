// Package huobi Huobi 交易所适配
package huobi

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/wall-one/exchange-connector/base"
	"github.com/wall-one/exchange-connector/common"
)

const defaultHost = "api.huobi.pro"

// regionHosts 区域标签到接口主机的映射，未知区域落到全球站
var regionHosts = map[string]string{
	"ru": "api.huobi.pro",
	"us": "api.huobi.com",
	"ch": "api.huobi.pro",
}

// Client Huobi 原始客户端
type Client interface {
	Accounts(ctx context.Context) ([]map[string]interface{}, error)
	Balance(ctx context.Context, accountID string) ([]map[string]interface{}, error)
	Orders(ctx context.Context, symbol, orderTypes, startDate, endDate, states, fromOrderID string, limit int) ([]map[string]interface{}, error)
	Order(ctx context.Context, id string) (map[string]interface{}, error)
	PlaceOrder(ctx context.Context, accountID string, qty, price float64, symbol, orderType string) (string, error)
	Cancel(ctx context.Context, id string) error
	DepositWithdrawals(ctx context.Context, currency, transferType, from string) ([]map[string]interface{}, error)
	MarketDepth(ctx context.Context, symbol, stepType string) (map[string]interface{}, error)
	CommonSymbols(ctx context.Context) ([]map[string]interface{}, error)
}

// httpClient 默认实现
// 签名串为 "METHOD\nhost\npath\n排序后的查询串"，HMAC-SHA256 后 base64，
// 以 Signature 参数回传。
type httpClient struct {
	http      *common.HTTPClient
	host      string
	apiKey    string
	secretKey string

	proxy string
	debug bool
}

// ClientOption 客户端配置选项
type ClientOption func(*httpClient)

// WithHost 覆盖接口主机
func WithHost(host string) ClientOption {
	return func(c *httpClient) {
		c.host = host
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

// NewClient 创建默认 HTTP 客户端，region 为空时使用全球站
func NewClient(region, apiKey, secretKey string, opts ...ClientOption) Client {
	host := defaultHost
	if v, ok := regionHosts[strings.ToLower(region)]; ok {
		host = v
	}

	c := &httpClient{
		host:      host,
		apiKey:    apiKey,
		secretKey: secretKey,
	}
	for _, opt := range opts {
		opt(c)
	}

	c.http = common.NewHTTPClient("https://" + c.host)
	if c.proxy != "" {
		_ = c.http.SetProxy(c.proxy)
	}
	c.http.SetDebug(c.debug)
	return c
}

func (c *httpClient) Accounts(ctx context.Context) ([]map[string]interface{}, error) {
	return c.signedList(ctx, "GET", "/v1/account/accounts", nil)
}

func (c *httpClient) Balance(ctx context.Context, accountID string) ([]map[string]interface{}, error) {
	data, err := c.signed(ctx, "GET", "/v1/account/accounts/"+accountID+"/balance", nil, nil)
	if err != nil {
		return nil, err
	}
	obj, ok := data.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("%w: huobi balance data is not an object", base.ErrMalformedResponse)
	}
	raw, ok := obj["list"].([]interface{})
	if !ok {
		return nil, fmt.Errorf("%w: huobi balance has no list", base.ErrMalformedResponse)
	}
	return toObjectList(raw)
}

func (c *httpClient) Orders(ctx context.Context, symbol, orderTypes, startDate, endDate, states, fromOrderID string, limit int) ([]map[string]interface{}, error) {
	params := map[string]interface{}{
		"symbol": symbol,
		"types":  orderTypes,
		"states": states,
	}
	if startDate != "" {
		params["start-date"] = startDate
	}
	if endDate != "" {
		params["end-date"] = endDate
	}
	if fromOrderID != "" {
		params["from"] = fromOrderID
		params["direct"] = "next"
	}
	if limit > 0 {
		params["size"] = limit
	}
	return c.signedList(ctx, "GET", "/v1/order/orders", params)
}

func (c *httpClient) Order(ctx context.Context, id string) (map[string]interface{}, error) {
	data, err := c.signed(ctx, "GET", "/v1/order/orders/"+id, nil, nil)
	if err != nil {
		return nil, err
	}
	obj, ok := data.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("%w: huobi order data is not an object", base.ErrMalformedResponse)
	}
	return obj, nil
}

func (c *httpClient) PlaceOrder(ctx context.Context, accountID string, qty, price float64, symbol, orderType string) (string, error) {
	body := map[string]interface{}{
		"account-id": accountID,
		"amount":     qty,
		"symbol":     symbol,
		"type":       orderType,
	}
	if price > 0 {
		body["price"] = price
	}

	data, err := c.signed(ctx, "POST", "/v1/order/orders/place", nil, body)
	if err != nil {
		return "", err
	}
	id, ok := data.(string)
	if !ok {
		return "", fmt.Errorf("%w: huobi place order data is not a string", base.ErrMalformedResponse)
	}
	return id, nil
}

func (c *httpClient) Cancel(ctx context.Context, id string) error {
	_, err := c.signed(ctx, "POST", "/v1/order/orders/"+id+"/submitcancel", nil, nil)
	return err
}

func (c *httpClient) DepositWithdrawals(ctx context.Context, currency, transferType, from string) ([]map[string]interface{}, error) {
	params := map[string]interface{}{
		"currency": currency,
		"type":     transferType,
		"size":     100,
	}
	if from != "" {
		params["from"] = from
	}
	return c.signedList(ctx, "GET", "/v1/query/deposit-withdraw", params)
}

func (c *httpClient) MarketDepth(ctx context.Context, symbol, stepType string) (map[string]interface{}, error) {
	body, err := c.http.Get(ctx, "/market/depth", map[string]interface{}{
		"symbol": symbol,
		"type":   stepType,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", base.ErrRemoteRequest, err)
	}

	var envelope struct {
		Status string                 `json:"status"`
		ErrMsg string                 `json:"err-msg"`
		Tick   map[string]interface{} `json:"tick"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("%w: decode huobi depth: %v", base.ErrMalformedResponse, err)
	}
	if envelope.Status != "ok" {
		return nil, remoteError(envelope.ErrMsg)
	}
	return envelope.Tick, nil
}

func (c *httpClient) CommonSymbols(ctx context.Context) ([]map[string]interface{}, error) {
	return c.signedList(ctx, "GET", "/v1/common/symbols", nil)
}

func (c *httpClient) signedList(ctx context.Context, method, path string, params map[string]interface{}) ([]map[string]interface{}, error) {
	data, err := c.signed(ctx, method, path, params, nil)
	if err != nil {
		return nil, err
	}
	raw, ok := data.([]interface{})
	if !ok {
		return nil, fmt.Errorf("%w: huobi data is not a list", base.ErrMalformedResponse)
	}
	return toObjectList(raw)
}

// signed 签名请求并解开 {status, err-msg, data} 信封
func (c *httpClient) signed(ctx context.Context, method, path string, params map[string]interface{}, body interface{}) (interface{}, error) {
	signed := make(map[string]interface{}, len(params)+5)
	for k, v := range params {
		signed[k] = v
	}
	signed["AccessKeyId"] = c.apiKey
	signed["SignatureMethod"] = "HmacSHA256"
	signed["SignatureVersion"] = "2"
	signed["Timestamp"] = time.Now().UTC().Format("2006-01-02T15:04:05")

	payload := method + "\n" + c.host + "\n" + path + "\n" + common.BuildQueryString(signed)
	signed["Signature"] = common.SignHMAC256Base64(payload, c.secretKey)

	var (
		respBody []byte
		err      error
	)
	if method == "POST" {
		respBody, err = c.http.Request(ctx, method, path+"?"+common.BuildQueryString(signed), nil, body)
	} else {
		respBody, err = c.http.Get(ctx, path, signed)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", base.ErrRemoteRequest, err)
	}

	var envelope struct {
		Status string      `json:"status"`
		ErrMsg string      `json:"err-msg"`
		Data   interface{} `json:"data"`
	}
	if err := json.Unmarshal(respBody, &envelope); err != nil {
		return nil, fmt.Errorf("%w: decode huobi response: %v", base.ErrMalformedResponse, err)
	}
	if envelope.Status != "ok" {
		return nil, remoteError(envelope.ErrMsg)
	}
	return envelope.Data, nil
}

func remoteError(message string) error {
	if message == "" {
		message = "cannot connect to exchange"
	}
	return fmt.Errorf("%w: huobi: %s", base.ErrRemoteRequest, message)
}

func toObjectList(raw []interface{}) ([]map[string]interface{}, error) {
	items := make([]map[string]interface{}, 0, len(raw))
	for _, entry := range raw {
		obj, ok := entry.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("%w: huobi list entry is not an object", base.ErrMalformedResponse)
		}
		items = append(items, obj)
	}
	return items, nil
}
