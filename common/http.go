package common

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// HTTPClient HTTP客户端
// 供各交易所的原始客户端和通用 REST 适配器使用。
type HTTPClient struct {
	client     *http.Client
	baseURL    string
	headers    map[string]string
	proxy      string
	debug      bool
	maxRetries uint64
}

// NewHTTPClient 创建HTTP客户端
func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseURL: baseURL,
		headers: make(map[string]string),
	}
}

// SetProxy 设置代理
func (c *HTTPClient) SetProxy(proxyURL string) error {
	if proxyURL == "" {
		c.client.Transport = nil
		c.proxy = ""
		return nil
	}

	proxy, err := url.Parse(proxyURL)
	if err != nil {
		return fmt.Errorf("invalid proxy URL: %w", err)
	}

	c.client.Transport = &http.Transport{
		Proxy: http.ProxyURL(proxy),
	}
	c.proxy = proxyURL
	return nil
}

// GetProxy 获取当前代理设置
func (c *HTTPClient) GetProxy() string {
	return c.proxy
}

// SetHeader 设置请求头
func (c *HTTPClient) SetHeader(key, value string) {
	c.headers[key] = value
}

// SetTimeout 设置超时时间
func (c *HTTPClient) SetTimeout(timeout time.Duration) {
	c.client.Timeout = timeout
}

// SetDebug 设置是否启用调试模式
func (c *HTTPClient) SetDebug(debug bool) {
	c.debug = debug
}

// SetMaxRetries 设置网络错误重试次数
// 默认为 0（不重试）。仅传输层错误会被重试，业务错误不会。
func (c *HTTPClient) SetMaxRetries(n uint64) {
	c.maxRetries = n
}

// Get 发送GET请求
func (c *HTTPClient) Get(ctx context.Context, path string, params map[string]interface{}) ([]byte, error) {
	return c.Request(ctx, http.MethodGet, path, params, nil)
}

// Post 发送POST请求
func (c *HTTPClient) Post(ctx context.Context, path string, body interface{}) ([]byte, error) {
	return c.Request(ctx, http.MethodPost, path, nil, body)
}

// PostForm 发送表单POST请求
func (c *HTTPClient) PostForm(ctx context.Context, path string, form map[string]interface{}) ([]byte, error) {
	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, c.baseURL+path, bytes.NewBufferString(BuildQueryString(form)),
	)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	return c.do(req)
}

// Delete 发送DELETE请求
func (c *HTTPClient) Delete(ctx context.Context, path string, params map[string]interface{}, body interface{}) ([]byte, error) {
	return c.Request(ctx, http.MethodDelete, path, params, body)
}

// Request 发送HTTP请求
func (c *HTTPClient) Request(ctx context.Context, method, path string, params map[string]interface{}, body interface{}) ([]byte, error) {
	url := c.baseURL + path

	// 构建查询参数 - 使用 BuildQueryString 确保与签名时一致（排序和URL编码）
	if len(params) > 0 {
		query := BuildQueryString(params)
		if query != "" {
			url += "?" + query
		}
	}

	// 构建请求体
	var reqBody io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request body: %w", err)
		}
		reqBody = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	for k, v := range c.headers {
		req.Header.Set(k, v)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if c.debug {
		fmt.Printf("[DEBUG] Request:\n")
		fmt.Printf("  Method: %s\n", method)
		fmt.Printf("  URL: %s\n", url)
	}

	return c.do(req)
}

// do 发送请求并读取响应，必要时按退避策略重试传输层错误
func (c *HTTPClient) do(req *http.Request) ([]byte, error) {
	var respBody []byte

	operation := func() error {
		resp, err := c.client.Do(req)
		if err != nil {
			return fmt.Errorf("send request: %w", err)
		}
		defer resp.Body.Close()

		respBody, err = io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("read response: %w", err)
		}

		if c.debug {
			fmt.Printf("[DEBUG] Response:\n")
			fmt.Printf("  Status: %d %s\n", resp.StatusCode, resp.Status)
			fmt.Printf("  Body: %s\n", string(respBody))
		}

		// 非 2xx 一律视为失败；4xx 属于业务错误，不重试
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			err := fmt.Errorf("http error %d: %s", resp.StatusCode, string(respBody))
			if resp.StatusCode >= 400 && resp.StatusCode < 500 {
				return backoff.Permanent(err)
			}
			return err
		}
		return nil
	}

	if c.maxRetries == 0 {
		if err := operation(); err != nil {
			return nil, unwrapPermanent(err)
		}
		return respBody, nil
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), c.maxRetries),
		req.Context(),
	)
	if err := backoff.Retry(operation, policy); err != nil {
		return nil, unwrapPermanent(err)
	}
	return respBody, nil
}

func unwrapPermanent(err error) error {
	var perm *backoff.PermanentError
	if errors.As(err, &perm) {
		return perm.Err
	}
	return err
}
