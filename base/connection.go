package base

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
)

// 交易所标签常量
const (
	LabelBittrex = "bittrex" // Bittrex 交易所
	LabelBinance = "binance" // Binance 交易所
	LabelHuobi   = "huobi"   // Huobi 交易所
	LabelOkex    = "okex"    // OKEx 交易所

	// Huobi 区域标签，区域后缀作为 customer id 传入
	LabelHuobiRU = "huobi_ru"
	LabelHuobiUS = "huobi_us"
	LabelHuobiCH = "huobi_ch"
)

// Connection 交易所连接凭证
type Connection struct {
	Exchange   string `json:"exchange"`    // 交易所标签（小写）
	APIKey     string `json:"api_key"`     // API Key
	SecretKey  string `json:"secret_key"`  // Secret Key
	CustomerID string `json:"customer_id"` // 附加标识（Huobi 区域 / OKEx passphrase）
}

// NewConnection 创建连接，交易所标签统一转小写
func NewConnection(exchange, apiKey, secretKey, customerID string) *Connection {
	return &Connection{
		Exchange:   strings.ToLower(exchange),
		APIKey:     apiKey,
		SecretKey:  secretKey,
		CustomerID: customerID,
	}
}

// ToMapping 转为外部序列化格式
func (c *Connection) ToMapping() map[string]interface{} {
	return map[string]interface{}{
		"exchange":    c.Exchange,
		"api_key":     c.APIKey,
		"secret_key":  c.SecretKey,
		"customer_id": c.CustomerID,
	}
}

// ConnectionFromMapping 从序列化格式还原连接
// api_key / secret_key / customer_id 三个键必须存在。
func ConnectionFromMapping(m map[string]interface{}) (*Connection, error) {
	for _, field := range []string{"api_key", "customer_id", "secret_key"} {
		if _, ok := m[field]; !ok {
			return nil, fmt.Errorf("%w: %s is not specified", ErrConfiguration, field)
		}
	}

	get := func(key string) string {
		if v, ok := m[key].(string); ok {
			return v
		}
		return ""
	}

	return NewConnection(get("exchange"), get("api_key"), get("secret_key"), get("customer_id")), nil
}

// Authenticator 连接凭证编码能力
// 作为组合能力注入各适配器，替代跨类共享的认证行为。
type Authenticator interface {
	Auth(conn *Connection) (string, error)
}

// TokenAuthenticator 默认认证实现
// 将连接编码为 base64(json)，语义上不做校验，首次请求时才会被远端验证。
type TokenAuthenticator struct{}

// Auth 编码连接为不透明令牌
func (TokenAuthenticator) Auth(conn *Connection) (string, error) {
	data, err := json.Marshal(conn.ToMapping())
	if err != nil {
		return "", fmt.Errorf("encode connection: %w", err)
	}
	return base64.StdEncoding.EncodeToString(data), nil
}
