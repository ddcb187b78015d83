// Package connector 统一交易所接入层
//
// 按连接的交易所标签解析出 base.Exchange 实现，调用方拿到的是
// 同一套接口，不关心背后对接的是哪家交易所。
// 注册表里没有的标签会落到通用 REST 适配器（需要配置 connector 服务地址）。
package connector

import (
	"fmt"
	"strings"
	"sync"

	"github.com/wall-one/exchange-connector/base"
	"github.com/wall-one/exchange-connector/binance"
	"github.com/wall-one/exchange-connector/bittrex"
	"github.com/wall-one/exchange-connector/common"
	"github.com/wall-one/exchange-connector/huobi"
	"github.com/wall-one/exchange-connector/okex"
	"github.com/wall-one/exchange-connector/rest"
)

// Options 解析选项
type Options struct {
	ConnectorURL string // 通用 REST 适配器对接的 connector 服务地址
	Proxy        string // 出口代理
	Debug        bool   // 打印请求与响应
}

// Option 解析选项设置函数
type Option func(*Options)

// WithConnectorURL 设置 connector 服务地址
func WithConnectorURL(url string) Option {
	return func(o *Options) {
		o.ConnectorURL = url
	}
}

// WithProxy 设置代理
func WithProxy(proxy string) Option {
	return func(o *Options) {
		o.Proxy = proxy
	}
}

// WithDebug 打印请求与响应
func WithDebug(debug bool) Option {
	return func(o *Options) {
		o.Debug = debug
	}
}

// Factory 适配器工厂函数
type Factory func(o *Options) base.Exchange

// Registry 适配器注册表
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

var globalRegistry = &Registry{
	factories: make(map[string]Factory),
}

func init() {
	Register(base.LabelBittrex, func(o *Options) base.Exchange {
		return bittrex.New(bittrex.WithClientOptions(
			bittrex.WithProxy(o.Proxy), bittrex.WithDebug(o.Debug),
		))
	})
	Register(base.LabelBinance, func(o *Options) base.Exchange {
		return binance.New(binance.WithClientOptions(
			binance.WithProxy(o.Proxy), binance.WithDebug(o.Debug),
		))
	})
	Register(base.LabelOkex, func(o *Options) base.Exchange {
		return okex.New(okex.WithClientOptions(
			okex.WithProxy(o.Proxy), okex.WithDebug(o.Debug),
		))
	})

	huobiFactory := func(o *Options) base.Exchange {
		return huobi.New(huobi.WithClientOptions(
			huobi.WithProxy(o.Proxy), huobi.WithDebug(o.Debug),
		))
	}
	Register(base.LabelHuobi, huobiFactory)
	Register(base.LabelHuobiRU, huobiFactory)
	Register(base.LabelHuobiUS, huobiFactory)
	Register(base.LabelHuobiCH, huobiFactory)
}

// Register 注册适配器工厂
func Register(label string, factory Factory) {
	globalRegistry.mu.Lock()
	defer globalRegistry.mu.Unlock()
	globalRegistry.factories[label] = factory
}

// SupportedExchanges 已注册的交易所标签
func SupportedExchanges() []string {
	globalRegistry.mu.RLock()
	defer globalRegistry.mu.RUnlock()

	labels := make([]string, 0, len(globalRegistry.factories))
	for label := range globalRegistry.factories {
		labels = append(labels, label)
	}
	return labels
}

// IsExchangeSupported 标签是否有专用适配器
func IsExchangeSupported(label string) bool {
	globalRegistry.mu.RLock()
	defer globalRegistry.mu.RUnlock()
	_, ok := globalRegistry.factories[strings.ToLower(label)]
	return ok
}

// Resolve 按连接解析适配器并绑定凭证
//
// huobi 区域标签（huobi_ru 等）解析为 Huobi 适配器，
// 区域后缀写入连接的 customer id。
// 未注册的标签落到通用 REST 适配器，此时必须配置 connector 服务地址。
func Resolve(conn *base.Connection, opts ...Option) (base.Exchange, error) {
	options := &Options{}
	for _, opt := range opts {
		opt(options)
	}

	label := strings.ToLower(conn.Exchange)

	globalRegistry.mu.RLock()
	factory, ok := globalRegistry.factories[label]
	globalRegistry.mu.RUnlock()

	if !ok {
		if options.ConnectorURL == "" {
			return nil, fmt.Errorf("%w: no adapter for %q and no connector url configured", base.ErrConfiguration, conn.Exchange)
		}

		restOpts := []rest.Option{rest.WithDebug(options.Debug)}
		if options.Proxy != "" {
			restOpts = append(restOpts, rest.WithProxy(options.Proxy))
		}
		ex := rest.New(options.ConnectorURL, restOpts...)
		if err := ex.WithConnection(conn); err != nil {
			return nil, err
		}
		return ex, nil
	}

	if region, found := strings.CutPrefix(label, "huobi_"); found {
		regional := *conn
		regional.CustomerID = region
		conn = &regional
	}

	ex := factory(options)
	if err := ex.WithConnection(conn); err != nil {
		return nil, err
	}
	return ex, nil
}

// BuildMarketName 组装标准市场名
func BuildMarketName(base, quote string) string {
	return common.BuildMarketName(base, quote)
}

// SplitMarketName 解析标准市场名
func SplitMarketName(symbol string) (*common.Symbol, error) {
	return common.SplitMarketName(symbol)
}
