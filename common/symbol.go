package common

import (
	"fmt"
	"strings"
)

// 交易对格式模板
// 标准格式为全网统一约定：大写 {QUOTE}_{BASE}（如 BTC/USDT 对应 USDT_BTC）。
// 注意顺序与口语习惯 BASE/QUOTE 相反，下游所有比较都依赖该约定。
const (
	StandardFormat = "{quote}_{base}" // 标准化格式 (USDT_BTC)
	BittrexFormat  = "{base}-{quote}" // Bittrex 格式 (BTC-USDT)
	BinanceFormat  = "{base}{quote}"  // Binance 格式 (BTCUSDT)
	HuobiFormat    = "!{base}{quote}" // Huobi 格式 (btcusdt)，前导 ! 表示需要小写
	OkexFormat     = "{base}-{quote}" // OKEx 格式 (BTC-USDT)
)

// lowerMarker 格式模板前导标记，表示渲染结果需要整体转为小写
const lowerMarker = "!"

// Symbol 交易对（基础货币 + 计价货币）
// 构造时统一转为大写，此后不可变。
type Symbol struct {
	base  string
	quote string
}

// NewSymbol 创建交易对
func NewSymbol(base, quote string) *Symbol {
	return &Symbol{
		base:  strings.ToUpper(base),
		quote: strings.ToUpper(quote),
	}
}

// ParseStandard 解析标准化格式 {QUOTE}_{BASE}（如 USDT_BTC）
func ParseStandard(standard string) (*Symbol, error) {
	parts := strings.Split(standard, "_")
	if len(parts) != 2 {
		return nil, fmt.Errorf("invalid symbol format: %s, expected QUOTE_BASE", standard)
	}
	return NewSymbol(parts[1], parts[0]), nil
}

// Base 基础货币
func (s *Symbol) Base() string {
	return s.base
}

// Quote 计价货币
func (s *Symbol) Quote() string {
	return s.quote
}

// Pair 返回 (base, quote) 元组，用于按其他约定重新组合
func (s *Symbol) Pair() (string, string) {
	return s.base, s.quote
}

// Format 按模板渲染交易对
// 替换 {base}/{quote} 占位符；模板带前导 ! 标记时渲染结果转小写。
func (s *Symbol) Format(format string) string {
	lower := strings.HasPrefix(format, lowerMarker)
	format = strings.TrimPrefix(format, lowerMarker)

	rendered := strings.NewReplacer("{base}", s.base, "{quote}", s.quote).Replace(format)
	if lower {
		rendered = strings.ToLower(rendered)
	}
	return rendered
}

// Equal 按 (base, quote) 比较交易对
func (s *Symbol) Equal(other *Symbol) bool {
	return other != nil && s.base == other.base && s.quote == other.quote
}

// String 返回标准化格式
func (s *Symbol) String() string {
	return s.Format(StandardFormat)
}

// BuildMarketName 按标准约定构建市场名（大写 {QUOTE}_{BASE}）
func BuildMarketName(base, quote string) string {
	return NewSymbol(base, quote).Format(StandardFormat)
}

// SplitMarketName 解析标准市场名为交易对
func SplitMarketName(symbol string) (*Symbol, error) {
	return ParseStandard(symbol)
}
