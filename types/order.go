package types

import (
	"strings"
	"time"
)

// OrderType 订单类型
type OrderType string

const (
	OrderTypeLimit  OrderType = "limit"  // 限价单
	OrderTypeMarket OrderType = "market" // 市价单
)

func (t OrderType) Upper() string {
	return strings.ToUpper(string(t))
}

func (t OrderType) Lower() string {
	return strings.ToLower(string(t))
}

// Valid 是否为受支持的订单类型
func (t OrderType) Valid() bool {
	switch OrderType(t.Lower()) {
	case OrderTypeLimit, OrderTypeMarket:
		return true
	}
	return false
}

// OrderSide 订单方向
type OrderSide string

const (
	OrderSideBuy  OrderSide = "buy"  // 买入
	OrderSideSell OrderSide = "sell" // 卖出
)

func (s OrderSide) Upper() string {
	return strings.ToUpper(string(s))
}

func (s OrderSide) Lower() string {
	return strings.ToLower(string(s))
}

// Valid 是否为合法方向
func (s OrderSide) Valid() bool {
	switch OrderSide(s.Lower()) {
	case OrderSideBuy, OrderSideSell:
		return true
	}
	return false
}

// 规范化订单状态
// 交易所给不出干净枚举时保留其原生大写状态串。
const (
	OrderStatusFilled          = "FILLED"           // 完全成交
	OrderStatusOpened          = "OPENED"           // 仍在订单簿上
	OrderStatusCanceled        = "CANCELED"         // 已取消
	OrderStatusPartiallyFilled = "PARTIALLY_FILLED" // 部分成交
)

// Order 订单记录
// 交易所无关的统一形态，每次响应新建，不可变。
type Order struct {
	ID        string    // 交易所原生订单 ID（不透明）
	Symbol    string    // 标准市场名 {QUOTE}_{BASE}
	Type      string    // LIMIT | MARKET（大写）
	Side      string    // BUY | SELL（大写）
	Price     float64   // 价格，可能为 0 或由成交额推导
	Qty       float64   // 委托数量
	Filled    float64   // 已成交数量
	Status    string    // 状态，可为空（见各交易所规则）
	Timestamp time.Time // 下单/终结时间
}

// ToMapping 转为外部序列化格式，时间戳为 Unix 秒
func (o *Order) ToMapping() Mapping {
	return Mapping{
		"id":        o.ID,
		"symbol":    o.Symbol,
		"type":      o.Type,
		"side":      o.Side,
		"price":     o.Price,
		"qty":       o.Qty,
		"filled":    o.Filled,
		"status":    o.Status,
		"timestamp": o.Timestamp.Unix(),
	}
}

// OpenOrder 仍在订单簿上的订单
// 与 Order 同形，只是 Order 的一个筛选子集，没有独立生命周期。
type OpenOrder struct {
	Order
}
