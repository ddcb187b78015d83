package base

import (
	"context"

	"github.com/wall-one/exchange-connector/common"
	"github.com/wall-one/exchange-connector/types"
)

// DustThreshold 余额噪声下限
// 钱包汇总只保留严格大于该值的余额，避免把粉尘当作可交易资产。
const DustThreshold = 1e-7

// CancelTarget 撤单目标：单个订单 ID 或整个交易对
// 按交易对撤单会撤掉该交易对上的全部挂单。
type CancelTarget struct {
	OrderID string
	Symbol  *common.Symbol
}

// CancelByID 按订单 ID 撤单
func CancelByID(orderID string) CancelTarget {
	return CancelTarget{OrderID: orderID}
}

// CancelBySymbol 撤掉交易对上的全部挂单
func CancelBySymbol(symbol *common.Symbol) CancelTarget {
	return CancelTarget{Symbol: symbol}
}

// Exchange 统一交易所接口
// 调用方无需关心背后是哪家交易所。所有远程操作都接受 context。
type Exchange interface {
	// 交易对与认证
	SplitMarketName(symbol string) (*common.Symbol, error) // 解析标准市场名
	Auth(conn *Connection) (string, error)                 // 编码连接为不透明令牌
	WithConnection(conn *Connection) error                 // 绑定连接凭证
	Authenticated() bool                                   // 是否已绑定连接

	// 账户
	Wallet(ctx context.Context) (map[string]float64, error)    // 总余额（含冻结）
	Available(ctx context.Context) (map[string]float64, error) // 可用余额

	// 订单
	Orders(ctx context.Context, limit int, sinceOrderID string) ([]*types.Order, error)                                // 跨交易对历史订单
	OrdersBySymbol(ctx context.Context, symbol *common.Symbol, limit int, sinceOrderID string) ([]*types.Order, error) // 单交易对终态订单
	OrderInfo(ctx context.Context, symbol *common.Symbol, id string) (*types.Order, error)                            // 查询单个订单
	CreateOrder(ctx context.Context, orderType, side string, symbol *common.Symbol, price, qty float64) (string, error)
	StopLoss(ctx context.Context, side string, symbol *common.Symbol, price, qty, stopPrice float64) (string, error)
	TakeProfit(ctx context.Context, side string, symbol *common.Symbol, price, qty, stopPrice float64) (string, error)
	CancelOrder(ctx context.Context, target CancelTarget) bool // 撤单失败一律返回 false，不抛错
	OpenOrders(ctx context.Context, symbol *common.Symbol) ([]*types.OpenOrder, error)

	// 出入金
	Deposits(ctx context.Context) ([]*types.Deposit, error)
	Withdrawals(ctx context.Context) ([]*types.Withdrawal, error)

	// 市场数据
	Market(ctx context.Context, symbol *common.Symbol, depth int) (*types.OrderBook, error)
	Symbols(ctx context.Context) ([]*types.SymbolInfo, error)

	// Deprecated: 仅 Binance 支持，后续版本将移除
	Candles(ctx context.Context, symbol *common.Symbol, interval string, limit int) ([]*types.Candle, error)
}
