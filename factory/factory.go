// Package factory 实现各交易所响应到统一领域记录的归一化。
//
// 两级分发：记录类型 → 归一化器，归一化器内部再按交易所标签分发到
// 具体实现。未知交易所或未知记录类型直接失败（base.ErrConfiguration），
// 绝不静默降级。归一化器都是纯函数：原始 JSON 映射进、领域记录出，
// 不做任何捕获——必需字段缺失即报 base.ErrMalformedResponse 并向上传播。
//
// Binance 和 Huobi 的原生交易对（BTCUSDT/btcusdt）无法独立切分，这两家的
// 订单归一化依赖适配器预先把标准市场名注入到响应的 symbol 键。
package factory

import (
	"fmt"

	"github.com/wall-one/exchange-connector/base"
	"github.com/wall-one/exchange-connector/types"
)

// Kind 领域记录类型
type Kind string

const (
	KindOrder          Kind = "order"
	KindOpenOrder      Kind = "open_order"
	KindDeposit        Kind = "deposit"
	KindWithdrawal     Kind = "withdrawal"
	KindSymbol         Kind = "symbol"
	KindOrderBookEntry Kind = "order_book_entry"
	KindCandle         Kind = "candle"
)

// Factory 单一记录类型的归一化器
// resp 是 JSON 解码后的原始响应：对象为 map[string]interface{}，
// 数组（订单簿条目）为 []interface{}。
type Factory interface {
	FromResponse(resp interface{}) (types.Record, error)
}

// New 创建指定 (交易所, 记录类型) 的归一化器
func New(exchange string, kind Kind) (Factory, error) {
	switch kind {
	case KindOrder:
		return &orderFactory{exchange: exchange}, nil
	case KindOpenOrder:
		return &openOrderFactory{orderFactory{exchange: exchange}}, nil
	case KindDeposit:
		return &depositFactory{exchange: exchange}, nil
	case KindWithdrawal:
		return &withdrawalFactory{exchange: exchange}, nil
	case KindSymbol:
		return &symbolFactory{exchange: exchange}, nil
	case KindOrderBookEntry:
		return &orderBookEntryFactory{exchange: exchange}, nil
	case KindCandle:
		return &candleFactory{exchange: exchange}, nil
	}
	return nil, fmt.Errorf("%w: unknown record kind %q", base.ErrConfiguration, kind)
}

// unknownExchange 未注册的交易所标签
func unknownExchange(exchange string) error {
	return fmt.Errorf("%w: unknown exchange %q", base.ErrConfiguration, exchange)
}

// Dispatch 某个交易所的归一化器集合
// 适配器持有一个 Dispatch，按记录类型取归一化器。
type Dispatch struct {
	exchange string
}

// NewDispatch 创建交易所归一化分发器
func NewDispatch(exchange string) *Dispatch {
	return &Dispatch{exchange: exchange}
}

// Exchange 返回分发器绑定的交易所标签
func (d *Dispatch) Exchange() string {
	return d.exchange
}

// Order 归一化订单响应
func (d *Dispatch) Order(resp interface{}) (*types.Order, error) {
	record, err := d.from(KindOrder, resp)
	if err != nil {
		return nil, err
	}
	return record.(*types.Order), nil
}

// OpenOrder 归一化挂单响应
func (d *Dispatch) OpenOrder(resp interface{}) (*types.OpenOrder, error) {
	record, err := d.from(KindOpenOrder, resp)
	if err != nil {
		return nil, err
	}
	return record.(*types.OpenOrder), nil
}

// Deposit 归一化充值记录
func (d *Dispatch) Deposit(resp interface{}) (*types.Deposit, error) {
	record, err := d.from(KindDeposit, resp)
	if err != nil {
		return nil, err
	}
	return record.(*types.Deposit), nil
}

// Withdrawal 归一化提现记录
func (d *Dispatch) Withdrawal(resp interface{}) (*types.Withdrawal, error) {
	record, err := d.from(KindWithdrawal, resp)
	if err != nil {
		return nil, err
	}
	return record.(*types.Withdrawal), nil
}

// SymbolInfo 归一化交易对元信息
func (d *Dispatch) SymbolInfo(resp interface{}) (*types.SymbolInfo, error) {
	record, err := d.from(KindSymbol, resp)
	if err != nil {
		return nil, err
	}
	return record.(*types.SymbolInfo), nil
}

// OrderBookEntry 归一化订单簿条目
func (d *Dispatch) OrderBookEntry(resp interface{}) (*types.OrderBookEntry, error) {
	record, err := d.from(KindOrderBookEntry, resp)
	if err != nil {
		return nil, err
	}
	return record.(*types.OrderBookEntry), nil
}

// Candle 归一化K线
func (d *Dispatch) Candle(resp interface{}) (*types.Candle, error) {
	record, err := d.from(KindCandle, resp)
	if err != nil {
		return nil, err
	}
	return record.(*types.Candle), nil
}

func (d *Dispatch) from(kind Kind, resp interface{}) (types.Record, error) {
	f, err := New(d.exchange, kind)
	if err != nil {
		return nil, err
	}
	return f.FromResponse(resp)
}
