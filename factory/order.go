package factory

import (
	"fmt"
	"strings"

	"github.com/wall-one/exchange-connector/base"
	"github.com/wall-one/exchange-connector/common"
	"github.com/wall-one/exchange-connector/types"
)

// orderFactory 订单归一化器
type orderFactory struct {
	exchange string
}

func (f *orderFactory) FromResponse(resp interface{}) (types.Record, error) {
	obj, err := asObject(resp)
	if err != nil {
		return nil, err
	}

	var order *types.Order
	switch f.exchange {
	case base.LabelBittrex:
		order, err = f.fromBittrex(obj)
	case base.LabelBinance:
		order, err = f.fromBinance(obj)
	case base.LabelHuobi:
		order, err = f.fromHuobi(obj)
	case base.LabelOkex:
		order, err = f.fromOkex(obj)
	default:
		return nil, unknownExchange(f.exchange)
	}
	if err != nil {
		return nil, err
	}
	return order, nil
}

// fromBittrex Bittrex 订单
// 状态判定依赖载荷形态：带 IsOpen 键的是挂单形payload，缺失则为历史形。
// 该启发式脆弱但下游依赖，保持原样。
func (f *orderFactory) fromBittrex(resp map[string]interface{}) (*types.Order, error) {
	symbol, err := bittrexSymbol(resp, "Exchange")
	if err != nil {
		return nil, err
	}

	orderType, side, err := splitBittrexOrderType(resp)
	if err != nil {
		return nil, err
	}

	price, err := num(resp, "Price")
	if err != nil {
		return nil, err
	}
	qty, err := num(resp, "Quantity")
	if err != nil {
		return nil, err
	}
	remaining, err := num(resp, "QuantityRemaining")
	if err != nil {
		return nil, err
	}

	id, err := str(resp, "OrderUuid")
	if err != nil {
		return nil, err
	}
	ts, err := when(resp, "TimeStamp", "Closed")
	if err != nil {
		return nil, err
	}

	var status string
	if _, hasIsOpen := resp["IsOpen"]; hasIsOpen {
		if remaining != 0 {
			status = types.OrderStatusOpened
		} else {
			status = types.OrderStatusFilled
		}
	} else {
		if remaining == 0 {
			status = types.OrderStatusFilled
		} else {
			status = types.OrderStatusCanceled
		}
	}

	return &types.Order{
		ID:        id,
		Symbol:    symbol.Format(common.StandardFormat),
		Type:      orderType,
		Side:      side,
		Price:     price,
		Qty:       qty,
		Filled:    qty - remaining,
		Status:    status,
		Timestamp: ts,
	}, nil
}

// fromBinance Binance 订单
// 原生 BTCUSDT 无法独立切分，标准市场名由适配器注入到 symbol 键。
// 状态沿用交易所枚举（NEW/PARTIALLY_FILLED/FILLED/CANCELED/...）。
func (f *orderFactory) fromBinance(resp map[string]interface{}) (*types.Order, error) {
	id, err := str(resp, "orderId")
	if err != nil {
		return nil, err
	}
	symbol, err := str(resp, "symbol")
	if err != nil {
		return nil, err
	}
	orderType, err := str(resp, "type")
	if err != nil {
		return nil, err
	}
	side, err := str(resp, "side")
	if err != nil {
		return nil, err
	}
	price, err := num(resp, "price")
	if err != nil {
		return nil, err
	}
	qty, err := numOr(resp, "origQty", "qty")
	if err != nil {
		return nil, err
	}

	var filled float64
	if _, ok := resp["qty"]; ok {
		filled, err = num(resp, "qty")
	} else {
		filled, err = num(resp, "executedQty")
	}
	if err != nil {
		return nil, err
	}

	ts, err := when(resp, "time")
	if err != nil {
		return nil, err
	}

	return &types.Order{
		ID:        id,
		Symbol:    symbol,
		Type:      strings.ToUpper(orderType),
		Side:      strings.ToUpper(side),
		Price:     price,
		Qty:       qty,
		Filled:    filled,
		Status:    strDefault(resp, "status", ""),
		Timestamp: ts,
	}, nil
}

// fromHuobi Huobi 订单
// type 形如 buy-limit（方向在前），市价单 price 为 0 时用
// 成交额/成交量推导均价，成交量为 0 时价格保持 0，不做除零。
func (f *orderFactory) fromHuobi(resp map[string]interface{}) (*types.Order, error) {
	id, err := str(resp, "id")
	if err != nil {
		return nil, err
	}
	symbol, err := str(resp, "symbol")
	if err != nil {
		return nil, err
	}

	typeField, err := str(resp, "type")
	if err != nil {
		return nil, err
	}
	parts := strings.Split(typeField, "-")
	if len(parts) != 2 {
		return nil, fmt.Errorf("%w: unexpected order type %q", base.ErrMalformedResponse, typeField)
	}
	side, orderType := strings.ToUpper(parts[0]), strings.ToUpper(parts[1])

	qty, err := num(resp, "amount")
	if err != nil {
		return nil, err
	}
	filled, err := numDefault(resp, "field-amount", 0)
	if err != nil {
		return nil, err
	}
	cash, err := numDefault(resp, "field-cash-amount", 0)
	if err != nil {
		return nil, err
	}
	price, err := num(resp, "price")
	if err != nil {
		return nil, err
	}
	if price == 0 && filled != 0 {
		price = cash / filled
	}

	ts, err := when(resp, "finished-at", "created-at")
	if err != nil {
		return nil, err
	}

	var status string
	if s := strDefault(resp, "state", ""); s != "" {
		status = strings.ToUpper(s)
	}

	return &types.Order{
		ID:        id,
		Symbol:    symbol,
		Type:      orderType,
		Side:      side,
		Price:     price,
		Qty:       qty,
		Filled:    filled,
		Status:    status,
		Timestamp: ts,
	}, nil
}

// fromOkex OKEx 订单
// v3 响应没有可直接透传的状态字段；price 为 0（市价单）时用
// 成交额/数量推导。
func (f *orderFactory) fromOkex(resp map[string]interface{}) (*types.Order, error) {
	id, err := str(resp, "order_id")
	if err != nil {
		return nil, err
	}

	instrument, err := str(resp, "instrument_id")
	if err != nil {
		return nil, err
	}
	symbol, err := okexSymbol(instrument)
	if err != nil {
		return nil, err
	}

	orderType, err := str(resp, "type")
	if err != nil {
		return nil, err
	}
	side, err := str(resp, "side")
	if err != nil {
		return nil, err
	}

	qty, err := num(resp, "size")
	if err != nil {
		return nil, err
	}
	filled, err := numDefault(resp, "filled_size", 0)
	if err != nil {
		return nil, err
	}
	price, err := num(resp, "price")
	if err != nil {
		return nil, err
	}
	if price == 0 && qty != 0 {
		notional, err := numOr(resp, "notional", "filled_notional")
		if err != nil {
			return nil, err
		}
		price = notional / qty
	}

	ts, err := when(resp, "timestamp")
	if err != nil {
		return nil, err
	}

	return &types.Order{
		ID:        id,
		Symbol:    symbol.Format(common.StandardFormat),
		Type:      strings.ToUpper(orderType),
		Side:      strings.ToUpper(side),
		Price:     price,
		Qty:       qty,
		Filled:    filled,
		Timestamp: ts,
	}, nil
}

// openOrderFactory 挂单归一化器
// 与订单同形；仅 Bittrex 的挂单载荷形态不同，需要单独处理。
type openOrderFactory struct {
	orderFactory
}

func (f *openOrderFactory) FromResponse(resp interface{}) (types.Record, error) {
	if f.exchange == base.LabelBittrex {
		obj, err := asObject(resp)
		if err != nil {
			return nil, err
		}
		order, err := f.fromBittrexOpen(obj)
		if err != nil {
			return nil, err
		}
		return &types.OpenOrder{Order: *order}, nil
	}

	record, err := f.orderFactory.FromResponse(resp)
	if err != nil {
		return nil, err
	}
	return &types.OpenOrder{Order: *record.(*types.Order)}, nil
}

// fromBittrexOpen Bittrex 挂单
// 时间取 Opened；载荷本身就是挂单形，剩余量非零即 OPENED。
func (f *openOrderFactory) fromBittrexOpen(resp map[string]interface{}) (*types.Order, error) {
	symbol, err := bittrexSymbol(resp, "Exchange")
	if err != nil {
		return nil, err
	}

	orderType, side, err := splitBittrexOrderType(resp)
	if err != nil {
		return nil, err
	}

	id, err := str(resp, "OrderUuid")
	if err != nil {
		return nil, err
	}
	price, err := num(resp, "Price")
	if err != nil {
		return nil, err
	}
	qty, err := num(resp, "Quantity")
	if err != nil {
		return nil, err
	}
	remaining, err := num(resp, "QuantityRemaining")
	if err != nil {
		return nil, err
	}
	ts, err := when(resp, "Opened")
	if err != nil {
		return nil, err
	}

	status := types.OrderStatusOpened
	if remaining == 0 {
		status = types.OrderStatusFilled
	}

	return &types.Order{
		ID:        id,
		Symbol:    symbol.Format(common.StandardFormat),
		Type:      orderType,
		Side:      side,
		Price:     price,
		Qty:       qty,
		Filled:    qty - remaining,
		Status:    status,
		Timestamp: ts,
	}, nil
}

// bittrexSymbol 从 Bittrex 市场名字段（BASE-QUOTE）解析交易对
func bittrexSymbol(resp map[string]interface{}, key string) (*common.Symbol, error) {
	market, err := str(resp, key)
	if err != nil {
		return nil, err
	}
	parts := strings.Split(market, "-")
	if len(parts) != 2 {
		return nil, fmt.Errorf("%w: unexpected market name %q", base.ErrMalformedResponse, market)
	}
	return common.NewSymbol(parts[0], parts[1]), nil
}

// okexSymbol 从 OKEx instrument_id（BASE-QUOTE）解析交易对
func okexSymbol(instrument string) (*common.Symbol, error) {
	parts := strings.Split(instrument, "-")
	if len(parts) != 2 {
		return nil, fmt.Errorf("%w: unexpected instrument %q", base.ErrMalformedResponse, instrument)
	}
	return common.NewSymbol(parts[0], parts[1]), nil
}

// splitBittrexOrderType 解析 LIMIT_BUY 形态的订单类型字段
// 历史载荷里键叫 OrderType，部分端点叫 Type。
func splitBittrexOrderType(resp map[string]interface{}) (orderType, side string, err error) {
	typeField, err := strOr(resp, "OrderType", "Type")
	if err != nil {
		return "", "", err
	}
	parts := strings.Split(strings.ToUpper(typeField), "_")
	if len(parts) != 2 {
		return "", "", fmt.Errorf("%w: unexpected order type %q", base.ErrMalformedResponse, typeField)
	}
	return parts[0], parts[1], nil
}
