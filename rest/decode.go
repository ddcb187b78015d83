package rest

import (
	"fmt"
	"strconv"
	"time"

	"github.com/wall-one/exchange-connector/base"
	"github.com/wall-one/exchange-connector/types"
)

// 解码器是 types 包 ToMapping 契约的逆向：
// connector 服务吐出的就是该格式，字段名与时间戳精度必须对齐。

func decodeBalances(result interface{}) (map[string]float64, error) {
	obj, err := asMapping(result)
	if err != nil {
		return nil, err
	}

	balances := make(map[string]float64, len(obj))
	for asset, value := range obj {
		amount, err := toFloat(value)
		if err != nil {
			return nil, fmt.Errorf("%w: balance of %s: %v", base.ErrMalformedResponse, asset, err)
		}
		balances[asset] = amount
	}
	return balances, nil
}

func decodeOrders(result interface{}) ([]*types.Order, error) {
	list, err := asMappingList(result)
	if err != nil {
		return nil, err
	}

	orders := make([]*types.Order, 0, len(list))
	for _, item := range list {
		order, err := decodeOrder(item)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, nil
}

func decodeOrder(obj map[string]interface{}) (*types.Order, error) {
	price, err := floatField(obj, "price")
	if err != nil {
		return nil, err
	}
	qty, err := floatField(obj, "qty")
	if err != nil {
		return nil, err
	}
	filled, err := floatField(obj, "filled")
	if err != nil {
		return nil, err
	}
	ts, err := intField(obj, "timestamp")
	if err != nil {
		return nil, err
	}

	return &types.Order{
		ID:        stringField(obj, "id"),
		Symbol:    stringField(obj, "symbol"),
		Type:      stringField(obj, "type"),
		Side:      stringField(obj, "side"),
		Price:     price,
		Qty:       qty,
		Filled:    filled,
		Status:    stringField(obj, "status"),
		Timestamp: time.Unix(ts, 0),
	}, nil
}

func decodeDeposit(obj map[string]interface{}) (*types.Deposit, error) {
	amount, err := floatField(obj, "amount")
	if err != nil {
		return nil, err
	}
	insertTime, err := intField(obj, "insert_time")
	if err != nil {
		return nil, err
	}

	return &types.Deposit{
		Amount:     amount,
		Asset:      stringField(obj, "asset"),
		Address:    stringField(obj, "address"),
		AddressTag: stringField(obj, "address_tag"),
		TxID:       stringField(obj, "tx_id"),
		Status:     stringField(obj, "status"),
		InsertTime: types.UnixFromMillis(insertTime),
	}, nil
}

func decodeWithdrawal(obj map[string]interface{}) (*types.Withdrawal, error) {
	amount, err := floatField(obj, "amount")
	if err != nil {
		return nil, err
	}

	var applyTime *time.Time
	if obj["apply_time"] != nil {
		ms, err := intField(obj, "apply_time")
		if err != nil {
			return nil, err
		}
		t := types.UnixFromMillis(ms)
		applyTime = &t
	}

	return &types.Withdrawal{
		Amount:     amount,
		Address:    stringField(obj, "address"),
		AddressTag: stringField(obj, "address_tag"),
		Asset:      stringField(obj, "asset"),
		TxID:       stringField(obj, "tx_id"),
		ApplyTime:  applyTime,
		Status:     stringField(obj, "status"),
	}, nil
}

func decodeOrderBook(obj map[string]interface{}) (*types.OrderBook, error) {
	bids, err := decodeBookSide(obj["bids"])
	if err != nil {
		return nil, err
	}
	asks, err := decodeBookSide(obj["asks"])
	if err != nil {
		return nil, err
	}

	return &types.OrderBook{
		Symbol: stringField(obj, "symbol"),
		Bids:   bids,
		Asks:   asks,
	}, nil
}

func decodeBookSide(value interface{}) ([]*types.OrderBookEntry, error) {
	list, err := asMappingList(value)
	if err != nil {
		return nil, err
	}

	entries := make([]*types.OrderBookEntry, 0, len(list))
	for _, item := range list {
		price, err := floatField(item, "price")
		if err != nil {
			return nil, err
		}
		qty, err := floatField(item, "qty")
		if err != nil {
			return nil, err
		}
		entries = append(entries, &types.OrderBookEntry{Price: price, Qty: qty})
	}
	return entries, nil
}

func decodeSymbolInfo(obj map[string]interface{}) (*types.SymbolInfo, error) {
	basePrecision, err := intField(obj, "base_precision")
	if err != nil {
		return nil, err
	}
	quotePrecision, err := intField(obj, "quote_precision")
	if err != nil {
		return nil, err
	}
	step, err := floatField(obj, "step")
	if err != nil {
		return nil, err
	}
	tick, err := floatField(obj, "tick")
	if err != nil {
		return nil, err
	}
	minQty, err := floatField(obj, "min_qty")
	if err != nil {
		return nil, err
	}
	minAmount, err := floatField(obj, "min_amount")
	if err != nil {
		return nil, err
	}

	return &types.SymbolInfo{
		ID:             stringField(obj, "id"),
		Symbol:         stringField(obj, "symbol"),
		Base:           stringField(obj, "base"),
		Quote:          stringField(obj, "quote"),
		BasePrecision:  int(basePrecision),
		QuotePrecision: int(quotePrecision),
		Step:           step,
		Tick:           tick,
		MinQty:         minQty,
		MinAmount:      minAmount,
	}, nil
}

func decodeCandle(obj map[string]interface{}) (*types.Candle, error) {
	openTime, err := intField(obj, "open_time")
	if err != nil {
		return nil, err
	}
	closeTime, err := intField(obj, "close_time")
	if err != nil {
		return nil, err
	}
	trades, err := intField(obj, "number_of_trades")
	if err != nil {
		return nil, err
	}

	candle := &types.Candle{
		OpenTime:  openTime,
		CloseTime: closeTime,
		Trades:    int(trades),
	}
	for key, dst := range map[string]*float64{
		"open":                         &candle.Open,
		"high":                         &candle.High,
		"low":                          &candle.Low,
		"close":                        &candle.Close,
		"volume":                       &candle.Volume,
		"quote_asset_volume":           &candle.QuoteAssetVolume,
		"taker_buy_base_asset_volume":  &candle.TakerBuyBaseVolume,
		"taker_buy_quote_asset_volume": &candle.TakerBuyQuoteVolume,
	} {
		v, err := floatField(obj, key)
		if err != nil {
			return nil, err
		}
		*dst = v
	}
	return candle, nil
}

func asMapping(value interface{}) (map[string]interface{}, error) {
	obj, ok := value.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("%w: connector result is not an object", base.ErrMalformedResponse)
	}
	return obj, nil
}

func asMappingList(value interface{}) ([]map[string]interface{}, error) {
	raw, ok := value.([]interface{})
	if !ok {
		return nil, fmt.Errorf("%w: connector result is not a list", base.ErrMalformedResponse)
	}

	items := make([]map[string]interface{}, 0, len(raw))
	for _, entry := range raw {
		obj, ok := entry.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("%w: connector list entry is not an object", base.ErrMalformedResponse)
		}
		items = append(items, obj)
	}
	return items, nil
}

func stringField(obj map[string]interface{}, key string) string {
	if s, ok := obj[key].(string); ok {
		return s
	}
	return ""
}

func floatField(obj map[string]interface{}, key string) (float64, error) {
	v, err := toFloat(obj[key])
	if err != nil {
		return 0, fmt.Errorf("%w: field %s: %v", base.ErrMalformedResponse, key, err)
	}
	return v, nil
}

func intField(obj map[string]interface{}, key string) (int64, error) {
	v, err := floatField(obj, key)
	if err != nil {
		return 0, err
	}
	return int64(v), nil
}

func toFloat(value interface{}) (float64, error) {
	switch v := value.(type) {
	case float64:
		return v, nil
	case string:
		return strconv.ParseFloat(v, 64)
	case nil:
		return 0, nil
	default:
		return 0, fmt.Errorf("unexpected value %v", value)
	}
}
