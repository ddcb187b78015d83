package factory

import (
	"fmt"

	"github.com/wall-one/exchange-connector/base"
	"github.com/wall-one/exchange-connector/types"
)

func errShortLevel(exchange string) error {
	return fmt.Errorf("%w: %s depth level needs [price, qty]", base.ErrMalformedResponse, exchange)
}

// orderBookEntryFactory 订单簿条目归一化器
// Bittrex 返回 {Quantity, Rate} 对象，其余交易所是 [price, qty] 数组。
type orderBookEntryFactory struct {
	exchange string
}

func (f *orderBookEntryFactory) FromResponse(resp interface{}) (types.Record, error) {
	switch f.exchange {
	case base.LabelBittrex:
		obj, err := asObject(resp)
		if err != nil {
			return nil, err
		}
		qty, err := num(obj, "Quantity")
		if err != nil {
			return nil, err
		}
		price, err := num(obj, "Rate")
		if err != nil {
			return nil, err
		}
		return &types.OrderBookEntry{Qty: qty, Price: price}, nil

	case base.LabelBinance, base.LabelHuobi, base.LabelOkex:
		list, err := asList(resp)
		if err != nil {
			return nil, err
		}
		if len(list) < 2 {
			return nil, errShortLevel(f.exchange)
		}
		price, err := coerce("price", list[0])
		if err != nil {
			return nil, err
		}
		qty, err := coerce("qty", list[1])
		if err != nil {
			return nil, err
		}
		return &types.OrderBookEntry{Qty: qty, Price: price}, nil
	}
	return nil, unknownExchange(f.exchange)
}
