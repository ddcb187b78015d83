package types

// OrderBookEntry 订单簿条目
type OrderBookEntry struct {
	Qty   float64 // 数量
	Price float64 // 价格
}

// ToMapping 转为外部序列化格式
func (e *OrderBookEntry) ToMapping() Mapping {
	return Mapping{
		"qty":   e.Qty,
		"price": e.Price,
	}
}

// OrderBook 市场深度快照
// 买卖盘保持交易所原生排序。
type OrderBook struct {
	Symbol string            // 标准市场名
	Bids   []*OrderBookEntry // 买盘
	Asks   []*OrderBookEntry // 卖盘
}

// ToMapping 转为外部序列化格式
func (b *OrderBook) ToMapping() Mapping {
	bids := make([]Mapping, 0, len(b.Bids))
	for _, e := range b.Bids {
		bids = append(bids, e.ToMapping())
	}
	asks := make([]Mapping, 0, len(b.Asks))
	for _, e := range b.Asks {
		asks = append(asks, e.ToMapping())
	}
	return Mapping{
		"symbol": b.Symbol,
		"bids":   bids,
		"asks":   asks,
	}
}
