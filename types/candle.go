package types

// Candle K线数据
// 本设计中仅 Binance 提供，其余交易所未实现该能力。
type Candle struct {
	OpenTime            int64   // 开盘时间（毫秒）
	CloseTime           int64   // 收盘时间（毫秒）
	Open                float64 // 开盘价
	High                float64 // 最高价
	Low                 float64 // 最低价
	Close               float64 // 收盘价
	Volume              float64 // 成交量
	QuoteAssetVolume    float64 // 计价货币成交额
	Trades              int     // 成交笔数
	TakerBuyBaseVolume  float64 // 主动买入量
	TakerBuyQuoteVolume float64 // 主动买入额
}

// ToMapping 转为外部序列化格式
func (c *Candle) ToMapping() Mapping {
	return Mapping{
		"open_time":                    c.OpenTime,
		"open":                         c.Open,
		"high":                         c.High,
		"low":                          c.Low,
		"close":                        c.Close,
		"volume":                       c.Volume,
		"close_time":                   c.CloseTime,
		"quote_asset_volume":           c.QuoteAssetVolume,
		"number_of_trades":             c.Trades,
		"taker_buy_base_asset_volume":  c.TakerBuyBaseVolume,
		"taker_buy_quote_asset_volume": c.TakerBuyQuoteVolume,
	}
}
