package types

// SymbolInfo 交易对元信息
// 交易所缺省步长/最小量时会被填入保守默认值，下游下单逻辑依赖这些字段存在。
type SymbolInfo struct {
	ID             string  // 交易所原生交易对标识
	Symbol         string  // 标准市场名 {QUOTE}_{BASE}
	Base           string  // 基础货币
	Quote          string  // 计价货币
	BasePrecision  int     // 数量精度
	QuotePrecision int     // 价格精度
	Step           float64 // 数量步长
	Tick           float64 // 价格步长
	MinQty         float64 // 最小委托数量
	MinAmount      float64 // 最小成交额
}

// ToMapping 转为外部序列化格式
func (s *SymbolInfo) ToMapping() Mapping {
	return Mapping{
		"id":              s.ID,
		"symbol":          s.Symbol,
		"base":            s.Base,
		"quote":           s.Quote,
		"base_precision":  s.BasePrecision,
		"quote_precision": s.QuotePrecision,
		"step":            s.Step,
		"tick":            s.Tick,
		"min_qty":         s.MinQty,
		"min_amount":      s.MinAmount,
	}
}
