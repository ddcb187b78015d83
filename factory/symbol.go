package factory

import (
	"math"
	"strings"

	"github.com/wall-one/exchange-connector/base"
	"github.com/wall-one/exchange-connector/common"
	"github.com/wall-one/exchange-connector/types"
)

// 交易所未给出限制时的保守默认值，下游下单量化依赖这些字段非零。
const (
	defaultStep      = 0.001
	defaultTick      = 0.01
	defaultMinQty    = 0.001
	defaultMinAmount = 0.01

	huobiMinQty      = 0.00001
	binanceMinAmount = 0.001
)

// symbolFactory 交易对元信息归一化器
type symbolFactory struct {
	exchange string
}

func (f *symbolFactory) FromResponse(resp interface{}) (types.Record, error) {
	obj, err := asObject(resp)
	if err != nil {
		return nil, err
	}

	switch f.exchange {
	case base.LabelBittrex:
		return f.fromBittrex(obj)
	case base.LabelBinance:
		return f.fromBinance(obj)
	case base.LabelHuobi:
		return f.fromHuobi(obj)
	case base.LabelOkex:
		return f.fromOkex(obj)
	}
	return nil, unknownExchange(f.exchange)
}

// fromBittrex 只给最小委托量，精度固定 8 位
func (f *symbolFactory) fromBittrex(resp map[string]interface{}) (*types.SymbolInfo, error) {
	symbol, err := bittrexSymbol(resp, "MarketName")
	if err != nil {
		return nil, err
	}
	id, err := str(resp, "MarketName")
	if err != nil {
		return nil, err
	}
	minQty, err := numDefault(resp, "MinTradeSize", defaultMinQty)
	if err != nil {
		return nil, err
	}

	return &types.SymbolInfo{
		ID:             id,
		Symbol:         symbol.Format(common.StandardFormat),
		Base:           symbol.Base(),
		Quote:          symbol.Quote(),
		BasePrecision:  8,
		QuotePrecision: 8,
		Step:           defaultStep,
		Tick:           defaultTick,
		MinQty:         minQty,
		MinAmount:      defaultMinAmount,
	}, nil
}

// fromBinance 步长与最小量从 filters 列表提取
func (f *symbolFactory) fromBinance(resp map[string]interface{}) (*types.SymbolInfo, error) {
	id, err := str(resp, "symbol")
	if err != nil {
		return nil, err
	}
	baseAsset, err := str(resp, "baseAsset")
	if err != nil {
		return nil, err
	}
	quoteAsset, err := str(resp, "quoteAsset")
	if err != nil {
		return nil, err
	}
	basePrecision, err := intval(resp, "baseAssetPrecision")
	if err != nil {
		return nil, err
	}
	quotePrecision, err := intval(resp, "quotePrecision")
	if err != nil {
		return nil, err
	}

	info := &types.SymbolInfo{
		ID:             id,
		Symbol:         common.NewSymbol(baseAsset, quoteAsset).Format(common.StandardFormat),
		Base:           strings.ToUpper(baseAsset),
		Quote:          strings.ToUpper(quoteAsset),
		BasePrecision:  int(basePrecision),
		QuotePrecision: int(quotePrecision),
		Step:           defaultStep,
		Tick:           defaultTick,
		MinQty:         defaultMinQty,
		MinAmount:      binanceMinAmount,
	}

	filters, _ := resp["filters"].([]interface{})
	for _, raw := range filters {
		filter, ok := raw.(map[string]interface{})
		if !ok {
			continue
		}
		switch strDefault(filter, "filterType", "") {
		case "LOT_SIZE":
			if v, err := num(filter, "stepSize"); err == nil && v != 0 {
				info.Step = v
			}
			if v, err := num(filter, "minQty"); err == nil && v != 0 {
				info.MinQty = v
			}
		case "PRICE_FILTER":
			if v, err := num(filter, "tickSize"); err == nil && v != 0 {
				info.Tick = v
			}
		case "MIN_NOTIONAL":
			if v, err := num(filter, "minNotional"); err == nil && v != 0 {
				info.MinAmount = v
			}
		}
	}
	return info, nil
}

// fromHuobi 步长由精度推导（10^-precision）
func (f *symbolFactory) fromHuobi(resp map[string]interface{}) (*types.SymbolInfo, error) {
	baseAsset, err := str(resp, "base-currency")
	if err != nil {
		return nil, err
	}
	quoteAsset, err := str(resp, "quote-currency")
	if err != nil {
		return nil, err
	}
	amountPrecision, err := intval(resp, "amount-precision")
	if err != nil {
		return nil, err
	}
	pricePrecision, err := intval(resp, "price-precision")
	if err != nil {
		return nil, err
	}
	id := strDefault(resp, "symbol", strings.ToLower(baseAsset+quoteAsset))

	return &types.SymbolInfo{
		ID:             id,
		Symbol:         common.NewSymbol(baseAsset, quoteAsset).Format(common.StandardFormat),
		Base:           strings.ToUpper(baseAsset),
		Quote:          strings.ToUpper(quoteAsset),
		BasePrecision:  int(amountPrecision),
		QuotePrecision: int(pricePrecision),
		Step:           math.Pow(10, -float64(amountPrecision)),
		Tick:           math.Pow(10, -float64(pricePrecision)),
		MinQty:         huobiMinQty,
		MinAmount:      defaultMinAmount,
	}, nil
}

// fromOkex 精度从步长的小数位数推导
func (f *symbolFactory) fromOkex(resp map[string]interface{}) (*types.SymbolInfo, error) {
	id, err := str(resp, "instrument_id")
	if err != nil {
		return nil, err
	}
	symbol, err := okexSymbol(id)
	if err != nil {
		return nil, err
	}
	step, err := numDefault(resp, "size_increment", defaultStep)
	if err != nil {
		return nil, err
	}
	tick, err := numDefault(resp, "tick_size", defaultTick)
	if err != nil {
		return nil, err
	}
	minQty, err := numDefault(resp, "min_size", defaultMinQty)
	if err != nil {
		return nil, err
	}

	return &types.SymbolInfo{
		ID:             id,
		Symbol:         symbol.Format(common.StandardFormat),
		Base:           symbol.Base(),
		Quote:          symbol.Quote(),
		BasePrecision:  decimalPlaces(strDefault(resp, "size_increment", "")),
		QuotePrecision: decimalPlaces(strDefault(resp, "tick_size", "")),
		Step:           step,
		Tick:           tick,
		MinQty:         minQty,
		MinAmount:      defaultMinAmount,
	}, nil
}

// decimalPlaces 数值字符串的小数位数，如 "0.001" → 3
func decimalPlaces(s string) int {
	i := strings.IndexByte(s, '.')
	if i < 0 {
		return 0
	}
	return len(strings.TrimRight(s[i+1:], "0"))
}
