package factory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wall-one/exchange-connector/base"
)

func TestBittrexSymbolInfoDefaults(t *testing.T) {
	dispatch := NewDispatch(base.LabelBittrex)

	info, err := dispatch.SymbolInfo(map[string]interface{}{
		"MarketName":   "BTC-LTC",
		"MinTradeSize": 0.01,
	})
	require.NoError(t, err)

	assert.Equal(t, "BTC-LTC", info.ID)
	assert.Equal(t, "LTC_BTC", info.Symbol)
	assert.Equal(t, "BTC", info.Base)
	assert.Equal(t, "LTC", info.Quote)
	assert.Equal(t, 8, info.BasePrecision)
	assert.Equal(t, 0.01, info.MinQty)
	// 交易所不给的限制用保守默认值补齐
	assert.Equal(t, defaultStep, info.Step)
	assert.Equal(t, defaultTick, info.Tick)
	assert.Equal(t, defaultMinAmount, info.MinAmount)
}

func TestBinanceSymbolInfoFilters(t *testing.T) {
	dispatch := NewDispatch(base.LabelBinance)

	info, err := dispatch.SymbolInfo(map[string]interface{}{
		"symbol":             "ETHBTC",
		"baseAsset":          "ETH",
		"quoteAsset":         "BTC",
		"baseAssetPrecision": 8.0,
		"quotePrecision":     8.0,
		"filters": []interface{}{
			map[string]interface{}{
				"filterType": "PRICE_FILTER",
				"tickSize":   "0.00000100",
			},
			map[string]interface{}{
				"filterType": "LOT_SIZE",
				"stepSize":   "0.00100000",
				"minQty":     "0.00100000",
			},
			map[string]interface{}{
				"filterType":  "MIN_NOTIONAL",
				"minNotional": "0.00100000",
			},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "ETHBTC", info.ID)
	assert.Equal(t, "BTC_ETH", info.Symbol)
	assert.InDelta(t, 0.000001, info.Tick, 1e-12)
	assert.InDelta(t, 0.001, info.Step, 1e-12)
	assert.InDelta(t, 0.001, info.MinQty, 1e-12)
	assert.InDelta(t, 0.001, info.MinAmount, 1e-12)
}

func TestBinanceSymbolInfoNoFilters(t *testing.T) {
	dispatch := NewDispatch(base.LabelBinance)

	info, err := dispatch.SymbolInfo(map[string]interface{}{
		"symbol":             "BTCUSDT",
		"baseAsset":          "BTC",
		"quoteAsset":         "USDT",
		"baseAssetPrecision": 8.0,
		"quotePrecision":     2.0,
	})
	require.NoError(t, err)
	assert.Equal(t, defaultStep, info.Step)
	assert.Equal(t, binanceMinAmount, info.MinAmount)
}

func TestHuobiSymbolInfoPrecision(t *testing.T) {
	dispatch := NewDispatch(base.LabelHuobi)

	info, err := dispatch.SymbolInfo(map[string]interface{}{
		"base-currency":    "btc",
		"quote-currency":   "usdt",
		"amount-precision": 4.0,
		"price-precision":  2.0,
		"symbol":           "btcusdt",
	})
	require.NoError(t, err)

	assert.Equal(t, "btcusdt", info.ID)
	assert.Equal(t, "USDT_BTC", info.Symbol)
	assert.Equal(t, "BTC", info.Base)
	assert.Equal(t, 4, info.BasePrecision)
	// 步长由精度推导
	assert.InDelta(t, 0.0001, info.Step, 1e-12)
	assert.InDelta(t, 0.01, info.Tick, 1e-12)
	assert.Equal(t, huobiMinQty, info.MinQty)
}

func TestOkexSymbolInfo(t *testing.T) {
	dispatch := NewDispatch(base.LabelOkex)

	info, err := dispatch.SymbolInfo(map[string]interface{}{
		"instrument_id":  "BTC-USDT",
		"size_increment": "0.00000001",
		"tick_size":      "0.1",
		"min_size":       "0.001",
	})
	require.NoError(t, err)

	assert.Equal(t, "BTC-USDT", info.ID)
	assert.Equal(t, "USDT_BTC", info.Symbol)
	// 精度从步长的小数位数推导
	assert.Equal(t, 8, info.BasePrecision)
	assert.Equal(t, 1, info.QuotePrecision)
	assert.InDelta(t, 1e-8, info.Step, 1e-16)
	assert.InDelta(t, 0.001, info.MinQty, 1e-12)
}

func TestDecimalPlaces(t *testing.T) {
	assert.Equal(t, 3, decimalPlaces("0.001"))
	assert.Equal(t, 1, decimalPlaces("0.100"))
	assert.Equal(t, 0, decimalPlaces("1"))
	assert.Equal(t, 0, decimalPlaces(""))
}
