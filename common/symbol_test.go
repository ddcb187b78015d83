package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSymbolFormat(t *testing.T) {
	symbol := NewSymbol("btc", "usdt")

	tests := []struct {
		name   string
		format string
		want   string
	}{
		{"standard", StandardFormat, "USDT_BTC"},
		{"bittrex", BittrexFormat, "BTC-USDT"},
		{"binance", BinanceFormat, "BTCUSDT"},
		{"huobi", HuobiFormat, "btcusdt"},
		{"okex", OkexFormat, "BTC-USDT"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, symbol.Format(tt.format))
		})
	}
}

// 标准市场名为 {QUOTE}_{BASE}，与口语习惯相反，这里锁死方向
func TestStandardFormatOrder(t *testing.T) {
	assert.Equal(t, "USDT_BTC", BuildMarketName("BTC", "USDT"))
	assert.Equal(t, "BTC_LTC", BuildMarketName("LTC", "BTC"))
}

func TestParseStandardRoundTrip(t *testing.T) {
	symbol := NewSymbol("ETH", "BTC")

	parsed, err := ParseStandard(symbol.Format(StandardFormat))
	require.NoError(t, err)
	assert.True(t, symbol.Equal(parsed))
	assert.Equal(t, "ETH", parsed.Base())
	assert.Equal(t, "BTC", parsed.Quote())
}

func TestParseStandardLowercase(t *testing.T) {
	parsed, err := ParseStandard("usdt_btc")
	require.NoError(t, err)
	assert.Equal(t, "BTC", parsed.Base())
	assert.Equal(t, "USDT", parsed.Quote())
}

func TestParseStandardInvalid(t *testing.T) {
	for _, input := range []string{"BTCUSDT", "A_B_C", ""} {
		_, err := ParseStandard(input)
		assert.Error(t, err, input)
	}
}

func TestSymbolEqual(t *testing.T) {
	assert.True(t, NewSymbol("btc", "usdt").Equal(NewSymbol("BTC", "USDT")))
	assert.False(t, NewSymbol("BTC", "USDT").Equal(NewSymbol("USDT", "BTC")))
	assert.False(t, NewSymbol("BTC", "USDT").Equal(nil))
}

func TestSymbolString(t *testing.T) {
	assert.Equal(t, "USDT_BTC", NewSymbol("BTC", "USDT").String())
}
