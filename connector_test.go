package connector

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wall-one/exchange-connector/base"
	"github.com/wall-one/exchange-connector/bittrex"
	"github.com/wall-one/exchange-connector/huobi"
	"github.com/wall-one/exchange-connector/rest"
)

func TestIsExchangeSupported(t *testing.T) {
	assert.True(t, IsExchangeSupported("bittrex"))
	assert.True(t, IsExchangeSupported("Binance"))
	assert.True(t, IsExchangeSupported("huobi_ru"))
	assert.False(t, IsExchangeSupported("kraken"))
}

func TestSupportedExchanges(t *testing.T) {
	labels := SupportedExchanges()
	for _, label := range []string{
		base.LabelBittrex, base.LabelBinance, base.LabelOkex,
		base.LabelHuobi, base.LabelHuobiRU, base.LabelHuobiUS, base.LabelHuobiCH,
	} {
		assert.Contains(t, labels, label)
	}
}

func TestResolveRegistered(t *testing.T) {
	ex, err := Resolve(base.NewConnection("bittrex", "key", "secret", ""))
	require.NoError(t, err)

	assert.IsType(t, &bittrex.Bittrex{}, ex)
	assert.True(t, ex.Authenticated())
}

func TestResolveHuobiRegion(t *testing.T) {
	ex, err := Resolve(base.NewConnection("huobi_ru", "key", "secret", ""))
	require.NoError(t, err)
	assert.IsType(t, &huobi.Huobi{}, ex)
}

func TestResolveUnknownWithoutConnectorURL(t *testing.T) {
	_, err := Resolve(base.NewConnection("kraken", "key", "secret", ""))
	assert.ErrorIs(t, err, base.ErrConfiguration)
}

func TestResolveUnknownFallsBackToRest(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth", r.URL.Path)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"result": "tok-1"})
	}))
	defer server.Close()

	ex, err := Resolve(
		base.NewConnection("kraken", "key", "secret", ""),
		WithConnectorURL(server.URL),
	)
	require.NoError(t, err)

	assert.IsType(t, &rest.Rest{}, ex)
	assert.True(t, ex.Authenticated())
}

func TestMarketNameHelpers(t *testing.T) {
	assert.Equal(t, "USDT_BTC", BuildMarketName("BTC", "USDT"))

	symbol, err := SplitMarketName("USDT_BTC")
	require.NoError(t, err)
	assert.Equal(t, "BTC", symbol.Base())
	assert.Equal(t, "USDT", symbol.Quote())
}
