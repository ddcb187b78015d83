package base

import (
	"encoding/base64"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConnectionLowercasesExchange(t *testing.T) {
	conn := NewConnection("Binance", "key", "secret", "")
	assert.Equal(t, "binance", conn.Exchange)
}

func TestConnectionFromMapping(t *testing.T) {
	conn, err := ConnectionFromMapping(map[string]interface{}{
		"exchange":    "HUOBI_RU",
		"api_key":     "key",
		"secret_key":  "secret",
		"customer_id": "ru",
	})
	require.NoError(t, err)
	assert.Equal(t, "huobi_ru", conn.Exchange)
	assert.Equal(t, "key", conn.APIKey)
	assert.Equal(t, "ru", conn.CustomerID)
}

func TestConnectionFromMappingMissingField(t *testing.T) {
	for _, missing := range []string{"api_key", "secret_key", "customer_id"} {
		m := map[string]interface{}{
			"api_key":     "key",
			"secret_key":  "secret",
			"customer_id": "",
		}
		delete(m, missing)

		_, err := ConnectionFromMapping(m)
		assert.ErrorIs(t, err, ErrConfiguration, missing)
	}
}

func TestTokenAuthenticatorRoundTrip(t *testing.T) {
	conn := NewConnection("bittrex", "key", "secret", "cid")

	token, err := TokenAuthenticator{}.Auth(conn)
	require.NoError(t, err)

	raw, err := base64.StdEncoding.DecodeString(token)
	require.NoError(t, err)

	var m map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &m))

	restored, err := ConnectionFromMapping(m)
	require.NoError(t, err)
	assert.Equal(t, conn, restored)
}
