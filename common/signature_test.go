package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildQueryString(t *testing.T) {
	query := BuildQueryString(map[string]interface{}{
		"symbol": "BTCUSDT",
		"limit":  100,
		"price":  0.001,
		"note":   "a b",
	})
	// 键按字典序排序，值做 URL 编码
	assert.Equal(t, "limit=100&note=a+b&price=0.001&symbol=BTCUSDT", query)
}

func TestBuildQueryStringEmpty(t *testing.T) {
	assert.Equal(t, "", BuildQueryString(nil))
	assert.Equal(t, "", BuildQueryString(map[string]interface{}{}))
}

func TestBuildQueryStringFloatNotScientific(t *testing.T) {
	query := BuildQueryString(map[string]interface{}{"qty": 0.0000001})
	assert.Equal(t, "qty=0.0000001", query)
}

func TestSignaturesDeterministic(t *testing.T) {
	assert.Equal(t, SignHMAC256("payload", "secret"), SignHMAC256("payload", "secret"))
	assert.NotEqual(t, SignHMAC256("payload", "secret"), SignHMAC256("payload", "other"))
	assert.Len(t, SignHMAC256("payload", "secret"), 64)
	assert.Len(t, SignHMAC512("payload", "secret"), 128)
	assert.NotEmpty(t, SignHMAC256Base64("payload", "secret"))
}
