package common

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"
)

// SignHMAC256 HMAC-SHA256签名（hex编码，用于 Binance/Huobi）
func SignHMAC256(message, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(message))
	return hex.EncodeToString(mac.Sum(nil))
}

// SignHMAC256Base64 HMAC-SHA256签名（base64编码，用于 OKEx/Huobi）
func SignHMAC256Base64(message, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(message))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// SignHMAC512 HMAC-SHA512签名（hex编码，用于 Bittrex）
func SignHMAC512(message, secret string) string {
	mac := hmac.New(sha512.New, []byte(secret))
	mac.Write([]byte(message))
	return hex.EncodeToString(mac.Sum(nil))
}

// BuildQueryString 构建查询字符串
// 键按字典序排序并 URL 编码，保证与签名串一致。
func BuildQueryString(params map[string]interface{}) string {
	if len(params) == 0 {
		return ""
	}

	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var parts []string
	for _, k := range keys {
		v := params[k]
		var value string
		switch val := v.(type) {
		case string:
			value = val
		case int:
			value = strconv.Itoa(val)
		case int64:
			value = strconv.FormatInt(val, 10)
		case float64:
			value = strconv.FormatFloat(val, 'f', -1, 64)
		case bool:
			value = strconv.FormatBool(val)
		default:
			value = fmt.Sprintf("%v", val)
		}
		parts = append(parts, fmt.Sprintf("%s=%s", k, url.QueryEscape(value)))
	}
	return strings.Join(parts, "&")
}

// GetTimestamp 获取时间戳（毫秒）
func GetTimestamp() int64 {
	return time.Now().UnixMilli()
}

// GetISO8601Timestamp 获取ISO8601格式的时间戳（用于 OKEx 签名）
func GetISO8601Timestamp() string {
	return time.Now().UTC().Format(time.RFC3339)
}
