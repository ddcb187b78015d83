package factory

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"github.com/wall-one/exchange-connector/base"
	"github.com/wall-one/exchange-connector/types"
)

// 原始响应的字段取值与数值解析。
// 必需字段缺失、或数值字段无法解析（非数字字符串）一律包装为
// base.ErrMalformedResponse，绝不静默补零。

// asObject 断言响应为 JSON 对象
func asObject(resp interface{}) (map[string]interface{}, error) {
	m, ok := resp.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("%w: expected object, got %T", base.ErrMalformedResponse, resp)
	}
	return m, nil
}

// asList 断言响应为 JSON 数组
func asList(resp interface{}) ([]interface{}, error) {
	l, ok := resp.([]interface{})
	if !ok {
		return nil, fmt.Errorf("%w: expected array, got %T", base.ErrMalformedResponse, resp)
	}
	return l, nil
}

// field 取必需字段
func field(resp map[string]interface{}, key string) (interface{}, error) {
	v, ok := resp[key]
	if !ok {
		return nil, fmt.Errorf("%w: missing field %q", base.ErrMalformedResponse, key)
	}
	return v, nil
}

// fieldOr 依次取第一个存在的字段
func fieldOr(resp map[string]interface{}, keys ...string) (interface{}, error) {
	for _, key := range keys {
		if v, ok := resp[key]; ok {
			return v, nil
		}
	}
	return nil, fmt.Errorf("%w: missing field %q", base.ErrMalformedResponse, keys[0])
}

// str 取必需字符串字段，数字会被格式化为字符串（订单 ID 常为数字）
func str(resp map[string]interface{}, key string) (string, error) {
	v, err := field(resp, key)
	if err != nil {
		return "", err
	}
	return stringify(key, v)
}

// strOr 依次取第一个存在的字符串字段
func strOr(resp map[string]interface{}, keys ...string) (string, error) {
	v, err := fieldOr(resp, keys...)
	if err != nil {
		return "", err
	}
	return stringify(keys[0], v)
}

// strDefault 取可选字符串字段，缺失或为 null 时返回默认值
func strDefault(resp map[string]interface{}, key, def string) string {
	v, ok := resp[key]
	if !ok || v == nil {
		return def
	}
	if s, err := stringify(key, v); err == nil {
		return s
	}
	return def
}

func stringify(key string, v interface{}) (string, error) {
	switch t := v.(type) {
	case string:
		return t, nil
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), nil
	case json.Number:
		return t.String(), nil
	case int:
		return strconv.Itoa(t), nil
	case int64:
		return strconv.FormatInt(t, 10), nil
	}
	return "", fmt.Errorf("%w: field %q is not a string", base.ErrMalformedResponse, key)
}

// num 取必需数值字段
func num(resp map[string]interface{}, key string) (float64, error) {
	v, err := field(resp, key)
	if err != nil {
		return 0, err
	}
	return coerce(key, v)
}

// numOr 依次取第一个存在的数值字段
func numOr(resp map[string]interface{}, keys ...string) (float64, error) {
	v, err := fieldOr(resp, keys...)
	if err != nil {
		return 0, err
	}
	return coerce(keys[0], v)
}

// numDefault 取可选数值字段，缺失或为 null 时返回默认值
func numDefault(resp map[string]interface{}, key string, def float64) (float64, error) {
	v, ok := resp[key]
	if !ok || v == nil {
		return def, nil
	}
	return coerce(key, v)
}

// coerce 数值解析
// 字符串走 ExDecimal（空串按零处理），解析失败向上报 MalformedResponse。
func coerce(key string, v interface{}) (float64, error) {
	switch t := v.(type) {
	case float64:
		return t, nil
	case int:
		return float64(t), nil
	case int64:
		return float64(t), nil
	case json.Number:
		d, err := decimal.NewFromString(t.String())
		if err != nil {
			return 0, fmt.Errorf("%w: field %q: %v", base.ErrMalformedResponse, key, err)
		}
		return d.InexactFloat64(), nil
	case string:
		var d types.ExDecimal
		if err := d.UnmarshalJSON([]byte(strconv.Quote(t))); err != nil {
			return 0, fmt.Errorf("%w: field %q: %v", base.ErrMalformedResponse, key, err)
		}
		return d.InexactFloat64(), nil
	}
	return 0, fmt.Errorf("%w: field %q is not numeric (%T)", base.ErrMalformedResponse, key, v)
}

// when 取必需时间戳字段
// 字符串（ISO-8601 或纯数字）和 JSON 数字都可以；毫秒转秒四舍五入。
func when(resp map[string]interface{}, keys ...string) (time.Time, error) {
	v, err := fieldOr(resp, keys...)
	if err != nil {
		return time.Time{}, err
	}
	return coerceTime(keys[0], v)
}

func coerceTime(key string, v interface{}) (time.Time, error) {
	var raw string
	switch t := v.(type) {
	case string:
		raw = t
	case float64:
		raw = strconv.FormatFloat(t, 'f', -1, 64)
	case json.Number:
		raw = t.String()
	case int64:
		raw = strconv.FormatInt(t, 10)
	default:
		return time.Time{}, fmt.Errorf("%w: field %q is not a timestamp (%T)", base.ErrMalformedResponse, key, v)
	}

	ts, err := types.ParseTimestamp(raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: field %q: %v", base.ErrMalformedResponse, key, err)
	}
	return ts, nil
}

// intval 取必需整数字段（状态码等）
func intval(resp map[string]interface{}, key string) (int64, error) {
	f, err := num(resp, key)
	if err != nil {
		return 0, err
	}
	return int64(f), nil
}
