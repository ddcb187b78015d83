package types

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// isoLayouts 各交易所使用的 ISO-8601 变体
// Bittrex 返回不带时区的本地格式，OKEx 返回带 Z 的 RFC3339。
var isoLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// ParseTimestamp 解析交易所时间戳
// 支持 epoch 秒/毫秒（按数字位数区分）和 ISO-8601 字符串。
// 毫秒转秒采用四舍五入而非截断。
func ParseTimestamp(value string) (time.Time, error) {
	s := strings.TrimSpace(strings.Trim(value, `"`))
	if s == "" || s == "null" {
		return time.Time{}, nil
	}

	if ts, err := strconv.ParseInt(s, 10, 64); err == nil {
		switch len(s) {
		case 10:
			return time.Unix(ts, 0), nil
		case 13:
			return UnixFromMillis(ts), nil
		default:
			return time.Time{}, fmt.Errorf("unsupported timestamp length: %d (%s)", len(s), s)
		}
	}

	for _, layout := range isoLayouts {
		if tt, err := time.Parse(layout, s); err == nil {
			return tt, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid timestamp %q", s)
}

// UnixFromMillis 毫秒时间戳转时间
// 按秒取整时四舍五入（与下游的秒级时间戳约定保持一致）。
func UnixFromMillis(ms int64) time.Time {
	return time.Unix((ms+500)/1000, 0)
}
