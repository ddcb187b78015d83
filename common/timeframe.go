package common

import "strings"

// TimeframeMap K线周期映射表（Binance 周期命名为基准）
var TimeframeMap = map[string]string{
	"1m":  "1m",
	"3m":  "3m",
	"5m":  "5m",
	"15m": "15m",
	"30m": "30m",
	"1h":  "1h",
	"2h":  "2h",
	"4h":  "4h",
	"6h":  "6h",
	"8h":  "8h",
	"12h": "12h",
	"1d":  "1d",
	"3d":  "3d",
	"7d":  "1w", // 7天标准化为1周
	"30d": "1M", // 30天标准化为1月
	"1w":  "1w",
	"1M":  "1M",
}

// NormalizeTimeframe 标准化K线周期
// 未知周期原样返回，由交易所侧报错。
func NormalizeTimeframe(timeframe string) string {
	if v, ok := TimeframeMap[timeframe]; ok {
		return v
	}
	if v, ok := TimeframeMap[strings.ToLower(timeframe)]; ok {
		return v
	}
	return timeframe
}
