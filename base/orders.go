package base

import (
	"context"
	"sort"

	"github.com/wall-one/exchange-connector/common"
	"github.com/wall-one/exchange-connector/types"
)

// PairLookup 判断两个资产能否组成已上市交易对
// 命中时返回规范化后的交易对。
type PairLookup func(asset1, asset2 string) (*common.Symbol, bool)

// FetchOrdersFunc 拉取单个交易对的历史订单
type FetchOrdersFunc func(ctx context.Context, symbol *common.Symbol, limit int, sinceOrderID string) ([]*types.Order, error)

// ScanPairs 跨交易对历史订单扫描
// 交易所没有"全部交易对"端点时，用当前持仓资产两两组合枚举候选交易对，
// 逐对拉取直到凑够 limit 条或组合耗尽。资产按字典序排序保证枚举顺序
// 每次调用一致，sinceOrderID 分页才有意义。
// 复杂度为资产数的平方，资产很多时请求量没有上界，调用方自行取舍。
func ScanPairs(ctx context.Context, wallet map[string]float64, lookup PairLookup, fetch FetchOrdersFunc, limit int, sinceOrderID string) ([]*types.Order, error) {
	assets := make([]string, 0, len(wallet))
	for asset := range wallet {
		assets = append(assets, asset)
	}
	sort.Strings(assets)

	var orders []*types.Order
	checked := make(map[string]bool)
	remaining := limit

	for _, asset1 := range assets {
		for _, asset2 := range assets {
			if asset1 == asset2 {
				continue
			}

			symbol, ok := lookup(asset1, asset2)
			if !ok {
				continue
			}

			key := symbol.Base() + symbol.Quote()
			if checked[key] {
				continue
			}
			checked[key] = true

			batch, err := fetch(ctx, symbol, min(remaining, limit), sinceOrderID)
			if err != nil {
				return nil, err
			}

			if len(batch) > remaining {
				batch = batch[:remaining]
			}
			orders = append(orders, batch...)
			remaining -= len(batch)

			if remaining <= 0 {
				return orders, nil
			}
		}
	}

	return orders, nil
}
