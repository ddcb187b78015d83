package base

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wall-one/exchange-connector/common"
	"github.com/wall-one/exchange-connector/types"
)

func listedLookup(ids ...string) PairLookup {
	listed := make(map[string]bool, len(ids))
	for _, id := range ids {
		listed[id] = true
	}
	return func(asset1, asset2 string) (*common.Symbol, bool) {
		if !listed[asset1+asset2] {
			return nil, false
		}
		return common.NewSymbol(asset1, asset2), true
	}
}

func ordersBatch(symbol *common.Symbol, n int) []*types.Order {
	batch := make([]*types.Order, 0, n)
	for i := 0; i < n; i++ {
		batch = append(batch, &types.Order{
			ID:     fmt.Sprintf("%s-%d", symbol.String(), i),
			Symbol: symbol.Format(common.StandardFormat),
		})
	}
	return batch
}

func TestScanPairsDeterministicOrder(t *testing.T) {
	wallet := map[string]float64{"USDT": 10, "BTC": 1, "ETH": 2}
	lookup := listedLookup("BTCUSDT", "ETHBTC", "ETHUSDT")

	var fetched []string
	fetch := func(ctx context.Context, symbol *common.Symbol, limit int, since string) ([]*types.Order, error) {
		fetched = append(fetched, symbol.Format(common.StandardFormat))
		return ordersBatch(symbol, 1), nil
	}

	orders, err := ScanPairs(context.Background(), wallet, lookup, fetch, 100, "")
	require.NoError(t, err)

	// 资产按字典序枚举，命中顺序每次一致
	assert.Equal(t, []string{"USDT_BTC", "BTC_ETH", "USDT_ETH"}, fetched)
	assert.Len(t, orders, 3)
}

func TestScanPairsEarlyStop(t *testing.T) {
	wallet := map[string]float64{"USDT": 10, "BTC": 1, "ETH": 2}
	lookup := listedLookup("BTCUSDT", "ETHBTC", "ETHUSDT")

	calls := 0
	fetch := func(ctx context.Context, symbol *common.Symbol, limit int, since string) ([]*types.Order, error) {
		calls++
		return ordersBatch(symbol, 2), nil
	}

	orders, err := ScanPairs(context.Background(), wallet, lookup, fetch, 3, "")
	require.NoError(t, err)

	// 凑够 limit 即停，超出部分截断
	assert.Len(t, orders, 3)
	assert.Equal(t, 2, calls)
}

func TestScanPairsDeduplicates(t *testing.T) {
	wallet := map[string]float64{"BTC": 1, "ETH": 2}

	// 无论参数顺序都归一到同一交易对
	lookup := func(asset1, asset2 string) (*common.Symbol, bool) {
		if asset1 > asset2 {
			asset1, asset2 = asset2, asset1
		}
		return common.NewSymbol(asset1, asset2), true
	}

	calls := 0
	fetch := func(ctx context.Context, symbol *common.Symbol, limit int, since string) ([]*types.Order, error) {
		calls++
		return nil, nil
	}

	_, err := ScanPairs(context.Background(), wallet, lookup, fetch, 10, "")
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestScanPairsPropagatesSince(t *testing.T) {
	wallet := map[string]float64{"BTC": 1, "USDT": 5}
	lookup := listedLookup("BTCUSDT")

	fetch := func(ctx context.Context, symbol *common.Symbol, limit int, since string) ([]*types.Order, error) {
		assert.Equal(t, "42", since)
		return nil, nil
	}

	_, err := ScanPairs(context.Background(), wallet, lookup, fetch, 10, "42")
	require.NoError(t, err)
}

func TestScanPairsPropagatesError(t *testing.T) {
	wallet := map[string]float64{"BTC": 1, "USDT": 5}
	lookup := listedLookup("BTCUSDT")

	fetch := func(ctx context.Context, symbol *common.Symbol, limit int, since string) ([]*types.Order, error) {
		return nil, fmt.Errorf("%w: down", ErrRemoteRequest)
	}

	_, err := ScanPairs(context.Background(), wallet, lookup, fetch, 10, "")
	assert.ErrorIs(t, err, ErrRemoteRequest)
}
