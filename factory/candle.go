package factory

import (
	"fmt"

	"github.com/wall-one/exchange-connector/base"
	"github.com/wall-one/exchange-connector/types"
)

// candleFactory K线归一化器
// 仅 Binance 提供；适配器已把原生 K 线数组按字段名转成映射。
type candleFactory struct {
	exchange string
}

func (f *candleFactory) FromResponse(resp interface{}) (types.Record, error) {
	if f.exchange != base.LabelBinance {
		return nil, fmt.Errorf("%w: candles are only available on %s", base.ErrConfiguration, base.LabelBinance)
	}

	obj, err := asObject(resp)
	if err != nil {
		return nil, err
	}

	openTime, err := intval(obj, "openTime")
	if err != nil {
		return nil, err
	}
	closeTime, err := intval(obj, "closeTime")
	if err != nil {
		return nil, err
	}
	open, err := num(obj, "open")
	if err != nil {
		return nil, err
	}
	high, err := num(obj, "high")
	if err != nil {
		return nil, err
	}
	low, err := num(obj, "low")
	if err != nil {
		return nil, err
	}
	close, err := num(obj, "close")
	if err != nil {
		return nil, err
	}
	volume, err := num(obj, "volume")
	if err != nil {
		return nil, err
	}
	assetVolume, err := numDefault(obj, "assetVolume", 0)
	if err != nil {
		return nil, err
	}
	trades, err := intval(obj, "trades")
	if err != nil {
		return nil, err
	}
	buyBase, err := numDefault(obj, "takerBuyVolume", 0)
	if err != nil {
		return nil, err
	}
	buyQuote, err := numDefault(obj, "assetBuyVolume", 0)
	if err != nil {
		return nil, err
	}

	return &types.Candle{
		OpenTime:            openTime,
		CloseTime:           closeTime,
		Open:                open,
		High:                high,
		Low:                 low,
		Close:               close,
		Volume:              volume,
		QuoteAssetVolume:    assetVolume,
		Trades:              int(trades),
		TakerBuyBaseVolume:  buyBase,
		TakerBuyQuoteVolume: buyQuote,
	}, nil
}
