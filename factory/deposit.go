package factory

import (
	"strings"

	"github.com/wall-one/exchange-connector/base"
	"github.com/wall-one/exchange-connector/types"
)

// depositFactory 充值记录归一化器
// 各交易所的状态枚举互不相同，这里只区分 success / pending：
// 历史接口返回的充值没有取消和失败态。币种统一小写。
type depositFactory struct {
	exchange string
}

func (f *depositFactory) FromResponse(resp interface{}) (types.Record, error) {
	obj, err := asObject(resp)
	if err != nil {
		return nil, err
	}

	switch f.exchange {
	case base.LabelBittrex:
		return f.fromBittrex(obj)
	case base.LabelBinance:
		return f.fromBinance(obj)
	case base.LabelHuobi:
		return f.fromHuobi(obj)
	case base.LabelOkex:
		return f.fromOkex(obj)
	}
	return nil, unknownExchange(f.exchange)
}

// fromBittrex 确认数超过 3 视为到账
func (f *depositFactory) fromBittrex(resp map[string]interface{}) (*types.Deposit, error) {
	amount, err := num(resp, "Amount")
	if err != nil {
		return nil, err
	}
	asset, err := str(resp, "Currency")
	if err != nil {
		return nil, err
	}
	address, err := str(resp, "CryptoAddress")
	if err != nil {
		return nil, err
	}
	txID, err := str(resp, "TxId")
	if err != nil {
		return nil, err
	}
	confirmations, err := intval(resp, "Confirmations")
	if err != nil {
		return nil, err
	}
	ts, err := when(resp, "LastUpdated")
	if err != nil {
		return nil, err
	}

	status := types.TransferPending
	if confirmations > 3 {
		status = types.TransferSuccess
	}

	return &types.Deposit{
		Amount:     amount,
		Asset:      strings.ToLower(asset),
		Address:    address,
		AddressTag: "",
		TxID:       txID,
		Status:     status,
		InsertTime: ts,
	}, nil
}

// fromBinance status: 0 待确认，1 成功
func (f *depositFactory) fromBinance(resp map[string]interface{}) (*types.Deposit, error) {
	amount, err := num(resp, "amount")
	if err != nil {
		return nil, err
	}
	asset, err := str(resp, "asset")
	if err != nil {
		return nil, err
	}
	address, err := str(resp, "address")
	if err != nil {
		return nil, err
	}
	txID, err := str(resp, "txId")
	if err != nil {
		return nil, err
	}
	code, err := intval(resp, "status")
	if err != nil {
		return nil, err
	}
	ts, err := when(resp, "insertTime")
	if err != nil {
		return nil, err
	}

	status := types.TransferPending
	if code == 1 {
		status = types.TransferSuccess
	}

	return &types.Deposit{
		Amount:     amount,
		Asset:      strings.ToLower(asset),
		Address:    address,
		AddressTag: strDefault(resp, "addressTag", ""),
		TxID:       txID,
		Status:     status,
		InsertTime: ts,
	}, nil
}

// fromHuobi state 为 safe 视为到账，confirmed/confirming 等仍在途
func (f *depositFactory) fromHuobi(resp map[string]interface{}) (*types.Deposit, error) {
	amount, err := num(resp, "amount")
	if err != nil {
		return nil, err
	}
	asset, err := str(resp, "currency")
	if err != nil {
		return nil, err
	}
	address, err := str(resp, "address")
	if err != nil {
		return nil, err
	}
	txID, err := str(resp, "tx-hash")
	if err != nil {
		return nil, err
	}
	state, err := str(resp, "state")
	if err != nil {
		return nil, err
	}
	ts, err := when(resp, "updated-at")
	if err != nil {
		return nil, err
	}

	status := types.TransferPending
	if state == "safe" {
		status = types.TransferSuccess
	}

	return &types.Deposit{
		Amount:     amount,
		Asset:      strings.ToLower(asset),
		Address:    address,
		AddressTag: strDefault(resp, "address-tag", ""),
		TxID:       txID,
		Status:     status,
		InsertTime: ts,
	}, nil
}

// fromOkex status: 2 到账，其余在途
func (f *depositFactory) fromOkex(resp map[string]interface{}) (*types.Deposit, error) {
	amount, err := num(resp, "amount")
	if err != nil {
		return nil, err
	}
	asset, err := str(resp, "currency")
	if err != nil {
		return nil, err
	}
	address, err := str(resp, "to")
	if err != nil {
		return nil, err
	}
	txID, err := str(resp, "txid")
	if err != nil {
		return nil, err
	}
	code, err := intval(resp, "status")
	if err != nil {
		return nil, err
	}
	ts, err := when(resp, "timestamp")
	if err != nil {
		return nil, err
	}

	status := types.TransferPending
	if code == 2 {
		status = types.TransferSuccess
	}

	return &types.Deposit{
		Amount:     amount,
		Asset:      strings.ToLower(asset),
		Address:    address,
		AddressTag: "",
		TxID:       txID,
		Status:     status,
		InsertTime: ts,
	}, nil
}
