package factory

import (
	"strings"
	"time"

	"github.com/wall-one/exchange-connector/base"
	"github.com/wall-one/exchange-connector/types"
)

// withdrawalFactory 提现记录归一化器
// 提现有完整的四态（pending/success/canceled/failed），币种统一大写。
type withdrawalFactory struct {
	exchange string
}

func (f *withdrawalFactory) FromResponse(resp interface{}) (types.Record, error) {
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

// fromBittrex 状态由布尔标志推导：Opened 未清空即 pending，
// Canceled 置位即 canceled，否则视为完成。
func (f *withdrawalFactory) fromBittrex(resp map[string]interface{}) (*types.Withdrawal, error) {
	amount, err := num(resp, "Amount")
	if err != nil {
		return nil, err
	}
	asset, err := str(resp, "Currency")
	if err != nil {
		return nil, err
	}
	address, err := str(resp, "Address")
	if err != nil {
		return nil, err
	}

	var status string
	var applyTime *time.Time
	if opened, ok := resp["Opened"]; ok && opened != nil && opened != false {
		status = types.TransferPending
		ts, err := when(resp, "Opened")
		if err != nil {
			return nil, err
		}
		applyTime = &ts
	} else if canceled, ok := resp["Canceled"]; ok && canceled == true {
		status = types.TransferCanceled
	} else {
		status = types.TransferSuccess
	}

	return &types.Withdrawal{
		Amount:     amount,
		Address:    address,
		AddressTag: "",
		Asset:      strings.ToUpper(asset),
		TxID:       strDefault(resp, "TxId", ""),
		ApplyTime:  applyTime,
		Status:     status,
	}, nil
}

// fromBinance status: 1 取消，5 失败，6 完成，其余（0-4）在途
func (f *withdrawalFactory) fromBinance(resp map[string]interface{}) (*types.Withdrawal, error) {
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
	code, err := intval(resp, "status")
	if err != nil {
		return nil, err
	}
	ts, err := when(resp, "applyTime")
	if err != nil {
		return nil, err
	}

	var status string
	switch code {
	case 1:
		status = types.TransferCanceled
	case 5:
		status = types.TransferFailed
	case 6:
		status = types.TransferSuccess
	default:
		status = types.TransferPending
	}

	return &types.Withdrawal{
		Amount:     amount,
		Address:    address,
		AddressTag: strDefault(resp, "addressTag", ""),
		Asset:      strings.ToUpper(asset),
		TxID:       strDefault(resp, "txId", ""),
		ApplyTime:  &ts,
		Status:     status,
	}, nil
}

// fromHuobi state 为 confirmed 视为完成，其余在途
func (f *withdrawalFactory) fromHuobi(resp map[string]interface{}) (*types.Withdrawal, error) {
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
	state, err := str(resp, "state")
	if err != nil {
		return nil, err
	}
	ts, err := when(resp, "updated-at")
	if err != nil {
		return nil, err
	}

	status := types.TransferPending
	if state == "confirmed" {
		status = types.TransferSuccess
	}

	return &types.Withdrawal{
		Amount:     amount,
		Address:    address,
		AddressTag: strDefault(resp, "address-tag", ""),
		Asset:      strings.ToUpper(asset),
		TxID:       strDefault(resp, "tx-hash", ""),
		ApplyTime:  &ts,
		Status:     status,
	}, nil
}

// fromOkex status: -3/-2 取消，-1 失败，2 完成，其余在途
func (f *withdrawalFactory) fromOkex(resp map[string]interface{}) (*types.Withdrawal, error) {
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
	code, err := intval(resp, "status")
	if err != nil {
		return nil, err
	}
	ts, err := when(resp, "timestamp")
	if err != nil {
		return nil, err
	}

	var status string
	switch code {
	case -3, -2:
		status = types.TransferCanceled
	case -1:
		status = types.TransferFailed
	case 2:
		status = types.TransferSuccess
	default:
		status = types.TransferPending
	}

	return &types.Withdrawal{
		Amount:     amount,
		Address:    address,
		AddressTag: strDefault(resp, "tag", ""),
		Asset:      strings.ToUpper(asset),
		TxID:       strDefault(resp, "txid", ""),
		ApplyTime:  &ts,
		Status:     status,
	}, nil
}
