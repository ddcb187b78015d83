package types

import "time"

// 规范化出入金状态
const (
	TransferPending  = "pending"
	TransferSuccess  = "success"
	TransferCanceled = "canceled"
	TransferFailed   = "failed"
)

// Deposit 充值记录
type Deposit struct {
	Amount     float64   // 金额
	Asset      string    // 币种
	Address    string    // 充值地址
	AddressTag string    // 地址备注/标签，交易所不支持时为空串
	TxID       string    // 链上交易 ID
	Status     string    // pending | success | canceled | failed
	InsertTime time.Time // 入账时间
}

// ToMapping 转为外部序列化格式，insert_time 为毫秒时间戳
func (d *Deposit) ToMapping() Mapping {
	return Mapping{
		"amount":      d.Amount,
		"asset":       d.Asset,
		"address":     d.Address,
		"address_tag": d.AddressTag,
		"tx_id":       d.TxID,
		"status":      d.Status,
		"insert_time": d.InsertTime.Unix() * 1000,
	}
}

// Withdrawal 提现记录
// ApplyTime 可为空：部分交易所排队中的提现还没有时间戳。
type Withdrawal struct {
	Amount     float64
	Address    string
	AddressTag string
	Asset      string
	TxID       string
	ApplyTime  *time.Time
	Status     string
}

// ToMapping 转为外部序列化格式，apply_time 为毫秒时间戳或 nil
func (w *Withdrawal) ToMapping() Mapping {
	var applyTime interface{}
	if w.ApplyTime != nil {
		applyTime = w.ApplyTime.Unix() * 1000
	}
	return Mapping{
		"amount":      w.Amount,
		"address":     w.Address,
		"address_tag": w.AddressTag,
		"asset":       w.Asset,
		"tx_id":       w.TxID,
		"apply_time":  applyTime,
		"status":      w.Status,
	}
}
