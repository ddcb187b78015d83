package base

import "errors"

var (
	// ErrConfiguration 配置错误（未知交易所或未知记录类型），属程序缺陷，不可重试
	ErrConfiguration = errors.New("invalid connector configuration")
	// ErrMalformedResponse 交易所响应缺少必需字段或数值无法解析
	ErrMalformedResponse = errors.New("malformed exchange response")
	// ErrUnsupportedOrderType 目标交易所不支持的订单类型
	ErrUnsupportedOrderType = errors.New("unsupported order type")
	// ErrRemoteRequest 传输层或交易所业务错误，统一为一种错误类型
	ErrRemoteRequest = errors.New("remote request failed")
	// ErrNotImplemented 当前交易所未实现的能力
	ErrNotImplemented = errors.New("not implemented")
	// ErrNotAuthenticated 连接未认证，需要先调用 WithConnection
	ErrNotAuthenticated = errors.New("not authenticated")
	// ErrWaitResponse 远端结果尚未就绪（通用 REST 连接器的 WAIT 响应）
	ErrWaitResponse = errors.New("response not ready")
)
