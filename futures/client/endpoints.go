package client

const (
	// DefaultHost 合约交易 REST 入口
	DefaultHost = "https://api-futures.kucoin.com"

	// DefaultAPIVersion 路径中的版本段：/api/{version}/...
	DefaultAPIVersion = "v1"

	// SuccessCode 响应体 code 字段的成功值
	SuccessCode = "200000"
)

// API 端点（相对于 /api/{version}/）
const (
	EndpointOrders = "orders"
	EndpointOrder  = "orders/"
)
