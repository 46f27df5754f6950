package types

import "encoding/json"

// OrderResult 下单接口返回的 data 字段
type OrderResult struct {
	OrderID   string `json:"orderId"`
	ClientOid string `json:"clientOid,omitempty"`

	// Raw 原始 data 内容
	Raw json.RawMessage `json:"-"`
}

// BracketResult 主订单及其止损/止盈订单的提交结果
type BracketResult struct {
	Parent     *OrderResult
	StopLoss   *OrderResult
	TakeProfit *OrderResult
}
