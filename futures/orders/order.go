// Package orders KuCoin 合约订单模型。
//
// 订单在构造时完成全部校验，构造后不可变；止损/止盈订单通过派生生成新值，
// 从不修改原订单。
package orders

import (
	"strings"

	"github.com/google/uuid"

	"github.com/betbot/kcfutures/futures/types"
	"github.com/betbot/kcfutures/futures/validation"
)

// Order 限价单与市价单的公共契约
type Order interface {
	Type() types.OrderType
	Side() types.Side
	Symbol() string
	ClientOid() string
	// Params 返回公共参数的副本
	Params() OrderParams
	// ToWire 返回下单接口的请求体
	ToWire() map[string]any
	// Brackets 派生 (止损单, 止盈单)
	Brackets() (stopLoss, takeProfit Order, err error)
}

// OrderParams 订单公共参数
type OrderParams struct {
	Side     types.Side
	Symbol   string // 合约代码，例如 XBTUSDTM
	Leverage string
	Size     int

	// ClientOid 为空时自动生成
	ClientOid string
	Remark    string

	Stop          types.Stop
	StopPrice     string
	StopPriceType types.StopPriceType

	TakeProfit string
	StopLoss   string

	ReduceOnly *bool
	CloseOrder *bool
	ForceHold  *bool
}

func (p OrderParams) validate() error {
	if err := validation.ValidateSide(p.Side); err != nil {
		return err
	}
	if err := validation.ValidateSize(p.Size); err != nil {
		return err
	}
	if err := validation.ValidateStop(p.Stop, p.StopPrice, p.StopPriceType); err != nil {
		return err
	}
	return validation.ValidateStopLossTakeProfit(p.Stop, p.StopLoss, p.TakeProfit)
}

// clone 深拷贝，指针字段不与原值共享
func (p OrderParams) clone() OrderParams {
	p.ReduceOnly = copyBool(p.ReduceOnly)
	p.CloseOrder = copyBool(p.CloseOrder)
	p.ForceHold = copyBool(p.ForceHold)
	return p
}

// order 两种订单共用的不可变部分
type order struct {
	typ    types.OrderType
	params OrderParams
}

// newOrder 调用方需先完成校验
func newOrder(typ types.OrderType, p OrderParams) order {
	p = p.clone()
	if p.ClientOid == "" {
		p.ClientOid = NewClientOid()
	}
	return order{typ: typ, params: p}
}

func (o *order) Type() types.OrderType { return o.typ }
func (o *order) Side() types.Side      { return o.params.Side }
func (o *order) Symbol() string        { return o.params.Symbol }
func (o *order) Leverage() string      { return o.params.Leverage }
func (o *order) Size() int             { return o.params.Size }
func (o *order) ClientOid() string     { return o.params.ClientOid }
func (o *order) Params() OrderParams   { return o.params.clone() }

// wire 公共字段全部输出，空值以 null 发送
func (o *order) wire() map[string]any {
	p := o.params
	return map[string]any{
		"side":          string(p.Side),
		"symbol":        p.Symbol,
		"type":          string(o.typ),
		"leverage":      p.Leverage,
		"size":          p.Size,
		"clientOid":     p.ClientOid,
		"remark":        optString(p.Remark),
		"stop":          optString(string(p.Stop)),
		"stopPrice":     optString(p.StopPrice),
		"stopPriceType": optString(string(p.StopPriceType)),
		"reduceOnly":    optBool(p.ReduceOnly),
		"closeOrder":    optBool(p.CloseOrder),
		"forceHold":     optBool(p.ForceHold),
	}
}

// stopLossParams 派生止损单参数：反向、down 触发、触发价为原订单 stopLoss
func (o *order) stopLossParams() (OrderParams, error) {
	if o.params.StopLoss == "" {
		return OrderParams{}, &validation.ValidationError{
			Field:   "stopLoss",
			Message: "cannot derive a stop-loss order: property 'stopLoss' is not defined",
		}
	}
	return o.derive(types.StopDown, o.params.StopLoss), nil
}

// takeProfitParams 派生止盈单参数：反向、up 触发、触发价为原订单 takeProfit
func (o *order) takeProfitParams() (OrderParams, error) {
	if o.params.TakeProfit == "" {
		return OrderParams{}, &validation.ValidationError{
			Field:   "takeProfit",
			Message: "cannot derive a take-profit order: property 'takeProfit' is not defined",
		}
	}
	return o.derive(types.StopUp, o.params.TakeProfit), nil
}

func (o *order) derive(stop types.Stop, stopPrice string) OrderParams {
	p := o.params.clone()
	p.ClientOid = NewClientOid()
	p.StopPriceType = types.StopPriceTypeTrade
	p.ReduceOnly = Bool(true)
	p.Side = FlipSide(o.params.Side)
	p.Stop = stop
	p.StopPrice = stopPrice
	// 派生单本身是 stop 单，不再携带止盈止损
	p.StopLoss = ""
	p.TakeProfit = ""
	return p
}

// FlipSide buy 变 sell，其余一律变 buy
func FlipSide(side types.Side) types.Side {
	if side == types.SideBuy {
		return types.SideSell
	}
	return types.SideBuy
}

// NewClientOid 生成不带分隔符的 UUID
func NewClientOid() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// Bool 返回 b 的指针，用于可选布尔字段
func Bool(b bool) *bool {
	return &b
}

func copyBool(b *bool) *bool {
	if b == nil {
		return nil
	}
	v := *b
	return &v
}

func optString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func optBool(b *bool) any {
	if b == nil {
		return nil
	}
	return *b
}
