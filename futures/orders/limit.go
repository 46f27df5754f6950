package orders

import (
	"github.com/betbot/kcfutures/futures/types"
	"github.com/betbot/kcfutures/futures/validation"
)

// LimitParams 限价单参数
type LimitParams struct {
	OrderParams

	Price       string
	TimeInForce types.TimeInForce // 为空时交易所按 GTC 处理
	PostOnly    bool

	// Hidden 与 Iceberg 互斥；Iceberg 需要 VisibleSize
	Hidden      bool
	Iceberg     bool
	VisibleSize int
}

func (p LimitParams) validate() error {
	if err := p.OrderParams.validate(); err != nil {
		return err
	}
	if err := validation.ValidateTimeInForce(p.TimeInForce); err != nil {
		return err
	}
	if err := validation.ValidatePostOnly(p.TimeInForce, p.PostOnly); err != nil {
		return err
	}
	if err := validation.ValidateHiddenAndIceberg(p.Hidden, p.Iceberg); err != nil {
		return err
	}
	return validation.ValidateIceberg(p.Iceberg, p.VisibleSize)
}

// LimitOrder 限价单
type LimitOrder struct {
	order

	price       string
	timeInForce types.TimeInForce
	postOnly    bool
	hidden      bool
	iceberg     bool
	visibleSize int
}

var _ Order = (*LimitOrder)(nil)

// NewLimitOrder 校验并创建限价单，任何一条规则失败都不会返回订单
func NewLimitOrder(p LimitParams) (*LimitOrder, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	return &LimitOrder{
		order:       newOrder(types.OrderTypeLimit, p.OrderParams),
		price:       p.Price,
		timeInForce: p.TimeInForce,
		postOnly:    p.PostOnly,
		hidden:      p.Hidden,
		iceberg:     p.Iceberg,
		visibleSize: p.VisibleSize,
	}, nil
}

func (o *LimitOrder) Price() string                  { return o.price }
func (o *LimitOrder) TimeInForce() types.TimeInForce { return o.timeInForce }
func (o *LimitOrder) PostOnly() bool                 { return o.postOnly }
func (o *LimitOrder) Hidden() bool                   { return o.hidden }
func (o *LimitOrder) Iceberg() bool                  { return o.iceberg }
func (o *LimitOrder) VisibleSize() int               { return o.visibleSize }

// LimitParams 返回全部参数的副本，可修改后重新构造
func (o *LimitOrder) LimitParams() LimitParams {
	return o.withBase(o.Params())
}

func (o *LimitOrder) withBase(p OrderParams) LimitParams {
	return LimitParams{
		OrderParams: p,
		Price:       o.price,
		TimeInForce: o.timeInForce,
		PostOnly:    o.postOnly,
		Hidden:      o.hidden,
		Iceberg:     o.iceberg,
		VisibleSize: o.visibleSize,
	}
}

// ToWire 在公共字段基础上加入 price；展示选项仅在设置时输出
func (o *LimitOrder) ToWire() map[string]any {
	m := o.wire()
	m["price"] = o.price
	if o.timeInForce != "" {
		m["timeInForce"] = string(o.timeInForce)
	}
	if o.postOnly {
		m["postOnly"] = true
	}
	if o.hidden {
		m["hidden"] = true
	}
	if o.iceberg {
		m["iceberg"] = true
	}
	if o.visibleSize > 0 {
		m["visibleSize"] = o.visibleSize
	}
	return m
}

// StopLossOrder 派生止损单，保留价格与展示选项
func (o *LimitOrder) StopLossOrder() (*LimitOrder, error) {
	p, err := o.stopLossParams()
	if err != nil {
		return nil, err
	}
	return NewLimitOrder(o.withBase(p))
}

// TakeProfitOrder 派生止盈单
func (o *LimitOrder) TakeProfitOrder() (*LimitOrder, error) {
	p, err := o.takeProfitParams()
	if err != nil {
		return nil, err
	}
	return NewLimitOrder(o.withBase(p))
}

// StopLossTakeProfitOrders 依次返回止损单、止盈单
func (o *LimitOrder) StopLossTakeProfitOrders() (*LimitOrder, *LimitOrder, error) {
	sl, err := o.StopLossOrder()
	if err != nil {
		return nil, nil, err
	}
	tp, err := o.TakeProfitOrder()
	if err != nil {
		return nil, nil, err
	}
	return sl, tp, nil
}

func (o *LimitOrder) Brackets() (Order, Order, error) {
	sl, tp, err := o.StopLossTakeProfitOrders()
	if err != nil {
		return nil, nil, err
	}
	return sl, tp, nil
}
