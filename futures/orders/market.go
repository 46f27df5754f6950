package orders

import (
	"github.com/betbot/kcfutures/futures/types"
)

// MarketOrder 市价单，没有额外字段
type MarketOrder struct {
	order
}

var _ Order = (*MarketOrder)(nil)

// NewMarketOrder 校验并创建市价单
func NewMarketOrder(p OrderParams) (*MarketOrder, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	return &MarketOrder{order: newOrder(types.OrderTypeMarket, p)}, nil
}

// ToWire 市价单请求体
func (o *MarketOrder) ToWire() map[string]any {
	return o.wire()
}

// StopLossOrder 派生止损单
func (o *MarketOrder) StopLossOrder() (*MarketOrder, error) {
	p, err := o.stopLossParams()
	if err != nil {
		return nil, err
	}
	return NewMarketOrder(p)
}

// TakeProfitOrder 派生止盈单
func (o *MarketOrder) TakeProfitOrder() (*MarketOrder, error) {
	p, err := o.takeProfitParams()
	if err != nil {
		return nil, err
	}
	return NewMarketOrder(p)
}

// StopLossTakeProfitOrders 依次返回止损单、止盈单
func (o *MarketOrder) StopLossTakeProfitOrders() (*MarketOrder, *MarketOrder, error) {
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

func (o *MarketOrder) Brackets() (Order, Order, error) {
	sl, tp, err := o.StopLossTakeProfitOrders()
	if err != nil {
		return nil, nil, err
	}
	return sl, tp, nil
}
