package main

import (
	"fmt"
	"strings"

	"github.com/betbot/kcfutures/futures/orders"
	"github.com/betbot/kcfutures/futures/types"
	"github.com/betbot/kcfutures/pkg/marketmath"
)

// orderFlags 命令行给出的订单参数
type orderFlags struct {
	Type      string
	Side      string
	Symbol    string
	Leverage  string
	Size      int
	Price     string
	ClientOid string
	Remark    string

	Stop          string
	StopPrice     string
	StopPriceType string

	StopLoss      string
	TakeProfit    string
	StopLossPct   string
	TakeProfitPct string
	RefPrice      string // 市价单计算百分比止盈止损时的参考价
	Tick          string

	TimeInForce string
	PostOnly    bool
	Hidden      bool
	Iceberg     bool
	VisibleSize int

	ReduceOnly *bool
	CloseOrder *bool
	ForceHold  *bool
}

// resolveBrackets 百分比参数换算为绝对触发价，显式给出的价格优先
func (f *orderFlags) resolveBrackets() error {
	if f.StopLossPct == "" && f.TakeProfitPct == "" {
		return nil
	}
	entry := f.Price
	if strings.EqualFold(f.Type, string(types.OrderTypeMarket)) {
		entry = f.RefPrice
	}
	if entry == "" {
		return fmt.Errorf("百分比止盈止损需要入场价（限价单 -price，市价单 -ref-price）")
	}
	sl, tp, err := marketmath.BracketPrices(types.Side(strings.ToLower(f.Side)), entry, f.StopLossPct, f.TakeProfitPct, f.Tick)
	if err != nil {
		return err
	}
	if f.StopLoss == "" {
		f.StopLoss = sl
	}
	if f.TakeProfit == "" {
		f.TakeProfit = tp
	}
	return nil
}

func (f *orderFlags) params() orders.OrderParams {
	return orders.OrderParams{
		Side:          types.Side(strings.ToLower(f.Side)),
		Symbol:        f.Symbol,
		Leverage:      f.Leverage,
		Size:          f.Size,
		ClientOid:     f.ClientOid,
		Remark:        f.Remark,
		Stop:          types.Stop(f.Stop),
		StopPrice:     f.StopPrice,
		StopPriceType: types.StopPriceType(f.StopPriceType),
		TakeProfit:    f.TakeProfit,
		StopLoss:      f.StopLoss,
		ReduceOnly:    f.ReduceOnly,
		CloseOrder:    f.CloseOrder,
		ForceHold:     f.ForceHold,
	}
}

// buildOrder 根据参数构造限价单或市价单
func buildOrder(f orderFlags) (orders.Order, error) {
	if err := f.resolveBrackets(); err != nil {
		return nil, err
	}
	switch types.OrderType(strings.ToLower(f.Type)) {
	case types.OrderTypeLimit:
		if f.Price == "" {
			return nil, fmt.Errorf("限价单需要 -price")
		}
		return orders.NewLimitOrder(orders.LimitParams{
			OrderParams: f.params(),
			Price:       f.Price,
			TimeInForce: types.TimeInForce(strings.ToUpper(f.TimeInForce)),
			PostOnly:    f.PostOnly,
			Hidden:      f.Hidden,
			Iceberg:     f.Iceberg,
			VisibleSize: f.VisibleSize,
		})
	case types.OrderTypeMarket:
		return orders.NewMarketOrder(f.params())
	default:
		return nil, fmt.Errorf("未知订单类型 %q（limit 或 market）", f.Type)
	}
}
