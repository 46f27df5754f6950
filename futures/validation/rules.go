// Package validation 订单属性组合校验。
//
// 所有规则都是无状态的纯函数，在订单构造阶段、任何字段赋值之前调用。
package validation

import (
	"fmt"

	"github.com/betbot/kcfutures/futures/types"
)

// ValidateSide side 必须是 buy 或 sell
func ValidateSide(side types.Side) error {
	if !contains(types.ValidSides, side) {
		return invalid("side", fmt.Sprintf("order 'side' must be one of the allowed values, got %q", side), names(types.ValidSides)...)
	}
	return nil
}

// ValidateSize 合约张数必须为正整数
func ValidateSize(size int) error {
	if size <= 0 {
		return invalid("size", fmt.Sprintf("order 'size' must be a positive integer, got %d", size))
	}
	return nil
}

// ValidateStop 未设置 stop 时跳过；否则 stop、stopPriceType、stopPrice 必须齐全且合法
func ValidateStop(stop types.Stop, stopPrice string, stopPriceType types.StopPriceType) error {
	if stop == "" {
		return nil
	}
	if !contains(types.ValidStops, stop) {
		return invalid("stop", fmt.Sprintf("property 'stop' must be one of the allowed values, got %q", stop), names(types.ValidStops)...)
	}
	if !contains(types.ValidStopPriceTypes, stopPriceType) {
		return invalid("stopPriceType", fmt.Sprintf("property 'stopPriceType' must be one of the allowed values, got %q", stopPriceType), names(types.ValidStopPriceTypes)...)
	}
	if stopPrice == "" {
		return invalid("stopPrice", "property 'stopPrice' must be defined when 'stop' is set")
	}
	return nil
}

// ValidateStopLossTakeProfit stop 与 stopLoss/takeProfit 不能同时设置
func ValidateStopLossTakeProfit(stop types.Stop, stopLoss, takeProfit string) error {
	if stop != "" && (stopLoss != "" || takeProfit != "") {
		return invalid("stop", "property 'stop' must be empty when 'stopLoss' or 'takeProfit' is defined")
	}
	return nil
}

// ValidateTimeInForce 未设置时跳过
func ValidateTimeInForce(tif types.TimeInForce) error {
	if tif == "" {
		return nil
	}
	if !contains(types.ValidTimeInForces, tif) {
		return invalid("timeInForce", fmt.Sprintf("property 'timeInForce' must be one of the allowed values, got %q", tif), names(types.ValidTimeInForces)...)
	}
	return nil
}

// ValidatePostOnly postOnly 只允许与 GTC 搭配。
// 两个参数类型不同，调用方无法把顺序写反。
func ValidatePostOnly(tif types.TimeInForce, postOnly bool) error {
	if postOnly && tif != types.TimeInForceGTC {
		return invalid("postOnly", fmt.Sprintf("property 'postOnly' requires 'timeInForce' to be %s, got %q", types.TimeInForceGTC, tif), string(types.TimeInForceGTC))
	}
	return nil
}

// ValidateHiddenAndIceberg hidden 与 iceberg 互斥
func ValidateHiddenAndIceberg(hidden, iceberg bool) error {
	if hidden && iceberg {
		return invalid("hidden", "only one of 'hidden' and 'iceberg' can be set")
	}
	return nil
}

// ValidateIceberg iceberg 订单必须给出 visibleSize
func ValidateIceberg(iceberg bool, visibleSize int) error {
	if iceberg && visibleSize <= 0 {
		return invalid("visibleSize", "property 'visibleSize' must be a positive integer when 'iceberg' is set")
	}
	return nil
}
