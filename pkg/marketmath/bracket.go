package marketmath

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/betbot/kcfutures/futures/types"
)

var hundred = decimal.NewFromInt(100)

// BracketPrices 根据入场价与百分比偏移计算止损/止盈触发价。
//
// 多单（buy）：止损 = entry*(1-sl%)，止盈 = entry*(1+tp%)
// 空单（sell）：方向相反。
// 百分比为空串时对应结果也为空串；tick 非空时结果按 tick 四舍五入。
func BracketPrices(side types.Side, entry, stopLossPct, takeProfitPct, tick string) (stopLoss, takeProfit string, err error) {
	price, err := positive("entry", entry)
	if err != nil {
		return "", "", err
	}
	var step decimal.Decimal
	if tick != "" {
		if step, err = positive("tick", tick); err != nil {
			return "", "", err
		}
	}

	// 多单止损向下，空单止损向上
	slSign, tpSign := decimal.NewFromInt(-1), decimal.NewFromInt(1)
	if side == types.SideSell {
		slSign, tpSign = tpSign, slSign
	}

	if stopLossPct != "" {
		if stopLoss, err = offset(price, stopLossPct, slSign, step); err != nil {
			return "", "", fmt.Errorf("stop-loss: %w", err)
		}
	}
	if takeProfitPct != "" {
		if takeProfit, err = offset(price, takeProfitPct, tpSign, step); err != nil {
			return "", "", fmt.Errorf("take-profit: %w", err)
		}
	}
	return stopLoss, takeProfit, nil
}

// RoundToTick 把价格四舍五入到 tick 的整数倍
func RoundToTick(price, tick decimal.Decimal) decimal.Decimal {
	if tick.IsZero() {
		return price
	}
	return price.Div(tick).Round(0).Mul(tick)
}

func offset(price decimal.Decimal, pct string, sign, step decimal.Decimal) (string, error) {
	p, err := decimal.NewFromString(pct)
	if err != nil {
		return "", fmt.Errorf("invalid percentage %q: %w", pct, err)
	}
	if p.IsNegative() {
		return "", fmt.Errorf("percentage must not be negative, got %s", pct)
	}
	factor := decimal.NewFromInt(1).Add(sign.Mul(p).Div(hundred))
	out := RoundToTick(price.Mul(factor), step)
	if !out.IsPositive() {
		return "", fmt.Errorf("percentage %s%% yields non-positive price %s", pct, out.String())
	}
	return out.String(), nil
}

func positive(name, v string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(v)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid %s %q: %w", name, v, err)
	}
	if !d.IsPositive() {
		return decimal.Zero, fmt.Errorf("%s must be positive, got %s", name, v)
	}
	return d, nil
}
