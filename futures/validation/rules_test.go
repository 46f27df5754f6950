package validation

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/betbot/kcfutures/futures/types"
)

func requireValidationError(t *testing.T, err error, field string) *ValidationError {
	t.Helper()
	require.Error(t, err)
	var ve *ValidationError
	require.True(t, errors.As(err, &ve), "expected *ValidationError, got %T", err)
	assert.Equal(t, field, ve.Field)
	assert.NotEmpty(t, ve.Message)
	return ve
}

func TestValidateSide(t *testing.T) {
	assert.NoError(t, ValidateSide(types.SideBuy))
	assert.NoError(t, ValidateSide(types.SideSell))

	for _, side := range []types.Side{"", "BUY", "long", "sel"} {
		ve := requireValidationError(t, ValidateSide(side), "side")
		assert.Equal(t, []string{"buy", "sell"}, ve.Allowed)
		assert.Contains(t, ve.Error(), "allowed: buy, sell")
	}
}

func TestValidateSize(t *testing.T) {
	assert.NoError(t, ValidateSize(1))
	requireValidationError(t, ValidateSize(0), "size")
	requireValidationError(t, ValidateSize(-3), "size")
}

func TestValidateStop(t *testing.T) {
	tests := []struct {
		name      string
		stop      types.Stop
		price     string
		priceType types.StopPriceType
		field     string
	}{
		{"unset stop ignores the rest", "", "", "bogus", ""},
		{"valid down", types.StopDown, "90", types.StopPriceTypeTrade, ""},
		{"valid up mark", types.StopUp, "110", types.StopPriceTypeMark, ""},
		{"valid index", types.StopUp, "110", types.StopPriceTypeIndex, ""},
		{"bad direction", "sideways", "100", types.StopPriceTypeTrade, "stop"},
		{"bad price type", types.StopDown, "100", "LP", "stopPriceType"},
		{"missing price type", types.StopDown, "100", "", "stopPriceType"},
		{"missing price", types.StopDown, "", types.StopPriceTypeTrade, "stopPrice"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStop(tt.stop, tt.price, tt.priceType)
			if tt.field == "" {
				assert.NoError(t, err)
				return
			}
			requireValidationError(t, err, tt.field)
		})
	}
}

func TestValidateStopLossTakeProfit(t *testing.T) {
	assert.NoError(t, ValidateStopLossTakeProfit("", "90", "110"))
	assert.NoError(t, ValidateStopLossTakeProfit(types.StopDown, "", ""))
	requireValidationError(t, ValidateStopLossTakeProfit(types.StopDown, "90", ""), "stop")
	requireValidationError(t, ValidateStopLossTakeProfit(types.StopUp, "", "110"), "stop")
}

func TestValidateTimeInForce(t *testing.T) {
	assert.NoError(t, ValidateTimeInForce(""))
	assert.NoError(t, ValidateTimeInForce(types.TimeInForceGTC))
	assert.NoError(t, ValidateTimeInForce(types.TimeInForceIOC))
	ve := requireValidationError(t, ValidateTimeInForce("FOK"), "timeInForce")
	assert.Equal(t, []string{"GTC", "IOC"}, ve.Allowed)
}

func TestValidatePostOnly(t *testing.T) {
	assert.NoError(t, ValidatePostOnly(types.TimeInForceGTC, true))
	assert.NoError(t, ValidatePostOnly(types.TimeInForceIOC, false))
	assert.NoError(t, ValidatePostOnly("", false))
	requireValidationError(t, ValidatePostOnly(types.TimeInForceIOC, true), "postOnly")
	requireValidationError(t, ValidatePostOnly("", true), "postOnly")
}

func TestValidateHiddenAndIceberg(t *testing.T) {
	assert.NoError(t, ValidateHiddenAndIceberg(true, false))
	assert.NoError(t, ValidateHiddenAndIceberg(false, true))
	assert.NoError(t, ValidateHiddenAndIceberg(false, false))
	requireValidationError(t, ValidateHiddenAndIceberg(true, true), "hidden")
}

func TestValidateIceberg(t *testing.T) {
	assert.NoError(t, ValidateIceberg(false, 0))
	assert.NoError(t, ValidateIceberg(true, 5))
	requireValidationError(t, ValidateIceberg(true, 0), "visibleSize")
}

func TestIsValidationError(t *testing.T) {
	err := ValidateSide("nope")
	assert.True(t, IsValidationError(err))
	assert.True(t, IsValidationError(errors.Wrap(err, "build order")))
	assert.False(t, IsValidationError(errors.New("other")))
	assert.False(t, IsValidationError(nil))
}
