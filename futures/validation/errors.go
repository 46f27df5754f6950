package validation

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// ValidationError 订单字段组合不合法
type ValidationError struct {
	Field   string
	Message string
	Allowed []string // 合法取值，可为空
}

func (e *ValidationError) Error() string {
	if len(e.Allowed) == 0 {
		return fmt.Sprintf("validation: %s", e.Message)
	}
	return fmt.Sprintf("validation: %s (allowed: %s)", e.Message, strings.Join(e.Allowed, ", "))
}

// IsValidationError 判断 err 链中是否包含 *ValidationError
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func invalid(field, msg string, allowed ...string) error {
	return &ValidationError{Field: field, Message: msg, Allowed: allowed}
}

func names[T ~string](vals []T) []string {
	out := make([]string, len(vals))
	for i, v := range vals {
		out[i] = string(v)
	}
	return out
}

func contains[T comparable](vals []T, v T) bool {
	for _, x := range vals {
		if x == v {
			return true
		}
	}
	return false
}
