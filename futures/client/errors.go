package client

import (
	"encoding/json"
	"fmt"
)

// APIError 交易所明确返回的业务失败（非 2xx、code 非成功值或 success=false）
type APIError struct {
	Code       string
	Message    string
	StatusCode int
	Body       []byte
}

func (e *APIError) Error() string {
	return fmt.Sprintf("APIError(code=%s, status=%d): %s", e.Code, e.StatusCode, e.Message)
}

// RequestError 响应无法解析
type RequestError struct {
	Message string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("RequestError: %s", e.Message)
}

const noMessage = "No message available"

// newAPIError 从响应体提取 code/message
// 优先级：error < msg，message 追加在后，data 以 JSON 形式追加
func newAPIError(status int, body []byte) *APIError {
	e := &APIError{
		Message:    "Unknown Error",
		StatusCode: status,
		Body:       body,
	}

	v, err := decodeJSON(body)
	if err != nil {
		e.Message = string(body)
		return e
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return e
	}

	if msg, ok := obj["error"]; ok {
		e.Message = stringify(msg)
	}
	if msg, ok := obj["msg"]; ok {
		e.Message = stringify(msg)
	}
	if msg, ok := obj["message"]; ok && msg != noMessage {
		e.Message += " - " + stringify(msg)
	}
	if code, ok := obj["code"]; ok {
		e.Code = stringify(code)
	}
	if data, ok := obj["data"]; ok {
		if b, err := json.Marshal(data); err == nil {
			e.Message += " " + string(b)
		}
	}
	return e
}

func stringify(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case json.Number:
		return t.String()
	case nil:
		return "null"
	default:
		if b, err := json.Marshal(t); err == nil {
			return string(b)
		}
		return fmt.Sprint(t)
	}
}
