package client

import (
	"bytes"
	"encoding/json"
	"io"

	"github.com/pkg/errors"
)

// handleResponse 解析响应信封
//   - 非 2xx：APIError
//   - 2xx 但无法解析：RequestError
//   - code 存在且不为 "200000"，或 success 为假：APIError
//   - 否则返回 data 字段，没有 data 时返回整个响应体
func handleResponse(status int, body []byte) (json.RawMessage, error) {
	if status < 200 || status >= 300 {
		return nil, newAPIError(status, body)
	}

	v, err := decodeJSON(body)
	if err != nil {
		return nil, &RequestError{Message: "invalid response: " + string(body)}
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return json.RawMessage(body), nil
	}

	if code, ok := obj["code"]; ok && code != SuccessCode {
		return nil, newAPIError(status, body)
	}
	if success, ok := obj["success"]; ok && !truthy(success) {
		return nil, newAPIError(status, body)
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, &RequestError{Message: "invalid response: " + string(body)}
	}
	if data, ok := fields["data"]; ok {
		return data, nil
	}
	return json.RawMessage(body), nil
}

// decodeJSON 解码整个响应体，数字保留为 json.Number
func decodeJSON(body []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return nil, errors.New("trailing data after JSON value")
	}
	return v, nil
}

func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case json.Number:
		f, err := t.Float64()
		return err != nil || f != 0
	case []any:
		return len(t) > 0
	case map[string]any:
		return len(t) > 0
	default:
		return true
	}
}
