package client

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/betbot/kcfutures/futures/orders"
	"github.com/betbot/kcfutures/futures/signing"
	"github.com/betbot/kcfutures/futures/types"
)

var testCreds = &types.ApiKeyCreds{Key: "key-1", Secret: "secret-1", Passphrase: "pass-1"}

type capturedRequest struct {
	Method string
	Path   string
	Header http.Header
	Body   string
}

// fakeExchange 记录请求并按顺序返回预设响应
type fakeExchange struct {
	mu        sync.Mutex
	requests  []capturedRequest
	status    []int
	responses []string
}

func (f *fakeExchange) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	f.mu.Lock()
	i := len(f.requests)
	f.requests = append(f.requests, capturedRequest{
		Method: r.Method,
		Path:   r.URL.Path,
		Header: r.Header.Clone(),
		Body:   string(body),
	})
	status, resp := http.StatusOK, `{"code":"200000","data":{}}`
	if i < len(f.responses) {
		status, resp = f.status[i], f.responses[i]
	}
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, resp)
}

func (f *fakeExchange) reply(status int, body string) *fakeExchange {
	f.status = append(f.status, status)
	f.responses = append(f.responses, body)
	return f
}

func newTestClient(t *testing.T, fx *fakeExchange) *Client {
	t.Helper()
	srv := httptest.NewServer(fx)
	t.Cleanup(srv.Close)
	return NewClient(Config{BaseURL: srv.URL, Creds: testCreds, Timeout: 5 * time.Second})
}

func newLimit(t *testing.T, mutate func(p *orders.LimitParams)) *orders.LimitOrder {
	t.Helper()
	p := orders.LimitParams{
		OrderParams: orders.OrderParams{
			Side:      types.SideBuy,
			Symbol:    "XBTUSDTM",
			Leverage:  "5",
			Size:      2,
			ClientOid: "parent-oid",
		},
		Price: "30000",
	}
	if mutate != nil {
		mutate(&p)
	}
	o, err := orders.NewLimitOrder(p)
	require.NoError(t, err)
	return o
}

func TestCreateLimitOrder_SignedRequest(t *testing.T) {
	fx := (&fakeExchange{}).reply(200, `{"code":"200000","data":{"orderId":"5bd6e9286d99522a52e458de"}}`)
	c := newTestClient(t, fx)

	res, err := c.CreateLimitOrder(context.Background(), newLimit(t, nil))
	require.NoError(t, err)
	assert.Equal(t, "5bd6e9286d99522a52e458de", res.OrderID)
	assert.JSONEq(t, `{"orderId":"5bd6e9286d99522a52e458de"}`, string(res.Raw))

	require.Len(t, fx.requests, 1)
	req := fx.requests[0]
	assert.Equal(t, http.MethodPost, req.Method)
	assert.Equal(t, "/api/v1/orders", req.Path)
	assert.Equal(t, "application/json", req.Header.Get("Accept"))
	assert.Equal(t, "application/json", req.Header.Get("Content-Type"))
	assert.Equal(t, "key-1", req.Header.Get("KC-API-KEY"))
	assert.Equal(t, "2", req.Header.Get("KC-API-KEY-VERSION"))
	assert.Equal(t, signing.BuildKcPassphrase("secret-1", "pass-1"), req.Header.Get("KC-API-PASSPHRASE"))

	// 签名必须与实际发送的请求体对应
	ts, err := strconv.ParseInt(req.Header.Get("KC-API-TIMESTAMP"), 10, 64)
	require.NoError(t, err)
	assert.Equal(t,
		signing.BuildKcHmacSignature("secret-1", ts, http.MethodPost, "/api/v1/orders", req.Body),
		req.Header.Get("KC-API-SIGN"))

	var sent map[string]any
	require.NoError(t, json.Unmarshal([]byte(req.Body), &sent))
	assert.Equal(t, "buy", sent["side"])
	assert.Equal(t, "limit", sent["type"])
	assert.Equal(t, "30000", sent["price"])
	assert.Equal(t, "parent-oid", sent["clientOid"])
	assert.Equal(t, float64(2), sent["size"])
	assert.Contains(t, sent, "remark")
	assert.Nil(t, sent["remark"])
}

func TestCreateMarketOrder(t *testing.T) {
	fx := (&fakeExchange{}).reply(200, `{"code":"200000","data":{"orderId":"m-1"}}`)
	c := newTestClient(t, fx)

	o, err := orders.NewMarketOrder(orders.OrderParams{
		Side: types.SideSell, Symbol: "ETHUSDTM", Leverage: "3", Size: 1,
	})
	require.NoError(t, err)

	res, err := c.CreateMarketOrder(context.Background(), o)
	require.NoError(t, err)
	assert.Equal(t, "m-1", res.OrderID)

	var sent map[string]any
	require.NoError(t, json.Unmarshal([]byte(fx.requests[0].Body), &sent))
	assert.Equal(t, "market", sent["type"])
	assert.NotContains(t, sent, "price")
}

func TestCreateOrder_APIError(t *testing.T) {
	fx := (&fakeExchange{}).reply(200, `{"code":"400001","msg":"bad"}`)
	c := newTestClient(t, fx)

	_, err := c.CreateLimitOrder(context.Background(), newLimit(t, nil))
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "400001", apiErr.Code)
	assert.Equal(t, "bad", apiErr.Message)
}

func TestCreateOrder_HTTPErrorRawText(t *testing.T) {
	fx := (&fakeExchange{}).reply(500, "upstream exploded")
	c := newTestClient(t, fx)

	_, err := c.CreateLimitOrder(context.Background(), newLimit(t, nil))
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, 500, apiErr.StatusCode)
	assert.Equal(t, "upstream exploded", apiErr.Message)
}

func TestCreateOrder_InvalidResponse(t *testing.T) {
	fx := (&fakeExchange{}).reply(200, "<html>")
	c := newTestClient(t, fx)

	_, err := c.CreateLimitOrder(context.Background(), newLimit(t, nil))
	var reqErr *RequestError
	require.True(t, errors.As(err, &reqErr))
}

func TestCreateOrder_NilOrders(t *testing.T) {
	c := NewClient(Config{Creds: testCreds})
	_, err := c.CreateLimitOrder(context.Background(), nil)
	assert.Error(t, err)
	_, err = c.CreateMarketOrder(context.Background(), nil)
	assert.Error(t, err)
	_, err = c.CreateOrder(context.Background(), nil)
	assert.Error(t, err)
}

func TestDo_RequiresCredentials(t *testing.T) {
	fx := &fakeExchange{}
	srv := httptest.NewServer(fx)
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL})
	_, err := c.Do(context.Background(), http.MethodGet, EndpointOrders, "", nil)
	assert.Error(t, err)
	assert.Empty(t, fx.requests)
}

func TestDo_APIVersionAndEmptyBody(t *testing.T) {
	fx := (&fakeExchange{}).reply(200, `{"code":"200000","data":[1]}`)
	c := newTestClient(t, fx)

	out, err := c.Do(context.Background(), "get", "/orders", "v2", nil)
	require.NoError(t, err)
	assert.JSONEq(t, `[1]`, string(out))

	req := fx.requests[0]
	assert.Equal(t, http.MethodGet, req.Method)
	assert.Equal(t, "/api/v2/orders", req.Path)
	assert.Empty(t, req.Body)
	ts, err := strconv.ParseInt(req.Header.Get("KC-API-TIMESTAMP"), 10, 64)
	require.NoError(t, err)
	assert.Equal(t,
		signing.BuildKcHmacSignature("secret-1", ts, http.MethodGet, "/api/v2/orders", ""),
		req.Header.Get("KC-API-SIGN"))
}

func TestDo_ContextCancelled(t *testing.T) {
	fx := &fakeExchange{}
	c := newTestClient(t, fx)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.Do(ctx, http.MethodGet, EndpointOrders, "", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCancelOrder(t *testing.T) {
	fx := (&fakeExchange{}).reply(200, `{"code":"200000","data":{"cancelledOrderIds":["abc"]}}`)
	c := newTestClient(t, fx)

	out, err := c.CancelOrder(context.Background(), "abc")
	require.NoError(t, err)
	assert.JSONEq(t, `{"cancelledOrderIds":["abc"]}`, string(out))
	assert.Equal(t, http.MethodDelete, fx.requests[0].Method)
	assert.Equal(t, "/api/v1/orders/abc", fx.requests[0].Path)

	_, err = c.CancelOrder(context.Background(), "")
	assert.Error(t, err)
}

func TestCreateOrderWithBrackets(t *testing.T) {
	fx := (&fakeExchange{}).
		reply(200, `{"code":"200000","data":{"orderId":"parent"}}`).
		reply(200, `{"code":"200000","data":{"orderId":"sl"}}`).
		reply(200, `{"code":"200000","data":{"orderId":"tp"}}`)
	c := newTestClient(t, fx)

	parent := newLimit(t, func(p *orders.LimitParams) {
		p.StopLoss, p.TakeProfit = "29000", "31000"
	})
	res, err := c.CreateOrderWithBrackets(context.Background(), parent)
	require.NoError(t, err)
	assert.Equal(t, "parent", res.Parent.OrderID)
	assert.Equal(t, "sl", res.StopLoss.OrderID)
	assert.Equal(t, "tp", res.TakeProfit.OrderID)

	require.Len(t, fx.requests, 3)
	var sl, tp map[string]any
	require.NoError(t, json.Unmarshal([]byte(fx.requests[1].Body), &sl))
	require.NoError(t, json.Unmarshal([]byte(fx.requests[2].Body), &tp))
	assert.Equal(t, "sell", sl["side"])
	assert.Equal(t, "down", sl["stop"])
	assert.Equal(t, "29000", sl["stopPrice"])
	assert.Equal(t, true, sl["reduceOnly"])
	assert.Equal(t, "up", tp["stop"])
	assert.Equal(t, "31000", tp["stopPrice"])
}

func TestCreateOrderWithBrackets_NoBracketValues(t *testing.T) {
	fx := &fakeExchange{}
	c := newTestClient(t, fx)

	_, err := c.CreateOrderWithBrackets(context.Background(), newLimit(t, nil))
	require.Error(t, err)
	assert.Empty(t, fx.requests)
}

func TestCreateOrderWithBrackets_PartialFailure(t *testing.T) {
	fx := (&fakeExchange{}).
		reply(200, `{"code":"200000","data":{"orderId":"parent"}}`).
		reply(200, `{"code":"300003","msg":"balance insufficient"}`)
	c := newTestClient(t, fx)

	parent := newLimit(t, func(p *orders.LimitParams) {
		p.StopLoss, p.TakeProfit = "29000", "31000"
	})
	res, err := c.CreateOrderWithBrackets(context.Background(), parent)
	require.Error(t, err)
	require.NotNil(t, res)
	assert.Equal(t, "parent", res.Parent.OrderID)
	assert.Nil(t, res.StopLoss)
	assert.Len(t, fx.requests, 2)

	var apiErr *APIError
	assert.True(t, errors.As(err, &apiErr))
}

func TestNewClient_Defaults(t *testing.T) {
	c := NewClient(Config{})
	assert.Equal(t, DefaultHost, c.GetHost())
	assert.Equal(t, "/api/v1/orders", c.createPath(EndpointOrders, ""))
	assert.Equal(t, "/api/v3/orders", c.createPath(EndpointOrders, "v3"))
	assert.Error(t, c.CanAuth())

	creds := *testCreds
	c = NewClient(Config{BaseURL: "https://example.com/", Creds: &creds})
	creds.Key = "changed"
	assert.Equal(t, "https://example.com", c.GetHost())
	assert.Equal(t, "key-1", c.creds.Key)
}

type countingLimiter struct {
	calls int
	err   error
}

func (l *countingLimiter) Wait(ctx context.Context) error {
	l.calls++
	return l.err
}
func (l *countingLimiter) Allow() bool       { return l.err == nil }
func (l *countingLimiter) GetRemaining() int { return 0 }

func TestDo_RateLimiter(t *testing.T) {
	fx := &fakeExchange{}
	srv := httptest.NewServer(fx)
	t.Cleanup(srv.Close)

	lim := &countingLimiter{}
	c := NewClient(Config{BaseURL: srv.URL, Creds: testCreds, Limiter: lim})
	_, err := c.Do(context.Background(), http.MethodGet, "orders", "", nil)
	require.NoError(t, err)
	assert.Equal(t, 1, lim.calls)

	lim.err = context.DeadlineExceeded
	_, err = c.Do(context.Background(), http.MethodGet, "orders", "", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Len(t, fx.requests, 1)
}
