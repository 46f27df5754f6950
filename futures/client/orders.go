package client

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/pkg/errors"

	"github.com/betbot/kcfutures/futures/orders"
	"github.com/betbot/kcfutures/futures/types"
)

// CreateLimitOrder 提交限价单
func (c *Client) CreateLimitOrder(ctx context.Context, order *orders.LimitOrder) (*types.OrderResult, error) {
	if order == nil {
		return nil, errors.New("client: limit order is nil")
	}
	return c.CreateOrder(ctx, order)
}

// CreateMarketOrder 提交市价单
func (c *Client) CreateMarketOrder(ctx context.Context, order *orders.MarketOrder) (*types.OrderResult, error) {
	if order == nil {
		return nil, errors.New("client: market order is nil")
	}
	return c.CreateOrder(ctx, order)
}

// CreateOrder 提交任意订单：POST /api/{version}/orders
func (c *Client) CreateOrder(ctx context.Context, order orders.Order) (*types.OrderResult, error) {
	if order == nil {
		return nil, errors.New("client: order is nil")
	}
	data, err := c.Do(ctx, http.MethodPost, EndpointOrders, "", order.ToWire())
	if err != nil {
		return nil, err
	}
	c.log.WithField("clientOid", order.ClientOid()).Infof("%s %s order placed on %s", order.Type(), order.Side(), order.Symbol())
	return decodeOrderResult(data)
}

// CreateOrderWithBrackets 先提交主订单，再提交派生的止损单和止盈单
// 派生失败时不会发出任何请求；提交中途失败时返回已成功的部分结果和错误
func (c *Client) CreateOrderWithBrackets(ctx context.Context, order orders.Order) (*types.BracketResult, error) {
	if order == nil {
		return nil, errors.New("client: order is nil")
	}
	stopLoss, takeProfit, err := order.Brackets()
	if err != nil {
		return nil, err
	}

	res := &types.BracketResult{}
	if res.Parent, err = c.CreateOrder(ctx, order); err != nil {
		return res, errors.Wrap(err, "client: submit parent order")
	}
	if res.StopLoss, err = c.CreateOrder(ctx, stopLoss); err != nil {
		return res, errors.Wrap(err, "client: submit stop-loss order")
	}
	if res.TakeProfit, err = c.CreateOrder(ctx, takeProfit); err != nil {
		return res, errors.Wrap(err, "client: submit take-profit order")
	}
	return res, nil
}

// CancelOrder 撤销订单：DELETE /api/{version}/orders/{orderId}
func (c *Client) CancelOrder(ctx context.Context, orderID string) (json.RawMessage, error) {
	if orderID == "" {
		return nil, errors.New("client: order id is required")
	}
	return c.Do(ctx, http.MethodDelete, EndpointOrder+url.PathEscape(orderID), "", nil)
}

// decodeOrderResult data 为对象时解析 orderId/clientOid，其余情况仅保留原始内容
func decodeOrderResult(data json.RawMessage) (*types.OrderResult, error) {
	res := &types.OrderResult{Raw: data}
	if !bytes.HasPrefix(bytes.TrimSpace(data), []byte("{")) {
		return res, nil
	}
	if err := json.Unmarshal(data, res); err != nil {
		return nil, &RequestError{Message: "invalid order result: " + string(data)}
	}
	return res, nil
}
