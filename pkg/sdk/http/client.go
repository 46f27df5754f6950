package http

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"
)

const defaultUserAgent = "kcfutures-go-sdk"

type Client struct {
	client    *resty.Client
	userAgent string
}

type Options struct {
	Timeout    time.Duration
	RetryCount int // 0 表示不重试
	UserAgent  string
}

func NewClient(host string, opts Options) *Client {
	host = strings.TrimSuffix(host, "/")
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.UserAgent == "" {
		opts.UserAgent = defaultUserAgent
	}

	// resty 会自动从环境变量读取代理配置（HTTP_PROXY, HTTPS_PROXY, http_proxy, https_proxy）
	client := resty.New().
		SetBaseURL(host).
		SetTimeout(opts.Timeout)

	if opts.RetryCount > 0 {
		client.
			SetRetryCount(opts.RetryCount).
			SetRetryWaitTime(1 * time.Second).
			SetRetryMaxWaitTime(10 * time.Second).
			SetRetryAfter(func(client *resty.Client, resp *resty.Response) (time.Duration, error) {
				// 如果遇到 429 限流，使用 Retry-After 头
				if resp != nil && resp.StatusCode() == 429 {
					if retryAfter := resp.Header().Get("Retry-After"); retryAfter != "" {
						if seconds, err := time.ParseDuration(retryAfter + "s"); err == nil {
							return seconds, nil
						}
					}
					return 10 * time.Second, nil
				}
				return 0, nil
			})
	}

	return &Client{client: client, userAgent: opts.UserAgent}
}

// RequestOptions 单次请求参数
// Body 为已序列化的字符串，保证发送内容与签名内容逐字节一致
type RequestOptions struct {
	Headers map[string]string
	Body    string
	Params  map[string]any
}

// 仅设置本次请求的默认 Header（不要再改 client 级 Header）
func (c *Client) newRequest(ctx context.Context) *resty.Request {
	r := c.client.R()
	if ctx != nil {
		r.SetContext(ctx)
	}
	r.SetHeader("Accept", "application/json")
	r.SetHeader("Content-Type", "application/json")
	r.SetHeader("User-Agent", c.userAgent)
	return r
}

// DoRequest 发送请求，非 2xx 状态不视为错误，由调用方解析响应体
func (c *Client) DoRequest(ctx context.Context, method, endpoint string, opt *RequestOptions) (*resty.Response, error) {
	rc := c.newRequest(ctx)
	if opt != nil {
		for k, v := range opt.Headers {
			rc.SetHeader(k, v)
		}
		if opt.Params != nil {
			rc.SetQueryParamsFromValues(toValues(opt.Params))
		}
		if opt.Body != "" {
			rc.SetBody(opt.Body)
		}
	}

	resp, err := rc.Execute(strings.ToUpper(method), endpoint)
	if err != nil {
		return resp, errors.Wrapf(err, "%s %s", strings.ToUpper(method), endpoint)
	}
	return resp, nil
}

func toValues(m map[string]any) map[string][]string {
	v := make(map[string][]string, len(m))
	for k, val := range m {
		switch t := val.(type) {
		case []string:
			v[k] = t
		default:
			v[k] = []string{fmt.Sprint(val)}
		}
	}
	return v
}
