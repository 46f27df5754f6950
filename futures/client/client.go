package client

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/betbot/kcfutures/futures/signing"
	"github.com/betbot/kcfutures/futures/types"
	"github.com/betbot/kcfutures/pkg/ratelimit"
	sdkhttp "github.com/betbot/kcfutures/pkg/sdk/http"
)

// Config 客户端配置，每个实例持有自己的凭证
type Config struct {
	BaseURL    string // 默认 DefaultHost
	APIVersion string // 默认 DefaultAPIVersion
	Creds      *types.ApiKeyCreds

	Timeout    time.Duration // 单次请求超时，默认 30s
	RetryCount int           // 传输层重试次数，默认不重试

	Logger *logrus.Entry

	// Limiter 为空时不做本地限流
	Limiter ratelimit.RateLimiter
}

// Client 合约交易客户端
// 构造后无可变状态，可在多个 goroutine 中并发使用
type Client struct {
	host       string
	apiVersion string
	creds      *types.ApiKeyCreds
	httpClient *sdkhttp.Client
	log        *logrus.Entry
	limiter    ratelimit.RateLimiter
}

// NewClient 创建新的客户端，凭证格式不做校验，由交易所在请求时拒绝
func NewClient(cfg Config) *Client {
	host := strings.TrimSuffix(cfg.BaseURL, "/")
	if host == "" {
		host = DefaultHost
	}
	version := cfg.APIVersion
	if version == "" {
		version = DefaultAPIVersion
	}
	var creds *types.ApiKeyCreds
	if cfg.Creds != nil {
		c := *cfg.Creds
		creds = &c
	}
	log := cfg.Logger
	if log == nil {
		log = logrus.WithField("component", "kcfutures")
	}

	return &Client{
		host:       host,
		apiVersion: version,
		creds:      creds,
		httpClient: sdkhttp.NewClient(host, sdkhttp.Options{
			Timeout:    cfg.Timeout,
			RetryCount: cfg.RetryCount,
		}),
		log:     log,
		limiter: cfg.Limiter,
	}
}

// GetHost 获取主机地址
func (c *Client) GetHost() string {
	return c.host
}

// CanAuth 检查是否配置了 API 凭证
func (c *Client) CanAuth() error {
	if c.creds == nil {
		return errors.New("client: api credentials not configured")
	}
	return nil
}

// createPath 生成 /api/{version}/{path}，apiVersion 为空时使用客户端默认版本
func (c *Client) createPath(path, apiVersion string) string {
	if apiVersion == "" {
		apiVersion = c.apiVersion
	}
	return fmt.Sprintf("/api/%s/%s", apiVersion, strings.TrimPrefix(path, "/"))
}

// Do 发送签名请求并解析响应信封
// data 为 nil 时请求体为空串；返回 data 字段（或整个响应体）
func (c *Client) Do(ctx context.Context, method, path, apiVersion string, data any) (json.RawMessage, error) {
	if err := c.CanAuth(); err != nil {
		return nil, err
	}
	method = strings.ToUpper(method)

	body := ""
	if data != nil {
		b, err := json.Marshal(data)
		if err != nil {
			return nil, errors.Wrap(err, "client: encode request body")
		}
		body = string(b)
	}

	// 限流等待放在签名之前，避免时间戳过期
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, errors.Wrap(err, "client: rate limit wait")
		}
	}

	fullPath := c.createPath(path, apiVersion)
	headers, err := signing.CreateKcHeaders(c.creds, &types.HeaderArgs{
		Method:      method,
		RequestPath: fullPath,
		Body:        body,
	}, nil)
	if err != nil {
		return nil, errors.Wrap(err, "client: sign request")
	}

	c.log.WithFields(logrus.Fields{
		"method": method,
		"path":   fullPath,
	}).Debug("sending request")

	start := time.Now()
	resp, err := c.httpClient.DoRequest(ctx, method, fullPath, &sdkhttp.RequestOptions{
		Headers: headers.Map(),
		Body:    body,
	})
	if err != nil {
		return nil, errors.Wrap(err, "client: request failed")
	}

	c.log.WithFields(logrus.Fields{
		"path":     fullPath,
		"status":   resp.StatusCode(),
		"duration": time.Since(start),
	}).Debug("response received")

	out, err := handleResponse(resp.StatusCode(), resp.Body())
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) {
			c.log.WithFields(logrus.Fields{
				"path":   fullPath,
				"status": apiErr.StatusCode,
				"code":   apiErr.Code,
			}).Warnf("api error: %s", apiErr.Message)
		}
		return nil, err
	}
	return out, nil
}
