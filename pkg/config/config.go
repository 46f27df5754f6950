package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/betbot/kcfutures/futures/client"
	"github.com/betbot/kcfutures/futures/types"
	"github.com/betbot/kcfutures/pkg/logger"
	"github.com/betbot/kcfutures/pkg/ratelimit"
)

// CredentialsConfig API 凭证
type CredentialsConfig struct {
	APIKey     string
	APISecret  string
	Passphrase string
}

// APIConfig REST 接口配置
type APIConfig struct {
	BaseURL    string
	Version    string
	Timeout    time.Duration
	RetryCount int
	RateLimit  int           // 窗口内最多请求数，0 表示不限流
	RateWindow time.Duration // 限流窗口
}

// LogConfig 日志配置
type LogConfig struct {
	Level      string
	File       string
	MaxSize    int
	MaxBackups int
	MaxAge     int
	Compress   bool
	JSON       bool
}

// SecretStoreConfig 凭证存储（badger）配置，Path 为空表示不启用
type SecretStoreConfig struct {
	Path          string
	Prefix        string
	EncryptionKey string // 32 字节 base64/hex，仅从环境变量读取
}

// Config 应用配置
type Config struct {
	Credentials CredentialsConfig
	API         APIConfig
	Log         LogConfig
	SecretStore SecretStoreConfig
	DryRun      bool // 只打印请求体，不提交订单
}

// ConfigFile 配置文件结构（用于 YAML 解析）
type ConfigFile struct {
	Credentials struct {
		APIKey     string `yaml:"api_key"`
		APISecret  string `yaml:"api_secret"`
		Passphrase string `yaml:"passphrase"`
	} `yaml:"credentials"`
	API struct {
		BaseURL        string `yaml:"base_url"`
		Version        string `yaml:"version"`
		TimeoutSeconds int    `yaml:"timeout_seconds"`
		RetryCount     int    `yaml:"retry_count"`
		RateLimit      int    `yaml:"rate_limit"`
		RateWindowMs   int    `yaml:"rate_window_ms"`
	} `yaml:"api"`
	Log struct {
		Level      string `yaml:"level"`
		File       string `yaml:"file"`
		MaxSize    int    `yaml:"max_size"`
		MaxBackups int    `yaml:"max_backups"`
		MaxAge     int    `yaml:"max_age"`
		Compress   bool   `yaml:"compress"`
		JSON       bool   `yaml:"json"`
	} `yaml:"log"`
	SecretStore struct {
		Path   string `yaml:"path"`
		Prefix string `yaml:"prefix"`
	} `yaml:"secret_store"`
	DryRun bool `yaml:"dry_run"`
}

// Load 仅从环境变量加载配置
func Load() (*Config, error) {
	return LoadFromFile("")
}

// LoadFromFile 从指定文件加载配置
// 优先级：环境变量 > 配置文件 > 默认值；filePath 为空时只读取环境变量
func LoadFromFile(filePath string) (*Config, error) {
	cf := &ConfigFile{}
	if filePath != "" {
		var err error
		cf, err = loadConfigFile(filePath)
		if err != nil {
			return nil, fmt.Errorf("加载配置文件失败 %s: %w", filePath, err)
		}
	}

	timeoutSeconds := parseIntEnv("KC_API_TIMEOUT_SECONDS", firstPositive(cf.API.TimeoutSeconds, 30))

	cfg := &Config{
		Credentials: CredentialsConfig{
			APIKey:     getEnv("KC_API_KEY", cf.Credentials.APIKey),
			APISecret:  getEnv("KC_API_SECRET", cf.Credentials.APISecret),
			Passphrase: getEnv("KC_API_PASSPHRASE", cf.Credentials.Passphrase),
		},
		API: APIConfig{
			BaseURL:    getEnv("KC_API_BASE_URL", firstNonEmpty(cf.API.BaseURL, client.DefaultHost)),
			Version:    getEnv("KC_API_VERSION", firstNonEmpty(cf.API.Version, client.DefaultAPIVersion)),
			Timeout:    time.Duration(timeoutSeconds) * time.Second,
			RetryCount: parseIntEnv("KC_API_RETRY_COUNT", cf.API.RetryCount),
			RateLimit:  parseIntEnv("KC_API_RATE_LIMIT", cf.API.RateLimit),
			RateWindow: time.Duration(firstPositive(cf.API.RateWindowMs, 3000)) * time.Millisecond,
		},
		Log: LogConfig{
			Level:      getEnv("KC_LOG_LEVEL", firstNonEmpty(cf.Log.Level, "info")),
			File:       getEnv("KC_LOG_FILE", cf.Log.File),
			MaxSize:    firstPositive(cf.Log.MaxSize, 100),
			MaxBackups: firstPositive(cf.Log.MaxBackups, 3),
			MaxAge:     firstPositive(cf.Log.MaxAge, 7),
			Compress:   cf.Log.Compress,
			JSON:       parseBoolEnv("KC_LOG_JSON", cf.Log.JSON),
		},
		SecretStore: SecretStoreConfig{
			Path:          getEnv("KC_SECRET_DB", cf.SecretStore.Path),
			Prefix:        getEnv("KC_SECRET_PREFIX", firstNonEmpty(cf.SecretStore.Prefix, "env/")),
			EncryptionKey: getEnv("KC_SECRET_KEY", ""),
		},
		DryRun: parseBoolEnv("KC_DRY_RUN", cf.DryRun),
	}
	return cfg, nil
}

func loadConfigFile(filePath string) (*ConfigFile, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}
	var cf ConfigFile
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, fmt.Errorf("解析 YAML 失败: %w", err)
	}
	return &cf, nil
}

// Validate 校验提交订单所需的配置
func (c *Config) Validate() error {
	if c.DryRun {
		return nil
	}
	var missing []string
	if c.Credentials.APIKey == "" {
		missing = append(missing, "KC_API_KEY")
	}
	if c.Credentials.APISecret == "" {
		missing = append(missing, "KC_API_SECRET")
	}
	if c.Credentials.Passphrase == "" {
		missing = append(missing, "KC_API_PASSPHRASE")
	}
	if len(missing) > 0 {
		return fmt.Errorf("缺少 API 凭证: %s", strings.Join(missing, ", "))
	}
	return nil
}

// Creds 转换为客户端凭证
func (c *Config) Creds() *types.ApiKeyCreds {
	return &types.ApiKeyCreds{
		Key:        c.Credentials.APIKey,
		Secret:     c.Credentials.APISecret,
		Passphrase: c.Credentials.Passphrase,
	}
}

// ClientConfig 构建客户端配置
func (c *Config) ClientConfig() client.Config {
	var limiter ratelimit.RateLimiter
	if c.API.RateLimit > 0 {
		limiter = ratelimit.NewSlidingWindow(c.API.RateLimit, c.API.RateWindow)
	}
	return client.Config{
		BaseURL:    c.API.BaseURL,
		APIVersion: c.API.Version,
		Creds:      c.Creds(),
		Timeout:    c.API.Timeout,
		RetryCount: c.API.RetryCount,
		Logger:     logger.WithField("component", "kcfutures"),
		Limiter:    limiter,
	}
}

// LoggerConfig 构建日志配置
func (c *Config) LoggerConfig() logger.Config {
	return logger.Config{
		Level:      c.Log.Level,
		OutputFile: c.Log.File,
		MaxSize:    c.Log.MaxSize,
		MaxBackups: c.Log.MaxBackups,
		MaxAge:     c.Log.MaxAge,
		Compress:   c.Log.Compress,
		JSON:       c.Log.JSON,
	}
}

func getEnv(key, defaultValue string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return defaultValue
}

func parseIntEnv(key string, defaultValue int) int {
	if v := getEnv(key, ""); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return defaultValue
}

func parseBoolEnv(key string, defaultValue bool) bool {
	if v := getEnv(key, ""); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return defaultValue
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

func firstPositive(vals ...int) int {
	for _, v := range vals {
		if v > 0 {
			return v
		}
	}
	return 0
}
