package types

// HeaderArgs 签名所需的请求参数
type HeaderArgs struct {
	Method      string
	RequestPath string // 完整路径，例如 /api/v1/orders
	Body        string // 已序列化的请求体，GET/DELETE 为空串
}

// KcHeader KuCoin 认证头
type KcHeader struct {
	KcTimestamp  string `json:"KC-API-TIMESTAMP"`
	KcSign       string `json:"KC-API-SIGN"`
	KcAPIKey     string `json:"KC-API-KEY"`
	KcPassphrase string `json:"KC-API-PASSPHRASE"`
	KcKeyVersion string `json:"KC-API-KEY-VERSION"`
}

// Map 转换为 HTTP 头
func (h *KcHeader) Map() map[string]string {
	return map[string]string{
		"KC-API-TIMESTAMP":   h.KcTimestamp,
		"KC-API-SIGN":        h.KcSign,
		"KC-API-KEY":         h.KcAPIKey,
		"KC-API-PASSPHRASE":  h.KcPassphrase,
		"KC-API-KEY-VERSION": h.KcKeyVersion,
	}
}
