package signing

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"strconv"
)

// BuildKcHmacSignature 构建 KuCoin HMAC 签名
// 待签名串 = timestamp + method + requestPath + body，中间没有分隔符
func BuildKcHmacSignature(
	secret string,
	timestamp int64,
	method string,
	requestPath string,
	body string,
) string {
	message := strconv.FormatInt(timestamp, 10) + method + requestPath + body
	return hmacBase64(secret, message)
}

// BuildKcPassphrase 对 passphrase 做 HMAC，同一组凭证每次结果相同
func BuildKcPassphrase(secret, passphrase string) string {
	return hmacBase64(secret, passphrase)
}

func hmacBase64(secret, message string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(message))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}
