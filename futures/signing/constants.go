package signing

const (
	// KeyVersion API Key 版本，v2 版本要求对 passphrase 做 HMAC
	KeyVersion = "2"

	HeaderTimestamp  = "KC-API-TIMESTAMP"
	HeaderSign       = "KC-API-SIGN"
	HeaderAPIKey     = "KC-API-KEY"
	HeaderPassphrase = "KC-API-PASSPHRASE"
	HeaderKeyVersion = "KC-API-KEY-VERSION"
)
