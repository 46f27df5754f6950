package signing

import (
	"strconv"
	"time"

	"github.com/pkg/errors"

	"github.com/betbot/kcfutures/futures/types"
)

// CreateKcHeaders 创建认证头
// timestamp 为空时使用当前毫秒时间戳作为 nonce
func CreateKcHeaders(
	creds *types.ApiKeyCreds,
	args *types.HeaderArgs,
	timestamp *int64,
) (*types.KcHeader, error) {
	if creds == nil {
		return nil, errors.New("signing: api credentials not configured")
	}
	if args == nil {
		return nil, errors.New("signing: header args are required")
	}

	ts := time.Now().UnixMilli()
	if timestamp != nil {
		ts = *timestamp
	}

	sig := BuildKcHmacSignature(creds.Secret, ts, args.Method, args.RequestPath, args.Body)

	return &types.KcHeader{
		KcTimestamp:  strconv.FormatInt(ts, 10),
		KcSign:       sig,
		KcAPIKey:     creds.Key,
		KcPassphrase: BuildKcPassphrase(creds.Secret, creds.Passphrase),
		KcKeyVersion: KeyVersion,
	}, nil
}
