package signing

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/betbot/kcfutures/futures/types"
)

const (
	testSecret     = "test-secret"
	testPassphrase = "test-pass"
	testTimestamp  = int64(1700000000000)
	testBody       = `{"side":"buy"}`
)

func TestBuildKcHmacSignature_KnownVector(t *testing.T) {
	sig := BuildKcHmacSignature(testSecret, testTimestamp, "POST", "/api/v1/orders", testBody)
	assert.Equal(t, "tl1GMC7r5egklnMzWKk4eWLzvL21to+qC95629r41Gw=", sig)
}

func TestBuildKcHmacSignature_Deterministic(t *testing.T) {
	a := BuildKcHmacSignature(testSecret, testTimestamp, "POST", "/api/v1/orders", testBody)
	b := BuildKcHmacSignature(testSecret, testTimestamp, "POST", "/api/v1/orders", testBody)
	assert.Equal(t, a, b)
}

func TestBuildKcHmacSignature_SensitiveToEveryInput(t *testing.T) {
	base := BuildKcHmacSignature(testSecret, testTimestamp, "POST", "/api/v1/orders", testBody)

	variants := map[string]string{
		"secret":    BuildKcHmacSignature("other-secret", testTimestamp, "POST", "/api/v1/orders", testBody),
		"timestamp": BuildKcHmacSignature(testSecret, testTimestamp+1, "POST", "/api/v1/orders", testBody),
		"method":    BuildKcHmacSignature(testSecret, testTimestamp, "GET", "/api/v1/orders", testBody),
		"path":      BuildKcHmacSignature(testSecret, testTimestamp, "POST", "/api/v2/orders", testBody),
		"body":      BuildKcHmacSignature(testSecret, testTimestamp, "POST", "/api/v1/orders", `{"side":"sell"}`),
		"no body":   BuildKcHmacSignature(testSecret, testTimestamp, "POST", "/api/v1/orders", ""),
	}
	seen := map[string]string{base: "base"}
	for name, sig := range variants {
		if prev, ok := seen[sig]; ok {
			t.Fatalf("signature for %q collides with %q", name, prev)
		}
		seen[sig] = name
	}
}

func TestBuildKcPassphrase(t *testing.T) {
	assert.Equal(t, "+KGfNXdTCAFagUD1lg/kgwlqIgMFeba97YWwVk6avzw=", BuildKcPassphrase(testSecret, testPassphrase))
	assert.Equal(t, BuildKcPassphrase(testSecret, testPassphrase), BuildKcPassphrase(testSecret, testPassphrase))
}

func TestCreateKcHeaders(t *testing.T) {
	creds := &types.ApiKeyCreds{Key: "key-1", Secret: testSecret, Passphrase: testPassphrase}
	ts := testTimestamp

	h, err := CreateKcHeaders(creds, &types.HeaderArgs{
		Method:      "POST",
		RequestPath: "/api/v1/orders",
		Body:        testBody,
	}, &ts)
	require.NoError(t, err)

	m := h.Map()
	assert.Equal(t, strconv.FormatInt(ts, 10), m[HeaderTimestamp])
	assert.Equal(t, "tl1GMC7r5egklnMzWKk4eWLzvL21to+qC95629r41Gw=", m[HeaderSign])
	assert.Equal(t, "key-1", m[HeaderAPIKey])
	assert.Equal(t, "+KGfNXdTCAFagUD1lg/kgwlqIgMFeba97YWwVk6avzw=", m[HeaderPassphrase])
	assert.Equal(t, "2", m[HeaderKeyVersion])
	assert.Len(t, m, 5)
}

func TestCreateKcHeaders_DefaultTimestamp(t *testing.T) {
	creds := &types.ApiKeyCreds{Key: "k", Secret: "s", Passphrase: "p"}
	h, err := CreateKcHeaders(creds, &types.HeaderArgs{Method: "GET", RequestPath: "/api/v1/orders"}, nil)
	require.NoError(t, err)

	ts, err := strconv.ParseInt(h.KcTimestamp, 10, 64)
	require.NoError(t, err)
	// 毫秒时间戳为 13 位
	assert.Len(t, h.KcTimestamp, 13)
	assert.Equal(t, BuildKcHmacSignature("s", ts, "GET", "/api/v1/orders", ""), h.KcSign)
}

func TestCreateKcHeaders_MissingInputs(t *testing.T) {
	_, err := CreateKcHeaders(nil, &types.HeaderArgs{}, nil)
	assert.Error(t, err)
	_, err = CreateKcHeaders(&types.ApiKeyCreds{}, nil, nil)
	assert.Error(t, err)
}
