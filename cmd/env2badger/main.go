package main

import (
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/joho/godotenv"

	"github.com/betbot/kcfutures/futures/types"
	"github.com/betbot/kcfutures/pkg/secretstore"
)

func main() {
	var (
		inPath    = flag.String("in", ".env", "input .env file path")
		dbPath    = flag.String("badger", getenv("KC_SECRET_DB", "data/secrets.badger"), "badger secrets db path")
		secretKey = flag.String("secret-key", getenv("KC_SECRET_KEY", ""), "badger encryption key (32 bytes base64/hex)")
		prefix    = flag.String("prefix", getenv("KC_SECRET_PREFIX", "env/"), "key prefix inside badger")
		all       = flag.Bool("all", false, "import every entry, not only KC_API_* credentials")
	)
	flag.Parse()

	keyBytes, err := secretstore.ParseKey(*secretKey)
	if err != nil {
		fatal(err)
	}
	if keyBytes == nil {
		fatal(fmt.Errorf("secret key is required: set KC_SECRET_KEY or pass -secret-key"))
	}

	kv, err := godotenv.Read(*inPath)
	if err != nil {
		fatal(err)
	}

	ss, err := secretstore.Open(secretstore.OpenOptions{
		Path:          *dbPath,
		EncryptionKey: keyBytes,
	})
	if err != nil {
		fatal(err)
	}
	defer ss.Close()

	written, err := importEnv(ss, *prefix, kv, *all)
	if err != nil {
		fatal(err)
	}
	fmt.Fprintf(os.Stderr, "已导入 %d 项到 badger：%s（前缀 %s）\n", written, *dbPath, *prefix)
}

// importEnv 写入三项 API 凭证；all 为 true 时写入全部条目
func importEnv(ss *secretstore.Store, prefix string, kv map[string]string, all bool) (int, error) {
	creds := &types.ApiKeyCreds{
		Key:        kv[secretstore.KeyAPIKey],
		Secret:     kv[secretstore.KeyAPISecret],
		Passphrase: kv[secretstore.KeyPassphrase],
	}
	if creds.Key == "" || creds.Secret == "" || creds.Passphrase == "" {
		return 0, fmt.Errorf("missing credentials: %s, %s and %s are required",
			secretstore.KeyAPIKey, secretstore.KeyAPISecret, secretstore.KeyPassphrase)
	}
	if err := ss.SaveCredentials(prefix, creds); err != nil {
		return 0, err
	}
	written := 3
	if !all {
		return written, nil
	}

	keys := make([]string, 0, len(kv))
	for k := range kv {
		switch k {
		case secretstore.KeyAPIKey, secretstore.KeyAPISecret, secretstore.KeyPassphrase:
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := ss.SetString(prefix+k, kv[k]); err != nil {
			return written, err
		}
		written++
	}
	return written, nil
}

func getenv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "error:", err.Error())
	os.Exit(1)
}
