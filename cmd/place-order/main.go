package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/betbot/kcfutures/futures/client"
	"github.com/betbot/kcfutures/futures/orders"
	"github.com/betbot/kcfutures/futures/types"
	"github.com/betbot/kcfutures/pkg/config"
	"github.com/betbot/kcfutures/pkg/logger"
	"github.com/betbot/kcfutures/pkg/secretstore"
)

func main() {
	var f orderFlags

	configPath := flag.String("config", "", "配置文件路径（.yaml/.yml）")
	envPath := flag.String("env", ".env", ".env 文件路径")
	dryRun := flag.Bool("dry-run", false, "只打印请求体，不提交")
	brackets := flag.Bool("brackets", false, "同时提交派生的止损单与止盈单")

	flag.StringVar(&f.Type, "type", "limit", "订单类型：limit 或 market")
	flag.StringVar(&f.Side, "side", "", "buy 或 sell")
	flag.StringVar(&f.Symbol, "symbol", "", "合约代码，例如 XBTUSDTM")
	flag.StringVar(&f.Leverage, "leverage", "1", "杠杆倍数")
	flag.IntVar(&f.Size, "size", 0, "合约张数")
	flag.StringVar(&f.Price, "price", "", "限价单价格")
	flag.StringVar(&f.ClientOid, "client-oid", "", "自定义订单 ID（默认自动生成）")
	flag.StringVar(&f.Remark, "remark", "", "订单备注")
	flag.StringVar(&f.Stop, "stop", "", "触发方向：down 或 up")
	flag.StringVar(&f.StopPrice, "stop-price", "", "触发价")
	flag.StringVar(&f.StopPriceType, "stop-price-type", "", "触发价类型：TP、MP、IP")
	flag.StringVar(&f.StopLoss, "sl", "", "止损触发价")
	flag.StringVar(&f.TakeProfit, "tp", "", "止盈触发价")
	flag.StringVar(&f.StopLossPct, "sl-pct", "", "止损百分比（相对入场价）")
	flag.StringVar(&f.TakeProfitPct, "tp-pct", "", "止盈百分比（相对入场价）")
	flag.StringVar(&f.RefPrice, "ref-price", "", "市价单计算百分比时的参考价")
	flag.StringVar(&f.Tick, "tick", "", "价格精度，例如 0.5")
	flag.StringVar(&f.TimeInForce, "tif", "", "GTC 或 IOC")
	flag.BoolVar(&f.PostOnly, "post-only", false, "只做 maker（需要 GTC）")
	flag.BoolVar(&f.Hidden, "hidden", false, "隐藏订单")
	flag.BoolVar(&f.Iceberg, "iceberg", false, "冰山订单（需要 -visible-size）")
	flag.IntVar(&f.VisibleSize, "visible-size", 0, "冰山订单可见数量")
	reduceOnly := flag.Bool("reduce-only", false, "只减仓")
	closeOrder := flag.Bool("close-order", false, "平仓单")
	forceHold := flag.Bool("force-hold", false, "强制冻结资金")
	flag.Parse()

	// 只有显式给出的布尔参数才发送，未给出时以 null 发送
	flag.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "reduce-only":
			f.ReduceOnly = orders.Bool(*reduceOnly)
		case "close-order":
			f.CloseOrder = orders.Bool(*closeOrder)
		case "force-hold":
			f.ForceHold = orders.Bool(*forceHold)
		}
	})

	if err := godotenv.Load(*envPath); err != nil {
		fmt.Fprintf(os.Stderr, "未找到 %s，使用环境变量\n", *envPath)
	}

	cfg, err := config.LoadFromFile(*configPath)
	if err != nil {
		fatal(err)
	}
	if *dryRun {
		cfg.DryRun = true
	}
	if err := logger.Init(cfg.LoggerConfig()); err != nil {
		fatal(fmt.Errorf("初始化日志失败: %w", err))
	}

	if err := loadStoredCredentials(cfg); err != nil {
		fatal(err)
	}
	if err := cfg.Validate(); err != nil {
		fatal(err)
	}

	order, err := buildOrder(f)
	if err != nil {
		fatal(err)
	}

	if cfg.DryRun {
		if err := printPayloads(order, *brackets); err != nil {
			fatal(err)
		}
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	c := client.NewClient(cfg.ClientConfig())

	if *brackets {
		res, err := c.CreateOrderWithBrackets(ctx, order)
		if res != nil {
			// 部分提交成功时仍然输出结果
			_ = printJSON(res)
		}
		if err != nil {
			fatal(err)
		}
		return
	}

	var res *types.OrderResult
	switch o := order.(type) {
	case *orders.LimitOrder:
		res, err = c.CreateLimitOrder(ctx, o)
	case *orders.MarketOrder:
		res, err = c.CreateMarketOrder(ctx, o)
	default:
		res, err = c.CreateOrder(ctx, order)
	}
	if err != nil {
		fatal(err)
	}
	if err := printJSON(res); err != nil {
		fatal(err)
	}
}

// loadStoredCredentials 环境变量与配置文件未给出凭证时，从 badger 读取
func loadStoredCredentials(cfg *config.Config) error {
	if cfg.SecretStore.Path == "" || cfg.Credentials.APIKey != "" {
		return nil
	}
	key, err := secretstore.ParseKey(cfg.SecretStore.EncryptionKey)
	if err != nil {
		return err
	}
	ss, err := secretstore.Open(secretstore.OpenOptions{
		Path:          cfg.SecretStore.Path,
		EncryptionKey: key,
		ReadOnly:      true,
	})
	if err != nil {
		return fmt.Errorf("打开凭证存储失败: %w", err)
	}
	defer ss.Close()

	creds, ok, err := ss.LoadCredentials(cfg.SecretStore.Prefix)
	if err != nil {
		return err
	}
	if !ok {
		logrus.Warnf("凭证存储 %s 中没有完整的 API 凭证（前缀 %s）", cfg.SecretStore.Path, cfg.SecretStore.Prefix)
		return nil
	}
	cfg.Credentials.APIKey = creds.Key
	cfg.Credentials.APISecret = creds.Secret
	cfg.Credentials.Passphrase = creds.Passphrase
	logrus.Infof("已从凭证存储加载 API 凭证: %s", cfg.SecretStore.Path)
	return nil
}

func printPayloads(order orders.Order, withBrackets bool) error {
	payloads := []map[string]any{order.ToWire()}
	if withBrackets {
		sl, tp, err := order.Brackets()
		if err != nil {
			return err
		}
		payloads = append(payloads, sl.ToWire(), tp.ToWire())
	}
	return printJSON(payloads)
}

func printJSON(v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(b))
	return nil
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "error:", err.Error())
	os.Exit(1)
}
