package types

// Side 订单方向
type Side string

const (
	SideBuy  Side = "buy"
	SideSell Side = "sell"
)

// OrderType 订单类型
type OrderType string

const (
	OrderTypeLimit  OrderType = "limit"
	OrderTypeMarket OrderType = "market"
)

// Stop 止损触发方向
type Stop string

const (
	StopDown Stop = "down" // 价格下跌至 stopPrice 时触发
	StopUp   Stop = "up"   // 价格上涨至 stopPrice 时触发
)

// StopPriceType 触发价格类型
type StopPriceType string

const (
	StopPriceTypeTrade StopPriceType = "TP" // Trade Price - 最新成交价
	StopPriceTypeMark  StopPriceType = "MP" // Mark Price - 标记价格
	StopPriceTypeIndex StopPriceType = "IP" // Index Price - 指数价格
)

// TimeInForce 订单有效方式（仅限价单）
type TimeInForce string

const (
	TimeInForceGTC TimeInForce = "GTC" // Good Till Cancel - 一直有效直到取消
	TimeInForceIOC TimeInForce = "IOC" // Immediate Or Cancel - 立即成交，剩余取消
)

// 合法取值集合，校验与错误信息共用
var (
	ValidSides          = []Side{SideBuy, SideSell}
	ValidStops          = []Stop{StopDown, StopUp}
	ValidStopPriceTypes = []StopPriceType{StopPriceTypeTrade, StopPriceTypeMark, StopPriceTypeIndex}
	ValidTimeInForces   = []TimeInForce{TimeInForceGTC, TimeInForceIOC}
)

// ApiKeyCreds API 密钥凭证
type ApiKeyCreds struct {
	Key        string
	Secret     string
	Passphrase string
}
