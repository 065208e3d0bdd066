package dto

// CheckoutRequest 发起支付请求
// cadence 必须显式指定，不根据金额猜测计费周期
type CheckoutRequest struct {
	Amount  int64  `json:"amount" binding:"required"` // 最小货币单位（分）
	Cadence string `json:"cadence" binding:"required,oneof=MONTHLY YEARLY"`
}

// CheckoutResponse 发起支付响应
// transaction_id 同时作为传给外部支付渠道的商户单号
type CheckoutResponse struct {
	TransactionID int64  `json:"transaction_id"`
	Status        string `json:"status"`
}

// WebhookRequest 支付渠道回调
// 回调里只有单号和结果，税务/身份信息不落库
type WebhookRequest struct {
	TransactionID int64  `json:"transaction_id" binding:"required"`
	Outcome       string `json:"outcome" binding:"required,oneof=PAID FAILED CANCELED"`
}

// FinalizeRequest 管理员手工确认请求（本地开发等收不到回调的环境用）
type FinalizeRequest struct {
	Outcome string `json:"outcome" binding:"required,oneof=PAID FAILED CANCELED"`
}

// TransactionItem 交易记录
type TransactionItem struct {
	ID          int64  `json:"id"`
	Amount      int64  `json:"amount"`
	Cadence     string `json:"cadence"`
	Status      string `json:"status"`
	CreatedAt   string `json:"created_at"`
	FinalizedAt string `json:"finalized_at,omitempty"`
}

// SubscriptionInfo 订阅窗口信息
type SubscriptionInfo struct {
	Status string `json:"status"`
	EndsAt string `json:"ends_at,omitempty"`
}

// PlanItem 套餐展示信息
type PlanItem struct {
	Cadence     string `json:"cadence"`
	DisplayName string `json:"display_name"`
	PriceCents  int64  `json:"price_cents"`
	Description string `json:"description,omitempty"`
	Days        int    `json:"days"`
}
