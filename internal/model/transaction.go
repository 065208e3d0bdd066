package model

import (
	"time"
)

// 交易状态机：PENDING 只能走向三个终态之一，终态不可变更
const (
	TransactionStatusPending  = "PENDING"
	TransactionStatusPaid     = "PAID"
	TransactionStatusFailed   = "FAILED"
	TransactionStatusCanceled = "CANCELED"
)

// 计费周期，下单时显式指定，不从金额推断
const (
	CadenceMonthly = "MONTHLY"
	CadenceYearly  = "YEARLY"
)

type Transaction struct {
	ID          int64      `gorm:"primaryKey" json:"id"`
	UserID      int64      `gorm:"not null;index" json:"user_id"`
	Amount      int64      `gorm:"not null" json:"amount"` // 最小货币单位（分），避免浮点误差
	Cadence     string     `gorm:"size:20;not null" json:"cadence"`
	Status      string     `gorm:"size:20;default:PENDING;index" json:"status"`
	CreatedAt   time.Time  `gorm:"index" json:"created_at"`
	FinalizedAt *time.Time `json:"finalized_at,omitempty"`
}

func (Transaction) TableName() string {
	return "transactions"
}

// IsTerminal 是否已到终态
func (t *Transaction) IsTerminal() bool {
	return t.Status != TransactionStatusPending
}
