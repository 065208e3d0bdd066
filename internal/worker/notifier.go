package worker

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/qs3c/recipe_club_server/internal/pkg/email"
	"github.com/qs3c/recipe_club_server/internal/pkg/queue"
)

// Notifier 回执邮件发送器
// 消费支付成功后入队的回执消息，发送失败的消息会被丢弃并记日志
// （回执邮件不影响账务正确性，不做重试队列）
type Notifier struct {
	emailService *email.Service
}

func NewNotifier(emailService *email.Service) *Notifier {
	return &Notifier{
		emailService: emailService,
	}
}

// Process 发送一封回执邮件
func (n *Notifier) Process(ctx context.Context, msg *queue.ReceiptMessage) error {
	paidAt, err := time.Parse(time.RFC3339, msg.PaidAt)
	if err != nil {
		// 入队方写坏了时间戳也照发，用当前时间兜底
		log.Printf("Receipt for transaction %d has bad paid_at %q: %v", msg.TransactionID, msg.PaidAt, err)
		paidAt = time.Now()
	}

	if err := n.emailService.SendReceipt(msg.Email, msg.Username, msg.Amount, msg.Cadence, paidAt); err != nil {
		return fmt.Errorf("failed to send receipt for transaction %d: %w", msg.TransactionID, err)
	}

	log.Printf("Receipt sent for transaction %d to %s", msg.TransactionID, msg.Email)
	return nil
}
