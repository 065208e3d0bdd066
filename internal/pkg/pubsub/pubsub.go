package pubsub

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-redis/redis/v8"
)

const (
	ChannelPaymentEvents = "payment_events"
)

// PaymentEvent 支付终态事件
// 交易确认后发布，server 端转发给管理后台的实时销售看板
type PaymentEvent struct {
	Type          string `json:"type"`
	TransactionID int64  `json:"transaction_id"`
	UserID        int64  `json:"user_id"`
	Amount        int64  `json:"amount"`
	Cadence       string `json:"cadence"`
	Status        string `json:"status"`
	FinalizedAt   string `json:"finalized_at"`
}

// Publisher Redis 发布者
type Publisher struct {
	client *redis.Client
}

// NewPublisher 创建发布者
func NewPublisher(client *redis.Client) *Publisher {
	return &Publisher{client: client}
}

// PublishPayment 发布支付事件
func (p *Publisher) PublishPayment(ctx context.Context, event *PaymentEvent) error {
	event.Type = "payment_finalized"

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal payment event: %w", err)
	}

	return p.client.Publish(ctx, ChannelPaymentEvents, data).Err()
}

// Subscriber Redis 订阅者
type Subscriber struct {
	client *redis.Client
}

// NewSubscriber 创建订阅者
func NewSubscriber(client *redis.Client) *Subscriber {
	return &Subscriber{client: client}
}

// Subscribe 订阅支付事件
func (s *Subscriber) Subscribe(ctx context.Context, handler func(*PaymentEvent)) error {
	pubsub := s.client.Subscribe(ctx, ChannelPaymentEvents)
	defer pubsub.Close()

	ch := pubsub.Channel()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return nil
			}

			var event PaymentEvent
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				continue // 忽略解析错误
			}

			handler(&event)
		}
	}
}
