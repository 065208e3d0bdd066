package service

import (
	"context"
	"errors"
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/qs3c/recipe_club_server/internal/model"
	"github.com/qs3c/recipe_club_server/internal/pkg/pubsub"
	"github.com/qs3c/recipe_club_server/internal/pkg/queue"
	"github.com/qs3c/recipe_club_server/internal/repository"
)

var (
	ErrInvalidAmount           = errors.New("金额必须大于 0")
	ErrTransactionNotFound     = errors.New("交易不存在")
	ErrConflictingFinalization = errors.New("交易已有相反的终态")
	ErrInvalidOutcome          = errors.New("无效的交易终态")
)

// LedgerService 交易台账
// 每笔支付尝试从创建到终态的完整生命周期都记录在这里，记录永不删除
type LedgerService struct {
	db           *gorm.DB
	txnRepo      *repository.TransactionRepository
	userRepo     *repository.UserRepository
	subscription *SubscriptionService
	receiptQueue *queue.Queue      // 可为 nil（未配置通知）
	publisher    *pubsub.Publisher // 可为 nil
}

func NewLedgerService(
	db *gorm.DB,
	txnRepo *repository.TransactionRepository,
	userRepo *repository.UserRepository,
	subscription *SubscriptionService,
	receiptQueue *queue.Queue,
	publisher *pubsub.Publisher,
) *LedgerService {
	return &LedgerService{
		db:           db,
		txnRepo:      txnRepo,
		userRepo:     userRepo,
		subscription: subscription,
		receiptQueue: receiptQueue,
		publisher:    publisher,
	}
}

// Open 创建一笔 PENDING 交易
// 交易 ID 即后续所有状态流转的幂等键，同时作为传给支付渠道的商户单号
func (s *LedgerService) Open(userID, amount int64, cadence string) (*model.Transaction, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	if _, ok := cadenceDays[cadence]; !ok {
		return nil, ErrUnknownCadence
	}

	txn := &model.Transaction{
		UserID:  userID,
		Amount:  amount,
		Cadence: cadence,
		Status:  model.TransactionStatusPending,
	}
	if err := s.txnRepo.Create(txn); err != nil {
		return nil, err
	}

	return txn, nil
}

// Finalize 把交易推进到终态，渠道回调和管理员手工确认共用这一个入口
// 状态翻转和订阅延长绑在同一个数据库事务里：要么一起提交，要么一起回滚，
// 崩溃不可能留下"已 PAID 但未延长"或相反的中间态
func (s *LedgerService) Finalize(transactionID int64, outcome string) (*model.Transaction, error) {
	switch outcome {
	case model.TransactionStatusPaid, model.TransactionStatusFailed, model.TransactionStatusCanceled:
	default:
		return nil, ErrInvalidOutcome
	}

	var finalized *model.Transaction
	extended := false

	err := s.db.Transaction(func(tx *gorm.DB) error {
		txnRepo := repository.NewTransactionRepository(tx)

		txn, err := txnRepo.GetByID(transactionID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTransactionNotFound
			}
			return err
		}

		if txn.IsTerminal() {
			// 同一终态重复送达是正常情况（webhook 至少一次投递、重复点击），
			// 原样返回且不再触发订阅延长；相反终态说明渠道数据不一致，必须暴露给运营
			if txn.Status == outcome {
				finalized = txn
				return nil
			}
			return ErrConflictingFinalization
		}

		now := time.Now()
		won, err := txnRepo.FinalizeIfPending(transactionID, outcome, now)
		if err != nil {
			return err
		}
		if !won {
			// 输掉了离开 PENDING 的竞争，按已终态的规则重新判定
			txn, err = txnRepo.GetByID(transactionID)
			if err != nil {
				return err
			}
			if txn.Status == outcome {
				finalized = txn
				return nil
			}
			return ErrConflictingFinalization
		}

		txn.Status = outcome
		txn.FinalizedAt = &now

		if outcome == model.TransactionStatusPaid {
			if err := s.subscription.ExtendInTx(tx, txn.UserID, txn.Cadence, now); err != nil {
				return err
			}
			extended = true
		}

		finalized = txn
		return nil
	})
	if err != nil {
		return nil, err
	}

	if extended {
		s.notifyPaid(finalized)
	}

	return finalized, nil
}

// Get 查询单笔交易
func (s *LedgerService) Get(transactionID int64) (*model.Transaction, error) {
	txn, err := s.txnRepo.GetByID(transactionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, err
	}
	return txn, nil
}

// ListByUser 用户的交易记录，新的在前
func (s *LedgerService) ListByUser(userID int64) ([]*model.Transaction, error) {
	return s.txnRepo.ListByUser(userID)
}

// notifyPaid 支付成功的旁路通知：回执邮件入队 + 发布看板事件
// 通知失败只记日志，不影响已提交的支付结果
func (s *LedgerService) notifyPaid(txn *model.Transaction) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	finalizedAt := ""
	if txn.FinalizedAt != nil {
		finalizedAt = txn.FinalizedAt.Format(time.RFC3339)
	}

	if s.publisher != nil {
		event := &pubsub.PaymentEvent{
			TransactionID: txn.ID,
			UserID:        txn.UserID,
			Amount:        txn.Amount,
			Cadence:       txn.Cadence,
			Status:        txn.Status,
			FinalizedAt:   finalizedAt,
		}
		if err := s.publisher.PublishPayment(ctx, event); err != nil {
			log.Printf("Failed to publish payment event for transaction %d: %v", txn.ID, err)
		}
	}

	if s.receiptQueue != nil {
		user, err := s.userRepo.GetByID(txn.UserID)
		if err != nil || user.Email == nil {
			return
		}
		msg := &queue.ReceiptMessage{
			TransactionID: txn.ID,
			UserID:        txn.UserID,
			Email:         *user.Email,
			Username:      user.Username,
			Amount:        txn.Amount,
			Cadence:       txn.Cadence,
			PaidAt:        finalizedAt,
		}
		if err := s.receiptQueue.Push(ctx, msg); err != nil {
			log.Printf("Failed to enqueue receipt for transaction %d: %v", txn.ID, err)
		}
	}
}
