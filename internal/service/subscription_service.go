package service

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/qs3c/recipe_club_server/internal/model"
	"github.com/qs3c/recipe_club_server/internal/repository"
)

var (
	ErrUnknownCadence         = errors.New("未知的计费周期")
	ErrSubscriptionContention = errors.New("订阅更新冲突")
)

// 套餐时长固定表：月付 30 天，年付 365 天
// 刻意不做日历月运算，避免月末日期的歧义
var cadenceDays = map[string]int{
	model.CadenceMonthly: 30,
	model.CadenceYearly:  365,
}

const extendRetryLimit = 5

// PlanDays 查套餐时长（天）
func PlanDays(cadence string) (int, bool) {
	days, ok := cadenceDays[cadence]
	return days, ok
}

// SubscriptionWindow 订阅窗口
type SubscriptionWindow struct {
	Status string     `json:"status"`
	EndsAt *time.Time `json:"ends_at,omitempty"`
}

func (w *SubscriptionWindow) IsActive() bool {
	return w.Status == model.SubscriptionStatusActive
}

type SubscriptionService struct {
	userRepo *repository.UserRepository
}

func NewSubscriptionService(userRepo *repository.UserRepository) *SubscriptionService {
	return &SubscriptionService{userRepo: userRepo}
}

// Extend 延长订阅窗口
// 新终点 = max(当前终点, effectiveAt) + 套餐时长：
// 未到期续费叠加在剩余时间之上，过期后重新付费则从 effectiveAt 起算
func (s *SubscriptionService) Extend(userID int64, cadence string, effectiveAt time.Time) error {
	return extendSubscription(s.userRepo, s.userRepo, userID, cadence, effectiveAt)
}

// ExtendInTx 在给定事务内延长订阅
// 交易状态翻转和订阅延长必须绑在同一个数据库事务里提交
// CAS 失败后的重读走事务外的 s.userRepo：REPEATABLE READ 下事务内的普通读
// 只能看到开事务时的快照，读不到并发支付刚提交的新终点，快照里重试多少次
// 都是同一个旧值
func (s *SubscriptionService) ExtendInTx(tx *gorm.DB, userID int64, cadence string, effectiveAt time.Time) error {
	return extendSubscription(repository.NewUserRepository(tx), s.userRepo, userID, cadence, effectiveAt)
}

func extendSubscription(writeRepo, freshRepo *repository.UserRepository, userID int64, cadence string, effectiveAt time.Time) error {
	days, ok := cadenceDays[cadence]
	if !ok {
		return ErrUnknownCadence
	}
	length := time.Duration(days) * 24 * time.Hour

	reader := writeRepo
	for i := 0; i < extendRetryLimit; i++ {
		user, err := reader.GetByID(userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				// 只有 PAID 交易会触发延长，交易必然挂在已存在的用户上
				return ErrUserNotFound
			}
			return err
		}

		base := effectiveAt
		if user.SubscriptionEndsAt != nil && user.SubscriptionEndsAt.After(base) {
			base = *user.SubscriptionEndsAt
		}

		swapped, err := writeRepo.CompareAndSwapSubscription(userID, user.SubscriptionEndsAt, base.Add(length))
		if err != nil {
			return err
		}
		if swapped {
			return nil
		}
		// 同一用户另一笔支付抢先写入了新终点。UPDATE 是当前读，此刻对方
		// 必然已提交；重读改走事务外连接拿最新提交值，再重算一次
		reader = freshRepo
	}

	return ErrSubscriptionContention
}

// CurrentWindow 读取当前订阅窗口
// ACTIVE 当且仅当存储的终点严格晚于本次调用读到的时钟——
// 过期失效发生在读路径上，不需要任何后台任务参与
func (s *SubscriptionService) CurrentWindow(userID int64) (*SubscriptionWindow, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	window := &SubscriptionWindow{Status: model.SubscriptionStatusInactive}
	if user.SubscriptionEndsAt != nil {
		window.EndsAt = user.SubscriptionEndsAt
		if user.SubscriptionEndsAt.After(time.Now()) {
			window.Status = model.SubscriptionStatusActive
		}
	}

	return window, nil
}

// IsActive 订阅是否在有效期内
func (s *SubscriptionService) IsActive(userID int64) (bool, error) {
	window, err := s.CurrentWindow(userID)
	if err != nil {
		return false, err
	}
	return window.IsActive(), nil
}
