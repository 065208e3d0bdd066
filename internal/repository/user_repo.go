package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/qs3c/recipe_club_server/internal/model"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(user *model.User) error {
	return r.db.Create(user).Error
}

func (r *UserRepository) GetByID(id int64) (*model.User, error) {
	var user model.User
	err := r.db.Where("id = ?", id).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) GetByEmail(email string) (*model.User, error) {
	var user model.User
	err := r.db.Where("email = ?", email).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) GetByUsername(username string) (*model.User, error) {
	var user model.User
	err := r.db.Where("username = ?", username).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) GetByGithubID(githubID string) (*model.User, error) {
	var user model.User
	err := r.db.Where("github_id = ?", githubID).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) GetByVerificationCode(code string) (*model.User, error) {
	var user model.User
	err := r.db.Where("verification_code = ?", code).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) Update(user *model.User) error {
	return r.db.Save(user).Error
}

func (r *UserRepository) UpdateFields(id int64, fields map[string]interface{}) error {
	return r.db.Model(&model.User{}).Where("id = ?", id).Updates(fields).Error
}

// CompareAndSwapSubscription 乐观更新订阅窗口终点
// 只有存储的终点仍等于读出的旧值时才写入，返回是否写成功
// 同一用户两笔支付并发确认时，输掉的一方重读重算，保证两次延长都生效
func (r *UserRepository) CompareAndSwapSubscription(id int64, oldEndsAt *time.Time, newEndsAt time.Time) (bool, error) {
	query := r.db.Model(&model.User{}).Where("id = ?", id)
	if oldEndsAt == nil {
		query = query.Where("subscription_ends_at IS NULL")
	} else {
		query = query.Where("subscription_ends_at = ?", *oldEndsAt)
	}

	result := query.Updates(map[string]interface{}{
		"subscription_ends_at": newEndsAt,
		"subscription_status":  model.SubscriptionStatusActive,
	})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// SweepExpiredStatus 把终点已过的展示状态刷成 INACTIVE（仅供后台展示，鉴权不依赖它）
func (r *UserRepository) SweepExpiredStatus(now time.Time) (int64, error) {
	result := r.db.Model(&model.User{}).
		Where("subscription_status = ?", model.SubscriptionStatusActive).
		Where("subscription_ends_at IS NOT NULL AND subscription_ends_at <= ?", now).
		Update("subscription_status", model.SubscriptionStatusInactive)
	return result.RowsAffected, result.Error
}

func (r *UserRepository) ExistsByEmail(email string) (bool, error) {
	var count int64
	err := r.db.Model(&model.User{}).Where("email = ?", email).Count(&count).Error
	return count > 0, err
}

func (r *UserRepository) ExistsByUsername(username string) (bool, error) {
	var count int64
	err := r.db.Model(&model.User{}).Where("username = ?", username).Count(&count).Error
	return count > 0, err
}
