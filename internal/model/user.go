package model

import (
	"time"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// 订阅展示状态，仅用于后台列表和统计
// 鉴权永远以 SubscriptionEndsAt 和当前时间比较为准
const (
	SubscriptionStatusActive   = "ACTIVE"
	SubscriptionStatusInactive = "INACTIVE"
)

type User struct {
	ID                    int64      `gorm:"primaryKey" json:"id"`
	Username              string     `gorm:"size:50;uniqueIndex;not null" json:"username"`
	Email                 *string    `gorm:"size:100;uniqueIndex" json:"email,omitempty"`
	PasswordHash          *string    `gorm:"size:255" json:"-"`
	AvatarURL             string     `gorm:"size:500" json:"avatar_url"`
	Bio                   string     `gorm:"type:text" json:"bio"`
	GithubID              *string    `gorm:"column:github_id;size:50;uniqueIndex" json:"-"`
	Role                  string     `gorm:"size:20;default:user" json:"role"`
	SubscriptionStatus    string     `gorm:"size:20;default:INACTIVE;index" json:"subscription_status"`
	SubscriptionEndsAt    *time.Time `gorm:"index" json:"subscription_ends_at,omitempty"`
	EmailVerified         bool       `gorm:"default:false" json:"email_verified"`
	VerificationCode      *string    `gorm:"size:100" json:"-"`
	VerificationExpiresAt *time.Time `json:"-"`
	CreatedAt             time.Time  `json:"created_at"`
	UpdatedAt             time.Time  `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}
