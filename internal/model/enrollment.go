package model

import (
	"time"
)

// Enrollment 课程报名记录
// 写入后永不修改、永不删除：它记录"报过名"这一历史事实，
// 能否继续看课内容由 EntitlementService 每次实时判定
type Enrollment struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	UserID    int64     `gorm:"not null;uniqueIndex:idx_user_course" json:"user_id"`
	CourseID  int64     `gorm:"not null;uniqueIndex:idx_user_course" json:"course_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (Enrollment) TableName() string {
	return "enrollments"
}
