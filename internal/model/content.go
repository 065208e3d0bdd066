package model

import (
	"time"
)

// 内容表由编辑后台（CMS）写入，本服务只读
// 付费标记（IsPremium / IsFree）视为不可变输入

type Recipe struct {
	ID           int64     `gorm:"primaryKey" json:"id"`
	Title        string    `gorm:"size:200;not null" json:"title"`
	Summary      string    `gorm:"size:500" json:"summary"`
	ImageURL     string    `gorm:"size:500" json:"image_url"`
	Ingredients  string    `gorm:"type:text" json:"ingredients"`
	Instructions string    `gorm:"type:text" json:"instructions"`
	IsPremium    bool      `gorm:"default:false;index" json:"is_premium"`
	CreatedAt    time.Time `json:"created_at"`
}

func (Recipe) TableName() string {
	return "recipes"
}

type Course struct {
	ID          int64     `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"size:200;not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	CoverURL    string    `gorm:"size:500" json:"cover_url"`
	IsPremium   bool      `gorm:"default:false;index" json:"is_premium"`
	CreatedAt   time.Time `json:"created_at"`
}

func (Course) TableName() string {
	return "courses"
}

type Lesson struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	CourseID  int64     `gorm:"not null;index" json:"course_id"`
	Title     string    `gorm:"size:200;not null" json:"title"`
	VideoURL  string    `gorm:"size:500" json:"video_url"`
	Content   string    `gorm:"type:text" json:"content"`
	Position  int       `gorm:"not null;default:0" json:"position"`
	IsFree    bool      `gorm:"default:false" json:"is_free"` // 试看课，无需订阅和报名
	CreatedAt time.Time `json:"created_at"`
}

func (Lesson) TableName() string {
	return "lessons"
}
