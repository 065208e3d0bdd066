package testutil

import (
	"fmt"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/qs3c/recipe_club_server/internal/model"
)

// TestUser 创建测试用户
func TestUser(t *testing.T, db *gorm.DB, opts ...func(*model.User)) *model.User {
	t.Helper()

	email := fmt.Sprintf("test_%d@example.com", time.Now().UnixNano())
	passwordHash := "$2a$10$abcdefghijklmnopqrstuvwxyz123456" // bcrypt hash placeholder
	user := &model.User{
		Username:           fmt.Sprintf("testuser_%d", time.Now().UnixNano()%100000),
		Email:              &email,
		PasswordHash:       &passwordHash,
		Role:               model.RoleUser,
		SubscriptionStatus: model.SubscriptionStatusInactive,
		EmailVerified:      true,
	}

	for _, opt := range opts {
		opt(user)
	}

	if err := db.Create(user).Error; err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}

	return user
}

// WithUsername 设置用户名
func WithUsername(username string) func(*model.User) {
	return func(u *model.User) {
		u.Username = username
	}
}

// WithEmail 设置邮箱
func WithEmail(email string) func(*model.User) {
	return func(u *model.User) {
		u.Email = &email
	}
}

// WithRole 设置角色
func WithRole(role string) func(*model.User) {
	return func(u *model.User) {
		u.Role = role
	}
}

// WithSubscriptionEndsAt 设置订阅终点（同时把展示状态置为 ACTIVE）
func WithSubscriptionEndsAt(endsAt time.Time) func(*model.User) {
	return func(u *model.User) {
		u.SubscriptionEndsAt = &endsAt
		u.SubscriptionStatus = model.SubscriptionStatusActive
	}
}

// TestTransaction 创建测试交易
func TestTransaction(t *testing.T, db *gorm.DB, userID int64, opts ...func(*model.Transaction)) *model.Transaction {
	t.Helper()

	txn := &model.Transaction{
		UserID:  userID,
		Amount:  1900,
		Cadence: model.CadenceMonthly,
		Status:  model.TransactionStatusPending,
	}

	for _, opt := range opts {
		opt(txn)
	}

	if err := db.Create(txn).Error; err != nil {
		t.Fatalf("Failed to create test transaction: %v", err)
	}

	return txn
}

// WithCadence 设置计费周期
func WithCadence(cadence string) func(*model.Transaction) {
	return func(txn *model.Transaction) {
		txn.Cadence = cadence
	}
}

// WithAmount 设置金额
func WithAmount(amount int64) func(*model.Transaction) {
	return func(txn *model.Transaction) {
		txn.Amount = amount
	}
}

// WithTransactionStatus 设置交易状态（终态要配上 FinalizedAt）
func WithTransactionStatus(status string) func(*model.Transaction) {
	return func(txn *model.Transaction) {
		txn.Status = status
		if status != model.TransactionStatusPending {
			now := time.Now()
			txn.FinalizedAt = &now
		}
	}
}

// TestEnrollment 创建测试报名记录
func TestEnrollment(t *testing.T, db *gorm.DB, userID, courseID int64) *model.Enrollment {
	t.Helper()

	enrollment := &model.Enrollment{
		UserID:   userID,
		CourseID: courseID,
	}

	if err := db.Create(enrollment).Error; err != nil {
		t.Fatalf("Failed to create test enrollment: %v", err)
	}

	return enrollment
}

// TestRecipe 创建测试菜谱
func TestRecipe(t *testing.T, db *gorm.DB, opts ...func(*model.Recipe)) *model.Recipe {
	t.Helper()

	recipe := &model.Recipe{
		Title:        fmt.Sprintf("Test Recipe %d", time.Now().UnixNano()%100000),
		Summary:      "一道测试菜",
		Ingredients:  "食材清单",
		Instructions: "做法步骤",
	}

	for _, opt := range opts {
		opt(recipe)
	}

	if err := db.Create(recipe).Error; err != nil {
		t.Fatalf("Failed to create test recipe: %v", err)
	}

	return recipe
}

// WithPremiumRecipe 标记为会员菜谱
func WithPremiumRecipe() func(*model.Recipe) {
	return func(r *model.Recipe) {
		r.IsPremium = true
	}
}

// TestCourse 创建测试课程
func TestCourse(t *testing.T, db *gorm.DB, opts ...func(*model.Course)) *model.Course {
	t.Helper()

	course := &model.Course{
		Title:       fmt.Sprintf("Test Course %d", time.Now().UnixNano()%100000),
		Description: "一门测试课程",
	}

	for _, opt := range opts {
		opt(course)
	}

	if err := db.Create(course).Error; err != nil {
		t.Fatalf("Failed to create test course: %v", err)
	}

	return course
}

// WithPremiumCourse 标记为会员课程
func WithPremiumCourse() func(*model.Course) {
	return func(c *model.Course) {
		c.IsPremium = true
	}
}

// TestLesson 创建测试课时
func TestLesson(t *testing.T, db *gorm.DB, courseID int64, position int, opts ...func(*model.Lesson)) *model.Lesson {
	t.Helper()

	lesson := &model.Lesson{
		CourseID: courseID,
		Title:    fmt.Sprintf("Lesson %d", position),
		VideoURL: "https://video.example.com/test.mp4",
		Content:  "课时讲义",
		Position: position,
	}

	for _, opt := range opts {
		opt(lesson)
	}

	if err := db.Create(lesson).Error; err != nil {
		t.Fatalf("Failed to create test lesson: %v", err)
	}

	return lesson
}

// WithFreeLesson 标记为试看课时
func WithFreeLesson() func(*model.Lesson) {
	return func(l *model.Lesson) {
		l.IsFree = true
	}
}
