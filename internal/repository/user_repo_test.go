package repository

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/qs3c/recipe_club_server/internal/model"
	"github.com/qs3c/recipe_club_server/internal/testutil"
)

func TestUserRepository_CreateAndGet(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewUserRepository(db)

	email := "repo@example.com"
	user := &model.User{
		Username:           "repouser",
		Email:              &email,
		Role:               model.RoleUser,
		SubscriptionStatus: model.SubscriptionStatusInactive,
	}
	require.NoError(t, repo.Create(user))
	assert.NotZero(t, user.ID)

	got, err := repo.GetByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, "repouser", got.Username)

	got, err = repo.GetByEmail("repo@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
}

func TestUserRepository_CompareAndSwapSubscription_FromNil(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewUserRepository(db)
	user := testutil.TestUser(t, db)

	newEndsAt := time.Now().Add(30 * 24 * time.Hour)
	swapped, err := repo.CompareAndSwapSubscription(user.ID, nil, newEndsAt)
	require.NoError(t, err)
	assert.True(t, swapped)

	updated, err := repo.GetByID(user.ID)
	require.NoError(t, err)
	require.NotNil(t, updated.SubscriptionEndsAt)
	assert.WithinDuration(t, newEndsAt, *updated.SubscriptionEndsAt, time.Second)
	assert.Equal(t, model.SubscriptionStatusActive, updated.SubscriptionStatus)
}

func TestUserRepository_CompareAndSwapSubscription_StaleRead(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewUserRepository(db)
	user := testutil.TestUser(t, db)

	first := time.Now().Add(30 * 24 * time.Hour)
	swapped, err := repo.CompareAndSwapSubscription(user.ID, nil, first)
	require.NoError(t, err)
	require.True(t, swapped)

	// 拿着已失效的旧值（nil）再写必须失败
	swapped, err = repo.CompareAndSwapSubscription(user.ID, nil, time.Now().Add(60*24*time.Hour))
	require.NoError(t, err)
	assert.False(t, swapped)

	// 拿最新值写则成功
	updated, err := repo.GetByID(user.ID)
	require.NoError(t, err)
	second := updated.SubscriptionEndsAt.Add(30 * 24 * time.Hour)
	swapped, err = repo.CompareAndSwapSubscription(user.ID, updated.SubscriptionEndsAt, second)
	require.NoError(t, err)
	assert.True(t, swapped)
}

func TestUserRepository_CompareAndSwapSubscription_InsideTransaction(t *testing.T) {
	// 文件库允许事务外的连接并行读，贴近生产里多连接的形态；
	// 纯内存库的连接池每条连接各是一个独立的空库，模拟不了这个场景
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "cas.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.User{}))
	defer testutil.CleanupTestDB(t, db)

	repo := NewUserRepository(db)

	oldEnd := time.Now().Add(10 * 24 * time.Hour).Truncate(time.Second)
	user := testutil.TestUser(t, db, testutil.WithSubscriptionEndsAt(oldEnd))

	// 同一用户的另一笔支付先一步提交了新终点
	committed := oldEnd.Add(30 * 24 * time.Hour)
	require.NoError(t, db.Model(&model.User{}).
		Where("id = ?", user.ID).
		Update("subscription_ends_at", committed).Error)

	err = db.Transaction(func(tx *gorm.DB) error {
		txRepo := NewUserRepository(tx)

		// 事务里拿着过期的旧值去换：UPDATE 按当前已提交的数据判定，换不动
		swapped, err := txRepo.CompareAndSwapSubscription(user.ID, &oldEnd, committed.Add(24*time.Hour))
		require.NoError(t, err)
		assert.False(t, swapped)

		// 重读必须走事务外的连接才能拿到已提交的新终点，重试即成功——
		// 事务内快照重读在 REPEATABLE READ 下会一直返回旧值
		fresh, err := repo.GetByID(user.ID)
		require.NoError(t, err)
		require.NotNil(t, fresh.SubscriptionEndsAt)
		assert.WithinDuration(t, committed, *fresh.SubscriptionEndsAt, time.Second)

		swapped, err = txRepo.CompareAndSwapSubscription(user.ID, fresh.SubscriptionEndsAt, fresh.SubscriptionEndsAt.Add(30*24*time.Hour))
		require.NoError(t, err)
		assert.True(t, swapped)
		return nil
	})
	require.NoError(t, err)

	updated, err := repo.GetByID(user.ID)
	require.NoError(t, err)
	require.NotNil(t, updated.SubscriptionEndsAt)
	assert.WithinDuration(t, committed.Add(30*24*time.Hour), *updated.SubscriptionEndsAt, time.Second)
}

func TestUserRepository_SweepExpiredStatus(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewUserRepository(db)

	lapsed := testutil.TestUser(t, db, testutil.WithSubscriptionEndsAt(time.Now().Add(-1*time.Hour)))
	active := testutil.TestUser(t, db, testutil.WithSubscriptionEndsAt(time.Now().Add(24*time.Hour)))
	never := testutil.TestUser(t, db)

	affected, err := repo.SweepExpiredStatus(time.Now())
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	got, _ := repo.GetByID(lapsed.ID)
	assert.Equal(t, model.SubscriptionStatusInactive, got.SubscriptionStatus)
	// 终点本身不动，只刷展示状态
	require.NotNil(t, got.SubscriptionEndsAt)

	got, _ = repo.GetByID(active.ID)
	assert.Equal(t, model.SubscriptionStatusActive, got.SubscriptionStatus)

	got, _ = repo.GetByID(never.ID)
	assert.Equal(t, model.SubscriptionStatusInactive, got.SubscriptionStatus)
}

func TestUserRepository_Exists(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewUserRepository(db)
	testutil.TestUser(t, db, testutil.WithUsername("exists"), testutil.WithEmail("exists@example.com"))

	ok, err := repo.ExistsByUsername("exists")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.ExistsByEmail("exists@example.com")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.ExistsByUsername("ghost")
	require.NoError(t, err)
	assert.False(t, ok)
}
