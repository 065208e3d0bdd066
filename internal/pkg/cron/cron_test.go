package cron

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/qs3c/recipe_club_server/internal/model"
	"github.com/qs3c/recipe_club_server/internal/repository"
	"github.com/qs3c/recipe_club_server/internal/testutil"
)

func setupCronService(t *testing.T) (*Service, *gorm.DB, func()) {
	t.Helper()

	db := testutil.SetupTestDB(t)
	userRepo := repository.NewUserRepository(db)
	cronService := NewService(userRepo, nil)

	cleanup := func() {
		testutil.CleanupTestDB(t, db)
	}

	return cronService, db, cleanup
}

func TestNewService(t *testing.T) {
	svc := NewService(nil, nil)
	assert.NotNil(t, svc)
	assert.Nil(t, svc.userRepo)
	assert.NotNil(t, svc.stopChan)
}

func TestService_StartAndStop(t *testing.T) {
	svc, _, cleanup := setupCronService(t)
	defer cleanup()

	svc.Start()
	time.Sleep(10 * time.Millisecond)
	svc.Stop()
	time.Sleep(10 * time.Millisecond)
}

func TestService_StopBeforeStart(t *testing.T) {
	svc, _, cleanup := setupCronService(t)
	defer cleanup()

	svc.Stop()
}

func TestService_RunNow(t *testing.T) {
	svc, db, cleanup := setupCronService(t)
	defer cleanup()

	// 订阅已过期但展示状态还停在 ACTIVE 的用户
	lapsed := testutil.TestUser(t, db, testutil.WithSubscriptionEndsAt(time.Now().Add(-24*time.Hour)))
	active := testutil.TestUser(t, db, testutil.WithSubscriptionEndsAt(time.Now().Add(24*time.Hour)))

	affected, err := svc.RunNow()
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	var stored model.User
	require.NoError(t, db.First(&stored, lapsed.ID).Error)
	assert.Equal(t, model.SubscriptionStatusInactive, stored.SubscriptionStatus)
	// 到期时间本身不动，只刷展示字段
	assert.NotNil(t, stored.SubscriptionEndsAt)

	stored = model.User{}
	require.NoError(t, db.First(&stored, active.ID).Error)
	assert.Equal(t, model.SubscriptionStatusActive, stored.SubscriptionStatus)
}

func TestService_RunNow_NoUsers(t *testing.T) {
	svc, _, cleanup := setupCronService(t)
	defer cleanup()

	affected, err := svc.RunNow()
	assert.NoError(t, err)
	assert.Equal(t, int64(0), affected)
}

func TestService_RunNow_Idempotent(t *testing.T) {
	svc, db, cleanup := setupCronService(t)
	defer cleanup()

	testutil.TestUser(t, db, testutil.WithSubscriptionEndsAt(time.Now().Add(-time.Hour)))

	affected, err := svc.RunNow()
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	// 第二次扫不到可刷的行
	affected, err = svc.RunNow()
	require.NoError(t, err)
	assert.Equal(t, int64(0), affected)
}
