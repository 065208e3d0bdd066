package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/qs3c/recipe_club_server/config"
	"github.com/qs3c/recipe_club_server/internal/model"
	"github.com/qs3c/recipe_club_server/internal/model/dto"
	"github.com/qs3c/recipe_club_server/internal/pkg/jwt"
	"github.com/qs3c/recipe_club_server/internal/repository"
	"github.com/qs3c/recipe_club_server/internal/testutil"
)

func testAuthConfig() *config.Config {
	return &config.Config{
		JWT: config.JWTConfig{
			Secret:      "test-secret-key-for-testing",
			ExpireHours: 24,
		},
		OAuth: config.OAuthConfig{
			Github: config.GithubOAuthConfig{
				ClientID:     "test-client-id",
				ClientSecret: "test-client-secret",
				RedirectURI:  "http://localhost:8080/callback",
			},
		},
	}
}

func setupAuthService(t *testing.T) (*AuthService, *gorm.DB, func()) {
	t.Helper()

	db := testutil.SetupTestDB(t)
	userRepo := repository.NewUserRepository(db)
	subscription := NewSubscriptionService(userRepo)

	// 单测不接 SMTP
	service := NewAuthService(userRepo, subscription, nil, testAuthConfig())

	cleanup := func() {
		testutil.CleanupTestDB(t, db)
	}

	return service, db, cleanup
}

func TestAuthService_Register_Success(t *testing.T) {
	service, db, cleanup := setupAuthService(t)
	defer cleanup()

	req := &dto.RegisterRequest{
		Email:    "newuser@example.com",
		Username: "newuser",
		Password: "password123",
	}

	resp, err := service.Register(req)
	require.NoError(t, err)
	assert.NotZero(t, resp.UserID)

	var user model.User
	require.NoError(t, db.First(&user, resp.UserID).Error)
	assert.Equal(t, "newuser", user.Username)
	assert.Equal(t, model.RoleUser, user.Role)
	assert.Equal(t, model.SubscriptionStatusInactive, user.SubscriptionStatus)
	assert.Nil(t, user.SubscriptionEndsAt)
	assert.False(t, user.EmailVerified)
	assert.NotNil(t, user.VerificationCode)
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	service, db, cleanup := setupAuthService(t)
	defer cleanup()

	testutil.TestUser(t, db, testutil.WithEmail("taken@example.com"))

	_, err := service.Register(&dto.RegisterRequest{
		Email:    "taken@example.com",
		Username: "someone",
		Password: "password123",
	})
	assert.ErrorIs(t, err, ErrEmailExists)
}

func TestAuthService_Register_DuplicateUsername(t *testing.T) {
	service, db, cleanup := setupAuthService(t)
	defer cleanup()

	testutil.TestUser(t, db, testutil.WithUsername("taken"))

	_, err := service.Register(&dto.RegisterRequest{
		Email:    "fresh@example.com",
		Username: "taken",
		Password: "password123",
	})
	assert.ErrorIs(t, err, ErrUsernameExists)
}

func TestAuthService_Login_Success(t *testing.T) {
	service, db, cleanup := setupAuthService(t)
	defer cleanup()

	user := register(t, service, db, "login@example.com", "loginuser", "password123")

	// 验证邮箱后才能登录
	resp, err := service.VerifyEmail(*user.VerificationCode)
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)

	loginResp, err := service.Login(&dto.LoginRequest{
		Email:    "login@example.com",
		Password: "password123",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, loginResp.Token)
	assert.Equal(t, "loginuser", loginResp.User.Username)
	require.NotNil(t, loginResp.User.Subscription)
	assert.Equal(t, model.SubscriptionStatusInactive, loginResp.User.Subscription.Status)

	claims, err := jwt.ParseToken(loginResp.Token, "test-secret-key-for-testing")
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	service, db, cleanup := setupAuthService(t)
	defer cleanup()

	register(t, service, db, "user1@example.com", "user1", "password123")

	_, err := service.Login(&dto.LoginRequest{
		Email:    "user1@example.com",
		Password: "wrong-password",
	})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_Login_UnknownEmail(t *testing.T) {
	service, _, cleanup := setupAuthService(t)
	defer cleanup()

	_, err := service.Login(&dto.LoginRequest{
		Email:    "nobody@example.com",
		Password: "password123",
	})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_Login_EmailNotVerified(t *testing.T) {
	service, _, cleanup := setupAuthService(t)
	defer cleanup()

	_, err := service.Register(&dto.RegisterRequest{
		Email:    "pending@example.com",
		Username: "pending",
		Password: "password123",
	})
	require.NoError(t, err)

	_, err = service.Login(&dto.LoginRequest{
		Email:    "pending@example.com",
		Password: "password123",
	})
	assert.ErrorIs(t, err, ErrEmailNotVerified)
}

func TestAuthService_Login_SubscriberSeesActiveStatus(t *testing.T) {
	service, db, cleanup := setupAuthService(t)
	defer cleanup()

	user := register(t, service, db, "member@example.com", "member", "password123")
	endsAt := time.Now().Add(15 * 24 * time.Hour)
	require.NoError(t, db.Model(user).Updates(map[string]interface{}{
		"subscription_ends_at": endsAt,
		"email_verified":       true,
	}).Error)

	resp, err := service.Login(&dto.LoginRequest{
		Email:    "member@example.com",
		Password: "password123",
	})
	require.NoError(t, err)
	require.NotNil(t, resp.User.Subscription)
	assert.Equal(t, model.SubscriptionStatusActive, resp.User.Subscription.Status)
	assert.NotEmpty(t, resp.User.Subscription.EndsAt)
}

func TestAuthService_VerifyEmail_InvalidCode(t *testing.T) {
	service, _, cleanup := setupAuthService(t)
	defer cleanup()

	_, err := service.VerifyEmail("no-such-code")
	assert.ErrorIs(t, err, ErrInvalidVerifyCode)
}

func TestAuthService_VerifyEmail_ExpiredCode(t *testing.T) {
	service, db, cleanup := setupAuthService(t)
	defer cleanup()

	user := register(t, service, db, "late@example.com", "lateuser", "password123")

	expired := time.Now().Add(-1 * time.Hour)
	require.NoError(t, db.Model(user).Update("verification_expires_at", expired).Error)

	_, err := service.VerifyEmail(*user.VerificationCode)
	assert.ErrorIs(t, err, ErrInvalidVerifyCode)
}

// register 注册并返回落库的用户记录
func register(t *testing.T, service *AuthService, db *gorm.DB, email, username, password string) *model.User {
	t.Helper()

	_, err := service.Register(&dto.RegisterRequest{
		Email:    email,
		Username: username,
		Password: password,
	})
	require.NoError(t, err)

	var user model.User
	require.NoError(t, db.Where("username = ?", username).First(&user).Error)
	return &user
}
