package handler

import (
	"fmt"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/qs3c/recipe_club_server/internal/api/middleware"
	"github.com/qs3c/recipe_club_server/internal/model"
	"github.com/qs3c/recipe_club_server/internal/model/dto"
	"github.com/qs3c/recipe_club_server/internal/pkg/response"
	"github.com/qs3c/recipe_club_server/internal/repository"
	"github.com/qs3c/recipe_club_server/internal/service"
	"github.com/qs3c/recipe_club_server/internal/testutil"
)

func setupAdminHandler(t *testing.T) (*AdminHandler, *repository.UserRepository, *gorm.DB, func()) {
	t.Helper()

	db := testutil.SetupTestDB(t)
	userRepo := repository.NewUserRepository(db)
	txnRepo := repository.NewTransactionRepository(db)
	subscription := service.NewSubscriptionService(userRepo)
	ledger := service.NewLedgerService(db, txnRepo, userRepo, subscription, nil, nil)

	handler := NewAdminHandler(ledger)

	cleanup := func() {
		testutil.CleanupTestDB(t, db)
	}

	return handler, userRepo, db, cleanup
}

func TestAdminHandler_FinalizeTransaction(t *testing.T) {
	handler, _, db, cleanup := setupAdminHandler(t)
	defer cleanup()

	admin := testutil.TestUser(t, db, testutil.WithRole(model.RoleAdmin))
	user := testutil.TestUser(t, db)
	txn := testutil.TestTransaction(t, db, user.ID)

	router := gin.New()
	router.POST("/transactions/:id/finalize", asUser(admin.ID), handler.FinalizeTransaction)

	w := performRequest(router, "POST", fmt.Sprintf("/transactions/%d/finalize", txn.ID), dto.FinalizeRequest{
		Outcome: model.TransactionStatusPaid,
	}, nil)
	resp := parseResponse(t, w)

	assert.Equal(t, response.CodeSuccess, resp.Code)
	data := resp.Data.(map[string]interface{})
	assert.Equal(t, model.TransactionStatusPaid, data["status"])

	// 手工确认和渠道回调走同一条路径，订阅同样延长
	var updated model.User
	require.NoError(t, db.First(&updated, user.ID).Error)
	assert.NotNil(t, updated.SubscriptionEndsAt)
}

func TestAdminHandler_FinalizeTransaction_Conflict(t *testing.T) {
	handler, _, db, cleanup := setupAdminHandler(t)
	defer cleanup()

	admin := testutil.TestUser(t, db, testutil.WithRole(model.RoleAdmin))
	user := testutil.TestUser(t, db)
	txn := testutil.TestTransaction(t, db, user.ID, testutil.WithTransactionStatus(model.TransactionStatusCanceled))

	router := gin.New()
	router.POST("/transactions/:id/finalize", asUser(admin.ID), handler.FinalizeTransaction)

	w := performRequest(router, "POST", fmt.Sprintf("/transactions/%d/finalize", txn.ID), dto.FinalizeRequest{
		Outcome: model.TransactionStatusPaid,
	}, nil)
	resp := parseResponse(t, w)

	assert.Equal(t, response.CodeConflict, resp.Code)
}

func TestAdminOnlyMiddleware(t *testing.T) {
	handler, userRepo, db, cleanup := setupAdminHandler(t)
	defer cleanup()

	admin := testutil.TestUser(t, db, testutil.WithRole(model.RoleAdmin))
	regular := testutil.TestUser(t, db)
	user := testutil.TestUser(t, db)
	txn := testutil.TestTransaction(t, db, user.ID)

	router := gin.New()
	router.POST("/admin/:id/finalize",
		asUser(regular.ID),
		middleware.AdminOnly(userRepo),
		handler.FinalizeTransaction,
	)

	// 普通用户被拒
	w := performRequest(router, "POST", fmt.Sprintf("/admin/%d/finalize", txn.ID), dto.FinalizeRequest{
		Outcome: model.TransactionStatusPaid,
	}, nil)
	resp := parseResponse(t, w)
	assert.Equal(t, response.CodePermissionDenied, resp.Code)

	// 管理员放行
	router2 := gin.New()
	router2.POST("/admin/:id/finalize",
		asUser(admin.ID),
		middleware.AdminOnly(userRepo),
		handler.FinalizeTransaction,
	)
	w = performRequest(router2, "POST", fmt.Sprintf("/admin/%d/finalize", txn.ID), dto.FinalizeRequest{
		Outcome: model.TransactionStatusPaid,
	}, nil)
	resp = parseResponse(t, w)
	assert.Equal(t, response.CodeSuccess, resp.Code)
}
