package handler

import (
	"fmt"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/qs3c/recipe_club_server/internal/pkg/response"
	"github.com/qs3c/recipe_club_server/internal/repository"
	"github.com/qs3c/recipe_club_server/internal/service"
	"github.com/qs3c/recipe_club_server/internal/testutil"
)

func setupRecipeHandler(t *testing.T) (*RecipeHandler, *gorm.DB, func()) {
	t.Helper()

	db := testutil.SetupTestDB(t)
	userRepo := repository.NewUserRepository(db)
	enrollmentRepo := repository.NewEnrollmentRepository(db)
	contentRepo := repository.NewContentRepository(db)
	subscription := service.NewSubscriptionService(userRepo)
	enrollment := service.NewEnrollmentService(enrollmentRepo, contentRepo, subscription)
	entitlement := service.NewEntitlementService(subscription, enrollment)
	content := service.NewContentService(contentRepo, enrollment, entitlement)

	handler := NewRecipeHandler(content)

	cleanup := func() {
		testutil.CleanupTestDB(t, db)
	}

	return handler, db, cleanup
}

func TestRecipeHandler_List(t *testing.T) {
	handler, db, cleanup := setupRecipeHandler(t)
	defer cleanup()

	testutil.TestRecipe(t, db)
	testutil.TestRecipe(t, db, testutil.WithPremiumRecipe())

	router := gin.New()
	router.GET("/recipes", handler.List)

	w := performRequest(router, "GET", "/recipes", nil, nil)
	resp := parseResponse(t, w)

	assert.Equal(t, response.CodeSuccess, resp.Code)
	data := resp.Data.(map[string]interface{})
	assert.Equal(t, float64(2), data["total"])
}

func TestRecipeHandler_Get_AnonymousGetsTeaser(t *testing.T) {
	handler, db, cleanup := setupRecipeHandler(t)
	defer cleanup()

	recipe := testutil.TestRecipe(t, db, testutil.WithPremiumRecipe())

	router := gin.New()
	router.GET("/recipes/:id", handler.Get)

	w := performRequest(router, "GET", fmt.Sprintf("/recipes/%d", recipe.ID), nil, nil)
	resp := parseResponse(t, w)

	assert.Equal(t, response.CodeSuccess, resp.Code)
	data := resp.Data.(map[string]interface{})
	assert.Equal(t, service.AccessTeaser, data["access"])
	assert.NotEmpty(t, data["upsell_hint"])

	// 做法和食材不出现在响应里
	_, hasIngredients := data["ingredients"]
	assert.False(t, hasIngredients)
	_, hasInstructions := data["instructions"]
	assert.False(t, hasInstructions)
}

func TestRecipeHandler_Get_SubscriberGetsFull(t *testing.T) {
	handler, db, cleanup := setupRecipeHandler(t)
	defer cleanup()

	recipe := testutil.TestRecipe(t, db, testutil.WithPremiumRecipe())
	user := testutil.TestUser(t, db, testutil.WithSubscriptionEndsAt(time.Now().Add(24*time.Hour)))

	router := gin.New()
	router.GET("/recipes/:id", asUser(user.ID), handler.Get)

	w := performRequest(router, "GET", fmt.Sprintf("/recipes/%d", recipe.ID), nil, nil)
	resp := parseResponse(t, w)

	assert.Equal(t, response.CodeSuccess, resp.Code)
	data := resp.Data.(map[string]interface{})
	assert.Equal(t, service.AccessFull, data["access"])
	require.Equal(t, recipe.Ingredients, data["ingredients"])
}

func TestRecipeHandler_Get_NotFound(t *testing.T) {
	handler, _, cleanup := setupRecipeHandler(t)
	defer cleanup()

	router := gin.New()
	router.GET("/recipes/:id", handler.Get)

	w := performRequest(router, "GET", "/recipes/99999", nil, nil)
	resp := parseResponse(t, w)

	assert.Equal(t, response.CodeResourceNotFound, resp.Code)
}

func TestRecipeHandler_Get_BadID(t *testing.T) {
	handler, _, cleanup := setupRecipeHandler(t)
	defer cleanup()

	router := gin.New()
	router.GET("/recipes/:id", handler.Get)

	w := performRequest(router, "GET", "/recipes/abc", nil, nil)
	resp := parseResponse(t, w)

	assert.Equal(t, response.CodeParamError, resp.Code)
}
