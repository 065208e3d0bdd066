package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/qs3c/recipe_club_server/internal/api/middleware"
	"github.com/qs3c/recipe_club_server/internal/pkg/response"
	"github.com/qs3c/recipe_club_server/internal/service"
)

type RecipeHandler struct {
	contentService *service.ContentService
}

func NewRecipeHandler(contentService *service.ContentService) *RecipeHandler {
	return &RecipeHandler{
		contentService: contentService,
	}
}

// List 菜谱列表
// GET /api/v1/recipes
func (h *RecipeHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	items, total, err := h.contentService.ListRecipes(page, pageSize)
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.SuccessPage(c, total, page, pageSize, items)
}

// Get 菜谱详情，按访问级别裁剪内容
// GET /api/v1/recipes/:id
func (h *RecipeHandler) Get(c *gin.Context) {
	recipeID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的菜谱ID")
		return
	}

	userID := middleware.GetOptionalUserID(c)

	detail, err := h.contentService.GetRecipe(userID, recipeID)
	if err != nil {
		if errors.Is(err, service.ErrRecipeNotFound) {
			response.NotFoundError(c, err.Error())
			return
		}
		response.ServerError(c, "")
		return
	}

	response.Success(c, detail)
}
