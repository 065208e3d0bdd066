package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/qs3c/recipe_club_server/internal/model"
	"github.com/qs3c/recipe_club_server/internal/pkg/response"
	"github.com/qs3c/recipe_club_server/internal/repository"
)

// AdminOnly 管理员校验中间件，挂在 Auth 之后
// 手工确认支付等运营动作只对 admin 角色开放
func AdminOnly(userRepo *repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := GetUserID(c)
		if !ok {
			response.AuthError(c, "")
			c.Abort()
			return
		}

		user, err := userRepo.GetByID(userID)
		if err != nil {
			response.AuthError(c, "")
			c.Abort()
			return
		}

		if user.Role != model.RoleAdmin {
			response.PermissionError(c, "仅管理员可操作")
			c.Abort()
			return
		}

		c.Next()
	}
}
