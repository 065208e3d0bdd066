package handler

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/qs3c/recipe_club_server/internal/model"
	"github.com/qs3c/recipe_club_server/internal/pkg/jwt"
	"github.com/qs3c/recipe_club_server/internal/pkg/ws"
	"github.com/qs3c/recipe_club_server/internal/repository"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// TODO: 生产环境需要验证 Origin
		return true
	},
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

type WebSocketHandler struct {
	hub       *ws.Hub
	userRepo  *repository.UserRepository
	jwtSecret string
}

func NewWebSocketHandler(hub *ws.Hub, userRepo *repository.UserRepository, jwtSecret string) *WebSocketHandler {
	return &WebSocketHandler{
		hub:       hub,
		userRepo:  userRepo,
		jwtSecret: jwtSecret,
	}
}

// Handle 管理后台实时销售看板连接
// GET /api/v1/admin/ws?token=xxx
// 浏览器 WebSocket 不能带自定义 Header，token 走 query 参数
func (h *WebSocketHandler) Handle(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
		return
	}

	claims, err := jwt.ParseToken(token, h.jwtSecret)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}

	// 看板只对管理员开放
	user, err := h.userRepo.GetByID(claims.UserID)
	if err != nil || user.Role != model.RoleAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "admin only"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("Failed to upgrade connection: %v", err)
		return
	}

	client := &ws.Client{
		UserID: claims.UserID,
		Conn:   conn,
	}

	h.hub.Register(client)

	// 保持连接，读取消息（主要用于检测断开）
	go func() {
		defer h.hub.Unregister(client)
		for {
			_, _, err := conn.ReadMessage()
			if err != nil {
				break
			}
		}
	}()
}
