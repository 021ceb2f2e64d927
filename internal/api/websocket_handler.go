package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/wfunc/pong-game/internal/service"
	ws "github.com/wfunc/pong-game/internal/websocket"
	"go.uber.org/zap"
)

// WebSocketHandler WebSocket连接处理器
type WebSocketHandler struct {
	hub         *ws.Hub
	authService service.AuthService
	userService service.UserService
	upgrader    websocket.Upgrader
	logger      *zap.Logger
}

// NewWebSocketHandler 创建WebSocket处理器
func NewWebSocketHandler(hub *ws.Hub, authService service.AuthService, userService service.UserService, logger *zap.Logger) *WebSocketHandler {
	return &WebSocketHandler{
		hub:         hub,
		authService: authService,
		userService: userService,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		logger: logger,
	}
}

// HandleConnection 处理WebSocket连接请求
func (h *WebSocketHandler) HandleConnection(c *gin.Context) {
	userID, authID, username, err := h.resolveIdentity(c)
	if err != nil {
		h.logger.Warn("Failed to resolve websocket identity", zap.Error(err))
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Code:    "UNAUTHORIZED",
			Message: "无法识别连接身份",
		})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error("Failed to upgrade connection", zap.Error(err))
		return
	}

	client := ws.NewClient(h.hub, conn, userID, authID, username)
	h.hub.Register(client)

	go client.WritePump()
	go client.ReadPump()
}

// resolveIdentity 解析连接身份, 优先JWT令牌, 其次auth_id参数
func (h *WebSocketHandler) resolveIdentity(c *gin.Context) (uint, uint, string, error) {
	token := c.Query("token")
	if token == "" {
		authHeader := c.GetHeader("Authorization")
		if len(authHeader) > 7 && authHeader[:7] == "Bearer " {
			token = authHeader[7:]
		}
	}
	if token != "" {
		claims, err := h.authService.ValidateToken(c.Request.Context(), token)
		if err != nil {
			return 0, 0, "", err
		}
		return claims.UserID, claims.AuthID, claims.Username, nil
	}

	rawAuthID, err := strconv.ParseUint(c.Query("auth_id"), 10, 64)
	if err != nil {
		return 0, 0, "", err
	}
	user, err := h.userService.GetUserByAuthID(c.Request.Context(), uint(rawAuthID))
	if err != nil {
		return 0, 0, "", err
	}
	return user.ID, user.AuthID, user.Username, nil
}
