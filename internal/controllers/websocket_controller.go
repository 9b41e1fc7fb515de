package controllers

import (
	"net/http"

	"equipment-tracker/internal/authz"
	"equipment-tracker/pkg/middleware"
	"equipment-tracker/pkg/service"
	appwebsocket "equipment-tracker/pkg/websocket"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type WebSocketController struct {
	hub        *appwebsocket.Hub
	jwtService service.JWTService
	sessions   middleware.SessionResolver
	logger     *zap.Logger
}

func NewWebSocketController(hub *appwebsocket.Hub, jwtService service.JWTService, sessions middleware.SessionResolver, logger *zap.Logger) *WebSocketController {
	return &WebSocketController{hub: hub, jwtService: jwtService, sessions: sessions, logger: logger}
}

// ServeWs - браузер не умеет слать заголовки при handshake, токен приходит в ?token=.
// Подключаются только администраторы: им адресованы уведомления.
func (c *WebSocketController) ServeWs(ctx echo.Context) error {
	tokenString := ctx.QueryParam("token")
	if tokenString == "" {
		return ctx.String(http.StatusUnauthorized, "Missing token")
	}

	claims, err := c.jwtService.ValidateToken(tokenString)
	if err != nil || claims.IsRefreshToken {
		return ctx.String(http.StatusUnauthorized, "Invalid token")
	}
	session, err := c.sessions.ResolveSession(ctx.Request().Context(), claims.UserID)
	if err != nil {
		return ctx.String(http.StatusUnauthorized, "Profile not found")
	}
	if !authz.Allows(session.Role, authz.AreaAdmin) {
		return ctx.String(http.StatusForbidden, "Forbidden")
	}

	conn, err := upgrader.Upgrade(ctx.Response(), ctx.Request(), nil)
	if err != nil {
		c.logger.Error("WebSocket: не удалось установить соединение", zap.Error(err))
		return err
	}

	client := appwebsocket.NewClient(c.hub, conn, claims.UserID)
	c.hub.Register(client)

	go client.WritePump()
	go client.ReadPump()

	c.logger.Info("WebSocket: клиент подключен", zap.Uint64("userID", claims.UserID))
	return nil
}
