package routes

import (
	"github.com/labstack/echo/v4"

	"equipment-tracker/internal/controllers"
)

func runAuthRouter(api *echo.Group, fieldGroup *echo.Group, authCtrl *controllers.AuthController) {
	authGroup := api.Group("/auth")
	{
		authGroup.POST("/login", authCtrl.Login)
		authGroup.POST("/refresh_token", authCtrl.RefreshToken)
		authGroup.POST("/logout", authCtrl.Logout)
	}
	fieldGroup.GET("/auth/me", authCtrl.Me)
}

// Токен передаётся в ?token=, браузер не умеет ставить заголовки на ws.
func runWebSocketRouter(api *echo.Group, wsCtrl *controllers.WebSocketController) {
	api.GET("/ws", wsCtrl.ServeWs)
}
