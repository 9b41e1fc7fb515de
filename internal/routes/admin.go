package routes

import (
	"github.com/labstack/echo/v4"

	"equipment-tracker/internal/controllers"
)

func runNotificationRouter(adminGroup *echo.Group, ctrl *controllers.NotificationController) {
	notificationGroup := adminGroup.Group("/notifications")
	{
		notificationGroup.GET("", ctrl.GetNotifications)
		notificationGroup.GET("/unread", ctrl.UnreadCount)
		notificationGroup.PATCH("/read-all", ctrl.MarkAllRead)
		notificationGroup.PATCH("/:id/read", ctrl.MarkRead)
		notificationGroup.DELETE("/:id", ctrl.DeleteNotification)
	}
}

func runDashboardRouter(adminGroup *echo.Group, ctrl *controllers.DashboardController) {
	adminGroup.GET("/dashboard", ctrl.GetDashboard)
}

func runReportRouter(adminGroup *echo.Group, ctrl *controllers.ReportController) {
	adminGroup.GET("/inspections/export", ctrl.ExportInspections)
}
