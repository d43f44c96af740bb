package router

import (
	"github.com/labstack/echo/v4"

	"tripmate/internal/adapter/api/handler"
	"tripmate/internal/adapter/api/middleware"
)

func SetupNotificationRouter(e *echo.Echo, notificationHandler *handler.NotificationHandler, authMiddleware *middleware.AuthMiddleware) {
	notificationGroup := e.Group("/notifications")
	notificationGroup.Use(authMiddleware.Authenticate)

	notificationGroup.GET("", notificationHandler.GetNotifications)
	notificationGroup.PATCH("/:id/read", notificationHandler.MarkAsRead)
}
