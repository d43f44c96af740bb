package router

import (
	"github.com/labstack/echo/v4"

	"tripmate/internal/adapter/api/handler"
	"tripmate/internal/adapter/api/middleware"
)

func Setup(
	e *echo.Echo,
	authMiddleware *middleware.AuthMiddleware,
	chatHandler *handler.ChatHandler,
	friendHandler *handler.FriendHandler,
	notificationHandler *handler.NotificationHandler,
) {
	SetupChatRouter(e, chatHandler, authMiddleware)
	SetupFriendRouter(e, friendHandler, authMiddleware)
	SetupNotificationRouter(e, notificationHandler, authMiddleware)
}
