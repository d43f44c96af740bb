package router

import (
	"github.com/labstack/echo/v4"

	"tripmate/internal/adapter/api/handler"
	"tripmate/internal/adapter/api/middleware"
)

func SetupChatRouter(e *echo.Echo, chatHandler *handler.ChatHandler, authMiddleware *middleware.AuthMiddleware) {
	chatGroup := e.Group("/chat")
	chatGroup.Use(authMiddleware.Authenticate)

	chatGroup.POST("", chatHandler.CreateChat)                    // POST /chat - Open or reuse a direct chat
	chatGroup.GET("", chatHandler.GetUserChats)                   // GET /chat - Caller's chat list
	chatGroup.POST("/message", chatHandler.SendMessage)           // POST /chat/message - Send a message
	chatGroup.GET("/search", chatHandler.SearchUsers)             // GET /chat/search - Find users to chat with
	chatGroup.GET("/:chatId/messages", chatHandler.GetChatMessages)
	chatGroup.PATCH("/:chatId/read", chatHandler.MarkChatAsRead)
}
