package router

import (
	"github.com/labstack/echo/v4"

	"tripmate/internal/adapter/api/handler"
	"tripmate/internal/adapter/api/middleware"
)

func SetupFriendRouter(e *echo.Echo, friendHandler *handler.FriendHandler, authMiddleware *middleware.AuthMiddleware) {
	friendGroup := e.Group("/friends")
	friendGroup.Use(authMiddleware.Authenticate)

	friendGroup.POST("/request", friendHandler.SendRequest)
	friendGroup.POST("/accept", friendHandler.AcceptRequest)
	friendGroup.POST("/reject", friendHandler.RejectRequest)
	friendGroup.GET("", friendHandler.GetFriends)
	friendGroup.GET("/requests", friendHandler.GetRequests)
	friendGroup.GET("/status", friendHandler.GetStatus)
	friendGroup.DELETE("/:friendId", friendHandler.RemoveFriend)
}
