package router

import (
	"github.com/labstack/echo/v4"

	"skillswap/internal/adapter/api/handler"
	"skillswap/internal/adapter/api/middleware"
)

// SetupChatRouter sets up all chat-related routes (excluding WebSocket)
func SetupChatRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	chatHandler := handler.GetChatHandler()

	chatGroup := e.Group("/v1/chats")
	chatGroup.Use(authMiddleware.Authenticate)

	chatGroup.GET("", chatHandler.ListConversations)                // GET /v1/chats?filter=all|sent|received
	chatGroup.POST("/messages", chatHandler.SendMessage)            // POST /v1/chats/messages
	chatGroup.GET("/:peerId/messages", chatHandler.GetMessages)     // GET /v1/chats/:peerId/messages
	chatGroup.PUT("/:peerId/read", chatHandler.MarkRead)            // PUT /v1/chats/:peerId/read
}
