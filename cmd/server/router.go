package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/thereayou/messagings/internal/handlers"
	"github.com/thereayou/messagings/internal/middleware"
	"github.com/thereayou/messagings/pkg/auth"
)

type Handlers struct {
	Auth      *handlers.AuthHandler
	User      *handlers.UserHandler
	Messaging *handlers.MessagingHandler
	Message   *handlers.MessageHandler
	WebSocket *handlers.WebSocketHandler
}

func APIEndpoints(r *gin.Engine, h Handlers, jwtMgr *auth.JWTManager, rdb *redis.Client) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	authMW := middleware.AuthMiddleware(jwtMgr, rdb)

	// Auth endpoints
	authGroup := r.Group("/auth")
	{
		authGroup.POST("/login", h.Auth.Login)
		authGroup.POST("/logout", authMW, h.Auth.Logout)
	}

	messagings := r.Group("/api-messagings", authMW)
	{
		messagings.GET("/chat-list-by-user/:id", h.Messaging.ListByUser)
		messagings.GET("/get-messaging-by-contributors", h.Messaging.ByContributors)
	}

	messages := r.Group("/api-message", authMW)
	{
		messages.GET("/get-messages-by-messaging/:id", h.Message.ListByMessaging)
		messages.POST("/new-message-in-messaging/:id", h.Message.Create)
	}

	users := r.Group("/api-user", authMW)
	{
		users.GET("/users-followed-list", h.User.FollowedList)
	}

	r.GET("/ws", middleware.WSAuthMiddleware(jwtMgr, rdb), h.WebSocket.HandleWebSocket)
}
