package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/thereayou/messagings/internal/middleware"
	ws "github.com/thereayou/messagings/internal/websocket"
	"go.uber.org/zap"
)

// WebSocketHandler управляет WebSocket соединениями
type WebSocketHandler struct {
	hub        *ws.Hub
	authorizer ws.SubscriptionAuthorizer
	upgrader   websocket.Upgrader
	log        *zap.Logger
}

// NewWebSocketHandler создает новый WebSocket handler
func NewWebSocketHandler(hub *ws.Hub, authorizer ws.SubscriptionAuthorizer, log *zap.Logger) *WebSocketHandler {
	return &WebSocketHandler{
		hub:        hub,
		authorizer: authorizer,
		log:        log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

// HandleWebSocket обрабатывает WebSocket соединения
func (h *WebSocketHandler) HandleWebSocket(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	client := ws.NewClient(h.hub, conn, userID)
	h.hub.Register(client)

	go client.WritePump()
	go client.ReadPump(h.authorizer)
}
