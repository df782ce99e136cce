package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/thereayou/messagings/internal/handlers/dto"
	"github.com/thereayou/messagings/internal/services"
	"go.uber.org/zap"
)

type MessageHandler struct {
	messages *services.MessageService
	users    *services.UserService
	log      *zap.Logger
}

func NewMessageHandler(messages *services.MessageService, users *services.UserService, log *zap.Logger) *MessageHandler {
	return &MessageHandler{messages: messages, users: users, log: log}
}

// ListByMessaging возвращает сообщения беседы :id
func (h *MessageHandler) ListByMessaging(c *gin.Context) {
	messagingID, err := parseID(c.Param("id"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	actor, ok := currentUser(c, h.users, h.log)
	if !ok {
		return
	}

	views, err := h.messages.List(c.Request.Context(), actor, messagingID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, views)
}

// Create сохраняет сообщение в беседе :id и отправляет push-уведомление
func (h *MessageHandler) Create(c *gin.Context) {
	messagingID, err := parseID(c.Param("id"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	var req dto.MessagePayload
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	actor, ok := currentUser(c, h.users, h.log)
	if !ok {
		return
	}

	result, err := h.messages.Post(c.Request.Context(), actor, messagingID, req.Content)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewCreatedMessageResponse(result))
}
