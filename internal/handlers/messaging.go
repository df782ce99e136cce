package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/thereayou/messagings/internal/handlers/dto"
	"github.com/thereayou/messagings/internal/services"
	"go.uber.org/zap"
)

type MessagingHandler struct {
	messagings *services.MessagingService
	users      *services.UserService
	log        *zap.Logger
}

func NewMessagingHandler(messagings *services.MessagingService, users *services.UserService, log *zap.Logger) *MessagingHandler {
	return &MessagingHandler{messagings: messagings, users: users, log: log}
}

// ListByUser возвращает беседы пользователя :id
func (h *MessagingHandler) ListByUser(c *gin.Context) {
	userID, err := parseID(c.Param("id"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	actor, ok := currentUser(c, h.users, h.log)
	if !ok {
		return
	}

	messagings, err := h.messagings.ListVisible(c.Request.Context(), actor, userID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewMessagingSummaries(messagings))
}

// ByContributors ищет беседы текущего пользователя с каждым из contributors[]
func (h *MessagingHandler) ByContributors(c *gin.Context) {
	actor, ok := currentUser(c, h.users, h.log)
	if !ok {
		return
	}

	// Скалярный contributors=... не список, результат пустой
	raw := c.QueryArray("contributors[]")

	// Некорректные id пропускаем
	ids := make([]uint, 0, len(raw))
	for _, r := range raw {
		id, err := parseID(r)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}

	messagings, err := h.messagings.FindByContributors(c.Request.Context(), actor, ids)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewMessagingSummaries(messagings))
}
