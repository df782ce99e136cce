package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/thereayou/messagings/internal/services"
	"go.uber.org/zap"
)

type UserHandler struct {
	users *services.UserService
	log   *zap.Logger
}

func NewUserHandler(users *services.UserService, log *zap.Logger) *UserHandler {
	return &UserHandler{users: users, log: log}
}

// FollowedList возвращает пользователей, на которых подписан текущий
func (h *UserHandler) FollowedList(c *gin.Context) {
	actor, ok := currentUser(c, h.users, h.log)
	if !ok {
		return
	}

	followed, err := h.users.ListFollowed(c.Request.Context(), actor, actor.ID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, followed)
}
