package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/thereayou/messagings/internal/middleware"
	"github.com/thereayou/messagings/internal/models"
	"github.com/thereayou/messagings/internal/services"
	"go.uber.org/zap"
)

var errBadID = errors.New("invalid id")

// respondError переводит ошибки сервисов в HTTP статус
func respondError(c *gin.Context, log *zap.Logger, err error) {
	switch {
	case errors.Is(err, services.ErrUnauthorized):
		c.JSON(http.StatusForbidden, gin.H{"error": services.ErrUnauthorized.Error()})
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrValidation), errors.Is(err, errBadID):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		log.Error("request failed",
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

func parseID(raw string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, errBadID
	}
	return uint(id), nil
}

// currentUser загружает пользователя из токена. false - ответ уже записан.
func currentUser(c *gin.Context, users *services.UserService, log *zap.Logger) (*models.User, bool) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return nil, false
	}

	user, err := users.Resolve(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return nil, false
		}
		respondError(c, log, err)
		return nil, false
	}
	return user, true
}
