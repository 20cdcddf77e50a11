package api

import (
	"errors"
	"net/http"

	"github.com/fsdevblog/groph-food/internal/domain"
	"github.com/fsdevblog/groph-food/internal/transport/api/middlewares"
	"github.com/gin-gonic/gin"
)

// getUserIDFromContext берет из контекста gin ID текущего клиента. ID устанавливается в
// middlewares.AuthRequiredMiddleware. В случае, если значения в контексте нет или ошибка утверждения типа -
// вернется 0.
func getUserIDFromContext(c *gin.Context) int64 {
	userIDStr, exist := c.Get(middlewares.CurrentUserIDKey)
	if !exist {
		return 0
	}
	userID, ok := userIDStr.(int64)
	if !ok {
		return 0
	}
	return userID
}

// cartOwnerFromContext определяет владельца корзины: авторизованный клиент
// либо анонимная сессия. Для запросов без того и другого вернется нулевой
// владелец, его отсекает валидация сервисного слоя.
func cartOwnerFromContext(c *gin.Context) domain.CartOwner {
	if userID := getUserIDFromContext(c); userID != 0 {
		return domain.AuthenticatedOwner(userID)
	}
	sessionTokenVal, exist := c.Get(middlewares.SessionTokenKey)
	if !exist {
		return domain.CartOwner{}
	}
	sessionToken, ok := sessionTokenVal.(string)
	if !ok || sessionToken == "" {
		return domain.CartOwner{}
	}
	return domain.AnonymousOwner(sessionToken)
}

// abortWithServiceError отображает доменные ошибки на http статусы. Все, что
// не распознано, уходит 500-й с приватной ошибкой для лога.
func abortWithServiceError(c *gin.Context, err error) {
	var transitionErr *domain.InvalidTransitionError

	switch {
	case errors.Is(err, domain.ErrValidation):
		_ = c.AbortWithError(http.StatusUnprocessableEntity, err).SetType(gin.ErrorTypePublic)
	case errors.Is(err, domain.ErrRecordNotFound):
		c.AbortWithStatus(http.StatusNotFound)
	case errors.Is(err, domain.ErrInsufficientFunds):
		_ = c.AbortWithError(http.StatusPaymentRequired, err).SetType(gin.ErrorTypePublic)
	case errors.Is(err, domain.ErrSignatureMismatch):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid signature"})
	case errors.Is(err, domain.ErrDeletionNotAllowed):
		_ = c.AbortWithError(http.StatusConflict, err).SetType(gin.ErrorTypePublic)
	case errors.As(err, &transitionErr):
		_ = c.AbortWithError(http.StatusConflict, err).SetType(gin.ErrorTypePublic)
	default:
		_ = c.AbortWithError(http.StatusInternalServerError, err).SetType(gin.ErrorTypePrivate)
	}
}
