package middlewares

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/fsdevblog/groph-food/internal/transport/api/tokens"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var ErrTokenNotExist = errors.New("token not exist")

const (
	CurrentUserIDKey = "currentUserID"
	CurrentAdminKey  = "currentAdmin"
	SessionTokenKey  = "sessionToken"
)

// SessionTokenHeader носит токен анонимной сессии. Выданный сервером токен
// клиент обязан возвращать с каждым следующим запросом корзины.
const SessionTokenHeader = "X-Session-Token"

// checkAuthorization извлекает токен из заголовка Authorization и проверяет его. Если токен не передан, вернется ошибка
// ErrTokenNotExist
func checkAuthorization(c *gin.Context, jwtTokenSecret []byte) (*jwt.Token, error) {
	tokenHeader := c.GetHeader("Authorization")
	bearer := "Bearer "

	if len(tokenHeader) < len(bearer) || tokenHeader[:len(bearer)] != bearer {
		return nil, ErrTokenNotExist
	}

	tokenStr := tokenHeader[len(bearer):]
	token, err := tokens.ValidateUserJWT(tokenStr, jwtTokenSecret)
	if err != nil {
		return nil, fmt.Errorf("check authorization: %w", err)
	}
	return token, nil
}

// AuthRequiredMiddleware проверяет, что запрос авторизован. Записывает в контекст ID текущего
// клиента (CurrentUserIDKey) и признак администратора (CurrentAdminKey).
func AuthRequiredMiddleware(jwtTokenSecret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := checkAuthorization(c, jwtTokenSecret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			if !errors.Is(err, ErrTokenNotExist) {
				_ = c.Error(err).SetType(gin.ErrorTypePrivate)
			}
			return
		}
		userClaim, ok := token.Claims.(*tokens.UserClaims)
		if !ok {
			_ = c.AbortWithError(http.StatusInternalServerError, errors.New("invalid jwt claims type")).
				SetType(gin.ErrorTypePrivate)
			return
		}
		c.Set(CurrentUserIDKey, userClaim.ID)
		c.Set(CurrentAdminKey, userClaim.Admin)
		c.Next()
	}
}

// AdminRequiredMiddleware пускает дальше только администраторов. Вешается
// после AuthRequiredMiddleware.
func AdminRequiredMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		isAdmin, _ := c.Get(CurrentAdminKey)
		admin, ok := isAdmin.(bool)
		if !ok || !admin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}
		c.Next()
	}
}

// SessionTokenMiddleware - идентификация анонимной корзины. Если клиент
// авторизован, заголовок сессии игнорируется. Иначе берется токен из
// заголовка, а при его отсутствии генерируется новый и возвращается клиенту
// тем же заголовком.
func SessionTokenMiddleware(jwtTokenSecret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token, err := checkAuthorization(c, jwtTokenSecret); err == nil {
			if userClaim, ok := token.Claims.(*tokens.UserClaims); ok {
				c.Set(CurrentUserIDKey, userClaim.ID)
				c.Set(CurrentAdminKey, userClaim.Admin)
				c.Next()
				return
			}
		}

		sessionToken := c.GetHeader(SessionTokenHeader)
		if sessionToken == "" {
			sessionToken = uuid.NewString()
		}
		c.Set(SessionTokenKey, sessionToken)
		c.Header(SessionTokenHeader, sessionToken)
		c.Next()
	}
}
