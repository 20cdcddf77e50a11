package middlewares

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// Errors переводит накопленные в контексте ошибки в единый JSON-ответ.
// Текст наружу уходит только у публичных ошибок, остальные отдаются
// обезличенным описанием статуса. Приватные ошибки при этом остаются в
// c.Errors и попадают в лог запроса.
func Errors() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		// обрабатываем только первую ошибку
		firstErr := c.Errors[0]
		msg := strings.ToLower(http.StatusText(c.Writer.Status()))
		if msg == "" {
			msg = "internal server error"
		}
		if firstErr.IsType(gin.ErrorTypePublic) {
			msg = firstErr.Error()
		}

		c.JSON(c.Writer.Status(), gin.H{"error": msg})
		c.Abort()
	}
}
