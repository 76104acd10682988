package middleware

import (
	"net/http"
	"strconv"

	"github.com/dev-kani/MERN-FavPlaces-Project-Backend/utils"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware — middleware для проверки JWT токена.
// После проверки кладёт userID в контекст запроса, откуда его читают контроллеры
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Получаем токен из заголовков
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header missing"})
			c.Abort()
			return
		}

		// Проверяем токен с помощью утилиты
		claims, err := utils.ValidateToken(authHeader)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			c.Abort()
			return
		}

		// Извлекаем userID из Subject токена
		userID, err := strconv.ParseUint(claims.Subject, 10, 32)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			c.Abort()
			return
		}
		c.Set("userID", uint(userID))

		// Если токен валиден, продолжаем выполнение запроса
		c.Next()
	}
}
