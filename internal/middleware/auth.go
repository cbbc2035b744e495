package middleware

import (
	"errors"
	"net/http"
	"strings"

	"bookclub/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Context keys set for authenticated requests.
const (
	SubjectKey = "subject"
	RoleKey    = "role"
)

// AuthMiddleware creates a Gin middleware for admin bearer token authentication.
func AuthMiddleware(tokens *service.TokenService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header format must be Bearer <token>"})
			c.Abort()
			return
		}

		claims, err := tokens.Parse(parts[1])
		if err != nil {
			if errors.Is(err, service.ErrTokenExpired) {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Token expired"})
				c.Abort()
				return
			}
			logger.Warn("Invalid JWT token", zap.Error(err))
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			c.Abort()
			return
		}

		if claims.Role != service.RoleAdmin {
			c.JSON(http.StatusForbidden, gin.H{"error": "Admin role required"})
			c.Abort()
			return
		}

		logger.Debug("Admin authenticated", zap.String("subject", claims.Subject))
		c.Set(SubjectKey, claims.Subject)
		c.Set(RoleKey, claims.Role)

		c.Next()
	}
}
