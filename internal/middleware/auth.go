package middleware

import (
	"strings"

	"mock_interview_backend/internal/util"
	"mock_interview_backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader != "" {
		return strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	}
	return c.Query("token")
}

// AuthMiddleware 校验外部身份提供方签发的令牌，身份写入上下文 "user"
func AuthMiddleware(secret, issuer string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := bearerToken(c)
		if tokenString == "" {
			util.Unauthorized(c)
			c.Abort()
			return
		}

		claims, err := util.ParseJWT(tokenString, secret, issuer)
		if err != nil {
			logger.Log.Debug("JWT rejected", zap.String("path", c.FullPath()), zap.Error(err))
			util.Unauthorized(c)
			c.Abort()
			return
		}

		c.Set("user", claims)
		c.Next()
	}
}

// TryAuthMiddleware 有合法令牌时写入身份，否则按匿名请求放行
func TryAuthMiddleware(secret, issuer string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if tokenString := bearerToken(c); tokenString != "" {
			if claims, err := util.ParseJWT(tokenString, secret, issuer); err == nil {
				c.Set("user", claims)
			}
		}
		c.Next()
	}
}
