package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const usernameContextKey = "username"

// Middleware Bearer 令牌认证中间件
// 认证失败在核心逻辑之前即被拒绝，错误体沿用 {"detail": ...} 形状。
func Middleware(jwtService *JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "Not authenticated"})
			return
		}

		token := strings.TrimPrefix(header, "Bearer ")
		username, err := jwtService.ValidateToken(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "Invalid token"})
			return
		}

		c.Set(usernameContextKey, username)
		c.Next()
	}
}

// CurrentUser 从请求上下文取出已认证的用户名
func CurrentUser(c *gin.Context) string {
	if v, ok := c.Get(usernameContextKey); ok {
		if username, ok := v.(string); ok {
			return username
		}
	}
	return ""
}
