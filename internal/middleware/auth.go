// Package middleware 提供了处理 HTTP 请求的中间件。
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"mind-mend-go/pkg/token"
)

const jwtCookieName = "jwt"

// AuthMiddleware 创建一个 Gin 中间件，用于 JWT 认证。
// 凭证优先从 Authorization 请求头提取（跨域部署），
// 其次回退到同站 Cookie（本地开发），并把用户标识存入 Gin 的上下文。
// 这里只做纯校验，不访问任何存储。
func AuthMiddleware(jwtManager *token.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := extractToken(c)
		if tokenString == "" {
			// 请求头和 Cookie 都没有携带凭证
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized: No token found"})
			return
		}

		// 校验签名和有效期
		claims, err := jwtManager.VerifyToken(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized: Invalid token"})
			return
		}

		// token 合法但缺少用户标识时同样拒绝
		if claims.UID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized: No UID found"})
			return
		}

		// 将用户标识和完整 claims 存储在 context 中，供后续处理函数使用
		c.Set("uid", claims.UID)
		c.Set("claims", claims)

		c.Next()
	}
}

// extractToken 先查 Bearer 请求头，再回退到 jwt Cookie。
func extractToken(c *gin.Context) string {
	const bearerPrefix = "Bearer "
	authHeader := c.GetHeader("Authorization")
	if strings.HasPrefix(authHeader, bearerPrefix) {
		return strings.TrimPrefix(authHeader, bearerPrefix)
	}

	cookie, err := c.Cookie(jwtCookieName)
	if err != nil {
		return ""
	}
	return cookie
}
