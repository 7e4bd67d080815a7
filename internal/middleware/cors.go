package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// CORS 允许前端单页应用跨域携带凭证访问 API。
// 因为请求带凭证，Allow-Origin 必须是精确的来源，不能使用通配符。
func CORS(allowedOrigin string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", allowedOrigin)
		c.Header("Access-Control-Allow-Credentials", "true")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Authorization, Content-Type")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
