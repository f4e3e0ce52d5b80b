package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/photogram/internal/auth"
	"github.com/d60-Lab/photogram/pkg/response"
)

// Authenticate 解析 Authorization: Bearer 或登录 cookie，把身份放入请求 context。
// 令牌缺失或无效时按匿名处理，不拦截请求。
func Authenticate(tokens *auth.TokenIssuer, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := bearerToken(c.GetHeader("Authorization"))
		if raw == "" {
			raw, _ = c.Cookie(cookieName)
		}
		if raw != "" {
			if p, err := tokens.Parse(raw); err == nil {
				c.Request = c.Request.WithContext(auth.WithPrincipal(c.Request.Context(), p))
			}
		}
		c.Next()
	}
}

// RequireAuth 未登录返回 401
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !auth.FromContext(c.Request.Context()).Authenticated() {
			response.Unauthorized(c, "authentication required")
			return
		}
		c.Next()
	}
}

func bearerToken(header string) string {
	const prefix = "Bearer "
	if len(header) > len(prefix) && strings.EqualFold(header[:len(prefix)], prefix) {
		return strings.TrimSpace(header[len(prefix):])
	}
	return ""
}
