package middleware

import (
	"net/http"
	"strings"

	"umazing_chat_server/pkg/errorx"
	"umazing_chat_server/pkg/util/jwt"

	"github.com/gin-gonic/gin"
)

// ContextUserIDKey 认证通过后用户 ID 在 gin.Context 中的键
const ContextUserIDKey = "user_id"

// JWTAuth JWT 认证中间件
// 验证 Access Token 并将用户信息存入上下文
func JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortUnauthorized(c, "please log in first")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			abortUnauthorized(c, "malformed token, use Bearer")
			return
		}

		// Refresh Token 在这里同样被拒绝
		claims, err := jwt.ParseAccessToken(parts[1])
		if err != nil {
			abortUnauthorized(c, "token expired or invalid, please log in again")
			return
		}

		c.Set(ContextUserIDKey, claims.UserID)
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"code": errorx.CodeUnauthorized,
		"msg":  msg,
	})
}
