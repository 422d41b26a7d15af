package chat

import (
	"net/http"
	"strings"

	"umazing_chat_server/internal/dao/mysql/repository"
	"umazing_chat_server/pkg/errorx"
	"umazing_chat_server/pkg/util/jwt"
)

// Authenticator 握手认证
type Authenticator struct {
	users repository.UserRepository
}

func NewAuthenticator(users repository.UserRepository) *Authenticator {
	return &Authenticator{users: users}
}

// tokenFromRequest 先取 token 查询参数，再取 Authorization: Bearer
func tokenFromRequest(r *http.Request) string {
	if token := strings.TrimSpace(r.URL.Query().Get("token")); token != "" {
		return token
	}
	header := r.Header.Get("Authorization")
	parts := strings.SplitN(header, " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return strings.TrimSpace(parts[1])
	}
	return ""
}

// Authenticate 校验 Access Token 并从库中加载用户资料
// 任何失败都返回 CodeUnauthorized
func (a *Authenticator) Authenticate(r *http.Request) (Identity, error) {
	token := tokenFromRequest(r)
	if token == "" {
		return Identity{}, errorx.New(errorx.CodeUnauthorized, "authentication token is required")
	}
	claims, err := jwt.ParseAccessToken(token)
	if err != nil {
		return Identity{}, errorx.Wrap(err, errorx.CodeUnauthorized, "invalid or expired token")
	}
	user, err := a.users.FindByUuid(claims.UserID)
	if err != nil {
		if errorx.IsNotFound(err) {
			return Identity{}, errorx.Wrap(err, errorx.CodeUnauthorized, "user no longer exists")
		}
		return Identity{}, err
	}
	return Identity{UserID: user.Uuid, Name: user.Name, Email: user.Email, Avatar: user.Avatar}, nil
}
