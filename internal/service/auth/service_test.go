package auth

import (
	"testing"

	"umazing_chat_server/internal/dao/mysql/mysqltest"
	myredis "umazing_chat_server/internal/dao/redis"
	"umazing_chat_server/internal/model"
	"umazing_chat_server/pkg/errorx"
	"umazing_chat_server/pkg/util/jwt"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestUser(t *testing.T) (*model.UserInfo, *Service, *Service) {
	t.Helper()
	jwt.Init("auth-service-test-secret", 15, 24)
	repos := mysqltest.NewRepositories(t)
	u := &model.UserInfo{Uuid: "1001", Name: "alice", Email: "alice@example.com", RawPassword: "secret123"}
	require.NoError(t, repos.User.Create(u))

	mr := miniredis.RunT(t)
	cache := myredis.NewRedisCache(redis.NewClient(&redis.Options{Addr: mr.Addr()}), 1, 4)
	t.Cleanup(func() { _ = cache.Close() })
	return u, NewAuthService(repos.User, cache), NewAuthService(repos.User, nil)
}

func TestRefreshTokenRotates(t *testing.T) {
	u, svc, _ := newTestUser(t)

	first, err := svc.IssueTokens(u)
	require.NoError(t, err)

	second, err := svc.RefreshToken(first.RefreshToken)
	require.NoError(t, err)
	claims, err := jwt.ParseAccessToken(second.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "1001", claims.UserID)

	// 旧的 Refresh Token 已被新一次签发顶掉
	_, err = svc.RefreshToken(first.RefreshToken)
	assert.Equal(t, errorx.CodeUnauthorized, errorx.GetCode(err))
}

func TestNewLoginInvalidatesOldRefreshToken(t *testing.T) {
	u, svc, _ := newTestUser(t)

	phone, err := svc.IssueTokens(u)
	require.NoError(t, err)
	_, err = svc.IssueTokens(u) // 另一台设备登录
	require.NoError(t, err)

	_, err = svc.RefreshToken(phone.RefreshToken)
	assert.Equal(t, errorx.CodeUnauthorized, errorx.GetCode(err))
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	u, svc, _ := newTestUser(t)
	tokens, err := svc.IssueTokens(u)
	require.NoError(t, err)

	_, err = svc.RefreshToken(tokens.AccessToken)
	assert.Equal(t, errorx.CodeUnauthorized, errorx.GetCode(err))
	_, err = svc.RefreshToken("garbage")
	assert.Equal(t, errorx.CodeUnauthorized, errorx.GetCode(err))
}

func TestWithoutCacheSkipsSingleLogin(t *testing.T) {
	u, _, svc := newTestUser(t)

	first, err := svc.IssueTokens(u)
	require.NoError(t, err)
	_, err = svc.IssueTokens(u)
	require.NoError(t, err)

	_, err = svc.RefreshToken(first.RefreshToken)
	assert.NoError(t, err)
}
