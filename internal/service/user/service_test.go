package user

import (
	"context"
	"testing"
	"time"

	"umazing_chat_server/internal/dao/mysql/mysqltest"
	myredis "umazing_chat_server/internal/dao/redis"
	"umazing_chat_server/internal/dto/request"
	"umazing_chat_server/internal/service/auth"
	"umazing_chat_server/pkg/errorx"
	"umazing_chat_server/pkg/util/jwt"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService(t *testing.T, withCache bool) (*userInfoService, *miniredis.Miniredis) {
	t.Helper()
	jwt.Init("user-service-test-secret", 15, 24)
	repos := mysqltest.NewRepositories(t)
	if !withCache {
		return NewUserService(repos, auth.NewAuthService(repos.User, nil), nil), nil
	}
	mr := miniredis.RunT(t)
	cache := myredis.NewRedisCache(redis.NewClient(&redis.Options{Addr: mr.Addr()}), 2, 16)
	t.Cleanup(func() { _ = cache.Close() })
	return NewUserService(repos, auth.NewAuthService(repos.User, cache), cache), mr
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _ := newService(t, false)

	reg, err := svc.Register(request.RegisterRequest{Name: " Alice ", Email: "Alice@Example.com", Password: "secret123"})
	require.NoError(t, err)
	assert.NotEmpty(t, reg.Id)
	assert.Equal(t, "Alice", reg.Name)
	assert.Equal(t, "alice@example.com", reg.Email)
	assert.NotEmpty(t, reg.AccessToken)
	assert.NotEmpty(t, reg.RefreshToken)

	claims, err := jwt.ParseAccessToken(reg.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, reg.Id, claims.UserID)

	// 邮箱大小写不敏感
	_, err = svc.Register(request.RegisterRequest{Name: "Other", Email: "alice@EXAMPLE.com", Password: "secret123"})
	assert.Equal(t, errorx.CodeUserExist, errorx.GetCode(err))

	login, err := svc.Login(request.LoginRequest{Email: "ALICE@example.com", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, reg.Id, login.Id)

	_, err = svc.Login(request.LoginRequest{Email: "alice@example.com", Password: "wrong-password"})
	assert.Equal(t, errorx.CodeInvalidPassword, errorx.GetCode(err))

	_, err = svc.Login(request.LoginRequest{Email: "nobody@example.com", Password: "secret123"})
	assert.Equal(t, errorx.CodeUserNotExist, errorx.GetCode(err))
}

func TestGetUserInfoUsesCache(t *testing.T) {
	svc, mr := newService(t, true)
	reg, err := svc.Register(request.RegisterRequest{Name: "Bob", Email: "bob@example.com", Password: "secret123"})
	require.NoError(t, err)

	info, err := svc.GetUserInfo(reg.Id)
	require.NoError(t, err)
	assert.Equal(t, "Bob", info.Name)

	// 缓存异步回填
	assert.Eventually(t, func() bool { return mr.Exists(profileKey(reg.Id)) }, time.Second, 10*time.Millisecond)

	updated, err := svc.UpdateUserInfo(reg.Id, request.UpdateUserInfoRequest{Name: "Bobby", Avatar: "https://example.com/a.png"})
	require.NoError(t, err)
	assert.Equal(t, "Bobby", updated.Name)
	assert.False(t, mr.Exists(profileKey(reg.Id)), "update drops the cached profile")

	info, err = svc.GetUserInfo(reg.Id)
	require.NoError(t, err)
	assert.Equal(t, "Bobby", info.Name)
	assert.Equal(t, "https://example.com/a.png", info.Avatar)
}

func TestGetUserInfoMissing(t *testing.T) {
	svc, _ := newService(t, false)
	_, err := svc.GetUserInfo("404")
	assert.Equal(t, errorx.CodeUserNotExist, errorx.GetCode(err))
}

func TestUpdateKeepsEmptyFields(t *testing.T) {
	svc, _ := newService(t, false)
	reg, err := svc.Register(request.RegisterRequest{Name: "Carol", Email: "carol@example.com", Password: "secret123"})
	require.NoError(t, err)

	updated, err := svc.UpdateUserInfo(reg.Id, request.UpdateUserInfoRequest{Name: "   "})
	require.NoError(t, err)
	assert.Equal(t, "Carol", updated.Name)
	assert.Equal(t, "carol@example.com", updated.Email)
}

func TestGetUserInfoListExcludesOwner(t *testing.T) {
	svc, _ := newService(t, false)
	var ids []string
	for _, email := range []string{"a@example.com", "b@example.com", "c@example.com"} {
		reg, err := svc.Register(request.RegisterRequest{Name: email, Email: email, Password: "secret123"})
		require.NoError(t, err)
		ids = append(ids, reg.Id)
	}

	list, err := svc.GetUserInfoList(ids[0])
	require.NoError(t, err)
	got := make([]string, 0, len(list))
	for _, u := range list {
		got = append(got, u.Id)
	}
	assert.ElementsMatch(t, ids[1:], got)
}

func TestCacheMissFallsBackToDatabase(t *testing.T) {
	svc, mr := newService(t, true)
	reg, err := svc.Register(request.RegisterRequest{Name: "Dan", Email: "dan@example.com", Password: "secret123"})
	require.NoError(t, err)

	require.NoError(t, svc.cache.Set(context.Background(), profileKey(reg.Id), "not json", time.Minute))
	info, err := svc.GetUserInfo(reg.Id)
	require.NoError(t, err)
	assert.Equal(t, "Dan", info.Name)

	mr.Close()
	info, err = svc.GetUserInfo(reg.Id)
	require.NoError(t, err, "redis outage only degrades the cache")
	assert.Equal(t, "Dan", info.Name)
}
