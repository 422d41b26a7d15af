package user

import (
	"context"
	"encoding/json"
	"strings"

	"umazing_chat_server/internal/dao/mysql/repository"
	myredis "umazing_chat_server/internal/dao/redis"
	"umazing_chat_server/internal/dto/request"
	"umazing_chat_server/internal/dto/respond"
	"umazing_chat_server/internal/model"
	"umazing_chat_server/internal/service/auth"
	"umazing_chat_server/pkg/constants"
	"umazing_chat_server/pkg/errorx"
	"umazing_chat_server/pkg/util/snowflake"

	"go.uber.org/zap"
)

// userInfoService 用户业务逻辑实现
type userInfoService struct {
	repos *repository.Repositories
	auth  *auth.Service
	cache myredis.AsyncCacheService // 可以为 nil，此时不缓存用户资料
}

// NewUserService 构造函数，注入 Repository、认证服务与缓存
func NewUserService(repos *repository.Repositories, authSvc *auth.Service, cache myredis.AsyncCacheService) *userInfoService {
	return &userInfoService{repos: repos, auth: authSvc, cache: cache}
}

func profileKey(uuid string) string {
	return constants.USER_PROFILE_KEY_PREFIX + uuid
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register 注册，成功后直接登录
func (u *userInfoService) Register(req request.RegisterRequest) (*respond.LoginRespond, error) {
	email := normalizeEmail(req.Email)
	if _, err := u.repos.User.FindByEmail(email); err == nil {
		return nil, errorx.New(errorx.CodeUserExist, "email already registered")
	} else if !errorx.IsNotFound(err) {
		zap.L().Error(err.Error())
		return nil, errorx.ErrServerBusy
	}

	newUser := &model.UserInfo{
		Uuid:        snowflake.GenerateIDString(),
		Name:        strings.TrimSpace(req.Name),
		Email:       email,
		RawPassword: req.Password,
	}
	if err := u.repos.User.Create(newUser); err != nil {
		zap.L().Error(err.Error())
		return nil, errorx.ErrServerBusy
	}
	zap.L().Info("user registered", zap.String("user", newUser.Uuid))
	return u.loginRespond(newUser)
}

// Login 邮箱密码登录
func (u *userInfoService) Login(req request.LoginRequest) (*respond.LoginRespond, error) {
	user, err := u.repos.User.FindByEmail(normalizeEmail(req.Email))
	if err != nil {
		if errorx.IsNotFound(err) {
			return nil, errorx.New(errorx.CodeUserNotExist, "user not found, please register")
		}
		zap.L().Error(err.Error())
		return nil, errorx.ErrServerBusy
	}
	if !user.CheckPassword(req.Password) {
		return nil, errorx.New(errorx.CodeInvalidPassword, "incorrect password")
	}
	return u.loginRespond(user)
}

func (u *userInfoService) loginRespond(user *model.UserInfo) (*respond.LoginRespond, error) {
	tokens, err := u.auth.IssueTokens(user)
	if err != nil {
		return nil, err
	}
	return &respond.LoginRespond{
		UserInfoRespond: respond.NewUserInfoRespond(user),
		AccessToken:     tokens.AccessToken,
		RefreshToken:    tokens.RefreshToken,
	}, nil
}

// GetUserInfo 获取用户信息，优先读缓存
func (u *userInfoService) GetUserInfo(uuid string) (*respond.UserInfoRespond, error) {
	ctx := context.Background()
	if u.cache != nil {
		cached, err := u.cache.Get(ctx, profileKey(uuid))
		if err != nil {
			zap.L().Warn("读取用户资料缓存失败", zap.Error(err))
		} else if cached != "" {
			var rsp respond.UserInfoRespond
			if err := json.Unmarshal([]byte(cached), &rsp); err == nil {
				return &rsp, nil
			}
		}
	}

	user, err := u.repos.User.FindByUuid(uuid)
	if err != nil {
		if errorx.IsNotFound(err) {
			return nil, errorx.New(errorx.CodeUserNotExist, "user not found")
		}
		zap.L().Error(err.Error())
		return nil, errorx.ErrServerBusy
	}
	rsp := respond.NewUserInfoRespond(user)
	u.cacheProfile(rsp)
	return &rsp, nil
}

// cacheProfile 异步回填缓存
func (u *userInfoService) cacheProfile(rsp respond.UserInfoRespond) {
	if u.cache == nil {
		return
	}
	data, err := json.Marshal(rsp)
	if err != nil {
		return
	}
	u.cache.SubmitTask(func() {
		if err := u.cache.Set(context.Background(), profileKey(rsp.Id), string(data), constants.PROFILE_CACHE_TTL); err != nil {
			zap.L().Warn("写入用户资料缓存失败", zap.Error(err))
		}
	})
}

// UpdateUserInfo 修改昵称/头像，邮箱不可修改
func (u *userInfoService) UpdateUserInfo(uuid string, req request.UpdateUserInfoRequest) (*respond.UserInfoRespond, error) {
	user, err := u.repos.User.FindByUuid(uuid)
	if err != nil {
		if errorx.IsNotFound(err) {
			return nil, errorx.New(errorx.CodeUserNotExist, "user not found")
		}
		zap.L().Error(err.Error())
		return nil, errorx.ErrServerBusy
	}
	if name := strings.TrimSpace(req.Name); name != "" {
		user.Name = name
	}
	if req.Avatar != "" {
		user.Avatar = req.Avatar
	}
	if err := u.repos.User.Update(user); err != nil {
		zap.L().Error(err.Error())
		return nil, errorx.ErrServerBusy
	}
	// 同步删除缓存，下次读取时回源
	if u.cache != nil {
		if err := u.cache.Delete(context.Background(), profileKey(uuid)); err != nil {
			zap.L().Warn("删除用户资料缓存失败", zap.Error(err))
		}
	}
	rsp := respond.NewUserInfoRespond(user)
	return &rsp, nil
}

// GetUserInfoList 除自己以外的所有用户，用于发起私聊
func (u *userInfoService) GetUserInfoList(ownerId string) ([]respond.UserInfoRespond, error) {
	users, err := u.repos.User.FindAllExcept(ownerId)
	if err != nil {
		zap.L().Error(err.Error())
		return nil, errorx.ErrServerBusy
	}
	rsp := make([]respond.UserInfoRespond, 0, len(users))
	for i := range users {
		rsp = append(rsp, respond.NewUserInfoRespond(&users[i]))
	}
	return rsp, nil
}
