// Package auth 提供认证相关的业务逻辑
// 处理 Token 签发、刷新与单点登录校验
package auth

import (
	"context"

	"umazing_chat_server/internal/dao/mysql/repository"
	myredis "umazing_chat_server/internal/dao/redis"
	"umazing_chat_server/internal/dto/respond"
	"umazing_chat_server/internal/model"
	"umazing_chat_server/pkg/constants"
	"umazing_chat_server/pkg/errorx"
	"umazing_chat_server/pkg/util/jwt"

	"go.uber.org/zap"
)

// Service 认证服务实现
type Service struct {
	users repository.UserRepository
	cache myredis.CacheService // 为 nil 时不做单点登录校验
}

// NewAuthService 创建认证服务实例
func NewAuthService(users repository.UserRepository, cache myredis.CacheService) *Service {
	return &Service{
		users: users,
		cache: cache,
	}
}

func tokenKey(userID string) string {
	return constants.USER_TOKEN_KEY_PREFIX + userID
}

// IssueTokens 签发双 Token，并记录 Refresh Token ID
// 新的登录会使同一用户之前签发的 Refresh Token 失效
func (s *Service) IssueTokens(user *model.UserInfo) (*respond.TokenRespond, error) {
	accessToken, err := jwt.GenerateAccessToken(user.Uuid, user.Email)
	if err != nil {
		zap.L().Error("生成 Access Token 失败", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	refreshToken, tokenID, err := jwt.GenerateRefreshToken(user.Uuid, user.Email)
	if err != nil {
		zap.L().Error("生成 Refresh Token 失败", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}

	if s.cache != nil {
		if err := s.cache.Set(context.Background(), tokenKey(user.Uuid), tokenID, jwt.RefreshTokenExpiry()); err != nil {
			// 不阻塞登录流程，仅记录日志
			zap.L().Error("存储 Token ID 到 Redis 失败", zap.Error(err))
		}
	}
	return &respond.TokenRespond{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// ValidateTokenID 验证用户的 Token ID 是否仍是最近一次登录签发的
func (s *Service) ValidateTokenID(userID, tokenID string) (bool, error) {
	if s.cache == nil {
		return true, nil
	}
	validTokenID, err := s.cache.Get(context.Background(), tokenKey(userID))
	if err != nil {
		return false, err
	}
	if validTokenID == "" {
		return false, nil
	}
	return tokenID == validTokenID, nil
}

// RefreshToken 用 Refresh Token 换一对新 Token
func (s *Service) RefreshToken(refreshToken string) (*respond.TokenRespond, error) {
	claims, err := jwt.ParseRefreshToken(refreshToken)
	if err != nil {
		return nil, errorx.Wrap(err, errorx.CodeUnauthorized, "refresh token is invalid or expired")
	}

	valid, err := s.ValidateTokenID(claims.UserID, claims.TokenID)
	if err != nil {
		zap.L().Error("校验 Token ID 失败", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	if !valid {
		return nil, errorx.New(errorx.CodeUnauthorized, "signed in elsewhere, please log in again")
	}

	user, err := s.users.FindByUuid(claims.UserID)
	if err != nil {
		if errorx.IsNotFound(err) {
			return nil, errorx.Wrap(err, errorx.CodeUnauthorized, "user no longer exists")
		}
		zap.L().Error(err.Error())
		return nil, errorx.ErrServerBusy
	}
	return s.IssueTokens(user)
}
