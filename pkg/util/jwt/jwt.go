package jwt

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	issuer              = "umazing_chat"
	subjectAccessToken  = "access_token"
	subjectRefreshToken = "refresh_token"
)

// ErrWrongTokenKind 用 Refresh Token 访问接口，或用 Access Token 刷新
var ErrWrongTokenKind = errors.New("jwt: wrong token kind")

// JWTConfig JWT 配置
type JWTConfig struct {
	Secret             string
	AccessTokenExpiry  time.Duration
	RefreshTokenExpiry time.Duration
}

// 全局配置，由 Init 函数初始化
var jwtConfig *JWTConfig

// Init 初始化 JWT 配置
func Init(secret string, accessExpiryMinutes, refreshExpiryHours int) {
	jwtConfig = &JWTConfig{
		Secret:             secret,
		AccessTokenExpiry:  time.Duration(accessExpiryMinutes) * time.Minute,
		RefreshTokenExpiry: time.Duration(refreshExpiryHours) * time.Hour,
	}
}

// Claims 自定义 JWT 声明
// Email 仅用于握手时的欢迎语，身份以 UserID 为准
type Claims struct {
	UserID  string `json:"user_id"`
	Email   string `json:"email,omitempty"`
	TokenID string `json:"token_id,omitempty"` // 仅 Refresh Token 使用，用于单点互踢
	jwt.RegisteredClaims
}

func newClaims(userID, email, subject string, expiry time.Duration) Claims {
	now := time.Now()
	return Claims{
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    issuer,
			Subject:   subject,
		},
	}
}

// GenerateAccessToken 生成 Access Token (短期，用于接口和 WebSocket 握手认证)
func GenerateAccessToken(userID, email string) (string, error) {
	claims := newClaims(userID, email, subjectAccessToken, jwtConfig.AccessTokenExpiry)
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(jwtConfig.Secret))
}

// GenerateRefreshToken 生成 Refresh Token
// 返回 token 字符串和 tokenID (存 Redis 实现单点互踢)
func GenerateRefreshToken(userID, email string) (tokenString string, tokenID string, err error) {
	claims := newClaims(userID, email, subjectRefreshToken, jwtConfig.RefreshTokenExpiry)
	claims.TokenID = uuid.NewString()
	tokenString, err = jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(jwtConfig.Secret))
	return tokenString, claims.TokenID, err
}

// ParseToken 解析并验证 Token 签名与有效期
func ParseToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(jwtConfig.Secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}
	return nil, jwt.ErrSignatureInvalid
}

// ParseAccessToken 解析 Token 并要求是 Access Token
func ParseAccessToken(tokenString string) (*Claims, error) {
	claims, err := ParseToken(tokenString)
	if err != nil {
		return nil, err
	}
	if claims.Subject != subjectAccessToken {
		return nil, ErrWrongTokenKind
	}
	return claims, nil
}

// ParseRefreshToken 解析 Token 并要求是 Refresh Token
func ParseRefreshToken(tokenString string) (*Claims, error) {
	claims, err := ParseToken(tokenString)
	if err != nil {
		return nil, err
	}
	if claims.Subject != subjectRefreshToken {
		return nil, ErrWrongTokenKind
	}
	return claims, nil
}

// RefreshTokenExpiry Refresh Token 有效期，用于设置单点登录记录的过期时间
func RefreshTokenExpiry() time.Duration {
	return jwtConfig.RefreshTokenExpiry
}
