package respond

// LoginRespond 登录/注册响应
// 使用位置:
//   - internal/service/user/service.go: Register, Login
type LoginRespond struct {
	UserInfoRespond
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// TokenRespond 刷新 Token 响应
// 使用位置:
//   - internal/service/auth/service.go: RefreshToken
type TokenRespond struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}
