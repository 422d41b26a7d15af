package request

// UpdateUserInfoRequest 更新当前用户资料，邮箱不可修改
// 使用位置:
//   - internal/handler/user_handler.go: UpdateUserInfo
type UpdateUserInfoRequest struct {
	Name   string `json:"name" binding:"omitempty,max=64"`
	Avatar string `json:"avatar" binding:"omitempty,url,max=255"`
}
