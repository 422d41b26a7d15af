package respond

import (
	"time"

	"umazing_chat_server/internal/model"
)

// UserBrief 对外展示的用户资料
// 使用位置:
//   - 消息发送者、已读回执读者、房间对方、在线成员
type UserBrief struct {
	Id     string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Avatar string `json:"avatar"`
}

// NewUserBrief 由用户模型构造
func NewUserBrief(u *model.UserInfo) UserBrief {
	return UserBrief{Id: u.Uuid, Name: u.Name, Email: u.Email, Avatar: u.Avatar}
}

// UserInfoRespond 用户详情
// 使用位置:
//   - internal/service/user/service.go: GetUserInfo, UpdateUserInfo, GetUserInfoList
type UserInfoRespond struct {
	UserBrief
	CreatedAt time.Time `json:"createdAt"`
}

// NewUserInfoRespond 由用户模型构造
func NewUserInfoRespond(u *model.UserInfo) UserInfoRespond {
	return UserInfoRespond{UserBrief: NewUserBrief(u), CreatedAt: u.CreatedAt}
}
