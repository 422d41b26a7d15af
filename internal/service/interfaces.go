// Package service 定义业务层接口
// 本文件定义所有 Service 接口，供 Handler 层调用
package service

import (
	"umazing_chat_server/internal/dto/request"
	"umazing_chat_server/internal/dto/respond"
)

// UserService 用户业务接口
// 处理用户注册、登录、资料管理
type UserService interface {
	// Register 注册，成功后直接返回登录态
	Register(req request.RegisterRequest) (*respond.LoginRespond, error)
	// Login 邮箱密码登录
	Login(req request.LoginRequest) (*respond.LoginRespond, error)
	// GetUserInfo 获取单个用户信息
	GetUserInfo(uuid string) (*respond.UserInfoRespond, error)
	// UpdateUserInfo 更新昵称/头像
	UpdateUserInfo(uuid string, req request.UpdateUserInfoRequest) (*respond.UserInfoRespond, error)
	// GetUserInfoList 获取用户列表（排除指定用户）
	GetUserInfoList(ownerId string) ([]respond.UserInfoRespond, error)
}

// AuthService 认证业务接口
type AuthService interface {
	// RefreshToken 用 Refresh Token 换取新的双 Token
	RefreshToken(refreshToken string) (*respond.TokenRespond, error)
	// ValidateTokenID 单点登录校验
	ValidateTokenID(userID, tokenID string) (bool, error)
}

// ChatRoomService 私聊房间业务接口
type ChatRoomService interface {
	// GetChatRoomList 用户参与的房间列表
	GetChatRoomList(userId string) ([]respond.ChatRoomRespond, error)
	// GetChatRoomMessageList 房间历史消息
	GetChatRoomMessageList(userId string, req request.GetRoomMessageListRequest) (*respond.MessagePageRespond, error)
	// GetUnreadCount 私聊未读总数
	GetUnreadCount(userId string) (*respond.UnreadCountRespond, error)
}

// WorkspaceService 工作区业务接口
// 处理工作区的创建、管理、成员管理与历史消息
type WorkspaceService interface {
	CreateWorkspace(userId string, req request.CreateWorkspaceRequest) (*respond.WorkspaceRespond, error)
	// GetPublicWorkspaceList 分页获取公开工作区
	GetPublicWorkspaceList(userId string, req request.GetPublicWorkspaceListRequest) (*respond.WorkspaceListRespond, error)
	// LoadMyWorkspace 我加入的工作区
	LoadMyWorkspace(userId string, req request.LoadMyWorkspaceRequest) ([]respond.WorkspaceRespond, error)
	GetWorkspaceInfo(userId, workspaceId string) (*respond.WorkspaceRespond, error)
	// UpdateWorkspaceInfo 仅创建者
	UpdateWorkspaceInfo(userId string, req request.UpdateWorkspaceInfoRequest) (*respond.WorkspaceRespond, error)
	// DeleteWorkspace 仅创建者，且只能删除私有工作区
	DeleteWorkspace(userId, workspaceId string) error
	AddMember(userId string, req request.WorkspaceMemberRequest) error
	// EnterWorkspace 加入公开工作区
	EnterWorkspace(userId, workspaceId string) error
	// RemoveMember 创建者移除成员，或成员自己退出
	RemoveMember(userId string, req request.WorkspaceMemberRequest) error
	GetWorkspaceMessageList(userId string, req request.GetWorkspaceMessageListRequest) (*respond.MessagePageRespond, error)
	GetUnreadCount(userId, workspaceId string) (*respond.UnreadCountRespond, error)
	// GetOnlineMembers 在线成员
	GetOnlineMembers(userId, workspaceId string) (*respond.OnlineMembersRespond, error)
}
