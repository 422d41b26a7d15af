// Package service 提供业务逻辑层
// 本文件实现 Service 层的依赖注入和聚合
package service

import (
	"umazing_chat_server/internal/dao/mysql/repository"
	myredis "umazing_chat_server/internal/dao/redis"
	"umazing_chat_server/internal/service/auth"
	"umazing_chat_server/internal/service/chat"
	"umazing_chat_server/internal/service/chatroom"
	"umazing_chat_server/internal/service/user"
	"umazing_chat_server/internal/service/workspace"
)

// Services 聚合所有 Service 实例
// 作为依赖注入的入口，Handler 层通过 service.Svc 访问各个 Service
type Services struct {
	User      UserService      // 用户 Service
	Auth      AuthService      // 认证 Service
	ChatRoom  ChatRoomService  // 私聊房间 Service
	Workspace WorkspaceService // 工作区 Service
	Chat      *chat.ChatServer // WebSocket 聊天服务
}

// NewServices 创建并注入所有 Service 实例
// cache 为 nil 时关闭单点登录校验、资料缓存与在线状态镜像
func NewServices(repos *repository.Repositories, cache myredis.AsyncCacheService, chatServer *chat.ChatServer) *Services {
	// 接口变量保持 nil，避免包装出非 nil 的空指针
	var plainCache myredis.CacheService
	if cache != nil {
		plainCache = cache
	}
	authSvc := auth.NewAuthService(repos.User, plainCache)

	return &Services{
		User:      user.NewUserService(repos, authSvc, cache),
		Auth:      authSvc,
		ChatRoom:  chatroom.NewChatRoomService(repos),
		Workspace: workspace.NewWorkspaceService(repos, chatServer.Workspace, chatServer.Receipts),
		Chat:      chatServer,
	}
}

// Svc 全局 Services 实例
// Handler 层通过 service.Svc.User.Login() 等方式调用
var Svc *Services

// InitServices 初始化全局 Services 实例
// 应在 main.go 中调用，在 Repository 与 ChatServer 初始化之后
func InitServices(repos *repository.Repositories, cache myredis.AsyncCacheService, chatServer *chat.ChatServer) {
	Svc = NewServices(repos, cache, chatServer)
}
