// Package repository 定义数据访问层接口和聚合结构
// 所有 Repository 接口在此文件定义，具体实现在各自的文件中
package repository

import (
	"errors"

	"umazing_chat_server/internal/model"
	"umazing_chat_server/pkg/errorx"

	"gorm.io/gorm"
)

// UserRepository 用户数据访问接口
type UserRepository interface {
	FindByUuid(uuid string) (*model.UserInfo, error)
	FindByEmail(email string) (*model.UserInfo, error)
	// FindByUuids 批量查询，不存在的 uuid 直接忽略
	FindByUuids(uuids []string) ([]model.UserInfo, error)
	FindAllExcept(excludeUuid string) ([]model.UserInfo, error)
	Create(user *model.UserInfo) error
	Update(user *model.UserInfo) error
}

// ChatRoomRepository 私聊房间数据访问接口
type ChatRoomRepository interface {
	// CreateIfAbsent 房间已存在时不做任何事，也不报错
	CreateIfAbsent(room *model.ChatRoom) error
	FindByUuid(uuid string) (*model.ChatRoom, error)
	// FindByUser 用户参与的全部房间
	FindByUser(userUuid string) ([]model.ChatRoom, error)
}

// WorkspaceRepository 工作区数据访问接口
type WorkspaceRepository interface {
	FindByUuid(uuid string) (*model.Workspace, error)
	// FindPublicPage 分页查询公开工作区，返回当前页和总数
	FindPublicPage(page, pageSize int) ([]model.Workspace, int64, error)
	// FindByMember 用户所在的工作区，workspaceType 为空时不按类型过滤
	FindByMember(userUuid, workspaceType string) ([]model.Workspace, error)
	Create(workspace *model.Workspace) error
	UpdateName(uuid, name string) error
	// Delete 硬删除工作区
	Delete(uuid string) error
}

// WorkspaceMemberRepository 工作区成员数据访问接口
type WorkspaceMemberRepository interface {
	Find(workspaceUuid, userUuid string) (*model.WorkspaceMember, error)
	IsMember(workspaceUuid, userUuid string) (bool, error)
	Create(member *model.WorkspaceMember) error
	CountByWorkspace(workspaceUuid string) (int64, error)
	FindByWorkspace(workspaceUuid string) ([]model.WorkspaceMember, error)
	// Delete 硬删除，重新加入时不会撞唯一索引
	Delete(workspaceUuid, userUuid string) error
	DeleteByWorkspace(workspaceUuid string) error
}

// MessageRepository 消息数据访问接口
type MessageRepository interface {
	Create(message *model.Message) error
	FindByUuid(uuid string) (*model.Message, error)
	// MarkRead 将单条私聊消息置为已读
	MarkRead(uuid string) error
	// MarkRoomReadFor 将房间内发给 receiverUuid 的未读消息全部置为已读，返回影响行数
	MarkRoomReadFor(roomUuid, receiverUuid string) (int64, error)
	// CountUnreadInRoom 房间内发给 receiverUuid 的未读数
	CountUnreadInRoom(roomUuid, receiverUuid string) (int64, error)
	// CountUnreadDM 发给 receiverUuid 的全部私聊未读数
	CountUnreadDM(receiverUuid string) (int64, error)
	// FindLastInRoom 房间最新一条消息，房间为空时返回 nil, nil
	FindLastInRoom(roomUuid string) (*model.Message, error)
	// FindRoomPage 房间历史，按时间倒序分页
	FindRoomPage(roomUuid string, page, pageSize int) ([]model.Message, int64, error)
	// FindWorkspacePage 工作区历史，按时间倒序分页
	FindWorkspacePage(workspaceUuid string, page, pageSize int) ([]model.Message, int64, error)
	DeleteByWorkspace(workspaceUuid string) error
}

// MessageReadRepository 工作区消息已读回执数据访问接口
type MessageReadRepository interface {
	// Upsert 幂等写入；已存在时保持原 ReadAt
	Upsert(receipt *model.MessageRead) error
	// UpsertBatch 批量幂等写入
	UpsertBatch(receipts []model.MessageRead) error
	Find(messageUuid, userUuid string) (*model.MessageRead, error)
	// CountByMessage 回执总数（含已退出的成员）
	CountByMessage(messageUuid string) (int64, error)
	// CountMemberReads 仅统计当前仍是工作区成员的读者
	CountMemberReads(workspaceUuid, messageUuid string) (int64, error)
	// CountMemberReadsBatch 批量版本，没有回执的消息不出现在结果中
	CountMemberReadsBatch(workspaceUuid string, messageUuids []string) (map[string]int64, error)
	// CountUnread 工作区内 userUuid 没有回执的消息数
	CountUnread(workspaceUuid, userUuid string) (int64, error)
	// FindUnreadMessageUuids 工作区内 userUuid 没有回执的消息 ID
	FindUnreadMessageUuids(workspaceUuid, userUuid string) ([]string, error)
	DeleteByWorkspace(workspaceUuid string) error
}

// Repositories 聚合所有 Repository 实例
type Repositories struct {
	db              *gorm.DB
	User            UserRepository
	ChatRoom        ChatRoomRepository
	Workspace       WorkspaceRepository
	WorkspaceMember WorkspaceMemberRepository
	Message         MessageRepository
	MessageRead     MessageReadRepository
}

// NewRepositories 用同一个 *gorm.DB 创建所有 Repository
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		db:              db,
		User:            NewUserRepository(db),
		ChatRoom:        NewChatRoomRepository(db),
		Workspace:       NewWorkspaceRepository(db),
		WorkspaceMember: NewWorkspaceMemberRepository(db),
		Message:         NewMessageRepository(db),
		MessageRead:     NewMessageReadRepository(db),
	}
}

// Transaction 在数据库事务中执行 fn
// fn 内只能使用 txRepos，使用外层 Repositories 的操作不在事务内
func (r *Repositories) Transaction(fn func(txRepos *Repositories) error) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		return fn(NewRepositories(tx))
	})
	if err == nil {
		return nil
	}
	// fn 返回的业务错误原样透传，其余视为数据库错误
	var codeErr *errorx.CodeError
	if errors.As(err, &codeErr) {
		return err
	}
	return wrapDBError(err, "执行事务")
}

// Close 关闭底层连接池
func (r *Repositories) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
