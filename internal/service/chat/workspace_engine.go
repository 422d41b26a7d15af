package chat

import (
	"context"
	"strings"

	"umazing_chat_server/internal/dao/mysql/repository"
	"umazing_chat_server/internal/dto/respond"
	"umazing_chat_server/internal/model"
	"umazing_chat_server/pkg/errorx"

	"go.uber.org/zap"
)

// WorkspaceEngine 工作区消息与工作区 topic 的进出
type WorkspaceEngine struct {
	repos    *repository.Repositories
	registry Registry
	presence *presenceMirror
	receipts *Reconciler
}

// NewWorkspaceEngine 创建工作区引擎
func NewWorkspaceEngine(repos *repository.Repositories, registry Registry, presence *presenceMirror, receipts *Reconciler) *WorkspaceEngine {
	return &WorkspaceEngine{repos: repos, registry: registry, presence: presence, receipts: receipts}
}

// SendWorkspaceMessage 消息与发送者自己的回执在同一事务中写入
// 投递给发送者的全部连接以及工作区 topic 中的连接，按连接去重
func (e *WorkspaceEngine) SendWorkspaceMessage(ctx context.Context, sender Identity, workspaceID, content string) (*model.Message, error) {
	if strings.TrimSpace(workspaceID) == "" {
		return nil, errorx.New(errorx.CodeInvalidParam, "workspaceId is required")
	}
	if strings.TrimSpace(content) == "" {
		return nil, errEmptyContent
	}
	if _, err := e.repos.Workspace.FindByUuid(workspaceID); err != nil {
		return nil, asNotFound(err, "workspace not found")
	}
	ok, err := e.repos.WorkspaceMember.IsMember(workspaceID, sender.UserID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errNotWorkspaceMember
	}

	msg := model.NewWorkspaceMessage(workspaceID, sender.UserID, content)
	err = e.repos.Transaction(func(tx *repository.Repositories) error {
		if err := tx.Message.Create(msg); err != nil {
			return err
		}
		return tx.MessageRead.Upsert(model.NewMessageRead(msg.Uuid, sender.UserID, e.receipts.now()))
	})
	if err != nil {
		return nil, err
	}

	allRead, err := e.receipts.isFullyReadIn(workspaceID, msg.Uuid)
	if err != nil {
		// 消息已落库，统计失败只影响展示
		zap.L().Error("check all read", zap.String("message", msg.Uuid), zap.Error(err))
	}
	brief := sender.Brief()
	view := respond.NewMessageRespond(msg, &brief).WithAllRead(allRead)
	targets := dedupe(e.registry.ConnectionsFor(sender.UserID), e.registry.ConnectionsIn(WorkspaceTopic(workspaceID)))
	deliver(targets, EventReceiveMessage, ReceiveMessageEvent{WorkspaceId: workspaceID, Message: view})
	return msg, nil
}

// JoinWorkspace 只改变在线状态，不改变成员关系
// 私有工作区要求是成员
func (e *WorkspaceEngine) JoinWorkspace(ctx context.Context, sess *Session, workspaceID string) (*model.Workspace, error) {
	ws, err := e.repos.Workspace.FindByUuid(workspaceID)
	if err != nil {
		return nil, asNotFound(err, "workspace not found")
	}
	if ws.IsPrivate() {
		ok, err := e.repos.WorkspaceMember.IsMember(workspaceID, sess.UserID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, errNotWorkspaceMember
		}
	}
	e.presence.join(sess, WorkspaceTopic(workspaceID))
	return ws, nil
}

// LeaveWorkspace 离开工作区 topic
func (e *WorkspaceEngine) LeaveWorkspace(ctx context.Context, sess *Session, workspaceID string) bool {
	return e.presence.leave(sess, WorkspaceTopic(workspaceID))
}

// OnlineMembers 工作区当前在线的用户 ID
func (e *WorkspaceEngine) OnlineMembers(ctx context.Context, workspaceID string) ([]string, error) {
	return e.presence.members(ctx, WorkspaceTopic(workspaceID))
}
