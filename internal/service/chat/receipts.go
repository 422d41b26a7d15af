package chat

import (
	"context"
	"time"

	"umazing_chat_server/internal/dao/mysql/repository"
	"umazing_chat_server/internal/model"
	"umazing_chat_server/pkg/errorx"
)

// Reconciler 工作区消息的已读回执
// "全员已读" 以当前成员为准：已退出成员的回执不计入，新加入的成员需要补读
type Reconciler struct {
	repos    *repository.Repositories
	registry Registry
	now      func() time.Time
}

// NewReconciler 创建回执协调器
func NewReconciler(repos *repository.Repositories, registry Registry) *Reconciler {
	return &Reconciler{repos: repos, registry: registry, now: func() time.Time { return time.Now().UTC() }}
}

// requireMember 工作区存在且 userID 是成员
func (r *Reconciler) requireMember(workspaceID, userID string) error {
	if _, err := r.repos.Workspace.FindByUuid(workspaceID); err != nil {
		return asNotFound(err, "workspace not found")
	}
	ok, err := r.repos.WorkspaceMember.IsMember(workspaceID, userID)
	if err != nil {
		return err
	}
	if !ok {
		return errNotWorkspaceMember
	}
	return nil
}

// MarkRead 标记单条工作区消息已读并广播到工作区 topic
// 重复标记保留首次已读时间，仍会广播
func (r *Reconciler) MarkRead(ctx context.Context, reader Identity, workspaceID, messageID string) (*WorkspaceMessageReadEvent, error) {
	if workspaceID == "" || messageID == "" {
		return nil, errorx.New(errorx.CodeInvalidParam, "workspaceId and messageId are required")
	}
	msg, err := r.repos.Message.FindByUuid(messageID)
	if err != nil {
		return nil, asNotFound(err, "message not found")
	}
	if msg.WorkspaceId != workspaceID {
		return nil, errorx.New(errorx.CodeNotFound, "message not found")
	}
	ok, err := r.repos.WorkspaceMember.IsMember(workspaceID, reader.UserID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errNotWorkspaceMember
	}

	if err := r.repos.MessageRead.Upsert(model.NewMessageRead(messageID, reader.UserID, r.now())); err != nil {
		return nil, err
	}
	receipt, err := r.repos.MessageRead.Find(messageID, reader.UserID)
	if err != nil {
		return nil, err
	}
	allRead, err := r.isFullyReadIn(workspaceID, messageID)
	if err != nil {
		return nil, err
	}

	event := &WorkspaceMessageReadEvent{
		WorkspaceId: workspaceID,
		MessageId:   messageID,
		Reader:      reader.Brief(),
		ReadAt:      receipt.ReadAt,
		AllRead:     allRead,
	}
	deliver(r.registry.ConnectionsIn(WorkspaceTopic(workspaceID)), EventMessageRead, *event)
	return event, nil
}

// MarkAllRead 把工作区内 reader 未读的消息全部标为已读，返回新写入的回执数
func (r *Reconciler) MarkAllRead(ctx context.Context, reader Identity, workspaceID string) (int, error) {
	if err := r.requireMember(workspaceID, reader.UserID); err != nil {
		return 0, err
	}
	ids, err := r.repos.MessageRead.FindUnreadMessageUuids(workspaceID, reader.UserID)
	if err != nil {
		return 0, err
	}
	now := r.now()
	receipts := make([]model.MessageRead, 0, len(ids))
	for _, id := range ids {
		receipts = append(receipts, *model.NewMessageRead(id, reader.UserID, now))
	}
	if err := r.repos.MessageRead.UpsertBatch(receipts); err != nil {
		return 0, err
	}
	deliver(r.registry.ConnectionsIn(WorkspaceTopic(workspaceID)), EventUserMessageRead,
		UserMessageReadEvent{WorkspaceId: workspaceID, UserId: reader.UserID})
	return len(ids), nil
}

// IsFullyRead 工作区消息：当前全体成员都有回执；私聊消息：接收方已读
func (r *Reconciler) IsFullyRead(ctx context.Context, messageID string) (bool, error) {
	msg, err := r.repos.Message.FindByUuid(messageID)
	if err != nil {
		return false, asNotFound(err, "message not found")
	}
	if msg.Type == model.MessageTypeDM {
		return msg.Read, nil
	}
	return r.isFullyReadIn(msg.WorkspaceId, msg.Uuid)
}

func (r *Reconciler) isFullyReadIn(workspaceID, messageID string) (bool, error) {
	members, err := r.repos.WorkspaceMember.CountByWorkspace(workspaceID)
	if err != nil {
		return false, err
	}
	if members == 0 {
		return false, nil
	}
	reads, err := r.repos.MessageRead.CountMemberReads(workspaceID, messageID)
	if err != nil {
		return false, err
	}
	return reads >= members, nil
}

// FullyReadMap 批量版本，用于历史消息列表
func (r *Reconciler) FullyReadMap(ctx context.Context, workspaceID string, messageIDs []string) (map[string]bool, error) {
	result := make(map[string]bool, len(messageIDs))
	if len(messageIDs) == 0 {
		return result, nil
	}
	members, err := r.repos.WorkspaceMember.CountByWorkspace(workspaceID)
	if err != nil {
		return nil, err
	}
	counts, err := r.repos.MessageRead.CountMemberReadsBatch(workspaceID, messageIDs)
	if err != nil {
		return nil, err
	}
	for _, id := range messageIDs {
		result[id] = members > 0 && counts[id] >= members
	}
	return result, nil
}

// UnreadCountFor userID 在工作区中没有回执的消息数
func (r *Reconciler) UnreadCountFor(ctx context.Context, workspaceID, userID string) (int64, error) {
	return r.repos.MessageRead.CountUnread(workspaceID, userID)
}
