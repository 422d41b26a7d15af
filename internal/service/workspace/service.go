// Package workspace 工作区的 REST 业务：创建、查询、成员管理、历史消息
package workspace

import (
	"context"
	"strings"

	"umazing_chat_server/internal/dao/mysql/repository"
	"umazing_chat_server/internal/dto/request"
	"umazing_chat_server/internal/dto/respond"
	"umazing_chat_server/internal/model"
	"umazing_chat_server/pkg/errorx"
	"umazing_chat_server/pkg/util/snowflake"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Presence 工作区在线成员查询，由 chat.WorkspaceEngine 实现
type Presence interface {
	OnlineMembers(ctx context.Context, workspaceID string) ([]string, error)
}

// ReadState 工作区已读状态查询，由 chat.Reconciler 实现
type ReadState interface {
	FullyReadMap(ctx context.Context, workspaceID string, messageIDs []string) (map[string]bool, error)
	UnreadCountFor(ctx context.Context, workspaceID, userID string) (int64, error)
}

type workspaceService struct {
	repos    *repository.Repositories
	presence Presence
	reads    ReadState
}

func NewWorkspaceService(repos *repository.Repositories, presence Presence, reads ReadState) *workspaceService {
	return &workspaceService{repos: repos, presence: presence, reads: reads}
}

var (
	errNotMember  = errorx.New(errorx.CodeForbidden, "you are not a member of this workspace")
	errNotCreator = errorx.New(errorx.CodeForbidden, "only the creator can do this")
)

// internal 记录内部错误并换成通用错误；业务错误原样返回
func internal(err error) error {
	if errorx.IsInternal(err) {
		zap.L().Error(err.Error())
		return errorx.ErrServerBusy
	}
	return err
}

// load 查询工作区，不存在时返回 CodeNotFound
func (s *workspaceService) load(workspaceId string) (*model.Workspace, error) {
	ws, err := s.repos.Workspace.FindByUuid(workspaceId)
	if err != nil {
		if errorx.IsNotFound(err) {
			return nil, errorx.New(errorx.CodeNotFound, "workspace not found")
		}
		return nil, internal(err)
	}
	return ws, nil
}

// visible 工作区存在且对 userId 可见：公开工作区对所有人可见，私有工作区只对成员可见
func (s *workspaceService) visible(userId, workspaceId string) (*model.Workspace, bool, error) {
	ws, err := s.load(workspaceId)
	if err != nil {
		return nil, false, err
	}
	isMember, err := s.repos.WorkspaceMember.IsMember(workspaceId, userId)
	if err != nil {
		return nil, false, internal(err)
	}
	if ws.IsPrivate() && !isMember {
		return nil, false, errNotMember
	}
	return ws, isMember, nil
}

func (s *workspaceService) requireMember(userId, workspaceId string) (*model.Workspace, error) {
	ws, err := s.load(workspaceId)
	if err != nil {
		return nil, err
	}
	ok, err := s.repos.WorkspaceMember.IsMember(workspaceId, userId)
	if err != nil {
		return nil, internal(err)
	}
	if !ok {
		return nil, errNotMember
	}
	return ws, nil
}

func (s *workspaceService) describe(ws *model.Workspace, isMember bool) (respond.WorkspaceRespond, error) {
	rsp := respond.NewWorkspaceRespond(ws)
	count, err := s.repos.WorkspaceMember.CountByWorkspace(ws.Uuid)
	if err != nil {
		return rsp, internal(err)
	}
	rsp.MemberCount = count
	rsp.IsMember = isMember
	return rsp, nil
}

func newMember(workspaceId, userId, role string) *model.WorkspaceMember {
	return &model.WorkspaceMember{
		Uuid:          uuid.NewString(),
		WorkspaceUuid: workspaceId,
		UserUuid:      userId,
		Role:          role,
	}
}

// CreateWorkspace 创建工作区，创建者作为管理员加入
func (s *workspaceService) CreateWorkspace(userId string, req request.CreateWorkspaceRequest) (*respond.WorkspaceRespond, error) {
	ws := &model.Workspace{
		Uuid:      snowflake.GenerateIDString(),
		Name:      strings.TrimSpace(req.Name),
		Type:      req.Type,
		CreatedBy: userId,
	}
	if ws.Name == "" {
		return nil, errorx.New(errorx.CodeInvalidParam, "workspace name is required")
	}
	err := s.repos.Transaction(func(txRepos *repository.Repositories) error {
		if err := txRepos.Workspace.Create(ws); err != nil {
			return err
		}
		return txRepos.WorkspaceMember.Create(newMember(ws.Uuid, userId, model.MemberRoleAdmin))
	})
	if err != nil {
		return nil, internal(err)
	}
	zap.L().Info("workspace created", zap.String("workspace", ws.Uuid), zap.String("type", ws.Type))

	rsp := respond.NewWorkspaceRespond(ws)
	rsp.MemberCount = 1
	rsp.IsMember = true
	return &rsp, nil
}

// GetPublicWorkspaceList 公开工作区分页列表
func (s *workspaceService) GetPublicWorkspaceList(userId string, req request.GetPublicWorkspaceListRequest) (*respond.WorkspaceListRespond, error) {
	req.Normalize()
	list, total, err := s.repos.Workspace.FindPublicPage(req.PageNo, req.PageSize)
	if err != nil {
		return nil, internal(err)
	}
	rsp := &respond.WorkspaceListRespond{List: make([]respond.WorkspaceRespond, 0, len(list)), Total: total}
	for i := range list {
		isMember, err := s.repos.WorkspaceMember.IsMember(list[i].Uuid, userId)
		if err != nil {
			return nil, internal(err)
		}
		item, err := s.describe(&list[i], isMember)
		if err != nil {
			return nil, err
		}
		rsp.List = append(rsp.List, item)
	}
	return rsp, nil
}

// LoadMyWorkspace 用户所在的工作区，可按类型过滤
func (s *workspaceService) LoadMyWorkspace(userId string, req request.LoadMyWorkspaceRequest) ([]respond.WorkspaceRespond, error) {
	list, err := s.repos.Workspace.FindByMember(userId, req.Type)
	if err != nil {
		return nil, internal(err)
	}
	rsp := make([]respond.WorkspaceRespond, 0, len(list))
	for i := range list {
		item, err := s.describe(&list[i], true)
		if err != nil {
			return nil, err
		}
		rsp = append(rsp, item)
	}
	return rsp, nil
}

// GetWorkspaceInfo 工作区详情，带 isMember
func (s *workspaceService) GetWorkspaceInfo(userId, workspaceId string) (*respond.WorkspaceRespond, error) {
	ws, isMember, err := s.visible(userId, workspaceId)
	if err != nil {
		return nil, err
	}
	rsp, err := s.describe(ws, isMember)
	if err != nil {
		return nil, err
	}
	return &rsp, nil
}

// UpdateWorkspaceInfo 修改名称，仅创建者
func (s *workspaceService) UpdateWorkspaceInfo(userId string, req request.UpdateWorkspaceInfoRequest) (*respond.WorkspaceRespond, error) {
	ws, err := s.load(req.WorkspaceId)
	if err != nil {
		return nil, err
	}
	if ws.CreatedBy != userId {
		return nil, errNotCreator
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, errorx.New(errorx.CodeInvalidParam, "workspace name is required")
	}
	if err := s.repos.Workspace.UpdateName(ws.Uuid, name); err != nil {
		return nil, internal(err)
	}
	ws.Name = name
	rsp, err := s.describe(ws, true)
	if err != nil {
		return nil, err
	}
	return &rsp, nil
}

// DeleteWorkspace 删除私有工作区，仅创建者；成员、消息、回执一并删除
func (s *workspaceService) DeleteWorkspace(userId, workspaceId string) error {
	ws, err := s.load(workspaceId)
	if err != nil {
		return err
	}
	if !ws.IsPrivate() {
		return errorx.New(errorx.CodeForbidden, "public workspaces cannot be deleted")
	}
	if ws.CreatedBy != userId {
		return errNotCreator
	}
	err = s.repos.Transaction(func(txRepos *repository.Repositories) error {
		// 回执通过消息关联，必须先于消息删除
		if err := txRepos.MessageRead.DeleteByWorkspace(workspaceId); err != nil {
			return err
		}
		if err := txRepos.Message.DeleteByWorkspace(workspaceId); err != nil {
			return err
		}
		if err := txRepos.WorkspaceMember.DeleteByWorkspace(workspaceId); err != nil {
			return err
		}
		return txRepos.Workspace.Delete(workspaceId)
	})
	if err != nil {
		return internal(err)
	}
	zap.L().Info("workspace deleted", zap.String("workspace", workspaceId))
	return nil
}

// AddMember 成员把另一个用户加入工作区
func (s *workspaceService) AddMember(userId string, req request.WorkspaceMemberRequest) error {
	if _, err := s.requireMember(userId, req.WorkspaceId); err != nil {
		return err
	}
	if _, err := s.repos.User.FindByUuid(req.UserId); err != nil {
		if errorx.IsNotFound(err) {
			return errorx.New(errorx.CodeUserNotExist, "user not found")
		}
		return internal(err)
	}
	return s.join(req.WorkspaceId, req.UserId)
}

// EnterWorkspace 用户自己加入公开工作区
func (s *workspaceService) EnterWorkspace(userId, workspaceId string) error {
	ws, err := s.load(workspaceId)
	if err != nil {
		return err
	}
	if ws.IsPrivate() {
		return errorx.New(errorx.CodeForbidden, "private workspaces require an invitation")
	}
	return s.join(workspaceId, userId)
}

func (s *workspaceService) join(workspaceId, userId string) error {
	exists, err := s.repos.WorkspaceMember.IsMember(workspaceId, userId)
	if err != nil {
		return internal(err)
	}
	if exists {
		return errorx.New(errorx.CodeConflict, "user is already a member of this workspace")
	}
	if err := s.repos.WorkspaceMember.Create(newMember(workspaceId, userId, model.MemberRoleMember)); err != nil {
		return internal(err)
	}
	return nil
}

// RemoveMember 创建者可以移除任何成员，其他人只能移除自己
// 创建者不能退出自己的工作区
func (s *workspaceService) RemoveMember(userId string, req request.WorkspaceMemberRequest) error {
	ws, err := s.load(req.WorkspaceId)
	if err != nil {
		return err
	}
	if ws.CreatedBy != userId && userId != req.UserId {
		return errorx.New(errorx.CodeForbidden, "you are not allowed to remove this member")
	}
	if req.UserId == ws.CreatedBy {
		return errorx.New(errorx.CodeInvalidParam, "the creator cannot leave the workspace")
	}
	if err := s.repos.WorkspaceMember.Delete(req.WorkspaceId, req.UserId); err != nil {
		if errorx.IsNotFound(err) {
			return errorx.New(errorx.CodeNotFound, "member not found in this workspace")
		}
		return internal(err)
	}
	return nil
}

// GetWorkspaceMessageList 工作区历史，按时间倒序分页，带全员已读标记
func (s *workspaceService) GetWorkspaceMessageList(userId string, req request.GetWorkspaceMessageListRequest) (*respond.MessagePageRespond, error) {
	if _, _, err := s.visible(userId, req.WorkspaceId); err != nil {
		return nil, err
	}
	req.Normalize()
	messages, total, err := s.repos.Message.FindWorkspacePage(req.WorkspaceId, req.PageNo, req.PageSize)
	if err != nil {
		return nil, internal(err)
	}

	ids := make([]string, 0, len(messages))
	senderIds := make([]string, 0, len(messages))
	for i := range messages {
		ids = append(ids, messages[i].Uuid)
		senderIds = append(senderIds, messages[i].SendId)
	}
	fullyRead, err := s.reads.FullyReadMap(context.Background(), req.WorkspaceId, ids)
	if err != nil {
		return nil, internal(err)
	}
	senders, err := s.userBriefs(senderIds)
	if err != nil {
		return nil, err
	}

	list := make([]respond.MessageRespond, 0, len(messages))
	for i := range messages {
		var sender *respond.UserBrief
		if brief, ok := senders[messages[i].SendId]; ok {
			sender = &brief
		}
		list = append(list, respond.NewMessageRespond(&messages[i], sender).WithAllRead(fullyRead[messages[i].Uuid]))
	}
	return &respond.MessagePageRespond{List: list, Total: total, PageNo: req.PageNo, PageSize: req.PageSize}, nil
}

// GetUnreadCount 工作区内用户未读的消息数
func (s *workspaceService) GetUnreadCount(userId, workspaceId string) (*respond.UnreadCountRespond, error) {
	if _, err := s.requireMember(userId, workspaceId); err != nil {
		return nil, err
	}
	count, err := s.reads.UnreadCountFor(context.Background(), workspaceId, userId)
	if err != nil {
		return nil, internal(err)
	}
	return &respond.UnreadCountRespond{Count: count}, nil
}

// GetOnlineMembers 当前加入了工作区 topic 的用户
func (s *workspaceService) GetOnlineMembers(userId, workspaceId string) (*respond.OnlineMembersRespond, error) {
	if _, _, err := s.visible(userId, workspaceId); err != nil {
		return nil, err
	}
	ids, err := s.presence.OnlineMembers(context.Background(), workspaceId)
	if err != nil {
		zap.L().Error("query online members", zap.String("workspace", workspaceId), zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	briefs, err := s.userBriefs(ids)
	if err != nil {
		return nil, err
	}
	rsp := &respond.OnlineMembersRespond{WorkspaceId: workspaceId, Users: make([]respond.UserBrief, 0, len(ids))}
	for _, id := range ids {
		if brief, ok := briefs[id]; ok {
			rsp.Users = append(rsp.Users, brief)
		}
	}
	return rsp, nil
}

func (s *workspaceService) userBriefs(ids []string) (map[string]respond.UserBrief, error) {
	out := make(map[string]respond.UserBrief, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	users, err := s.repos.User.FindByUuids(ids)
	if err != nil {
		return nil, internal(err)
	}
	for i := range users {
		out[users[i].Uuid] = respond.NewUserBrief(&users[i])
	}
	return out, nil
}
