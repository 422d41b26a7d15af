package workspace

import (
	"context"
	"testing"

	"umazing_chat_server/internal/dao/mysql/mysqltest"
	"umazing_chat_server/internal/dao/mysql/repository"
	"umazing_chat_server/internal/dto/request"
	"umazing_chat_server/internal/model"
	"umazing_chat_server/internal/service/chat"
	"umazing_chat_server/pkg/errorx"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubPresence map[string][]string

func (p stubPresence) OnlineMembers(_ context.Context, workspaceID string) ([]string, error) {
	return p[workspaceID], nil
}

type fixture struct {
	repos    *repository.Repositories
	svc      *workspaceService
	receipts *chat.Reconciler
	presence stubPresence
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	repos := mysqltest.NewRepositories(t)
	for _, id := range []string{"1001", "1002", "1003"} {
		require.NoError(t, repos.User.Create(&model.UserInfo{
			Uuid: id, Name: "user" + id, Email: id + "@example.com", RawPassword: "secret123",
		}))
	}
	receipts := chat.NewReconciler(repos, chat.NewMemoryRegistry())
	presence := stubPresence{}
	return &fixture{
		repos:    repos,
		svc:      NewWorkspaceService(repos, presence, receipts),
		receipts: receipts,
		presence: presence,
	}
}

func (f *fixture) create(t *testing.T, owner, typ string) string {
	t.Helper()
	ws, err := f.svc.CreateWorkspace(owner, request.CreateWorkspaceRequest{Name: "general", Type: typ})
	require.NoError(t, err)
	return ws.Id
}

func TestCreateWorkspaceSeedsCreatorAsAdmin(t *testing.T) {
	f := newFixture(t)
	ws, err := f.svc.CreateWorkspace("1001", request.CreateWorkspaceRequest{Name: "  team  ", Type: model.WorkspaceTypePrivate})
	require.NoError(t, err)
	assert.Equal(t, "team", ws.Name)
	assert.Equal(t, int64(1), ws.MemberCount)
	assert.True(t, ws.IsMember)

	m, err := f.repos.WorkspaceMember.Find(ws.Id, "1001")
	require.NoError(t, err)
	assert.Equal(t, model.MemberRoleAdmin, m.Role)

	_, err = f.svc.CreateWorkspace("1001", request.CreateWorkspaceRequest{Name: "   ", Type: model.WorkspaceTypePublic})
	assert.Equal(t, errorx.CodeInvalidParam, errorx.GetCode(err))
}

func TestPrivateWorkspaceVisibility(t *testing.T) {
	f := newFixture(t)
	wsID := f.create(t, "1001", model.WorkspaceTypePrivate)

	_, err := f.svc.GetWorkspaceInfo("1002", wsID)
	assert.Equal(t, errorx.CodeForbidden, errorx.GetCode(err))
	_, err = f.svc.GetWorkspaceMessageList("1002", request.GetWorkspaceMessageListRequest{WorkspaceId: wsID})
	assert.Equal(t, errorx.CodeForbidden, errorx.GetCode(err))
	_, err = f.svc.GetOnlineMembers("1002", wsID)
	assert.Equal(t, errorx.CodeForbidden, errorx.GetCode(err))

	// 私有工作区不能自行加入
	err = f.svc.EnterWorkspace("1002", wsID)
	assert.Equal(t, errorx.CodeForbidden, errorx.GetCode(err))

	// 非成员不能拉人
	err = f.svc.AddMember("1003", request.WorkspaceMemberRequest{WorkspaceId: wsID, UserId: "1002"})
	assert.Equal(t, errorx.CodeForbidden, errorx.GetCode(err))

	require.NoError(t, f.svc.AddMember("1001", request.WorkspaceMemberRequest{WorkspaceId: wsID, UserId: "1002"}))
	info, err := f.svc.GetWorkspaceInfo("1002", wsID)
	require.NoError(t, err)
	assert.True(t, info.IsMember)
	assert.Equal(t, int64(2), info.MemberCount)

	_, err = f.svc.GetWorkspaceInfo("1001", "missing")
	assert.Equal(t, errorx.CodeNotFound, errorx.GetCode(err))
}

func TestAddMemberValidation(t *testing.T) {
	f := newFixture(t)
	wsID := f.create(t, "1001", model.WorkspaceTypePublic)

	err := f.svc.AddMember("1001", request.WorkspaceMemberRequest{WorkspaceId: wsID, UserId: "9999"})
	assert.Equal(t, errorx.CodeUserNotExist, errorx.GetCode(err))

	require.NoError(t, f.svc.AddMember("1001", request.WorkspaceMemberRequest{WorkspaceId: wsID, UserId: "1002"}))
	err = f.svc.AddMember("1001", request.WorkspaceMemberRequest{WorkspaceId: wsID, UserId: "1002"})
	assert.Equal(t, errorx.CodeConflict, errorx.GetCode(err))
	err = f.svc.EnterWorkspace("1002", wsID)
	assert.Equal(t, errorx.CodeConflict, errorx.GetCode(err))
}

func TestPublicWorkspaceListAndMine(t *testing.T) {
	f := newFixture(t)
	pub := f.create(t, "1001", model.WorkspaceTypePublic)
	priv := f.create(t, "1001", model.WorkspaceTypePrivate)

	page, err := f.svc.GetPublicWorkspaceList("1002", request.GetPublicWorkspaceListRequest{})
	require.NoError(t, err)
	require.Equal(t, int64(1), page.Total)
	assert.Equal(t, pub, page.List[0].Id)
	assert.False(t, page.List[0].IsMember)

	require.NoError(t, f.svc.EnterWorkspace("1002", pub))
	mine, err := f.svc.LoadMyWorkspace("1002", request.LoadMyWorkspaceRequest{})
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, pub, mine[0].Id)

	mine, err = f.svc.LoadMyWorkspace("1001", request.LoadMyWorkspaceRequest{Type: model.WorkspaceTypePrivate})
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, priv, mine[0].Id)
}

func TestUpdateWorkspaceInfoCreatorOnly(t *testing.T) {
	f := newFixture(t)
	wsID := f.create(t, "1001", model.WorkspaceTypePublic)
	require.NoError(t, f.svc.EnterWorkspace("1002", wsID))

	_, err := f.svc.UpdateWorkspaceInfo("1002", request.UpdateWorkspaceInfoRequest{WorkspaceId: wsID, Name: "mine now"})
	assert.Equal(t, errorx.CodeForbidden, errorx.GetCode(err))

	rsp, err := f.svc.UpdateWorkspaceInfo("1001", request.UpdateWorkspaceInfoRequest{WorkspaceId: wsID, Name: "renamed"})
	require.NoError(t, err)
	assert.Equal(t, "renamed", rsp.Name)
	assert.Equal(t, int64(2), rsp.MemberCount)
}

func TestRemoveMemberRules(t *testing.T) {
	f := newFixture(t)
	wsID := f.create(t, "1001", model.WorkspaceTypePublic)
	require.NoError(t, f.svc.EnterWorkspace("1002", wsID))
	require.NoError(t, f.svc.EnterWorkspace("1003", wsID))

	// 普通成员不能移除别人
	err := f.svc.RemoveMember("1002", request.WorkspaceMemberRequest{WorkspaceId: wsID, UserId: "1003"})
	assert.Equal(t, errorx.CodeForbidden, errorx.GetCode(err))

	// 创建者不能退出
	err = f.svc.RemoveMember("1001", request.WorkspaceMemberRequest{WorkspaceId: wsID, UserId: "1001"})
	assert.Equal(t, errorx.CodeInvalidParam, errorx.GetCode(err))

	require.NoError(t, f.svc.RemoveMember("1002", request.WorkspaceMemberRequest{WorkspaceId: wsID, UserId: "1002"}))
	require.NoError(t, f.svc.RemoveMember("1001", request.WorkspaceMemberRequest{WorkspaceId: wsID, UserId: "1003"}))

	err = f.svc.RemoveMember("1001", request.WorkspaceMemberRequest{WorkspaceId: wsID, UserId: "1003"})
	assert.Equal(t, errorx.CodeNotFound, errorx.GetCode(err))

	// 移除后可以重新加入
	assert.NoError(t, f.svc.EnterWorkspace("1003", wsID))
}

func TestDeleteWorkspaceCascades(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	pub := f.create(t, "1001", model.WorkspaceTypePublic)
	err := f.svc.DeleteWorkspace("1001", pub)
	assert.Equal(t, errorx.CodeForbidden, errorx.GetCode(err), "public workspaces stay")

	wsID := f.create(t, "1001", model.WorkspaceTypePrivate)
	require.NoError(t, f.svc.AddMember("1001", request.WorkspaceMemberRequest{WorkspaceId: wsID, UserId: "1002"}))
	msg := model.NewWorkspaceMessage(wsID, "1001", "hello")
	require.NoError(t, f.repos.Message.Create(msg))
	_, err = f.receipts.MarkRead(ctx, chat.Identity{UserID: "1002"}, wsID, msg.Uuid)
	require.NoError(t, err)

	err = f.svc.DeleteWorkspace("1002", wsID)
	assert.Equal(t, errorx.CodeForbidden, errorx.GetCode(err))

	require.NoError(t, f.svc.DeleteWorkspace("1001", wsID))
	_, err = f.repos.Workspace.FindByUuid(wsID)
	assert.True(t, errorx.IsNotFound(err))
	_, err = f.repos.Message.FindByUuid(msg.Uuid)
	assert.True(t, errorx.IsNotFound(err))
	n, err := f.repos.MessageRead.CountByMessage(msg.Uuid)
	require.NoError(t, err)
	assert.Zero(t, n)
	n, err = f.repos.WorkspaceMember.CountByWorkspace(wsID)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestWorkspaceHistoryAndUnread(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	wsID := f.create(t, "1001", model.WorkspaceTypePublic)
	require.NoError(t, f.svc.EnterWorkspace("1002", wsID))

	first := model.NewWorkspaceMessage(wsID, "1001", "first")
	require.NoError(t, f.repos.Message.Create(first))
	second := model.NewWorkspaceMessage(wsID, "1001", "second")
	require.NoError(t, f.repos.Message.Create(second))

	for _, reader := range []string{"1001", "1002"} {
		_, err := f.receipts.MarkRead(ctx, chat.Identity{UserID: reader}, wsID, first.Uuid)
		require.NoError(t, err)
	}

	page, err := f.svc.GetWorkspaceMessageList("1003", request.GetWorkspaceMessageListRequest{WorkspaceId: wsID})
	require.NoError(t, err, "public history is readable by non-members")
	require.Len(t, page.List, 2)
	assert.Equal(t, int64(2), page.Total)
	byID := map[string]bool{}
	for _, m := range page.List {
		require.NotNil(t, m.AllRead)
		byID[m.Id] = *m.AllRead
		require.NotNil(t, m.Sender)
		assert.Equal(t, "user1001", m.Sender.Name)
	}
	assert.True(t, byID[first.Uuid])
	assert.False(t, byID[second.Uuid])

	unread, err := f.svc.GetUnreadCount("1002", wsID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), unread.Count)

	_, err = f.svc.GetUnreadCount("1003", wsID)
	assert.Equal(t, errorx.CodeForbidden, errorx.GetCode(err))
}

func TestGetOnlineMembers(t *testing.T) {
	f := newFixture(t)
	wsID := f.create(t, "1001", model.WorkspaceTypePublic)
	f.presence[wsID] = []string{"1001", "1002", "ghost"}

	rsp, err := f.svc.GetOnlineMembers("1003", wsID)
	require.NoError(t, err)
	assert.Equal(t, wsID, rsp.WorkspaceId)
	ids := make([]string, 0, len(rsp.Users))
	for _, u := range rsp.Users {
		ids = append(ids, u.Id)
	}
	assert.Equal(t, []string{"1001", "1002"}, ids)
}
