package repository_test

import (
	"errors"
	"testing"
	"time"

	"umazing_chat_server/internal/dao/mysql/mysqltest"
	"umazing_chat_server/internal/dao/mysql/repository"
	"umazing_chat_server/internal/model"
	"umazing_chat_server/pkg/errorx"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedUser(t *testing.T, repos *repository.Repositories, id, email string) *model.UserInfo {
	t.Helper()
	u := &model.UserInfo{Uuid: id, Name: "user" + id, Email: email, RawPassword: "secret123"}
	require.NoError(t, repos.User.Create(u))
	return u
}

func seedWorkspace(t *testing.T, repos *repository.Repositories, id, typ string, members ...string) {
	t.Helper()
	require.NoError(t, repos.Workspace.Create(&model.Workspace{Uuid: id, Name: "ws " + id, Type: typ, CreatedBy: members[0]}))
	for i, m := range members {
		role := model.MemberRoleMember
		if i == 0 {
			role = model.MemberRoleAdmin
		}
		require.NoError(t, repos.WorkspaceMember.Create(&model.WorkspaceMember{
			Uuid: uuid.NewString(), WorkspaceUuid: id, UserUuid: m, Role: role,
		}))
	}
}

func TestUserRepository(t *testing.T) {
	repos := mysqltest.NewRepositories(t)
	seedUser(t, repos, "1", "a@example.com")
	seedUser(t, repos, "2", "b@example.com")

	u, err := repos.User.FindByEmail("a@example.com")
	require.NoError(t, err)
	assert.Equal(t, "1", u.Uuid)
	assert.True(t, u.CheckPassword("secret123"))

	_, err = repos.User.FindByUuid("404")
	assert.True(t, errorx.IsNotFound(err))

	dup := &model.UserInfo{Uuid: "3", Name: "dup", Email: "a@example.com", RawPassword: "x"}
	err = repos.User.Create(dup)
	require.Error(t, err)
	assert.Equal(t, errorx.CodeDBError, errorx.GetCode(err))

	others, err := repos.User.FindAllExcept("1")
	require.NoError(t, err)
	require.Len(t, others, 1)
	assert.Equal(t, "2", others[0].Uuid)

	list, err := repos.User.FindByUuids([]string{"1", "2", "404"})
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestChatRoomCreateIfAbsent(t *testing.T) {
	repos := mysqltest.NewRepositories(t)
	require.NoError(t, repos.ChatRoom.CreateIfAbsent(model.NewChatRoom("2", "1")))
	require.NoError(t, repos.ChatRoom.CreateIfAbsent(model.NewChatRoom("1", "2")))

	rooms, err := repos.ChatRoom.FindByUser("1")
	require.NoError(t, err)
	require.Len(t, rooms, 1)
	assert.Equal(t, "1-2", rooms[0].Uuid)

	rooms, err = repos.ChatRoom.FindByUser("3")
	require.NoError(t, err)
	assert.Empty(t, rooms)
}

func TestDirectMessageReadFlags(t *testing.T) {
	repos := mysqltest.NewRepositories(t)
	room := model.RoomID("1", "2")

	last, err := repos.Message.FindLastInRoom(room)
	require.NoError(t, err)
	assert.Nil(t, last)

	for i := 0; i < 3; i++ {
		require.NoError(t, repos.Message.Create(model.NewDirectMessage(room, "1", "2", "hi")))
	}
	reply := model.NewDirectMessage(room, "2", "1", "yo")
	require.NoError(t, repos.Message.Create(reply))

	n, err := repos.Message.CountUnreadInRoom(room, "2")
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)

	n, err = repos.Message.CountUnreadDM("1")
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	affected, err := repos.Message.MarkRoomReadFor(room, "2")
	require.NoError(t, err)
	assert.EqualValues(t, 3, affected)

	// 对方发来的消息不受影响
	n, err = repos.Message.CountUnreadInRoom(room, "1")
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	require.NoError(t, repos.Message.MarkRead(reply.Uuid))
	got, err := repos.Message.FindByUuid(reply.Uuid)
	require.NoError(t, err)
	assert.True(t, got.Read)
}

func TestMessagePagination(t *testing.T) {
	repos := mysqltest.NewRepositories(t)
	room := model.RoomID("1", "2")
	var ids []string
	for i := 0; i < 5; i++ {
		m := model.NewDirectMessage(room, "1", "2", "m")
		require.NoError(t, repos.Message.Create(m))
		ids = append(ids, m.Uuid)
	}

	page, total, err := repos.Message.FindRoomPage(room, 1, 2)
	require.NoError(t, err)
	assert.EqualValues(t, 5, total)
	require.Len(t, page, 2)
	assert.Equal(t, ids[4], page[0].Uuid)
	assert.Equal(t, ids[3], page[1].Uuid)

	page, _, err = repos.Message.FindRoomPage(room, 3, 2)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, ids[0], page[0].Uuid)

	last, err := repos.Message.FindLastInRoom(room)
	require.NoError(t, err)
	assert.Equal(t, ids[4], last.Uuid)
}

func TestMessageTargetValidation(t *testing.T) {
	repos := mysqltest.NewRepositories(t)
	bad := model.NewWorkspaceMessage("w1", "1", "x")
	bad.ReceiveId = "2"
	err := repos.Message.Create(bad)
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrInvalidMessageTarget))
}

func TestWorkspaceMembership(t *testing.T) {
	repos := mysqltest.NewRepositories(t)
	seedWorkspace(t, repos, "w1", model.WorkspaceTypePrivate, "1", "2")
	seedWorkspace(t, repos, "w2", model.WorkspaceTypePublic, "2")

	ok, err := repos.WorkspaceMember.IsMember("w1", "2")
	require.NoError(t, err)
	assert.True(t, ok)

	n, err := repos.WorkspaceMember.CountByWorkspace("w1")
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	mine, err := repos.Workspace.FindByMember("2", "")
	require.NoError(t, err)
	assert.Len(t, mine, 2)
	mine, err = repos.Workspace.FindByMember("2", model.WorkspaceTypePrivate)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "w1", mine[0].Uuid)

	public, total, err := repos.Workspace.FindPublicPage(1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, public, 1)
	assert.Equal(t, "w2", public[0].Uuid)

	// 重复加入撞唯一索引
	err = repos.WorkspaceMember.Create(&model.WorkspaceMember{Uuid: uuid.NewString(), WorkspaceUuid: "w1", UserUuid: "2"})
	require.Error(t, err)

	require.NoError(t, repos.WorkspaceMember.Delete("w1", "2"))
	ok, err = repos.WorkspaceMember.IsMember("w1", "2")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.True(t, errorx.IsNotFound(repos.WorkspaceMember.Delete("w1", "2")))

	// 硬删除后可以重新加入
	require.NoError(t, repos.WorkspaceMember.Create(&model.WorkspaceMember{Uuid: uuid.NewString(), WorkspaceUuid: "w1", UserUuid: "2"}))

	require.NoError(t, repos.Workspace.UpdateName("w1", "renamed"))
	ws, err := repos.Workspace.FindByUuid("w1")
	require.NoError(t, err)
	assert.Equal(t, "renamed", ws.Name)
	assert.True(t, errorx.IsNotFound(repos.Workspace.UpdateName("nope", "x")))
}

func TestReceiptsCountOnlyCurrentMembers(t *testing.T) {
	repos := mysqltest.NewRepositories(t)
	seedWorkspace(t, repos, "w1", model.WorkspaceTypePublic, "1", "2", "3")
	msg := model.NewWorkspaceMessage("w1", "1", "hello")
	require.NoError(t, repos.Message.Create(msg))

	now := time.Now().UTC()
	require.NoError(t, repos.MessageRead.Upsert(model.NewMessageRead(msg.Uuid, "1", now)))
	require.NoError(t, repos.MessageRead.Upsert(model.NewMessageRead(msg.Uuid, "2", now)))
	// 重复标记不产生新行，也不改首次已读时间
	require.NoError(t, repos.MessageRead.Upsert(model.NewMessageRead(msg.Uuid, "2", now.Add(time.Hour))))

	total, err := repos.MessageRead.CountByMessage(msg.Uuid)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	r, err := repos.MessageRead.Find(msg.Uuid, "2")
	require.NoError(t, err)
	assert.WithinDuration(t, now, r.ReadAt, time.Second)

	n, err := repos.MessageRead.CountMemberReads("w1", msg.Uuid)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	// 成员 2 退出后其回执不再计入
	require.NoError(t, repos.WorkspaceMember.Delete("w1", "2"))
	n, err = repos.MessageRead.CountMemberReads("w1", msg.Uuid)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	counts, err := repos.MessageRead.CountMemberReadsBatch("w1", []string{msg.Uuid, "missing"})
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{msg.Uuid: 1}, counts)
}

func TestWorkspaceUnreadAndCascade(t *testing.T) {
	repos := mysqltest.NewRepositories(t)
	seedWorkspace(t, repos, "w1", model.WorkspaceTypePublic, "1", "2")
	var ids []string
	for i := 0; i < 3; i++ {
		m := model.NewWorkspaceMessage("w1", "1", "m")
		require.NoError(t, repos.Message.Create(m))
		ids = append(ids, m.Uuid)
	}
	require.NoError(t, repos.MessageRead.Upsert(model.NewMessageRead(ids[0], "2", time.Now())))

	n, err := repos.MessageRead.CountUnread("w1", "2")
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	unread, err := repos.MessageRead.FindUnreadMessageUuids("w1", "2")
	require.NoError(t, err)
	assert.Equal(t, ids[1:], unread)

	var batch []model.MessageRead
	for _, id := range unread {
		batch = append(batch, *model.NewMessageRead(id, "2", time.Now()))
	}
	require.NoError(t, repos.MessageRead.UpsertBatch(batch))
	n, err = repos.MessageRead.CountUnread("w1", "2")
	require.NoError(t, err)
	assert.Zero(t, n)

	err = repos.Transaction(func(tx *repository.Repositories) error {
		if err := tx.MessageRead.DeleteByWorkspace("w1"); err != nil {
			return err
		}
		if err := tx.Message.DeleteByWorkspace("w1"); err != nil {
			return err
		}
		if err := tx.WorkspaceMember.DeleteByWorkspace("w1"); err != nil {
			return err
		}
		return tx.Workspace.Delete("w1")
	})
	require.NoError(t, err)

	_, err = repos.Workspace.FindByUuid("w1")
	assert.True(t, errorx.IsNotFound(err))
	total, err := repos.MessageRead.CountByMessage(ids[0])
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestTransactionRollback(t *testing.T) {
	repos := mysqltest.NewRepositories(t)
	sentinel := errorx.New(errorx.CodeConflict, "abort")
	err := repos.Transaction(func(tx *repository.Repositories) error {
		if err := tx.Workspace.Create(&model.Workspace{Uuid: "w9", Name: "x", Type: model.WorkspaceTypePublic, CreatedBy: "1"}); err != nil {
			return err
		}
		return sentinel
	})
	assert.Equal(t, errorx.CodeConflict, errorx.GetCode(err))
	_, err = repos.Workspace.FindByUuid("w9")
	assert.True(t, errorx.IsNotFound(err))
}
