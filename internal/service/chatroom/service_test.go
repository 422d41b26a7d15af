package chatroom

import (
	"testing"

	"umazing_chat_server/internal/dao/mysql/mysqltest"
	"umazing_chat_server/internal/dto/request"
	"umazing_chat_server/internal/model"
	"umazing_chat_server/pkg/errorx"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChatRoomQueries(t *testing.T) {
	repos := mysqltest.NewRepositories(t)
	for _, id := range []string{"1001", "1002", "1003"} {
		require.NoError(t, repos.User.Create(&model.UserInfo{
			Uuid: id, Name: "user" + id, Email: id + "@example.com", RawPassword: "secret123",
		}))
	}
	svc := NewChatRoomService(repos)

	roomID := model.RoomID("1002", "1001")
	require.NoError(t, repos.ChatRoom.CreateIfAbsent(model.NewChatRoom("1001", "1002")))
	for _, content := range []string{"hi", "are you there?"} {
		require.NoError(t, repos.Message.Create(model.NewDirectMessage(roomID, "1001", "1002", content)))
	}
	reply := model.NewDirectMessage(roomID, "1002", "1001", "yes")
	require.NoError(t, repos.Message.Create(reply))

	rooms, err := svc.GetChatRoomList("1002")
	require.NoError(t, err)
	require.Len(t, rooms, 1)
	assert.Equal(t, "1001-1002", rooms[0].RoomId)
	assert.Equal(t, "1001", rooms[0].User.Id)
	assert.Equal(t, int64(2), rooms[0].UnreadMessages)
	require.NotNil(t, rooms[0].LastMessage)
	assert.Equal(t, reply.Uuid, rooms[0].LastMessage.Id)

	unread, err := svc.GetUnreadCount("1001")
	require.NoError(t, err)
	assert.Equal(t, int64(1), unread.Count)

	page, err := svc.GetChatRoomMessageList("1001", request.GetRoomMessageListRequest{RoomId: roomID})
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.Total)
	require.Len(t, page.List, 3)
	for _, m := range page.List {
		require.NotNil(t, m.Read)
		require.NotNil(t, m.Sender)
	}

	// 顺序颠倒的房间 ID 查到同一个房间
	reversed, err := svc.GetChatRoomMessageList("1001", request.GetRoomMessageListRequest{RoomId: "1002-1001"})
	require.NoError(t, err)
	assert.Equal(t, int64(3), reversed.Total)

	_, err = svc.GetChatRoomMessageList("1003", request.GetRoomMessageListRequest{RoomId: roomID})
	assert.Equal(t, errorx.CodeForbidden, errorx.GetCode(err))
	_, err = svc.GetChatRoomMessageList("1001", request.GetRoomMessageListRequest{RoomId: "1001"})
	assert.Equal(t, errorx.CodeForbidden, errorx.GetCode(err))

	empty, err := svc.GetChatRoomList("1003")
	require.NoError(t, err)
	assert.Empty(t, empty)
}
