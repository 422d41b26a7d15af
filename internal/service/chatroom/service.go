// Package chatroom 私聊房间的 REST 查询：房间列表、历史消息、未读数
package chatroom

import (
	"umazing_chat_server/internal/dao/mysql/repository"
	"umazing_chat_server/internal/dto/request"
	"umazing_chat_server/internal/dto/respond"
	"umazing_chat_server/internal/model"
	"umazing_chat_server/pkg/errorx"

	"go.uber.org/zap"
)

type chatRoomService struct {
	repos *repository.Repositories
}

func NewChatRoomService(repos *repository.Repositories) *chatRoomService {
	return &chatRoomService{repos: repos}
}

// GetChatRoomList 用户参与的房间，按最近活跃排序
func (s *chatRoomService) GetChatRoomList(userId string) ([]respond.ChatRoomRespond, error) {
	rooms, err := s.repos.ChatRoom.FindByUser(userId)
	if err != nil {
		zap.L().Error(err.Error())
		return nil, errorx.ErrServerBusy
	}
	if len(rooms) == 0 {
		return []respond.ChatRoomRespond{}, nil
	}

	peerIds := make([]string, 0, len(rooms))
	for i := range rooms {
		peerIds = append(peerIds, rooms[i].Peer(userId))
	}
	peers, err := s.userBriefs(peerIds)
	if err != nil {
		return nil, err
	}

	rsp := make([]respond.ChatRoomRespond, 0, len(rooms))
	for i := range rooms {
		room := &rooms[i]
		item := respond.ChatRoomRespond{RoomId: room.Uuid, User: peers[room.Peer(userId)]}

		last, err := s.repos.Message.FindLastInRoom(room.Uuid)
		if err != nil {
			zap.L().Error(err.Error())
			return nil, errorx.ErrServerBusy
		}
		if last != nil {
			view := respond.NewMessageRespond(last, nil)
			item.LastMessage = &view
		}
		if item.UnreadMessages, err = s.repos.Message.CountUnreadInRoom(room.Uuid, userId); err != nil {
			zap.L().Error(err.Error())
			return nil, errorx.ErrServerBusy
		}
		rsp = append(rsp, item)
	}
	return rsp, nil
}

// GetChatRoomMessageList 房间历史，按时间倒序分页；只有参与者可以查看
func (s *chatRoomService) GetChatRoomMessageList(userId string, req request.GetRoomMessageListRequest) (*respond.MessagePageRespond, error) {
	one, two, ok := model.ParseRoomID(req.RoomId)
	if !ok || (userId != one && userId != two) {
		return nil, errorx.ErrForbidden
	}
	req.RoomId = model.RoomID(one, two)
	req.Normalize()

	messages, total, err := s.repos.Message.FindRoomPage(req.RoomId, req.PageNo, req.PageSize)
	if err != nil {
		zap.L().Error(err.Error())
		return nil, errorx.ErrServerBusy
	}
	senders, err := s.userBriefs([]string{one, two})
	if err != nil {
		return nil, err
	}

	list := make([]respond.MessageRespond, 0, len(messages))
	for i := range messages {
		var sender *respond.UserBrief
		if brief, ok := senders[messages[i].SendId]; ok {
			sender = &brief
		}
		list = append(list, respond.NewMessageRespond(&messages[i], sender))
	}
	return &respond.MessagePageRespond{List: list, Total: total, PageNo: req.PageNo, PageSize: req.PageSize}, nil
}

// GetUnreadCount 发给用户的全部私聊未读数
func (s *chatRoomService) GetUnreadCount(userId string) (*respond.UnreadCountRespond, error) {
	count, err := s.repos.Message.CountUnreadDM(userId)
	if err != nil {
		zap.L().Error(err.Error())
		return nil, errorx.ErrServerBusy
	}
	return &respond.UnreadCountRespond{Count: count}, nil
}

func (s *chatRoomService) userBriefs(ids []string) (map[string]respond.UserBrief, error) {
	users, err := s.repos.User.FindByUuids(ids)
	if err != nil {
		zap.L().Error(err.Error())
		return nil, errorx.ErrServerBusy
	}
	out := make(map[string]respond.UserBrief, len(users))
	for i := range users {
		out[users[i].Uuid] = respond.NewUserBrief(&users[i])
	}
	return out, nil
}
