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

// DMEngine 私聊：持久化、投递、房间未读数
type DMEngine struct {
	repos    *repository.Repositories
	registry Registry
	presence *presenceMirror
}

// NewDMEngine 创建私聊引擎
func NewDMEngine(repos *repository.Repositories, registry Registry, presence *presenceMirror) *DMEngine {
	return &DMEngine{repos: repos, registry: registry, presence: presence}
}

// DirectMessageResult 一次私聊发送的结果
type DirectMessageResult struct {
	RoomID  string
	Message *model.Message
	// Flipped 接收方正在看这个房间，消息在投递前已置为已读
	Flipped bool
}

// RoomJoinResult 进入房间的结果
type RoomJoinResult struct {
	RoomID      string
	Flipped     int64
	LastMessage *model.Message
}

// SendDirectMessage 发送私聊消息
// 房间不存在时与消息在同一事务中创建
func (e *DMEngine) SendDirectMessage(ctx context.Context, sender Identity, receiverID, content string) (*DirectMessageResult, error) {
	receiverID = strings.TrimSpace(receiverID)
	if receiverID == "" || strings.TrimSpace(content) == "" {
		return nil, errorx.New(errorx.CodeInvalidParam, "receiverId and content are required")
	}
	if receiverID == sender.UserID {
		return nil, errSelfMessage
	}
	receiver, err := e.repos.User.FindByUuid(receiverID)
	if err != nil {
		if errorx.IsNotFound(err) {
			return nil, errorx.Wrap(err, errorx.CodeUserNotExist, "receiver not found")
		}
		return nil, err
	}

	roomID := model.RoomID(sender.UserID, receiver.Uuid)
	msg := model.NewDirectMessage(roomID, sender.UserID, receiver.Uuid, content)
	err = e.repos.Transaction(func(tx *repository.Repositories) error {
		if err := tx.ChatRoom.CreateIfAbsent(model.NewChatRoom(sender.UserID, receiver.Uuid)); err != nil {
			return err
		}
		return tx.Message.Create(msg)
	})
	if err != nil {
		return nil, err
	}

	result := &DirectMessageResult{RoomID: roomID, Message: msg}
	if e.registry.UserInTopic(RoomTopic(roomID), receiver.Uuid) {
		// 消息已提交，置已读失败时按未读继续推送
		if err := e.repos.Message.MarkRead(msg.Uuid); err != nil {
			zap.L().Error("mark dm read", zap.String("message", msg.Uuid), zap.Error(err))
		} else {
			msg.Read = true
			result.Flipped = true
		}
	}

	brief := sender.Brief()
	view := respond.NewMessageRespond(msg, &brief)
	parties := dedupe(e.registry.ConnectionsFor(sender.UserID), e.registry.ConnectionsFor(receiver.Uuid))
	deliver(parties, EventReceiveMessage, ReceiveMessageEvent{RoomId: roomID, Message: view})

	if result.Flipped {
		deliver(parties, EventMessageRead, RoomMessageReadEvent{
			RoomId:    roomID,
			MessageId: msg.Uuid,
			ReaderId:  receiver.Uuid,
		})
	}

	// 写入后在同一连接池上重新统计，双方各自的未读数
	for _, userID := range []string{sender.UserID, receiver.Uuid} {
		unread, err := e.repos.Message.CountUnreadInRoom(roomID, userID)
		if err != nil {
			zap.L().Error("count room unread", zap.String("room", roomID), zap.String("user", userID), zap.Error(err))
			continue
		}
		deliver(e.registry.ConnectionsFor(userID), EventNewMessage, RoomSummaryEvent{
			RoomId:         roomID,
			LastMessage:    &view,
			UnreadMessages: unread,
		})
	}
	return result, nil
}

// participants 校验房间 ID 并确认 userID 是其中一方
// 返回规范顺序的房间 ID，客户端传入顺序颠倒的 ID 时也落到同一个房间
func participants(roomID, userID string) (string, string, string, error) {
	one, two, ok := model.ParseRoomID(roomID)
	if !ok || (userID != one && userID != two) {
		return "", "", "", errNotRoomParticipant
	}
	return model.RoomID(one, two), one, two, nil
}

// canonicalRoomID 格式合法时换成规范顺序，否则原样返回
func canonicalRoomID(roomID string) string {
	if one, two, ok := model.ParseRoomID(roomID); ok {
		return model.RoomID(one, two)
	}
	return roomID
}

// JoinRoom 进入房间：加入 topic，把发给自己的消息全部置为已读，通知双方
func (e *DMEngine) JoinRoom(ctx context.Context, sess *Session, roomID string) (*RoomJoinResult, error) {
	roomID, one, two, err := participants(roomID, sess.UserID)
	if err != nil {
		return nil, err
	}
	e.presence.join(sess, RoomTopic(roomID))

	flipped, err := e.repos.Message.MarkRoomReadFor(roomID, sess.UserID)
	if err != nil {
		return nil, err
	}
	last, err := e.repos.Message.FindLastInRoom(roomID)
	if err != nil {
		return nil, err
	}
	var lastView *respond.MessageRespond
	if last != nil {
		v := respond.NewMessageRespond(last, nil)
		lastView = &v
	}

	for _, userID := range []string{one, two} {
		unread, err := e.repos.Message.CountUnreadInRoom(roomID, userID)
		if err != nil {
			return nil, err
		}
		deliver(e.registry.ConnectionsFor(userID), EventChatRoomUpdated, RoomSummaryEvent{
			RoomId:         roomID,
			LastMessage:    lastView,
			UnreadMessages: unread,
		})
	}
	if flipped > 0 {
		deliver(dedupe(e.registry.ConnectionsFor(one), e.registry.ConnectionsFor(two)),
			EventUserMessageRead, UserMessageReadEvent{RoomId: roomID, UserId: sess.UserID})
	}
	return &RoomJoinResult{RoomID: roomID, Flipped: flipped, LastMessage: last}, nil
}

// LeaveRoom 离开房间 topic；未加入时什么也不做
func (e *DMEngine) LeaveRoom(ctx context.Context, sess *Session, roomID string) bool {
	return e.presence.leave(sess, RoomTopic(canonicalRoomID(roomID)))
}

// MarkRoomRead 把房间内发给自己的消息全部置为已读
// 通知房间内的连接和对方的全部连接
func (e *DMEngine) MarkRoomRead(ctx context.Context, sess *Session, roomID string) (int64, error) {
	roomID, one, two, err := participants(roomID, sess.UserID)
	if err != nil {
		return 0, err
	}
	flipped, err := e.repos.Message.MarkRoomReadFor(roomID, sess.UserID)
	if err != nil {
		return 0, err
	}
	peer := one
	if peer == sess.UserID {
		peer = two
	}
	deliver(dedupe(e.registry.ConnectionsIn(RoomTopic(roomID)), e.registry.ConnectionsFor(peer)),
		EventUserMessageRead, UserMessageReadEvent{RoomId: roomID, UserId: sess.UserID})
	return flipped, nil
}
