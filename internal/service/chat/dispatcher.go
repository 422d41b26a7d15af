package chat

import (
	"context"
	"encoding/json"

	"umazing_chat_server/pkg/errorx"

	"go.uber.org/zap"
)

// Dispatcher 解析入站帧并分发到各引擎
// 引擎返回的错误只推送给发起请求的连接
type Dispatcher struct {
	dm        *DMEngine
	workspace *WorkspaceEngine
	receipts  *Reconciler
	typing    *TypingRelay
}

func NewDispatcher(dm *DMEngine, workspace *WorkspaceEngine, receipts *Reconciler, typing *TypingRelay) *Dispatcher {
	return &Dispatcher{dm: dm, workspace: workspace, receipts: receipts, typing: typing}
}

// Dispatch 处理一帧，同一连接的帧由调用方保证串行
func (d *Dispatcher) Dispatch(ctx context.Context, sess *Session, raw []byte) {
	var frame Frame
	if err := json.Unmarshal(raw, &frame); err != nil || frame.Event == "" {
		d.reply(sess, EventError, errMalformedFrame)
		return
	}

	switch frame.Event {
	case EventSendMessage:
		var p SendMessagePayload
		if !d.decode(sess, frame, &p) {
			return
		}
		if p.WorkspaceId != "" {
			if _, err := d.workspace.SendWorkspaceMessage(ctx, sess.Identity, p.WorkspaceId, p.Content); err != nil {
				d.reply(sess, EventSendMessageError, err)
			}
			return
		}
		if _, err := d.dm.SendDirectMessage(ctx, sess.Identity, p.ReceiverId, p.Content); err != nil {
			d.reply(sess, EventError, err)
		}

	case EventJoinChatRoom:
		var p RoomPayload
		if !d.decode(sess, frame, &p) {
			return
		}
		if _, err := d.dm.JoinRoom(ctx, sess, p.RoomId); err != nil {
			d.reply(sess, EventError, err)
		}

	case EventLeaveChatRoom:
		var p RoomPayload
		if !d.decode(sess, frame, &p) {
			return
		}
		d.dm.LeaveRoom(ctx, sess, p.RoomId)

	case EventJoinWorkspace:
		var p WorkspacePayload
		if !d.decode(sess, frame, &p) {
			return
		}
		if _, err := d.workspace.JoinWorkspace(ctx, sess, p.WorkspaceId); err != nil {
			d.reply(sess, EventError, err)
		}

	case EventLeaveWorkspace:
		var p WorkspacePayload
		if !d.decode(sess, frame, &p) {
			return
		}
		d.workspace.LeaveWorkspace(ctx, sess, p.WorkspaceId)

	case EventTyping, EventStopTyping:
		var p TypingPayload
		if !d.decode(sess, frame, &p) {
			return
		}
		d.typing.Relay(ctx, sess, frame.Event, p)

	case EventMessageRead:
		var p ReadPayload
		if !d.decode(sess, frame, &p) {
			return
		}
		var err error
		switch {
		case p.RoomId != "":
			_, err = d.dm.MarkRoomRead(ctx, sess, p.RoomId)
		case p.WorkspaceId != "" && p.MessageId != "":
			_, err = d.receipts.MarkRead(ctx, sess.Identity, p.WorkspaceId, p.MessageId)
		case p.WorkspaceId != "":
			_, err = d.receipts.MarkAllRead(ctx, sess.Identity, p.WorkspaceId)
		default:
			err = errorx.New(errorx.CodeInvalidParam, "roomId or workspaceId is required")
		}
		if err != nil {
			d.reply(sess, EventError, err)
		}

	default:
		d.reply(sess, EventError, errUnknownEvent)
	}
}

func (d *Dispatcher) decode(sess *Session, frame Frame, v any) bool {
	if len(frame.Data) == 0 {
		d.reply(sess, EventError, errMalformedFrame)
		return false
	}
	if err := json.Unmarshal(frame.Data, v); err != nil {
		d.reply(sess, EventError, errMalformedFrame)
		return false
	}
	return true
}

// reply 把错误推送给发起连接；内部错误记录底层原因，客户端只看到通用消息
func (d *Dispatcher) reply(sess *Session, event string, err error) {
	msg := errorx.GetMsg(err)
	if errorx.IsInternal(err) {
		zap.L().Error("chat event failed",
			zap.String("user", sess.UserID),
			zap.String("conn", sess.Conn.ID()),
			zap.Error(err))
		msg = errorx.ErrServerBusy.Msg
	}
	if sendErr := sess.Conn.Send(event, ErrorEvent{Message: msg}); sendErr != nil {
		zap.L().Warn("send error event failed", zap.String("conn", sess.Conn.ID()), zap.Error(sendErr))
	}
}
