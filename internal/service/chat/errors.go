package chat

import "umazing_chat_server/pkg/errorx"

var (
	errNotRoomParticipant = errorx.New(errorx.CodeForbidden, "you are not a participant of this room")
	errNotWorkspaceMember = errorx.New(errorx.CodeForbidden, "you are not a member of this workspace")
	errSelfMessage        = errorx.New(errorx.CodeInvalidParam, "cannot send a message to yourself")
	errEmptyContent       = errorx.New(errorx.CodeInvalidParam, "message content is required")
	errUnknownEvent       = errorx.New(errorx.CodeInvalidParam, "unknown event")
	errMalformedFrame     = errorx.New(errorx.CodeInvalidParam, "malformed frame")
)

// asNotFound 仓储层的未找到错误换成面向客户端的消息，其余错误原样返回
func asNotFound(err error, msg string) error {
	if errorx.IsNotFound(err) {
		return errorx.Wrap(err, errorx.CodeNotFound, msg)
	}
	return err
}
