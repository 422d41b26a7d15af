package repository

import (
	"errors"

	"umazing_chat_server/internal/model"

	"gorm.io/gorm"
)

type messageRepository struct {
	db *gorm.DB
}

// NewMessageRepository 创建消息 Repository
func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

// Create 创建消息
func (r *messageRepository) Create(message *model.Message) error {
	if err := r.db.Create(message).Error; err != nil {
		return wrapDBError(err, "创建消息")
	}
	return nil
}

// FindByUuid 按消息 ID 查找
func (r *messageRepository) FindByUuid(uuid string) (*model.Message, error) {
	var msg model.Message
	if err := r.db.First(&msg, "uuid = ?", uuid).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询消息 uuid=%s", uuid)
	}
	return &msg, nil
}

// MarkRead 单条私聊消息置为已读
func (r *messageRepository) MarkRead(uuid string) error {
	if err := r.db.Model(&model.Message{}).Where("uuid = ?", uuid).
		Update("is_read", true).Error; err != nil {
		return wrapDBErrorf(err, "标记已读 uuid=%s", uuid)
	}
	return nil
}

// MarkRoomReadFor 只翻转发给 receiverUuid 的消息，自己发出的不受影响
func (r *messageRepository) MarkRoomReadFor(roomUuid, receiverUuid string) (int64, error) {
	result := r.db.Model(&model.Message{}).
		Where("room_id = ? AND receive_id = ? AND is_read = ?", roomUuid, receiverUuid, false).
		Update("is_read", true)
	if result.Error != nil {
		return 0, wrapDBErrorf(result.Error, "标记房间已读 room=%s user=%s", roomUuid, receiverUuid)
	}
	return result.RowsAffected, nil
}

// CountUnreadInRoom 房间未读数
func (r *messageRepository) CountUnreadInRoom(roomUuid, receiverUuid string) (int64, error) {
	var count int64
	if err := r.db.Model(&model.Message{}).
		Where("room_id = ? AND receive_id = ? AND is_read = ?", roomUuid, receiverUuid, false).
		Count(&count).Error; err != nil {
		return 0, wrapDBErrorf(err, "统计房间未读 room=%s", roomUuid)
	}
	return count, nil
}

// CountUnreadDM 全部私聊未读数
func (r *messageRepository) CountUnreadDM(receiverUuid string) (int64, error) {
	var count int64
	if err := r.db.Model(&model.Message{}).
		Where("type = ? AND receive_id = ? AND is_read = ?", model.MessageTypeDM, receiverUuid, false).
		Count(&count).Error; err != nil {
		return 0, wrapDBErrorf(err, "统计私聊未读 user=%s", receiverUuid)
	}
	return count, nil
}

// FindLastInRoom 房间最新消息
func (r *messageRepository) FindLastInRoom(roomUuid string) (*model.Message, error) {
	var msg model.Message
	err := r.db.Where("room_id = ?", roomUuid).Order("created_at DESC").Order("id DESC").First(&msg).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, wrapDBErrorf(err, "查询最新消息 room=%s", roomUuid)
	}
	return &msg, nil
}

// FindRoomPage 房间历史分页
func (r *messageRepository) FindRoomPage(roomUuid string, page, pageSize int) ([]model.Message, int64, error) {
	return r.findPage("room_id = ?", roomUuid, page, pageSize)
}

// FindWorkspacePage 工作区历史分页
func (r *messageRepository) FindWorkspacePage(workspaceUuid string, page, pageSize int) ([]model.Message, int64, error) {
	return r.findPage("workspace_id = ?", workspaceUuid, page, pageSize)
}

func (r *messageRepository) findPage(cond, target string, page, pageSize int) ([]model.Message, int64, error) {
	var total int64
	if err := r.db.Model(&model.Message{}).Where(cond, target).Count(&total).Error; err != nil {
		return nil, 0, wrapDBErrorf(err, "统计消息 %s", target)
	}
	var messages []model.Message
	if err := r.db.Where(cond, target).
		Order("created_at DESC").Order("id DESC").
		Scopes(paginate(page, pageSize)).
		Find(&messages).Error; err != nil {
		return nil, 0, wrapDBErrorf(err, "查询消息 %s", target)
	}
	return messages, total, nil
}

// DeleteByWorkspace 解散工作区时删除消息
func (r *messageRepository) DeleteByWorkspace(workspaceUuid string) error {
	if err := r.db.Unscoped().Where("workspace_id = ?", workspaceUuid).
		Delete(&model.Message{}).Error; err != nil {
		return wrapDBErrorf(err, "删除工作区消息 workspace=%s", workspaceUuid)
	}
	return nil
}
