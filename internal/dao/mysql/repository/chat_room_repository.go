package repository

import (
	"umazing_chat_server/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type chatRoomRepository struct {
	db *gorm.DB
}

// NewChatRoomRepository 创建私聊房间 Repository
func NewChatRoomRepository(db *gorm.DB) ChatRoomRepository {
	return &chatRoomRepository{db: db}
}

// CreateIfAbsent 两个连接同时发首条消息时只会留下一行
func (r *chatRoomRepository) CreateIfAbsent(room *model.ChatRoom) error {
	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "uuid"}},
		DoNothing: true,
	}).Create(room).Error
	if err != nil {
		return wrapDBErrorf(err, "创建房间 uuid=%s", room.Uuid)
	}
	return nil
}

// FindByUuid 按房间 ID 查找
func (r *chatRoomRepository) FindByUuid(uuid string) (*model.ChatRoom, error) {
	var room model.ChatRoom
	if err := r.db.First(&room, "uuid = ?", uuid).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询房间 uuid=%s", uuid)
	}
	return &room, nil
}

// FindByUser 按最近更新时间倒序
func (r *chatRoomRepository) FindByUser(userUuid string) ([]model.ChatRoom, error) {
	var rooms []model.ChatRoom
	if err := r.db.Where("user_one_id = ? OR user_two_id = ?", userUuid, userUuid).
		Order("updated_at DESC").Find(&rooms).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询用户房间 user=%s", userUuid)
	}
	return rooms, nil
}
