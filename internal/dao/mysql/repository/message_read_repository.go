package repository

import (
	"umazing_chat_server/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type messageReadRepository struct {
	db *gorm.DB
}

// NewMessageReadRepository 创建已读回执 Repository
func NewMessageReadRepository(db *gorm.DB) MessageReadRepository {
	return &messageReadRepository{db: db}
}

// 回执上有 uuid 和 (message_uuid, user_uuid) 两个唯一键，任一冲突都保留首条记录
var receiptOnConflict = clause.OnConflict{DoNothing: true}

// Upsert 幂等写入回执
func (r *messageReadRepository) Upsert(receipt *model.MessageRead) error {
	if err := r.db.Clauses(receiptOnConflict).Create(receipt).Error; err != nil {
		return wrapDBErrorf(err, "写入回执 %s", receipt.Uuid)
	}
	return nil
}

// UpsertBatch 批量幂等写入回执
func (r *messageReadRepository) UpsertBatch(receipts []model.MessageRead) error {
	if len(receipts) == 0 {
		return nil
	}
	if err := r.db.Clauses(receiptOnConflict).CreateInBatches(receipts, 200).Error; err != nil {
		return wrapDBError(err, "批量写入回执")
	}
	return nil
}

// Find 查询回执
func (r *messageReadRepository) Find(messageUuid, userUuid string) (*model.MessageRead, error) {
	var receipt model.MessageRead
	if err := r.db.First(&receipt, "uuid = ?", model.ReceiptID(messageUuid, userUuid)).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询回执 message=%s user=%s", messageUuid, userUuid)
	}
	return &receipt, nil
}

// CountByMessage 消息的回执总数
func (r *messageReadRepository) CountByMessage(messageUuid string) (int64, error) {
	var count int64
	if err := r.db.Model(&model.MessageRead{}).Where("message_uuid = ?", messageUuid).
		Count(&count).Error; err != nil {
		return 0, wrapDBErrorf(err, "统计回执 message=%s", messageUuid)
	}
	return count, nil
}

// memberReads 回执与当前成员做连接
func (r *messageReadRepository) memberReads(workspaceUuid string) *gorm.DB {
	return r.db.Model(&model.MessageRead{}).
		Joins("JOIN workspace_member wm ON wm.user_uuid = message_read.user_uuid AND wm.workspace_uuid = ? AND wm.deleted_at IS NULL", workspaceUuid)
}

// CountMemberReads 当前成员中已读的人数
func (r *messageReadRepository) CountMemberReads(workspaceUuid, messageUuid string) (int64, error) {
	var count int64
	if err := r.memberReads(workspaceUuid).
		Where("message_read.message_uuid = ?", messageUuid).
		Count(&count).Error; err != nil {
		return 0, wrapDBErrorf(err, "统计成员回执 message=%s", messageUuid)
	}
	return count, nil
}

// CountMemberReadsBatch 批量统计成员回执
func (r *messageReadRepository) CountMemberReadsBatch(workspaceUuid string, messageUuids []string) (map[string]int64, error) {
	counts := make(map[string]int64, len(messageUuids))
	if len(messageUuids) == 0 {
		return counts, nil
	}
	var rows []struct {
		MessageUuid string
		Total       int64
	}
	if err := r.memberReads(workspaceUuid).
		Select("message_read.message_uuid AS message_uuid, COUNT(*) AS total").
		Where("message_read.message_uuid IN ?", messageUuids).
		Group("message_read.message_uuid").
		Scan(&rows).Error; err != nil {
		return nil, wrapDBErrorf(err, "批量统计成员回执 workspace=%s", workspaceUuid)
	}
	for _, row := range rows {
		counts[row.MessageUuid] = row.Total
	}
	return counts, nil
}

// unread 工作区中 userUuid 没有回执的消息
func (r *messageReadRepository) unread(workspaceUuid, userUuid string) *gorm.DB {
	return r.db.Model(&model.Message{}).
		Where("message.workspace_id = ?", workspaceUuid).
		Where("NOT EXISTS (SELECT 1 FROM message_read mr WHERE mr.message_uuid = message.uuid AND mr.user_uuid = ? AND mr.deleted_at IS NULL)", userUuid)
}

// CountUnread 工作区未读数
func (r *messageReadRepository) CountUnread(workspaceUuid, userUuid string) (int64, error) {
	var count int64
	if err := r.unread(workspaceUuid, userUuid).Count(&count).Error; err != nil {
		return 0, wrapDBErrorf(err, "统计工作区未读 workspace=%s user=%s", workspaceUuid, userUuid)
	}
	return count, nil
}

// FindUnreadMessageUuids 按时间顺序返回未读消息 ID
func (r *messageReadRepository) FindUnreadMessageUuids(workspaceUuid, userUuid string) ([]string, error) {
	var ids []string
	if err := r.unread(workspaceUuid, userUuid).
		Order("message.created_at ASC").Order("message.id ASC").
		Pluck("message.uuid", &ids).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询工作区未读 workspace=%s user=%s", workspaceUuid, userUuid)
	}
	return ids, nil
}

// DeleteByWorkspace 删除工作区全部消息的回执，需在删除消息之前调用
func (r *messageReadRepository) DeleteByWorkspace(workspaceUuid string) error {
	sub := r.db.Model(&model.Message{}).Select("uuid").Where("workspace_id = ?", workspaceUuid)
	if err := r.db.Unscoped().Where("message_uuid IN (?)", sub).
		Delete(&model.MessageRead{}).Error; err != nil {
		return wrapDBErrorf(err, "删除工作区回执 workspace=%s", workspaceUuid)
	}
	return nil
}
