package repository

import (
	"umazing_chat_server/internal/model"

	"gorm.io/gorm"
)

type workspaceMemberRepository struct {
	db *gorm.DB
}

// NewWorkspaceMemberRepository 创建工作区成员 Repository
func NewWorkspaceMemberRepository(db *gorm.DB) WorkspaceMemberRepository {
	return &workspaceMemberRepository{db: db}
}

// Find 查询成员记录
func (r *workspaceMemberRepository) Find(workspaceUuid, userUuid string) (*model.WorkspaceMember, error) {
	var member model.WorkspaceMember
	if err := r.db.Where("workspace_uuid = ? AND user_uuid = ?", workspaceUuid, userUuid).
		First(&member).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询成员 workspace=%s user=%s", workspaceUuid, userUuid)
	}
	return &member, nil
}

// IsMember 检查用户是否在工作区中
func (r *workspaceMemberRepository) IsMember(workspaceUuid, userUuid string) (bool, error) {
	var count int64
	if err := r.db.Model(&model.WorkspaceMember{}).
		Where("workspace_uuid = ? AND user_uuid = ?", workspaceUuid, userUuid).
		Count(&count).Error; err != nil {
		return false, wrapDBErrorf(err, "检查成员 workspace=%s user=%s", workspaceUuid, userUuid)
	}
	return count > 0, nil
}

// Create 添加成员
func (r *workspaceMemberRepository) Create(member *model.WorkspaceMember) error {
	if err := r.db.Create(member).Error; err != nil {
		return wrapDBErrorf(err, "添加成员 workspace=%s user=%s", member.WorkspaceUuid, member.UserUuid)
	}
	return nil
}

// CountByWorkspace 工作区当前成员数
func (r *workspaceMemberRepository) CountByWorkspace(workspaceUuid string) (int64, error) {
	var count int64
	if err := r.db.Model(&model.WorkspaceMember{}).
		Where("workspace_uuid = ?", workspaceUuid).Count(&count).Error; err != nil {
		return 0, wrapDBErrorf(err, "统计成员 workspace=%s", workspaceUuid)
	}
	return count, nil
}

// FindByWorkspace 按加入顺序列出成员
func (r *workspaceMemberRepository) FindByWorkspace(workspaceUuid string) ([]model.WorkspaceMember, error) {
	var members []model.WorkspaceMember
	if err := r.db.Where("workspace_uuid = ?", workspaceUuid).Order("id ASC").Find(&members).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询成员列表 workspace=%s", workspaceUuid)
	}
	return members, nil
}

// Delete 移除成员
func (r *workspaceMemberRepository) Delete(workspaceUuid, userUuid string) error {
	result := r.db.Unscoped().
		Where("workspace_uuid = ? AND user_uuid = ?", workspaceUuid, userUuid).
		Delete(&model.WorkspaceMember{})
	if result.Error != nil {
		return wrapDBErrorf(result.Error, "移除成员 workspace=%s user=%s", workspaceUuid, userUuid)
	}
	if result.RowsAffected == 0 {
		return wrapDBErrorf(gorm.ErrRecordNotFound, "成员不存在 workspace=%s user=%s", workspaceUuid, userUuid)
	}
	return nil
}

// DeleteByWorkspace 解散工作区时清空成员
func (r *workspaceMemberRepository) DeleteByWorkspace(workspaceUuid string) error {
	if err := r.db.Unscoped().Where("workspace_uuid = ?", workspaceUuid).
		Delete(&model.WorkspaceMember{}).Error; err != nil {
		return wrapDBErrorf(err, "清空成员 workspace=%s", workspaceUuid)
	}
	return nil
}
