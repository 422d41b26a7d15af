package repository

import (
	"umazing_chat_server/internal/model"

	"gorm.io/gorm"
)

type workspaceRepository struct {
	db *gorm.DB
}

// NewWorkspaceRepository 创建工作区 Repository
func NewWorkspaceRepository(db *gorm.DB) WorkspaceRepository {
	return &workspaceRepository{db: db}
}

// FindByUuid 按工作区 ID 查找
func (r *workspaceRepository) FindByUuid(uuid string) (*model.Workspace, error) {
	var ws model.Workspace
	if err := r.db.First(&ws, "uuid = ?", uuid).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询工作区 uuid=%s", uuid)
	}
	return &ws, nil
}

// FindPublicPage 分页查询公开工作区
func (r *workspaceRepository) FindPublicPage(page, pageSize int) ([]model.Workspace, int64, error) {
	var total int64
	query := r.db.Model(&model.Workspace{}).Where("type = ?", model.WorkspaceTypePublic)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, wrapDBError(err, "统计公开工作区")
	}
	var list []model.Workspace
	if err := r.db.Where("type = ?", model.WorkspaceTypePublic).
		Order("created_at DESC").Order("id DESC").
		Scopes(paginate(page, pageSize)).Find(&list).Error; err != nil {
		return nil, 0, wrapDBError(err, "查询公开工作区")
	}
	return list, total, nil
}

// FindByMember 用户作为成员的工作区
func (r *workspaceRepository) FindByMember(userUuid, workspaceType string) ([]model.Workspace, error) {
	var list []model.Workspace
	query := r.db.Model(&model.Workspace{}).
		Joins("JOIN workspace_member wm ON wm.workspace_uuid = workspace.uuid AND wm.deleted_at IS NULL").
		Where("wm.user_uuid = ?", userUuid)
	if workspaceType != "" {
		query = query.Where("workspace.type = ?", workspaceType)
	}
	if err := query.Order("workspace.created_at DESC").Find(&list).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询用户工作区 user=%s", userUuid)
	}
	return list, nil
}

// Create 创建工作区
func (r *workspaceRepository) Create(workspace *model.Workspace) error {
	if err := r.db.Create(workspace).Error; err != nil {
		return wrapDBError(err, "创建工作区")
	}
	return nil
}

// UpdateName 修改工作区名称
func (r *workspaceRepository) UpdateName(uuid, name string) error {
	result := r.db.Model(&model.Workspace{}).Where("uuid = ?", uuid).Update("name", name)
	if result.Error != nil {
		return wrapDBErrorf(result.Error, "更新工作区 uuid=%s", uuid)
	}
	if result.RowsAffected == 0 {
		return wrapDBErrorf(gorm.ErrRecordNotFound, "工作区不存在 uuid=%s", uuid)
	}
	return nil
}

// Delete 硬删除，uuid 唯一索引可以复用
func (r *workspaceRepository) Delete(uuid string) error {
	if err := r.db.Unscoped().Where("uuid = ?", uuid).Delete(&model.Workspace{}).Error; err != nil {
		return wrapDBErrorf(err, "删除工作区 uuid=%s", uuid)
	}
	return nil
}
