package request

import "umazing_chat_server/pkg/constants"

// PageRequest 分页参数，pageNo 从 1 开始
type PageRequest struct {
	PageNo   int `json:"pageNo" form:"pageNo" binding:"omitempty,min=1"`
	PageSize int `json:"pageSize" form:"pageSize" binding:"omitempty,min=1"`
}

// Normalize 填充默认值并限制单页大小
func (p *PageRequest) Normalize() {
	if p.PageNo < 1 {
		p.PageNo = 1
	}
	if p.PageSize < 1 {
		p.PageSize = constants.DEFAULT_PAGE_SIZE
	}
	if p.PageSize > constants.MAX_PAGE_SIZE {
		p.PageSize = constants.MAX_PAGE_SIZE
	}
}
