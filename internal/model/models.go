package model

// All 返回需要迁移的全部表模型
func All() []any {
	return []any{
		&UserInfo{},
		&ChatRoom{},
		&Workspace{},
		&WorkspaceMember{},
		&Message{},
		&MessageRead{},
	}
}
