package redis

import (
	"context"

	"umazing_chat_server/pkg/constants"
)

// PresenceStore 把进程内的 topic 在线状态镜像到 Redis 集合
// 键为 presence:topic:<topic>，成员为用户 ID；只用于查询，不参与推送
type PresenceStore struct {
	cache CacheService
}

// NewPresenceStore cache 为 nil 时所有操作都是空操作
func NewPresenceStore(cache CacheService) *PresenceStore {
	return &PresenceStore{cache: cache}
}

func presenceKey(topic string) string {
	return constants.PRESENCE_KEY_PREFIX + topic
}

// Online 记录用户出现在 topic 中
func (p *PresenceStore) Online(ctx context.Context, topic, userID string) error {
	if p == nil || p.cache == nil {
		return nil
	}
	return p.cache.AddToSet(ctx, presenceKey(topic), userID)
}

// Offline 用户在 topic 中已没有任何连接
func (p *PresenceStore) Offline(ctx context.Context, topic, userID string) error {
	if p == nil || p.cache == nil {
		return nil
	}
	return p.cache.RemoveFromSet(ctx, presenceKey(topic), userID)
}

// Members topic 中在线的用户
func (p *PresenceStore) Members(ctx context.Context, topic string) ([]string, error) {
	if p == nil || p.cache == nil {
		return nil, nil
	}
	return p.cache.GetSetMembers(ctx, presenceKey(topic))
}

// Reset 清空所有镜像，进程启动时调用，丢弃上次运行残留的在线状态
func (p *PresenceStore) Reset(ctx context.Context) error {
	if p == nil || p.cache == nil {
		return nil
	}
	return p.cache.DeleteByPattern(ctx, constants.PRESENCE_KEY_PREFIX+"*")
}
