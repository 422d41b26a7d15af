package constants

import "time"

const (
	DEFAULT_PAGE_SIZE = 20  // 历史消息默认分页大小
	MAX_PAGE_SIZE     = 100 // 历史消息最大分页大小

	PROFILE_CACHE_TTL = 30 * time.Minute // 用户资料缓存有效期
)

// Redis key 前缀
const (
	USER_TOKEN_KEY_PREFIX   = "user_token:"     // 单点登录 Refresh Token ID
	USER_PROFILE_KEY_PREFIX = "user_profile_"   // 用户资料缓存
	PRESENCE_KEY_PREFIX     = "presence:topic:" // 在线用户集合（按 topic）
)
