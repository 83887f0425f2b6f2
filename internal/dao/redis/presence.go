package redis

import (
	"context"
	"encoding/json"
	"strconv"

	"nova_chat_server/pkg/constants"
	"nova_chat_server/pkg/errorx"
)

// OnlineUser 在线用户的会话路由信息，随连接建立写入、断开删除
type OnlineUser struct {
	ClientId    string `json:"clientId"`    // 会话句柄，网关用它定位具体连接
	AccessToken string `json:"accessToken"` // 建连时携带的访问令牌
}

// PresenceDirectory 在线状态目录
// 键格式 online_user_<userId>，值为 JSON，带 TTL。不做唯一性约束：
// 同一用户从第二台设备上线会覆盖旧会话句柄（单活跃投递目标）
type PresenceDirectory struct {
	cache CacheService
}

// NewPresenceDirectory 创建在线状态目录
func NewPresenceDirectory(cache CacheService) *PresenceDirectory {
	return &PresenceDirectory{cache: cache}
}

func presenceKey(userId int64) string {
	return constants.ONLINE_USER_KEY_PREFIX + strconv.FormatInt(userId, 10)
}

// Put 记录用户上线，last-write-wins
func (p *PresenceDirectory) Put(ctx context.Context, userId int64, online *OnlineUser) error {
	data, err := json.Marshal(online)
	if err != nil {
		return errorx.Wrapf(err, errorx.CodeCacheError, "marshal online user %d", userId)
	}
	return p.cache.Set(ctx, presenceKey(userId), string(data), constants.ONLINE_USER_TTL)
}

// Get 查询用户在线信息，不在线返回 (nil, nil)，离线不是错误
func (p *PresenceDirectory) Get(ctx context.Context, userId int64) (*OnlineUser, error) {
	value, err := p.cache.Get(ctx, presenceKey(userId))
	if err != nil {
		return nil, err
	}
	if value == "" {
		return nil, nil
	}
	var online OnlineUser
	if err := json.Unmarshal([]byte(value), &online); err != nil {
		return nil, errorx.Wrapf(err, errorx.CodeCacheError, "unmarshal online user %d", userId)
	}
	return &online, nil
}

// Remove 用户下线时删除在线记录
func (p *PresenceDirectory) Remove(ctx context.Context, userId int64) error {
	return p.cache.Delete(ctx, presenceKey(userId))
}
