package repository

import (
	"time"

	"nova_chat_server/internal/model"
	"nova_chat_server/pkg/enum/channel/channel_type_enum"

	"gorm.io/gorm"
)

// channelRepository ChannelRepository 接口的实现
type channelRepository struct {
	db *gorm.DB
}

// NewChannelRepository 创建 ChannelRepository 实例
func NewChannelRepository(db *gorm.DB) ChannelRepository {
	return &channelRepository{db: db}
}

// FindByChannelId 根据雪花 ID 查找未删除的频道
func (r *channelRepository) FindByChannelId(channelId string) (*model.Channel, error) {
	var channel model.Channel
	if err := r.db.First(&channel, "channel_id = ?", channelId).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询频道 channel_id=%s", channelId)
	}
	return &channel, nil
}

// FindByChannelIds 批量根据雪花 ID 查找未删除的频道
func (r *channelRepository) FindByChannelIds(channelIds []string) ([]model.Channel, error) {
	if len(channelIds) == 0 {
		return nil, nil
	}
	var channels []model.Channel
	if err := r.db.Where("channel_id IN ?", channelIds).Find(&channels).Error; err != nil {
		return nil, wrapDBError(err, "批量查询频道")
	}
	return channels, nil
}

// FindFriendChannelByUniqueId 按好友关系自然键查找好友频道
// 包含已软删除的记录，删除好友后重新加回时要恢复原频道而不是新建
func (r *channelRepository) FindFriendChannelByUniqueId(uniqueId string) (*model.Channel, error) {
	var channel model.Channel
	err := r.db.Unscoped().
		Where("channel_type = ? AND friend_unique_id = ?", channel_type_enum.FRIEND, uniqueId).
		First(&channel).Error
	if err != nil {
		return nil, wrapDBErrorf(err, "查询好友频道 unique_id=%s", uniqueId)
	}
	return &channel, nil
}

// Create 创建频道
func (r *channelRepository) Create(channel *model.Channel) error {
	if err := r.db.Create(channel).Error; err != nil {
		return wrapDBError(err, "创建频道")
	}
	return nil
}

// Restore 清除软删除标记，恢复频道
func (r *channelRepository) Restore(channelId string) error {
	err := r.db.Unscoped().Model(&model.Channel{}).
		Where("channel_id = ?", channelId).
		Update("deleted_at", nil).Error
	if err != nil {
		return wrapDBErrorf(err, "恢复频道 channel_id=%s", channelId)
	}
	return nil
}

// SoftDeleteByChannelId 软删除频道
func (r *channelRepository) SoftDeleteByChannelId(channelId string) error {
	if err := r.db.Where("channel_id = ?", channelId).Delete(&model.Channel{}).Error; err != nil {
		return wrapDBErrorf(err, "删除频道 channel_id=%s", channelId)
	}
	return nil
}

// UpdateLastMessage 更新频道的最后一条消息
func (r *channelRepository) UpdateLastMessage(channelId string, messageId string, at time.Time) error {
	err := r.db.Model(&model.Channel{}).
		Where("channel_id = ?", channelId).
		Updates(map[string]interface{}{
			"last_message_id": messageId,
			"last_message_at": at,
		}).Error
	if err != nil {
		return wrapDBErrorf(err, "更新频道最后消息 channel_id=%s", channelId)
	}
	return nil
}
