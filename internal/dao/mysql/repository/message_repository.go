package repository

import (
	"nova_chat_server/internal/model"

	"gorm.io/gorm"
)

// messageRepository MessageRepository 接口的实现
type messageRepository struct {
	db *gorm.DB
}

// NewMessageRepository 创建 MessageRepository 实例
func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

// FindByMessageId 根据雪花 ID 查找消息
func (r *messageRepository) FindByMessageId(messageId string) (*model.Message, error) {
	var message model.Message
	if err := r.db.First(&message, "message_id = ?", messageId).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询消息 message_id=%s", messageId)
	}
	return &message, nil
}

// FindByChannelId 分页查找频道消息
// 雪花 ID 按时间严格递增，按 message_id 排序即按时间排序
func (r *messageRepository) FindByChannelId(channelId string, page, pageSize int) ([]model.Message, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 50
	}
	var total int64
	if err := r.db.Model(&model.Message{}).Where("channel_id = ?", channelId).Count(&total).Error; err != nil {
		return nil, 0, wrapDBErrorf(err, "统计频道消息 channel_id=%s", channelId)
	}
	var messages []model.Message
	err := r.db.Where("channel_id = ?", channelId).
		Order("message_id ASC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&messages).Error
	if err != nil {
		return nil, 0, wrapDBErrorf(err, "查询频道消息 channel_id=%s", channelId)
	}
	return messages, total, nil
}

// Create 写入单条消息
func (r *messageRepository) Create(message *model.Message) error {
	if err := r.db.Create(message).Error; err != nil {
		return wrapDBError(err, "创建消息")
	}
	return nil
}

// CreateBatch 批量写入消息
func (r *messageRepository) CreateBatch(messages []model.Message) error {
	if len(messages) == 0 {
		return nil
	}
	if err := r.db.Create(&messages).Error; err != nil {
		return wrapDBError(err, "批量创建消息")
	}
	return nil
}

// HardDeleteByChannelId 物理删除频道的所有消息
// 删除好友时消息历史是真删，频道和关系只是软删
func (r *messageRepository) HardDeleteByChannelId(channelId string) error {
	err := r.db.Unscoped().Where("channel_id = ?", channelId).Delete(&model.Message{}).Error
	if err != nil {
		return wrapDBErrorf(err, "清空频道消息 channel_id=%s", channelId)
	}
	return nil
}
