package repository

import (
	"nova_chat_server/internal/model"

	"gorm.io/gorm"
)

// channelMemberRepository ChannelMemberRepository 接口的实现
type channelMemberRepository struct {
	db *gorm.DB
}

// NewChannelMemberRepository 创建 ChannelMemberRepository 实例
func NewChannelMemberRepository(db *gorm.DB) ChannelMemberRepository {
	return &channelMemberRepository{db: db}
}

// FindByChannelId 查找频道的所有未删除成员
func (r *channelMemberRepository) FindByChannelId(channelId string) ([]model.ChannelMember, error) {
	var members []model.ChannelMember
	if err := r.db.Where("channel_id = ?", channelId).Find(&members).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询频道成员 channel_id=%s", channelId)
	}
	return members, nil
}

// FindByChannelIdUnscoped 查找频道的所有成员，包含已软删除的
func (r *channelMemberRepository) FindByChannelIdUnscoped(channelId string) ([]model.ChannelMember, error) {
	var members []model.ChannelMember
	if err := r.db.Unscoped().Where("channel_id = ?", channelId).Find(&members).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询频道成员 channel_id=%s", channelId)
	}
	return members, nil
}

// FindByChannelIdAndMemberId 查找某个成员在频道内的记录
func (r *channelMemberRepository) FindByChannelIdAndMemberId(channelId string, memberId int64) (*model.ChannelMember, error) {
	var member model.ChannelMember
	err := r.db.Where("channel_id = ? AND member_id = ?", channelId, memberId).First(&member).Error
	if err != nil {
		return nil, wrapDBErrorf(err, "查询频道成员 channel_id=%s member_id=%d", channelId, memberId)
	}
	return &member, nil
}

// FindChannelsOfMember 查找用户加入的所有未删除频道成员记录
func (r *channelMemberRepository) FindChannelsOfMember(memberId int64) ([]model.ChannelMember, error) {
	var members []model.ChannelMember
	if err := r.db.Where("member_id = ?", memberId).Find(&members).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询用户频道 member_id=%d", memberId)
	}
	return members, nil
}

// Create 添加频道成员
// (channel_id, member_id) 上有唯一索引，重复加入以 CodeConflict 冒出来
func (r *channelMemberRepository) Create(member *model.ChannelMember) error {
	if err := r.db.Create(member).Error; err != nil {
		return wrapDBError(err, "添加频道成员")
	}
	return nil
}

// CreateBatch 批量添加频道成员，返回实际写入的行数
// 调用方用返回值核对写入数量，数量不符时整个事务回滚
func (r *channelMemberRepository) CreateBatch(members []model.ChannelMember) (int64, error) {
	if len(members) == 0 {
		return 0, nil
	}
	result := r.db.Create(&members)
	if result.Error != nil {
		return 0, wrapDBError(result.Error, "批量添加频道成员")
	}
	return result.RowsAffected, nil
}

// RestoreByChannelId 恢复频道内所有已软删除的成员
func (r *channelMemberRepository) RestoreByChannelId(channelId string) error {
	err := r.db.Unscoped().Model(&model.ChannelMember{}).
		Where("channel_id = ?", channelId).
		Update("deleted_at", nil).Error
	if err != nil {
		return wrapDBErrorf(err, "恢复频道成员 channel_id=%s", channelId)
	}
	return nil
}

// SoftDeleteByChannelId 软删除频道的所有成员
func (r *channelMemberRepository) SoftDeleteByChannelId(channelId string) error {
	if err := r.db.Where("channel_id = ?", channelId).Delete(&model.ChannelMember{}).Error; err != nil {
		return wrapDBErrorf(err, "删除频道成员 channel_id=%s", channelId)
	}
	return nil
}
