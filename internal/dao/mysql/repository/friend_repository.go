package repository

import (
	"nova_chat_server/internal/model"

	"gorm.io/gorm"
)

// friendRepository FriendRepository 接口的实现
type friendRepository struct {
	db *gorm.DB
}

// NewFriendRepository 创建 FriendRepository 实例
func NewFriendRepository(db *gorm.DB) FriendRepository {
	return &friendRepository{db: db}
}

// FindByUniqueId 按自然键查找未删除的好友关系
func (r *friendRepository) FindByUniqueId(uniqueId string) (*model.Friend, error) {
	var friend model.Friend
	if err := r.db.First(&friend, "unique_id = ?", uniqueId).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询好友关系 unique_id=%s", uniqueId)
	}
	return &friend, nil
}

// FindByUniqueIdUnscoped 按自然键查找好友关系，包含已软删除的
func (r *friendRepository) FindByUniqueIdUnscoped(uniqueId string) (*model.Friend, error) {
	var friend model.Friend
	if err := r.db.Unscoped().First(&friend, "unique_id = ?", uniqueId).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询好友关系 unique_id=%s", uniqueId)
	}
	return &friend, nil
}

// FindFriendsOf 查找用户的所有未删除好友关系，两个方向都算
func (r *friendRepository) FindFriendsOf(userId int64) ([]model.Friend, error) {
	var friends []model.Friend
	if err := r.db.Where("owner_id = ? OR friend_id = ?", userId, userId).Find(&friends).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询好友列表 user_id=%d", userId)
	}
	return friends, nil
}

// Create 创建好友关系
// unique_id 上有唯一索引，并发下的重复创建会以 CodeConflict 冒出来
func (r *friendRepository) Create(friend *model.Friend) error {
	if err := r.db.Create(friend).Error; err != nil {
		return wrapDBError(err, "创建好友关系")
	}
	return nil
}

// Restore 清除软删除标记，恢复好友关系
func (r *friendRepository) Restore(uniqueId string) error {
	err := r.db.Unscoped().Model(&model.Friend{}).
		Where("unique_id = ?", uniqueId).
		Update("deleted_at", nil).Error
	if err != nil {
		return wrapDBErrorf(err, "恢复好友关系 unique_id=%s", uniqueId)
	}
	return nil
}

// SoftDeleteByUniqueId 软删除好友关系
func (r *friendRepository) SoftDeleteByUniqueId(uniqueId string) error {
	if err := r.db.Where("unique_id = ?", uniqueId).Delete(&model.Friend{}).Error; err != nil {
		return wrapDBErrorf(err, "删除好友关系 unique_id=%s", uniqueId)
	}
	return nil
}
