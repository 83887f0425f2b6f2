package repository

import (
	"nova_chat_server/internal/model"
	"nova_chat_server/pkg/enum/friend_request/friend_request_status_enum"

	"gorm.io/gorm"
)

// friendRequestRepository FriendRequestRepository 接口的实现
type friendRequestRepository struct {
	db *gorm.DB
}

// NewFriendRequestRepository 创建 FriendRequestRepository 实例
func NewFriendRequestRepository(db *gorm.DB) FriendRequestRepository {
	return &friendRequestRepository{db: db}
}

// FindById 根据主键查找申请记录
func (r *friendRequestRepository) FindById(id uint) (*model.FriendRequest, error) {
	var req model.FriendRequest
	if err := r.db.First(&req, "id = ?", id).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询好友申请 id=%d", id)
	}
	return &req, nil
}

// FindByPair 按无序对查找申请记录
// 存储时方向任意，查询必须两个方向都匹配。这里用 Unscoped 把
// 已软删除的记录一并查出来，再次申请时原地复活而不是新建一行
func (r *friendRequestRepository) FindByPair(a, b int64) (*model.FriendRequest, error) {
	var req model.FriendRequest
	err := r.db.Unscoped().
		Where("(requester_id = ? AND receiver_id = ?) OR (requester_id = ? AND receiver_id = ?)", a, b, b, a).
		Order("id DESC").
		First(&req).Error
	if err != nil {
		return nil, wrapDBErrorf(err, "查询好友申请 pair=(%d,%d)", a, b)
	}
	return &req, nil
}

// FindPendingByReceiver 查找接收人的所有待处理申请
func (r *friendRequestRepository) FindPendingByReceiver(receiverId int64) ([]model.FriendRequest, error) {
	var reqs []model.FriendRequest
	err := r.db.Where("receiver_id = ? AND status = ?", receiverId, friend_request_status_enum.PENDING).
		Order("id DESC").
		Find(&reqs).Error
	if err != nil {
		return nil, wrapDBErrorf(err, "查询待处理申请 receiver_id=%d", receiverId)
	}
	return reqs, nil
}

// FindByRequester 查找申请人发出的所有未删除申请
func (r *friendRequestRepository) FindByRequester(requesterId int64) ([]model.FriendRequest, error) {
	var reqs []model.FriendRequest
	err := r.db.Where("requester_id = ?", requesterId).
		Order("id DESC").
		Find(&reqs).Error
	if err != nil {
		return nil, wrapDBErrorf(err, "查询发出的申请 requester_id=%d", requesterId)
	}
	return reqs, nil
}

// Create 创建新申请
func (r *friendRequestRepository) Create(req *model.FriendRequest) error {
	if err := r.db.Create(req).Error; err != nil {
		return wrapDBError(err, "创建好友申请")
	}
	return nil
}

// Update 全字段更新申请记录
// 使用 Unscoped 保存，这样把 DeletedAt 置零就能复活已软删除的记录
func (r *friendRequestRepository) Update(req *model.FriendRequest) error {
	if err := r.db.Unscoped().Save(req).Error; err != nil {
		return wrapDBError(err, "更新好友申请")
	}
	return nil
}

// UpdateStatus 更新申请状态
func (r *friendRequestRepository) UpdateStatus(id uint, status int8) error {
	if err := r.db.Model(&model.FriendRequest{}).Where("id = ?", id).Update("status", status).Error; err != nil {
		return wrapDBErrorf(err, "更新申请状态 id=%d", id)
	}
	return nil
}

// SoftDeleteByPair 按无序对软删除申请记录
func (r *friendRequestRepository) SoftDeleteByPair(a, b int64) error {
	err := r.db.
		Where("(requester_id = ? AND receiver_id = ?) OR (requester_id = ? AND receiver_id = ?)", a, b, b, a).
		Delete(&model.FriendRequest{}).Error
	if err != nil {
		return wrapDBErrorf(err, "删除好友申请 pair=(%d,%d)", a, b)
	}
	return nil
}
