// Package repository 提供数据访问层的具体实现
package repository

import (
	"nova_chat_server/internal/model"

	"gorm.io/gorm"
)

// userRepository UserRepository 接口的实现
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository 创建 UserRepository 实例
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// FindById 根据 ID 查找用户
func (r *userRepository) FindById(id int64) (*model.UserInfo, error) {
	var user model.UserInfo
	if err := r.db.First(&user, "id = ?", id).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询用户 id=%d", id)
	}
	return &user, nil
}

// FindByUsername 根据用户名查找用户，注册查重和登录时使用
func (r *userRepository) FindByUsername(username string) (*model.UserInfo, error) {
	var user model.UserInfo
	if err := r.db.First(&user, "username = ?", username).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询用户 username=%s", username)
	}
	return &user, nil
}

// FindByIds 批量根据 ID 查找用户
func (r *userRepository) FindByIds(ids []int64) ([]model.UserInfo, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var users []model.UserInfo
	if err := r.db.Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, wrapDBError(err, "批量查询用户")
	}
	return users, nil
}

// FindAllExcept 查找除指定用户外的所有用户
func (r *userRepository) FindAllExcept(excludeId int64) ([]model.UserInfo, error) {
	var users []model.UserInfo
	if err := r.db.Where("id != ?", excludeId).Find(&users).Error; err != nil {
		return nil, wrapDBError(err, "查询用户列表")
	}
	return users, nil
}

// Create 创建新用户
func (r *userRepository) Create(user *model.UserInfo) error {
	if err := r.db.Create(user).Error; err != nil {
		return wrapDBError(err, "创建用户")
	}
	return nil
}

// Update 更新用户信息（全字段更新）
func (r *userRepository) Update(user *model.UserInfo) error {
	if err := r.db.Save(user).Error; err != nil {
		return wrapDBError(err, "更新用户信息")
	}
	return nil
}
