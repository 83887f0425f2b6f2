package repository

import (
	"nova_chat_server/internal/model"

	"gorm.io/gorm"
)

// attachmentRepository AttachmentRepository 接口的实现
type attachmentRepository struct {
	db *gorm.DB
}

// NewAttachmentRepository 创建 AttachmentRepository 实例
func NewAttachmentRepository(db *gorm.DB) AttachmentRepository {
	return &attachmentRepository{db: db}
}

// FindByAttachmentIds 批量根据雪花 ID 查找附件
func (r *attachmentRepository) FindByAttachmentIds(attachmentIds []string) ([]model.Attachment, error) {
	if len(attachmentIds) == 0 {
		return nil, nil
	}
	var attachments []model.Attachment
	if err := r.db.Where("attachment_id IN ?", attachmentIds).Find(&attachments).Error; err != nil {
		return nil, wrapDBError(err, "批量查询附件")
	}
	return attachments, nil
}

// Create 写入附件记录
func (r *attachmentRepository) Create(attachment *model.Attachment) error {
	if err := r.db.Create(attachment).Error; err != nil {
		return wrapDBError(err, "创建附件")
	}
	return nil
}
