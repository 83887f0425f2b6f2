package model

import (
	"gorm.io/gorm"
)

// Attachment 消息附件。文件本体存对象存储，这里只存访问链接和元信息
type Attachment struct {
	gorm.Model
	AttachmentId string `gorm:"column:attachment_id;uniqueIndex;type:char(20);not null;comment:附件雪花ID"`
	FileName     string `gorm:"column:file_name;type:varchar(128);comment:文件名"`
	FileType     string `gorm:"column:file_type;type:varchar(64);comment:文件MIME类型"`
	FileSize     int64  `gorm:"column:file_size;comment:文件大小(字节)"`
	Url          string `gorm:"column:url;type:varchar(255);comment:访问链接"`
	UploaderId   int64  `gorm:"column:uploader_id;index;comment:上传者ID"`
}

func (Attachment) TableName() string {
	return "attachment"
}
