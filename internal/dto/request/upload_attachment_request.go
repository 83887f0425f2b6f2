package request

// UploadAttachmentRequest 登记附件元信息请求，文件本体走对象存储直传
type UploadAttachmentRequest struct {
	FileName   string `json:"file_name" binding:"required"`
	FileType   string `json:"file_type" binding:"required"`
	FileSize   int64  `json:"file_size" binding:"required,min=1"`
	Url        string `json:"url" binding:"required"`
	UploaderId int64  `json:"-"`
}
