package request

// SendMessageRequest 发送消息请求
type SendMessageRequest struct {
	ChannelId string `json:"channel_id" binding:"required"`
	AuthorId  int64  `json:"-"`
	Content   string `json:"content"`
	// MsgType 为 0 时按 MimeType 推断
	MsgType  int8   `json:"msg_type"`
	MimeType string `json:"mime_type"`
	// IsReply 为 true 时 MessageReferenceId 必填
	IsReply            bool     `json:"is_reply"`
	MessageReferenceId string   `json:"message_reference_id"`
	MentionUserIds     []int64  `json:"mention_user_ids"`
	AttachmentIds      []string `json:"attachment_ids"`
}

// GetMessageListRequest 分页拉取频道消息请求
type GetMessageListRequest struct {
	ChannelId string `json:"channel_id" binding:"required"`
	Page      int    `json:"page"`
	PageSize  int    `json:"page_size"`
}
