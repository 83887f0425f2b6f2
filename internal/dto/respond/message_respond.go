package respond

// AttachmentRespond 附件信息
type AttachmentRespond struct {
	AttachmentId string `json:"attachment_id"`
	FileName     string `json:"file_name"`
	FileType     string `json:"file_type"`
	FileSize     int64  `json:"file_size"`
	Url          string `json:"url"`
}

// MessageRespond message_create 事件的载荷，同时也是消息列表的单个元素
// 附带作者公开信息、附件和提及用户的解析结果
type MessageRespond struct {
	MessageId          string               `json:"message_id"`
	ChannelId          string               `json:"channel_id"`
	AuthorId           int64                `json:"author_id"`
	Content            string               `json:"content"`
	MsgType            int8                 `json:"msg_type"`
	MsgStatus          int8                 `json:"msg_status"`
	MsgFromType        int8                 `json:"msg_from_type"`
	IsApply            bool                 `json:"is_apply"`
	IsReply            bool                 `json:"is_reply"`
	MessageReferenceId string               `json:"message_reference_id,omitempty"`
	MentionUserIds     []int64              `json:"mention_user_ids,omitempty"`
	AttachmentIds      []string             `json:"attachment_ids,omitempty"`
	CreatedAt          string               `json:"created_at"`
	Author             *GetUserInfoRespond  `json:"author,omitempty"`
	Attachments        []AttachmentRespond  `json:"attachments,omitempty"`
	Mentions           []GetUserInfoRespond `json:"mentions,omitempty"`
}

// GetMessageListRespond 分页消息列表响应
type GetMessageListRespond struct {
	Total    int64            `json:"total"`
	Page     int              `json:"page"`
	PageSize int              `json:"page_size"`
	Messages []MessageRespond `json:"messages"`
}
