package request

// CreateGroupChannelRequest 创建群聊频道请求
// 使用位置:
//   - handler/channel_handler.go: CreateGroupChannelHandler
type CreateGroupChannelRequest struct {
	// OwnerId 创建人用户ID，由 JWT 中间件填充，成为群主
	OwnerId int64 `json:"-"`
	// MemberIds 被拉入群聊的用户ID列表，不含创建人
	MemberIds []int64 `json:"member_ids" binding:"required,min=1"`
	// ChannelName 群名称，留空时由前四位成员昵称拼接
	ChannelName string `json:"channel_name" binding:"max=64"`
	Avatar      string `json:"avatar" binding:"max=255"`
}
