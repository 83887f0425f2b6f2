package respond

// ChannelRespond 频道信息
type ChannelRespond struct {
	ChannelId     string `json:"channel_id"`
	ChannelName   string `json:"channel_name"`
	Avatar        string `json:"avatar"`
	ChannelType   int8   `json:"channel_type"`
	LastMessageId string `json:"last_message_id"`
	LastMessageAt string `json:"last_message_at"`
}

// ChannelMemberRespond 频道成员信息
type ChannelMemberRespond struct {
	ChannelId        string `json:"channel_id"`
	MemberId         int64  `json:"member_id"`
	Role             int8   `json:"role"`
	AliasChannelName string `json:"alias_channel_name"`
	AliasMemberName  string `json:"alias_member_name"`
	ChannelType      int8   `json:"channel_type"`
}

// ChannelCreateRespond channel_create 事件的载荷
// 推给每个成员时 Member 是接收者自己的成员记录
type ChannelCreateRespond struct {
	Member  ChannelMemberRespond `json:"member"`
	Channel ChannelRespond       `json:"channel"`
}
