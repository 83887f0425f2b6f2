package respond

// FriendRequestRespond 好友申请响应，附带申请人公开信息
// pending_friend_request_list 事件的单个元素就是这个结构
type FriendRequestRespond struct {
	RequestId   uint                `json:"request_id"`
	RequesterId int64               `json:"requester_id"`
	ReceiverId  int64               `json:"receiver_id"`
	Status      int8                `json:"status"`
	Message     string              `json:"message"`
	CreatedAt   string              `json:"created_at"`
	FromUser    *GetUserInfoRespond `json:"from_user,omitempty"`
	ToUser      *GetUserInfoRespond `json:"to_user,omitempty"`
}

// FriendRespond 好友列表的单个元素
type FriendRespond struct {
	FriendId int64  `json:"friend_id"`
	UniqueId string `json:"unique_id"`
	// ChannelId 好友频道ID，查历史消息和发消息都用它
	ChannelId string              `json:"channel_id"`
	Remark    string              `json:"remark"`
	GroupName string              `json:"group_name"`
	UserInfo  *GetUserInfoRespond `json:"user_info,omitempty"`
}
