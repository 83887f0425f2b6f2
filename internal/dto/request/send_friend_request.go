package request

// SendFriendRequest 发起好友申请
// 使用位置:
//   - handler/friend_handler.go: SendFriendRequestHandler
type SendFriendRequest struct {
	// UserId 申请人用户ID，由 JWT 中间件填充
	UserId int64 `json:"-"`
	// FriendId 被申请添加的好友用户ID
	FriendId int64 `json:"friend_id" binding:"required"`
	// Message 申请附言
	Message string `json:"message" binding:"max=100"`
	// Remark 申请人对对方的备注
	Remark string `json:"remark" binding:"max=32"`
	// GroupName 申请人希望放入的好友分组
	GroupName string `json:"group_name" binding:"max=32"`
}
