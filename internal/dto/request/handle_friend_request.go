package request

// AcceptFriendRequest 通过好友申请
type AcceptFriendRequest struct {
	// UserId 当前登录用户ID，由 JWT 中间件填充，必须是申请的接收方
	UserId int64 `json:"-"`
	// RequestId 好友申请记录ID
	RequestId uint `json:"request_id" binding:"required"`
	// Remark 接收方给申请人的备注，留空时退回申请人昵称
	Remark string `json:"remark" binding:"max=32"`
}

// RejectFriendRequest 拒绝好友申请
type RejectFriendRequest struct {
	UserId    int64 `json:"-"`
	RequestId uint  `json:"request_id" binding:"required"`
}

// DeleteFriendRequest 删除好友
type DeleteFriendRequest struct {
	UserId   int64 `json:"-"`
	FriendId int64 `json:"friend_id" binding:"required"`
}
