package respond

// GetUserInfoRespond 用户公开信息响应
// 使用位置:
//   - internal/service/user/service.go: GetPublicInfo, GetPublicInfoList
type GetUserInfoRespond struct {
	UserId   int64  `json:"user_id"`
	Username string `json:"username"`
	Nickname string `json:"nickname"`
	Avatar   string `json:"avatar"`
	Slogan   string `json:"slogan"`
	Gender   int8   `json:"gender"`
}
