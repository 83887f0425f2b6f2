package request

// UpdateUserInfoRequest 更新用户资料请求，零值字段不更新
type UpdateUserInfoRequest struct {
	// UserId 由 JWT 中间件填充，不从请求体读取
	UserId   int64  `json:"-"`
	Nickname string `json:"nickname"`
	Avatar   string `json:"avatar"`
	Email    string `json:"email" binding:"omitempty,email"`
	Slogan   string `json:"slogan"`
	// Gender 0.男 1.女 2.未知，不传表示不更新
	Gender *int8 `json:"gender" binding:"omitempty,oneof=0 1 2"`
}

// RefreshTokenRequest 刷新访问令牌请求
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}
