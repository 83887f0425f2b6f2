package request

// RegisterRequest 用户注册请求
// 使用位置:
//   - handler/user_handler.go: RegisterHandler
type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=32"`
	Password string `json:"password" binding:"required,min=6"`
	Nickname string `json:"nickname" binding:"required"`
	Email    string `json:"email" binding:"omitempty,email"`
}
