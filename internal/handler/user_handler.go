package handler

import (
	"strconv"

	"nova_chat_server/internal/dto/request"
	"nova_chat_server/internal/service"
	"nova_chat_server/pkg/errorx"

	"github.com/gin-gonic/gin"
)

// UserHandler 用户接口处理器
type UserHandler struct {
	userSvc service.UserService
}

func NewUserHandler(userSvc service.UserService) *UserHandler {
	return &UserHandler{userSvc: userSvc}
}

// Register 用户注册
// POST /api/user/register
func (h *UserHandler) Register(c *gin.Context) {
	var req request.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}

	resp, err := h.userSvc.Register(&req)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, resp)
}

// Login 用户登录
// POST /api/user/login
func (h *UserHandler) Login(c *gin.Context) {
	var req request.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}

	resp, err := h.userSvc.Login(&req)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, resp)
}

// RefreshToken 用刷新令牌换取新的访问令牌
// POST /api/user/refresh_token
func (h *UserHandler) RefreshToken(c *gin.Context) {
	var req request.RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}

	resp, err := h.userSvc.RefreshToken(req.RefreshToken)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, resp)
}

// GetUserInfo 查询单个用户的公开信息
// GET /api/user/info/:user_id
func (h *UserHandler) GetUserInfo(c *gin.Context) {
	userId, err := strconv.ParseInt(c.Param("user_id"), 10, 64)
	if err != nil {
		HandleError(c, errorx.ErrInvalidParam)
		return
	}

	resp, err := h.userSvc.GetPublicInfo(c.Request.Context(), userId)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, resp)
}

// GetUserInfoList 批量查询用户公开信息
// POST /api/user/info_list
func (h *UserHandler) GetUserInfoList(c *gin.Context) {
	var req struct {
		UserIds []int64 `json:"user_ids" binding:"required,min=1"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}

	resp, err := h.userSvc.GetPublicInfoList(c.Request.Context(), req.UserIds)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, resp)
}

// UpdateUserInfo 更新当前用户资料，零值字段不更新
// POST /api/user/update
func (h *UserHandler) UpdateUserInfo(c *gin.Context) {
	var req request.UpdateUserInfoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}

	// 只允许修改本人资料
	userId, ok := requireCurrentUserId(c)
	if !ok {
		return
	}
	req.UserId = userId

	if err := h.userSvc.UpdateUserInfo(c.Request.Context(), &req); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}
