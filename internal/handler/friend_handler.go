package handler

import (
	"nova_chat_server/internal/dto/request"
	"nova_chat_server/internal/service"

	"github.com/gin-gonic/gin"
)

// FriendHandler 好友接口处理器
type FriendHandler struct {
	friendSvc service.FriendService
}

func NewFriendHandler(friendSvc service.FriendService) *FriendHandler {
	return &FriendHandler{friendSvc: friendSvc}
}

// SendRequest 发起好友申请
// POST /api/friend/request
func (h *FriendHandler) SendRequest(c *gin.Context) {
	var req request.SendFriendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	userId, ok := requireCurrentUserId(c)
	if !ok {
		return
	}
	req.UserId = userId

	if err := h.friendSvc.SendRequest(c.Request.Context(), &req); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}

// AcceptRequest 通过好友申请
// POST /api/friend/accept
func (h *FriendHandler) AcceptRequest(c *gin.Context) {
	var req request.AcceptFriendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	userId, ok := requireCurrentUserId(c)
	if !ok {
		return
	}
	req.UserId = userId

	resp, err := h.friendSvc.AcceptRequest(c.Request.Context(), &req)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, resp)
}

// RejectRequest 拒绝好友申请
// POST /api/friend/reject
func (h *FriendHandler) RejectRequest(c *gin.Context) {
	var req request.RejectFriendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	userId, ok := requireCurrentUserId(c)
	if !ok {
		return
	}
	req.UserId = userId

	if err := h.friendSvc.RejectRequest(c.Request.Context(), &req); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}

// DeleteFriendship 删除好友关系
// POST /api/friend/delete
func (h *FriendHandler) DeleteFriendship(c *gin.Context) {
	var req request.DeleteFriendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	userId, ok := requireCurrentUserId(c)
	if !ok {
		return
	}
	req.UserId = userId

	if err := h.friendSvc.DeleteFriendship(c.Request.Context(), &req); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}

// GetPendingRequests 拉取待处理好友申请列表
// GET /api/friend/pending
func (h *FriendHandler) GetPendingRequests(c *gin.Context) {
	userId, ok := requireCurrentUserId(c)
	if !ok {
		return
	}

	resp, err := h.friendSvc.LoadPendingRequests(c.Request.Context(), userId)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, resp)
}

// GetSentRequests 拉取自己发出的好友申请列表
// GET /api/friend/sent
func (h *FriendHandler) GetSentRequests(c *gin.Context) {
	userId, ok := requireCurrentUserId(c)
	if !ok {
		return
	}

	resp, err := h.friendSvc.LoadSentRequests(c.Request.Context(), userId)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, resp)
}

// GetFriendList 获取好友列表
// GET /api/friend/list
func (h *FriendHandler) GetFriendList(c *gin.Context) {
	userId, ok := requireCurrentUserId(c)
	if !ok {
		return
	}

	resp, err := h.friendSvc.GetFriendList(c.Request.Context(), userId)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, resp)
}
