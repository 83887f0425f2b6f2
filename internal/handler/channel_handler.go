package handler

import (
	"nova_chat_server/internal/dto/request"
	"nova_chat_server/internal/service"
	"nova_chat_server/pkg/errorx"

	"github.com/gin-gonic/gin"
)

// ChannelHandler 频道接口处理器
type ChannelHandler struct {
	channelSvc service.ChannelService
}

func NewChannelHandler(channelSvc service.ChannelService) *ChannelHandler {
	return &ChannelHandler{channelSvc: channelSvc}
}

// CreateGroupChannel 创建群聊频道
// POST /api/channel/create
func (h *ChannelHandler) CreateGroupChannel(c *gin.Context) {
	var req request.CreateGroupChannelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	userId, ok := requireCurrentUserId(c)
	if !ok {
		return
	}
	req.OwnerId = userId

	resp, err := h.channelSvc.CreateGroupChannel(c.Request.Context(), &req)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, resp)
}

// GetMyChannels 获取当前用户加入的所有频道
// GET /api/channel/my
func (h *ChannelHandler) GetMyChannels(c *gin.Context) {
	userId, ok := requireCurrentUserId(c)
	if !ok {
		return
	}

	resp, err := h.channelSvc.GetMyChannels(c.Request.Context(), userId)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, resp)
}

// GetChannelMembers 获取频道成员列表
// GET /api/channel/members/:channel_id
func (h *ChannelHandler) GetChannelMembers(c *gin.Context) {
	channelId := c.Param("channel_id")
	if channelId == "" {
		HandleError(c, errorx.ErrInvalidParam)
		return
	}

	resp, err := h.channelSvc.GetChannelMembers(c.Request.Context(), channelId)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, resp)
}
