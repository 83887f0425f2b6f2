package handler

import (
	"strconv"

	"nova_chat_server/internal/dto/request"
	"nova_chat_server/internal/service"
	"nova_chat_server/pkg/constants"
	"nova_chat_server/pkg/errorx"

	"github.com/gin-gonic/gin"
)

// MessageHandler 消息接口处理器
type MessageHandler struct {
	messageSvc service.MessageService
}

func NewMessageHandler(messageSvc service.MessageService) *MessageHandler {
	return &MessageHandler{messageSvc: messageSvc}
}

// SendMessage 发送消息
// POST /api/message/send
// WebSocket 的 message_send 事件与此接口共用同一个 Service 入口
func (h *MessageHandler) SendMessage(c *gin.Context) {
	var req request.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	userId, ok := requireCurrentUserId(c)
	if !ok {
		return
	}
	req.AuthorId = userId

	resp, err := h.messageSvc.SendMessage(c.Request.Context(), &req)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, resp)
}

// GetMessageList 分页拉取频道消息，按发送时间倒序
// GET /api/message/list/:channel_id?page=1&page_size=20
func (h *MessageHandler) GetMessageList(c *gin.Context) {
	channelId := c.Param("channel_id")
	if channelId == "" {
		HandleError(c, errorx.ErrInvalidParam)
		return
	}
	// 分页参数非法时由 Service 层回退到默认值
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "0"))

	req := &request.GetMessageListRequest{
		ChannelId: channelId,
		Page:      page,
		PageSize:  pageSize,
	}
	resp, err := h.messageSvc.GetMessageList(c.Request.Context(), req)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, resp)
}

// UploadAttachment 登记附件元信息
// POST /api/message/attachment
func (h *MessageHandler) UploadAttachment(c *gin.Context) {
	var req request.UploadAttachmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	userId, ok := requireCurrentUserId(c)
	if !ok {
		return
	}
	req.UploaderId = userId

	if req.FileSize > constants.FILE_MAX_SIZE*1024 {
		HandleError(c, errorx.New(errorx.CodeInvalidParam, "文件大小超出限制"))
		return
	}

	resp, err := h.messageSvc.SaveAttachment(c.Request.Context(), &req)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, resp)
}
