// Package message 消息服务，负责消息落库与频道内扇出
package message

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"go.uber.org/zap"

	"nova_chat_server/internal/dao/mysql/repository"
	"nova_chat_server/internal/dto/request"
	"nova_chat_server/internal/dto/respond"
	"nova_chat_server/internal/model"
	"nova_chat_server/internal/service/chat"
	"nova_chat_server/pkg/constants"
	"nova_chat_server/pkg/enum/channel/channel_type_enum"
	"nova_chat_server/pkg/enum/message/msg_from_type_enum"
	"nova_chat_server/pkg/enum/message/msg_status_enum"
	"nova_chat_server/pkg/enum/message/msg_type_enum"
	"nova_chat_server/pkg/errorx"
)

const timeLayout = "2006-01-02 15:04:05"

// IdNode 雪花生成器接口，测试时注入固定序列
type IdNode interface {
	NextID() (string, error)
}

type messageService struct {
	repos          *repository.Repositories
	notifier       chat.Notifier
	messageNode    IdNode
	attachmentNode IdNode
}

// NewMessageService 创建消息服务
func NewMessageService(
	repos *repository.Repositories,
	notifier chat.Notifier,
	messageNode, attachmentNode IdNode,
) *messageService {
	return &messageService{
		repos:          repos,
		notifier:       notifier,
		messageNode:    messageNode,
		attachmentNode: attachmentNode,
	}
}

// MsgTypeByMimeType 根据 MIME 类型推断消息类型
// 主类型 image/video/audio 各自映射，application/pdf 单独识别，其余一律按普通文件处理
func MsgTypeByMimeType(mimeType string) int8 {
	major, minor, _ := strings.Cut(mimeType, "/")
	switch major {
	case "image":
		return msg_type_enum.IMAGE
	case "video":
		return msg_type_enum.VIDEO
	case "audio":
		return msg_type_enum.AUDIO
	case "application":
		if minor == "pdf" {
			return msg_type_enum.PDF
		}
	}
	return msg_type_enum.FILE
}

// SendMessage 发送消息
// 1. 校验发送者是频道成员
// 2. 按 MimeType 推断缺省的消息类型
// 3. 消息落库并刷新频道最后一条消息
// 4. 向频道全体成员扇出 message_create，离线成员跳过，不影响返回结果
func (s *messageService) SendMessage(ctx context.Context, req *request.SendMessageRequest) (*respond.MessageRespond, error) {
	// 1. 校验频道和成员资格
	channel, err := s.repos.Channel.FindByChannelId(req.ChannelId)
	if err != nil {
		if errorx.IsNotFound(err) {
			return nil, errorx.New(errorx.CodeChannelNotFound, "频道不存在")
		}
		return nil, err
	}
	if _, err := s.repos.ChannelMember.FindByChannelIdAndMemberId(req.ChannelId, req.AuthorId); err != nil {
		if errorx.IsNotFound(err) {
			return nil, errorx.Newf(errorx.CodeNotChannelMember, "用户 %d 不是频道 %s 的成员", req.AuthorId, req.ChannelId)
		}
		return nil, err
	}

	// 2. 消息类型缺省时按 MIME 推断，没有 MIME 按纯文本处理
	msgType := req.MsgType
	if msgType == 0 {
		if req.MimeType != "" {
			msgType = MsgTypeByMimeType(req.MimeType)
		} else {
			msgType = msg_type_enum.TEXT
		}
	}

	// 2.1 回复消息校验引用目标存在
	if req.IsReply {
		if req.MessageReferenceId == "" {
			return nil, errorx.New(errorx.CodeInvalidParam, "回复消息缺少引用的消息ID")
		}
		if _, err := s.repos.Message.FindByMessageId(req.MessageReferenceId); err != nil {
			if errorx.IsNotFound(err) {
				return nil, errorx.New(errorx.CodeNotFound, "被回复的消息不存在")
			}
			return nil, err
		}
	}

	// 2.2 附件校验：引用的附件必须已登记
	var attachments []model.Attachment
	if len(req.AttachmentIds) > 0 {
		attachments, err = s.repos.Attachment.FindByAttachmentIds(req.AttachmentIds)
		if err != nil {
			return nil, err
		}
		if len(attachments) != len(req.AttachmentIds) {
			return nil, errorx.Newf(errorx.CodeNotFound, "部分附件不存在，期望 %d 个，找到 %d 个", len(req.AttachmentIds), len(attachments))
		}
	}

	// 3. 落库
	messageId, err := s.messageNode.NextID()
	if err != nil {
		return nil, err
	}
	msg := &model.Message{
		MessageId:          messageId,
		ChannelId:          req.ChannelId,
		AuthorId:           req.AuthorId,
		Content:            req.Content,
		MsgType:            msgType,
		MsgStatus:          msg_status_enum.UNREAD,
		MsgFromType:        msgFromType(channel.ChannelType),
		IsReply:            req.IsReply,
		MessageReferenceId: req.MessageReferenceId,
		MentionUserIds:     marshalInt64s(req.MentionUserIds),
		AttachmentIds:      marshalStrings(req.AttachmentIds),
	}
	err = s.repos.Transaction(func(tx *repository.Repositories) error {
		if err := tx.Message.Create(msg); err != nil {
			return err
		}
		return tx.Channel.UpdateLastMessage(channel.ChannelId, messageId, time.Now())
	})
	if err != nil {
		zap.L().Error("消息落库失败",
			zap.String("channelId", req.ChannelId), zap.Int64("authorId", req.AuthorId), zap.Error(err))
		return nil, errorx.ErrServerBusy
	}

	// 4. 组装载荷并扇出，推送失败只记日志
	resp, err := s.assembleRespond(msg, attachments)
	if err != nil {
		return nil, err
	}
	members, err := s.repos.ChannelMember.FindByChannelId(req.ChannelId)
	if err == nil {
		memberIds := make([]int64, 0, len(members))
		for i := range members {
			memberIds = append(memberIds, members[i].MemberId)
		}
		if _, err := s.notifier.NotifyMany(ctx, memberIds, constants.EventMessageCreate, resp); err != nil {
			zap.L().Warn("message_create fanout failed", zap.String("messageId", messageId), zap.Error(err))
		}
	}
	return resp, nil
}

// GetMessageList 分页拉取频道消息，按消息雪花 ID 升序即按发送时间升序
func (s *messageService) GetMessageList(ctx context.Context, req *request.GetMessageListRequest) (*respond.GetMessageListRespond, error) {
	if _, err := s.repos.Channel.FindByChannelId(req.ChannelId); err != nil {
		if errorx.IsNotFound(err) {
			return nil, errorx.New(errorx.CodeChannelNotFound, "频道不存在")
		}
		return nil, err
	}
	page, pageSize := req.Page, req.PageSize
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > constants.MAX_PAGE_SIZE {
		pageSize = constants.DEFAULT_PAGE_SIZE
	}
	messages, total, err := s.repos.Message.FindByChannelId(req.ChannelId, page, pageSize)
	if err != nil {
		return nil, err
	}

	resp := &respond.GetMessageListRespond{
		Total:    total,
		Page:     page,
		PageSize: pageSize,
		Messages: make([]respond.MessageRespond, 0, len(messages)),
	}
	for i := range messages {
		item, err := s.assembleRespond(&messages[i], nil)
		if err != nil {
			return nil, err
		}
		resp.Messages = append(resp.Messages, *item)
	}
	return resp, nil
}

// SaveAttachment 登记附件元信息，返回分配的附件雪花 ID
func (s *messageService) SaveAttachment(ctx context.Context, req *request.UploadAttachmentRequest) (*respond.AttachmentRespond, error) {
	attachmentId, err := s.attachmentNode.NextID()
	if err != nil {
		return nil, err
	}
	attachment := &model.Attachment{
		AttachmentId: attachmentId,
		FileName:     req.FileName,
		FileType:     req.FileType,
		FileSize:     req.FileSize,
		Url:          req.Url,
		UploaderId:   req.UploaderId,
	}
	if err := s.repos.Attachment.Create(attachment); err != nil {
		return nil, err
	}
	return &respond.AttachmentRespond{
		AttachmentId: attachment.AttachmentId,
		FileName:     attachment.FileName,
		FileType:     attachment.FileType,
		FileSize:     attachment.FileSize,
		Url:          attachment.Url,
	}, nil
}

// assembleRespond 消息模型转响应体，补齐作者、附件和提及用户信息
// attachments 为空时按消息内记录的附件 ID 回查
func (s *messageService) assembleRespond(msg *model.Message, attachments []model.Attachment) (*respond.MessageRespond, error) {
	resp := &respond.MessageRespond{
		MessageId:          msg.MessageId,
		ChannelId:          msg.ChannelId,
		AuthorId:           msg.AuthorId,
		Content:            msg.Content,
		MsgType:            msg.MsgType,
		MsgStatus:          msg.MsgStatus,
		MsgFromType:        msg.MsgFromType,
		IsApply:            msg.IsApply,
		IsReply:            msg.IsReply,
		MessageReferenceId: msg.MessageReferenceId,
		CreatedAt:          msg.CreatedAt.Format(timeLayout),
	}

	if author, err := s.repos.User.FindById(msg.AuthorId); err == nil {
		resp.Author = toUserInfoRespond(author)
	} else if !errorx.IsNotFound(err) {
		return nil, err
	}

	mentionIds, err := unmarshalInt64s(msg.MentionUserIds)
	if err != nil {
		return nil, err
	}
	if len(mentionIds) > 0 {
		resp.MentionUserIds = mentionIds
		users, err := s.repos.User.FindByIds(mentionIds)
		if err != nil {
			return nil, err
		}
		resp.Mentions = make([]respond.GetUserInfoRespond, 0, len(users))
		for i := range users {
			resp.Mentions = append(resp.Mentions, *toUserInfoRespond(&users[i]))
		}
	}

	attachmentIds, err := unmarshalStrings(msg.AttachmentIds)
	if err != nil {
		return nil, err
	}
	if len(attachmentIds) > 0 {
		resp.AttachmentIds = attachmentIds
		if attachments == nil {
			attachments, err = s.repos.Attachment.FindByAttachmentIds(attachmentIds)
			if err != nil {
				return nil, err
			}
		}
		resp.Attachments = make([]respond.AttachmentRespond, 0, len(attachments))
		for i := range attachments {
			resp.Attachments = append(resp.Attachments, respond.AttachmentRespond{
				AttachmentId: attachments[i].AttachmentId,
				FileName:     attachments[i].FileName,
				FileType:     attachments[i].FileType,
				FileSize:     attachments[i].FileSize,
				Url:          attachments[i].Url,
			})
		}
	}
	return resp, nil
}

// msgFromType 按频道类型决定消息来源，好友频道为用户消息，群频道为群消息
func msgFromType(channelType int8) int8 {
	if channelType == channel_type_enum.GROUP {
		return msg_from_type_enum.GROUP
	}
	return msg_from_type_enum.USER
}

func toUserInfoRespond(user *model.UserInfo) *respond.GetUserInfoRespond {
	return &respond.GetUserInfoRespond{
		UserId:   int64(user.ID),
		Username: user.Username,
		Nickname: user.Nickname,
		Avatar:   user.Avatar,
		Slogan:   user.Slogan,
		Gender:   user.Gender,
	}
}

func marshalInt64s(ids []int64) string {
	if len(ids) == 0 {
		return ""
	}
	data, _ := json.Marshal(ids)
	return string(data)
}

func unmarshalInt64s(raw string) ([]int64, error) {
	if raw == "" {
		return nil, nil
	}
	var ids []int64
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		return nil, errorx.Wrap(err, errorx.CodeDBError, "提及用户列表反序列化失败")
	}
	return ids, nil
}

func marshalStrings(ids []string) string {
	if len(ids) == 0 {
		return ""
	}
	data, _ := json.Marshal(ids)
	return string(data)
}

func unmarshalStrings(raw string) ([]string, error) {
	if raw == "" {
		return nil, nil
	}
	var ids []string
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		return nil, errorx.Wrap(err, errorx.CodeDBError, "附件列表反序列化失败")
	}
	return ids, nil
}
