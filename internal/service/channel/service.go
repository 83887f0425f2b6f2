// Package channel 频道业务逻辑：群聊创建、频道与成员查询
package channel

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"nova_chat_server/internal/dao/mysql/repository"
	"nova_chat_server/internal/dto/request"
	"nova_chat_server/internal/dto/respond"
	"nova_chat_server/internal/model"
	"nova_chat_server/internal/service/chat"
	"nova_chat_server/pkg/constants"
	"nova_chat_server/pkg/enum/channel/channel_role_enum"
	"nova_chat_server/pkg/enum/channel/channel_type_enum"
	"nova_chat_server/pkg/errorx"
	"nova_chat_server/pkg/util/snowflake"
)

const timeLayout = "2006-01-02 15:04:05"

// channelService 频道业务逻辑实现
type channelService struct {
	repos       *repository.Repositories
	notifier    chat.Notifier
	channelNode *snowflake.Node
}

// NewChannelService 构造函数
func NewChannelService(repos *repository.Repositories, notifier chat.Notifier, channelNode *snowflake.Node) *channelService {
	return &channelService{repos: repos, notifier: notifier, channelNode: channelNode}
}

// CreateGroupChannel 创建群聊频道
// 所有成员信息必须齐全；成员写入数量不符时整体回滚；
// 建群事件推给所有成员，容忍任意成员离线
func (s *channelService) CreateGroupChannel(ctx context.Context, req *request.CreateGroupChannelRequest) (*respond.ChannelRespond, error) {
	// 1. 成员去重，群主始终在列
	allIds := make([]int64, 0, len(req.MemberIds)+1)
	seen := map[int64]bool{req.OwnerId: true}
	allIds = append(allIds, req.OwnerId)
	for _, id := range req.MemberIds {
		if !seen[id] {
			seen[id] = true
			allIds = append(allIds, id)
		}
	}

	// 2. 解析成员信息，缺一个就整体失败
	users, err := s.repos.User.FindByIds(allIds)
	if err != nil {
		zap.L().Error("create group find members error", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	if len(users) != len(allIds) {
		return nil, errorx.Newf(errorx.CodeMembersNotFound, "期望 %d 位成员，实际找到 %d 位", len(allIds), len(users))
	}
	infos := make(map[int64]*model.UserInfo, len(users))
	for i := range users {
		infos[int64(users[i].ID)] = &users[i]
	}

	// 3. 群名缺省时取前四位成员昵称拼接
	channelName := req.ChannelName
	if channelName == "" {
		nicknames := make([]string, 0, 4)
		for _, id := range allIds {
			if len(nicknames) == 4 {
				break
			}
			nicknames = append(nicknames, infos[id].Nickname)
		}
		channelName = strings.Join(nicknames, ",")
	}

	channelId, err := s.channelNode.NextID()
	if err != nil {
		return nil, err
	}
	channel := &model.Channel{
		ChannelId:   channelId,
		ChannelName: channelName,
		Avatar:      req.Avatar,
		ChannelType: channel_type_enum.GROUP,
	}
	members := make([]model.ChannelMember, 0, len(allIds))
	for _, id := range allIds {
		role := channel_role_enum.MEMBER
		if id == req.OwnerId {
			role = channel_role_enum.OWNER
		}
		members = append(members, model.ChannelMember{
			ChannelId:        channelId,
			MemberId:         id,
			Role:             role,
			AliasChannelName: channelName,
			AliasMemberName:  infos[id].Nickname,
			ChannelType:      channel_type_enum.GROUP,
		})
	}

	// 4. 频道和成员在一个事务里写入
	err = s.repos.Transaction(func(tx *repository.Repositories) error {
		if err := tx.Channel.Create(channel); err != nil {
			return err
		}
		count, err := tx.ChannelMember.CreateBatch(members)
		if err != nil {
			if errorx.IsCode(err, errorx.CodeConflict) {
				return errorx.New(errorx.CodeDuplicateMember, "频道成员已存在")
			}
			return err
		}
		if count != int64(len(members)) {
			return errorx.Newf(errorx.CodeDBError, "期望写入 %d 条成员记录，实际 %d 条", len(members), count)
		}
		return nil
	})
	if err != nil {
		code := errorx.GetCode(err)
		if code == errorx.CodeDBError || code == errorx.CodeServerBusy {
			zap.L().Error("create group transaction error", zap.Error(err))
			return nil, errorx.ErrServerBusy
		}
		return nil, err
	}

	// 5. 提交后扇出，离线成员上线后通过频道列表补齐
	for i := range members {
		payload := respond.ChannelCreateRespond{
			Member:  toMemberRespond(&members[i]),
			Channel: toChannelRespond(channel),
		}
		if _, err := s.notifier.Notify(ctx, members[i].MemberId, constants.EventChannelCreate, payload); err != nil {
			zap.L().Warn("channel_create fanout failed", zap.Int64("userId", members[i].MemberId), zap.Error(err))
		}
	}

	resp := toChannelRespond(channel)
	return &resp, nil
}

// GetMyChannels 当前用户加入的所有频道，带自己的成员记录
func (s *channelService) GetMyChannels(ctx context.Context, userId int64) ([]respond.ChannelCreateRespond, error) {
	memberships, err := s.repos.ChannelMember.FindChannelsOfMember(userId)
	if err != nil {
		zap.L().Error("get my channels error", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	channelIds := make([]string, 0, len(memberships))
	for i := range memberships {
		channelIds = append(channelIds, memberships[i].ChannelId)
	}
	channels, err := s.repos.Channel.FindByChannelIds(channelIds)
	if err != nil {
		zap.L().Error("get my channels error", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	channelById := make(map[string]*model.Channel, len(channels))
	for i := range channels {
		channelById[channels[i].ChannelId] = &channels[i]
	}

	result := make([]respond.ChannelCreateRespond, 0, len(memberships))
	for i := range memberships {
		channel, ok := channelById[memberships[i].ChannelId]
		if !ok {
			// 频道已软删除（比如删除好友），成员记录过滤掉
			continue
		}
		result = append(result, respond.ChannelCreateRespond{
			Member:  toMemberRespond(&memberships[i]),
			Channel: toChannelRespond(channel),
		})
	}
	return result, nil
}

// GetChannelMembers 频道的所有未删除成员
func (s *channelService) GetChannelMembers(ctx context.Context, channelId string) ([]respond.ChannelMemberRespond, error) {
	if _, err := s.repos.Channel.FindByChannelId(channelId); err != nil {
		if errorx.IsNotFound(err) {
			return nil, errorx.New(errorx.CodeChannelNotFound, "频道不存在")
		}
		zap.L().Error("get channel members error", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	members, err := s.repos.ChannelMember.FindByChannelId(channelId)
	if err != nil {
		zap.L().Error("get channel members error", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	result := make([]respond.ChannelMemberRespond, 0, len(members))
	for i := range members {
		result = append(result, toMemberRespond(&members[i]))
	}
	return result, nil
}

// GetOtherChannelMemberIds 频道内除指定用户以外的成员 ID
// 信令转发的依据，发送者必须是频道成员，转发永不回到发送者
func (s *channelService) GetOtherChannelMemberIds(ctx context.Context, channelId string, exceptUserId int64) ([]int64, error) {
	members, err := s.repos.ChannelMember.FindByChannelId(channelId)
	if err != nil {
		zap.L().Error("get other members error", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	isMember := false
	others := make([]int64, 0, len(members))
	for i := range members {
		if members[i].MemberId == exceptUserId {
			isMember = true
			continue
		}
		others = append(others, members[i].MemberId)
	}
	if !isMember {
		return nil, errorx.New(errorx.CodeNotChannelMember, "不是频道成员")
	}
	return others, nil
}

func toChannelRespond(channel *model.Channel) respond.ChannelRespond {
	resp := respond.ChannelRespond{
		ChannelId:     channel.ChannelId,
		ChannelName:   channel.ChannelName,
		Avatar:        channel.Avatar,
		ChannelType:   channel.ChannelType,
		LastMessageId: channel.LastMessageId,
	}
	if !channel.LastMessageAt.IsZero() {
		resp.LastMessageAt = channel.LastMessageAt.Format(timeLayout)
	}
	return resp
}

func toMemberRespond(member *model.ChannelMember) respond.ChannelMemberRespond {
	return respond.ChannelMemberRespond{
		ChannelId:        member.ChannelId,
		MemberId:         member.MemberId,
		Role:             member.Role,
		AliasChannelName: member.AliasChannelName,
		AliasMemberName:  member.AliasMemberName,
		ChannelType:      member.ChannelType,
	}
}
