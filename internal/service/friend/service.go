// Package friend 好友业务逻辑：申请、通过、拒绝、删除，以及通过申请时
// 频道、成员、首批消息的编排。所有写入在一个事务里完成，事件扇出在
// 提交之后进行，扇出失败只记日志、不回滚
package friend

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"nova_chat_server/internal/dao/mysql/repository"
	"nova_chat_server/internal/dto/request"
	"nova_chat_server/internal/dto/respond"
	"nova_chat_server/internal/model"
	"nova_chat_server/internal/service/chat"
	"nova_chat_server/pkg/constants"
	"nova_chat_server/pkg/enum/channel/channel_role_enum"
	"nova_chat_server/pkg/enum/channel/channel_type_enum"
	"nova_chat_server/pkg/enum/friend_request/friend_request_status_enum"
	"nova_chat_server/pkg/enum/message/msg_from_type_enum"
	"nova_chat_server/pkg/enum/message/msg_status_enum"
	"nova_chat_server/pkg/enum/message/msg_type_enum"
	"nova_chat_server/pkg/errorx"
	"nova_chat_server/pkg/util/snowflake"
)

const timeLayout = "2006-01-02 15:04:05"

// friendService 好友业务逻辑实现
type friendService struct {
	repos       *repository.Repositories
	presence    chat.PresenceStore
	notifier    chat.Notifier
	channelNode *snowflake.Node // 频道 ID 生成器
	messageNode *snowflake.Node // 消息 ID 生成器
}

// NewFriendService 构造函数
func NewFriendService(
	repos *repository.Repositories,
	presence chat.PresenceStore,
	notifier chat.Notifier,
	channelNode *snowflake.Node,
	messageNode *snowflake.Node,
) *friendService {
	return &friendService{
		repos:       repos,
		presence:    presence,
		notifier:    notifier,
		channelNode: channelNode,
		messageNode: messageNode,
	}
}

// SendRequest 发起好友申请
// 同一无序对最多一条待处理申请；被拒绝或已删除的旧记录原地复活
func (s *friendService) SendRequest(ctx context.Context, req *request.SendFriendRequest) error {
	// 1. 安全检查
	if req.UserId == req.FriendId {
		return errorx.New(errorx.CodeFriendSelf, "不能添加自己为好友")
	}

	// 2. 校验目标用户存在
	if _, err := s.repos.User.FindById(req.FriendId); err != nil {
		if errorx.IsNotFound(err) {
			return errorx.New(errorx.CodeUserNotExist, "用户不存在")
		}
		zap.L().Error("send request find user error", zap.Error(err))
		return errorx.ErrServerBusy
	}

	// 3. 查历史申请记录（含软删除），决定新建还是复活
	existing, err := s.repos.FriendRequest.FindByPair(req.UserId, req.FriendId)
	switch {
	case err == nil:
		deleted := existing.DeletedAt.Valid
		switch {
		case !deleted && existing.Status == friend_request_status_enum.PENDING:
			return errorx.New(errorx.CodeRequestPending, "已有待处理的好友申请")
		case !deleted && existing.Status == friend_request_status_enum.ACCEPTED:
			// 已通过且未删除，好友关系还在
			return errorx.New(errorx.CodeAlreadyFriends, "已经是好友")
		default:
			// 被拒绝或已软删除，按新方向复活为 PENDING
			existing.RequesterId = req.UserId
			existing.ReceiverId = req.FriendId
			existing.Status = friend_request_status_enum.PENDING
			existing.Message = req.Message
			existing.Remark = req.Remark
			existing.GroupName = req.GroupName
			existing.DeletedAt.Valid = false
			if err := s.repos.FriendRequest.Update(existing); err != nil {
				zap.L().Error("revive friend request error", zap.Error(err))
				return errorx.ErrServerBusy
			}
		}
	case errorx.IsNotFound(err):
		// 4. 没有历史记录，新建
		newReq := &model.FriendRequest{
			RequesterId: req.UserId,
			ReceiverId:  req.FriendId,
			Status:      friend_request_status_enum.PENDING,
			Message:     req.Message,
			Remark:      req.Remark,
			GroupName:   req.GroupName,
		}
		if err := s.repos.FriendRequest.Create(newReq); err != nil {
			zap.L().Error("create friend request error", zap.Error(err))
			return errorx.ErrServerBusy
		}
	default:
		zap.L().Error("find friend request error", zap.Error(err))
		return errorx.ErrServerBusy
	}

	// 5. 推送接收方最新的待处理申请列表，离线或失败都不影响申请本身
	s.pushPendingList(ctx, req.FriendId)
	return nil
}

// AcceptRequest 通过好友申请
// 步骤 1-6 在一个事务内完成，任何一步失败整体回滚；
// 步骤 7 的事件扇出在提交后进行，失败不回滚
func (s *friendService) AcceptRequest(ctx context.Context, req *request.AcceptFriendRequest) (*respond.ChannelCreateRespond, error) {
	// 前置校验：申请归属、不能加自己、接收方必须在线
	record, err := s.repos.FriendRequest.FindById(req.RequestId)
	if err != nil {
		if errorx.IsNotFound(err) {
			return nil, errorx.New(errorx.CodeNotFound, "好友申请不存在")
		}
		zap.L().Error("accept find request error", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	if record.ReceiverId != req.UserId {
		return nil, errorx.New(errorx.CodeNotYourRequest, "这不是发给你的申请")
	}
	if record.RequesterId == req.UserId {
		return nil, errorx.New(errorx.CodeFriendSelf, "不能添加自己为好友")
	}
	online, err := s.presence.Get(ctx, req.UserId)
	if err != nil {
		zap.L().Error("accept presence check error", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	if online == nil {
		// 通过申请会立刻收到扇出，要求接收方有活跃会话
		return nil, errorx.New(errorx.CodeUserOffline, "请先建立连接再通过申请")
	}

	requesterId, acceptorId := record.RequesterId, record.ReceiverId
	uniqueId := UniqueId(requesterId, acceptorId)

	// 事务内产生、提交后扇出要用的状态
	var (
		channel  *model.Channel
		members  []model.ChannelMember
		messages []model.Message
		users    map[int64]*model.UserInfo
	)

	err = s.repos.Transaction(func(tx *repository.Repositories) error {
		// 1. 申请置为已通过
		if err := tx.FriendRequest.UpdateStatus(record.ID, friend_request_status_enum.ACCEPTED); err != nil {
			return err
		}

		// 昵称在好友备注回退、频道命名、成员别名和步骤 7 的扇出里都要用
		userList, err := tx.User.FindByIds([]int64{requesterId, acceptorId})
		if err != nil {
			return err
		}
		users = make(map[int64]*model.UserInfo, 2)
		for i := range userList {
			users[int64(userList[i].ID)] = &userList[i]
		}
		if len(users) != 2 {
			return errorx.New(errorx.CodeUserNotExist, "申请双方必须都存在")
		}

		// 接收方给申请人的备注，留空时退回申请人昵称
		acceptorRemark := req.Remark
		if acceptorRemark == "" {
			acceptorRemark = users[requesterId].Nickname
		}

		// 2-3. 好友关系：不存在则建，软删除则恢复，活跃则报已是好友
		existing, err := tx.Friend.FindByUniqueIdUnscoped(uniqueId)
		switch {
		case errorx.IsNotFound(err):
			newFriend := &model.Friend{
				OwnerId:      requesterId,
				FriendId:     acceptorId,
				UniqueId:     uniqueId,
				OwnerRemark:  record.Remark,
				OwnerGroup:   record.GroupName,
				FriendRemark: acceptorRemark,
			}
			if err := tx.Friend.Create(newFriend); err != nil {
				if errorx.IsCode(err, errorx.CodeConflict) {
					return errorx.New(errorx.CodeAlreadyFriends, "已经是好友")
				}
				return err
			}
		case err != nil:
			return err
		case existing.DeletedAt.Valid:
			if err := tx.Friend.Restore(uniqueId); err != nil {
				return err
			}
		default:
			return errorx.New(errorx.CodeAlreadyFriends, "已经是好友")
		}

		// 4. 频道：不存在则建，软删除则恢复原频道
		channel, err = s.ensureFriendChannel(tx, uniqueId, users[requesterId].Nickname, users[acceptorId].Nickname)
		if err != nil {
			return err
		}

		// 5. 成员：0 条则建两条，有软删除则恢复，恰好两条活跃则保持
		members, err = s.ensureFriendMembers(tx, channel, record, users, acceptorRemark)
		if err != nil {
			return err
		}

		// 6. 两条首批消息：申请人的申请附言 + 接收方的默认通过语
		messages, err = s.createAcceptMessages(tx, channel, record)
		return err
	})
	if err != nil {
		code := errorx.GetCode(err)
		if code == errorx.CodeDBError || code == errorx.CodeServerBusy {
			// 事务内的持久化失败整体回滚，对外只暴露一个粗粒度错误
			zap.L().Error("accept transaction error", zap.Error(err))
			return nil, errorx.ErrServerBusy
		}
		return nil, err
	}

	// 7. 提交后扇出，失败只记日志
	s.fanoutAccept(ctx, channel, members, messages, users)

	return s.channelCreatePayload(channel, members, acceptorId), nil
}

// ensureFriendChannel 查找或创建好友频道，软删除则恢复（保留原频道名）
func (s *friendService) ensureFriendChannel(tx *repository.Repositories, uniqueId, requesterNickname, acceptorNickname string) (*model.Channel, error) {
	channel, err := tx.Channel.FindFriendChannelByUniqueId(uniqueId)
	switch {
	case errorx.IsNotFound(err):
		channelId, err := s.channelNode.NextID()
		if err != nil {
			return nil, err
		}
		channel = &model.Channel{
			ChannelId:      channelId,
			ChannelName:    fmt.Sprintf("%s和%s的聊天", requesterNickname, acceptorNickname),
			ChannelType:    channel_type_enum.FRIEND,
			FriendUniqueId: uniqueId,
		}
		if err := tx.Channel.Create(channel); err != nil {
			return nil, err
		}
		return channel, nil
	case err != nil:
		return nil, err
	case channel.DeletedAt.Valid:
		// 删除好友后重新加回，恢复同一个频道
		if err := tx.Channel.Restore(channel.ChannelId); err != nil {
			return nil, err
		}
		channel.DeletedAt.Valid = false
		return channel, nil
	default:
		return channel, nil
	}
}

// ensureFriendMembers 保证好友频道恰有两条活跃成员记录
// 申请人是 owner，接收方是 member；别名取备注，无备注退回对方昵称
func (s *friendService) ensureFriendMembers(
	tx *repository.Repositories,
	channel *model.Channel,
	record *model.FriendRequest,
	users map[int64]*model.UserInfo,
	acceptorRemark string,
) ([]model.ChannelMember, error) {
	existing, err := tx.ChannelMember.FindByChannelIdUnscoped(channel.ChannelId)
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		hasDeleted := false
		for i := range existing {
			if existing[i].DeletedAt.Valid {
				hasDeleted = true
			}
		}
		if hasDeleted {
			if err := tx.ChannelMember.RestoreByChannelId(channel.ChannelId); err != nil {
				return nil, err
			}
			for i := range existing {
				existing[i].DeletedAt.Valid = false
			}
		}
		return existing, nil
	}

	requester := users[record.RequesterId]
	acceptor := users[record.ReceiverId]
	requesterAlias := record.Remark
	if requesterAlias == "" {
		requesterAlias = acceptor.Nickname
	}
	newMembers := []model.ChannelMember{
		{
			ChannelId:        channel.ChannelId,
			MemberId:         record.RequesterId,
			Role:             channel_role_enum.OWNER,
			AliasChannelName: requesterAlias,
			AliasMemberName:  requester.Nickname,
			ChannelType:      channel_type_enum.FRIEND,
		},
		{
			ChannelId:        channel.ChannelId,
			MemberId:         record.ReceiverId,
			Role:             channel_role_enum.MEMBER,
			AliasChannelName: acceptorRemark,
			AliasMemberName:  acceptor.Nickname,
			ChannelType:      channel_type_enum.FRIEND,
		},
	}
	count, err := tx.ChannelMember.CreateBatch(newMembers)
	if err != nil {
		if errorx.IsCode(err, errorx.CodeConflict) {
			return nil, errorx.New(errorx.CodeDuplicateMember, "频道成员已存在")
		}
		return nil, err
	}
	if count != 2 {
		return nil, errorx.Newf(errorx.CodeDBError, "期望写入 2 条成员记录，实际 %d 条", count)
	}
	return newMembers, nil
}

// createAcceptMessages 写入通过申请时的两条消息并刷新频道最后消息
func (s *friendService) createAcceptMessages(
	tx *repository.Repositories,
	channel *model.Channel,
	record *model.FriendRequest,
) ([]model.Message, error) {
	applyContent := record.Message
	if applyContent == "" {
		applyContent = constants.DEFAULT_APPLY_MSG
	}
	applyId, err := s.messageNode.NextID()
	if err != nil {
		return nil, err
	}
	acceptId, err := s.messageNode.NextID()
	if err != nil {
		return nil, err
	}
	messages := []model.Message{
		{
			MessageId:   applyId,
			ChannelId:   channel.ChannelId,
			AuthorId:    record.RequesterId,
			Content:     applyContent,
			MsgType:     msg_type_enum.TEXT,
			MsgStatus:   msg_status_enum.UNREAD,
			MsgFromType: msg_from_type_enum.USER,
			IsApply:     true,
		},
		{
			MessageId:   acceptId,
			ChannelId:   channel.ChannelId,
			AuthorId:    record.ReceiverId,
			Content:     constants.DEFAULT_ACCEPT_MSG,
			MsgType:     msg_type_enum.TEXT,
			MsgStatus:   msg_status_enum.UNREAD,
			MsgFromType: msg_from_type_enum.USER,
			IsApply:     true,
		},
	}
	if err := tx.Message.CreateBatch(messages); err != nil {
		return nil, err
	}
	if err := tx.Channel.UpdateLastMessage(channel.ChannelId, acceptId, time.Now()); err != nil {
		return nil, err
	}
	return messages, nil
}

// fanoutAccept 通过申请后的事件扇出
// channel_create 推给双方；申请人的消息推给双方，接收方的消息只推给申请人
func (s *friendService) fanoutAccept(
	ctx context.Context,
	channel *model.Channel,
	members []model.ChannelMember,
	messages []model.Message,
	users map[int64]*model.UserInfo,
) {
	for i := range members {
		payload := s.channelCreatePayload(channel, members, members[i].MemberId)
		if _, err := s.notifier.Notify(ctx, members[i].MemberId, constants.EventChannelCreate, payload); err != nil {
			zap.L().Warn("channel_create fanout failed", zap.Int64("userId", members[i].MemberId), zap.Error(err))
		}
	}

	applyMsg, acceptMsg := &messages[0], &messages[1]
	requesterId := applyMsg.AuthorId
	acceptorId := acceptMsg.AuthorId
	if _, err := s.notifier.NotifyMany(ctx, []int64{requesterId, acceptorId},
		constants.EventMessageCreate, toMessageRespond(applyMsg, users[applyMsg.AuthorId])); err != nil {
		zap.L().Warn("message_create fanout failed", zap.Error(err))
	}
	if _, err := s.notifier.Notify(ctx, requesterId,
		constants.EventMessageCreate, toMessageRespond(acceptMsg, users[acceptMsg.AuthorId])); err != nil {
		zap.L().Warn("message_create fanout failed", zap.Error(err))
	}
}

// channelCreatePayload 组装 channel_create 载荷，Member 取接收者自己的成员记录
func (s *friendService) channelCreatePayload(channel *model.Channel, members []model.ChannelMember, memberId int64) *respond.ChannelCreateRespond {
	payload := &respond.ChannelCreateRespond{
		Channel: respond.ChannelRespond{
			ChannelId:     channel.ChannelId,
			ChannelName:   channel.ChannelName,
			Avatar:        channel.Avatar,
			ChannelType:   channel.ChannelType,
			LastMessageId: channel.LastMessageId,
		},
	}
	for i := range members {
		if members[i].MemberId == memberId {
			payload.Member = respond.ChannelMemberRespond{
				ChannelId:        members[i].ChannelId,
				MemberId:         members[i].MemberId,
				Role:             members[i].Role,
				AliasChannelName: members[i].AliasChannelName,
				AliasMemberName:  members[i].AliasMemberName,
				ChannelType:      members[i].ChannelType,
			}
		}
	}
	return payload
}

// RejectRequest 拒绝好友申请，没有任何级联效果
func (s *friendService) RejectRequest(ctx context.Context, req *request.RejectFriendRequest) error {
	record, err := s.repos.FriendRequest.FindById(req.RequestId)
	if err != nil {
		if errorx.IsNotFound(err) {
			return errorx.New(errorx.CodeNotFound, "好友申请不存在")
		}
		zap.L().Error("reject find request error", zap.Error(err))
		return errorx.ErrServerBusy
	}
	if record.ReceiverId != req.UserId {
		return errorx.New(errorx.CodeNotYourRequest, "这不是发给你的申请")
	}
	if err := s.repos.FriendRequest.UpdateStatus(record.ID, friend_request_status_enum.REJECTED); err != nil {
		zap.L().Error("reject update status error", zap.Error(err))
		return errorx.ErrServerBusy
	}
	return nil
}

// DeleteFriendship 删除好友
// 关系、申请、频道、成员软删除（重新加回时恢复同一频道），消息历史物理清空
func (s *friendService) DeleteFriendship(ctx context.Context, req *request.DeleteFriendRequest) error {
	uniqueId := UniqueId(req.UserId, req.FriendId)
	existing, err := s.repos.Friend.FindByUniqueIdUnscoped(uniqueId)
	if err != nil {
		if errorx.IsNotFound(err) {
			return errorx.New(errorx.CodeFriendshipMissing, "好友关系不存在")
		}
		zap.L().Error("delete find friendship error", zap.Error(err))
		return errorx.ErrServerBusy
	}
	if existing.DeletedAt.Valid {
		return errorx.New(errorx.CodeFriendshipDeleted, "好友关系已删除")
	}

	err = s.repos.Transaction(func(tx *repository.Repositories) error {
		if err := tx.Friend.SoftDeleteByUniqueId(uniqueId); err != nil {
			return err
		}
		if err := tx.FriendRequest.SoftDeleteByPair(req.UserId, req.FriendId); err != nil {
			return err
		}
		channel, err := tx.Channel.FindFriendChannelByUniqueId(uniqueId)
		if errorx.IsNotFound(err) {
			// 申请通过前就删除的边界情况，没有频道可清理
			return nil
		}
		if err != nil {
			return err
		}
		if err := tx.ChannelMember.SoftDeleteByChannelId(channel.ChannelId); err != nil {
			return err
		}
		if err := tx.Channel.SoftDeleteByChannelId(channel.ChannelId); err != nil {
			return err
		}
		// 消息历史是真删，重新加好友后不应看到旧聊天
		return tx.Message.HardDeleteByChannelId(channel.ChannelId)
	})
	if err != nil {
		zap.L().Error("delete friendship transaction error", zap.Error(err))
		return errorx.ErrServerBusy
	}
	return nil
}

// LoadPendingRequests 拉取待处理好友申请列表，附带申请人公开信息
// 网关建连时推送 pending_friend_request_list 事件用的就是这个
func (s *friendService) LoadPendingRequests(ctx context.Context, userId int64) ([]respond.FriendRequestRespond, error) {
	records, err := s.repos.FriendRequest.FindPendingByReceiver(userId)
	if err != nil {
		zap.L().Error("load pending requests error", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}

	requesterIds := make([]int64, 0, len(records))
	for i := range records {
		requesterIds = append(requesterIds, records[i].RequesterId)
	}
	userList, err := s.repos.User.FindByIds(requesterIds)
	if err != nil {
		zap.L().Error("load pending requesters error", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	infos := make(map[int64]*model.UserInfo, len(userList))
	for i := range userList {
		infos[int64(userList[i].ID)] = &userList[i]
	}

	result := make([]respond.FriendRequestRespond, 0, len(records))
	for i := range records {
		item := respond.FriendRequestRespond{
			RequestId:   records[i].ID,
			RequesterId: records[i].RequesterId,
			ReceiverId:  records[i].ReceiverId,
			Status:      records[i].Status,
			Message:     records[i].Message,
			CreatedAt:   records[i].CreatedAt.Format(timeLayout),
		}
		if info, ok := infos[records[i].RequesterId]; ok {
			item.FromUser = &respond.GetUserInfoRespond{
				UserId:   int64(info.ID),
				Username: info.Username,
				Nickname: info.Nickname,
				Avatar:   info.Avatar,
				Slogan:   info.Slogan,
				Gender:   info.Gender,
			}
		}
		result = append(result, item)
	}
	return result, nil
}

// LoadSentRequests 拉取自己发出的申请列表，附带接收人公开信息
func (s *friendService) LoadSentRequests(ctx context.Context, userId int64) ([]respond.FriendRequestRespond, error) {
	records, err := s.repos.FriendRequest.FindByRequester(userId)
	if err != nil {
		zap.L().Error("load sent requests error", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}

	receiverIds := make([]int64, 0, len(records))
	for i := range records {
		receiverIds = append(receiverIds, records[i].ReceiverId)
	}
	userList, err := s.repos.User.FindByIds(receiverIds)
	if err != nil {
		zap.L().Error("load sent receivers error", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	infos := make(map[int64]*model.UserInfo, len(userList))
	for i := range userList {
		infos[int64(userList[i].ID)] = &userList[i]
	}

	result := make([]respond.FriendRequestRespond, 0, len(records))
	for i := range records {
		item := respond.FriendRequestRespond{
			RequestId:   records[i].ID,
			RequesterId: records[i].RequesterId,
			ReceiverId:  records[i].ReceiverId,
			Status:      records[i].Status,
			Message:     records[i].Message,
			CreatedAt:   records[i].CreatedAt.Format(timeLayout),
		}
		if info, ok := infos[records[i].ReceiverId]; ok {
			item.ToUser = &respond.GetUserInfoRespond{
				UserId:   int64(info.ID),
				Username: info.Username,
				Nickname: info.Nickname,
				Avatar:   info.Avatar,
				Slogan:   info.Slogan,
				Gender:   info.Gender,
			}
		}
		result = append(result, item)
	}
	return result, nil
}

// GetFriendList 好友列表，按当前用户所在的一侧取备注和分组
func (s *friendService) GetFriendList(ctx context.Context, userId int64) ([]respond.FriendRespond, error) {
	friends, err := s.repos.Friend.FindFriendsOf(userId)
	if err != nil {
		zap.L().Error("get friend list error", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}

	otherIds := make([]int64, 0, len(friends))
	for i := range friends {
		if friends[i].OwnerId == userId {
			otherIds = append(otherIds, friends[i].FriendId)
		} else {
			otherIds = append(otherIds, friends[i].OwnerId)
		}
	}
	userList, err := s.repos.User.FindByIds(otherIds)
	if err != nil {
		zap.L().Error("get friend users error", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	infos := make(map[int64]*model.UserInfo, len(userList))
	for i := range userList {
		infos[int64(userList[i].ID)] = &userList[i]
	}

	result := make([]respond.FriendRespond, 0, len(friends))
	for i := range friends {
		item := respond.FriendRespond{UniqueId: friends[i].UniqueId}
		// 好友频道随好友关系恢复，查不到时留空不报错
		if channel, err := s.repos.Channel.FindFriendChannelByUniqueId(friends[i].UniqueId); err == nil && channel != nil {
			item.ChannelId = channel.ChannelId
		}
		if friends[i].OwnerId == userId {
			item.FriendId = friends[i].FriendId
			item.Remark = friends[i].OwnerRemark
			item.GroupName = friends[i].OwnerGroup
		} else {
			item.FriendId = friends[i].OwnerId
			item.Remark = friends[i].FriendRemark
			item.GroupName = friends[i].FriendGroup
		}
		if info, ok := infos[item.FriendId]; ok {
			item.UserInfo = &respond.GetUserInfoRespond{
				UserId:   int64(info.ID),
				Username: info.Username,
				Nickname: info.Nickname,
				Avatar:   info.Avatar,
				Slogan:   info.Slogan,
				Gender:   info.Gender,
			}
		}
		result = append(result, item)
	}
	return result, nil
}

// pushPendingList 推送接收方最新待处理申请列表
func (s *friendService) pushPendingList(ctx context.Context, receiverId int64) {
	pending, err := s.LoadPendingRequests(ctx, receiverId)
	if err != nil {
		zap.L().Warn("load pending list for push failed", zap.Error(err))
		return
	}
	if _, err := s.notifier.Notify(ctx, receiverId, constants.EventPendingFriendList, pending); err != nil {
		zap.L().Warn("pending list push failed", zap.Int64("userId", receiverId), zap.Error(err))
	}
}

// toMessageRespond 消息模型转事件载荷
func toMessageRespond(message *model.Message, author *model.UserInfo) *respond.MessageRespond {
	resp := &respond.MessageRespond{
		MessageId:   message.MessageId,
		ChannelId:   message.ChannelId,
		AuthorId:    message.AuthorId,
		Content:     message.Content,
		MsgType:     message.MsgType,
		MsgStatus:   message.MsgStatus,
		MsgFromType: message.MsgFromType,
		IsApply:     message.IsApply,
		IsReply:     message.IsReply,
		CreatedAt:   message.CreatedAt.Format(timeLayout),
	}
	if author != nil {
		resp.Author = &respond.GetUserInfoRespond{
			UserId:   int64(author.ID),
			Username: author.Username,
			Nickname: author.Nickname,
			Avatar:   author.Avatar,
			Slogan:   author.Slogan,
			Gender:   author.Gender,
		}
	}
	return resp
}
