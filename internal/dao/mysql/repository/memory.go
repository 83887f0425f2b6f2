// Package repository 的内存实现
// 不依赖数据库进程，服务层测试用。语义对齐 MySQL 实现：
// 软删除行仍占用唯一索引，重复写入报 CodeConflict
package repository

import (
	"sort"
	"sync"
	"time"

	"nova_chat_server/internal/model"
	"nova_chat_server/pkg/enum/friend_request/friend_request_status_enum"
	"nova_chat_server/pkg/errorx"

	"gorm.io/gorm"
)

// NewMemoryRepositories 创建全内存的 Repository 聚合
// db 为空，Transaction 退化为直接执行
func NewMemoryRepositories() *Repositories {
	return NewRepositoriesFrom(
		newMemoryUserRepository(),
		newMemoryFriendRequestRepository(),
		newMemoryFriendRepository(),
		newMemoryChannelRepository(),
		newMemoryChannelMemberRepository(),
		newMemoryMessageRepository(),
		newMemoryAttachmentRepository(),
	)
}

func softDeleted(d gorm.DeletedAt) bool {
	return d.Valid
}

func markDeleted() gorm.DeletedAt {
	return gorm.DeletedAt{Time: time.Now(), Valid: true}
}

// ==================== User ====================

type memoryUserRepository struct {
	mu     sync.RWMutex
	nextId uint
	users  map[int64]*model.UserInfo
}

func newMemoryUserRepository() *memoryUserRepository {
	return &memoryUserRepository{nextId: 1, users: make(map[int64]*model.UserInfo)}
}

func (r *memoryUserRepository) FindById(id int64) (*model.UserInfo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	user, ok := r.users[id]
	if !ok || softDeleted(user.DeletedAt) {
		return nil, errorx.Newf(errorx.CodeNotFound, "用户 id=%d 不存在", id)
	}
	copied := *user
	return &copied, nil
}

func (r *memoryUserRepository) FindByUsername(username string) (*model.UserInfo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, user := range r.users {
		if user.Username == username && !softDeleted(user.DeletedAt) {
			copied := *user
			return &copied, nil
		}
	}
	return nil, errorx.Newf(errorx.CodeNotFound, "用户 username=%s 不存在", username)
}

func (r *memoryUserRepository) FindByIds(ids []int64) ([]model.UserInfo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var users []model.UserInfo
	for _, id := range ids {
		if user, ok := r.users[id]; ok && !softDeleted(user.DeletedAt) {
			users = append(users, *user)
		}
	}
	return users, nil
}

func (r *memoryUserRepository) FindAllExcept(excludeId int64) ([]model.UserInfo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var users []model.UserInfo
	for _, user := range r.users {
		if int64(user.ID) != excludeId && !softDeleted(user.DeletedAt) {
			users = append(users, *user)
		}
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

func (r *memoryUserRepository) Create(user *model.UserInfo) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Username == user.Username {
			return errorx.Newf(errorx.CodeConflict, "用户名 %s 已存在", user.Username)
		}
	}
	user.ID = r.nextId
	user.CreatedAt = time.Now()
	r.nextId++
	copied := *user
	r.users[int64(user.ID)] = &copied
	return nil
}

func (r *memoryUserRepository) Update(user *model.UserInfo) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *user
	r.users[int64(user.ID)] = &copied
	return nil
}

// ==================== FriendRequest ====================

type memoryFriendRequestRepository struct {
	mu     sync.RWMutex
	nextId uint
	reqs   []*model.FriendRequest
}

func newMemoryFriendRequestRepository() *memoryFriendRequestRepository {
	return &memoryFriendRequestRepository{nextId: 1}
}

func (r *memoryFriendRequestRepository) FindById(id uint) (*model.FriendRequest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, req := range r.reqs {
		if req.ID == id && !softDeleted(req.DeletedAt) {
			copied := *req
			return &copied, nil
		}
	}
	return nil, errorx.Newf(errorx.CodeNotFound, "好友申请 id=%d 不存在", id)
}

func (r *memoryFriendRequestRepository) FindByPair(a, b int64) (*model.FriendRequest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var latest *model.FriendRequest
	for _, req := range r.reqs {
		samePair := (req.RequesterId == a && req.ReceiverId == b) ||
			(req.RequesterId == b && req.ReceiverId == a)
		if samePair && (latest == nil || req.ID > latest.ID) {
			latest = req
		}
	}
	if latest == nil {
		return nil, errorx.Newf(errorx.CodeNotFound, "好友申请 pair=(%d,%d) 不存在", a, b)
	}
	copied := *latest
	return &copied, nil
}

func (r *memoryFriendRequestRepository) FindPendingByReceiver(receiverId int64) ([]model.FriendRequest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []model.FriendRequest
	for _, req := range r.reqs {
		if req.ReceiverId == receiverId && req.Status == friend_request_status_enum.PENDING && !softDeleted(req.DeletedAt) {
			result = append(result, *req)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID > result[j].ID })
	return result, nil
}

func (r *memoryFriendRequestRepository) FindByRequester(requesterId int64) ([]model.FriendRequest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []model.FriendRequest
	for _, req := range r.reqs {
		if req.RequesterId == requesterId && !softDeleted(req.DeletedAt) {
			result = append(result, *req)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID > result[j].ID })
	return result, nil
}

func (r *memoryFriendRequestRepository) Create(req *model.FriendRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	req.ID = r.nextId
	req.CreatedAt = time.Now()
	r.nextId++
	copied := *req
	r.reqs = append(r.reqs, &copied)
	return nil
}

func (r *memoryFriendRequestRepository) Update(req *model.FriendRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, existing := range r.reqs {
		if existing.ID == req.ID {
			copied := *req
			r.reqs[i] = &copied
			return nil
		}
	}
	return errorx.Newf(errorx.CodeNotFound, "好友申请 id=%d 不存在", req.ID)
}

func (r *memoryFriendRequestRepository) UpdateStatus(id uint, status int8) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, req := range r.reqs {
		if req.ID == id && !softDeleted(req.DeletedAt) {
			req.Status = status
			return nil
		}
	}
	return nil
}

func (r *memoryFriendRequestRepository) SoftDeleteByPair(a, b int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, req := range r.reqs {
		samePair := (req.RequesterId == a && req.ReceiverId == b) ||
			(req.RequesterId == b && req.ReceiverId == a)
		if samePair && !softDeleted(req.DeletedAt) {
			req.DeletedAt = markDeleted()
		}
	}
	return nil
}

// ==================== Friend ====================

type memoryFriendRepository struct {
	mu      sync.RWMutex
	nextId  uint
	friends map[string]*model.Friend // uniqueId -> row
}

func newMemoryFriendRepository() *memoryFriendRepository {
	return &memoryFriendRepository{nextId: 1, friends: make(map[string]*model.Friend)}
}

func (r *memoryFriendRepository) FindByUniqueId(uniqueId string) (*model.Friend, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	friend, ok := r.friends[uniqueId]
	if !ok || softDeleted(friend.DeletedAt) {
		return nil, errorx.Newf(errorx.CodeNotFound, "好友关系 unique_id=%s 不存在", uniqueId)
	}
	copied := *friend
	return &copied, nil
}

func (r *memoryFriendRepository) FindByUniqueIdUnscoped(uniqueId string) (*model.Friend, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	friend, ok := r.friends[uniqueId]
	if !ok {
		return nil, errorx.Newf(errorx.CodeNotFound, "好友关系 unique_id=%s 不存在", uniqueId)
	}
	copied := *friend
	return &copied, nil
}

func (r *memoryFriendRepository) FindFriendsOf(userId int64) ([]model.Friend, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []model.Friend
	for _, friend := range r.friends {
		if (friend.OwnerId == userId || friend.FriendId == userId) && !softDeleted(friend.DeletedAt) {
			result = append(result, *friend)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (r *memoryFriendRepository) Create(friend *model.Friend) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	// 软删除的行仍占用唯一索引
	if _, exists := r.friends[friend.UniqueId]; exists {
		return errorx.Newf(errorx.CodeConflict, "好友关系 unique_id=%s 已存在", friend.UniqueId)
	}
	friend.ID = r.nextId
	friend.CreatedAt = time.Now()
	r.nextId++
	copied := *friend
	r.friends[friend.UniqueId] = &copied
	return nil
}

func (r *memoryFriendRepository) Restore(uniqueId string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if friend, ok := r.friends[uniqueId]; ok {
		friend.DeletedAt = gorm.DeletedAt{}
	}
	return nil
}

func (r *memoryFriendRepository) SoftDeleteByUniqueId(uniqueId string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if friend, ok := r.friends[uniqueId]; ok && !softDeleted(friend.DeletedAt) {
		friend.DeletedAt = markDeleted()
	}
	return nil
}

// ==================== Channel ====================

type memoryChannelRepository struct {
	mu       sync.RWMutex
	nextId   uint
	channels map[string]*model.Channel // channelId -> row
}

func newMemoryChannelRepository() *memoryChannelRepository {
	return &memoryChannelRepository{nextId: 1, channels: make(map[string]*model.Channel)}
}

func (r *memoryChannelRepository) FindByChannelId(channelId string) (*model.Channel, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	channel, ok := r.channels[channelId]
	if !ok || softDeleted(channel.DeletedAt) {
		return nil, errorx.Newf(errorx.CodeNotFound, "频道 channel_id=%s 不存在", channelId)
	}
	copied := *channel
	return &copied, nil
}

func (r *memoryChannelRepository) FindByChannelIds(channelIds []string) ([]model.Channel, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []model.Channel
	for _, id := range channelIds {
		if channel, ok := r.channels[id]; ok && !softDeleted(channel.DeletedAt) {
			result = append(result, *channel)
		}
	}
	return result, nil
}

func (r *memoryChannelRepository) FindFriendChannelByUniqueId(uniqueId string) (*model.Channel, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, channel := range r.channels {
		if channel.FriendUniqueId == uniqueId {
			copied := *channel
			return &copied, nil
		}
	}
	return nil, errorx.Newf(errorx.CodeNotFound, "好友频道 unique_id=%s 不存在", uniqueId)
}

func (r *memoryChannelRepository) Create(channel *model.Channel) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.channels[channel.ChannelId]; exists {
		return errorx.Newf(errorx.CodeConflict, "频道 channel_id=%s 已存在", channel.ChannelId)
	}
	channel.ID = r.nextId
	channel.CreatedAt = time.Now()
	r.nextId++
	copied := *channel
	r.channels[channel.ChannelId] = &copied
	return nil
}

func (r *memoryChannelRepository) Restore(channelId string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if channel, ok := r.channels[channelId]; ok {
		channel.DeletedAt = gorm.DeletedAt{}
	}
	return nil
}

func (r *memoryChannelRepository) SoftDeleteByChannelId(channelId string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if channel, ok := r.channels[channelId]; ok && !softDeleted(channel.DeletedAt) {
		channel.DeletedAt = markDeleted()
	}
	return nil
}

func (r *memoryChannelRepository) UpdateLastMessage(channelId string, messageId string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if channel, ok := r.channels[channelId]; ok {
		channel.LastMessageId = messageId
		channel.LastMessageAt = at
	}
	return nil
}

// ==================== ChannelMember ====================

type memberKey struct {
	channelId string
	memberId  int64
}

type memoryChannelMemberRepository struct {
	mu      sync.RWMutex
	nextId  uint
	members map[memberKey]*model.ChannelMember
}

func newMemoryChannelMemberRepository() *memoryChannelMemberRepository {
	return &memoryChannelMemberRepository{nextId: 1, members: make(map[memberKey]*model.ChannelMember)}
}

func (r *memoryChannelMemberRepository) FindByChannelId(channelId string) ([]model.ChannelMember, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []model.ChannelMember
	for _, member := range r.members {
		if member.ChannelId == channelId && !softDeleted(member.DeletedAt) {
			result = append(result, *member)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (r *memoryChannelMemberRepository) FindByChannelIdUnscoped(channelId string) ([]model.ChannelMember, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []model.ChannelMember
	for _, member := range r.members {
		if member.ChannelId == channelId {
			result = append(result, *member)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (r *memoryChannelMemberRepository) FindByChannelIdAndMemberId(channelId string, memberId int64) (*model.ChannelMember, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	member, ok := r.members[memberKey{channelId, memberId}]
	if !ok || softDeleted(member.DeletedAt) {
		return nil, errorx.Newf(errorx.CodeNotFound, "频道成员 channel_id=%s member_id=%d 不存在", channelId, memberId)
	}
	copied := *member
	return &copied, nil
}

func (r *memoryChannelMemberRepository) FindChannelsOfMember(memberId int64) ([]model.ChannelMember, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []model.ChannelMember
	for _, member := range r.members {
		if member.MemberId == memberId && !softDeleted(member.DeletedAt) {
			result = append(result, *member)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (r *memoryChannelMemberRepository) Create(member *model.ChannelMember) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.createLocked(member)
}

func (r *memoryChannelMemberRepository) createLocked(member *model.ChannelMember) error {
	key := memberKey{member.ChannelId, member.MemberId}
	if _, exists := r.members[key]; exists {
		return errorx.Newf(errorx.CodeConflict, "频道成员 channel_id=%s member_id=%d 已存在", member.ChannelId, member.MemberId)
	}
	member.ID = r.nextId
	member.CreatedAt = time.Now()
	r.nextId++
	copied := *member
	r.members[key] = &copied
	return nil
}

func (r *memoryChannelMemberRepository) CreateBatch(members []model.ChannelMember) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range members {
		if err := r.createLocked(&members[i]); err != nil {
			return int64(i), err
		}
	}
	return int64(len(members)), nil
}

func (r *memoryChannelMemberRepository) RestoreByChannelId(channelId string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, member := range r.members {
		if member.ChannelId == channelId {
			member.DeletedAt = gorm.DeletedAt{}
		}
	}
	return nil
}

func (r *memoryChannelMemberRepository) SoftDeleteByChannelId(channelId string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, member := range r.members {
		if member.ChannelId == channelId && !softDeleted(member.DeletedAt) {
			member.DeletedAt = markDeleted()
		}
	}
	return nil
}

// ==================== Message ====================

type memoryMessageRepository struct {
	mu       sync.RWMutex
	nextId   uint
	messages []*model.Message
}

func newMemoryMessageRepository() *memoryMessageRepository {
	return &memoryMessageRepository{nextId: 1}
}

func (r *memoryMessageRepository) FindByMessageId(messageId string) (*model.Message, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, message := range r.messages {
		if message.MessageId == messageId && !softDeleted(message.DeletedAt) {
			copied := *message
			return &copied, nil
		}
	}
	return nil, errorx.Newf(errorx.CodeNotFound, "消息 message_id=%s 不存在", messageId)
}

func (r *memoryMessageRepository) FindByChannelId(channelId string, page, pageSize int) ([]model.Message, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 50
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	var all []model.Message
	for _, message := range r.messages {
		if message.ChannelId == channelId && !softDeleted(message.DeletedAt) {
			all = append(all, *message)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].MessageId < all[j].MessageId })
	total := int64(len(all))
	start := (page - 1) * pageSize
	if start >= len(all) {
		return nil, total, nil
	}
	end := start + pageSize
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], total, nil
}

func (r *memoryMessageRepository) Create(message *model.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.createLocked(message)
}

func (r *memoryMessageRepository) createLocked(message *model.Message) error {
	for _, existing := range r.messages {
		if existing.MessageId == message.MessageId {
			return errorx.Newf(errorx.CodeConflict, "消息 message_id=%s 已存在", message.MessageId)
		}
	}
	message.ID = r.nextId
	message.CreatedAt = time.Now()
	r.nextId++
	copied := *message
	r.messages = append(r.messages, &copied)
	return nil
}

func (r *memoryMessageRepository) CreateBatch(messages []model.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range messages {
		if err := r.createLocked(&messages[i]); err != nil {
			return err
		}
	}
	return nil
}

func (r *memoryMessageRepository) HardDeleteByChannelId(channelId string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.messages[:0]
	for _, message := range r.messages {
		if message.ChannelId != channelId {
			kept = append(kept, message)
		}
	}
	r.messages = kept
	return nil
}

// ==================== Attachment ====================

type memoryAttachmentRepository struct {
	mu          sync.RWMutex
	nextId      uint
	attachments map[string]*model.Attachment
}

func newMemoryAttachmentRepository() *memoryAttachmentRepository {
	return &memoryAttachmentRepository{nextId: 1, attachments: make(map[string]*model.Attachment)}
}

func (r *memoryAttachmentRepository) FindByAttachmentIds(attachmentIds []string) ([]model.Attachment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []model.Attachment
	for _, id := range attachmentIds {
		if attachment, ok := r.attachments[id]; ok && !softDeleted(attachment.DeletedAt) {
			result = append(result, *attachment)
		}
	}
	return result, nil
}

func (r *memoryAttachmentRepository) Create(attachment *model.Attachment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.attachments[attachment.AttachmentId]; exists {
		return errorx.Newf(errorx.CodeConflict, "附件 attachment_id=%s 已存在", attachment.AttachmentId)
	}
	attachment.ID = r.nextId
	attachment.CreatedAt = time.Now()
	r.nextId++
	copied := *attachment
	r.attachments[attachment.AttachmentId] = &copied
	return nil
}
