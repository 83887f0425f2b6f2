package channel

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nova_chat_server/internal/dao/mysql/repository"
	myredis "nova_chat_server/internal/dao/redis"
	"nova_chat_server/internal/dto/request"
	"nova_chat_server/internal/model"
	"nova_chat_server/internal/service/chat"
	"nova_chat_server/pkg/constants"
	"nova_chat_server/pkg/enum/channel/channel_role_enum"
	"nova_chat_server/pkg/enum/channel/channel_type_enum"
	"nova_chat_server/pkg/errorx"
	"nova_chat_server/pkg/util/snowflake"
)

type fakePresence struct {
	mu     sync.Mutex
	online map[int64]*myredis.OnlineUser
}

func (p *fakePresence) Put(ctx context.Context, userId int64, online *myredis.OnlineUser) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.online[userId] = online
	return nil
}

func (p *fakePresence) Get(ctx context.Context, userId int64) (*myredis.OnlineUser, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.online[userId], nil
}

func (p *fakePresence) Remove(ctx context.Context, userId int64) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.online, userId)
	return nil
}

type fakeTransport struct {
	mu     sync.Mutex
	pushed map[string][][]byte
}

func (t *fakeTransport) Push(clientId string, message []byte) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.pushed[clientId] = append(t.pushed[clientId], message)
	return nil
}

type fixture struct {
	svc       *channelService
	repos     *repository.Repositories
	presence  *fakePresence
	transport *fakeTransport
	userIds   []int64
}

// newFixture 建好 5 个用户的测试环境
func newFixture(t *testing.T) *fixture {
	t.Helper()
	repos := repository.NewMemoryRepositories()
	presence := &fakePresence{online: make(map[int64]*myredis.OnlineUser)}
	transport := &fakeTransport{pushed: make(map[string][][]byte)}
	notifier := chat.NewFanoutNotifier(presence, transport)
	channelNode, err := snowflake.NewNode(1, constants.PARTITION_CHANNEL)
	require.NoError(t, err)

	nicknames := []string{"甲", "乙", "丙", "丁", "戊"}
	userIds := make([]int64, 0, len(nicknames))
	for _, nickname := range nicknames {
		user := &model.UserInfo{Username: "user" + nickname, Nickname: nickname}
		require.NoError(t, repos.User.Create(user))
		userIds = append(userIds, int64(user.ID))
	}

	return &fixture{
		svc:       NewChannelService(repos, notifier, channelNode),
		repos:     repos,
		presence:  presence,
		transport: transport,
		userIds:   userIds,
	}
}

func TestCreateGroupChannel(t *testing.T) {
	f := newFixture(t)
	resp, err := f.svc.CreateGroupChannel(context.Background(), &request.CreateGroupChannelRequest{
		OwnerId:     f.userIds[0],
		MemberIds:   f.userIds[1:3],
		ChannelName: "周末小队",
	})
	require.NoError(t, err)
	assert.Equal(t, "周末小队", resp.ChannelName)
	assert.Equal(t, channel_type_enum.GROUP, resp.ChannelType)

	members, err := f.repos.ChannelMember.FindByChannelId(resp.ChannelId)
	require.NoError(t, err)
	require.Len(t, members, 3)
	for _, m := range members {
		if m.MemberId == f.userIds[0] {
			assert.Equal(t, channel_role_enum.OWNER, m.Role)
		} else {
			assert.Equal(t, channel_role_enum.MEMBER, m.Role)
		}
		assert.Equal(t, channel_type_enum.GROUP, m.ChannelType)
	}
}

func TestCreateGroupChannelDefaultName(t *testing.T) {
	f := newFixture(t)
	// 五个成员，群名只取前四位昵称，逗号拼接
	resp, err := f.svc.CreateGroupChannel(context.Background(), &request.CreateGroupChannelRequest{
		OwnerId:   f.userIds[0],
		MemberIds: f.userIds[1:],
	})
	require.NoError(t, err)
	assert.Equal(t, "甲,乙,丙,丁", resp.ChannelName)
}

func TestCreateGroupChannelDedupesMembers(t *testing.T) {
	f := newFixture(t)
	// 群主重复出现在成员列表里
	resp, err := f.svc.CreateGroupChannel(context.Background(), &request.CreateGroupChannelRequest{
		OwnerId:   f.userIds[0],
		MemberIds: []int64{f.userIds[0], f.userIds[1], f.userIds[1]},
	})
	require.NoError(t, err)
	members, err := f.repos.ChannelMember.FindByChannelId(resp.ChannelId)
	require.NoError(t, err)
	assert.Len(t, members, 2)
}

func TestCreateGroupChannelMembersNotFound(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.CreateGroupChannel(context.Background(), &request.CreateGroupChannelRequest{
		OwnerId:   f.userIds[0],
		MemberIds: []int64{f.userIds[1], 999},
	})
	assert.True(t, errorx.IsCode(err, errorx.CodeMembersNotFound))
}

func TestCreateGroupChannelFanout(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	// 只有两位在线，离线成员不报错
	require.NoError(t, f.presence.Put(ctx, f.userIds[0], &myredis.OnlineUser{ClientId: "c0"}))
	require.NoError(t, f.presence.Put(ctx, f.userIds[2], &myredis.OnlineUser{ClientId: "c2"}))

	resp, err := f.svc.CreateGroupChannel(ctx, &request.CreateGroupChannelRequest{
		OwnerId:   f.userIds[0],
		MemberIds: f.userIds[1:3],
	})
	require.NoError(t, err)

	assert.Len(t, f.transport.pushed["c0"], 1)
	assert.Len(t, f.transport.pushed["c2"], 1)

	var envelope struct {
		Event string `json:"event"`
		Data  struct {
			Channel struct {
				ChannelId string `json:"channel_id"`
			} `json:"channel"`
			Member struct {
				MemberId int64 `json:"member_id"`
			} `json:"member"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(f.transport.pushed["c2"][0], &envelope))
	assert.Equal(t, constants.EventChannelCreate, envelope.Event)
	assert.Equal(t, resp.ChannelId, envelope.Data.Channel.ChannelId)
	// 每个成员收到的是自己的成员记录
	assert.Equal(t, f.userIds[2], envelope.Data.Member.MemberId)
}

func TestGetMyChannels(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	first, err := f.svc.CreateGroupChannel(ctx, &request.CreateGroupChannelRequest{
		OwnerId: f.userIds[0], MemberIds: f.userIds[1:2], ChannelName: "一群",
	})
	require.NoError(t, err)
	_, err = f.svc.CreateGroupChannel(ctx, &request.CreateGroupChannelRequest{
		OwnerId: f.userIds[1], MemberIds: f.userIds[2:3], ChannelName: "二群",
	})
	require.NoError(t, err)

	mine, err := f.svc.GetMyChannels(ctx, f.userIds[0])
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, first.ChannelId, mine[0].Channel.ChannelId)
	assert.Equal(t, channel_role_enum.OWNER, mine[0].Member.Role)

	// 频道软删除后从列表消失
	require.NoError(t, f.repos.Channel.SoftDeleteByChannelId(first.ChannelId))
	mine, err = f.svc.GetMyChannels(ctx, f.userIds[0])
	require.NoError(t, err)
	assert.Empty(t, mine)
}

func TestGetChannelMembersMissingChannel(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.GetChannelMembers(context.Background(), "404")
	assert.True(t, errorx.IsCode(err, errorx.CodeChannelNotFound))
}

func TestGetOtherChannelMemberIds(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	resp, err := f.svc.CreateGroupChannel(ctx, &request.CreateGroupChannelRequest{
		OwnerId: f.userIds[0], MemberIds: f.userIds[1:3],
	})
	require.NoError(t, err)

	others, err := f.svc.GetOtherChannelMemberIds(ctx, resp.ChannelId, f.userIds[0])
	require.NoError(t, err)
	assert.ElementsMatch(t, f.userIds[1:3], others)
	assert.NotContains(t, others, f.userIds[0])

	// 非成员不允许拿成员列表
	_, err = f.svc.GetOtherChannelMemberIds(ctx, resp.ChannelId, f.userIds[4])
	assert.True(t, errorx.IsCode(err, errorx.CodeNotChannelMember))
}
