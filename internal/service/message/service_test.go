package message

import (
	"context"
	"encoding/json"
	"fmt"
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
	"nova_chat_server/pkg/enum/message/msg_from_type_enum"
	"nova_chat_server/pkg/enum/message/msg_type_enum"
	"nova_chat_server/pkg/errorx"
)

// seqNode 递增序列的 ID 生成器，等宽零填充保证字典序即数值序
type seqNode struct {
	mu     sync.Mutex
	prefix string
	next   int
}

func (n *seqNode) NextID() (string, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.next++
	return fmt.Sprintf("%s%06d", n.prefix, n.next), nil
}

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
	svc       *messageService
	repos     *repository.Repositories
	presence  *fakePresence
	transport *fakeTransport
	channelId string
	alice     int64
	bob       int64
	carol     int64 // 不在频道里
}

// newFixture 建一个带好友频道的测试环境，alice 和 bob 是成员
func newFixture(t *testing.T) *fixture {
	t.Helper()
	repos := repository.NewMemoryRepositories()
	presence := &fakePresence{online: make(map[int64]*myredis.OnlineUser)}
	transport := &fakeTransport{pushed: make(map[string][][]byte)}
	notifier := chat.NewFanoutNotifier(presence, transport)

	alice := &model.UserInfo{Username: "alice", Nickname: "爱丽丝"}
	bob := &model.UserInfo{Username: "bob", Nickname: "鲍勃"}
	carol := &model.UserInfo{Username: "carol", Nickname: "卡罗尔"}
	require.NoError(t, repos.User.Create(alice))
	require.NoError(t, repos.User.Create(bob))
	require.NoError(t, repos.User.Create(carol))

	channelId := "ch000001"
	require.NoError(t, repos.Channel.Create(&model.Channel{
		ChannelId:   channelId,
		ChannelType: channel_type_enum.FRIEND,
	}))
	_, err := repos.ChannelMember.CreateBatch([]model.ChannelMember{
		{ChannelId: channelId, MemberId: int64(alice.ID), Role: channel_role_enum.OWNER, ChannelType: channel_type_enum.FRIEND},
		{ChannelId: channelId, MemberId: int64(bob.ID), Role: channel_role_enum.MEMBER, ChannelType: channel_type_enum.FRIEND},
	})
	require.NoError(t, err)

	svc := NewMessageService(repos, notifier,
		&seqNode{prefix: "msg"}, &seqNode{prefix: "att"})
	return &fixture{
		svc:       svc,
		repos:     repos,
		presence:  presence,
		transport: transport,
		channelId: channelId,
		alice:     int64(alice.ID),
		bob:       int64(bob.ID),
		carol:     int64(carol.ID),
	}
}

func TestMsgTypeByMimeType(t *testing.T) {
	cases := []struct {
		mimeType string
		want     int8
	}{
		{"image/png", msg_type_enum.IMAGE},
		{"image/jpeg", msg_type_enum.IMAGE},
		{"video/mp4", msg_type_enum.VIDEO},
		{"audio/ogg", msg_type_enum.AUDIO},
		{"application/pdf", msg_type_enum.PDF},
		{"application/zip", msg_type_enum.FILE},
		{"text/plain", msg_type_enum.FILE},
		{"", msg_type_enum.FILE},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, MsgTypeByMimeType(c.mimeType), c.mimeType)
	}
}

func TestSendMessage(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.presence.Put(ctx, f.bob, &myredis.OnlineUser{ClientId: "bob-client"}))

	resp, err := f.svc.SendMessage(ctx, &request.SendMessageRequest{
		ChannelId: f.channelId,
		AuthorId:  f.alice,
		Content:   "午饭吃什么",
	})
	require.NoError(t, err)
	assert.Equal(t, msg_type_enum.TEXT, resp.MsgType)
	assert.Equal(t, msg_from_type_enum.USER, resp.MsgFromType)
	require.NotNil(t, resp.Author)
	assert.Equal(t, "爱丽丝", resp.Author.Nickname)

	// 最后消息指针被刷新
	channel, err := f.repos.Channel.FindByChannelId(f.channelId)
	require.NoError(t, err)
	assert.Equal(t, resp.MessageId, channel.LastMessageId)
	assert.False(t, channel.LastMessageAt.IsZero())

	// 在线成员收到 message_create，作者自己也在扇出范围内但此刻离线
	require.Len(t, f.transport.pushed["bob-client"], 1)
	var envelope struct {
		Event string `json:"event"`
	}
	require.NoError(t, json.Unmarshal(f.transport.pushed["bob-client"][0], &envelope))
	assert.Equal(t, constants.EventMessageCreate, envelope.Event)
}

func TestSendMessageExplicitTypeWins(t *testing.T) {
	f := newFixture(t)
	resp, err := f.svc.SendMessage(context.Background(), &request.SendMessageRequest{
		ChannelId: f.channelId,
		AuthorId:  f.alice,
		Content:   "位置",
		MsgType:   msg_type_enum.LOCATION,
		MimeType:  "image/png",
	})
	require.NoError(t, err)
	assert.Equal(t, msg_type_enum.LOCATION, resp.MsgType)
}

func TestSendMessageNotChannelMember(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.SendMessage(context.Background(), &request.SendMessageRequest{
		ChannelId: f.channelId,
		AuthorId:  f.carol,
		Content:   "我能进来吗",
	})
	assert.True(t, errorx.IsCode(err, errorx.CodeNotChannelMember))
}

func TestSendMessageChannelMissing(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.SendMessage(context.Background(), &request.SendMessageRequest{
		ChannelId: "404",
		AuthorId:  f.alice,
	})
	assert.True(t, errorx.IsCode(err, errorx.CodeChannelNotFound))
}

func TestSendMessageReplyNeedsReference(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.SendMessage(ctx, &request.SendMessageRequest{
		ChannelId: f.channelId, AuthorId: f.alice, Content: "回谁呢", IsReply: true,
	})
	assert.True(t, errorx.IsCode(err, errorx.CodeInvalidParam))

	_, err = f.svc.SendMessage(ctx, &request.SendMessageRequest{
		ChannelId: f.channelId, AuthorId: f.alice, Content: "回空气",
		IsReply: true, MessageReferenceId: "msg999999",
	})
	assert.True(t, errorx.IsCode(err, errorx.CodeNotFound))

	first, err := f.svc.SendMessage(ctx, &request.SendMessageRequest{
		ChannelId: f.channelId, AuthorId: f.alice, Content: "原始消息",
	})
	require.NoError(t, err)
	reply, err := f.svc.SendMessage(ctx, &request.SendMessageRequest{
		ChannelId: f.channelId, AuthorId: f.bob, Content: "回复",
		IsReply: true, MessageReferenceId: first.MessageId,
	})
	require.NoError(t, err)
	assert.Equal(t, first.MessageId, reply.MessageReferenceId)
}

func TestSendMessageWithAttachmentsAndMentions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	attachment, err := f.svc.SaveAttachment(ctx, &request.UploadAttachmentRequest{
		FileName:   "汇报.pdf",
		FileType:   "application/pdf",
		FileSize:   2048,
		Url:        "https://files.example.com/汇报.pdf",
		UploaderId: f.alice,
	})
	require.NoError(t, err)

	resp, err := f.svc.SendMessage(ctx, &request.SendMessageRequest{
		ChannelId:      f.channelId,
		AuthorId:       f.alice,
		Content:        "看下附件",
		MimeType:       "application/pdf",
		MentionUserIds: []int64{f.bob},
		AttachmentIds:  []string{attachment.AttachmentId},
	})
	require.NoError(t, err)
	assert.Equal(t, msg_type_enum.PDF, resp.MsgType)
	require.Len(t, resp.Attachments, 1)
	assert.Equal(t, "汇报.pdf", resp.Attachments[0].FileName)
	require.Len(t, resp.Mentions, 1)
	assert.Equal(t, "鲍勃", resp.Mentions[0].Nickname)

	// 附件和提及以 JSON 数组落库
	stored, err := f.repos.Message.FindByMessageId(resp.MessageId)
	require.NoError(t, err)
	assert.JSONEq(t, fmt.Sprintf(`[%d]`, f.bob), stored.MentionUserIds)
	assert.JSONEq(t, fmt.Sprintf(`["%s"]`, attachment.AttachmentId), stored.AttachmentIds)
}

func TestSendMessageUnknownAttachment(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.SendMessage(context.Background(), &request.SendMessageRequest{
		ChannelId:     f.channelId,
		AuthorId:      f.alice,
		Content:       "附件丢了",
		AttachmentIds: []string{"att999999"},
	})
	assert.True(t, errorx.IsCode(err, errorx.CodeNotFound))
}

func TestGetMessageListPagination(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	for i := 1; i <= 5; i++ {
		_, err := f.svc.SendMessage(ctx, &request.SendMessageRequest{
			ChannelId: f.channelId,
			AuthorId:  f.alice,
			Content:   fmt.Sprintf("第%d条", i),
		})
		require.NoError(t, err)
	}

	page1, err := f.svc.GetMessageList(ctx, &request.GetMessageListRequest{
		ChannelId: f.channelId, Page: 1, PageSize: 2,
	})
	require.NoError(t, err)
	assert.EqualValues(t, 5, page1.Total)
	require.Len(t, page1.Messages, 2)
	assert.Equal(t, "第1条", page1.Messages[0].Content)
	assert.Equal(t, "第2条", page1.Messages[1].Content)

	page3, err := f.svc.GetMessageList(ctx, &request.GetMessageListRequest{
		ChannelId: f.channelId, Page: 3, PageSize: 2,
	})
	require.NoError(t, err)
	require.Len(t, page3.Messages, 1)
	assert.Equal(t, "第5条", page3.Messages[0].Content)

	// 非法分页参数回退到默认值
	fallback, err := f.svc.GetMessageList(ctx, &request.GetMessageListRequest{
		ChannelId: f.channelId, Page: 0, PageSize: -1,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, fallback.Page)
	assert.Equal(t, constants.DEFAULT_PAGE_SIZE, fallback.PageSize)
	assert.Len(t, fallback.Messages, 5)
}

func TestGetMessageListChannelMissing(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.GetMessageList(context.Background(), &request.GetMessageListRequest{ChannelId: "404"})
	assert.True(t, errorx.IsCode(err, errorx.CodeChannelNotFound))
}

func TestGroupChannelMessageFromType(t *testing.T) {
	f := newFixture(t)
	groupId := "ch000002"
	require.NoError(t, f.repos.Channel.Create(&model.Channel{
		ChannelId:   groupId,
		ChannelType: channel_type_enum.GROUP,
	}))
	require.NoError(t, f.repos.ChannelMember.Create(&model.ChannelMember{
		ChannelId: groupId, MemberId: f.alice,
		Role: channel_role_enum.OWNER, ChannelType: channel_type_enum.GROUP,
	}))

	resp, err := f.svc.SendMessage(context.Background(), &request.SendMessageRequest{
		ChannelId: groupId,
		AuthorId:  f.alice,
		Content:   "群公告",
	})
	require.NoError(t, err)
	assert.Equal(t, msg_from_type_enum.GROUP, resp.MsgFromType)
}
