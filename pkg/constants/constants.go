package constants

import "time"

const (
	CHANNEL_SIZE  = 100   // websocket 连接读写通道大小
	FILE_MAX_SIZE = 50000 // 附件最大大小，单位 KB

	// ONLINE_USER_KEY_PREFIX 在线用户在 Redis 中的键前缀
	// 完整键格式：online_user_<userId>
	ONLINE_USER_KEY_PREFIX = "online_user_"

	// ONLINE_USER_TTL 在线记录过期时间
	// 会话崩溃时靠 TTL 兜底清理，客户端 ping 会续期
	ONLINE_USER_TTL = 2 * time.Hour

	REDIS_TIMEOUT = 1 // redis 缓存超时（分钟）

	// 消息列表分页参数
	DEFAULT_PAGE_SIZE = 20
	MAX_PAGE_SIZE     = 100
)

// 好友相关默认文案，与前端约定保持一致
const (
	DEFAULT_SLOGAN     = "这个人很懒，什么都没有留下"
	DEFAULT_APPLY_MSG  = "请求添加你为好友"
	DEFAULT_ACCEPT_MSG = "我通过了你的朋友验证请求，现在我们可以开始聊天了"
)

// 下发给客户端的事件名
const (
	EventConnectionDenied  = "connection_denied"
	EventConnected         = "connected"
	EventDisconnected      = "disconnected"
	EventPong              = "pong"
	EventPendingFriendList = "pending_friend_request_list"
	EventChannelCreate     = "channel_create"
	EventMessageCreate     = "message_create"
	EventOfferCreate       = "offer_create"
	EventAnswerCreate      = "answer_create"
	EventSwapCandidate     = "swap_candidate"
)

// 客户端上行的事件名
const (
	EventPing         = "ping"
	EventCreateOffer  = "create_offer"
	EventCreateAnswer = "create_answer"
	EventIceCandidate = "ice_candidate"
	EventMessageSend  = "message_send"
)

// 雪花生成器分区号
// 每类实体使用独立分区，避免不同命名空间在同一毫秒内撞号
const (
	PARTITION_MESSAGE    = 0
	PARTITION_CHANNEL    = 1
	PARTITION_ATTACHMENT = 2
)
