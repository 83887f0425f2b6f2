// Package snowflake 提供分布式唯一 ID 生成器
// ID 由 (毫秒时间戳, 分区号, 生成器号, 序列号) 组合而成，整体按时间有序
// 对外编码为十进制字符串，调用方应将其视为不透明的可排序字符串
package snowflake

import (
	"strconv"
	"sync"
	"time"

	"nova_chat_server/pkg/errorx"
)

const (
	// Epoch 所有生成器实例共享的起始毫秒时间戳
	Epoch int64 = 1679824443953

	generatorIdBits = 5
	partitionIdBits = 5
	sequenceBits    = 12

	maxGeneratorId = -1 ^ (-1 << generatorIdBits) // 31
	maxPartitionId = -1 ^ (-1 << partitionIdBits) // 31
	sequenceMask   = -1 ^ (-1 << sequenceBits)    // 4095

	generatorIdShift = sequenceBits
	partitionIdShift = sequenceBits + generatorIdBits
	timestampShift   = sequenceBits + generatorIdBits + partitionIdBits
)

// Node 单个生成器实例
// 一个实例由 (generatorId, partitionId) 唯一标识，实例归属单一进程独占，
// 禁止跨生成器身份共享或复制；同身份双实例属于部署配置错误，系统不负责检测。
// 不同实体类型（消息、频道、附件）各自使用不同 partitionId 的实例。
type Node struct {
	mu sync.Mutex

	generatorId int64
	partitionId int64

	lastTimestamp int64
	sequence      int64

	// timeGen 返回当前毫秒时间戳，测试时可替换
	timeGen func() int64
}

// NewNode 创建生成器实例
// generatorId/partitionId 超出 [0, 31] 时返回 CodeInvalidConfig 错误
func NewNode(generatorId, partitionId int64) (*Node, error) {
	if generatorId < 0 || generatorId > maxGeneratorId {
		return nil, errorx.Newf(errorx.CodeInvalidConfig,
			"generator id can't be greater than %d or less than 0", maxGeneratorId)
	}
	if partitionId < 0 || partitionId > maxPartitionId {
		return nil, errorx.Newf(errorx.CodeInvalidConfig,
			"partition id can't be greater than %d or less than 0", maxPartitionId)
	}
	return &Node{
		generatorId:   generatorId,
		partitionId:   partitionId,
		lastTimestamp: -1,
		timeGen: func() int64 {
			return time.Now().UnixMilli()
		},
	}, nil
}

// NextID 生成下一个 ID（十进制字符串）
// 时钟回拨时返回 CodeClockRewound 错误，绝不复用历史时间窗口内的 ID；
// 出现回拨后需要运维介入，调用方不应自行重试
func (n *Node) NextID() (string, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	timestamp := n.timeGen()
	if timestamp < n.lastTimestamp {
		return "", errorx.Newf(errorx.CodeClockRewound,
			"clock moved backwards, refusing to generate id for %d milliseconds",
			n.lastTimestamp-timestamp)
	}

	if timestamp == n.lastTimestamp {
		// 同一毫秒内序列号自增，溢出则自旋等待下一毫秒
		n.sequence = (n.sequence + 1) & sequenceMask
		if n.sequence == 0 {
			timestamp = n.tilNextMillis(n.lastTimestamp)
		}
	} else {
		n.sequence = 0
	}
	n.lastTimestamp = timestamp

	id := (timestamp-Epoch)<<timestampShift |
		n.partitionId<<partitionIdShift |
		n.generatorId<<generatorIdShift |
		n.sequence
	return strconv.FormatInt(id, 10), nil
}

// tilNextMillis 自旋调用时钟直到毫秒前进
func (n *Node) tilNextMillis(lastTimestamp int64) int64 {
	timestamp := n.timeGen()
	for timestamp <= lastTimestamp {
		timestamp = n.timeGen()
	}
	return timestamp
}
