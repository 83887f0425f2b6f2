package snowflake

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nova_chat_server/pkg/errorx"
)

func TestNewNodeInvalidConfig(t *testing.T) {
	cases := []struct {
		name        string
		generatorId int64
		partitionId int64
	}{
		{"generator id too large", 32, 0},
		{"generator id negative", -1, 0},
		{"partition id too large", 0, 32},
		{"partition id negative", 0, -1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			node, err := NewNode(tc.generatorId, tc.partitionId)
			require.Error(t, err)
			assert.Nil(t, node)
			assert.Equal(t, errorx.CodeInvalidConfig, errorx.GetCode(err))
		})
	}

	node, err := NewNode(31, 31)
	require.NoError(t, err)
	assert.NotNil(t, node)
}

// 紧密循环生成超过一个序列窗口的 ID，全部唯一且严格递增
func TestNextIDStrictlyIncreasing(t *testing.T) {
	node, err := NewNode(1, 2)
	require.NoError(t, err)

	const n = 5000 // 超过 4096 的序列窗口，必然跨毫秒
	seen := make(map[string]struct{}, n)
	var last int64 = -1
	for i := 0; i < n; i++ {
		id, err := node.NextID()
		require.NoError(t, err)

		_, dup := seen[id]
		require.False(t, dup, "duplicate id %s", id)
		seen[id] = struct{}{}

		val, err := strconv.ParseInt(id, 10, 64)
		require.NoError(t, err)
		require.Greater(t, val, last)
		last = val
	}
}

// 同一毫秒内序列号递增，毫秒前进后序列号归零
func TestNextIDSequenceWithinMillisecond(t *testing.T) {
	node, err := NewNode(3, 4)
	require.NoError(t, err)

	now := Epoch + 1000
	node.timeGen = func() int64 { return now }

	first, err := node.NextID()
	require.NoError(t, err)
	second, err := node.NextID()
	require.NoError(t, err)

	firstVal, _ := strconv.ParseInt(first, 10, 64)
	secondVal, _ := strconv.ParseInt(second, 10, 64)
	assert.Equal(t, firstVal+1, secondVal)
	assert.EqualValues(t, 0, firstVal&sequenceMask)
	assert.EqualValues(t, 1, secondVal&sequenceMask)

	// 时间前进，序列号应重置
	now++
	third, err := node.NextID()
	require.NoError(t, err)
	thirdVal, _ := strconv.ParseInt(third, 10, 64)
	assert.EqualValues(t, 0, thirdVal&sequenceMask)
	assert.Greater(t, thirdVal, secondVal)
}

// 序列号溢出时自旋等待下一毫秒
func TestNextIDSequenceOverflowSpins(t *testing.T) {
	node, err := NewNode(0, 0)
	require.NoError(t, err)

	now := Epoch + 5000
	calls := 0
	node.timeGen = func() int64 {
		calls++
		// 第 4098 次生成会触发溢出自旋，多次读取时钟后前进一毫秒
		if calls > 4100 {
			return now + 1
		}
		return now
	}

	var last int64 = -1
	for i := 0; i <= sequenceMask+1; i++ {
		id, err := node.NextID()
		require.NoError(t, err)
		val, _ := strconv.ParseInt(id, 10, 64)
		require.Greater(t, val, last)
		last = val
	}
	assert.EqualValues(t, 0, last&sequenceMask, "溢出后的第一个 ID 序列号应为 0")
}

func TestNextIDClockRewound(t *testing.T) {
	node, err := NewNode(5, 6)
	require.NoError(t, err)

	now := Epoch + 9000
	node.timeGen = func() int64 { return now }
	_, err = node.NextID()
	require.NoError(t, err)

	// 时钟回拨
	now -= 100
	_, err = node.NextID()
	require.Error(t, err)
	assert.Equal(t, errorx.CodeClockRewound, errorx.GetCode(err))
}

// 不同分区在同一毫秒同一序列号下也不会撞号
func TestPartitionSeparation(t *testing.T) {
	msgNode, err := NewNode(1, 0)
	require.NoError(t, err)
	chNode, err := NewNode(1, 1)
	require.NoError(t, err)

	now := Epoch + 777
	msgNode.timeGen = func() int64 { return now }
	chNode.timeGen = func() int64 { return now }

	msgId, err := msgNode.NextID()
	require.NoError(t, err)
	chId, err := chNode.NextID()
	require.NoError(t, err)
	assert.NotEqual(t, msgId, chId)
}

func TestNextIDConcurrent(t *testing.T) {
	node, err := NewNode(7, 3)
	require.NoError(t, err)

	const workers = 8
	const perWorker = 500
	idCh := make(chan string, workers*perWorker)
	done := make(chan struct{})

	for w := 0; w < workers; w++ {
		go func() {
			for i := 0; i < perWorker; i++ {
				id, err := node.NextID()
				if err != nil {
					t.Error(err)
					return
				}
				idCh <- id
			}
			done <- struct{}{}
		}()
	}
	for w := 0; w < workers; w++ {
		<-done
	}
	close(idCh)

	seen := make(map[string]struct{}, workers*perWorker)
	for id := range idCh {
		_, dup := seen[id]
		require.False(t, dup, "duplicate id %s", id)
		seen[id] = struct{}{}
	}
	assert.Len(t, seen, workers*perWorker)
}
