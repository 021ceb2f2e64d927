package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestQueue_FIFO 测试先进先出配对
func TestQueue_FIFO(t *testing.T) {
	q := NewQueue()

	entries := []WaitingEntry{
		{UserID: 1, AuthID: 101, Username: "a", ClientID: "c1"},
		{UserID: 2, AuthID: 102, Username: "b", ClientID: "c2"},
		{UserID: 3, AuthID: 103, Username: "c", ClientID: "c3"},
		{UserID: 4, AuthID: 104, Username: "d", ClientID: "c4"},
	}
	for _, e := range entries {
		assert.True(t, q.Enqueue(e))
	}
	assert.Equal(t, 4, q.Len())

	// 最早的两人先配对，先入队者为左侧
	left, right, ok := q.TryPair()
	require.True(t, ok)
	assert.Equal(t, uint(101), left.AuthID)
	assert.Equal(t, uint(102), right.AuthID)
	assert.Equal(t, 2, q.Len())

	left, right, ok = q.TryPair()
	require.True(t, ok)
	assert.Equal(t, uint(103), left.AuthID)
	assert.Equal(t, uint(104), right.AuthID)
	assert.Equal(t, 0, q.Len())
}

// TestQueue_NoDoubleEnqueue 测试重复入队不改变队列
func TestQueue_NoDoubleEnqueue(t *testing.T) {
	q := NewQueue()

	assert.True(t, q.Enqueue(WaitingEntry{UserID: 1, AuthID: 101, ClientID: "c1"}))
	// 同一认证ID，不同连接
	assert.False(t, q.Enqueue(WaitingEntry{UserID: 1, AuthID: 101, ClientID: "c9"}))
	assert.Equal(t, 1, q.Len())
	assert.True(t, q.Contains(101))
}

// TestQueue_PairNeedsTwo 测试单人无法配对
func TestQueue_PairNeedsTwo(t *testing.T) {
	q := NewQueue()

	_, _, ok := q.TryPair()
	assert.False(t, ok)

	q.Enqueue(WaitingEntry{AuthID: 101})
	_, _, ok = q.TryPair()
	assert.False(t, ok)
	assert.Equal(t, 1, q.Len())
}

// TestQueue_Remove 测试按认证ID和连接ID出队
func TestQueue_Remove(t *testing.T) {
	q := NewQueue()
	q.Enqueue(WaitingEntry{AuthID: 101, ClientID: "c1"})
	q.Enqueue(WaitingEntry{AuthID: 102, ClientID: "c2"})
	q.Enqueue(WaitingEntry{AuthID: 103, ClientID: "c3"})

	assert.True(t, q.Remove(102))
	assert.False(t, q.Remove(102))
	assert.False(t, q.Contains(102))

	assert.True(t, q.RemoveByClient("c3"))
	assert.False(t, q.RemoveByClient("c3"))
	assert.Equal(t, 1, q.Len())

	// 出队后顺序保持
	q.Enqueue(WaitingEntry{AuthID: 104, ClientID: "c4"})
	left, right, ok := q.TryPair()
	require.True(t, ok)
	assert.Equal(t, uint(101), left.AuthID)
	assert.Equal(t, uint(104), right.AuthID)
}
