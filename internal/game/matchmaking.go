package game

import "sync"

// WaitingEntry 匹配队列中的一个等待者
type WaitingEntry struct {
	UserID   uint
	AuthID   uint
	Username string
	ClientID string
}

// Queue 先进先出的匹配队列
// 同一认证ID最多占据一个席位
type Queue struct {
	mu      sync.Mutex
	entries []WaitingEntry
}

// NewQueue 创建匹配队列
func NewQueue() *Queue {
	return &Queue{}
}

// Enqueue 入队，认证ID已在队列中时返回 false 且队列不变
func (q *Queue) Enqueue(entry WaitingEntry) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	for _, e := range q.entries {
		if e.AuthID == entry.AuthID {
			return false
		}
	}
	q.entries = append(q.entries, entry)
	return true
}

// TryPair 尝试取出最早入队的两人配对，先入队者为左侧
func (q *Queue) TryPair() (left, right WaitingEntry, ok bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.entries) < 2 {
		return WaitingEntry{}, WaitingEntry{}, false
	}
	left, right = q.entries[0], q.entries[1]
	q.entries = append(q.entries[:0], q.entries[2:]...)
	return left, right, true
}

// Remove 按认证ID出队，返回是否命中
func (q *Queue) Remove(authID uint) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	for i, e := range q.entries {
		if e.AuthID == authID {
			q.entries = append(q.entries[:i], q.entries[i+1:]...)
			return true
		}
	}
	return false
}

// RemoveByClient 按连接ID出队，连接断开时调用
func (q *Queue) RemoveByClient(clientID string) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	for i, e := range q.entries {
		if e.ClientID == clientID {
			q.entries = append(q.entries[:i], q.entries[i+1:]...)
			return true
		}
	}
	return false
}

// Contains 检查认证ID是否在队列中
func (q *Queue) Contains(authID uint) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	for _, e := range q.entries {
		if e.AuthID == authID {
			return true
		}
	}
	return false
}

// Len 当前队列长度
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.entries)
}
