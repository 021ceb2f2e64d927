package game

import (
	"math/rand"
	"sync"
	"time"

	"github.com/wfunc/pong-game/internal/game/pong"
)

// Registry 按对局ID索引的会话注册表
type Registry struct {
	mu       sync.RWMutex
	sessions map[uint]*Session
	rng      *rand.Rand
}

// NewRegistry 创建会话注册表
func NewRegistry() *Registry {
	return NewRegistryWithRand(rand.New(rand.NewSource(time.Now().UnixNano())))
}

// NewRegistryWithRand 使用注入的随机源创建注册表，测试用
func NewRegistryWithRand(rng *rand.Rand) *Registry {
	return &Registry{
		sessions: make(map[uint]*Session),
		rng:      rng,
	}
}

// Create 为一场新对局创建并登记会话
// 每个会话持有独立派生的随机源，避免跨会话的并发访问
func (r *Registry) Create(id, leftAuthID, rightAuthID uint, leftName, rightName string, scoreLimit int) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	sessionRand := rand.New(rand.NewSource(r.rng.Int63()))
	session := NewSession(id, leftAuthID, rightAuthID, leftName, rightName, scoreLimit, sessionRand)
	r.sessions[id] = session
	return session
}

// Get 按对局ID查找会话
func (r *Registry) Get(id uint) (*Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	session, ok := r.sessions[id]
	return session, ok
}

// FindByPlayer 查找某认证ID参与且未结束的会话
func (r *Registry) FindByPlayer(authID uint) (*Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, session := range r.sessions {
		if session.SideOf(authID) == pong.SideNone {
			continue
		}
		if !session.IsFinished() {
			return session, true
		}
	}
	return nil, false
}

// Remove 注销会话
func (r *Registry) Remove(id uint) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
}

// Len 当前活跃会话数
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
